// Package database keeps the REPL history in any database/sql backend
// the CLI knows a driver for.
package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Entry is one executed REPL input.
type Entry struct {
	ID        int64
	Session   string
	Source    string
	Digest    string
	Status    string
	CreatedAt time.Time
}

// Store records and lists history entries.
type Store struct {
	db      *sql.DB
	dialect *dialect
	now     func() time.Time
}

type dialect struct {
	driver      string
	placeholder func(n int) string
	schema      []string
	last        string
	recent      string
}

func questionMark(int) string { return "?" }

var dialects = map[string]*dialect{
	"sqlite": {
		driver:      "sqlite",
		placeholder: questionMark,
		schema: []string{`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			source TEXT NOT NULL,
			digest TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL)`},
		last:   `SELECT digest FROM history WHERE session_id = ? ORDER BY id DESC LIMIT 1`,
		recent: `SELECT id, session_id, source, digest, status, created_at FROM history ORDER BY id DESC LIMIT ?`,
	},
	"postgres": {
		driver:      "postgres",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		schema: []string{`CREATE TABLE IF NOT EXISTS history (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			source TEXT NOT NULL,
			digest TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at BIGINT NOT NULL)`},
		last:   `SELECT digest FROM history WHERE session_id = ? ORDER BY id DESC LIMIT 1`,
		recent: `SELECT id, session_id, source, digest, status, created_at FROM history ORDER BY id DESC LIMIT ?`,
	},
	"mysql": {
		driver:      "mysql",
		placeholder: questionMark,
		schema: []string{`CREATE TABLE IF NOT EXISTS history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			source TEXT NOT NULL,
			digest CHAR(64) NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at BIGINT NOT NULL)`},
		last:   `SELECT digest FROM history WHERE session_id = ? ORDER BY id DESC LIMIT 1`,
		recent: `SELECT id, session_id, source, digest, status, created_at FROM history ORDER BY id DESC LIMIT ?`,
	},
	"sqlserver": {
		driver:      "sqlserver",
		placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
		schema: []string{`IF OBJECT_ID('history', 'U') IS NULL CREATE TABLE history (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			session_id NVARCHAR(36) NOT NULL,
			source NVARCHAR(MAX) NOT NULL,
			digest CHAR(64) NOT NULL,
			status NVARCHAR(16) NOT NULL,
			created_at BIGINT NOT NULL)`},
		last:   `SELECT TOP 1 digest FROM history WHERE session_id = ? ORDER BY id DESC`,
		recent: `SELECT TOP (?) id, session_id, source, digest, status, created_at FROM history ORDER BY id DESC`,
	},
}

// Drivers lists the accepted driver names, aliases included.
func Drivers() []string {
	return []string{"sqlite", "sqlite3", "postgres", "postgresql", "mysql", "sqlserver", "mssql"}
}

func lookupDialect(driver string) (*dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		driver = "sqlite"
	case "postgres", "postgresql":
		driver = "postgres"
	case "sqlserver", "mssql":
		driver = "sqlserver"
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.Errorf("unsupported database type: %s", driver)
	}
	return d, nil
}

// rebind rewrites ? placeholders for the dialect.
func (d *dialect) rebind(query string) string {
	if d.placeholder(1) == "?" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(d.placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Open connects to the history database and creates the table when it
// does not exist yet.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if d.driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to create history table")
		}
	}
	return &Store{db: db, dialect: d, now: time.Now}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest is the hex BLAKE3 hash used to spot repeated inputs.
func Digest(source string) string {
	sum := blake3.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Record appends source to the session's history. An input identical
// to the session's previous entry is not stored again.
func (s *Store) Record(ctx context.Context, session, source, status string) error {
	digest := Digest(source)

	var last string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(s.dialect.last), session).Scan(&last)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return errors.Wrap(err, "failed to read last entry")
	case last == digest:
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		s.dialect.rebind(`INSERT INTO history (session_id, source, digest, status, created_at) VALUES (?, ?, ?, ?, ?)`),
		session, source, digest, status, s.now().UnixNano())
	return errors.Wrapf(err, "failed to record entry for session %s", session)
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(s.dialect.recent), limit)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Source, &e.Digest, &e.Status, &created); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "failed to read rows")
}

// Session records entries under one generated session ID.
type Session struct {
	ID    string
	store *Store
}

// NewSession starts a session with a fresh UUID.
func (s *Store) NewSession() *Session {
	return &Session{ID: uuid.NewString(), store: s}
}

// Record appends source with the session's ID.
func (s *Session) Record(ctx context.Context, source, status string) error {
	return s.store.Record(ctx, s.ID, source, status)
}
