// Package network serves REPL sessions over WebSocket.
package network

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tevino/abool/v2"
	"golang.org/x/sync/errgroup"

	"golox/internal/runner"
)

// Reply is the JSON frame sent back for every input frame.
type Reply struct {
	Session     string   `json:"session"`
	Output      []string `json:"output"`
	Diagnostics []string `json:"diagnostics"`
	Status      string   `json:"status"`
}

// Session is one connected client with its own interpreter state.
type Session struct {
	ID     string
	Conn   *websocket.Conn
	runner *runner.Runner
	out    bytes.Buffer
	diag   bytes.Buffer
	mu     sync.Mutex
	closed bool
}

// Server accepts WebSocket clients on /repl. Sessions never share
// variables.
type Server struct {
	Addr      string
	ReadLimit int64
	Echo      bool
	Logger    *log.Logger

	upgrader websocket.Upgrader
	closing  *abool.AtomicBool
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewServer returns a server for addr. A nil logger discards.
func NewServer(addr string, readLimit int64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		Addr:      addr,
		ReadLimit: readLimit,
		Echo:      true,
		Logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		closing:  abool.New(),
		sessions: make(map[string]*Session),
	}
}

// Handler routes /repl and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repl", s.handleREPL)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	return mux
}

// Serve listens on Addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts the HTTP
// server down and closes every live session.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Printf("listening on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.closing.Set()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	})
	return g.Wait()
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) handleREPL(w http.ResponseWriter, r *http.Request) {
	if s.closing.IsSet() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Printf("upgrade failed: %v", err)
		return
	}
	if s.ReadLimit > 0 {
		conn.SetReadLimit(s.ReadLimit)
	}

	session := s.newSession(conn)
	defer s.removeSession(session)
	s.Logger.Printf("session %s connected from %s", session.ID, r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Logger.Printf("session %s: %v", session.ID, err)
			}
			return
		}
		if err := session.write(session.eval(string(data))); err != nil {
			s.Logger.Printf("session %s: write failed: %v", session.ID, err)
			return
		}
	}
}

func (s *Server) newSession(conn *websocket.Conn) *Session {
	session := &Session{ID: uuid.NewString(), Conn: conn}
	session.runner = runner.New(&session.out, &session.diag)
	session.runner.SetEcho(s.Echo)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

func (s *Server) removeSession(session *Session) {
	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()
	session.close(websocket.CloseNormalClosure)
	s.Logger.Printf("session %s closed", session.ID)
}

func (s *Server) closeAll() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.close(websocket.CloseGoingAway)
	}
}

// eval runs one input frame. Only the read loop calls it.
func (sess *Session) eval(source string) Reply {
	sess.out.Reset()
	sess.diag.Reset()
	status := sess.runner.Run(source)
	return Reply{
		Session:     sess.ID,
		Output:      splitLines(sess.out.String()),
		Diagnostics: splitLines(sess.diag.String()),
		Status:      status.String(),
	}
}

func (sess *Session) write(reply Reply) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return errors.New("session is closed")
	}
	return sess.Conn.WriteJSON(reply)
}

func (sess *Session) close(code int) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return
	}
	sess.closed = true
	sess.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""), time.Now().Add(time.Second))
	sess.Conn.Close()
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
