// Package config loads the golox settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds every setting the CLI reads.
type Config struct {
	Color   string        `yaml:"color"`
	REPL    REPLConfig    `yaml:"repl"`
	History HistoryConfig `yaml:"history"`
	Server  ServerConfig  `yaml:"server"`
}

type REPLConfig struct {
	Prompt string `yaml:"prompt"`
	Echo   bool   `yaml:"echo"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Limit   int    `yaml:"limit"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	ReadLimit int64  `yaml:"read_limit"`
}

// ValidationError lists every problem found in a config.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Home is the directory holding the config file and the default history
// database: $GOLOX_HOME, else ~/.golox.
func Home() string {
	if home := os.Getenv("GOLOX_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".golox"
	}
	return filepath.Join(userHome, ".golox")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Home(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Color: ColorAuto,
		REPL: REPLConfig{
			Prompt: ">>> ",
			Echo:   true,
		},
		History: HistoryConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(Home(), "history.db"),
			Limit:  20,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:7878",
			ReadLimit: 64 << 10,
		},
	}
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing default file is not an error; a missing explicit one is.
// Values in the file override the defaults, then the environment
// overrides both.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := decode(file, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if dsn := os.Getenv("GOLOX_HISTORY_DSN"); dsn != "" {
		c.History.DSN = dsn
	}
	if addr := os.Getenv("GOLOX_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// Validate checks the enumerated fields and limits.
func (c *Config) Validate() error {
	var errs ValidationError
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("color must be auto, always or never, got %q", c.Color))
	}
	switch c.History.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql", "mysql", "sqlserver", "mssql":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("history.driver %q is not supported", c.History.Driver))
	}
	if c.History.Enabled && c.History.DSN == "" {
		errs.Issues = append(errs.Issues, "history.dsn must be set when history is enabled")
	}
	if c.History.Limit < 0 {
		errs.Issues = append(errs.Issues, "history.limit must not be negative")
	}
	if c.Server.Addr == "" {
		errs.Issues = append(errs.Issues, "server.addr must be set")
	}
	if c.Server.ReadLimit <= 0 {
		errs.Issues = append(errs.Issues, "server.read_limit must be positive")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
