package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/dustin/go-humanize"

	"golox/internal/database"
	"golox/internal/network"
	"golox/internal/repl"
)

func (c *cli) openHistory(ctx context.Context) (*database.Store, error) {
	h := c.cfg.History
	if (h.Driver == "sqlite" || h.Driver == "sqlite3") && !strings.HasPrefix(h.DSN, "file:") {
		if err := os.MkdirAll(filepath.Dir(h.DSN), 0o755); err != nil {
			return nil, err
		}
	}
	return database.Open(ctx, h.Driver, h.DSN)
}

func (c *cli) repl() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := repl.Options{Echo: c.cfg.REPL.Echo}
	if f, ok := c.stdin.(*os.File); ok && repl.IsTerminal(f) {
		opts.Prompt = c.cfg.REPL.Prompt
		opts.Banner = true
	}

	if c.cfg.History.Enabled {
		store, err := c.openHistory(ctx)
		if err != nil {
			log.Printf("history disabled: %v", err)
		} else {
			defer store.Close()
			opts.History = store.NewSession()
		}
	}

	r := c.newRunner()
	r.SetEcho(opts.Echo)
	if err := repl.Loop(ctx, r, c.stdin, c.stdout, opts); err != nil && err != context.Canceled {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) history(args []string) int {
	opts, optind, err := getopt.Getopts(args, "n:")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	limit := c.cfg.History.Limit
	for _, opt := range opts {
		if opt.Option == 'n' {
			limit, err = strconv.Atoi(opt.Value)
			if err != nil || limit < 0 {
				fmt.Fprintln(c.stderr, "invalid -n parameter")
				return 1
			}
		}
	}
	if len(args[optind:]) != 0 {
		fmt.Fprintln(c.stderr, "Usage: golox history [-n N]")
		return 1
	}

	ctx := context.Background()
	store, err := c.openHistory(ctx)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	// Oldest first, like a shell history.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		session := e.Session
		if len(session) > 8 {
			session = session[:8]
		}
		fmt.Fprintf(c.stdout, "%-16s  %s  %-13s  %s\n",
			humanize.Time(e.CreatedAt), session, e.Status, firstLine(e.Source))
	}
	return 0
}

func firstLine(source string) string {
	line, _, found := strings.Cut(source, "\n")
	if found {
		return line + " ..."
	}
	return line
}

func (c *cli) serve(args []string) int {
	opts, optind, err := getopt.Getopts(args, "l:")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	addr := c.cfg.Server.Addr
	for _, opt := range opts {
		if opt.Option == 'l' {
			addr = opt.Value
		}
	}
	if len(args[optind:]) != 0 {
		fmt.Fprintln(c.stderr, "Usage: golox serve [-l addr]")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := network.NewServer(addr, c.cfg.Server.ReadLimit, log.New(c.stderr, "golox: ", log.LstdFlags))
	srv.Echo = c.cfg.REPL.Echo
	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
