// internal/repl/repl.go
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"golox/internal/runner"
)

// Recorder stores each executed line.
type Recorder interface {
	Record(ctx context.Context, source, status string) error
}

// Options configure a session.
type Options struct {
	Prompt string
	Banner bool
	Echo   bool
	// History receives every executed line when set.
	History Recorder
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start reads one line at a time from in and runs it against a single
// runner, so variables survive from line to line. An empty line, "exit"
// or end of input ends the session.
func Start(ctx context.Context, in io.Reader, out, diag io.Writer, opts Options) error {
	r := runner.New(out, diag)
	r.SetEcho(opts.Echo)
	return Loop(ctx, r, in, out, opts)
}

// Loop is Start with a caller-supplied runner. Cancelling ctx ends the
// session even while it waits for input.
func Loop(ctx context.Context, r *runner.Runner, in io.Reader, out io.Writer, opts Options) error {
	if opts.Banner {
		fmt.Fprintln(out, "golox REPL | empty line or 'exit' to quit")
	}
	lines, readErr, stop := readLines(in)
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, opts.Prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			if opts.Prompt != "" {
				fmt.Fprintln(out)
			}
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			break
		}
		if line == "" || line == "exit" {
			if opts.Prompt != "" {
				fmt.Fprintln(out)
			}
			return nil
		}

		status := r.Run(line)

		if opts.History != nil {
			if err := opts.History.Record(ctx, line, status.String()); err != nil {
				log.Printf("history: %v", err)
			}
		}
		if status.Err != nil {
			return status.Err
		}
	}
	if opts.Prompt != "" {
		fmt.Fprintln(out)
	}
	return <-readErr
}

// readLines feeds the lines of in to a channel, which is closed at end
// of input. The scanner's error is sent on the second channel before
// that. stop releases the reader when the session ends early.
func readLines(in io.Reader) (<-chan string, <-chan error, func()) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr, func() { close(done) }
}
