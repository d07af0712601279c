// Package runner wires the scanner, parser and interpreter into the
// scan, parse, execute pipeline shared by the CLI, the REPL and the
// network server.
package runner

import (
	"io"

	"golox/internal/errors"
	"golox/internal/interpreter"
	"golox/internal/lexer"
	"golox/internal/parser"
)

// Status summarizes one run.
type Status struct {
	HadError        bool
	HadRuntimeError bool
	// Err is a failure outside the program itself, such as a write to
	// the output that did not succeed. Execution stopped where it
	// happened.
	Err error
}

// OK reports whether the run finished without diagnostics or failures.
func (s Status) OK() bool {
	return !s.HadError && !s.HadRuntimeError && s.Err == nil
}

// String names the outcome: "ok", "compile_error" or "runtime_error".
func (s Status) String() string {
	switch {
	case s.HadError:
		return "compile_error"
	case s.HadRuntimeError, s.Err != nil:
		return "runtime_error"
	default:
		return "ok"
	}
}

// ExitCode maps the outcome to the driver's exit status.
func (s Status) ExitCode() int {
	switch {
	case s.HadError:
		return 1
	case s.HadRuntimeError, s.Err != nil:
		return 2
	default:
		return 0
	}
}

// Runner owns one interpreter, so every Run on the same Runner shares
// the top-level environment.
type Runner struct {
	interp   *interpreter.Interpreter
	reporter *errors.Reporter
	file     string
}

// New returns a runner printing program output to out and diagnostics
// to diag.
func New(out, diag io.Writer) *Runner {
	reporter := errors.NewReporter(diag)
	return &Runner{
		interp:   interpreter.New(out, reporter),
		reporter: reporter,
	}
}

// Reporter returns the diagnostics collector, e.g. to install a Format.
func (r *Runner) Reporter() *errors.Reporter {
	return r.reporter
}

// SetFile names the source file attached to diagnostics.
func (r *Runner) SetFile(name string) {
	r.file = name
}

// SetEcho turns on printing the value of a lone expression statement.
func (r *Runner) SetEcho(echo bool) {
	r.interp.SetEcho(echo)
}

// Run executes source. Nothing is executed when scanning or parsing
// reported an error. The flags are reset first, so each call reports
// only its own outcome.
func (r *Runner) Run(source string) Status {
	stmts, status := r.Parse(source)
	if status.HadError {
		return status
	}
	return r.Exec(stmts)
}

// Exec interprets statements returned by Parse.
// Diagnostics were already reported; any other error lands in
// Status.Err.
func (r *Runner) Exec(stmts []parser.Stmt) Status {
	err := r.interp.Interpret(stmts)
	status := r.status()
	if _, ok := err.(*errors.LoxError); err != nil && !ok {
		status.Err = err
	}
	return status
}

// Tokens scans source and returns every token, EOF included.
func (r *Runner) Tokens(source string) ([]lexer.Token, Status) {
	r.begin(source)
	tokens := lexer.NewScanner(source, r.reporter).ScanTokens()
	return tokens, r.status()
}

// Parse scans and parses source without executing it.
func (r *Runner) Parse(source string) ([]parser.Stmt, Status) {
	tokens, _ := r.Tokens(source)
	stmts := parser.NewParser(tokens, r.reporter).Parse()
	return stmts, r.status()
}

func (r *Runner) begin(source string) {
	r.reporter.Reset()
	r.reporter.SetSource(r.file, source)
}

func (r *Runner) status() Status {
	return Status{
		HadError:        r.reporter.HadError(),
		HadRuntimeError: r.reporter.HadRuntimeError(),
	}
}
