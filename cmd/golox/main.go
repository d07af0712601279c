// cmd/golox/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"golox/internal/config"
	"golox/internal/errors"
	"golox/internal/formatter"
	"golox/internal/lexer"
	"golox/internal/runner"
)

const VERSION = "1.0.0"

func main() {
	os.Exit(Main())
}

// Main runs the CLI on the process arguments and returns the exit code.
func Main() int {
	return run(os.Args, os.Stdin, os.Stdout, os.Stderr)
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config

	verbose    bool
	dumpTokens bool
	dumpAST    bool
}

var (
	compileColor = color.New(color.FgRed)
	runtimeColor = color.New(color.FgYellow)
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.SetFlags(0)
	log.SetOutput(stderr)
	log.SetPrefix("golox: ")

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	opts, optind, err := getopt.Getopts(args, "c:C:tavh")
	if err != nil {
		fmt.Fprintln(stderr, err)
		showUsage(stderr)
		return 1
	}
	var configPath, colorMode string
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'C':
			colorMode = opt.Value
		case 't':
			c.dumpTokens = true
		case 'a':
			c.dumpAST = true
		case 'v':
			c.verbose = true
		default: // case 'h':
			showUsage(stdout)
			return 0
		}
	}
	args = args[optind:]

	c.cfg, err = config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if colorMode != "" {
		c.cfg.Color = colorMode
		if err := c.cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	c.setupColor()

	if len(args) == 0 {
		return c.repl()
	}

	switch args[0] {
	case "repl":
		return c.repl()
	case "run":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "Usage: golox run <file>")
			return 1
		}
		return c.runFile(args[1])
	case "check":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "Usage: golox check <file>")
			return 1
		}
		return c.checkSyntax(args[1])
	case "fmt":
		return c.formatCode(args)
	case "history":
		return c.history(args)
	case "serve":
		return c.serve(args)
	case "version":
		fmt.Fprintf(stdout, "golox %s\n", VERSION)
		return 0
	}

	if len(args) > 1 {
		fmt.Fprintln(stderr, "Usage: golox [script]")
		return 1
	}
	return c.runFile(args[0])
}

func showUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: golox [options] [script]
       golox [options] <command> [args]

Options:
  -c file   read settings from file
  -C mode   diagnostics colour: auto, always or never
  -t        print the scanned tokens before running
  -a        print the syntax tree before running
  -v        show the source line with each diagnostic
  -h        show this help

Commands:
  repl            start the interactive prompt (default)
  run <file>      run a script
  check <file>    check a script for syntax errors
  fmt [-n] <file> format a script in place (-n: print to stdout)
                  files with comments are only printed, never rewritten
  history [-n N]  list recent REPL inputs
  serve [-l addr] serve REPL sessions over WebSocket
  version         print the version
`)
}

func (c *cli) setupColor() {
	switch c.cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	default:
		f, ok := c.stderr.(*os.File)
		color.NoColor = color.NoColor || !ok || !isatty.IsTerminal(f.Fd())
	}
}

func (c *cli) formatDiagnostic(err *errors.LoxError) string {
	text := err.Error()
	if c.verbose {
		text = err.Detail()
	}
	if err.IsRuntime() {
		return runtimeColor.Sprint(text)
	}
	return compileColor.Sprint(text)
}

func (c *cli) newRunner() *runner.Runner {
	r := runner.New(c.stdout, c.stderr)
	r.Reporter().Format = c.formatDiagnostic
	return r
}

func (c *cli) readFile(filename string) (string, bool) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error reading file: %v\n", err)
		return "", false
	}
	return string(source), true
}

func (c *cli) runFile(filename string) int {
	source, ok := c.readFile(filename)
	if !ok {
		return 1
	}

	r := c.newRunner()
	r.SetFile(filename)
	stmts, status := r.Parse(source)
	if status.HadError {
		return status.ExitCode()
	}

	if c.dumpTokens {
		tokens, _ := r.Tokens(source)
		for _, tok := range tokens {
			fmt.Fprintln(c.stdout, tok)
		}
	}
	if c.dumpAST {
		fmt.Fprint(c.stdout, formatter.PrintProgram(stmts))
	}

	status = r.Exec(stmts)
	if status.Err != nil {
		log.Printf("output: %v", status.Err)
	}
	return status.ExitCode()
}

func (c *cli) checkSyntax(filename string) int {
	source, ok := c.readFile(filename)
	if !ok {
		return 1
	}
	r := c.newRunner()
	r.SetFile(filename)
	if _, status := r.Parse(source); status.HadError {
		return 1
	}
	fmt.Fprintf(c.stdout, "%s: syntax is valid\n", filename)
	return 0
}

func (c *cli) formatCode(args []string) int {
	opts, optind, err := getopt.Getopts(args, "n")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	toStdout := false
	for _, opt := range opts {
		if opt.Option == 'n' {
			toStdout = true
		}
	}
	args = args[optind:]
	if len(args) != 1 {
		fmt.Fprintln(c.stderr, "Usage: golox fmt [-n] <file>")
		return 1
	}
	filename := args[0]

	source, ok := c.readFile(filename)
	if !ok {
		return 1
	}
	r := c.newRunner()
	r.SetFile(filename)
	stmts, status := r.Parse(source)
	if status.HadError {
		fmt.Fprintln(c.stderr, "Cannot format file with syntax errors")
		return 1
	}

	scanner := lexer.NewScanner(source, nil)
	scanner.ScanTokens()
	if !toStdout && scanner.Comments() > 0 {
		fmt.Fprintf(c.stderr, "%s: formatting would remove %d comment(s); use -n to print the result instead\n",
			filename, scanner.Comments())
		return 1
	}

	formatted := formatter.NewFormatter().Format(stmts)
	if toStdout {
		fmt.Fprint(c.stdout, formatted)
		return 0
	}
	if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
		fmt.Fprintf(c.stderr, "Error writing formatted file: %v\n", err)
		return 1
	}
	fmt.Fprintf(c.stdout, "%s: formatted successfully\n", filename)
	return 0
}
