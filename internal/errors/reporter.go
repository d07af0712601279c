package errors

import (
	"io"
	"strings"
)

// Reporter collects the diagnostics of one run and tracks the two flags
// the driver maps to exit codes. Each diagnostic is written to the
// output as soon as it is reported.
type Reporter struct {
	out             io.Writer
	file            string
	lines           []string
	errs            []*LoxError
	hadError        bool
	hadRuntimeError bool

	// Format renders a diagnostic before it is written. It defaults to
	// (*LoxError).Error.
	Format func(*LoxError) string
}

// NewReporter returns a reporter writing to out. A nil out discards.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{out: out}
}

// SetSource attaches the file name and source text so reported errors
// carry the offending line.
func (r *Reporter) SetSource(file, source string) {
	r.file = file
	r.lines = strings.Split(source, "\n")
}

// Report records err, writes it out and raises the matching flag.
func (r *Reporter) Report(err *LoxError) {
	if err == nil {
		return
	}
	if r.file != "" && err.Location.File == "" {
		err.WithFile(r.file)
	}
	if err.Source == "" && err.Location.Line > 0 && err.Location.Line <= len(r.lines) {
		err.WithSource(r.lines[err.Location.Line-1])
	}

	r.errs = append(r.errs, err)
	if err.IsRuntime() {
		r.hadRuntimeError = true
	} else {
		r.hadError = true
	}

	format := r.Format
	if format == nil {
		format = (*LoxError).Error
	}
	io.WriteString(r.out, strings.TrimRight(format(err), "\n")+"\n")
}

// HadError reports whether a scan or syntax error was reported.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether a runtime error was reported.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Errors returns every diagnostic reported since the last Reset.
func (r *Reporter) Errors() []*LoxError { return r.errs }

// Reset clears the flags and collected diagnostics, e.g. between REPL
// lines. The attached source is dropped too.
func (r *Reporter) Reset() {
	r.errs = nil
	r.hadError = false
	r.hadRuntimeError = false
	r.file = ""
	r.lines = nil
}
