// internal/errors/errors.go
package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ScanError      ErrorType = "ScanError"
	SyntaxError    ErrorType = "SyntaxError"
	TypeError      ErrorType = "TypeError"
	ReferenceError ErrorType = "ReferenceError"
)

// SourceLocation represents a location in source code
type SourceLocation struct {
	File string
	Line int
}

// LoxError is a diagnostic produced by one of the interpreter phases.
// Scan and syntax errors are compile-time; type and reference errors
// happen while executing.
type LoxError struct {
	Type     ErrorType
	Message  string
	Where    string // " at 'x'", " at end" or empty
	Location SourceLocation
	Source   string // The source line where error occurred
}

// Error renders the diagnostic in the single-line driver format.
func (e *LoxError) Error() string {
	if e.IsRuntime() {
		return fmt.Sprintf("[ line %d ] %s", e.Location.Line, e.Message)
	}
	return fmt.Sprintf("[ line %d ] Error%s: %s", e.Location.Line, e.Where, e.Message)
}

// Detail renders the diagnostic followed by the offending source line,
// when one is attached.
func (e *LoxError) Detail() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("  at %s:%d\n", e.Location.File, e.Location.Line))
	}
	if e.Source != "" {
		prefix := fmt.Sprintf("  %d | ", e.Location.Line)
		sb.WriteString(prefix)
		sb.WriteString(e.Source)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)))
		sb.WriteString(strings.Repeat("^", max(1, len(strings.TrimSpace(e.Source)))))
		sb.WriteString("\n")
	}
	return sb.String()
}

// IsRuntime reports whether the error was raised during execution.
func (e *LoxError) IsRuntime() bool {
	return e.Type == TypeError || e.Type == ReferenceError
}

// NewScanError creates a new scan error
func NewScanError(line int, message string) *LoxError {
	return &LoxError{
		Type:     ScanError,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// NewSyntaxError creates a new syntax error. where is the lexeme the
// parser stopped at; atEnd marks the end-of-file token.
func NewSyntaxError(line int, lexeme string, atEnd bool, message string) *LoxError {
	where := fmt.Sprintf(" at '%s'", lexeme)
	if atEnd {
		where = " at end"
	}
	return &LoxError{
		Type:     SyntaxError,
		Message:  message,
		Where:    where,
		Location: SourceLocation{Line: line},
	}
}

// NewTypeError creates a new runtime type error
func NewTypeError(line int, message string) *LoxError {
	return &LoxError{
		Type:     TypeError,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// NewReferenceError creates the error raised for an unbound name
func NewReferenceError(line int, name string) *LoxError {
	return &LoxError{
		Type:     ReferenceError,
		Message:  fmt.Sprintf("Undefined variable '%s'.", name),
		Location: SourceLocation{Line: line},
	}
}

// WithSource adds source code context to the error
func (e *LoxError) WithSource(source string) *LoxError {
	e.Source = source
	return e
}

// WithFile records the file the error came from
func (e *LoxError) WithFile(file string) *LoxError {
	e.Location.File = file
	return e
}
