package interpreter

import (
	"golox/internal/errors"
	"golox/internal/lexer"
	"golox/internal/value"
)

// Environment is the scope chain as a stack of frames. Frame 0 holds the
// top-level bindings and is never popped; every block pushes one frame
// on entry and pops it on exit.
type Environment struct {
	frames []map[string]value.Value
}

func NewEnvironment() *Environment {
	return &Environment{frames: []map[string]value.Value{{}}}
}

// Push opens a new innermost scope.
func (e *Environment) Push() {
	e.frames = append(e.frames, map[string]value.Value{})
}

// Pop discards the innermost scope. The top-level scope stays.
func (e *Environment) Pop() {
	if len(e.frames) == 1 {
		return
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
}

// Depth is the number of open scopes, counting the top level.
func (e *Environment) Depth() int {
	return len(e.frames)
}

// Define binds name in the innermost scope, replacing any binding it
// already has there.
func (e *Environment) Define(name string, v value.Value) {
	if v == nil {
		v = value.Nil
	}
	e.frames[len(e.frames)-1][name] = v
}

// Get returns the innermost binding of name.
func (e *Environment) Get(name lexer.Token) (value.Value, error) {
	if frame := e.lookup(name.Lexeme); frame != nil {
		return frame[name.Lexeme], nil
	}
	return nil, errors.NewReferenceError(name.Line, name.Lexeme)
}

// Assign overwrites the innermost existing binding of name. It never
// creates one.
func (e *Environment) Assign(name lexer.Token, v value.Value) error {
	frame := e.lookup(name.Lexeme)
	if frame == nil {
		return errors.NewReferenceError(name.Line, name.Lexeme)
	}
	if v == nil {
		v = value.Nil
	}
	frame[name.Lexeme] = v
	return nil
}

func (e *Environment) lookup(name string) map[string]value.Value {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i][name]; ok {
			return e.frames[i]
		}
	}
	return nil
}
