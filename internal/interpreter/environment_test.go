package interpreter

import (
	"testing"

	"golox/internal/errors"
	"golox/internal/lexer"
	"golox/internal/value"
)

func name(n string) lexer.Token {
	return lexer.Token{Type: lexer.TokenIdent, Lexeme: n, Line: 7}
}

func TestEnvironmentLookupWalksOutward(t *testing.T) {
	env := NewEnvironment()
	env.Define("outer", value.Number(1))
	env.Push()
	env.Push()

	got, err := env.Get(name("outer"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !value.Equal(got, value.Number(1)) {
		t.Errorf("Get = %v, want 1", got)
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", value.Number(1))
	env.Push()
	env.Define("x", value.Number(2))

	if got, _ := env.Get(name("x")); !value.Equal(got, value.Number(2)) {
		t.Errorf("inner x = %v, want 2", got)
	}
	env.Pop()
	if got, _ := env.Get(name("x")); !value.Equal(got, value.Number(1)) {
		t.Errorf("outer x = %v, want 1", got)
	}
}

func TestEnvironmentAssign(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", value.Number(1))
	env.Push()

	if err := env.Assign(name("x"), value.String("set")); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	env.Pop()
	if got, _ := env.Get(name("x")); !value.Equal(got, value.String("set")) {
		t.Errorf("x = %v, want set", got)
	}
}

func TestEnvironmentUndefined(t *testing.T) {
	env := NewEnvironment()
	env.Push()

	_, err := env.Get(name("missing"))
	assertReferenceError(t, err)

	err = env.Assign(name("missing"), value.Number(1))
	assertReferenceError(t, err)

	// Assignment never creates a binding.
	if _, err := env.Get(name("missing")); err == nil {
		t.Error("failed assignment created a binding")
	}
}

func assertReferenceError(t *testing.T, err error) {
	t.Helper()
	loxErr, ok := err.(*errors.LoxError)
	if !ok {
		t.Fatalf("got %T (%v), want *errors.LoxError", err, err)
	}
	if loxErr.Type != errors.ReferenceError {
		t.Errorf("type = %s, want %s", loxErr.Type, errors.ReferenceError)
	}
	if loxErr.Location.Line != 7 {
		t.Errorf("line = %d, want 7", loxErr.Location.Line)
	}
	if loxErr.Message != "Undefined variable 'missing'." {
		t.Errorf("message = %q", loxErr.Message)
	}
}

func TestEnvironmentPopKeepsTopLevel(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", value.Bool(true))
	env.Pop()
	env.Pop()
	if env.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", env.Depth())
	}
	if _, err := env.Get(name("x")); err != nil {
		t.Errorf("top-level binding lost: %v", err)
	}
}

func TestEnvironmentDefineNil(t *testing.T) {
	env := NewEnvironment()
	env.Define("n", nil)
	got, err := env.Get(name("n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != value.KindNil {
		t.Errorf("kind = %s, want nil", got.Kind())
	}
}
