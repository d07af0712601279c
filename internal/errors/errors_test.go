package errors

import (
	"bytes"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *LoxError
		expected string
		runtime  bool
	}{
		{"scan", NewScanError(3, "Unexpected character."), "[ line 3 ] Error: Unexpected character.", false},
		{"syntax at token", NewSyntaxError(1, "var", false, "Expect ';' after value."), "[ line 1 ] Error at 'var': Expect ';' after value.", false},
		{"syntax at end", NewSyntaxError(9, "", true, "Expect expression."), "[ line 9 ] Error at end: Expect expression.", false},
		{"type", NewTypeError(2, "Operands must be numbers."), "[ line 2 ] Operands must be numbers.", true},
		{"reference", NewReferenceError(4, "x"), "[ line 4 ] Undefined variable 'x'.", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.expected {
				t.Errorf("Error() = %q, want %q", got, test.expected)
			}
			if test.err.IsRuntime() != test.runtime {
				t.Errorf("IsRuntime() = %v, want %v", test.err.IsRuntime(), test.runtime)
			}
		})
	}
}

func TestDetail(t *testing.T) {
	err := NewTypeError(2, "Operand must be a number.").WithFile("a.lox").WithSource("  print -nil;")
	want := "[ line 2 ] Operand must be a number.\n" +
		"  at a.lox:2\n" +
		"  2 |   print -nil;\n" +
		"      ^^^^^^^^^^^\n"
	if got := err.Detail(); got != want {
		t.Errorf("Detail() =\n%q\nwant\n%q", got, want)
	}

	bare := NewScanError(1, "Unterminated string.")
	if got := bare.Detail(); got != bare.Error()+"\n" {
		t.Errorf("Detail() without context = %q", got)
	}
}

func TestReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	r.SetSource("prog.lox", "print 1;\nprint x;")

	r.Report(NewSyntaxError(1, ";", false, "Expect expression."))
	if !r.HadError() || r.HadRuntimeError() {
		t.Fatalf("flags after syntax error: %v %v", r.HadError(), r.HadRuntimeError())
	}
	r.Report(NewReferenceError(2, "x"))
	if !r.HadRuntimeError() {
		t.Fatal("runtime flag not set")
	}
	r.Report(nil)

	errs := r.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[1].Location.File != "prog.lox" || errs[1].Source != "print x;" {
		t.Errorf("context not attached: %+v", errs[1])
	}

	want := "[ line 1 ] Error at ';': Expect expression.\n[ line 2 ] Undefined variable 'x'.\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	r.Reset()
	if r.HadError() || r.HadRuntimeError() || len(r.Errors()) != 0 {
		t.Error("Reset did not clear the reporter")
	}
}

func TestReporterFormat(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	r.Format = func(err *LoxError) string { return strings.ToUpper(err.Message) + "\n\n" }
	r.Report(NewTypeError(1, "Operands must be numbers."))
	if out.String() != "OPERANDS MUST BE NUMBERS.\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestReporterWithoutOutput(t *testing.T) {
	r := NewReporter(nil)
	r.Report(NewScanError(1, "Unexpected character."))
	if !r.HadError() {
		t.Error("flag not set")
	}
}
