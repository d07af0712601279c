package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type recorded struct{ source, status string }

type fakeRecorder struct {
	entries []recorded
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, source, status string) error {
	f.entries = append(f.entries, recorded{source, status})
	return f.err
}

func session(t *testing.T, input string, opts Options) (string, string) {
	t.Helper()
	var out, diag bytes.Buffer
	if err := Start(context.Background(), strings.NewReader(input), &out, &diag, opts); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return out.String(), diag.String()
}

func TestStatePersistsBetweenLines(t *testing.T) {
	out, diag := session(t, "var a = 1;\na = a + 1;\nprint a;\n", Options{})
	if out != "2\n" || diag != "" {
		t.Errorf("out = %q, diag = %q", out, diag)
	}
}

func TestErrorsDoNotEndTheSession(t *testing.T) {
	input := "print 1\nprint nope;\nprint 3;\n"
	out, diag := session(t, input, Options{})
	if out != "3\n" {
		t.Errorf("out = %q", out)
	}
	want := "[ line 1 ] Error at end: Expect ';' after value.\n[ line 1 ] Undefined variable 'nope'.\n"
	if diag != want {
		t.Errorf("diag = %q, want %q", diag, want)
	}
}

func TestSessionEnds(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty line", "print 1;\n\nprint 2;\n"},
		{"exit", "print 1;\nexit\nprint 2;\n"},
		{"end of input", "print 1;"},
		{"exit after whitespace line", "print 1;\n   \nexit\nprint 2;\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, _ := session(t, test.input, Options{})
			if out != "1\n" {
				t.Errorf("out = %q, want %q", out, "1\n")
			}
		})
	}
}

func TestEchoAndPrompt(t *testing.T) {
	out, _ := session(t, "1 + 2;\nvar s = \"x\";\ns + s;\n", Options{Prompt: "> ", Echo: true})
	want := "> 3\n> > xx\n> \n"
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

func TestBanner(t *testing.T) {
	out, _ := session(t, "", Options{Banner: true})
	if !strings.HasPrefix(out, "golox REPL") {
		t.Errorf("out = %q", out)
	}
}

func TestHistoryRecording(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	session(t, "var a = 1;\nprint b;\nprint a\n", Options{History: rec})

	want := []recorded{
		{"var a = 1;", "ok"},
		{"print b;", "runtime_error"},
		{"print a", "compile_error"},
	}
	if len(rec.entries) != len(want) {
		t.Fatalf("recorded %d entries, want %d", len(rec.entries), len(want))
	}
	for i := range want {
		if rec.entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, rec.entries[i], want[i])
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := Start(ctx, strings.NewReader("print 1;\n"), &out, &out, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("ran input after cancellation: %q", out.String())
	}
}

func TestCancelWhileWaitingForInput(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var out bytes.Buffer
	go func() { done <- Start(ctx, in, &out, &out, Options{}) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end on cancellation")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestOutputFailureEndsSession(t *testing.T) {
	rec := &fakeRecorder{}
	var diag bytes.Buffer
	err := Start(context.Background(), strings.NewReader("print 1;\nprint 2;\n"), failingWriter{}, &diag, Options{History: rec})
	if err == nil || err.Error() != "broken pipe" {
		t.Errorf("err = %v, want broken pipe", err)
	}
	if len(rec.entries) != 1 || rec.entries[0].status != "runtime_error" {
		t.Errorf("recorded = %+v", rec.entries)
	}
}
