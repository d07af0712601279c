package network

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kr/pretty"
)

func startServer(t *testing.T, srv *Server) string {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/repl"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, source string) Reply {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(source)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	return reply
}

func TestSessionRunsInputs(t *testing.T) {
	url := startServer(t, NewServer("", 1<<16, nil))
	conn := dial(t, url)

	tests := []struct {
		input string
		want  Reply
	}{
		{"var a = 1;", Reply{Output: []string{}, Diagnostics: []string{}, Status: "ok"}},
		{"print a; print a + 1;", Reply{Output: []string{"1", "2"}, Diagnostics: []string{}, Status: "ok"}},
		{"a * 10;", Reply{Output: []string{"10"}, Diagnostics: []string{}, Status: "ok"}},
		{"print a", Reply{
			Output:      []string{},
			Diagnostics: []string{"[ line 1 ] Error at end: Expect ';' after value."},
			Status:      "compile_error",
		}},
		{"print 1; print -nil;", Reply{
			Output:      []string{"1"},
			Diagnostics: []string{"[ line 1 ] Operand must be a number."},
			Status:      "runtime_error",
		}},
	}

	var session string
	for _, test := range tests {
		got := send(t, conn, test.input)
		if session == "" {
			session = got.Session
		}
		if got.Session != session {
			t.Errorf("%q: session changed from %s to %s", test.input, session, got.Session)
		}
		test.want.Session = session
		if diff := pretty.Diff(got, test.want); len(diff) > 0 {
			t.Errorf("%q: %v", test.input, diff)
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := NewServer("", 1<<16, nil)
	url := startServer(t, srv)
	first := dial(t, url)
	second := dial(t, url)

	a := send(t, first, "var secret = 42;")
	got := send(t, second, "print secret;")
	if got.Status != "runtime_error" {
		t.Errorf("second session saw the first one's variable: %+v", got)
	}
	if got.Session == a.Session {
		t.Error("both connections share a session ID")
	}
	if srv.Sessions() != 2 {
		t.Errorf("sessions = %d, want 2", srv.Sessions())
	}
}

func TestReadLimitClosesConnection(t *testing.T) {
	url := startServer(t, NewServer("", 32, nil))
	conn := dial(t, url)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("print \""+strings.Repeat("x", 100)+"\";")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("expected the connection to be closed")
	}
	if !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
		t.Logf("closed with %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(NewServer("", 1024, nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer(ln.Addr().String(), 1024, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	conn := dial(t, "ws://"+ln.Addr().String()+"/repl")
	if reply := send(t, conn, "print 1;"); reply.Status != "ok" {
		t.Fatalf("reply = %+v", reply)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ServeListener: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("live session was not closed")
	}
}
