package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/minuteai/minute-site/internal/typewriter"
)

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dialTypewriter(t *testing.T, base string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(base+"/ws/typewriter", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("upgrade response %s = %q is not a UUID", RequestIDHeader, resp.Header.Get(RequestIDHeader))
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) typewriter.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f typewriter.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return f
}

// tick waits until n typewriter ticks are pending, then advances the clock by d.
func tick(t *testing.T, clk *clockwork.FakeClock, n int, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := clk.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("waiting for %d pending ticks: %v", n, err)
	}
	clk.Advance(d)
}

func TestTypewriterStream(t *testing.T) {
	s, clk := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialTypewriter(t, wsURL(ts))
	defer conn.Close()

	first := readFrame(t, conn)
	if first != (typewriter.Frame{Direction: typewriter.Growing}) {
		t.Fatalf("first frame = %+v, want an empty typing frame", first)
	}

	if s.hub.size() != 1 {
		t.Fatalf("hub size = %d, want 1", s.hub.size())
	}

	tick(t, clk, 1, 100*time.Millisecond)
	if got := readFrame(t, conn); got.Text != "F" {
		t.Errorf("frame after one tick = %+v, want %q", got, "F")
	}
	tick(t, clk, 1, 100*time.Millisecond)
	if got := readFrame(t, conn); got.Text != "Fi" {
		t.Errorf("frame after two ticks = %+v, want %q", got, "Fi")
	}
}

func TestTypewriterStreamPerVisitor(t *testing.T) {
	s, clk := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	early := dialTypewriter(t, wsURL(ts))
	defer early.Close()
	readFrame(t, early)
	tick(t, clk, 1, 100*time.Millisecond)
	if got := readFrame(t, early).Text; got != "F" {
		t.Fatalf("early visitor frame = %q, want %q", got, "F")
	}

	late := dialTypewriter(t, wsURL(ts))
	defer late.Close()
	if got := readFrame(t, late); got != (typewriter.Frame{}) {
		t.Fatalf("late visitor first frame = %+v, want the start of the cycle", got)
	}

	tick(t, clk, 2, 100*time.Millisecond)
	if got := readFrame(t, early).Text; got != "Fi" {
		t.Errorf("early visitor frame = %q, want %q", got, "Fi")
	}
	if got := readFrame(t, late).Text; got != "F" {
		t.Errorf("late visitor frame = %q, want %q", got, "F")
	}

	// Disconnecting stops that visitor's typewriter only.
	_ = early.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.hub.size() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("hub size = %d after disconnect, want 1", s.hub.size())
		}
		time.Sleep(10 * time.Millisecond)
	}
	tick(t, clk, 1, 100*time.Millisecond)
	if got := readFrame(t, late).Text; got != "Fi" {
		t.Errorf("late visitor frame = %q, want %q", got, "Fi")
	}
}

func TestTypewriterStreamShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialTypewriter(t, wsURL(ts))
	defer conn.Close()
	readFrame(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want going-away close", err)
	}
}

func TestTypewriterRejectsPlainGET(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), "GET", "/ws/typewriter", "", "")
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400 for a non-upgrade request", rec.Code)
	}
}

func TestStreamRun(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Unix(0, 0))
	timing := typewriter.Timing{TypingInterval: time.Second, DeletingInterval: time.Second, Pause: time.Second}
	st := newStream()

	if err := st.run([]string{"ab"}, timing, clk); err != nil {
		t.Fatal(err)
	}
	first := st.cycler
	if got := <-st.frames; got != (typewriter.Frame{}) {
		t.Errorf("first frame = %+v", got)
	}

	if err := st.run([]string{"cd"}, timing, clk); err != nil {
		t.Fatal(err)
	}
	if first.Running() {
		t.Error("replaced typewriter still running")
	}
	<-st.frames

	// Frames from a replaced typewriter are dropped.
	st.deliver(first, typewriter.Frame{Text: "a"})
	if len(st.frames) != 0 {
		t.Errorf("stale frame queued")
	}

	// A full stream drops frames instead of blocking the typewriter.
	for i := 0; i < streamBuffer*2; i++ {
		st.deliver(st.cycler, typewriter.Frame{Index: i})
	}
	if len(st.frames) != streamBuffer {
		t.Errorf("buffered = %d, want %d", len(st.frames), streamBuffer)
	}

	current := st.cycler
	st.close()
	st.close()
	if current.Running() {
		t.Error("typewriter still running after close")
	}
	if err := st.run([]string{"ef"}, timing, clk); err != nil {
		t.Errorf("run() after close error = %v", err)
	}
	for range st.frames {
	}
}

func TestHub(t *testing.T) {
	h := newHub()

	st := h.join()
	if h.size() != 1 {
		t.Errorf("size() = %d", h.size())
	}
	h.leave(st)
	h.leave(st)
	if h.size() != 0 {
		t.Errorf("size() after leave = %d", h.size())
	}
	if _, ok := <-st.frames; ok {
		t.Error("leave() should close the stream")
	}

	other := h.join()
	if got := len(h.snapshot()); got != 1 {
		t.Errorf("snapshot() = %d streams, want 1", got)
	}
	h.close()
	h.close()
	for range other.frames {
	}

	late := h.join()
	if _, ok := <-late.frames; ok {
		t.Error("join() after close should return a closed stream")
	}
}
