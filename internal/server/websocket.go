package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/typewriter"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Frames buffered per stream; a slow reader misses frames past this
	streamBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// stream is one websocket visitor. Each stream runs its own typewriter so
// every visitor starts at the first phrase with an empty prefix.
type stream struct {
	frames chan typewriter.Frame

	mu     sync.Mutex
	cycler *typewriter.Cycler
	closed bool
}

func newStream() *stream {
	return &stream{frames: make(chan typewriter.Frame, streamBuffer)}
}

// run replaces the stream's typewriter with a fresh one cycling phrases.
// The first frame queued afterwards is the new cycle's empty frame.
func (st *stream) run(phrases []string, timing typewriter.Timing, clk clockwork.Clock) error {
	cycler, err := typewriter.NewCycler(phrases, timing, clk)
	if err != nil {
		return err
	}
	cycler.Subscribe(func(f typewriter.Frame) {
		st.deliver(cycler, f)
	})

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return nil
	}
	if st.cycler != nil {
		st.cycler.Stop()
	}
	st.cycler = cycler
	cycler.Start()
	st.queue(cycler.Frame())
	return nil
}

// deliver queues a frame from from, unless from has since been replaced.
func (st *stream) deliver(from *typewriter.Cycler, f typewriter.Frame) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed || st.cycler != from {
		return
	}
	st.queue(f)
}

// queue must be called with st.mu held. A slow reader misses frames.
func (st *stream) queue(f typewriter.Frame) {
	select {
	case st.frames <- f:
	default:
	}
}

// close stops the typewriter and closes frames.
func (st *stream) close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return
	}
	st.closed = true
	if st.cycler != nil {
		st.cycler.Stop()
	}
	close(st.frames)
}

// hub tracks open streams so content reloads and shutdown reach all of them.
type hub struct {
	mu      sync.Mutex
	streams map[*stream]struct{}
	closed  bool
}

func newHub() *hub {
	return &hub{streams: make(map[*stream]struct{})}
}

// join registers a new stream. After close it returns a closed stream.
func (h *hub) join() *stream {
	st := newStream()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		st.close()
		return st
	}
	h.streams[st] = struct{}{}
	return st
}

func (h *hub) leave(st *stream) {
	h.mu.Lock()
	delete(h.streams, st)
	h.mu.Unlock()
	st.close()
}

func (h *hub) snapshot() []*stream {
	h.mu.Lock()
	defer h.mu.Unlock()
	streams := make([]*stream, 0, len(h.streams))
	for st := range h.streams {
		streams = append(streams, st)
	}
	return streams
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for st := range h.streams {
		st.close()
	}
	h.streams = make(map[*stream]struct{})
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams)
}

// handleTypewriter streams typewriter frames as JSON text messages. Every
// connection gets its own cycle; the first message is its empty frame.
func (s *Server) handleTypewriter(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())
	conn, err := upgrader.Upgrade(w, r, http.Header{RequestIDHeader: {requestID}})
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return
	}
	remoteAddr := r.RemoteAddr
	logging.LogConnection(remoteAddr, "websocket_upgraded")

	st := s.hub.join()
	if err := s.runTypewriter(st); err != nil {
		logging.Error("Failed to start typewriter", zap.String("request_id", requestID), zap.Error(err))
		s.hub.leave(st)
	}
	done := make(chan struct{})
	go readPump(conn, done)

	writePump(conn, remoteAddr, st.frames, done)

	s.hub.leave(st)
	_ = conn.Close()
	logging.LogConnection(remoteAddr, "websocket_closed")
}

// readPump consumes control frames so pongs are seen, and closes done when
// the peer goes away.
func readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, remoteAddr string, frames <-chan typewriter.Frame, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-frames:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				logging.Error("Failed to encode frame", zap.Error(err))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			logging.LogWebSocketMessage(remoteAddr, "sent", websocket.TextMessage, data)

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
