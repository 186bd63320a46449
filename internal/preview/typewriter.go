package preview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/typewriter"
)

// typeTickMsg advances the local phrase cycle. gen tags the tick chain so a
// restarted cycle ignores ticks scheduled by the previous one.
type typeTickMsg struct {
	gen int
}

// animTickMsg advances the ambient animation clock (floating thoughts).
type animTickMsg time.Time

// streamOpenMsg reports a connected typewriter stream.
type streamOpenMsg struct {
	conn *websocket.Conn
}

// frameMsg is one frame received from the stream.
type frameMsg typewriter.Frame

// streamClosedMsg reports the stream ended; the preview falls back to the
// local cycle.
type streamClosedMsg struct {
	err error
}

const (
	animInterval = 100 * time.Millisecond
	dialTimeout  = 5 * time.Second
)

func typeTick(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return typeTickMsg{gen: gen}
	})
}

func animTick() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// dialStream connects to a site server's typewriter stream.
func dialStream(url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			logging.Warn("Typewriter stream unavailable", zap.String("url", url), zap.Error(err))
			return streamClosedMsg{err: err}
		}
		logging.Info("Typewriter stream connected", zap.String("url", url))
		return streamOpenMsg{conn: conn}
	}
}

// readFrame waits for the next frame on conn.
func readFrame(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		var f typewriter.Frame
		if err := conn.ReadJSON(&f); err != nil {
			return streamClosedMsg{err: err}
		}
		return frameMsg(f)
	}
}
