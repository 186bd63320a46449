package preview

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
)

// DefaultMarkdownStyle is the glamour standard style used for card copy.
const DefaultMarkdownStyle = "dark"

// markdown renders card copy with glamour, caching by source for the
// current wrap width.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdown(style string) *markdown {
	if style == "" {
		style = DefaultMarkdownStyle
	}
	return &markdown{style: style, cache: make(map[string]string)}
}

// render returns src rendered for width columns. On a renderer error the
// source is returned unstyled.
func (md *markdown) render(src string, width int) string {
	if width < 20 {
		width = 20
	}
	if md.renderer == nil || md.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(md.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logging.Warn("Failed to create markdown renderer", zap.Error(err))
			return src
		}
		md.renderer = r
		md.width = width
		md.cache = make(map[string]string)
	}

	if out, ok := md.cache[src]; ok {
		return out
	}
	out, err := md.renderer.Render(src)
	if err != nil {
		logging.Warn("Failed to render markdown", zap.Error(err))
		return src
	}
	out = strings.Trim(out, "\n")
	md.cache[src] = out
	return out
}
