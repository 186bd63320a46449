package preview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/minuteai/minute-site/internal/motion"
)

const (
	// pxPerCell converts motion X offsets, authored in CSS pixels, to columns.
	pxPerCell = 10

	// pxPerRow converts the nav scroll threshold to rows.
	pxPerRow = 20

	// maxShift is the widest slide, in columns. Blocks are laid out
	// maxShift columns narrower than the page on each side so a shifted
	// block never wraps.
	maxShift = 4

	// hiddenBelow is the opacity under which a block renders blank.
	hiddenBelow = 0.05

	// markdownBelow is the opacity under which pre-styled markdown stays
	// hidden; it carries its own colours and cannot be faded.
	markdownBelow = 0.5
)

// paint is a motion keyframe resolved for the terminal: opacity becomes a
// colour blend toward the background and X becomes indentation. Y and scale
// have no terminal rendering.
type paint struct {
	opacity float64
	shift   int
}

var solid = paint{opacity: 1}

func paintOf(k motion.Keyframe) paint {
	shift := int(math.Round(k.X / pxPerCell))
	if shift > maxShift {
		shift = maxShift
	}
	if shift < -maxShift {
		shift = -maxShift
	}
	return paint{opacity: motion.Clamp(k.Opacity), shift: shift}
}

func paintsOf(kfs []motion.Keyframe) []paint {
	out := make([]paint, len(kfs))
	for i, k := range kfs {
		out[i] = paintOf(k)
	}
	return out
}

// at returns the i-th paint, or solid when the timeline has fewer tweens.
func at(ps []paint, i int) paint {
	if i < len(ps) {
		return ps[i]
	}
	return solid
}

// fg blends c toward the page background by the paint's opacity.
func (p paint) fg(c lipgloss.Color) lipgloss.Color {
	return blend(BackgroundColor, c, p.opacity)
}

// style returns base with its foreground faded.
func (p paint) style(base lipgloss.Style, c lipgloss.Color) lipgloss.Style {
	return base.Foreground(p.fg(c))
}

func (p paint) visible() bool {
	return p.opacity >= hiddenBelow
}

// place indents every line of block by maxShift plus the paint's shift, or
// blanks it when hidden. The line count never changes.
func (p paint) place(block string) string {
	lines := strings.Split(block, "\n")
	if !p.visible() {
		for i := range lines {
			lines[i] = ""
		}
		return strings.Join(lines, "\n")
	}
	pad := strings.Repeat(" ", maxShift+p.shift)
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// placeMarkdown is place for pre-styled blocks.
func (p paint) placeMarkdown(block string) string {
	if p.opacity < markdownBelow {
		p.opacity = 0
	}
	return p.place(block)
}

// scaled multiplies the paint's opacity by o, for items with their own
// resting opacity.
func (p paint) scaled(o float64) paint {
	p.opacity *= motion.Clamp(o)
	return p
}

// blend mixes from toward to in Lab space; t=1 is to.
func blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return to
	}
	return lipgloss.Color(a.BlendLab(b, motion.Clamp(t)).Clamped().Hex())
}
