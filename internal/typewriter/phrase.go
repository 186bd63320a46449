package typewriter

import (
	"errors"
	"fmt"
	"time"
)

// Direction is the typing direction of a PhraseCycle.
type Direction int

const (
	// Growing reveals one more character per tick.
	Growing Direction = iota
	// Shrinking removes one character per tick.
	Shrinking
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Growing:
		return "growing"
	case Shrinking:
		return "shrinking"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name written by MarshalText.
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "growing":
		*d = Growing
	case "shrinking":
		*d = Shrinking
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// Timing holds the tick intervals of a cycle.
type Timing struct {
	TypingInterval   time.Duration `yaml:"typing_interval" json:"typing_interval"`
	DeletingInterval time.Duration `yaml:"deleting_interval" json:"deleting_interval"`
	Pause            time.Duration `yaml:"pause" json:"pause"`
}

// DefaultTiming returns the intervals used by the landing page.
func DefaultTiming() Timing {
	return Timing{
		TypingInterval:   100 * time.Millisecond,
		DeletingInterval: 50 * time.Millisecond,
		Pause:            1500 * time.Millisecond,
	}
}

// ErrNoPhrases is returned when a cycle is created without phrases.
var ErrNoPhrases = errors.New("typewriter: at least one phrase is required")

// ErrInvalidTiming is returned for non-positive tick intervals.
var ErrInvalidTiming = errors.New("typewriter: intervals must be positive")

// Validate checks that every interval is usable. Pause may be zero.
func (t Timing) Validate() error {
	if t.TypingInterval <= 0 || t.DeletingInterval <= 0 || t.Pause < 0 {
		return ErrInvalidTiming
	}
	return nil
}

// PhraseCycle is the pure typewriter state machine. It is not safe for
// concurrent use; Cycler adds locking and scheduling.
type PhraseCycle struct {
	phrases   [][]rune
	timing    Timing
	index     int
	length    int
	direction Direction
}

// New returns a cycle positioned at phrase 0 with an empty prefix.
func New(phrases []string, timing Timing) (*PhraseCycle, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	if err := timing.Validate(); err != nil {
		return nil, err
	}

	runes := make([][]rune, len(phrases))
	for i, p := range phrases {
		runes[i] = []rune(p)
	}

	return &PhraseCycle{
		phrases:   runes,
		timing:    timing,
		direction: Growing,
	}, nil
}

// Step applies exactly one tick.
func (p *PhraseCycle) Step() {
	full := len(p.phrases[p.index])

	switch p.direction {
	case Growing:
		if p.length < full {
			p.length++
			return
		}
		p.direction = Shrinking
	case Shrinking:
		if p.length > 0 {
			p.length--
			return
		}
		p.direction = Growing
		p.index = (p.index + 1) % len(p.phrases)
	}
}

// NextDelay returns how long to wait before the next Step.
func (p *PhraseCycle) NextDelay() time.Duration {
	full := len(p.phrases[p.index])

	if p.direction == Shrinking {
		return p.timing.DeletingInterval
	}
	if p.length == full && full > 0 {
		return p.timing.Pause
	}
	return p.timing.TypingInterval
}

// Display returns the visible prefix of the active phrase.
func (p *PhraseCycle) Display() string {
	return string(p.phrases[p.index][:p.length])
}

// Index returns the active phrase index.
func (p *PhraseCycle) Index() int {
	return p.index
}

// Direction returns the current direction.
func (p *PhraseCycle) Direction() Direction {
	return p.direction
}

// Phrase returns the full text of the active phrase.
func (p *PhraseCycle) Phrase() string {
	return string(p.phrases[p.index])
}

// Len returns the number of phrases in the cycle.
func (p *PhraseCycle) Len() int {
	return len(p.phrases)
}

// Frame returns a snapshot of the visible state.
func (p *PhraseCycle) Frame() Frame {
	return Frame{
		Text:      p.Display(),
		Index:     p.index,
		Direction: p.direction,
	}
}

// Frame is what observers of a Cycler receive after each tick.
type Frame struct {
	Text      string    `json:"text"`
	Index     int       `json:"index"`
	Direction Direction `json:"direction"`
}
