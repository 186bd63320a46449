package typewriter

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// Cycler runs a PhraseCycle on a clock. It is safe for concurrent use.
type Cycler struct {
	mu        sync.Mutex
	cycle     *PhraseCycle
	clock     clockwork.Clock
	timer     clockwork.Timer
	running   bool
	gen       uint64
	observers map[int]func(Frame)
	nextID    int
}

// NewCycler creates a stopped Cycler. Call Start to begin ticking.
func NewCycler(phrases []string, timing Timing, clk clockwork.Clock) (*Cycler, error) {
	cycle, err := New(phrases, timing)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Cycler{
		cycle:     cycle,
		clock:     clk,
		observers: make(map[int]func(Frame)),
	}, nil
}

// Start schedules the first tick. Calling Start on a running Cycler does nothing.
func (c *Cycler) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.running = true
	c.gen++
	c.schedule(c.gen)
}

// Stop cancels the pending tick. After Stop returns the display no longer changes.
func (c *Cycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Running reports whether ticks are being scheduled.
func (c *Cycler) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Display returns the current visible text.
func (c *Cycler) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle.Display()
}

// Frame returns the current visible state.
func (c *Cycler) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle.Frame()
}

// Subscribe registers fn to be called after every tick. Callbacks run on the
// clock's goroutine and must not block. The next tick is not scheduled until
// every callback has returned, so frames arrive in order. The returned func
// unsubscribes.
func (c *Cycler) Subscribe(fn func(Frame)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// schedule must be called with c.mu held.
func (c *Cycler) schedule(gen uint64) {
	c.timer = c.clock.AfterFunc(c.cycle.NextDelay(), func() {
		c.tick(gen)
	})
}

func (c *Cycler) tick(gen uint64) {
	c.mu.Lock()
	if !c.running || gen != c.gen {
		c.mu.Unlock()
		return
	}

	c.timer = nil
	c.cycle.Step()
	frame := c.cycle.Frame()
	observers := make([]func(Frame), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(frame)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && gen == c.gen {
		c.schedule(gen)
	}
}
