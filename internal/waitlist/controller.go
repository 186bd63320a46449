package waitlist

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/minuteai/minute-site/internal/logging"
)

// State is the submission state of a Controller.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of a Controller.
type Snapshot struct {
	State    State
	Email    string
	Err      error // last registration failure, set only in Failed
	Attempts int   // registration calls started so far
}

// ValidEmail is the minimal format check: a non-empty local part, an "@",
// and a non-empty segment after the last "@". Anything stricter is left to
// the input surface.
func ValidEmail(v string) bool {
	at := strings.LastIndex(v, "@")
	return at > 0 && at < len(v)-1
}

// Registrar registers an address with the waitlist. Only a Controller calls it.
type Registrar interface {
	Register(ctx context.Context, email string) error
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc func(ctx context.Context, email string) error

// Register calls f.
func (f RegistrarFunc) Register(ctx context.Context, email string) error {
	return f(ctx, email)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCallTimeout bounds each registration call.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.callTimeout = d
	}
}

// Controller is the waitlist submission state machine. It is safe for
// concurrent use.
type Controller struct {
	mu          sync.Mutex
	registrar   Registrar
	callTimeout time.Duration

	state    State
	email    string
	lastErr  error
	attempts int
	closed   bool

	cancel context.CancelFunc
	done   chan struct{} // non-nil while a call is in flight

	observers map[int]func(Snapshot)
	nextID    int
}

// NewController returns an Idle controller that registers through r.
func NewController(r Registrar, opts ...Option) *Controller {
	c := &Controller{
		registrar: r,
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetEmail stores the raw input value. It is accepted while Idle, and while
// Failed, where editing the address returns the form to Idle.
func (c *Controller) SetEmail(v string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	switch c.state {
	case Idle:
		if c.email == v {
			c.mu.Unlock()
			return nil
		}
		c.email = v
	case Failed:
		c.email = v
		c.state = Idle
		c.lastErr = nil
	default:
		c.mu.Unlock()
		return ErrEmailLocked
	}

	snap, observers := c.snapshotLocked(), c.observersLocked()
	c.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Submit starts a registration call for the current email.
//
// It returns ErrInvalidEmail if the value fails ValidEmail,
// ErrDuplicateSubmission while a call is in flight, and ErrAlreadyRegistered
// once Succeeded. In every such case the state is unchanged and the
// registrar is not called. Submit does not wait for the call; use Wait or
// Subscribe to observe the outcome.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkSubmittableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if !ValidEmail(c.email) {
		c.mu.Unlock()
		return ErrInvalidEmail
	}
	return c.startLocked(ctx)
}

// Retry resubmits the retained email after a failed call.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != Failed {
		c.mu.Unlock()
		return ErrNotFailed
	}
	return c.startLocked(ctx)
}

func (c *Controller) checkSubmittableLocked() error {
	if c.closed {
		return ErrClosed
	}
	switch c.state {
	case Submitting:
		return ErrDuplicateSubmission
	case Succeeded:
		return ErrAlreadyRegistered
	}
	return nil
}

// startLocked must be called with c.mu held; it releases it.
func (c *Controller) startLocked(ctx context.Context) error {
	from := c.state
	email := c.email

	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if c.callTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, c.callTimeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}
	done := make(chan struct{})

	c.state = Submitting
	c.lastErr = nil
	c.attempts++
	c.cancel = cancel
	c.done = done

	snap, observers := c.snapshotLocked(), c.observersLocked()
	c.mu.Unlock()

	logging.LogWaitlistTransition(from.String(), Submitting.String(), email, nil)
	notify(observers, snap)

	go c.call(callCtx, cancel, done, email)
	return nil
}

func (c *Controller) call(ctx context.Context, cancel context.CancelFunc, done chan struct{}, email string) {
	err := c.registrar.Register(ctx, email)
	cancel()

	c.mu.Lock()
	if c.closed || c.done != done {
		c.done = nil
		c.mu.Unlock()
		close(done)
		return
	}

	if err != nil {
		c.state = Failed
		c.lastErr = err
	} else {
		c.state = Succeeded
		c.email = ""
	}
	c.cancel = nil
	c.done = nil

	snap, observers := c.snapshotLocked(), c.observersLocked()
	c.mu.Unlock()
	close(done)

	logging.LogWaitlistTransition(Submitting.String(), snap.State.String(), email, err)
	notify(observers, snap)
}

// Wait blocks until no registration call is in flight and returns the
// resulting snapshot.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
	return c.Snapshot(), nil
}

// Close cancels any in-flight call, waits for it to return, and discards its
// outcome. Later operations return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancel, done := c.cancel, c.done
	c.observers = make(map[int]func(Snapshot))
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Email returns the current email value.
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// Snapshot returns the current state, email, and last failure together.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be called after every change. Callbacks may run
// on the registration goroutine and must not call back into a blocking
// Controller method. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
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

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:    c.state,
		Email:    c.email,
		Err:      c.lastErr,
		Attempts: c.attempts,
	}
}

func (c *Controller) observersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(c.observers))
	for _, fn := range c.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
