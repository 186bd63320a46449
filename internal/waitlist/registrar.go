package waitlist

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultSimulatedDelay is the confirmation delay of the simulated registrar.
const DefaultSimulatedDelay = 1500 * time.Millisecond

// SimulatedRegistrar stands in for a real backend: every call completes after
// Delay. If Err is set, the call fails with it instead of succeeding.
type SimulatedRegistrar struct {
	Delay time.Duration
	Clock clockwork.Clock
	Err   error
}

// NewSimulatedRegistrar returns a registrar with the default delay on the real clock.
func NewSimulatedRegistrar() *SimulatedRegistrar {
	return &SimulatedRegistrar{Delay: DefaultSimulatedDelay, Clock: clockwork.NewRealClock()}
}

// Register waits for Delay or until ctx is done.
func (s *SimulatedRegistrar) Register(ctx context.Context, email string) error {
	clk := s.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	timer := clk.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-timer.Chan():
		return s.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
