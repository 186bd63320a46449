package server

import (
	"context"

	"github.com/minuteai/minute-site/internal/roster"
	"github.com/minuteai/minute-site/internal/waitlist"
)

type registration struct {
	entry   roster.Entry
	created bool
	snap    waitlist.Snapshot
}

// register runs one submission through a waitlist controller backed by the
// roster. Rejections come back as waitlist sentinel errors; a failed call
// returns the registrar's error.
func (s *Server) register(ctx context.Context, email string) (registration, error) {
	var reg registration

	c := waitlist.NewController(waitlist.RegistrarFunc(func(ctx context.Context, email string) error {
		entry, created, err := s.roster.Add(ctx, email)
		reg.entry, reg.created = entry, created
		return err
	}), waitlist.WithCallTimeout(s.config.SubmitTimeout))
	defer c.Close()

	if err := c.SetEmail(email); err != nil {
		return reg, err
	}
	if err := c.Submit(ctx); err != nil {
		return reg, err
	}

	snap, err := c.Wait(ctx)
	if err != nil {
		// The call may still be running; Close waits for it after return.
		return registration{snap: snap}, err
	}
	reg.snap = snap
	if snap.State == waitlist.Failed {
		return reg, snap.Err
	}
	return reg, nil
}
