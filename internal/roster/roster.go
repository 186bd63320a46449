// Package roster keeps the server-side waitlist in memory for the lifetime
// of the process. Nothing is written to disk.
package roster

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minuteai/minute-site/internal/waitlist"
)

// Entry is one address on the waitlist.
type Entry struct {
	ID       string
	Email    string // as submitted
	Position int    // 1-based order of first registration
	JoinedAt time.Time
}

// Roster is a concurrency-safe, deduplicating waitlist.
type Roster struct {
	mu      sync.RWMutex
	base    int
	byKey   map[string]*Entry
	entries []*Entry
	now     func() time.Time
}

// New returns an empty roster. base is the number of people already counted
// as ahead before anyone registers here.
func New(base int) *Roster {
	return &Roster{
		base:  base,
		byKey: make(map[string]*Entry),
		now:   time.Now,
	}
}

// Key is the deduplication key of an address: trimmed and case-folded.
func Key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Add registers email. It returns the entry and whether it was newly
// created; a repeat registration returns the original entry.
func (r *Roster) Add(ctx context.Context, email string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	if !waitlist.ValidEmail(strings.TrimSpace(email)) {
		return Entry{}, false, waitlist.ErrInvalidEmail
	}

	key := Key(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byKey[key]; ok {
		return *e, false, nil
	}

	e := &Entry{
		ID:       uuid.New().String(),
		Email:    strings.TrimSpace(email),
		Position: len(r.entries) + 1,
		JoinedAt: r.now().UTC(),
	}
	r.byKey[key] = e
	r.entries = append(r.entries, e)
	return *e, true, nil
}

// Lookup returns the entry for email, if registered.
func (r *Roster) Lookup(email string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[Key(email)]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Count returns the number of registered addresses.
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Ahead is the social-proof number: the base plus everyone registered.
func (r *Roster) Ahead() int {
	return r.base + r.Count()
}

// AheadOf is the number of people ahead of e: the base plus everyone who
// registered before it.
func (r *Roster) AheadOf(e Entry) int {
	return r.base + e.Position - 1
}

// Entries returns a copy of all entries in registration order.
func (r *Roster) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = *e
	}
	return out
}

// Register implements waitlist.Registrar.
func (r *Roster) Register(ctx context.Context, email string) error {
	_, _, err := r.Add(ctx, email)
	return err
}

var _ waitlist.Registrar = (*Roster)(nil)
