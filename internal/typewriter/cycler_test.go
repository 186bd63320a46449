package typewriter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCycler(t *testing.T, phrases []string) (*Cycler, *clockwork.FakeClock) {
	t.Helper()
	fake := clockwork.NewFakeClockAt(time.Unix(0, 0))
	c, err := NewCycler(phrases, Timing{
		TypingInterval:   100 * time.Millisecond,
		DeletingInterval: 100 * time.Millisecond,
		Pause:            1500 * time.Millisecond,
	}, fake)
	if err != nil {
		t.Fatal(err)
	}
	return c, fake
}

// step advances the fake clock by d and waits until the cycler has
// scheduled its next tick.
func step(t *testing.T, fake *clockwork.FakeClock, d time.Duration) {
	t.Helper()
	fake.Advance(d)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fake.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("no tick scheduled after advancing %v: %v", d, err)
	}
}

func TestCyclerHiByeScenario(t *testing.T) {
	c, fake := newTestCycler(t, []string{"Hi", "Bye"})
	c.Start()
	defer c.Stop()

	if c.Display() != "" {
		t.Fatalf("Display() before first tick = %q", c.Display())
	}

	step(t, fake, 100*time.Millisecond)
	if got := c.Display(); got != "H" {
		t.Fatalf("after 100ms Display() = %q, want %q", got, "H")
	}

	step(t, fake, 100*time.Millisecond)
	if got := c.Display(); got != "Hi" {
		t.Fatalf("after 200ms Display() = %q, want %q", got, "Hi")
	}

	// Held for the pause.
	step(t, fake, 1400*time.Millisecond)
	if got := c.Display(); got != "Hi" {
		t.Fatalf("during pause Display() = %q, want %q", got, "Hi")
	}

	// Pause ends (switch), then two deletes, then the switch to the next phrase.
	step(t, fake, 100*time.Millisecond)
	step(t, fake, 100*time.Millisecond)
	step(t, fake, 100*time.Millisecond)
	if got := c.Display(); got != "" {
		t.Fatalf("after shrinking Display() = %q, want empty", got)
	}
	step(t, fake, 100*time.Millisecond)
	if f := c.Frame(); f.Index != 1 || f.Direction != Growing {
		t.Fatalf("Frame() = %+v, want index 1 growing", f)
	}

	for _, want := range []string{"B", "By", "Bye"} {
		step(t, fake, 100*time.Millisecond)
		if got := c.Display(); got != want {
			t.Fatalf("Display() = %q, want %q", got, want)
		}
	}
}

func TestCyclerSubscribe(t *testing.T) {
	c, fake := newTestCycler(t, []string{"ab"})

	var mu sync.Mutex
	var got []string
	unsubscribe := c.Subscribe(func(f Frame) {
		mu.Lock()
		got = append(got, f.Text)
		mu.Unlock()
	})

	c.Start()
	defer c.Stop()
	step(t, fake, 100*time.Millisecond)
	step(t, fake, 100*time.Millisecond)
	unsubscribe()
	unsubscribe()
	step(t, fake, 1500*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"a", "ab"}, got); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestCyclerStopCancelsPendingTick(t *testing.T) {
	c, fake := newTestCycler(t, []string{"Hello"})
	c.Start()
	step(t, fake, 100*time.Millisecond)
	step(t, fake, 100*time.Millisecond)

	c.Stop()
	fake.Advance(time.Second)
	if got := c.Display(); got != "He" {
		t.Errorf("Display() after Stop = %q, want %q", got, "He")
	}
	if c.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestCyclerStopFromObserver(t *testing.T) {
	c, fake := newTestCycler(t, []string{"Hello"})

	c.Subscribe(func(f Frame) {
		if f.Text == "H" {
			c.Stop()
		}
	})
	c.Start()
	fake.Advance(100 * time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for c.Running() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	fake.Advance(time.Second)

	if got := c.Display(); got != "H" {
		t.Errorf("Display() = %q, want %q", got, "H")
	}
}

func TestCyclerRestart(t *testing.T) {
	c, fake := newTestCycler(t, []string{"abc"})
	c.Start()
	c.Start()

	step(t, fake, 100*time.Millisecond)
	if got := c.Display(); got != "a" {
		t.Fatalf("Display() after double Start = %q, want %q", got, "a")
	}

	c.Stop()
	c.Stop()
	c.Start()
	defer c.Stop()
	step(t, fake, 100*time.Millisecond)

	if got := c.Display(); got != "ab" {
		t.Errorf("Display() after restart = %q, want %q", got, "ab")
	}
}

func TestCyclerSlowObserverKeepsOrder(t *testing.T) {
	phrases := []string{"abc", "de"}
	timing := Timing{
		TypingInterval:   time.Millisecond,
		DeletingInterval: time.Millisecond,
		Pause:            time.Millisecond,
	}
	c, err := NewCycler(phrases, timing, clockwork.NewRealClock())
	if err != nil {
		t.Fatal(err)
	}

	const n = 12
	var inside atomic.Int32
	var mu sync.Mutex
	var got []Frame
	done := make(chan struct{})
	c.Subscribe(func(f Frame) {
		if inside.Add(1) > 1 {
			t.Error("observer called concurrently")
		}
		defer inside.Add(-1)
		time.Sleep(3 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		if len(got) < n {
			got = append(got, f)
			if len(got) == n {
				close(done)
			}
		}
	})
	c.Start()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("frames not delivered")
	}
	c.Stop()

	ref, err := New(phrases, timing)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]Frame, n)
	for i := range want {
		ref.Step()
		want[i] = ref.Frame()
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestCyclerRealClock(t *testing.T) {
	c, err := NewCycler([]string{"abc"}, Timing{
		TypingInterval:   time.Millisecond,
		DeletingInterval: time.Millisecond,
		Pause:            time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	frames := make(chan Frame, 64)
	c.Subscribe(func(f Frame) {
		select {
		case frames <- f:
		default:
		}
	})
	c.Start()
	defer c.Stop()

	select {
	case f := <-frames:
		if f.Text != "a" {
			t.Errorf("first frame = %q, want %q", f.Text, "a")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}
}
