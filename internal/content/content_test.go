package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	site := Default()

	if site.Brand != "MinuteAI" {
		t.Errorf("Brand = %q", site.Brand)
	}
	if site.Hero.CTA != "Be First in Line" {
		t.Errorf("Hero.CTA = %q", site.Hero.CTA)
	}
	if len(site.Hero.Phrases) == 0 {
		t.Error("Hero.Phrases is empty")
	}
	if len(site.Truths) != 3 {
		t.Fatalf("len(Truths) = %d, want 3", len(site.Truths))
	}
	if site.Truths[1].Title != "Context, Not Commands" {
		t.Errorf("Truths[1].Title = %q", site.Truths[1].Title)
	}
	if site.Waitlist.SocialProofBase != 1247 {
		t.Errorf("SocialProofBase = %d, want 1247", site.Waitlist.SocialProofBase)
	}
	if len(site.Demo.Thoughts) != 11 || len(site.Demo.Events) != 13 {
		t.Errorf("demo has %d thoughts and %d events", len(site.Demo.Thoughts), len(site.Demo.Events))
	}
	if site.Nav.ScrolledAfter != 100 {
		t.Errorf("Nav.ScrolledAfter = %d, want 100", site.Nav.ScrolledAfter)
	}
}

func TestHeadlineWords(t *testing.T) {
	h := Hero{Headline: "What if  you finished?"}
	want := []string{"What", "if", "you", "finished?"}
	if diff := cmp.Diff(want, h.HeadlineWords()); diff != "" {
		t.Errorf("HeadlineWords() mismatch (-want +got):\n%s", diff)
	}
}

func TestDemoDays(t *testing.T) {
	d := Default().Demo
	want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if diff := cmp.Diff(want, d.Days()); diff != "" {
		t.Errorf("Days() mismatch (-want +got):\n%s", diff)
	}

	tue := d.EventsOn("Tue")
	if len(tue) != 3 || tue[0].Subtitle != "Ask about her move" {
		t.Errorf("EventsOn(Tue) = %+v", tue)
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		12:      "12",
		999:     "999",
		1247:    "1,247",
		1000000: "1,000,000",
		-4500:   "-4,500",
	}
	for in, want := range tests {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSocialProofLine(t *testing.T) {
	w := Waitlist{SocialProof: "%s people ahead of you"}
	if got := w.SocialProofLine(1247); got != "1,247 people ahead of you" {
		t.Errorf("SocialProofLine() = %q", got)
	}

	w.SocialProof = "broken"
	if got := w.SocialProofLine(2); got != "2 people ahead of you" {
		t.Errorf("SocialProofLine() with bad format = %q", got)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	site, err := Parse([]byte(`
hero:
  headline: Ship it.
  phrases: [one, two]
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if site.Hero.Headline != "Ship it." {
		t.Errorf("Headline = %q", site.Hero.Headline)
	}
	if diff := cmp.Diff([]string{"one", "two"}, site.Hero.Phrases); diff != "" {
		t.Errorf("Phrases mismatch (-want +got):\n%s", diff)
	}
	if site.Hero.CTA != "Be First in Line" {
		t.Errorf("CTA should keep its default, got %q", site.Hero.CTA)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"no phrases", "hero:\n  phrases: []\n", ErrNoPhrases},
		{"two truths", "truths:\n  - title: a\n  - title: b\n", ErrTruthCount},
		{"future version", "version: 9\n", ErrUnknownVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Parse([]byte("hero: [")); err == nil {
		t.Error("Parse() should fail on malformed YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestStore(t *testing.T) {
	a, b := Default(), Default()
	b.Brand = "Other"

	s := NewStore(a)
	if s.Get() != a {
		t.Fatal("Get() should return the initial site")
	}
	s.Set(b)
	if s.Get().Brand != "Other" {
		t.Errorf("Get().Brand = %q after Set", s.Get().Brand)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte("hero:\n  headline: First\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	initial, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(initial)

	w := NewWatcher(path, store)
	w.SetDebounce(50 * time.Millisecond)
	reloads := make(chan error, 8)
	w.OnReload(func(_ *Site, err error) { reloads <- err })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("hero:\n  headline: [broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-reloads:
		if err == nil {
			t.Fatal("expected a parse error for broken content")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after broken write")
	}
	if got := store.Get().Hero.Headline; got != "First" {
		t.Errorf("headline after failed reload = %q, want previous content", got)
	}

	if err := os.WriteFile(path, []byte("hero:\n  headline: Second\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for store.Get().Hero.Headline != "Second" {
		select {
		case <-reloads:
		case <-deadline:
			t.Fatalf("headline = %q, want %q", store.Get().Hero.Headline, "Second")
		}
	}
}
