// Package content holds the landing page copy.
//
// The default copy is embedded from site.yaml. A deployment can override it
// with its own YAML file; Watcher reloads that file on change so the server
// picks up copy edits without a restart.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the content file format version.
const CurrentVersion = 1

//go:embed site.yaml
var defaultSite []byte

// Site is the full copy of the landing page.
type Site struct {
	Version  int      `yaml:"version"`
	Brand    string   `yaml:"brand"`
	Nav      Nav      `yaml:"nav"`
	Hero     Hero     `yaml:"hero"`
	Problem  Problem  `yaml:"problem"`
	Truths   []Truth  `yaml:"truths"`
	Demo     Demo     `yaml:"demo"`
	Waitlist Waitlist `yaml:"waitlist"`
	Footer   Footer   `yaml:"footer"`
}

// Link is an in-page navigation link.
type Link struct {
	Label  string `yaml:"label"`
	Anchor string `yaml:"anchor"`
}

// Href returns the fragment URL of the link.
func (l Link) Href() string {
	return "#" + l.Anchor
}

// Nav is the fixed top navigation.
type Nav struct {
	Links []Link `yaml:"links"`
	CTA   Link   `yaml:"cta"`
	// ScrolledAfter is the scroll offset past which the nav gets a solid background.
	ScrolledAfter int `yaml:"scrolled_after"`
}

// Hero is the first screen.
type Hero struct {
	Headline    string   `yaml:"headline"`
	Subheadline string   `yaml:"subheadline"`
	PromptLabel string   `yaml:"prompt_label"`
	Phrases     []string `yaml:"phrases"`
	CTA         string   `yaml:"cta"`
	Trust       string   `yaml:"trust"`
}

// HeadlineWords splits the headline for per-word reveal.
func (h Hero) HeadlineWords() []string {
	return strings.Fields(h.Headline)
}

// Problem is the problem statement section.
type Problem struct {
	Label    string `yaml:"label"`
	Headline string `yaml:"headline"`
	Body     string `yaml:"body"`
	Closing  string `yaml:"closing"`
}

// Truth is one of the three feature cards. Body is markdown.
type Truth struct {
	Number string `yaml:"number"`
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
	Visual Visual `yaml:"visual"`
}

// Visual is the illustration beside a truth card.
type Visual struct {
	Caption string   `yaml:"caption"`
	Quote   string   `yaml:"quote"`
	Lines   []string `yaml:"lines"`
}

// Demo is the before/after section.
type Demo struct {
	Headline      string    `yaml:"headline"`
	MindTitle     string    `yaml:"mind_title"`
	CalendarTitle string    `yaml:"calendar_title"`
	Caption       string    `yaml:"caption"`
	Thoughts      []Thought `yaml:"thoughts"`
	Events        []Event   `yaml:"events"`
}

// Thought is a floating item on the chaotic side of the demo.
type Thought struct {
	Text    string  `yaml:"text"`
	Opacity float64 `yaml:"opacity"`
	Urgent  bool    `yaml:"urgent"`
	Fading  bool    `yaml:"fading"`
	Ghosted bool    `yaml:"ghosted"`
}

// Event is a calendar block on the organized side of the demo.
type Event struct {
	Day      string `yaml:"day"`
	Time     string `yaml:"time"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// Days returns the distinct event days in order of first appearance.
func (d Demo) Days() []string {
	var days []string
	seen := make(map[string]bool)
	for _, e := range d.Events {
		if !seen[e.Day] {
			seen[e.Day] = true
			days = append(days, e.Day)
		}
	}
	return days
}

// EventsOn returns the events scheduled on day.
func (d Demo) EventsOn(day string) []Event {
	var out []Event
	for _, e := range d.Events {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// Waitlist is the signup section copy.
type Waitlist struct {
	Headline        string   `yaml:"headline"`
	Subtext         string   `yaml:"subtext"`
	Benefits        []string `yaml:"benefits"`
	Placeholder     string   `yaml:"placeholder"`
	Button          string   `yaml:"button"`
	Submitting      string   `yaml:"submitting"`
	SuccessTitle    string   `yaml:"success_title"`
	SuccessBody     string   `yaml:"success_body"`
	Retry           string   `yaml:"retry"`
	SocialProofBase int      `yaml:"social_proof_base"`
	SocialProof     string   `yaml:"social_proof"`
	Quote           string   `yaml:"quote"`
	Attribution     string   `yaml:"attribution"`
}

// SocialProofLine renders the "N people ahead of you" line for a count
// already including the base.
func (w Waitlist) SocialProofLine(ahead int) string {
	format := w.SocialProof
	if !strings.Contains(format, "%s") {
		format = "%s people ahead of you"
	}
	return fmt.Sprintf(format, FormatCount(ahead))
}

// Footer is the page footer.
type Footer struct {
	Copyright string   `yaml:"copyright"`
	Badges    []string `yaml:"badges"`
}

// FormatCount formats n with thousands separators.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Default returns the embedded copy.
func Default() *Site {
	site, err := Parse(defaultSite)
	if err != nil {
		panic(fmt.Sprintf("content: embedded site.yaml is invalid: %v", err))
	}
	return site
}

// Parse decodes YAML over the embedded defaults and validates the result.
// Fields missing from data keep their default values.
func Parse(data []byte) (*Site, error) {
	var site Site
	if len(defaultSite) > 0 {
		if err := yaml.Unmarshal(defaultSite, &site); err != nil {
			return nil, fmt.Errorf("failed to parse default content: %w", err)
		}
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Load reads a content override file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return Parse(data)
}

// Validation errors.
var (
	ErrNoPhrases      = errors.New("content: hero.phrases must not be empty")
	ErrTruthCount     = errors.New("content: exactly three truths are required")
	ErrUnknownVersion = errors.New("content: unsupported version")
)

// Validate checks the invariants the page relies on.
func (s *Site) Validate() error {
	if s.Version > CurrentVersion {
		return fmt.Errorf("%w %d (supported: %d)", ErrUnknownVersion, s.Version, CurrentVersion)
	}
	if len(s.Hero.Phrases) == 0 {
		return ErrNoPhrases
	}
	if len(s.Truths) != 3 {
		return ErrTruthCount
	}
	return nil
}

// Store holds the current Site for concurrent readers.
type Store struct {
	site atomic.Pointer[Site]
}

// NewStore returns a Store holding site.
func NewStore(site *Site) *Store {
	s := &Store{}
	s.site.Store(site)
	return s
}

// Get returns the current Site. Callers must not modify it.
func (s *Store) Get() *Site {
	return s.site.Load()
}

// Set replaces the current Site.
func (s *Store) Set(site *Site) {
	s.site.Store(site)
}
