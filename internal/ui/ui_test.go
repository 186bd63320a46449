package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHeaderRender(t *testing.T) {
	h := NewHeader("Waitlist Registration", "minute-preview register",
		Field{Key: "Server", Value: "http://localhost:8080"},
		Field{Key: "Email", Value: "a***@example.com"},
	).SetWidth(80)

	out := h.Render()
	for _, want := range []string{"WAITLIST REGISTRATION", "minute-preview register", "Server:", "http://localhost:8080", "Email:"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Server:") > strings.Index(out, "Email:") {
		t.Error("params should render in the order given")
	}
}

func TestHeaderNarrowWidth(t *testing.T) {
	out := NewHeader("Discover", "minute-preview discover").SetWidth(10).Render()
	if !strings.Contains(out, "DISCOVER") {
		t.Errorf("header = %q", out)
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("You're on the list!", Field{Key: "Position", Value: "1,248"}),
			want:   []string{SuccessMarker, "SUCCESS", "You're on the list!", "Position:", "1,248"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Registration failed", errors.New("connection refused"), "Is minute-server running?"),
			want:   []string{FailureMarker, "FAILED", "Error: connection refused", "Troubleshooting:", "Is minute-server running?"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No sites found", "Start minute-server with --advertise"),
			want:   []string{WarningMarker, "WARNING", "No sites found", "--advertise"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestResultAddDetail(t *testing.T) {
	r := NewSuccessResult("done").AddDetail("A", "1").AddDetail("B", "2")
	if len(r.Details) != 2 || r.Details[1].Key != "B" {
		t.Errorf("Details = %+v", r.Details)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).WithWidth(72)
	if p.Width() != 72 {
		t.Errorf("Width() = %d", p.Width())
	}

	p.PrintHeader("Discover", "minute-preview discover")
	p.Printf("%d site(s)\n", 2)
	p.PrintSuccess("Found")
	p.PrintError("Failed", errors.New("boom"))
	p.PrintWarning("Careful")

	out := buf.String()
	for _, want := range []string{"DISCOVER", "2 site(s)", "Found", "boom", "Careful"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNewPrinterDefaultsToStdout(t *testing.T) {
	if p := NewPrinter(nil); p.out == nil {
		t.Error("NewPrinter(nil) has no writer")
	}
}

func TestRenderHorizontalDivider(t *testing.T) {
	if got := RenderHorizontalDivider(3, "─"); !strings.Contains(got, "───") {
		t.Errorf("divider = %q", got)
	}
	if got := RenderHorizontalDivider(-1, "─"); strings.Contains(got, "─") {
		t.Errorf("negative width divider = %q", got)
	}
}
