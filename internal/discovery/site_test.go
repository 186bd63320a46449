package discovery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSiteString(t *testing.T) {
	site := &Site{Instance: "MinuteAI", Host: "studio.local.", IP: "192.168.4.16", Port: 8080}
	want := "MinuteAI (studio.local.) at 192.168.4.16:8080"
	if got := site.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSiteBaseURL(t *testing.T) {
	tests := []struct {
		name string
		site *Site
		want string
	}{
		{"plain", &Site{IP: "192.168.4.16", Port: 8080}, "http://192.168.4.16:8080"},
		{"root path", &Site{IP: "10.0.0.5", Port: 80, Metadata: map[string]string{"path": "/"}}, "http://10.0.0.5:80"},
		{"tls", &Site{IP: "10.0.0.5", Port: 8443, Metadata: map[string]string{"tls": "1"}}, "https://10.0.0.5:8443"},
		{"sub path", &Site{IP: "10.0.0.5", Port: 8080, Metadata: map[string]string{"path": "/beta/"}}, "http://10.0.0.5:8080/beta"},
		{"ipv6", &Site{IP: "fe80::1", Port: 8080}, "http://[fe80::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.site.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetMetadata(t *testing.T) {
	if got := (&Site{}).GetMetadata("path"); got != "" {
		t.Errorf("GetMetadata on nil map = %q", got)
	}
	site := &Site{Metadata: map[string]string{"version": "v1"}}
	if got := site.GetMetadata("version"); got != "v1" {
		t.Errorf("GetMetadata() = %q", got)
	}
}

func TestSiteText(t *testing.T) {
	if diff := cmp.Diff([]string{"path=/", "version=v1"}, SiteText("/", "v1", false)); diff != "" {
		t.Errorf("SiteText() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"path=/", "version=v1", "tls=1"}, SiteText("/", "v1", true)); diff != "" {
		t.Errorf("SiteText(tls) mismatch (-want +got):\n%s", diff)
	}
}
