package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	e.HostName = host
	e.Port = port
	e.AddrIPv4 = v4
	e.AddrIPv6 = v6
	e.Text = txt
	return e
}

func ips(addrs ...string) []net.IP {
	out := make([]net.IP, len(addrs))
	for i, a := range addrs {
		out[i] = net.ParseIP(a)
	}
	return out
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
	}{
		{
			name:         "IPv4 site",
			entry:        entry("MinuteAI", "studio.local.", 8080, ips("192.168.4.16"), nil, "path=/", "version=v0.3.0"),
			wantInstance: "MinuteAI",
			wantIP:       "192.168.4.16",
			wantPort:     8080,
		},
		{
			name:         "custom port",
			entry:        entry("MinuteAI", "studio.local.", 9443, ips("10.0.0.5"), nil),
			wantInstance: "MinuteAI",
			wantIP:       "10.0.0.5",
			wantPort:     9443,
		},
		{
			name:         "no port defaults",
			entry:        entry("MinuteAI", "studio.local.", 0, ips("172.16.0.1"), nil),
			wantInstance: "MinuteAI",
			wantIP:       "172.16.0.1",
			wantPort:     DefaultPort,
		},
		{
			name:         "escaped instance name",
			entry:        entry(`MinuteAI\ Staging`, "staging.local.", 8080, ips("10.0.0.9"), nil),
			wantInstance: "MinuteAI Staging",
			wantIP:       "10.0.0.9",
			wantPort:     8080,
		},
		{
			name:    "no instance",
			entry:   entry("", "studio.local.", 8080, ips("192.168.1.1"), nil),
			wantNil: true,
		},
		{
			name:    "no address",
			entry:   entry("MinuteAI", "studio.local.", 8080, nil, nil),
			wantNil: true,
		},
		{
			name:         "IPv6 only",
			entry:        entry("MinuteAI", "studio.local.", 8080, nil, ips("fe80::1")),
			wantInstance: "MinuteAI",
			wantIP:       "fe80::1",
			wantPort:     8080,
		},
		{
			name:         "prefers IPv4",
			entry:        entry("MinuteAI", "studio.local.", 8080, ips("192.168.1.50"), ips("fe80::2")),
			wantInstance: "MinuteAI",
			wantIP:       "192.168.1.50",
			wantPort:     8080,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if site != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", site)
				}
				return
			}
			if site == nil {
				t.Fatal("parseServiceEntry() = nil, want site")
			}
			if site.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", site.Instance, tt.wantInstance)
			}
			if site.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", site.IP, tt.wantIP)
			}
			if site.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", site.Port, tt.wantPort)
			}
			if site.Host != tt.entry.HostName {
				t.Errorf("Host = %q, want %q", site.Host, tt.entry.HostName)
			}
			if time.Since(site.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", site.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntryMetadata(t *testing.T) {
	site := parseServiceEntry(entry("MinuteAI", "studio.local.", 8080, ips("192.168.4.16"), nil,
		"path=/", "version=v0.3.0", "tls=1", "flag"))
	if site == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	want := map[string]string{"path": "/", "version": "v0.3.0", "tls": "1", "flag": ""}
	if len(site.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(site.Metadata), len(want))
	}
	for k, v := range want {
		if got, ok := site.Metadata[k]; !ok || got != v {
			t.Errorf("Metadata[%q] = %q (present %v), want %q", k, got, ok, v)
		}
	}
}

func TestParseServiceEntryNil(t *testing.T) {
	if parseServiceEntry(nil) != nil {
		t.Error("parseServiceEntry(nil) should be nil")
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestNewAdvertiser(t *testing.T) {
	a := NewAdvertiser("MinuteAI", 8080, SiteText("/", "v1", false))
	if a.Instance != "MinuteAI" || a.Port != 8080 || len(a.Text) != 2 {
		t.Errorf("NewAdvertiser() = %+v", a)
	}
}

// Live mDNS browsing needs multicast and is exercised by hand with
// `minute-preview discover`.
