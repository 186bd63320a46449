package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// TXT record keys published by a site server.
const (
	TxtPath    = "path"
	TxtVersion = "version"
	TxtTLS     = "tls"
)

// Site is a MinuteAI site server found on the local network.
type Site struct {
	// Instance is the advertised service instance name (e.g. "MinuteAI")
	Instance string

	// Host is the mDNS hostname (e.g. "studio.local.")
	Host string

	// IP is the preferred address, IPv4 when one was advertised
	IP string

	Port int

	// Metadata holds the TXT records, e.g. "path=/", "version=v0.3.0"
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the site.
func (s *Site) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Host, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// BaseURL returns the root URL of the site, using https when the server
// advertised TLS.
func (s *Site) BaseURL() string {
	scheme := "http"
	if s.GetMetadata(TxtTLS) == "1" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
	if path := s.GetMetadata(TxtPath); path != "" && path != "/" {
		url += "/" + strings.Trim(path, "/")
	}
	return url
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Site) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// SiteText builds the TXT records a server advertises.
func SiteText(path, version string, tls bool) []string {
	txt := []string{TxtPath + "=" + path, TxtVersion + "=" + version}
	if tls {
		txt = append(txt, TxtTLS+"=1")
	}
	return txt
}
