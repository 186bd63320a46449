package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
)

const (
	// ServiceType is the mDNS service type site servers advertise
	ServiceType = "_minute-site._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for site discovery
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 8080

	// drainTimeout bounds the wait for the resolver to close its entries channel
	drainTimeout = 250 * time.Millisecond
)

// ErrNotFound is returned by FindSite when nothing answered in time.
var ErrNotFound = errors.New("no MinuteAI site found on the local network")

// Scanner browses the local network for site servers.
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan returns every site that answered before the timeout or ctx ended.
func (s *Scanner) Scan(ctx context.Context) ([]*Site, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		sites []*Site
		seen  = make(map[string]bool)
		done  = make(chan struct{})
	)
	go func() {
		defer close(done)
		for entry := range entries {
			site := parseServiceEntry(entry)
			if site == nil {
				continue
			}
			mu.Lock()
			if key := site.Instance + "@" + site.IP; !seen[key] {
				seen[key] = true
				sites = append(sites, site)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(drainTimeout):
	}

	mu.Lock()
	defer mu.Unlock()
	return sites, nil
}

// FindSite returns the first site whose instance name matches instance, or
// the first site at all when instance is empty.
func (s *Scanner) FindSite(ctx context.Context, instance string) (*Site, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Site, 1)
	go func() {
		for entry := range entries {
			site := parseServiceEntry(entry)
			if site == nil || (instance != "" && site.Instance != instance) {
				continue
			}
			select {
			case found <- site:
				cancel()
			default:
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case site := <-found:
		return site, nil
	case <-ctx.Done():
		select {
		case site := <-found:
			return site, nil
		default:
		}
		if instance != "" {
			return nil, fmt.Errorf("%w (instance %q)", ErrNotFound, instance)
		}
		return nil, ErrNotFound
	}
}

// parseServiceEntry converts a zeroconf entry to a Site. It returns nil for
// entries without an instance name or an address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Site {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Site{
		Instance:     unescapeInstance(entry.Instance),
		Host:         entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance removes DNS-SD escaping from an instance name.
func unescapeInstance(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}

// Advertiser publishes a site server over mDNS while it runs.
type Advertiser struct {
	Instance string
	Port     int
	Text     []string
}

// NewAdvertiser returns an Advertiser for instance on port.
func NewAdvertiser(instance string, port int, text []string) *Advertiser {
	return &Advertiser{Instance: instance, Port: port, Text: text}
}

// Run registers the service and keeps it published until ctx is done.
func (a *Advertiser) Run(ctx context.Context) error {
	server, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.Text, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	defer server.Shutdown()

	logging.Info("Advertising site over mDNS",
		zap.String("instance", a.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", a.Port),
		zap.Strings("txt", a.Text),
	)

	<-ctx.Done()
	logging.Info("Stopped mDNS advertisement", zap.String("instance", a.Instance))
	return nil
}
