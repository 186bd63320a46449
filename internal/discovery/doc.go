// Package discovery finds and announces MinuteAI site servers on the local
// network with multicast DNS.
//
// A server started with --advertise publishes a "_minute-site._tcp" service
// whose TXT records carry the root path, the build version, and whether it
// serves TLS. The preview TUI and the discover command browse for that
// service so a local copy of the site can be reached without typing an
// address.
//
// # Usage
//
//	scanner := discovery.NewScanner()
//	sites, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, site := range sites {
//	    fmt.Println(site, site.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Clients and servers must share a network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
