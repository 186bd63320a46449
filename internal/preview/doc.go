// Package preview renders the MinuteAI landing page in the terminal.
//
// The preview is a Bubble Tea program that shows the same copy, typewriter,
// scroll-linked motion, and waitlist form as the web page, so the site can be
// reviewed over SSH or on a machine without a browser.
//
// # Screens
//
//   - Discovery: browse the local network for site servers over mDNS, enter
//     a URL by hand, or skip to an offline preview
//   - Page: the scrolling landing page
//
// # Motion
//
// Each section evaluates its motion scene against its top edge in the
// viewport on every render. Keyframes are resolved to a paint: opacity fades
// text toward the background colour, and the X offset becomes indentation.
// Blocks keep their line count at every opacity so scrolling never reflows
// the page.
//
// # Typewriter
//
// Against a site server the hero follows the server's websocket stream. When
// no server is configured, or the stream drops, the hero runs its own
// PhraseCycle on Bubble Tea ticks.
//
// # Waitlist
//
// The form drives a waitlist.Controller. Registrations go to the server's
// JSON API through an HTTPRegistrar, or to a SimulatedRegistrar offline.
//
// # Usage Example
//
//	err := preview.Run(ctx, preview.Options{
//	    Site:      content.Default(),
//	    ServerURL: "http://localhost:8080",
//	})
package preview
