// Package web renders the MinuteAI landing page with gomponents.
//
// The page is complete without JavaScript: the hero shows the current
// typewriter frame and the waitlist form posts to /waitlist. The bundled
// script adds the live typewriter stream, scroll motion, and in-place form
// submission against the JSON API.
package web

import (
	"embed"
	"io"
	"io/fs"
	"net/http"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/typewriter"
)

// Paths the page links to. The server mounts handlers on the same paths.
const (
	StaticPath     = "/static/"
	FormPath       = "/waitlist"
	TypewriterPath = "/ws/typewriter"
)

//go:embed static
var staticFiles embed.FS

// Static serves the stylesheet and script under StaticPath.
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(StaticPath, http.FileServer(http.FS(sub)))
}

// PageData is everything a render needs.
type PageData struct {
	Site  *content.Site
	Form  FormState
	Ahead int
	Frame typewriter.Frame
}

// Render writes the full page to w.
func Render(w io.Writer, d PageData) error {
	return Page(d).Render(w)
}

// Page is the HTML5 document.
func Page(d PageData) g.Node {
	s := d.Site
	return c.HTML5(c.HTML5Props{
		Title:       s.Brand + " - " + s.Hero.Headline,
		Description: s.Hero.Subheadline,
		Language:    "en",
		Head: []g.Node{
			Meta(Name("theme-color"), Content(colorVoid)),
			Link(Rel("stylesheet"), Href(StaticPath+"site.css")),
			Script(Src(StaticPath+"site.js"), Defer()),
		},
		Body: []g.Node{
			Div(
				ID("site"),
				Class("theme-void"),
				g.Attr("data-typewriter", TypewriterPath),
				g.Attr("data-api", apiPath),
				Div(Class("grain"), Aria("hidden", "true")),
				NavBar(s.Brand, s.Nav),
				Main(
					HeroSection(s.Hero, d.Frame),
					ProblemSection(s.Problem),
					TruthsSection(s.Truths),
					DemoSection(s.Demo),
					WaitlistSection(s.Waitlist, d.Form, d.Ahead),
				),
				SiteFooter(s.Brand, s.Footer),
			),
		},
	})
}

const (
	apiPath   = "/api/waitlist"
	colorVoid = "#0a0a0f"
)
