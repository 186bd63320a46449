package web

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	g "maragu.dev/gomponents"
)

// Raw HTML in content files is dropped by goldmark's default renderer.
var md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// markdown renders a block of content markdown.
func markdown(src string) g.Node {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return g.Text(src)
	}
	return g.Raw(buf.String())
}

// inlineMarkdown renders a single line without the wrapping paragraph.
func inlineMarkdown(src string) g.Node {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return g.Text(src)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return g.Raw(out)
}
