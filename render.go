package vcedit

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
)

// RenderOptions controls how a surface is serialized.
type RenderOptions struct {
	// Sanitize runs the output through the editor policy, which keeps only
	// the markup the editor itself produces.
	Sanitize bool
	// Minify collapses insignificant whitespace.
	Minify bool
}

var contentPolicy *bluemonday.Policy = newContentPolicy()

var minifier *minify.M = minify.New()

func init() {
	minifier.Add("text/html", &mhtml.Minifier{KeepEndTags: true, KeepQuotes: true})
}

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "ul", "ol", "li", "b", "i", "strong", "em", "hr", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	return p
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Render serializes the children of n according to opts.
func Render(n *html.Node, opts RenderOptions) (string, error) {
	out, err := InnerHTML(n)
	if err != nil {
		return "", fmt.Errorf("failed to render surface: %w", err)
	}
	if opts.Sanitize {
		out = contentPolicy.Sanitize(out)
	}
	if opts.Minify {
		out, err = minifier.String("text/html", out)
		if err != nil {
			return "", fmt.Errorf("failed to minify surface: %w", err)
		}
	}
	return out, nil
}
