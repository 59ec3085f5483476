package vcedit

import (
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const surfaceXPath = "//div[@id='editor']"

// newTestSession attaches an editor to a single surface holding inner.
func newTestSession(t *testing.T, inner string, opts ...Option) (*Document, *Session) {
	t.Helper()
	doc, err := NewDocument(`<div id="editor">` + inner + `</div>`)
	require.NoError(t, err)
	ed, err := New(doc, surfaceXPath, DefaultConfig(), opts...)
	require.NoError(t, err)
	require.Len(t, ed.Sessions(), 1)
	return doc, ed.Session(0)
}

// parseSurface parses inner into a document and returns the surface element.
func parseSurface(t *testing.T, inner string) *html.Node {
	t.Helper()
	root, err := ParseHTML(`<div id="editor">` + inner + `</div>`)
	require.NoError(t, err)
	surface := htmlquery.FindOne(root, surfaceXPath)
	require.NotNil(t, surface)
	return surface
}

// editableSurface is like parseSurface but the surface is editable and the
// tree is owned by a Document.
func editableSurface(t *testing.T, inner string) (*Document, *html.Node) {
	t.Helper()
	doc, err := NewDocument(`<div id="editor" contenteditable="true">` + inner + `</div>`)
	require.NoError(t, err)
	surface := htmlquery.FindOne(doc.Root(), surfaceXPath)
	require.NotNil(t, surface)
	return doc, surface
}

func innerHTML(t *testing.T, n *html.Node) string {
	t.Helper()
	out, err := InnerHTML(n)
	require.NoError(t, err)
	return out
}

func selectRange(t *testing.T, host SelectionHost, root *html.Node, start, end int) {
	t.Helper()
	require.True(t, Restore(root, Serialized{Start: start, End: end}, host), "select %d-%d", start, end)
}

func currentSelection(t *testing.T, host SelectionHost, root *html.Node) Serialized {
	t.Helper()
	r, ok := host.ActiveRange()
	require.True(t, ok, "expected an active range")
	return Serialize(root, r)
}

type fakeToolbar struct {
	shown      bool
	positioned int
	buttons    map[string]bool
}

func newFakeToolbar() *fakeToolbar {
	return &fakeToolbar{buttons: make(map[string]bool)}
}

func (f *fakeToolbar) Show()            { f.shown = true }
func (f *fakeToolbar) Hide()            { f.shown = false }
func (f *fakeToolbar) Position(r Range) { f.positioned++ }
func (f *fakeToolbar) SetButtonActive(name string, active bool) {
	f.buttons[name] = active
}

type fakeLinkField struct {
	value string
	open  bool
}

func (f *fakeLinkField) Value() string { return f.value }
func (f *fakeLinkField) Open()         { f.open = true }
func (f *fakeLinkField) Close() {
	f.open = false
	f.value = ""
}
