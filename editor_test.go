package vcedit

import (
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<h1 class="editor-heading">Title</h1><div class="body"><p>text</p></div><footer>x</footer>`

func TestNewAttachesSurfaces(t *testing.T) {
	doc, err := NewDocument(page)
	require.NoError(t, err)

	ed, err := New(doc, `//*[contains(@class,'editor-heading') or contains(@class,'body')]`, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, ed.Sessions(), 2)

	heading, body := ed.Session(0), ed.Session(1)
	assert.True(t, heading.Plain())
	assert.False(t, body.Plain())
	assert.Equal(t, "plaintext-only", getAttr(heading.Root(), "contenteditable"))
	assert.Equal(t, "true", getAttr(body.Root(), "contenteditable"))

	for _, s := range ed.Sessions() {
		_, err := uuid.Parse(s.ID)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, heading.ID, body.ID)
	assert.Nil(t, ed.Session(2))
	assert.Nil(t, ed.Session(-1))

	footer := htmlquery.FindOne(doc.Root(), "//footer")
	assert.False(t, hasAttr(footer, "contenteditable"))
}

func TestNewErrors(t *testing.T) {
	doc, err := NewDocument(page)
	require.NoError(t, err)

	_, err = New(doc, "//article", DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSurfaces)

	_, err = New(doc, "//div[", DefaultConfig())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSurfaces)

	// text nodes are not surfaces
	_, err = New(doc, "//footer/text()", DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSurfaces)

	_, err = New(doc, "//footer", Config{Buttons: []string{"u"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSessionLookup(t *testing.T) {
	doc, err := NewDocument(page)
	require.NoError(t, err)
	ed, err := New(doc, `//*[contains(@class,'editor-heading') or contains(@class,'body')]`, DefaultConfig())
	require.NoError(t, err)

	p := htmlquery.FindOne(doc.Root(), "//p")
	assert.Same(t, ed.Session(1), ed.SessionFor(p.FirstChild))
	assert.Nil(t, ed.SessionFor(htmlquery.FindOne(doc.Root(), "//footer")))

	assert.Nil(t, ed.Active())
	doc.SetActiveRange(Caret(Point{Node: ed.Session(0).Root().FirstChild, Offset: 2}))
	assert.Same(t, ed.Session(0), ed.Active())
}
