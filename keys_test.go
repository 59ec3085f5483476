package vcedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestEnter(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		caret       int
		want        string
		intercepted bool
		wantCaret   int
	}{
		{
			name: "ordered list shortcut", input: `<p>1. buy milk</p>`, caret: 11,
			want: `<ol><li>buy milk</li><li></li></ol>`, intercepted: true, wantCaret: 8,
		},
		{
			name: "ordered list shortcut without space", input: `<p>1.x</p>`, caret: 3,
			want: `<ol><li>x</li><li></li></ol>`, intercepted: true, wantCaret: 1,
		},
		{
			name: "ordered list shortcut alone on its line", input: `<p>1.</p>`, caret: 2,
			want: `<ol><li></li></ol>`, intercepted: true, wantCaret: 0,
		},
		{
			name: "bullet list shortcut alone on its line", input: `<p>-</p>`, caret: 1,
			want: `<ul><li></li></ul>`, intercepted: true, wantCaret: 0,
		},
		{
			name: "bare shortcut joins previous list", input: `<ul><li>a</li></ul><p>- </p>`, caret: 3,
			want: `<ul><li>a</li><li></li></ul>`, intercepted: true, wantCaret: 1,
		},
		{
			name: "bullet list shortcut", input: `<p>- item</p>`, caret: 6,
			want: `<ul><li>item</li><li></li></ul>`, intercepted: true, wantCaret: 4,
		},
		{
			name: "rule on blank line", input: `<p>a</p><p> </p>`, caret: 2,
			want: `<p>a</p><hr/><p> </p>`, intercepted: true, wantCaret: 2,
		},
		{
			name: "paragraph after heading", input: `<h1>Title</h1>`, caret: 5,
			want: `<h1>Title</h1><p></p>`, intercepted: true, wantCaret: 5,
		},
		{
			name: "paragraph after quote", input: `<blockquote>q</blockquote><p>x</p>`, caret: 0,
			want: `<blockquote>q</blockquote><p></p><p>x</p>`, intercepted: true, wantCaret: 1,
		},
		{
			name: "list item left to host", input: `<ul><li>a</li></ul>`, caret: 1,
			want: `<ul><li>a</li></ul>`, intercepted: false, wantCaret: 1,
		},
		{
			name: "split at end of line", input: `<p>abc</p>`, caret: 3,
			want: `<p>abc</p><p></p>`, intercepted: true, wantCaret: 3,
		},
		{
			name: "split mid line", input: `<p>abcdef</p>`, caret: 3,
			want: `<p>abc</p><p>def</p>`, intercepted: true, wantCaret: 3,
		},
		{
			name: "split keeps inline formatting", input: `<p>ab<b>cd</b>ef</p>`, caret: 3,
			want: `<p>ab<b>c</b></p><p><b>d</b>ef</p>`, intercepted: true, wantCaret: 3,
		},
		{
			name: "split wraps bare text", input: `abc<p>z</p>`, caret: 1,
			want: `<p>a</p><p>bc</p><p>z</p>`, intercepted: true, wantCaret: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, s := newTestSession(t, tt.input)
			selectRange(t, doc, s.Root(), tt.caret, tt.caret)

			intercepted, err := s.HandleKey(KeyEnter)
			require.NoError(t, err)
			assert.Equal(t, tt.intercepted, intercepted)
			assert.Equal(t, tt.want, innerHTML(t, s.Root()))
			assert.Equal(t, Serialized{tt.wantCaret, tt.wantCaret}, currentSelection(t, doc, s.Root()))
		})
	}
}

func TestEnterMovesCaretIntoNewBlock(t *testing.T) {
	doc, s := newTestSession(t, `<p><b>abc</b></p>`)
	selectRange(t, doc, s.Root(), 3, 3)

	_, err := s.HandleKey(KeyEnter)
	require.NoError(t, err)

	r, ok := doc.ActiveRange()
	require.True(t, ok)
	assert.Equal(t, html.TextNode, r.Start.Node.Type)
	assert.Equal(t, "b", r.Start.Node.Parent.Data)
	assert.Same(t, s.Root().LastChild, r.Start.Node.Parent.Parent)
}

func TestEnterOnEmptySurface(t *testing.T) {
	doc, s := newTestSession(t, ``)
	doc.SetActiveRange(Caret(Point{Node: s.Root()}))

	intercepted, err := s.HandleKey(KeyEnter)
	require.NoError(t, err)
	assert.True(t, intercepted)
	assert.Equal(t, `<hr/><p></p>`, innerHTML(t, s.Root()))

	r, ok := doc.ActiveRange()
	require.True(t, ok)
	assert.Equal(t, "p", r.Start.Node.Parent.Data)
}

func TestEnterOnPlainSurface(t *testing.T) {
	doc, err := NewDocument(`<h1 class="editor-heading">Title</h1>`)
	require.NoError(t, err)
	ed, err := New(doc, "//h1", DefaultConfig())
	require.NoError(t, err)
	s := ed.Session(0)
	selectRange(t, doc, s.Root(), 5, 5)

	intercepted, err := s.HandleKey(KeyEnter)
	require.NoError(t, err)
	assert.False(t, intercepted)
	assert.Equal(t, `Title`, innerHTML(t, s.Root()))
}

func TestBackspaceAndDeleteCleanUp(t *testing.T) {
	for _, k := range []Key{KeyBackspace, KeyDelete} {
		t.Run(k.String(), func(t *testing.T) {
			doc, s := newTestSession(t, `<p><span style="x">ab</span><br/>cd</p><p></p>`)
			selectRange(t, doc, s.Root(), 3, 3)

			intercepted, err := s.HandleKey(k)
			require.NoError(t, err)
			assert.False(t, intercepted)
			assert.Equal(t, `<p>abcd</p>`, innerHTML(t, s.Root()))
			assert.Equal(t, Serialized{3, 3}, currentSelection(t, doc, s.Root()))
		})
	}
}

func TestTypingAtBareRoot(t *testing.T) {
	doc, s := newTestSession(t, ``)
	doc.SetActiveRange(Caret(Point{Node: s.Root()}))

	intercepted, err := s.HandleKey(KeyOther)
	require.NoError(t, err)
	assert.False(t, intercepted)
	assert.Equal(t, `<p></p>`, innerHTML(t, s.Root()))

	r, ok := doc.ActiveRange()
	require.True(t, ok)
	assert.Equal(t, "p", r.Start.Node.Parent.Data)

	// inside a paragraph nothing changes
	_, err = s.HandleKey(KeyOther)
	require.NoError(t, err)
	assert.Equal(t, `<p></p>`, innerHTML(t, s.Root()))
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"enter", KeyEnter},
		{"Return", KeyEnter},
		{"BACKSPACE", KeyBackspace},
		{"delete", KeyDelete},
		{"other", KeyOther},
	}
	for _, tt := range tests {
		k, err := ParseKey(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, k)
		assert.Equal(t, tt.want.String(), k.String())
	}

	_, err := ParseKey("tab")
	assert.Error(t, err)
}
