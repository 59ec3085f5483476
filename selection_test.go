package vcedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeLocateRoundTrip(t *testing.T) {
	root := parseSurface(t, `<p>hello <b>bold</b> world</p><p>héllo</p>`)

	tests := []struct {
		name string
		s    Serialized
	}{
		{"start of content", Serialized{0, 0}},
		{"inside first text", Serialized{2, 4}},
		{"boundary between texts", Serialized{6, 6}},
		{"across elements", Serialized{3, 12}},
		{"end of paragraph", Serialized{16, 16}},
		{"multibyte runes", Serialized{17, 20}},
		{"everything", Serialized{0, 21}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Locate(root, tt.s)
			require.True(t, ok)
			assert.Equal(t, tt.s, Serialize(root, r))
		})
	}
}

func TestLocateCollapsed(t *testing.T) {
	root := parseSurface(t, `<p>ab<i>cd</i></p>`)
	r, ok := Locate(root, Serialized{3, 3})
	require.True(t, ok)
	assert.True(t, r.Collapsed())
	assert.Equal(t, "cd", r.Start.Node.Data)
	assert.Equal(t, 1, r.Start.Offset)
}

func TestLocateEndBeyondContent(t *testing.T) {
	root := parseSurface(t, `<p>abc</p>`)
	r, ok := Locate(root, Serialized{1, 10})
	require.True(t, ok)
	assert.True(t, r.Collapsed())
	assert.Equal(t, 1, r.Start.Offset)
}

func TestSerializeElementAnchor(t *testing.T) {
	root := parseSurface(t, `<p>hello <b>bold</b> world</p>`)
	p := root.FirstChild
	b := p.FirstChild.NextSibling

	tests := []struct {
		name string
		pt   Point
		want int
	}{
		{"before first child", Point{Node: p, Offset: 0}, 0},
		{"before bold", Point{Node: p, Offset: 1}, 6},
		{"after last child of bold", Point{Node: b, Offset: 1}, 10},
		{"after last child of paragraph", Point{Node: p, Offset: 3}, 16},
		{"end of container", Point{Node: root, Offset: 1}, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(root, Caret(tt.pt))
			assert.Equal(t, Serialized{tt.want, tt.want}, got)
		})
	}
}

func TestSerializeOutsideContainer(t *testing.T) {
	root := parseSurface(t, `<p>inside</p>`)
	other := parseSurface(t, `<p>outside</p>`)
	r := Range{
		Start: Point{Node: other.FirstChild.FirstChild, Offset: 2},
		End:   Point{Node: other.FirstChild.FirstChild, Offset: 4},
	}
	assert.Equal(t, Serialized{}, Serialize(root, r))
}

func TestSerializeClampsEnd(t *testing.T) {
	root := parseSurface(t, `<p>abcdef</p>`)
	text := root.FirstChild.FirstChild
	r := Range{Start: Point{Node: text, Offset: 4}, End: Point{Node: text, Offset: 1}}
	assert.Equal(t, Serialized{4, 4}, Serialize(root, r))
}

func TestRestoreClearsWhenNothingMatches(t *testing.T) {
	doc, root := editableSurface(t, `<p>abc</p><p></p>`)
	selectRange(t, doc, root, 1, 2)

	empty := root.LastChild
	assert.False(t, Restore(empty, Serialized{0, 0}, doc))
	_, ok := doc.ActiveRange()
	assert.False(t, ok)
}

func TestIsAtEndOfNode(t *testing.T) {
	root := parseSurface(t, `<p>abc<b></b></p>`)
	p := root.FirstChild
	text := p.FirstChild

	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"end of text", Point{Node: text, Offset: 3}, true},
		{"middle of text", Point{Node: text, Offset: 1}, false},
		{"element before empty child", Point{Node: p, Offset: 1}, true},
		{"element before text", Point{Node: p, Offset: 0}, false},
		{"no anchor", Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAtEndOfNode(Caret(tt.pt)))
		})
	}
}
