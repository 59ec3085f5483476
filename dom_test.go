package vcedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestPathing(t *testing.T) {
	htmlStr := `<html><head></head><body><div><p>Hello</p></div></body></html>`
	doc, err := ParseHTML(htmlStr)
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}

	// root -> html (0) -> body (1) -> div (0) -> p (0) -> text "Hello" (0)
	targetPath := NodePath{0, 1, 0, 0, 0}

	node, err := GetNode(doc, targetPath)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if node.Type != html.TextNode {
		t.Errorf("Expected TextNode, got %d", node.Type)
	}
	if node.Data != "Hello" {
		t.Errorf("Expected node data 'Hello', got '%s'", node.Data)
	}

	path, err := GetPath(doc, node)
	if err != nil {
		t.Fatalf("GetPath failed: %v", err)
	}
	assert.Equal(t, targetPath, path)

	_, err = GetNode(doc, NodePath{0, 5})
	assert.Error(t, err)

	_, err = GetPath(doc, newText("detached"))
	assert.Error(t, err)
}

func TestUnwrap(t *testing.T) {
	root := parseSurface(t, `<p>a<b>b<i>c</i></b>d</p>`)
	b := root.FirstChild.FirstChild.NextSibling

	Unwrap(b)
	assert.Nil(t, b.Parent)
	assert.Equal(t, `<p>ab<i>c</i>d</p>`, innerHTML(t, root))

	// detached nodes are left alone
	Unwrap(b)
	assert.Nil(t, b.Parent)
}

func TestSwap(t *testing.T) {
	root := parseSurface(t, `<li class="x">a<b>b</b></li><p>c</p>`)
	li := root.FirstChild

	p := Swap(li, "p")
	assert.Equal(t, "p", p.Data)
	assert.Nil(t, li.Parent)
	assert.Equal(t, `<p>a<b>b</b></p><p>c</p>`, innerHTML(t, root))
}

func TestSplitText(t *testing.T) {
	root := parseSurface(t, `<p>héllo</p>`)
	text := root.FirstChild.FirstChild

	assert.Same(t, text, splitText(text, 0))
	assert.Nil(t, splitText(text, 5))

	tail := splitText(text, 2)
	require.NotNil(t, tail)
	assert.Equal(t, "hé", text.Data)
	assert.Equal(t, "llo", tail.Data)
	assert.Same(t, tail, text.NextSibling)
}

func TestWrapNodes(t *testing.T) {
	root := parseSurface(t, `a<b>b</b>c<p>d</p>`)
	first := root.FirstChild
	last := first.NextSibling.NextSibling

	w := wrapNodes(first, last, "p")
	assert.Same(t, root.FirstChild, w)
	assert.Equal(t, `<p>a<b>b</b>c</p><p>d</p>`, innerHTML(t, root))
}

func TestCloneTreeIsDeep(t *testing.T) {
	root := parseSurface(t, `<p title="t">a<b>b</b></p>`)
	clone := cloneTree(root)

	assert.Nil(t, clone.Parent)
	assert.Equal(t, innerHTML(t, root), innerHTML(t, clone))

	clone.FirstChild.FirstChild.Data = "changed"
	clone.FirstChild.Attr[0].Val = "changed"
	assert.Equal(t, `<p title="t">a<b>b</b></p>`, innerHTML(t, root))
}

func TestAttributes(t *testing.T) {
	n := newElement("a")
	assert.False(t, hasAttr(n, "href"))

	setAttr(n, "href", "/")
	setAttr(n, "href", "http://example.com")
	setAttr(n, "class", "one two")
	assert.Equal(t, "http://example.com", getAttr(n, "href"))
	assert.True(t, hasClass(n, "two"))
	assert.False(t, hasClass(n, "three"))

	assert.True(t, removeAttr(n, "class"))
	assert.False(t, removeAttr(n, "class"))
	assert.Len(t, n.Attr, 1)
}
