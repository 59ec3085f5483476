package vcedit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses a string into an HTML node tree.
// The result is always a full document (html/head/body are synthesized for fragments).
func ParseHTML(content string) (*html.Node, error) {
	return html.Parse(strings.NewReader(content))
}

// RenderNode converts a node tree back to a string.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GetNode traverses the tree using the provided path to find a specific node.
func GetNode(root *html.Node, path NodePath) (*html.Node, error) {
	current := root
	for i, index := range path {
		child := getChildAtIndex(current, index)
		if child == nil {
			return nil, fmt.Errorf("node not found at path %v (failed at index %d, step %d)", path, index, i)
		}
		current = child
	}
	return current, nil
}

// getChildAtIndex finds the Nth child of a node.
// Note: html.Node's children are a linked list (FirstChild, NextSibling).
func getChildAtIndex(parent *html.Node, index int) *html.Node {
	if index < 0 {
		return nil
	}
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if count == index {
			return c
		}
		count++
	}
	return nil
}

// GetPath finds the path from root to the target node.
func GetPath(root, target *html.Node) (NodePath, error) {
	var path NodePath

	current := target
	for current != root {
		parent := current.Parent
		if parent == nil {
			return nil, errors.New("target node is not a descendant of root")
		}

		index := getChildIndex(parent, current)
		if index == -1 {
			return nil, errors.New("integrity error: child not found in parent's list")
		}

		path = append(NodePath{index}, path...)
		current = parent
	}
	return path, nil
}

// getChildIndex returns the index of child within parent.
func getChildIndex(parent, child *html.Node) int {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == child {
			return count
		}
		count++
	}
	return -1
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// removeAttr drops every attribute named key and reports whether one existed.
func removeAttr(n *html.Node, key string) bool {
	kept := n.Attr[:0]
	removed := false
	for _, a := range n.Attr {
		if a.Key == key {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
	return removed
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func newElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func isElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// textContent concatenates every text node under n (n included).
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for t := range Texts(n) {
		sb.WriteString(t.Data)
	}
	return sb.String()
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isAncestor reports whether n is root or lies under it.
func isAncestor(root, n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == root {
			return true
		}
	}
	return false
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func insertAfter(n, ref *html.Node) {
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

func insertChildAt(parent, child *html.Node, index int) {
	ref := getChildAtIndex(parent, index)
	if ref != nil {
		parent.InsertBefore(child, ref)
	} else {
		parent.AppendChild(child)
	}
}

// moveFrom moves n and all of its following siblings to the end of dst.
func moveFrom(n, dst *html.Node) {
	for n != nil {
		next := n.NextSibling
		n.Parent.RemoveChild(n)
		dst.AppendChild(n)
		n = next
	}
}

func moveChildren(src, dst *html.Node) {
	moveFrom(src.FirstChild, dst)
}

// Unwrap removes n from the tree and splices its children into its former
// position. A detached node is left untouched.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// Swap replaces n with a fresh element of the given tag holding n's children
// and returns the replacement. Attributes are not carried over.
func Swap(n *html.Node, tag string) *html.Node {
	replacement := newElement(tag)
	moveChildren(n, replacement)
	if n.Parent != nil {
		n.Parent.InsertBefore(replacement, n)
		n.Parent.RemoveChild(n)
	}
	return replacement
}

// wrapNodes moves the consecutive siblings first..last into a new element
// inserted at first's position.
func wrapNodes(first, last *html.Node, tag string) *html.Node {
	wrapper := newElement(tag)
	parent := first.Parent
	parent.InsertBefore(wrapper, first)
	stop := last.NextSibling
	for n := first; n != nil && n != stop; {
		next := n.NextSibling
		parent.RemoveChild(n)
		wrapper.AppendChild(n)
		n = next
	}
	return wrapper
}

// splitText cuts t at the rune offset off. t keeps the head; the tail is
// inserted right after it and returned. An offset at or past the end returns
// nil, an offset at or before the start returns t itself.
func splitText(t *html.Node, off int) *html.Node {
	if off <= 0 {
		return t
	}
	runes := []rune(t.Data)
	if off >= len(runes) {
		return nil
	}
	tail := newText(string(runes[off:]))
	t.Data = string(runes[:off])
	if t.Parent != nil {
		insertAfter(tail, t)
	}
	return tail
}

func shallowClone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	return c
}

// cloneTree deep-copies n and its subtree. The copy is detached.
func cloneTree(n *html.Node) *html.Node {
	c := shallowClone(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}

// mergeTextRuns joins adjacent text children of n and drops empty ones.
func mergeTextRuns(n *html.Node) bool {
	changed := false
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type != html.TextNode {
			c = next
			continue
		}
		if c.Data == "" {
			n.RemoveChild(c)
			changed = true
			c = next
			continue
		}
		for next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			after := next.NextSibling
			n.RemoveChild(next)
			next = after
			changed = true
		}
		c = next
	}
	return changed
}
