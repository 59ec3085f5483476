package vcedit

import (
	"iter"

	"golang.org/x/net/html"
)

// Walk returns the descendants of root in depth-first pre-order. Root itself
// is not yielded. Every call starts a fresh walk; callers that mutate the tree
// must do so between walks, not while ranging over one.
func Walk(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for n := nextNode(root, root); n != nil; n = nextNode(root, n) {
			if !yield(n) {
				return
			}
		}
	}
}

// Elements yields the element descendants of root.
func Elements(root *html.Node) iter.Seq[*html.Node] {
	return filter(root, html.ElementNode)
}

// Texts yields the text descendants of root in document order.
func Texts(root *html.Node) iter.Seq[*html.Node] {
	return filter(root, html.TextNode)
}

func filter(root *html.Node, typ html.NodeType) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for n := range Walk(root) {
			if n.Type == typ && !yield(n) {
				return
			}
		}
	}
}

func nextNode(root, n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return following(root, n)
}

// following returns the first node after n's subtree, staying inside root.
func following(root, n *html.Node) *html.Node {
	for n != nil && n != root {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

func collect(seq iter.Seq[*html.Node]) []*html.Node {
	var out []*html.Node
	for n := range seq {
		out = append(out, n)
	}
	return out
}
