package vcedit

import (
	"fmt"

	"golang.org/x/net/html"
)

// Point is a boundary point in the tree. For text nodes Offset counts runes,
// for elements it is a child index.
type Point struct {
	Node   *html.Node
	Offset int
}

// Range is a possibly collapsed span between two points, Start first.
type Range struct {
	Start Point
	End   Point
}

// Collapsed reports whether the range is a caret.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// Caret returns a collapsed range at p.
func Caret(p Point) Range {
	return Range{Start: p, End: p}
}

// Serialized expresses a selection as rune offsets over the text of a
// container. It stays meaningful across any mutation that keeps the
// container's text unchanged.
type Serialized struct {
	Start int
	End   int
}

func (s Serialized) String() string {
	return fmt.Sprintf("[%d,%d]", s.Start, s.End)
}

// Serialize maps r onto character offsets inside container. Anchors outside
// the container yield the zero mapping.
func Serialize(container *html.Node, r Range) Serialized {
	start, ok := offsetOf(container, r.Start)
	if !ok {
		return Serialized{}
	}
	end, ok := offsetOf(container, r.End)
	if !ok {
		return Serialized{}
	}
	if end < start {
		end = start
	}
	return Serialized{Start: start, End: end}
}

// offsetOf counts the text runes that precede p inside container.
func offsetOf(container *html.Node, p Point) (int, bool) {
	if p.Node == nil || !isAncestor(container, p.Node) {
		return 0, false
	}

	if p.Node.Type == html.TextNode {
		count := 0
		for t := range Texts(container) {
			if t == p.Node {
				return count + clamp(p.Offset, 0, runeLen(t.Data)), true
			}
			count += runeLen(t.Data)
		}
		return 0, false
	}

	// Element boundary: everything before the Offset-th child counts.
	var stop *html.Node
	if c := getChildAtIndex(p.Node, p.Offset); c != nil {
		stop = c
	} else if p.Node != container {
		stop = following(container, p.Node)
	}
	count := 0
	for n := range Walk(container) {
		if n == stop {
			break
		}
		if n.Type == html.TextNode {
			count += runeLen(n.Data)
		}
	}
	return count, true
}

// Locate rebuilds a range from serialized offsets. The start anchors in the
// first text node whose span covers s.Start; the end is searched from there
// on. It reports false when no text node covers the start.
func Locate(container *html.Node, s Serialized) (Range, bool) {
	var r Range
	foundStart := false
	count := 0
	for t := range Texts(container) {
		next := count + runeLen(t.Data)
		if !foundStart && s.Start >= count && s.Start <= next {
			r.Start = Point{Node: t, Offset: s.Start - count}
			foundStart = true
		}
		if foundStart && s.End >= count && s.End <= next {
			r.End = Point{Node: t, Offset: s.End - count}
			return r, true
		}
		count = next
	}
	if foundStart {
		// content shrank below s.End
		r.End = r.Start
		return r, true
	}
	return Range{}, false
}

// Restore places the host selection at s. When the offsets no longer map onto
// the container the selection is cleared and false is returned.
func Restore(container *html.Node, s Serialized, host SelectionHost) bool {
	r, ok := Locate(container, s)
	if !ok {
		host.ClearSelection()
		return false
	}
	host.SetActiveRange(r)
	return true
}

// IsAtEndOfNode reports whether no text follows the end of r inside the node
// holding it.
func IsAtEndOfNode(r Range) bool {
	p := r.End
	if p.Node == nil {
		return false
	}
	if p.Node.Type == html.TextNode {
		return p.Offset >= runeLen(p.Node.Data)
	}
	for c := getChildAtIndex(p.Node, p.Offset); c != nil; c = c.NextSibling {
		if textContent(c) != "" {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
