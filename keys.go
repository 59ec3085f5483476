package vcedit

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Key is a key press the session reacts to. Keys without structural meaning
// are all KeyOther.
type Key uint8

const (
	KeyOther Key = iota
	KeyEnter
	KeyBackspace
	KeyDelete
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	}
	return "other"
}

// ParseKey returns the key for a name such as "enter" or "Backspace".
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "enter", "return":
		return KeyEnter, nil
	case "backspace":
		return KeyBackspace, nil
	case "delete", "del":
		return KeyDelete, nil
	case "other", "":
		return KeyOther, nil
	}
	return KeyOther, fmt.Errorf("unknown key: %q", name)
}

var (
	orderedPrefix = regexp.MustCompile(`^1\.\s?`)
	bulletPrefix  = regexp.MustCompile(`^-\s?`)
)

// Enter after these opens a fresh paragraph instead of continuing the block.
var closingBlocks = []string{"h1", "h2", "h3", "h4", "h5", "h6", "blockquote"}

// HandleKey runs the structural behavior bound to k. It reports whether the
// key was consumed; when it was not, the host should apply its default.
func (s *Session) HandleKey(k Key) (bool, error) {
	switch k {
	case KeyEnter:
		intercepted := false
		err := s.track(k.String(), func() (err error) {
			intercepted, err = s.enter()
			return err
		})
		return intercepted, err
	case KeyBackspace, KeyDelete:
		s.Cleanup()
		return false, nil
	default:
		_ = s.track(k.String(), func() error {
			s.ensureParagraph()
			return nil
		})
		return false, nil
	}
}

func (s *Session) enter() (bool, error) {
	r, err := s.activeRange()
	if err != nil {
		return false, err
	}
	if s.plain {
		return false, nil
	}
	if r.Start.Node == s.root {
		s.ensureParagraph()
		if r, err = s.activeRange(); err != nil {
			return false, err
		}
	}
	anchor := r.Start.Node
	if anchor == s.root || closest(s.root, anchor, "li") != nil {
		return false, nil
	}

	if blk := closest(s.root, anchor, closingBlocks...); blk != nil {
		p, caret := emptyParagraph()
		insertAfter(p, blk)
		s.host.SetActiveRange(Caret(caret))
		return true, nil
	}

	line := blockAncestor(anchor, s.root)
	if line == nil {
		line = anchor
	}
	text := textContent(line)

	if (r.Start.Offset == 0 || IsAtEndOfNode(r)) && isBlank(text) {
		top := topLevel(s.root, anchor)
		top.Parent.InsertBefore(newElement(ruleTag), top)
		return true, nil
	}

	if m := orderedPrefix.FindString(text); m != "" {
		return true, s.listShortcut(line, r, OrderedList, runeLen(m))
	}
	if m := bulletPrefix.FindString(text); m != "" {
		return true, s.listShortcut(line, r, UnorderedList, runeLen(m))
	}

	return s.breakLine()
}

// listShortcut turns a line typed as "1. " or "- " into a list, then opens
// the next item.
func (s *Session) listShortcut(line *html.Node, r Range, cmd Command, n int) error {
	lineStart, _ := offsetOf(s.root, Point{Node: line})
	cur := Serialize(s.root, r)

	texts := []*html.Node{line}
	if line.Type != html.TextNode {
		texts = collect(Texts(line))
	}
	remaining := n
	for _, t := range texts {
		if remaining == 0 {
			break
		}
		runes := []rune(t.Data)
		cut := min(len(runes), remaining)
		t.Data = string(runes[cut:])
		remaining -= cut
	}
	if isBlank(textContent(line)) {
		s.emptyList(line, cmd.Name())
		return nil
	}

	moved := Serialized{
		Start: max(cur.Start-n, lineStart),
		End:   max(cur.End-n, lineStart),
	}
	if !Restore(s.root, moved, s.host) {
		s.log.Warn("selection lost after list shortcut", "selection", moved.String())
		return nil
	}
	if err := s.execute(cmd); err != nil {
		return err
	}

	r, ok := s.host.ActiveRange()
	if !ok {
		return nil
	}
	li := closest(s.root, r.Start.Node, "li")
	if li == nil {
		return nil
	}
	item := newElement("li")
	t := newText("")
	item.AppendChild(t)
	insertAfter(item, li)
	s.host.SetActiveRange(Caret(Point{Node: t}))
	return nil
}

// emptyList replaces a line that held nothing but the shortcut with a list
// item, joining a list of the same type right before it.
func (s *Session) emptyList(line *html.Node, tag string) {
	item, caret := newElement("li"), newText("")
	item.AppendChild(caret)
	if prev := line.PrevSibling; isElement(prev, tag) {
		prev.AppendChild(item)
	} else {
		list := newElement(tag)
		list.AppendChild(item)
		line.Parent.InsertBefore(list, line)
	}
	line.Parent.RemoveChild(line)
	s.host.SetActiveRange(Caret(Point{Node: caret}))
}

// breakLine splits the line at the caret. Everything after the caret moves to
// a new paragraph, inline formatting included, and the caret follows it.
func (s *Session) breakLine() (bool, error) {
	s.cleanup()
	r, err := s.activeRange()
	if err != nil {
		return false, err
	}
	p := r.Start
	top := topLevel(s.root, p.Node)
	if top == nil {
		return false, nil
	}
	if !isBlockNode(top) {
		first, last := inlineRun(s.root, p)
		if first == nil {
			return false, nil
		}
		top = wrapNodes(first, last, "p")
	}

	parent, next := p.Node, (*html.Node)(nil)
	if p.Node.Type == html.TextNode {
		parent = p.Node.Parent
		switch {
		case p.Offset <= 0:
			next = p.Node
		case p.Offset >= runeLen(p.Node.Data):
			next = p.Node.NextSibling
		default:
			next = splitText(p.Node, p.Offset)
		}
	} else {
		next = getChildAtIndex(p.Node, p.Offset)
	}

	tail := splitBlock(top, parent, next)
	s.host.SetActiveRange(Caret(firstCaret(tail)))
	return true, nil
}

// splitBlock moves everything in top from the boundary (parent, before next)
// onward into a new paragraph inserted after top. Inline elements cut by the
// boundary are cloned so the moved part keeps its formatting.
func splitBlock(top, parent, next *html.Node) *html.Node {
	var carry *html.Node
	for {
		var holder *html.Node
		if parent == top {
			holder = newElement("p")
		} else {
			holder = shallowClone(parent)
		}
		if carry != nil {
			holder.AppendChild(carry)
		}
		if next != nil {
			moveFrom(next, holder)
		}
		if parent == top {
			insertAfter(holder, top)
			return holder
		}
		carry = holder
		next = parent.NextSibling
		parent = parent.Parent
	}
}

// firstCaret returns the first caret position inside n, creating an empty
// text node in the innermost leading element when there is no text.
func firstCaret(n *html.Node) Point {
	c := n
	for c.FirstChild != nil && c.FirstChild.Type == html.ElementNode && c.FirstChild.Data != ruleTag {
		c = c.FirstChild
	}
	if c.FirstChild != nil && c.FirstChild.Type == html.TextNode {
		return Point{Node: c.FirstChild}
	}
	t := newText("")
	c.InsertBefore(t, c.FirstChild)
	return Point{Node: t}
}

// ensureParagraph gives a caret sitting on the bare surface root a paragraph
// to land in, at the caret's child index. Plain surfaces keep bare text.
func (s *Session) ensureParagraph() {
	r, ok := s.host.ActiveRange()
	if !ok || s.plain || r.Start.Node != s.root {
		return
	}
	p, caret := emptyParagraph()
	insertChildAt(s.root, p, r.Start.Offset)
	s.host.SetActiveRange(Caret(caret))
}

func emptyParagraph() (*html.Node, Point) {
	p := newElement("p")
	t := newText("")
	p.AppendChild(t)
	return p, Point{Node: t}
}

// topLevel returns the child of root that holds n.
func topLevel(root, n *html.Node) *html.Node {
	for n != nil && n.Parent != root {
		n = n.Parent
	}
	return n
}
