package vcedit

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document is an in-memory Host: a parsed HTML tree, one active range and
// tree-level versions of the native formatting primitives.
type Document struct {
	root *html.Node
	sel  Range
	has  bool
}

// NewDocument parses content into a Document with no selection.
func NewDocument(content string) (*Document, error) {
	root, err := ParseHTML(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// NewDocumentFromNode wraps an existing tree.
func NewDocumentFromNode(root *html.Node) *Document {
	return &Document{root: root}
}

func (d *Document) Root() *html.Node { return d.root }

func (d *Document) ActiveRange() (Range, bool) {
	return d.sel, d.has
}

func (d *Document) SetActiveRange(r Range) {
	d.sel = r
	d.has = r.Start.Node != nil
}

func (d *Document) ClearSelection() {
	d.sel = Range{}
	d.has = false
}

// Exec runs a native primitive against the active range.
func (d *Document) Exec(cmd NativeCommand, arg string) error {
	if !d.has || d.sel.Start.Node == nil {
		return ErrNoSelection
	}
	switch cmd {
	case NativeBold:
		return d.toggleInline("b", "strong")
	case NativeItalic:
		return d.toggleInline("i", "em")
	case NativeFormatBlock:
		return d.formatBlock(strings.ToLower(strings.Trim(arg, "<> ")))
	case NativeOutdent:
		return d.outdent()
	case NativeInsertOrderedList:
		return d.insertList("ol")
	case NativeInsertUnorderedList:
		return d.insertList("ul")
	case NativeCreateLink:
		return d.createLink(arg)
	case NativeUnlink:
		return d.unlink()
	}
	return fmt.Errorf("%w: native %q", ErrUnknownCommand, cmd)
}

var blockTags = map[string]bool{
	"p": true, "div": true, "pre": true, "blockquote": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
	"table": true, "section": true, "article": true, "header": true, "footer": true,
}

func isBlockNode(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && blockTags[n.Data]
}

func isEditable(n *html.Node) bool {
	if n.Type != html.ElementNode || !hasAttr(n, "contenteditable") {
		return false
	}
	switch strings.ToLower(getAttr(n, "contenteditable")) {
	case "", "true", "plaintext-only":
		return true
	}
	return false
}

// editingHost returns the nearest editable element at or above n.
func editingHost(n *html.Node) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if isEditable(c) {
			return c
		}
	}
	return nil
}

// scope is the subtree the primitives may touch: the editing host of the
// anchor, or the anchor's parent when nothing is editable.
func (d *Document) scope() *html.Node {
	n := d.sel.Start.Node
	if h := editingHost(n); h != nil {
		return h
	}
	if n.Type != html.ElementNode && n.Parent != nil {
		return n.Parent
	}
	return n
}

func blockAncestor(n, scope *html.Node) *html.Node {
	for c := n; c != nil && c != scope; c = c.Parent {
		if isBlockNode(c) {
			return c
		}
	}
	return nil
}

// inlineRun returns the maximal run of non-block siblings directly under
// scope that holds p.
func inlineRun(scope *html.Node, p Point) (first, last *html.Node) {
	var top *html.Node
	if p.Node == scope {
		top = getChildAtIndex(scope, p.Offset)
		if top == nil {
			top = scope.LastChild
		}
	} else {
		top = p.Node
		for top.Parent != nil && top.Parent != scope {
			top = top.Parent
		}
		if top.Parent != scope {
			return nil, nil
		}
	}
	if top == nil || isBlockNode(top) {
		return nil, nil
	}
	first, last = top, top
	for first.PrevSibling != nil && !isBlockNode(first.PrevSibling) {
		first = first.PrevSibling
	}
	for last.NextSibling != nil && !isBlockNode(last.NextSibling) {
		last = last.NextSibling
	}
	return first, last
}

// rangeBlocks returns the blocks the active range touches: the start block,
// plus its siblings up to the end block when both share a parent.
func (d *Document) rangeBlocks(scope *html.Node) []*html.Node {
	sb := blockAncestor(d.sel.Start.Node, scope)
	if sb == nil {
		return nil
	}
	eb := blockAncestor(d.sel.End.Node, scope)
	if eb == nil || eb == sb || eb.Parent != sb.Parent {
		return []*html.Node{sb}
	}
	var out []*html.Node
	for n := sb; n != nil; n = n.NextSibling {
		if isBlockNode(n) {
			out = append(out, n)
		}
		if n == eb {
			break
		}
	}
	return out
}

// replace swaps old for a new element and keeps the range pointing at it.
func (d *Document) replace(old *html.Node, tag string) *html.Node {
	n := Swap(old, tag)
	d.repoint(old, n)
	return n
}

func (d *Document) repoint(old, n *html.Node) {
	if d.sel.Start.Node == old {
		d.sel.Start.Node = n
	}
	if d.sel.End.Node == old {
		d.sel.End.Node = n
	}
}

func (d *Document) formatBlock(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: formatBlock needs a tag", ErrUnknownCommand)
	}
	scope := d.scope()
	blocks := d.rangeBlocks(scope)
	if len(blocks) == 0 {
		first, last := inlineRun(scope, d.sel.Start)
		if first != nil {
			wrapNodes(first, last, tag)
		}
		return nil
	}
	for _, b := range blocks {
		switch {
		case b.Data == tag:
		case b.Data == "li":
			inner := newElement(tag)
			moveChildren(b, inner)
			b.AppendChild(inner)
		default:
			d.replace(b, tag)
		}
	}
	return nil
}

func (d *Document) outdent() error {
	target := closest(d.scope(), d.sel.Start.Node, "blockquote", "li")
	switch {
	case target == nil:
	case target.Data == "blockquote":
		Unwrap(target)
	default:
		d.lift(target)
	}
	return nil
}

// lift moves li out of its list, splitting the list around it. Content that
// is a single block is kept as is, anything else becomes a paragraph.
func (d *Document) lift(li *html.Node) *html.Node {
	list := li.Parent
	if !isElement(list, "ul", "ol") {
		return d.replace(li, "p")
	}
	if li.NextSibling != nil {
		tail := newElement(list.Data)
		moveFrom(li.NextSibling, tail)
		insertAfter(tail, list)
	}
	list.RemoveChild(li)

	content := soleBlock(li)
	if content != nil {
		li.RemoveChild(content)
	} else {
		content = newElement("p")
		moveChildren(li, content)
	}
	insertAfter(content, list)
	d.repoint(li, content)

	if !hasElementChild(list) {
		list.Parent.RemoveChild(list)
	}
	return content
}

// soleBlock returns n's only block child when everything else is whitespace.
func soleBlock(n *html.Node) *html.Node {
	var found *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && isBlank(c.Data):
		case isBlockNode(c) && found == nil:
			found = c
		default:
			return nil
		}
	}
	return found
}

func (d *Document) insertList(tag string) error {
	scope := d.scope()
	b := blockAncestor(d.sel.Start.Node, scope)

	var list *html.Node
	switch {
	case b == nil:
		first, last := inlineRun(scope, d.sel.Start)
		if first == nil {
			return nil
		}
		if !hasElementChild(first.Parent) {
			return ErrListNeedsWrapper
		}
		li := wrapNodes(first, last, "li")
		list = wrapNodes(li, li, tag)
	case b.Data == "li":
		switch parent := b.Parent; {
		case isElement(parent, tag):
			d.lift(b)
			return nil
		case isElement(parent, "ul", "ol"):
			list = d.replace(parent, tag)
		default:
			list = wrapNodes(b, b, tag)
		}
	case b.Data == "ul" || b.Data == "ol":
		if b.Data == tag {
			return nil
		}
		list = d.replace(b, tag)
	default:
		li := newElement("li")
		moveChildren(b, li)
		list = newElement(tag)
		list.AppendChild(li)
		b.Parent.InsertBefore(list, b)
		b.Parent.RemoveChild(b)
		d.repoint(b, li)
	}

	if prev := list.PrevSibling; isElement(prev, tag) {
		moveChildren(list, prev)
		list.Parent.RemoveChild(list)
		d.repoint(list, prev)
	}
	return nil
}

func (d *Document) toggleInline(tag string, aliases ...string) error {
	scope := d.scope()
	if el := closest(scope, d.sel.Start.Node, append([]string{tag}, aliases...)...); el != nil {
		Unwrap(el)
		return nil
	}
	d.wrapSelection(scope, func() *html.Node { return newElement(tag) })
	return nil
}

func (d *Document) createLink(href string) error {
	if href == "" {
		return nil
	}
	d.wrapSelection(d.scope(), func() *html.Node {
		a := newElement("a")
		setAttr(a, "href", href)
		return a
	})
	return nil
}

func (d *Document) unlink() error {
	scope := d.scope()
	s := Serialize(scope, d.sel)

	seen := make(map[*html.Node]bool)
	var links []*html.Node
	add := func(n *html.Node) {
		if a := closest(scope, n, "a"); a != nil && !seen[a] {
			seen[a] = true
			links = append(links, a)
		}
	}
	add(d.sel.Start.Node)
	add(d.sel.End.Node)

	count := 0
	for t := range Texts(scope) {
		lo, hi := count, count+runeLen(t.Data)
		count = hi
		if s.Start == s.End {
			if s.Start < lo || s.Start > hi {
				continue
			}
		} else if hi <= s.Start || lo >= s.End {
			continue
		}
		add(t)
	}

	for _, a := range links {
		Unwrap(a)
	}
	return nil
}

// wrapSelection wraps every text segment covered by the active range in its
// own element and selects the wrapped text. A caret wraps nothing.
func (d *Document) wrapSelection(scope *html.Node, wrapper func() *html.Node) {
	s := Serialize(scope, d.sel)
	if s.Start == s.End {
		return
	}
	texts := splitTextRange(scope, s.Start, s.End)
	if len(texts) == 0 {
		return
	}
	for _, t := range texts {
		w := wrapper()
		t.Parent.InsertBefore(w, t)
		t.Parent.RemoveChild(t)
		w.AppendChild(t)
	}
	last := texts[len(texts)-1]
	d.SetActiveRange(Range{
		Start: Point{Node: texts[0]},
		End:   Point{Node: last, Offset: runeLen(last.Data)},
	})
}

// splitTextRange splits text nodes at the offsets from and to and returns the
// nodes lying entirely inside [from, to).
func splitTextRange(scope *html.Node, from, to int) []*html.Node {
	var out []*html.Node
	count := 0
	for _, t := range collect(Texts(scope)) {
		l := runeLen(t.Data)
		lo, hi := count, count+l
		count = hi
		if l == 0 || hi <= from || lo >= to {
			continue
		}
		start, end := max(from, lo)-lo, min(hi, to)-lo
		node := t
		if end < l {
			splitText(node, end)
		}
		if start > 0 {
			node = splitText(node, start)
		}
		out = append(out, node)
	}
	return out
}
