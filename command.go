package vcedit

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// CommandKind enumerates the style commands the dispatcher understands.
type CommandKind int

const (
	KindBold CommandKind = iota
	KindItalic
	KindHeading
	KindQuote
	KindUnorderedList
	KindOrderedList
	KindLink
)

func (k CommandKind) String() string {
	switch k {
	case KindBold:
		return "bold"
	case KindItalic:
		return "italic"
	case KindHeading:
		return "heading"
	case KindQuote:
		return "quote"
	case KindUnorderedList:
		return "unordered-list"
	case KindOrderedList:
		return "ordered-list"
	case KindLink:
		return "link"
	}
	return "CommandKind(" + strconv.Itoa(int(k)) + ")"
}

// Command is a style command. Level is only meaningful for KindHeading (1-6).
type Command struct {
	Kind  CommandKind
	Level int
}

var (
	Bold          = Command{Kind: KindBold}
	Italic        = Command{Kind: KindItalic}
	Quote         = Command{Kind: KindQuote}
	UnorderedList = Command{Kind: KindUnorderedList}
	OrderedList   = Command{Kind: KindOrderedList}
	Link          = Command{Kind: KindLink}
)

// Heading returns the heading command for level, which must be 1 to 6.
func Heading(level int) Command {
	return Command{Kind: KindHeading, Level: level}
}

// ParseCommand accepts toolbar names (b, i, h1..h6, blockquote, ul, ol, a)
// and long names (bold, italic, heading-N, quote, unordered-list,
// ordered-list, link).
func ParseCommand(name string) (Command, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "b", "bold":
		return Bold, nil
	case "i", "italic":
		return Italic, nil
	case "blockquote", "quote":
		return Quote, nil
	case "ul", "unordered-list":
		return UnorderedList, nil
	case "ol", "ordered-list":
		return OrderedList, nil
	case "a", "link":
		return Link, nil
	default:
		level := ""
		if rest, ok := strings.CutPrefix(n, "heading-"); ok {
			level = rest
		} else if rest, ok := strings.CutPrefix(n, "h"); ok {
			level = rest
		}
		if l, err := strconv.Atoi(level); err == nil && l >= 1 && l <= 6 {
			return Heading(l), nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Name returns the toolbar button name of the command.
func (c Command) Name() string {
	switch c.Kind {
	case KindBold:
		return "b"
	case KindItalic:
		return "i"
	case KindHeading:
		return "h" + strconv.Itoa(c.Level)
	case KindQuote:
		return "blockquote"
	case KindUnorderedList:
		return "ul"
	case KindOrderedList:
		return "ol"
	case KindLink:
		return "a"
	}
	return c.Kind.String()
}

func (c Command) String() string {
	return c.Name()
}

// IsBlock reports whether the command restructures whole lines and so needs
// cleanup afterwards.
func (c Command) IsBlock() bool {
	switch c.Kind {
	case KindHeading, KindQuote, KindUnorderedList, KindOrderedList:
		return true
	}
	return false
}

func (c Command) valid() bool {
	switch c.Kind {
	case KindHeading:
		return c.Level >= 1 && c.Level <= 6
	case KindBold, KindItalic, KindQuote, KindUnorderedList, KindOrderedList, KindLink:
		return true
	}
	return false
}

const headingGroup = "heading"

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// incompatible lists, per target style, the ancestor tags removed before the
// style is applied. Order is removal order.
var incompatible = map[string][]string{
	"ul":         append(append([]string{"blockquote", "p"}, headingTags...), "ol", "li"),
	"ol":         append(append([]string{"blockquote", "p"}, headingTags...), "ul", "li"),
	"blockquote": {"blockquote", "li", "ol", "ul"},
	headingGroup: {"blockquote", "li", "ol", "ul"},
}

// buttonForTag maps element tags to the toolbar button they light up.
var buttonForTag = map[string]string{
	"b":          "b",
	"strong":     "b",
	"i":          "i",
	"em":         "i",
	"blockquote": "blockquote",
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"h5":         "h5",
	"h6":         "h6",
	"a":          "a",
	"ul":         "ul",
	"ol":         "ol",
}

// Ancestors maps tag names to the nearest element with that tag above an
// anchor.
type Ancestors map[string]*html.Node

// Has reports whether an ancestor with tag exists.
func (a Ancestors) Has(tag string) bool {
	return a[tag] != nil
}

// AncestorIndex walks from anchor (inclusive) up to, but excluding, root.
func AncestorIndex(root, anchor *html.Node) Ancestors {
	idx := make(Ancestors)
	for n := anchor; n != nil && n != root; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, seen := idx[n.Data]; !seen {
			idx[n.Data] = n
		}
	}
	return idx
}

// closest returns the nearest element from n up to root (exclusive) whose tag
// is one of tags.
func closest(root, n *html.Node, tags ...string) *html.Node {
	for c := n; c != nil && c != root; c = c.Parent {
		if isElement(c, tags...) {
			return c
		}
	}
	return nil
}
