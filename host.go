package vcedit

import "golang.org/x/net/html"

// NativeCommand names a formatting primitive of the host.
type NativeCommand string

const (
	NativeBold                NativeCommand = "bold"
	NativeItalic              NativeCommand = "italic"
	NativeFormatBlock         NativeCommand = "formatBlock" // arg: block tag
	NativeOutdent             NativeCommand = "outdent"
	NativeInsertOrderedList   NativeCommand = "insertOrderedList"
	NativeInsertUnorderedList NativeCommand = "insertUnorderedList"
	NativeCreateLink          NativeCommand = "createLink" // arg: href
	NativeUnlink              NativeCommand = "unlink"
)

// SelectionHost gives access to the host's single active range.
type SelectionHost interface {
	ActiveRange() (Range, bool)
	SetActiveRange(r Range)
	ClearSelection()
}

// Formatter runs native formatting primitives against the active range.
// List insertion reports ErrListNeedsWrapper when the host needs a wrapper
// element inside the editing host before it can succeed.
type Formatter interface {
	Exec(cmd NativeCommand, arg string) error
}

// Host is the document an Editor attaches to.
type Host interface {
	SelectionHost
	Formatter
	Root() *html.Node
}

// Toolbar is the floating command bar. Visuals are up to the implementation.
type Toolbar interface {
	Show()
	Hide()
	Position(r Range)
	SetButtonActive(name string, active bool)
}

// LinkField is the URL input shown while a link is being edited.
type LinkField interface {
	Value() string
	// Open shows and focuses the field.
	Open()
	// Close hides the field and clears its value.
	Close()
}

type nopToolbar struct{}

func (nopToolbar) Show()                        {}
func (nopToolbar) Hide()                        {}
func (nopToolbar) Position(Range)               {}
func (nopToolbar) SetButtonActive(string, bool) {}

type nopLinkField struct{}

func (nopLinkField) Value() string { return "" }
func (nopLinkField) Open()         {}
func (nopLinkField) Close()        {}
