package vcedit

import "errors"

// Selection errors
var (
	// ErrNoSelection indicates that the host has no active range.
	ErrNoSelection = errors.New("no active selection")

	// ErrOutsideSurface indicates that the active range is not inside the session's surface.
	ErrOutsideSurface = errors.New("selection is outside the editable surface")
)

// Command errors
var (
	// ErrUnknownCommand indicates a command name or kind the dispatcher does not know.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNotEditable indicates that the selected node has no editable ancestor.
	// It aborts the running command.
	ErrNotEditable = errors.New("selected node is not editable")

	// ErrListNeedsWrapper is the capability failure a Formatter reports when a
	// list cannot be inserted at the anchor without a wrapper element in the
	// editing host.
	ErrListNeedsWrapper = errors.New("list insertion requires a wrapper element")

	// ErrNotInLinkMode indicates a link confirmation or cancel outside link editing.
	ErrNotInLinkMode = errors.New("not in link edit mode")
)

// Setup errors
var (
	// ErrNoSurfaces indicates that the selector matched no element.
	ErrNoSurfaces = errors.New("selector matched no elements")

	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)
