package vcedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// placeholderHref marks a link whose URL is still being typed.
const placeholderHref = "/"

// LinkState is the link editing mode of a session.
type LinkState int

const (
	LinkIdle LinkState = iota
	LinkPending
)

func (s LinkState) String() string {
	if s == LinkPending {
		return "pending"
	}
	return "idle"
}

// Session drives one editable surface. It is not safe for concurrent use.
type Session struct {
	ID string

	root     *html.Node
	host     Host
	toolbar  Toolbar
	link     LinkField
	cfg      Config
	log      *slog.Logger
	onChange func(Delta)
	plain    bool

	saved     Serialized
	linkState LinkState
	tracking  bool
}

// Root returns the surface element.
func (s *Session) Root() *html.Node { return s.root }

// Plain reports whether the surface only accepts plain text.
func (s *Session) Plain() bool { return s.plain }

// LinkState returns the current link editing mode.
func (s *Session) LinkState() LinkState { return s.linkState }

// HTML renders the surface content.
func (s *Session) HTML(opts RenderOptions) (string, error) {
	return Render(s.root, opts)
}

// Execute applies a style command to the active range.
func (s *Session) Execute(cmd Command) error {
	if !cmd.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return s.track(cmd.Name(), func() error {
		return s.execute(cmd)
	})
}

func (s *Session) execute(cmd Command) error {
	r, err := s.activeRange()
	if err != nil {
		return err
	}
	s.saved = Serialize(s.root, r)
	idx := AncestorIndex(s.root, r.Start.Node)
	s.log.Debug("executing command", "command", cmd.Name(), "selection", s.saved.String())

	switch cmd.Kind {
	case KindBold:
		err = s.host.Exec(NativeBold, "")
	case KindItalic:
		err = s.host.Exec(NativeItalic, "")
	case KindHeading:
		err = s.applyBlock(idx, cmd.Name(), incompatible[headingGroup])
	case KindQuote:
		err = s.applyBlock(idx, "blockquote", incompatible["blockquote"])
	case KindUnorderedList:
		err = s.applyList(idx, "ul", NativeInsertUnorderedList)
	case KindOrderedList:
		err = s.applyList(idx, "ol", NativeInsertOrderedList)
	case KindLink:
		err = s.toggleLink(idx)
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", cmd.Name(), err)
	}

	if cmd.IsBlock() {
		s.cleanup()
		s.restore()
	}
	s.updateButtonState()
	if r, ok := s.host.ActiveRange(); ok && !s.plain {
		s.toolbar.Position(r)
	}
	return nil
}

// applyBlock toggles a heading or quote on the line holding the selection.
func (s *Session) applyBlock(idx Ancestors, tag string, incompat []string) error {
	if !s.removeIncompatibles(idx, incompat) {
		return nil
	}
	if idx.Has(tag) {
		return s.toggleOff()
	}
	return s.host.Exec(NativeFormatBlock, tag)
}

func (s *Session) applyList(idx Ancestors, tag string, native NativeCommand) error {
	if idx.Has(tag) {
		return s.toggleOff()
	}
	if !s.removeIncompatibles(idx, incompatible[tag]) {
		return nil
	}
	err := s.host.Exec(native, "")
	if errors.Is(err, ErrListNeedsWrapper) {
		err = s.retryWithWrapper(native)
	}
	return err
}

func (s *Session) toggleOff() error {
	if err := s.host.Exec(NativeFormatBlock, "p"); err != nil {
		return err
	}
	return s.host.Exec(NativeOutdent, "")
}

// removeIncompatibles unwraps every indexed ancestor named in tags, in order,
// then puts the selection back. It reports false when the selection is gone.
func (s *Session) removeIncompatibles(idx Ancestors, tags []string) bool {
	removed := false
	for _, tag := range tags {
		if n := idx[tag]; n != nil && n.Parent != nil {
			Unwrap(n)
			removed = true
		}
	}
	if !removed {
		return true
	}
	return s.restore()
}

// retryWithWrapper gives the host a block to anchor the list against: a
// placeholder div as the first child of the nearest editable ancestor.
func (s *Session) retryWithWrapper(native NativeCommand) error {
	r, ok := s.host.ActiveRange()
	if !ok {
		return ErrNoSelection
	}
	start := r.Start.Node
	if start.Type != html.ElementNode && start.Parent != nil {
		start = start.Parent
	}
	editable := editingHost(start)
	if editable == nil {
		s.log.Error("list insertion aborted", "err", ErrNotEditable)
		return ErrNotEditable
	}

	s.log.Warn("list insertion needs a wrapper, retrying", "native", string(native))
	placeholder := newElement("div")
	editable.InsertBefore(placeholder, editable.FirstChild)
	err := s.host.Exec(native, "")
	if placeholder.Parent != nil {
		placeholder.Parent.RemoveChild(placeholder)
	}
	return err
}

func (s *Session) toggleLink(idx Ancestors) error {
	if idx.Has("a") {
		return s.cancelLink()
	}
	s.linkState = LinkPending
	s.link.Open()
	if err := s.host.Exec(NativeUnlink, ""); err != nil {
		return err
	}
	return s.host.Exec(NativeCreateLink, placeholderHref)
}

// AddHref confirms the pending link with the URL typed in the link field.
// A blank URL leaves the text unlinked.
func (s *Session) AddHref() error {
	if s.linkState != LinkPending {
		return ErrNotInLinkMode
	}
	return s.track("href", func() error {
		url := strings.TrimSpace(s.link.Value())
		s.restore()
		if err := s.host.Exec(NativeUnlink, ""); err != nil {
			return err
		}
		if url != "" {
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				url = "http://" + url
			}
			if err := s.host.Exec(NativeCreateLink, url); err != nil {
				return err
			}
		}
		s.exitLinkMode()
		return nil
	})
}

// CancelLink abandons the pending link.
func (s *Session) CancelLink() error {
	if s.linkState != LinkPending {
		return ErrNotInLinkMode
	}
	return s.track("cancel", s.cancelLink)
}

func (s *Session) cancelLink() error {
	s.restore()
	if err := s.host.Exec(NativeUnlink, ""); err != nil {
		return err
	}
	s.exitLinkMode()
	return nil
}

func (s *Session) exitLinkMode() {
	s.link.Close()
	s.linkState = LinkIdle
	if s.restore() {
		if r, ok := s.host.ActiveRange(); ok {
			s.host.SetActiveRange(Caret(r.End))
		}
	}
	s.updateButtonState()
}

// Cleanup normalizes the surface and keeps the selection on the same
// characters. It reports whether the tree changed.
func (s *Session) Cleanup() bool {
	changed := false
	_ = s.track("cleanup", func() error {
		changed = s.cleanup()
		return nil
	})
	return changed
}

func (s *Session) cleanup() bool {
	r, ok := s.host.ActiveRange()
	inside := ok && isAncestor(s.root, r.Start.Node)
	var saved Serialized
	if inside {
		saved = Serialize(s.root, r)
	}
	changed := Normalize(s.root)
	s.log.Debug("cleanup", "changed", changed)
	if changed && inside && !Restore(s.root, saved, s.host) {
		s.log.Warn("selection lost after cleanup", "selection", saved.String())
	}
	return changed
}

// SelectionChanged shows the toolbar for a non-empty selection on a rich
// surface and hides it otherwise.
func (s *Session) SelectionChanged() {
	r, ok := s.host.ActiveRange()
	if !ok || s.plain || r.Collapsed() || !isAncestor(s.root, r.Start.Node) {
		s.toolbar.Hide()
		return
	}
	s.updateButtonState()
	s.toolbar.Position(r)
	s.toolbar.Show()
}

// PointerUp handles the end of a pointer gesture once the configured delay
// has passed, so the host has settled its selection.
func (s *Session) PointerUp(ctx context.Context) error {
	if s.cfg.Delay > 0 {
		t := time.NewTimer(s.cfg.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	s.SelectionChanged()
	return nil
}

// Blur tidies the surface when it loses focus.
func (s *Session) Blur() {
	s.Cleanup()
}

// ActiveButtons returns the configured buttons that match the selection.
func (s *Session) ActiveButtons() []string {
	active := s.buttonState()
	var out []string
	for _, name := range s.cfg.Buttons {
		if active[name] {
			out = append(out, name)
		}
	}
	return out
}

func (s *Session) buttonState() map[string]bool {
	active := make(map[string]bool)
	r, ok := s.host.ActiveRange()
	if !ok || !isAncestor(s.root, r.Start.Node) {
		return active
	}
	for tag := range AncestorIndex(s.root, r.Start.Node) {
		if b, ok := buttonForTag[tag]; ok {
			active[b] = true
		}
	}
	return active
}

func (s *Session) updateButtonState() {
	active := s.buttonState()
	for _, name := range s.cfg.Buttons {
		if name == "cancel" {
			continue
		}
		s.toolbar.SetButtonActive(name, active[name])
	}
}

// activeRange returns the host range when it lies inside the surface.
func (s *Session) activeRange() (Range, error) {
	r, ok := s.host.ActiveRange()
	if !ok {
		return Range{}, ErrNoSelection
	}
	if !isAncestor(s.root, r.Start.Node) || !isAncestor(s.root, r.End.Node) {
		return Range{}, ErrOutsideSurface
	}
	return r, nil
}

// restore puts the selection back at the snapshot.
func (s *Session) restore() bool {
	if Restore(s.root, s.saved, s.host) {
		return true
	}
	s.log.Warn("selection could not be restored", "selection", s.saved.String())
	return false
}

// track runs fn and reports the resulting tree change to the change
// listener. Nested calls are folded into the outermost one.
func (s *Session) track(name string, fn func() error) error {
	if s.onChange == nil || s.tracking {
		return fn()
	}
	s.tracking = true
	defer func() { s.tracking = false }()

	before := cloneTree(s.root)
	hash, err := HashNode(before)
	if err != nil {
		s.log.Warn("failed to hash surface", "err", err)
		return fn()
	}

	fnErr := fn()

	ops, err := Diff(before, s.root)
	if err != nil {
		s.log.Warn("failed to diff surface", "err", err)
		return fnErr
	}
	if len(ops) > 0 {
		s.onChange(Delta{
			Surface:    s.ID,
			Command:    name,
			BaseHash:   hash,
			Operations: ops,
			Timestamp:  time.Now().Unix(),
		})
	}
	return fnErr
}
