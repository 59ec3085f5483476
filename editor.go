// Package vcedit is a rich-text editing engine over golang.org/x/net/html
// trees. Elements picked by an XPath selector become editable surfaces, each
// driven by a Session that keeps the tree well-formed while the user types
// and applies style commands.
package vcedit

import (
	"fmt"
	"log/slog"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// plainClass marks surfaces that only take plain text.
const plainClass = "editor-heading"

// Editor owns the sessions of every surface found in a host document.
type Editor struct {
	host     Host
	cfg      Config
	log      *slog.Logger
	sessions []*Session
}

type options struct {
	toolbar  Toolbar
	link     LinkField
	logger   *slog.Logger
	onChange func(Delta)
}

// Option configures an Editor.
type Option func(*options)

// WithToolbar sets the toolbar every rich surface reports to.
func WithToolbar(t Toolbar) Option {
	return func(o *options) { o.toolbar = t }
}

// WithLinkField sets the URL input used while editing links.
func WithLinkField(f LinkField) Option {
	return func(o *options) { o.link = f }
}

// WithLogger sets the logger. Sessions add their surface id to it.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithChangeListener registers fn to receive a Delta for every change a
// session makes to its surface.
func WithChangeListener(fn func(Delta)) Option {
	return func(o *options) { o.onChange = fn }
}

// New attaches an editor to every element of host matching the XPath
// selector. Matches are made editable; those with the editor-heading class
// become plain-text surfaces.
func New(host Host, selector string, cfg Config, opts ...Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{
		toolbar: nopToolbar{},
		link:    nopLinkField{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	expr, err := xpath.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	matches := htmlquery.QuerySelectorAll(host.Root(), expr)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSurfaces, selector)
	}

	e := &Editor{host: host, cfg: cfg, log: o.logger}
	for _, n := range matches {
		if n.Type != html.ElementNode {
			continue
		}
		e.sessions = append(e.sessions, e.attach(n, o))
	}
	if len(e.sessions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSurfaces, selector)
	}
	e.log.Debug("editor attached", "selector", selector, "surfaces", len(e.sessions))
	return e, nil
}

func (e *Editor) attach(n *html.Node, o options) *Session {
	plain := hasClass(n, plainClass)
	if plain {
		setAttr(n, "contenteditable", "plaintext-only")
	} else {
		setAttr(n, "contenteditable", "true")
	}
	id := uuid.New().String()
	return &Session{
		ID:       id,
		root:     n,
		host:     e.host,
		toolbar:  o.toolbar,
		link:     o.link,
		cfg:      e.cfg,
		log:      o.logger.With("surface", id),
		onChange: o.onChange,
		plain:    plain,
	}
}

// Sessions returns the sessions in document order.
func (e *Editor) Sessions() []*Session {
	return e.sessions
}

// Session returns the i-th session, or nil when out of range.
func (e *Editor) Session(i int) *Session {
	if i < 0 || i >= len(e.sessions) {
		return nil
	}
	return e.sessions[i]
}

// SessionFor returns the session whose surface holds n.
func (e *Editor) SessionFor(n *html.Node) *Session {
	for _, s := range e.sessions {
		if isAncestor(s.root, n) {
			return s
		}
	}
	return nil
}

// Active returns the session holding the host's active range, if any.
func (e *Editor) Active() *Session {
	r, ok := e.host.ActiveRange()
	if !ok {
		return nil
	}
	return e.SessionFor(r.Start.Node)
}
