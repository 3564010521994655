package livesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"showcase-backend/internal/models"

	"github.com/hashicorp/go-hclog"
)

// RendererState is the handshake state of a Renderer.
type RendererState int

const (
	StateAwaitingHandshake RendererState = iota
	StateActive
)

func (s RendererState) String() string {
	switch s {
	case StateAwaitingHandshake:
		return "AWAITING_HANDSHAKE"
	case StateActive:
		return "ACTIVE"
	default:
		return fmt.Sprintf("RendererState(%d)", int(s))
	}
}

// Renderer is the preview surface. It keeps no state of its own beyond the
// last snapshot it received.
type Renderer struct {
	ch     Channel
	logger hclog.Logger

	mu       sync.Mutex
	state    RendererState
	started  bool
	doc      models.Document
	viewport Viewport
	onUpdate func(models.Document, Viewport)
}

type RendererOption func(*Renderer)

func WithRendererLogger(l hclog.Logger) RendererOption {
	return func(r *Renderer) { r.logger = l }
}

// WithOnUpdate registers fn to be called after each applied UPDATE. fn gets
// its own copy of the document.
func WithOnUpdate(fn func(models.Document, Viewport)) RendererOption {
	return func(r *Renderer) { r.onUpdate = fn }
}

// NewRenderer creates a renderer showing initial until the first UPDATE.
func NewRenderer(ch Channel, initial models.Document, opts ...RendererOption) *Renderer {
	r := &Renderer{
		ch:     ch,
		logger: hclog.NewNullLogger(),
		doc:    initial.Clone(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("renderer")
	return r
}

// Run announces READY and then applies incoming messages one at a time
// until the channel closes (nil) or ctx is cancelled (ctx.Err()). READY is
// sent exactly once per Renderer; a second Run returns ErrAlreadyStarted.
func (r *Renderer) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	if err := r.ch.Send(ctx, Ready()); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	r.mu.Lock()
	r.state = StateActive
	r.mu.Unlock()
	r.logger.Debug("handshake sent")

	for {
		msg, err := r.ch.Receive(ctx)
		if err != nil {
			if IsNoOp(err) {
				r.logger.Debug("dropping message", "error", err)
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
		r.HandleMessage(msg)
	}
}

// HandleMessage applies msg and reports whether it was applied. Anything
// other than an UPDATE in the ACTIVE state is ignored. Every UPDATE replaces
// the whole document, so applying the same one twice changes nothing.
func (r *Renderer) HandleMessage(msg Message) bool {
	if msg.Type != MsgUpdate || msg.Document == nil {
		return false
	}

	r.mu.Lock()
	if r.state != StateActive {
		r.mu.Unlock()
		return false
	}
	r.doc = msg.Document.Clone()
	r.viewport = msg.ViewportHint
	cb := r.onUpdate
	doc, vp := r.doc.Clone(), r.viewport
	r.mu.Unlock()

	if cb != nil {
		cb(doc, vp)
	}
	return true
}

func (r *Renderer) State() RendererState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Document returns a copy of the document currently displayed.
func (r *Renderer) Document() models.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Clone()
}

// Viewport is the hint from the last UPDATE, ViewportNone when standalone.
func (r *Renderer) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

// Rows resolves the content rows of the displayed document.
func (r *Renderer) Rows() []models.ResolvedRow {
	return models.ResolveRows(r.Document())
}

// ClickNavbar reports a navbar click to the editor. It is a no-op unless an
// editor is hosting this renderer.
func (r *Renderer) ClickNavbar(ctx context.Context) error {
	if !r.editing() {
		return nil
	}
	return r.ch.Send(ctx, RegionClicked(TargetNavbar, 0))
}

// ClickHero reports a hero click to the editor.
func (r *Renderer) ClickHero(ctx context.Context) error {
	if !r.editing() {
		return nil
	}
	return r.ch.Send(ctx, RegionClicked(TargetHero, 0))
}

// ClickShow reports a click on the card of showID. The editor addresses
// shows by position, so the id is translated to its index in the current
// show list. Unknown ids are ignored.
func (r *Renderer) ClickShow(ctx context.Context, showID int) error {
	r.mu.Lock()
	editing := r.viewport != ViewportNone
	_, idx, ok := r.doc.ShowByID(showID)
	r.mu.Unlock()

	if !editing || !ok {
		return nil
	}
	return r.ch.Send(ctx, RegionClicked(TargetShow, idx))
}

func (r *Renderer) editing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport != ViewportNone
}
