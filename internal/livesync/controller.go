package livesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"showcase-backend/internal/models"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultViewportDebounce lets the embedded surface finish resizing
	// before it receives content laid out for the new viewport.
	DefaultViewportDebounce = 100 * time.Millisecond

	timerSendTimeout = 5 * time.Second
)

// SectionKey identifies an editor form section: "navbar", "hero" or
// "show-N" with N the zero-based show position.
type SectionKey string

const (
	SectionNavbar SectionKey = "navbar"
	SectionHero   SectionKey = "hero"
)

func ShowSection(index int) SectionKey {
	return SectionKey(fmt.Sprintf("show-%d", index))
}

// SectionFor maps a REGION_CLICKED message to the section it should open.
func SectionFor(msg Message) (SectionKey, bool) {
	if msg.Type != MsgRegionClicked {
		return "", false
	}
	switch msg.Target {
	case TargetNavbar:
		return SectionNavbar, true
	case TargetHero:
		return SectionHero, true
	case TargetShow:
		if msg.ShowIndex == nil || *msg.ShowIndex < 0 {
			return "", false
		}
		return ShowSection(*msg.ShowIndex), true
	}
	return "", false
}

// Controller is the editor surface. It owns the working document and pushes
// it to the embedded Renderer once the renderer has said READY.
type Controller struct {
	ch       Channel
	logger   hclog.Logger
	debounce time.Duration

	// sendMu is held from snapshot to send so updates leave in the order
	// their snapshots were taken. It is always acquired before mu.
	sendMu sync.Mutex

	mu                sync.Mutex
	doc               models.Document
	viewport          Viewport
	handshakeComplete bool
	openSection       SectionKey
	timer             *time.Timer
	onSection         func(SectionKey)
}

type ControllerOption func(*Controller)

func WithControllerLogger(l hclog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithDebounce overrides DefaultViewportDebounce.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) { c.debounce = d }
}

// WithOnSectionOpen registers fn to be called when a preview click opens a
// form section.
func WithOnSectionOpen(fn func(SectionKey)) ControllerOption {
	return func(c *Controller) { c.onSection = fn }
}

// NewController starts editing a copy of doc. The hero section is open
// initially.
func NewController(ch Channel, doc models.Document, viewport Viewport, opts ...ControllerOption) *Controller {
	c := &Controller{
		ch:          ch,
		logger:      hclog.NewNullLogger(),
		debounce:    DefaultViewportDebounce,
		doc:         doc.Clone(),
		viewport:    viewport,
		openSection: SectionHero,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("controller")
	return c
}

// Run handles messages from the renderer one at a time until the channel
// closes (nil) or ctx is cancelled (ctx.Err()).
func (c *Controller) Run(ctx context.Context) error {
	defer c.stopTimer()
	for {
		msg, err := c.ch.Receive(ctx)
		if err != nil {
			if IsNoOp(err) {
				c.logger.Debug("dropping message", "error", err)
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
		if err := c.HandleMessage(ctx, msg); err != nil {
			c.logger.Warn("handling message failed", "type", msg.Type, "error", err)
		}
	}
}

// HandleMessage processes one message from the renderer. READY completes the
// handshake and triggers an UPDATE with the latest state; REGION_CLICKED opens
// the matching section.
func (c *Controller) HandleMessage(ctx context.Context, msg Message) error {
	switch msg.Type {
	case MsgReady:
		c.logger.Debug("renderer ready")
		return c.push(ctx, func() { c.handshakeComplete = true })

	case MsgRegionClicked:
		key, ok := SectionFor(msg)
		if !ok {
			return nil
		}
		c.mu.Lock()
		c.openSection = key
		cb := c.onSection
		c.mu.Unlock()
		if cb != nil {
			cb(key)
		}
		return nil
	}
	return nil
}

// SetDocument replaces the working document and, after the handshake, sends
// it immediately. Before the handshake the update is dropped; READY will
// deliver the latest document.
func (c *Controller) SetDocument(ctx context.Context, doc models.Document) error {
	return c.UpdateDocument(ctx, func(d *models.Document) { *d = doc.Clone() })
}

// UpdateDocument mutates the working document in place and sends the result
// like SetDocument.
func (c *Controller) UpdateDocument(ctx context.Context, edit func(*models.Document)) error {
	return c.push(ctx, func() { edit(&c.doc) })
}

// push applies change under the state lock and, after the handshake, sends
// the resulting state. A nil change sends the current state.
func (c *Controller) push(ctx context.Context, change func()) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	if change != nil {
		change()
	}
	if !c.handshakeComplete {
		c.mu.Unlock()
		return nil
	}
	update := Update(c.doc, c.viewport)
	c.mu.Unlock()

	return c.ch.Send(ctx, update)
}

// SetViewport changes the simulated viewport. After the handshake an UPDATE
// follows once the debounce delay passes without another viewport change.
func (c *Controller) SetViewport(viewport Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewport = viewport
	if !c.handshakeComplete {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.flush)
}

func (c *Controller) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), timerSendTimeout)
	defer cancel()
	if err := c.push(ctx, nil); err != nil {
		c.logger.Warn("viewport update not delivered", "error", err)
	}
}

func (c *Controller) stopTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Close stops a pending viewport update and closes the channel.
func (c *Controller) Close() error {
	c.stopTimer()
	return c.ch.Close()
}

// Document returns a copy of the working document.
func (c *Controller) Document() models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

func (c *Controller) HandshakeComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handshakeComplete
}

// OpenSection is the currently expanded form section.
func (c *Controller) OpenSection() SectionKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openSection
}

// SetOpenSection records a section opened from the form itself. It is UI
// state only and never sent to the renderer.
func (c *Controller) SetOpenSection(key SectionKey) {
	c.mu.Lock()
	c.openSection = key
	c.mu.Unlock()
}
