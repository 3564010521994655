// Package livesync keeps a preview surface in step with the editor that
// embeds it. The editor side (Controller) owns the document and pushes full
// snapshots; the preview side (Renderer) announces itself once and reports
// clicks back so the editor can open the matching form section.
package livesync

import (
	"encoding/json"
	"errors"
	"fmt"

	"showcase-backend/internal/models"
)

// MessageType discriminates the messages exchanged between surfaces.
type MessageType string

const (
	// MsgReady is sent once by a Renderer after its first paint.
	MsgReady MessageType = "READY"
	// MsgUpdate carries a full document snapshot from the Controller.
	MsgUpdate MessageType = "UPDATE"
	// MsgRegionClicked reports a click on an editable region of the preview.
	MsgRegionClicked MessageType = "REGION_CLICKED"
)

// Viewport is the simulated device the editor is showing. The empty value
// means the renderer is not embedded in an editor.
type Viewport string

const (
	ViewportNone    Viewport = ""
	ViewportMobile  Viewport = "mobile"
	ViewportDesktop Viewport = "desktop"
)

// RegionTarget names the clicked region.
type RegionTarget string

const (
	TargetNavbar RegionTarget = "navbar"
	TargetHero   RegionTarget = "hero"
	TargetShow   RegionTarget = "show"
)

var (
	ErrUnknownMessage   = errors.New("livesync: unknown message type")
	ErrMalformedMessage = errors.New("livesync: malformed message")
	ErrClosed           = errors.New("livesync: channel closed")
	ErrAlreadyStarted   = errors.New("livesync: renderer already started")
)

// Message is the wire form of every protocol message. Fields that do not
// belong to the message type are left at their zero value.
type Message struct {
	Type MessageType `json:"type"`

	Document     *models.Document `json:"document,omitempty"`
	ViewportHint Viewport         `json:"viewportHint,omitempty"`

	Target    RegionTarget `json:"target,omitempty"`
	ShowIndex *int         `json:"showIndex,omitempty"`
}

func Ready() Message {
	return Message{Type: MsgReady}
}

// Update builds an UPDATE carrying a private copy of doc.
func Update(doc models.Document, viewport Viewport) Message {
	cp := doc.Clone()
	return Message{Type: MsgUpdate, Document: &cp, ViewportHint: viewport}
}

// RegionClicked builds a REGION_CLICKED message. showIndex is only used for
// TargetShow.
func RegionClicked(target RegionTarget, showIndex int) Message {
	msg := Message{Type: MsgRegionClicked, Target: target}
	if target == TargetShow {
		idx := showIndex
		msg.ShowIndex = &idx
	}
	return msg
}

// Validate checks that the fields required by the message type are present.
func (m Message) Validate() error {
	switch m.Type {
	case MsgReady:
		return nil
	case MsgUpdate:
		if m.Document == nil {
			return fmt.Errorf("%w: UPDATE without document", ErrMalformedMessage)
		}
		return nil
	case MsgRegionClicked:
		switch m.Target {
		case TargetNavbar, TargetHero:
			return nil
		case TargetShow:
			if m.ShowIndex == nil || *m.ShowIndex < 0 {
				return fmt.Errorf("%w: show click without a valid index", ErrMalformedMessage)
			}
			return nil
		default:
			return fmt.Errorf("%w: unknown click target %q", ErrMalformedMessage, m.Target)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}

// Encode validates and serialises m.
func Encode(m Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// Decode parses data into a Message. It never panics on hostile input;
// ErrUnknownMessage and ErrMalformedMessage mark messages to be ignored.
func Decode(data []byte) (Message, error) {
	var envelope struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	switch envelope.Type {
	case MsgReady, MsgUpdate, MsgRegionClicked:
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownMessage, envelope.Type)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.ViewportHint != ViewportMobile && msg.ViewportHint != ViewportDesktop {
		msg.ViewportHint = ViewportNone
	}
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// IsNoOp reports whether err marks a message that should be dropped
// silently instead of ending the session.
func IsNoOp(err error) bool {
	return errors.Is(err, ErrUnknownMessage) || errors.Is(err, ErrMalformedMessage)
}
