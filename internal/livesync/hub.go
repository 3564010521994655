package livesync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

// Role is the side a relay client plays in a session.
type Role string

const (
	RoleController Role = "controller"
	RoleRenderer   Role = "renderer"
)

func (r Role) Valid() bool {
	return r == RoleController || r == RoleRenderer
}

func (r Role) peer() Role {
	if r == RoleController {
		return RoleRenderer
	}
	return RoleController
}

// allowed reports whether a client in role r may originate t.
func (r Role) allowed(t MessageType) bool {
	switch r {
	case RoleController:
		return t == MsgUpdate
	case RoleRenderer:
		return t == MsgReady || t == MsgRegionClicked
	}
	return false
}

type hubPeer struct {
	id uuid.UUID
	ch *WebSocketChannel
}

// Hub relays protocol messages between the editor and preview connections
// of a session. It forwards, it does not interpret: messages for a peer that
// is not connected are dropped.
type Hub struct {
	upgrader websocket.Upgrader
	logger   hclog.Logger

	mu       sync.Mutex
	sessions map[string]map[Role]*hubPeer
}

// NewHub creates a relay. checkOrigin may be nil to accept any origin.
func NewHub(logger hclog.Logger, checkOrigin func(*http.Request) bool) *Hub {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		logger:   logger.Named("hub"),
		sessions: make(map[string]map[Role]*hubPeer),
	}
}

// ServeSession upgrades the request and relays messages for session until
// the client disconnects.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, session string, role Role) {
	if session == "" || !role.Valid() {
		http.Error(w, "session and role (controller|renderer) are required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Debug("upgrade failed", "session", session, "error", err)
		return
	}

	p := &hubPeer{id: uuid.New(), ch: NewWebSocketChannel(conn)}
	h.register(session, role, p)
	defer h.unregister(session, role, p)

	log := h.logger.With("session", session, "role", role, "client", p.id)
	log.Debug("client connected")

	ctx := r.Context()
	for {
		data, err := p.ch.readRaw(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Debug("client read ended", "error", err)
			}
			return
		}

		msg, err := Decode(data)
		if err != nil {
			log.Debug("dropping message", "error", err)
			continue
		}
		if !role.allowed(msg.Type) {
			log.Debug("dropping message from wrong side", "type", msg.Type)
			continue
		}

		target := h.peer(session, role.peer())
		if target == nil {
			log.Trace("no peer connected, message dropped", "type", msg.Type)
			continue
		}
		if err := target.ch.sendRaw(ctx, data); err != nil {
			log.Debug("forward failed", "type", msg.Type, "error", err)
		}
	}
}

// Connected reports whether a client for role is attached to session.
func (h *Hub) Connected(session string, role Role) bool {
	return h.peer(session, role) != nil
}

func (h *Hub) peer(session string, role Role) *hubPeer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[session][role]
}

// register installs p, closing any previous client in the same role. When a
// controller joins a session whose renderer is already up, the renderer's
// READY has gone nowhere, so the hub replays it to the new controller.
func (h *Hub) register(session string, role Role, p *hubPeer) {
	h.mu.Lock()
	peers, ok := h.sessions[session]
	if !ok {
		peers = make(map[Role]*hubPeer)
		h.sessions[session] = peers
	}
	old := peers[role]
	peers[role] = p
	rendererUp := peers[RoleRenderer] != nil
	h.mu.Unlock()

	if old != nil {
		old.ch.Close()
	}
	if role == RoleController && rendererUp {
		data, _ := Encode(Ready())
		if err := p.ch.sendRaw(context.Background(), data); err != nil {
			h.logger.Debug("replaying ready failed", "session", session, "error", err)
		}
	}
}

func (h *Hub) unregister(session string, role Role, p *hubPeer) {
	h.mu.Lock()
	if peers, ok := h.sessions[session]; ok && peers[role] == p {
		delete(peers, role)
		if len(peers) == 0 {
			delete(h.sessions, session)
		}
	}
	h.mu.Unlock()
	p.ch.Close()
}
