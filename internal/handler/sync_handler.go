package handler

import (
	"net/http"

	"showcase-backend/internal/livesync"

	"github.com/gorilla/mux"
)

type SyncHandler struct {
	Hub *livesync.Hub
}

// Connect attaches an editor (role=controller) or preview (role=renderer)
// surface to a sync session.
func (h *SyncHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]
	role := livesync.Role(r.URL.Query().Get("role"))
	h.Hub.ServeSession(w, r, session, role)
}
