package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"showcase-backend/internal/docscope"
	"showcase-backend/internal/livesync"
	"showcase-backend/internal/models"
	"showcase-backend/internal/service"
	"showcase-backend/internal/themes"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
)

// maxDocumentBytes bounds a publish request body, like a sync frame.
const maxDocumentBytes = livesync.MaxMessageBytes

type PreviewHandler struct {
	Service      *service.PreviewService
	PublicOrigin string
	Logger       hclog.Logger
}

func themeParam(r *http.Request) models.ThemeID {
	return models.ThemeID(mux.Vars(r)["theme"])
}

func (h *PreviewHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]models.ThemeID{
		"themes": h.Service.Themes.Themes(),
	})
}

func (h *PreviewHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Defaults(themeParam(r))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *PreviewHandler) CreatePreview(w http.ResponseWriter, r *http.Request) {
	theme := themeParam(r)

	var doc models.Document
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id, err := h.Service.Publish(r.Context(), doc, theme)

	var verr *service.ValidationError
	var perr *service.PersistenceError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string][]string{"errors": verr.Messages})
		return
	case errors.Is(err, service.ErrNoChanges):
		writeError(w, http.StatusConflict, "No changes to save")
		return
	case errors.Is(err, themes.ErrUnknownTheme):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.As(err, &perr):
		h.Logger.Error("publish failed", "theme", theme, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save preview. Please try again.")
		return
	default:
		h.Logger.Error("publish failed", "theme", theme, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":  id.String(),
		"url": service.ShareURL(h.PublicOrigin, theme, id),
	})
}

// loadPreview writes the error response itself and reports false when the
// preview cannot be served.
func (h *PreviewHandler) loadPreview(w http.ResponseWriter, r *http.Request) (models.Document, bool) {
	theme := themeParam(r)
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrPreviewNotFound.Error())
		return models.Document{}, false
	}

	doc, err := h.Service.Load(r.Context(), id, theme)
	switch {
	case err == nil:
		return doc, true
	case errors.Is(err, service.ErrPreviewNotFound), errors.Is(err, themes.ErrUnknownTheme):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.Logger.Error("load preview failed", "id", id, "theme", theme, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load preview")
	}
	return models.Document{}, false
}

func (h *PreviewHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadPreview(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ViewPreview serves the read-only share page of a saved preview.
func (h *PreviewHandler) ViewPreview(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadPreview(w, r)
	if !ok {
		return
	}

	view, err := scopedPageView(docscope.Provide(r.Context(), doc), themeParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ViewDefault serves the static site of a theme. Without a provided
// document it falls back to the template.
func (h *PreviewHandler) ViewDefault(w http.ResponseWriter, r *http.Request) {
	theme := themeParam(r)
	doc, err := docscope.CurrentOrDefault(r.Context(), func() (models.Document, error) {
		return h.Service.Defaults(theme)
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, BuildPageView(theme, doc))
}
