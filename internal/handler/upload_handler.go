package handler

import (
	"errors"
	"net/http"

	"showcase-backend/internal/storage"
	"showcase-backend/internal/validation"

	"github.com/hashicorp/go-hclog"
)

// multipartOverhead covers form boundaries and the replace field.
const multipartOverhead = 64 << 10

type UploadHandler struct {
	Storage  storage.ImageStorage
	MaxBytes int64
	Logger   hclog.Logger
}

func (h *UploadHandler) maxBytes() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return validation.MaxImageSize
}

// UploadImage stores one image and returns its public URL. When the form
// carries a replace URL, that image is deleted after the upload succeeded.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	limit := h.maxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		writeError(w, http.StatusBadRequest, validation.TooLarge(limit).Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	if err := validation.ValidateUpload(header, limit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType, err := validation.DetectImage(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateExtension(header.Filename, contentType); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fileURL, err := h.Storage.Upload(r.Context(), file, header.Filename, contentType)
	if err != nil {
		h.Logger.Error("upload failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "File save failed")
		return
	}

	if old := r.FormValue("replace"); old != "" {
		h.deleteBestEffort(r, old)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"file_url": fileURL,
	})
}

// DeleteImage removes a previously uploaded image. It always answers 204:
// deletion is cleanup and never blocks the editor.
func (h *UploadHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if u := r.URL.Query().Get("url"); u != "" {
		h.deleteBestEffort(r, u)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UploadHandler) deleteBestEffort(r *http.Request, fileURL string) {
	err := h.Storage.Delete(r.Context(), fileURL)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrForeignURL):
		h.Logger.Debug("skipping delete of foreign url", "url", fileURL)
	default:
		h.Logger.Warn("delete failed", "url", fileURL, "error", err)
	}
}
