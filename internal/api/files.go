package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/starford/datahub/internal/objectstore"
)

// FileHandler streams uploaded objects from the bucket at their public URLs.
type FileHandler struct {
	bucket objectstore.Provider
}

// NewFileHandler creates a handler over the given bucket.
func NewFileHandler(bucket objectstore.Provider) *FileHandler {
	return &FileHandler{bucket: bucket}
}

// ServeObject handles GET /files/{key}.
func (h *FileHandler) ServeObject(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, err := h.bucket.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		slog.Error("serve object failed", slog.String("key", key), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("serve object copy failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
