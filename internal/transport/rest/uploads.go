package rest

import (
	"context"
	"log/slog"
	"net/http"
	"os"
)

type blobOpener interface {
	Open(ctx context.Context, filename string) (*os.File, error)
}

// UploadsHandler streams stored audio files.
type UploadsHandler struct {
	blobs blobOpener
	log   *slog.Logger
}

// NewUploadsHandler creates an UploadsHandler.
func NewUploadsHandler(blobs blobOpener, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{blobs: blobs, log: logger.With("handler", "uploads")}
}

// Serve handles GET /uploads/{file}. Range and conditional requests are
// answered by http.ServeContent.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	f, err := h.blobs.Open(r.Context(), name)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
