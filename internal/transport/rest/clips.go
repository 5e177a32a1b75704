package rest

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Evman90/soundboardmaker/internal/domain"
	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
)

// multipartMemory is the part of a multipart form kept in memory; larger
// uploads spill to temporary files.
const multipartMemory = 8 << 20

// ListClips handles GET /api/sound-clips.
func (h *SoundboardHandler) ListClips(w http.ResponseWriter, r *http.Request) {
	clips, err := h.svc.ListClips(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]clipResponse, 0, len(clips))
	for _, c := range clips {
		resp = append(resp, toClipResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UploadClip handles POST /api/sound-clips (multipart: audio, name,
// duration). The clip name defaults to the file name without extension.
func (h *SoundboardHandler) UploadClip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handleError(h.log, w, r, mbe)
			return
		}
		handleError(h.log, w, r, domain.NewValidationError("body", "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("audio")
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("audio", "required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var duration float64
	if v := strings.TrimSpace(r.FormValue("duration")); v != "" {
		duration, err = strconv.ParseFloat(v, 64)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("duration", "must be a number"))
			return
		}
	}

	name := r.FormValue("name")
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	clip, err := h.svc.UploadClip(r.Context(), soundboard.UploadClipInput{
		Name:             name,
		OriginalFilename: header.Filename,
		Format:           header.Header.Get("Content-Type"),
		Duration:         duration,
		Data:             data,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClipResponse(clip))
}

// DeleteClip handles DELETE /api/sound-clips/{id}.
func (h *SoundboardHandler) DeleteClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.DeleteClip(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
