package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Evman90/soundboardmaker/internal/domain"
	"github.com/Evman90/soundboardmaker/internal/service/archive"
	"github.com/Evman90/soundboardmaker/internal/service/profile"
)

type profileService interface {
	Export(ctx context.Context) (*domain.ProfileDocument, error)
	Import(ctx context.Context, doc *domain.ProfileDocument) (*profile.ImportResult, error)
}

type archiveService interface {
	Save(ctx context.Context, doc *domain.ProfileDocument, name string, readOnly bool) (archive.Entry, error)
	List(ctx context.Context) ([]archive.Entry, error)
	Load(ctx context.Context, name string) (*domain.ArchivedProfile, error)
	Delete(ctx context.Context, name string) error
}

// ProfileHandler serves profile export/import and the server-side profile
// archive.
type ProfileHandler struct {
	profiles profileService
	archive  archiveService
	log      *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles profileService, archive archiveService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		archive:  archive,
		log:      logger.With("handler", "profile"),
	}
}

type saveProfileRequest struct {
	Name     string `json:"name"`
	ReadOnly bool   `json:"readOnly"`
	// Profile is saved as given. Without it the current soundboard is
	// exported and saved.
	Profile *domain.ProfileDocument `json:"profile"`
}

// Export handles GET /api/profile/export.
func (h *ProfileHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.profiles.Export(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filename := fmt.Sprintf("soundboard-profile-%s.json", doc.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, doc)
}

// Import handles POST /api/profile/import. The body is a profile document;
// it replaces the whole soundboard.
func (h *ProfileHandler) Import(w http.ResponseWriter, r *http.Request) {
	var doc domain.ProfileDocument
	if err := decodeJSON(r, &doc); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.profiles.Import(r.Context(), &doc)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toImportResponse(result))
}

// ListArchived handles GET /api/server-profiles.
func (h *ProfileHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	entries, err := h.archive.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]archiveEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toArchiveEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveArchived handles POST /api/server-profiles.
func (h *ProfileHandler) SaveArchived(w http.ResponseWriter, r *http.Request) {
	var req saveProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc := req.Profile
	if doc == nil {
		var err error
		doc, err = h.profiles.Export(r.Context())
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	entry, err := h.archive.Save(r.Context(), doc, req.Name, req.ReadOnly)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.log.InfoContext(r.Context(), "profile archived",
		slog.String("filename", entry.Filename),
		slog.Bool("read_only", entry.ReadOnly),
		slog.Int64("size", entry.Size),
	)
	writeJSON(w, http.StatusCreated, toArchiveEntryResponse(entry))
}

// GetArchived handles GET /api/server-profiles/{name}. The archive
// envelope is returned with the document.
func (h *ProfileHandler) GetArchived(w http.ResponseWriter, r *http.Request) {
	doc, err := h.archive.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteArchived handles DELETE /api/server-profiles/{name}.
func (h *ProfileHandler) DeleteArchived(w http.ResponseWriter, r *http.Request) {
	if err := h.archive.Delete(r.Context(), r.PathValue("name")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadArchived handles POST /api/server-profiles/{name}/load: the archived
// document replaces the current soundboard.
func (h *ProfileHandler) LoadArchived(w http.ResponseWriter, r *http.Request) {
	doc, err := h.archive.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.profiles.Import(r.Context(), &doc.ProfileDocument)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toImportResponse(result))
}
