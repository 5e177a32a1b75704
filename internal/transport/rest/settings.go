package rest

import (
	"net/http"

	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
)

type updateSettingsRequest struct {
	DefaultResponseEnabled      *bool   `json:"defaultResponseEnabled"`
	DefaultResponseSoundClipIDs []int64 `json:"defaultResponseSoundClipIds"`
	DefaultResponseDelay        *int    `json:"defaultResponseDelay"`
}

// GetSettings handles GET /api/settings.
func (h *SoundboardHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings handles PATCH /api/settings.
func (h *SoundboardHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), soundboard.UpdateSettingsInput{
		DefaultResponseEnabled:      req.DefaultResponseEnabled,
		DefaultResponseSoundClipIDs: req.DefaultResponseSoundClipIDs,
		DefaultResponseDelay:        req.DefaultResponseDelay,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
