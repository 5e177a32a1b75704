package rest

import (
	"net/http"

	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
)

type createTriggerRequest struct {
	Phrase        string  `json:"phrase"`
	SoundClipIDs  []int64 `json:"soundClipIds"`
	CaseSensitive bool    `json:"caseSensitive"`
	Enabled       *bool   `json:"enabled"`
}

type updateTriggerRequest struct {
	Phrase        *string `json:"phrase"`
	SoundClipIDs  []int64 `json:"soundClipIds"`
	CaseSensitive *bool   `json:"caseSensitive"`
	Enabled       *bool   `json:"enabled"`
}

// ListTriggers handles GET /api/trigger-words.
func (h *SoundboardHandler) ListTriggers(w http.ResponseWriter, r *http.Request) {
	triggers, err := h.svc.ListTriggers(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]triggerResponse, 0, len(triggers))
	for _, t := range triggers {
		resp = append(resp, toTriggerResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTrigger handles POST /api/trigger-words.
func (h *SoundboardHandler) CreateTrigger(w http.ResponseWriter, r *http.Request) {
	var req createTriggerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	trigger, err := h.svc.CreateTrigger(r.Context(), soundboard.CreateTriggerInput{
		Phrase:        req.Phrase,
		SoundClipIDs:  req.SoundClipIDs,
		CaseSensitive: req.CaseSensitive,
		Enabled:       req.Enabled,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTriggerResponse(trigger))
}

// UpdateTrigger handles PATCH /api/trigger-words/{id}. Omitted fields are
// left unchanged.
func (h *SoundboardHandler) UpdateTrigger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req updateTriggerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	trigger, err := h.svc.UpdateTrigger(r.Context(), soundboard.UpdateTriggerInput{
		ID:            id,
		Phrase:        req.Phrase,
		SoundClipIDs:  req.SoundClipIDs,
		CaseSensitive: req.CaseSensitive,
		Enabled:       req.Enabled,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTriggerResponse(trigger))
}

// DeleteTrigger handles DELETE /api/trigger-words/{id}.
func (h *SoundboardHandler) DeleteTrigger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.DeleteTrigger(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
