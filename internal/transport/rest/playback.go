package rest

import "net/http"

type matchRequest struct {
	Transcript string `json:"transcript"`
}

// NextTriggerClip handles POST /api/trigger-words/{id}/next.
func (h *SoundboardHandler) NextTriggerClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	pb, ok, err := h.svc.PlayTrigger(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlaybackResponse(pb, ok))
}

// NextDefaultClip handles POST /api/default-response/next.
func (h *SoundboardHandler) NextDefaultClip(w http.ResponseWriter, r *http.Request) {
	pb, ok, err := h.svc.PlayDefault(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlaybackResponse(pb, ok))
}

// Match handles POST /api/match.
func (h *SoundboardHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	pb, ok, err := h.svc.Match(r.Context(), req.Transcript)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlaybackResponse(pb, ok))
}
