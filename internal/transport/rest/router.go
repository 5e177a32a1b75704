package rest

import (
	"net/http"

	"github.com/Evman90/soundboardmaker/internal/transport/middleware"
)

// jsonBodyLimit caps request bodies of the small JSON endpoints.
const jsonBodyLimit = 1 << 20

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Soundboard *SoundboardHandler
	Profile    *ProfileHandler
	Uploads    *UploadsHandler
}

// Limits configures per-route body caps and the write rate limit.
type Limits struct {
	MaxUploadBytes int64
	MaxImportBytes int64
	// WriteLimit wraps uploads, imports and archive saves. Nil means no
	// limit.
	WriteLimit middleware.Middleware
}

// NewRouter registers every API route on a new ServeMux.
func NewRouter(h Handlers, l Limits) *http.ServeMux {
	mux := http.NewServeMux()

	writeLimit := l.WriteLimit
	if writeLimit == nil {
		writeLimit = func(next http.Handler) http.Handler { return next }
	}
	small := middleware.MaxBody(jsonBodyLimit)
	upload := middleware.Chain(writeLimit, middleware.MaxBody(l.MaxUploadBytes))
	bulk := middleware.Chain(writeLimit, middleware.MaxBody(l.MaxImportBytes))

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	sb := h.Soundboard
	mux.HandleFunc("GET /api/sound-clips", sb.ListClips)
	mux.Handle("POST /api/sound-clips", upload(http.HandlerFunc(sb.UploadClip)))
	mux.HandleFunc("DELETE /api/sound-clips/{id}", sb.DeleteClip)

	mux.HandleFunc("GET /api/trigger-words", sb.ListTriggers)
	mux.Handle("POST /api/trigger-words", small(http.HandlerFunc(sb.CreateTrigger)))
	mux.Handle("PATCH /api/trigger-words/{id}", small(http.HandlerFunc(sb.UpdateTrigger)))
	mux.HandleFunc("DELETE /api/trigger-words/{id}", sb.DeleteTrigger)
	mux.HandleFunc("POST /api/trigger-words/{id}/next", sb.NextTriggerClip)

	mux.HandleFunc("GET /api/settings", sb.GetSettings)
	mux.Handle("PATCH /api/settings", small(http.HandlerFunc(sb.UpdateSettings)))
	mux.HandleFunc("POST /api/default-response/next", sb.NextDefaultClip)
	mux.Handle("POST /api/match", small(http.HandlerFunc(sb.Match)))

	p := h.Profile
	mux.HandleFunc("GET /api/profile/export", p.Export)
	mux.Handle("POST /api/profile/import", bulk(http.HandlerFunc(p.Import)))
	mux.HandleFunc("GET /api/server-profiles", p.ListArchived)
	mux.Handle("POST /api/server-profiles", bulk(http.HandlerFunc(p.SaveArchived)))
	mux.HandleFunc("GET /api/server-profiles/{name}", p.GetArchived)
	mux.HandleFunc("DELETE /api/server-profiles/{name}", p.DeleteArchived)
	mux.Handle("POST /api/server-profiles/{name}/load", writeLimit(http.HandlerFunc(p.LoadArchived)))

	mux.HandleFunc("GET /uploads/{file}", h.Uploads.Serve)

	return mux
}
