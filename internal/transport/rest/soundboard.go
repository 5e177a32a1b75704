package rest

import (
	"context"
	"log/slog"

	"github.com/Evman90/soundboardmaker/internal/domain"
	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
)

// soundboardService defines the soundboard operations SoundboardHandler
// needs.
type soundboardService interface {
	ListClips(ctx context.Context) ([]domain.SoundClip, error)
	UploadClip(ctx context.Context, input soundboard.UploadClipInput) (domain.SoundClip, error)
	DeleteClip(ctx context.Context, id int64) error

	ListTriggers(ctx context.Context) ([]domain.TriggerWord, error)
	CreateTrigger(ctx context.Context, input soundboard.CreateTriggerInput) (domain.TriggerWord, error)
	UpdateTrigger(ctx context.Context, input soundboard.UpdateTriggerInput) (domain.TriggerWord, error)
	DeleteTrigger(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, input soundboard.UpdateSettingsInput) (domain.Settings, error)

	PlayTrigger(ctx context.Context, triggerID int64) (soundboard.Playback, bool, error)
	PlayDefault(ctx context.Context) (soundboard.Playback, bool, error)
	Match(ctx context.Context, transcript string) (soundboard.Playback, bool, error)
}

// SoundboardHandler serves the clip, trigger word, settings and playback
// endpoints.
type SoundboardHandler struct {
	svc soundboardService
	log *slog.Logger
}

// NewSoundboardHandler creates a SoundboardHandler.
func NewSoundboardHandler(svc soundboardService, logger *slog.Logger) *SoundboardHandler {
	return &SoundboardHandler{svc: svc, log: logger.With("handler", "soundboard")}
}
