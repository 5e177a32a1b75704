// Package soundboard implements the validated soundboard use-cases on top
// of a domain.SoundboardStore.
package soundboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

type blobStore interface {
	WriteBlob(ctx context.Context, filename string, data []byte) error
	DeleteBlob(ctx context.Context, filename string) error
}

const (
	MaxClipNameLength = 255
	MaxPhraseLength   = 200
	DefaultClipFormat = "audio/webm"
)

// Service provides clip, trigger word, settings and playback operations.
type Service struct {
	store domain.SoundboardStore
	blobs blobStore
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates a soundboard Service.
func NewService(log *slog.Logger, store domain.SoundboardStore, blobs blobStore) *Service {
	return &Service{
		store: store,
		blobs: blobs,
		log:   log.With("service", "soundboard"),
		now:   time.Now,
	}
}
