// Package profile converts the live soundboard to and from a
// name-addressed, self-contained profile document.
package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

type soundboardStore interface {
	ListSoundClips(ctx context.Context) ([]domain.SoundClip, error)
	ListTriggerWords(ctx context.Context) ([]domain.TriggerWord, error)
	GetSettings(ctx context.Context) (domain.Settings, error)
	CreateSoundClip(ctx context.Context, clip domain.NewSoundClip) (domain.SoundClip, error)
	CreateTriggerWord(ctx context.Context, trigger domain.NewTriggerWord) (domain.TriggerWord, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
	Clear(ctx context.Context) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type blobStore interface {
	ReadBlob(ctx context.Context, filename string) ([]byte, error)
	WriteBlob(ctx context.Context, filename string, data []byte) error
	DeleteBlob(ctx context.Context, filename string) error
}

// exportReadConcurrency bounds parallel blob reads during export.
const exportReadConcurrency = 8

// Service implements profile export and import.
type Service struct {
	store soundboardStore
	blobs blobStore
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates a profile Service.
func NewService(log *slog.Logger, store soundboardStore, blobs blobStore) *Service {
	return &Service{
		store: store,
		blobs: blobs,
		log:   log.With("service", "profile"),
		now:   time.Now,
	}
}
