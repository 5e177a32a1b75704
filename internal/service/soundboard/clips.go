package soundboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// ListClips returns all clips ordered by id.
func (s *Service) ListClips(ctx context.Context) ([]domain.SoundClip, error) {
	clips, err := s.store.ListSoundClips(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sound clips: %w", err)
	}
	return clips, nil
}

// UploadClip stores the audio under a fresh unique filename and creates the
// clip. If the clip cannot be created, the stored audio is removed again.
func (s *Service) UploadClip(ctx context.Context, input UploadClipInput) (domain.SoundClip, error) {
	if err := input.Validate(); err != nil {
		return domain.SoundClip{}, err
	}

	name := strings.TrimSpace(input.Name)
	base := input.OriginalFilename
	if base == "" {
		base = name
	}
	filename := domain.BlobFilename(s.now(), base)

	format := input.Format
	if format == "" {
		format = DefaultClipFormat
	}

	if err := s.blobs.WriteBlob(ctx, filename, input.Data); err != nil {
		return domain.SoundClip{}, fmt.Errorf("store audio: %w", err)
	}

	clip, err := s.store.CreateSoundClip(ctx, domain.NewSoundClip{
		Name:     name,
		Filename: filename,
		Format:   format,
		Duration: input.Duration,
		Size:     int64(len(input.Data)),
		URL:      domain.ClipURL(filename),
	})
	if err != nil {
		s.deleteAudio(ctx, filename)
		return domain.SoundClip{}, fmt.Errorf("create sound clip: %w", err)
	}

	s.log.InfoContext(ctx, "sound clip uploaded",
		slog.Int64("clip_id", clip.ID),
		slog.String("name", clip.Name),
		slog.Int64("size", clip.Size),
	)

	return clip, nil
}

// DeleteClip deletes a clip. Trigger words left without clips are removed
// with it. The audio file is removed afterwards; failing to do so is
// logged, not returned.
func (s *Service) DeleteClip(ctx context.Context, id int64) error {
	clip, err := s.store.DeleteSoundClip(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sound clip: %w", err)
	}

	s.deleteAudio(ctx, clip.Filename)

	s.log.InfoContext(ctx, "sound clip deleted", slog.Int64("clip_id", id))
	return nil
}

func (s *Service) deleteAudio(ctx context.Context, filename string) {
	if err := s.blobs.DeleteBlob(ctx, filename); err != nil {
		s.log.WarnContext(ctx, "delete audio file",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}
}
