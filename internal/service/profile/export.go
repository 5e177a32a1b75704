package profile

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// Export builds a profile document of the current soundboard. Clips whose
// audio cannot be read are left out; trigger words and default-response
// entries are written by clip name, and references to clips that were
// left out are dropped.
func (s *Service) Export(ctx context.Context) (*domain.ProfileDocument, error) {
	var (
		clips    []domain.SoundClip
		triggers []domain.TriggerWord
		settings domain.Settings
	)
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if clips, err = s.store.ListSoundClips(txCtx); err != nil {
			return fmt.Errorf("list sound clips: %w", err)
		}
		if triggers, err = s.store.ListTriggerWords(txCtx); err != nil {
			return fmt.Errorf("list trigger words: %w", err)
		}
		if settings, err = s.store.GetSettings(txCtx); err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Each slot is written by exactly one goroutine; nil marks a skipped clip.
	encoded := make([]*domain.ProfileClip, len(clips))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportReadConcurrency)
	for i, c := range clips {
		g.Go(func() error {
			data, err := s.blobs.ReadBlob(gctx, c.Filename)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.WarnContext(ctx, "skipping clip without readable audio",
					slog.Int64("clip_id", c.ID),
					slog.String("name", c.Name),
					slog.String("error", err.Error()),
				)
				return nil
			}
			encoded[i] = &domain.ProfileClip{
				Name:      c.Name,
				Filename:  c.Filename,
				Format:    c.Format,
				Duration:  c.Duration,
				Size:      c.Size,
				AudioData: base64.StdEncoding.EncodeToString(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read clip audio: %w", err)
	}

	doc := &domain.ProfileDocument{
		Version:      domain.ProfileVersion,
		ExportDate:   s.now().UTC(),
		SoundClips:   make([]domain.ProfileClip, 0, len(clips)),
		TriggerWords: []domain.ProfileTrigger{},
	}

	names := make(map[int64]string, len(clips))
	for i, pc := range encoded {
		if pc == nil {
			continue
		}
		doc.SoundClips = append(doc.SoundClips, *pc)
		names[clips[i].ID] = pc.Name
	}

	for _, t := range triggers {
		clipNames := resolveNames(t.SoundClipIDs, names)
		if len(clipNames) == 0 {
			continue
		}
		doc.TriggerWords = append(doc.TriggerWords, domain.ProfileTrigger{
			Phrase:         t.Phrase,
			SoundClipNames: clipNames,
			CaseSensitive:  t.CaseSensitive,
			Enabled:        t.Enabled,
		})
	}

	doc.Settings = domain.ProfileSettings{
		DefaultResponseEnabled:        settings.DefaultResponseEnabled,
		DefaultResponseSoundClipNames: resolveNames(settings.DefaultResponseSoundClipIDs, names),
		DefaultResponseDelay:          settings.DefaultResponseDelay,
	}

	s.log.InfoContext(ctx, "profile exported",
		slog.Int("clips", len(doc.SoundClips)),
		slog.Int("triggers", len(doc.TriggerWords)),
	)

	return doc, nil
}

// resolveNames maps ids to clip names, dropping ids without a name.
func resolveNames(ids []int64, names map[int64]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}
