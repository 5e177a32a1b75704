package profile

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// decodedClip is a document clip whose audio has been decoded and written
// under a fresh filename.
type decodedClip struct {
	clip     domain.ProfileClip
	filename string
	data     []byte
}

// Import replaces the whole soundboard with the content of doc. It is not a
// merge: existing clips, trigger words and settings are discarded.
//
// Audio is written first under new filenames, then the store is cleared and
// repopulated in one transaction. If that transaction fails, the new files
// are removed and the previous state stays in place. After a successful
// import, the audio files of the replaced clips are removed.
func (s *Service) Import(ctx context.Context, doc *domain.ProfileDocument) (*ImportResult, error) {
	if doc == nil {
		return nil, domain.NewValidationError("profile", "required")
	}
	if doc.Version != "" && doc.Version != domain.ProfileVersion {
		return nil, domain.NewValidationError("version", fmt.Sprintf("unsupported profile version %q", doc.Version))
	}

	result := &ImportResult{
		SkippedClips:       []string{},
		SkippedTriggers:    []string{},
		UnresolvedDefaults: []string{},
	}

	decoded := s.decodeClips(ctx, doc.SoundClips, result)

	var written []string
	for _, dc := range decoded {
		if err := s.blobs.WriteBlob(ctx, dc.filename, dc.data); err != nil {
			s.removeBlobs(ctx, written)
			return nil, fmt.Errorf("write clip audio %s: %w", dc.filename, err)
		}
		written = append(written, dc.filename)
	}

	var replaced []string
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		previous, err := s.store.ListSoundClips(txCtx)
		if err != nil {
			return fmt.Errorf("list sound clips: %w", err)
		}
		replaced = replaced[:0]
		for _, c := range previous {
			replaced = append(replaced, c.Filename)
		}

		if err := s.store.Clear(txCtx); err != nil {
			return fmt.Errorf("clear soundboard: %w", err)
		}

		// name -> new id. A later clip with the same name wins.
		ids := make(map[string]int64, len(decoded))
		for _, dc := range decoded {
			created, err := s.store.CreateSoundClip(txCtx, domain.NewSoundClip{
				Name:     dc.clip.Name,
				Filename: dc.filename,
				Format:   dc.clip.Format,
				Duration: dc.clip.Duration,
				Size:     int64(len(dc.data)),
				URL:      domain.ClipURL(dc.filename),
			})
			if err != nil {
				return fmt.Errorf("create sound clip %q: %w", dc.clip.Name, err)
			}
			ids[dc.clip.Name] = created.ID
		}
		result.ClipsImported = len(decoded)

		result.TriggersImported = 0
		result.SkippedTriggers = result.SkippedTriggers[:0]
		for _, pt := range doc.TriggerWords {
			clipIDs, ok := resolveAll(pt.SoundClipNames, ids)
			if !ok || strings.TrimSpace(pt.Phrase) == "" {
				result.SkippedTriggers = append(result.SkippedTriggers, pt.Phrase)
				continue
			}
			if _, err := s.store.CreateTriggerWord(txCtx, domain.NewTriggerWord{
				Phrase:        pt.Phrase,
				SoundClipIDs:  clipIDs,
				CaseSensitive: pt.CaseSensitive,
				Enabled:       pt.Enabled,
			}); err != nil {
				return fmt.Errorf("create trigger word %q: %w", pt.Phrase, err)
			}
			result.TriggersImported++
		}

		pool := make([]int64, 0, len(doc.Settings.DefaultResponseSoundClipNames))
		result.UnresolvedDefaults = result.UnresolvedDefaults[:0]
		for _, name := range doc.Settings.DefaultResponseSoundClipNames {
			id, ok := ids[name]
			if !ok {
				result.UnresolvedDefaults = append(result.UnresolvedDefaults, name)
				continue
			}
			pool = append(pool, id)
		}
		enabled := doc.Settings.DefaultResponseEnabled
		delay := max(doc.Settings.DefaultResponseDelay, 0)
		index := 0
		if _, err := s.store.UpdateSettings(txCtx, domain.SettingsPatch{
			DefaultResponseEnabled:      &enabled,
			DefaultResponseSoundClipIDs: pool,
			DefaultResponseDelay:        &delay,
			DefaultResponseIndex:        &index,
		}); err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		return nil
	})
	if err != nil {
		s.removeBlobs(ctx, written)
		return nil, err
	}

	s.removeBlobs(ctx, without(replaced, written))

	for _, phrase := range result.SkippedTriggers {
		s.log.WarnContext(ctx, "skipping trigger word with unresolved clips", slog.String("phrase", phrase))
	}
	for _, name := range result.UnresolvedDefaults {
		s.log.WarnContext(ctx, "dropping unresolved default-response clip", slog.String("name", name))
	}
	s.log.InfoContext(ctx, "profile imported",
		slog.Int("clips", result.ClipsImported),
		slog.Int("triggers", result.TriggersImported),
		slog.Int("skipped_clips", len(result.SkippedClips)),
		slog.Int("skipped_triggers", len(result.SkippedTriggers)),
	)

	return result, nil
}

// decodeClips decodes audio and assigns fresh filenames. Clips without a
// name or with undecodable audio are skipped and recorded in result.
func (s *Service) decodeClips(ctx context.Context, clips []domain.ProfileClip, result *ImportResult) []decodedClip {
	now := s.now()
	out := make([]decodedClip, 0, len(clips))
	for i, pc := range clips {
		if strings.TrimSpace(pc.Name) == "" {
			result.SkippedClips = append(result.SkippedClips, pc.Name)
			s.log.WarnContext(ctx, "skipping clip without name", slog.Int("position", i))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(pc.AudioData)
		if err != nil {
			result.SkippedClips = append(result.SkippedClips, pc.Name)
			s.log.WarnContext(ctx, "skipping clip with invalid audio data",
				slog.String("name", pc.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		base := pc.Filename
		if base == "" {
			base = pc.Name
		}
		out = append(out, decodedClip{
			clip:     pc,
			filename: domain.BlobFilename(now, base),
			data:     data,
		})
	}
	return out
}

// resolveAll maps every name to an id. ok is false if any name is unknown
// or names is empty.
func resolveAll(names []string, ids map[string]int64) ([]int64, bool) {
	if len(names) == 0 {
		return nil, false
	}
	out := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

// without returns the names in filenames that are not in keep.
func without(filenames, keep []string) []string {
	if len(keep) == 0 {
		return filenames
	}
	skip := make(map[string]struct{}, len(keep))
	for _, f := range keep {
		skip[f] = struct{}{}
	}
	out := make([]string, 0, len(filenames))
	for _, f := range filenames {
		if _, ok := skip[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *Service) removeBlobs(ctx context.Context, filenames []string) {
	for _, f := range filenames {
		if err := s.blobs.DeleteBlob(ctx, f); err != nil {
			s.log.WarnContext(ctx, "remove clip audio", slog.String("filename", f), slog.String("error", err.Error()))
		}
	}
}
