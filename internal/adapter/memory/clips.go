package memory

import (
	"context"
	"fmt"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// ListSoundClips returns all clips ordered by id.
func (s *Store) ListSoundClips(ctx context.Context) ([]domain.SoundClip, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	out := make([]domain.SoundClip, 0, len(s.clips))
	for _, id := range sortedIDs(s.clips) {
		out = append(out, *s.clips[id])
	}
	return out, nil
}

// GetSoundClip returns a clip by id or domain.ErrNotFound.
func (s *Store) GetSoundClip(ctx context.Context, id int64) (domain.SoundClip, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	c, ok := s.clips[id]
	if !ok {
		return domain.SoundClip{}, fmt.Errorf("sound_clip %d: %w", id, domain.ErrNotFound)
	}
	return *c, nil
}

// CreateSoundClip stores a new clip. A new clip is unassigned and so
// starts as default; while the default response is enabled its id is
// appended to the default pool, even if already present.
func (s *Store) CreateSoundClip(ctx context.Context, in domain.NewSoundClip) (domain.SoundClip, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	s.lastClipID++
	c := &domain.SoundClip{
		ID:        s.lastClipID,
		Name:      in.Name,
		Filename:  in.Filename,
		Format:    in.Format,
		Duration:  in.Duration,
		Size:      in.Size,
		URL:       in.URL,
		IsDefault: true,
		CreatedAt: s.now().UTC(),
	}
	s.clips[c.ID] = c

	if s.settings.DefaultResponseEnabled {
		s.settings.DefaultResponseSoundClipIDs = append(s.settings.DefaultResponseSoundClipIDs, c.ID)
	}

	return *c, nil
}

// DeleteSoundClip removes a clip and returns it. The id is filtered out of
// every trigger word; a trigger word left without clips is deleted, the
// others get their cursor clamped. The id also leaves the default pool.
func (s *Store) DeleteSoundClip(ctx context.Context, id int64) (domain.SoundClip, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	c, ok := s.clips[id]
	if !ok {
		return domain.SoundClip{}, fmt.Errorf("sound_clip %d: %w", id, domain.ErrNotFound)
	}
	delete(s.clips, id)

	for tid, t := range s.triggers {
		filtered := removeAll(t.SoundClipIDs, id)
		if len(filtered) == len(t.SoundClipIDs) {
			continue
		}
		if len(filtered) == 0 {
			delete(s.triggers, tid)
			continue
		}
		t.SoundClipIDs = filtered
		t.CurrentIndex = domain.ClampIndex(t.CurrentIndex, len(filtered))
	}

	s.removeFromPool(id)

	return *c, nil
}
