package memory

import (
	"context"
	"fmt"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// NextTriggerClip returns the clip at the trigger word's cursor and
// advances the cursor. Selection and advance are one atomic step.
func (s *Store) NextTriggerClip(ctx context.Context, triggerID int64) (domain.SoundClip, bool, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	t, ok := s.triggers[triggerID]
	if !ok {
		return domain.SoundClip{}, false, fmt.Errorf("trigger_word %d: %w", triggerID, domain.ErrNotFound)
	}

	id, next, ok := domain.NextInRotation(t.SoundClipIDs, t.CurrentIndex)
	if !ok {
		return domain.SoundClip{}, false, nil
	}
	t.CurrentIndex = next

	c, ok := s.clips[id]
	if !ok {
		return domain.SoundClip{}, false, nil
	}
	return *c, true, nil
}

// NextDefaultClip returns the clip at the default-pool cursor and advances
// the cursor. It does not look at DefaultResponseEnabled; callers skip it
// while the default response is off so the cursor stays where it was.
func (s *Store) NextDefaultClip(ctx context.Context) (domain.SoundClip, bool, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	id, next, ok := domain.NextInRotation(s.settings.DefaultResponseSoundClipIDs, s.settings.DefaultResponseIndex)
	if !ok {
		return domain.SoundClip{}, false, nil
	}
	s.settings.DefaultResponseIndex = next

	c, ok := s.clips[id]
	if !ok {
		return domain.SoundClip{}, false, nil
	}
	return *c, true, nil
}
