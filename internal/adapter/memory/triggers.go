package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// ListTriggerWords returns all trigger words ordered by id.
func (s *Store) ListTriggerWords(ctx context.Context) ([]domain.TriggerWord, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	out := make([]domain.TriggerWord, 0, len(s.triggers))
	for _, id := range sortedIDs(s.triggers) {
		out = append(out, s.triggers[id].Clone())
	}
	return out, nil
}

// GetTriggerWord returns a trigger word by id or domain.ErrNotFound.
func (s *Store) GetTriggerWord(ctx context.Context, id int64) (domain.TriggerWord, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	t, ok := s.triggers[id]
	if !ok {
		return domain.TriggerWord{}, fmt.Errorf("trigger_word %d: %w", id, domain.ErrNotFound)
	}
	return t.Clone(), nil
}

// CreateTriggerWord stores a trigger word and claims its clips.
func (s *Store) CreateTriggerWord(ctx context.Context, in domain.NewTriggerWord) (domain.TriggerWord, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	s.lastTriggerID++
	t := &domain.TriggerWord{
		ID:            s.lastTriggerID,
		Phrase:        in.Phrase,
		SoundClipIDs:  slices.Clone(in.SoundClipIDs),
		CurrentIndex:  0,
		CaseSensitive: in.CaseSensitive,
		Enabled:       in.Enabled,
	}
	s.triggers[t.ID] = t

	added, _ := domain.ClipIDDiff(nil, t.SoundClipIDs)
	s.claim(added)

	return t.Clone(), nil
}

// UpdateTriggerWord applies a partial update. When the clip list changes,
// the cursor is clamped and default status is reconciled for the clips
// that were added or removed.
func (s *Store) UpdateTriggerWord(ctx context.Context, id int64, patch domain.TriggerWordPatch) (domain.TriggerWord, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	t, ok := s.triggers[id]
	if !ok {
		return domain.TriggerWord{}, fmt.Errorf("trigger_word %d: %w", id, domain.ErrNotFound)
	}

	if patch.Phrase != nil {
		t.Phrase = *patch.Phrase
	}
	if patch.CaseSensitive != nil {
		t.CaseSensitive = *patch.CaseSensitive
	}
	if patch.Enabled != nil {
		t.Enabled = *patch.Enabled
	}
	if patch.SoundClipIDs != nil {
		prev := t.SoundClipIDs
		t.SoundClipIDs = slices.Clone(patch.SoundClipIDs)
		t.CurrentIndex = domain.ClampIndex(t.CurrentIndex, len(t.SoundClipIDs))

		added, removed := domain.ClipIDDiff(prev, t.SoundClipIDs)
		s.claim(added)
		s.release(removed)
	}

	return t.Clone(), nil
}

// DeleteTriggerWord removes a trigger word and releases its clips.
func (s *Store) DeleteTriggerWord(ctx context.Context, id int64) error {
	_, unlock := s.lock(ctx)
	defer unlock()

	t, ok := s.triggers[id]
	if !ok {
		return fmt.Errorf("trigger_word %d: %w", id, domain.ErrNotFound)
	}
	delete(s.triggers, id)

	_, removed := domain.ClipIDDiff(t.SoundClipIDs, nil)
	s.release(removed)

	return nil
}
