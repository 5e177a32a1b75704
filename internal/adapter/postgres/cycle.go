package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// NextTriggerClip returns the clip at the trigger word's cursor and
// advances the cursor in the same transaction.
func (s *Store) NextTriggerClip(ctx context.Context, triggerID int64) (domain.SoundClip, bool, error) {
	var (
		clip domain.SoundClip
		ok   bool
	)
	err := s.write(ctx, func(ctx context.Context) error {
		t, err := s.GetTriggerWord(ctx, triggerID)
		if err != nil {
			return err
		}

		id, next, found := domain.NextInRotation(t.SoundClipIDs, t.CurrentIndex)
		if !found {
			return nil
		}
		_, err = s.exec(ctx, psql.Update(triggerWordsTable).Set("current_index", next).Where(sq.Eq{"id": triggerID}))
		if err != nil {
			return fmt.Errorf("advance trigger word %d: %w", triggerID, err)
		}

		clip, ok, err = s.lookupClip(ctx, id)
		return err
	})
	if err != nil {
		return domain.SoundClip{}, false, err
	}
	return clip, ok, nil
}

// NextDefaultClip returns the clip at the default-pool cursor and advances
// the cursor. It does not look at DefaultResponseEnabled.
func (s *Store) NextDefaultClip(ctx context.Context) (domain.SoundClip, bool, error) {
	var (
		clip domain.SoundClip
		ok   bool
	)
	err := s.write(ctx, func(ctx context.Context) error {
		st, err := s.GetSettings(ctx)
		if err != nil {
			return err
		}

		id, next, found := domain.NextInRotation(st.DefaultResponseSoundClipIDs, st.DefaultResponseIndex)
		if !found {
			return nil
		}
		_, err = s.exec(ctx, psql.Update(settingsTable).Set("default_response_index", next).Where(sq.Eq{"id": domain.SettingsID}))
		if err != nil {
			return fmt.Errorf("advance default pool: %w", err)
		}

		clip, ok, err = s.lookupClip(ctx, id)
		return err
	})
	if err != nil {
		return domain.SoundClip{}, false, err
	}
	return clip, ok, nil
}

// lookupClip reports ok=false for a dangling id instead of an error.
func (s *Store) lookupClip(ctx context.Context, id int64) (domain.SoundClip, bool, error) {
	c, err := s.GetSoundClip(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SoundClip{}, false, nil
	}
	if err != nil {
		return domain.SoundClip{}, false, err
	}
	return c, true, nil
}
