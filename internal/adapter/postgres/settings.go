package postgres

import (
	"context"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// GetSettings returns the settings record.
func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	query, args, err := psql.Select(
		"id",
		"default_response_enabled",
		"default_response_sound_clip_ids",
		"default_response_delay",
		"default_response_index",
	).From(settingsTable).Where(sq.Eq{"id": domain.SettingsID}).ToSql()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("build query: %w", err)
	}

	var st domain.Settings
	err = s.q(ctx).QueryRow(ctx, query, args...).Scan(
		&st.ID,
		&st.DefaultResponseEnabled,
		&st.DefaultResponseSoundClipIDs,
		&st.DefaultResponseDelay,
		&st.DefaultResponseIndex,
	)
	if err != nil {
		return domain.Settings{}, mapError(err, "settings", domain.SettingsID)
	}
	st.DefaultResponseSoundClipIDs = nonNilIDs(st.DefaultResponseSoundClipIDs)
	return st, nil
}

// UpdateSettings applies a partial update. The cursor is clamped to the
// resulting pool.
func (s *Store) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	var st domain.Settings
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		st, err = s.GetSettings(ctx)
		if err != nil {
			return err
		}

		if patch.DefaultResponseEnabled != nil {
			st.DefaultResponseEnabled = *patch.DefaultResponseEnabled
		}
		if patch.DefaultResponseDelay != nil {
			st.DefaultResponseDelay = *patch.DefaultResponseDelay
		}
		if patch.DefaultResponseSoundClipIDs != nil {
			st.DefaultResponseSoundClipIDs = slices.Clone(patch.DefaultResponseSoundClipIDs)
		}
		if patch.DefaultResponseIndex != nil {
			st.DefaultResponseIndex = *patch.DefaultResponseIndex
		}
		st.DefaultResponseIndex = domain.ClampIndex(st.DefaultResponseIndex, len(st.DefaultResponseSoundClipIDs))

		return s.saveSettings(ctx, st)
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return st, nil
}

func (s *Store) saveSettings(ctx context.Context, st domain.Settings) error {
	_, err := s.exec(ctx, psql.Update(settingsTable).
		Set("default_response_enabled", st.DefaultResponseEnabled).
		Set("default_response_sound_clip_ids", nonNilIDs(st.DefaultResponseSoundClipIDs)).
		Set("default_response_delay", st.DefaultResponseDelay).
		Set("default_response_index", st.DefaultResponseIndex).
		Where(sq.Eq{"id": domain.SettingsID}))
	if err != nil {
		return mapError(err, "settings", domain.SettingsID)
	}
	return nil
}
