package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

var clipColumns = []string{"id", "name", "filename", "format", "duration", "size", "url", "is_default", "created_at"}

func scanClip(row pgx.Row) (domain.SoundClip, error) {
	var c domain.SoundClip
	err := row.Scan(&c.ID, &c.Name, &c.Filename, &c.Format, &c.Duration, &c.Size, &c.URL, &c.IsDefault, &c.CreatedAt)
	return c, err
}

// ListSoundClips returns all clips ordered by id.
func (s *Store) ListSoundClips(ctx context.Context) ([]domain.SoundClip, error) {
	query, args, err := psql.Select(clipColumns...).From(soundClipsTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sound clips: %w", err)
	}
	clips, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SoundClip, error) {
		return scanClip(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan sound clips: %w", err)
	}
	return clips, nil
}

// GetSoundClip returns a clip by id or domain.ErrNotFound.
func (s *Store) GetSoundClip(ctx context.Context, id int64) (domain.SoundClip, error) {
	query, args, err := psql.Select(clipColumns...).From(soundClipsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.SoundClip{}, fmt.Errorf("build query: %w", err)
	}

	c, err := scanClip(s.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.SoundClip{}, mapError(err, "sound_clip", id)
	}
	return c, nil
}

// CreateSoundClip stores a new, default clip. While the default response
// is enabled its id is appended to the default pool.
func (s *Store) CreateSoundClip(ctx context.Context, in domain.NewSoundClip) (domain.SoundClip, error) {
	var c domain.SoundClip
	err := s.write(ctx, func(ctx context.Context) error {
		query, args, err := psql.Insert(soundClipsTable).
			Columns("name", "filename", "format", "duration", "size", "url", "is_default").
			Values(in.Name, in.Filename, in.Format, in.Duration, in.Size, in.URL, true).
			Suffix("RETURNING " + strings.Join(clipColumns, ", ")).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		c, err = scanClip(s.q(ctx).QueryRow(ctx, query, args...))
		if err != nil {
			return mapError(err, "sound_clip", 0)
		}

		_, err = s.exec(ctx, psql.Update(settingsTable).
			Set("default_response_sound_clip_ids", sq.Expr("array_append(default_response_sound_clip_ids, ?::bigint)", c.ID)).
			Where(sq.Eq{"id": domain.SettingsID, "default_response_enabled": true}))
		if err != nil {
			return fmt.Errorf("append to default pool: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.SoundClip{}, err
	}
	return c, nil
}

// DeleteSoundClip removes a clip and returns it. The id is filtered out of
// every trigger word; a trigger word left without clips is deleted, the
// others get their cursor clamped. The id also leaves the default pool.
func (s *Store) DeleteSoundClip(ctx context.Context, id int64) (domain.SoundClip, error) {
	var c domain.SoundClip
	err := s.write(ctx, func(ctx context.Context) error {
		query, args, err := psql.Delete(soundClipsTable).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING " + strings.Join(clipColumns, ", ")).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		c, err = scanClip(s.q(ctx).QueryRow(ctx, query, args...))
		if err != nil {
			return mapError(err, "sound_clip", id)
		}

		triggers, err := s.triggersListing(ctx, id)
		if err != nil {
			return err
		}
		for _, t := range triggers {
			filtered := removeID(t.SoundClipIDs, id)
			if len(filtered) == 0 {
				if _, err := s.exec(ctx, psql.Delete(triggerWordsTable).Where(sq.Eq{"id": t.ID})); err != nil {
					return fmt.Errorf("delete emptied trigger word %d: %w", t.ID, err)
				}
				continue
			}
			_, err := s.exec(ctx, psql.Update(triggerWordsTable).
				Set("sound_clip_ids", filtered).
				Set("current_index", domain.ClampIndex(t.CurrentIndex, len(filtered))).
				Where(sq.Eq{"id": t.ID}))
			if err != nil {
				return fmt.Errorf("filter trigger word %d: %w", t.ID, err)
			}
		}

		return s.removeFromPool(ctx, []int64{id})
	})
	if err != nil {
		return domain.SoundClip{}, err
	}
	return c, nil
}
