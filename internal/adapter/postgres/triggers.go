package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

var triggerColumns = []string{"id", "phrase", "sound_clip_ids", "current_index", "case_sensitive", "enabled"}

func scanTrigger(row pgx.Row) (domain.TriggerWord, error) {
	var t domain.TriggerWord
	err := row.Scan(&t.ID, &t.Phrase, &t.SoundClipIDs, &t.CurrentIndex, &t.CaseSensitive, &t.Enabled)
	return t, err
}

func (s *Store) queryTriggers(ctx context.Context, stmt sq.SelectBuilder) ([]domain.TriggerWord, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trigger words: %w", err)
	}
	triggers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TriggerWord, error) {
		return scanTrigger(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan trigger words: %w", err)
	}
	return triggers, nil
}

// ListTriggerWords returns all trigger words ordered by id.
func (s *Store) ListTriggerWords(ctx context.Context) ([]domain.TriggerWord, error) {
	return s.queryTriggers(ctx, psql.Select(triggerColumns...).From(triggerWordsTable).OrderBy("id"))
}

// triggersListing returns the trigger words whose clip list contains clipID.
func (s *Store) triggersListing(ctx context.Context, clipID int64) ([]domain.TriggerWord, error) {
	return s.queryTriggers(ctx, psql.Select(triggerColumns...).
		From(triggerWordsTable).
		Where(sq.Expr("?::bigint = ANY(sound_clip_ids)", clipID)).
		OrderBy("id"))
}

// GetTriggerWord returns a trigger word by id or domain.ErrNotFound.
func (s *Store) GetTriggerWord(ctx context.Context, id int64) (domain.TriggerWord, error) {
	query, args, err := psql.Select(triggerColumns...).From(triggerWordsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.TriggerWord{}, fmt.Errorf("build query: %w", err)
	}

	t, err := scanTrigger(s.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return domain.TriggerWord{}, mapError(err, "trigger_word", id)
	}
	return t, nil
}

// CreateTriggerWord stores a trigger word and claims its clips.
func (s *Store) CreateTriggerWord(ctx context.Context, in domain.NewTriggerWord) (domain.TriggerWord, error) {
	var t domain.TriggerWord
	err := s.write(ctx, func(ctx context.Context) error {
		query, args, err := psql.Insert(triggerWordsTable).
			Columns("phrase", "sound_clip_ids", "current_index", "case_sensitive", "enabled").
			Values(in.Phrase, nonNilIDs(in.SoundClipIDs), 0, in.CaseSensitive, in.Enabled).
			Suffix("RETURNING " + strings.Join(triggerColumns, ", ")).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		t, err = scanTrigger(s.q(ctx).QueryRow(ctx, query, args...))
		if err != nil {
			return mapError(err, "trigger_word", 0)
		}

		added, _ := domain.ClipIDDiff(nil, t.SoundClipIDs)
		return s.claim(ctx, added)
	})
	if err != nil {
		return domain.TriggerWord{}, err
	}
	return t, nil
}

// UpdateTriggerWord applies a partial update. When the clip list changes,
// the cursor is clamped and default status is reconciled for the clips
// that were added or removed.
func (s *Store) UpdateTriggerWord(ctx context.Context, id int64, patch domain.TriggerWordPatch) (domain.TriggerWord, error) {
	var t domain.TriggerWord
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.GetTriggerWord(ctx, id)
		if err != nil {
			return err
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
		var added, removed []int64
		if patch.SoundClipIDs != nil {
			prev := t.SoundClipIDs
			t.SoundClipIDs = slices.Clone(patch.SoundClipIDs)
			t.CurrentIndex = domain.ClampIndex(t.CurrentIndex, len(t.SoundClipIDs))
			added, removed = domain.ClipIDDiff(prev, t.SoundClipIDs)
		}

		_, err = s.exec(ctx, psql.Update(triggerWordsTable).
			Set("phrase", t.Phrase).
			Set("sound_clip_ids", nonNilIDs(t.SoundClipIDs)).
			Set("current_index", t.CurrentIndex).
			Set("case_sensitive", t.CaseSensitive).
			Set("enabled", t.Enabled).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return mapError(err, "trigger_word", id)
		}

		if err := s.claim(ctx, added); err != nil {
			return err
		}
		return s.release(ctx, removed)
	})
	if err != nil {
		return domain.TriggerWord{}, err
	}
	return t, nil
}

// DeleteTriggerWord removes a trigger word and releases its clips.
func (s *Store) DeleteTriggerWord(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context) error {
		query, args, err := psql.Delete(triggerWordsTable).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING sound_clip_ids").
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}

		var ids []int64
		if err := s.q(ctx).QueryRow(ctx, query, args...).Scan(&ids); err != nil {
			return mapError(err, "trigger_word", id)
		}

		_, removed := domain.ClipIDDiff(ids, nil)
		return s.release(ctx, removed)
	})
}
