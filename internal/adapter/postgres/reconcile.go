package postgres

import (
	"context"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// claim marks clips newly listed by a trigger word as no longer default
// and takes them out of the default pool. Callers hold the state lock.
func (s *Store) claim(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.exec(ctx, psql.Update(soundClipsTable).
		Set("is_default", false).
		Where(sq.Expr("id = ANY(?::bigint[])", ids)))
	if err != nil {
		return fmt.Errorf("claim sound clips: %w", err)
	}
	return s.removeFromPool(ctx, ids)
}

// release restores clips dropped from a trigger word to default status
// when no trigger word lists them any more. Disabled trigger words still
// count as listing a clip. The trigger rows must already reflect the change.
func (s *Store) release(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	st, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	pool := st.DefaultResponseSoundClipIDs

	for _, id := range ids {
		listing, err := s.triggersListing(ctx, id)
		if err != nil {
			return err
		}
		if len(listing) > 0 {
			continue
		}

		tag, err := s.exec(ctx, psql.Update(soundClipsTable).Set("is_default", true).Where(sq.Eq{"id": id}))
		if err != nil {
			return fmt.Errorf("release sound clip %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		if !slices.Contains(pool, id) {
			pool = append(pool, id)
		}
	}

	if len(pool) == len(st.DefaultResponseSoundClipIDs) {
		return nil
	}
	st.DefaultResponseSoundClipIDs = pool
	return s.saveSettings(ctx, st)
}

// removeFromPool drops every occurrence of ids from the default pool and
// keeps the pool cursor in range.
func (s *Store) removeFromPool(ctx context.Context, ids []int64) error {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}

	pool := st.DefaultResponseSoundClipIDs
	for _, id := range ids {
		pool = removeID(pool, id)
	}
	if len(pool) == len(st.DefaultResponseSoundClipIDs) {
		return nil
	}

	st.DefaultResponseSoundClipIDs = pool
	st.DefaultResponseIndex = domain.ClampIndex(st.DefaultResponseIndex, len(pool))
	return s.saveSettings(ctx, st)
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
