// Package postgres implements domain.SoundboardStore on PostgreSQL.
// Array columns hold the ordered clip lists; the single settings row is
// the lock that serializes writers.
package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

const (
	soundClipsTable   = "sound_clips"
	triggerWordsTable = "trigger_words"
	settingsTable     = "soundboard_settings"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ domain.SoundboardStore = (*Store)(nil)

// Store is the PostgreSQL soundboard state.
type Store struct {
	pool *pgxpool.Pool
	tx   *TxManager
}

// New creates a Store on a migrated database.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, tx: NewTxManager(pool)}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RunInTx runs fn in one transaction holding the state lock. Store calls
// made with the ctx passed to fn join the transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.write(ctx, fn)
}

// Clear removes all clips and trigger words and resets settings. Identity
// sequences keep counting.
func (s *Store) Clear(ctx context.Context) error {
	return s.write(ctx, func(ctx context.Context) error {
		if _, err := s.exec(ctx, psql.Delete(triggerWordsTable)); err != nil {
			return fmt.Errorf("clear trigger words: %w", err)
		}
		if _, err := s.exec(ctx, psql.Delete(soundClipsTable)); err != nil {
			return fmt.Errorf("clear sound clips: %w", err)
		}
		if err := s.saveSettings(ctx, domain.DefaultSettings()); err != nil {
			return fmt.Errorf("reset settings: %w", err)
		}
		return nil
	})
}

// write runs fn in a transaction after locking the settings row, so
// writers see and change the state one at a time.
func (s *Store) write(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.lockState(txCtx); err != nil {
			return err
		}
		return fn(txCtx)
	})
}

func (s *Store) lockState(ctx context.Context) error {
	query, args, err := psql.Select("id").
		From(settingsTable).
		Where(sq.Eq{"id": domain.SettingsID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock query: %w", err)
	}

	var id int64
	if err := s.q(ctx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return fmt.Errorf("lock soundboard state: %w", err)
	}
	return nil
}

func (s *Store) q(ctx context.Context) Querier {
	return QuerierFromCtx(ctx, s.pool)
}

func (s *Store) exec(ctx context.Context, stmt sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build query: %w", err)
	}
	return s.q(ctx).Exec(ctx, query, args...)
}

// nonNilIDs keeps empty id lists from being written as NULL.
func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
