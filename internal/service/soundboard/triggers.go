package soundboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// ListTriggers returns all trigger words ordered by id.
func (s *Service) ListTriggers(ctx context.Context) ([]domain.TriggerWord, error) {
	triggers, err := s.store.ListTriggerWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trigger words: %w", err)
	}
	return triggers, nil
}

// CreateTrigger creates a trigger word. Every listed clip must exist.
func (s *Service) CreateTrigger(ctx context.Context, input CreateTriggerInput) (domain.TriggerWord, error) {
	if err := input.Validate(); err != nil {
		return domain.TriggerWord{}, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	var trigger domain.TriggerWord
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requireClips(txCtx, "soundClipIds", input.SoundClipIDs); err != nil {
			return err
		}
		var err error
		trigger, err = s.store.CreateTriggerWord(txCtx, domain.NewTriggerWord{
			Phrase:        strings.TrimSpace(input.Phrase),
			SoundClipIDs:  input.SoundClipIDs,
			CaseSensitive: input.CaseSensitive,
			Enabled:       enabled,
		})
		if err != nil {
			return fmt.Errorf("create trigger word: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.TriggerWord{}, err
	}

	s.log.InfoContext(ctx, "trigger word created",
		slog.Int64("trigger_id", trigger.ID),
		slog.String("phrase", trigger.Phrase),
	)

	return trigger, nil
}

// UpdateTrigger applies a partial update to a trigger word.
func (s *Service) UpdateTrigger(ctx context.Context, input UpdateTriggerInput) (domain.TriggerWord, error) {
	if err := input.Validate(); err != nil {
		return domain.TriggerWord{}, err
	}

	patch := domain.TriggerWordPatch{
		SoundClipIDs:  input.SoundClipIDs,
		CaseSensitive: input.CaseSensitive,
		Enabled:       input.Enabled,
	}
	if input.Phrase != nil {
		phrase := strings.TrimSpace(*input.Phrase)
		patch.Phrase = &phrase
	}

	var trigger domain.TriggerWord
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if patch.SoundClipIDs != nil {
			if err := s.requireClips(txCtx, "soundClipIds", patch.SoundClipIDs); err != nil {
				return err
			}
		}
		var err error
		trigger, err = s.store.UpdateTriggerWord(txCtx, input.ID, patch)
		if err != nil {
			return fmt.Errorf("update trigger word: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.TriggerWord{}, err
	}

	s.log.InfoContext(ctx, "trigger word updated", slog.Int64("trigger_id", trigger.ID))
	return trigger, nil
}

// DeleteTrigger deletes a trigger word; its clips become default again
// unless another trigger word lists them.
func (s *Service) DeleteTrigger(ctx context.Context, id int64) error {
	if err := s.store.DeleteTriggerWord(ctx, id); err != nil {
		return fmt.Errorf("delete trigger word: %w", err)
	}
	s.log.InfoContext(ctx, "trigger word deleted", slog.Int64("trigger_id", id))
	return nil
}

// requireClips returns a validation error naming the first id that does
// not belong to an existing clip.
func (s *Service) requireClips(ctx context.Context, field string, ids []int64) error {
	for _, id := range ids {
		_, err := s.store.GetSoundClip(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(field, fmt.Sprintf("sound clip %d does not exist", id))
		}
		if err != nil {
			return fmt.Errorf("get sound clip %d: %w", id, err)
		}
	}
	return nil
}
