package soundboard

import (
	"context"
	"fmt"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// GetSettings returns the default-response settings.
func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies a partial settings update. A replaced pool must
// only name existing clips.
func (s *Service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (domain.Settings, error) {
	if err := input.Validate(); err != nil {
		return domain.Settings{}, err
	}

	var settings domain.Settings
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if input.DefaultResponseSoundClipIDs != nil {
			if err := s.requireClips(txCtx, "defaultResponseSoundClipIds", input.DefaultResponseSoundClipIDs); err != nil {
				return err
			}
		}
		var err error
		settings, err = s.store.UpdateSettings(txCtx, domain.SettingsPatch{
			DefaultResponseEnabled:      input.DefaultResponseEnabled,
			DefaultResponseSoundClipIDs: input.DefaultResponseSoundClipIDs,
			DefaultResponseDelay:        input.DefaultResponseDelay,
		})
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}
