package memory

import (
	"context"
	"slices"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// GetSettings returns the settings record.
func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	return s.settings.Clone(), nil
}

// UpdateSettings applies a partial update. The cursor is clamped to the
// resulting pool.
func (s *Store) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	_, unlock := s.lock(ctx)
	defer unlock()

	if patch.DefaultResponseEnabled != nil {
		s.settings.DefaultResponseEnabled = *patch.DefaultResponseEnabled
	}
	if patch.DefaultResponseDelay != nil {
		s.settings.DefaultResponseDelay = *patch.DefaultResponseDelay
	}
	if patch.DefaultResponseSoundClipIDs != nil {
		s.settings.DefaultResponseSoundClipIDs = slices.Clone(patch.DefaultResponseSoundClipIDs)
	}
	if patch.DefaultResponseIndex != nil {
		s.settings.DefaultResponseIndex = *patch.DefaultResponseIndex
	}
	s.settings.DefaultResponseIndex = domain.ClampIndex(
		s.settings.DefaultResponseIndex, len(s.settings.DefaultResponseSoundClipIDs))

	return s.settings.Clone(), nil
}
