package memory

import (
	"slices"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// claim marks clips newly listed by a trigger word as no longer default
// and takes them out of the default pool. Callers hold the mutex.
func (s *Store) claim(ids []int64) {
	for _, id := range ids {
		if c, ok := s.clips[id]; ok {
			c.IsDefault = false
		}
		s.removeFromPool(id)
	}
}

// release restores clips dropped from a trigger word to default status
// when no trigger word lists them any more. Disabled trigger words still
// count as listing a clip. The trigger map must already reflect the change.
func (s *Store) release(ids []int64) {
	for _, id := range ids {
		c, ok := s.clips[id]
		if !ok || s.referenced(id) {
			continue
		}
		c.IsDefault = true
		if !slices.Contains(s.settings.DefaultResponseSoundClipIDs, id) {
			s.settings.DefaultResponseSoundClipIDs = append(s.settings.DefaultResponseSoundClipIDs, id)
		}
	}
}

func (s *Store) referenced(clipID int64) bool {
	for _, t := range s.triggers {
		if slices.Contains(t.SoundClipIDs, clipID) {
			return true
		}
	}
	return false
}

// removeFromPool drops every occurrence of id from the default pool and
// keeps the pool cursor in range.
func (s *Store) removeFromPool(id int64) {
	pool := removeAll(s.settings.DefaultResponseSoundClipIDs, id)
	if len(pool) == len(s.settings.DefaultResponseSoundClipIDs) {
		return
	}
	s.settings.DefaultResponseSoundClipIDs = pool
	s.settings.DefaultResponseIndex = domain.ClampIndex(s.settings.DefaultResponseIndex, len(pool))
}

func removeAll(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
