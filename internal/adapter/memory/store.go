// Package memory implements domain.SoundboardStore in process memory.
// State is volatile: it lives as long as the Store value.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

var _ domain.SoundboardStore = (*Store)(nil)

// Store is the in-memory soundboard state. A single mutex guards all three
// collections, so every public method is one critical section.
type Store struct {
	mu sync.Mutex

	clips    map[int64]*domain.SoundClip
	triggers map[int64]*domain.TriggerWord
	settings domain.Settings

	lastClipID    int64
	lastTriggerID int64

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		clips:    make(map[int64]*domain.SoundClip),
		triggers: make(map[int64]*domain.TriggerWord),
		settings: domain.DefaultSettings(),
		now:      time.Now,
	}
}

// heldKey marks a context whose goroutine already holds a Store's mutex.
type heldKey struct{}

// lock acquires the store mutex unless ctx comes from a RunInTx callback
// of this same store. The returned context carries the marker.
func (s *Store) lock(ctx context.Context) (context.Context, func()) {
	if held, _ := ctx.Value(heldKey{}).(*Store); held == s {
		return ctx, func() {}
	}
	s.mu.Lock()
	return context.WithValue(ctx, heldKey{}, s), s.mu.Unlock
}

// RunInTx runs fn while holding the store mutex. Store calls made with the
// ctx passed to fn join the critical section instead of deadlocking.
// If fn fails, clips, trigger words and settings are restored to their
// state before fn ran; id counters keep their advanced values.
// The ctx must not escape fn.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	txCtx, unlock := s.lock(ctx)
	defer unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Clear removes all clips and trigger words and resets settings.
func (s *Store) Clear(ctx context.Context) error {
	_, unlock := s.lock(ctx)
	defer unlock()

	clear(s.clips)
	clear(s.triggers)
	s.settings = domain.DefaultSettings()
	return nil
}

// Ping reports store health. The in-memory store is always available.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

type snapshot struct {
	clips    map[int64]*domain.SoundClip
	triggers map[int64]*domain.TriggerWord
	settings domain.Settings
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		clips:    make(map[int64]*domain.SoundClip, len(s.clips)),
		triggers: make(map[int64]*domain.TriggerWord, len(s.triggers)),
		settings: s.settings.Clone(),
	}
	for id, c := range s.clips {
		cp := *c
		snap.clips[id] = &cp
	}
	for id, t := range s.triggers {
		cp := t.Clone()
		snap.triggers[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.clips = snap.clips
	s.triggers = snap.triggers
	s.settings = snap.settings
}

// sortedIDs returns the keys of m in ascending order.
func sortedIDs[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}
