package domain

import (
	"slices"
	"time"
)

// SettingsID is the id of the one settings record.
const SettingsID int64 = 1

// SoundClip is an uploaded or recorded audio asset.
// IsDefault is derived: true iff no trigger word lists the clip.
type SoundClip struct {
	ID        int64
	Name      string
	Filename  string
	Format    string
	Duration  float64
	Size      int64
	URL       string
	IsDefault bool
	CreatedAt time.Time
}

// NewSoundClip holds the caller-supplied fields of a clip about to be created.
type NewSoundClip struct {
	Name     string
	Filename string
	Format   string
	Duration float64
	Size     int64
	URL      string
}

// TriggerWord binds a phrase to an ordered list of clips played round-robin.
type TriggerWord struct {
	ID            int64
	Phrase        string
	SoundClipIDs  []int64
	CurrentIndex  int
	CaseSensitive bool
	Enabled       bool
}

// Clone returns a deep copy of t.
func (t TriggerWord) Clone() TriggerWord {
	t.SoundClipIDs = slices.Clone(t.SoundClipIDs)
	return t
}

// NewTriggerWord holds the fields of a trigger word about to be created.
type NewTriggerWord struct {
	Phrase        string
	SoundClipIDs  []int64
	CaseSensitive bool
	Enabled       bool
}

// TriggerWordPatch is a partial update. Nil fields are left unchanged.
type TriggerWordPatch struct {
	Phrase        *string
	SoundClipIDs  []int64
	CaseSensitive *bool
	Enabled       *bool
}

// Settings is the singleton default-response configuration.
type Settings struct {
	ID                          int64
	DefaultResponseEnabled      bool
	DefaultResponseSoundClipIDs []int64
	DefaultResponseDelay        int
	DefaultResponseIndex        int
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	s.DefaultResponseSoundClipIDs = slices.Clone(s.DefaultResponseSoundClipIDs)
	return s
}

// DefaultSettings returns the settings record of an empty soundboard.
func DefaultSettings() Settings {
	return Settings{
		ID:                          SettingsID,
		DefaultResponseEnabled:      false,
		DefaultResponseSoundClipIDs: []int64{},
		DefaultResponseDelay:        0,
		DefaultResponseIndex:        0,
	}
}

// SettingsPatch is a partial update of Settings. Nil fields are left unchanged.
type SettingsPatch struct {
	DefaultResponseEnabled      *bool
	DefaultResponseSoundClipIDs []int64
	DefaultResponseDelay        *int
	DefaultResponseIndex        *int
}

// ClipIDDiff returns the ids present in next but not in prev (added) and
// the ids present in prev but not in next (removed). Each id is reported once.
func ClipIDDiff(prev, next []int64) (added, removed []int64) {
	for _, id := range next {
		if !slices.Contains(prev, id) && !slices.Contains(added, id) {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !slices.Contains(next, id) && !slices.Contains(removed, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// ClampIndex keeps a rotation cursor inside a sequence of length n.
// An empty sequence has no valid cursor; 0 is returned.
func ClampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
