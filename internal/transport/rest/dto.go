package rest

import (
	"time"

	"github.com/Evman90/soundboardmaker/internal/domain"
	"github.com/Evman90/soundboardmaker/internal/service/archive"
	"github.com/Evman90/soundboardmaker/internal/service/profile"
	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
)

type clipResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	Duration  float64   `json:"duration"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

type triggerResponse struct {
	ID            int64   `json:"id"`
	Phrase        string  `json:"phrase"`
	SoundClipIDs  []int64 `json:"soundClipIds"`
	CurrentIndex  int     `json:"currentIndex"`
	CaseSensitive bool    `json:"caseSensitive"`
	Enabled       bool    `json:"enabled"`
}

type settingsResponse struct {
	ID                          int64   `json:"id"`
	DefaultResponseEnabled      bool    `json:"defaultResponseEnabled"`
	DefaultResponseSoundClipIDs []int64 `json:"defaultResponseSoundClipIds"`
	DefaultResponseDelay        int     `json:"defaultResponseDelay"`
	DefaultResponseIndex        int     `json:"defaultResponseIndex"`
}

// playbackResponse answers the next-clip and match endpoints. Played is
// false when nothing should play; the other fields are then omitted.
type playbackResponse struct {
	Played    bool          `json:"played"`
	Clip      *clipResponse `json:"clip,omitempty"`
	Source    string        `json:"source,omitempty"`
	TriggerID int64         `json:"triggerId,omitempty"`
	Delay     int           `json:"delay,omitempty"`
}

type importResponse struct {
	ClipsImported      int      `json:"clipsImported"`
	TriggersImported   int      `json:"triggersImported"`
	SkippedClips       []string `json:"skippedClips"`
	SkippedTriggers    []string `json:"skippedTriggers"`
	UnresolvedDefaults []string `json:"unresolvedDefaults"`
}

type archiveEntryResponse struct {
	Filename string     `json:"filename"`
	ReadOnly bool       `json:"readOnly"`
	SavedAt  *time.Time `json:"savedAt,omitempty"`
	Size     int64      `json:"size"`
	Corrupt  bool       `json:"corrupt,omitempty"`
}

func toClipResponse(c domain.SoundClip) clipResponse {
	return clipResponse{
		ID:        c.ID,
		Name:      c.Name,
		Filename:  c.Filename,
		Format:    c.Format,
		Duration:  c.Duration,
		Size:      c.Size,
		URL:       c.URL,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

func toTriggerResponse(t domain.TriggerWord) triggerResponse {
	return triggerResponse{
		ID:            t.ID,
		Phrase:        t.Phrase,
		SoundClipIDs:  nonNil(t.SoundClipIDs),
		CurrentIndex:  t.CurrentIndex,
		CaseSensitive: t.CaseSensitive,
		Enabled:       t.Enabled,
	}
}

func toSettingsResponse(s domain.Settings) settingsResponse {
	return settingsResponse{
		ID:                          s.ID,
		DefaultResponseEnabled:      s.DefaultResponseEnabled,
		DefaultResponseSoundClipIDs: nonNil(s.DefaultResponseSoundClipIDs),
		DefaultResponseDelay:        s.DefaultResponseDelay,
		DefaultResponseIndex:        s.DefaultResponseIndex,
	}
}

func toPlaybackResponse(pb soundboard.Playback, ok bool) playbackResponse {
	if !ok {
		return playbackResponse{}
	}
	clip := toClipResponse(pb.Clip)
	return playbackResponse{
		Played:    true,
		Clip:      &clip,
		Source:    pb.Source,
		TriggerID: pb.TriggerID,
		Delay:     pb.DelayMs,
	}
}

func toImportResponse(r *profile.ImportResult) importResponse {
	return importResponse{
		ClipsImported:      r.ClipsImported,
		TriggersImported:   r.TriggersImported,
		SkippedClips:       nonNil(r.SkippedClips),
		SkippedTriggers:    nonNil(r.SkippedTriggers),
		UnresolvedDefaults: nonNil(r.UnresolvedDefaults),
	}
}

func toArchiveEntryResponse(e archive.Entry) archiveEntryResponse {
	resp := archiveEntryResponse{
		Filename: e.Filename,
		ReadOnly: e.ReadOnly,
		Size:     e.Size,
		Corrupt:  e.Corrupt,
	}
	if !e.SavedAt.IsZero() {
		savedAt := e.SavedAt
		resp.SavedAt = &savedAt
	}
	return resp
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
