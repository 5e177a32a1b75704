package domain

import "time"

// ProfileVersion is the current profile document format.
const ProfileVersion = "1.0"

// ProfileDocument is a self-contained, name-addressed export of the whole
// soundboard. Clips are referenced by name, never by id.
type ProfileDocument struct {
	Version      string           `json:"version"`
	ExportDate   time.Time        `json:"exportDate"`
	SoundClips   []ProfileClip    `json:"soundClips"`
	TriggerWords []ProfileTrigger `json:"triggerWords"`
	Settings     ProfileSettings  `json:"settings"`
}

// ProfileClip carries one clip with its audio embedded as base64.
type ProfileClip struct {
	Name      string  `json:"name"`
	Filename  string  `json:"filename"`
	Format    string  `json:"format"`
	Duration  float64 `json:"duration"`
	Size      int64   `json:"size"`
	AudioData string  `json:"audioData"`
}

// ProfileTrigger is a trigger word with its clips resolved to names.
type ProfileTrigger struct {
	Phrase         string   `json:"phrase"`
	SoundClipNames []string `json:"soundClipNames"`
	CaseSensitive  bool     `json:"caseSensitive"`
	Enabled        bool     `json:"enabled"`
}

// ProfileSettings is the exported part of Settings.
type ProfileSettings struct {
	DefaultResponseEnabled        bool     `json:"defaultResponseEnabled"`
	DefaultResponseSoundClipNames []string `json:"defaultResponseSoundClipNames"`
	DefaultResponseDelay          int      `json:"defaultResponseDelay"`
}

// ArchivedProfile is a profile document as stored in the server-side
// archive: the document fields plus the archive envelope.
type ArchivedProfile struct {
	ProfileDocument
	ReadOnly bool      `json:"readOnly"`
	SavedAt  time.Time `json:"savedAt"`
}
