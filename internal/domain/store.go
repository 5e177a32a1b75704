package domain

import "context"

// SoundboardStore owns sound clips, trigger words and settings and keeps
// their cross-entity invariants:
//
//   - a clip is default iff no trigger word (enabled or not) lists it;
//   - the default-response pool tracks default clips;
//   - a trigger word whose last clip is deleted is deleted with it;
//   - rotation cursors always point inside their non-empty sequences.
//
// Every method is one critical section. RunInTx groups several calls into
// one; calls made with the callback's ctx join it.
type SoundboardStore interface {
	ListSoundClips(ctx context.Context) ([]SoundClip, error)
	GetSoundClip(ctx context.Context, id int64) (SoundClip, error)
	CreateSoundClip(ctx context.Context, clip NewSoundClip) (SoundClip, error)
	DeleteSoundClip(ctx context.Context, id int64) (SoundClip, error)

	ListTriggerWords(ctx context.Context) ([]TriggerWord, error)
	GetTriggerWord(ctx context.Context, id int64) (TriggerWord, error)
	CreateTriggerWord(ctx context.Context, trigger NewTriggerWord) (TriggerWord, error)
	UpdateTriggerWord(ctx context.Context, id int64, patch TriggerWordPatch) (TriggerWord, error)
	DeleteTriggerWord(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error)

	// NextTriggerClip and NextDefaultClip advance a rotation cursor and
	// return the clip it pointed at. ok is false for an empty sequence.
	NextTriggerClip(ctx context.Context, triggerID int64) (clip SoundClip, ok bool, err error)
	NextDefaultClip(ctx context.Context) (clip SoundClip, ok bool, err error)

	// Clear removes every clip and trigger word and resets settings.
	// Id counters are not reset.
	Clear(ctx context.Context) error

	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
