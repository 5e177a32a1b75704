package soundboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// Match sources.
const (
	SourceTrigger = "trigger"
	SourceDefault = "default"
)

// Playback is a clip chosen for playing.
type Playback struct {
	Clip domain.SoundClip
	// Source is SourceTrigger or SourceDefault.
	Source string
	// TriggerID is set when Source is SourceTrigger.
	TriggerID int64
	// DelayMs is how long the client waits before playing a default
	// response.
	DelayMs int
}

// PlayTrigger returns the trigger word's next clip and advances its
// rotation. ok is false if the rotation is empty.
func (s *Service) PlayTrigger(ctx context.Context, triggerID int64) (Playback, bool, error) {
	clip, ok, err := s.store.NextTriggerClip(ctx, triggerID)
	if err != nil {
		return Playback{}, false, fmt.Errorf("next trigger clip: %w", err)
	}
	if !ok {
		return Playback{}, false, nil
	}
	return Playback{Clip: clip, Source: SourceTrigger, TriggerID: triggerID}, true, nil
}

// PlayDefault returns the next default-response clip. While the default
// response is disabled nothing is selected and the rotation keeps its
// position.
func (s *Service) PlayDefault(ctx context.Context) (Playback, bool, error) {
	var (
		pb Playback
		ok bool
	)
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		pb, ok, err = s.nextDefault(txCtx)
		return err
	})
	if err != nil {
		return Playback{}, false, err
	}
	return pb, ok, nil
}

func (s *Service) nextDefault(ctx context.Context) (Playback, bool, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return Playback{}, false, fmt.Errorf("get settings: %w", err)
	}
	if !settings.DefaultResponseEnabled {
		return Playback{}, false, nil
	}
	clip, ok, err := s.store.NextDefaultClip(ctx)
	if err != nil {
		return Playback{}, false, fmt.Errorf("next default clip: %w", err)
	}
	if !ok {
		return Playback{}, false, nil
	}
	return Playback{Clip: clip, Source: SourceDefault, DelayMs: settings.DefaultResponseDelay}, true, nil
}

// Match picks the response to a speech transcript: the next clip of the
// first enabled trigger word (lowest id) whose phrase occurs in the
// transcript, else the next default-response clip. ok is false when
// nothing should play.
func (s *Service) Match(ctx context.Context, transcript string) (Playback, bool, error) {
	if strings.TrimSpace(transcript) == "" {
		return Playback{}, false, domain.NewValidationError("transcript", "required")
	}

	var (
		pb Playback
		ok bool
	)
	err := s.store.RunInTx(ctx, func(txCtx context.Context) error {
		triggers, err := s.store.ListTriggerWords(txCtx)
		if err != nil {
			return fmt.Errorf("list trigger words: %w", err)
		}
		lower := strings.ToLower(transcript)
		for _, t := range triggers {
			if !t.Enabled || !matches(t, transcript, lower) {
				continue
			}
			clip, found, err := s.store.NextTriggerClip(txCtx, t.ID)
			if err != nil {
				return fmt.Errorf("next trigger clip: %w", err)
			}
			if !found {
				continue
			}
			pb, ok = Playback{Clip: clip, Source: SourceTrigger, TriggerID: t.ID}, true
			return nil
		}
		pb, ok, err = s.nextDefault(txCtx)
		return err
	})
	if err != nil {
		return Playback{}, false, err
	}

	if ok {
		s.log.DebugContext(ctx, "transcript matched",
			slog.String("source", pb.Source),
			slog.Int64("clip_id", pb.Clip.ID),
		)
	}
	return pb, ok, nil
}

func matches(t domain.TriggerWord, transcript, lowerTranscript string) bool {
	if t.CaseSensitive {
		return strings.Contains(transcript, t.Phrase)
	}
	return strings.Contains(lowerTranscript, strings.ToLower(t.Phrase))
}
