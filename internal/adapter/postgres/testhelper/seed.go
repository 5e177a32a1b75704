package testhelper

import (
	"context"
	"fmt"
	"testing"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// SeedClips creates one clip per name and returns them in order.
func SeedClips(t *testing.T, store domain.SoundboardStore, names ...string) []domain.SoundClip {
	t.Helper()

	clips := make([]domain.SoundClip, 0, len(names))
	for i, name := range names {
		filename := fmt.Sprintf("%d-%s.webm", i, domain.SafeFilename(name))
		c, err := store.CreateSoundClip(context.Background(), domain.NewSoundClip{
			Name:     name,
			Filename: filename,
			Format:   "audio/webm",
			Duration: 1,
			Size:     int64(len(name)),
			URL:      domain.ClipURL(filename),
		})
		if err != nil {
			t.Fatalf("testhelper: seed clip %q: %v", name, err)
		}
		clips = append(clips, c)
	}
	return clips
}
