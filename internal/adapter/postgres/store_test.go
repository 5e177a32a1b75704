package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Evman90/soundboardmaker/internal/adapter/postgres"
	"github.com/Evman90/soundboardmaker/internal/adapter/postgres/testhelper"
	"github.com/Evman90/soundboardmaker/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// newStore returns a store on an emptied database. Tests share the
// database and must not run in parallel.
func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	s := postgres.New(testhelper.SetupTestDB(t))
	require.NoError(t, s.Clear(context.Background()))
	return s
}

func enableDefault(t *testing.T, s *postgres.Store) {
	t.Helper()
	_, err := s.UpdateSettings(context.Background(), domain.SettingsPatch{DefaultResponseEnabled: ptr(true)})
	require.NoError(t, err)
}

func TestStore_CreateSoundClip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := testhelper.SeedClips(t, s, "quiet")[0]
	assert.True(t, first.IsDefault)
	assert.False(t, first.CreatedAt.IsZero())

	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.DefaultResponseSoundClipIDs, "pool grows only while the default response is enabled")

	enableDefault(t, s)
	second := testhelper.SeedClips(t, s, "loud")[0]
	assert.Greater(t, second.ID, first.ID)

	st, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, st.DefaultResponseSoundClipIDs)

	got, err := s.GetSoundClip(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "loud", got.Name)

	_, err = s.GetSoundClip(ctx, second.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_TriggerClaimAndRelease(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	enableDefault(t, s)
	clips := testhelper.SeedClips(t, s, "a", "b", "c")
	a, b, c := clips[0].ID, clips[1].ID, clips[2].ID

	t1, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{Phrase: "one", SoundClipIDs: []int64{a}, Enabled: true})
	require.NoError(t, err)
	t2, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{Phrase: "two", SoundClipIDs: []int64{a, b}, Enabled: false})
	require.NoError(t, err)

	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{c}, st.DefaultResponseSoundClipIDs)

	require.NoError(t, s.DeleteTriggerWord(ctx, t1.ID))
	got, err := s.GetSoundClip(ctx, a)
	require.NoError(t, err)
	assert.False(t, got.IsDefault, "still listed by a disabled trigger word")

	updated, err := s.UpdateTriggerWord(ctx, t2.ID, domain.TriggerWordPatch{SoundClipIDs: []int64{b}, Phrase: ptr("deux")})
	require.NoError(t, err)
	assert.Equal(t, "deux", updated.Phrase)
	assert.Equal(t, []int64{b}, updated.SoundClipIDs)

	got, err = s.GetSoundClip(ctx, a)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)

	st, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{c, a}, st.DefaultResponseSoundClipIDs)

	require.ErrorIs(t, s.DeleteTriggerWord(ctx, t1.ID), domain.ErrNotFound)
	_, err = s.UpdateTriggerWord(ctx, t1.ID, domain.TriggerWordPatch{Enabled: ptr(true)})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteSoundClipCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	enableDefault(t, s)
	clips := testhelper.SeedClips(t, s, "a", "b", "c")
	a, b, c := clips[0].ID, clips[1].ID, clips[2].ID

	solo, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{Phrase: "solo", SoundClipIDs: []int64{a}, Enabled: true})
	require.NoError(t, err)
	pair, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{Phrase: "pair", SoundClipIDs: []int64{a, b}, Enabled: true})
	require.NoError(t, err)

	// Move the pair's cursor to its last slot.
	_, _, err = s.NextTriggerClip(ctx, pair.ID)
	require.NoError(t, err)

	deleted, err := s.DeleteSoundClip(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "a", deleted.Name)

	_, err = s.GetTriggerWord(ctx, solo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trigger word left without clips is deleted")

	got, err := s.GetTriggerWord(ctx, pair.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b}, got.SoundClipIDs)
	assert.Equal(t, 0, got.CurrentIndex)

	_, err = s.DeleteSoundClip(ctx, c)
	require.NoError(t, err)
	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.DefaultResponseSoundClipIDs)
	assert.Equal(t, 0, st.DefaultResponseIndex)

	_, err = s.DeleteSoundClip(ctx, a)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RoundRobin(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	enableDefault(t, s)
	clips := testhelper.SeedClips(t, s, "a", "b", "c", "d")

	trigger, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{
		Phrase: "go", SoundClipIDs: []int64{clips[0].ID, clips[1].ID}, Enabled: true,
	})
	require.NoError(t, err)

	var seq []int64
	for range 3 {
		c, ok, err := s.NextTriggerClip(ctx, trigger.ID)
		require.NoError(t, err)
		require.True(t, ok)
		seq = append(seq, c.ID)
	}
	assert.Equal(t, []int64{clips[0].ID, clips[1].ID, clips[0].ID}, seq)

	seq = nil
	for range 3 {
		c, ok, err := s.NextDefaultClip(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		seq = append(seq, c.ID)
	}
	assert.Equal(t, []int64{clips[2].ID, clips[3].ID, clips[2].ID}, seq)

	_, _, err = s.NextTriggerClip(ctx, trigger.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_NextDefaultClip_EmptyPool(t *testing.T) {
	s := newStore(t)

	_, ok, err := s.NextDefaultClip(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ConcurrentNextTriggerClip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	clips := testhelper.SeedClips(t, s, "a", "b", "c", "d")
	ids := []int64{clips[0].ID, clips[1].ID, clips[2].ID, clips[3].ID}

	trigger, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{Phrase: "race", SoundClipIDs: ids, Enabled: true})
	require.NoError(t, err)

	const rounds = 5
	var (
		mu     sync.Mutex
		counts = map[int64]int{}
		wg     sync.WaitGroup
	)
	for range len(ids) * rounds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, ok, err := s.NextTriggerClip(ctx, trigger.ID)
			if err != nil || !ok {
				t.Errorf("NextTriggerClip: ok=%v err=%v", ok, err)
				return
			}
			mu.Lock()
			counts[c.ID]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, rounds, counts[id], "clip %d", id)
	}
}

func TestStore_UpdateSettingsClampsCursor(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	clips := testhelper.SeedClips(t, s, "a", "b", "c")

	st, err := s.UpdateSettings(ctx, domain.SettingsPatch{
		DefaultResponseSoundClipIDs: []int64{clips[0].ID, clips[1].ID, clips[2].ID},
		DefaultResponseIndex:        ptr(2),
		DefaultResponseDelay:        ptr(500),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, st.DefaultResponseIndex)
	assert.Equal(t, 500, st.DefaultResponseDelay)

	st, err = s.UpdateSettings(ctx, domain.SettingsPatch{DefaultResponseSoundClipIDs: []int64{clips[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, 0, st.DefaultResponseIndex)

	reread, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, reread)
}

func TestStore_RunInTx(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	sentinel := errors.New("abort")

	err := s.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.CreateSoundClip(ctx, domain.NewSoundClip{Name: "doomed", Filename: "d.webm", Format: "audio/webm", URL: "/uploads/d.webm"})
		require.NoError(t, err)
		clips, err := s.ListSoundClips(ctx)
		require.NoError(t, err)
		require.Len(t, clips, 1, "visible inside the transaction")
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	clips, err := s.ListSoundClips(ctx)
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestStore_RunInTx_JoinsNestedCalls(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	err := s.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.CreateSoundClip(txCtx, domain.NewSoundClip{Name: "n", Filename: "n.webm", Format: "audio/webm", URL: "/uploads/n.webm"})
		if err != nil {
			return err
		}
		_, err = s.CreateTriggerWord(txCtx, domain.NewTriggerWord{Phrase: "n", SoundClipIDs: []int64{c.ID}, Enabled: true})
		return err
	})
	require.NoError(t, err)

	triggers, err := s.ListTriggerWords(ctx)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
}

func TestStore_ClearKeepsIDCounters(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	enableDefault(t, s)

	before := testhelper.SeedClips(t, s, "a")[0]
	_, err := s.CreateTriggerWord(ctx, domain.NewTriggerWord{Phrase: "x", SoundClipIDs: []int64{before.ID}, Enabled: true})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	clips, err := s.ListSoundClips(ctx)
	require.NoError(t, err)
	assert.Empty(t, clips)
	triggers, err := s.ListTriggerWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, triggers)
	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), st)

	after := testhelper.SeedClips(t, s, "b")[0]
	assert.Greater(t, after.ID, before.ID)
}

func TestStore_Ping(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
