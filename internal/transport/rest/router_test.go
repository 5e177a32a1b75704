package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Evman90/soundboardmaker/internal/adapter/blob"
	"github.com/Evman90/soundboardmaker/internal/adapter/memory"
	"github.com/Evman90/soundboardmaker/internal/domain"
	"github.com/Evman90/soundboardmaker/internal/service/archive"
	"github.com/Evman90/soundboardmaker/internal/service/profile"
	"github.com/Evman90/soundboardmaker/internal/service/soundboard"
	"github.com/Evman90/soundboardmaker/internal/transport/middleware"
	"github.com/Evman90/soundboardmaker/internal/transport/rest"
)

type testAPI struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestAPI(t *testing.T, limits rest.Limits) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.New()
	blobs, err := blob.New(t.TempDir())
	require.NoError(t, err)
	arch, err := archive.NewService(logger, t.TempDir(), 1<<20)
	require.NoError(t, err)

	if limits.MaxUploadBytes == 0 {
		limits.MaxUploadBytes = 1 << 20
	}
	if limits.MaxImportBytes == 0 {
		limits.MaxImportBytes = 4 << 20
	}

	profiles := profile.NewService(logger, store, blobs)
	mux := rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(map[string]rest.Pinger{"store": store, "uploads": blobs}, "test"),
		Soundboard: rest.NewSoundboardHandler(soundboard.NewService(logger, store, blobs), logger),
		Profile:    rest.NewProfileHandler(profiles, arch, logger),
		Uploads:    rest.NewUploadsHandler(blobs, logger),
	}, limits)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testAPI{t: t, srv: srv}
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (a *testAPI) do(method, path string, body any, out any) int {
	a.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, r)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testAPI) upload(name, filename string, data []byte) (int, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(a.t, mw.WriteField("name", name))
	require.NoError(a.t, mw.WriteField("duration", "1.5"))
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="audio"; filename="`+filename+`"`)
		h.Set("Content-Type", "audio/mpeg")
		part, err := mw.CreatePart(h)
		require.NoError(a.t, err)
		_, err = part.Write(data)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	resp, err := a.srv.Client().Post(a.srv.URL+"/api/sound-clips", mw.FormDataContentType(), &buf)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode == http.StatusCreated {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func (a *testAPI) uploadID(name, filename string) int64 {
	a.t.Helper()
	status, clip := a.upload(name, filename, []byte("audio:"+name))
	require.Equal(a.t, http.StatusCreated, status)
	return int64(clip["id"].(float64))
}

func TestClips_UploadServeDelete(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})

	status, clip := api.upload("Air Horn", "air horn.mp3", []byte("ID3-bytes"))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Air Horn", clip["name"])
	assert.Equal(t, "audio/mpeg", clip["format"])
	assert.Equal(t, 1.5, clip["duration"])
	assert.Equal(t, true, clip["isDefault"])
	url := clip["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, "-air_horn.mp3"))

	resp, err := api.srv.Client().Get(api.srv.URL + url)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ID3-bytes", string(body))

	var clips []map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sound-clips", nil, &clips))
	require.Len(t, clips, 1)

	id := int64(clip["id"].(float64))
	path := "/api/sound-clips/" + itoa(id)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, nil, nil))

	resp, err = api.srv.Client().Get(api.srv.URL + url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClips_UploadValidation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{MaxUploadBytes: 2048})

	status, _ := api.upload("No audio", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.upload("Huge", "huge.mp3", bytes.Repeat([]byte("x"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/api/sound-clips/abc", nil, nil))
}

func TestTriggers_Lifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})

	a := api.uploadID("A", "a.mp3")
	b := api.uploadID("B", "b.mp3")

	var trigger map[string]any
	status := api.do(http.MethodPost, "/api/trigger-words", map[string]any{
		"phrase": "  hello  ", "soundClipIds": []int64{a, b},
	}, &trigger)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "hello", trigger["phrase"])
	assert.Equal(t, true, trigger["enabled"])
	id := int64(trigger["id"].(float64))

	var clips []map[string]any
	api.do(http.MethodGet, "/api/sound-clips", nil, &clips)
	for _, c := range clips {
		assert.Equal(t, false, c["isDefault"], "clip %v is referenced", c["id"])
	}

	var pb map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/trigger-words/"+itoa(id)+"/next", nil, &pb))
	assert.Equal(t, true, pb["played"])
	assert.Equal(t, "trigger", pb["source"])
	assert.Equal(t, float64(a), pb["clip"].(map[string]any)["id"])

	api.do(http.MethodPost, "/api/trigger-words/"+itoa(id)+"/next", nil, &pb)
	assert.Equal(t, float64(b), pb["clip"].(map[string]any)["id"])

	status = api.do(http.MethodPatch, "/api/trigger-words/"+itoa(id), map[string]any{
		"enabled": false, "soundClipIds": []int64{b},
	}, &trigger)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, trigger["enabled"])
	assert.Equal(t, []any{float64(b)}, trigger["soundClipIds"])

	var triggers []map[string]any
	api.do(http.MethodGet, "/api/trigger-words", nil, &triggers)
	assert.Len(t, triggers, 1)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/trigger-words/"+itoa(id), nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/trigger-words/"+itoa(id), nil, nil))
}

func TestTriggers_Errors(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})
	a := api.uploadID("A", "a.mp3")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown clip", http.MethodPost, "/api/trigger-words", map[string]any{"phrase": "x", "soundClipIds": []int64{999}}, http.StatusBadRequest},
		{"empty phrase", http.MethodPost, "/api/trigger-words", map[string]any{"phrase": " ", "soundClipIds": []int64{a}}, http.StatusBadRequest},
		{"no clips", http.MethodPost, "/api/trigger-words", map[string]any{"phrase": "x", "soundClipIds": []int64{}}, http.StatusBadRequest},
		{"patch missing", http.MethodPatch, "/api/trigger-words/99", map[string]any{"enabled": true}, http.StatusNotFound},
		{"patch empty", http.MethodPatch, "/api/trigger-words/99", map[string]any{}, http.StatusBadRequest},
		{"next missing", http.MethodPost, "/api/trigger-words/99/next", nil, http.StatusNotFound},
		{"bad id", http.MethodPatch, "/api/trigger-words/0", map[string]any{"enabled": true}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.do(tt.method, tt.path, tt.body, nil))
		})
	}
}

func TestSettings_DefaultResponse(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})

	var settings map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/settings", nil, &settings))
	assert.Equal(t, false, settings["defaultResponseEnabled"])
	assert.Equal(t, []any{}, settings["defaultResponseSoundClipIds"])

	status := api.do(http.MethodPatch, "/api/settings", map[string]any{
		"defaultResponseEnabled": true, "defaultResponseDelay": 250,
	}, &settings)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(250), settings["defaultResponseDelay"])

	a := api.uploadID("A", "a.mp3")
	api.do(http.MethodGet, "/api/settings", nil, &settings)
	assert.Equal(t, []any{float64(a)}, settings["defaultResponseSoundClipIds"])

	var pb map[string]any
	api.do(http.MethodPost, "/api/default-response/next", nil, &pb)
	assert.Equal(t, true, pb["played"])
	assert.Equal(t, "default", pb["source"])
	assert.Equal(t, float64(250), pb["delay"])

	api.do(http.MethodPatch, "/api/settings", map[string]any{"defaultResponseEnabled": false}, nil)
	api.do(http.MethodPost, "/api/default-response/next", nil, &pb)
	assert.Equal(t, false, pb["played"], "disabled default response plays nothing")

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPatch, "/api/settings", map[string]any{"defaultResponseDelay": -1}, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPatch, "/api/settings", map[string]any{"defaultResponseSoundClipIds": []int64{42}}, nil))
}

func TestMatch(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})
	api.do(http.MethodPatch, "/api/settings", map[string]any{"defaultResponseEnabled": true}, nil)

	a := api.uploadID("A", "a.mp3")
	b := api.uploadID("B", "b.mp3")
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/trigger-words", map[string]any{
		"phrase": "hello", "soundClipIds": []int64{a},
	}, nil))

	var pb map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/match", map[string]any{"transcript": "Well HELLO there"}, &pb))
	assert.Equal(t, true, pb["played"])
	assert.Equal(t, "trigger", pb["source"])
	assert.Equal(t, float64(a), pb["clip"].(map[string]any)["id"])

	api.do(http.MethodPost, "/api/match", map[string]any{"transcript": "nothing here"}, &pb)
	assert.Equal(t, "default", pb["source"])
	assert.Equal(t, float64(b), pb["clip"].(map[string]any)["id"])

	api.do(http.MethodPatch, "/api/settings", map[string]any{"defaultResponseEnabled": false}, nil)
	api.do(http.MethodPost, "/api/match", map[string]any{"transcript": "nothing here"}, &pb)
	assert.Equal(t, false, pb["played"])

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/match", map[string]any{"transcript": ""}, nil))

	resp, err := api.srv.Client().Post(api.srv.URL+"/api/match", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfile_ExportImport(t *testing.T) {
	t.Parallel()
	src := newTestAPI(t, rest.Limits{})
	a := src.uploadID("Alpha", "alpha.mp3")
	src.uploadID("Beta", "beta.mp3")
	src.do(http.MethodPost, "/api/trigger-words", map[string]any{"phrase": "go", "soundClipIds": []int64{a}}, nil)

	resp, err := src.srv.Client().Get(src.srv.URL + "/api/profile/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	var doc domain.ProfileDocument
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, domain.ProfileVersion, doc.Version)
	require.Len(t, doc.SoundClips, 2)
	assert.NotEmpty(t, doc.SoundClips[0].AudioData)
	require.Len(t, doc.TriggerWords, 1)
	assert.Equal(t, []string{"Alpha"}, doc.TriggerWords[0].SoundClipNames)

	dst := newTestAPI(t, rest.Limits{})
	dst.uploadID("Old", "old.mp3")

	var result map[string]any
	require.Equal(t, http.StatusOK, dst.do(http.MethodPost, "/api/profile/import", doc, &result))
	assert.Equal(t, float64(2), result["clipsImported"])
	assert.Equal(t, float64(1), result["triggersImported"])
	assert.Equal(t, []any{}, result["skippedClips"])

	var clips []map[string]any
	dst.do(http.MethodGet, "/api/sound-clips", nil, &clips)
	require.Len(t, clips, 2)
	assert.Equal(t, "Alpha", clips[0]["name"])

	assert.Equal(t, http.StatusBadRequest, dst.do(http.MethodPost, "/api/profile/import", map[string]any{"version": "9.9"}, nil))
}

func TestServerProfiles(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})
	api.uploadID("Alpha", "alpha.mp3")

	var entry map[string]any
	status := api.do(http.MethodPost, "/api/server-profiles", map[string]any{"name": "Party Mix", "readOnly": true}, &entry)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Party_Mix.json", entry["filename"])
	assert.Equal(t, true, entry["readOnly"])

	var entries []map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/server-profiles", nil, &entries))
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0]["savedAt"])

	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/server-profiles", map[string]any{"name": "Party Mix"}, nil))
	assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, "/api/server-profiles/Party_Mix.json", nil, nil))

	var archived map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/server-profiles/Party%20Mix", nil, &archived))
	assert.Equal(t, true, archived["readOnly"])
	assert.Len(t, archived["soundClips"], 1)

	api.uploadID("Beta", "beta.mp3")
	var result map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/server-profiles/Party%20Mix/load", nil, &result))
	assert.Equal(t, float64(1), result["clipsImported"])

	var clips []map[string]any
	api.do(http.MethodGet, "/api/sound-clips", nil, &clips)
	require.Len(t, clips, 1)
	assert.Equal(t, "Alpha", clips[0]["name"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/server-profiles/missing", nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/server-profiles/missing/load", nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/server-profiles", map[string]any{"name": "  "}, nil))

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/server-profiles", map[string]any{
		"name": "scratch", "profile": map[string]any{"version": "1.0"},
	}, nil))
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/server-profiles/scratch", nil, nil))
}

func TestWriteRateLimit(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rl.Stop)
	api := newTestAPI(t, rest.Limits{WriteLimit: rl.Limit(1)})

	status, _ := api.upload("A", "a.mp3", []byte("a"))
	assert.Equal(t, http.StatusCreated, status)
	status, _ = api.upload("B", "b.mp3", []byte("b"))
	assert.Equal(t, http.StatusTooManyRequests, status)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sound-clips", nil, nil))
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, rest.Limits{})

	for _, path := range []string{"/live", "/ready", "/health"} {
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, nil, nil), path)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
