package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsake/internal/api"
	"keepsake/internal/links"
	"keepsake/internal/logging"
)

type fakeRemote struct {
	played []int64
}

func (f *fakeRemote) ListJars(ctx context.Context) ([]api.Jar, error) {
	return []api.Jar{{Name: "happy", Emoji: "😊", Color: "#ffcc00"}}, nil
}

func (f *fakeRemote) RandomMusic(ctx context.Context, jar string) (*api.Music, error) {
	if jar != "happy" {
		return nil, &api.APIError{StatusCode: 404, Message: "no music in this jar yet"}
	}
	return &api.Music{ID: 5, JarType: "happy", SongName: "Sunny", ArtistName: "Boney M", YouTubeURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"}, nil
}

func (f *fakeRemote) RandomMusicAny(ctx context.Context) (*api.Music, error) {
	return &api.Music{ID: 6, SongName: "Broken", YouTubeURL: "https://example.com/song.mp3"}, nil
}

func (f *fakeRemote) IncrementPlayCount(ctx context.Context, id int64) error {
	f.played = append(f.played, id)
	return nil
}

func newTestTools(t *testing.T, dbPath string) (*Tools, *fakeRemote) {
	t.Helper()
	remote := &fakeRemote{}
	return NewTools(remote, dbPath, logging.Discard()), remote
}

func ptr[T any](v T) *T { return &v }

func TestNewServerRegistersTools(t *testing.T) {
	tools, _ := newTestTools(t, "")
	assert.NotNil(t, NewServer(tools))
}

func TestExtractVideoID(t *testing.T) {
	tools, _ := newTestTools(t, "")
	tests := []struct {
		name   string
		ref    any
		wantID string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1", "dQw4w9WgXcQ"},
		{"short link", "youtu.be/9bZkp7q19f0", "9bZkp7q19f0"},
		{"number", 42.0, ""},
		{"null", nil, ""},
		{"object", map[string]any{"url": "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := tools.handleExtractVideoID(t.Context(), nil, ExtractVideoIDParams{Reference: tt.ref})
			require.NoError(t, err)
			m := out.(map[string]any)
			if tt.wantID == "" {
				assert.Equal(t, false, m["ok"])
				return
			}
			assert.Equal(t, true, m["ok"])
			assert.Equal(t, tt.wantID, m["video_id"])
			assert.Equal(t, "https://www.youtube.com/embed/"+tt.wantID, m["embed_url"])
		})
	}
}

func TestListJars(t *testing.T) {
	tools, _ := newTestTools(t, "")
	_, out, err := tools.handleListJars(t.Context(), nil, ListJarsParams{})
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, 1, m["count"])
}

func TestRandomMusic(t *testing.T) {
	tools, remote := newTestTools(t, "")

	_, out, err := tools.handleRandomMusic(t.Context(), nil, RandomMusicParams{Jar: ptr(" happy ")})
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, true, m["ok"])
	assert.Equal(t, "dQw4w9WgXcQ", m["video_id"])
	assert.Equal(t, "😊 happy", m["jar_label"])
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", m["embed_url"])
	assert.Equal(t, []int64{5}, remote.played)

	_, out, err = tools.handleRandomMusic(t.Context(), nil, RandomMusicParams{Jar: ptr("calm")})
	require.NoError(t, err)
	m = out.(map[string]any)
	assert.Equal(t, false, m["ok"])
	assert.Equal(t, "no music in this jar yet", m["message"])
	assert.Equal(t, 404, m["status"])

	// song with a non-YouTube link is reported, not counted
	_, out, err = tools.handleRandomMusic(t.Context(), nil, RandomMusicParams{})
	require.NoError(t, err)
	m = out.(map[string]any)
	assert.Equal(t, false, m["ok"])
	assert.Contains(t, m["message"], "invalid YouTube URL")
	assert.Equal(t, []int64{5}, remote.played)
}

func TestRecentLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keepsake.db")
	tools, _ := newTestTools(t, path)

	_, out, err := tools.handleRecentLinks(t.Context(), nil, RecentLinksParams{})
	require.NoError(t, err)
	assert.Equal(t, false, out.(map[string]any)["ok"])

	db, err := links.Open(path)
	require.NoError(t, err)
	require.NoError(t, links.InitSchema(db))
	_, err = links.Save(t.Context(), db, links.KindCapsule, "c1", "http://web/view-capsule.html?id=c1")
	require.NoError(t, err)
	_, err = links.Save(t.Context(), db, links.KindGift, "g1", "http://web/view-gift.html?id=g1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, out, err = tools.handleRecentLinks(t.Context(), nil, RecentLinksParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.(map[string]any)["count"])

	_, out, err = tools.handleRecentLinks(t.Context(), nil, RecentLinksParams{Kind: ptr("GIFT"), Limit: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 1, out.(map[string]any)["count"])

	_, out, err = tools.handleRecentLinks(t.Context(), nil, RecentLinksParams{Kind: ptr("letters")})
	require.NoError(t, err)
	res := out.(map[string]any)
	assert.Equal(t, false, res["ok"])
	assert.Contains(t, res["message"], `unknown link kind "letters"`)
	assert.NotContains(t, res, "links")
}
