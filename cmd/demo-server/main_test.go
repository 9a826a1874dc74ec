package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsake/internal/api"
	"keepsake/internal/httpclient"
)

// The demo server must speak the same protocol as the real API client.
func newDemoClient(t *testing.T) (*api.Client, *store) {
	t.Helper()
	s := newStore("http://web.local/")
	s.pick = func(n int) int { return 0 }
	srv := httptest.NewServer(createHandler(s))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, httpclient.New(5*time.Second)), s
}

func TestCapsules(t *testing.T) {
	c, s := newDemoClient(t)

	resp, err := c.CreateCapsule(t.Context(), api.CapsuleRequest{
		CreatorEmail: "ada@example.com",
		Title:        "t",
		Message:      "m",
		OpenDate:     time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Contains(t, s.capsules, resp.CapsuleID)

	_, err = c.CreateCapsule(t.Context(), api.CapsuleRequest{
		CreatorEmail: "ada@example.com",
		Title:        "t",
		Message:      "m",
		OpenDate:     "2000-01-01T00:00:00Z",
	})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "open_date must be in the future", apiErr.Message)
}

func TestGifts(t *testing.T) {
	c, _ := newDemoClient(t)
	resp, err := c.SendGift(t.Context(), api.GiftRequest{
		SenderName: "Ada", RecipientName: "Grace", RecipientEmail: "g@example.com",
		CardTemplate: "birthday", Message: "hi",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^http://web\.local/view-gift\.html\?id=[0-9a-f-]{36}$`, resp.ViewLink)
}

func TestMusic(t *testing.T) {
	c, s := newDemoClient(t)
	ctx := t.Context()

	jars, err := c.ListJars(ctx)
	require.NoError(t, err)
	assert.Len(t, jars, 5)

	m, err := c.RandomMusic(ctx, "energetic")
	require.NoError(t, err)
	assert.Equal(t, "PSY", m.ArtistName)

	_, err = c.RandomMusic(ctx, "sad")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)

	require.NoError(t, c.IncrementPlayCount(ctx, m.ID))
	count, ok := s.play(m.ID)
	assert.True(t, ok)
	assert.Equal(t, int64(2), count)

	require.NoError(t, c.AddMusic(ctx, api.MusicRequest{JarType: "sad", SongName: "Hurt", ArtistName: "Johnny Cash", YouTubeURL: "8AHCfZTRGiI", AddedBy: "Ada"}))
	m, err = c.RandomMusic(ctx, "sad")
	require.NoError(t, err)
	assert.Equal(t, "Hurt", m.SongName)

	err = c.AddMusic(ctx, api.MusicRequest{JarType: "sad", SongName: "x", ArtistName: "y", YouTubeURL: "https://vimeo.com/1"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	m, err = c.RandomMusicAny(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", m.SongName)
}
