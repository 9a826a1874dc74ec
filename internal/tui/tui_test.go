package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsake/internal/api"
	"keepsake/internal/forms"
	"keepsake/internal/jar"
	"keepsake/internal/logging"
)

type fakeRemote struct {
	played  []int64
	playErr error
}

func (f *fakeRemote) ListJars(ctx context.Context) ([]api.Jar, error) {
	return []api.Jar{
		{Name: "happy", Emoji: "😊", Color: "#ffcc00", Description: "upbeat"},
		{Name: "calm", Emoji: "🌙", Color: "#223344", Description: "slow"},
	}, nil
}

func (f *fakeRemote) RandomMusic(ctx context.Context, name string) (*api.Music, error) {
	if name == "calm" {
		return nil, &api.APIError{StatusCode: 404, Message: "no music in this jar yet"}
	}
	return &api.Music{ID: 1, JarType: name, PlayCount: 6, SongName: "Sunny", ArtistName: "Boney M", YouTubeURL: "https://youtu.be/dQw4w9WgXcQ"}, nil
}

func (f *fakeRemote) RandomMusicAny(ctx context.Context) (*api.Music, error) {
	return &api.Music{ID: 2, JarType: "calm", SongName: "Night", ArtistName: "Someone", YouTubeURL: "9bZkp7q19f0"}, nil
}

func (f *fakeRemote) IncrementPlayCount(ctx context.Context, id int64) error {
	f.played = append(f.played, id)
	return f.playErr
}

type fakeAdder struct {
	got []api.MusicRequest
	err error
}

func (f *fakeAdder) AddMusic(ctx context.Context, req api.MusicRequest) error {
	f.got = append(f.got, req)
	return f.err
}

func newTestRoot(t *testing.T) (rootPage, *fakeRemote, *fakeAdder, *string) {
	t.Helper()
	remote := &fakeRemote{}
	adder := &fakeAdder{}
	var copied string
	copier := func(s string) error { copied = s; return nil }
	root := newRootPage(t.Context(), jar.NewSession(remote, logging.Discard()), adder, copier)
	return root, remote, adder, &copied
}

// step feeds msg to the model and then drains the resulting command chain.
func step(t *testing.T, m rootPage, msg tea.Msg) rootPage {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		next, cmd := m.Update(msg)
		m = next.(rootPage)
		if cmd == nil {
			return m
		}
		msg = cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return m
		}
		if _, batch := msg.(tea.BatchMsg); batch {
			return m
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m rootPage, s string) rootPage {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(rootPage)
	}
	return m
}

func loaded(t *testing.T) (rootPage, *fakeRemote, *fakeAdder, *string) {
	t.Helper()
	m, remote, adder, copied := newTestRoot(t)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = step(t, m, m.Init()())
	require.Len(t, m.jarsPage.items, 2)
	return m, remote, adder, copied
}

func TestPlayJarFromTable(t *testing.T) {
	m, remote, _, _ := loaded(t)

	m = step(t, m, key("j"))
	assert.Equal(t, 1, m.jarsPage.cursor)
	m = step(t, m, key("k"))
	assert.Equal(t, 0, m.jarsPage.cursor)

	m = step(t, m, key(" "))
	assert.Equal(t, playerView, m.viewMode)
	require.NotNil(t, m.playerPage.playback)
	assert.Equal(t, "dQw4w9WgXcQ", m.playerPage.playback.VideoID)
	assert.Equal(t, "😊 happy", m.playerPage.playback.JarLabel)
	assert.Equal(t, []int64{1}, remote.played)
	assert.Contains(t, m.View(), "Sunny")
	assert.Contains(t, m.View(), "Plays: 7")

	m = step(t, m, key("esc"))
	assert.Equal(t, jarsView, m.viewMode)
}

func TestEmptyJarShowsError(t *testing.T) {
	m, _, _, _ := loaded(t)
	m = step(t, m, key("j"))
	m = step(t, m, key("enter"))

	assert.Equal(t, jarsView, m.viewMode)
	var apiErr *api.APIError
	require.True(t, errors.As(m.jarsPage.err, &apiErr))
	assert.Contains(t, m.View(), "no music in this jar yet")
}

func TestRandomThenAnother(t *testing.T) {
	m, remote, _, _ := loaded(t)

	m = step(t, m, key("r"))
	require.Equal(t, playerView, m.viewMode)
	assert.Equal(t, "9bZkp7q19f0", m.playerPage.playback.VideoID)
	assert.Equal(t, "🌙 calm", m.playerPage.playback.JarLabel)

	// the random song came from calm, which is now empty
	m = step(t, m, key("n"))
	assert.Equal(t, playerView, m.viewMode)
	assert.Error(t, m.playerPage.err)
	assert.Equal(t, []int64{2}, remote.played)
}

func TestCopyLink(t *testing.T) {
	m, _, _, copied := loaded(t)
	m = step(t, m, key(" "))
	m = step(t, m, key("c"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", *copied)
	assert.Contains(t, m.playerPage.status, "Copied")
}

func TestAddSong(t *testing.T) {
	m, _, adder, _ := loaded(t)

	m = step(t, m, key("a"))
	require.Equal(t, addView, m.viewMode)
	assert.Equal(t, "happy", m.addPage.inputs[fieldJar].Value())
	assert.Equal(t, fieldSong, m.addPage.focus)

	m = typeText(t, m, "Sunny")
	m = step(t, m, key("tab"))
	m = typeText(t, m, "Boney M")
	m = step(t, m, key("tab"))
	m = typeText(t, m, "https://vimeo.com/1")

	m = step(t, m, key("enter"))
	assert.ErrorIs(t, m.addPage.err, forms.ErrInvalidYouTubeReference)
	assert.Empty(t, adder.got)

	for range len("https://vimeo.com/1") {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		m = next.(rootPage)
	}
	m = typeText(t, m, "https://youtu.be/dQw4w9WgXcQ")
	m = step(t, m, key("enter"))

	require.Len(t, adder.got, 1)
	assert.Equal(t, api.MusicRequest{
		JarType:    "happy",
		SongName:   "Sunny",
		ArtistName: "Boney M",
		YouTubeURL: "https://youtu.be/dQw4w9WgXcQ",
		AddedBy:    forms.DefaultAddedBy,
	}, adder.got[0])
	assert.Equal(t, jarsView, m.viewMode)
	assert.Contains(t, m.jarsPage.status, "😊 happy")
}

func TestAddSongFailureStaysOnForm(t *testing.T) {
	m, _, adder, _ := loaded(t)
	adder.err = &api.APIError{StatusCode: 500, Message: "could not add the song"}

	m = step(t, m, key("a"))
	m = typeText(t, m, "s")
	m = step(t, m, key("tab"))
	m = typeText(t, m, "a")
	m = step(t, m, key("tab"))
	m = typeText(t, m, "dQw4w9WgXcQ")
	m = step(t, m, key("enter"))

	assert.Equal(t, addView, m.viewMode)
	assert.EqualError(t, m.addPage.err, "could not add the song (HTTP 500)")
}

func TestFailedPlayCountNotShown(t *testing.T) {
	m, remote, _, _ := loaded(t)
	remote.playErr = errors.New("connection refused")

	m = step(t, m, key(" "))
	require.Equal(t, playerView, m.viewMode)
	assert.Contains(t, m.View(), "Plays: 6")
}

func TestCtrlCQuitsFromEveryPage(t *testing.T) {
	ctrlC := tea.KeyMsg{Type: tea.KeyCtrlC}
	m, _, _, _ := loaded(t)

	_, cmd := m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = step(t, m, key(" "))
	require.Equal(t, playerView, m.viewMode)
	_, cmd = m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = step(t, m, key("a"))
	require.Equal(t, addView, m.viewMode)
	next, cmd := m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, addView, next.(rootPage).viewMode)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab...", truncateString("abcdefgh", 5))
	assert.Equal(t, "😊 h", truncateString("😊 h", 3))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
}
