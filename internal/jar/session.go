// Package jar holds the state of a music jar listening session: which jars
// exist, which one is selected and which song is playing.
package jar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"keepsake/internal/api"
	"keepsake/internal/youtube"
)

// ErrInvalidVideo means a song's stored URL does not point at a YouTube video.
var ErrInvalidVideo = errors.New("invalid YouTube URL, make sure the song links to a YouTube video")

// Remote is the part of the API a session needs.
type Remote interface {
	ListJars(ctx context.Context) ([]api.Jar, error)
	RandomMusic(ctx context.Context, jar string) (*api.Music, error)
	RandomMusicAny(ctx context.Context) (*api.Music, error)
	IncrementPlayCount(ctx context.Context, musicID int64) error
}

// Playback is what a player needs to render a song.
type Playback struct {
	Music    api.Music
	JarLabel string
	VideoID  string
	EmbedURL string
	// Plays counts this play only when the increment reached the server.
	Plays int64
}

// Session tracks the selected jar and the song on screen. Calls are
// serialised so TUI commands can share one session.
type Session struct {
	remote Remote
	logger logrus.FieldLogger

	mu             sync.Mutex
	jars           []api.Jar
	current        string
	currentMusicID int64
}

func NewSession(remote Remote, logger logrus.FieldLogger) *Session {
	return &Session{remote: remote, logger: logger}
}

// Load fetches the jar list.
func (s *Session) Load(ctx context.Context) ([]api.Jar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jars, err := s.remote.ListJars(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jars: %w", err)
	}
	s.jars = jars
	return jars, nil
}

// Select makes jar the current one and plays a random song from it.
func (s *Session) Select(ctx context.Context, jar string) (*Playback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectJar(ctx, jar)
}

func (s *Session) selectJar(ctx context.Context, jar string) (*Playback, error) {
	s.current = jar
	m, err := s.remote.RandomMusic(ctx, jar)
	if err != nil {
		return nil, err
	}
	return s.display(ctx, *m)
}

// Any clears the selection and plays a random song from any jar.
func (s *Session) Any(ctx context.Context) (*Playback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anyJar(ctx)
}

func (s *Session) anyJar(ctx context.Context) (*Playback, error) {
	s.current = ""
	m, err := s.remote.RandomMusicAny(ctx)
	if err != nil {
		return nil, err
	}
	return s.display(ctx, *m)
}

// Another plays a different song from the current jar, or from any jar when none is selected.
func (s *Session) Another(ctx context.Context) (*Playback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != "" {
		return s.selectJar(ctx, s.current)
	}
	return s.anyJar(ctx)
}

// Display turns a song into a Playback and bumps its play count. A song whose
// URL has no video ID yields ErrInvalidVideo and is not counted.
func (s *Session) Display(ctx context.Context, m api.Music) (*Playback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display(ctx, m)
}

func (s *Session) display(ctx context.Context, m api.Music) (*Playback, error) {
	s.currentMusicID = m.ID
	if m.JarType != "" {
		s.current = m.JarType
	}

	id, ok := youtube.ExtractVideoID(m.YouTubeURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVideo, m.YouTubeURL)
	}

	pb := &Playback{
		Music:    m,
		JarLabel: s.jarLabel(m.JarType),
		VideoID:  id,
		EmbedURL: youtube.EmbedURL(id, true),
		Plays:    m.PlayCount,
	}

	if err := s.remote.IncrementPlayCount(ctx, m.ID); err != nil {
		s.logger.WithError(err).WithField("music_id", m.ID).Warn("failed to increment play count")
	} else {
		pb.Plays++
	}

	return pb, nil
}

// JarLabel is "<emoji> <name>" for a known jar, the raw name otherwise.
func (s *Session) JarLabel(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jarLabel(name)
}

func (s *Session) jarLabel(name string) string {
	if name == "" {
		return ""
	}
	for _, j := range s.jars {
		if j.Name == name {
			return j.Label()
		}
	}
	return name
}

func (s *Session) Jars() []api.Jar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.jars)
}

func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) CurrentMusicID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMusicID
}
