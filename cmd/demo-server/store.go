package main

import (
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"keepsake/internal/api"
)

// store keeps every capsule, gift and song in memory.
type store struct {
	mu       sync.Mutex
	webBase  string
	capsules map[string]api.CapsuleRequest
	gifts    map[string]api.GiftRequest
	jars     []api.Jar
	music    []api.Music
	nextID   int64
	pick     func(n int) int
}

func newStore(webBase string) *store {
	s := &store{
		webBase:  strings.TrimRight(webBase, "/"),
		capsules: map[string]api.CapsuleRequest{},
		gifts:    map[string]api.GiftRequest{},
		jars: []api.Jar{
			{Name: "happy", Emoji: "😊", Color: "#FFD93D", Description: "Songs that lift you up"},
			{Name: "sad", Emoji: "😢", Color: "#6C9BCF", Description: "For a good cry"},
			{Name: "calm", Emoji: "🌙", Color: "#A084DC", Description: "Slow evenings"},
			{Name: "energetic", Emoji: "⚡", Color: "#FF6B6B", Description: "Turn it up"},
			{Name: "romantic", Emoji: "💕", Color: "#FF8FB1", Description: "Date night"},
		},
		pick: rand.IntN,
	}
	seed := []api.MusicRequest{
		{JarType: "happy", SongName: "Never Gonna Give You Up", ArtistName: "Rick Astley", YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{JarType: "energetic", SongName: "Gangnam Style", ArtistName: "PSY", YouTubeURL: "https://youtu.be/9bZkp7q19f0"},
		{JarType: "calm", SongName: "Clair de Lune", ArtistName: "Claude Debussy", YouTubeURL: "https://www.youtube.com/embed/CvFH_6DNRCY"},
	}
	for _, m := range seed {
		s.addMusic(m)
	}
	return s
}

func (s *store) addCapsule(req api.CapsuleRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.capsules[id] = req
	return id
}

// addGift stores the gift and returns its view link.
func (s *store) addGift(req api.GiftRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.gifts[id] = req
	return s.webBase + "/view-gift.html?id=" + url.QueryEscape(id)
}

func (s *store) listJars() []api.Jar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Jar(nil), s.jars...)
}

func (s *store) hasJar(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jars {
		if j.Name == name {
			return true
		}
	}
	return false
}

func (s *store) addMusic(req api.MusicRequest) api.Music {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := api.Music{
		ID:         s.nextID,
		JarType:    strings.TrimSpace(req.JarType),
		SongName:   strings.TrimSpace(req.SongName),
		ArtistName: strings.TrimSpace(req.ArtistName),
		YouTubeURL: strings.TrimSpace(req.YouTubeURL),
	}
	s.music = append(s.music, m)
	return m
}

// random picks a song from jar, or from every jar when jar is empty.
func (s *store) random(jar string) (api.Music, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []api.Music
	for _, m := range s.music {
		if jar == "" || m.JarType == jar {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return api.Music{}, false
	}
	return candidates[s.pick(len(candidates))], true
}

func (s *store) play(id int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.music {
		if s.music[i].ID == id {
			s.music[i].PlayCount++
			return s.music[i].PlayCount, true
		}
	}
	return 0, false
}
