package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"keepsake/internal/api"
	"keepsake/internal/youtube"
)

// createHandler routes the keepsake API endpoints
func createHandler(s *store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/capsules", s.handleCreateCapsule)
	mux.HandleFunc("POST /api/gifts", s.handleSendGift)
	mux.HandleFunc("GET /api/music/jars", s.handleListJars)
	mux.HandleFunc("GET /api/music/random", s.handleRandomAny)
	mux.HandleFunc("GET /api/music/random/{jar}", s.handleRandomInJar)
	mux.HandleFunc("PUT /api/music/{id}/play", s.handlePlay)
	mux.HandleFunc("POST /api/music", s.handleAddMusic)
	return mux
}

func (s *store) handleCreateCapsule(w http.ResponseWriter, r *http.Request) {
	var req api.CapsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if blank(req.CreatorEmail, req.Title, req.Message, req.OpenDate) {
		writeError(w, http.StatusBadRequest, "creator_email, title, message and open_date are required")
		return
	}
	openDate, err := time.Parse(time.RFC3339, req.OpenDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "open_date must be an RFC3339 timestamp")
		return
	}
	if !openDate.After(time.Now()) {
		writeError(w, http.StatusBadRequest, "open_date must be in the future")
		return
	}

	id := s.addCapsule(req)
	writeJSON(w, http.StatusCreated, api.CapsuleResponse{CapsuleID: id})
}

func (s *store) handleSendGift(w http.ResponseWriter, r *http.Request) {
	var req api.GiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if blank(req.SenderName, req.RecipientName, req.RecipientEmail, req.CardTemplate, req.Message) {
		writeError(w, http.StatusBadRequest, "all gift fields are required")
		return
	}

	writeJSON(w, http.StatusCreated, api.GiftResponse{ViewLink: s.addGift(req)})
}

func (s *store) handleListJars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listJars())
}

func (s *store) handleRandomAny(w http.ResponseWriter, r *http.Request) {
	m, ok := s.random("")
	if !ok {
		writeError(w, http.StatusNotFound, "no music yet")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *store) handleRandomInJar(w http.ResponseWriter, r *http.Request) {
	m, ok := s.random(r.PathValue("jar"))
	if !ok {
		writeError(w, http.StatusNotFound, "no music in this jar yet")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *store) handlePlay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid music id")
		return
	}
	count, ok := s.play(id)
	if !ok {
		writeError(w, http.StatusNotFound, "music not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "play_count": count})
}

func (s *store) handleAddMusic(w http.ResponseWriter, r *http.Request) {
	var req api.MusicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if blank(req.JarType, req.SongName, req.ArtistName) {
		writeError(w, http.StatusBadRequest, "jar_type, song_name and artist_name are required")
		return
	}
	if !youtube.IsValidReference(req.YouTubeURL) {
		writeError(w, http.StatusBadRequest, "youtube_url is not a YouTube link")
		return
	}
	if !s.hasJar(req.JarType) {
		writeError(w, http.StatusBadRequest, "unknown jar")
		return
	}

	writeJSON(w, http.StatusCreated, s.addMusic(req))
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
