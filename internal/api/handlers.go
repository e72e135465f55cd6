package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/tahcohcat/vocalize/internal/history"
	"github.com/tahcohcat/vocalize/internal/logger"
	"github.com/tahcohcat/vocalize/internal/studio"
	"github.com/tahcohcat/vocalize/internal/tts"
	"github.com/tahcohcat/vocalize/internal/voices"
)

const sessionCookie = "vocalize-session"

type StudioHandler struct {
	studio *studio.Studio
	store  *sessions.CookieStore
	log    *logger.Log
}

func NewStudioHandler(st *studio.Studio, store *sessions.CookieStore) *StudioHandler {
	return &StudioHandler{
		studio: st,
		store:  store,
		log:    logger.New(),
	}
}

// sessionID returns the caller's studio session id, minting one on first
// visit and persisting it in the cookie.
func (sh *StudioHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	session, _ := sh.store.Get(r, sessionCookie)
	if id, ok := session.Values["id"].(string); ok && id != "" {
		return id
	}
	id := generateSessionID()
	session.Values["id"] = id
	if err := session.Save(r, w); err != nil {
		sh.log.WithError(err).Warn("failed to save session cookie")
	}
	return id
}

// Simple session ID generator (use UUID in production)
func generateSessionID() string {
	return fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), rand.Intn(1000))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var verr *studio.ValidationError
	var serr *tts.SynthesisError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Message, http.StatusBadRequest)
	case errors.Is(err, studio.ErrPreviewBusy):
		http.Error(w, "A preview is already playing", http.StatusConflict)
	case errors.Is(err, studio.ErrLastSpeaker):
		http.Error(w, "At least one speaker is required", http.StatusBadRequest)
	case errors.Is(err, studio.ErrSpeakerNotFound):
		http.Error(w, "Speaker not found", http.StatusNotFound)
	case errors.Is(err, history.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &serr):
		http.Error(w, "Speech synthesis failed: "+serr.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GET /api/v1/voices - List the voice catalog
func (sh *StudioHandler) ListVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"voices": voices.Catalog(),
	})
}

// GET /api/v1/session - Current session settings, roster and history
func (sh *StudioHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := sh.sessionID(w, r)
	sess := sh.studio.Session(id)

	items, err := sh.studio.History(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"settings": sess.Settings(),
		"speakers": sess.Roster(),
		"history":  items,
	})
}

// PUT /api/v1/session/settings - Update voice, mode or playback speed
func (sh *StudioHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	sess := sh.studio.Session(sh.sessionID(w, r))

	var req struct {
		Voice *string  `json:"voice"`
		Mode  *string  `json:"mode"`
		Speed *float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Voice != nil {
		if err := sess.SetVoice(*req.Voice); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Mode != nil {
		if err := sess.SetMode(*req.Mode); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Speed != nil {
		sess.SetSpeed(*req.Speed)
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": sess.Settings()})
}

// POST /api/v1/session/speakers - Add a speaker to the script roster
func (sh *StudioHandler) AddSpeaker(w http.ResponseWriter, r *http.Request) {
	sess := sh.studio.Session(sh.sessionID(w, r))

	speaker := sess.AddSpeaker()
	writeJSON(w, http.StatusCreated, speaker)
}

// PUT /api/v1/session/speakers/{id} - Rename a speaker or change its voice
func (sh *StudioHandler) UpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	sess := sh.studio.Session(sh.sessionID(w, r))
	id := mux.Vars(r)["id"]

	var req struct {
		Name  string `json:"name"`
		Voice string `json:"voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	speaker, err := sess.UpdateSpeaker(id, req.Name, req.Voice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, speaker)
}

// DELETE /api/v1/session/speakers/{id} - Remove a speaker from the roster
func (sh *StudioHandler) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	sess := sh.studio.Session(sh.sessionID(w, r))
	id := mux.Vars(r)["id"]

	if err := sess.RemoveSpeaker(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"speakers": sess.Roster()})
}

// POST /api/v1/speech/generate - Synthesize the submitted text and play it
func (sh *StudioHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := sh.sessionID(w, r)

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := sh.studio.Generate(r.Context(), id, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// POST /api/v1/speech/preview - Audition a voice with a short sample line
func (sh *StudioHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id := sh.sessionID(w, r)

	var req struct {
		Voice string `json:"voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := sh.studio.Preview(r.Context(), id, req.Voice); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"voice": req.Voice})
}

// POST /api/v1/speech/replay - Replay a history item at the current speed
func (sh *StudioHandler) Replay(w http.ResponseWriter, r *http.Request) {
	id := sh.sessionID(w, r)

	var req struct {
		HistoryID int64 `json:"historyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := sh.studio.Replay(id, req.HistoryID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"historyId": req.HistoryID})
}

// POST /api/v1/playback/stop - Stop the current playback stream
func (sh *StudioHandler) StopPlayback(w http.ResponseWriter, r *http.Request) {
	sh.studio.StopPlayback()
	writeJSON(w, http.StatusOK, map[string]any{"stopped": true})
}

func RegisterRoutes(r *mux.Router, st *studio.Studio, store *sessions.CookieStore) *StudioHandler {
	sh := NewStudioHandler(st, store)

	r.HandleFunc("/voices", sh.ListVoices).Methods("GET")
	r.HandleFunc("/session", sh.GetSession).Methods("GET")
	r.HandleFunc("/session/settings", sh.UpdateSettings).Methods("PUT")
	r.HandleFunc("/session/speakers", sh.AddSpeaker).Methods("POST")
	r.HandleFunc("/session/speakers/{id}", sh.UpdateSpeaker).Methods("PUT")
	r.HandleFunc("/session/speakers/{id}", sh.RemoveSpeaker).Methods("DELETE")
	r.HandleFunc("/speech/generate", sh.Generate).Methods("POST")
	r.HandleFunc("/speech/preview", sh.Preview).Methods("POST")
	r.HandleFunc("/speech/replay", sh.Replay).Methods("POST")
	r.HandleFunc("/playback/stop", sh.StopPlayback).Methods("POST")

	return sh
}
