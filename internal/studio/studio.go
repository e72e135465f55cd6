// Package studio orchestrates speech generation: validation, mode dispatch,
// per-utterance synthesis, chunk concatenation, history and playback.
package studio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tahcohcat/vocalize/internal/audio"
	"github.com/tahcohcat/vocalize/internal/history"
	"github.com/tahcohcat/vocalize/internal/logger"
	"github.com/tahcohcat/vocalize/internal/script"
	"github.com/tahcohcat/vocalize/internal/tts"
	"github.com/tahcohcat/vocalize/internal/voices"
)

// ScriptVoiceLabel appears in history entries produced by script mode.
const ScriptVoiceLabel = "Script Studio"

// PlaybackController is the playback surface the orchestrator drives.
// *audio.Player satisfies it.
type PlaybackController interface {
	Play(b64 string, speed float64) error
	Stop()
}

// Notifier receives studio events for the browser (progress, failures).
type Notifier interface {
	Notify(event string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, any) {}

// Studio owns the synthesizer, playback and history, and the registry of
// per-browser sessions.
type Studio struct {
	synth    tts.Synthesizer
	player   PlaybackController
	history  *history.Store
	notifier Notifier
	log      *logger.Log

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(synth tts.Synthesizer, player PlaybackController, store *history.Store, notifier Notifier) *Studio {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Studio{
		synth:    synth,
		player:   player,
		history:  store,
		notifier: notifier,
		log:      logger.New(),
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for id, creating it with defaults on first use.
func (st *Studio) Session(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if sess, ok := st.sessions[id]; ok {
		return sess
	}
	sess := newSession(id)
	st.sessions[id] = sess
	return sess
}

// Generate runs one generation attempt for the session: validate, synthesize
// per the session's mode, record history and start playback. Script mode is
// all-or-nothing; a mid-script failure discards every chunk fetched so far
// and records nothing.
func (st *Studio) Generate(ctx context.Context, sessionID, text string) (*history.Item, error) {
	sess := st.Session(sessionID)

	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Message: "input text is empty"}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, &ValidationError{Message: fmt.Sprintf("input text exceeds %d characters", MaxTextLength)}
	}

	sess.genMu.Lock()
	defer sess.genMu.Unlock()

	st.notifier.Notify("generation.started", map[string]any{"session": sessionID})

	var (
		audioData  string
		voiceLabel string
		err        error
	)
	switch m := sess.Mode().(type) {
	case SimpleMode:
		voiceLabel = m.Voice
		audioData, err = st.synth.GenerateSpeech(ctx, text, m.Voice)
	case ScriptMode:
		voiceLabel = ScriptVoiceLabel
		audioData, err = st.generateScript(ctx, text, m)
	}
	if err != nil {
		st.log.WithError(err).Warn("generation failed")
		st.notifier.Notify("generation.failed", map[string]any{"message": err.Error()})
		return nil, err
	}

	item := &history.Item{
		SessionID: sessionID,
		Text:      truncate(text),
		Voice:     voiceLabel,
		AudioData: audioData,
	}
	if err := st.history.Add(item); err != nil {
		st.notifier.Notify("generation.failed", map[string]any{"message": err.Error()})
		return nil, err
	}

	st.notifier.Notify("generation.done", map[string]any{"historyId": item.ID})

	if err := st.player.Play(audioData, sess.Speed()); err != nil {
		st.log.WithError(err).Warn("playback failed after generation")
		st.notifier.Notify("playback.failed", map[string]any{"message": "Playback error. Try again."})
	}

	return item, nil
}

// generateScript issues one request per speaker turn, awaited strictly in
// order: concatenation depends on chunk order matching utterance order.
func (st *Studio) generateScript(ctx context.Context, text string, m ScriptMode) (string, error) {
	utterances := script.Segment(text, m.Roster, m.DefaultVoice)
	if len(utterances) == 0 {
		return "", &ValidationError{Message: "script contains no speakable lines"}
	}

	chunks := make([]string, 0, len(utterances))
	for i, u := range utterances {
		chunk, err := st.synth.GenerateSpeech(ctx, u.Text, u.Voice)
		if err != nil {
			return "", err
		}
		chunks = append(chunks, chunk)
		st.notifier.Notify("utterance.done", map[string]any{"index": i + 1, "total": len(utterances)})
	}

	return audio.ConcatenateBase64(chunks)
}

// Preview auditions a voice with a fixed template line. A second preview
// while one is in flight is refused with ErrPreviewBusy; previews never block
// generation requests.
func (st *Studio) Preview(ctx context.Context, sessionID, voice string) error {
	sess := st.Session(sessionID)

	if !voices.IsValid(voice) {
		return &ValidationError{Message: fmt.Sprintf("unknown voice %q", voice)}
	}

	if !sess.previewing.CompareAndSwap(false, true) {
		return ErrPreviewBusy
	}
	defer sess.previewing.Store(false)

	st.notifier.Notify("preview.started", map[string]any{"voice": voice})

	audioData, err := st.synth.GenerateSpeech(ctx, tts.PreviewText(voice), voice)
	if err != nil {
		st.log.WithError(err).Warn("preview failed")
		st.notifier.Notify("preview.failed", map[string]any{"voice": voice, "message": err.Error()})
		return err
	}

	st.notifier.Notify("preview.done", map[string]any{"voice": voice})
	return st.player.Play(audioData, sess.Speed())
}

// Replay plays a stored history item at the session's current speed.
func (st *Studio) Replay(sessionID string, itemID int64) error {
	sess := st.Session(sessionID)

	item, err := st.history.Get(sessionID, itemID)
	if err != nil {
		return err
	}
	return st.player.Play(item.AudioData, sess.Speed())
}

// History lists the session's recorded generations, newest first.
func (st *Studio) History(sessionID string) ([]history.Item, error) {
	return st.history.List(sessionID)
}

// StopPlayback halts the current stream, if any.
func (st *Studio) StopPlayback() {
	st.player.Stop()
}

// truncate shortens history text to its first 40 runes plus an ellipsis.
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) > 40 {
		runes = runes[:40]
	}
	return string(runes) + "..."
}
