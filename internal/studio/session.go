package studio

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tahcohcat/vocalize/internal/script"
	"github.com/tahcohcat/vocalize/internal/voices"
)

const (
	MinSpeed = 0.5
	MaxSpeed = 2.0

	// MaxTextLength bounds the input text, in runes.
	MaxTextLength = 2000
)

// Settings is the session state exposed to the API.
type Settings struct {
	Voice string  `json:"voice"`
	Mode  string  `json:"mode"`
	Speed float64 `json:"speed"`
}

// Session holds one browser session's studio state: voice/mode/speed plus the
// script-mode speaker roster. State lives in memory only.
type Session struct {
	ID string

	mu            sync.Mutex
	voice         string
	scriptMode    bool
	speed         float64
	roster        []script.Speaker
	nextSpeakerID int

	genMu      sync.Mutex  // serializes generations within the session
	previewing atomic.Bool // at most one preview in flight
}

func newSession(id string) *Session {
	return &Session{
		ID:    id,
		voice: voices.Default,
		speed: 1.0,
		roster: []script.Speaker{
			{ID: "1", Name: "Narrator", Voice: "Enceladus"},
			{ID: "2", Name: "Alice", Voice: "Aoede"},
		},
		nextSpeakerID: 3,
	}
}

// Mode snapshots the session into its tagged generation mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scriptMode {
		return ScriptMode{Roster: s.copyRoster(), DefaultVoice: s.voice}
	}
	return SimpleMode{Voice: s.voice}
}

func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := "simple"
	if s.scriptMode {
		mode = "script"
	}
	return Settings{Voice: s.voice, Mode: mode, Speed: s.speed}
}

func (s *Session) SetVoice(voice string) error {
	if !voices.IsValid(voice) {
		return &ValidationError{Message: fmt.Sprintf("unknown voice %q", voice)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voice = voice
	return nil
}

func (s *Session) SetMode(mode string) error {
	switch mode {
	case "simple", "script":
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown mode %q", mode)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scriptMode = mode == "script"
	return nil
}

// SetSpeed applies a playback speed multiplier. Out-of-range values are
// clamped into [MinSpeed, MaxSpeed]; the applied value is returned. The UI
// slider already constrains input, so clamping keeps programmatic callers
// safe without a new error path.
func (s *Session) SetSpeed(speed float64) float64 {
	if speed < MinSpeed {
		speed = MinSpeed
	} else if speed > MaxSpeed {
		speed = MaxSpeed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = speed
	return speed
}

func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Roster returns a copy of the speaker roster in configuration order.
func (s *Session) Roster() []script.Speaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRoster()
}

func (s *Session) copyRoster() []script.Speaker {
	out := make([]script.Speaker, len(s.roster))
	copy(out, s.roster)
	return out
}

// AddSpeaker appends a new speaker with the next sequential id. Ids are never
// reused within a session.
func (s *Session) AddSpeaker() script.Speaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextSpeakerID)
	s.nextSpeakerID++

	speaker := script.Speaker{ID: id, Name: "Speaker " + id, Voice: "Puck"}
	s.roster = append(s.roster, speaker)
	return speaker
}

// UpdateSpeaker renames or re-voices an existing speaker.
func (s *Session) UpdateSpeaker(id, name, voice string) (script.Speaker, error) {
	if voice != "" && !voices.IsValid(voice) {
		return script.Speaker{}, &ValidationError{Message: fmt.Sprintf("unknown voice %q", voice)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.roster {
		if s.roster[i].ID != id {
			continue
		}
		if name != "" {
			s.roster[i].Name = name
		}
		if voice != "" {
			s.roster[i].Voice = voice
		}
		return s.roster[i], nil
	}
	return script.Speaker{}, ErrSpeakerNotFound
}

// RemoveSpeaker deletes a speaker; removing the last one is rejected.
func (s *Session) RemoveSpeaker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.roster) <= 1 {
		return ErrLastSpeaker
	}

	for i := range s.roster {
		if s.roster[i].ID == id {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			return nil
		}
	}
	return ErrSpeakerNotFound
}
