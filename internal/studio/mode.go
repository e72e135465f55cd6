package studio

import "github.com/tahcohcat/vocalize/internal/script"

// Mode is the generation mode as a tagged variant. A simple generation only
// carries a voice; a script generation only carries a roster plus the voice
// used for unmatched lines. Keeping them as distinct types means no code ever
// has to ask which fields of a flat settings record are meaningful right now.
type Mode interface {
	isMode()
}

// SimpleMode synthesizes the whole input with one voice.
type SimpleMode struct {
	Voice string
}

func (SimpleMode) isMode() {}

// ScriptMode segments the input into per-speaker utterances.
type ScriptMode struct {
	Roster       []script.Speaker
	DefaultVoice string
}

func (ScriptMode) isMode() {}
