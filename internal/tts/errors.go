package tts

import (
	"errors"
	"fmt"
)

// ErrNoAudio is returned when a synthesis response carries no audio payload.
var ErrNoAudio = errors.New("no audio data in synthesis response")

// SynthesisError reports a failed call to the external speech collaborator.
// Synthesis failures are not retried; the caller must re-trigger the action.
type SynthesisError struct {
	Provider string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s synthesis failed: %v", e.Provider, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
