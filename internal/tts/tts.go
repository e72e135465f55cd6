// Package tts provides clients for the remote speech-generation API.
//
// All providers return base64-encoded raw PCM: 16-bit little-endian signed
// samples at 24 kHz, mono, no container or header.
package tts

import (
	"context"
	"fmt"

	"github.com/tahcohcat/vocalize/config"
)

// SpeakerVoice pairs a script speaker name with a synthesis voice, for the
// native multi-speaker request path.
type SpeakerVoice struct {
	Name  string `json:"name"`
	Voice string `json:"voice"`
}

// Synthesizer is the contract with the external speech collaborator.
type Synthesizer interface {
	// GenerateSpeech synthesizes text with a single voice and returns
	// base64-encoded raw PCM.
	GenerateSpeech(ctx context.Context, text, voice string) (string, error)

	// GenerateConversation synthesizes a whole conversation in one request
	// using named speaker/voice pairs. Not used by the default script flow,
	// which issues one single-speaker request per turn.
	GenerateConversation(ctx context.Context, text string, speakers []SpeakerVoice) (string, error)

	Name() string
}

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderGoogle Provider = "google"
	ProviderDummy  Provider = "dummy"
)

// NewSynthesizer creates a synthesizer based on the configuration.
func NewSynthesizer(cfg *config.Config) (Synthesizer, error) {
	switch Provider(cfg.TTS.Provider) {
	case ProviderGemini:
		return NewGeminiClient(&cfg.Gemini)
	case ProviderGoogle:
		return NewGoogleClient(context.Background(), &cfg.Google)
	case ProviderDummy:
		return NewDummy(), nil
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", cfg.TTS.Provider)
	}
}
