package tts

import (
	"context"
	"encoding/base64"

	"github.com/tahcohcat/vocalize/internal/logger"
)

// Dummy returns short silence for every request. It lets the server run
// without credentials for the real speech API.
type Dummy struct {
	log *logger.Log
}

func NewDummy() *Dummy {
	return &Dummy{log: logger.New()}
}

func (d *Dummy) GenerateSpeech(_ context.Context, text, voice string) (string, error) {
	d.log.Debugf("dummy tts: %d chars requested with voice %s", len(text), voice)
	return silence(), nil
}

func (d *Dummy) GenerateConversation(_ context.Context, text string, _ []SpeakerVoice) (string, error) {
	d.log.Debugf("dummy tts: %d chars of conversation requested", len(text))
	return silence(), nil
}

func (d *Dummy) Name() string {
	return "dummy"
}

// 400ms of 24kHz mono s16le silence.
func silence() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 24000*2*2/5))
}
