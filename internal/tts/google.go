package tts

import (
	"context"
	"encoding/base64"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/tahcohcat/vocalize/config"
	"github.com/tahcohcat/vocalize/internal/audio"
	"github.com/tahcohcat/vocalize/internal/logger"
)

// LINEAR16 responses arrive in a WAV container; the RIFF header is this long.
const wavHeaderSize = 44

// GoogleTTS is an alternate backend on Google Cloud Text-to-Speech. Catalog
// voice ids are mapped onto configured Cloud voice names; output is stripped
// to raw PCM to honor the system contract.
type GoogleTTS struct {
	client *texttospeech.Client
	cfg    *config.GoogleConfig
	logger *logger.Log
}

func NewGoogleClient(ctx context.Context, cfg *config.GoogleConfig) (*GoogleTTS, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google tts client: %w", err)
	}

	return &GoogleTTS{
		client: client,
		cfg:    cfg,
		logger: logger.New(),
	}, nil
}

// GenerateSpeech synthesizes text with the Cloud voice mapped to the catalog
// voice id. Pause cues are applied; the generative instruction preamble is
// not, since this backend reads text verbatim.
func (g *GoogleTTS) GenerateSpeech(ctx context.Context, text, voice string) (string, error) {
	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: PrepareText(text)},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: g.cfg.LanguageCode,
			Name:         g.voiceName(voice),
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding:   ttspb.AudioEncoding_LINEAR16,
			SampleRateHertz: audio.SampleRate,
		},
	}

	g.logger.Debugf("generating google tts audio with voice %s", g.voiceName(voice))

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return "", &SynthesisError{Provider: g.Name(), Err: err}
	}

	if len(resp.AudioContent) <= wavHeaderSize {
		return "", &SynthesisError{Provider: g.Name(), Err: ErrNoAudio}
	}

	return base64.StdEncoding.EncodeToString(resp.AudioContent[wavHeaderSize:]), nil
}

// GenerateConversation is not supported by Cloud Text-to-Speech; the script
// flow falls back to one request per turn, which never reaches this path.
func (g *GoogleTTS) GenerateConversation(context.Context, string, []SpeakerVoice) (string, error) {
	return "", &SynthesisError{Provider: g.Name(), Err: fmt.Errorf("multi-speaker synthesis not supported")}
}

func (g *GoogleTTS) voiceName(voice string) string {
	if name, ok := g.cfg.Voices[voice]; ok {
		return name
	}
	return g.cfg.DefaultVoice
}

func (g *GoogleTTS) Name() string {
	return "google"
}

func (g *GoogleTTS) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
