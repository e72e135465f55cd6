package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tahcohcat/vocalize/config"
	"github.com/tahcohcat/vocalize/internal/logger"
)

// GeminiClient calls the generative language API for speech synthesis.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	logger     *logger.Log
	httpClient *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string           `json:"responseModalities"`
	SpeechConfig       geminiSpeechConfig `json:"speechConfig"`
}

type geminiSpeechConfig struct {
	VoiceConfig            *geminiVoiceConfig        `json:"voiceConfig,omitempty"`
	MultiSpeakerVoiceConfig *geminiMultiSpeakerConfig `json:"multiSpeakerVoiceConfig,omitempty"`
}

type geminiVoiceConfig struct {
	PrebuiltVoiceConfig geminiPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type geminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type geminiMultiSpeakerConfig struct {
	SpeakerVoiceConfigs []geminiSpeakerVoice `json:"speakerVoiceConfigs"`
}

type geminiSpeakerVoice struct {
	Speaker     string            `json:"speaker"`
	VoiceConfig geminiVoiceConfig `json:"voiceConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewGeminiClient(cfg *config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   cfg.Model,
		logger:  logger.New(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}, nil
}

// GenerateSpeech synthesizes text with a single prebuilt voice.
func (c *GeminiClient) GenerateSpeech(ctx context.Context, text, voice string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: SpeechPrompt(text)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: geminiSpeechConfig{
				VoiceConfig: &geminiVoiceConfig{
					PrebuiltVoiceConfig: geminiPrebuiltVoice{VoiceName: voice},
				},
			},
		},
	}

	c.logger.Debugf("generating speech with voice %s (%d chars)", voice, len(text))
	return c.generate(ctx, req)
}

// GenerateConversation synthesizes a whole script in one request using the
// API's native multi-speaker support.
func (c *GeminiClient) GenerateConversation(ctx context.Context, text string, speakers []SpeakerVoice) (string, error) {
	configs := make([]geminiSpeakerVoice, 0, len(speakers))
	for _, s := range speakers {
		configs = append(configs, geminiSpeakerVoice{
			Speaker: s.Name,
			VoiceConfig: geminiVoiceConfig{
				PrebuiltVoiceConfig: geminiPrebuiltVoice{VoiceName: s.Voice},
			},
		})
	}

	req := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: ConversationPrompt(text, speakers)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: geminiSpeechConfig{
				MultiSpeakerVoiceConfig: &geminiMultiSpeakerConfig{SpeakerVoiceConfigs: configs},
			},
		},
	}

	c.logger.Debugf("generating conversation with %d speakers (%d chars)", len(speakers), len(text))
	return c.generate(ctx, req)
}

func (c *GeminiClient) generate(ctx context.Context, req geminiRequest) (string, error) {
	requestBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).Error("gemini request failed")
		return "", &SynthesisError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SynthesisError{Provider: c.Name(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &SynthesisError{Provider: c.Name(), Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	if geminiResp.Error != nil {
		return "", &SynthesisError{Provider: c.Name(), Err: fmt.Errorf("API error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &SynthesisError{Provider: c.Name(), Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
	}

	audio := extractAudio(geminiResp)
	if audio == "" {
		return "", &SynthesisError{Provider: c.Name(), Err: ErrNoAudio}
	}

	return audio, nil
}

func extractAudio(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData.Data
		}
	}
	return ""
}

func (c *GeminiClient) Name() string {
	return "gemini"
}
