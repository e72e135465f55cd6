package tts

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	longPauseRe  = regexp.MustCompile(` {3,}`)
	shortPauseRe = regexp.MustCompile(` {2}`)
)

// PrepareText rewrites whitespace runs into punctuation the speech model
// interprets as pauses: three or more consecutive spaces become a long pause
// cue, exactly two become a short one. Single spaces are untouched.
func PrepareText(text string) string {
	processed := longPauseRe.ReplaceAllString(text, "... ... ")
	return shortPauseRe.ReplaceAllString(processed, ", ")
}

// SpeechPrompt wraps prepared text in the instruction preamble for
// single-voice requests.
func SpeechPrompt(text string) string {
	return "Speak with deep resonance, high emotional depth, and a natural human-like cadence. " +
		"Pay close attention to punctuation and whitespace for timing: " + PrepareText(text)
}

// ConversationPrompt wraps prepared text in the preamble for native
// multi-speaker requests.
func ConversationPrompt(text string, speakers []SpeakerVoice) string {
	names := make([]string, 0, len(speakers))
	for _, s := range speakers {
		names = append(names, s.Name)
	}
	return fmt.Sprintf("TTS the following conversation between %s. "+
		"Use maximum vocal depth and natural human prosody. "+
		"Respect every space and pause for a realistic human experience:\n\n%s",
		strings.Join(names, " and "), PrepareText(text))
}

// PreviewText returns the fixed audition line for a voice.
func PreviewText(voice string) string {
	return fmt.Sprintf("Hi! I am the %s voice. How do I sound?", voice)
}
