// Package script turns multi-line script text into per-speaker utterances.
package script

import (
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/tahcohcat/vocalize/internal/logger"
)

// Speaker is one configured script-mode speaker.
type Speaker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Voice string `json:"voice"`
}

// Utterance is one attributed unit of text to synthesize with a single voice.
type Utterance struct {
	Text  string
	Voice string
}

// Segment splits scriptText into ordered utterances, one per non-blank line.
// A line of the form "Name: content" is attributed to the roster speaker whose
// name matches case-insensitively; the label is stripped even when no speaker
// matches, and the line falls back to defaultVoice. Lines without a colon (or
// with a blank label) become whole utterances with defaultVoice. Whitespace
// inside the utterance text is preserved; it carries pause cues downstream.
func Segment(scriptText string, roster []Speaker, defaultVoice string) []Utterance {
	var utterances []Utterance
	log := logger.New()

	for _, line := range strings.Split(scriptText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		label, content, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(label) == "" {
			utterances = append(utterances, Utterance{
				Text:  strings.TrimSpace(line),
				Voice: defaultVoice,
			})
			continue
		}

		name := strings.TrimSpace(label)
		voice := defaultVoice
		if speaker, ok := lookup(roster, name); ok {
			voice = speaker.Voice
		} else if suggestion := closest(roster, name); suggestion != "" {
			log.Debugf("no speaker named %q in roster (closest match: %q)", name, suggestion)
		}

		utterances = append(utterances, Utterance{
			Text:  strings.TrimSpace(content),
			Voice: voice,
		})
	}

	return utterances
}

func lookup(roster []Speaker, name string) (Speaker, bool) {
	for _, s := range roster {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Speaker{}, false
}

// closest returns the nearest roster name for an unmatched label. Diagnostic
// only; it never influences voice assignment.
func closest(roster []Speaker, name string) string {
	if len(roster) == 0 {
		return ""
	}
	names := make([]string, 0, len(roster))
	for _, s := range roster {
		names = append(names, s.Name)
	}
	return closestmatch.New(names, []int{2}).Closest(name)
}
