// Package voices holds the fixed synthesis voice catalog.
package voices

import "strings"

// Voice describes one prebuilt synthesis voice.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	Style       string `json:"style"`
}

// Default is the voice used for new sessions and unmatched script lines.
const Default = "Enceladus"

var catalog = []Voice{
	{ID: "Enceladus", Name: "Enceladus", Gender: "Neutral", Description: "Deep, atmospheric, and highly resonant.", Style: "Mysterious"},
	{ID: "Aoede", Name: "Aoede", Gender: "Female", Description: "Melodic, ethereal, and song-like cadence.", Style: "Lyric"},
	{ID: "Autonoe", Name: "Autonoe", Gender: "Female", Description: "Classic, measured, and perfect for narration.", Style: "Narrative"},
	{ID: "Callirrhoe", Name: "Callirrhoe", Gender: "Female", Description: "Dynamic, rhythmic, and full of life.", Style: "Vibrant"},
	{ID: "Erinome", Name: "Erinome", Gender: "Female", Description: "Intense, dramatic, and emotionally heavy.", Style: "Dramatic"},
	{ID: "Kore", Name: "Kore", Gender: "Female", Description: "Bright, energetic, and clear.", Style: "Cheerful"},
	{ID: "Puck", Name: "Puck", Gender: "Male", Description: "Youthful, friendly, and approachable.", Style: "Casual"},
	{ID: "Charon", Name: "Charon", Gender: "Male", Description: "Deep, authoritative, and professional.", Style: "Formal"},
	{ID: "Fenrir", Name: "Fenrir", Gender: "Male", Description: "Warm, resonant, and calm.", Style: "Serene"},
	{ID: "Zephyr", Name: "Zephyr", Gender: "Female", Description: "Soft, airy, and sophisticated.", Style: "Gentle"},
}

// Catalog returns a copy of the voice list in display order.
func Catalog() []Voice {
	out := make([]Voice, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a voice by id (case-insensitive).
func Lookup(id string) (Voice, bool) {
	for _, v := range catalog {
		if strings.EqualFold(v.ID, id) {
			return v, true
		}
	}
	return Voice{}, false
}

// IsValid reports whether id names a catalog voice.
func IsValid(id string) bool {
	_, ok := Lookup(id)
	return ok
}
