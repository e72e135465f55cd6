package studio

import "errors"

var (
	// ErrPreviewBusy is returned when a preview request arrives while another
	// preview is still in flight. The second request is refused, not queued.
	ErrPreviewBusy = errors.New("a voice preview is already in progress")

	// ErrLastSpeaker rejects a removal that would leave the roster empty.
	ErrLastSpeaker = errors.New("the roster must keep at least one speaker")

	ErrSpeakerNotFound = errors.New("speaker not found")
)

// ValidationError reports bad input caught before any external call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
