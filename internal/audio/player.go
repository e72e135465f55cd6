package audio

import (
	"sync"
	"time"
)

// stream is one playable audio stream bound to the output device.
type stream interface {
	Play()
	IsPlaying() bool
	Close() error
}

// device abstracts the shared output context so tests can substitute a fake.
type device interface {
	NewStream(pcm []byte) (stream, error)
}

// Player owns playback. At most one stream is active at a time: starting a
// new one stops the current one first, and the current-stream reference is
// cleared automatically when playback finishes.
type Player struct {
	mu      sync.Mutex
	dev     device
	current stream
}

// NewPlayer creates a player backed by the system audio device. The device
// context itself is created lazily on the first Play.
func NewPlayer() *Player {
	return newPlayerWithDevice(&otoDevice{})
}

func newPlayerWithDevice(dev device) *Player {
	return &Player{dev: dev}
}

// Play decodes base64 PCM audio, applies the speed multiplier and starts
// playback, stopping any currently playing stream first. Errors from
// stopping a stream that already finished are expected races and swallowed.
func (p *Player) Play(b64 string, speed float64) error {
	data, err := DecodeBase64(b64)
	if err != nil {
		return err
	}
	buf, err := DecodeAudioData(data, SampleRate, Channels)
	if err != nil {
		return err
	}
	if speed != 1.0 {
		buf = TimeScale(buf, speed)
	}
	pcm := EncodeAudioData(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		_ = p.current.Close()
		p.current = nil
	}

	s, err := p.dev.NewStream(pcm)
	if err != nil {
		return err
	}
	s.Play()
	p.current = s

	go p.watch(s)
	return nil
}

// watch clears the current-stream reference once s finishes on its own.
func (p *Player) watch(s stream) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.current != s {
			p.mu.Unlock()
			return
		}
		if !s.IsPlaying() {
			_ = s.Close()
			p.current = nil
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
}

// Stop halts the current stream, if any. Calling it with nothing playing is
// a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		_ = p.current.Close()
		p.current = nil
	}
}

// IsPlaying reports whether a stream is currently active.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.IsPlaying()
}
