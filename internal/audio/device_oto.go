package audio

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// The OS audio context is a process-wide singleton: oto permits exactly one.
// It is created lazily on first use, at the fixed system format, and is never
// torn down (lifetime = application lifetime).
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func sharedContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		options := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(options)
		if err != nil {
			otoErr = fmt.Errorf("failed to create audio context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	if otoErr != nil {
		return nil, otoErr
	}
	// Resume is a no-op when the device is already running.
	_ = otoCtx.Resume()
	return otoCtx, nil
}

type otoDevice struct{}

func (*otoDevice) NewStream(pcm []byte) (stream, error) {
	ctx, err := sharedContext()
	if err != nil {
		return nil, err
	}
	return &otoStream{player: ctx.NewPlayer(bytes.NewReader(pcm))}, nil
}

type otoStream struct {
	player *oto.Player
}

func (s *otoStream) Play() {
	s.player.Play()
}

func (s *otoStream) IsPlaying() bool {
	return s.player.IsPlaying()
}

func (s *otoStream) Close() error {
	s.player.Pause()
	return s.player.Close()
}
