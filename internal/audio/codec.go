// Package audio implements the raw PCM pipeline: base64 codec, chunk
// concatenation, time-scaling and playback of 16-bit little-endian samples.
package audio

import (
	"encoding/base64"
	"fmt"
)

// Fixed format of all synthesized audio in this system.
const (
	SampleRate     = 24000
	Channels       = 1
	BitDepth       = 16
	BytesPerSample = BitDepth / 8
)

// DecodeError reports malformed base64 or an unusable PCM payload.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio decode: %s: %v", e.Reason, e.Err)
	}
	return "audio decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Buffer is decoded, playable audio: normalized float samples in [-1, 1],
// one slice per channel.
type Buffer struct {
	Data       [][]float32
	SampleRate int
}

// NumChannels returns the channel count of the buffer.
func (b *Buffer) NumChannels() int { return len(b.Data) }

// NumSamples returns the per-channel sample count.
func (b *Buffer) NumSamples() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// DecodeBase64 decodes standard base64 into raw bytes.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Reason: "malformed base64", Err: err}
	}
	return data, nil
}

// EncodeBase64 encodes raw bytes as standard base64.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeAudioData interprets data as little-endian signed 16-bit PCM and
// produces a normalized float buffer. Samples are assigned to channels in
// interleaved order; trailing bytes that do not complete a full frame are
// discarded.
func DecodeAudioData(data []byte, sampleRate, channels int) (*Buffer, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty PCM payload"}
	}
	if channels < 1 {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid channel count %d", channels)}
	}

	frames := len(data) / BytesPerSample / channels
	buf := &Buffer{
		Data:       make([][]float32, channels),
		SampleRate: sampleRate,
	}
	for c := range buf.Data {
		buf.Data[c] = make([]float32, frames)
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * BytesPerSample
			sample := int16(data[off]) | int16(data[off+1])<<8
			buf.Data[c][i] = float32(sample) / 32768.0
		}
	}

	return buf, nil
}

// EncodeAudioData is the inverse of DecodeAudioData: normalized floats back
// to interleaved little-endian signed 16-bit PCM. Values outside [-1, 1] are
// clamped.
func EncodeAudioData(buf *Buffer) []byte {
	channels := buf.NumChannels()
	frames := buf.NumSamples()
	out := make([]byte, frames*channels*BytesPerSample)

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := buf.Data[c][i] * 32768.0
			if v > 32767 {
				v = 32767
			} else if v < -32768 {
				v = -32768
			}
			sample := int16(v)
			off := (i*channels + c) * BytesPerSample
			out[off] = byte(sample)
			out[off+1] = byte(sample >> 8)
		}
	}

	return out
}
