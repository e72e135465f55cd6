package audio

// TimeScale applies a playback-speed multiplier to a buffer by linear
// resampling: speed 2.0 halves the sample count, 0.5 doubles it. The output
// keeps the input sample rate, so driving it through the same output device
// plays the audio faster or slower. This is plain time-scaling, not
// pitch-corrected.
func TimeScale(buf *Buffer, speed float64) *Buffer {
	if speed == 1.0 || buf.NumSamples() == 0 {
		return buf
	}

	in := buf.NumSamples()
	out := int(float64(in) / speed)
	if out < 1 {
		out = 1
	}

	scaled := &Buffer{
		Data:       make([][]float32, buf.NumChannels()),
		SampleRate: buf.SampleRate,
	}

	for c, ch := range buf.Data {
		scaled.Data[c] = make([]float32, out)
		for i := 0; i < out; i++ {
			pos := float64(i) * speed
			idx := int(pos)
			if idx >= in-1 {
				scaled.Data[c][i] = ch[in-1]
				continue
			}
			frac := float32(pos - float64(idx))
			scaled.Data[c][i] = ch[idx]*(1-frac) + ch[idx+1]*frac
		}
	}

	return scaled
}
