package buffer

import "time"

// Buffer is a decoded, ready-to-play audio clip: mono float32 samples
// in [-1, 1] at a known sample rate.
type Buffer struct {
	Samples    []float32
	SampleRate int
	LoadedAt   time.Time
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// downmixToMono collapses interleaved multi-channel samples by averaging
// across channels.
func downmixToMono(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	inv := 1.0 / float32(channels)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum * inv
	}
	return mono
}

// resampleLinear converts samples from one rate to another with linear
// interpolation. Quality is adequate for short alert clips; music packs
// ship at the engine rate.
func resampleLinear(in []float32, fromRate, toRate int) []float32 {
	if fromRate == toRate || fromRate <= 0 || len(in) == 0 {
		return in
	}
	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(in)) / ratio)
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float32, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = in[idx]*(1-frac) + in[idx+1]*frac
	}
	return out
}
