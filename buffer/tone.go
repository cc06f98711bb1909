package buffer

import (
	"math"
	"time"
)

// Fallback tone parameters. When a sound cannot be fetched or decoded,
// a short beep plays instead so an alert is never silent.
const (
	fallbackFrequency = 880.0
	fallbackDuration  = 500 * time.Millisecond
	fallbackAmplitude = 0.3
	fallbackEdgeFade  = 10 * time.Millisecond
)

// FallbackTone synthesizes the substitute beep at the given sample rate.
// The edges are faded to keep the clip click-free.
func FallbackTone(sampleRate int) *Buffer {
	n := int(float64(sampleRate) * fallbackDuration.Seconds())
	fade := int(float64(sampleRate) * fallbackEdgeFade.Seconds())
	samples := make([]float32, n)
	step := 2 * math.Pi * fallbackFrequency / float64(sampleRate)
	for i := range samples {
		s := fallbackAmplitude * math.Sin(step*float64(i))
		if i < fade {
			s *= float64(i) / float64(fade)
		} else if n-1-i < fade {
			s *= float64(n - 1 - i) / float64(fade)
		}
		samples[i] = float32(s)
	}
	return &Buffer{
		Samples:    samples,
		SampleRate: sampleRate,
		LoadedAt:   time.Now(),
	}
}
