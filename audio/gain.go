package audio

import (
	"sync"
	"time"
)

// rampDuration is the fixed transition time for every gain change.
// Stepping a gain instantly produces an audible click; a short linear
// ramp does not.
const rampDuration = 50 * time.Millisecond

// Gain scales samples by a value that moves toward its target over
// rampDuration. Safe for concurrent use: the mixer goroutine consumes
// samples while UI-driven code retargets the gain.
type Gain struct {
	mu        sync.Mutex
	current   float64
	target    float64
	step      float64
	remaining int
	rate      int
}

func NewGain(sampleRate int, initial float64) *Gain {
	return &Gain{
		current: initial,
		target:  initial,
		rate:    sampleRate,
	}
}

// Set ramps the gain toward v over rampDuration.
func (g *Gain) Set(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = v
	g.remaining = int(float64(g.rate) * rampDuration.Seconds())
	if g.remaining < 1 {
		g.remaining = 1
	}
	g.step = (g.target - g.current) / float64(g.remaining)
}

// SetImmediate jumps the gain without ramping. Used only before a source
// starts, when there is nothing playing to click.
func (g *Gain) SetImmediate(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = v
	g.target = v
	g.remaining = 0
}

// Target returns the value the gain is ramping toward.
func (g *Gain) Target() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Value returns the instantaneous gain.
func (g *Gain) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// next advances the ramp by one sample and returns the gain to apply.
// Callers must hold g.mu.
func (g *Gain) next() float32 {
	if g.remaining > 0 {
		g.current += g.step
		g.remaining--
		if g.remaining == 0 {
			g.current = g.target
		}
	}
	return float32(g.current)
}

// Apply multiplies buf in place, advancing the ramp one step per sample.
func (g *Gain) Apply(buf []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range buf {
		buf[i] *= g.next()
	}
}

// scaleInto adds src scaled by the ramping gain into dst.
func (g *Gain) scaleInto(dst, src []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range src {
		dst[i] += src[i] * g.next()
	}
}
