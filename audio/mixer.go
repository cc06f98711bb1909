package audio

import (
	"sync"

	"github.com/classkit/classaudio/buffer"
)

// playhead is one sound routed through the mixer: a decoded buffer, a
// position, and a dedicated gain. One-shot heads detach themselves when
// the buffer runs out; looping heads wrap.
type playhead struct {
	buf      *buffer.Buffer
	pos      int
	loop     bool
	gain     *Gain
	finished bool
}

// mix adds the head's next len(out) samples into out through its gain.
func (h *playhead) mix(out, scratch []float32) {
	n := len(h.buf.Samples)
	if n == 0 {
		h.finished = true
		return
	}
	for i := range out {
		if h.pos >= n {
			if !h.loop {
				h.finished = true
				// Zero the rest of the scratch so stale samples from the
				// previous fill don't leak through the gain.
				for j := i; j < len(scratch); j++ {
					scratch[j] = 0
				}
				break
			}
			h.pos = 0
		}
		scratch[i] = h.buf.Samples[h.pos]
		h.pos++
	}
	h.gain.scaleInto(out, scratch)
}

// Mixer sums the active playheads through their channel gains and the
// master gain into a single mono stream. The output device pulls from
// Fill on its own schedule.
type Mixer struct {
	mu      sync.Mutex
	heads   []*playhead
	master  *Gain
	scratch []float32
}

func NewMixer(master *Gain) *Mixer {
	return &Mixer{master: master}
}

// Fill writes the next chunk of mixed output into out. It is the fill
// callback handed to the output device.
func (m *Mixer) Fill(out []float32) {
	for i := range out {
		out[i] = 0
	}

	m.mu.Lock()
	if len(m.scratch) < len(out) {
		m.scratch = make([]float32, len(out))
	}
	scratch := m.scratch[:len(out)]
	for _, h := range m.heads {
		h.mix(out, scratch)
	}
	// Drop one-shots that ran out during this fill.
	active := m.heads[:0]
	for _, h := range m.heads {
		if !h.finished {
			active = append(active, h)
		}
	}
	m.heads = active
	m.mu.Unlock()

	m.master.Apply(out)
}

func (m *Mixer) add(h *playhead) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heads = append(m.heads, h)
}

func (m *Mixer) remove(h *playhead) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.heads {
		if cur == h {
			m.heads = append(m.heads[:i], m.heads[i+1:]...)
			return
		}
	}
}

// ActiveHeads reports how many sounds are currently routed. For display
// and tests.
func (m *Mixer) ActiveHeads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.heads)
}
