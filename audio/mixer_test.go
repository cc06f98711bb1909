package audio

import (
	"math"
	"testing"
	"time"

	"github.com/classkit/classaudio/buffer"
)

func constantBuffer(value float32, n int) *buffer.Buffer {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = value
	}
	return &buffer.Buffer{Samples: samples, SampleRate: SampleRate, LoadedAt: time.Now()}
}

func TestMixer_SumsHeadsThroughGains(t *testing.T) {
	t.Parallel()

	master := NewGain(SampleRate, 1.0)
	m := NewMixer(master)

	a := &playhead{buf: constantBuffer(0.5, 1024), gain: NewGain(SampleRate, 1.0)}
	b := &playhead{buf: constantBuffer(0.25, 1024), gain: NewGain(SampleRate, 0.5)}
	m.add(a)
	m.add(b)

	out := make([]float32, 64)
	m.Fill(out)

	want := float32(0.5 + 0.25*0.5)
	for i, v := range out {
		if math.Abs(float64(v-want)) > 1e-5 {
			t.Fatalf("out[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestMixer_OneShotEndsAndDetaches(t *testing.T) {
	t.Parallel()

	m := NewMixer(NewGain(SampleRate, 1.0))
	m.add(&playhead{buf: constantBuffer(1.0, 100), gain: NewGain(SampleRate, 1.0)})

	out := make([]float32, 256)
	m.Fill(out)

	if out[50] != 1.0 {
		t.Errorf("out[50] = %v, want 1.0", out[50])
	}
	if out[200] != 0 {
		t.Errorf("out[200] = %v, want 0 after buffer end", out[200])
	}
	if got := m.ActiveHeads(); got != 0 {
		t.Errorf("ActiveHeads() = %d after one-shot finished, want 0", got)
	}
}

func TestMixer_LoopingHeadWraps(t *testing.T) {
	t.Parallel()

	m := NewMixer(NewGain(SampleRate, 1.0))
	m.add(&playhead{buf: constantBuffer(0.8, 100), loop: true, gain: NewGain(SampleRate, 1.0)})

	out := make([]float32, 1000)
	m.Fill(out)

	for _, i := range []int{0, 99, 100, 500, 999} {
		if math.Abs(float64(out[i]-0.8)) > 1e-5 {
			t.Fatalf("out[%d] = %v, want 0.8 (loop should wrap)", i, out[i])
		}
	}
	if got := m.ActiveHeads(); got != 1 {
		t.Errorf("ActiveHeads() = %d, want 1", got)
	}
}

func TestGain_RampIsGradual(t *testing.T) {
	t.Parallel()

	g := NewGain(SampleRate, 1.0)
	g.Set(0.2)

	buf := make([]float32, 16)
	for i := range buf {
		buf[i] = 1.0
	}
	g.Apply(buf)

	// Shortly after retargeting, the value must still be near the old
	// level, not at the new one: no instant jump.
	if buf[0] < 0.9 {
		t.Errorf("first sample after Set = %v; gain jumped instead of ramping", buf[0])
	}
	for i := 1; i < len(buf); i++ {
		if buf[i] > buf[i-1] {
			t.Fatalf("ramp not monotonic at %d: %v -> %v", i, buf[i-1], buf[i])
		}
	}

	// After a full ramp worth of samples, the target is reached.
	rampSamples := int(float64(SampleRate) * rampDuration.Seconds())
	long := make([]float32, rampSamples+10)
	for i := range long {
		long[i] = 1.0
	}
	g.Apply(long)
	if got := long[len(long)-1]; math.Abs(float64(got)-0.2) > 1e-6 {
		t.Errorf("gain after full ramp = %v, want 0.2", got)
	}
	if got := g.Value(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Value() after full ramp = %v, want 0.2", got)
	}
}

func TestGain_SetImmediate(t *testing.T) {
	t.Parallel()

	g := NewGain(SampleRate, 0.0)
	g.SetImmediate(0.6)
	buf := []float32{1, 1}
	g.Apply(buf)
	if buf[0] != 0.6 {
		t.Errorf("sample after SetImmediate = %v, want 0.6", buf[0])
	}
}
