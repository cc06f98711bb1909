package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/classkit/classaudio/options"
)

// fakeOutput stands in for the portaudio stream: tests pump the fill
// callback by hand instead of waiting on real hardware pacing.
type fakeOutput struct {
	mu     sync.Mutex
	fill   func([]float32)
	active bool
	starts int
	stops  int
}

func (o *fakeOutput) Start(fill func(out []float32)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fill = fill
	o.active = true
	o.starts++
	return nil
}

func (o *fakeOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = false
	o.stops++
	return nil
}

func (o *fakeOutput) SampleRate() int { return SampleRate }

// pump pulls n mixed samples, as the audio thread would.
func (o *fakeOutput) pump(n int) []float32 {
	o.mu.Lock()
	fill := o.fill
	o.mu.Unlock()
	buf := make([]float32, n)
	fill(buf)
	return buf
}

func newTestEngine(t *testing.T) (*Engine, *fakeOutput) {
	t.Helper()
	out := &fakeOutput{}
	engine, err := New(options.Default(), out)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine, out
}

// writeWAV writes a canonical 16-bit mono PCM file for the loader.
func writeWAV(t *testing.T, dir, name string, seconds float64, freq float64) {
	t.Helper()
	const rate = SampleRate
	n := int(float64(rate) * seconds)
	data := make([]byte, 44+2*n)

	copy(data[0:4], "RIFF")
	binary.LittleEndian.PutUint32(data[4:8], uint32(36+2*n))
	copy(data[8:12], "WAVE")
	copy(data[12:16], "fmt ")
	binary.LittleEndian.PutUint32(data[16:20], 16)
	binary.LittleEndian.PutUint16(data[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(data[22:24], 1) // mono
	binary.LittleEndian.PutUint32(data[24:28], rate)
	binary.LittleEndian.PutUint32(data[28:32], rate*2)
	binary.LittleEndian.PutUint16(data[32:34], 2)
	binary.LittleEndian.PutUint16(data[34:36], 16)
	copy(data[36:40], "data")
	binary.LittleEndian.PutUint32(data[40:44], uint32(2*n))

	step := 2 * math.Pi * freq / float64(rate)
	for i := 0; i < n; i++ {
		v := int16(0.5 * 32767 * math.Sin(step*float64(i)))
		binary.LittleEndian.PutUint16(data[44+2*i:], uint16(v))
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
