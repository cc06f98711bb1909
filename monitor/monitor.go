package monitor

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/classkit/classaudio/audio"
)

// tickRate is how often the monitor analyzes and publishes a level.
// 60 Hz keeps a UI meter smooth without burning CPU on FFTs.
const tickRate = 60

// Monitor continuously analyzes live microphone input and publishes a
// normalized 0..100 loudness level to subscribers. The analysis path is
// capture-only: nothing the monitor does reaches the output mix, so
// there is no feedback risk.
type Monitor struct {
	mu         sync.Mutex
	dev        audio.CaptureDevice
	analyser   *Analyser
	monitoring bool
	calibrated bool
	baseline   float64
	level      float64

	subs    map[int]func(level float64)
	nextSub int

	stop chan struct{}
	done chan struct{}
}

func New() *Monitor {
	return &Monitor{subs: make(map[int]func(float64))}
}

// StartMonitoring begins analyzing the given capture device, which the
// permission layer must already have authorized. It returns false if
// monitoring is already active or the device cannot be started; callers
// treat false as a normal, recoverable outcome (no microphone present).
func (m *Monitor) StartMonitoring(dev audio.CaptureDevice) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.monitoring {
		return false
	}

	ch, err := dev.Start()
	if err != nil {
		log.Printf("noise monitor could not start capture: %v (%s)", err, ClassifyDeviceError(err))
		return false
	}

	m.dev = dev
	m.analyser = NewAnalyser(dev.SampleRate())
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	m.monitoring = true

	// A nil channel (silent device) would park the listener forever.
	if ch != nil {
		go m.listen(ch)
	}
	go m.loop(m.stop, m.done)
	return true
}

// listen feeds captured chunks into the analyser's history ring until
// the device closes its channel.
func (m *Monitor) listen(ch <-chan []float32) {
	analyser := m.analyser
	for samples := range ch {
		analyser.Write(samples)
	}
}

// loop is the per-tick analysis: non-blocking, self-rescheduling via the
// ticker, cancellable through the stop channel.
func (m *Monitor) loop(stop chan struct{}, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick computes and publishes one level sample.
func (m *Monitor) tick() {
	m.mu.Lock()
	if !m.monitoring {
		m.mu.Unlock()
		return
	}
	analyser := m.analyser
	m.mu.Unlock()

	level := computeLevel(analyser.FrequencyBytes())

	m.mu.Lock()
	if !m.monitoring {
		// Stopped while analyzing; don't republish or overwrite the reset.
		m.mu.Unlock()
		return
	}
	m.level = level
	subs := make([]func(float64), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(level)
	}
}

// computeLevel turns byte-valued frequency bins into a 0..100 loudness:
// RMS of the normalized magnitudes, to decibels, clamped to the
// analyser's range, rescaled linearly.
func computeLevel(bins []byte) float64 {
	if len(bins) == 0 {
		return 0
	}
	var sum float64
	for _, b := range bins {
		v := float64(b) / 255.0
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(bins)))

	db := minDecibels
	if rms > 0 {
		db = 20 * math.Log10(rms)
	}
	if db < minDecibels {
		db = minDecibels
	} else if db > maxDecibels {
		db = maxDecibels
	}
	return (db - minDecibels) / (maxDecibels - minDecibels) * 100
}

// StopMonitoring cancels the analysis loop, releases the capture device,
// clears all subscribers, and resets the level to 0. Idempotent.
func (m *Monitor) StopMonitoring() {
	m.mu.Lock()
	if !m.monitoring {
		m.mu.Unlock()
		return
	}
	m.monitoring = false
	dev := m.dev
	stop, done := m.stop, m.done
	m.dev = nil
	m.analyser = nil
	m.level = 0
	m.subs = make(map[int]func(float64))
	m.stop = nil
	m.done = nil
	m.mu.Unlock()

	close(stop)
	<-done
	if err := dev.Stop(); err != nil {
		log.Printf("noise monitor: capture device stop failed: %v", err)
	}
}

// Calibrate records the current level as the baseline for later
// comparison. No-op unless monitoring. The published level itself is
// unchanged; consumers apply the baseline at their discretion.
func (m *Monitor) Calibrate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.monitoring {
		return
	}
	m.baseline = m.level
	m.calibrated = true
}

// OnLevelChange registers a subscriber invoked with every published
// level. The returned function removes the subscription.
func (m *Monitor) OnLevelChange(fn func(level float64)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// CurrentLevel returns the most recently published level, 0..100.
func (m *Monitor) CurrentLevel() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// IsMonitoring reports whether the analysis loop is active.
func (m *Monitor) IsMonitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monitoring
}

// IsCalibrated reports whether a baseline has been recorded.
func (m *Monitor) IsCalibrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calibrated
}

// Baseline returns the recorded baseline level.
func (m *Monitor) Baseline() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline
}
