package monitor

import (
	"math"
	"sync"

	fft "github.com/mjibson/go-dsp/fft"
)

const (
	// A 2048-point FFT gives 1024 frequency bins, enough resolution for
	// a classroom loudness meter.
	fftInputSize = 2048
	binCount     = fftInputSize / 2
	// historyBufferSize stores ample history between analysis ticks.
	historyBufferSize = fftInputSize * 4

	minDecibels     = -100.0
	maxDecibels     = -30.0
	smoothingFactor = 0.8
)

// Analyser exposes frequency- and time-domain views of a live audio
// signal without altering it. Capture chunks are written into a history
// ring by the monitor's listener goroutine; analysis reads the most
// recent window.
type Analyser struct {
	mu            sync.Mutex
	historyBuffer []float32
	bufferPos     int

	window     []float64
	lastFFT    []float64
	sampleRate int
}

func NewAnalyser(sampleRate int) *Analyser {
	a := &Analyser{
		historyBuffer: make([]float32, historyBufferSize),
		window:        blackmanWindow(fftInputSize),
		lastFFT:       make([]float64, binCount),
		sampleRate:    sampleRate,
	}
	// Smoothing state starts at the silence floor; starting at 0 dB
	// would report phantom energy until the average decays.
	for i := range a.lastFFT {
		a.lastFFT[i] = minDecibels
	}
	return a
}

// BinCount returns the number of frequency bins FrequencyBytes yields.
func (a *Analyser) BinCount() int { return binCount }

func (a *Analyser) SampleRate() int { return a.sampleRate }

// Write appends captured samples to the history ring.
func (a *Analyser) Write(samples []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, sample := range samples {
		a.historyBuffer[a.bufferPos] = sample
		a.bufferPos = (a.bufferPos + 1) % historyBufferSize
	}
}

// recentSamples retrieves the latest numSamples from the history ring.
func (a *Analyser) recentSamples(numSamples int) []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		index := (a.bufferPos - numSamples + i + historyBufferSize) % historyBufferSize
		out[i] = a.historyBuffer[index]
	}
	return out
}

// FrequencyBytes computes the current byte-valued frequency spectrum:
// windowed FFT, magnitude to decibels, temporal smoothing, then the
// [minDecibels, maxDecibels] range scaled to 0..255.
func (a *Analyser) FrequencyBytes() []byte {
	samples := a.recentSamples(fftInputSize)
	samples64 := make([]float64, fftInputSize)
	for i, s := range samples {
		samples64[i] = float64(s) * a.window[i]
	}

	fftResult := fft.FFTReal(samples64)

	out := make([]byte, binCount)
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < binCount; i++ {
		re := real(fftResult[i])
		im := imag(fftResult[i])
		// Normalize magnitude by 2/N for all non-DC/Nyquist components.
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / float64(fftInputSize))

		db := 20 * math.Log10(magnitude+1e-9)

		a.lastFFT[i] = (smoothingFactor * a.lastFFT[i]) + ((1.0 - smoothingFactor) * db)
		smoothedDb := a.lastFFT[i]

		var scaled float64
		if smoothedDb < minDecibels {
			scaled = 0
		} else if smoothedDb > maxDecibels {
			scaled = 1
		} else {
			scaled = (smoothedDb - minDecibels) / (maxDecibels - minDecibels)
		}
		out[i] = byte(scaled * 255)
	}
	return out
}

// TimeDomainBytes returns the most recent waveform window scaled from
// [-1, 1] to 0..255, centered on 128.
func (a *Analyser) TimeDomainBytes() []byte {
	samples := a.recentSamples(binCount)
	out := make([]byte, len(samples))
	for i, s := range samples {
		v := (float64(s) + 1) * 0.5 * 255
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		out[i] = byte(v)
	}
	return out
}

// reset clears the history and smoothing state for a fresh session.
func (a *Analyser) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.historyBuffer {
		a.historyBuffer[i] = 0
	}
	for i := range a.lastFFT {
		a.lastFFT[i] = minDecibels
	}
	a.bufferPos = 0
}

// blackmanWindow generates a Blackman window for FFT leakage reduction.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	a0 := 0.42
	a1 := 0.5
	a2 := 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - (a1 * math.Cos(2*math.Pi*t)) + (a2 * math.Cos(4*math.Pi*t))
	}
	return window
}
