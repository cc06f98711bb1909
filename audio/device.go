package audio

// We'll be using portaudio for audio input handling.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// A producer implements CaptureDevice to provide a stream of mono audio
// sample chunks. The noise monitor consumes one; the permission layer is
// expected to hand over a device that is already authorized.
type CaptureDevice interface {
	// Start begins audio capture and returns a receive-only channel of
	// sample chunks in [-1, 1].
	Start() (<-chan []float32, error)
	// Stop terminates the capture stream and closes the channel.
	Stop() error
	// SampleRate returns the sample rate of the device.
	SampleRate() int
}

// OutputDevice is the sink side: it repeatedly invokes a fill callback
// to pull mixed samples and plays them. There is exactly one output
// device per engine.
type OutputDevice interface {
	// Start begins playback, pulling samples through fill.
	Start(fill func(out []float32)) error
	// Stop terminates playback. Safe to call more than once.
	Stop() error
	// SampleRate returns the sample rate of the device.
	SampleRate() int
}

// NullDevice is a silent CaptureDevice used when no microphone is
// available.
type NullDevice struct {
	rate int
}

func NewNullDevice(sampleRate int) *NullDevice {
	return &NullDevice{rate: sampleRate}
}

// Start for NullDevice produces a channel that never sends anything.
func (d *NullDevice) Start() (<-chan []float32, error) {
	// A nil channel will block forever on receive, effectively producing silence.
	return nil, nil
}

func (d *NullDevice) Stop() error {
	// No goroutine to stop, so nothing to do.
	return nil
}

func (d *NullDevice) SampleRate() int { return d.rate }
