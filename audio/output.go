package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioOutput drives the default output device, pulling mono samples
// from a fill callback on the audio thread.
type PortAudioOutput struct {
	sampleRate  int
	stream      *portaudio.Stream
	isStreaming bool
}

func NewPortAudioOutput(sampleRate int) *PortAudioOutput {
	return &PortAudioOutput{sampleRate: sampleRate}
}

func (o *PortAudioOutput) Start(fill func(out []float32)) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		portaudio.Terminate()
		return err
	}

	params := portaudio.HighLatencyParameters(nil, host.DefaultOutputDevice)
	params.Output.Channels = 1
	params.SampleRate = float64(o.sampleRate)

	stream, err := portaudio.OpenStream(params, func(out []float32) {
		fill(out)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	o.stream = stream
	o.isStreaming = true
	return nil
}

func (o *PortAudioOutput) Stop() error {
	if !o.isStreaming {
		return nil
	}
	o.isStreaming = false
	if err := o.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	return portaudio.Terminate()
}

func (o *PortAudioOutput) SampleRate() int {
	return o.sampleRate
}
