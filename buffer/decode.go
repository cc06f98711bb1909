package buffer

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	wav "github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// decode turns raw file bytes into a mono buffer at targetRate,
// dispatching on the URL's extension. Formats outside the native set
// go through the ffmpeg fallback.
func decode(url string, data []byte, targetRate int) (*Buffer, error) {
	var (
		samples []float32
		rate    int
		err     error
	)
	switch strings.ToLower(path.Ext(strippedQuery(url))) {
	case ".wav", ".wave":
		samples, rate, err = decodeWAV(data)
	case ".mp3":
		samples, rate, err = decodeMP3(data)
	case ".ogg", ".oga":
		samples, rate, err = decodeVorbis(data)
	default:
		samples, rate, err = decodeFFmpeg(data, targetRate)
	}
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty stream", ErrDecode)
	}
	return &Buffer{
		Samples:    resampleLinear(samples, rate, targetRate),
		SampleRate: targetRate,
		LoadedAt:   time.Now(),
	}, nil
}

// strippedQuery drops a query string so extension sniffing works on
// remote URLs like https://host/a.wav?v=2.
func strippedQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

func decodeWAV(data []byte) ([]float32, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a RIFF/WAVE file", ErrDecode)
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	bitDepth := int(d.BitDepth)
	if pcm.SourceBitDepth > 0 {
		bitDepth = pcm.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, 0, fmt.Errorf("%w: bad bit depth %d", ErrDecode, bitDepth)
	}
	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float32(v) / scale
	}
	return downmixToMono(samples, pcm.Format.NumChannels), pcm.Format.SampleRate, nil
}

func decodeMP3(data []byte) ([]float32, int, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	// go-mp3 always yields 16-bit little-endian stereo.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	n := len(raw) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768.0
	}
	return downmixToMono(samples, 2), dec.SampleRate(), nil
}

func decodeVorbis(data []byte) ([]float32, int, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return downmixToMono(samples, format.Channels), format.SampleRate, nil
}
