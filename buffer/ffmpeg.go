package buffer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// decodeFFmpeg shells out to ffmpeg for formats the native decoders do
// not cover (flac, aac, ...). The file is piped in whole and decoded to
// mono f32le at targetRate, so no resampling pass is needed afterwards.
func decodeFFmpeg(data []byte, targetRate int) ([]float32, int, error) {
	var out bytes.Buffer
	err := ffmpeg.Input("pipe:").
		Output("pipe:", ffmpeg.KwArgs{
			"f":  "f32le",
			"ar": strconv.Itoa(targetRate),
			"ac": "1",
		}).
		WithInput(bytes.NewReader(data)).
		WithOutput(&out).
		Silent(true).
		Run()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ffmpeg: %v", ErrDecode, err)
	}

	raw := out.Bytes()
	n := len(raw) / 4
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: ffmpeg produced no samples", ErrDecode)
	}
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return samples, targetRate, nil
}
