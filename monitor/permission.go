package monitor

import (
	"errors"
	"os"

	"github.com/classkit/classaudio/audio"
)

// PermissionStatus is the closed set of outcomes when acquiring a
// microphone. The UI maps each kind to a persistent message instead of
// treating device failures as crashes.
type PermissionStatus int

const (
	PermissionGranted PermissionStatus = iota
	// PermissionDenied: the platform refused microphone access.
	PermissionDenied
	// PermissionUnavailable: no capture device exists.
	PermissionUnavailable
	// PermissionError: any other acquisition failure.
	PermissionError
)

func (s PermissionStatus) String() string {
	switch s {
	case PermissionGranted:
		return "MICROPHONE_GRANTED"
	case PermissionDenied:
		return "MICROPHONE_DENIED"
	case PermissionUnavailable:
		return "MICROPHONE_UNAVAILABLE"
	default:
		return "PERMISSION_ERROR"
	}
}

// ClassifyDeviceError maps a capture device start failure onto the
// permission kinds.
func ClassifyDeviceError(err error) PermissionStatus {
	switch {
	case err == nil:
		return PermissionGranted
	case errors.Is(err, audio.ErrNoInputDevice):
		return PermissionUnavailable
	case errors.Is(err, os.ErrPermission):
		return PermissionDenied
	default:
		return PermissionError
	}
}
