package audio

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. The set is closed; callers match
// on it rather than inspecting error strings.
type Kind string

const (
	// KindLoad means a file fetch or path validation failed.
	KindLoad Kind = "LOAD_ERROR"
	// KindDecode means bytes were fetched but could not be decoded.
	KindDecode Kind = "DECODE_ERROR"
	// KindContext means graph/node creation or playback failed.
	KindContext Kind = "CONTEXT_ERROR"
	// KindNotFound means the source answered with an explicit 404.
	KindNotFound Kind = "FILE_NOT_FOUND"
)

// Error is the typed error surfaced by players. It wraps the underlying
// cause so errors.Is/As keep working.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds a typed Error for the given operation.
func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from err, or "" if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrNoInputDevice is returned by capture devices when the host has no
// usable input device.
var ErrNoInputDevice = errors.New("no audio input device available")

// ErrEngineClosed is returned by operations invoked after Close.
var ErrEngineClosed = errors.New("audio engine is closed")
