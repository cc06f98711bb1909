package buffer

import "errors"

var (
	// ErrInvalidPath rejects source URLs that are neither http(s)
	// absolute nor under the /sounds/ safelist prefix.
	ErrInvalidPath = errors.New("audio source must be an http(s) URL or a /sounds/ path")
	// ErrNotFound marks an explicit 404-style response or missing file.
	ErrNotFound = errors.New("audio file not found")
	// ErrDecode marks bytes that were fetched but could not be decoded.
	ErrDecode = errors.New("could not decode audio data")
)
