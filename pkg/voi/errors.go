package voi

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceDecodeFailed means the upstream decoder produced nothing usable.
	ErrSourceDecodeFailed = errors.New("source decode failed")
	// ErrMalformedPixelData means the raw buffer does not match the declared geometry.
	ErrMalformedPixelData = errors.New("malformed pixel data")
	// ErrUnsupportedRepresentation means the sample tag is outside the supported forms.
	ErrUnsupportedRepresentation = errors.New("unsupported sample representation")
	// ErrEmptyBuffer means a zero-sized image reached the range analyzer.
	ErrEmptyBuffer = errors.New("empty buffer")
	// ErrUnknownPreset means a preset name is not in the catalog.
	ErrUnknownPreset = errors.New("unknown preset")
)

// UnsupportedRepresentationError carries the offending representation tag.
type UnsupportedRepresentationError struct {
	Representation Representation
}

func (e *UnsupportedRepresentationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupportedRepresentation, e.Representation)
}

func (e *UnsupportedRepresentationError) Unwrap() error {
	return ErrUnsupportedRepresentation
}
