package voi

import (
	"fmt"
	"image"
)

// PhysicalBuffer holds samples after the modality rescale, row-major.
// It is never modified once Ingest returns it.
type PhysicalBuffer struct {
	width  int
	height int
	data   []float64
}

// Width returns the number of columns
func (b *PhysicalBuffer) Width() int {
	if b == nil {
		return 0
	}
	return b.width
}

// Height returns the number of rows
func (b *PhysicalBuffer) Height() int {
	if b == nil {
		return 0
	}
	return b.height
}

// Len returns width*height
func (b *PhysicalBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// At returns the sample at linear index i.
func (b *PhysicalBuffer) At(i int) float64 {
	return b.data[i]
}

// Samples returns a copy of the underlying samples.
func (b *PhysicalBuffer) Samples() []float64 {
	if b == nil {
		return nil
	}
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return out
}

// NewPhysicalBuffer wraps already-rescaled samples; mostly useful for tests
// and callers that produce physical values themselves.
func NewPhysicalBuffer(width, height int, samples []float64) (*PhysicalBuffer, error) {
	if width <= 0 || height <= 0 || len(samples) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d image", ErrMalformedPixelData, len(samples), width, height)
	}
	data := make([]float64, len(samples))
	copy(data, samples)
	return &PhysicalBuffer{width: width, height: height, data: data}, nil
}

// DisplayBuffer is an 8-bit grayscale rendering of a PhysicalBuffer. A
// published DisplayBuffer is never written again.
type DisplayBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Image copies the buffer into an *image.Gray.
func (d *DisplayBuffer) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	copy(img.Pix, d.Pix)
	return img
}
