package voi

import (
	"github.com/jpfielding/voi.go/pkg/parallel"
)

// bounds returns the window edges and the divisor, substituting 1 when the
// window is zero or negative so sliders can never fault.
func bounds(width, center float32) (low, denom float64) {
	w, c := float64(width), float64(center)
	low = c - w*0.5
	high := c + w*0.5
	denom = high - low
	if denom <= 0 {
		denom = 1
	}
	return low, denom
}

func mapSample(v, low, denom float64) uint8 {
	mapped := (v - low) * 255.0 / denom
	switch {
	case !(mapped > 0): // also catches NaN
		return 0
	case mapped > 255:
		return 255
	}
	return uint8(mapped)
}

// MapValue maps one physical value through the window, truncating to 8 bits.
func MapValue(v float64, width, center float32) uint8 {
	low, denom := bounds(width, center)
	return mapSample(v, low, denom)
}

// Map renders buf under the current window of ws into a new DisplayBuffer.
func Map(buf *PhysicalBuffer, ws WindowState, opts ...Option) *DisplayBuffer {
	out := &DisplayBuffer{Width: buf.Width(), Height: buf.Height()}
	n := buf.Len()
	if n == 0 {
		return out
	}
	out.Pix = make([]byte, n)

	low, denom := bounds(ws.Width, ws.Center)
	o := buildOptions(opts)
	src := buf.data
	parallel.For(n, o.workers, minParallelSamples, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out.Pix[i] = mapSample(src[i], low, denom)
		}
	})
	return out
}
