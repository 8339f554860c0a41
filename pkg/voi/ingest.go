package voi

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/jpfielding/voi.go/pkg/parallel"
)

// minParallelSamples is the per-goroutine floor; smaller buffers run inline.
const minParallelSamples = 1 << 16

// Rescale is the modality linear transform: physical = raw*Slope + Intercept.
type Rescale struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// DefaultRescale is the identity transform.
var DefaultRescale = Rescale{Slope: 1, Intercept: 0}

// Apply rescales one stored value.
func (r Rescale) Apply(raw float64) float64 {
	return raw*r.Slope + r.Intercept
}

// Option tunes the data-parallel loops in Ingest and Map.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers sets the goroutine count; < 1 means GOMAXPROCS, 1 forces a serial pass.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sampleDecoder reads the stored value of sample i from little-endian bytes.
type sampleDecoder func(raw []byte, i int) float64

var decoders = map[Representation]sampleDecoder{
	Uint16: func(raw []byte, i int) float64 {
		return float64(binary.LittleEndian.Uint16(raw[i*2:]))
	},
	Int16: func(raw []byte, i int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	},
	Uint32: func(raw []byte, i int) float64 {
		return float64(binary.LittleEndian.Uint32(raw[i*4:]))
	},
	Int32: func(raw []byte, i int) float64 {
		return float64(int32(binary.LittleEndian.Uint32(raw[i*4:])))
	},
}

// Ingest reinterprets raw little-endian samples per rep and applies the
// rescale. The declared representation is authoritative; no signedness is
// inferred from the data.
func Ingest(raw []byte, rep Representation, width, height int, rescale Rescale, opts ...Option) (*PhysicalBuffer, error) {
	decode, ok := decoders[rep]
	if !ok {
		return nil, &UnsupportedRepresentationError{Representation: rep}
	}
	if width <= 0 || height <= 0 {
		return nil, malformed(len(raw), 0, width, height)
	}
	bps := rep.BytesPerSample()
	if width > math.MaxInt/height/bps {
		return nil, fmt.Errorf("%w: %dx%d image is too large to address", ErrMalformedPixelData, width, height)
	}
	n := width * height
	if expected := n * bps; len(raw) != expected {
		return nil, malformed(len(raw), expected, width, height)
	}

	o := buildOptions(opts)
	data := make([]float64, n)
	parallel.For(n, o.workers, minParallelSamples, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			data[i] = rescale.Apply(decode(raw, i))
		}
	})

	slog.Debug("Ingested samples",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.String("representation", rep.String()),
		slog.Float64("slope", rescale.Slope),
		slog.Float64("intercept", rescale.Intercept))

	return &PhysicalBuffer{width: width, height: height, data: data}, nil
}

func malformed(got, expected, width, height int) error {
	return fmt.Errorf("%w: %d bytes for %dx%d image, expected %d", ErrMalformedPixelData, got, width, height, expected)
}
