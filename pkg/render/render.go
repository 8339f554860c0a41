// Package render encodes display buffers to image files
package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format names an output encoding
type Format string

// Supported output formats
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

// ParseFormat accepts a format name or common file extension alias
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "tiff", "tif":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	}
	return "", fmt.Errorf("unsupported output format: %q", s)
}

// Options control encoding
type Options struct {
	Format      Format
	JPEGQuality int
}

// Encode writes img in the requested format
func Encode(w io.Writer, img image.Image, o Options) error {
	var err error
	switch o.Format {
	case PNG, "":
		enc := png.Encoder{CompressionLevel: png.BestCompression, BufferPool: pngPool}
		err = enc.Encode(w, img)
	case JPEG:
		quality := o.JPEGQuality
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: min(quality, 100)})
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format: %q", o.Format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", o.Format, err)
	}
	return nil
}

// WriteFile encodes img to path through a temporary file in the same
// directory, renaming it into place once fully written.
func WriteFile(path string, img image.Image, o Options) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", path, err)
	}
	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, img, o); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("could not flush %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", tmp.Name(), err)
	}
	done = true
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not rename destination %q: %w", path, err)
	}
	return nil
}

// Bounds on aspect correction. A ratio beyond MaxAspect is clamped and a
// stretched side never grows past MaxDimension.
const (
	MaxAspect    = 16
	MaxDimension = 1 << 14
)

// CorrectAspect stretches img so that pixels with the given row/column
// spacing ratio display square. Ratios above 1 grow the height, below 1 the
// width; the image is returned unchanged for 1 or invalid ratios.
func CorrectAspect(img image.Image, aspect float32) image.Image {
	if !(aspect > 0) || aspect == 1 || math.IsInf(float64(aspect), 0) {
		return img
	}
	scale := min(max(float64(aspect), 1.0/MaxAspect), MaxAspect)
	src := img.Bounds()
	width, height := src.Dx(), src.Dy()
	if scale > 1 {
		height = min(int(math.Round(float64(height)*scale)), max(height, MaxDimension))
	} else {
		width = min(int(math.Round(float64(width)/scale)), max(width, MaxDimension))
	}
	if width == src.Dx() && height == src.Dy() {
		return img
	}

	slog.Debug("aspect correction", slog.Float64("aspect", float64(aspect)),
		slog.Int("width", width), slog.Int("height", height))
	dest := image.NewGray(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, src, draw.Src, nil)
	return dest
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
