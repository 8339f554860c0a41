// Package source opens image files as pipeline sources. DICOM Part 10
// files go through the native decoder adapter; anything else is decoded as
// a raster image and converted to 8-bit gray.
package source

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"log/slog"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jpfielding/voi.go/pkg/dicom"
	"github.com/jpfielding/voi.go/pkg/voi"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RasterVOI is the window declared for raster fallbacks, spanning the 8-bit range
var RasterVOI = voi.VOI{Center: 127.5, Width: 255}

// Open reads a file and converts it into a source
func Open(path string) (voi.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return voi.Source{}, fmt.Errorf("%w: reading %s: %w", voi.ErrSourceDecodeFailed, path, err)
	}
	src, err := Decode(data)
	if err != nil {
		return voi.Source{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return src, nil
}

// Decode converts file contents into a source, sniffing the DICM magic
func Decode(data []byte) (voi.Source, error) {
	if dicom.IsPart10(data) {
		ds, err := dicom.ReadBuffer(data)
		if err != nil {
			return voi.Source{}, fmt.Errorf("%w: %w", voi.ErrSourceDecodeFailed, err)
		}
		return dicom.ToSource(ds), nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return voi.Source{}, fmt.Errorf("%w: %w", voi.ErrSourceDecodeFailed, err)
	}
	slog.Debug("raster fallback", slog.String("format", format),
		slog.Int("width", img.Bounds().Dx()), slog.Int("height", img.Bounds().Dy()))
	return FromImage(img), nil
}

// FromImage converts any image to gray and stores it as unsigned 16-bit
// samples with the 8-bit window declared.
func FromImage(img image.Image) voi.Source {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	raw := make([]byte, 0, len(gray.Pix)*2)
	for _, y := range gray.Pix {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(y))
	}
	declared := RasterVOI
	return voi.Source{
		Raw:            raw,
		Width:          uint32(b.Dx()),
		Height:         uint32(b.Dy()),
		Representation: voi.Uint16,
		BitsAllocated:  16,
		BitsStored:     8,
		RescaleSlope:   1,
		VOI:            &declared,
		DecodeOK:       true,
	}
}
