// Package dicom reads DICOM Part 10 files far enough to feed the windowing
// pipeline: image geometry, sample representation, rescale, declared VOI,
// pixel spacing and native pixel data.
//
// Basic usage:
//
//	ds, err := dicom.ReadFile("/path/to/image.dcm")
//	if err != nil {
//		log.Fatal(err)
//	}
//	v := voi.NewViewer()
//	err = v.Load(dicom.ToSource(ds))
package dicom

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jpfielding/voi.go/pkg/dicom/tag"
	"github.com/jpfielding/voi.go/pkg/dicom/transfer"
)

// Magic is the marker following the 128 byte preamble
const Magic = "DICM"

// IsPart10 reports whether b starts with a Part 10 preamble and magic
func IsPart10(b []byte) bool {
	return len(b) >= 132 && string(b[128:132]) == Magic
}

// ReadFile reads a DICOM file from disk
func ReadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return ReadBuffer(data)
}

// ReadBuffer reads a DICOM file from a byte slice
func ReadBuffer(data []byte) (*Dataset, error) {
	return Parse(bytes.NewReader(data))
}

// GetModality returns the modality string from the dataset
func GetModality(ds *Dataset) string {
	s, _ := ds.String(tag.Modality)
	return strings.TrimSpace(s)
}

// GetTransferSyntax returns the transfer syntax the dataset was read with
func GetTransferSyntax(ds *Dataset) transfer.Syntax {
	if ds == nil {
		return ""
	}
	return ds.TransferSyntax
}

// GetRows returns the number of rows in the image
func GetRows(ds *Dataset) int {
	v, _ := ds.Int(tag.Rows)
	return v
}

// GetColumns returns the number of columns in the image
func GetColumns(ds *Dataset) int {
	v, _ := ds.Int(tag.Columns)
	return v
}

// GetNumberOfFrames returns the number of frames, 1 if not specified
func GetNumberOfFrames(ds *Dataset) int {
	if v, ok := ds.Int(tag.NumberOfFrames); ok && v > 0 {
		return v
	}
	return 1
}

// GetSamplesPerPixel returns the samples per pixel, 1 if not specified
func GetSamplesPerPixel(ds *Dataset) int {
	if v, ok := ds.Int(tag.SamplesPerPixel); ok {
		return v
	}
	return 1
}

// GetBitsAllocated returns the bits allocated per sample
func GetBitsAllocated(ds *Dataset) int {
	v, _ := ds.Int(tag.BitsAllocated)
	return v
}

// GetBitsStored returns the bits stored per sample, bits allocated if absent
func GetBitsStored(ds *Dataset) int {
	if v, ok := ds.Int(tag.BitsStored); ok {
		return v
	}
	return GetBitsAllocated(ds)
}

// GetPixelRepresentation returns 0 for unsigned and 1 for signed samples
func GetPixelRepresentation(ds *Dataset) int {
	v, _ := ds.Int(tag.PixelRepresentation)
	return v
}

// GetRescale returns the rescale slope and intercept. Absent tags default to
// slope 1 and intercept 0; ok reports whether either tag was present.
func GetRescale(ds *Dataset) (slope, intercept float64, ok bool) {
	slope, intercept = 1, 0
	if v, found := ds.Float(tag.RescaleSlope); found {
		slope, ok = v, true
	}
	if v, found := ds.Float(tag.RescaleIntercept); found {
		intercept, ok = v, true
	}
	return slope, intercept, ok
}

// GetWindow returns the first declared window center and width. ok reports
// whether either tag was present; a missing width reads as 0.
func GetWindow(ds *Dataset) (center, width float64, ok bool) {
	if v, found := ds.Float(tag.WindowCenter); found {
		center, ok = v, true
	}
	if v, found := ds.Float(tag.WindowWidth); found {
		width, ok = v, true
	}
	return center, width, ok
}

// GetPixelSpacing returns the row and column spacing in mm, preferring
// PixelSpacing over ImagerPixelSpacing.
func GetPixelSpacing(ds *Dataset) (row, col float64, ok bool) {
	for _, t := range []tag.Tag{tag.PixelSpacing, tag.ImagerPixelSpacing} {
		if vals, found := ds.Floats(t); found && len(vals) >= 2 {
			return vals[0], vals[1], true
		}
	}
	return 0, 0, false
}
