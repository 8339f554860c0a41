package dicom

import (
	"fmt"
	"log/slog"

	"github.com/jpfielding/voi.go/pkg/voi"
)

// ToSource converts a dataset into the pipeline's decoder record. Only the
// first frame of native little-endian pixel data is decodable; anything
// else comes back with DecodeOK false and the transfer syntax recorded.
func ToSource(ds *Dataset) voi.Source {
	syntax := GetTransferSyntax(ds)
	rows, cols := GetRows(ds), GetColumns(ds)
	bits := GetBitsAllocated(ds)

	src := voi.Source{
		Width:          uint32(max(cols, 0)),
		Height:         uint32(max(rows, 0)),
		Representation: voi.RepresentationOf(bits, GetPixelRepresentation(ds)),
		BitsAllocated:  bits,
		BitsStored:     GetBitsStored(ds),
		Modality:       GetModality(ds),
		TransferSyntax: string(syntax),
		Compressed:     syntax.IsEncapsulated(),
	}
	src.RescaleSlope, src.RescaleIntercept, src.RescaleDeclared = GetRescale(ds)
	src.Frames = GetNumberOfFrames(ds)
	if center, width, ok := GetWindow(ds); ok {
		src.VOI = &voi.VOI{Center: center, Width: width}
	}
	if row, col, ok := GetPixelSpacing(ds); ok {
		src.PixelSpacing = &voi.Spacing{Row: row, Col: col}
	}

	pd, ok := ds.PixelData()
	var reason string
	switch {
	case !ok:
		reason = "no pixel data"
	case pd.Encapsulated:
		src.Compressed = true
		reason = fmt.Sprintf("compressed pixel data (%s)", syntax.Name())
	case !syntax.IsNative():
		reason = fmt.Sprintf("unsupported transfer syntax (%s)", syntax.Name())
	case GetSamplesPerPixel(ds) != 1:
		reason = fmt.Sprintf("%d samples per pixel", GetSamplesPerPixel(ds))
	default:
		src.Raw = firstFrame(pd.Native, rows*cols*src.Representation.BytesPerSample())
		src.DecodeOK = true
	}
	if reason != "" {
		slog.Debug("pixel data not decodable",
			slog.String("reason", reason),
			slog.String("transfer_syntax", string(syntax)))
	}
	return src
}

// ReadSource reads a DICOM file and converts it with ToSource
func ReadSource(path string) (voi.Source, error) {
	ds, err := ReadFile(path)
	if err != nil {
		return voi.Source{}, fmt.Errorf("%w: %w", voi.ErrSourceDecodeFailed, err)
	}
	return ToSource(ds), nil
}

// firstFrame returns the leading frame of multi-frame data. Short buffers are
// passed through untouched so ingestion can report them as malformed.
func firstFrame(native []byte, frameSize int) []byte {
	if frameSize > 0 && len(native) > frameSize {
		return native[:frameSize]
	}
	return native
}
