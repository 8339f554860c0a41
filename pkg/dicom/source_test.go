package dicom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfielding/voi.go/pkg/dicom/tag"
	"github.com/jpfielding/voi.go/pkg/dicom/transfer"
	"github.com/jpfielding/voi.go/pkg/voi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSource_Native(t *testing.T) {
	ds, err := ReadBuffer(ctImage(transfer.ExplicitVRLittleEndian).
		element(tag.PixelData, "OW", int16Pixels(0, 1024, 1064, 4095)).
		bytes(true))
	require.NoError(t, err)

	src := ToSource(ds)
	assert.True(t, src.DecodeOK)
	assert.False(t, src.Compressed)
	assert.Equal(t, uint32(2), src.Width)
	assert.Equal(t, uint32(2), src.Height)
	assert.Equal(t, voi.Int16, src.Representation)
	assert.Equal(t, 12, src.BitsStored)
	assert.Equal(t, voi.Rescale{Slope: 1, Intercept: -1024}, src.Rescale())
	assert.True(t, src.RescaleDeclared)
	assert.Equal(t, 1, src.Frames)
	assert.Equal(t, &voi.VOI{Center: 40, Width: 400}, src.VOI)
	assert.Equal(t, &voi.Spacing{Row: 0.5, Col: 0.25}, src.PixelSpacing)
	assert.Equal(t, "CT", src.Modality)
	assert.Equal(t, string(transfer.ExplicitVRLittleEndian), src.TransferSyntax)

	v := voi.NewViewer()
	require.NoError(t, v.Load(src))
	assert.Equal(t, float32(2), v.AspectRatio())
	// physical -1024, 0, 40, 3071 against [-160, 240]
	assert.Equal(t, []byte{0, 102, 127, 255}, v.Display().Pix)
}

func TestToSource_FirstFrameOnly(t *testing.T) {
	ds, err := ReadBuffer(newPart10(transfer.ExplicitVRLittleEndian).
		us(tag.Rows, 1).
		us(tag.Columns, 2).
		str(tag.NumberOfFrames, "IS", "2").
		us(tag.BitsAllocated, 16).
		us(tag.PixelRepresentation, 0).
		element(tag.PixelData, "OW", int16Pixels(1, 2, 3, 4)).
		bytes(true))
	require.NoError(t, err)
	assert.Equal(t, 2, GetNumberOfFrames(ds))

	src := ToSource(ds)
	require.True(t, src.DecodeOK)
	assert.Equal(t, int16Pixels(1, 2), src.Raw)
	assert.Equal(t, 2, src.Frames)
	assert.False(t, src.RescaleDeclared)
	assert.Nil(t, src.VOI)
	assert.Equal(t, voi.DefaultRescale, src.Rescale())
}

func TestToSource_DeclaredZeroSlope(t *testing.T) {
	ds, err := ReadBuffer(newPart10(transfer.ExplicitVRLittleEndian).
		us(tag.Rows, 1).
		us(tag.Columns, 2).
		us(tag.BitsAllocated, 16).
		us(tag.PixelRepresentation, 0).
		str(tag.RescaleIntercept, "DS", "3").
		str(tag.RescaleSlope, "DS", "0").
		element(tag.PixelData, "OW", int16Pixels(10, 20)).
		bytes(true))
	require.NoError(t, err)

	src := ToSource(ds)
	require.True(t, src.RescaleDeclared)
	assert.Equal(t, voi.Rescale{Slope: 0, Intercept: 3}, src.Rescale())

	v := voi.NewViewer()
	require.NoError(t, v.Load(src))
	assert.Equal(t, []float64{3, 3}, v.Physical().Samples())
}

func TestToSource_ImagerPixelSpacingFallback(t *testing.T) {
	ds, err := ReadBuffer(newPart10(transfer.ExplicitVRLittleEndian).
		str(tag.Modality, "CS", "DX").
		str(tag.ImagerPixelSpacing, "DS", `0.1\0.2`).
		bytes(true))
	require.NoError(t, err)

	src := ToSource(ds)
	assert.Equal(t, &voi.Spacing{Row: 0.1, Col: 0.2}, src.PixelSpacing)
	assert.False(t, src.DecodeOK, "no pixel data")
}

func TestToSource_CenterOnlyWindow(t *testing.T) {
	ds, err := ReadBuffer(newPart10(transfer.ExplicitVRLittleEndian).
		str(tag.WindowCenter, "DS", "50").
		bytes(true))
	require.NoError(t, err)
	assert.Equal(t, &voi.VOI{Center: 50}, ToSource(ds).VOI)
}

func TestToSource_Compressed(t *testing.T) {
	p := ctImage(transfer.JPEG2000Lossless)
	w := p.undefined(tag.PixelData, "OB")
	item(w, tag.Item, 0)
	item(w, tag.Item, 2)
	w.Write([]byte{0xFF, 0x4F})
	item(w, tag.SequenceDelimitationItem, 0)

	ds, err := ReadBuffer(p.bytes(true))
	require.NoError(t, err)

	src := ToSource(ds)
	assert.False(t, src.DecodeOK)
	assert.True(t, src.Compressed)
	assert.Equal(t, string(transfer.JPEG2000Lossless), src.TransferSyntax)
	assert.Equal(t, "CT", src.Modality, "metadata still populated")

	err = voi.NewViewer().Load(src)
	assert.ErrorIs(t, err, voi.ErrSourceDecodeFailed)
}

func TestToSource_MultiSample(t *testing.T) {
	ds, err := ReadBuffer(newPart10(transfer.ExplicitVRLittleEndian).
		us(tag.SamplesPerPixel, 3).
		us(tag.Rows, 1).
		us(tag.Columns, 1).
		us(tag.BitsAllocated, 16).
		element(tag.PixelData, "OW", int16Pixels(1, 2, 3)).
		bytes(true))
	require.NoError(t, err)
	assert.False(t, ToSource(ds).DecodeOK)
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ct.dcm")
	require.NoError(t, os.WriteFile(path, ctImage(transfer.ExplicitVRLittleEndian).
		element(tag.PixelData, "OW", int16Pixels(0, 0, 0, 0)).
		bytes(true), 0o644))

	src, err := ReadSource(path)
	require.NoError(t, err)
	assert.True(t, src.DecodeOK)

	_, err = ReadSource(filepath.Join(t.TempDir(), "missing.dcm"))
	assert.ErrorIs(t, err, voi.ErrSourceDecodeFailed)
}
