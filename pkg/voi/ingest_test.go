package voi

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le16(vals ...uint16) []byte {
	out := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

func le32(vals ...uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func TestIngest_SignedVersusUnsigned(t *testing.T) {
	var v int16 = -1000
	raw := le16(uint16(v))

	signed, err := Ingest(raw, Int16, 1, 1, DefaultRescale)
	require.NoError(t, err)
	assert.Equal(t, -1000.0, signed.At(0))

	unsigned, err := Ingest(raw, Uint16, 1, 1, DefaultRescale)
	require.NoError(t, err)
	assert.Equal(t, 64536.0, unsigned.At(0))
}

func TestIngest_Representations(t *testing.T) {
	cases := []struct {
		name string
		rep  Representation
		raw  []byte
		want []float64
	}{
		{name: "uint16", rep: Uint16, raw: le16(0, 1, 65535), want: []float64{0, 1, 65535}},
		{name: "int16", rep: Int16, raw: le16(0, 0x7FFF, 0x8000), want: []float64{0, 32767, -32768}},
		{name: "uint32", rep: Uint32, raw: le32(0, 70000, 0xFFFFFFFF), want: []float64{0, 70000, 4294967295}},
		{name: "int32", rep: Int32, raw: le32(1, 0xFFFFFFFF, 0x80000000), want: []float64{1, -1, -2147483648}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := Ingest(tc.raw, tc.rep, 3, 1, DefaultRescale)
			require.NoError(t, err)
			assert.Equal(t, tc.want, buf.Samples())
		})
	}
}

func TestIngest_AppliesRescale(t *testing.T) {
	buf, err := Ingest(le16(1024, 0, 2048), Uint16, 3, 1, Rescale{Slope: 1, Intercept: -1024})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, -1024, 1024}, buf.Samples())

	buf, err = Ingest(le16(10), Uint16, 1, 1, Rescale{Slope: 2.5, Intercept: 3})
	require.NoError(t, err)
	assert.Equal(t, 28.0, buf.At(0))
}

func TestIngest_Dimensions(t *testing.T) {
	buf, err := Ingest(le16(1, 2, 3, 4, 5, 6), Uint16, 3, 2, DefaultRescale)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Width())
	assert.Equal(t, 2, buf.Height())
	assert.Equal(t, 6, buf.Len())
}

func TestIngest_Malformed(t *testing.T) {
	_, err := Ingest(le16(1, 2, 3), Uint16, 2, 2, DefaultRescale)
	assert.ErrorIs(t, err, ErrMalformedPixelData)

	_, err = Ingest(le16(1, 2, 3, 4), Uint32, 2, 2, DefaultRescale)
	assert.ErrorIs(t, err, ErrMalformedPixelData)

	_, err = Ingest(nil, Int16, 0, 4, DefaultRescale)
	assert.ErrorIs(t, err, ErrMalformedPixelData)

	_, err = Ingest(le16(1), Int16, 1, -1, DefaultRescale)
	assert.ErrorIs(t, err, ErrMalformedPixelData)

	// the byte count would wrap around
	_, err = Ingest(nil, Uint32, math.MaxInt/2, 4, DefaultRescale)
	assert.ErrorIs(t, err, ErrMalformedPixelData)
	_, err = Ingest([]byte{}, Int16, math.MaxInt, 2, DefaultRescale)
	assert.ErrorIs(t, err, ErrMalformedPixelData)
}

func TestIngest_UnsupportedRepresentation(t *testing.T) {
	rep := RepresentationOf(8, 0)
	_, err := Ingest([]byte{1, 2, 3, 4}, rep, 2, 2, DefaultRescale)
	require.ErrorIs(t, err, ErrUnsupportedRepresentation)

	var repErr *UnsupportedRepresentationError
	require.ErrorAs(t, err, &repErr)
	assert.Equal(t, rep, repErr.Representation)
	assert.Contains(t, err.Error(), "8-bit unsigned")
}

func TestIngest_ParallelMatchesSerial(t *testing.T) {
	width, height := 512, 300
	vals := make([]uint16, width*height)
	for i := range vals {
		vals[i] = uint16(i * 7)
	}
	raw := le16(vals...)
	rescale := Rescale{Slope: 0.5, Intercept: -100}

	serial, err := Ingest(raw, Int16, width, height, rescale, WithWorkers(1))
	require.NoError(t, err)
	par, err := Ingest(raw, Int16, width, height, rescale, WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, serial.Samples(), par.Samples())
}

func TestRepresentation(t *testing.T) {
	assert.Equal(t, Uint16, RepresentationOf(16, 0))
	assert.Equal(t, Int16, RepresentationOf(16, 1))
	assert.Equal(t, Uint32, RepresentationOf(32, 0))
	assert.Equal(t, Int32, RepresentationOf(32, 1))

	assert.Equal(t, 2, Int16.BytesPerSample())
	assert.Equal(t, 4, Uint32.BytesPerSample())
	assert.Equal(t, 0, RepresentationOf(12, 0).BytesPerSample())

	assert.True(t, Int32.Signed())
	assert.False(t, Uint16.Signed())
	assert.False(t, RepresentationOf(8, 1).Supported())
	assert.Equal(t, "16-bit signed", Int16.String())
}

func TestRepresentation_OutOfRangeBitsDoNotAlias(t *testing.T) {
	cases := []struct {
		bits, pixelRep int
		alias          Representation
		name           string
	}{
		{bits: 0x8010, pixelRep: 0, alias: Uint16, name: "32784-bit unsigned"},
		{bits: 0x8020, pixelRep: 1, alias: Int32, name: "32800-bit signed"},
		{bits: 0x10010, pixelRep: 0, alias: Uint16, name: "65552-bit unsigned"},
		{bits: -16, pixelRep: 1, alias: Int16, name: "0-bit signed"},
	}
	for _, tc := range cases {
		rep := RepresentationOf(tc.bits, tc.pixelRep)
		assert.NotEqual(t, tc.alias, rep, "bits %d", tc.bits)
		assert.False(t, rep.Supported(), "bits %d", tc.bits)
		assert.Equal(t, tc.name, rep.String())

		_, err := Ingest(le16(7), rep, 1, 1, DefaultRescale)
		assert.ErrorIs(t, err, ErrUnsupportedRepresentation, "bits %d", tc.bits)
	}
	assert.False(t, RepresentationOf(math.MaxInt, 0).Supported())
}

func TestNewPhysicalBuffer(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	buf, err := NewPhysicalBuffer(2, 2, samples)
	require.NoError(t, err)
	samples[0] = 99
	assert.Equal(t, 1.0, buf.At(0), "buffer must own its samples")

	_, err = NewPhysicalBuffer(3, 2, samples)
	assert.ErrorIs(t, err, ErrMalformedPixelData)
}
