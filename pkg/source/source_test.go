package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfielding/voi.go/pkg/voi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func grayRamp() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 36)
	}
	return img
}

func TestFromImage_Gray(t *testing.T) {
	src := FromImage(grayRamp())
	assert.True(t, src.DecodeOK)
	assert.Equal(t, uint32(4), src.Width)
	assert.Equal(t, uint32(2), src.Height)
	assert.Equal(t, voi.Uint16, src.Representation)
	require.NotNil(t, src.VOI)
	assert.Equal(t, RasterVOI, *src.VOI)

	v := voi.NewViewer()
	require.NoError(t, v.Load(src))
	// the 8-bit window is the identity map
	assert.Equal(t, grayRamp().Pix, v.Display().Pix)
	assert.True(t, v.State().HasOriginalVOI)
}

func TestFromImage_Color(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	img.Set(11, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	src := FromImage(img)
	assert.Equal(t, uint32(2), src.Width)
	assert.Equal(t, []byte{76, 0, 255, 0}, src.Raw)
}

func TestDecode_Rasters(t *testing.T) {
	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(w *bytes.Buffer, m image.Image) error { return png.Encode(w, m) },
		"bmp":  func(w *bytes.Buffer, m image.Image) error { return bmp.Encode(w, m) },
		"tiff": func(w *bytes.Buffer, m image.Image) error { return tiff.Encode(w, m, nil) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, enc(&buf, grayRamp()))

			src, err := Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, FromImage(grayRamp()).Raw, src.Raw)
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, voi.ErrSourceDecodeFailed)

	// magic present but the element stream is cut short
	bad := append(make([]byte, 128), []byte("DICM\x02\x00\x10")...)
	_, err = Decode(bad)
	assert.ErrorIs(t, err, voi.ErrSourceDecodeFailed)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ramp.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, grayRamp()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	assert.True(t, src.DecodeOK)

	_, err = Open(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, voi.ErrSourceDecodeFailed)
}
