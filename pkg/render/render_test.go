package render

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	_ "image/jpeg"
	_ "image/png"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func ramp(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return img
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, ".JPG": JPEG, "jpeg": JPEG, "tif": TIFF, "bmp": BMP} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("gif")
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	want := map[Format]string{PNG: "png", JPEG: "jpeg", TIFF: "tiff", BMP: "bmp"}
	for format, name := range want {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, ramp(8, 4), Options{Format: format, JPEGQuality: 95}))

			img, got, err := image.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, name, got)
			assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
		})
	}

	err := Encode(&bytes.Buffer{}, ramp(1, 1), Options{Format: "gif"})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	require.NoError(t, WriteFile(path, ramp(3, 3), Options{Format: PNG}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, ramp(3, 3).Pix, img.(*image.Gray).Pix)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	err = WriteFile(filepath.Join(dir, "bad.gif"), ramp(1, 1), Options{Format: "gif"})
	assert.Error(t, err)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCorrectAspect(t *testing.T) {
	src := ramp(10, 10)
	assert.Same(t, src, CorrectAspect(src, 1))
	assert.Same(t, src, CorrectAspect(src, 0))
	assert.Same(t, src, CorrectAspect(src, -2))

	tall := CorrectAspect(src, 2)
	assert.Equal(t, image.Rect(0, 0, 10, 20), tall.Bounds())

	wide := CorrectAspect(src, 0.5)
	assert.Equal(t, image.Rect(0, 0, 20, 10), wide.Bounds())
}

func TestCorrectAspect_Bounded(t *testing.T) {
	src := ramp(10, 10)
	assert.Equal(t, image.Rect(0, 0, 10*MaxAspect, 10), CorrectAspect(src, 1e-6).Bounds())
	assert.Equal(t, image.Rect(0, 0, 10, 10*MaxAspect), CorrectAspect(src, 1e6).Bounds())

	long := ramp(2, 2000)
	assert.Equal(t, image.Rect(0, 0, 2, MaxDimension), CorrectAspect(long, 16).Bounds())

	// already past the cap, the stretched side stays put
	huge := image.NewGray(image.Rect(0, 0, 1, MaxDimension+10))
	assert.Same(t, image.Image(huge), CorrectAspect(huge, 2))
}
