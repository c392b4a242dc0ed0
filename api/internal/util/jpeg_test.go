package util

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 160, B: 60, A: 255})
		}
	}
	return img
}

func TestToJPEGConvertsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(2, 2)))
	mt, _ := IsImage(buf.Bytes())
	require.Equal(t, "image/png", mt)

	out, err := ToJPEG(buf.Bytes(), MaxImageWidth)
	require.NoError(t, err)
	mt, ok := IsImage(out)
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", mt)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}

func TestToJPEGScalesWideImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(1600, 400), nil))

	out, err := ToJPEG(buf.Bytes(), MaxImageWidth)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestToJPEGKeepsSmallJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(10, 10), nil))
	out, err := ToJPEG(buf.Bytes(), MaxImageWidth)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), out)
}

func TestToJPEGRejectsNonImage(t *testing.T) {
	_, err := ToJPEG([]byte("%PDF-1.7\n"), MaxImageWidth)
	assert.ErrorContains(t, err, "unsupported image")
}
