package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01}
	b64 := base64.StdEncoding.EncodeToString(raw)

	got, mime, err := DecodeBase64MaybeDataURL(b64)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Empty(t, mime)

	got, mime, err = DecodeBase64MaybeDataURL("data:image/png;base64," + b64)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Equal(t, "image/png", mime)

	got, _, err = DecodeBase64MaybeDataURL(base64.URLEncoding.EncodeToString([]byte{0xFB, 0xFF}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFB, 0xFF}, got)

	_, _, err = DecodeBase64MaybeDataURL("not base64 at all!")
	assert.Error(t, err)
}

func TestHashImages(t *testing.T) {
	a := HashImages([]string{"AAAA", "BBBB"})
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashImages([]string{"AAAA", "BBBB"}))
	assert.NotEqual(t, a, HashImages([]string{"BBBB", "AAAA"}))
	assert.NotEqual(t, HashImages([]string{"AB", "C"}), HashImages([]string{"A", "BC"}))
}

func TestIsImage(t *testing.T) {
	mt, ok := IsImage(pngHeader)
	assert.True(t, ok)
	assert.Equal(t, "image/png", mt)

	_, ok = IsImage([]byte("%PDF-1.7\n"))
	assert.False(t, ok)

	_, ok = IsImage(nil)
	assert.False(t, ok)
}
