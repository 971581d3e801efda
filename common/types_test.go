package common

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.RGBA) TextureStagingData {
	pix := make([]byte, 0, w*h*4)
	for i := 0; i < w*h; i++ {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return TextureStagingData{Pixels: pix, Width: uint32(w), Height: uint32(h)}
}

func TestResizeRGBA(t *testing.T) {
	src := solid(4, 2, color.RGBA{R: 200, G: 40, B: 10, A: 255})

	out := ResizeRGBA(src, 8, 8)
	require.True(t, out.Valid())
	assert.Equal(t, uint32(8), out.Width)
	assert.Equal(t, uint32(8), out.Height)
	require.Len(t, out.Pixels, 8*8*4)
	for i := 0; i < len(out.Pixels); i += 4 {
		assert.InDelta(t, 200, int(out.Pixels[i]), 1)
		assert.InDelta(t, 40, int(out.Pixels[i+1]), 1)
		assert.InDelta(t, 10, int(out.Pixels[i+2]), 1)
		assert.InDelta(t, 255, int(out.Pixels[i+3]), 1)
	}

	same := ResizeRGBA(src, 4, 2)
	assert.Equal(t, src, same)
}

func TestDecodeImageBytesBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	data, err := DecodeImageBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Equal(t, []byte{9, 8, 7, 255}, data.Pixels[(1*3+2)*4:(1*3+2)*4+4])

	_, err = DecodeImageBytes(nil)
	assert.Error(t, err)
}
