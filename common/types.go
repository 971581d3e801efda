// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Valid reports whether the staging data describes a non-empty image whose pixel buffer
// matches its declared dimensions.
//
// Returns:
//   - bool: true if the pixel buffer length equals Width*Height*4 and both dimensions are non-zero
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == int(t.Width*t.Height*4)
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields fall back to linear filtering and repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DecodeImageFile decodes a PNG or JPEG file from disk into RGBA staging data.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}
	return data, nil
}

// DecodeImageBytes decodes an in-memory PNG, JPEG, BMP, TIFF or WebP image into RGBA staging data.
//
// Parameters:
//   - b: the encoded image bytes
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if decoding fails
func DecodeImageBytes(b []byte) (TextureStagingData, error) {
	if len(b) == 0 {
		return TextureStagingData{}, fmt.Errorf("image data is empty")
	}
	return DecodeImage(bytes.NewReader(b))
}

// DecodeImage decodes any registered image format from r and converts it to tightly packed RGBA.
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if decoding fails
func DecodeImage(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// ResizeRGBA scales tightly packed RGBA staging data to the given size with a Catmull-Rom
// filter. Data already at that size is returned unchanged.
//
// Parameters:
//   - data: the source pixels
//   - width: the target width in pixels
//   - height: the target height in pixels
//
// Returns:
//   - TextureStagingData: the resized pixels
func ResizeRGBA(data TextureStagingData, width, height uint32) TextureStagingData {
	if data.Width == width && data.Height == height {
		return data
	}
	src := &image.RGBA{
		Pix:    data.Pixels,
		Stride: int(data.Width) * 4,
		Rect:   image.Rect(0, 0, int(data.Width), int(data.Height)),
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return TextureStagingData{Pixels: dst.Pix, Width: width, Height: height}
}
