package assets

import (
	"math"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/go-gl/mathgl/mgl32"
)

// SkyPalette colors a procedural sky.
type SkyPalette struct {
	Zenith  mgl32.Vec3
	Horizon mgl32.Vec3
	Ground  mgl32.Vec3
}

var (
	// DaySky is the main world's procedural sky.
	DaySky = SkyPalette{
		Zenith:  mgl32.Vec3{0.18, 0.36, 0.78},
		Horizon: mgl32.Vec3{0.85, 0.9, 1.0},
		Ground:  mgl32.Vec3{0.25, 0.22, 0.2},
	}
	// DuskSky is the portal world's procedural sky.
	DuskSky = SkyPalette{
		Zenith:  mgl32.Vec3{0.2, 0.05, 0.35},
		Horizon: mgl32.Vec3{1.0, 0.5, 0.25},
		Ground:  mgl32.Vec3{0.1, 0.05, 0.1},
	}
)

const proceduralFaceSize = 64

func newStaging(w, h int) common.TextureStagingData {
	return common.TextureStagingData{
		Pixels: make([]byte, w*h*4),
		Width:  uint32(w),
		Height: uint32(h),
	}
}

func putPixel(t common.TextureStagingData, x, y int, c mgl32.Vec3) {
	i := (y*int(t.Width) + x) * 4
	for k := 0; k < 3; k++ {
		t.Pixels[i+k] = uint8(mgl32.Clamp(c[k], 0, 1)*255 + 0.5)
	}
	t.Pixels[i+3] = 255
}

// Checker returns a size x size two-tone checkerboard with tiles x tiles squares.
func Checker(size, tiles int, a, b mgl32.Vec3) common.TextureStagingData {
	size, tiles = max(size, 1), max(tiles, 1)
	t := newStaging(size, size)
	cell := max(size/tiles, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			putPixel(t, x, y, c)
		}
	}
	return t
}

// FlatNormal returns a tangent-space normal map pointing straight out of the surface.
func FlatNormal() common.TextureStagingData {
	t := newStaging(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			putPixel(t, x, y, mgl32.Vec3{0.5, 0.5, 1})
		}
	}
	return t
}

// cubeFaceDir returns the direction through (u, v) in [-1, 1] on a cube face in
// +X, -X, +Y, -Y, +Z, -Z order. v grows downward.
func cubeFaceDir(face int, u, v float32) mgl32.Vec3 {
	switch face {
	case 0:
		return mgl32.Vec3{1, -v, -u}
	case 1:
		return mgl32.Vec3{-1, -v, u}
	case 2:
		return mgl32.Vec3{u, 1, v}
	case 3:
		return mgl32.Vec3{u, -1, -v}
	case 4:
		return mgl32.Vec3{u, -v, 1}
	default:
		return mgl32.Vec3{-u, -v, -1}
	}
}

// SkyFace returns one face of a procedural gradient sky cube map.
//
// Parameters:
//   - face: the face index in +X, -X, +Y, -Y, +Z, -Z order
//   - palette: the sky colors
//
// Returns:
//   - common.TextureStagingData: a square RGBA face
func SkyFace(face int, palette SkyPalette) common.TextureStagingData {
	n := proceduralFaceSize
	t := newStaging(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			u := (float32(x)+0.5)/float32(n)*2 - 1
			v := (float32(y)+0.5)/float32(n)*2 - 1
			up := cubeFaceDir(face, u, v).Normalize().Y()

			var c mgl32.Vec3
			if up >= 0 {
				k := float32(math.Pow(float64(up), 0.5))
				c = palette.Horizon.Mul(1 - k).Add(palette.Zenith.Mul(k))
			} else {
				k := mgl32.Clamp(-up*4, 0, 1)
				c = palette.Horizon.Mul(1 - k).Add(palette.Ground.Mul(k))
			}
			putPixel(t, x, y, c)
		}
	}
	return t
}
