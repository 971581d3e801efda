package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestWrapDegrees(t *testing.T) {
	cases := map[float32]float32{
		0:    0,
		359:  359,
		360:  0,
		-1:   359,
		725:  5,
		-720: 0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, WrapDegrees(in), 1e-4, "WrapDegrees(%v)", in)
	}
}

func TestWrapDegreesNonFinite(t *testing.T) {
	assert.Equal(t, float32(0), WrapDegrees(float32(math.NaN())))
	assert.Equal(t, float32(0), WrapDegrees(float32(math.Inf(1))))
}

func TestWrapDegreesTinyNegativeStaysBelow360(t *testing.T) {
	got := WrapDegrees(-1e-7)
	assert.GreaterOrEqual(t, got, float32(0))
	assert.Less(t, got, float32(360))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(-89), Clamp(-120, -89, 89))
	assert.Equal(t, float32(89), Clamp(95, -89, 89))
	assert.Equal(t, float32(12), Clamp(12, -89, 89))
}

func TestClampSize(t *testing.T) {
	w, h := ClampSize(0, -5)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)

	w, h = ClampSize(640, 480)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestPerspectiveMapsNearAndFarToUnitDepth(t *testing.T) {
	near, far := float32(0.5), float32(100)
	p := Perspective(mgl32.DegToRad(45), 16.0/9.0, near, far)

	project := func(z float32) float32 {
		clip := p.Mul4x1(mgl32.Vec4{0, 0, -z, 1})
		return clip.Z() / clip.W()
	}
	assert.InDelta(t, 0, project(near), 1e-5)
	assert.InDelta(t, 1, project(far), 1e-5)
}

func TestIsFiniteVec3(t *testing.T) {
	assert.True(t, IsFiniteVec3(mgl32.Vec3{1, 2, 3}))
	assert.False(t, IsFiniteVec3(mgl32.Vec3{1, float32(math.NaN()), 3}))
	assert.False(t, IsFinite(float32(math.Inf(-1))))
}

func TestSliceToBytes(t *testing.T) {
	b := SliceToBytes([]uint32{7, 0x01020304})
	assert.Len(t, b, 8)
	assert.Equal(t, uint32(7), binary.NativeEndian.Uint32(b[0:]))
	assert.Equal(t, uint32(0x01020304), binary.NativeEndian.Uint32(b[4:]))

	assert.Nil(t, SliceToBytes([]float32{}))
}
