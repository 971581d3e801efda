package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFrustumSphereVisible(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1, 0.1, 50)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := NewFrustum(proj.Mul4(view))

	assert.True(t, f.SphereVisible(mgl32.Vec3{0, 0, -5}, 0.5), "straight ahead")
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, 5}, 0.5), "behind")
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, -80}, 1), "past far plane")
	assert.False(t, f.SphereVisible(mgl32.Vec3{20, 0, -5}, 1), "far right")
	assert.True(t, f.SphereVisible(mgl32.Vec3{3.2, 0, -5}, 0.5), "straddles right plane")
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	f := NewFrustum(Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.01, 150))
	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
	}
	near := f.Planes[4]
	assert.InDelta(t, 0, near.SignedDistance(mgl32.Vec3{0, 0, -0.01}), 1e-4)
}
