// Package frame composes one rendered frame of the exhibit scene.
//
// Every frame runs the same fixed sequence on the goroutine that owns the GPU: the
// pre-passes that produce the portal and panel textures, the environment into the first
// chain target, and then one pass per enabled exhibit in far-to-near order. Each exhibit
// pass reads the scene accumulated so far from the chain and writes the next target; the
// last one writes the screen.
package frame

import (
	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("frame")

// PassContext is the camera and scene state every pass of one frame reads. It is built
// once at the start of a frame and never modified.
type PassContext struct {
	CameraPos      mgl32.Vec3
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	LightPos       mgl32.Vec3
	Time           float32
	ViewportWidth  int
	ViewportHeight int
}

// ViewProjection returns Projection * View.
func (c PassContext) ViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}

// InverseViewProjection maps clip space back to world space. Full-screen raymarchers use it
// to build a view ray per pixel.
func (c PassContext) InverseViewProjection() mgl32.Mat4 {
	return c.ViewProjection().Inv()
}

// SkyInverseViewProjection is InverseViewProjection with the camera translation removed,
// so the sky stays at infinity.
func (c PassContext) SkyInverseViewProjection() mgl32.Mat4 {
	view := c.View
	view[12], view[13], view[14] = 0, 0, 0
	return c.Projection.Mul4(view).Inv()
}

// Resolution returns the viewport size as a vector.
func (c PassContext) Resolution() mgl32.Vec2 {
	return mgl32.Vec2{float32(c.ViewportWidth), float32(c.ViewportHeight)}
}
