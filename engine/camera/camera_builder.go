package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithLens replaces the whole lens. Zero fields keep their DefaultLens value, and the
// field of view is given in degrees.
//
// Parameters:
//   - fovDegrees: vertical field of view in degrees
//   - aspect: width over height
//   - near, far: clipping distances
//
// Returns:
//   - CameraBuilderOption: the option
func WithLens(fovDegrees, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fovDegrees > 0 {
			c.lens.FovY = mgl32.DegToRad(fovDegrees)
		}
		if aspect > 0 {
			c.lens.Aspect = aspect
		}
		if near > 0 {
			c.lens.Near = near
		}
		if far > 0 {
			c.lens.Far = far
		}
	}
}

// WithController attaches the controller that owns the camera pose.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
