package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPose sets the starting position and orientation.
//
// Parameters:
//   - position: world-space start position
//   - yaw: horizontal angle in degrees
//   - pitch: vertical angle in degrees
//
// Returns:
//   - CameraControllerOption: functional option to set the pose
func WithPose(position mgl32.Vec3, yaw, pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = position
		cc.yaw = yaw
		cc.pitch = pitch
	}
}

// WithMoveSpeed sets the distance moved per frame for each held movement key.
//
// Parameters:
//   - speed: world units per frame
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithRotationSpeed sets the mouse look sensitivity.
//
// Parameters:
//   - speed: degrees per pixel of mouse movement
//
// Returns:
//   - CameraControllerOption: functional option to set the rotation speed
func WithRotationSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotationSpeed = speed
	}
}

// WithEyeHeight sets the fixed y coordinate of the camera.
//
// Parameters:
//   - height: eye height in world units
//
// Returns:
//   - CameraControllerOption: functional option to set the eye height
func WithEyeHeight(height float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.eyeHeight = height
	}
}

// WithMapSize sets the side length of the square the camera is confined to.
//
// Parameters:
//   - size: full side length; the camera stays within ±size/2 on x and z
//
// Returns:
//   - CameraControllerOption: functional option to set the map size
func WithMapSize(size float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mapSize = size
	}
}

// WithPresets sets the poses reachable through ApplyPreset(0..n-1).
//
// Parameters:
//   - presets: the preset poses in key order
//
// Returns:
//   - CameraControllerOption: functional option to set the presets
func WithPresets(presets ...Preset) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.presets = presets
	}
}

// WithResetPreset sets the pose used by the reset-camera request.
//
// Parameters:
//   - p: the reset pose
//
// Returns:
//   - CameraControllerOption: functional option to set the reset pose
func WithResetPreset(p Preset) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.reset = p
	}
}
