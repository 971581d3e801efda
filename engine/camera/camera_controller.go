package camera

import (
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController defines a first-person free-fly controller bounded to a square map at
// a fixed eye height. Controllers own positional state (position, yaw, pitch); the Camera
// reads from the controller and computes view/projection matrices.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Yaw returns the horizontal angle in degrees, always in [0, 360).
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Pitch returns the vertical angle in degrees, always in [-89, 89].
	//
	// Returns:
	//   - float32: pitch in degrees
	Pitch() float32

	// Basis returns the normalized front, right and up vectors derived from yaw and pitch.
	// front = RotY(yaw) * RotX(pitch) * (0, 0, -1).
	//
	// Returns:
	//   - front, right, up: the camera's local axes in world space
	Basis() (front, right, up mgl32.Vec3)

	// Target returns the point one unit ahead of the camera along front.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at point
	Target() mgl32.Vec3

	// ProcessInput applies one frame of input. Presets are applied first. Movement and mouse
	// look only apply while the snapshot is in camera control mode (right button held).
	// Afterwards the position is flattened to eye height and clamped to the map.
	//
	// Parameters:
	//   - s: the frame's input snapshot
	ProcessInput(s input.Snapshot)

	// SetPose places the camera. Non-finite values are discarded and the previous pose is kept.
	// The pose is normalized the same way ProcessInput normalizes it.
	//
	// Parameters:
	//   - position: world-space position
	//   - yaw: horizontal angle in degrees
	//   - pitch: vertical angle in degrees
	SetPose(position mgl32.Vec3, yaw, pitch float32)

	// ApplyPreset jumps to a configured preset. Unknown indices are ignored.
	//
	// Parameters:
	//   - index: 0-based preset index, or input.ResetPreset
	ApplyPreset(index int)

	// MapHalfExtent returns half the side length of the walkable square.
	//
	// Returns:
	//   - float32: the bound applied to |x| and |z|
	MapHalfExtent() float32

	// EyeHeight returns the fixed y coordinate of the camera.
	//
	// Returns:
	//   - float32: eye height in world units
	EyeHeight() float32
}

// Preset is a camera pose that ApplyPreset can jump to.
type Preset struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}
