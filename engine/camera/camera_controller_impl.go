package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89.0

var worldUp = mgl32.Vec3{0, 1, 0}

// cameraControllerImpl is the free-fly implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32

	// Cached basis, recomputed whenever yaw or pitch changes.
	front, right, up mgl32.Vec3

	moveSpeed     float32
	rotationSpeed float32
	eyeHeight     float32
	mapSize       float32

	presets []Preset
	reset   Preset
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a free-fly controller. Defaults match the stock scene:
// start (0, 1.7, 8) facing -Z, move speed 0.05, rotation speed 0.8 deg/px, map size 30.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:            &sync.Mutex{},
		position:      mgl32.Vec3{0, 1.7, 8},
		moveSpeed:     0.05,
		rotationSpeed: 0.8,
		eyeHeight:     1.7,
		mapSize:       30,
		reset:         Preset{Position: mgl32.Vec3{0, 1.7, 3}},
	}

	for _, option := range options {
		option(cc)
	}

	cc.normalize()
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) Basis() (front, right, up mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.front, cc.right, cc.up
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Add(cc.front)
}

func (cc *cameraControllerImpl) MapHalfExtent() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mapSize / 2
}

func (cc *cameraControllerImpl) EyeHeight() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.eyeHeight
}

func (cc *cameraControllerImpl) ProcessInput(s input.Snapshot) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if s.Preset != input.NoPreset {
		cc.applyPreset(s.Preset)
	}

	if s.Dragging {
		cc.look(s.MouseDX, s.MouseDY)
		cc.move(s)
	}

	cc.normalize()
}

func (cc *cameraControllerImpl) SetPose(position mgl32.Vec3, yaw, pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setPose(position, yaw, pitch)
}

func (cc *cameraControllerImpl) ApplyPreset(index int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.applyPreset(index)
}

// --- internal helpers ---

// Caller must hold the mutex.
func (cc *cameraControllerImpl) applyPreset(index int) {
	switch {
	case index == input.ResetPreset:
		cc.setPose(cc.reset.Position, cc.reset.Yaw, cc.reset.Pitch)
	case index >= 0 && index < len(cc.presets):
		p := cc.presets[index]
		cc.setPose(p.Position, p.Yaw, p.Pitch)
	}
}

// Caller must hold the mutex.
func (cc *cameraControllerImpl) setPose(position mgl32.Vec3, yaw, pitch float32) {
	if !common.IsFiniteVec3(position) || !common.IsFinite(yaw) || !common.IsFinite(pitch) {
		return
	}
	cc.position = position
	cc.yaw = yaw
	cc.pitch = pitch
	cc.normalize()
}

// look applies a mouse delta. Moving right turns right (yaw decreases), moving down looks down.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) look(dx, dy float32) {
	yaw := cc.yaw - dx*cc.rotationSpeed
	pitch := cc.pitch - dy*cc.rotationSpeed
	if !common.IsFinite(yaw) || !common.IsFinite(pitch) {
		return
	}
	cc.yaw = common.WrapDegrees(yaw)
	cc.pitch = common.Clamp(pitch, -maxPitch, maxPitch)
	cc.updateBasis()
}

// Caller must hold the mutex.
func (cc *cameraControllerImpl) move(s input.Snapshot) {
	step := mgl32.Vec3{}
	if s.IsHeld(common.KeyW) {
		step = step.Add(cc.front)
	}
	if s.IsHeld(common.KeyS) {
		step = step.Sub(cc.front)
	}
	if s.IsHeld(common.KeyD) {
		step = step.Add(cc.right)
	}
	if s.IsHeld(common.KeyA) {
		step = step.Sub(cc.right)
	}
	if s.IsHeld(common.KeyE) {
		step = step.Add(cc.up)
	}
	if s.IsHeld(common.KeyQ) {
		step = step.Sub(cc.up)
	}

	next := cc.position.Add(step.Mul(cc.moveSpeed))
	if common.IsFiniteVec3(next) {
		cc.position = next
	}
}

// normalize enforces the pose invariants: y at eye height, x/z inside the map,
// yaw in [0, 360), pitch in [-89, 89]. Caller must hold the mutex.
func (cc *cameraControllerImpl) normalize() {
	half := cc.mapSize / 2
	cc.position[0] = common.Clamp(cc.position[0], -half, half)
	cc.position[1] = cc.eyeHeight
	cc.position[2] = common.Clamp(cc.position[2], -half, half)
	cc.yaw = common.WrapDegrees(cc.yaw)
	cc.pitch = common.Clamp(cc.pitch, -maxPitch, maxPitch)
	cc.updateBasis()
}

// updateBasis recomputes front/right/up from yaw and pitch.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updateBasis() {
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(cc.yaw)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(cc.pitch)))
	cc.front = rot.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3().Normalize()
	cc.right = worldUp.Cross(cc.front.Mul(-1)).Normalize()
	cc.up = cc.front.Mul(-1).Cross(cc.right).Normalize()
}
