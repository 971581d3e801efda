package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// Lens holds the perspective projection parameters.
type Lens struct {
	// FovY is the vertical field of view in radians.
	FovY float32
	// Aspect is width over height.
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens is a 45 degree lens with square aspect, clipping at 0.01 and 150.
func DefaultLens() Lens {
	return Lens{FovY: mgl32.DegToRad(45), Aspect: 1, Near: 0.01, Far: 150}
}

// Matrices are the transforms derived from the controller pose and the lens.
type Matrices struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	// ViewProjection is Projection * View.
	ViewProjection mgl32.Mat4
}

type cameraImpl struct {
	mu *sync.Mutex

	lens       Lens
	matrices   Matrices
	controller CameraController
}

// Camera pairs a CameraController, which owns the pose, with a Lens. Matrices are
// recomputed whenever input is processed or the lens changes.
type Camera interface {
	// Lens returns the projection parameters.
	//
	// Returns:
	//   - Lens: the current lens
	Lens() Lens

	// SetAspect changes the lens aspect ratio after a resize. Non-positive or non-finite
	// values are ignored.
	//
	// Parameters:
	//   - aspect: width over height
	SetAspect(aspect float32)

	// Position returns the controller's eye position.
	Position() mgl32.Vec3

	// Matrices returns the transforms for the current pose. The projection uses WebGPU's
	// [0, 1] depth range.
	//
	// Returns:
	//   - Matrices: view, projection and their product
	Matrices() Matrices

	// Controller returns the attached CameraController.
	Controller() CameraController

	// ProcessInput moves the controller and recomputes the matrices.
	//
	// Parameters:
	//   - s: the frame's input snapshot
	ProcessInput(s input.Snapshot)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with DefaultLens and a default free-fly controller unless
// options supply others.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:   &sync.Mutex{},
		lens: DefaultLens(),
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.refresh()
	return c
}

func (c *cameraImpl) Lens() Lens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lens
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || !common.IsFinite(aspect) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.Aspect = aspect
	c.refresh()
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.controller.Position()
}

func (c *cameraImpl) Matrices() Matrices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrices
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) ProcessInput(s input.Snapshot) {
	c.controller.ProcessInput(s)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
}

// refresh rebuilds the matrices from the controller pose. Caller must hold the mutex.
func (c *cameraImpl) refresh() {
	eye := c.controller.Position()
	front, _, up := c.controller.Basis()

	view := mgl32.LookAtV(eye, eye.Add(front), up)
	proj := common.Perspective(c.lens.FovY, c.lens.Aspect, c.lens.Near, c.lens.Far)
	c.matrices = Matrices{View: view, Projection: proj, ViewProjection: proj.Mul4(view)}
}
