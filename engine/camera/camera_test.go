package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func snapshot(dragging bool, dx, dy float32, keys ...uint32) input.Snapshot {
	held := make(map[uint32]bool)
	for _, k := range keys {
		held[k] = true
	}
	return input.Snapshot{Held: held, MouseDX: dx, MouseDY: dy, Dragging: dragging, Preset: input.NoPreset}
}

func assertVec(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		if !assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got) {
			if len(msgAndArgs) > 0 {
				t.Log(msgAndArgs...)
			}
		}
	}
}

func TestDefaultBasisFacesNegativeZ(t *testing.T) {
	cc := NewCameraController()
	front, right, up := cc.Basis()
	assertVec(t, mgl32.Vec3{0, 0, -1}, front)
	assertVec(t, mgl32.Vec3{1, 0, 0}, right)
	assertVec(t, mgl32.Vec3{0, 1, 0}, up)
	assertVec(t, mgl32.Vec3{0, 1.7, 8}, cc.Position())
}

func TestMovementOnlyInControlMode(t *testing.T) {
	cc := NewCameraController()
	cc.ProcessInput(snapshot(false, 0, 0, common.KeyW))
	assertVec(t, mgl32.Vec3{0, 1.7, 8}, cc.Position())

	cc.ProcessInput(snapshot(true, 0, 0, common.KeyW))
	assertVec(t, mgl32.Vec3{0, 1.7, 7.95}, cc.Position())

	cc.ProcessInput(snapshot(true, 0, 0, common.KeyD))
	assertVec(t, mgl32.Vec3{0.05, 1.7, 7.95}, cc.Position())
}

func TestVerticalMovementIsFlattenedToEyeHeight(t *testing.T) {
	cc := NewCameraController()
	for i := 0; i < 50; i++ {
		cc.ProcessInput(snapshot(true, 0, 0, common.KeyE))
	}
	assert.Equal(t, float32(1.7), cc.Position().Y())
}

func TestPositionClampedToMap(t *testing.T) {
	cc := NewCameraController()
	// 90 degrees left, then walk forward far past the edge
	cc.SetPose(mgl32.Vec3{0, 1.7, 0}, 90, 0)
	for i := 0; i < 1000; i++ {
		cc.ProcessInput(snapshot(true, 0, 0, common.KeyW, common.KeyA))
	}
	p := cc.Position()
	half := cc.MapHalfExtent()
	assert.LessOrEqual(t, float32(math.Abs(float64(p.X()))), half)
	assert.LessOrEqual(t, float32(math.Abs(float64(p.Z()))), half)
	assert.Equal(t, cc.EyeHeight(), p.Y())
	assert.InDelta(t, -15, p.X(), 1e-5)
}

func TestMouseLookWrapsYawAndClampsPitch(t *testing.T) {
	cc := NewCameraController()

	cc.ProcessInput(snapshot(true, 10, 0))
	assert.InDelta(t, 352, cc.Yaw(), 1e-4, "yaw -= dx * 0.8 then wraps")

	cc.ProcessInput(snapshot(true, 0, -500))
	assert.Equal(t, float32(89), cc.Pitch())

	cc.ProcessInput(snapshot(true, 0, 1000))
	assert.Equal(t, float32(-89), cc.Pitch())

	for i := 0; i < 200; i++ {
		cc.ProcessInput(snapshot(true, -37, 3))
		assert.GreaterOrEqual(t, cc.Yaw(), float32(0))
		assert.Less(t, cc.Yaw(), float32(360))
		assert.GreaterOrEqual(t, cc.Pitch(), float32(-89))
		assert.LessOrEqual(t, cc.Pitch(), float32(89))
	}
}

func TestNaNInputIsDiscarded(t *testing.T) {
	cc := NewCameraController()
	nan := float32(math.NaN())

	cc.ProcessInput(snapshot(true, nan, nan, common.KeyW))
	assert.Equal(t, float32(0), cc.Yaw())
	assert.Equal(t, float32(0), cc.Pitch())
	assert.True(t, common.IsFiniteVec3(cc.Position()))

	before := cc.Position()
	cc.SetPose(mgl32.Vec3{nan, 0, 0}, 0, 0)
	assert.Equal(t, before, cc.Position())

	cc.SetPose(mgl32.Vec3{1, 1, 1}, float32(math.Inf(1)), 0)
	assert.Equal(t, before, cc.Position())
}

func TestPresetsAndReset(t *testing.T) {
	cc := NewCameraController(WithPresets(Preset{Position: mgl32.Vec3{5, 9, 5}, Yaw: 400, Pitch: 120}))

	s := snapshot(false, 0, 0)
	s.Preset = 0
	cc.ProcessInput(s)
	assertVec(t, mgl32.Vec3{5, 1.7, 5}, cc.Position())
	assert.InDelta(t, 40, cc.Yaw(), 1e-4)
	assert.Equal(t, float32(89), cc.Pitch())

	s.Preset = input.ResetPreset
	cc.ProcessInput(s)
	assertVec(t, mgl32.Vec3{0, 1.7, 3}, cc.Position())
	assert.Equal(t, float32(0), cc.Yaw())

	s.Preset = 7
	cc.ProcessInput(s)
	assertVec(t, mgl32.Vec3{0, 1.7, 3}, cc.Position(), "unknown preset ignored")
}

func TestCameraMatrices(t *testing.T) {
	c := NewCamera(WithLens(60, 16.0/9.0, 0, 0))
	m := c.Matrices()
	view := m.View

	// the eye maps to the view-space origin
	eye := view.Mul4x1(c.Position().Vec4(1))
	assertVec(t, mgl32.Vec3{}, eye.Vec3())

	// a point straight ahead lands in front of the camera (negative view z)
	ahead := view.Mul4x1(mgl32.Vec4{0, 1.7, 0, 1})
	assert.Less(t, ahead.Z(), float32(0))

	c.SetAspect(0)
	lens := c.Lens()
	assert.InDelta(t, 16.0/9.0, lens.Aspect, 1e-6)
	assert.InDelta(t, mgl32.DegToRad(60), lens.FovY, 1e-6)
	assert.Equal(t, DefaultLens().Near, lens.Near, "zero keeps the default")

	assert.Equal(t, m.Projection.Mul4(view), m.ViewProjection)

	c.SetAspect(2)
	assert.NotEqual(t, m.Projection, c.Matrices().Projection)
}
