package frame

import (
	"errors"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/assets"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/target"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	portalFovDegrees = 60
	portalNear       = 0.05
	portalFar        = 100
	subSceneBoxes    = 6
	subSceneRadius   = 4
)

var (
	portalClear = renderer.Color{R: 0, G: 0, B: 0, A: 1}
	panelClear  = renderer.Color{R: 0, G: 0, B: 0, A: 1}
)

// PrePassOutputs are the textures the pre-passes produced this frame. An output is nil
// when its exhibit is disabled.
type PrePassOutputs struct {
	// Portal is the other world as seen from the portal looking at the viewer.
	Portal renderer.Texture
	// Panel is the generative pattern the kaleidoscope mirrors.
	Panel renderer.Texture
}

// PrePassScheduler renders the offscreen inputs some exhibits sample, once per frame and
// before any chain pass. It owns its targets; the chain never sees them.
type PrePassScheduler interface {
	// Run renders every pre-pass whose exhibit is enabled.
	//
	// Parameters:
	//   - ctx: the frame's pass context
	//
	// Returns:
	//   - PrePassOutputs: the produced textures
	//   - error: the pass errors, joined; outputs of failed passes hold stale content
	Run(ctx PassContext) (PrePassOutputs, error)

	// Reshape recreates the targets for a new viewport size.
	//
	// Parameters:
	//   - width: the viewport width
	//   - height: the viewport height
	//
	// Returns:
	//   - error: an error if a target could not be created; the old targets are kept
	Reshape(width, height int) error

	// Passes returns how many passes the last Run began.
	//
	// Returns:
	//   - int: the pass count
	Passes() int

	// Release frees both targets.
	Release()
}

type prePassSchedulerImpl struct {
	mu *sync.Mutex

	dev     renderer.Device
	factory renderer.ResourceFactory
	res     *resources

	portal *DrawItem
	panel  *DrawItem

	portalTarget target.RenderTarget
	panelTarget  target.RenderTarget
	passes       int
}

var _ PrePassScheduler = &prePassSchedulerImpl{}

// newPrePassScheduler creates the scheduler and its targets. portal and panel point into
// the orchestrator's registry so toggles and positions are read live.
func newPrePassScheduler(r renderer.Renderer, res *resources, portal, panel *DrawItem, width, height int) (*prePassSchedulerImpl, error) {
	s := &prePassSchedulerImpl{
		mu:      &sync.Mutex{},
		dev:     r,
		factory: r,
		res:     res,
		portal:  portal,
		panel:   panel,
	}
	if err := s.Reshape(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// prePassSize is the side of the square pre-pass targets for a viewport.
func prePassSize(width, height int) int {
	return max(min(width, height)/2, 1)
}

func (s *prePassSchedulerImpl) Reshape(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height = common.ClampSize(width, height)
	side := prePassSize(width, height)
	portal, err := target.NewRenderTarget(s.factory, "portal view", side, side, pipeline.FormatRGBA8Unorm)
	if err != nil {
		return err
	}
	panel, err := target.NewRenderTarget(s.factory, "panel", side, side, pipeline.FormatRGBA8Unorm)
	if err != nil {
		portal.Release()
		return err
	}

	s.releaseTargets()
	s.portalTarget, s.panelTarget = portal, panel
	return nil
}

func (s *prePassSchedulerImpl) Run(ctx PassContext) (PrePassOutputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out PrePassOutputs
	var errs []error
	s.passes = 0

	if s.portal != nil && s.portal.Enabled {
		err := pass.RunPass(s.dev, s.portalTarget, pass.Options{Clear: &portalClear}, func(enc pass.Encoder) error {
			return s.drawPortalWorld(enc, ctx)
		})
		s.count(err)
		if err != nil {
			errs = append(errs, err)
		}
		out.Portal = s.portalTarget.ColorAttachment()
	}

	if s.panel != nil && s.panel.Enabled {
		err := pass.RunPass(s.dev, s.panelTarget, pass.Options{Clear: &panelClear}, func(enc pass.Encoder) error {
			return s.drawPanel(enc, ctx)
		})
		s.count(err)
		if err != nil {
			errs = append(errs, err)
		}
		out.Panel = s.panelTarget.ColorAttachment()
	}

	return out, errors.Join(errs...)
}

// count tallies a pass the device began. Caller must hold the mutex.
func (s *prePassSchedulerImpl) count(err error) {
	if !errors.Is(err, pass.ErrPassSkipped) {
		s.passes++
	}
}

func (s *prePassSchedulerImpl) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

func (s *prePassSchedulerImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseTargets()
}

// releaseTargets frees both targets. Caller must hold the mutex.
func (s *prePassSchedulerImpl) releaseTargets() {
	if s.portalTarget != nil {
		s.portalTarget.Release()
		s.portalTarget = nil
	}
	if s.panelTarget != nil {
		s.panelTarget.Release()
		s.panelTarget = nil
	}
}

// portalView is the secondary camera: at the portal, looking toward the viewer.
func portalView(portalPos, cameraPos mgl32.Vec3) mgl32.Mat4 {
	dir := cameraPos.Sub(portalPos)
	if dir.Len() < 1e-4 {
		dir = mgl32.Vec3{0, 0, 1}
	}
	up := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(dir.Normalize().Dot(up))) > 0.999 {
		up = mgl32.Vec3{0, 0, -1}
	}
	return mgl32.LookAtV(portalPos, portalPos.Add(dir), up)
}

// subSceneBox returns where the i-th box of the portal world stands at time t: a slowly
// turning ring around the portal.
func subSceneBox(center mgl32.Vec3, i int, t float32) (mgl32.Vec3, mgl32.Vec4) {
	angle := float64(t)*0.3 + float64(i)*2*math.Pi/subSceneBoxes
	pos := center.Add(mgl32.Vec3{
		float32(math.Cos(angle)) * subSceneRadius,
		float32(math.Sin(float64(t)+float64(i))) * 0.5,
		float32(math.Sin(angle)) * subSceneRadius,
	})
	hue := float32(i) / subSceneBoxes
	color := mgl32.Vec4{0.5 + 0.5*hue, 0.3 + 0.4*(1-hue), 0.8, 1}
	return pos, color
}

// drawPortalWorld draws the lit boxes of the portal world that the portal camera can see,
// then its sky.
func (s *prePassSchedulerImpl) drawPortalWorld(enc pass.Encoder, ctx PassContext) error {
	w, h := enc.Viewport()
	portalPos := s.portal.Position
	view := portalView(portalPos, ctx.CameraPos)
	proj := common.Perspective(mgl32.DegToRad(portalFovDegrees), float32(w)/float32(h), portalNear, portalFar)
	viewProj := proj.Mul4(view)
	frustum := common.NewFrustum(viewProj)

	solid := s.res.program(assets.ProgramSolid)
	light := portalPos.Add(mgl32.Vec3{0, 6, 0})
	for i := 0; i < subSceneBoxes; i++ {
		pos, color := subSceneBox(portalPos, i, ctx.Time)
		if !frustum.SphereVisible(pos, 0.87) {
			continue
		}
		model := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.HomogRotate3DY(ctx.Time + float32(i)))
		if err := setUniforms(solid, uniforms{
			"mvp":      viewProj.Mul4(model),
			"model":    model,
			"color":    color,
			"lightPos": light,
			"unlit":    false,
		}); err != nil {
			return err
		}
		if err := enc.Draw(solid, s.res.box); err != nil {
			return err
		}
	}

	sky := PassContext{View: view, Projection: proj}
	return drawSky(enc, sky, s.res.program(assets.ProgramSkybox), s.res.textures.PortalSkybox)
}

// drawPanel draws the time-driven pattern across the whole panel target.
func (s *prePassSchedulerImpl) drawPanel(enc pass.Encoder, ctx PassContext) error {
	w, h := enc.Viewport()
	panel := s.res.program(assets.ProgramPanel)
	if err := setUniforms(panel, uniforms{
		"time":       ctx.Time,
		"resolution": mgl32.Vec2{float32(w), float32(h)},
	}); err != nil {
		return err
	}
	return enc.Draw(panel, nil)
}
