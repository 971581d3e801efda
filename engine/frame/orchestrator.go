package frame

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/assets"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/camera"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/target"
	"github.com/go-gl/mathgl/mgl32"
)

var sceneClear = renderer.Color{R: 0.05, G: 0.05, B: 0.08, A: 1}

// Orchestrator renders the scene one frame at a time. It alone toggles the chain.
type Orchestrator interface {
	// Frame applies the snapshot and renders, submits and presents one frame.
	//
	// Parameters:
	//   - s: the frame's input snapshot
	//
	// Returns:
	//   - error: draw errors of this frame, joined. Passes the device could not begin are
	//     logged and skipped, not returned
	Frame(s input.Snapshot) error

	// Reshape resizes the surface and recreates every owned target. Sizes below 1 are
	// clamped to 1.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if a target could not be recreated
	Reshape(width, height int) error

	// Items returns a copy of the registry with the distances of the last sort.
	//
	// Returns:
	//   - []DrawItem: the registry in key order
	Items() []DrawItem

	// Order returns the draw order of the last frame.
	//
	// Returns:
	//   - []int: registry indices, farthest first
	Order() []int

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Time returns the accumulated scene time in seconds.
	//
	// Returns:
	//   - float32: the time
	Time() float32

	// Passes returns how many passes the last frame began.
	//
	// Returns:
	//   - int: the pass count
	Passes() int

	// Release frees every GPU resource the orchestrator owns.
	Release()
}

type orchestratorImpl struct {
	mu *sync.Mutex

	r        renderer.Renderer
	cam      camera.Camera
	res      *resources
	chain    target.Chain
	screen   target.Screen
	prePass  PrePassScheduler
	items    []DrawItem
	lightPos mgl32.Vec3

	time   float32
	order  []int
	passes int

	decodeWorkers int
}

var _ Orchestrator = &orchestratorImpl{}

// New creates every program, mesh, texture and target the scene needs. Nothing is kept
// when any of them fails.
//
// Parameters:
//   - r: the renderer to draw with
//   - cfg: the scene configuration
//   - options: variadic list of OrchestratorBuilderOption functions
//
// Returns:
//   - Orchestrator: the orchestrator, ready to render
//   - error: a configuration, shader, asset or framebuffer error
func New(r renderer.Renderer, cfg config.Config, options ...OrchestratorBuilderOption) (Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &orchestratorImpl{
		mu:       &sync.Mutex{},
		r:        r,
		screen:   target.NewScreen(r),
		items:    NewRegistry(cfg),
		lightPos: cfg.Light.Position.Mgl(),
	}
	for _, opt := range options {
		opt(o)
	}

	w, h := r.SurfaceSize()
	if o.cam == nil {
		o.cam = NewCamera(cfg, float32(w)/float32(h))
	}

	var err error
	if o.res, err = newResources(r, cfg, o.decodeWorkers); err != nil {
		return nil, err
	}
	if o.chain, err = target.NewChain(r, "scene", w, h); err != nil {
		o.Release()
		return nil, err
	}
	prePass, err := newPrePassScheduler(r, o.res, o.item("portal"), o.item("kaleidoscope"), w, h)
	if err != nil {
		o.Release()
		return nil, err
	}
	o.prePass = prePass

	logger.Infof("scene ready: %d exhibits, %d programs, %dx%d", len(o.items), len(assets.ProgramKeys()), w, h)
	return o, nil
}

// NewCamera builds the free-fly camera described by cfg.
//
// Parameters:
//   - cfg: the scene configuration
//   - aspect: the viewport aspect ratio
//
// Returns:
//   - camera.Camera: the camera
func NewCamera(cfg config.Config, aspect float32) camera.Camera {
	presets := make([]camera.Preset, len(cfg.Presets))
	for i, p := range cfg.Presets {
		presets[i] = camera.Preset{Position: p.Position.Mgl(), Yaw: p.Yaw, Pitch: p.Pitch}
	}
	cc := cfg.Camera
	ctrl := camera.NewCameraController(
		camera.WithPose(cc.Position.Mgl(), cc.Yaw, cc.Pitch),
		camera.WithMoveSpeed(cc.MoveSpeed),
		camera.WithRotationSpeed(cc.RotationSpeed),
		camera.WithEyeHeight(cc.EyeHeight),
		camera.WithMapSize(cc.MapSize),
		camera.WithPresets(presets...),
		camera.WithResetPreset(camera.Preset{Position: cfg.Reset.Position.Mgl(), Yaw: cfg.Reset.Yaw, Pitch: cfg.Reset.Pitch}),
	)
	return camera.NewCamera(
		camera.WithLens(cc.FovDegrees, aspect, cc.Near, cc.Far),
		camera.WithController(ctrl),
	)
}

func (o *orchestratorImpl) Frame(s input.Snapshot) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.time += float32(s.Delta.Seconds())
	o.applyToggles(s)
	o.cam.ProcessInput(s)
	ctx := o.passContext()

	if err := o.r.BeginFrame(); err != nil {
		logger.Warningf("skipping frame: %v", err)
		o.passes = 0
		return nil
	}
	err := o.render(ctx)
	o.r.EndFrame()
	o.r.Present()
	return err
}

// passContext snapshots the camera and scene state. Caller must hold the mutex.
func (o *orchestratorImpl) passContext() PassContext {
	w, h := o.r.SurfaceSize()
	m := o.cam.Matrices()
	return PassContext{
		CameraPos:      o.cam.Position(),
		View:           m.View,
		Projection:     m.Projection,
		LightPos:       o.lightPos,
		Time:           o.time,
		ViewportWidth:  w,
		ViewportHeight: h,
	}
}

// runPass runs one cleared scene pass and counts it unless the device skipped it.
// Caller must hold the mutex.
func (o *orchestratorImpl) runPass(tgt target.Target, draw pass.DrawFunc) error {
	err := pass.RunPass(o.r, tgt, pass.Options{Clear: &sceneClear}, draw)
	if !errors.Is(err, pass.ErrPassSkipped) {
		o.passes++
	}
	return err
}

// render records every pass of a frame in order. Caller must hold the mutex.
func (o *orchestratorImpl) render(ctx PassContext) error {
	var errs []error
	var record func(err error)
	record = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				record(e)
			}
			return
		}
		if err != nil && !errors.Is(err, pass.ErrPassSkipped) {
			errs = append(errs, err)
		}
	}

	outputs, err := o.prePass.Run(ctx)
	record(err)
	o.passes = o.prePass.Passes()

	o.chain.Rewind()
	env := o.res.environment()
	record(o.runPass(o.chain.Current(), func(enc pass.Encoder) error {
		return DrawEnvironment(enc, ctx, env)
	}))

	o.order = ComputeOrder(o.items, ctx.CameraPos)
	enabled := make([]int, 0, len(o.order))
	for _, idx := range o.order {
		if o.items[idx].Enabled {
			enabled = append(enabled, idx)
		}
	}

	blit := o.res.program(assets.ProgramBlit)
	for k, idx := range enabled {
		var write target.Target
		var read target.RenderTarget
		if k == len(enabled)-1 {
			write, read = o.screen, o.chain.CurrentRead()
		} else {
			write, read = o.chain.Swap()
		}

		item := o.items[idx]
		scene := read.ColorAttachment()
		record(o.runPass(write, func(enc pass.Encoder) error {
			if err := enc.Draw(blit, nil, scene); err != nil {
				return err
			}
			if err := o.res.drawExhibit(enc, ctx, item, scene, outputs); err != nil {
				return fmt.Errorf("%s: %w", item.Exhibit.Name(), err)
			}
			return nil
		}))
	}

	if len(enabled) == 0 {
		scene := o.chain.CurrentRead().ColorAttachment()
		record(o.runPass(o.screen, func(enc pass.Encoder) error {
			return enc.Draw(blit, nil, scene)
		}))
	}

	return errors.Join(errs...)
}

// applyToggles flips the features and exhibits named in the snapshot. Caller must hold
// the mutex.
func (o *orchestratorImpl) applyToggles(s input.Snapshot) {
	for _, t := range s.Toggled {
		for i := range o.items {
			switch ex := o.items[i].Exhibit.(type) {
			case *Bead:
				switch t {
				case input.ToggleBeadSpecular:
					ex.Specular = !ex.Specular
					logger.Infof("bead specular %t", ex.Specular)
				case input.ToggleBeadDiffuse:
					ex.Diffuse = !ex.Diffuse
					logger.Infof("bead diffuse %t", ex.Diffuse)
				}
			case *Cloud:
				if t == input.ToggleCloudObstacle {
					ex.Obstacle = !ex.Obstacle
					logger.Infof("cloud obstacle %t", ex.Obstacle)
				}
			}
		}
	}

	for _, idx := range s.ExhibitToggled {
		if idx < 0 || idx >= len(o.items) {
			continue
		}
		o.items[idx].Enabled = !o.items[idx].Enabled
		logger.Infof("%s enabled %t", o.items[idx].Exhibit.Name(), o.items[idx].Enabled)
	}
}

func (o *orchestratorImpl) Reshape(width, height int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	width, height = common.ClampSize(width, height)
	o.r.Resize(width, height)
	o.cam.SetAspect(float32(width) / float32(height))

	var errs []error
	if err := o.chain.Reset(width, height); err != nil {
		errs = append(errs, err)
	}
	if err := o.prePass.Reshape(width, height); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Infof("reshaped to %dx%d", width, height)
	return nil
}

func (o *orchestratorImpl) Items() []DrawItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]DrawItem(nil), o.items...)
}

func (o *orchestratorImpl) Order() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.order...)
}

func (o *orchestratorImpl) Camera() camera.Camera {
	return o.cam
}

func (o *orchestratorImpl) Time() float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.time
}

func (o *orchestratorImpl) Passes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.passes
}

func (o *orchestratorImpl) Release() {
	if o.prePass != nil {
		o.prePass.Release()
		o.prePass = nil
	}
	if o.chain != nil {
		o.chain.Release()
		o.chain = nil
	}
	if o.res != nil {
		o.res.Release()
		o.res = nil
	}
}

// item returns the registry entry with the given name, or nil.
func (o *orchestratorImpl) item(name string) *DrawItem {
	for i := range o.items {
		if o.items[i].Exhibit.Name() == name {
			return &o.items[i]
		}
	}
	return nil
}
