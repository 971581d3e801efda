package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/window"
)

var (
	// ErrNoActivePass is returned when drawing or ending outside BeginPass/EndPass.
	ErrNoActivePass = errors.New("no active pass")
	// ErrPassActive is returned when a pass begins while another is still open.
	ErrPassActive = errors.New("a pass is already active")
	// ErrNoFrame is returned when a pass begins outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no active frame")
	// ErrTextureSlots is returned when a draw binds a different number of textures than the
	// program declares, or binds a 2D texture to a cube slot.
	ErrTextureSlots = errors.New("texture slots do not match program")
)

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// PassDescriptor configures one pass.
type PassDescriptor struct {
	// Label names the pass in logs and GPU debuggers.
	Label string
	// Clear, when non-nil, clears color to this value and depth to 1. A nil Clear loads the
	// previous contents of the target.
	Clear *Color
	// DepthFunc is the depth comparison in effect when the pass begins.
	DepthFunc pipeline.DepthFunc
}

// Texture is a sampled 2D or cube texture.
type Texture interface {
	// ID is unique for the lifetime of the process.
	ID() uint64
	Width() int
	Height() int
	Cube() bool
	Release()
}

// Framebuffer is an offscreen color attachment plus a depth attachment of the same size.
// A framebuffer is never resized; it is released and replaced.
type Framebuffer interface {
	Label() string
	Width() int
	Height() int
	Format() pipeline.Format
	// ColorAttachment returns the color attachment as a sampleable texture.
	ColorAttachment() Texture
	Release()
}

// Mesh is indexed triangle geometry in the engine vertex layout (position, normal, uv).
type Mesh interface {
	Label() string
	IndexCount() int
	Release()
}

// Program is a compiled vertex+fragment program with a uniform block and texture slots.
type Program interface {
	// Key returns the program's unique key.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Shader returns the parsed program.
	//
	// Returns:
	//   - shader.Shader: the parsed shader
	Shader() shader.Shader

	// Raster returns the fixed-function state the program was created with.
	//
	// Returns:
	//   - pipeline.Raster: the raster state
	Raster() pipeline.Raster

	// SetUniform stores a value in the uniform block. Values persist until overwritten and
	// are captured by every subsequent Draw.
	//
	// Parameters:
	//   - name: the uniform field name
	//   - value: the typed value
	//
	// Returns:
	//   - error: shader.ErrUnknownUniform or shader.ErrUniformType
	SetUniform(name string, value any) error

	// Uniforms returns the staged uniform block.
	//
	// Returns:
	//   - *shader.UniformBlock: the block
	Uniforms() *shader.UniformBlock

	Release()
}

// ProgramDescriptor describes a program to create.
type ProgramDescriptor struct {
	Key    string
	Source string
	Raster pipeline.Raster
}

// DrawCommand is one draw within the active pass.
type DrawCommand struct {
	Program Program
	// Mesh is the geometry to draw. A nil Mesh draws a single full-screen triangle
	// generated in the vertex stage from the vertex index.
	Mesh Mesh
	// Textures are bound to the program's texture slots in order.
	Textures []Texture
}

// Device issues passes and draws. Passes execute in the order they are begun.
type Device interface {
	// BeginPass binds a target and starts a pass. The viewport covers the whole target.
	//
	// Parameters:
	//   - target: the framebuffer to draw into, or nil for the screen
	//   - desc: the pass configuration
	//
	// Returns:
	//   - error: an error if the pass could not begin
	BeginPass(target Framebuffer, desc PassDescriptor) error

	// SetDepthFunc changes the depth comparison for subsequent draws in the active pass.
	//
	// Parameters:
	//   - fn: the depth comparison
	SetDepthFunc(fn pipeline.DepthFunc)

	// DepthFunc returns the depth comparison currently in effect.
	//
	// Returns:
	//   - pipeline.DepthFunc: the depth comparison
	DepthFunc() pipeline.DepthFunc

	// Draw records a draw in the active pass.
	//
	// Parameters:
	//   - cmd: the draw command
	//
	// Returns:
	//   - error: an error if there is no active pass or the bindings do not match the program
	Draw(cmd DrawCommand) error

	// EndPass ends the active pass.
	EndPass()
}

// ResourceFactory creates GPU resources. Creation failures are initialization errors.
type ResourceFactory interface {
	// CreateFramebuffer allocates a color+depth framebuffer.
	//
	// Parameters:
	//   - label: a debug label
	//   - width: the width in pixels, at least 1
	//   - height: the height in pixels, at least 1
	//   - format: the color format
	//
	// Returns:
	//   - Framebuffer: the framebuffer
	//   - error: an error if allocation fails
	CreateFramebuffer(label string, width, height int, format pipeline.Format) (Framebuffer, error)

	// CreateProgram parses and compiles a program.
	//
	// Parameters:
	//   - desc: the program descriptor
	//
	// Returns:
	//   - Program: the program
	//   - error: shader.ErrInvalidShader or a compilation error
	CreateProgram(desc ProgramDescriptor) (Program, error)

	// CreateMesh uploads interleaved vertex data and 32-bit indices.
	//
	// Parameters:
	//   - label: a debug label
	//   - vertices: interleaved vertex bytes
	//   - indices: triangle list indices
	//
	// Returns:
	//   - Mesh: the mesh
	//   - error: an error if the upload fails
	CreateMesh(label string, vertices []byte, indices []uint32) (Mesh, error)

	// CreateTexture uploads an RGBA 2D texture.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the pixels
	//
	// Returns:
	//   - Texture: the texture
	//   - error: an error if the data is invalid or the upload fails
	CreateTexture(label string, data common.TextureStagingData) (Texture, error)

	// CreateCubeTexture uploads six equally sized RGBA faces in +X, -X, +Y, -Y, +Z, -Z order.
	//
	// Parameters:
	//   - label: a debug label
	//   - faces: the face pixels
	//
	// Returns:
	//   - Texture: the cube texture
	//   - error: an error if the faces are invalid or the upload fails
	CreateCubeTexture(label string, faces [6]common.TextureStagingData) (Texture, error)
}

// Renderer is the complete GPU surface the frame core needs: a Device, a ResourceFactory,
// and frame/surface management.
type Renderer interface {
	Device
	ResourceFactory

	// Resize reconfigures the surface. Sizes below 1 are clamped to 1.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SurfaceSize returns the configured surface size.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	SurfaceSize() (int, int)

	// BeginFrame acquires the next surface texture and starts recording.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// EndFrame uploads staged uniforms and submits the recorded passes.
	EndFrame()

	// Present presents the surface to the display.
	Present()

	// SetPresentMode sets the present mode. Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)
}

// renderer is the implementation of the Renderer interface. It tracks pass state and owns
// the pipeline cache; GPU work is delegated to the backend.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      log.Logger

	inFrame     bool
	inPass      bool
	passFormat  pipeline.Format
	depthFunc   pipeline.DepthFunc
	surfaceSize [2]int

	// Pre-creation config collected from builder options
	backendConfig      backendConfig
	pendingPresentMode *PresentMode
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend for the given window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window surface to present to; its size is the initial surface size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, win window.Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        log.New("renderer"),
	}

	// Apply options first so config flags (e.g. the fallback adapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.backendConfig)
		if err != nil {
			return nil, err
		}
		r.backend = b
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.Resize(win.Size())
	return r, nil
}

// newRendererWithBackend wires a renderer to an existing backend.
func newRendererWithBackend(backend RendererBackend) *renderer {
	return &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backend:       backend,
		logger:        log.New("renderer"),
	}
}

func (r *renderer) Resize(width, height int) {
	width, height = common.ClampSize(width, height)
	r.backend.ConfigureSurface(width, height)

	r.mu.Lock()
	r.surfaceSize = [2]int{width, height}
	r.mu.Unlock()
	r.logger.Infof("surface configured %dx%d", width, height)
}

func (r *renderer) SurfaceSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surfaceSize[0], r.surfaceSize[1]
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFrame {
		return errors.New("previous frame not ended")
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return
	}
	if r.inPass {
		r.backend.EndPass()
		r.inPass = false
	}
	r.backend.EndFrame()
	r.inFrame = false
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) BeginPass(target Framebuffer, desc PassDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return ErrNoFrame
	}
	if r.inPass {
		return ErrPassActive
	}
	if err := r.backend.BeginPass(target, desc); err != nil {
		return fmt.Errorf("begin pass %s: %w", desc.Label, err)
	}

	r.inPass = true
	r.passFormat = pipeline.FormatSurface
	if target != nil {
		r.passFormat = target.Format()
	}
	r.depthFunc = desc.DepthFunc
	return nil
}

func (r *renderer) SetDepthFunc(fn pipeline.DepthFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depthFunc = fn
}

func (r *renderer) DepthFunc() pipeline.DepthFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depthFunc
}

func (r *renderer) Draw(cmd DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inPass {
		return ErrNoActivePass
	}
	if err := ValidateDraw(cmd); err != nil {
		return err
	}

	state := pipeline.State{
		Raster:      cmd.Program.Raster(),
		ColorFormat: r.passFormat,
		DepthFunc:   r.depthFunc,
	}
	p, err := r.pipelineFor(cmd.Program, state)
	if err != nil {
		return err
	}
	return r.backend.Draw(p, cmd)
}

// pipelineFor returns the cached pipeline for a program and state, creating it on a miss.
// Caller must hold the mutex.
func (r *renderer) pipelineFor(prog Program, state pipeline.State) (pipeline.Pipeline, error) {
	key := state.Key(prog.Key())
	if p, ok := r.pipelineCache[key]; ok {
		return p, nil
	}

	p := pipeline.NewPipeline(prog.Shader(), state)
	if err := r.backend.RegisterRenderPipeline(p, prog); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	r.pipelineCache[key] = p
	r.logger.Debugf("created pipeline %s", key)
	return p, nil
}

func (r *renderer) EndPass() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inPass {
		return
	}
	r.backend.EndPass()
	r.inPass = false
	r.depthFunc = pipeline.DefaultDepthFunc
}

func (r *renderer) CreateFramebuffer(label string, width, height int, format pipeline.Format) (Framebuffer, error) {
	width, height = common.ClampSize(width, height)
	return r.backend.CreateFramebuffer(label, width, height, format)
}

func (r *renderer) CreateProgram(desc ProgramDescriptor) (Program, error) {
	s, err := shader.NewShader(desc.Key, desc.Source)
	if err != nil {
		return nil, err
	}
	return r.backend.CreateProgram(s, desc.Raster)
}

func (r *renderer) CreateMesh(label string, vertices []byte, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %s: empty geometry", label)
	}
	return r.backend.CreateMesh(label, vertices, indices)
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	if !data.Valid() {
		return nil, fmt.Errorf("texture %s: invalid staging data %dx%d with %d bytes", label, data.Width, data.Height, len(data.Pixels))
	}
	return r.backend.CreateTexture(label, data)
}

func (r *renderer) CreateCubeTexture(label string, faces [6]common.TextureStagingData) (Texture, error) {
	for i, f := range faces {
		if !f.Valid() {
			return nil, fmt.Errorf("cube texture %s: face %d is invalid", label, i)
		}
		if f.Width != faces[0].Width || f.Height != faces[0].Height || f.Width != f.Height {
			return nil, fmt.Errorf("cube texture %s: faces must be equal squares", label)
		}
	}
	return r.backend.CreateCubeTexture(label, faces)
}

// validateTextures checks a draw's textures against the program's declared slots.
func validateTextures(cmd DrawCommand) error {
	slots := cmd.Program.Shader().TextureSlots()
	if len(cmd.Textures) != len(slots) {
		return fmt.Errorf("%w: %s declares %d, draw binds %d", ErrTextureSlots, cmd.Program.Key(), len(slots), len(cmd.Textures))
	}
	for i, slot := range slots {
		tex := cmd.Textures[i]
		if tex == nil {
			return fmt.Errorf("%w: %s slot %s is nil", ErrTextureSlots, cmd.Program.Key(), slot.Name)
		}
		if tex.Cube() != slot.Cube {
			return fmt.Errorf("%w: %s slot %s cube=%t, texture cube=%t", ErrTextureSlots, cmd.Program.Key(), slot.Name, slot.Cube, tex.Cube())
		}
	}
	return nil
}

// ValidateDraw checks a draw command's textures against its program's slots. Device
// implementations other than the WebGPU renderer use it to apply the same rules.
//
// Parameters:
//   - cmd: the draw command
//
// Returns:
//   - error: ErrTextureSlots if the bindings do not match
func ValidateDraw(cmd DrawCommand) error {
	if cmd.Program == nil {
		return errors.New("draw without program")
	}
	return validateTextures(cmd)
}
