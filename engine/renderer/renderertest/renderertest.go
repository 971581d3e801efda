// Package renderertest provides a recording, GPU-free implementation of renderer.Renderer.
//
// Programs are parsed with the real shader package so uniform names, uniform types and
// texture slots are validated exactly as the WebGPU renderer validates them. Every pass
// boundary, depth change and draw is recorded as an Event.
package renderertest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
)

// ErrSampledTarget is returned by Draw when a draw samples the color attachment of the
// framebuffer the active pass writes.
var ErrSampledTarget = errors.New("draw samples the pass target")

var nextID atomic.Uint64

// EventKind identifies a recorded call.
type EventKind int

const (
	EventBeginPass EventKind = iota
	EventSetDepthFunc
	EventDraw
	EventEndPass
)

func (k EventKind) String() string {
	switch k {
	case EventBeginPass:
		return "begin"
	case EventSetDepthFunc:
		return "depth"
	case EventDraw:
		return "draw"
	case EventEndPass:
		return "end"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one recorded Device call.
type Event struct {
	Kind EventKind
	// Target is the pass's framebuffer, nil for the screen. Set on every event of a pass.
	Target *Framebuffer
	// Label and Clear are set on EventBeginPass.
	Label string
	Clear *renderer.Color
	// DepthFunc is the comparison in effect after the event.
	DepthFunc pipeline.DepthFunc
	// Program, Mesh, Textures and Uniforms are set on EventDraw. Uniforms is a copy of the
	// program's block at draw time.
	Program  *Program
	Mesh     *Mesh
	Textures []renderer.Texture
	Uniforms []byte
}

// Texture is a recorded texture.
type Texture struct {
	id            uint64
	Label         string
	width, height int
	cube          bool
	released      atomic.Bool
}

var _ renderer.Texture = &Texture{}

func (t *Texture) ID() uint64     { return t.id }
func (t *Texture) Width() int     { return t.width }
func (t *Texture) Height() int    { return t.height }
func (t *Texture) Cube() bool     { return t.cube }
func (t *Texture) Release()       { t.released.Store(true) }
func (t *Texture) Released() bool { return t.released.Load() }

// Framebuffer is a recorded framebuffer.
type Framebuffer struct {
	label    string
	format   pipeline.Format
	color    *Texture
	released atomic.Bool
}

var _ renderer.Framebuffer = &Framebuffer{}

func (f *Framebuffer) Label() string                     { return f.label }
func (f *Framebuffer) Width() int                        { return f.color.width }
func (f *Framebuffer) Height() int                       { return f.color.height }
func (f *Framebuffer) Format() pipeline.Format           { return f.format }
func (f *Framebuffer) ColorAttachment() renderer.Texture { return f.color }
func (f *Framebuffer) Released() bool                    { return f.released.Load() }

func (f *Framebuffer) Release() {
	f.released.Store(true)
	f.color.Release()
}

// Mesh is a recorded mesh.
type Mesh struct {
	label      string
	indexCount int
	released   atomic.Bool
}

var _ renderer.Mesh = &Mesh{}

func (m *Mesh) Label() string   { return m.label }
func (m *Mesh) IndexCount() int { return m.indexCount }
func (m *Mesh) Release()        { m.released.Store(true) }
func (m *Mesh) Released() bool  { return m.released.Load() }

// Program is a parsed program with a live uniform block.
type Program struct {
	mu       sync.Mutex
	shader   shader.Shader
	raster   pipeline.Raster
	uniforms *shader.UniformBlock
	released atomic.Bool
}

var _ renderer.Program = &Program{}

func (p *Program) Key() string                    { return p.shader.Key() }
func (p *Program) Shader() shader.Shader          { return p.shader }
func (p *Program) Raster() pipeline.Raster        { return p.raster }
func (p *Program) Uniforms() *shader.UniformBlock { return p.uniforms }
func (p *Program) Release()                       { p.released.Store(true) }
func (p *Program) Released() bool                 { return p.released.Load() }

func (p *Program) SetUniform(name string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uniforms.Set(name, value)
}

func (p *Program) snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.uniforms.Bytes()...)
}

// Renderer records every call made through the renderer.Renderer interface.
type Renderer struct {
	mu *sync.Mutex

	events       []Event
	framebuffers []*Framebuffer
	programs     []*Program

	width, height int
	presentMode   renderer.PresentMode
	frames        int
	presented     int

	inFrame   bool
	inPass    bool
	target    *Framebuffer
	depthFunc pipeline.DepthFunc

	beginPassErr error
	programErr   map[string]error
	// framebufferErr is keyed by label prefix
	framebufferErr map[string]error
}

var _ renderer.Renderer = &Renderer{}

// New returns a Renderer with a surface of the given size.
//
// Parameters:
//   - width: the surface width
//   - height: the surface height
//
// Returns:
//   - *Renderer: the recording renderer
func New(width, height int) *Renderer {
	width, height = common.ClampSize(width, height)
	return &Renderer{
		mu:         &sync.Mutex{},
		width:      width,
		height:     height,
		programErr:     make(map[string]error),
		framebufferErr: make(map[string]error),
	}
}

// FailBeginPass makes every subsequent BeginPass return err. A nil err clears the failure.
func (r *Renderer) FailBeginPass(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beginPassErr = err
}

// FailProgram makes CreateProgram return err for the given program key.
func (r *Renderer) FailProgram(key string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programErr[key] = err
}

// FailFramebuffer makes CreateFramebuffer return err for every label starting with
// labelPrefix. A nil err clears the failure.
func (r *Renderer) FailFramebuffer(labelPrefix string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.framebufferErr, labelPrefix)
		return
	}
	r.framebufferErr[labelPrefix] = err
}

// Events returns a copy of the recorded events.
func (r *Renderer) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Draws returns the recorded draw events in order.
func (r *Renderer) Draws() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var draws []Event
	for _, e := range r.events {
		if e.Kind == EventDraw {
			draws = append(draws, e)
		}
	}
	return draws
}

// Passes returns the begin events of every recorded pass in order.
func (r *Renderer) Passes() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var passes []Event
	for _, e := range r.events {
		if e.Kind == EventBeginPass {
			passes = append(passes, e)
		}
	}
	return passes
}

// ClearEvents discards the recorded events.
func (r *Renderer) ClearEvents() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Framebuffers returns every framebuffer created so far, released or not.
func (r *Renderer) Framebuffers() []*Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Framebuffer(nil), r.framebuffers...)
}

// LiveFramebuffers returns the framebuffers that have not been released.
func (r *Renderer) LiveFramebuffers() []*Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []*Framebuffer
	for _, fb := range r.framebuffers {
		if !fb.Released() {
			live = append(live, fb)
		}
	}
	return live
}

// Program returns the most recently created program with the key, or nil.
func (r *Renderer) Program(key string) *Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.programs) - 1; i >= 0; i-- {
		if r.programs[i].Key() == key {
			return r.programs[i]
		}
	}
	return nil
}

// Frames returns the number of frames begun and presented.
func (r *Renderer) Frames() (begun, presented int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames, r.presented
}

func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = common.ClampSize(width, height)
}

func (r *Renderer) SurfaceSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Renderer) SetPresentMode(mode renderer.PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
}

func (r *Renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFrame {
		return errors.New("previous frame not ended")
	}
	r.inFrame = true
	r.frames++
	return nil
}

func (r *Renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		r.endPass()
	}
	r.inFrame = false
}

func (r *Renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presented++
}

func (r *Renderer) BeginPass(target renderer.Framebuffer, desc renderer.PassDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return renderer.ErrNoFrame
	}
	if r.inPass {
		return renderer.ErrPassActive
	}
	if r.beginPassErr != nil {
		return fmt.Errorf("begin pass %s: %w", desc.Label, r.beginPassErr)
	}

	var fb *Framebuffer
	if target != nil {
		var ok bool
		if fb, ok = target.(*Framebuffer); !ok {
			return fmt.Errorf("framebuffer %s was not created by this renderer", target.Label())
		}
		if fb.Released() {
			return fmt.Errorf("framebuffer %s is released", fb.label)
		}
	}

	r.inPass = true
	r.target = fb
	r.depthFunc = desc.DepthFunc
	var clearColor *renderer.Color
	if desc.Clear != nil {
		c := *desc.Clear
		clearColor = &c
	}
	r.events = append(r.events, Event{
		Kind:      EventBeginPass,
		Target:    fb,
		Label:     desc.Label,
		Clear:     clearColor,
		DepthFunc: r.depthFunc,
	})
	return nil
}

func (r *Renderer) SetDepthFunc(fn pipeline.DepthFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depthFunc = fn
	if r.inPass {
		r.events = append(r.events, Event{Kind: EventSetDepthFunc, Target: r.target, DepthFunc: fn})
	}
}

func (r *Renderer) DepthFunc() pipeline.DepthFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depthFunc
}

func (r *Renderer) Draw(cmd renderer.DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inPass {
		return renderer.ErrNoActivePass
	}
	if err := renderer.ValidateDraw(cmd); err != nil {
		return err
	}
	prog, ok := cmd.Program.(*Program)
	if !ok {
		return fmt.Errorf("program %s was not created by this renderer", cmd.Program.Key())
	}
	var mesh *Mesh
	if cmd.Mesh != nil {
		if mesh, ok = cmd.Mesh.(*Mesh); !ok {
			return fmt.Errorf("mesh %s was not created by this renderer", cmd.Mesh.Label())
		}
	}
	for _, t := range cmd.Textures {
		if r.target != nil && t.ID() == r.target.color.id {
			return fmt.Errorf("%w: %s samples %s", ErrSampledTarget, prog.Key(), r.target.label)
		}
		if tex, ok := t.(*Texture); ok && tex.Released() {
			return fmt.Errorf("%s samples released texture %s", prog.Key(), tex.Label)
		}
	}

	r.events = append(r.events, Event{
		Kind:      EventDraw,
		Target:    r.target,
		DepthFunc: r.depthFunc,
		Program:   prog,
		Mesh:      mesh,
		Textures:  append([]renderer.Texture(nil), cmd.Textures...),
		Uniforms:  prog.snapshot(),
	})
	return nil
}

func (r *Renderer) EndPass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		r.endPass()
	}
}

// endPass closes the active pass. Caller must hold the mutex.
func (r *Renderer) endPass() {
	r.events = append(r.events, Event{Kind: EventEndPass, Target: r.target, DepthFunc: r.depthFunc})
	r.inPass = false
	r.target = nil
	r.depthFunc = pipeline.DefaultDepthFunc
}

func (r *Renderer) CreateFramebuffer(label string, width, height int, format pipeline.Format) (renderer.Framebuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for prefix, err := range r.framebufferErr {
		if strings.HasPrefix(label, prefix) {
			return nil, err
		}
	}
	width, height = common.ClampSize(width, height)
	fb := &Framebuffer{
		label:  label,
		format: format,
		color:  &Texture{id: nextID.Add(1), Label: label + " Color", width: width, height: height},
	}
	r.framebuffers = append(r.framebuffers, fb)
	return fb, nil
}

func (r *Renderer) CreateProgram(desc renderer.ProgramDescriptor) (renderer.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.programErr[desc.Key]; err != nil {
		return nil, err
	}
	s, err := shader.NewShader(desc.Key, desc.Source)
	if err != nil {
		return nil, err
	}
	p := &Program{shader: s, raster: desc.Raster, uniforms: shader.NewUniformBlock(s.Uniforms())}
	r.programs = append(r.programs, p)
	return p, nil
}

func (r *Renderer) CreateMesh(label string, vertices []byte, indices []uint32) (renderer.Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %s: empty geometry", label)
	}
	return &Mesh{label: label, indexCount: len(indices)}, nil
}

func (r *Renderer) CreateTexture(label string, data common.TextureStagingData) (renderer.Texture, error) {
	if !data.Valid() {
		return nil, fmt.Errorf("texture %s: invalid staging data", label)
	}
	return &Texture{id: nextID.Add(1), Label: label, width: int(data.Width), height: int(data.Height)}, nil
}

func (r *Renderer) CreateCubeTexture(label string, faces [6]common.TextureStagingData) (renderer.Texture, error) {
	for i, f := range faces {
		if !f.Valid() || f.Width != faces[0].Width || f.Height != faces[0].Height || f.Width != f.Height {
			return nil, fmt.Errorf("cube texture %s: face %d is invalid", label, i)
		}
	}
	return &Texture{id: nextID.Add(1), Label: label, width: int(faces[0].Width), height: int(faces[0].Height), cube: true}, nil
}
