package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blitSource = `
@group(1) @binding(0) var sceneTex: texture_2d<f32>;
@group(1) @binding(1) var sceneSampler: sampler;

struct VertexOutput {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> VertexOutput {
	var out: VertexOutput;
	let p = vec2<f32>(f32((i << 1u) & 2u), f32(i & 2u));
	out.position = vec4<f32>(p * 2.0 - 1.0, 0.0, 1.0);
	out.uv = vec2<f32>(p.x, 1.0 - p.y);
	return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	return textureSample(sceneTex, sceneSampler, in.uv);
}
`

type fakeTexture struct {
	id   uint64
	cube bool
}

func (t *fakeTexture) ID() uint64  { return t.id }
func (t *fakeTexture) Width() int  { return 4 }
func (t *fakeTexture) Height() int { return 4 }
func (t *fakeTexture) Cube() bool  { return t.cube }
func (t *fakeTexture) Release()    {}

type fakeFramebuffer struct {
	format pipeline.Format
	color  *fakeTexture
}

func (f *fakeFramebuffer) Label() string            { return "fake" }
func (f *fakeFramebuffer) Width() int               { return 4 }
func (f *fakeFramebuffer) Height() int              { return 4 }
func (f *fakeFramebuffer) Format() pipeline.Format  { return f.format }
func (f *fakeFramebuffer) ColorAttachment() Texture { return f.color }
func (f *fakeFramebuffer) Release()                 {}

type fakeProgram struct {
	s        shader.Shader
	raster   pipeline.Raster
	uniforms *shader.UniformBlock
}

func (p *fakeProgram) Key() string                         { return p.s.Key() }
func (p *fakeProgram) Shader() shader.Shader               { return p.s }
func (p *fakeProgram) Raster() pipeline.Raster             { return p.raster }
func (p *fakeProgram) SetUniform(name string, v any) error { return p.uniforms.Set(name, v) }
func (p *fakeProgram) Uniforms() *shader.UniformBlock      { return p.uniforms }
func (p *fakeProgram) Release()                            {}

// fakeBackend records the calls the renderer forwards to it.
type fakeBackend struct {
	configured [][2]int
	registered []string
	drawn      []string
	passes     int
	ended      int
	frames     int
	beginErr   error
}

func (b *fakeBackend) ConfigureSurface(w, h int)  { b.configured = append(b.configured, [2]int{w, h}) }
func (b *fakeBackend) SetPresentMode(PresentMode) {}
func (b *fakeBackend) BeginFrame() error          { b.frames++; return nil }
func (b *fakeBackend) EndPass()                   { b.ended++ }
func (b *fakeBackend) EndFrame()                  {}
func (b *fakeBackend) Present()                   {}

func (b *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, _ Program) error {
	b.registered = append(b.registered, p.PipelineKey())
	return nil
}

func (b *fakeBackend) CreateFramebuffer(_ string, _, _ int, format pipeline.Format) (Framebuffer, error) {
	return &fakeFramebuffer{format: format, color: &fakeTexture{id: newResourceID()}}, nil
}

func (b *fakeBackend) CreateProgram(s shader.Shader, raster pipeline.Raster) (Program, error) {
	return &fakeProgram{s: s, raster: raster, uniforms: shader.NewUniformBlock(s.Uniforms())}, nil
}

func (b *fakeBackend) CreateMesh(string, []byte, []uint32) (Mesh, error) { return nil, nil }

func (b *fakeBackend) CreateTexture(string, common.TextureStagingData) (Texture, error) {
	return &fakeTexture{id: newResourceID()}, nil
}

func (b *fakeBackend) CreateCubeTexture(string, [6]common.TextureStagingData) (Texture, error) {
	return &fakeTexture{id: newResourceID(), cube: true}, nil
}

func (b *fakeBackend) BeginPass(Framebuffer, PassDescriptor) error {
	if b.beginErr != nil {
		return b.beginErr
	}
	b.passes++
	return nil
}

func (b *fakeBackend) Draw(p pipeline.Pipeline, _ DrawCommand) error {
	b.drawn = append(b.drawn, p.PipelineKey())
	return nil
}

func newTestRenderer(t *testing.T) (*renderer, *fakeBackend, Program) {
	t.Helper()
	b := &fakeBackend{}
	r := newRendererWithBackend(b)
	prog, err := r.CreateProgram(ProgramDescriptor{Key: "blit", Source: blitSource})
	require.NoError(t, err)
	return r, b, prog
}

func TestRenderer_PassOrdering(t *testing.T) {
	r, _, prog := newTestRenderer(t)
	tex := &fakeTexture{id: newResourceID()}

	assert.ErrorIs(t, r.BeginPass(nil, PassDescriptor{}), ErrNoFrame)
	assert.ErrorIs(t, r.Draw(DrawCommand{Program: prog, Textures: []Texture{tex}}), ErrNoActivePass)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(nil, PassDescriptor{Label: "screen"}))
	assert.ErrorIs(t, r.BeginPass(nil, PassDescriptor{}), ErrPassActive)
	require.NoError(t, r.Draw(DrawCommand{Program: prog, Textures: []Texture{tex}}))
	r.EndPass()
	r.EndFrame()

	assert.ErrorIs(t, r.BeginPass(nil, PassDescriptor{}), ErrNoFrame)
}

func TestRenderer_EndFrameClosesOpenPass(t *testing.T) {
	r, b, _ := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(nil, PassDescriptor{}))
	r.EndFrame()

	assert.Equal(t, 1, b.ended)
	require.NoError(t, r.BeginFrame())
	assert.NoError(t, r.BeginPass(nil, PassDescriptor{}))
}

func TestRenderer_BeginPassError(t *testing.T) {
	r, b, _ := newTestRenderer(t)
	lost := errors.New("surface lost")
	b.beginErr = lost

	require.NoError(t, r.BeginFrame())
	err := r.BeginPass(nil, PassDescriptor{Label: "scene"})
	assert.ErrorIs(t, err, lost)
	assert.Contains(t, err.Error(), "scene")

	b.beginErr = nil
	assert.NoError(t, r.BeginPass(nil, PassDescriptor{}), "a failed begin leaves no pass open")
}

func TestRenderer_PipelineCachePerFormatAndDepth(t *testing.T) {
	r, b, prog := newTestRenderer(t)
	tex := &fakeTexture{id: newResourceID()}
	fb, err := r.CreateFramebuffer("offscreen", 4, 4, pipeline.FormatRGBA8Unorm)
	require.NoError(t, err)
	draw := DrawCommand{Program: prog, Textures: []Texture{tex}}

	require.NoError(t, r.BeginFrame())

	require.NoError(t, r.BeginPass(fb, PassDescriptor{}))
	require.NoError(t, r.Draw(draw))
	require.NoError(t, r.Draw(draw))
	r.SetDepthFunc(pipeline.DepthLessEqual)
	assert.Equal(t, pipeline.DepthLessEqual, r.DepthFunc())
	require.NoError(t, r.Draw(draw))
	r.EndPass()
	assert.Equal(t, pipeline.DefaultDepthFunc, r.DepthFunc())

	require.NoError(t, r.BeginPass(nil, PassDescriptor{}))
	require.NoError(t, r.Draw(draw))
	r.EndPass()
	r.EndFrame()

	assert.Len(t, b.drawn, 4)
	assert.Len(t, b.registered, 3, "one pipeline per distinct format and depth func")
	assert.Equal(t, b.drawn[0], b.drawn[1])
	assert.NotEqual(t, b.drawn[1], b.drawn[2])
	assert.NotEqual(t, b.drawn[0], b.drawn[3])
}

func TestRenderer_ValidateDraw(t *testing.T) {
	_, _, prog := newTestRenderer(t)
	flat := &fakeTexture{id: newResourceID()}
	cube := &fakeTexture{id: newResourceID(), cube: true}

	assert.Error(t, ValidateDraw(DrawCommand{}))
	assert.ErrorIs(t, ValidateDraw(DrawCommand{Program: prog}), ErrTextureSlots)
	assert.ErrorIs(t, ValidateDraw(DrawCommand{Program: prog, Textures: []Texture{nil}}), ErrTextureSlots)
	assert.ErrorIs(t, ValidateDraw(DrawCommand{Program: prog, Textures: []Texture{cube}}), ErrTextureSlots)
	assert.NoError(t, ValidateDraw(DrawCommand{Program: prog, Textures: []Texture{flat}}))
}

func TestRenderer_ResizeClamps(t *testing.T) {
	r, b, _ := newTestRenderer(t)

	r.Resize(0, -3)
	w, h := r.SurfaceSize()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, [][2]int{{1, 1}}, b.configured)

	r.Resize(640, 480)
	w, h = r.SurfaceSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestRenderer_CreateValidation(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	_, err := r.CreateMesh("empty", nil, nil)
	assert.Error(t, err)

	_, err = r.CreateTexture("bad", common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 3)})
	assert.Error(t, err)

	face := common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 16)}
	var faces [6]common.TextureStagingData
	for i := range faces {
		faces[i] = face
	}
	cube, err := r.CreateCubeTexture("sky", faces)
	require.NoError(t, err)
	assert.True(t, cube.Cube())

	faces[3] = common.TextureStagingData{Width: 4, Height: 2, Pixels: make([]byte, 32)}
	_, err = r.CreateCubeTexture("sky", faces)
	assert.Error(t, err)

	_, err = r.CreateProgram(ProgramDescriptor{Key: "broken", Source: "fn nothing() {}"})
	assert.ErrorIs(t, err, shader.ErrInvalidShader)
}

func TestRendererBuilderOptions(t *testing.T) {
	r := &renderer{}
	for _, opt := range []RendererBuilderOption{
		WithPresentMode(PresentModeVSync),
		WithSoftwareAdapter(true),
		WithUniformArenaSize(4096),
	} {
		opt(r)
	}
	require.NotNil(t, r.pendingPresentMode)
	assert.Equal(t, PresentModeVSync, *r.pendingPresentMode)
	assert.True(t, r.backendConfig.forceFallbackAdapter)
	assert.Equal(t, uint64(4096), r.backendConfig.uniformArenaSize)
}
