package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// nextResourceID hands out texture ids. Ids are never reused.
var nextResourceID atomic.Uint64

func newResourceID() uint64 {
	return nextResourceID.Add(1)
}

type wgpuTexture struct {
	id      uint64
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
	cube    bool

	once      sync.Once
	onRelease func(id uint64)
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) ID() uint64  { return t.id }
func (t *wgpuTexture) Width() int  { return t.width }
func (t *wgpuTexture) Height() int { return t.height }
func (t *wgpuTexture) Cube() bool  { return t.cube }

func (t *wgpuTexture) Release() {
	t.once.Do(func() {
		if t.onRelease != nil {
			t.onRelease(t.id)
		}
		if t.view != nil {
			t.view.Release()
		}
		if t.texture != nil {
			t.texture.Release()
		}
	})
}

type wgpuFramebuffer struct {
	label     string
	format    pipeline.Format
	color     *wgpuTexture
	depth     *wgpu.Texture
	depthView *wgpu.TextureView
	once      sync.Once
}

var _ Framebuffer = &wgpuFramebuffer{}

func (f *wgpuFramebuffer) Label() string            { return f.label }
func (f *wgpuFramebuffer) Width() int               { return f.color.width }
func (f *wgpuFramebuffer) Height() int              { return f.color.height }
func (f *wgpuFramebuffer) Format() pipeline.Format  { return f.format }
func (f *wgpuFramebuffer) ColorAttachment() Texture { return f.color }

func (f *wgpuFramebuffer) Release() {
	f.once.Do(func() {
		f.color.Release()
		if f.depthView != nil {
			f.depthView.Release()
		}
		if f.depth != nil {
			f.depth.Release()
		}
	})
}

type wgpuMesh struct {
	label      string
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount int
	once       sync.Once
}

var _ Mesh = &wgpuMesh{}

func (m *wgpuMesh) Label() string   { return m.label }
func (m *wgpuMesh) IndexCount() int { return m.indexCount }

func (m *wgpuMesh) Release() {
	m.once.Do(func() {
		m.vertex.Release()
		m.index.Release()
	})
}

// wgpuProgram is a compiled program. Its bind group resources live on the provider.
type wgpuProgram struct {
	mu *sync.Mutex

	shader   shader.Shader
	raster   pipeline.Raster
	uniforms *shader.UniformBlock

	module         *wgpu.ShaderModule
	pipelineLayout *wgpu.PipelineLayout
	provider       bind_group_provider.BindGroupProvider
	// emptyUniforms is bound at group 0 when the program only declares textures.
	emptyUniforms *wgpu.BindGroup

	once      sync.Once
	onRelease func(p *wgpuProgram)
}

var _ Program = &wgpuProgram{}

func (p *wgpuProgram) Key() string             { return p.shader.Key() }
func (p *wgpuProgram) Shader() shader.Shader   { return p.shader }
func (p *wgpuProgram) Raster() pipeline.Raster { return p.raster }

func (p *wgpuProgram) SetUniform(name string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uniforms.Set(name, value)
}

func (p *wgpuProgram) Uniforms() *shader.UniformBlock {
	return p.uniforms
}

// uniformBytes snapshots the staged block for a draw.
func (p *wgpuProgram) uniformBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.uniforms.Bytes()...)
}

func (p *wgpuProgram) Release() {
	p.once.Do(func() {
		if p.onRelease != nil {
			p.onRelease(p)
		}
		p.provider.Release()
		if p.emptyUniforms != nil {
			p.emptyUniforms.Release()
		}
		if p.pipelineLayout != nil {
			p.pipelineLayout.Release()
		}
		if p.module != nil {
			p.module.Release()
		}
	})
}
