package renderer

import (
	"cmp"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// defaultUniformArenaSize bounds the uniform data a single frame may stage.
const defaultUniformArenaSize = 1 << 20

const depthFormat = wgpu.TextureFormatDepth24Plus

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)

	// uniformArena stages every draw's uniform block for the frame
	uniformArena  bind_group_provider.UniformArena
	uniformBuffer *wgpu.Buffer
	// sampler is shared by every sampler binding of every program
	sampler *wgpu.Sampler

	programs map[*wgpuProgram]struct{}

	// Frame state for batched rendering across multiple passes
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// backendConfig is the adapter and allocation setup collected from RendererBuilderOptions.
type backendConfig struct {
	forceFallbackAdapter bool
	uniformArenaSize     uint64
}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg backendConfig) (*wgpuRendererBackendImpl, error) {
	if cfg.uniformArenaSize == 0 {
		cfg.uniformArenaSize = defaultUniformArenaSize
	}
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		programs:    make(map[*wgpuProgram]struct{}),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	limits := wgpu.DefaultLimits()
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	w.uniformBuffer, err = d.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Uniform Arena",
		Size:  cfg.uniformArenaSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform arena: %w", err)
	}
	w.uniformArena = bind_group_provider.NewUniformArena(w.uniformBuffer, cfg.uniformArenaSize, uint64(limits.MinUniformBufferOffsetAlignment))

	w.sampler, err = d.CreateSampler(samplerDescriptor("Linear Sampler", common.SamplerStagingData{}))
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	return w, nil
}

// samplerDescriptor fills unset sampler fields with linear filtering and repeat addressing.
func samplerDescriptor(label string, s common.SamplerStagingData) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  cmp.Or(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  cmp.Or(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  cmp.Or(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     cmp.Or(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     cmp.Or(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  cmp.Or(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   cmp.Or(s.LodMinClamp, 0.0),
		LodMaxClamp:   cmp.Or(s.LodMaxClamp, 32.0),
		MaxAnisotropy: cmp.Or(s.MaxAnisotropy, 1),
	}
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
	}
	depthTexture, depthView, err := b.createDepth("Screen Depth", width, height)
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView = depthView
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

// createDepth allocates a depth attachment. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) createDepth(label string, width, height int) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) CreateFramebuffer(label string, width, height int, format pipeline.Format) (Framebuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	colorTex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label + " Color",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format.WGPU(b.surfaceFormat),
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("framebuffer %s color: %w", label, err)
	}
	colorView, err := colorTex.CreateView(nil)
	if err != nil {
		colorTex.Release()
		return nil, fmt.Errorf("framebuffer %s color view: %w", label, err)
	}
	depthTex, depthView, err := b.createDepth(label+" Depth", width, height)
	if err != nil {
		colorView.Release()
		colorTex.Release()
		return nil, fmt.Errorf("framebuffer %s depth: %w", label, err)
	}

	return &wgpuFramebuffer{
		label:  label,
		format: format,
		color: &wgpuTexture{
			id:        newResourceID(),
			label:     label + " Color",
			texture:   colorTex,
			view:      colorView,
			width:     width,
			height:    height,
			onRelease: b.forgetTexture,
		},
		depth:     depthTex,
		depthView: depthView,
	}, nil
}

func (b *wgpuRendererBackendImpl) CreateProgram(s shader.Shader, raster pipeline.Raster) (Program, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: s.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.Source(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", s.Key(), err)
	}

	p := &wgpuProgram{
		mu:        &sync.Mutex{},
		shader:    s,
		raster:    raster,
		uniforms:  shader.NewUniformBlock(s.Uniforms()),
		module:    module,
		provider:  bind_group_provider.NewBindGroupProvider(s.Key()),
		onRelease: b.forgetProgram,
	}
	if err := b.initProgramBindings(p); err != nil {
		p.Release()
		return nil, fmt.Errorf("bindings %s: %w", s.Key(), err)
	}

	p.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            s.Key(),
		BindGroupLayouts: p.provider.BindGroupLayouts(),
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("pipeline layout %s: %w", s.Key(), err)
	}

	b.programs[p] = struct{}{}
	return p, nil
}

// initProgramBindings creates the program's bind group layouts, its uniform bind group over
// the arena, and its samplers. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) initProgramBindings(p *wgpuProgram) error {
	descriptors := p.shader.BindGroupLayoutDescriptors()
	_, hasTextures := descriptors[shader.TextureGroup]

	uniformDesc, hasUniforms := descriptors[shader.UniformGroup]
	if !hasUniforms && hasTextures {
		// group 0 must exist below group 1
		uniformDesc = wgpu.BindGroupLayoutDescriptor{Label: p.Key() + " Empty Uniforms"}
	}
	if hasUniforms || hasTextures {
		layout, err := b.device.CreateBindGroupLayout(&uniformDesc)
		if err != nil {
			return err
		}
		p.provider.SetBindGroupLayout(shader.UniformGroup, layout)

		if hasUniforms {
			bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  p.Key() + " Uniforms",
				Layout: layout,
				Entries: []wgpu.BindGroupEntry{{
					Binding: 0,
					Buffer:  b.uniformBuffer,
					Offset:  0,
					Size:    p.shader.Uniforms().Size(),
				}},
			})
			if err != nil {
				return err
			}
			p.provider.SetUniformBindGroup(bg)
		} else {
			bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  uniformDesc.Label,
				Layout: layout,
			})
			if err != nil {
				return err
			}
			p.emptyUniforms = bg
		}
	}

	if hasTextures {
		textureDesc := descriptors[shader.TextureGroup]
		layout, err := b.device.CreateBindGroupLayout(&textureDesc)
		if err != nil {
			return err
		}
		p.provider.SetBindGroupLayout(shader.TextureGroup, layout)
		for _, binding := range p.shader.SamplerBindings() {
			p.provider.SetSampler(binding, b.sampler)
		}
	}
	return nil
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline, prog Program) error {
	wp, ok := prog.(*wgpuProgram)
	if !ok {
		return fmt.Errorf("program %s was not created by this backend", prog.Key())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	state := p.State()
	s := wp.shader

	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(s.VertexLayouts()))
	for i := 0; i < len(s.VertexLayouts()); i++ {
		vertexLayouts = append(vertexLayouts, s.VertexLayouts()[i]...)
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey(),
		Layout: wp.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     wp.module,
			EntryPoint: s.VertexEntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     wp.module,
			EntryPoint: s.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    state.ColorFormat.WGPU(b.surfaceFormat),
				Blend:     state.Blend.BlendState(),
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  state.Cull.WGPU(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: !state.DepthReadOnly,
			DepthCompare:      state.DepthFunc.Compare(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, vertices []byte, indices []uint32) (Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertices)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(vb, 0, vertices)

	indexData := common.SliceToBytes(indices)
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, err
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	return &wgpuMesh{label: label, vertex: vb, index: ib, indexCount: len(indices)}, nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploadTexture(label, []common.TextureStagingData{data}, false)
}

func (b *wgpuRendererBackendImpl) CreateCubeTexture(label string, faces [6]common.TextureStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploadTexture(label, faces[:], true)
}

// uploadTexture creates a texture with one layer per image. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) uploadTexture(label string, layers []common.TextureStagingData, cube bool) (*wgpuTexture, error) {
	width, height := layers[0].Width, layers[0].Height

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: uint32(len(layers)),
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	for i, layer := range layers {
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: uint32(i)},
				Aspect:   wgpu.TextureAspectAll,
			},
			layer.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  width * 4,
				RowsPerImage: height,
			},
			&wgpu.Extent3D{
				Width:              width,
				Height:             height,
				DepthOrArrayLayers: 1,
			},
		)
	}

	var viewDesc *wgpu.TextureViewDescriptor
	if cube {
		viewDesc = &wgpu.TextureViewDescriptor{
			Label:           label + " Cube View",
			Format:          wgpu.TextureFormatRGBA8UnormSrgb,
			Dimension:       wgpu.TextureViewDimensionCube,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: 6,
			Aspect:          wgpu.TextureAspectAll,
		}
	}
	view, err := tex.CreateView(viewDesc)
	if err != nil {
		tex.Release()
		return nil, err
	}

	return &wgpuTexture{
		id:        newResourceID(),
		label:     label,
		texture:   tex,
		view:      view,
		width:     int(width),
		height:    int(height),
		cube:      cube,
		onRelease: b.forgetTexture,
	}, nil
}

// forgetTexture drops every cached texture bind group that references a released texture.
func (b *wgpuRendererBackendImpl) forgetTexture(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for p := range b.programs {
		p.provider.ForgetTexture(id)
	}
}

func (b *wgpuRendererBackendImpl) forgetProgram(p *wgpuProgram) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.programs, p)
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If a previous frame's surface texture is still held, acquiring another one
	// fails with "Surface image is already acquired".
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.uniformArena.Reset()
	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) BeginPass(target Framebuffer, desc PassDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return ErrNoFrame
	}

	colorView, depthView := b.frameView, b.depthTextureView
	if target != nil {
		fb, ok := target.(*wgpuFramebuffer)
		if !ok {
			return fmt.Errorf("framebuffer %s was not created by this backend", target.Label())
		}
		colorView, depthView = fb.color.view, fb.depthView
	}

	color := wgpu.RenderPassColorAttachment{
		View:    colorView,
		LoadOp:  wgpu.LoadOpLoad,
		StoreOp: wgpu.StoreOpStore,
	}
	depth := &wgpu.RenderPassDepthStencilAttachment{
		View:            depthView,
		DepthLoadOp:     wgpu.LoadOpLoad,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1.0,
	}
	if desc.Clear != nil {
		color.LoadOp = wgpu.LoadOpClear
		color.ClearValue = wgpu.Color{R: desc.Clear.R, G: desc.Clear.G, B: desc.Clear.B, A: desc.Clear.A}
		depth.DepthLoadOp = wgpu.LoadOpClear
	}

	b.framePass = b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:                  desc.Label,
		ColorAttachments:       []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: depth,
	})
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(p pipeline.Pipeline, cmd DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoActivePass
	}
	prog, ok := cmd.Program.(*wgpuProgram)
	if !ok {
		return fmt.Errorf("program %s was not created by this backend", cmd.Program.Key())
	}

	b.framePass.SetPipeline(p.RenderPipeline())

	switch {
	case prog.provider.UniformBindGroup() != nil:
		offset, err := b.uniformArena.Alloc(prog.uniformBytes())
		if err != nil {
			return err
		}
		b.framePass.SetBindGroup(shader.UniformGroup, prog.provider.UniformBindGroup(), []uint32{offset})
	case prog.emptyUniforms != nil:
		b.framePass.SetBindGroup(shader.UniformGroup, prog.emptyUniforms, nil)
	}

	if len(cmd.Textures) > 0 {
		bg, err := b.textureBindGroup(prog, cmd.Textures)
		if err != nil {
			return err
		}
		b.framePass.SetBindGroup(shader.TextureGroup, bg, nil)
	}

	if cmd.Mesh == nil {
		b.framePass.Draw(3, 1, 0, 0)
		return nil
	}
	mesh, ok := cmd.Mesh.(*wgpuMesh)
	if !ok {
		return fmt.Errorf("mesh %s was not created by this backend", cmd.Mesh.Label())
	}
	b.framePass.SetVertexBuffer(0, mesh.vertex, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(mesh.indexCount), 1, 0, 0, 0)
	return nil
}

// textureBindGroup returns the cached texture bind group for a program's texture set,
// creating it on a miss. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) textureBindGroup(prog *wgpuProgram, textures []Texture) (*wgpu.BindGroup, error) {
	ids := make([]uint64, len(textures))
	for i, t := range textures {
		ids[i] = t.ID()
	}
	if bg, ok := prog.provider.TextureBindGroup(ids); ok {
		return bg, nil
	}

	slots := prog.shader.TextureSlots()
	entries := make([]wgpu.BindGroupEntry, 0, len(slots)+len(prog.shader.SamplerBindings()))
	for i, slot := range slots {
		tex, ok := textures[i].(*wgpuTexture)
		if !ok {
			return nil, fmt.Errorf("texture for slot %s was not created by this backend", slot.Name)
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(slot.Binding),
			TextureView: tex.view,
		})
	}
	for _, binding := range prog.shader.SamplerBindings() {
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: uint32(binding),
			Sampler: prog.provider.Sampler(binding),
		})
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   prog.Key() + " Textures",
		Layout:  prog.provider.BindGroupLayout(shader.TextureGroup),
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	prog.provider.SetTextureBindGroup(ids, bg)
	return bg, nil
}

func (b *wgpuRendererBackendImpl) EndPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}

	// Uniform writes are ordered before the command buffer they feed.
	for _, w := range b.uniformArena.Pending() {
		b.queue.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}
