package renderer

import (
	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/shader"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the GPU API layer beneath the renderer. The renderer validates pass
// ordering and resolves pipelines; the backend records and submits GPU work.
type RendererBackend interface {
	// ConfigureSurface configures the swapchain and the screen depth attachment for a size.
	//
	// Parameters:
	//   - width: the width in pixels, at least 1
	//   - height: the height in pixels, at least 1
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the GPU pipeline for p, which compiles prog under p.State().
	//
	// Parameters:
	//   - p: the pipeline to populate
	//   - prog: the program the pipeline draws
	//
	// Returns:
	//   - error: an error if the pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline, prog Program) error

	CreateFramebuffer(label string, width, height int, format pipeline.Format) (Framebuffer, error)
	CreateProgram(s shader.Shader, raster pipeline.Raster) (Program, error)
	CreateMesh(label string, vertices []byte, indices []uint32) (Mesh, error)
	CreateTexture(label string, data common.TextureStagingData) (Texture, error)
	CreateCubeTexture(label string, faces [6]common.TextureStagingData) (Texture, error)

	// BeginFrame acquires the surface texture and a command encoder.
	BeginFrame() error

	// BeginPass begins a render pass on target, or on the surface when target is nil.
	BeginPass(target Framebuffer, desc PassDescriptor) error

	// Draw encodes one draw with the resolved pipeline.
	Draw(p pipeline.Pipeline, cmd DrawCommand) error

	// EndPass ends the current render pass.
	EndPass()

	// EndFrame uploads staged uniforms and submits the command buffer.
	EndFrame()

	// Present presents the surface and releases the frame's surface texture.
	Present()
}
