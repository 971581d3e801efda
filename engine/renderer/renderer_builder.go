package renderer

// RendererBuilderOption configures a renderer before NewRenderer acquires the GPU.
type RendererBuilderOption func(*renderer)

// WithPresentMode picks how finished frames reach the display. It is applied once the
// surface exists.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: the option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithSoftwareAdapter requests the CPU fallback adapter. A software Vulkan ICD such as
// lavapipe or SwiftShader must be installed.
//
// Parameters:
//   - enabled: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: the option
func WithSoftwareAdapter(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.backendConfig.forceFallbackAdapter = enabled
	}
}

// WithUniformArenaSize sets how many bytes of uniform data one frame may stage. Every draw
// takes one aligned slot, so a frame of the full gallery needs a few dozen slots. Zero
// keeps the default of 1 MiB.
//
// Parameters:
//   - bytes: the arena capacity
//
// Returns:
//   - RendererBuilderOption: the option
func WithUniformArenaSize(bytes uint64) RendererBuilderOption {
	return func(r *renderer) {
		r.backendConfig.uniformArenaSize = bytes
	}
}
