package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Format is the color format of a render target.
type Format int

const (
	// FormatRGBA8Unorm is the format of offscreen targets sampled by later passes.
	FormatRGBA8Unorm Format = iota
	// FormatRGBA16Float is a higher precision offscreen format.
	FormatRGBA16Float
	// FormatSurface is the swapchain's preferred format, resolved by the backend.
	FormatSurface
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8Unorm:
		return "rgba8unorm"
	case FormatRGBA16Float:
		return "rgba16float"
	case FormatSurface:
		return "surface"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// WGPU resolves the format to a wgpu texture format. FormatSurface resolves to surface.
//
// Parameters:
//   - surface: the configured swapchain format
//
// Returns:
//   - wgpu.TextureFormat: the concrete texture format
func (f Format) WGPU(surface wgpu.TextureFormat) wgpu.TextureFormat {
	switch f {
	case FormatRGBA16Float:
		return wgpu.TextureFormatRGBA16Float
	case FormatSurface:
		return surface
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

// DepthFunc is the depth comparison applied by a pass. The zero value is DepthLess.
type DepthFunc int

const (
	// DepthLess passes fragments strictly closer than the stored depth.
	DepthLess DepthFunc = iota
	// DepthLessEqual also passes fragments at equal depth, used for geometry drawn at the far plane.
	DepthLessEqual
	// DepthAlways disables the depth comparison.
	DepthAlways
)

// DefaultDepthFunc is restored at the end of every pass.
const DefaultDepthFunc = DepthLess

func (d DepthFunc) String() string {
	switch d {
	case DepthLess:
		return "less"
	case DepthLessEqual:
		return "less-equal"
	case DepthAlways:
		return "always"
	}
	return fmt.Sprintf("DepthFunc(%d)", int(d))
}

// Compare returns the wgpu comparison function.
func (d DepthFunc) Compare() wgpu.CompareFunction {
	switch d {
	case DepthLessEqual:
		return wgpu.CompareFunctionLessEqual
	case DepthAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionLess
	}
}

// BlendMode selects the color blend equation of a program.
type BlendMode int

const (
	// BlendOpaque writes the fragment color unmodified.
	BlendOpaque BlendMode = iota
	// BlendAlpha is standard non-premultiplied alpha blending.
	BlendAlpha
	// BlendAdditive adds the weighted source onto the destination.
	BlendAdditive
)

func (b BlendMode) String() string {
	switch b {
	case BlendOpaque:
		return "opaque"
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	}
	return fmt.Sprintf("BlendMode(%d)", int(b))
}

// BlendState returns the wgpu blend state, or nil for opaque output.
func (b BlendMode) BlendState() *wgpu.BlendState {
	switch b {
	case BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}
	return nil
}

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

func (c CullMode) String() string {
	switch c {
	case CullNone:
		return "none"
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	}
	return fmt.Sprintf("CullMode(%d)", int(c))
}

// WGPU returns the wgpu cull mode.
func (c CullMode) WGPU() wgpu.CullMode {
	switch c {
	case CullBack:
		return wgpu.CullModeBack
	case CullFront:
		return wgpu.CullModeFront
	default:
		return wgpu.CullModeNone
	}
}

// Raster is the part of the pipeline state fixed when a program is created.
type Raster struct {
	Blend BlendMode
	Cull  CullMode
	// DepthReadOnly disables depth writes. The zero value writes depth.
	DepthReadOnly bool
}

// State is the complete fixed-function state of one GPU pipeline. A program is compiled
// into one pipeline per distinct State it is drawn with.
type State struct {
	Raster
	ColorFormat Format
	DepthFunc   DepthFunc
}

// Key returns a stable cache key for the state combined with a program key.
//
// Parameters:
//   - program: the program key
//
// Returns:
//   - string: the pipeline cache key
func (s State) Key(program string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|ro=%t", program, s.ColorFormat, s.DepthFunc, s.Blend, s.Cull, s.DepthReadOnly)
}
