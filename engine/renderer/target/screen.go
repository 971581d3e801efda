package target

import "github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"

// SurfaceSizer reports the size of the presentation surface.
type SurfaceSizer interface {
	SurfaceSize() (int, int)
}

// Screen is the window surface as a Target. It always reflects the current surface size.
type Screen struct {
	surface SurfaceSizer
}

var _ Target = Screen{}

// NewScreen returns the Target for a surface.
//
// Parameters:
//   - surface: the surface, typically the renderer
//
// Returns:
//   - Screen: the screen target
func NewScreen(surface SurfaceSizer) Screen {
	return Screen{surface: surface}
}

func (Screen) Label() string { return "screen" }

func (Screen) Framebuffer() renderer.Framebuffer { return nil }

func (s Screen) Size() (int, int) {
	return s.surface.SurfaceSize()
}
