package pass

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/target"
)

// Encoder records draws into the active pass. It is only valid inside the DrawFunc it was
// handed to.
type Encoder interface {
	// Draw records one draw. Textures bind to the program's texture slots in order.
	//
	// Parameters:
	//   - program: the program to draw with
	//   - mesh: the geometry, or nil for a full-screen triangle
	//   - textures: the textures for the program's slots
	//
	// Returns:
	//   - error: ErrFeedbackLoop if a texture is the pass target's color attachment, or a
	//     device error
	Draw(program renderer.Program, mesh renderer.Mesh, textures ...renderer.Texture) error

	// WithDepthFunc runs body with a different depth comparison and restores the previous
	// one afterwards, including on panic.
	//
	// Parameters:
	//   - fn: the depth comparison for body
	//   - body: the draws to record under fn
	//
	// Returns:
	//   - error: the error body returned
	WithDepthFunc(fn pipeline.DepthFunc, body func(enc Encoder) error) error

	// Target returns the target being written.
	//
	// Returns:
	//   - target.Target: the target
	Target() target.Target

	// Viewport returns the size of the target, which the viewport always covers.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Viewport() (int, int)
}

type encoderImpl struct {
	dev renderer.Device
	tgt target.Target
	// writing is the id of the color attachment being written, zero for the screen
	writing uint64
}

var _ Encoder = &encoderImpl{}

func newEncoder(dev renderer.Device, tgt target.Target) *encoderImpl {
	e := &encoderImpl{dev: dev, tgt: tgt}
	if fb := tgt.Framebuffer(); fb != nil {
		e.writing = fb.ColorAttachment().ID()
	}
	return e
}

func (e *encoderImpl) Draw(program renderer.Program, mesh renderer.Mesh, textures ...renderer.Texture) error {
	if e.writing != 0 {
		for _, t := range textures {
			if t != nil && t.ID() == e.writing {
				return fmt.Errorf("%w: %s samples %s", ErrFeedbackLoop, program.Key(), e.tgt.Label())
			}
		}
	}
	return e.dev.Draw(renderer.DrawCommand{
		Program:  program,
		Mesh:     mesh,
		Textures: textures,
	})
}

func (e *encoderImpl) WithDepthFunc(fn pipeline.DepthFunc, body func(enc Encoder) error) error {
	prev := e.dev.DepthFunc()
	e.dev.SetDepthFunc(fn)
	defer e.dev.SetDepthFunc(prev)
	return body(e)
}

func (e *encoderImpl) Target() target.Target {
	return e.tgt
}

func (e *encoderImpl) Viewport() (int, int) {
	return e.tgt.Size()
}
