// Package pass runs one render pass at a time with scoped GPU state.
//
// RunPass binds a target, optionally clears it, applies a depth comparison, and hands the
// caller an Encoder. However the draw function exits, including by panic, the depth
// comparison is restored to the default and the pass is ended before RunPass returns.
package pass

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/target"
)

var (
	// ErrFeedbackLoop is returned when a draw samples the color attachment of the target
	// its pass is writing. The draw is skipped.
	ErrFeedbackLoop = errors.New("draw samples the target being written")
	// ErrPassSkipped is returned when the device could not begin a pass. Nothing was drawn.
	ErrPassSkipped = errors.New("pass skipped")
)

var logger = log.New("pass")

// DrawFunc records the draws of one pass.
type DrawFunc func(enc Encoder) error

// Options configures one pass.
type Options struct {
	// Clear, when non-nil, clears color to this value and depth to 1 before drawing.
	Clear *renderer.Color
	// DepthFunc is the depth comparison for the pass. The zero value is less-than.
	DepthFunc pipeline.DepthFunc
}

// RunPass executes one pass into tgt.
//
// Parameters:
//   - dev: the device to record into
//   - tgt: the target to write, a RenderTarget or the Screen
//   - opts: the clear color and depth comparison
//   - draw: the function that records the pass's draws
//
// Returns:
//   - error: ErrPassSkipped if the pass could not begin, otherwise the first error draw returned
func RunPass(dev renderer.Device, tgt target.Target, opts Options, draw DrawFunc) error {
	desc := renderer.PassDescriptor{
		Label:     tgt.Label(),
		Clear:     opts.Clear,
		DepthFunc: opts.DepthFunc,
	}
	if beginErr := dev.BeginPass(tgt.Framebuffer(), desc); beginErr != nil {
		logger.Warningf("skipping pass %s: %v", tgt.Label(), beginErr)
		return fmt.Errorf("%w: %s: %v", ErrPassSkipped, tgt.Label(), beginErr)
	}
	defer func() {
		dev.SetDepthFunc(pipeline.DefaultDepthFunc)
		dev.EndPass()
	}()

	if draw == nil {
		return nil
	}
	if err := draw(newEncoder(dev, tgt)); err != nil {
		return fmt.Errorf("pass %s: %w", tgt.Label(), err)
	}
	return nil
}
