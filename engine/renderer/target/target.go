// Package target provides the render destinations a pass can write: offscreen RenderTargets,
// the Screen, and the two-target ping-pong Chain that accumulates the scene.
package target

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
)

var logger = log.New("target")

// Target is anything a pass can bind for writing.
type Target interface {
	// Label returns the target's debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Framebuffer returns the framebuffer to bind, or nil for the screen.
	//
	// Returns:
	//   - renderer.Framebuffer: the framebuffer, or nil
	Framebuffer() renderer.Framebuffer

	// Size returns the target's size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)
}

// RenderTarget is an offscreen Target owning exactly one framebuffer. Its size and format
// never change: a resize releases it and creates a replacement.
type RenderTarget interface {
	Target

	// ColorAttachment returns the color attachment for sampling by later passes.
	//
	// Returns:
	//   - renderer.Texture: the color attachment
	ColorAttachment() renderer.Texture

	// Format returns the color format.
	//
	// Returns:
	//   - pipeline.Format: the color format
	Format() pipeline.Format

	// Release frees the framebuffer. Safe to call more than once.
	Release()
}

type renderTargetImpl struct {
	mu *sync.Mutex

	label string
	fb    renderer.Framebuffer
}

var _ RenderTarget = &renderTargetImpl{}

// NewRenderTarget allocates a framebuffer of the given size and format. Sizes below 1 are
// clamped to 1.
//
// Parameters:
//   - factory: the resource factory that allocates the framebuffer
//   - label: a debug label
//   - width: the width in pixels
//   - height: the height in pixels
//   - format: the color format
//
// Returns:
//   - RenderTarget: the new target
//   - error: an error if the framebuffer could not be created
func NewRenderTarget(factory renderer.ResourceFactory, label string, width, height int, format pipeline.Format) (RenderTarget, error) {
	width, height = common.ClampSize(width, height)
	fb, err := factory.CreateFramebuffer(label, width, height, format)
	if err != nil {
		return nil, fmt.Errorf("render target %s: %w", label, err)
	}
	logger.Debugf("allocated %s %dx%d %s", label, width, height, format)
	return &renderTargetImpl{
		mu:    &sync.Mutex{},
		label: label,
		fb:    fb,
	}, nil
}

func (t *renderTargetImpl) Label() string {
	return t.label
}

func (t *renderTargetImpl) Framebuffer() renderer.Framebuffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fb
}

func (t *renderTargetImpl) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fb == nil {
		return 0, 0
	}
	return t.fb.Width(), t.fb.Height()
}

func (t *renderTargetImpl) ColorAttachment() renderer.Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fb == nil {
		return nil
	}
	return t.fb.ColorAttachment()
}

func (t *renderTargetImpl) Format() pipeline.Format {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fb == nil {
		return pipeline.FormatRGBA8Unorm
	}
	return t.fb.Format()
}

func (t *renderTargetImpl) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fb != nil {
		t.fb.Release()
		t.fb = nil
	}
}
