package target

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
)

// Chain is a pair of equally sized RenderTargets, A and B, that alternate as the scene is
// layered one exhibit at a time. Exactly one target is active: it holds the scene drawn so far.
//
// Each Swap hands out the inactive target for writing and the active one for reading, then
// makes the written target active. Across consecutive swaps, every read target is the
// previous write target and no swap ever returns the same target for both.
type Chain interface {
	// Current returns the active target. After Rewind this is A, the first write target of a frame.
	//
	// Returns:
	//   - RenderTarget: the active target
	Current() RenderTarget

	// CurrentRead returns the most recently written target.
	//
	// Returns:
	//   - RenderTarget: the target holding the scene so far
	CurrentRead() RenderTarget

	// Swap returns the next write target and the read target, then flips the active index.
	//
	// Returns:
	//   - RenderTarget: the target to write (the inactive one)
	//   - RenderTarget: the target to read (the active one)
	Swap() (write, read RenderTarget)

	// Rewind makes A active again. Called at the start of every frame.
	Rewind()

	// Reset releases both targets and recreates them at the new size, clamped to at least 1,
	// leaving A active.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if a target could not be created; the chain keeps its old targets
	Reset(width, height int) error

	// Size returns the size of both targets.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// Release frees both targets.
	Release()
}

type chainImpl struct {
	mu *sync.Mutex

	factory renderer.ResourceFactory
	label   string
	format  pipeline.Format

	targets [2]RenderTarget
	active  int
	width   int
	height  int
}

var _ Chain = &chainImpl{}

// NewChain allocates both targets of a ping-pong chain.
//
// Parameters:
//   - factory: the resource factory that allocates the targets
//   - label: a debug label prefix
//   - width: the width in pixels
//   - height: the height in pixels
//   - options: variadic list of ChainBuilderOption functions
//
// Returns:
//   - Chain: the chain with A active
//   - error: an error if either target could not be created
func NewChain(factory renderer.ResourceFactory, label string, width, height int, options ...ChainBuilderOption) (Chain, error) {
	c := &chainImpl{
		mu:      &sync.Mutex{},
		factory: factory,
		label:   label,
		format:  pipeline.FormatRGBA8Unorm,
	}
	for _, opt := range options {
		opt(c)
	}

	if err := c.Reset(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *chainImpl) Current() RenderTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targets[c.active]
}

func (c *chainImpl) CurrentRead() RenderTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targets[c.active]
}

func (c *chainImpl) Swap() (write, read RenderTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()

	read = c.targets[c.active]
	c.active = 1 - c.active
	write = c.targets[c.active]
	return write, read
}

func (c *chainImpl) Rewind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = 0
}

func (c *chainImpl) Reset(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	width, height = common.ClampSize(width, height)
	var next [2]RenderTarget
	for i, name := range []string{"A", "B"} {
		t, err := NewRenderTarget(c.factory, fmt.Sprintf("%s %s", c.label, name), width, height, c.format)
		if err != nil {
			if next[0] != nil {
				next[0].Release()
			}
			return err
		}
		next[i] = t
	}

	c.releaseTargets()
	c.targets = next
	c.active = 0
	c.width, c.height = width, height
	logger.Infof("%s chain allocated %dx%d", c.label, width, height)
	return nil
}

func (c *chainImpl) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *chainImpl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseTargets()
}

// releaseTargets releases and clears both targets. Caller must hold the mutex.
func (c *chainImpl) releaseTargets() {
	for i, t := range c.targets {
		if t != nil {
			t.Release()
			c.targets[i] = nil
		}
	}
}
