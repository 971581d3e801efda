package target

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T, width, height int) (Chain, *renderertest.Renderer) {
	t.Helper()
	r := renderertest.New(width, height)
	c, err := NewChain(r, "scene", width, height)
	require.NoError(t, err)
	return c, r
}

func TestChain_ThreeSwapsFromInitialState(t *testing.T) {
	c, _ := newTestChain(t, 64, 32)
	a := c.Current()
	w1, r1 := c.Swap()
	b := w1

	assert.NotSame(t, a, b)
	assert.Same(t, a, r1)

	w2, r2 := c.Swap()
	assert.Same(t, a, w2)
	assert.Same(t, b, r2)

	w3, r3 := c.Swap()
	assert.Same(t, b, w3)
	assert.Same(t, a, r3)
}

func TestChain_SwapAlternates(t *testing.T) {
	c, _ := newTestChain(t, 16, 16)

	var prevWrite RenderTarget = c.Current()
	for k := 0; k < 9; k++ {
		write, read := c.Swap()
		assert.NotSame(t, write, read, "swap %d", k)
		assert.Same(t, prevWrite, read, "swap %d reads the previous write", k)
		assert.Same(t, write, c.CurrentRead(), "swap %d", k)
		prevWrite = write
	}
}

func TestChain_RewindRestartsAtA(t *testing.T) {
	c, _ := newTestChain(t, 16, 16)
	a := c.Current()

	c.Swap()
	c.Swap()
	c.Swap()
	c.Rewind()

	assert.Same(t, a, c.Current())
	_, read := c.Swap()
	assert.Same(t, a, read)
}

func TestChain_ResetClampsAndReplaces(t *testing.T) {
	c, r := newTestChain(t, 32, 32)
	old := c.Current()
	c.Swap()

	require.NoError(t, c.Reset(0, 0))

	w, h := c.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	for _, tgt := range []RenderTarget{c.Current(), c.CurrentRead()} {
		tw, th := tgt.Size()
		assert.Equal(t, 1, tw)
		assert.Equal(t, 1, th)
	}
	assert.NotSame(t, old, c.Current())

	write, read := c.Swap()
	assert.NotSame(t, write, read)
	assert.Nil(t, old.Framebuffer(), "replaced targets are released")
	assert.Len(t, r.LiveFramebuffers(), 2)
	assert.Len(t, r.Framebuffers(), 4)
}

func TestChain_Format(t *testing.T) {
	r := renderertest.New(8, 8)
	c, err := NewChain(r, "hdr", 8, 8, WithChainFormat(pipeline.FormatRGBA16Float))
	require.NoError(t, err)

	assert.Equal(t, pipeline.FormatRGBA16Float, c.Current().Format())
	write, read := c.Swap()
	assert.Equal(t, pipeline.FormatRGBA16Float, write.Format())
	assert.NotEqual(t, read.ColorAttachment().ID(), write.ColorAttachment().ID())
}

func TestChain_Release(t *testing.T) {
	c, r := newTestChain(t, 8, 8)
	c.Release()
	assert.Empty(t, r.LiveFramebuffers())
	c.Release()
}

type failingFactory struct {
	renderer.ResourceFactory
	calls  int
	failAt int
}

func (f *failingFactory) CreateFramebuffer(label string, w, h int, format pipeline.Format) (renderer.Framebuffer, error) {
	f.calls++
	if f.calls == f.failAt {
		return nil, errors.New("out of memory")
	}
	return f.ResourceFactory.CreateFramebuffer(label, w, h, format)
}

func TestChain_ResetFailureKeepsOldTargets(t *testing.T) {
	r := renderertest.New(8, 8)
	f := &failingFactory{ResourceFactory: r, failAt: 4}
	c, err := NewChain(f, "scene", 8, 8)
	require.NoError(t, err)
	a := c.Current()

	assert.Error(t, c.Reset(16, 16))
	assert.Same(t, a, c.Current())
	w, h := c.Current().Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
	assert.Len(t, r.LiveFramebuffers(), 2, "the partially built replacement is released")
}

func TestNewChain_Error(t *testing.T) {
	f := &failingFactory{ResourceFactory: renderertest.New(8, 8), failAt: 1}
	c, err := NewChain(f, "scene", 8, 8)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestScreen(t *testing.T) {
	r := renderertest.New(640, 360)
	s := NewScreen(r)

	assert.Nil(t, s.Framebuffer())
	w, h := s.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 360, h)

	r.Resize(0, 10)
	w, h = s.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 10, h)
}
