package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestProfiler() (*Profiler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewProfiler()
	p.now = clock.now
	p.lastTime = clock.t
	return p, clock
}

func TestTickReportsOncePerInterval(t *testing.T) {
	p, clock := newTestProfiler()

	for i := 0; i < 9; i++ {
		clock.t = clock.t.Add(100 * time.Millisecond)
		assert.False(t, p.Tick(11))
	}
	clock.t = clock.t.Add(100 * time.Millisecond)
	require.True(t, p.Tick(11))

	s := p.Last()
	assert.InDelta(t, 10.0, s.FPS, 0.001)
	assert.InDelta(t, 11.0, s.PassesPerFrame, 0.001)
	assert.Greater(t, s.SysMB, 0.0)
}

func TestTickResetsCountersAfterReport(t *testing.T) {
	p, clock := newTestProfiler()

	clock.t = clock.t.Add(time.Second)
	require.True(t, p.Tick(4))
	assert.InDelta(t, 4.0, p.Last().PassesPerFrame, 0.001)

	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(10))
	clock.t = clock.t.Add(500 * time.Millisecond)
	require.True(t, p.Tick(2))

	s := p.Last()
	assert.InDelta(t, 2.0, s.FPS, 0.001)
	assert.InDelta(t, 6.0, s.PassesPerFrame, 0.001)
}
