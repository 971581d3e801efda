package frame

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/assets"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exhibitNames = []string{"bead", "cloud", "mandelbox", "mandelbulb", "sponge", "portal", "kaleidoscope", "water"}

func snapshot(delta time.Duration) input.Snapshot {
	return input.Snapshot{Delta: delta, Preset: input.NoPreset}
}

func newTestOrchestrator(t *testing.T, cfg config.Config) (*renderertest.Renderer, Orchestrator) {
	t.Helper()
	r := renderertest.New(64, 48)
	o, err := New(r, cfg, WithDecodeWorkers(2))
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return r, o
}

// passGroups splits recorded events into passes: the begin event and the draws inside it.
type passGroup struct {
	begin renderertest.Event
	draws []renderertest.Event
}

func passGroups(events []renderertest.Event) []passGroup {
	var groups []passGroup
	for _, e := range events {
		switch e.Kind {
		case renderertest.EventBeginPass:
			groups = append(groups, passGroup{begin: e})
		case renderertest.EventDraw:
			groups[len(groups)-1].draws = append(groups[len(groups)-1].draws, e)
		}
	}
	return groups
}

func labels(groups []passGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.begin.Label
	}
	return out
}

func TestNewRegistry(t *testing.T) {
	items := NewRegistry(config.Default())
	require.Len(t, items, len(exhibitNames))
	for i, name := range exhibitNames {
		assert.Equal(t, name, items[i].Exhibit.Name())
		assert.True(t, items[i].Enabled)
	}
	assert.Equal(t, mgl32.Vec3{-7.5, 1.7, -7.5}, items[0].Position)

	cfg := config.Default()
	cfg.Toggles.Disabled = []string{"Water", "bead"}
	items = NewRegistry(cfg)
	assert.False(t, items[0].Enabled)
	assert.False(t, items[7].Enabled)
	assert.True(t, items[1].Enabled)
}

func TestComputeOrder_RegistryFromOrigin(t *testing.T) {
	items := NewRegistry(config.Default())
	order := ComputeOrder(items, mgl32.Vec3{})

	// portal and kaleidoscope tie, as do the three fractals; each tie keeps registry order
	assert.Equal(t, []int{5, 6, 2, 3, 4, 0, 1, 7}, order)
	assert.InDelta(t, 7.5, items[7].Distance, 1e-3)
}

func TestComputeOrder_StableAndNonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := make([]DrawItem, 40)
	for i := range items {
		// coarse grid positions produce plenty of exact ties
		items[i].Position = mgl32.Vec3{float32(rng.Intn(5) - 2), 0, float32(rng.Intn(5) - 2)}
	}

	order := ComputeOrder(items, mgl32.Vec3{})
	require.Len(t, order, len(items))
	seen := make(map[int]bool)
	for k, idx := range order {
		seen[idx] = true
		if k == 0 {
			continue
		}
		prev := order[k-1]
		assert.GreaterOrEqual(t, items[prev].Distance, items[idx].Distance)
		if items[prev].Distance == items[idx].Distance {
			assert.Less(t, prev, idx, "tie broken out of registry order")
		}
	}
	assert.Len(t, seen, len(items))
}

func TestComputeOrder_Empty(t *testing.T) {
	assert.Empty(t, ComputeOrder(nil, mgl32.Vec3{1, 2, 3}))
}

func TestFrame_PassSequence(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(16*time.Millisecond)))

	groups := passGroups(r.Events())
	assert.Equal(t, []string{
		"portal view", "panel",
		"scene A",
		"scene B", "scene A", "scene B", "scene A", "scene B", "scene A", "scene B",
		"screen",
	}, labels(groups))
	assert.Equal(t, len(groups), o.Passes())

	begun, presented := r.Frames()
	assert.Equal(t, 1, begun)
	assert.Equal(t, 1, presented)

	for _, g := range groups {
		assert.NotNil(t, g.begin.Clear, "pass %s should clear", g.begin.Label)
		assert.Equal(t, pipeline.DefaultDepthFunc, g.begin.DepthFunc)
	}
}

func TestFrame_ChainRouting(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(0)))

	groups := passGroups(r.Events())[2:] // skip pre-passes
	prev := groups[0].begin.Target
	require.NotNil(t, prev)
	for _, g := range groups[1:] {
		require.NotEmpty(t, g.draws)
		blit := g.draws[0]
		assert.Equal(t, assets.ProgramBlit, blit.Program.Key())
		require.Len(t, blit.Textures, 1)
		assert.Equal(t, prev.ColorAttachment().ID(), blit.Textures[0].ID(), "pass %s does not read the previous write", g.begin.Label)
		if g.begin.Target != nil {
			assert.NotSame(t, prev, g.begin.Target)
		}
		prev = g.begin.Target
	}
	assert.Nil(t, prev, "last pass must write the screen")
}

func TestFrame_FollowsDistanceOrder(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(0)))

	want := map[string]string{
		"bead": assets.ProgramBead, "cloud": assets.ProgramCloud, "mandelbox": assets.ProgramFractal,
		"mandelbulb": assets.ProgramFractal, "sponge": assets.ProgramFractal, "portal": assets.ProgramPortal,
		"kaleidoscope": assets.ProgramKaleidoscope, "water": assets.ProgramWater,
	}
	items := o.Items()
	order := o.Order()
	groups := passGroups(r.Events())[3:]
	require.Len(t, groups, len(order))
	for k, idx := range order {
		require.Len(t, groups[k].draws, 2)
		assert.Equal(t, want[items[idx].Exhibit.Name()], groups[k].draws[1].Program.Key())
	}
	for k := 1; k < len(order); k++ {
		assert.GreaterOrEqual(t, items[order[k-1]].Distance, items[order[k]].Distance)
	}
}

func TestFrame_EnvironmentSkyUsesLessEqual(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(0)))

	env := passGroups(r.Events())[2]
	require.Len(t, env.draws, 3)
	assert.Equal(t, assets.ProgramGround, env.draws[0].Program.Key())
	assert.Equal(t, assets.ProgramSolid, env.draws[1].Program.Key())
	assert.Equal(t, assets.ProgramSkybox, env.draws[2].Program.Key())
	assert.Equal(t, pipeline.DepthLess, env.draws[0].DepthFunc)
	assert.Equal(t, pipeline.DepthLessEqual, env.draws[2].DepthFunc)

	// the depth test is back to less-than once the sky is drawn
	var sawRestore bool
	for _, e := range r.Events() {
		if e.Kind == renderertest.EventSetDepthFunc && e.Target == env.begin.Target && e.DepthFunc == pipeline.DepthLess {
			sawRestore = true
		}
	}
	assert.True(t, sawRestore)
}

func TestFrame_PrePassOutputsReachExhibits(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(0)))

	groups := passGroups(r.Events())
	portalColor := groups[0].begin.Target.ColorAttachment().ID()
	panelColor := groups[1].begin.Target.ColorAttachment().ID()

	// the panel pass is a single full-screen draw; the portal pass ends with the other sky
	require.Len(t, groups[1].draws, 1)
	assert.Equal(t, assets.ProgramPanel, groups[1].draws[0].Program.Key())
	portalDraws := groups[0].draws
	require.NotEmpty(t, portalDraws)
	assert.Equal(t, assets.ProgramSkybox, portalDraws[len(portalDraws)-1].Program.Key())

	var portal, kaleidoscope bool
	for _, d := range r.Draws() {
		switch d.Program.Key() {
		case assets.ProgramPortal:
			portal = true
			assert.Equal(t, portalColor, d.Textures[0].ID())
		case assets.ProgramKaleidoscope:
			kaleidoscope = true
			assert.Equal(t, panelColor, d.Textures[0].ID())
		}
	}
	assert.True(t, portal)
	assert.True(t, kaleidoscope)
}

func TestFrame_DisabledExhibitsSkipPassesAndPrePasses(t *testing.T) {
	cfg := config.Default()
	cfg.Toggles.Disabled = []string{"portal", "kaleidoscope"}
	r, o := newTestOrchestrator(t, cfg)
	require.NoError(t, o.Frame(snapshot(0)))

	got := labels(passGroups(r.Events()))
	assert.Equal(t, []string{"scene A", "scene B", "scene A", "scene B", "scene A", "scene B", "screen"}, got)
	for _, d := range r.Draws() {
		assert.NotEqual(t, assets.ProgramPortal, d.Program.Key())
		assert.NotEqual(t, assets.ProgramPanel, d.Program.Key())
	}
}

func TestFrame_NothingEnabledBlitsToScreen(t *testing.T) {
	cfg := config.Default()
	cfg.Toggles.Disabled = exhibitNames
	r, o := newTestOrchestrator(t, cfg)
	require.NoError(t, o.Frame(snapshot(0)))

	groups := passGroups(r.Events())
	require.Equal(t, []string{"scene A", "screen"}, labels(groups))
	require.Len(t, groups[1].draws, 1)
	final := groups[1].draws[0]
	assert.Equal(t, assets.ProgramBlit, final.Program.Key())
	assert.Equal(t, groups[0].begin.Target.ColorAttachment().ID(), final.Textures[0].ID())
}

func TestFrame_SingleExhibitReadsEnvironment(t *testing.T) {
	cfg := config.Default()
	cfg.Toggles.Disabled = exhibitNames[1:]
	r, o := newTestOrchestrator(t, cfg)
	require.NoError(t, o.Frame(snapshot(0)))

	groups := passGroups(r.Events())
	require.Equal(t, []string{"scene A", "screen"}, labels(groups))
	assert.Equal(t, assets.ProgramBead, groups[1].draws[1].Program.Key())
	assert.Equal(t, groups[0].begin.Target.ColorAttachment().ID(), groups[1].draws[1].Textures[0].ID())
}

func TestFrame_EveryFrameRestartsAtA(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(0)))
	first := labels(passGroups(r.Events()))
	r.ClearEvents()
	require.NoError(t, o.Frame(snapshot(0)))
	assert.Equal(t, first, labels(passGroups(r.Events())))
}

func TestFrame_TogglesAndTime(t *testing.T) {
	_, o := newTestOrchestrator(t, config.Default())

	s := snapshot(500 * time.Millisecond)
	s.Toggled = []input.Toggle{input.ToggleBeadSpecular, input.ToggleCloudObstacle}
	s.ExhibitToggled = []int{7, 42, -1}
	require.NoError(t, o.Frame(s))
	require.NoError(t, o.Frame(snapshot(500*time.Millisecond)))

	assert.InDelta(t, 1.0, o.Time(), 1e-6)
	items := o.Items()
	bead := items[0].Exhibit.(*Bead)
	assert.False(t, bead.Specular)
	assert.True(t, bead.Diffuse)
	assert.True(t, items[1].Exhibit.(*Cloud).Obstacle)
	assert.False(t, items[7].Enabled)
	// two pre-passes, the environment and seven exhibits
	assert.Equal(t, 10, o.Passes())
}

func TestFrame_PresetMovesCamera(t *testing.T) {
	_, o := newTestOrchestrator(t, config.Default())
	s := snapshot(0)
	s.Preset = 0
	require.NoError(t, o.Frame(s))
	assert.Equal(t, mgl32.Vec3{-7.5, 1.7, -4.5}, o.Camera().Position())

	s.Preset = input.ResetPreset
	require.NoError(t, o.Frame(s))
	assert.Equal(t, mgl32.Vec3{0, 1.7, 3}, o.Camera().Position())
}

func TestFrame_SkippedPassesAreNotErrors(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	r.FailBeginPass(errors.New("surface lost"))
	assert.NoError(t, o.Frame(snapshot(0)))
	assert.Empty(t, r.Events())
	assert.Zero(t, o.Passes(), "skipped passes are not counted")

	_, presented := r.Frames()
	assert.Equal(t, 1, presented)
}

func TestFrame_UniformsPerDraw(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.NoError(t, o.Frame(snapshot(0)))

	// the three fractals share one program; each draw must carry its own kind
	fractal := r.Program(assets.ProgramFractal)
	layout, ok := fractal.Shader().Uniforms().Field("kind")
	require.True(t, ok)
	kinds := map[uint8]bool{}
	for _, d := range r.Draws() {
		if d.Program.Key() == assets.ProgramFractal {
			kinds[d.Uniforms[layout.Offset]] = true
		}
	}
	assert.Equal(t, map[uint8]bool{0: true, 1: true, 2: true}, kinds)
}

func TestReshape(t *testing.T) {
	r, o := newTestOrchestrator(t, config.Default())
	require.Len(t, r.LiveFramebuffers(), 4)

	require.NoError(t, o.Reshape(0, 0))
	live := r.LiveFramebuffers()
	require.Len(t, live, 4)
	for _, fb := range live {
		assert.Equal(t, 1, fb.Width(), fb.Label())
		assert.Equal(t, 1, fb.Height(), fb.Label())
	}
	w, h := r.SurfaceSize()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.InDelta(t, 1, o.Camera().Lens().Aspect, 1e-6)

	require.NoError(t, o.Reshape(800, 600))
	for _, fb := range r.LiveFramebuffers() {
		switch fb.Label() {
		case "scene A", "scene B":
			assert.Equal(t, 800, fb.Width())
			assert.Equal(t, 600, fb.Height())
		default:
			assert.Equal(t, 300, fb.Width())
			assert.Equal(t, 300, fb.Height())
		}
	}
	require.NoError(t, o.Frame(snapshot(0)))
}

func TestNew_Failures(t *testing.T) {
	t.Run("shader", func(t *testing.T) {
		r := renderertest.New(64, 48)
		r.FailProgram(assets.ProgramBead, errors.New("compile failed"))
		o, err := New(r, config.Default())
		assert.Error(t, err)
		assert.Nil(t, o)
		for _, key := range assets.ProgramKeys() {
			if p := r.Program(key); p != nil {
				assert.True(t, p.Released(), "program %s leaked", key)
			}
		}
	})

	for _, prefix := range []string{"scene B", "portal", "panel"} {
		t.Run("framebuffer "+prefix, func(t *testing.T) {
			r := renderertest.New(64, 48)
			incomplete := errors.New("incomplete framebuffer")
			r.FailFramebuffer(prefix, incomplete)

			var o Orchestrator
			var err error
			require.NotPanics(t, func() { o, err = New(r, config.Default()) })
			assert.ErrorIs(t, err, incomplete)
			assert.Nil(t, o)
			assert.Empty(t, r.LiveFramebuffers(), "targets created before the failure are released")
			for _, key := range assets.ProgramKeys() {
				assert.True(t, r.Program(key).Released(), "program %s leaked", key)
			}
		})
	}

	t.Run("missing asset", func(t *testing.T) {
		cfg := config.Default()
		cfg.Assets.GroundAlbedo = "/definitely/missing/albedo.png"
		o, err := New(renderertest.New(64, 48), cfg)
		assert.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Camera.MapSize = 0
		o, err := New(renderertest.New(64, 48), cfg)
		assert.Error(t, err)
		assert.Nil(t, o)
	})
}

func TestRelease(t *testing.T) {
	r := renderertest.New(64, 48)
	o, err := New(r, config.Default())
	require.NoError(t, err)
	o.Release()
	assert.Empty(t, r.LiveFramebuffers())
	for _, key := range assets.ProgramKeys() {
		assert.True(t, r.Program(key).Released(), key)
	}
}

func TestPortalView(t *testing.T) {
	portal := mgl32.Vec3{-11, 1.7, 0}
	view := portalView(portal, mgl32.Vec3{0, 1.7, 0})
	// the viewer lies straight ahead of the portal camera, on its -Z axis
	p := view.Mul4x1(mgl32.Vec4{0, 1.7, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, -11, p.Z(), 1e-4)

	// degenerate directions still give a finite view
	for _, cam := range []mgl32.Vec3{portal, portal.Add(mgl32.Vec3{0, 5, 0})} {
		v := portalView(portal, cam)
		for _, f := range v {
			assert.False(t, math.IsNaN(float64(f)), "NaN in view for %v", cam)
		}
	}
}

func TestFaceCenter(t *testing.T) {
	m := faceCenter(mgl32.Vec3{-11, 1.7, 0}, 2)
	normal := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
	assert.InDelta(t, 1, normal.X(), 1e-5)
	assert.InDelta(t, 0, normal.Z(), 1e-5)
}
