package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibits/engine/config"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/frame"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/input"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/profiler"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/renderer"
	"github.com/Carmen-Shannon/oxy-exhibits/engine/window"
)

var logger = log.New("engine")

// engine implements the Engine interface.
// Coordinates the render and window threads.
type engine struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	orch     frame.Orchestrator
	tracker  input.Tracker

	orchOptions     []frame.OrchestratorBuilderOption
	rendererOptions []renderer.RendererBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	// pending is the latest size reported by the window, applied by the render thread
	// before its next frame.
	sizeMu  sync.Mutex
	pending *[2]int

	lastErr string

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It owns the window, the renderer and the frame orchestrator, and runs the render loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Orchestrator returns the frame orchestrator driving the scene.
	//
	// Returns:
	//   - frame.Orchestrator: the orchestrator
	Orchestrator() frame.Orchestrator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render loop and the window message loop. Blocks until the window
	// closes, then releases every GPU resource.
	Run()

	// Quit signals the render goroutine to stop and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates the window, the renderer and the scene described by cfg.
// A window or renderer supplied through options is used instead of creating one.
//
// Parameters:
//   - cfg: the scene configuration
//   - options: functional options for engine configuration (profiling, frame limit, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the window, the renderer or the scene could not be created
func NewEngine(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		quitChannel: make(chan struct{}),
		tracker:     input.NewTracker(),
		profiler:    profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	ownsWindow := e.window == nil
	if ownsWindow {
		win, err := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create window: %w", err)
		}
		e.window = win
	}

	if e.renderer == nil {
		mode := renderer.PresentModeUncapped
		if cfg.Window.VSync {
			mode = renderer.PresentModeVSync
		}
		opts := append([]renderer.RendererBuilderOption{renderer.WithPresentMode(mode)}, e.rendererOptions...)
		r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, opts...)
		if err != nil {
			if ownsWindow {
				_ = e.window.Close()
			}
			return nil, fmt.Errorf("failed to create renderer: %w", err)
		}
		e.renderer = r
	}

	orch, err := frame.New(e.renderer, cfg, e.orchOptions...)
	if err != nil {
		if ownsWindow {
			_ = e.window.Close()
		}
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	e.orch = orch

	e.window.SetEvents(window.Events{
		Update:      e.onUpdate,
		Resize:      e.onResize,
		KeyDown:     e.tracker.KeyDown,
		KeyUp:       e.tracker.KeyUp,
		MouseButton: e.tracker.MouseButton,
		MouseMove:   e.tracker.MouseMove,
	})

	return e, nil
}

// onResize records the latest window size for the render thread to apply.
func (e *engine) onResize(width, height int) {
	e.sizeMu.Lock()
	e.pending = &[2]int{width, height}
	e.sizeMu.Unlock()
}

// onUpdate runs on the window thread and stops the message loop once quit was signalled.
func (e *engine) onUpdate() {
	select {
	case <-e.quitChannel:
		e.window.RequestClose()
	default:
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Orchestrator() frame.Orchestrator {
	return e.orch
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.orch.Release()
	_ = e.window.Close()
	logger.Infof("engine stopped")
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	e.window.RequestClose()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the render goroutine, tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleRender()
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := now.Sub(lastRender)
			lastRender = now

			e.renderOnce(dt)

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderOnce applies a pending resize, then renders one frame from the input gathered
// since the previous one.
func (e *engine) renderOnce(dt time.Duration) {
	e.sizeMu.Lock()
	pending := e.pending
	e.pending = nil
	e.sizeMu.Unlock()

	if pending != nil {
		if err := e.orch.Reshape(pending[0], pending[1]); err != nil {
			logger.Errorf("resize to %dx%d failed: %v", pending[0], pending[1], err)
		}
	}

	if err := e.orch.Frame(e.tracker.Snapshot(dt)); err != nil {
		// the same draw error tends to repeat every frame
		if msg := err.Error(); msg != e.lastErr {
			logger.Errorf("frame: %v", err)
			e.lastErr = msg
		}
	} else {
		e.lastErr = ""
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(e.orch.Passes())
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
