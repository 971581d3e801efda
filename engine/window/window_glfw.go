package window

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow implements Window on top of go-gl/glfw.
type glfwWindow struct {
	win    *glfw.Window
	events Events

	width, height int

	// closing may be set from any goroutine; the message loop checks it each iteration.
	closing   atomic.Bool
	destroyed bool
}

var _ Window = &glfwWindow{}

// openGLFWWindow creates the window and registers its input callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func openGLFWWindow(s settings) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU brings its own graphics API.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(s.width, s.height, s.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(s.minWidth, s.minHeight, sizeLimit(s.maxWidth), sizeLimit(s.maxHeight))

	w := &glfwWindow{win: win}
	// the framebuffer can differ from the requested size on high-DPI displays
	w.width, w.height = win.GetFramebufferSize()

	win.SetKeyCallback(w.onKey)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetCursorPosCallback(w.onCursor)
	win.SetFramebufferSizeCallback(w.onFramebufferSize)
	return w, nil
}

func (w *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.RequestClose()
		return
	}
	switch {
	case action == glfw.Release && w.events.KeyUp != nil:
		w.events.KeyUp(uint32(key))
	case action != glfw.Release && w.events.KeyDown != nil:
		w.events.KeyDown(uint32(key))
	}
}

func (w *glfwWindow) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if w.events.MouseButton != nil && action != glfw.Repeat {
		w.events.MouseButton(int(button), action == glfw.Press)
	}
}

func (w *glfwWindow) onCursor(_ *glfw.Window, x, y float64) {
	if w.events.MouseMove != nil {
		w.events.MouseMove(int32(x), int32(y))
	}
}

// onFramebufferSize reports pixel sizes, which is what the surface is configured with.
func (w *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.width, w.height = width, height
	if w.events.Resize != nil {
		w.events.Resize(width, height)
	}
}

func (w *glfwWindow) SetEvents(events Events) {
	w.events = events
}

// SurfaceDescriptor goes through the wgpuglfw bridge, which covers Windows, X11, Wayland and macOS.
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.destroyed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *glfwWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *glfwWindow) IsRunning() bool {
	return !w.destroyed && !w.closing.Load() && !w.win.ShouldClose()
}

func (w *glfwWindow) RequestClose() {
	w.closing.Store(true)
}

func (w *glfwWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		if !w.IsRunning() {
			break
		}
		if w.events.Update != nil {
			w.events.Update()
		}
		runtime.Gosched()
	}
}

func (w *glfwWindow) Close() error {
	if w.win == nil {
		return fmt.Errorf("window is not initialized")
	}
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.win.Destroy()
	glfw.Terminate()
	return nil
}

// sizeLimit maps an unset maximum to GLFW's "no limit".
func sizeLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}
