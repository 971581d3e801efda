package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Events are the callbacks a window delivers from its message loop. Nil fields are skipped.
type Events struct {
	// Update runs once per message loop iteration, after pending events were delivered.
	Update func()
	// Resize receives the new framebuffer size in pixels.
	Resize func(width, height int)
	// KeyDown receives the GLFW key code of a pressed or repeating key.
	KeyDown func(keyCode uint32)
	// KeyUp receives the GLFW key code of a released key.
	KeyUp func(keyCode uint32)
	// MouseButton receives the GLFW button index and whether it is now held.
	MouseButton func(button int, pressed bool)
	// MouseMove receives the cursor position in window coordinates.
	MouseMove func(x, y int32)
}

// Surface is the part of a window the renderer presents to.
type Surface interface {
	// SurfaceDescriptor returns a platform-appropriate descriptor for creating a WebGPU
	// surface, or nil if the window is gone.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the framebuffer size in pixels. On high-DPI displays this is larger
	// than the window size in screen coordinates.
	//
	// Returns:
	//   - width: framebuffer width
	//   - height: framebuffer height
	Size() (width, height int)
}

// Window is a desktop window the exhibit gallery renders into.
//
// The message loop must run on the goroutine that created the window. Everything
// except RequestClose belongs to that goroutine.
type Window interface {
	Surface

	// SetEvents replaces the event callbacks.
	//
	// Parameters:
	//   - events: the callbacks
	SetEvents(events Events)

	// ProcessMessages polls events until the window is asked to close. Escape asks it to close.
	ProcessMessages()

	// IsRunning reports whether the window has not been asked to close.
	IsRunning() bool

	// RequestClose asks the message loop to stop after its current iteration without
	// destroying the window. Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window. Closing twice is a no-op.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error
}

// settings are the creation parameters NewWindow applies.
type settings struct {
	title               string
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int
}

// NewWindow opens a GLFW window with no client API, ready for a WebGPU surface. It locks
// the calling goroutine to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: error if GLFW could not initialize or create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	s := settings{
		title:     "oxy-exhibits",
		width:     1280,
		height:    720,
		minWidth:  320,
		minHeight: 200,
	}
	for _, opt := range options {
		opt(&s)
	}
	w, err := openGLFWWindow(s)
	if err != nil {
		return nil, err
	}
	return w, nil
}
