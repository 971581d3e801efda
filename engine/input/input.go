// Package input turns raw window events into an immutable per-frame Snapshot.
//
// A Tracker is fed by window callbacks between frames. Once per frame the engine calls
// Tracker.Snapshot, which returns everything that happened since the previous call and
// resets the edge-triggered state (mouse delta, key presses).
package input

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibits/common"
)

// Toggle names one of the boolean features that a key press flips.
type Toggle int

const (
	ToggleBeadSpecular Toggle = iota
	ToggleBeadDiffuse
	ToggleCloudObstacle
)

// NoPreset marks a Snapshot without a preset request.
const NoPreset = -1

// ResetPreset is the preset index requested by the reset-camera key.
const ResetPreset = -2

// Snapshot is the input state for exactly one frame.
type Snapshot struct {
	// Delta is the time elapsed since the previous snapshot.
	Delta time.Duration
	// Held is the set of keys down at snapshot time.
	Held map[uint32]bool
	// MouseDX and MouseDY are the cursor movement in pixels since the previous snapshot.
	MouseDX, MouseDY float32
	// Dragging is true while the right mouse button is held, which is camera control mode.
	// A press released before the snapshot still counts for that frame.
	Dragging bool
	// Toggled lists features whose key was pressed this frame, once per press.
	Toggled []Toggle
	// ExhibitToggled lists exhibit indices (F1 = 0) whose key was pressed this frame.
	ExhibitToggled []int
	// Preset is a 0-based camera preset index, ResetPreset, or NoPreset.
	Preset int
}

// IsHeld reports whether the key was down when the snapshot was built.
func (s Snapshot) IsHeld(key uint32) bool {
	return s.Held[key]
}

// Tracker accumulates window events between snapshots. It is safe to feed from the
// window's callback goroutine while the frame loop reads snapshots.
type Tracker interface {
	// KeyDown records a key press. Repeats of a held key do not re-trigger toggles.
	//
	// Parameters:
	//   - key: the GLFW key code
	KeyDown(key uint32)

	// KeyUp records a key release.
	//
	// Parameters:
	//   - key: the GLFW key code
	KeyUp(key uint32)

	// MouseButton records a mouse button transition. Only the right button affects camera mode.
	//
	// Parameters:
	//   - button: the GLFW mouse button index
	//   - pressed: true on press, false on release
	MouseButton(button int, pressed bool)

	// MouseMove records the absolute cursor position. Deltas accumulate only while dragging.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	MouseMove(x, y int32)

	// Snapshot returns the state accumulated since the previous call and resets edge state.
	//
	// Parameters:
	//   - delta: time elapsed since the previous frame
	//
	// Returns:
	//   - Snapshot: the frame's input state
	Snapshot(delta time.Duration) Snapshot
}

type trackerImpl struct {
	mu *sync.Mutex

	held     map[uint32]bool
	dragging bool
	// dragged latches a right press until the next snapshot
	dragged bool

	hasCursor      bool
	lastX, lastY   int32
	pendDX, pendDY float32

	toggled        []Toggle
	exhibitToggled []int
	preset         int
}

var _ Tracker = &trackerImpl{}

// NewTracker creates an empty Tracker.
//
// Returns:
//   - Tracker: a tracker with no keys held and no pending events
func NewTracker() Tracker {
	return &trackerImpl{
		mu:     &sync.Mutex{},
		held:   make(map[uint32]bool),
		preset: NoPreset,
	}
}

func (t *trackerImpl) KeyDown(key uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.held[key] {
		return
	}
	t.held[key] = true

	switch {
	case key == common.KeyB:
		t.toggled = append(t.toggled, ToggleBeadSpecular)
	case key == common.KeyN:
		t.toggled = append(t.toggled, ToggleBeadDiffuse)
	case key == common.KeyO:
		t.toggled = append(t.toggled, ToggleCloudObstacle)
	case key == common.KeyR:
		t.preset = ResetPreset
	case key >= common.Key1 && key <= common.Key9:
		t.preset = int(key - common.Key1)
	case key >= common.KeyF1 && key <= common.KeyF8:
		t.exhibitToggled = append(t.exhibitToggled, int(key-common.KeyF1))
	}
}

func (t *trackerImpl) KeyUp(key uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held, key)
}

func (t *trackerImpl) MouseButton(button int, pressed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if button != common.MouseButtonRight {
		return
	}
	t.dragging = pressed
	if pressed {
		t.dragged = true
	}
	// re-anchor so the first move after a press doesn't jump
	t.hasCursor = false
}

func (t *trackerImpl) MouseMove(x, y int32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hasCursor && t.dragging {
		t.pendDX += float32(x - t.lastX)
		t.pendDY += float32(y - t.lastY)
	}
	t.lastX, t.lastY = x, y
	t.hasCursor = true
}

func (t *trackerImpl) Snapshot(delta time.Duration) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	held := make(map[uint32]bool, len(t.held))
	for k := range t.held {
		held[k] = true
	}

	s := Snapshot{
		Delta:          delta,
		Held:           held,
		MouseDX:        t.pendDX,
		MouseDY:        t.pendDY,
		Dragging:       t.dragging || t.dragged,
		Toggled:        t.toggled,
		ExhibitToggled: t.exhibitToggled,
		Preset:         t.preset,
	}

	t.pendDX, t.pendDY = 0, 0
	t.dragged = false
	t.toggled = nil
	t.exhibitToggled = nil
	t.preset = NoPreset
	return s
}
