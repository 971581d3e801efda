package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII): move forward
	KeyA     = 65  // A key (ASCII): strafe left
	KeyS     = 83  // S key (ASCII): move backward
	KeyD     = 68  // D key (ASCII): strafe right
	KeyQ     = 81  // Q key (ASCII): move down
	KeyE     = 69  // E key (ASCII): move up
	KeyB     = 66  // B key (ASCII): toggle bead specular
	KeyN     = 78  // N key (ASCII): toggle bead diffuse
	KeyO     = 79  // O key (ASCII): toggle cloud obstacle
	KeyR     = 82  // R key (ASCII): reset camera
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// Function keys toggle exhibits on and off, F1 for the first registered exhibit.
const (
	KeyF1 = 290 + iota // F1 (GLFW)
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
)

// Mouse buttons as reported by the window layer (GLFW numbering).
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)
