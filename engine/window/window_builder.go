package window

// WindowBuilderOption adjusts the settings NewWindow creates the window with.
type WindowBuilderOption func(s *settings)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(s *settings) {
		s.title = title
	}
}

// WithSize sets the requested window size. Values below 1 keep the default of 1280x720.
//
// Parameters:
//   - width: requested width in screen coordinates
//   - height: requested height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(s *settings) {
		s.width = positiveOr(width, s.width)
		s.height = positiveOr(height, s.height)
	}
}

// WithSizeLimits bounds interactive resizing. A zero maximum leaves that dimension
// unbounded; the minimum defaults to 320x200.
//
// Parameters:
//   - minWidth, minHeight: the smallest size
//   - maxWidth, maxHeight: the largest size, or zero
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(s *settings) {
		s.minWidth, s.minHeight = minWidth, minHeight
		s.maxWidth, s.maxHeight = maxWidth, maxHeight
	}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
