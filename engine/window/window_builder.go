package window

import "github.com/Carmen-Shannon/oxy-gl/common"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text, empty keeps the current title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = common.Coalesce(title, w.title)
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels, 0 keeps the current width
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = common.Coalesce(width, w.width)
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels, 0 keeps the current height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = common.Coalesce(height, w.height)
	}
}

// WithVisible controls whether the window is shown when created.
//
// Parameters:
//   - visible: false to create a hidden window
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVisible(visible bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.visible = visible
	}
}

// WithContextVersion requests a specific OpenGL context version. Versions of 3.2 and above
// request a compatibility profile; drivers that only offer core profiles fail window creation.
//
// Parameters:
//   - major: the context major version
//   - minor: the context minor version
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithContextVersion(major, minor int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.contextMajor = major
		w.contextMinor = minor
	}
}

// WithDoubleBuffer toggles the double-buffered default framebuffer.
//
// Parameters:
//   - enabled: true for double buffering (default)
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithDoubleBuffer(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.doubleBuffer = enabled
	}
}
