package platform

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

var (
	// ErrNoCurrentContext is returned when an operation needs a current rendering context and none is bound.
	ErrNoCurrentContext = errors.New("platform: no current rendering context")

	// ErrUnsupportedSwapInterval is returned when the driver rejects a requested swap interval.
	ErrUnsupportedSwapInterval = errors.New("platform: swap interval not supported")

	// ErrUnknownAttribute is returned by SetAttribute for attributes the platform does not recognize.
	ErrUnknownAttribute = errors.New("platform: unknown context attribute")

	// ErrInvalidContext is returned when a Context handle was not created by this platform or was already deleted.
	ErrInvalidContext = errors.New("platform: invalid context handle")
)

// Attribute identifies a context attribute applied to the next rendering context the platform creates.
type Attribute int

const (
	// AttributeShareWithCurrentContext makes newly created contexts share objects with the context current at creation time.
	AttributeShareWithCurrentContext Attribute = iota

	// AttributeDoubleBuffer requests a double-buffered default framebuffer.
	AttributeDoubleBuffer
)

func (a Attribute) String() string {
	switch a {
	case AttributeShareWithCurrentContext:
		return "share_with_current_context"
	case AttributeDoubleBuffer:
		return "double_buffer"
	default:
		return "unknown"
	}
}

// Swap intervals understood by SetSwapInterval.
const (
	// SwapIntervalAdaptive is late swap tearing: vsync when on time, tear when a frame is late.
	SwapIntervalAdaptive = -1

	// SwapIntervalImmediate disables vertical sync.
	SwapIntervalImmediate = 0

	// SwapIntervalVSync waits for one vertical blank per swap.
	SwapIntervalVSync = 1
)

// Identity holds the four identification strings reported by the current rendering context.
type Identity struct {
	// Version is the GL_VERSION string.
	Version string

	// ShadingLanguageVersion is the GL_SHADING_LANGUAGE_VERSION string.
	ShadingLanguageVersion string

	// Vendor is the GL_VENDOR string.
	Vendor string

	// Renderer is the GL_RENDERER string.
	Renderer string

	// CoreProfile is true for core and forward-compatible contexts.
	CoreProfile bool
}

// Context is an opaque rendering context handle created by a Platform.
// Only the Platform that created it may interpret or delete it.
type Context any

// Platform is the windowing/graphics layer a shader context is brought up on.
// All methods must be called from the thread that owns the graphics context.
type Platform interface {
	// Identity queries the currently bound rendering context for its version, vendor, renderer
	// and shading language strings.
	//
	// Returns:
	//   - Identity: the identification strings
	//   - error: ErrNoCurrentContext if no context is current, or a driver loading error
	Identity() (Identity, error)

	// SetAttribute records a context attribute applied to contexts created afterwards.
	//
	// Parameters:
	//   - attr: the attribute to set
	//   - value: the attribute value, 0 or 1 for boolean attributes
	//
	// Returns:
	//   - error: ErrUnknownAttribute for unsupported attributes
	SetAttribute(attr Attribute, value int) error

	// SetSwapInterval sets the swap interval of the current context.
	//
	// Parameters:
	//   - interval: one of the SwapInterval* constants
	//
	// Returns:
	//   - error: ErrUnsupportedSwapInterval if the driver rejects the interval
	SetSwapInterval(interval int) error

	// ExtensionSupported reports whether the current context exposes the named extension.
	//
	// Parameters:
	//   - name: the extension name, e.g. "GL_ARB_shader_objects"
	//
	// Returns:
	//   - bool: true if the extension is available
	ExtensionSupported(name string) bool

	// CreateContext creates a rendering context tied to the given window.
	//
	// Parameters:
	//   - w: the window the context belongs to
	//
	// Returns:
	//   - Context: the new context handle
	//   - error: an error if the context could not be created
	CreateContext(w window.Window) (Context, error)

	// DeleteContext destroys a context created by CreateContext. Deleting nil is a no-op.
	//
	// Parameters:
	//   - ctx: the context to destroy
	DeleteContext(ctx Context)

	// MakeCurrent binds ctx to the calling thread.
	//
	// Parameters:
	//   - ctx: the context to bind
	//
	// Returns:
	//   - error: ErrInvalidContext if ctx was not created by this platform
	MakeCurrent(ctx Context) error
}
