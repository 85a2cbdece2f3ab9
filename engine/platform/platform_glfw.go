package platform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// swapControlTearExtensions are the window-system extensions that allow a negative swap interval.
// Reference: https://www.glfw.org/docs/latest/group__context.html#ga6d4e0cdf151b5e579bd67f13202994ed
var swapControlTearExtensions = []string{
	"WGL_EXT_swap_control_tear",
	"GLX_EXT_swap_control_tear",
}

// glfwContext is the Context handle created by glfwPlatform. GLFW ties every context to a window,
// so the context lives in a hidden 1x1 window that shares objects with the application window.
type glfwContext struct {
	window *glfw.Window
}

// glfwPlatform implements Platform on top of GLFW and the OpenGL 2.1 compatibility bindings.
type glfwPlatform struct {
	attributes map[Attribute]int
	glLoaded   bool
	logger     *slog.Logger
}

var _ Platform = &glfwPlatform{}

// NewGLFWPlatform creates a Platform backed by GLFW. GLFW must already be initialized, which
// window.NewWindow does when it spawns the application window.
//
// Parameters:
//   - options: functional options to configure the platform
//
// Returns:
//   - Platform: the GLFW platform
func NewGLFWPlatform(options ...PlatformBuilderOption) Platform {
	p := &glfwPlatform{
		attributes: map[Attribute]int{
			AttributeShareWithCurrentContext: 0,
			AttributeDoubleBuffer:            1,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Identity loads the GL entry points on first use and reads the four identification strings.
// Reference: https://pkg.go.dev/github.com/go-gl/gl/v2.1/gl#GetString
func (p *glfwPlatform) Identity() (Identity, error) {
	cur := glfw.GetCurrentContext()
	if cur == nil {
		return Identity{}, ErrNoCurrentContext
	}
	if !p.glLoaded {
		if err := gl.Init(); err != nil {
			return Identity{}, fmt.Errorf("failed to load OpenGL entry points: %w", err)
		}
		p.glLoaded = true
	}
	version := glString(gl.VERSION)
	return Identity{
		Version:                version,
		ShadingLanguageVersion: glString(gl.SHADING_LANGUAGE_VERSION),
		Vendor:                 glString(gl.VENDOR),
		Renderer:               glString(gl.RENDERER),
		CoreProfile: cur.GetAttrib(glfw.OpenGLProfile) == glfw.OpenGLCoreProfile ||
			cur.GetAttrib(glfw.OpenGLForwardCompatible) == glfw.True ||
			strings.Contains(version, "Core Profile"),
	}, nil
}

func (p *glfwPlatform) SetAttribute(attr Attribute, value int) error {
	if _, ok := p.attributes[attr]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAttribute, attr)
	}
	p.attributes[attr] = value
	return nil
}

// SetSwapInterval applies the interval to the current context. GLFW silently ignores intervals
// it cannot honour, so negative intervals are checked against the tear-control extensions first.
func (p *glfwPlatform) SetSwapInterval(interval int) error {
	if glfw.GetCurrentContext() == nil {
		return ErrNoCurrentContext
	}
	if interval < 0 && !p.anyExtensionSupported(swapControlTearExtensions) {
		return fmt.Errorf("%w: %d", ErrUnsupportedSwapInterval, interval)
	}
	glfw.SwapInterval(interval)
	return nil
}

func (p *glfwPlatform) ExtensionSupported(name string) bool {
	if glfw.GetCurrentContext() == nil {
		return false
	}
	return glfw.ExtensionSupported(name)
}

// CreateContext creates a hidden window whose context honours the recorded attributes.
// When AttributeShareWithCurrentContext is set, objects are shared with the context current at call time.
//
// GLFW reference: https://www.glfw.org/docs/latest/context_guide.html#context_sharing
func (p *glfwPlatform) CreateContext(w window.Window) (Context, error) {
	parent, ok := w.NativeHandle().(*glfw.Window)
	if !ok || parent == nil {
		return nil, fmt.Errorf("window has no native GLFW handle")
	}

	var share *glfw.Window
	if p.attributes[AttributeShareWithCurrentContext] != 0 {
		share = glfw.GetCurrentContext()
	}

	glfw.DefaultWindowHints()
	defer glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.DoubleBuffer, glfwBool(p.attributes[AttributeDoubleBuffer]))

	ctxWindow, err := glfw.CreateWindow(1, 1, "", nil, share)
	if err != nil {
		return nil, fmt.Errorf("failed to create rendering context: %w", err)
	}
	p.logger.Debug("rendering context created", "shared", share != nil)
	return &glfwContext{window: ctxWindow}, nil
}

func (p *glfwPlatform) DeleteContext(ctx Context) {
	c, ok := ctx.(*glfwContext)
	if !ok || c == nil || c.window == nil {
		return
	}
	if glfw.GetCurrentContext() == c.window {
		glfw.DetachCurrentContext()
	}
	c.window.Destroy()
	c.window = nil
	p.logger.Debug("rendering context deleted")
}

func (p *glfwPlatform) MakeCurrent(ctx Context) error {
	c, ok := ctx.(*glfwContext)
	if !ok || c == nil || c.window == nil {
		return ErrInvalidContext
	}
	c.window.MakeContextCurrent()
	return nil
}

// anyExtensionSupported reports whether at least one of names is exposed by the current context.
func (p *glfwPlatform) anyExtensionSupported(names []string) bool {
	for _, name := range names {
		if glfw.ExtensionSupported(name) {
			return true
		}
	}
	return false
}

// glString reads a GL string parameter, returning "" when the driver returns NULL.
func glString(name uint32) string {
	ptr := gl.GetString(name)
	if ptr == nil {
		return ""
	}
	return gl.GoStr(ptr)
}

func glfwBool(v int) int {
	if v != 0 {
		return glfw.True
	}
	return glfw.False
}
