package shader_context

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/platform"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// State is the lifecycle state of a ShaderContext.
type State int

const (
	// StateUninitialized is the state before the first Initialize.
	StateUninitialized State = iota

	// StateInitializing is held while Initialize runs.
	StateInitializing

	// StateActiveGLSL means the universal GLSL backend was committed.
	StateActiveGLSL

	// StateActiveARB means the legacy ARB backend was committed.
	StateActiveARB

	// StateFailed means the last Initialize found no usable backend. It behaves like StateUninitialized.
	StateFailed

	// StateQuit means the context was released by Quit.
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateActiveGLSL:
		return "active_glsl"
	case StateActiveARB:
		return "active_arb"
	case StateFailed:
		return "failed"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Active reports whether s is one of the active states.
//
// Returns:
//   - bool: true for StateActiveGLSL and StateActiveARB
func (s State) Active() bool {
	return s == StateActiveGLSL || s == StateActiveARB
}

// Capabilities is the record of driver identification strings and the committed backend,
// captured once per Initialize.
type Capabilities struct {
	// OpenGLVersion is the GL_VERSION string.
	OpenGLVersion string

	// ShadingLanguageVersion is the GL_SHADING_LANGUAGE_VERSION string.
	ShadingLanguageVersion string

	// Vendor is the GL_VENDOR string.
	Vendor string

	// Renderer is the GL_RENDERER string.
	Renderer string

	// Backend is the shading backend committed by Initialize, BackendNone if none.
	Backend shader.BackendKind
}

// shaderContext is the implementation of the ShaderContext interface.
// It is not safe for concurrent use; every call must come from the render thread.
type shaderContext struct {
	platform platform.Platform
	window   window.Window
	logger   *slog.Logger

	// backends is the priority list evaluated by Initialize, first match wins.
	backends []shader.Backend

	// library feeds the default backends when no explicit list is given.
	library shader.Library

	// swapIntervals is the vertical sync policy list evaluated by Initialize, first accepted wins.
	swapIntervals []int

	state        State
	caps         Capabilities
	swapInterval int
	backend      shader.Backend
	ctx          platform.Context
}

// ShaderContext owns the rendering context of a window, negotiates the shading backend and
// creates shaders for it. Callers never branch on the backend: every Shader returned by
// CreateShader comes from the backend committed by the most recent successful Initialize.
//
// A ShaderContext is single-threaded by contract. All calls must come from the thread that
// owns the window's OpenGL context, and Initialize must complete before CreateShader is used.
type ShaderContext interface {
	// Initialize captures the driver identity, configures context attributes and vertical sync,
	// commits the first backend in priority order whose probe and initialization succeed, and
	// creates the owned rendering context. The window's context must be current.
	// Calling Initialize again without Quit releases the previous context first.
	//
	// Returns:
	//   - bool: true if a backend was committed, false if every backend failed
	Initialize() bool

	// Quit releases the owned rendering context. Safe to call repeatedly and before Initialize.
	Quit()

	// MakeCurrent binds the owned rendering context to the calling thread.
	//
	// Returns:
	//   - error: a platform error if there is no live context to bind
	MakeCurrent() error

	// CreateShader creates a shader for id on the committed backend.
	// Returns nil if no backend is committed.
	//
	// Parameters:
	//   - id: the logical shader identifier
	//
	// Returns:
	//   - shader.Shader: the new shader holding one reference
	CreateShader(id string) shader.Shader

	// OpenGLVersion returns the GL_VERSION string captured by Initialize.
	//
	// Returns:
	//   - string: the version, empty before Initialize
	OpenGLVersion() string

	// ShadingLanguageVersion returns the GL_SHADING_LANGUAGE_VERSION string captured by Initialize.
	//
	// Returns:
	//   - string: the version, empty before Initialize
	ShadingLanguageVersion() string

	// Vendor returns the GL_VENDOR string captured by Initialize.
	//
	// Returns:
	//   - string: the vendor, empty before Initialize
	Vendor() string

	// Renderer returns the GL_RENDERER string captured by Initialize.
	//
	// Returns:
	//   - string: the renderer, empty before Initialize
	Renderer() string

	// Capabilities returns a copy of the full capability record.
	//
	// Returns:
	//   - Capabilities: the record captured by Initialize
	Capabilities() Capabilities

	// Backend returns the committed backend kind.
	//
	// Returns:
	//   - shader.BackendKind: BackendNone unless a backend is active
	Backend() shader.BackendKind

	// SwapInterval returns the swap interval accepted by the driver during Initialize.
	//
	// Returns:
	//   - int: the accepted interval, or 0 if every interval in the policy was rejected
	SwapInterval() int

	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State
}

var _ ShaderContext = &shaderContext{}

// NewShaderContext creates an uninitialized ShaderContext for the given platform and window.
// Without WithBackends the context negotiates shader.DefaultBackends without a source library,
// so every shader it creates reports shader.ErrSourceNotFound.
//
// Parameters:
//   - p: the platform providing context identity, configuration and lifetime operations
//   - w: the window the rendering context is tied to
//   - options: functional options to configure the context
//
// Returns:
//   - ShaderContext: the new, uninitialized context
func NewShaderContext(p platform.Platform, w window.Window, options ...ShaderContextBuilderOption) ShaderContext {
	c := &shaderContext{
		platform:      p,
		window:        w,
		logger:        slog.New(slog.DiscardHandler),
		swapIntervals: DefaultSwapIntervals(),
		state:         StateUninitialized,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.backends == nil {
		c.backends = shader.DefaultBackends(c.library, c.logger)
	}
	return c
}

func (c *shaderContext) Initialize() bool {
	if c.ctx != nil {
		c.logger.Warn("shader context initialized twice without quit, releasing previous context")
		c.release()
	}

	c.state = StateInitializing
	c.caps = Capabilities{}
	c.backend = nil
	c.swapInterval = 0

	identity, err := c.platform.Identity()
	if err != nil {
		c.logger.Error("failed to query rendering context", "error", err)
		c.state = StateFailed
		return false
	}
	c.caps = Capabilities{
		OpenGLVersion:          identity.Version,
		ShadingLanguageVersion: identity.ShadingLanguageVersion,
		Vendor:                 identity.Vendor,
		Renderer:               identity.Renderer,
	}
	c.logger.Info("OpenGL", "version", identity.Version)
	c.logger.Info("OpenGL vendor", "vendor", identity.Vendor)
	c.logger.Info("OpenGL renderer", "renderer", identity.Renderer)
	c.logger.Info("OpenGL shading language", "version", identity.ShadingLanguageVersion)

	c.configureAttributes()
	c.swapInterval = c.negotiateSwapInterval()

	drv := &contextDriver{identity: identity, platform: c.platform}
	b := c.negotiateBackend(drv)
	if b == nil {
		c.logger.Error("no shading backend available", "tried", len(c.backends))
		c.state = StateFailed
		return false
	}

	ctx, err := c.platform.CreateContext(c.window)
	if err != nil {
		c.logger.Error("failed to create rendering context", "error", err)
		c.state = StateFailed
		return false
	}

	c.ctx = ctx
	c.backend = b
	c.caps.Backend = b.Kind()
	if b.Kind() == shader.BackendARB {
		c.state = StateActiveARB
	} else {
		c.state = StateActiveGLSL
	}
	c.logger.Info("shader context ready", "backend", b.Kind(), "swap_interval", c.swapInterval)
	return true
}

func (c *shaderContext) Quit() {
	c.release()
	if c.state.Active() {
		c.state = StateQuit
	}
}

func (c *shaderContext) MakeCurrent() error {
	return c.platform.MakeCurrent(c.ctx)
}

func (c *shaderContext) CreateShader(id string) shader.Shader {
	if c.backend == nil {
		return nil
	}
	return c.backend.NewShader(id)
}

func (c *shaderContext) OpenGLVersion() string {
	return c.caps.OpenGLVersion
}

func (c *shaderContext) ShadingLanguageVersion() string {
	return c.caps.ShadingLanguageVersion
}

func (c *shaderContext) Vendor() string {
	return c.caps.Vendor
}

func (c *shaderContext) Renderer() string {
	return c.caps.Renderer
}

func (c *shaderContext) Capabilities() Capabilities {
	return c.caps
}

func (c *shaderContext) Backend() shader.BackendKind {
	if c.backend == nil {
		return shader.BackendNone
	}
	return c.backend.Kind()
}

func (c *shaderContext) SwapInterval() int {
	return c.swapInterval
}

func (c *shaderContext) State() State {
	return c.state
}

// release deletes the owned context, if any, and drops the committed backend.
func (c *shaderContext) release() {
	if c.ctx != nil {
		c.platform.DeleteContext(c.ctx)
		c.ctx = nil
		c.logger.Debug("rendering context released")
	}
	c.backend = nil
}
