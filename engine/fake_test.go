package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader_context"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// fakeWindow runs its message loop on the calling goroutine, like the GLFW window does on its thread.
type fakeWindow struct {
	events *[]string

	closed     bool
	closeAfter int // simulates the user closing the window after this many iterations, 0 = never
	iterations int

	swaps    int
	current  int
	onUpdate func()
	onResize func(width, height int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(callback func())                  { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))            {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))              {}
func (w *fakeWindow) NativeHandle() any                                  { return nil }
func (w *fakeWindow) MakeContextCurrent()                                { w.current++ }
func (w *fakeWindow) SwapBuffers()                                       { w.swaps++ }
func (w *fakeWindow) IsRunning() bool                                    { return !w.closed }
func (w *fakeWindow) Width() int                                         { return 640 }
func (w *fakeWindow) Height() int                                        { return 480 }

func (w *fakeWindow) Close() error {
	*w.events = append(*w.events, "window.close")
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.iterations++
		if w.closeAfter > 0 && w.iterations > w.closeAfter {
			w.closed = true
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		time.Sleep(time.Millisecond)
	}
}

// fakeShaderContext records lifecycle calls into the shared event log.
type fakeShaderContext struct {
	events *[]string

	initializeResult bool
	initialized      int
	quits            int
}

var _ shader_context.ShaderContext = &fakeShaderContext{}

func (c *fakeShaderContext) Initialize() bool {
	c.initialized++
	*c.events = append(*c.events, "shader_context.initialize")
	return c.initializeResult
}

func (c *fakeShaderContext) Quit() {
	c.quits++
	*c.events = append(*c.events, "shader_context.quit")
}

func (c *fakeShaderContext) MakeCurrent() error                        { return nil }
func (c *fakeShaderContext) CreateShader(string) shader.Shader         { return nil }
func (c *fakeShaderContext) OpenGLVersion() string                     { return "2.1 Fake" }
func (c *fakeShaderContext) ShadingLanguageVersion() string            { return "1.20" }
func (c *fakeShaderContext) Vendor() string                            { return "Fake" }
func (c *fakeShaderContext) Renderer() string                          { return "Fake Renderer" }
func (c *fakeShaderContext) Capabilities() shader_context.Capabilities { return shader_context.Capabilities{} }
func (c *fakeShaderContext) Backend() shader.BackendKind               { return shader.BackendGLSL }
func (c *fakeShaderContext) SwapInterval() int                         { return 1 }
func (c *fakeShaderContext) State() shader_context.State               { return shader_context.StateActiveGLSL }

func newFakes(initializeResult bool) (*fakeWindow, *fakeShaderContext, *[]string) {
	events := &[]string{}
	return &fakeWindow{events: events},
		&fakeShaderContext{events: events, initializeResult: initializeResult},
		events
}
