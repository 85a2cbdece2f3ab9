package engine

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader_context"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

var (
	// ErrNotConfigured is returned by Init when the engine has no window or no shader context.
	ErrNotConfigured = errors.New("engine: window and shader context are required")

	// ErrNoShadingBackend is returned by Init when the driver supports none of the shading backends.
	ErrNoShadingBackend = errors.New("engine: no shading backend available")
)

// engine implements the Engine interface.
// Coordinates the tick goroutine and the window thread, which also renders.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel  chan struct{}
	quitOnce     sync.Once // Ensures quitChannel is only closed once
	teardownOnce sync.Once

	window        window.Window
	shaderContext shader_context.ShaderContext
	logger        *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time
}

// Engine is the main entry point for the engine.
// It owns the window and its shader context, runs the logic tick loop and drives rendering
// from the window's message loop.
type Engine interface {
	// Init makes the window's context current and initializes the shader context on it.
	// Must be called from the thread that created the window, before Run.
	//
	// Returns:
	//   - error: ErrNotConfigured or ErrNoShadingBackend
	Init() error

	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// ShaderContext returns the shader context created shaders come from.
	//
	// Returns:
	//   - shader_context.ShaderContext: the shader context
	ShaderContext() shader_context.ShaderContext

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// It runs on the tick goroutine and must not touch the rendering context.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame.
	// It runs on the window thread with the window's context current, before the buffers are swapped.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called when the window framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the tick goroutine and runs the window message loop on the calling thread.
	// Blocks until the window closes or Quit is called, then tears down the shader context and the window.
	Run()

	// Quit signals the engine to stop. While Run is active the teardown happens on the window thread;
	// otherwise Quit tears down the shader context and the window itself.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, shader context, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		logger:          slog.New(slog.DiscardHandler),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger)

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.logger.Debug("window resized", "width", width, "height", height)
			if e.resizeCallback != nil {
				e.resizeCallback(width, height)
			}
		})
	}

	return e
}

func (e *engine) Init() error {
	if e.window == nil || e.shaderContext == nil {
		return ErrNotConfigured
	}

	e.window.MakeContextCurrent()
	if !e.shaderContext.Initialize() {
		return ErrNoShadingBackend
	}

	e.logger.Info("engine initialized",
		"backend", e.shaderContext.Backend(),
		"renderer", e.shaderContext.Renderer(),
		"swap_interval", e.shaderContext.SwapInterval(),
	)
	return nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) ShaderContext() shader_context.ShaderContext {
	return e.shaderContext
}

func (e *engine) Run() {
	if e.window == nil {
		e.logger.Error("engine run without a window")
		return
	}

	e.running.Store(true)
	e.lastRender = time.Now()
	e.handle()
	e.window.SetUpdateCallback(e.handleRender)
	e.window.ProcessMessages()

	// The window may have been closed by the user rather than by Quit.
	e.signalQuit()
	e.wg.Wait()
	e.running.Store(false)
	e.teardown()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if !e.running.Load() {
		e.teardown()
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// teardown releases the shader context before the window whose context it shares.
func (e *engine) teardown() {
	e.teardownOnce.Do(func() {
		if e.shaderContext != nil {
			e.shaderContext.Quit()
		}
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				e.logger.Warn("failed to close window", "error", err)
			}
		}
		e.logger.Debug("engine shut down")
	})
}

// handle launches the engine and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// handleRender renders one frame. It is the window's update callback, so it runs on the window
// thread between message pumps. Once quit is signalled it tears the engine down instead, which
// closes the window and ends the message loop.
// Recovers from panics in the render callback and signals quit on recovery.
func (e *engine) handleRender() {
	select {
	case <-e.quitChannel:
		e.teardown()
		return
	default:
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render callback recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	e.window.SwapBuffers()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		elapsed := time.Since(now)
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
	e.logger.Debug("engine quit signalled")
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetResizeCallback registers the function called on framebuffer resize.
func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
