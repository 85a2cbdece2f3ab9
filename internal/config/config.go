// Package config loads the oxyctx configuration from a YAML file with OXY_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-gl/engine/platform"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "OXY_"

// Swap interval names accepted in Graphics.SwapIntervals.
const (
	SwapAdaptive  = "adaptive"
	SwapVSync     = "vsync"
	SwapImmediate = "immediate"
)

var swapIntervals = map[string]int{
	SwapAdaptive:  platform.SwapIntervalAdaptive,
	SwapVSync:     platform.SwapIntervalVSync,
	SwapImmediate: platform.SwapIntervalImmediate,
}

var backendKinds = map[string]shader.BackendKind{
	shader.BackendGLSL.String(): shader.BackendGLSL,
	shader.BackendARB.String():  shader.BackendARB,
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Config is the typed model of oxy.yaml.
type Config struct {
	// LogLevel is the minimum level logged (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty" env:"LOG_LEVEL"`
	// Window configures the application window and its OpenGL context.
	Window WindowConfig `yaml:"window,omitempty" envPrefix:"WINDOW_"`
	// Graphics configures vertical sync and shading backend negotiation.
	Graphics GraphicsConfig `yaml:"graphics,omitempty" envPrefix:"GRAPHICS_"`
	// Shaders configures the shader source library.
	Shaders ShaderConfig `yaml:"shaders,omitempty" envPrefix:"SHADERS_"`
	// Engine configures the engine host loop.
	Engine EngineConfig `yaml:"engine,omitempty" envPrefix:"ENGINE_"`
}

// WindowConfig describes the application window.
type WindowConfig struct {
	// Title is the window title.
	Title string `yaml:"title,omitempty" env:"TITLE"`
	// Width is the client width in pixels.
	Width int `yaml:"width,omitempty" env:"WIDTH"`
	// Height is the client height in pixels.
	Height int `yaml:"height,omitempty" env:"HEIGHT"`
	// Visible shows the window. Diagnostics commands run with a hidden window.
	Visible bool `yaml:"visible" env:"VISIBLE"`
	// GLMajor and GLMinor are the requested OpenGL context version.
	GLMajor int `yaml:"glMajor,omitempty" env:"GL_MAJOR"`
	GLMinor int `yaml:"glMinor,omitempty" env:"GL_MINOR"`
}

// GraphicsConfig holds the negotiation policies of the shader context.
type GraphicsConfig struct {
	// SwapIntervals lists swap interval names in preference order.
	SwapIntervals []string `yaml:"swapIntervals,omitempty" env:"SWAP_INTERVALS" envSeparator:","`
	// Backends lists shading backends in priority order.
	Backends []string `yaml:"backends,omitempty" env:"BACKENDS" envSeparator:","`
}

// ShaderConfig describes where shader sources are read from.
type ShaderConfig struct {
	// Dir is the directory holding <id>.shader.yaml definitions and stage files. Empty means no library.
	Dir string `yaml:"dir,omitempty" env:"DIR"`
	// Workers is the maximum number of prefetch workers.
	Workers int `yaml:"workers,omitempty" env:"WORKERS"`
	// Prefetch lists shader ids resolved off the render thread at startup.
	Prefetch []string `yaml:"prefetch,omitempty" env:"PREFETCH" envSeparator:","`
}

// EngineConfig configures the engine host loop.
type EngineConfig struct {
	// TickRate is the logic tick rate in ticks per second.
	TickRate float64 `yaml:"tickRate,omitempty" env:"TICK_RATE"`
	// FrameLimit caps rendered frames per second, 0 for uncapped.
	FrameLimit float64 `yaml:"frameLimit,omitempty" env:"FRAME_LIMIT"`
	// Profiling logs loop timings every second.
	Profiling bool `yaml:"profiling,omitempty" env:"PROFILING"`
}

// Default returns the configuration used when no file and no environment overrides are given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:   "Oxy",
			Width:   1280,
			Height:  720,
			Visible: true,
			GLMajor: 2,
			GLMinor: 1,
		},
		Graphics: GraphicsConfig{
			SwapIntervals: []string{SwapAdaptive, SwapVSync},
			Backends:      []string{shader.BackendGLSL.String(), shader.BackendARB.String()},
		},
		Shaders: ShaderConfig{
			Workers: 4,
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
	}
}

// Load reads the configuration at path over the defaults, applies OXY_* environment overrides
// and validates the result. An empty path skips the file.
//
// Parameters:
//   - path: the YAML file path, may be empty
//
// Returns:
//   - *Config: the validated configuration
//   - error: a read, parse, environment or validation error
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse %s* environment: %w", EnvPrefix, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(logLevels, strings.ToLower(strings.TrimSpace(c.LogLevel))) {
		errs = append(errs, fmt.Errorf("logLevel: unknown level %q", c.LogLevel))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.GLMajor < 1 || c.Window.GLMinor < 0 {
		errs = append(errs, fmt.Errorf("window: invalid OpenGL version %d.%d", c.Window.GLMajor, c.Window.GLMinor))
	}
	if c.Window.GLMajor > 3 || (c.Window.GLMajor == 3 && c.Window.GLMinor >= 2) {
		errs = append(errs, fmt.Errorf("window: OpenGL %d.%d is profile-based, shaders need 3.1 or below", c.Window.GLMajor, c.Window.GLMinor))
	}
	if c.Shaders.Workers < 1 {
		errs = append(errs, fmt.Errorf("shaders: workers must be at least 1, got %d", c.Shaders.Workers))
	}
	if c.Engine.TickRate < 0 || c.Engine.FrameLimit < 0 {
		errs = append(errs, errors.New("engine: tickRate and frameLimit must not be negative"))
	}
	if _, err := c.SwapPolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BackendOrder(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SwapPolicy converts Graphics.SwapIntervals to platform swap intervals in preference order.
//
// Returns:
//   - []int: the swap intervals
//   - error: an error for an empty list or an unknown name
func (c *Config) SwapPolicy() ([]int, error) {
	if len(c.Graphics.SwapIntervals) == 0 {
		return nil, errors.New("graphics: swapIntervals must not be empty")
	}
	out := make([]int, 0, len(c.Graphics.SwapIntervals))
	for _, name := range c.Graphics.SwapIntervals {
		interval, ok := swapIntervals[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("graphics: unknown swap interval %q", name)
		}
		out = append(out, interval)
	}
	return out, nil
}

// BackendOrder converts Graphics.Backends to backend kinds in priority order.
//
// Returns:
//   - []shader.BackendKind: the backend kinds
//   - error: an error for an empty list, an unknown name or a duplicate
func (c *Config) BackendOrder() ([]shader.BackendKind, error) {
	if len(c.Graphics.Backends) == 0 {
		return nil, errors.New("graphics: backends must not be empty")
	}
	out := make([]shader.BackendKind, 0, len(c.Graphics.Backends))
	for _, name := range c.Graphics.Backends {
		kind, ok := backendKinds[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("graphics: unknown backend %q", name)
		}
		if slices.Contains(out, kind) {
			return nil, fmt.Errorf("graphics: backend %q listed twice", name)
		}
		out = append(out, kind)
	}
	return out, nil
}
