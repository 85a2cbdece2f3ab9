package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/engine/platform"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	policy, err := cfg.SwapPolicy()
	require.NoError(t, err)
	assert.Equal(t, []int{platform.SwapIntervalAdaptive, platform.SwapIntervalVSync}, policy)

	order, err := cfg.BackendOrder()
	require.NoError(t, err)
	assert.Equal(t, []shader.BackendKind{shader.BackendGLSL, shader.BackendARB}, order)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
window:
  title: Shader Lab
  width: 640
  height: 480
  visible: false
graphics:
  swapIntervals: [vsync]
  backends: [arb]
shaders:
  dir: data/shaders
  workers: 2
  prefetch: [hero_outline, water_ripple]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Shader Lab", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.False(t, cfg.Window.Visible)
	assert.Equal(t, 2, cfg.Window.GLMajor, "unset keys keep their defaults")
	assert.Equal(t, "data/shaders", cfg.Shaders.Dir)
	assert.Equal(t, []string{"hero_outline", "water_ripple"}, cfg.Shaders.Prefetch)

	order, err := cfg.BackendOrder()
	require.NoError(t, err)
	assert.Equal(t, []shader.BackendKind{shader.BackendARB}, order)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "window:\n  width: 640\n")
	t.Setenv("OXY_WINDOW_WIDTH", "800")
	t.Setenv("OXY_LOG_LEVEL", "warn")
	t.Setenv("OXY_GRAPHICS_BACKENDS", "arb,glsl")
	t.Setenv("OXY_SHADERS_DIR", "/opt/shaders")
	t.Setenv("OXY_ENGINE_PROFILING", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"arb", "glsl"}, cfg.Graphics.Backends)
	assert.Equal(t, "/opt/shaders", cfg.Shaders.Dir)
	assert.True(t, cfg.Engine.Profiling)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "window: [not, a, map]\n"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("OXY_WINDOW_WIDTH", "wide")
	_, err = Load("")
	assert.ErrorContains(t, err, "OXY_")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, want: "unknown level"},
		{name: "window size", mutate: func(c *Config) { c.Window.Height = 0 }, want: "size must be positive"},
		{name: "gl version", mutate: func(c *Config) { c.Window.GLMajor = 0 }, want: "invalid OpenGL version"},
		{name: "core profile version", mutate: func(c *Config) { c.Window.GLMajor, c.Window.GLMinor = 3, 3 }, want: "shaders need 3.1 or below"},
		{name: "workers", mutate: func(c *Config) { c.Shaders.Workers = 0 }, want: "workers must be at least 1"},
		{name: "tick rate", mutate: func(c *Config) { c.Engine.TickRate = -1 }, want: "must not be negative"},
		{name: "swap name", mutate: func(c *Config) { c.Graphics.SwapIntervals = []string{"sometimes"} }, want: "unknown swap interval"},
		{name: "swap empty", mutate: func(c *Config) { c.Graphics.SwapIntervals = nil }, want: "swapIntervals must not be empty"},
		{name: "backend name", mutate: func(c *Config) { c.Graphics.Backends = []string{"vulkan"} }, want: "unknown backend"},
		{name: "backend twice", mutate: func(c *Config) { c.Graphics.Backends = []string{"glsl", "GLSL"} }, want: "listed twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate_JoinsProblems(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Shaders.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown level")
	assert.ErrorContains(t, err, "workers")
}
