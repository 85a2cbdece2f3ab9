package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/internal/config"
	"github.com/Carmen-Shannon/oxy-gl/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExecute_MissingConfig(t *testing.T) {
	err := Execute([]string{"info", "--config", filepath.Join(t.TempDir(), "missing.yaml")}, logging.Discard())
	assert.ErrorContains(t, err, "read config")
}

func TestExecute_ShaderNeedsID(t *testing.T) {
	err := Execute([]string{"shader"}, logging.Discard())
	assert.Error(t, err)
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand(&Options{}, logging.Discard())
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"info", "shader", "run"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestNewShaderReport(t *testing.T) {
	lib := shader.NewLibrary(fstest.MapFS{
		"water_ripple.shader.yaml": {Data: []byte("fragment: water_ripple.frag\nscaling_factor: 2\n")},
		"water_ripple.frag":        {Data: []byte("void main() { gl_FragColor = vec4(0.0); }")},
	})
	b := shader.NewARBBackend(lib, nil)

	s := b.NewShader("water_ripple")
	defer s.Release()
	r := newShaderReport(s, true)
	assert.Equal(t, "water_ripple", r.ID)
	assert.Equal(t, "arb", r.Backend)
	assert.Equal(t, 2.0, r.ScalingFactor)
	assert.Empty(t, r.Error)
	assert.Contains(t, r.Fragment, "gl_FragColor")
	assert.NotEmpty(t, r.Vertex)

	missing := b.NewShader("lava")
	defer missing.Release()
	r = newShaderReport(missing, true)
	assert.Contains(t, r.Error, "source not found")
	assert.Empty(t, r.Fragment)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, infoReport{
		OpenGL:   "2.1 Mesa 23.0.4",
		Backend:  "glsl",
		State:    "active_glsl",
		Renderer: "llvmpipe",
	}))
	out := buf.String()
	assert.Contains(t, out, "openGL: 2.1 Mesa 23.0.4\n")
	assert.Contains(t, out, "backend: glsl\n")
	assert.Contains(t, out, "swapInterval: 0\n")
}

func TestNewBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Graphics.Backends = []string{"arb"}

	backends, err := newBackends(cfg, nil, logging.Discard())
	require.NoError(t, err)
	require.Len(t, backends, 1)
	assert.Equal(t, shader.BackendARB, backends[0].Kind())

	cfg.Graphics.Backends = []string{"metal"}
	_, err = newBackends(cfg, nil, logging.Discard())
	assert.Error(t, err)
}

func TestConfigFromContext_Default(t *testing.T) {
	assert.Equal(t, config.Default(), configFromContext(t.Context()))
}

func TestNewLibrary_PrefetchLeavesNoWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water_ripple.shader.yaml"), []byte("fragment: water_ripple.frag\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water_ripple.frag"), []byte("void main() {}"), 0o644))

	cfg := config.Default()
	cfg.Shaders.Dir = dir
	cfg.Shaders.Workers = 4

	lib := newLibrary(cfg, logging.Discard())
	require.NoError(t, lib.Prefetch("water_ripple"))
	assert.Error(t, lib.Prefetch("water_ripple", "hero_outline"))
}
