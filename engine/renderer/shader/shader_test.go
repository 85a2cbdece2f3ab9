package shader

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMapFile(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data)}
}

func TestShader_RefCounting(t *testing.T) {
	b := NewGLSLBackend(NewLibrary(newTestFS()), nil)
	require.NoError(t, b.Init(modernDriver))

	s := b.NewShader("hero_outline")
	assert.EqualValues(t, 1, s.RefCount())
	assert.EqualValues(t, 1, b.Live())

	held := s.Retain()
	assert.Same(t, s, held)
	assert.EqualValues(t, 2, s.RefCount())

	s.Release()
	assert.EqualValues(t, 1, held.RefCount())
	assert.EqualValues(t, 1, b.Live())
	assert.NotEmpty(t, held.Source(ShaderTypeVertex))

	held.Release()
	assert.EqualValues(t, 0, held.RefCount())
	assert.EqualValues(t, 0, b.Live())
	assert.Empty(t, held.Source(ShaderTypeVertex))
}

func TestShader_ReleaseAfterFreeIsNoop(t *testing.T) {
	b := NewARBBackend(NewLibrary(newTestFS()), nil)
	require.NoError(t, b.Init(legacyDriver))

	s := b.NewShader("water_ripple")
	s.Release()
	s.Release()
	s.Retain()

	assert.EqualValues(t, 0, s.RefCount())
	assert.EqualValues(t, 0, b.Live())
}

func TestShaderType_String(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "unknown", ShaderType(9).String())
}

func TestBackendKind_String(t *testing.T) {
	assert.Equal(t, "glsl", BackendGLSL.String())
	assert.Equal(t, "arb", BackendARB.String())
	assert.Equal(t, "none", BackendNone.String())
}
