package shader

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"hero_outline.shader.yaml": {Data: []byte("vertex: hero_outline.vert\nfragment: hero_outline.frag\nscaling_factor: 2\n")},
		"hero_outline.vert":        {Data: []byte("void main() { gl_Position = vec4(0.0); }")},
		"hero_outline.frag":        {Data: []byte("//@oxy:include common.glsl\nvoid main() { gl_FragColor = oxy_tint; }")},
		"common.glsl":              {Data: []byte("uniform vec4 oxy_tint;")},
		"water_ripple.shader.yaml": {Data: []byte("fragment: water_ripple.frag\n")},
		"water_ripple.frag":        {Data: []byte("#version 120\nvoid main() { gl_FragColor = vec4(0.0, 0.0, 1.0, 1.0); }")},
		"broken.shader.yaml":       {Data: []byte("vertex: [unterminated\n")},
		"dangling.shader.yaml":     {Data: []byte("vertex: missing.vert\n")},
	}
}

func TestLibrary_Definition(t *testing.T) {
	lib := NewLibrary(newTestFS())

	def, err := lib.Definition("hero_outline")
	require.NoError(t, err)

	assert.Equal(t, "hero_outline", def.ID)
	assert.Equal(t, "void main() { gl_Position = vec4(0.0); }", def.VertexSource)
	assert.Contains(t, def.FragmentSource, "@oxy:include common.glsl")
	assert.Equal(t, 2.0, def.ScalingFactor)
}

func TestLibrary_DefaultStages(t *testing.T) {
	lib := NewLibrary(newTestFS())

	def, err := lib.Definition("water_ripple")
	require.NoError(t, err)

	assert.Equal(t, DefaultVertexSource, def.VertexSource)
	assert.Contains(t, def.FragmentSource, "vec4(0.0, 0.0, 1.0, 1.0)")
	assert.Zero(t, def.ScalingFactor)
}

func TestLibrary_Errors(t *testing.T) {
	lib := NewLibrary(newTestFS())

	_, err := lib.Definition("missing")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = lib.Definition("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse shader definition")

	_, err = lib.Definition("dangling")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read stage file")
}

func TestLibrary_NilFS(t *testing.T) {
	_, err := NewLibrary(nil).Definition("hero_outline")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestLibrary_CacheAndForget(t *testing.T) {
	fsys := newTestFS()
	lib := NewLibrary(fsys)

	_, err := lib.Definition("hero_outline")
	require.NoError(t, err)

	fsys["hero_outline.vert"] = &fstest.MapFile{Data: []byte("changed")}

	def, err := lib.Definition("hero_outline")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", def.VertexSource, "cached definition should be served")

	lib.Forget("hero_outline")
	def, err = lib.Definition("hero_outline")
	require.NoError(t, err)
	assert.Equal(t, "changed", def.VertexSource)
}

func TestLibrary_Prefetch(t *testing.T) {
	fsys := newTestFS()
	lib := NewLibrary(fsys, WithPrefetchWorkers(2))

	require.NoError(t, lib.Prefetch("hero_outline", "water_ripple"))

	// Served from the cache even after the backing files disappear.
	delete(fsys, "hero_outline.shader.yaml")
	delete(fsys, "water_ripple.shader.yaml")

	_, err := lib.Definition("hero_outline")
	assert.NoError(t, err)
	_, err = lib.Definition("water_ripple")
	assert.NoError(t, err)
}

func TestLibrary_PrefetchJoinsErrors(t *testing.T) {
	lib := NewLibrary(newTestFS())

	err := lib.Prefetch("hero_outline", "missing", "broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Contains(t, err.Error(), "failed to parse shader definition")

	_, err = lib.Definition("hero_outline")
	assert.NoError(t, err)
}

func TestLibrary_PrefetchReleasesWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	lib := NewLibrary(newTestFS(), WithPrefetchWorkers(3))
	require.NoError(t, lib.Prefetch("hero_outline", "water_ripple"))
	require.Error(t, lib.Prefetch("hero_outline", "missing", "broken", "dangling", "water_ripple"))
	assert.NoError(t, lib.Prefetch())

	// A library that is never prefetched holds no goroutines either.
	_ = NewLibrary(newTestFS())
}
