package shader_context

import (
	"errors"
	"fmt"
	"io/fs"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-gl/engine/platform"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

var errFakeCreate = errors.New("fake: context creation failed")

// fakeContext is the Context handle handed out by fakePlatform.
type fakeContext struct {
	serial int
}

// fakePlatform records every call a shaderContext makes against the platform layer.
type fakePlatform struct {
	identity    platform.Identity
	identityErr error
	extensions  map[string]bool

	attributes   map[platform.Attribute]int
	attributeErr error

	acceptedIntervals map[int]bool
	intervalCalls     []int

	createErr error
	created   int
	deleted   int
	live      map[*fakeContext]bool
	current   platform.Context
}

var _ platform.Platform = &fakePlatform{}

var arbExtensions = map[string]bool{
	"GL_ARB_shader_objects":  true,
	"GL_ARB_vertex_shader":   true,
	"GL_ARB_fragment_shader": true,
}

func newModernPlatform() *fakePlatform {
	return &fakePlatform{
		identity: platform.Identity{
			Version:                "4.6.0 NVIDIA 535.54.03",
			ShadingLanguageVersion: "4.60 NVIDIA",
			Vendor:                 "NVIDIA Corporation",
			Renderer:               "NVIDIA GeForce RTX 3070/PCIe/SSE2",
		},
		extensions:        arbExtensions,
		acceptedIntervals: map[int]bool{platform.SwapIntervalAdaptive: true, platform.SwapIntervalVSync: true},
	}
}

func newLegacyPlatform() *fakePlatform {
	return &fakePlatform{
		identity: platform.Identity{
			Version:                "1.5 Mesa 7.0.4",
			ShadingLanguageVersion: "1.10",
			Vendor:                 "Tungsten Graphics, Inc",
			Renderer:               "Mesa DRI Intel(R) 945GM",
		},
		extensions:        arbExtensions,
		acceptedIntervals: map[int]bool{platform.SwapIntervalVSync: true},
	}
}

func newBarePlatform() *fakePlatform {
	return &fakePlatform{
		identity: platform.Identity{
			Version:  "1.4 Microsoft",
			Vendor:   "Microsoft Corporation",
			Renderer: "GDI Generic",
		},
		acceptedIntervals: map[int]bool{platform.SwapIntervalVSync: true},
	}
}

func (p *fakePlatform) Identity() (platform.Identity, error) {
	if p.identityErr != nil {
		return platform.Identity{}, p.identityErr
	}
	return p.identity, nil
}

func (p *fakePlatform) SetAttribute(attr platform.Attribute, value int) error {
	if p.attributeErr != nil {
		return p.attributeErr
	}
	if p.attributes == nil {
		p.attributes = make(map[platform.Attribute]int)
	}
	p.attributes[attr] = value
	return nil
}

func (p *fakePlatform) SetSwapInterval(interval int) error {
	p.intervalCalls = append(p.intervalCalls, interval)
	if !p.acceptedIntervals[interval] {
		return platform.ErrUnsupportedSwapInterval
	}
	return nil
}

func (p *fakePlatform) ExtensionSupported(name string) bool {
	return p.extensions[name]
}

func (p *fakePlatform) CreateContext(_ window.Window) (platform.Context, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.created++
	ctx := &fakeContext{serial: p.created}
	if p.live == nil {
		p.live = make(map[*fakeContext]bool)
	}
	p.live[ctx] = true
	return ctx, nil
}

func (p *fakePlatform) DeleteContext(ctx platform.Context) {
	c, ok := ctx.(*fakeContext)
	if !ok || !p.live[c] {
		return
	}
	delete(p.live, c)
	p.deleted++
	if p.current == ctx {
		p.current = nil
	}
}

func (p *fakePlatform) MakeCurrent(ctx platform.Context) error {
	c, ok := ctx.(*fakeContext)
	if !ok || !p.live[c] {
		return platform.ErrInvalidContext
	}
	p.current = ctx
	return nil
}

// countingBackend wraps a real backend, counting probe and init calls and optionally forcing their outcome.
type countingBackend struct {
	shader.Backend

	forceSupported *bool
	initErr        error

	probes int
	inits  int
}

func (b *countingBackend) Supported(d shader.Driver) bool {
	b.probes++
	if b.forceSupported != nil {
		return *b.forceSupported
	}
	return b.Backend.Supported(d)
}

func (b *countingBackend) Init(d shader.Driver) error {
	b.inits++
	if b.initErr != nil {
		return b.initErr
	}
	return b.Backend.Init(d)
}

// mapLibrary is an in-memory shader.Library.
type mapLibrary struct {
	defs map[string]shader.Definition
}

var _ shader.Library = &mapLibrary{}

func newTestLibrary() *mapLibrary {
	return &mapLibrary{defs: map[string]shader.Definition{
		"hero_outline": {
			ID:             "hero_outline",
			VertexSource:   shader.DefaultVertexSource,
			FragmentSource: "void main() { gl_FragColor = vec4(1.0); }",
		},
		"water_ripple": {
			ID:             "water_ripple",
			VertexSource:   "#version 120\nvoid main() { gl_Position = vec4(0.0); }",
			FragmentSource: shader.DefaultFragmentSource,
			ScalingFactor:  2,
		},
	}}
}

func (l *mapLibrary) Definition(id string) (shader.Definition, error) {
	def, ok := l.defs[id]
	if !ok {
		return shader.Definition{}, fmt.Errorf("%w: %q", shader.ErrSourceNotFound, id)
	}
	return def, nil
}

func (l *mapLibrary) Prefetch(ids ...string) error {
	var errs []error
	for _, id := range ids {
		if _, err := l.Definition(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *mapLibrary) Forget(string) {}

func (l *mapLibrary) FS() fs.FS {
	return fstest.MapFS{}
}

// newCountingBackends returns the default GLSL and ARB backends wrapped for call counting.
func newCountingBackends(lib shader.Library) (*countingBackend, *countingBackend) {
	return &countingBackend{Backend: shader.NewGLSLBackend(lib, nil)},
		&countingBackend{Backend: shader.NewARBBackend(lib, nil)}
}
