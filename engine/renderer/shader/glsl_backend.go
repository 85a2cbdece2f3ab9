package shader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// glslBackend is the universal shading backend. It needs OpenGL 2.0 (or OpenGL ES 2.0),
// where GLSL programs are part of the core API.
type glslBackend struct {
	backendBase

	// directive and pp are set by a successful Init only.
	directive int
	pp        PreProcessor
}

// glslShader is the Shader variant produced by the GLSL backend.
type glslShader struct {
	*shader
}

var (
	_ Backend = &glslBackend{}
	_ Shader  = &glslShader{}
)

// NewGLSLBackend creates the universal GLSL backend.
//
// Parameters:
//   - lib: the library shader ids are resolved against
//   - logger: the logger for backend diagnostics, nil for none
//
// Returns:
//   - Backend: the GLSL backend, uninitialized
func NewGLSLBackend(lib Library, logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &glslBackend{backendBase: backendBase{lib: lib, logger: logger}}
}

func (b *glslBackend) Kind() BackendKind {
	return BackendGLSL
}

func (b *glslBackend) Supported(d Driver) bool {
	_, ok := probeGLSL(d)
	return ok
}

func (b *glslBackend) Init(d Driver) error {
	directive, ok := probeGLSL(d)
	if !ok {
		return fmt.Errorf("%w: glsl needs OpenGL 2.0 or OpenGL ES 2.0, driver reports %q / GLSL %q",
			ErrBackendUnsupported, d.Version(), d.ShadingLanguageVersion())
	}

	b.directive = directive
	b.pp = NewPreProcessor(b.libFS(), WithVersionInjection(directive))
	b.logger.Info("shading backend initialized", "backend", BackendGLSL, "glsl_directive", directive)
	return nil
}

func (b *glslBackend) NewShader(id string) Shader {
	pp := b.pp
	if pp == nil {
		pp = NewPreProcessor(b.libFS())
	}
	return &glslShader{shader: b.load(id, pp)}
}

func (s *glslShader) Backend() BackendKind {
	return BackendGLSL
}

func (s *glslShader) Retain() Shader {
	s.retain()
	return s
}

// probeGLSL decides whether the driver runs core GLSL and which #version the backend targets.
// Sources are written in the GLSL 1.10/1.20 dialect (attribute/varying), so desktop drivers
// get 120 when they support it and ES drivers get 100.
func probeGLSL(d Driver) (int, bool) {
	if d.CoreProfile() {
		return 0, false
	}
	glVersion, ok := common.ParseVersion(d.Version())
	if !ok || !glVersion.AtLeast(2, 0) {
		return 0, false
	}
	glslVersion, ok := common.ParseVersion(d.ShadingLanguageVersion())
	if !ok {
		return 0, false
	}

	switch {
	case glVersion.ES:
		return 100, true
	case glslVersion.GLSLDirective() >= 120:
		return 120, true
	default:
		return 110, true
	}
}
