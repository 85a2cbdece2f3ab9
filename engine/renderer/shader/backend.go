package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"
)

var (
	// ErrBackendUnsupported is returned by Backend.Init when the driver cannot run the backend.
	ErrBackendUnsupported = errors.New("shader: backend not supported by driver")

	// ErrSourceNotFound is reported by a Shader whose definition could not be found in the library.
	ErrSourceNotFound = errors.New("shader: source not found")
)

// Driver is the read-only view of the current rendering context a Backend probes.
type Driver interface {
	// Version returns the GL_VERSION string.
	Version() string

	// ShadingLanguageVersion returns the GL_SHADING_LANGUAGE_VERSION string.
	ShadingLanguageVersion() string

	// ExtensionSupported reports whether the named extension is exposed by the driver.
	ExtensionSupported(name string) bool

	// CoreProfile reports whether the context is a core (or forward-compatible) profile,
	// which removes the fixed-function built-ins both backends compile against.
	CoreProfile() bool
}

// Backend is a shading backend: a probe deciding whether the driver can run it,
// an initialization entry point and a shader constructor.
type Backend interface {
	// Kind returns the kind of shader this backend produces.
	//
	// Returns:
	//   - BackendKind: the backend kind
	Kind() BackendKind

	// Supported probes the driver without changing any backend state.
	//
	// Parameters:
	//   - d: the driver to probe
	//
	// Returns:
	//   - bool: true if the backend can run on d
	Supported(d Driver) bool

	// Init prepares the backend for shader creation. A failed Init leaves the backend
	// exactly as it was before the call.
	//
	// Parameters:
	//   - d: the driver to initialize against
	//
	// Returns:
	//   - error: ErrBackendUnsupported (wrapped) if the driver cannot run the backend
	Init(d Driver) error

	// NewShader creates a shader for the given logical id. Source resolution failures are
	// reported through Shader.Err, never by a nil return.
	//
	// Parameters:
	//   - id: the logical shader identifier
	//
	// Returns:
	//   - Shader: the new shader holding one reference
	NewShader(id string) Shader

	// Live returns the number of shaders created by this backend that have not been fully released.
	//
	// Returns:
	//   - int64: the live shader count
	Live() int64
}

// DefaultBackends returns the backend priority list: the universal GLSL backend first,
// then the legacy ARB backend.
//
// Parameters:
//   - lib: the source library both backends resolve shader ids against
//   - logger: the logger passed to both backends
//
// Returns:
//   - []Backend: backends in priority order
func DefaultBackends(lib Library, logger *slog.Logger) []Backend {
	return []Backend{
		NewGLSLBackend(lib, logger),
		NewARBBackend(lib, logger),
	}
}

// NewBackend creates the backend of the given kind.
//
// Parameters:
//   - kind: BackendGLSL or BackendARB
//   - lib: the source library the backend resolves shader ids against
//   - logger: the logger for backend diagnostics, nil for none
//
// Returns:
//   - Backend: the backend, uninitialized
//   - error: an error if kind names no backend
func NewBackend(kind BackendKind, lib Library, logger *slog.Logger) (Backend, error) {
	switch kind {
	case BackendGLSL:
		return NewGLSLBackend(lib, logger), nil
	case BackendARB:
		return NewARBBackend(lib, logger), nil
	default:
		return nil, fmt.Errorf("shader: no backend of kind %s", kind)
	}
}

// backendBase holds the bookkeeping shared by both backend implementations.
type backendBase struct {
	lib    Library
	logger *slog.Logger
	live   atomic.Int64
}

func (b *backendBase) Live() int64 {
	return b.live.Load()
}

// libFS returns the library file system, or nil when the backend has no library.
func (b *backendBase) libFS() fs.FS {
	if b.lib == nil {
		return nil
	}
	return b.lib.FS()
}

// load resolves id against the library and runs both stages through pp.
// The returned shader is tracked in the live count until its last reference is released.
func (b *backendBase) load(id string, pp PreProcessor) *shader {
	b.live.Add(1)
	s := newShader(id, func(s *shader) {
		b.live.Add(-1)
		b.logger.Debug("shader released", "id", s.id)
	})

	if b.lib == nil {
		s.err = fmt.Errorf("%w: %q (no shader library)", ErrSourceNotFound, id)
		return s
	}
	def, err := b.lib.Definition(id)
	if err != nil {
		s.err = err
		b.logger.Warn("shader source unavailable", "id", id, "error", err)
		return s
	}
	if def.ScalingFactor > 0 {
		s.scalingFactor = def.ScalingFactor
	}

	stages := []struct {
		t   ShaderType
		src string
	}{
		{ShaderTypeVertex, def.VertexSource},
		{ShaderTypeFragment, def.FragmentSource},
	}
	for _, stage := range stages {
		t := stage.t
		out, err := pp.Process(stage.src)
		if err != nil {
			s.err = fmt.Errorf("shader %q %s stage: %w", id, t, err)
			s.sources = make(map[ShaderType]string, 2)
			b.logger.Warn("shader pre-processing failed", "id", id, "stage", t, "error", err)
			return s
		}
		s.sources[t] = out
	}
	return s
}
