package shader

import (
	"fmt"
	"log/slog"
	"strings"
)

// arbRequiredExtensions are the extensions that expose GLSL on pre-2.0 drivers.
var arbRequiredExtensions = []string{
	"GL_ARB_shader_objects",
	"GL_ARB_vertex_shader",
	"GL_ARB_fragment_shader",
}

// arbBackend is the legacy shading backend for drivers that expose GLSL 1.10 only
// through the ARB shader object extensions.
type arbBackend struct {
	backendBase
	pp PreProcessor
}

// arbShader is the Shader variant produced by the ARB backend.
type arbShader struct {
	*shader
}

var (
	_ Backend = &arbBackend{}
	_ Shader  = &arbShader{}
)

// NewARBBackend creates the legacy ARB backend.
//
// Parameters:
//   - lib: the library shader ids are resolved against
//   - logger: the logger for backend diagnostics, nil for none
//
// Returns:
//   - Backend: the ARB backend, uninitialized
func NewARBBackend(lib Library, logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &arbBackend{backendBase: backendBase{lib: lib, logger: logger}}
}

func (b *arbBackend) Kind() BackendKind {
	return BackendARB
}

func (b *arbBackend) Supported(d Driver) bool {
	return !d.CoreProfile() && len(missingExtensions(d, arbRequiredExtensions)) == 0
}

// Init re-runs the extension probe, so callers may skip Supported for this backend.
func (b *arbBackend) Init(d Driver) error {
	if d.CoreProfile() {
		return fmt.Errorf("%w: arb needs a compatibility profile context", ErrBackendUnsupported)
	}
	if missing := missingExtensions(d, arbRequiredExtensions); len(missing) > 0 {
		return fmt.Errorf("%w: arb needs %s", ErrBackendUnsupported, strings.Join(missing, ", "))
	}

	b.pp = NewPreProcessor(b.libFS(), WithVersionStripping())
	b.logger.Info("shading backend initialized", "backend", BackendARB)
	return nil
}

func (b *arbBackend) NewShader(id string) Shader {
	pp := b.pp
	if pp == nil {
		pp = NewPreProcessor(b.libFS(), WithVersionStripping())
	}
	return &arbShader{shader: b.load(id, pp)}
}

func (s *arbShader) Backend() BackendKind {
	return BackendARB
}

func (s *arbShader) Retain() Shader {
	s.retain()
	return s
}

func missingExtensions(d Driver, names []string) []string {
	var missing []string
	for _, name := range names {
		if !d.ExtensionSupported(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
