package shader

import (
	"sync/atomic"
)

// ShaderType identifies a programmable stage of a shader program.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex stage.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// BackendKind identifies the shading backend a Shader was produced by.
type BackendKind int

const (
	// BackendNone means no shading backend is active.
	BackendNone BackendKind = iota

	// BackendGLSL is the universal backend: core GLSL through OpenGL 2.0+ or OpenGL ES 2.0+.
	BackendGLSL

	// BackendARB is the legacy backend: GLSL 1.10 through the ARB shader object extensions.
	BackendARB
)

func (k BackendKind) String() string {
	switch k {
	case BackendGLSL:
		return "glsl"
	case BackendARB:
		return "arb"
	default:
		return "none"
	}
}

// Shader is a backend-agnostic, reference-counted handle to a shader produced by a Backend.
// A new Shader starts with one reference owned by the caller of NewShader. Every additional
// holder calls Retain, and every holder calls Release exactly once when done. The shader's
// resources are dropped when the last reference is released.
type Shader interface {
	// ID returns the logical shader identifier the shader was created for.
	//
	// Returns:
	//   - string: the shader id, e.g. "hero_outline"
	ID() string

	// Backend returns the kind of backend that produced this shader.
	//
	// Returns:
	//   - BackendKind: BackendGLSL or BackendARB
	Backend() BackendKind

	// Source returns the pre-processed source for one stage, ready for the backend's compiler.
	// Empty if the shader failed to load or has been released.
	//
	// Parameters:
	//   - t: the stage to return
	//
	// Returns:
	//   - string: the stage source
	Source(t ShaderType) string

	// ScalingFactor returns the output scaling factor declared by the shader definition.
	// Defaults to 1 when the definition does not declare one.
	//
	// Returns:
	//   - float64: the scaling factor
	ScalingFactor() float64

	// Err reports the error that occurred while resolving the shader's sources, if any.
	//
	// Returns:
	//   - error: nil if the shader loaded successfully
	Err() error

	// Retain adds a reference for a new holder.
	//
	// Returns:
	//   - Shader: the same shader, for chaining
	Retain() Shader

	// Release drops one reference. The last release frees the shader's resources;
	// further releases are ignored.
	Release()

	// RefCount returns the number of outstanding references.
	//
	// Returns:
	//   - int32: the reference count, 0 once released
	RefCount() int32
}

// shader holds the state shared by every backend's shader variant.
type shader struct {
	id            string
	sources       map[ShaderType]string
	scalingFactor float64
	err           error

	refs      atomic.Int32
	onRelease func(s *shader)
}

// newShader creates the shared shader state with a single reference.
func newShader(id string, onRelease func(s *shader)) *shader {
	s := &shader{
		id:            id,
		sources:       make(map[ShaderType]string, 2),
		scalingFactor: 1,
		onRelease:     onRelease,
	}
	s.refs.Store(1)
	return s
}

func (s *shader) ID() string {
	return s.id
}

func (s *shader) Source(t ShaderType) string {
	if s.refs.Load() <= 0 {
		return ""
	}
	return s.sources[t]
}

func (s *shader) ScalingFactor() float64 {
	return s.scalingFactor
}

func (s *shader) Err() error {
	return s.err
}

func (s *shader) RefCount() int32 {
	return s.refs.Load()
}

// retain increments the reference count unless the shader was already freed.
func (s *shader) retain() {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return
		}
	}
}

func (s *shader) Release() {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return
		}
		if s.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				s.free()
			}
			return
		}
	}
}

// free drops the stage sources and notifies the owning backend.
func (s *shader) free() {
	s.sources = nil
	if s.onRelease != nil {
		s.onRelease(s)
	}
}
