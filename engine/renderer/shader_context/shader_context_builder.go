package shader_context

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ShaderContextBuilderOption is a functional option applied to a shader context during construction via NewShaderContext.
type ShaderContextBuilderOption func(*shaderContext)

// WithLogger sets the logger receiving the driver identity and negotiation diagnostics.
//
// Parameters:
//   - logger: the logger to use, nil keeps the silent default
//
// Returns:
//   - ShaderContextBuilderOption: a function that applies the logger option to a shader context
func WithLogger(logger *slog.Logger) ShaderContextBuilderOption {
	return func(c *shaderContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBackends replaces the backend priority list. Initialize commits the first backend
// whose probe and initialization succeed. An empty list keeps the default backends.
//
// Parameters:
//   - backends: backends in priority order
//
// Returns:
//   - ShaderContextBuilderOption: a function that applies the backends option to a shader context
func WithBackends(backends ...shader.Backend) ShaderContextBuilderOption {
	return func(c *shaderContext) {
		c.backends = backends
	}
}

// WithLibrary uses shader.DefaultBackends over lib as the backend priority list. The backends
// are built after every option has run, so they share the context's final logger.
//
// Parameters:
//   - lib: the shader source library
//
// Returns:
//   - ShaderContextBuilderOption: a function that applies the library option to a shader context
func WithLibrary(lib shader.Library) ShaderContextBuilderOption {
	return func(c *shaderContext) {
		c.library = lib
		c.backends = nil
	}
}

// WithSwapIntervals replaces the vertical sync policy. Initialize applies the first interval
// the driver accepts.
//
// Parameters:
//   - intervals: swap intervals in preference order
//
// Returns:
//   - ShaderContextBuilderOption: a function that applies the swap interval option to a shader context
func WithSwapIntervals(intervals ...int) ShaderContextBuilderOption {
	return func(c *shaderContext) {
		c.swapIntervals = intervals
	}
}
