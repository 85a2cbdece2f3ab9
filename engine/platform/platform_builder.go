package platform

import "log/slog"

// PlatformBuilderOption is a functional option for configuring a glfwPlatform.
type PlatformBuilderOption func(p *glfwPlatform)

// WithLogger sets the logger used for context creation and deletion diagnostics.
//
// Parameters:
//   - logger: the logger to use, nil keeps the silent default
//
// Returns:
//   - PlatformBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) PlatformBuilderOption {
	return func(p *glfwPlatform) {
		if logger != nil {
			p.logger = logger
		}
	}
}
