package cli

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/engine/platform"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader_context"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/Carmen-Shannon/oxy-gl/internal/config"
)

// session is a window, its shader library and an uninitialized shader context, wired from a Config.
type session struct {
	window  window.Window
	library shader.Library
	context shader_context.ShaderContext
}

// newLibrary opens the configured shader directory. No directory yields a library without sources.
func newLibrary(cfg *config.Config, logger *slog.Logger) shader.Library {
	var fsys fs.FS
	if cfg.Shaders.Dir != "" {
		fsys = os.DirFS(cfg.Shaders.Dir)
	}
	return shader.NewLibrary(fsys,
		shader.WithLibraryLogger(logger),
		shader.WithPrefetchWorkers(cfg.Shaders.Workers),
	)
}

// newBackends builds the backend priority list named by the configuration.
func newBackends(cfg *config.Config, lib shader.Library, logger *slog.Logger) ([]shader.Backend, error) {
	kinds, err := cfg.BackendOrder()
	if err != nil {
		return nil, err
	}
	backends := make([]shader.Backend, 0, len(kinds))
	for _, kind := range kinds {
		b, err := shader.NewBackend(kind, lib, logger)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	return backends, nil
}

// openSession creates the window and everything the shader context needs. The window's context
// is current on the calling thread when it returns.
func openSession(cfg *config.Config, logger *slog.Logger, visible bool) (*session, error) {
	lib := newLibrary(cfg, logger)
	backends, err := newBackends(cfg, lib, logger)
	if err != nil {
		return nil, err
	}
	intervals, err := cfg.SwapPolicy()
	if err != nil {
		return nil, err
	}

	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithVisible(visible),
		window.WithContextVersion(cfg.Window.GLMajor, cfg.Window.GLMinor),
	)
	if err != nil {
		return nil, fmt.Errorf("open window: %w", err)
	}

	sc := shader_context.NewShaderContext(
		platform.NewGLFWPlatform(platform.WithLogger(logger)),
		w,
		shader_context.WithLogger(logger),
		shader_context.WithBackends(backends...),
		shader_context.WithSwapIntervals(intervals...),
	)
	return &session{window: w, library: lib, context: sc}, nil
}

// close releases the shader context before the window it shares objects with.
func (s *session) close(logger *slog.Logger) {
	s.context.Quit()
	if err := s.window.Close(); err != nil {
		logger.Warn("failed to close window", "error", err)
	}
}
