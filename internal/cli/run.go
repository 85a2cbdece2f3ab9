package cli

import (
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// newRunCommand creates "run", which opens the configured window and drives the engine loop
// until the window is closed, holding the configured prefetch shaders for its lifetime.
func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the window and run the engine loop until it is closed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			cfg := configFromContext(cmd.Context())

			s, err := openSession(cfg, logger, cfg.Window.Visible)
			if err != nil {
				return err
			}

			e := engine.NewEngine(
				engine.WithWindow(s.window),
				engine.WithShaderContext(s.context),
				engine.WithLogger(logger),
				engine.WithTickRate(cfg.Engine.TickRate),
				engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
				engine.WithProfiling(cfg.Engine.Profiling),
			)
			if err := e.Init(); err != nil {
				e.Quit()
				return err
			}

			if err := s.library.Prefetch(cfg.Shaders.Prefetch...); err != nil {
				logger.Warn("some shader sources could not be read", "error", err)
			}
			shaders := make([]shader.Shader, 0, len(cfg.Shaders.Prefetch))
			for _, id := range cfg.Shaders.Prefetch {
				shaders = append(shaders, e.ShaderContext().CreateShader(id))
			}
			defer func() {
				for _, sh := range shaders {
					sh.Release()
				}
			}()

			e.Run()
			return nil
		},
	}
}
