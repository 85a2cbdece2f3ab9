package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// shaderReport describes one shader created by "oxyctx shader".
type shaderReport struct {
	ID            string  `yaml:"id"`
	Backend       string  `yaml:"backend"`
	ScalingFactor float64 `yaml:"scalingFactor"`
	Error         string  `yaml:"error,omitempty"`
	Vertex        string  `yaml:"vertex,omitempty"`
	Fragment      string  `yaml:"fragment,omitempty"`
}

// newShaderCommand creates "shader", which creates the named shaders on the negotiated backend
// and prints what each one resolved to.
func newShaderCommand() *cobra.Command {
	var withSource bool

	cmd := &cobra.Command{
		Use:   "shader <id>...",
		Short: "Create shaders on the negotiated backend and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			logger := LoggerFromContext(cmd.Context())
			cfg := configFromContext(cmd.Context())

			s, err := openSession(cfg, logger, false)
			if err != nil {
				return err
			}
			defer s.close(logger)

			// Source files are read on the worker pool while the render thread negotiates.
			prefetched := make(chan error, 1)
			go func() {
				prefetched <- s.library.Prefetch(ids...)
			}()

			ok := s.context.Initialize()
			if err := <-prefetched; err != nil {
				logger.Warn("some shader sources could not be read", "error", err)
			}
			if !ok {
				return engine.ErrNoShadingBackend
			}

			reports := make([]shaderReport, 0, len(ids))
			failed := 0
			for _, id := range ids {
				sh := s.context.CreateShader(id)
				r := newShaderReport(sh, withSource)
				sh.Release()
				if r.Error != "" {
					failed++
				}
				reports = append(reports, r)
			}

			if err := writeYAML(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d shaders failed to load", failed, len(ids))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withSource, "source", false, "Include the pre-processed stage sources in the output")
	return cmd
}

func newShaderReport(s shader.Shader, withSource bool) shaderReport {
	r := shaderReport{
		ID:            s.ID(),
		Backend:       s.Backend().String(),
		ScalingFactor: s.ScalingFactor(),
	}
	if err := s.Err(); err != nil {
		r.Error = err.Error()
		return r
	}
	if withSource {
		r.Vertex = s.Source(shader.ShaderTypeVertex)
		r.Fragment = s.Source(shader.ShaderTypeFragment)
	}
	return r
}
