package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader_context"
)

// infoReport is the YAML document printed by "oxyctx info".
type infoReport struct {
	OpenGL          string `yaml:"openGL"`
	ShadingLanguage string `yaml:"shadingLanguage"`
	Vendor          string `yaml:"vendor"`
	Renderer        string `yaml:"renderer"`
	Backend         string `yaml:"backend"`
	State           string `yaml:"state"`
	SwapInterval    int    `yaml:"swapInterval"`
}

// newInfoCommand creates "info", which initializes a shader context on a hidden window and
// prints the captured capability record.
func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the OpenGL driver identity and the negotiated shading backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			cfg := configFromContext(cmd.Context())

			s, err := openSession(cfg, logger, false)
			if err != nil {
				return err
			}
			defer s.close(logger)

			ok := s.context.Initialize()
			if err := writeYAML(cmd.OutOrStdout(), newInfoReport(s.context)); err != nil {
				return err
			}
			if !ok {
				return engine.ErrNoShadingBackend
			}
			return nil
		},
	}
}

func newInfoReport(sc shader_context.ShaderContext) infoReport {
	caps := sc.Capabilities()
	return infoReport{
		OpenGL:          caps.OpenGLVersion,
		ShadingLanguage: caps.ShadingLanguageVersion,
		Vendor:          caps.Vendor,
		Renderer:        caps.Renderer,
		Backend:         sc.Backend().String(),
		State:           sc.State().String(),
		SwapInterval:    sc.SwapInterval(),
	}
}

// writeYAML encodes v to w as a YAML document with two-space indentation.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
