// Package cli defines the command-line interface for oxyctx.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-gl/internal/config"
	"github.com/Carmen-Shannon/oxy-gl/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	LogLevel   string
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootCmd := newRootCommand(&Options{}, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "oxyctx",
		Short:         "oxyctx inspects the OpenGL shading capabilities of this machine",
		Long:          "oxyctx brings up an OpenGL context, negotiates the GLSL or ARB shading backend and creates shaders from a shader directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = opts.LogLevel
			}
			logger = logging.NewLogger(os.Stderr, logging.ParseLevel(level))
			ctx := context.WithValue(cmd.Context(), loggerKey{}, logger)
			ctx = context.WithValue(ctx, configKey{}, cfg)
			cmd.SetContext(ctx)
			logger.Debug("configuration loaded", "path", opts.ConfigPath, "log_level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to the oxy.yaml configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error), overrides the configuration")

	cmd.AddCommand(
		newInfoCommand(),
		newShaderCommand(),
		newRunCommand(),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// configKey is a private context key used to store the loaded configuration in command contexts.
type configKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}

// configFromContext returns the configuration loaded by the root command, or the defaults.
func configFromContext(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
			return cfg
		}
	}
	return config.Default()
}
