// Package cmd wires the sigsmoke CLI commands together. Each subcommand
// lives in its own file; shared setup (configuration loading, structured
// logging) happens here.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sigsmoke/pkg/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for sigsmoke.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigsmoke",
		Short: "Smoke checker for the SIG-TE application source tree",
		Long: `sigsmoke runs declarative smoke-test suites against the SIG-TE
(Sistema Integrado de Gestão de Transporte Escolar) source files.

Suites are YAML files listing named tests, each a group of checks such as
literal presence, CSS selector matches, or JSON configuration keys. The
shipped suites under suites/ cover the backend structure, the front-end
structure, and integration readiness.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", config.DefaultPath, "Path to config file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadConfig resolves the effective configuration for a command invocation,
// applying persistent flag overrides on top of the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.NoColor = true
	}

	return cfg, nil
}

// setupLogging installs the default slog logger at the configured level.
func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
