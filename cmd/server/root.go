package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigFile string
	Format     string // "yaml" | "json"
}

// validFormats defines the allowed output formats.
var validFormats = []string{"yaml", "json"}

// newRootCommand creates the root command for the tasktracker CLI.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tasktracker",
		Short: "Multi-user task tracker with reminder delivery",
		Long: `tasktracker serves a JSON API for personal task lists and delivers
reminder messages for tasks whose reminder time has passed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "yaml", "output format (yaml|json)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

// loadConfig reads configuration and builds the process logger. Logs go to
// logOut so that command output on stdout stays machine readable.
func loadConfig(opts *rootOptions, logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
		Output: logOut,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Debug("configuration loaded",
		"port", cfg.Server.Port,
		"database_driver", cfg.Database.Driver,
		"notifier_driver", cfg.Notifier.Driver,
		"scheduler_enabled", cfg.Scheduler.Enabled)

	return cfg, log, nil
}
