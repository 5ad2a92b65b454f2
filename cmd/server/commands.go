package main

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/postgres"
	"github.com/phrazzld/tasktracker/internal/service/auth"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// migrateCommands lists the goose commands exposed by migrate.
var migrateCommands = []string{"up", "down", "status", "version"}

// newServeCommand creates the serve command.
func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.cleanup()

			return app.serve(cmd.Context())
		},
	}
}

// newSweepCommand creates the sweep command.
func newSweepCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deliver every due reminder once and print the report",
		Long: `Run a single reminder sweep against the configured database and
notifier, independent of the scheduler interval. The report is written to
stdout; logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Scheduler.SweepTimeout)
			defer cancel()

			report, err := app.sweeper.Sweep(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, report)
		},
	}
}

// newMigrateCommand creates the migrate command.
func newMigrateCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status|version>",
		Short:     "Apply or inspect PostgreSQL schema migrations",
		Long:      "Run goose against the embedded PostgreSQL migrations. SQLite databases migrate themselves on open.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrate requires the postgres driver, got %q", cfg.Database.Driver)
			}

			db, err := postgres.Open(cmd.Context(), cfg.Database.URL, postgres.PoolConfig{})
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(db, args[0], log)
		},
	}
}

// newHashPasswordCommand creates the hash-password command.
func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <plaintext>",
		Short: "Print a bcrypt digest for a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidatePassword(args[0]); err != nil {
				return err
			}
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("invalid cost %d: must be between %d and %d", cost, bcrypt.MinCost, bcrypt.MaxCost)
			}

			digest, err := auth.NewBcryptHasher(cost).Hash(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt work factor")
	return cmd
}

// newConfigCommand creates the config command.
func newConfigCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, cfg.Redacted())
		},
	}
}
