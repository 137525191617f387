// Package migrate implements the schema migration commands.
package migrate

import (
	"fmt"

	"github.com/ncobase/socialhub/cmd/socialhub/commands/runtime"
	"github.com/ncobase/socialhub/internal/server"

	"github.com/spf13/cobra"
)

// NewCommand creates a new migrate command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Database migration commands",
		Long:    `Apply, roll back and inspect the embedded schema migrations.`,
	}

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newVersionCommand(),
	)
	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, cleanup, err := runtime.Setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := server.Migrate(ctx, cfg); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			log.Info(ctx, "Migrations applied")
			return nil
		},
	}
}

func newDownCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, cleanup, err := runtime.Setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := server.MigrateDown(ctx, cfg, steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			log.Info(ctx, "Migrations rolled back", "steps", steps)
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back, 0 for all")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, _, cleanup, err := runtime.Setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			v, dirty, err := server.MigrationVersion(ctx, cfg)
			if err != nil {
				return fmt.Errorf("migrate version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	}
}
