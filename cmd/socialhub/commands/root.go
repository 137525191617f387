// Package commands implements the socialhub command line.
package commands

import (
	"github.com/ncobase/socialhub/cmd/socialhub/commands/migrate"
	"github.com/ncobase/socialhub/cmd/socialhub/commands/runtime"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "socialhub",
		Short:         "Social media backend: users, posts, comments and stories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(
		NewServeCommand(),
		migrate.NewCommand(),
		NewStoryCommand(),
		NewVersionCommand(),
	)
	return rootCmd
}
