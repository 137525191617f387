package commands

import (
	"fmt"

	"github.com/ncobase/socialhub/biz/story"
	storyservice "github.com/ncobase/socialhub/biz/story/service"
	"github.com/ncobase/socialhub/cmd/socialhub/commands/runtime"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/internal/server"

	"github.com/spf13/cobra"
)

// NewStoryCommand groups story maintenance tasks.
func NewStoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Story maintenance",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newPurgeExpiredCommand())
	return cmd
}

func newPurgeExpiredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-expired",
		Short: "Delete stories past their expiry date, media first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, cleanup, err := runtime.Setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			srv, err := server.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer srv.Close()

			svc, err := module.Lookup[*storyservice.Service](srv.App(), story.ServiceKey)
			if err != nil {
				return err
			}

			purged, err := svc.PurgeExpired(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired stories\n", purged)
			return err
		},
	}
}
