package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zjrosen/musichub/internal/presentation"
	"github.com/zjrosen/musichub/internal/recent"
)

func newRecentCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently processed tracks",
		Long: `Fetch the recent-tracks list and print up to ten entries in server order.

Examples:
  musichub recent
  musichub recent --json | jq '.[].isrc'`,
		Args: cobra.NoArgs,
		RunE: e.closing(func(cmd *cobra.Command, _ []string) error {
			ctrl := recent.New(e.client)
			defer ctrl.Close()

			view := ctrl.Load(cmd.Context())
			if view.State == recent.Error {
				return errors.New(view.Message)
			}
			f := presentation.NewFormatter(cmd.OutOrStdout(), asJSON)
			return f.FormatTracks(presentation.FromItems(view.Items), recent.EmptyText)
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
