package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dupescan/internal/client"
	"dupescan/internal/config"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list <path>",
		Short: "List a directory as the daemon sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			return ctx.withClient(func(cl *client.Client) error {
				listing, err := cl.List(cmd.Context(), path)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, listing)
				}
				fmt.Fprintln(cmd.OutOrStdout(), listingTable(listing.Files))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
