package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dupescan/internal/client"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				status, err := cl.Status(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, status)
				}

				out := cmd.OutOrStdout()
				colorize := colorEnabled(out)
				for _, line := range sectionHeader("Dupescan Daemon", colorize) {
					fmt.Fprintln(out, line)
				}

				runningSev := sevFail
				if status.Running {
					runningSev = sevOK
				}
				fmt.Fprintln(out, statusLine("Running", runningSev, yesNo(status.Running), colorize))
				fmt.Fprintln(out, statusLine("PID", sevInfo, fmt.Sprintf("%d", status.PID), colorize))
				fmt.Fprintln(out, statusLine("Lock file", sevInfo, status.LockFilePath, colorize))
				fmt.Fprintln(out, statusLine("Cached fingerprints", sevInfo, fmt.Sprintf("%d", status.CacheEntries), colorize))
				if status.TotalDiskBytes > 0 {
					diskSev := sevOK
					if status.FreeDiskBytes < status.TotalDiskBytes/10 {
						diskSev = sevWarn
					}
					message := fmt.Sprintf("%s free of %s",
						humanSize(int64(status.FreeDiskBytes)),
						humanSize(int64(status.TotalDiskBytes)))
					fmt.Fprintln(out, statusLine("Disk", diskSev, message, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of formatted text")
	return cmd
}
