package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dupescan/internal/api"
	"dupescan/internal/client"
	"dupescan/internal/config"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var wait bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Submit a duplicate analysis of a directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("threshold must be in (0, 1], got %g", threshold)
			}

			return ctx.withClient(func(cl *client.Client) error {
				taskID, err := cl.Analyze(cmd.Context(), root, threshold)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !wait {
					if jsonOut {
						return writeJSON(cmd, api.AnalyzeAccepted{TaskID: taskID})
					}
					fmt.Fprintf(out, "Task %s submitted. Poll with `dupescan poll %s`.\n", taskID, taskID)
					return nil
				}

				state, err := cl.WaitForCompletion(cmd.Context(), taskID, func(p int) {
					fmt.Fprintf(out, "\rScanned %d files", p)
				})
				fmt.Fprintln(out)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, state)
				}
				renderTaskState(out, state)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Similarity threshold in (0, 1]; 0 uses the daemon default")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait for the analysis to finish and print groups")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of formatted text")
	return cmd
}
