package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dupescan/internal/api"
	"dupescan/internal/client"
)

func newPollCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "poll <task-id>",
		Short: "Report the current state of an analysis task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			return ctx.withClient(func(cl *client.Client) error {
				state, err := cl.Poll(cmd.Context(), taskID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, state)
				}
				renderTaskState(cmd.OutOrStdout(), state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of formatted text")
	return cmd
}

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Request cancellation of a running analysis task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			return ctx.withClient(func(cl *client.Client) error {
				if err := cl.Cancel(cmd.Context(), taskID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cancellation requested for task %s\n", taskID)
				return nil
			})
		},
	}
}

func parseTaskID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid task id %q: %w", raw, err)
	}
	return id.String(), nil
}

func renderTaskState(out io.Writer, state api.TaskState) {
	colorize := colorEnabled(out)
	switch state.Type {
	case api.TaskStatePending:
		fmt.Fprintln(out, statusLine("State", sevInfo, fmt.Sprintf("pending, %d files scanned", state.Progress), colorize))
	case api.TaskStateFailed:
		fmt.Fprintln(out, statusLine("State", sevFail, state.Error, colorize))
	case api.TaskStateCompleted:
		fmt.Fprintln(out, statusLine("State", sevOK, fmt.Sprintf("completed, %d groups", len(state.Data)), colorize))
		if len(state.Data) > 0 {
			fmt.Fprintln(out, groupTable(state.Data))
		}
	default:
		fmt.Fprintln(out, statusLine("State", sevWarn, state.Type, colorize))
	}
}
