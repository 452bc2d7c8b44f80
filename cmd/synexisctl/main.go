// Command synexisctl enqueues background jobs and reports queue depth.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synexis/synexis-admin/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	root := newRootCmd(func() (Queue, error) { return newAsynqQueue(redisAddr) })
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open func() (Queue, error)) *cobra.Command {
	root := &cobra.Command{
		Use:           "synexisctl",
		Short:         "Operate the Synexis admin background jobs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newEnqueueCmd(open), newQueueCmd(open))
	return root
}

func newEnqueueCmd(open func() (Queue, error)) *cobra.Command {
	var resources []string
	cmd := &cobra.Command{
		Use:   "enqueue <task>",
		Short: "Enqueue a job by name",
		Long:  "Enqueue a job by name. Known tasks: " + jobs.TaskDropdownWarmup + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := jobs.NewTask(strings.TrimSpace(args[0]), resources)
			if err != nil {
				return err
			}
			queue, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = queue.Close() }()
			info, err := queue.Enqueue(cmd.Context(), task)
			if err != nil {
				return fmt.Errorf("enqueue %s: %w", task.Type(), err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s as %s on queue %s\n", task.Type(), info.ID, info.Queue)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&resources, "resource", nil, "limit "+jobs.TaskDropdownWarmup+" to these resources")
	return cmd
}

func newQueueCmd(open func() (Queue, error)) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the depth of the job queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = queue.Close() }()
			stats, err := queue.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("inspect queue: %w", err)
			}
			return renderStats(cmd.OutOrStdout(), stats, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func renderStats(w io.Writer, stats QueueStats, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(stats)
	}
	_, err := fmt.Fprintf(w, "queue %s: pending=%d active=%d scheduled=%d retry=%d archived=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
	return err
}
