package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"interruptlog/internal/app"
	"interruptlog/internal/lifecycle"
	"interruptlog/internal/popup"
)

var (
	startTaskType string
	startMemo     string
	statusWatch   bool
)

var startCmd = &cobra.Command{
	Use:   "start <category>",
	Short: "Start tracking an interruption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			res, err := dispatch(cmd, a, popup.Start{Category: args[0]})
			if err != nil {
				return fmt.Errorf("starting interruption: %w", err)
			}
			if startTaskType != "" {
				if res, err = dispatch(cmd, a, popup.SetTaskType{Value: startTaskType}); err != nil {
					return fmt.Errorf("setting task type: %w", err)
				}
			}
			if startMemo != "" {
				if res, err = dispatch(cmd, a, popup.SetMemo{Value: startMemo}); err != nil {
					return fmt.Errorf("setting memo: %w", err)
				}
			}
			cur := res.State.Current
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s) since %s\n",
				cur.Category, cur.TaskType, cur.Started().Format("15:04:05"))
			return nil
		})
	},
}

var memoCmd = &cobra.Command{
	Use:   "memo <text>",
	Short: "Set the memo of the tracked interruption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			if _, err := dispatch(cmd, a, popup.SetMemo{Value: args[0]}); err != nil {
				return fmt.Errorf("setting memo: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Memo saved.")
			return nil
		})
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <task-type>",
	Short: "Set the task type of the tracked interruption",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			if _, err := dispatch(cmd, a, popup.SetTaskType{Value: args[0]}); err != nil {
				return fmt.Errorf("setting task type: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task type set to %s\n", args[0])
			return nil
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete the tracked interruption and add it to the log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			res, err := dispatch(cmd, a, popup.Complete{})
			if err != nil {
				return fmt.Errorf("completing interruption: %w", err)
			}
			entry := res.State.Logs[len(res.State.Logs)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s: %s\n",
				entry.Category, lifecycle.FormatClock(time.Duration(entry.Duration)*time.Second))
			return nil
		})
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Drop the tracked interruption without logging it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			if _, err := dispatch(cmd, a, popup.Discard{}); err != nil {
				return fmt.Errorf("discarding interruption: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Interruption discarded.")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tracked interruption, if any",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			out := cmd.OutOrStdout()
			s := a.State()
			printStatus(out, s, time.Now())
			if !statusWatch || s.Current == nil {
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchStatus(ctx, out, a)
		})
	},
}

func printStatus(out io.Writer, s popup.State, now time.Time) {
	cur := s.Current
	if cur == nil {
		fmt.Fprintln(out, lifecycle.StateIdle)
		return
	}
	fmt.Fprintf(out, "%s %s  %s\n", lifecycle.StateTracking, cur.Category, lifecycle.FormatClock(s.Elapsed(now)))
	fmt.Fprintf(out, "  Task type: %s\n", cur.TaskType)
	if cur.Memo != "" {
		fmt.Fprintf(out, "  Memo:      %s\n", app.Truncate(cur.Memo, 60))
	}
}

// watchStatus redraws the elapsed time on every tick until the interruption
// ends (in any process) or ctx is cancelled.
func watchStatus(ctx context.Context, out io.Writer, a *app.App) error {
	reloads, err := a.Watch()
	if err != nil {
		return err
	}
	ticks := a.Ticks()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case t := <-ticks:
			fmt.Fprintf(out, "\r%s", lifecycle.FormatClock(t.Elapsed))
		case s := <-reloads:
			if s.Current == nil {
				fmt.Fprintln(out, "\nInterruption ended.")
				return nil
			}
		}
	}
}

func init() {
	startCmd.Flags().StringVarP(&startTaskType, "type", "t", "", "Task type (default: first in the list)")
	startCmd.Flags().StringVarP(&startMemo, "memo", "m", "", "Memo")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Keep showing the elapsed time")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(memoCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(statusCmd)
}
