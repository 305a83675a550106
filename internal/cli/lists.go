package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"interruptlog/internal/app"
	"interruptlog/internal/event"
	"interruptlog/internal/listedit"
	"interruptlog/internal/popup"
)

// newListCmd builds the list/add/rm/mv group for one of the ordered lists.
// Positions on the command line are 1-based.
func newListCmd(kind event.ListKind, use, noun string) *cobra.Command {
	group := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Manage the %s list", noun),
	}

	group.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("Show the %s list in order", noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				list := a.State().List(kind)
				if len(list) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s entries.\n", noun)
				}
				for i, item := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, item)
				}
				return nil
			})
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: fmt.Sprintf("Append a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				if _, err := dispatch(cmd, a, popup.AddItem{Kind: kind, Value: args[0]}); err != nil {
					return fmt.Errorf("adding %s: %w", noun, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", args[0])
				return nil
			})
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "rm <position>",
		Short: fmt.Sprintf("Delete a %s (asks for confirmation)", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				before := len(a.State().List(kind))
				res, err := dispatch(cmd, a, popup.RequestRemove{Kind: kind, Index: index})
				if err != nil {
					return fmt.Errorf("deleting %s: %w", noun, err)
				}
				if len(res.State.List(kind)) < before {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", noun, index+1)
				}
				return nil
			})
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "mv <from> <to>",
		Short: fmt.Sprintf("Move a %s to another position", noun),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				n := len(a.State().List(kind))
				if from >= n || to >= n {
					return fmt.Errorf("moving %s: %w", noun, listedit.ErrIndexOutOfRange)
				}
				res, err := dispatch(cmd, a, popup.Drop{
					Source: listedit.Handle{Kind: kind, Index: from},
					Target: listedit.Handle{Kind: kind, Index: to},
				})
				if err != nil {
					return fmt.Errorf("moving %s: %w", noun, err)
				}
				for i, item := range res.State.List(kind) {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, item)
				}
				return nil
			})
		},
	})

	return group
}

func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: must be a number from 1", arg)
	}
	return n - 1, nil
}

func init() {
	rootCmd.AddCommand(newListCmd(event.KindCategory, "category", "category"))
	rootCmd.AddCommand(newListCmd(event.KindTaskType, "tasktype", "task type"))
}
