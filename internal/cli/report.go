package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"interruptlog/internal/app"
	"interruptlog/internal/export"
	"interruptlog/internal/popup"
	"interruptlog/internal/stats"
	"interruptlog/internal/storage"
)

var (
	exportOutput string
	backupOutput string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's interruption count, total time and categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			out := cmd.OutOrStdout()
			sum := a.State().Today(time.Now())
			fmt.Fprintf(out, "Today: %d interruptions, %s\n", sum.Count, stats.FormatTotal(sum.TotalSeconds))
			rows := stats.Legend(sum)
			if len(rows) == 0 {
				fmt.Fprintln(out, stats.NoRecordsText)
			}
			for _, r := range rows {
				fmt.Fprintf(out, "  %-24s %3d  %3d%%\n", app.Truncate(r.Category, 24), r.Count, r.Percent)
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole log as CSV",
	Long: `Export every logged interruption as a UTF-8 CSV with a byte order mark.
Without -o the file goes to export_dir as interruption_logs_YYYYMMDD.csv and an
existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			res, err := dispatch(cmd, a, popup.Export{})
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			for _, d := range res.Downloads {
				path := exportOutput
				if path == "" {
					if path, err = export.Save(a.Config().ExportDir, d.Filename, d.Data); err != nil {
						return err
					}
				} else if err := export.WriteFile(path, d.Data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d interruptions to %s\n", len(res.State.Logs), path)
			}
			return nil
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write the whole store as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			ctx, cancel := commandContext()
			defer cancel()
			snap, err := a.Backup(ctx)
			if err != nil {
				return fmt.Errorf("reading store: %w", err)
			}

			if backupOutput == "" || backupOutput == "-" {
				return storage.WriteBackup(cmd.OutOrStdout(), snap)
			}
			f, err := os.Create(backupOutput)
			if err != nil {
				return fmt.Errorf("creating backup file: %w", err)
			}
			if err := storage.WriteBackup(f, snap); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Backed up %d interruptions to %s\n", len(snap.Logs), backupOutput)
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the store with a YAML backup (asks for confirmation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening backup: %w", err)
		}
		snap, err := storage.ReadBackup(f)
		f.Close()
		if err != nil {
			return err
		}

		ok, err := confirm(cmd, fmt.Sprintf("Replace the stored data with %d interruptions from %s?", len(snap.Logs), args[0]))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		return withApp(func(a *app.App) error {
			ctx, cancel := commandContext()
			defer cancel()
			if _, err := a.Restore(ctx, snap); err != nil {
				return fmt.Errorf("restoring: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d interruptions.\n", len(snap.Logs))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output CSV path (overwritten if it exists)")
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Output YAML path (default: stdout)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
