// Package cli implements interruptlog-cli, the scriptable front end over the
// same store the popup uses.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"interruptlog/internal/app"
	"interruptlog/internal/config"
	"interruptlog/internal/popup"
)

var (
	configPath string
	dbPath     string
	assumeYes  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "interruptlog-cli",
	Short: "Log work interruptions from the command line",
	Long: `A command-line interface to the interruption log: start, annotate and
complete interruptions, edit the category and task type lists, show today's
stats, export CSV and back up the store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutput(os.Stderr)
			log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
		} else {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ./config.yaml, ~/.config/interruptlog/config.yaml, /etc/interruptlog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: loaded from config or 'interruptlog.db')")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}

// openApp loads the config, applies --db and opens the store.
func openApp() (*app.App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return a, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// dispatch runs cmd and answers any confirmation it asks for. Validation
// notices become errors.
func dispatch(cmd *cobra.Command, a *app.App, c popup.Command) (app.Result, error) {
	ctx, cancel := commandContext()
	defer cancel()

	res, err := a.Dispatch(ctx, c)
	if err != nil {
		return res, err
	}
	if len(res.Notices) > 0 {
		n := res.Notices[0]
		if n.Err != nil {
			return res, n.Err
		}
		return res, errors.New(n.Message)
	}
	if len(res.Confirms) == 0 {
		return res, nil
	}
	question := res.Confirms[0]
	ok, err := confirm(cmd, question.Message)
	if err != nil {
		return res, err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return res, nil
	}
	return dispatch(cmd, a, question.OnConfirm)
}

// confirm asks a yes/no question on the command's input unless --yes is set.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// withApp opens the app for the duration of fn.
func withApp(fn func(a *app.App) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
