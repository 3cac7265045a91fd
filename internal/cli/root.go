package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simonbru/taxi/internal/config"
	taxilog "github.com/simonbru/taxi/internal/log"
	"github.com/simonbru/taxi/internal/ui"
	"github.com/simonbru/taxi/internal/version"
)

// NewRootCommand creates the top-level Cobra command hosting all
// subcommands and the TUI launcher.
func NewRootCommand(ctx context.Context, app *App) *cobra.Command {
	var (
		cfgFile  string
		fileFlag string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "taxi",
		Short: "Track your time from a plain-text timesheet.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := taxilog.SetLevel(logLevel); err != nil {
				return err
			}
			if err := config.Init(cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if fileFlag != "" {
				cfg.File = fileFlag
			}
			return app.Init(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := app.CurrentSheet()
			if err != nil {
				return err
			}
			m := ui.NewModel(ctx, sheet.Timesheet, func() error {
				return app.SaveSheet(sheet)
			})
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.taxirc.yml)")
	cmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Timesheet file template (overrides the config)")
	cmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "info", "Log level: debug, info, warn, error, fatal")

	cmd.AddCommand(
		newStatusCommand(ctx, app),
		newStartCommand(ctx, app),
		newStopCommand(ctx, app),
		newCommitCommand(ctx, app),
		newEditCommand(ctx, app),
		newAliasCommand(ctx, app),
		newUpdateCommand(ctx, app),
		newProjectsCommand(ctx, app),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	return NewRootCommand(ctx, &App{}).Execute()
}

// Main is a helper used by cmd/taxi/main.go to keep wiring contained in
// one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
