package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

func newEditCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the current timesheet in your editor.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Manager.Path(app.Now())

			// Make sure the file exists so the editor does not start on
			// a scratch buffer.
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := app.Manager.Save(path, nil); err != nil {
					return err
				}
			}

			editor := editorCommand(app)
			parts := strings.Fields(editor)
			parts = append(parts, path)

			run := exec.CommandContext(ctx, parts[0], parts[1:]...)
			run.Stdin = os.Stdin
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			if err := run.Run(); err != nil {
				return fmt.Errorf("run editor %q: %w", editor, err)
			}

			// Surface parse errors right away instead of at the next
			// status.
			if _, err := app.LoadSheet(path); err != nil {
				return err
			}
			return nil
		},
	}

	return cmd
}

func editorCommand(app *App) string {
	if app.Config.Editor != "" {
		return app.Config.Editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
