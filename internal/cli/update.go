package cli

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simonbru/taxi/internal/projects"
)

func newUpdateCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Refresh the local project catalogue from the backends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := projects.Open(app.Config.ProjectsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, name := range app.Backends.Names() {
				backend, err := app.Backends.Get(name)
				if err != nil {
					return err
				}

				log.WithField("backend", name).Info("fetching projects")
				catalogue, err := backend.Projects(ctx)
				if err != nil {
					return fmt.Errorf("backend %q: %w", name, err)
				}
				if err := store.Replace(name, catalogue); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d projects\n", name, len(catalogue))
			}
			return nil
		},
	}
}

func newProjectsCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects [search]",
		Short: "Search the cached project catalogue.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := projects.Open(app.Config.ProjectsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			found, err := store.Search(query)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found. Run `taxi update` first.")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("BACKEND", "ID", "NAME", "STATUS")
			for _, p := range found {
				table.AddRow(p.Backend, p.ID, p.Name, p.Status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
