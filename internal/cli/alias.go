package cli

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/simonbru/taxi/internal/projects"
)

func newAliasCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Inspect the alias mappings.",
	}

	cmd.AddCommand(
		newAliasListCommand(ctx, app),
		newAliasResolveCommand(ctx, app),
	)
	return cmd
}

func newAliasListCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [search]",
		Short: "List the configured aliases.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			matches := app.Aliases.Search(query)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No aliases found.")
				return nil
			}

			table := uitable.New()
			table.AddRow("ALIAS", "BACKEND", "MAPPING")
			for _, alias := range matches {
				mapping, _ := app.Aliases.Resolve(alias)
				table.AddRow(alias, mapping.Backend, mapping.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newAliasResolveCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <alias>",
		Short: "Show what an alias maps to, with project details if cached.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			mapping, ok := app.Aliases.Resolve(alias)
			if !ok {
				return fmt.Errorf("alias %q is not mapped", alias)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s on %s\n", alias, mapping.String(), mapping.Backend)

			store, err := projects.Open(app.Config.ProjectsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			project, err := store.Get(mapping.Backend, mapping.ProjectID)
			if err != nil {
				fmt.Fprintln(out, "Run `taxi update` to fetch project names.")
				return nil
			}

			fmt.Fprintf(out, "Project: %s (%s)\n", project.Name, project.Status)
			for _, activity := range project.Activities {
				if activity.ID == mapping.ActivityID {
					fmt.Fprintf(out, "Activity: %s\n", activity.Name)
				}
			}
			return nil
		},
	}
}
