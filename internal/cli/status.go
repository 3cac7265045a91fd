package cli

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simonbru/taxi/internal/timesheet"
)

func newStatusCommand(ctx context.Context, app *App) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the entries of the current timesheet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			sheet, err := app.CurrentSheet()
			if err != nil {
				return err
			}

			filter := timesheet.Filter{
				Date:    date,
				Regroup: app.Config.Regroup,
			}
			sections := sheet.Timesheet.GetEntries(filter)

			out := cmd.OutOrStdout()
			if len(sections) == 0 {
				fmt.Fprintln(out, "The timesheet is empty.")
				return nil
			}
			printSections(out, sections)
			fmt.Fprintf(out, "\nTotal: %s hours\n", formatHours(sheet.Timesheet.TotalHours(filter)))

			for _, stale := range sheet.Timesheet.NonCurrentWorkdayEntries() {
				log.WithField("date", stale.Date.Format("2006-01-02")).
					Warn("unpushed entries on a past workday, did you forget to commit?")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only show this date (YYYY-MM-DD)")

	return cmd
}
