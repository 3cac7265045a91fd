package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonbru/taxi/internal/timesheet"
)

// entryRounding is the granularity starts and stops are rounded to.
const entryRounding = 15 * time.Minute

func newStartCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <alias> [description ...]",
		Short: "Start tracking an activity now.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			description := strings.Join(args[1:], " ")
			if description == "" {
				description = "?"
			}

			sheet, err := app.CurrentSheet()
			if err != nil {
				return err
			}

			today := app.today()
			if open := openEntry(sheet.Timesheet, today); open != nil {
				return fmt.Errorf("an entry for %q is still running, stop it first", open.Alias())
			}

			start, err := clockTime(app.Now(), false)
			if err != nil {
				return err
			}
			entry := timesheet.NewEntryLine(alias, timesheet.NewRange(&start, nil), description)
			sheet.Timesheet.Entries.Add(today, entry)

			if err := app.SaveSheet(sheet); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started %s at %s\n", alias, start)
			return nil
		},
	}

	return cmd
}

func newStopCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop [description ...]",
		Short: "Stop the running activity.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := app.CurrentSheet()
			if err != nil {
				return err
			}

			entry := openEntry(sheet.Timesheet, app.today())
			if entry == nil {
				return fmt.Errorf("no activity is currently running")
			}

			end, err := clockTime(app.Now(), true)
			if err != nil {
				return err
			}
			d := entry.Duration()
			entry.SetDuration(timesheet.NewRange(d.Start(), &end))
			if description := strings.Join(args, " "); description != "" {
				entry.SetDescription(description)
			}

			if err := app.SaveSheet(sheet); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s at %s (%s hours)\n",
				entry.Alias(), end, formatHours(entry.Hours()))
			return nil
		},
	}

	return cmd
}

// openEntry returns the last entry of the date whose range has no end
// yet.
func openEntry(ts *timesheet.Timesheet, date time.Time) *timesheet.EntryLine {
	entries := ts.Entries.Entries(date)
	for i := len(entries) - 1; i >= 0; i-- {
		d := entries[i].Duration()
		if d.IsRange() && d.Start() != nil && d.End() == nil {
			return entries[i]
		}
	}
	return nil
}

// clockTime converts the wall clock to a time of day, rounded to the
// entry granularity. Starts round down, stops round up, so short
// activities never come out negative.
func clockTime(now time.Time, roundUp bool) (timesheet.TimeOfDay, error) {
	rounded := now.Truncate(entryRounding)
	if roundUp && rounded.Before(now) {
		rounded = rounded.Add(entryRounding)
	}
	if rounded.Day() != now.Day() {
		// Rounding up past midnight would leave the entry on the wrong
		// date; clamp to the last slot of the day.
		rounded = rounded.Add(-entryRounding)
	}
	return timesheet.NewTimeOfDay(rounded.Hour(), rounded.Minute())
}
