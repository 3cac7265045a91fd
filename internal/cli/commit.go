package cli

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simonbru/taxi/internal/backends"
	"github.com/simonbru/taxi/internal/timesheet"
)

func newCommitCommand(ctx context.Context, app *App) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Push your entries to the configured backends.",
		Long: "commit pushes every entry that is not ignored and not yet pushed, " +
			"in the current timesheet and the previous ones, then flags them as pushed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			now := app.Now()
			paths := append(
				[]string{app.Manager.Path(now)},
				app.Manager.PreviousPaths(app.Config.NbPreviousFiles, now)...,
			)

			var pushed, failed int
			var hours float64
			for _, path := range paths {
				n, f, h, err := app.commitFile(ctx, cmd, path, date)
				if err != nil {
					return err
				}
				pushed += n
				failed += f
				hours += h
			}

			out := cmd.OutOrStdout()
			if pushed == 0 && failed == 0 {
				fmt.Fprintln(out, "Nothing to push.")
				return nil
			}
			fmt.Fprintf(out, "Pushed %d entries (%s hours)\n", pushed, formatHours(hours))
			if failed > 0 {
				return fmt.Errorf("%d entries could not be pushed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Only push this date (YYYY-MM-DD)")

	return cmd
}

func (a *App) commitFile(ctx context.Context, cmd *cobra.Command, path string, date time.Time) (pushed, failed int, hours float64, err error) {
	sheet, err := a.LoadSheet(path)
	if err != nil {
		return 0, 0, 0, err
	}

	filter := timesheet.Filter{
		Date:           date,
		ExcludeIgnored: true,
		ExcludePushed:  true,
		Regroup:        a.Config.Regroup,
	}

	for _, section := range sheet.Timesheet.GetEntries(filter) {
		for _, entry := range section.Entries {
			mapping, ok := a.Aliases.Resolve(entry.Alias())
			if !ok {
				log.WithField("alias", entry.Alias()).Warn("alias is not mapped, skipping")
				continue
			}

			backend, err := a.Backends.Get(mapping.Backend)
			if err != nil {
				return pushed, failed, hours, err
			}

			pushErr := backend.PushEntry(ctx, backends.Entry{
				Date:        section.Date,
				Hours:       entry.Hours(),
				Description: entry.Description(),
				Mapping:     mapping,
			})
			if pushErr != nil {
				failed++
				log.WithError(pushErr).WithFields(log.Fields{
					"alias": entry.Alias(),
					"date":  section.Date.Format("2006-01-02"),
				}).Error("push failed")
				continue
			}

			entry.SetPushed(true)
			pushed++
			hours += entry.Hours()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				section.Date.Format("02.01.2006"), entry.Alias(),
				formatHours(entry.Hours()), entry.Description())
		}
	}

	if pushed > 0 {
		if err := a.SaveSheet(sheet); err != nil {
			return pushed, failed, hours, err
		}
	}
	return pushed, failed, hours, nil
}
