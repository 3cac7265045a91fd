package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gosuri/uitable"

	"github.com/simonbru/taxi/internal/timesheet"
)

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		return time.Time{}, nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateFlag, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return parsed, nil
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

func entryMarker(e timesheet.Entry) string {
	switch {
	case e.Ignored():
		return "?"
	case e.Pushed():
		return "="
	default:
		return ""
	}
}

func printSection(w io.Writer, section timesheet.DateEntries) {
	fmt.Fprintf(w, "%s\n", section.Date.Format("Monday 02 January 2006"))
	if len(section.Entries) == 0 {
		fmt.Fprintln(w, "(no entries)")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 50

	var total float64
	for _, e := range section.Entries {
		table.AddRow(entryMarker(e), e.Alias(), formatHours(e.Hours()), e.Description())
		if !e.Ignored() {
			total += e.Hours()
		}
	}
	table.AddRow("", "total", formatHours(total), "")
	fmt.Fprintln(w, table)
}

func printSections(w io.Writer, sections []timesheet.DateEntries) {
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printSection(w, section)
	}
}
