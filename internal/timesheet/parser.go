package timesheet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The entry pattern captures, in order: an optional flags token, the
// alias, the time-or-duration token and the description, along with the
// spacing between them so lines can be regenerated with their original
// alignment.
var entryRe = regexp.MustCompile(
	`^(?:(?P<flags>.+?)(?P<spacing1>\s+))?` +
		`(?P<alias>[?\w_-]+)(?P<spacing2>\s+)` +
		`(?P<time>(?:(?P<start>(?:\d{1,2}):?(?:\d{1,2}))?-(?P<end>(?:(?:\d{1,2}):?(?:\d{1,2}))|\?))|(?P<duration>\d+(?:\.\d+)?))(?P<spacing3>\s+)` +
		`(?P<description>.+)$`,
)

// Date headers come in two shapes: day-first (31.03.2013, 31/03/13) and
// year-first (2013/03/31). Any non-digit works as a separator.
var (
	dayFirstDateRe  = regexp.MustCompile(`^(\d{1,2})\D(\d{1,2})\D(\d{4}|\d{2})`)
	yearFirstDateRe = regexp.MustCompile(`^(\d{4})\D(\d{1,2})\D(\d{1,2})`)

	timeDigitsRe = regexp.MustCompile(`^\d{3,}$`)
)

var entryGroups = func() map[string]int {
	groups := make(map[string]int)
	for i, name := range entryRe.SubexpNames() {
		if name != "" {
			groups[name] = i
		}
	}
	return groups
}()

// Parse converts raw timesheet text into an ordered sequence of lines.
// Each line is trimmed and tabs are expanded to four spaces before
// classification. Entry lines are only valid inside an open date
// section; the first structural error aborts the whole parse with its
// 1-based line number attached.
func Parse(text string) ([]Line, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var (
		parsed   []Line
		haveDate bool
	)
	for i, raw := range strings.Split(text, "\n") {
		line := strings.ReplaceAll(strings.TrimSpace(raw), "\t", "    ")

		if line == "" || strings.HasPrefix(line, "#") {
			parsed = append(parsed, NewTextLine(line))
			continue
		}

		if date, ok := ExtractDate(line); ok {
			haveDate = true
			parsed = append(parsed, newDateLineFromText(date, line))
			continue
		}

		// Not a date header, so it has to be an entry line.
		if !haveDate {
			return nil, &ParseError{
				Message:    "Entries must be defined inside a date section",
				Line:       line,
				LineNumber: i + 1,
			}
		}

		entry, err := ParseEntryLine(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = line
				perr.LineNumber = i + 1
			}
			return nil, err
		}
		parsed = append(parsed, entry)
	}

	return parsed, nil
}

// ParseEntryLine extracts a single entry from a line that is known not
// to be a date header, blank or comment.
func ParseEntryLine(line string) (*EntryLine, error) {
	m := entryRe.FindStringSubmatch(line)
	if m == nil {
		return nil, &ParseError{
			Message: "Line must have an alias, a duration and a description",
		}
	}
	group := func(name string) string { return m[entryGroups[name]] }

	var flags Flag
	if f := group("flags"); f != "" {
		if strings.Contains(f, "?") {
			flags |= FlagIgnored
		}
		if strings.Contains(f, "=") {
			flags |= FlagPushed
		}
	}

	// Legacy timesheets flag an entry by appending "?" to the alias
	// instead of using a flags token.
	alias := group("alias")
	if strings.Contains(alias, "?") {
		flags |= FlagIgnored
		alias = strings.ReplaceAll(alias, "?", "")
	}

	var duration Duration
	if d := group("duration"); d != "" {
		hours, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return nil, &ParseError{Message: "Duration must be in format hh:mm or hhmm"}
		}
		duration = FixedHours(hours)
	} else {
		var start, end *TimeOfDay
		if s := group("start"); s != "" {
			t, err := parseTime(s)
			if err != nil {
				return nil, &ParseError{Message: "Duration must be in format hh:mm or hhmm"}
			}
			start = &t
		}
		if s := group("end"); s != "" && s != "?" {
			t, err := parseTime(s)
			if err != nil {
				return nil, &ParseError{Message: "Duration must be in format hh:mm or hhmm"}
			}
			end = &t
		}
		duration = NewRange(start, end)
	}

	tokens := [tokenCount]string{
		group("flags"),
		group("spacing1"),
		group("alias"),
		group("spacing2"),
		group("time"),
		group("spacing3"),
		group("description"),
	}

	return newEntryLineFromTokens(alias, duration, group("description"), flags, tokens), nil
}

// parseTime parses "hh:mm", "hhmm" or "hmm" into a TimeOfDay. The last
// two digits are the minutes, whatever leads them is the hour.
func parseTime(s string) (TimeOfDay, error) {
	s = strings.ReplaceAll(s, ":", "")
	if !timeDigitsRe.MatchString(s) {
		return TimeOfDay{}, &ParseError{Message: "Time must be numeric"}
	}

	minute, _ := strconv.Atoi(s[len(s)-2:])
	var hour int
	if len(s) > 3 {
		hour, _ = strconv.Atoi(s[:2])
	} else {
		hour, _ = strconv.Atoi(s[:1])
	}

	return NewTimeOfDay(hour, minute)
}

// ExtractDate tries to read a calendar date from the start of a line.
// A false return is not an error: it is the signal that the line is an
// entry line rather than a date header.
func ExtractDate(line string) (time.Time, bool) {
	if m := dayFirstDateRe.FindStringSubmatch(line); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			current := time.Now().Year()
			year = current - current%1000 + year
		}
		return makeDate(year, month, day)
	}

	if m := yearFirstDateRe.FindStringSubmatch(line); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day)
	}

	return time.Time{}, false
}

// makeDate builds a date and rejects out-of-range components instead of
// letting time.Date normalize them away.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
