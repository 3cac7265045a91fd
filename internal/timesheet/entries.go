package timesheet

import (
	"time"
)

// EntriesCollection is the date-keyed, order-preserving view over a
// parsed timesheet. It keeps the flat line list around so that blank
// lines, comments and the original section ordering survive a full
// parse/serialize round trip.
type EntriesCollection struct {
	lines   []Line
	dates   []time.Time
	entries map[time.Time][]*EntryLine

	// AddDateToBottom controls where a section for a brand-new date is
	// inserted. It only affects dates added after construction.
	AddDateToBottom bool
}

// NewEntriesCollection parses text and builds the collection, resolving
// open start times against preceding entries of the same date section.
func NewEntriesCollection(text string) (*EntriesCollection, error) {
	c := &EntriesCollection{entries: make(map[time.Time][]*EntryLine)}

	lines, err := Parse(text)
	if err != nil {
		return nil, err
	}
	c.lines = lines

	var current time.Time
	for _, line := range lines {
		switch line := line.(type) {
		case *DateLine:
			current = dateKey(line.Date())
			if _, ok := c.entries[current]; !ok {
				c.dates = append(c.dates, current)
				c.entries[current] = nil
			}
		case *EntryLine:
			c.entries[current] = append(c.entries[current], line)
		}
	}

	for _, date := range c.dates {
		resolveStartTimes(c.entries[date])
	}

	return c, nil
}

// resolveStartTimes fills the missing start time of "-hh:mm" entries
// from the end time of the nearest preceding entry. Chains that cannot
// be resolved are left open; the entry then computes zero hours and
// degrades to ignored instead of failing the parse.
func resolveStartTimes(entries []*EntryLine) {
	var prev *EntryLine
	for _, e := range entries {
		if e.duration.isRange && e.duration.start == nil && prev != nil {
			if prev.duration.isRange && prev.duration.end != nil {
				start := *prev.duration.end
				e.duration.start = &start
			}
		}
		prev = e
	}
}

// Len returns the number of date sections.
func (c *EntriesCollection) Len() int {
	return len(c.dates)
}

// Dates returns the section dates in the order they appear in the file.
func (c *EntriesCollection) Dates() []time.Time {
	out := make([]time.Time, len(c.dates))
	copy(out, c.dates)
	return out
}

// Entries returns the entry lines of the given date section, nil when
// the date has no section.
func (c *EntriesCollection) Entries(date time.Time) []*EntryLine {
	return c.entries[dateKey(date)]
}

// HasDate reports whether a section exists for the given date.
func (c *EntriesCollection) HasDate(date time.Time) bool {
	_, ok := c.entries[dateKey(date)]
	return ok
}

// AddDate inserts an empty section for date, at the top or bottom of
// the file depending on AddDateToBottom. Adding an existing date is a
// no-op. The new section renders as its header followed by one blank
// placeholder line.
func (c *EntriesCollection) AddDate(date time.Time) {
	date = dateKey(date)
	if _, ok := c.entries[date]; ok {
		return
	}

	header := NewDateLine(date)
	if c.AddDateToBottom {
		if n := len(c.lines); n > 0 && c.lines[n-1].Text() != "" {
			c.lines = append(c.lines, NewTextLine(""))
		}
		c.lines = append(c.lines, header, NewTextLine(""))
		c.dates = append(c.dates, date)
	} else {
		c.lines = append([]Line{header, NewTextLine("")}, c.lines...)
		c.dates = append([]time.Time{date}, c.dates...)
	}
	c.entries[date] = nil
}

// Add appends an entry to the date's section, creating the section when
// it does not exist yet. The entry is inserted after the section's last
// entry line, or at the section end when it has none, so surrounding
// comments and blank lines keep their place.
func (c *EntriesCollection) Add(date time.Time, entry *EntryLine) {
	date = dateKey(date)
	if _, ok := c.entries[date]; !ok {
		c.AddDate(date)
	}

	at := c.insertIndex(date)
	c.lines = append(c.lines, nil)
	copy(c.lines[at+1:], c.lines[at:])
	c.lines[at] = entry

	section := c.entries[date]
	if prev := lastEntry(section); prev != nil {
		if entry.duration.isRange && entry.duration.start == nil &&
			prev.duration.isRange && prev.duration.end != nil {
			start := *prev.duration.end
			entry.duration.start = &start
		}
	}
	c.entries[date] = append(section, entry)
}

func lastEntry(entries []*EntryLine) *EntryLine {
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1]
}

// insertIndex finds the line index right after the last entry of the
// date's section, falling back to the end of the section.
func (c *EntriesCollection) insertIndex(date time.Time) int {
	headerAt := -1
	sectionEnd := len(c.lines)
	lastEntryAt := -1

	for i, line := range c.lines {
		switch line := line.(type) {
		case *DateLine:
			if headerAt >= 0 {
				sectionEnd = i
			}
			if headerAt < 0 && dateKey(line.Date()).Equal(date) {
				headerAt = i
			}
		case *EntryLine:
			if headerAt >= 0 && sectionEnd == len(c.lines) {
				lastEntryAt = i
			}
		}
		if headerAt >= 0 && sectionEnd < len(c.lines) {
			break
		}
	}

	if lastEntryAt >= 0 {
		return lastEntryAt + 1
	}
	return sectionEnd
}

// ToLines regenerates the full timesheet text, line by line. Unmodified
// lines come back byte-identical; trailing blank lines are trimmed.
func (c *EntriesCollection) ToLines() []string {
	out := make([]string, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, line.Text())
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// IsTopDown reports whether date sections appear in ascending
// chronological order. With fewer than two distinct date headers the
// direction cannot be inferred and ErrUnknownDirection is returned.
func (c *EntriesCollection) IsTopDown() (bool, error) {
	var first, last *DateLine
	for _, line := range c.lines {
		if header, ok := line.(*DateLine); ok {
			if first == nil {
				first = header
			}
			last = header
		}
	}

	if first == nil || first == last || first.Date().Equal(last.Date()) {
		return false, ErrUnknownDirection
	}
	return first.Date().Before(last.Date()), nil
}

// dateKey normalizes a date for use as a section key.
func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
