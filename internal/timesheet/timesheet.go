package timesheet

import (
	"time"
)

// Resolver reports whether an alias is mapped to a backend project. The
// alias database lives outside this package; the collection only needs
// a yes/no answer to filter unmapped entries.
type Resolver interface {
	IsMapped(alias string) bool
}

// Entry is the read/filter/merge view handed out by GetEntries. Both
// raw entry lines and regrouped aggregates implement it; setting the
// pushed flag on an aggregate propagates to every underlying line.
type Entry interface {
	Alias() string
	Description() string
	Hours() float64
	Ignored() bool
	Pushed() bool
	SetPushed(v bool)
}

// DateEntries pairs a section date with its (possibly filtered or
// regrouped) entries.
type DateEntries struct {
	Date    time.Time
	Entries []Entry
}

// Filter narrows down what GetEntries returns.
type Filter struct {
	// Date limits the result to a single date section. The zero value
	// keeps all dates.
	Date time.Time
	// ExcludeUnmapped drops entries whose alias the resolver does not
	// know about.
	ExcludeUnmapped bool
	// ExcludeIgnored drops ignored entries.
	ExcludeIgnored bool
	// ExcludePushed drops entries already pushed to a backend.
	ExcludePushed bool
	// Regroup merges entries sharing alias, description and ignored
	// state into one aggregate per date, summing their hours.
	Regroup bool
}

// Timesheet couples an entries collection with the alias resolver and
// exposes the filtered views the commands work with.
type Timesheet struct {
	Entries *EntriesCollection

	resolver Resolver

	// Now is the clock used for workday checks, swappable in tests.
	Now func() time.Time
}

// NewTimesheet wraps a collection. The resolver may be nil, in which
// case every alias counts as mapped.
func NewTimesheet(entries *EntriesCollection, resolver Resolver) *Timesheet {
	if entries == nil {
		entries = &EntriesCollection{entries: make(map[time.Time][]*EntryLine)}
	}
	return &Timesheet{Entries: entries, resolver: resolver, Now: time.Now}
}

// GetEntries returns the date sections in file order, with entries
// filtered and optionally regrouped per the filter.
func (t *Timesheet) GetEntries(f Filter) []DateEntries {
	var out []DateEntries
	for _, date := range t.Entries.Dates() {
		if !f.Date.IsZero() && !dateKey(f.Date).Equal(date) {
			continue
		}

		var kept []Entry
		for _, e := range t.Entries.Entries(date) {
			if f.ExcludeIgnored && e.Ignored() {
				continue
			}
			if f.ExcludePushed && e.Pushed() {
				continue
			}
			if f.ExcludeUnmapped && t.resolver != nil && !t.resolver.IsMapped(e.Alias()) {
				continue
			}
			kept = append(kept, e)
		}
		if f.Regroup {
			kept = regroup(kept)
		}
		out = append(out, DateEntries{Date: date, Entries: kept})
	}
	return out
}

// TotalHours sums the hours of all non-ignored entries matching the
// filter.
func (t *Timesheet) TotalHours(f Filter) float64 {
	f.ExcludeIgnored = true
	var total float64
	for _, section := range t.GetEntries(f) {
		for _, e := range section.Entries {
			total += e.Hours()
		}
	}
	return total
}

// NonCurrentWorkdayEntries returns the non-ignored entries dated
// neither today nor the previous working day, plus anything logged on a
// weekend. Commands use it to warn about entries that were probably
// forgotten.
func (t *Timesheet) NonCurrentWorkdayEntries() []DateEntries {
	today := dateKey(t.Now())
	previous := previousWorkday(today)

	var out []DateEntries
	for _, section := range t.GetEntries(Filter{ExcludeIgnored: true}) {
		weekday := section.Date.Weekday()
		current := (section.Date.Equal(today) || section.Date.Equal(previous)) &&
			weekday != time.Saturday && weekday != time.Sunday
		if current || len(section.Entries) == 0 {
			continue
		}
		out = append(out, section)
	}
	return out
}

func previousWorkday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Monday:
		return d.AddDate(0, 0, -3)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	default:
		return d.AddDate(0, 0, -1)
	}
}

// AggregatedEntry merges entries sharing alias, description and ignored
// state. Its hours are the sum of its members'; flag writes fan out to
// every member so serialization reflects them on each original line.
type AggregatedEntry struct {
	alias       string
	description string
	hours       float64
	ignored     bool
	members     []*EntryLine
}

func (a *AggregatedEntry) Alias() string       { return a.alias }
func (a *AggregatedEntry) Description() string { return a.description }
func (a *AggregatedEntry) Hours() float64      { return a.hours }
func (a *AggregatedEntry) Ignored() bool       { return a.ignored }

// Pushed reports whether every member entry was pushed.
func (a *AggregatedEntry) Pushed() bool {
	for _, m := range a.members {
		if !m.Pushed() {
			return false
		}
	}
	return len(a.members) > 0
}

// SetPushed propagates the flag to all member lines.
func (a *AggregatedEntry) SetPushed(v bool) {
	for _, m := range a.members {
		m.SetPushed(v)
	}
}

type regroupKey struct {
	alias       string
	description string
	ignored     bool
}

// regroup folds entries into aggregates keyed by alias, description and
// ignored state, preserving first-occurrence order.
func regroup(entries []Entry) []Entry {
	groups := make(map[regroupKey]*AggregatedEntry)
	var order []regroupKey

	for _, e := range entries {
		key := regroupKey{alias: e.Alias(), description: e.Description(), ignored: e.Ignored()}
		agg, ok := groups[key]
		if !ok {
			agg = &AggregatedEntry{
				alias:       key.alias,
				description: key.description,
				ignored:     key.ignored,
			}
			groups[key] = agg
			order = append(order, key)
		}
		agg.hours += e.Hours()
		switch e := e.(type) {
		case *EntryLine:
			agg.members = append(agg.members, e)
		case *AggregatedEntry:
			agg.members = append(agg.members, e.members...)
		}
	}

	out := make([]Entry, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}
