package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver is the test double for the alias database.
type mapResolver map[string]bool

func (r mapResolver) IsMapped(alias string) bool { return r[alias] }

func testResolver() mapResolver {
	return mapResolver{"foo": true, "bar": true}
}

func mustTimesheet(t *testing.T, text string) *Timesheet {
	t.Helper()
	c, err := NewEntriesCollection(text)
	require.NoError(t, err)
	return NewTimesheet(c, testResolver())
}

func TestEmptyTimesheet(t *testing.T) {
	ts := NewTimesheet(nil, nil)
	assert.Equal(t, 0, ts.Entries.Len())
	assert.Empty(t, ts.GetEntries(Filter{}))
}

func TestGetEntriesSingleDate(t *testing.T) {
	ts := mustTimesheet(t, "10.10.2014\nfoo 2 bar\n11.10.2014\nfoo 1 bar")

	sections := ts.GetEntries(Filter{Date: date(2014, time.October, 10)})
	require.Len(t, sections, 1)
	assert.Equal(t, date(2014, time.October, 10), sections[0].Date)
	require.Len(t, sections[0].Entries, 1)
	assert.Equal(t, 2.0, sections[0].Entries[0].Hours())
}

func TestGetEntriesExcludesUnmapped(t *testing.T) {
	ts := mustTimesheet(t, "10.10.2012\nbaz 2 Foo")
	sections := ts.GetEntries(Filter{ExcludeUnmapped: true})
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Entries)

	ts = mustTimesheet(t, "10.10.2012\nfoo 2 Foo")
	sections = ts.GetEntries(Filter{ExcludeUnmapped: true})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 1)
}

func TestGetEntriesExcludesIgnored(t *testing.T) {
	ts := mustTimesheet(t, "10.10.2012\n? foo 2 Foo")
	sections := ts.GetEntries(Filter{ExcludeIgnored: true})
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Entries)

	ts = mustTimesheet(t, "10.10.2012\nfoo 2 Foo")
	sections = ts.GetEntries(Filter{ExcludeIgnored: true})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 1)
}

func TestGetEntriesExcludesPushed(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\n= bar 0900-1000 bar\nfoo 1 bar")
	sections := ts.GetEntries(Filter{ExcludePushed: true})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 2)
}

func TestRegroupKeepsDistinctAliases(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nbar 2 bar")
	sections := ts.GetEntries(Filter{Regroup: true})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 2)
}

func TestRegroupKeepsDistinctDescriptions(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nfoo 2 baz")
	sections := ts.GetEntries(Filter{Regroup: true})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 2)
}

func TestRegroupMergesSameAliasAndDescription(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nfoo 3 bar\nbar 1 barz")
	sections := ts.GetEntries(Filter{Regroup: true})
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Entries, 2)
	assert.Equal(t, 5.0, sections[0].Entries[0].Hours())
}

func TestRegroupSumsRangesAndFixedHours(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nfoo 0900-1000 bar")
	sections := ts.GetEntries(Filter{Regroup: true})
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Entries, 1)
	assert.Equal(t, 3.0, sections[0].Entries[0].Hours())
}

func TestRegroupSeparatesIgnoredEntries(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\n? foo 3 test")
	sections := ts.GetEntries(Filter{Regroup: true})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 2)
}

func TestRegroupWithPartialTimes(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nfoo 0800-0900 bar\nbar -1000 bar\nfoo -1100 bar")
	sections := ts.GetEntries(Filter{Date: date(2013, time.April, 1), Regroup: true})
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Entries, 2)
	assert.Equal(t, 4.0, sections[0].Entries[0].Hours())
}

func TestRegroupIsIdempotent(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nfoo 3 bar\nbar 1 barz")

	first := ts.GetEntries(Filter{Regroup: true})
	second := ts.GetEntries(Filter{Regroup: true})
	require.Len(t, second, len(first))
	for i := range first {
		require.Len(t, second[i].Entries, len(first[i].Entries))
		for j := range first[i].Entries {
			assert.Equal(t, first[i].Entries[j].Alias(), second[i].Entries[j].Alias())
			assert.Equal(t, first[i].Entries[j].Hours(), second[i].Entries[j].Hours())
		}
	}
}

func TestPushedFlagShowsUpInLines(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nbar 0900-1000 bar\n31.03.2013\nfoo 1 bar")

	sections := ts.GetEntries(Filter{Date: date(2013, time.April, 1)})
	require.Len(t, sections, 1)
	for _, entry := range sections[0].Entries {
		entry.SetPushed(true)
	}

	assert.Equal(t, []string{
		"01.04.2013",
		"= foo 2 bar",
		"= bar 0900-1000 bar",
		"31.03.2013",
		"foo 1 bar",
	}, ts.Entries.ToLines())
}

func TestPushedFlagOnAggregatePropagates(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\nbar 0900-1000 bar\nfoo 1 bar")

	sections := ts.GetEntries(Filter{Date: date(2013, time.April, 1), Regroup: true})
	require.Len(t, sections, 1)
	for _, entry := range sections[0].Entries {
		entry.SetPushed(true)
	}

	assert.Equal(t, []string{
		"01.04.2013",
		"= foo 2 bar",
		"= bar 0900-1000 bar",
		"= foo 1 bar",
	}, ts.Entries.ToLines())
}

func TestTotalHoursSkipsIgnored(t *testing.T) {
	ts := mustTimesheet(t, "01.04.2013\nfoo 2 bar\n? foo 3 secret\nbar 0900-1030 bar")
	assert.Equal(t, 3.5, ts.TotalHours(Filter{}))
}

func TestNonCurrentWorkdayEntries(t *testing.T) {
	ts := mustTimesheet(t, "01.01.2014\nfoo 2 bar")

	// 2014-01-02 was a Thursday; Jan 1 is its previous working day.
	ts.Now = func() time.Time { return date(2014, time.January, 2) }
	assert.Empty(t, ts.NonCurrentWorkdayEntries())

	ts.Now = func() time.Time { return date(2014, time.January, 3) }
	sections := ts.NonCurrentWorkdayEntries()
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Entries, 1)
}

func TestNonCurrentWorkdayEntriesSkipsIgnored(t *testing.T) {
	ts := mustTimesheet(t, "04.01.2014\n? foo 2 bar")
	ts.Now = func() time.Time { return date(2014, time.January, 6) }
	assert.Empty(t, ts.NonCurrentWorkdayEntries())
}
