package timesheet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCollection(t *testing.T, text string) *EntriesCollection {
	t.Helper()
	c, err := NewEntriesCollection(text)
	require.NoError(t, err)
	return c
}

func TestEmptyCollection(t *testing.T) {
	c := mustCollection(t, "")
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.ToLines())
}

func TestCollectionIndexesEntriesByDate(t *testing.T) {
	c := mustCollection(t, "10.10.2014\nfoo 2 bar\n11.10.2014\nfoo 1 bar")
	assert.Equal(t, 2, c.Len())

	entries := c.Entries(date(2014, time.October, 10))
	require.Len(t, entries, 1)
	assert.Equal(t, "foo", entries[0].Alias())
	assert.Equal(t, 2.0, entries[0].Hours())
}

func TestRoundTrip(t *testing.T) {
	contents := strings.Join([]string{
		"10.10.2012",
		"foo 09:00-10:00 baz",
		"bar      -11:00 foobar",
	}, "\n")

	c := mustCollection(t, contents)
	assert.Equal(t, strings.Split(contents, "\n"), c.ToLines())
}

func TestRoundTripKeepsCommentsAndBlanks(t *testing.T) {
	contents := strings.Join([]string{
		"01.04.2013",
		"",
		"# morning",
		"foo 2 bar",
		"bar 0900-1000 bar",
		"31.03.2013",
		"foo 1 bar",
	}, "\n")

	c := mustCollection(t, contents)
	assert.Equal(t, strings.Split(contents, "\n"), c.ToLines())
}

func TestStartTimeInheritedFromPreviousEntry(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 0900-1000 baz\nbar     -1100 bar")

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 2)

	d := entries[1].Duration()
	require.NotNil(t, d.Start())
	assert.Equal(t, tod(t, 10, 0), *d.Start())
	assert.Equal(t, 1.0, entries[1].Hours())
	assert.False(t, entries[1].Ignored())
}

func TestStartTimeInheritanceChains(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 0900-1000 baz\nbar     -1100 bar\nfoo     -1300 bar")

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 3)
	require.NotNil(t, entries[2].Duration().Start())
	assert.Equal(t, tod(t, 11, 0), *entries[2].Duration().Start())
	assert.Equal(t, 2.0, entries[2].Hours())
}

func TestStartTimeAfterFixedDurationIsIgnored(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 0900-1000 baz\nbar 2 bar\nfoo     -1200 bar")

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 3)
	assert.Nil(t, entries[2].Duration().Start())
	assert.True(t, entries[2].Ignored())
}

func TestStartTimeWithoutPredecessorIsIgnored(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo -1000 baz")

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Ignored())
}

func TestStartTimeAfterOpenEndedEntryIsIgnored(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 0900-1000 baz\nbar 1000-? bar\nfoo     -1200 bar")

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 3)
	assert.True(t, entries[2].Ignored())
}

func TestOpenEndedEntryIsIgnoredButSerialized(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 1400-? Foo")

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Ignored())

	assert.Equal(t, []string{"10.10.2012", "foo 1400-? Foo"}, c.ToLines())
}

func TestAddEntryToExistingDate(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 0900-1000 baz")

	start := tod(t, 10, 0)
	c.Add(date(2012, time.October, 10), NewEntryLine("baz", NewRange(&start, nil), "baz"))

	assert.Equal(t, []string{
		"10.10.2012",
		"foo 0900-1000 baz",
		"baz 10:00-? baz",
	}, c.ToLines())
}

func TestAddEntryToNewDateAtBottom(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 09:00-10:00 baz\nbar      -11:00 foobar")
	c.AddDateToBottom = true

	start := tod(t, 15, 0)
	c.Add(date(2012, time.September, 29), NewEntryLine("foo", NewRange(&start, nil), "bar"))

	assert.Equal(t, []string{
		"10.10.2012",
		"foo 09:00-10:00 baz",
		"bar      -11:00 foobar",
		"",
		"29.09.2012",
		"",
		"foo 15:00-? bar",
	}, c.ToLines())
}

func TestAddEntryInheritsStartFromSectionTail(t *testing.T) {
	c := mustCollection(t, "10.10.2012\nfoo 0900-1000 baz")

	end := tod(t, 11, 0)
	c.Add(date(2012, time.October, 10), NewEntryLine("bar", NewRange(nil, &end), "tail"))

	entries := c.Entries(date(2012, time.October, 10))
	require.Len(t, entries, 2)
	require.NotNil(t, entries[1].Duration().Start())
	assert.Equal(t, tod(t, 10, 0), *entries[1].Duration().Start())
}

func TestAddDateToBottom(t *testing.T) {
	c := mustCollection(t, "")
	c.AddDateToBottom = true

	c.AddDate(date(2013, time.January, 1))
	c.AddDate(date(2013, time.January, 2))

	assert.Equal(t, []string{"01.01.2013", "", "02.01.2013"}, c.ToLines())
}

func TestAddDateToTop(t *testing.T) {
	c := mustCollection(t, "")

	c.AddDate(date(2013, time.January, 1))
	c.AddDate(date(2013, time.January, 2))

	assert.Equal(t, []string{"02.01.2013", "", "01.01.2013"}, c.ToLines())
}

func TestIsTopDown(t *testing.T) {
	c := mustCollection(t, "31.03.2013\nfoo 2 bar\nbar 0900-1000 bar\n01.04.2013\nfoo 1 bar")
	topDown, err := c.IsTopDown()
	require.NoError(t, err)
	assert.True(t, topDown)

	c = mustCollection(t, "01.04.2013\nfoo 2 bar\nbar 0900-1000 bar\n31.03.2013\nfoo 1 bar")
	topDown, err = c.IsTopDown()
	require.NoError(t, err)
	assert.False(t, topDown)
}

func TestIsTopDownWithoutEntries(t *testing.T) {
	c := mustCollection(t, "01.04.2013\n31.03.2013")
	topDown, err := c.IsTopDown()
	require.NoError(t, err)
	assert.False(t, topDown)
}

func TestIsTopDownSingleDateFails(t *testing.T) {
	c := mustCollection(t, "31.03.2013\nfoo 2 bar\nbar 0900-1000 bar")
	_, err := c.IsTopDown()
	assert.ErrorIs(t, err, ErrUnknownDirection)
}
