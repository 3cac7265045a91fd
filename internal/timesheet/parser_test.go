package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func tod(t *testing.T, hour, minute int) TimeOfDay {
	t.Helper()
	v, err := NewTimeOfDay(hour, minute)
	require.NoError(t, err)
	return v
}

func TestExtractDate(t *testing.T) {
	cases := []struct {
		line string
		want time.Time
	}{
		{"1.1.2010", date(2010, time.January, 1)},
		{"05/08/2012", date(2012, time.August, 5)},
		{"2013/08/09", date(2013, time.August, 9)},
		{"31.03.2013", date(2013, time.March, 31)},
	}
	for _, tc := range cases {
		got, ok := ExtractDate(tc.line)
		require.True(t, ok, "expected a date in %q", tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}
}

func TestExtractDateShortYear(t *testing.T) {
	got, ok := ExtractDate("05/08/12")
	require.True(t, ok)

	current := time.Now().Year()
	assert.Equal(t, date(current-current%1000+12, time.August, 5), got)
}

func TestExtractDateRejectsNonDates(t *testing.T) {
	for _, line := range []string{
		"foobar",
		"05/08",
		"05.082012",
		"05082012",
		"2012/0801",
		"99.99.2013",
	} {
		_, ok := ExtractDate(line)
		assert.False(t, ok, "should not extract a date from %q", line)
	}
}

func TestParseTimeValues(t *testing.T) {
	got, err := parseTime("0900")
	require.NoError(t, err)
	assert.Equal(t, tod(t, 9, 0), got)

	got, err = parseTime("945")
	require.NoError(t, err)
	assert.Equal(t, tod(t, 9, 45), got)

	got, err = parseTime("10:15")
	require.NoError(t, err)
	assert.Equal(t, tod(t, 10, 15), got)
}

func TestParseTimeErrors(t *testing.T) {
	for _, s := range []string{"foo", "09", "2500", "1061", ""} {
		_, err := parseTime(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestParseEntryLineTimespan(t *testing.T) {
	entry, err := ParseEntryLine("foo 0900-1015 Description")
	require.NoError(t, err)

	d := entry.Duration()
	require.True(t, d.IsRange())
	assert.Equal(t, tod(t, 9, 0), *d.Start())
	assert.Equal(t, tod(t, 10, 15), *d.End())
}

func TestParseEntryLineTimespanWithSeparators(t *testing.T) {
	entry, err := ParseEntryLine("foo 09:00-10:15 Description")
	require.NoError(t, err)

	d := entry.Duration()
	assert.Equal(t, tod(t, 9, 0), *d.Start())
	assert.Equal(t, tod(t, 10, 15), *d.End())
}

func TestParseEntryLineOpenEnd(t *testing.T) {
	entry, err := ParseEntryLine("foo 09:00-? Description")
	require.NoError(t, err)

	d := entry.Duration()
	assert.Equal(t, tod(t, 9, 0), *d.Start())
	assert.Nil(t, d.End())
}

func TestParseEntryLineOpenStart(t *testing.T) {
	entry, err := ParseEntryLine("foo -10:15 Description")
	require.NoError(t, err)

	d := entry.Duration()
	assert.Nil(t, d.Start())
	assert.Equal(t, tod(t, 10, 15), *d.End())
}

func TestParseEntryLineFlagsToken(t *testing.T) {
	entry, err := ParseEntryLine("? foo 2 bar")
	require.NoError(t, err)

	assert.Equal(t, "foo", entry.Alias())
	assert.True(t, entry.Ignored())
	assert.False(t, entry.Pushed())
}

func TestParseEntryLinePushedFlag(t *testing.T) {
	entry, err := ParseEntryLine("= foo 2 bar")
	require.NoError(t, err)

	assert.True(t, entry.Pushed())
	assert.False(t, entry.Ignored())
}

func TestParseEntryLineAliasQuestionMarkFallback(t *testing.T) {
	entry, err := ParseEntryLine("foo? 2 bar")
	require.NoError(t, err)

	assert.Equal(t, "foo", entry.Alias())
	assert.True(t, entry.Ignored())
}

func TestParseEntryLineOutOfRangeTime(t *testing.T) {
	_, err := ParseEntryLine("foo 2500-2600 bar")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "hh:mm or hhmm")
}

func TestParseFullTimesheet(t *testing.T) {
	contents := `01.01.13

foobar 0900-1000 baz
# comment
foo -1100 bar

2013/09/23
bar 10:00-? ?
? foo 2 foobar`

	lines, err := Parse(contents)
	require.NoError(t, err)
	require.Len(t, lines, 9)

	header, ok := lines[0].(*DateLine)
	require.True(t, ok)
	current := time.Now().Year()
	assert.Equal(t, date(current-current%1000+13, time.January, 1), header.Date())

	assert.IsType(t, &TextLine{}, lines[1])
	assert.Equal(t, "", lines[1].Text())

	entry, ok := lines[2].(*EntryLine)
	require.True(t, ok)
	assert.Equal(t, "foobar", entry.Alias())
	assert.Equal(t, "baz", entry.Description())
	assert.Equal(t, tod(t, 9, 0), *entry.Duration().Start())
	assert.Equal(t, tod(t, 10, 0), *entry.Duration().End())

	assert.Equal(t, "# comment", lines[3].Text())

	entry, ok = lines[4].(*EntryLine)
	require.True(t, ok)
	assert.Equal(t, "foo", entry.Alias())
	assert.Nil(t, entry.Duration().Start())
	assert.Equal(t, tod(t, 11, 0), *entry.Duration().End())

	header, ok = lines[6].(*DateLine)
	require.True(t, ok)
	assert.Equal(t, date(2013, time.September, 23), header.Date())

	entry, ok = lines[7].(*EntryLine)
	require.True(t, ok)
	assert.Equal(t, tod(t, 10, 0), *entry.Duration().Start())
	assert.Nil(t, entry.Duration().End())

	entry, ok = lines[8].(*EntryLine)
	require.True(t, ok)
	assert.Equal(t, "foo", entry.Alias())
	assert.True(t, entry.Ignored())
}

func TestParseDurationValues(t *testing.T) {
	lines, err := Parse("10.10.2012\nfoo 1.25 baz")
	require.NoError(t, err)
	entry := lines[1].(*EntryLine)
	assert.False(t, entry.Duration().IsRange())
	assert.Equal(t, 1.25, entry.Duration().Fixed())

	// Three digits without a dash are plain hours, not a start time.
	lines, err = Parse("10.10.2012\nfoo 100 baz")
	require.NoError(t, err)
	entry = lines[1].(*EntryLine)
	assert.Equal(t, 100.0, entry.Duration().Fixed())
}

func TestParseEmpty(t *testing.T) {
	lines, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = Parse("\n\n")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseStripsSurroundingBlankLines(t *testing.T) {
	lines, err := Parse("\n\n10.01.2013\n\nfoobar 0900-1000 baz\n\n")
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestParseEntryBeforeDateSection(t *testing.T) {
	_, err := Parse("my_alias_1 1 foo bar\n11.10.2013\nmy_alias 2 foo")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.LineNumber)
	assert.Contains(t, perr.Message, "inside a date section")

	// A leading comment is fine.
	lines, err := Parse("# comment\n11.10.2013\nmy_alias 2 foo")
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestParseInvalidEntryLine(t *testing.T) {
	_, err := Parse("10.01.2013\nfoobar 0900-1000 baz\nfoo")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.LineNumber)
	assert.Equal(t, "foo", perr.Line)
	assert.Contains(t, perr.Message, "alias, a duration and a description")
}

func TestParseErrorFormatting(t *testing.T) {
	err := &ParseError{Message: "boom", Line: "bad line", LineNumber: 4}
	assert.Equal(t, "Parse error at line 4: boom. The line causing the error was:\n\nbad line", err.Error())

	err.File = "june.tks"
	assert.Equal(t, "Parse error in june.tks at line 4: boom. The line causing the error was:\n\nbad line", err.Error())

	assert.False(t, errors.Is(err, ErrUnknownDirection))
}

func TestParseTabsExpandToSpaces(t *testing.T) {
	lines, err := Parse("10.01.2013\nfoo\t2\tbar")
	require.NoError(t, err)
	entry := lines[1].(*EntryLine)
	assert.Equal(t, "foo    2    bar", entry.Text())
}
