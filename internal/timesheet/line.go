package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the format used when a date header has to be synthesized.
const dateLayout = "02.01.2006"

// Line is a single physical line of a timesheet file. Text returns the
// exact text to write back, which for unmodified lines is the original
// source text verbatim.
type Line interface {
	Text() string
}

// TextLine is a blank or comment line. It carries no meaning beyond its
// raw text, which is preserved as-is on output.
type TextLine struct {
	text string
}

// NewTextLine wraps raw text as a blank/comment line.
func NewTextLine(text string) *TextLine {
	return &TextLine{text: text}
}

func (l *TextLine) Text() string {
	return l.text
}

// DateLine opens a date section. The original text is kept so headers
// round-trip unchanged regardless of which date format they used.
type DateLine struct {
	date time.Time
	text string
}

// NewDateLine creates a header for date, rendering it as dd.mm.yyyy.
func NewDateLine(date time.Time) *DateLine {
	return &DateLine{date: date, text: date.Format(dateLayout)}
}

func newDateLineFromText(date time.Time, text string) *DateLine {
	return &DateLine{date: date, text: text}
}

// Date returns the calendar date this header opens.
func (l *DateLine) Date() time.Time {
	return l.date
}

func (l *DateLine) Text() string {
	return l.text
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay validates hour and minute instead of wrapping them.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute %d out of range", minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// minutes returns the offset from midnight.
func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Duration is either a fixed number of hours or a start-end time range.
// A range never has both bounds absent; the parser guarantees at least
// one side of the dash was present.
type Duration struct {
	isRange bool
	fixed   float64
	start   *TimeOfDay
	end     *TimeOfDay
}

// FixedHours builds a fixed-hours duration.
func FixedHours(hours float64) Duration {
	return Duration{fixed: hours}
}

// NewRange builds a time-range duration. Either bound may be nil: a nil
// start means "continues from the previous entry", a nil end means
// "still in progress".
func NewRange(start, end *TimeOfDay) Duration {
	return Duration{isRange: true, start: start, end: end}
}

func (d Duration) IsRange() bool { return d.isRange }

// Fixed returns the fixed hour value; zero for ranges.
func (d Duration) Fixed() float64 { return d.fixed }

func (d Duration) Start() *TimeOfDay { return d.start }
func (d Duration) End() *TimeOfDay   { return d.end }

// Hours computes the numeric hour value of the duration. A range with a
// missing bound contributes zero, which marks the entry as ignored for
// aggregation purposes.
func (d Duration) Hours() float64 {
	if !d.isRange {
		return d.fixed
	}
	if d.start == nil || d.end == nil {
		return 0
	}
	return float64(d.end.minutes()-d.start.minutes()) / 60
}

// String renders the duration the way it is written in the timesheet:
// "hh:mm-hh:mm" for ranges (empty start, "?" end when absent) and a
// plain decimal for fixed hours.
func (d Duration) String() string {
	if !d.isRange {
		return strconv.FormatFloat(d.fixed, 'f', -1, 64)
	}
	start := ""
	if d.start != nil {
		start = d.start.String()
	}
	end := "?"
	if d.end != nil {
		end = d.end.String()
	}
	return start + "-" + end
}

// Flag marks an entry as ignored and/or already pushed.
type Flag uint8

const (
	// FlagIgnored excludes the entry from totals and pushes.
	FlagIgnored Flag = 1 << iota
	// FlagPushed records that the entry was already synced to a backend.
	FlagPushed
)

// Positions of the logical fields inside the token tuple. Odd positions
// hold the spacing between fields.
const (
	tokFlags = iota
	tokSpacing1
	tokAlias
	tokSpacing2
	tokTime
	tokSpacing3
	tokDescription
	tokenCount
)

// Dirty bits for the tracked attributes.
const (
	dirtyFlags uint8 = 1 << iota
	dirtyAlias
	dirtyDuration
	dirtyDescription
)

// EntryLine is a timesheet entry: an alias, a duration and a description,
// optionally preceded by a flags token. The original tokens, spacing
// included, are kept so that untouched attributes regenerate the exact
// source text; a mutated attribute is re-rendered in place and only the
// spacer before it is recomputed.
type EntryLine struct {
	alias       string
	duration    Duration
	description string
	flags       Flag

	tokens [tokenCount]string
	dirty  uint8
}

// NewEntryLine builds an entry that was never read from a file. Its text
// is synthesized with single spaces between fields.
func NewEntryLine(alias string, duration Duration, description string) *EntryLine {
	return &EntryLine{
		alias:       alias,
		duration:    duration,
		description: description,
		tokens: [tokenCount]string{
			"", "", alias, " ", duration.String(), " ", description,
		},
	}
}

func newEntryLineFromTokens(alias string, duration Duration, description string, flags Flag, tokens [tokenCount]string) *EntryLine {
	return &EntryLine{
		alias:       alias,
		duration:    duration,
		description: description,
		flags:       flags,
		tokens:      tokens,
	}
}

func (e *EntryLine) Alias() string       { return e.alias }
func (e *EntryLine) Duration() Duration  { return e.duration }
func (e *EntryLine) Description() string { return e.description }

// Hours returns the numeric hour value used for totals.
func (e *EntryLine) Hours() float64 {
	return e.duration.Hours()
}

// Ignored reports whether the entry is excluded from totals and pushes.
// Beyond the explicit flag, an entry degrades to ignored when it has no
// usable description or its duration computes to zero hours (open-ended
// ranges, unresolved start times, explicit zero durations).
func (e *EntryLine) Ignored() bool {
	if e.flags&FlagIgnored != 0 {
		return true
	}
	if e.description == "" || e.description == "?" {
		return true
	}
	return e.Hours() == 0
}

// Pushed reports whether the entry carries the pushed flag.
func (e *EntryLine) Pushed() bool {
	return e.flags&FlagPushed != 0
}

func (e *EntryLine) SetAlias(alias string) {
	e.alias = alias
	e.dirty |= dirtyAlias
}

func (e *EntryLine) SetDuration(duration Duration) {
	e.duration = duration
	e.dirty |= dirtyDuration
}

func (e *EntryLine) SetDescription(description string) {
	e.description = description
	e.dirty |= dirtyDescription
}

// SetIgnored toggles the ignored flag. The flags token is re-rendered on
// the next Text call.
func (e *EntryLine) SetIgnored(v bool) {
	e.setFlag(FlagIgnored, v)
}

// SetPushed toggles the pushed flag.
func (e *EntryLine) SetPushed(v bool) {
	e.setFlag(FlagPushed, v)
}

func (e *EntryLine) setFlag(f Flag, v bool) {
	if v {
		e.flags |= f
	} else {
		e.flags &^= f
	}
	e.dirty |= dirtyFlags
}

// flagsText renders the flag set in deterministic order: "?" then "=".
func (e *EntryLine) flagsText() string {
	var b strings.Builder
	if e.flags&FlagIgnored != 0 {
		b.WriteByte('?')
	}
	if e.flags&FlagPushed != 0 {
		b.WriteByte('=')
	}
	return b.String()
}

func (e *EntryLine) fieldDirty(pos int) bool {
	switch pos {
	case tokFlags:
		return e.dirty&dirtyFlags != 0
	case tokAlias:
		return e.dirty&dirtyAlias != 0
	case tokTime:
		return e.dirty&dirtyDuration != 0
	case tokDescription:
		return e.dirty&dirtyDescription != 0
	}
	return false
}

func (e *EntryLine) renderField(pos int) string {
	switch pos {
	case tokFlags:
		return e.flagsText()
	case tokAlias:
		return e.alias
	case tokTime:
		return e.duration.String()
	case tokDescription:
		return e.description
	}
	return ""
}

// Text walks the original token tuple positionally, substituting changed
// fields with their fresh rendering. The spacer before a substituted
// field shrinks or grows by the field's length delta but never below a
// single space, so untouched columns keep their alignment.
func (e *EntryLine) Text() string {
	var out [tokenCount]string

	for i := 0; i < tokenCount; i++ {
		switch i {
		case tokFlags, tokAlias, tokTime, tokDescription:
			if e.fieldDirty(i) {
				out[i] = e.renderField(i)
			} else {
				out[i] = e.tokens[i]
			}
		case tokSpacing1:
			// The flags spacer exists only when a flags token does.
			if e.dirty&dirtyFlags != 0 {
				if out[tokFlags] == "" {
					out[i] = ""
				} else {
					out[i] = " "
				}
			} else {
				out[i] = e.tokens[i]
			}
		default:
			if len(out[i-1]) != len(e.tokens[i-1]) {
				pad := len(e.tokens[i]) - (len(out[i-1]) - len(e.tokens[i-1]))
				if pad < 1 {
					pad = 1
				}
				out[i] = strings.Repeat(" ", pad)
			} else {
				out[i] = e.tokens[i]
			}
		}
	}

	return out[0] + out[1] + out[2] + out[3] + out[4] + out[5] + out[6]
}
