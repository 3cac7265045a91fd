package timesheet

import (
	"errors"
	"fmt"
)

// ErrUnknownDirection is returned when the section ordering of a
// timesheet cannot be inferred because it has fewer than two distinct
// date headers.
var ErrUnknownDirection = errors.New("cannot determine direction from a single date section")

// ParseError is a fatal, structural parse failure. It carries the
// 1-based line number and the offending raw line for user display.
type ParseError struct {
	Message    string
	Line       string
	LineNumber int
	File       string
}

func (e *ParseError) Error() string {
	var msg string
	switch {
	case e.LineNumber > 0 && e.File != "":
		msg = fmt.Sprintf("Parse error in %s at line %d: %s.", e.File, e.LineNumber, e.Message)
	case e.LineNumber > 0:
		msg = fmt.Sprintf("Parse error at line %d: %s.", e.LineNumber, e.Message)
	default:
		msg = e.Message
	}

	if e.Line != "" {
		msg += fmt.Sprintf(" The line causing the error was:\n\n%s", e.Line)
	}
	return msg
}
