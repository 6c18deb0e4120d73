package tempus

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

var (
	// ErrInvalidDate is returned when calendar fields do not name a date in
	// the supported range, or a date accessor is called on a sentinel.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidDaytime is returned for out-of-range time-of-day fields, or
	// when a daytime accessor is called on a sentinel.
	ErrInvalidDaytime = errors.New("invalid daytime")
	// ErrInvalidTime is returned when a time accessor is called on a sentinel.
	ErrInvalidTime = errors.New("invalid time")
	// ErrRange is the kind of every *RangeError.
	ErrRange = errors.New("out of range")
	// ErrUnknownZone is the kind of every *ZoneError.
	ErrUnknownZone = errors.New("unknown time zone")
	// ErrNoTimeZone is returned by the parser when the input carries no zone
	// and no default zone was configured.
	ErrNoTimeZone = errors.New("no time zone")
	// ErrNonexistentLocalTime is returned when a local date and daytime fall
	// into a gap skipped by a zone transition.
	ErrNonexistentLocalTime = errors.New("nonexistent local time")
	// ErrUnsupportedOperand is returned for structurally invalid arithmetic,
	// such as subtracting a date or time from a plain number.
	ErrUnsupportedOperand = errors.New("unsupported operand")
)

// RangeError reports arithmetic or a cast whose result does not fit the
// target representation.
type RangeError struct {
	// Op names the operation, e.g. "add" or "cast".
	Op string
	// Type is the name of the target type.
	Type string
	// Operand is the value that could not be represented.
	Operand string
}

func newRangeError(op, typ, operand string) *RangeError {
	return &RangeError{Op: op, Type: typ, Operand: operand}
}

// SafeFormat implements redact.SafeFormatter.
func (e *RangeError) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s: %s out of range for %s", redact.Safe(e.Op), e.Operand, redact.Safe(e.Type))
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return redact.Sprint(e).StripMarkers()
}

// Unwrap makes errors.Is(err, ErrRange) hold.
func (e *RangeError) Unwrap() error {
	return ErrRange
}

var _ error = (*RangeError)(nil)

// ZoneError reports a time zone identifier that could not be resolved.
type ZoneError struct {
	Name string
}

// SafeFormat implements redact.SafeFormatter.
func (e *ZoneError) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("unknown time zone %q", e.Name)
}

// Error implements the error interface.
func (e *ZoneError) Error() string {
	return redact.Sprint(e).StripMarkers()
}

// Unwrap makes errors.Is(err, ErrUnknownZone) hold.
func (e *ZoneError) Unwrap() error {
	return ErrUnknownZone
}

var _ error = (*ZoneError)(nil)

// ParseError is an error that appears during parsing.
type ParseError struct {
	Description string
	Idx         int

	cause error
}

// NewParseError returns a ParseError with the given fields.
func NewParseError(idx int, description string) *ParseError {
	return &ParseError{Description: description, Idx: idx}
}

// NewParseErrorf returns a ParseError with the given fields.
func NewParseErrorf(idx int, descriptionf string, args ...interface{}) *ParseError {
	return &ParseError{Description: fmt.Sprintf(descriptionf, args...), Idx: idx}
}

func wrapParseError(cause error, idx int, description string) *ParseError {
	return &ParseError{Description: description, Idx: idx, cause: cause}
}

// SafeFormat implements redact.SafeFormatter.
func (pe *ParseError) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("error parsing datetime at index %d: %s", redact.Safe(pe.Idx), pe.Description)
}

// Error implements the error interface.
func (pe *ParseError) Error() string {
	return redact.Sprint(pe).StripMarkers()
}

// Unwrap returns the construction error that caused the parse to fail, if
// any.
func (pe *ParseError) Unwrap() error {
	return pe.cause
}

var _ error = (*ParseError)(nil)
