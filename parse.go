package tempus

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseOptions configures ParseTime and its variants.
type ParseOptions struct {
	// DefaultZone applies when the input carries no zone. If nil, such input
	// fails with ErrNoTimeZone.
	DefaultZone TimeZone
	// Resolver resolves names read by %Z. If nil, OffsetResolver is used.
	Resolver Resolver
	// Ambiguity picks the instant of a local time repeated by a zone
	// transition.
	Ambiguity Ambiguity
}

var monthNames = [...]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var weekdayNames = [...]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// isoDateTime is the date and time part of %i and %T.
var isoDateTime = func() []token {
	tokens, err := tokenizeFormat("%Y-%m-%dT%H:%M:%S")
	if err != nil {
		panic(err)
	}
	return tokens
}()

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// isLetter reports whether b is an ASCII letter. Bytes of multi-byte UTF-8
// sequences are not letters.
func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isZoneNameChar(b byte) bool {
	return isLetter(b) || isDigit(b) || strings.IndexByte("/_+-:", b) >= 0
}

type decodeState struct {
	seen                      Component
	year, month, day, ordinal int
	weekday                   Weekday
	hour, minute, second      int
	// fraction holds the digits after the decimal point of the second.
	fraction string
	pm       bool
	zone                      TimeZone

	// dateIdx and timeIdx are the input positions of the first date and
	// time fields; ampmIdx is the position of the AM/PM marker.
	dateIdx, timeIdx, ampmIdx int

	resolver Resolver
	in       string
	i        int
}

func (s *decodeState) hasSeen(c Component) bool {
	return (s.seen & c) == c
}

// markSeen records c as read at the current position. Each field may be set
// once.
func (s *decodeState) markSeen(c Component) error {
	if s.seen&c != 0 {
		return NewParseErrorf(s.i, "duplicate field at %q", s.remaining())
	}
	const dateFields = ComponentDateMask | ComponentDOY | ComponentDOW
	const timeFields = ComponentTimeMask | ComponentHour12 | ComponentAMPM
	if c&dateFields != 0 && s.seen&dateFields == 0 {
		s.dateIdx = s.i
	}
	if c&timeFields != 0 && s.seen&timeFields == 0 {
		s.timeIdx = s.i
	}
	s.seen |= c
	return nil
}

// remaining returns the unread input, shortened for error messages.
func (s *decodeState) remaining() string {
	const maxLen = 16
	r := s.in[s.i:]
	if len(r) > maxLen {
		r = r[:maxLen] + "..."
	}
	return r
}

func (s *decodeState) advanceWhen(f func(b byte) bool) {
	for s.i < len(s.in) && f(s.in[s.i]) {
		s.i++
	}
}

// readDigits reads between minN and maxN decimal digits.
func (s *decodeState) readDigits(minN, maxN int) (int, error) {
	start := s.i
	for s.i < len(s.in) && s.i-start < maxN && isDigit(s.in[s.i]) {
		s.i++
	}
	if s.i-start < minN {
		if s.i == len(s.in) {
			return 0, NewParseErrorf(start, "expected digits, found end of input")
		}
		return 0, NewParseErrorf(start, "expected digits, found %q", s.remaining())
	}
	ret, err := strconv.ParseInt(s.in[start:s.i], 10, 64)
	if err != nil {
		return 0, NewParseErrorf(start, "error parsing digits: %s", err.Error())
	}
	return int(ret), nil
}

func (s *decodeState) readLetters() (string, error) {
	start := s.i
	s.advanceWhen(isLetter)
	if s.i == start {
		return "", NewParseErrorf(start, "expected letters, found %q", s.remaining())
	}
	return strings.ToLower(s.in[start:s.i]), nil
}

// readName reads a word and returns its index among names, matching either
// the full name or its three-letter abbreviation.
func (s *decodeState) readName(names []string, what string) (int, error) {
	start := s.i
	w, err := s.readLetters()
	if err != nil {
		return 0, err
	}
	for i, n := range names {
		if w == n || w == n[:3] {
			return i, nil
		}
	}
	return 0, NewParseErrorf(start, "unknown %s: %s", what, s.in[start:s.i])
}

func (s *decodeState) decodeFractionalSecond() error {
	if s.i == len(s.in) || s.in[s.i] != '.' {
		return nil
	}
	start := s.i
	s.i++
	s.advanceWhen(isDigit)
	if s.i == start+1 {
		return NewParseError(start, "expected fractional second, found empty string")
	}
	s.fraction = s.in[start+1 : s.i]
	return nil
}

// decodeNumericOffset reads a signed offset in the form HH:MM, or HHMM, and
// returns it in seconds east of UTC.
func (s *decodeState) decodeNumericOffset(colon, compact bool) (int, error) {
	start := s.i
	if s.i == len(s.in) || (s.in[s.i] != '+' && s.in[s.i] != '-') {
		return 0, NewParseErrorf(start, "expected + or -, found %q", s.remaining())
	}
	sign := 1
	if s.in[s.i] == '-' {
		sign = -1
	}
	s.i++
	h, err := s.readDigits(2, 2)
	if err != nil {
		return 0, err
	}
	hasColon := s.i < len(s.in) && s.in[s.i] == ':'
	switch {
	case hasColon && colon:
		s.i++
	case !hasColon && compact:
	case colon:
		return 0, NewParseErrorf(s.i, "expected :, found %q", s.remaining())
	default:
		return 0, NewParseErrorf(s.i, "expected digits, found %q", s.remaining())
	}
	m, err := s.readDigits(2, 2)
	if err != nil {
		return 0, err
	}
	if h > 23 || m > 59 {
		return 0, NewParseErrorf(start, "UTC offset out of range: %s", s.in[start:s.i])
	}
	return sign * (h*3600 + m*60), nil
}

func (s *decodeState) setZone(z TimeZone, idx int) error {
	if s.hasSeen(ComponentTZ) {
		return NewParseErrorf(idx, "duplicate time zone: %s", z.Name())
	}
	s.seen |= ComponentTZ
	s.zone = z
	return nil
}

func (s *decodeState) decodeMilitaryZone() error {
	start := s.i
	if s.i == len(s.in) || !isLetter(s.in[s.i]) {
		return NewParseErrorf(start, "expected time zone letter, found %q", s.remaining())
	}
	s.i++
	z, ok := MilitaryZone(s.in[start])
	if !ok {
		return &ZoneError{Name: s.in[start:s.i]}
	}
	return s.setZone(z, start)
}

// matchLiteral consumes lit from the input. A whitespace character in lit
// matches one or more whitespace characters.
func (s *decodeState) matchLiteral(t token) error {
	lit := t.val
	for j := 0; j < len(lit); j++ {
		if s.i == len(s.in) {
			return NewParseErrorf(s.i, "expected %q, found end of input", lit[j:])
		}
		if isSpace(lit[j]) {
			if !isSpace(s.in[s.i]) {
				return NewParseErrorf(s.i, "expected whitespace, found %q", s.remaining())
			}
			s.advanceWhen(isSpace)
			continue
		}
		if s.in[s.i] != lit[j] {
			return NewParseErrorf(s.i, "expected %q, found %q", lit[j:], s.remaining())
		}
		s.i++
	}
	return nil
}

func (s *decodeState) decodeSequence(tokens []token) error {
	for _, t := range tokens {
		var err error
		switch t.tokenType {
		case tokenTypeLiteral:
			err = s.matchLiteral(t)
		case tokenTypeDirective:
			err = s.decodeDirective(t)
		default:
			err = NewParseErrorf(t.idx, "unknown token type %s", t.tokenType.String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *decodeState) decodeDirective(t token) error {
	var err error
	switch t.val[0] {
	case 'Y':
		if err = s.markSeen(ComponentYear); err == nil {
			s.year, err = s.readDigits(4, 4)
		}
	case 'y':
		if err = s.markSeen(ComponentYear); err == nil {
			s.year, err = s.readDigits(2, 2)
			if s.year < 69 {
				s.year += 2000
			} else {
				s.year += 1900
			}
		}
	case 'm':
		if err = s.markSeen(ComponentMonth); err == nil {
			s.month, err = s.readDigits(1, 2)
		}
	case 'b', 'B':
		if err = s.markSeen(ComponentMonth); err == nil {
			s.month, err = s.readName(monthNames[:], "month")
			s.month++
		}
	case 'd':
		if err = s.markSeen(ComponentDay); err == nil {
			s.day, err = s.readDigits(1, 2)
		}
	case 'j':
		if err = s.markSeen(ComponentDOY); err == nil {
			s.ordinal, err = s.readDigits(1, 3)
		}
	case 'a', 'A':
		if err = s.markSeen(ComponentDOW); err == nil {
			var wd int
			wd, err = s.readName(weekdayNames[:], "weekday")
			s.weekday = Weekday(wd)
		}
	case 'H':
		if err = s.markSeen(ComponentHour | ComponentHour12); err == nil {
			s.seen &^= ComponentHour12
			s.hour, err = s.readDigits(1, 2)
		}
	case 'I':
		if err = s.markSeen(ComponentHour | ComponentHour12); err == nil {
			s.seen &^= ComponentHour
			s.hour, err = s.readDigits(1, 2)
		}
	case 'p':
		if err = s.markSeen(ComponentAMPM); err == nil {
			start := s.i
			s.ampmIdx = start
			var w string
			if w, err = s.readLetters(); err == nil {
				switch w {
				case "am":
				case "pm":
					s.pm = true
				default:
					err = NewParseErrorf(start, "expected AM or PM, found %q", s.in[start:s.i])
				}
			}
		}
	case 'M':
		if err = s.markSeen(ComponentMinute); err == nil {
			s.minute, err = s.readDigits(1, 2)
		}
	case 'S':
		if err = s.markSeen(ComponentSecond); err == nil {
			if s.second, err = s.readDigits(1, 2); err == nil {
				err = s.decodeFractionalSecond()
			}
		}
	case 'E', 'z':
		start := s.i
		var offset int
		if offset, err = s.decodeNumericOffset(t.val[0] == 'E', t.val[0] == 'z'); err == nil {
			err = s.setZone(FixedZone(s.in[start:s.i], offset), start)
		}
	case 'e':
		err = s.decodeMilitaryZone()
	case 'Z':
		start := s.i
		s.advanceWhen(isZoneNameChar)
		if s.i == start {
			return NewParseErrorf(start, "expected time zone name, found %q", s.remaining())
		}
		var z TimeZone
		if z, err = s.resolver.Resolve(s.in[start:s.i]); err == nil {
			err = s.setZone(z, start)
		}
	case 'i':
		if err = s.decodeSequence(isoDateTime); err != nil {
			return err
		}
		start := s.i
		if s.i < len(s.in) && (s.in[s.i] == 'Z' || s.in[s.i] == 'z') {
			s.i++
			return s.setZone(UTC, start)
		}
		var offset int
		if offset, err = s.decodeNumericOffset(true, true); err == nil {
			err = s.setZone(FixedZone(s.in[start:s.i], offset), start)
		}
	case 'T':
		if err = s.decodeSequence(isoDateTime); err == nil {
			err = s.decodeMilitaryZone()
		}
	default:
		err = NewParseErrorf(t.idx, "unknown directive: %%%s", t.val)
	}
	return err
}

func (s *decodeState) date() (Date, error) {
	var (
		d   Date
		err error
	)
	switch {
	case s.hasSeen(ComponentYear | ComponentMonth | ComponentDay):
		d, err = NewDate(s.year, s.month, s.day)
	case s.hasSeen(ComponentYear | ComponentDOY):
		d, err = DateFromOrdinalDate(s.year, s.ordinal)
	default:
		return DateInvalid, NewParseError(len(s.in), "incomplete date: expected year, month and day, or year and day of year")
	}
	if err != nil {
		return DateInvalid, wrapParseError(err, s.dateIdx, err.Error())
	}
	if s.hasSeen(ComponentDOW) {
		if wd, _ := d.Weekday(); wd != s.weekday {
			return DateInvalid, NewParseErrorf(s.dateIdx, "%s is a %s, not a %s", d, wd, s.weekday)
		}
	}
	return d, nil
}

func (s *decodeState) daytime() (Daytime, error) {
	hour := s.hour
	if s.hasSeen(ComponentAMPM) && !s.hasSeen(ComponentHour12) {
		return DaytimeInvalid, NewParseError(s.ampmIdx, "AM/PM marker requires a 12-hour clock hour")
	}
	switch {
	case s.hasSeen(ComponentHour12):
		if hour < 1 || hour > 12 {
			return DaytimeInvalid, NewParseErrorf(s.timeIdx, "12-hour clock hour out of range: %d", hour)
		}
		hour %= 12
		if s.pm {
			hour += 12
		}
	case s.hasSeen(ComponentHour):
	default:
		return DaytimeInvalid, NewParseError(len(s.in), "incomplete time: expected hour and minute")
	}
	if !s.hasSeen(ComponentMinute) {
		return DaytimeInvalid, NewParseError(len(s.in), "incomplete time: expected hour and minute")
	}
	d, err := NewDaytime(hour, s.minute, float64(s.second))
	if err != nil {
		return DaytimeInvalid, wrapParseError(err, s.timeIdx, err.Error())
	}
	if s.fraction != "" {
		daytick, _ := d.Daytick()
		d = Daytime{}.clamp(decimalTicks(daytick/DaytickPerSecond, s.fraction, DaytickPerSecond))
	}
	return d, nil
}

func decodeFormat(format, input string, resolver Resolver) (*decodeState, error) {
	tokens, err := tokenizeFormat(format)
	if err != nil {
		return nil, errors.Wrapf(err, "format %q", format)
	}
	if resolver == nil {
		resolver = OffsetResolver
	}
	s := &decodeState{in: input, resolver: resolver}
	if err := s.decodeSequence(tokens); err != nil {
		return nil, err
	}
	if s.i < len(s.in) {
		return nil, NewParseErrorf(s.i, "unexpected trailing text: %q", s.remaining())
	}
	return s, nil
}

// ParseTime parses input according to format into a Time. See ParseTimeAs.
func ParseTime(format, input string, opts ParseOptions) (Time, error) {
	return ParseTimeAs[Time](format, input, opts)
}

// ParseTimeAs parses input according to format into a time of variant T.
//
// The format is matched left to right without backtracking. Characters other
// than directives match themselves, whitespace matching any run of
// whitespace. The directives are:
//
//	%Y  4-digit year             %y  2-digit year, 69-99 in the 1900s
//	%m  month                    %b  month name or abbreviation (also %B)
//	%d  day of month             %j  day of year
//	%a  weekday name, checked against the date (also %A)
//	%H  hour (24-hour clock)     %I  hour (12-hour clock), with %p AM or PM
//	%M  minute                   %S  second with optional fraction
//	%E  UTC offset as +HH:MM     %z  UTC offset as +HHMM
//	%e  military zone letter     %Z  zone name, resolved by opts.Resolver
//	%i  YYYY-MM-DDTHH:MM:SS[.f] followed by Z, +HH:MM or +HHMM
//	%T  YYYY-MM-DDTHH:MM:SS[.f] followed by a military zone letter
//	%%  a literal %
//
// The date fields and at least the hour and minute are required. Seconds
// default to zero. Without a zone in the input opts.DefaultZone applies.
//
// Lexical mismatches are reported as *ParseError; names that do not resolve
// to a zone as *ZoneError.
func ParseTimeAs[T TimeType[T]](format, input string, opts ParseOptions) (T, error) {
	var zero T
	s, err := decodeFormat(format, input, opts.Resolver)
	if err != nil {
		return zero.withKind(KindInvalid), err
	}
	date, err := s.date()
	if err != nil {
		return zero.withKind(KindInvalid), err
	}
	daytime, err := s.daytime()
	if err != nil {
		return zero.withKind(KindInvalid), err
	}
	zone := s.zone
	if zone == nil {
		zone = opts.DefaultZone
	}
	if zone == nil {
		return zero.withKind(KindInvalid), errors.Wrapf(ErrNoTimeZone, "parsing %q", input)
	}
	return TimeFromLocal[T](date, daytime, zone, opts.Ambiguity)
}

// ParseDate parses input according to format into a Date. Time and zone
// fields, if any, must match but are otherwise ignored.
func ParseDate(format, input string) (Date, error) {
	s, err := decodeFormat(format, input, nil)
	if err != nil {
		return DateInvalid, err
	}
	return s.date()
}

// ParseDaytime parses input according to format into a Daytime. Date and
// zone fields, if any, must match but are otherwise ignored.
func ParseDaytime(format, input string) (Daytime, error) {
	s, err := decodeFormat(format, input, nil)
	if err != nil {
		return DaytimeInvalid, err
	}
	return s.daytime()
}
