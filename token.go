package tempus

import "strings"

type tokenType int

//go:generate stringer -type=tokenType -trimprefix=tokenType

const (
	// tokenTypeLiteral is text matched verbatim; whitespace in it matches a
	// run of one or more whitespace characters.
	tokenTypeLiteral tokenType = iota
	// tokenTypeDirective is a field, e.g. %Y, holding the directive letter.
	tokenTypeDirective
)

// token represents one element of a format string.
type token struct {
	tokenType tokenType
	val       string
	idx       int
}

// directives lists every letter that may follow a '%'.
const directives = "YymdHMSjbBaAIpEzeZiT"

func tokenizeFormat(s string) ([]token, error) {
	i := 0
	ret := []token{}
	advanceWhen := func(f func(b byte) bool) {
		for i < len(s) && f(s[i]) {
			i++
		}
	}
	appendToken := func(t tokenType, val string, start int) {
		// Merge adjacent literals, which arise around "%%".
		if n := len(ret); t == tokenTypeLiteral && n > 0 && ret[n-1].tokenType == tokenTypeLiteral {
			ret[n-1].val += val
			return
		}
		ret = append(ret, token{tokenType: t, val: val, idx: start})
	}

	for i < len(s) {
		start := i
		if s[i] != '%' {
			advanceWhen(func(b byte) bool {
				return b != '%'
			})
			appendToken(tokenTypeLiteral, s[start:i], start)
			continue
		}
		i++
		if i == len(s) {
			return nil, NewParseError(start, "expected directive after %")
		}
		switch c := s[i]; {
		case c == '%':
			appendToken(tokenTypeLiteral, "%", start)
		case strings.IndexByte(directives, c) >= 0:
			appendToken(tokenTypeDirective, s[i:i+1], start)
		default:
			return nil, NewParseErrorf(start, "unknown directive: %%%c", c)
		}
		i++
	}
	return ret, nil
}
