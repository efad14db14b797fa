// Package character recognizes ASCII character classes in text input.
package character

import (
	"strings"
	"unicode/utf8"

	"github.com/agentflare-ai/go-cheatsheet/pkg/parsec"
)

// IsAlphabetic reports whether b is an ASCII letter.
func IsAlphabetic(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool { return b >= '0' && b <= '9' }

// IsAlphanumeric reports whether b is an ASCII letter or digit.
func IsAlphanumeric(b byte) bool { return IsAlphabetic(b) || IsDigit(b) }

// IsHexDigit reports whether b is an ASCII hexadecimal digit.
func IsHexDigit(b byte) bool {
	return IsDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// IsSpace reports whether b is a space or a tab.
func IsSpace(b byte) bool { return b == ' ' || b == '\t' }

func isMultispace(b byte) bool { return IsSpace(b) || b == '\r' || b == '\n' }

func span(in string, pred func(byte) bool, atLeastOne bool, kind parsec.ErrorKind) (string, string, error) {
	i := 0
	for i < len(in) && pred(in[i]) {
		i++
	}
	if atLeastOne && i == 0 {
		return in, "", parsec.NewError(in, kind)
	}
	return in[i:], in[:i], nil
}

// Alpha0 recognizes zero or more ASCII letters.
func Alpha0(in string) (string, string, error) { return span(in, IsAlphabetic, false, parsec.Alpha) }

// Alpha1 recognizes one or more ASCII letters.
func Alpha1(in string) (string, string, error) { return span(in, IsAlphabetic, true, parsec.Alpha) }

// Digit0 recognizes zero or more ASCII digits.
func Digit0(in string) (string, string, error) { return span(in, IsDigit, false, parsec.Digit) }

// Digit1 recognizes one or more ASCII digits.
func Digit1(in string) (string, string, error) { return span(in, IsDigit, true, parsec.Digit) }

// Alphanumeric1 recognizes one or more ASCII letters or digits.
func Alphanumeric1(in string) (string, string, error) {
	return span(in, IsAlphanumeric, true, parsec.AlphaNumeric)
}

// HexDigit1 recognizes one or more hexadecimal digits.
func HexDigit1(in string) (string, string, error) {
	return span(in, IsHexDigit, true, parsec.HexDigit)
}

// Space0 recognizes zero or more spaces and tabs.
func Space0(in string) (string, string, error) { return span(in, IsSpace, false, parsec.Space) }

// Space1 recognizes one or more spaces and tabs.
func Space1(in string) (string, string, error) { return span(in, IsSpace, true, parsec.Space) }

// Multispace0 recognizes zero or more spaces, tabs, carriage returns and
// line feeds.
func Multispace0(in string) (string, string, error) {
	return span(in, isMultispace, false, parsec.MultiSpace)
}

// Multispace1 is Multispace0 but requires at least one character.
func Multispace1(in string) (string, string, error) {
	return span(in, isMultispace, true, parsec.MultiSpace)
}

// LineEnding recognizes "\n" or "\r\n".
func LineEnding(in string) (string, string, error) {
	switch {
	case strings.HasPrefix(in, "\n"):
		return in[1:], in[:1], nil
	case strings.HasPrefix(in, "\r\n"):
		return in[2:], in[:2], nil
	}
	return in, "", parsec.NewError(in, parsec.CrLf)
}

// Newline recognizes a single line feed.
func Newline(in string) (string, rune, error) {
	if strings.HasPrefix(in, "\n") {
		return in[1:], '\n', nil
	}
	return in, 0, parsec.NewError(in, parsec.Char)
}

// AnyChar recognizes any single character.
func AnyChar(in string) (string, rune, error) {
	if in == "" {
		return in, 0, parsec.NewError(in, parsec.Eof)
	}
	r, n := utf8.DecodeRuneInString(in)
	return in[n:], r, nil
}

// Char recognizes the character c.
func Char(c rune) parsec.Parser[string, rune] {
	return oneRune(func(r rune) bool { return r == c }, parsec.Char)
}

// OneOf recognizes one of the characters in set.
func OneOf(set string) parsec.Parser[string, rune] {
	return oneRune(func(r rune) bool { return strings.ContainsRune(set, r) }, parsec.OneOf)
}

// NoneOf recognizes a character that is not in set.
func NoneOf(set string) parsec.Parser[string, rune] {
	return oneRune(func(r rune) bool { return !strings.ContainsRune(set, r) }, parsec.NoneOf)
}

func oneRune(match func(rune) bool, kind parsec.ErrorKind) parsec.Parser[string, rune] {
	return func(in string) (string, rune, error) {
		if in == "" {
			return in, 0, parsec.NewError(in, kind)
		}
		r, n := utf8.DecodeRuneInString(in)
		if !match(r) {
			return in, 0, parsec.NewError(in, kind)
		}
		return in[n:], r, nil
	}
}
