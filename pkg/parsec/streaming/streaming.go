// Package streaming holds parsers for input that may arrive in pieces. Where
// the complete parsers of the bytes and character packages would fail at the
// end of the input, these return *parsec.Incomplete.
package streaming

import (
	"strings"

	"github.com/agentflare-ai/go-cheatsheet/pkg/parsec"
	"github.com/agentflare-ai/go-cheatsheet/pkg/parsec/character"
)

// Tag recognizes t literally.
func Tag[I parsec.Input](t I) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		var zero I
		n := len(t)
		if len(in) < n {
			if strings.HasPrefix(string(t), string(in)) {
				return in, zero, &parsec.Incomplete{Needed: n - len(in)}
			}
			return in, zero, parsec.NewError(in, parsec.Tag)
		}
		if string(in[:n]) != string(t) {
			return in, zero, parsec.NewError(in, parsec.Tag)
		}
		return in[n:], in[:n], nil
	}
}

// Take returns the first n bytes.
func Take[I parsec.Input](n int) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		if len(in) < n {
			var zero I
			return in, zero, &parsec.Incomplete{Needed: n - len(in)}
		}
		return in[n:], in[:n], nil
	}
}

// TakeUntil returns everything before the first occurrence of t. The amount
// of missing input is unknown when t is not found.
func TakeUntil[I parsec.Input](t I) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		i := strings.Index(string(in), string(t))
		if i < 0 {
			var zero I
			return in, zero, &parsec.Incomplete{}
		}
		return in[i:], in[:i], nil
	}
}

// Alpha1 recognizes one or more ASCII letters followed by something else.
func Alpha1(in string) (string, string, error) {
	return span(in, character.IsAlphabetic, parsec.Alpha)
}

// Digit1 recognizes one or more ASCII digits followed by something else.
func Digit1(in string) (string, string, error) {
	return span(in, character.IsDigit, parsec.Digit)
}

func span(in string, pred func(byte) bool, kind parsec.ErrorKind) (string, string, error) {
	i := 0
	for i < len(in) && pred(in[i]) {
		i++
	}
	switch {
	case i == len(in):
		return in, "", &parsec.Incomplete{Needed: 1}
	case i == 0:
		return in, "", parsec.NewError(in, kind)
	}
	return in[i:], in[:i], nil
}
