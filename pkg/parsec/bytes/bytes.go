// Package bytes holds parsers that recognize raw byte sequences. They work on
// both string and []byte input and never return parsec.Incomplete; see the
// streaming package for that.
package bytes

import (
	"strings"

	"github.com/agentflare-ai/go-cheatsheet/pkg/parsec"
)

// Tag recognizes t literally.
func Tag[I parsec.Input](t I) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		n := len(t)
		if len(in) < n || string(in[:n]) != string(t) {
			var zero I
			return in, zero, parsec.NewError(in, parsec.Tag)
		}
		return in[n:], in[:n], nil
	}
}

// TagNoCase recognizes t ignoring ASCII and Unicode case.
func TagNoCase[I parsec.Input](t I) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		n := len(t)
		if len(in) < n || !strings.EqualFold(string(in[:n]), string(t)) {
			var zero I
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
			return in, zero, parsec.NewError(in, parsec.Eof)
		}
		return in[n:], in[:n], nil
	}
}

// TakeWhile returns the longest prefix whose bytes satisfy pred. It may be
// empty.
func TakeWhile[I parsec.Input](pred func(byte) bool) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		i := 0
		for i < len(in) && pred(in[i]) {
			i++
		}
		return in[i:], in[:i], nil
	}
}

// TakeWhile1 is TakeWhile but requires at least one byte.
func TakeWhile1[I parsec.Input](pred func(byte) bool) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		i := 0
		for i < len(in) && pred(in[i]) {
			i++
		}
		if i == 0 {
			var zero I
			return in, zero, parsec.NewError(in, parsec.TakeWhile1)
		}
		return in[i:], in[:i], nil
	}
}

// TakeTill returns the longest prefix whose bytes do not satisfy pred.
func TakeTill[I parsec.Input](pred func(byte) bool) parsec.Parser[I, I] {
	return TakeWhile[I](func(b byte) bool { return !pred(b) })
}

// TakeUntil returns everything before the first occurrence of t.
func TakeUntil[I parsec.Input](t I) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		i := strings.Index(string(in), string(t))
		if i < 0 {
			var zero I
			return in, zero, parsec.NewError(in, parsec.TakeUntil)
		}
		return in[i:], in[:i], nil
	}
}

// IsA returns the longest non-empty prefix made of bytes in set.
func IsA[I parsec.Input](set string) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		i := 0
		for i < len(in) && strings.IndexByte(set, in[i]) >= 0 {
			i++
		}
		if i == 0 {
			var zero I
			return in, zero, parsec.NewError(in, parsec.IsA)
		}
		return in[i:], in[:i], nil
	}
}

// IsNot returns the longest non-empty prefix made of bytes not in set.
func IsNot[I parsec.Input](set string) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		i := 0
		for i < len(in) && strings.IndexByte(set, in[i]) < 0 {
			i++
		}
		if i == 0 {
			var zero I
			return in, zero, parsec.NewError(in, parsec.IsNot)
		}
		return in[i:], in[:i], nil
	}
}
