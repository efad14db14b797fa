// Package sequence runs parsers one after another.
package sequence

import "github.com/agentflare-ai/go-cheatsheet/pkg/parsec"

// Pair runs a then b and returns both outputs.
func Pair[I parsec.Input, A, B any](a parsec.Parser[I, A], b parsec.Parser[I, B]) parsec.Parser[I, parsec.Pair[A, B]] {
	return func(in I) (I, parsec.Pair[A, B], error) {
		var out parsec.Pair[A, B]
		rest, va, err := a(in)
		if err != nil {
			return in, out, err
		}
		rest, vb, err := b(rest)
		if err != nil {
			return in, out, err
		}
		out.First, out.Second = va, vb
		return rest, out, nil
	}
}

// SeparatedPair runs a, sep and b and returns the outputs of a and b.
func SeparatedPair[I parsec.Input, A, S, B any](a parsec.Parser[I, A], sep parsec.Parser[I, S], b parsec.Parser[I, B]) parsec.Parser[I, parsec.Pair[A, B]] {
	return Pair(a, Preceded(sep, b))
}

// Preceded runs first then second and returns the output of second.
func Preceded[I parsec.Input, A, B any](first parsec.Parser[I, A], second parsec.Parser[I, B]) parsec.Parser[I, B] {
	return func(in I) (I, B, error) {
		var zero B
		rest, _, err := first(in)
		if err != nil {
			return in, zero, err
		}
		rest, b, err := second(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, b, nil
	}
}

// Terminated runs first then second and returns the output of first.
func Terminated[I parsec.Input, A, B any](first parsec.Parser[I, A], second parsec.Parser[I, B]) parsec.Parser[I, A] {
	return func(in I) (I, A, error) {
		var zero A
		rest, a, err := first(in)
		if err != nil {
			return in, zero, err
		}
		rest, _, err = second(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, a, nil
	}
}

// Delimited runs open, p and close and returns the output of p.
func Delimited[I parsec.Input, A, O, C any](open parsec.Parser[I, A], p parsec.Parser[I, O], close parsec.Parser[I, C]) parsec.Parser[I, O] {
	return Preceded(open, Terminated(p, close))
}

// Tuple3 runs three parsers in order.
func Tuple3[I parsec.Input, A, B, C any](a parsec.Parser[I, A], b parsec.Parser[I, B], c parsec.Parser[I, C]) parsec.Parser[I, parsec.Triple[A, B, C]] {
	return func(in I) (I, parsec.Triple[A, B, C], error) {
		var out parsec.Triple[A, B, C]
		rest, va, err := a(in)
		if err != nil {
			return in, out, err
		}
		rest, vb, err := b(rest)
		if err != nil {
			return in, out, err
		}
		rest, vc, err := c(rest)
		if err != nil {
			return in, out, err
		}
		out.First, out.Second, out.Third = va, vb, vc
		return rest, out, nil
	}
}
