// Package combinator transforms and constrains the results of other parsers.
package combinator

import "github.com/agentflare-ai/go-cheatsheet/pkg/parsec"

// Map applies f to the output of p.
func Map[I parsec.Input, A, B any](p parsec.Parser[I, A], f func(A) B) parsec.Parser[I, B] {
	return func(in I) (I, B, error) {
		rest, a, err := p(in)
		if err != nil {
			var zero B
			return in, zero, err
		}
		return rest, f(a), nil
	}
}

// MapRes applies f to the output of p. An error from f becomes a MapRes
// parse error at the start of the input.
func MapRes[I parsec.Input, A, B any](p parsec.Parser[I, A], f func(A) (B, error)) parsec.Parser[I, B] {
	return func(in I) (I, B, error) {
		var zero B
		rest, a, err := p(in)
		if err != nil {
			return in, zero, err
		}
		b, ferr := f(a)
		if ferr != nil {
			return in, zero, parsec.NewError(in, parsec.MapRes)
		}
		return rest, b, nil
	}
}

// Opt makes p optional. The output is nil when p failed recoverably.
func Opt[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, *O] {
	return func(in I) (I, *O, error) {
		rest, o, err := p(in)
		switch {
		case err == nil:
			return rest, &o, nil
		case parsec.IsRecoverable(err):
			return in, nil, nil
		default:
			return in, nil, err
		}
	}
}

// Value returns v when p succeeds.
func Value[I parsec.Input, O, V any](v V, p parsec.Parser[I, O]) parsec.Parser[I, V] {
	return Map(p, func(O) V { return v })
}

// Recognize returns the slice of input consumed by p.
func Recognize[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, I] {
	return func(in I) (I, I, error) {
		rest, _, err := p(in)
		if err != nil {
			var zero I
			return in, zero, err
		}
		return rest, in[:len(in)-len(rest)], nil
	}
}

// Verify succeeds only when pred accepts the output of p.
func Verify[I parsec.Input, O any](p parsec.Parser[I, O], pred func(O) bool) parsec.Parser[I, O] {
	return func(in I) (I, O, error) {
		rest, o, err := p(in)
		if err != nil {
			return in, o, err
		}
		if !pred(o) {
			var zero O
			return in, zero, parsec.NewError(in, parsec.Verify)
		}
		return rest, o, nil
	}
}

// Cut turns recoverable errors of p into failures, preventing backtracking.
func Cut[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, O] {
	return func(in I) (I, O, error) {
		rest, o, err := p(in)
		if parsec.IsRecoverable(err) {
			e := *err.(*parsec.Error)
			e.Severity = parsec.SeverityFailure
			return rest, o, &e
		}
		return rest, o, err
	}
}

// AllConsuming succeeds only when p consumes the whole input.
func AllConsuming[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, O] {
	return func(in I) (I, O, error) {
		rest, o, err := p(in)
		if err != nil {
			return rest, o, err
		}
		if len(rest) != 0 {
			var zero O
			return in, zero, parsec.NewError(rest, parsec.Eof)
		}
		return rest, o, nil
	}
}

// Peek runs p without consuming input.
func Peek[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, O] {
	return func(in I) (I, O, error) {
		_, o, err := p(in)
		return in, o, err
	}
}

// Not succeeds without consuming input when p fails recoverably.
func Not[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, struct{}] {
	return func(in I) (I, struct{}, error) {
		_, _, err := p(in)
		switch {
		case err == nil:
			return in, struct{}{}, parsec.NewError(in, parsec.Not)
		case parsec.IsRecoverable(err):
			return in, struct{}{}, nil
		default:
			return in, struct{}{}, err
		}
	}
}

// Eof succeeds only on empty input.
func Eof[I parsec.Input](in I) (I, I, error) {
	if len(in) != 0 {
		var zero I
		return in, zero, parsec.NewError(in, parsec.Eof)
	}
	return in, in, nil
}

// Rest returns the whole remaining input.
func Rest[I parsec.Input](in I) (I, I, error) {
	return in[len(in):], in, nil
}
