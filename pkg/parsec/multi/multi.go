// Package multi repeats parsers.
package multi

import "github.com/agentflare-ai/go-cheatsheet/pkg/parsec"

// Many0 applies p until it fails recoverably and collects the outputs. A
// parser that succeeds without consuming input is reported as a Many0 error
// to prevent an infinite loop.
func Many0[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, []O] {
	return func(in I) (I, []O, error) {
		out := []O{}
		for {
			rest, o, err := p(in)
			if err != nil {
				if parsec.IsRecoverable(err) {
					return in, out, nil
				}
				return in, nil, err
			}
			if len(rest) == len(in) {
				return in, nil, parsec.NewError(in, parsec.Many0)
			}
			out = append(out, o)
			in = rest
		}
	}
}

// Many1 is Many0 but requires at least one match.
func Many1[I parsec.Input, O any](p parsec.Parser[I, O]) parsec.Parser[I, []O] {
	many := Many0(p)
	return func(in I) (I, []O, error) {
		rest, out, err := many(in)
		if err != nil {
			return in, nil, err
		}
		if len(out) == 0 {
			return in, nil, parsec.NewError(in, parsec.Many1)
		}
		return rest, out, nil
	}
}

// ManyTill applies p until end succeeds and returns the outputs of both.
func ManyTill[I parsec.Input, O, E any](p parsec.Parser[I, O], end parsec.Parser[I, E]) parsec.Parser[I, parsec.Pair[[]O, E]] {
	return func(in I) (I, parsec.Pair[[]O, E], error) {
		var res parsec.Pair[[]O, E]
		res.First = []O{}
		start := in
		for {
			rest, e, err := end(in)
			if err == nil {
				res.Second = e
				return rest, res, nil
			}
			if !parsec.IsRecoverable(err) {
				return start, parsec.Pair[[]O, E]{}, err
			}
			rest, o, err := p(in)
			if err != nil {
				if parsec.IsRecoverable(err) {
					return start, parsec.Pair[[]O, E]{}, parsec.NewError(in, parsec.ManyTill)
				}
				return start, parsec.Pair[[]O, E]{}, err
			}
			if len(rest) == len(in) {
				return start, parsec.Pair[[]O, E]{}, parsec.NewError(in, parsec.ManyTill)
			}
			res.First = append(res.First, o)
			in = rest
		}
	}
}

// SeparatedList0 parses zero or more p separated by sep.
func SeparatedList0[I parsec.Input, O, S any](sep parsec.Parser[I, S], p parsec.Parser[I, O]) parsec.Parser[I, []O] {
	return func(in I) (I, []O, error) {
		rest, out, err := separated(sep, p, in)
		if err != nil && parsec.IsRecoverable(err) && len(out) == 0 {
			return in, []O{}, nil
		}
		return rest, out, err
	}
}

// SeparatedList1 parses one or more p separated by sep.
func SeparatedList1[I parsec.Input, O, S any](sep parsec.Parser[I, S], p parsec.Parser[I, O]) parsec.Parser[I, []O] {
	return func(in I) (I, []O, error) {
		return separated(sep, p, in)
	}
}

func separated[I parsec.Input, O, S any](sep parsec.Parser[I, S], p parsec.Parser[I, O], in I) (I, []O, error) {
	rest, o, err := p(in)
	if err != nil {
		return in, nil, err
	}
	out := []O{o}
	for {
		afterSep, _, err := sep(rest)
		if err != nil {
			if parsec.IsRecoverable(err) {
				return rest, out, nil
			}
			return in, nil, err
		}
		if len(afterSep) == len(rest) {
			return in, nil, parsec.NewError(rest, parsec.SeparatedList)
		}
		next, o, err := p(afterSep)
		if err != nil {
			if parsec.IsRecoverable(err) {
				return rest, out, nil
			}
			return in, nil, err
		}
		out = append(out, o)
		rest = next
	}
}

// Count applies p exactly n times.
func Count[I parsec.Input, O any](p parsec.Parser[I, O], n int) parsec.Parser[I, []O] {
	return func(in I) (I, []O, error) {
		out := make([]O, 0, n)
		rest := in
		for i := 0; i < n; i++ {
			next, o, err := p(rest)
			if err != nil {
				if parsec.IsRecoverable(err) {
					return in, nil, parsec.NewError(rest, parsec.Count)
				}
				return in, nil, err
			}
			out = append(out, o)
			rest = next
		}
		return rest, out, nil
	}
}

// Fold applies p until it fails recoverably, folding the outputs into an
// accumulator created by init.
func Fold[I parsec.Input, O, A any](p parsec.Parser[I, O], init func() A, f func(A, O) A) parsec.Parser[I, A] {
	return func(in I) (I, A, error) {
		acc := init()
		for {
			rest, o, err := p(in)
			if err != nil {
				if parsec.IsRecoverable(err) {
					return in, acc, nil
				}
				var zero A
				return in, zero, err
			}
			if len(rest) == len(in) {
				var zero A
				return in, zero, parsec.NewError(in, parsec.Many0)
			}
			acc = f(acc, o)
			in = rest
		}
	}
}
