// Package branch chooses between parsers.
package branch

import "github.com/agentflare-ai/go-cheatsheet/pkg/parsec"

// Alt tries each parser in order and returns the first success. When every
// parser fails recoverably the result is an Alt error at the input.
func Alt[I parsec.Input, O any](ps ...parsec.Parser[I, O]) parsec.Parser[I, O] {
	return func(in I) (I, O, error) {
		var zero O
		for _, p := range ps {
			rest, o, err := p(in)
			if err == nil {
				return rest, o, nil
			}
			if !parsec.IsRecoverable(err) {
				return in, zero, err
			}
		}
		return in, zero, parsec.NewError(in, parsec.Alt)
	}
}
