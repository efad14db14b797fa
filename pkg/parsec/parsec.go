// Package parsec is a small parser-combinator library.
//
// Every parser is a function from an input to the unparsed remainder, the
// produced value and an error:
//
//	rest, value, err := bytes.Tag("hello")("hello world")
//
// A nil error is a success. A [*Error] is a parse error: recoverable errors
// let combinators such as branch.Alt or multi.Many0 try something else,
// failures (see combinator.Cut) abort the whole parse. An [*Incomplete] is
// only returned by the streaming package when the input ran out before the
// parser could decide.
//
// Terminal parsers of the character and number packages are concrete over
// string and []byte respectively, so they can be passed to the generic
// combinators without explicit instantiation.
package parsec

import "fmt"

// Input is the set of input types parsers accept.
type Input interface {
	~string | ~[]byte
}

// Parser consumes a prefix of its input.
type Parser[I Input, O any] func(I) (I, O, error)

// ErrorKind identifies the parser that produced an error.
type ErrorKind int

const (
	Tag ErrorKind = iota + 1
	MapRes
	Alt
	IsNot
	IsA
	SeparatedList
	Many1
	ManyTill
	Count
	TakeUntil
	TakeWhile1
	Verify
	Char
	OneOf
	NoneOf
	Alpha
	Digit
	AlphaNumeric
	HexDigit
	Space
	MultiSpace
	CrLf
	Not
	Eof
	Many0
)

var errorKindNames = map[ErrorKind]string{
	Tag:           "Tag",
	MapRes:        "MapRes",
	Alt:           "Alt",
	IsNot:         "IsNot",
	IsA:           "IsA",
	SeparatedList: "SeparatedList",
	Many1:         "Many1",
	ManyTill:      "ManyTill",
	Count:         "Count",
	TakeUntil:     "TakeUntil",
	TakeWhile1:    "TakeWhile1",
	Verify:        "Verify",
	Char:          "Char",
	OneOf:         "OneOf",
	NoneOf:        "NoneOf",
	Alpha:         "Alpha",
	Digit:         "Digit",
	AlphaNumeric:  "AlphaNumeric",
	HexDigit:      "HexDigit",
	Space:         "Space",
	MultiSpace:    "MultiSpace",
	CrLf:          "CrLf",
	Not:           "Not",
	Eof:           "Eof",
	Many0:         "Many0",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Severity tells combinators whether they may backtrack over an error.
type Severity int

const (
	// SeverityError is a recoverable error.
	SeverityError Severity = iota
	// SeverityFailure is unrecoverable.
	SeverityFailure
)

func (s Severity) String() string {
	if s == SeverityFailure {
		return "Failure"
	}
	return "Error"
}

// Error is a parse error located at Input, the remaining input at the point
// of failure. Input always aliases the original input passed to the outermost
// parser, so its position can be recovered from the backing array.
type Error struct {
	Severity Severity
	Input    any
	Kind     ErrorKind
}

// NewError returns a recoverable error at in.
func NewError[I Input](in I, kind ErrorKind) *Error {
	return &Error{Severity: SeverityError, Input: in, Kind: kind}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Severity, e.Kind)
}

// Incomplete reports that more input is required. Needed is zero when the
// amount is unknown.
type Incomplete struct {
	Needed int
}

func (e *Incomplete) Error() string {
	if e.Needed == 0 {
		return "incomplete: needed unknown"
	}
	return fmt.Sprintf("incomplete: needed %d", e.Needed)
}

// IsRecoverable reports whether err is a parse error a combinator may
// backtrack over.
func IsRecoverable(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Severity == SeverityError
}

// Pair is the output of a two element sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Tuple returns the elements in order.
func (p Pair[A, B]) Tuple() []any { return []any{p.First, p.Second} }

// Triple is the output of a three element sequence.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple returns the elements in order.
func (t Triple[A, B, C]) Tuple() []any { return []any{t.First, t.Second, t.Third} }
