// Package render turns parser outcomes into Markdown table cells. Programs
// generated by go-cheatsheet import it to print every example row.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentflare-ai/go-cheatsheet/pkg/parsec"
)

// Code quotes s as a Markdown code span. The delimiter is one backtick longer
// than the longest backtick run inside s. A single space pads both ends when
// s starts or ends with a backtick, or starts and ends with a space, because
// Markdown strips exactly one space from each end of such spans.
func Code(s string) string {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	pad := ""
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") ||
		(strings.HasPrefix(s, " ") && strings.HasSuffix(s, " ")) {
		pad = " "
	}
	return fence + pad + s + pad + fence
}

// Cells are the pre-rendered Markdown cells of one table row. EOL is the
// line ending of the template row, written as is: a last row without one
// stays without one.
type Cells struct {
	References  string
	Usage       string
	Input       string
	Description string
	EOL         string
}

// Line renders a full table row with output as the output cell. Pipes in
// the usage, input and output cells are escaped so a table splits them as
// one cell even inside code spans; the reference and description cells come
// from the template and only get their bare pipes escaped.
func Line(c Cells, output string) string {
	cells := []string{
		EscapeBarePipes(c.References),
		EscapePipes(c.Usage),
		EscapePipes(c.Input),
		EscapePipes(output),
		EscapeBarePipes(c.Description),
	}
	var b strings.Builder
	b.WriteString("|")
	for _, cell := range cells {
		if cell != "" {
			b.WriteString(" ")
			b.WriteString(cell)
		}
		b.WriteString(" |")
	}
	b.WriteString(c.EOL)
	return b.String()
}

// EscapePipes escapes every pipe in s.
func EscapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// EscapeBarePipes escapes the pipes of s not already preceded by a
// backslash.
func EscapeBarePipes(s string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Outcome renders the result of running a parser on input.
func Outcome[I parsec.Input, O any](input, rest I, value O, err error) (string, error) {
	if err == nil {
		var b strings.Builder
		b.WriteString("Result: ")
		b.WriteString(Code(Debug(value)))
		b.WriteString("<br>")
		if len(rest) == 0 {
			b.WriteString("No remainder")
		} else {
			b.WriteString("Remainder: ")
			b.WriteString(Code(Debug(rest)))
		}
		return b.String(), nil
	}

	var incomplete *parsec.Incomplete
	if errors.As(err, &incomplete) {
		if incomplete.Needed == 0 {
			return "Incomplete, needed: unknown", nil
		}
		return fmt.Sprintf("Incomplete, needed: %d items", incomplete.Needed), nil
	}

	var perr *parsec.Error
	if errors.As(err, &perr) {
		offset, oerr := Offset(input, perr.Input)
		if oerr != nil {
			return "", fmt.Errorf("%s %s: %w", perr.Severity, perr.Kind, oerr)
		}
		return fmt.Sprintf("%s at offset %d: %s", perr.Severity, offset, Code(perr.Kind.String())), nil
	}
	return "", fmt.Errorf("unsupported parser error %T: %v", err, err)
}

// Row renders one example row to w. A location that does not lie inside
// input is returned as an error wrapping ErrNotSubspan.
func Row[I parsec.Input, O any](w io.Writer, c Cells, input, rest I, value O, err error) error {
	out, ferr := Outcome(input, rest, value, err)
	if ferr != nil {
		return fmt.Errorf("row %s: %w", c.Usage, ferr)
	}
	_, werr := io.WriteString(w, Line(c, out))
	return werr
}
