// Package table extracts the example tables of a cheatsheet template.
package table

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
	"github.com/agentflare-ai/go-cheatsheet/internal/segment"
)

// Header introduces every example table. HeaderCRLF is the same header in a
// template saved with CRLF line endings.
const (
	Header     = "| reference | usage | input | output | description |\n|---|---|---|---|---|\n"
	HeaderCRLF = "| reference | usage | input | output | description |\r\n|---|---|---|---|---|\r\n"
)

// findHeader returns the index and length of the first header in s.
func findHeader(s string) (int, int) {
	lf := strings.Index(s, Header)
	crlf := strings.Index(s, HeaderCRLF)
	if crlf >= 0 && (lf < 0 || crlf < lf) {
		return crlf, len(HeaderCRLF)
	}
	return lf, len(Header)
}

func isHeader(s string) bool {
	return strings.HasPrefix(s, Header) || strings.HasPrefix(s, HeaderCRLF)
}

// Row is one example. Usage and Input are either both present or both
// absent. An empty References list inherits the previous row's references.
type Row struct {
	Offset      int
	References  []reference.Reference
	Usage       string
	Input       string
	HasUsage    bool
	HasInput    bool
	Description string
	EOL         string
}

// Runnable reports whether the row carries an example to execute.
func (r Row) Runnable() bool { return r.HasUsage && r.HasInput }

// Table is the text since the previous table, header included, followed by
// its rows.
type Table struct {
	Preamble string
	Rows     []Row
}

// ParseError locates a malformed table in the template.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Extractor finds tables in template text.
type Extractor struct {
	Resolver *reference.Resolver
}

// Extract parses the tables of src[from:to]. Offsets and positions refer to
// src as a whole. The text after the last table is returned as remainder.
func (x *Extractor) Extract(src string, from, to int) ([]Table, string, error) {
	var tables []Table
	pos := from
	for {
		i, n := findHeader(src[pos:to])
		if i < 0 {
			break
		}
		bodyStart := pos + i + n
		t := Table{Preamble: src[pos:bodyStart]}
		p := bodyStart
		for {
			row, next, ok, err := x.parseRow(src, p, to)
			if err != nil {
				return nil, "", err
			}
			if !ok {
				break
			}
			t.Rows = append(t.Rows, row)
			p = next
		}
		if len(t.Rows) == 0 {
			return nil, "", parseError(src, bodyStart, "table has no rows")
		}
		tables = append(tables, t)
		pos = p
	}
	return tables, src[pos:to], nil
}

// parseRow parses the row starting at p. ok is false when the line is not a
// table row, which ends the current table.
func (x *Extractor) parseRow(src string, p, to int) (Row, int, bool, error) {
	if p >= to || src[p] != '|' || isHeader(src[p:to]) {
		return Row{}, p, false, nil
	}
	end, next, eol := lineEnd(src, p, to)
	line := src[p:end]
	cur := &cursor{src: src, line: line, base: p}

	refs, _, err := cur.plain()
	if err != nil {
		return Row{}, p, false, err
	}
	usage, hasUsage, err := cur.cell()
	if err != nil {
		return Row{}, p, false, err
	}
	input, hasInput, err := cur.cell()
	if err != nil {
		return Row{}, p, false, err
	}
	if _, _, err := cur.cell(); err != nil {
		return Row{}, p, false, err
	}
	desc, err := cur.last()
	if err != nil {
		return Row{}, p, false, err
	}
	if hasUsage != hasInput {
		return Row{}, p, false, parseError(src, p, "row must have both usage and input, or neither")
	}

	resolved, err := x.Resolver.ResolveList(refs)
	if err != nil {
		return Row{}, p, false, parseError(src, p, err.Error())
	}
	return Row{
		Offset:      p,
		References:  resolved,
		Usage:       usage,
		Input:       input,
		HasUsage:    hasUsage,
		HasInput:    hasInput,
		Description: desc,
		EOL:         eol,
	}, next, true, nil
}

func lineEnd(src string, p, to int) (end, next int, eol string) {
	nl := strings.IndexByte(src[p:to], '\n')
	if nl < 0 {
		return to, to, ""
	}
	end = p + nl
	next = end + 1
	if end > p && src[end-1] == '\r' {
		return end - 1, next, "\r\n"
	}
	return end, next, "\n"
}

// cursor walks the cells of one row line. The leading pipe has not been
// consumed yet when the cursor is created.
type cursor struct {
	src  string
	line string
	base int
	pos  int
}

func (c *cursor) errorf(format string, args ...any) error {
	return parseError(c.src, c.base+c.pos, fmt.Sprintf(format, args...))
}

func (c *cursor) skipSpaces() {
	for c.pos < len(c.line) && (c.line[c.pos] == ' ' || c.line[c.pos] == '\t') {
		c.pos++
	}
}

// open consumes the pipe that starts a cell.
func (c *cursor) open() error {
	c.skipSpaces()
	if c.pos >= len(c.line) || c.line[c.pos] != '|' {
		return c.errorf("expected '|'")
	}
	c.pos++
	return nil
}

// plain reads a cell without code spans.
func (c *cursor) plain() (string, bool, error) {
	if err := c.open(); err != nil {
		return "", false, err
	}
	return c.text()
}

// text reads up to the next pipe that is not escaped.
func (c *cursor) text() (string, bool, error) {
	j := nextPipe(c.line[c.pos:])
	if j < 0 {
		return "", false, c.errorf("missing cell")
	}
	text := strings.TrimSpace(c.line[c.pos : c.pos+j])
	c.pos += j
	return text, text != "", nil
}

// cell reads a cell that is either empty, plain text, or one code span.
func (c *cursor) cell() (string, bool, error) {
	if err := c.open(); err != nil {
		return "", false, err
	}
	c.skipSpaces()
	if c.pos < len(c.line) && c.line[c.pos] == '`' {
		content, end, ok := CodeSpan(c.line, c.pos)
		if !ok {
			return "", false, c.errorf("unterminated code span")
		}
		c.pos = end
		c.skipSpaces()
		if c.pos >= len(c.line) || c.line[c.pos] != '|' {
			return "", false, c.errorf("expected '|' after code span")
		}
		return unescapePipes(content), true, nil
	}
	text, ok, err := c.text()
	return unescapePipes(text), ok, err
}

func nextPipe(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// unescapePipes undoes the \| escaping a table cell needs, so usage and
// input reach the generated code as written.
func unescapePipes(s string) string {
	return strings.ReplaceAll(s, `\|`, "|")
}

// last reads the description: everything up to the final pipe of the line.
func (c *cursor) last() (string, error) {
	if err := c.open(); err != nil {
		return "", err
	}
	rest := c.line[c.pos:]
	j := strings.LastIndexByte(rest, '|')
	if j < 0 || strings.TrimSpace(rest[j+1:]) != "" {
		return "", c.errorf("missing closing '|'")
	}
	c.pos += j
	return strings.TrimSpace(rest[:j]), nil
}

// CodeSpan parses the code span opening at s[i]. The span closes at the next
// backtick run of exactly the opening length. One leading and one trailing
// space are stripped when both are present. end is the index after the
// closing run.
func CodeSpan(s string, i int) (content string, end int, ok bool) {
	n := run(s, i)
	if n == 0 {
		return "", i, false
	}
	j := i + n
	for k := j; k < len(s); {
		if s[k] != '`' {
			k++
			continue
		}
		m := run(s, k)
		if m == n {
			content = s[j:k]
			if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' {
				content = content[1 : len(content)-1]
			}
			return content, k + m, true
		}
		k += m
	}
	return "", i, false
}

func run(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

func parseError(src string, offset int, msg string) *ParseError {
	line, col := segment.Position(src, offset)
	return &ParseError{Offset: offset, Line: line, Column: col, Msg: msg}
}
