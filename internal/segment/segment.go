// Package segment splits a cheatsheet template into text and fenced code
// blocks.
package segment

import (
	"fmt"
	"iter"
	"strings"
)

// Fence opens and closes a code block when it starts a line.
const Fence = "```"

// Kind tags a Component.
type Kind int

const (
	Text Kind = iota
	CodeBlock
)

func (k Kind) String() string {
	if k == CodeBlock {
		return "code"
	}
	return "text"
}

// Options name the snippet language. Code blocks tagged Lang or Alias are
// runnable; blocks tagged Ignore are shown as Lang but never run.
type Options struct {
	Lang   string
	Alias  string
	Ignore string
}

// DefaultOptions documents Go snippets.
func DefaultOptions() Options {
	return Options{Lang: "go", Alias: "golang", Ignore: "ignore"}
}

// Component is a contiguous region of the template.
type Component struct {
	Kind   Kind
	Offset int

	// Text holds the raw bytes of a Text component.
	Text string

	// Info is everything after the opening fence up to and including the
	// line ending, with an ignore tag already rewritten. Lang is its trimmed
	// form. Code is the block body without the fences.
	Info     string
	Lang     string
	Code     string
	Runnable bool
}

// Markdown returns the component as it appears in the output document.
func (c Component) Markdown() string {
	if c.Kind == Text {
		return c.Text
	}
	return Fence + c.Info + c.Code + Fence
}

// FenceError reports a code block that cannot be delimited.
type FenceError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *FenceError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Position converts a byte offset in src to a 1-based line and column.
func Position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}

// Segment lazily yields the components of src in order. Together they cover
// src without gaps or overlaps. Iteration stops after the first error.
func Segment(src string, opts Options) iter.Seq2[Component, error] {
	return func(yield func(Component, error) bool) {
		pos := 0
		for pos < len(src) {
			start := nextFence(src, pos)
			if start < 0 {
				yield(Component{Kind: Text, Offset: pos, Text: src[pos:]}, nil)
				return
			}
			if start > pos {
				if !yield(Component{Kind: Text, Offset: pos, Text: src[pos:start]}, nil) {
					return
				}
			}
			block, end, err := codeBlock(src, start, opts)
			if err != nil {
				yield(Component{}, err)
				return
			}
			if !yield(block, nil) {
				return
			}
			pos = end
		}
	}
}

// Split collects every component of src.
func Split(src string, opts Options) ([]Component, error) {
	var out []Component
	for c, err := range Segment(src, opts) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func codeBlock(src string, start int, opts Options) (Component, int, error) {
	infoStart := start + len(Fence)
	nl := strings.IndexByte(src[infoStart:], '\n')
	if nl < 0 {
		return Component{}, 0, fenceError(src, start, "code fence has no body")
	}
	info := src[infoStart : infoStart+nl+1]
	bodyStart := infoStart + nl + 1
	closing := nextFence(src, bodyStart)
	if closing < 0 {
		return Component{}, 0, fenceError(src, start, "unterminated code fence")
	}

	lang := strings.TrimSpace(info)
	c := Component{
		Kind:   CodeBlock,
		Offset: start,
		Info:   info,
		Lang:   lang,
		Code:   src[bodyStart:closing],
	}
	switch {
	case opts.Ignore != "" && lang == opts.Ignore:
		c.Info = strings.Replace(info, lang, opts.Lang, 1)
		c.Lang = opts.Lang
	case lang == opts.Lang || (opts.Alias != "" && lang == opts.Alias):
		c.Runnable = true
	}
	return c, closing + len(Fence), nil
}

func nextFence(src string, from int) int {
	for from <= len(src) {
		i := strings.Index(src[from:], Fence)
		if i < 0 {
			return -1
		}
		at := from + i
		if at == 0 || src[at-1] == '\n' {
			return at
		}
		from = at + 1
	}
	return -1
}

func fenceError(src string, offset int, msg string) *FenceError {
	line, col := Position(src, offset)
	return &FenceError{Offset: offset, Line: line, Column: col, Msg: msg}
}
