// Package assemble folds the components of a cheatsheet template into a Go
// program that prints the finished document, plus one runnable unit per Go
// code block.
package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/agentflare-ai/go-cheatsheet/internal/ledger"
	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
	"github.com/agentflare-ai/go-cheatsheet/internal/segment"
	"github.com/agentflare-ai/go-cheatsheet/internal/synth"
	"github.com/agentflare-ai/go-cheatsheet/internal/table"
)

// ErrNoTable is returned for templates without a single example table.
var ErrNoTable = errors.New("no example table found")

// Options configure a build.
type Options struct {
	Segment  segment.Options
	Resolver *reference.Resolver
	// RenderPath is the import path of the row renderer used by the
	// generated program.
	RenderPath string
	// Modules ending in ExcludeSuffix or starting with ExcludePrefix stay
	// out of the shared import list.
	ExcludeSuffix string
	ExcludePrefix string
	Logger        *zap.Logger
}

// File is a generated source file.
type File struct {
	Name string
	Data []byte
}

// Unit is a runnable code block, laid out as its own main package.
type Unit struct {
	Name   string
	Line   int
	Files  []File
	Source string
}

// Result is everything a build produces before execution.
type Result struct {
	// Program prints the assembled document to stdout when run.
	Program []File
	// Imports is the shared import declaration; Conflicts lists the names
	// left out of it.
	Imports   string
	Conflicts []string
	Units     []Unit
	Tables    int
	Rows      int
}

// state is threaded through the fold over components.
type state struct {
	src      string
	opts     Options
	log      *zap.Logger
	synth    *synth.Synthesizer
	ledger   *ledger.Ledger
	steps    []step
	rows     []File
	blocks   []segment.Component
	previous []reference.Reference
	tables   int
	nrows    int
}

// step is either literal document text or a call of a generated row function.
type step struct {
	text string
	fn   string
}

// Build turns src into a program and its code-block units. It fails on the
// first malformed component; nothing is returned in that case.
func Build(src string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Resolver == nil {
		return nil, errors.New("assemble: no reference resolver")
	}
	st := &state{
		src:  src,
		opts: opts,
		log:  log,
		synth: &synth.Synthesizer{
			Resolver:   opts.Resolver,
			Package:    "main",
			RenderPath: opts.RenderPath,
		},
		ledger: ledger.New(opts.ExcludeSuffix, opts.ExcludePrefix),
	}

	for c, err := range segment.Segment(src, opts.Segment) {
		if err != nil {
			return nil, err
		}
		if err := st.component(c); err != nil {
			return nil, err
		}
	}
	if st.tables == 0 {
		return nil, ErrNoTable
	}

	specs := st.ledger.Finalize()
	decl, err := ledger.Declaration(specs)
	if err != nil {
		return nil, fmt.Errorf("import declaration: %w", err)
	}
	mainFile, err := st.program()
	if err != nil {
		return nil, err
	}
	res := &Result{
		Program:   append([]File{mainFile}, st.rows...),
		Imports:   decl,
		Conflicts: st.ledger.Conflicts(),
		Tables:    st.tables,
		Rows:      st.nrows,
	}
	for i, block := range st.blocks {
		u, err := st.unit(i+1, block, decl)
		if err != nil {
			return nil, err
		}
		res.Units = append(res.Units, u)
	}
	log.Info("assembled template",
		zap.Int("tables", res.Tables),
		zap.Int("rows", res.Rows),
		zap.Int("units", len(res.Units)),
		zap.Int("imports", len(specs)),
		zap.Strings("conflicts", res.Conflicts))
	return res, nil
}

func (st *state) emit(text string) {
	if text == "" {
		return
	}
	if n := len(st.steps); n > 0 && st.steps[n-1].fn == "" {
		st.steps[n-1].text += text
		return
	}
	st.steps = append(st.steps, step{text: text})
}

func (st *state) component(c segment.Component) error {
	if c.Kind == segment.CodeBlock {
		st.emit(c.Markdown())
		if c.Runnable {
			st.blocks = append(st.blocks, c)
		}
		return nil
	}

	x := &table.Extractor{Resolver: st.opts.Resolver}
	tables, remainder, err := x.Extract(st.src, c.Offset, c.Offset+len(c.Text))
	if err != nil {
		return err
	}
	for _, t := range tables {
		st.tables++
		st.emit(t.Preamble)
		for _, row := range t.Rows {
			if err := st.row(row); err != nil {
				return err
			}
		}
	}
	st.emit(remainder)
	return nil
}

func (st *state) row(row table.Row) error {
	refs := row.References
	if len(refs) == 0 {
		if st.previous == nil {
			line, col := segment.Position(st.src, row.Offset)
			return &table.ParseError{Offset: row.Offset, Line: line, Column: col,
				Msg: "row has no references and no previous row to inherit from"}
		}
		refs = st.previous
	}
	st.previous = refs
	st.nrows++

	for _, ref := range refs {
		name, spec := st.opts.Resolver.Import(ref)
		st.ledger.Record(ref.Module, name, spec)
	}

	if !row.Runnable() {
		st.emit(synth.StaticLine(refs, row.Description, row.EOL))
		return nil
	}

	fn := fmt.Sprintf("row%04d", st.nrows)
	data, err := st.synth.File(fn, synth.Row{
		References:  refs,
		Usage:       row.Usage,
		Input:       row.Input,
		Description: row.Description,
		EOL:         row.EOL,
	})
	if err != nil {
		line, col := segment.Position(st.src, row.Offset)
		return fmt.Errorf("%d:%d: %w", line, col, err)
	}
	st.log.Debug("synthesized row", zap.String("func", fn), zap.String("usage", row.Usage))
	st.rows = append(st.rows, File{Name: fn + ".go", Data: data})
	st.steps = append(st.steps, step{fn: fn})
	return nil
}

// program renders main.go, which runs every step in order.
func (st *state) program() (File, error) {
	var b bytes.Buffer
	b.WriteString("// Code generated by go-cheatsheet. DO NOT EDIT.\n\npackage main\n\n")
	b.WriteString("import (\n\t\"bufio\"\n\t\"fmt\"\n\t\"io\"\n\t\"os\"\n)\n\n")
	b.WriteString("func text(s string) func(io.Writer) error {\n")
	b.WriteString("\treturn func(w io.Writer) error {\n\t\t_, err := io.WriteString(w, s)\n\t\treturn err\n\t}\n}\n\n")
	b.WriteString("var steps = []func(io.Writer) error{\n")
	for _, s := range st.steps {
		if s.fn != "" {
			fmt.Fprintf(&b, "\t%s,\n", s.fn)
			continue
		}
		fmt.Fprintf(&b, "\ttext(%s),\n", strconv.Quote(s.text))
	}
	b.WriteString("}\n\n")
	b.WriteString(`func main() {
	w := bufio.NewWriter(os.Stdout)
	for _, step := range steps {
		if err := step(w); err != nil {
			fmt.Fprintln(os.Stderr, "cheatsheet:", err)
			os.Exit(1)
		}
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "cheatsheet:", err)
		os.Exit(1)
	}
}
`)
	out, err := format.Source(b.Bytes())
	if err != nil {
		return File{}, fmt.Errorf("format program: %w", err)
	}
	return File{Name: "main.go", Data: out}, nil
}

// unitTest runs the example's main and fails on a panic.
const unitTest = `// Code generated by go-cheatsheet. DO NOT EDIT.

package main

import "testing"

func TestExample(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("example panicked: %v", r)
		}
	}()
	main()
}
`

// unit lays out a code block as a main package. Blocks without a package
// clause become the body of main and may use the shared imports.
func (st *state) unit(n int, block segment.Component, decl string) (Unit, error) {
	line, _ := segment.Position(st.src, block.Offset)
	name := fmt.Sprintf("block%03d", n)
	code := block.Code
	if !hasPackageClause(code) {
		var b strings.Builder
		b.WriteString("package main\n\n")
		b.WriteString(decl)
		b.WriteString("\nfunc main() {\n")
		b.WriteString(code)
		b.WriteString("}\n")
		out, err := imports.Process("main.go", []byte(b.String()), &imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		})
		if err != nil {
			return Unit{}, fmt.Errorf("code block at line %d: %w", line, err)
		}
		code = string(out)
	}
	st.log.Debug("registered code block", zap.String("unit", name), zap.Int("line", line))
	return Unit{
		Name:   name,
		Line:   line,
		Source: block.Code,
		Files: []File{
			{Name: "main.go", Data: []byte(code)},
			{Name: "main_test.go", Data: []byte(unitTest)},
		},
	}, nil
}

func hasPackageClause(code string) bool {
	_, err := parser.ParseFile(token.NewFileSet(), "block.go", code, parser.PackageClauseOnly)
	return err == nil
}
