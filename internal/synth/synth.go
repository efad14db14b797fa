// Package synth turns cheatsheet rows into Go source that runs the example
// and prints its rendered table row.
package synth

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
	"github.com/agentflare-ai/go-cheatsheet/pkg/render"
)

// Bindings are the variables every example assigns: the unparsed remainder,
// the produced value and the error.
const Bindings = "rest, value, err"

// InputVar holds the normalized input literal inside a generated function.
const InputVar = "input"

// Shape is the way a usage is turned into a statement.
type Shape int

const (
	// Binding usages are a parser expression; the generated code calls it
	// and binds the results.
	Binding Shape = iota
	// Declaring usages already assign the bindings themselves.
	Declaring
)

func (s Shape) String() string {
	if s == Declaring {
		return "declaring"
	}
	return "binding"
}

// SplitImports separates the leading import declarations of a usage, e.g.
// `import "strings"; combinator.Map(character.Alpha1, strings.ToUpper)`.
// Each returned spec is an import spec as it appears in an import block.
func SplitImports(usage string) (specs []string, call string, err error) {
	src := []byte(usage)
	fset := token.NewFileSet()
	file := fset.AddFile("usage", -1, len(src))
	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, src, errs.Add, 0)

	start := 0
	for {
		_, tok, _ := s.Scan()
		if tok != token.IMPORT {
			break
		}
		pos, tok, lit := s.Scan()
		name := ""
		switch tok {
		case token.IDENT:
			name = lit
			pos, tok, lit = s.Scan()
		case token.PERIOD:
			name = "."
			pos, tok, lit = s.Scan()
		}
		if tok != token.STRING {
			return nil, "", fmt.Errorf("usage: import path expected at offset %d", file.Offset(pos))
		}
		spec := lit
		if name != "" {
			spec = name + " " + lit
		}
		pos, tok, _ = s.Scan()
		if tok != token.SEMICOLON {
			return nil, "", fmt.Errorf("usage: ';' expected after import %s", lit)
		}
		specs = append(specs, spec)
		start = min(file.Offset(pos)+1, len(src))
	}
	if errs.Len() > 0 {
		return nil, "", fmt.Errorf("usage: %w", errs.Err())
	}
	return specs, strings.TrimSpace(usage[start:]), nil
}

// NormalizeInput rewrites the two literal forms Go cannot pass to a parser
// directly: byte strings b"..." become []byte("...") and array references
// &[N]T{...} are sliced.
func NormalizeInput(input string) string {
	switch {
	case strings.HasPrefix(input, `b"`), strings.HasPrefix(input, "b`"):
		return "[]byte(" + input[1:] + ")"
	case strings.HasPrefix(input, "&["):
		return "(" + input + ")[:]"
	}
	return input
}

// Classify decides the shape of call applied to the input variable.
func Classify(call string) (Shape, error) {
	if !strings.HasPrefix(call, "rest") {
		expr, err := parser.ParseExpr(call + "(" + InputVar + ")")
		if err != nil {
			return 0, fmt.Errorf("usage %q: %w", call, err)
		}
		if _, ok := expr.(*ast.CallExpr); !ok {
			return 0, fmt.Errorf("usage %q is not callable", call)
		}
		return Binding, nil
	}

	src := "package p\nfunc _() {\n" + call + "(" + InputVar + ")\n}\n"
	f, err := parser.ParseFile(token.NewFileSet(), "usage.go", src, 0)
	if err != nil {
		return 0, fmt.Errorf("usage %q: %w", call, err)
	}
	body := f.Decls[0].(*ast.FuncDecl).Body.List
	if len(body) != 1 {
		return 0, fmt.Errorf("usage %q must be a single statement", call)
	}
	switch stmt := body[0].(type) {
	case *ast.ExprStmt:
		if _, ok := stmt.X.(*ast.CallExpr); ok {
			return Binding, nil
		}
	case *ast.AssignStmt:
		if stmt.Tok == token.DEFINE && len(stmt.Rhs) == 1 && bindsResults(stmt.Lhs) {
			return Declaring, nil
		}
		return 0, fmt.Errorf("usage %q must declare exactly %s", call, Bindings)
	}
	return 0, fmt.Errorf("usage %q is not callable", call)
}

func bindsResults(lhs []ast.Expr) bool {
	want := strings.Split(Bindings, ", ")
	if len(lhs) != len(want) {
		return false
	}
	for i, e := range lhs {
		id, ok := e.(*ast.Ident)
		if !ok || id.Name != want[i] {
			return false
		}
	}
	return true
}

// Row is a runnable example with its references already carried forward.
type Row struct {
	References  []reference.Reference
	Usage       string
	Input       string
	Description string
	EOL         string
}

// Synthesizer writes one Go file per row.
type Synthesizer struct {
	Resolver *reference.Resolver
	// Package is the package clause of the generated files.
	Package string
	// RenderPath imports the row renderer.
	RenderPath string
}

// Statement returns the Go statement running usage on the input variable.
func Statement(usage string) (string, error) {
	shape, err := Classify(usage)
	if err != nil {
		return "", err
	}
	call := usage + "(" + InputVar + ")"
	if shape == Declaring {
		return call, nil
	}
	return Bindings + " := " + call, nil
}

// File returns the gofmt'd source of a file declaring
// `func <fn>(w io.Writer) error`, which runs the row and writes its table
// line to w. Imports the example does not use are pruned.
func (s *Synthesizer) File(fn string, row Row) ([]byte, error) {
	if strings.TrimSpace(row.Usage) == "" || strings.TrimSpace(row.Input) == "" {
		return nil, fmt.Errorf("%s: a runnable row needs both usage and input", fn)
	}
	specs, call, err := SplitImports(row.Usage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	stmt, err := Statement(call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	seen := map[string]bool{`"io"`: true}
	var imps []string
	add := func(spec string) {
		if !seen[spec] {
			seen[spec] = true
			imps = append(imps, spec)
		}
	}
	add(fmt.Sprintf("%q", s.RenderPath))
	for _, ref := range row.References {
		_, spec := s.Resolver.Import(ref)
		add(spec)
	}
	for _, spec := range specs {
		add(spec)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by go-cheatsheet. DO NOT EDIT.\n\npackage %s\n\n", s.Package)
	b.WriteString("import (\n\t\"io\"\n\n")
	for _, spec := range imps {
		fmt.Fprintf(&b, "\t%s\n", spec)
	}
	b.WriteString(")\n\n")
	fmt.Fprintf(&b, "func %s(w io.Writer) error {\n", fn)
	fmt.Fprintf(&b, "\t%s := %s\n", InputVar, NormalizeInput(row.Input))
	fmt.Fprintf(&b, "\t%s\n", stmt)
	b.WriteString("\treturn render.Row(w, render.Cells{\n")
	fmt.Fprintf(&b, "\t\tReferences: %q,\n", reference.Markdown(row.References))
	fmt.Fprintf(&b, "\t\tUsage: %q,\n", render.Code(row.Usage))
	fmt.Fprintf(&b, "\t\tInput: %q,\n", render.Code(row.Input))
	fmt.Fprintf(&b, "\t\tDescription: %q,\n", row.Description)
	fmt.Fprintf(&b, "\t\tEOL: %q,\n", row.EOL)
	fmt.Fprintf(&b, "\t}, %s, %s)\n}\n", InputVar, Bindings)

	out, err := imports.Process(fn+".go", b.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w\n%s", fn, err, b.Bytes())
	}
	return out, nil
}

// StaticLine renders a row without an example.
func StaticLine(refs []reference.Reference, description, eol string) string {
	return render.Line(render.Cells{
		References:  reference.Markdown(refs),
		Description: description,
		EOL:         eol,
	}, "")
}
