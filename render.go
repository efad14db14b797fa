package main

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/doc"
	"go/format"
	"go/token"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
	"github.com/agentflare-ai/go-cheatsheet/internal/segment"
	"github.com/agentflare-ai/go-cheatsheet/internal/table"
)

// refStatus is one line of the check-refs report.
type refStatus struct {
	ref       reference.Reference
	importPth string
	kind      string
	signature string
	summary   string
	problem   string
}

// collectReferences returns every distinct reference of the template in
// order of first appearance.
func collectReferences(src string, opts segment.Options, resolver *reference.Resolver) ([]reference.Reference, error) {
	seen := make(map[reference.Reference]bool)
	var refs []reference.Reference
	x := &table.Extractor{Resolver: resolver}
	for c, err := range segment.Segment(src, opts) {
		if err != nil {
			return nil, err
		}
		if c.Kind != segment.Text {
			continue
		}
		tables, _, err := x.Extract(src, c.Offset, c.Offset+len(c.Text))
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			for _, row := range t.Rows {
				for _, ref := range row.References {
					if !seen[ref] {
						seen[ref] = true
						refs = append(refs, ref)
					}
				}
			}
		}
	}
	return refs, nil
}

// lookupReferences loads each referenced package once, from dir, and finds
// the documented symbol in it.
func lookupReferences(ctx context.Context, dir string, resolver *reference.Resolver, refs []reference.Reference) ([]refStatus, error) {
	type loaded struct {
		pkg *doc.Package
		fs  *token.FileSet
		err error
	}
	cache := make(map[string]loaded)
	statuses := make([]refStatus, 0, len(refs))
	for _, ref := range refs {
		path := resolver.ImportPath(ref)
		l, ok := cache[path]
		if !ok {
			pkgInfo, err := loadPackage(ctx, dir, path)
			if err == nil {
				l.pkg, l.err = doc.NewFromFiles(pkgInfo.Fset, pkgInfo.Syntax, pkgInfo.PkgPath)
				l.fs = pkgInfo.Fset
			} else {
				l.err = err
			}
			cache[path] = l
		}
		st := refStatus{ref: ref, importPth: path}
		if l.err != nil {
			st.problem = l.err.Error()
			statuses = append(statuses, st)
			continue
		}
		r := &symbolRenderer{pkg: l.pkg, fileset: l.fs}
		if !r.describe(&st) {
			st.problem = fmt.Sprintf("no symbol %s in %s", ref.Symbol, path)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func loadPackage(ctx context.Context, dir, pattern string) (*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedFiles |
			packages.NeedSyntax | packages.NeedModule | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages matched %q", pattern)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("%s", pkg.Errors[0])
	}
	return pkg, nil
}

// packageNames maps every package under base to its declared name.
func packageNames(ctx context.Context, dir, base string) (map[string]string, error) {
	cfg := &packages.Config{Context: ctx, Dir: dir, Mode: packages.NeedName}
	pkgs, err := packages.Load(cfg, base+"/...")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(pkgs))
	for _, pkg := range pkgs {
		if pkg.Name != "" {
			names[pkg.PkgPath] = pkg.Name
		}
	}
	return names, nil
}

// renderReport writes the statuses as a Markdown table and returns the
// references that could not be resolved.
func renderReport(w io.Writer, statuses []refStatus) []string {
	var missing []string
	fmt.Fprintf(w, "| reference | kind | declaration | summary |\n|---|---|---|---|\n")
	for _, st := range statuses {
		name := st.ref.Markdown()
		if st.problem != "" {
			missing = append(missing, st.ref.Module+reference.ModuleSeparator+st.ref.Symbol)
			fmt.Fprintf(w, "| %s | missing | | %s |\n", name, cell(st.problem))
			continue
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n", name, st.kind, cell(codeSpan(st.signature)), cell(st.summary))
	}
	sort.Strings(missing)
	return missing
}

// cell makes s safe inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	return "`" + strings.ReplaceAll(s, "`", "'") + "`"
}

// renderTerminal styles markdown for a terminal of the given width.
func renderTerminal(markdown []byte, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(string(markdown))
}

// symbolRenderer describes declarations of one documented package.
type symbolRenderer struct {
	pkg     *doc.Package
	fileset *token.FileSet
}

// describe fills kind, signature and summary of st. It reports whether the
// symbol exists.
func (r *symbolRenderer) describe(st *refStatus) bool {
	symbol := st.ref.Symbol
	for _, t := range r.pkg.Types {
		if t.Name == symbol {
			st.kind = "type"
			st.signature = r.typeSignature(t)
			st.summary = r.summaryText(t.Doc)
			return true
		}
		for _, f := range t.Funcs {
			if f.Name == symbol {
				r.describeFunc(st, f)
				return true
			}
		}
		if r.describeValues(st, t.Consts, "const") || r.describeValues(st, t.Vars, "var") {
			return true
		}
	}
	for _, f := range r.pkg.Funcs {
		if f.Name == symbol {
			r.describeFunc(st, f)
			return true
		}
	}
	return r.describeValues(st, r.pkg.Consts, "const") || r.describeValues(st, r.pkg.Vars, "var")
}

func (r *symbolRenderer) describeFunc(st *refStatus, f *doc.Func) {
	st.kind = "func"
	st.signature = r.signature(f.Decl)
	st.summary = r.summaryText(f.Doc)
}

func (r *symbolRenderer) describeValues(st *refStatus, values []*doc.Value, kind string) bool {
	for _, v := range values {
		for _, n := range v.Names {
			if n == st.ref.Symbol {
				st.kind = kind
				st.signature = kind + " " + n
				st.summary = r.summaryText(v.Doc)
				return true
			}
		}
	}
	return false
}

func (r *symbolRenderer) typeSignature(t *doc.Type) string {
	if t.Decl == nil {
		return "type " + t.Name
	}
	for _, spec := range t.Decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok || ts.Name.Name != t.Name {
			continue
		}
		head := "type " + t.Name
		if ts.TypeParams != nil {
			head += "[" + r.fieldList(ts.TypeParams) + "]"
		}
		switch ts.Type.(type) {
		case *ast.StructType:
			return head + " struct"
		case *ast.InterfaceType:
			return head + " interface"
		default:
			return head + " " + r.formatNode(ts.Type)
		}
	}
	return "type " + t.Name
}

func (r *symbolRenderer) fieldList(fl *ast.FieldList) string {
	parts := make([]string, 0, len(fl.List))
	for _, f := range fl.List {
		parts = append(parts, r.formatNode(f))
	}
	return strings.Join(parts, ", ")
}

func (r *symbolRenderer) formatNode(node ast.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, r.fileset, node); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func (r *symbolRenderer) signature(decl *ast.FuncDecl) string {
	if decl == nil || decl.Type == nil {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteString("func ")
	buf.WriteString(decl.Name.Name)
	var typ bytes.Buffer
	_ = format.Node(&typ, r.fileset, decl.Type)
	sig := strings.TrimPrefix(typ.String(), "func")
	buf.WriteString(strings.TrimSpace(sig))
	return strings.TrimSpace(buf.String())
}

// summaryText returns the first sentence of a doc comment on one line.
func (r *symbolRenderer) summaryText(text string) string {
	md := strings.TrimSpace(text)
	if md == "" {
		return ""
	}
	md = strings.ReplaceAll(md, "\n", " ")
	if idx := strings.Index(md, ". "); idx >= 0 {
		return strings.TrimSpace(md[:idx+1])
	}
	return strings.TrimSpace(md)
}
