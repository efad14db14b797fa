// Package reference resolves the `module::Symbol` references of a cheatsheet
// row into import paths and documentation links.
package reference

import (
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// ModuleSeparator separates module path segments and the symbol.
	ModuleSeparator = "::"
	// Separator separates references inside one table cell.
	Separator = "<br>"
)

// Reference is a resolved documentation reference.
type Reference struct {
	Module string
	Symbol string
	URL    string
}

// Segments returns the module path split on ModuleSeparator.
func (r Reference) Segments() []string {
	if r.Module == "" {
		return nil
	}
	return strings.Split(r.Module, ModuleSeparator)
}

// Markdown renders the reference as `module::[Symbol](url)`.
func (r Reference) Markdown() string {
	link := fmt.Sprintf("[%s](%s)", r.Symbol, r.URL)
	if r.Module == "" {
		return link
	}
	return r.Module + ModuleSeparator + link
}

// Category distinguishes callables from type-like symbols.
type Category int

const (
	Callable Category = iota
	TypeLike
)

// CategoryOf applies the lower-case-means-function naming convention.
func CategoryOf(symbol string) Category {
	r, _ := utf8.DecodeRuneInString(symbol)
	if unicode.IsLower(r) {
		return Callable
	}
	return TypeLike
}

// Linker builds the documentation URL for a module path and symbol.
type Linker interface {
	URL(segments []string, symbol string) string
}

// PkgSite links to pkg.go.dev style documentation: Base is the URL of the
// documented module root, e.g. https://pkg.go.dev/example.com/lib.
type PkgSite struct {
	Base string
}

func (l PkgSite) URL(segments []string, symbol string) string {
	u := strings.TrimSuffix(l.Base, "/")
	for _, s := range segments {
		u += "/" + s
	}
	return u + "#" + symbol
}

// RustDoc reproduces the rustdoc layout: Base, each segment followed by a
// slash, then fn.<symbol>.html or struct.<symbol>.html depending on
// CategoryOf.
type RustDoc struct {
	Base string
}

func (l RustDoc) URL(segments []string, symbol string) string {
	var b strings.Builder
	b.WriteString(l.Base)
	for _, s := range segments {
		b.WriteString(s)
		b.WriteString("/")
	}
	if CategoryOf(symbol) == Callable {
		b.WriteString("fn.")
	} else {
		b.WriteString("struct.")
	}
	b.WriteString(symbol)
	b.WriteString(".html")
	return b.String()
}

// NewLinker returns the linker for style ("pkgsite" or "rustdoc").
func NewLinker(style, base string) (Linker, error) {
	switch style {
	case "", "pkgsite":
		return PkgSite{Base: base}, nil
	case "rustdoc":
		return RustDoc{Base: base}, nil
	default:
		return nil, fmt.Errorf("unknown link style %q", style)
	}
}

// Resolver turns raw references into Reference values and import specs.
// ImportBase is the Go import path an empty module path stands for.
//
// Names maps import paths to their declared package names. The name is the
// identifier an import binds, so it is what import conflicts are decided on.
// Paths missing from Names fall back to AssumedName, which can be wrong for
// packages whose name differs from their directory.
type Resolver struct {
	ImportBase string
	Linker     Linker
	Names      map[string]string
}

// Resolve splits raw into module path and symbol. It is pure: the same raw
// string always yields the same Reference.
func (r *Resolver) Resolve(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, fmt.Errorf("empty reference")
	}
	parts := strings.Split(raw, ModuleSeparator)
	symbol := parts[len(parts)-1]
	if symbol == "" {
		return Reference{}, fmt.Errorf("reference %q has no symbol", raw)
	}
	segments := parts[:len(parts)-1]
	return Reference{
		Module: strings.Join(segments, ModuleSeparator),
		Symbol: symbol,
		URL:    r.Linker.URL(segments, symbol),
	}, nil
}

// ResolveList resolves every reference of a cell. Empty entries are skipped,
// so an empty cell yields no references.
func (r *Resolver) ResolveList(cell string) ([]Reference, error) {
	var refs []Reference
	for _, raw := range strings.Split(cell, Separator) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ref, err := r.Resolve(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ImportPath returns the Go import path declaring ref.
func (r *Resolver) ImportPath(ref Reference) string {
	return path.Join(append([]string{r.ImportBase}, ref.Segments()...)...)
}

// Import returns the binding name and the import spec for ref, e.g.
// ("character", `"example.com/lib/character"`).
func (r *Resolver) Import(ref Reference) (name, spec string) {
	p := r.ImportPath(ref)
	if n, ok := r.Names[p]; ok && n != "" {
		return n, fmt.Sprintf("%q", p)
	}
	return AssumedName(p), fmt.Sprintf("%q", p)
}

// AssumedName guesses the package name of an import path the way goimports
// does: the last element, skipping a major version suffix, without a "go-"
// prefix and cut at the first character that cannot start an identifier.
func AssumedName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}); i >= 0 {
		base = base[:i]
	}
	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Markdown renders refs joined by Separator.
func Markdown(refs []Reference) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.Markdown()
	}
	return strings.Join(parts, Separator)
}
