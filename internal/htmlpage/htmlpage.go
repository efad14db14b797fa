// Package htmlpage renders an assembled cheatsheet as a standalone HTML page
// with highlighted code and light and dark themes.
package htmlpage

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options select the page title and themes. Zero values pick defaults.
type Options struct {
	// Title is used when the document has no heading.
	Title      string
	LightStyle string
	DarkStyle  string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Cheatsheet"
	}
	if o.LightStyle == "" {
		o.LightStyle = "github"
	}
	if o.DarkStyle == "" {
		o.DarkStyle = "github-dark"
	}
	return o
}

const pageCSS = `body { max-width: 72rem; margin: 2rem auto; padding: 0 1rem; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.5; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: .3rem .6rem; vertical-align: top; }
code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 90%; }
pre.chroma { padding: 1rem; overflow: auto; border-radius: 6px; }
@media (prefers-color-scheme: dark) {
  body { background: #0d1117; color: #e6edf3; }
  a { color: #4493f8; }
  th, td { border-color: #30363d; }
}
`

// Render converts markdown to a complete HTML document.
func Render(markdown []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&codeRenderer{formatter: formatter}, 200)),
		),
	)

	doc := md.Parser().Parse(text.NewReader(markdown))
	title := Title(doc, markdown)
	if title == "" {
		title = opts.Title
	}

	var body bytes.Buffer
	if err := md.Renderer().Render(&body, markdown, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	css, err := themeCSS(formatter, opts.LightStyle, opts.DarkStyle)
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	page.WriteString("<meta name=\"color-scheme\" content=\"light dark\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&page, "<style>\n%s%s</style>\n", pageCSS, css)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Title returns the text of the first heading of doc.
func Title(doc ast.Node, source []byte) string {
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			title = strings.TrimSpace(string(h.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func themeCSS(f *chromahtml.Formatter, light, dark string) (string, error) {
	var b strings.Builder
	if err := f.WriteCSS(&b, lookupStyle(light)); err != nil {
		return "", fmt.Errorf("theme %s: %w", light, err)
	}
	var d strings.Builder
	if err := f.WriteCSS(&d, lookupStyle(dark)); err != nil {
		return "", fmt.Errorf("theme %s: %w", dark, err)
	}
	b.WriteString("@media (prefers-color-scheme: dark) {\n")
	b.WriteString(d.String())
	b.WriteString("}\n")
	return b.String(), nil
}

func lookupStyle(name string) *chroma.Style {
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

// codeRenderer highlights fenced code blocks with chroma.
type codeRenderer struct {
	formatter *chromahtml.Formatter
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}
	if err := r.highlight(w, string(n.Language(source)), code.String()); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func (r *codeRenderer) highlight(w io.Writer, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("highlight %s: %w", lang, err)
	}
	return r.formatter.Format(w, styles.Fallback, it)
}
