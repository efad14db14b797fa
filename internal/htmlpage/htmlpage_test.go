package htmlpage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-cheatsheet/pkg/render"
)

const doc = "# Parsers & Combinators\n\n" +
	"| reference | usage | input | output | description |\n|---|---|---|---|---|\n" +
	"| bytes::[Tag](https://pkg.go.dev/x/bytes#Tag) | `bytes.Tag(\"ab\")` | `\"abc\"` | Result: `\"ab\"`<br>Remainder: `\"c\"` | tag |\n\n" +
	"```go\nfmt.Println(\"hi\")\n```\n"

func TestRender(t *testing.T) {
	out, err := Render([]byte(doc), Options{})
	require.NoError(t, err)
	page := string(out)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Parsers &amp; Combinators</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, `<a href="https://pkg.go.dev/x/bytes#Tag">Tag</a>`)
	assert.Contains(t, page, "<br>")
	assert.Contains(t, page, `class="chroma"`)
	assert.Contains(t, page, "@media (prefers-color-scheme: dark)")
	assert.Contains(t, page, ".chroma")
	assert.True(t, strings.HasSuffix(page, "</html>\n"))
}

func TestRenderFallbackTitle(t *testing.T) {
	out, err := Render([]byte("no heading\n\n```\nplain\n```\n"), Options{Title: "Mine"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Mine</title>")
	assert.Contains(t, string(out), "plain")
}

func TestRenderUnknownStyle(t *testing.T) {
	_, err := Render([]byte("# x\n"), Options{LightStyle: "no-such-style", DarkStyle: "monokai"})
	require.NoError(t, err)
}

func TestRenderRowWithPipes(t *testing.T) {
	input := "a|b"
	out, err := render.Outcome(input, "", input, nil)
	require.NoError(t, err)
	row := render.Line(render.Cells{
		References:  "bytes::[Rest](u)",
		Usage:       render.Code(`func(s string) bool { return s == "a" || s == "b" }`),
		Input:       render.Code(`"a|b"`),
		Description: "keeps every cell",
		EOL:         "\n",
	}, out)
	md := "| reference | usage | input | output | description |\n|---|---|---|---|---|\n" + row

	page, err := Render([]byte(md), Options{})
	require.NoError(t, err)
	body := string(page)
	assert.Equal(t, 5, strings.Count(body, "<td"), body)
	assert.Contains(t, body, "<td>keeps every cell</td>")
	assert.Contains(t, body, "a|b")
	assert.Contains(t, body, "||")
}
