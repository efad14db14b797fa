package assemble

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
	"github.com/agentflare-ai/go-cheatsheet/internal/segment"
	"github.com/agentflare-ai/go-cheatsheet/internal/table"
)

func options(t *testing.T) Options {
	return Options{
		Segment: segment.DefaultOptions(),
		Resolver: &reference.Resolver{
			ImportBase: "example.com/lib",
			Linker:     reference.PkgSite{Base: "https://pkg.go.dev/example.com/lib"},
		},
		RenderPath:    "example.com/lib/render",
		ExcludeSuffix: "streaming",
		ExcludePrefix: "bits",
		Logger:        zaptest.NewLogger(t),
	}
}

const template = "# Cheatsheet {x}\n\n" + table.Header +
	"| bytes::Tag | `bytes.Tag(\"ab\")` | `\"abc\"` | | matches a tag |\n" +
	"| | `bytes.Tag(\"x\")` | `\"abc\"` | | same reference |\n" +
	"| | | | | static row |\n" +
	"\n## Streaming\n\n" + table.Header +
	"| bytes::streaming::Tag | `streaming.Tag(\"ab\")` | `\"a\"` | | needs more |\n" +
	"| bytes::streaming::Tag<br>character::complete::Alpha1 | `streaming.Take[string](3)` | `\"ab\"` | | unknown |\n" +
	"| number::complete::U8 | `complete.U8` | `b\"\\x01\"` | | conflict |\n" +
	"\n```go\nfmt.Println(\"hi\")\n```\n\n```ignore\nnot run\n```\n\nThe end.\n"

func build(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Build(src, options(t))
	require.NoError(t, err)
	return res
}

// quoted returns s as it appears inside a Go string literal.
func quoted(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

func file(t *testing.T, files []File, name string) string {
	t.Helper()
	for _, f := range files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("no file %s", name)
	return ""
}

func TestBuildProgram(t *testing.T) {
	res := build(t, template)
	assert.Equal(t, 2, res.Tables)
	assert.Equal(t, 6, res.Rows)

	var names []string
	for _, f := range res.Program {
		names = append(names, f.Name)
	}
	want := []string{"main.go", "row0001.go", "row0002.go", "row0004.go", "row0005.go", "row0006.go"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("program files (-want +got):\n%s", diff)
	}

	main := file(t, res.Program, "main.go")
	assert.Contains(t, main, "// Code generated by go-cheatsheet. DO NOT EDIT.")
	assert.Contains(t, main, "text("+strconv.Quote("# Cheatsheet {x}\n\n"+table.Header)+"),")
	// The static row inherits the references of the row above it.
	staticRow := "| bytes::[Tag](https://pkg.go.dev/example.com/lib/bytes#Tag) | | | | static row |\n"
	assert.Contains(t, main, strconv.Quote(staticRow+"\n## Streaming\n\n"+table.Header))
	assert.Contains(t, main, quoted("```go\nfmt.Println(\"hi\")\n```"))
	assert.Contains(t, main, quoted("```go\nnot run\n```"))
	assert.Contains(t, main, "The end.")

	order := []string{"row0001,", "row0002,", "row0004,", "row0005,", "row0006,"}
	last := -1
	for _, fn := range order {
		i := strings.Index(main, fn)
		require.Greater(t, i, last, fn)
		last = i
	}

	carried := file(t, res.Program, "row0002.go")
	assert.Contains(t, carried, strconv.Quote("bytes::[Tag](https://pkg.go.dev/example.com/lib/bytes#Tag)"))
	assert.Contains(t, carried, `rest, value, err := bytes.Tag("x")(input)`)
	assert.Contains(t, carried, `"example.com/lib/bytes"`)

	pruned := file(t, res.Program, "row0005.go")
	assert.Contains(t, pruned, `"example.com/lib/bytes/streaming"`)
	assert.NotContains(t, pruned, `"example.com/lib/character/complete"`)

	conflicted := file(t, res.Program, "row0006.go")
	assert.Contains(t, conflicted, `"example.com/lib/number/complete"`)
	assert.Contains(t, conflicted, `input := []byte("\x01")`)
}

func TestBuildImports(t *testing.T) {
	res := build(t, template)
	// Two different packages bind "complete"; streaming is excluded.
	if diff := cmp.Diff([]string{"complete"}, res.Conflicts); diff != "" {
		t.Fatalf("conflicts (-want +got):\n%s", diff)
	}
	assert.Equal(t, "import (\n\t\"example.com/lib/bytes\"\n)\n", res.Imports)
}

func TestBuildConflictsOnDeclaredNames(t *testing.T) {
	opts := options(t)
	opts.Resolver.Names = map[string]string{
		"example.com/lib/text":      "parse",
		"example.com/lib/binary/v2": "parse",
		"example.com/lib/character": "character",
	}
	src := table.Header +
		"| text::Word | | | | one |\n" +
		"| binary::v2::U8 | | | | two |\n" +
		"| character::Alpha1 | | | | three |\n"
	res, err := Build(src, opts)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"parse"}, res.Conflicts); diff != "" {
		t.Fatalf("conflicts (-want +got):\n%s", diff)
	}
	assert.Equal(t, "import (\n\t\"example.com/lib/character\"\n)\n", res.Imports)
}

func TestBuildUnits(t *testing.T) {
	res := build(t, template)
	require.Len(t, res.Units, 1)
	u := res.Units[0]
	assert.Equal(t, "block001", u.Name)
	assert.Equal(t, 17, u.Line)
	assert.Equal(t, "fmt.Println(\"hi\")\n", u.Source)

	main := file(t, u.Files, "main.go")
	assert.Contains(t, main, "package main")
	assert.Contains(t, main, "func main() {")
	assert.Contains(t, main, `"fmt"`)
	assert.NotContains(t, main, `"example.com/lib/bytes"`)
	assert.Contains(t, file(t, u.Files, "main_test.go"), "func TestExample(t *testing.T)")
}

func TestBuildUnitUsesSharedImports(t *testing.T) {
	src := table.Header + "| bytes::Tag | | | | d |\n\n```go\nfmt.Println(bytes.Tag(\"a\"))\n```\n"
	res := build(t, src)
	require.Len(t, res.Units, 1)
	main := file(t, res.Units[0].Files, "main.go")
	assert.Contains(t, main, `"example.com/lib/bytes"`)
	assert.Contains(t, main, `"fmt"`)
}

func TestBuildKeepsLastRowWithoutLineEnding(t *testing.T) {
	src := "intro\n" + table.Header + "| a::B | | | | d |"
	res := build(t, src)
	main := file(t, res.Program, "main.go")
	want := "intro\n" + table.Header + "| a::[B](https://pkg.go.dev/example.com/lib/a#B) | | | | d |"
	assert.Contains(t, main, "text("+strconv.Quote(want)+"),")
}

func TestBuildCRLFTemplate(t *testing.T) {
	src := strings.ReplaceAll("intro\n"+table.Header+"| a::B | | | | d |\n\nend\n", "\n", "\r\n")
	res := build(t, src)
	assert.Equal(t, 1, res.Tables)
	want := "intro\r\n" + table.HeaderCRLF + "| a::[B](https://pkg.go.dev/example.com/lib/a#B) | | | | d |\r\n\r\nend\r\n"
	assert.Contains(t, file(t, res.Program, "main.go"), "text("+strconv.Quote(want)+"),")
}

func TestBuildKeepsPackageClause(t *testing.T) {
	src := table.Header + "| a::B | | | | d |\n\n```go\npackage main\n\nfunc main() {}\n```\n"
	res := build(t, src)
	require.Len(t, res.Units, 1)
	assert.Equal(t, "package main\n\nfunc main() {}\n", file(t, res.Units[0].Files, "main.go"))
}

func TestBuildErrors(t *testing.T) {
	t.Run("no table", func(t *testing.T) {
		_, err := Build("just prose\n", options(t))
		assert.ErrorIs(t, err, ErrNoTable)
	})
	t.Run("first row without references", func(t *testing.T) {
		_, err := Build("x\n"+table.Header+"| | `f` | `\"a\"` | | d |\n", options(t))
		var pe *table.ParseError
		require.True(t, errors.As(err, &pe), "got %v", err)
		assert.Equal(t, 4, pe.Line)
		assert.Contains(t, pe.Msg, "inherit")
	})
	t.Run("usage without input", func(t *testing.T) {
		_, err := Build(table.Header+"| a::B | `f` | | | d |\n", options(t))
		var pe *table.ParseError
		require.True(t, errors.As(err, &pe), "got %v", err)
	})
	t.Run("unterminated fence", func(t *testing.T) {
		_, err := Build(table.Header+"| a::B | | | | d |\n```go\nx\n", options(t))
		var fe *segment.FenceError
		require.True(t, errors.As(err, &fe), "got %v", err)
		assert.Equal(t, 4, fe.Line)
	})
	t.Run("bad usage", func(t *testing.T) {
		_, err := Build(table.Header+"| a::B | `x :=` | `\"a\"` | | d |\n", options(t))
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "3:1: "), err.Error())
	})
}

func TestBuildIsDeterministic(t *testing.T) {
	a := build(t, template)
	b := build(t, template)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("builds differ (-first +second):\n%s", diff)
	}
}
