package synth

import (
	"go/parser"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
)

func TestSplitImports(t *testing.T) {
	tests := []struct {
		usage string
		specs []string
		call  string
	}{
		{`character.Alpha1`, nil, `character.Alpha1`},
		{`import "strings"; combinator.Map(character.Alpha1, strings.ToUpper)`,
			[]string{`"strings"`}, `combinator.Map(character.Alpha1, strings.ToUpper)`},
		{"import u \"unicode\";import \"strconv\"\nf(u.IsDigit)",
			[]string{`u "unicode"`, `"strconv"`}, `f(u.IsDigit)`},
		{`import . "strings"; f`, []string{`. "strings"`}, `f`},
	}
	for _, tt := range tests {
		specs, call, err := SplitImports(tt.usage)
		require.NoError(t, err, tt.usage)
		assert.Equal(t, tt.specs, specs, tt.usage)
		assert.Equal(t, tt.call, call, tt.usage)
	}

	_, _, err := SplitImports(`import strings; f`)
	assert.Error(t, err)
	_, _, err = SplitImports(`import "strings" f`)
	assert.Error(t, err)
}

func TestNormalizeInput(t *testing.T) {
	assert.Equal(t, `"abc"`, NormalizeInput(`"abc"`))
	assert.Equal(t, `[]byte("abc")`, NormalizeInput(`b"abc"`))
	assert.Equal(t, "[]byte(`a\"c`)", NormalizeInput("b`a\"c`"))
	assert.Equal(t, `(&[3]byte{1, 2, 3})[:]`, NormalizeInput(`&[3]byte{1, 2, 3}`))
	assert.Equal(t, `[]byte{1}`, NormalizeInput(`[]byte{1}`))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		usage string
		shape Shape
		fails bool
	}{
		{`character.Alpha1`, Binding, false},
		{`bytes.Tag("abc")`, Binding, false},
		{`rest, value, err := sequence.Pair(character.Alpha1, character.Digit1)`, Declaring, false},
		{`restOf(x)`, Binding, false},
		{`rest, err := f`, 0, true},
		{`a, b, c := f`, 0, true},
		{`x := f`, 0, true},
		{`f(`, 0, true},
		{`rest, value, err = f`, 0, true},
	}
	for _, tt := range tests {
		shape, err := Classify(tt.usage)
		if tt.fails {
			assert.Error(t, err, tt.usage)
			continue
		}
		require.NoError(t, err, tt.usage)
		assert.Equal(t, tt.shape, shape, tt.usage)
	}
}

func TestStatement(t *testing.T) {
	stmt, err := Statement(`character.Alpha1`)
	require.NoError(t, err)
	assert.Equal(t, `rest, value, err := character.Alpha1(input)`, stmt)

	stmt, err = Statement(`rest, value, err := multi.Many0(bytes.Tag("ab"))`)
	require.NoError(t, err)
	assert.Equal(t, `rest, value, err := multi.Many0(bytes.Tag("ab"))(input)`, stmt)
}

func newSynthesizer() *Synthesizer {
	return &Synthesizer{
		Resolver: &reference.Resolver{
			ImportBase: "example.com/lib",
			Linker:     reference.PkgSite{Base: "https://pkg.go.dev/example.com/lib"},
		},
		Package:    "main",
		RenderPath: "example.com/lib/render",
	}
}

func TestFile(t *testing.T) {
	s := newSynthesizer()
	refs, err := s.Resolver.ResolveList("character::Alpha1<br>combinator::Map<br>multi::Many0")
	require.NoError(t, err)

	src, err := s.File("row0001", Row{
		References:  refs,
		Usage:       `import "strings"; combinator.Map(character.Alpha1, strings.ToUpper)`,
		Input:       `b"abc1"`,
		Description: "upper-cases letters",
		EOL:         "\n",
	})
	require.NoError(t, err)
	code := string(src)

	_, perr := parser.ParseFile(token.NewFileSet(), "row0001.go", src, 0)
	require.NoError(t, perr, code)

	assert.Contains(t, code, "// Code generated by go-cheatsheet. DO NOT EDIT.")
	assert.Contains(t, code, "package main")
	assert.Contains(t, code, "func row0001(w io.Writer) error {")
	assert.Contains(t, code, `input := []byte("abc1")`)
	assert.Contains(t, code, `rest, value, err := combinator.Map(character.Alpha1, strings.ToUpper)(input)`)
	assert.Contains(t, code, `"example.com/lib/character"`)
	assert.Contains(t, code, `"strings"`)
	assert.Contains(t, code, `"example.com/lib/render"`)
	// Referenced but unused by the example.
	assert.NotContains(t, code, `"example.com/lib/multi"`)
	assert.Contains(t, code, `"character::[Alpha1](https://pkg.go.dev/example.com/lib/character#Alpha1)<br>combinator::[Map]`)
	assert.Contains(t, code, strconv.Quote("`b\"abc1\"`"))
}

func TestFileRejectsHalfRows(t *testing.T) {
	s := newSynthesizer()
	_, err := s.File("row0002", Row{Usage: "character.Alpha1"})
	assert.Error(t, err)
	_, err = s.File("row0003", Row{Usage: "x :=", Input: `"a"`})
	assert.Error(t, err)
}

func TestStaticLine(t *testing.T) {
	r := &reference.Resolver{Linker: reference.PkgSite{Base: "u"}}
	refs, err := r.ResolveList("a::B")
	require.NoError(t, err)
	assert.Equal(t, "| a::[B](u/a#B) | | | | static |\r\n", StaticLine(refs, "static", "\r\n"))
}
