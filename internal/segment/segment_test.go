package segment

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func join(cs []Component) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(c.Markdown())
	}
	return b.String()
}

func TestSplitCoversInput(t *testing.T) {
	src := "# Title\n\n```go\npackage main\n\nfunc main() {}\n```\n\ntext `inline ``` code`\n\n```sh\nls\n```\n"
	cs, err := Split(src, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, cs, 5)

	assert.Equal(t, Text, cs[0].Kind)
	assert.Equal(t, "# Title\n\n", cs[0].Text)

	assert.Equal(t, CodeBlock, cs[1].Kind)
	assert.Equal(t, "go", cs[1].Lang)
	assert.Equal(t, "package main\n\nfunc main() {}\n", cs[1].Code)
	assert.True(t, cs[1].Runnable)

	assert.Equal(t, Text, cs[2].Kind)
	assert.Contains(t, cs[2].Text, "inline ``` code")

	assert.Equal(t, "sh", cs[3].Lang)
	assert.False(t, cs[3].Runnable)

	assert.Equal(t, "\n", cs[4].Text)
	assert.Equal(t, src, join(cs))

	offset := 0
	for _, c := range cs {
		assert.Equal(t, offset, c.Offset)
		offset += len(c.Markdown())
	}
}

func TestIgnoreTagIsRewritten(t *testing.T) {
	src := "```ignore\nx := 1\n```\n```golang\nfmt.Println()\n```"
	cs, err := Split(src, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, cs, 3)

	assert.Equal(t, "go", cs[0].Lang)
	assert.Equal(t, "go\n", cs[0].Info)
	assert.False(t, cs[0].Runnable)
	assert.Equal(t, "```go\nx := 1\n```", cs[0].Markdown())

	assert.True(t, cs[2].Runnable)
	assert.Equal(t, "golang", cs[2].Lang)
}

func TestUnterminatedFence(t *testing.T) {
	src := "intro\n\n```go\nfunc main() {}\n"
	_, err := Split(src, DefaultOptions())
	var fe *FenceError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 7, fe.Offset)
	assert.Equal(t, 3, fe.Line)
	assert.Equal(t, 1, fe.Column)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestFenceWithoutBody(t *testing.T) {
	_, err := Split("```go", DefaultOptions())
	var fe *FenceError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Offset)
}

func TestSegmentIsLazy(t *testing.T) {
	src := "a\n```go\nx\n```\nb\n```go\nunterminated"
	var kinds []Kind
	for c, err := range Segment(src, DefaultOptions()) {
		require.NoError(t, err)
		kinds = append(kinds, c.Kind)
		if c.Kind == CodeBlock {
			break
		}
	}
	assert.Equal(t, []Kind{Text, CodeBlock}, kinds)
}

func TestEmptyInput(t *testing.T) {
	cs, err := Split("", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestPosition(t *testing.T) {
	src := "ab\ncd\n"
	line, col := Position(src, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
	line, col = Position(src, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}
