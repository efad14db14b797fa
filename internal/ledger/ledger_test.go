package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndFinalize(t *testing.T) {
	l := New("streaming", "bits")
	assert.True(t, l.Record("character", "character", `"lib/character"`))
	assert.True(t, l.Record("bytes", "bytes", `"lib/bytes"`))
	assert.True(t, l.Record("character", "character", `"lib/character"`))

	assert.Equal(t, []string{`"lib/bytes"`, `"lib/character"`}, l.Finalize())
	assert.Empty(t, l.Conflicts())
}

func TestConflictIsExcluded(t *testing.T) {
	l := New("", "")
	l.Record("bytes::complete", "complete", `"lib/bytes/complete"`)
	l.Record("multi", "multi", `"lib/multi"`)
	l.Record("character::complete", "complete", `"lib/character/complete"`)
	// A later identical proposal does not lift the conflict.
	l.Record("bytes::complete", "complete", `"lib/bytes/complete"`)

	assert.Equal(t, []string{"complete"}, l.Conflicts())
	assert.Equal(t, []string{`"lib/multi"`}, l.Finalize())
}

func TestExcludedModules(t *testing.T) {
	l := New("streaming", "bits")
	assert.False(t, l.Record("streaming", "streaming", `"lib/streaming"`))
	assert.False(t, l.Record("bytes::streaming", "streaming", `"lib/bytes/streaming"`))
	assert.False(t, l.Record("bits::complete", "complete", `"lib/bits/complete"`))
	assert.True(t, l.Excluded("bits"))
	assert.False(t, l.Excluded("character"))
	assert.Empty(t, l.Finalize())
}

func TestDeclaration(t *testing.T) {
	decl, err := Declaration([]string{`"lib/bytes"`, `"lib/multi"`})
	require.NoError(t, err)
	assert.Equal(t, "import (\n\t\"lib/bytes\"\n\t\"lib/multi\"\n)\n", decl)

	decl, err = Declaration(nil)
	require.NoError(t, err)
	assert.Empty(t, decl)
}
