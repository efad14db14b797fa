package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cheatsheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
template: docs/parsers.md
output: README.md
link_style: rustdoc
docs_base: https://docs.rs/nom/latest/nom/
parallelism: 2
`), 0o644))
	t.Setenv("CHEATSHEET_OUTPUT", "out.md")
	t.Setenv("CHEATSHEET_NO_RUN", "true")
	t.Setenv("CHEATSHEET_PARALLELISM", "not a number")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "docs/parsers.md", cfg.Template)
	assert.Equal(t, "out.md", cfg.Output)
	assert.Equal(t, "rustdoc", cfg.LinkStyle)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.True(t, cfg.NoRun)
	assert.Equal(t, "go", cfg.Lang)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Load(missing, false)
	assert.NoError(t, err)
	_, err = Load(missing, true)
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: [1\n"), 0o644))
	_, err := Load(path, true)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"empty template", func(c *Config) { c.Template = " " }, "template"},
		{"link style", func(c *Config) { c.LinkStyle = "javadoc" }, "link style"},
		{"parallelism", func(c *Config) { c.Parallelism = 0 }, "parallelism"},
		{"language", func(c *Config) { c.Lang = "" }, "language"},
		{"rustdoc base", func(c *Config) { c.LinkStyle = "rustdoc" }, "docs_base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.msg)
		})
	}
}
