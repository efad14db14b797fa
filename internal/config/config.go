// Package config loads go-cheatsheet settings. Later layers win: built-in
// defaults, the YAML file, CHEATSHEET_* environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given and it exists.
const DefaultFile = "cheatsheet.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHEATSHEET_"

type Config struct {
	// Template is the cheatsheet source.
	Template string `yaml:"template"`

	// Outputs. An empty Output writes the document to stdout.
	Output    string `yaml:"output"`
	HTML      string `yaml:"html"`
	Imports   string `yaml:"imports"`
	EmitDir   string `yaml:"emit_dir"`
	BlocksDir string `yaml:"blocks_dir"`
	Title     string `yaml:"title"`

	// ModuleDir is a directory inside the documented module.
	ModuleDir string `yaml:"module_dir"`
	// ImportBase is the import path an empty reference module stands for;
	// <module>/pkg/parsec when empty.
	ImportBase string `yaml:"import_base"`
	// RenderPath imports the row renderer; <module>/pkg/render when empty.
	RenderPath string `yaml:"render_path"`
	// LinkStyle is "pkgsite" or "rustdoc"; DocsBase is the URL the links
	// start with, https://pkg.go.dev/<import base> when empty.
	LinkStyle string `yaml:"link_style"`
	DocsBase  string `yaml:"docs_base"`

	Lang   string `yaml:"lang"`
	Alias  string `yaml:"alias"`
	Ignore string `yaml:"ignore"`

	ExcludeSuffix string `yaml:"exclude_suffix"`
	ExcludePrefix string `yaml:"exclude_prefix"`

	Go          string `yaml:"go"`
	Parallelism int    `yaml:"parallelism"`
	NoRun       bool   `yaml:"no_run"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Template:      "cheatsheet.md",
		ModuleDir:     ".",
		LinkStyle:     "pkgsite",
		Lang:          "go",
		Alias:         "golang",
		Ignore:        "ignore",
		ExcludeSuffix: "streaming",
		ExcludePrefix: "bits",
		Go:            "go",
		Parallelism:   4,
	}
}

// Load reads path over the defaults and applies the environment. A missing
// file is only an error when explicit is set.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Template = envOr("TEMPLATE", c.Template)
	c.Output = envOr("OUTPUT", c.Output)
	c.HTML = envOr("HTML", c.HTML)
	c.Imports = envOr("IMPORTS", c.Imports)
	c.EmitDir = envOr("EMIT_DIR", c.EmitDir)
	c.BlocksDir = envOr("BLOCKS_DIR", c.BlocksDir)
	c.Title = envOr("TITLE", c.Title)
	c.ModuleDir = envOr("MODULE_DIR", c.ModuleDir)
	c.ImportBase = envOr("IMPORT_BASE", c.ImportBase)
	c.RenderPath = envOr("RENDER_PATH", c.RenderPath)
	c.LinkStyle = envOr("LINK_STYLE", c.LinkStyle)
	c.DocsBase = envOr("DOCS_BASE", c.DocsBase)
	c.Lang = envOr("LANG", c.Lang)
	c.Alias = envOr("ALIAS", c.Alias)
	c.Ignore = envOr("IGNORE", c.Ignore)
	c.ExcludeSuffix = envOr("EXCLUDE_SUFFIX", c.ExcludeSuffix)
	c.ExcludePrefix = envOr("EXCLUDE_PREFIX", c.ExcludePrefix)
	c.Go = envOr("GO", c.Go)
	c.Parallelism = envInt("PARALLELISM", c.Parallelism)
	c.NoRun = envBool("NO_RUN", c.NoRun)
	c.Verbose = envBool("VERBOSE", c.Verbose)
}

// Validate rejects settings no build can succeed with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Template) == "" {
		return errors.New("template path is required")
	}
	switch c.LinkStyle {
	case "pkgsite", "rustdoc":
	default:
		return fmt.Errorf("unknown link style %q", c.LinkStyle)
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.Lang == "" {
		return errors.New("snippet language is required")
	}
	if c.LinkStyle == "rustdoc" && c.DocsBase == "" {
		return errors.New("rustdoc links need docs_base")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
