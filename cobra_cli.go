package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/agentflare-ai/go-cheatsheet/internal/config"
)

const rootLongDesc = `
go-cheatsheet turns a Markdown cheatsheet template into a document whose example
tables are filled in by running them.

Each table row names the parsers it documents, a Go expression using them and an
input. The template is compiled into a Go program that evaluates every row against
the documented module, and the program's output is the finished document:

  • output cells show the value each parser returned and the unparsed remainder
  • references become links to the package documentation
  • fenced go code blocks are compiled and run as tests

Settings come from cheatsheet.yaml, CHEATSHEET_* environment variables and flags,
in that order of precedence.
`

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout}
	cmd := &cobra.Command{
		Use:           "go-cheatsheet [flags] [template]",
		Short:         "Build an executed cheatsheet from a Markdown template",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "settings file (default "+config.DefaultFile+" when present)")
	pf.BoolVarP(&app.flags.Verbose, "verbose", "v", false, "log every row at debug level")
	pf.StringVar(&app.flags.ModuleDir, "module", "", "directory inside the documented Go module")
	pf.StringVar(&app.flags.ImportBase, "import-base", "", "import path of the reference root (default <module>/pkg/parsec)")
	pf.StringVar(&app.flags.RenderPath, "render-path", "", "import path of the row renderer (default <module>/pkg/render)")
	pf.StringVar(&app.flags.DocsBase, "docs-base", "", "URL documentation links start with")
	pf.StringVar(&app.flags.LinkStyle, "link-style", "", "documentation link style: pkgsite or rustdoc")
	pf.StringVar(&app.flags.Lang, "lang", "", "info string of runnable code blocks")
	pf.StringVar(&app.flags.Go, "go", "", "go command used to run the examples")

	addBuildFlags(cmd.Flags(), app)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd, args)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.runBuild(cmd)
	}

	cmd.AddCommand(newBuildCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newCheckRefsCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func addBuildFlags(flags *pflag.FlagSet, app *cliApp) {
	flags.StringVarP(&app.flags.Output, "output", "o", "", "write the document to file instead of stdout")
	flags.StringVar(&app.flags.HTML, "html", "", "also write the document as a standalone HTML page")
	flags.StringVar(&app.flags.Title, "title", "", "HTML page title when the document has no heading")
	flags.StringVar(&app.flags.Imports, "imports", "", "write the import declaration of all referenced packages")
	flags.StringVar(&app.flags.EmitDir, "emit-dir", "", "write the generated workspace to this directory")
	flags.StringVar(&app.flags.BlocksDir, "blocks-dir", "", "write the generated code-block sources to this directory")
	flags.BoolVar(&app.flags.NoRun, "no-run", false, "generate sources only; do not run the examples")
	flags.IntVar(&app.flags.Parallelism, "parallel", 0, "code blocks tested at once")
	flags.BoolVarP(&app.watch, "watch", "w", false, "rebuild whenever the template changes")
}

// configure layers flags over the loaded settings and builds the logger.
func (app *cliApp) configure(cmd *cobra.Command, args []string) error {
	path, explicit := config.DefaultFile, false
	if app.configPath != "" {
		path, explicit = app.configPath, true
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	str := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	f := app.flags
	str("output", &cfg.Output, f.Output)
	str("html", &cfg.HTML, f.HTML)
	str("title", &cfg.Title, f.Title)
	str("imports", &cfg.Imports, f.Imports)
	str("emit-dir", &cfg.EmitDir, f.EmitDir)
	str("blocks-dir", &cfg.BlocksDir, f.BlocksDir)
	str("module", &cfg.ModuleDir, f.ModuleDir)
	str("import-base", &cfg.ImportBase, f.ImportBase)
	str("render-path", &cfg.RenderPath, f.RenderPath)
	str("docs-base", &cfg.DocsBase, f.DocsBase)
	str("link-style", &cfg.LinkStyle, f.LinkStyle)
	str("lang", &cfg.Lang, f.Lang)
	str("go", &cfg.Go, f.Go)
	if fs.Changed("no-run") {
		cfg.NoRun = f.NoRun
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if fs.Changed("parallel") {
		cfg.Parallelism = f.Parallelism
	}
	if len(args) > 0 {
		cfg.Template = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	app.logger = logger
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (app *cliApp) runBuild(cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	if !app.watch {
		return app.execute(ctx)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.watchLoop(ctx)
}

func newBuildCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [template]",
		Short: "Build the cheatsheet (the default command)",
		Long: strings.TrimSpace(`
Compile the template into a Go program, run it against the documented module and
write the resulting document. Nothing is written unless every row and code block
succeeds.

Example:

  go-cheatsheet build -o CHEATSHEET.md --html cheatsheet.html docs/cheatsheet.md
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addBuildFlags(cmd.Flags(), app)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.runBuild(cmd)
	}
	return cmd
}

func newPreviewCmd(app *cliApp) *cobra.Command {
	var (
		from  string
		width int
	)
	cmd := &cobra.Command{
		Use:   "preview [template]",
		Short: "Render the built cheatsheet in the terminal",
		Long: strings.TrimSpace(`
Build the template and show the document styled for the terminal. With --from an
already built document is shown instead, without running anything.
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&from, "from", "", "show this Markdown file instead of building")
	cmd.Flags().IntVar(&width, "width", 100, "wrap text at this column")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.preview(commandContext(cmd), from, width)
	}
	return cmd
}

func newCheckRefsCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-refs [template]",
		Short: "Report references that name no symbol of the documented module",
		Long: strings.TrimSpace(`
Load every package the template's tables reference and print a table of the
referenced declarations. Exits non-zero when a reference names a missing package
or symbol.
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.checkRefs(commandContext(cmd))
	}
	return cmd
}

// skipConfig replaces the root's settings hook for commands that ignore them.
func skipConfig(*cobra.Command, []string) error { return nil }

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for go-cheatsheet.

The output should be evaluated by your shell. For example:

  # bash
  go-cheatsheet completion bash > /usr/local/etc/bash_completion.d/go-cheatsheet

  # zsh
  go-cheatsheet completion zsh > "${fpath[1]}/_go-cheatsheet"

  # fish
  go-cheatsheet completion fish | source

  # PowerShell
  go-cheatsheet completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		PersistentPreRunE:     skipConfig,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(out)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletion(out)
		}
		return fmt.Errorf("unsupported shell %q", args[0])
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write one Markdown file per command.

Example:

  go-cheatsheet gen-docs ./docs/cli
`),
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: skipConfig,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(args[0], 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, args[0])
	}
	return cmd
}
