package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/agentflare-ai/go-cheatsheet/internal/assemble"
	"github.com/agentflare-ai/go-cheatsheet/internal/config"
	"github.com/agentflare-ai/go-cheatsheet/internal/harness"
	"github.com/agentflare-ai/go-cheatsheet/internal/htmlpage"
	"github.com/agentflare-ai/go-cheatsheet/internal/reference"
	"github.com/agentflare-ai/go-cheatsheet/internal/segment"
)

// Version is reported by --version.
var Version = "dev"

type cliApp struct {
	stdout     io.Writer
	cfg        config.Config
	flags      config.Config
	configPath string
	watch      bool
	logger     *zap.Logger
}

// buildOutput is everything a successful build writes.
type buildOutput struct {
	result   *assemble.Result
	document []byte
	html     []byte
}

func run(argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(argv)
	return cmd.Execute()
}

func (app *cliApp) log() *zap.Logger {
	if app.logger == nil {
		return zap.NewNop()
	}
	return app.logger
}

// toolchain resolves the documented module and the settings derived from it.
type toolchain struct {
	module   harness.Module
	resolver *reference.Resolver
	render   string
}

func (app *cliApp) toolchain(ctx context.Context) (*toolchain, error) {
	cfg := app.cfg
	mod, err := harness.FindModule(cfg.ModuleDir)
	if err != nil {
		return nil, err
	}
	base := cfg.ImportBase
	if base == "" {
		base = mod.Path + "/pkg/parsec"
	}
	renderPath := cfg.RenderPath
	if renderPath == "" {
		renderPath = mod.Path + "/pkg/render"
	}
	docs := cfg.DocsBase
	if docs == "" {
		docs = "https://pkg.go.dev/" + base
	}
	linker, err := reference.NewLinker(cfg.LinkStyle, docs)
	if err != nil {
		return nil, err
	}
	names, err := packageNames(ctx, mod.Dir, base)
	if err != nil {
		app.log().Warn("package names unavailable, guessing them from import paths",
			zap.String("import_base", base), zap.Error(err))
	}
	return &toolchain{
		module:   mod,
		resolver: &reference.Resolver{ImportBase: base, Linker: linker, Names: names},
		render:   renderPath,
	}, nil
}

func (app *cliApp) segmentOptions() segment.Options {
	return segment.Options{Lang: app.cfg.Lang, Alias: app.cfg.Alias, Ignore: app.cfg.Ignore}
}

func (app *cliApp) runner(tc *toolchain) *harness.GoRunner {
	return &harness.GoRunner{
		Go:          app.cfg.Go,
		Module:      tc.module,
		Parallelism: app.cfg.Parallelism,
		Logger:      app.log(),
	}
}

// build runs the whole pipeline in memory. Nothing is written.
func (app *cliApp) build(ctx context.Context) (*buildOutput, error) {
	cfg := app.cfg
	src, err := os.ReadFile(cfg.Template)
	if err != nil {
		return nil, err
	}
	tc, err := app.toolchain(ctx)
	if err != nil {
		return nil, err
	}
	app.log().Info("building cheatsheet",
		zap.String("template", cfg.Template),
		zap.String("module", tc.module.Path),
		zap.String("import_base", tc.resolver.ImportBase))

	res, err := assemble.Build(string(src), assemble.Options{
		Segment:       app.segmentOptions(),
		Resolver:      tc.resolver,
		RenderPath:    tc.render,
		ExcludeSuffix: cfg.ExcludeSuffix,
		ExcludePrefix: cfg.ExcludePrefix,
		Logger:        app.log(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Template, err)
	}
	out := &buildOutput{result: res}

	job := harness.Job{Program: res.Program, Units: res.Units}
	if cfg.EmitDir != "" {
		if err := app.runner(tc).Prepare(cfg.EmitDir, job); err != nil {
			return nil, err
		}
	}
	if cfg.NoRun {
		return out, nil
	}
	doc, err := app.runner(tc).Run(ctx, job)
	if err != nil {
		return nil, err
	}
	out.document = doc
	if cfg.HTML != "" {
		page, err := htmlpage.Render(doc, htmlpage.Options{Title: cfg.Title})
		if err != nil {
			return nil, err
		}
		out.html = page
	}
	return out, nil
}

func (app *cliApp) execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := app.build(ctx)
	if err != nil {
		return err
	}
	return app.write(out)
}

// write stores the outputs of a successful build.
func (app *cliApp) write(out *buildOutput) error {
	cfg := app.cfg
	if cfg.Imports != "" {
		if err := writeOutput(cfg.Imports, app.stdout, []byte(out.result.Imports)); err != nil {
			return err
		}
	}
	if cfg.BlocksDir != "" {
		for _, u := range out.result.Units {
			for _, f := range u.Files {
				if err := writeOutput(filepath.Join(cfg.BlocksDir, u.Name, f.Name), app.stdout, f.Data); err != nil {
					return err
				}
			}
		}
	}
	if out.document == nil {
		return nil
	}
	if cfg.HTML != "" {
		if err := writeOutput(cfg.HTML, app.stdout, out.html); err != nil {
			return err
		}
	}
	return writeOutput(cfg.Output, app.stdout, out.document)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// watchLoop rebuilds whenever the template changes. Build errors are logged
// and the loop keeps going; it returns when ctx is done.
func (app *cliApp) watchLoop(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(app.cfg.Template)
	if err != nil {
		return err
	}
	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	rebuild := func() {
		if err := app.execute(ctx); err != nil {
			app.log().Error("build failed", zap.Error(err))
			return
		}
		app.log().Info("build succeeded", zap.String("template", app.cfg.Template))
	}
	rebuild()

	const debounce = 200 * time.Millisecond
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if abs, _ := filepath.Abs(event.Name); abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			app.log().Warn("watch error", zap.Error(err))
		case <-timer.C:
			rebuild()
		}
	}
}

// preview renders markdown for the terminal. With from set, that file is
// shown as is; otherwise the template is built first.
func (app *cliApp) preview(ctx context.Context, from string, width int) error {
	var doc []byte
	if from != "" {
		data, err := os.ReadFile(from)
		if err != nil {
			return err
		}
		doc = data
	} else {
		if app.cfg.NoRun {
			return errors.New("preview needs the examples to run; drop --no-run or use --from")
		}
		out, err := app.build(ctx)
		if err != nil {
			return err
		}
		doc = out.document
	}
	text, err := renderTerminal(doc, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(app.stdout, text)
	return err
}

// checkRefs loads every referenced package and reports missing symbols.
func (app *cliApp) checkRefs(ctx context.Context) error {
	src, err := os.ReadFile(app.cfg.Template)
	if err != nil {
		return err
	}
	tc, err := app.toolchain(ctx)
	if err != nil {
		return err
	}
	refs, err := collectReferences(string(src), app.segmentOptions(), tc.resolver)
	if err != nil {
		return fmt.Errorf("%s: %w", app.cfg.Template, err)
	}
	statuses, err := lookupReferences(ctx, tc.module.Dir, tc.resolver, refs)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	missing := renderReport(&buf, statuses)
	if _, err := app.stdout.Write(buf.Bytes()); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d unresolved references: %s", len(missing), strings.Join(missing, ", "))
	}
	return nil
}
