// Package harness runs generated cheatsheet code with the Go toolchain.
//
// A build is laid out as a throwaway module that requires the documented
// module through a replace directive:
//
//	go.mod
//	go.sum              copied from the documented module
//	program/*.go        prints the assembled document
//	blocks/<name>/*.go  one package per runnable code block
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/modfile"
	"golang.org/x/sync/errgroup"

	"github.com/agentflare-ai/go-cheatsheet/internal/assemble"
)

const (
	// WorkModule is the module path of the generated workspace.
	WorkModule = "cheatsheet.local/run"
	// ProgramDir holds the document program inside the workspace.
	ProgramDir = "program"
	// BlocksDir holds one directory per code block.
	BlocksDir = "blocks"

	replacedVersion = "v0.0.0-00010101000000-000000000000"
)

// Job is the generated code of one build.
type Job struct {
	Program []assemble.File
	Units   []assemble.Unit
}

// Runner executes a job and returns the document printed by its program.
type Runner interface {
	Run(ctx context.Context, job Job) ([]byte, error)
}

// ExecError is a failed toolchain invocation. Output is what the command
// printed to stderr (and stdout, unless stdout was captured separately).
type ExecError struct {
	Args   []string
	Dir    string
	Output []byte
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("go %s (in %s): %v\n%s", strings.Join(e.Args, " "), e.Dir, e.Err, bytes.TrimSpace(e.Output))
}

func (e *ExecError) Unwrap() error { return e.Err }

// Module describes the documented module.
type Module struct {
	Path string
	Dir  string
	Go   string
}

// ReadModule parses dir/go.mod.
func ReadModule(dir string) (Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, err
	}
	name := filepath.Join(abs, "go.mod")
	data, err := os.ReadFile(name)
	if err != nil {
		return Module{}, err
	}
	f, err := modfile.ParseLax(name, data, nil)
	if err != nil {
		return Module{}, err
	}
	if f.Module == nil {
		return Module{}, fmt.Errorf("%s: no module directive", name)
	}
	m := Module{Path: f.Module.Mod.Path, Dir: abs}
	if f.Go != nil {
		m.Go = f.Go.Version
	}
	return m, nil
}

// FindModule walks up from dir to the nearest directory holding a go.mod.
func FindModule(dir string) (Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, err
	}
	for d := abs; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return ReadModule(d)
		}
		if parent := filepath.Dir(d); parent == d {
			return Module{}, fmt.Errorf("no go.mod found above %s", abs)
		}
	}
}

// GoMod returns the workspace go.mod requiring and replacing dep.
func GoMod(dep Module) ([]byte, error) {
	f, err := modfile.Parse("go.mod", []byte("module "+WorkModule+"\n"), nil)
	if err != nil {
		return nil, err
	}
	version := dep.Go
	if version == "" {
		version = strings.TrimPrefix(runtime.Version(), "go")
	}
	if err := f.AddGoStmt(version); err != nil {
		return nil, err
	}
	if err := f.AddRequire(dep.Path, replacedVersion); err != nil {
		return nil, err
	}
	if err := f.AddReplace(dep.Path, "", dep.Dir, ""); err != nil {
		return nil, err
	}
	f.Cleanup()
	return f.Format()
}

// GoRunner runs jobs with the go command.
type GoRunner struct {
	// Go is the go command; "go" when empty.
	Go     string
	Module Module
	// Dir is the workspace. A temporary directory, removed afterwards, is
	// used when empty.
	Dir string
	// Parallelism bounds concurrent go invocations; GOMAXPROCS when zero.
	Parallelism int
	Logger      *zap.Logger
}

func (r *GoRunner) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Prepare writes the job as a module rooted at dir.
func (r *GoRunner) Prepare(dir string, job Job) error {
	mod, err := GoMod(r.Module)
	if err != nil {
		return fmt.Errorf("go.mod: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "go.mod"), mod); err != nil {
		return err
	}
	sum, err := os.ReadFile(filepath.Join(r.Module.Dir, "go.sum"))
	switch {
	case err == nil:
		if err := writeFile(filepath.Join(dir, "go.sum"), sum); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	for _, f := range job.Program {
		if err := writeFile(filepath.Join(dir, ProgramDir, f.Name), f.Data); err != nil {
			return err
		}
	}
	for _, u := range job.Units {
		for _, f := range u.Files {
			if err := writeFile(filepath.Join(dir, BlocksDir, u.Name, f.Name), f.Data); err != nil {
				return err
			}
		}
	}
	r.log().Debug("prepared workspace",
		zap.String("dir", dir),
		zap.Int("program_files", len(job.Program)),
		zap.Int("units", len(job.Units)))
	return nil
}

// Run prepares the workspace, resolves its dependencies, runs the program
// and tests every unit. Any compile or run failure is returned; the document
// is only returned when everything succeeded.
func (r *GoRunner) Run(ctx context.Context, job Job) ([]byte, error) {
	dir := r.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "go-cheatsheet-*")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	if err := r.Prepare(dir, job); err != nil {
		return nil, err
	}
	if _, err := r.command(ctx, dir, nil, "mod", "tidy"); err != nil {
		return nil, err
	}

	limit := r.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var document bytes.Buffer
	g.Go(func() error {
		_, err := r.command(gctx, dir, &document, "run", "./"+ProgramDir)
		return err
	})
	for _, u := range job.Units {
		g.Go(func() error {
			if _, err := r.command(gctx, dir, nil, "test", "-count=1", "./"+BlocksDir+"/"+u.Name); err != nil {
				return fmt.Errorf("code block at line %d: %w", u.Line, err)
			}
			r.log().Debug("code block passed", zap.String("unit", u.Name), zap.Int("line", u.Line))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.log().Info("executed cheatsheet",
		zap.Int("units", len(job.Units)),
		zap.Int("document_bytes", document.Len()))
	return document.Bytes(), nil
}

// command runs the go command in dir. When stdout is nil, stdout and stderr
// are combined and returned.
func (r *GoRunner) command(ctx context.Context, dir string, stdout *bytes.Buffer, args ...string) ([]byte, error) {
	bin := r.Go
	if bin == "" {
		bin = "go"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stderr = &output
	if stdout != nil {
		cmd.Stdout = stdout
	} else {
		cmd.Stdout = &output
	}
	r.log().Debug("go command", zap.Strings("args", args), zap.String("dir", dir))
	if err := cmd.Run(); err != nil {
		return nil, &ExecError{Args: args, Dir: dir, Output: output.Bytes(), Err: err}
	}
	return output.Bytes(), nil
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}
