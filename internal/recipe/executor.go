// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/traefik/yaegi/interp"

	"conanprobe/internal/capability"
)

// Names of the generated entry shim.
const (
	shimInstance    = "conanprobeInstance"
	shimInstantiate = "ConanprobeInstantiate"
	shimSource      = "ConanprobeSource"
)

// ErrNotInstantiated is returned by Program.InvokeSource before Instantiate.
var ErrNotInstantiated = errors.New("recipe not instantiated")

type (
	// Executor evaluates Go recipes against a capability Environment.
	Executor struct {
		env        *capability.Environment
		importPath string
		stdout     io.Writer
		logger     *log.Logger
	}

	// ExecutorOption configures an Executor.
	ExecutorOption func(*Executor)

	// Program is a recipe loaded into an interpreter.
	Program struct {
		analysis     *Analysis
		interp       *interp.Interpreter
		instantiated bool
	}
)

// WithImportPath sets the import path the recipe's base type is bound to.
func WithImportPath(importPath string) ExecutorOption {
	return func(e *Executor) {
		e.importPath = importPath
	}
}

// WithStdout sets where output printed by the recipe itself goes.
func WithStdout(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.stdout = w
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor creates an Executor bound to env.
func NewExecutor(env *capability.Environment, opts ...ExecutorOption) *Executor {
	e := &Executor{
		env:        env,
		importPath: DefaultImportPath,
		stdout:     io.Discard,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load evaluates the analyzed recipe in a fresh interpreter. Package-level
// declarations and init functions run for real.
func (e *Executor) Load(ctx context.Context, a *Analysis) (*Program, error) {
	if a.Language != LanguageGo {
		return nil, fmt.Errorf("%s: %s recipes cannot be executed", a.Path, a.Language)
	}

	name := filepath.Base(a.Path)
	src := append(mainPackage(a), shim(a)...)

	i := interp.New(interp.Options{
		Stdout:               e.stdout,
		Stderr:               e.stdout,
		SourcecodeFilesystem: fstest.MapFS{name: &fstest.MapFile{Data: src}},
	})
	if err := i.Use(Symbols(e.env, e.importPath, a.BaseType)); err != nil {
		return nil, fmt.Errorf("failed to load symbols: %w", err)
	}

	e.logger.Debug("evaluating recipe", "path", a.Path, "type", a.TypeName)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := i.EvalPath(name); err != nil {
		return nil, fmt.Errorf("recipe evaluation failed: %w", err)
	}
	return &Program{analysis: a, interp: i}, nil
}

// Analysis returns the static analysis the program was loaded from.
func (p *Program) Analysis() *Analysis {
	return p.analysis
}

// Instantiate creates the recipe value through conans.NewConanFile.
func (p *Program) Instantiate(ctx context.Context) error {
	if err := p.call(ctx, shimInstantiate); err != nil {
		return fmt.Errorf("instantiate %s: %w", p.analysis.TypeName, err)
	}
	p.instantiated = true
	return nil
}

// InvokeSource runs the recipe's entry point. An error returned by the
// entry point and a panic inside the interpreter are both returned; the
// latter carries the recipe position.
func (p *Program) InvokeSource(ctx context.Context) error {
	if !p.instantiated {
		return ErrNotInstantiated
	}
	if err := p.call(ctx, shimSource); err != nil {
		return fmt.Errorf("%s.%s: %w", p.analysis.TypeName, p.entryPointName(), err)
	}
	return nil
}

func (p *Program) entryPointName() string {
	if p.analysis.EntryPoint != nil {
		return p.analysis.EntryPoint.Name
	}
	if p.analysis.EntryPointName != "" {
		return p.analysis.EntryPointName
	}
	return DefaultEntryPoint
}

// call evaluates a shim function, which returns an error value.
func (p *Program) call(ctx context.Context, fn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := p.interp.EvalWithContext(ctx, "main."+fn+"()")
	if err != nil {
		return err
	}
	if !res.IsValid() || !res.CanInterface() {
		return nil
	}
	if res.Kind() == reflect.Interface && res.IsNil() {
		return nil
	}
	if err, ok := res.Interface().(error); ok && err != nil {
		return err
	}
	return nil
}

// mainPackage returns the recipe source with its package clause renamed to
// main. Only the first line changes, so interpreter positions still match
// the file.
func mainPackage(a *Analysis) []byte {
	src := a.Source()
	if a.Package == "main" || a.packageNameEnd <= a.packageNamePos {
		return bytes.Clone(src)
	}
	var buf bytes.Buffer
	buf.Grow(len(src))
	buf.Write(src[:a.packageNamePos])
	buf.WriteString("main")
	buf.Write(src[a.packageNameEnd:])
	return buf.Bytes()
}

// shim generates the entry functions appended to the recipe.
func shim(a *Analysis) []byte {
	newBase := "NewConanFile()"
	if a.Qualifier != "" {
		newBase = a.Qualifier + "." + newBase
	}
	base := "base"
	if !a.PointerEmbed {
		base = "*base"
	}
	embedded := a.BaseType
	if embedded == "" {
		embedded = DefaultBaseType
	}

	callSource := fmt.Sprintf("\treturn %s.%s()\n", shimInstance, DefaultEntryPoint)
	if m := a.EntryPoint; m != nil {
		callSource = fmt.Sprintf("\treturn %s.%s()\n", shimInstance, m.Name)
		if !m.ReturnsError {
			callSource = fmt.Sprintf("\t%s.%s()\n\treturn nil\n", shimInstance, m.Name)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n\nvar %s *%s\n\n", shimInstance, a.TypeName)
	fmt.Fprintf(&buf, "func %s() error {\n", shimInstantiate)
	fmt.Fprintf(&buf, "\tbase, err := %s\n\tif err != nil {\n\t\treturn err\n\t}\n", newBase)
	fmt.Fprintf(&buf, "\t%s = &%s{%s: %s}\n\treturn nil\n}\n\n", shimInstance, a.TypeName, embedded, base)
	fmt.Fprintf(&buf, "func %s() error {\n%s}\n", shimSource, callSource)
	return buf.Bytes()
}
