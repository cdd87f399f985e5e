// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"conanprobe/internal/capability"
	"conanprobe/internal/config"
	"conanprobe/internal/provenance"
	"conanprobe/internal/recipe"
	"conanprobe/internal/report"
)

// ConanDataFile is the file next to a recipe that seeds its source data.
const ConanDataFile = "conandata.yml"

// Driver stages, in the order a run passes through them.
const (
	StageUninitialized Stage = iota
	StageInterceptionsInstalled
	StageRecipeLoaded
	StageEntryPointInvoked
	StageReported
)

// ErrAlreadyRun is returned when a Prober is run a second time.
var ErrAlreadyRun = errors.New("prober has already run")

type (
	// Stage is a driver state.
	Stage int

	// Options configures a Prober.
	Options struct {
		Recipe recipe.Config
		// Disabled capabilities are not intercepted.
		Disabled []capability.Name
		// VCSTool is the executable interpreted as git.
		VCSTool string
		// FakeVersion is seeded into the recipe instance.
		FakeVersion string
		// LoadConanData merges the conandata.yml next to the recipe.
		LoadConanData bool
		// FallbackLastClone attributes unmatched checkouts to the last clone.
		FallbackLastClone bool
		// PartialOnFailure prints what was collected when the entry point fails.
		PartialOnFailure bool
		// Timeout bounds the entry point. Zero means no limit.
		Timeout time.Duration
		// Stdout receives the run log. Nil discards it.
		Stdout io.Writer
		// Logger receives diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Prober runs a single recipe. It is not reusable.
	Prober struct {
		opts     Options
		stage    Stage
		ran      bool
		printer  *report.Printer
		logger   *log.Logger
		handlers map[capability.Name]capability.Handler

		state *provenance.State
		env   *capability.Environment
	}
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageInterceptionsInstalled:
		return "interceptions installed"
	case StageRecipeLoaded:
		return "recipe loaded"
	case StageEntryPointInvoked:
		return "entry point invoked"
	case StageReported:
		return "reported"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// OptionsFromConfig maps the application configuration onto Prober options.
func OptionsFromConfig(cfg *config.Config) Options {
	disabled := make([]capability.Name, 0, len(cfg.Interception.Disabled))
	for _, name := range cfg.Interception.Disabled {
		disabled = append(disabled, capability.Name(name))
	}
	return Options{
		Recipe: recipe.Config{
			BaseType:         cfg.Recipe.BaseType,
			ImportPath:       cfg.Recipe.ImportPath,
			EntryPoint:       cfg.Recipe.EntryPoint,
			PythonEntryPoint: cfg.Recipe.PythonEntryPoint,
		},
		Disabled:          disabled,
		VCSTool:           cfg.Interception.VCSTool,
		FakeVersion:       cfg.Recipe.FakeVersion,
		LoadConanData:     cfg.Recipe.LoadConanData,
		FallbackLastClone: cfg.Git.FallbackLastClone,
		PartialOnFailure:  cfg.Report.PartialOnFailure,
	}
}

// New creates a Prober.
func New(opts Options) *Prober {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Prober{
		opts:     opts,
		printer:  report.NewPrinter(opts.Stdout),
		logger:   logger,
		handlers: make(map[capability.Name]capability.Handler),
	}
}

// Handle replaces a capability handler for the coming run.
func (p *Prober) Handle(name capability.Name, h capability.Handler) {
	p.handlers[name] = h
}

// Stage returns the stage the Prober has reached.
func (p *Prober) Stage() Stage {
	return p.stage
}

// Run probes the recipe at path and returns the collected report.
//
// A recipe without an entry point fails before anything is printed beyond
// the header. When the entry point fails, the error is returned together
// with a partial report if PartialOnFailure is set; a fault raised by a
// stand-in fails the run even when the recipe ignored it.
func (p *Prober) Run(ctx context.Context, path string) (*report.Report, error) {
	if p.ran {
		return nil, ErrAlreadyRun
	}
	p.ran = true

	p.printer.Recipe(path)
	p.install(path)

	a, err := recipe.Analyze(path, p.opts.Recipe)
	if err != nil {
		return nil, err
	}
	p.printer.Found(a.Header())
	if len(a.Candidates) > 1 {
		p.logger.Warn("recipe declares several types extending the base type; using the first",
			"using", a.TypeName, "candidates", a.Candidates)
	}
	if a.Language != recipe.LanguageGo {
		return nil, fmt.Errorf("%s: %s recipes can only be listed, not run", path, a.Language)
	}

	program, err := recipe.NewExecutor(p.env,
		recipe.WithImportPath(p.opts.Recipe.ImportPath),
		recipe.WithStdout(p.opts.Stdout),
		recipe.WithLogger(p.logger),
	).Load(ctx, a)
	if err != nil {
		return nil, err
	}
	p.stage = StageRecipeLoaded

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	entry := a.TypeName + "." + entryPointName(a)
	if err := program.Instantiate(ctx); err != nil {
		return p.fail(a, err)
	}
	p.printer.Begin(entry)
	err = program.InvokeSource(ctx)
	p.stage = StageEntryPointInvoked
	if err == nil {
		err = p.state.Err()
	}
	if err != nil {
		return p.fail(a, err)
	}
	p.printer.End(entry)

	rep := report.New(path, a.Header(), p.state)
	p.printer.Report(rep)
	p.stage = StageReported
	p.logger.Debug("run complete", "repos", len(rep.Repos), "files", len(rep.Files), "commands", len(rep.History))
	return rep, nil
}

// install creates the run's state and capability environment.
func (p *Prober) install(path string) {
	p.state = provenance.NewState(provenance.WithFallbackLastClone(p.opts.FallbackLastClone))

	conanData := ""
	if p.opts.LoadConanData {
		conanData = filepath.Join(filepath.Dir(path), ConanDataFile)
	}
	p.env = capability.NewEnvironment(p.state, capability.Options{
		Disabled:      p.opts.Disabled,
		VCSTool:       p.opts.VCSTool,
		FakeVersion:   p.opts.FakeVersion,
		ConanDataPath: conanData,
		Output:        p.printer.Writer(),
		Logger:        p.logger,
	})
	for name, h := range p.handlers {
		p.env.Handle(name, h)
	}
	p.stage = StageInterceptionsInstalled
	p.logger.Debug("interceptions installed", "disabled", len(p.opts.Disabled))
}

func (p *Prober) fail(a *recipe.Analysis, err error) (*report.Report, error) {
	p.logger.Debug("entry point failed", "stage", p.stage, "error", err)
	p.printer.Error(err)
	if !p.opts.PartialOnFailure {
		return nil, err
	}
	rep := report.New(a.Path, a.Header(), p.state)
	rep.MarkPartial(err)
	p.printer.Report(rep)
	return rep, err
}

func entryPointName(a *recipe.Analysis) string {
	if a.EntryPoint != nil {
		return a.EntryPoint.Name
	}
	if a.EntryPointName != "" {
		return a.EntryPointName
	}
	return recipe.DefaultEntryPoint
}
