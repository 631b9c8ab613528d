// Package app implements the application layer for depcheck.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/zerr"

	"github.com/arcfield/sdkkit/internal/adapters/config"
	"github.com/arcfield/sdkkit/internal/adapters/fs"
	"github.com/arcfield/sdkkit/internal/adapters/manifest"
	"github.com/arcfield/sdkkit/internal/adapters/wheel"
	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
	"github.com/arcfield/sdkkit/internal/engine/analyzer"
)

// Options are the per-run settings taken from the command line.
type Options struct {
	// Verbose enables per-requirement detail output.
	Verbose bool

	// Freeze switches the run to freeze mode instead of validate mode.
	Freeze bool

	// OutPath, when set, additionally renders an HTML report to that file.
	OutPath string

	// WheelDir, when set, switches discovery from source-tree manifests to
	// prebuilt archives in that directory.
	WheelDir string
}

// App represents the main application logic: scan, aggregate, then freeze or
// validate against the frozen baseline.
type App struct {
	configLoader ports.ConfigLoader
	analyzer     *analyzer.Analyzer
	baseline     ports.BaselineStore
	renderer     ports.Renderer
	recorder     ports.Recorder
	hasher       ports.Hasher
	logger       ports.Logger

	stdout io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	az *analyzer.Analyzer,
	store ports.BaselineStore,
	renderer ports.Renderer,
	recorder ports.Recorder,
	hasher ports.Hasher,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		analyzer:     az,
		baseline:     store,
		renderer:     renderer,
		recorder:     recorder,
		hasher:       hasher,
		logger:       logger,
		stdout:       os.Stdout,
	}
}

// SetOutput redirects the user-facing summary output. Used for testing.
func (a *App) SetOutput(w io.Writer) {
	a.stdout = w
}

// SetConfigPath points the configuration loader at path. No-op when the
// wired loader is not file-based.
func (a *App) SetConfigPath(path string) {
	if l, ok := a.configLoader.(*config.FileLoader); ok {
		l.Filename = path
	}
}

// Run executes one analysis.
func (a *App) Run(ctx context.Context, opts Options) error {
	// The report renderer gate runs before any analytic work.
	if opts.OutPath != "" && a.renderer == nil {
		return domain.ErrRendererUnavailable
	}

	defer func() {
		if closeErr := a.recorder.Close(); closeErr != nil {
			a.logger.Warn(fmt.Sprintf("failed to close telemetry recorder: %v", closeErr))
		}
	}()

	cfg, err := a.configLoader.Load()
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	results := a.scan(ctx, cfg, opts.WheelDir)
	packages, deps := a.analyzer.Aggregate(results)

	report := &domain.Report{
		GeneratedAt:  time.Now(),
		Packages:     packages,
		Dependencies: deps,
		Inconsistent: deps.Inconsistent(),
	}
	for _, res := range results {
		if res.Err != nil {
			report.Failures = append(report.Failures, res)
		}
	}

	if opts.Verbose {
		a.printPackages(report)
		a.printRequirements(report)
	}
	a.printInconsistencies(report, opts.Verbose)

	var runErr error
	if len(report.Inconsistent) > 0 {
		runErr = zerr.With(zerr.Wrap(domain.ErrInconsistentSpecifiers, ""), "requirements", len(report.Inconsistent))
	}

	if opts.Freeze {
		if runErr != nil {
			fmt.Fprintln(a.stdout, "Unable to freeze requirements due to incompatible dependency versions")
			return zerr.Wrap(domain.ErrFreezeRefused, runErr.Error())
		}
		return a.freeze(cfg, deps)
	}

	if err := a.validate(report, cfg, opts.Verbose); err != nil {
		runErr = err
	}

	if opts.OutPath != "" {
		if err := a.render(opts.OutPath, report); err != nil {
			return err
		}
	}

	if runErr == nil {
		fmt.Fprintln(a.stdout, "All library dependencies validated against frozen requirements")
	} else if !opts.Verbose {
		fmt.Fprintln(a.stdout, "Library dependencies do not match frozen requirements, run with --verbose for details")
	}
	return runErr
}

// scan locates candidates and parses each one, collecting per-package
// results. A failed package is recorded and skipped, never fatal.
func (a *App) scan(_ context.Context, cfg *domain.Config, wheelDir string) []domain.ScanResult {
	var (
		locator ports.Locator
		parser  ports.ManifestParser
		root    string
	)
	if wheelDir != "" {
		locator = fs.NewWheelLocator()
		parser = wheel.NewParser(a.hasher)
		root = wheelDir
	} else {
		locator = fs.NewSourceLocator(cfg.Manifest, cfg.Patterns)
		parser = manifest.NewParser(cfg.Manifest, a.hasher)
		root = cfg.Root
	}

	paths, err := locator.Locate(root)
	if err != nil {
		a.logger.Error(err)
		return nil
	}

	var results []domain.ScanResult
	for _, path := range paths {
		entry := a.recorder.Package(path)
		res := domain.ScanResult{Path: path}
		res.Pkg, res.Requirements, res.Err = parser.Parse(path)
		if res.Err == nil && cfg.Skip(res.Pkg.Name) {
			entry.Done(nil)
			continue
		}
		if res.Err != nil {
			a.logger.Warn(fmt.Sprintf("failed to parse %s: %v", path, res.Err))
		}
		entry.Done(res.Err)
		results = append(results, res)
	}
	return results
}

// freeze writes the current specifiers as the new baseline.
func (a *App) freeze(cfg *domain.Config, deps domain.DependencyMap) error {
	specs, unconstrained := a.analyzer.FreezeSpecs(deps)
	for _, name := range unconstrained {
		fmt.Fprintf(a.stdout, "Requirement '%s' being frozen with no version spec\n", name)
	}
	if err := a.baseline.Save(cfg.Baseline, specs); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Current requirements frozen to %s\n", cfg.Baseline)
	return nil
}

// validate diffs the aggregation against the frozen baseline. The returned
// error, if any, reflects unfrozen or mismatched requirements.
func (a *App) validate(report *domain.Report, cfg *domain.Config, verbose bool) error {
	base, absent, err := a.baseline.Load(cfg.Baseline)
	if err != nil {
		return err
	}
	if absent {
		a.logger.Warn(fmt.Sprintf("unable to open %s, shared requirements have not been validated", cfg.Baseline))
		return nil
	}
	report.Baseline = base
	report.Diff = a.analyzer.Diff(report.Dependencies, base)

	a.printDiff(report, verbose)

	if n := len(report.Diff.New); n > 0 {
		return zerr.With(zerr.Wrap(domain.ErrUnfrozenRequirements, ""), "count", n)
	}
	if n := report.Diff.ViolationCount(); n > 0 {
		return zerr.With(zerr.Wrap(domain.ErrBaselineMismatch, ""), "count", n)
	}
	return nil
}

// render writes the HTML report.
func (a *App) render(path string, report *domain.Report) error {
	f, err := os.Create(path) //nolint:gosec // Path is provided by user
	if err != nil {
		return zerr.Wrap(err, "failed to create report file")
	}
	defer f.Close() //nolint:errcheck // Errors surface from Render/Sync

	if err := a.renderer.Render(f, report); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Dependency report written to %s\n", path)
	return nil
}
