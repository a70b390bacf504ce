package gen

import (
	"context"
	"fmt"
	"sort"

	"extras-generator/internal/analyze"
	"extras-generator/internal/config"
	"extras-generator/internal/diagnostic"
	"extras-generator/internal/plan"
	"extras-generator/internal/resolve"
)

// Result is the outcome of one generation pass.
type Result struct {
	// Plan holds the plan of every model that could be planned.
	Plan *plan.Result
	// Files are the rendered files sorted by path. Empty after Analyze.
	Files []GeneratedFile
	// Written counts the files whose content changed on disk.
	Written int
	// Dirs are the source directories of the loaded packages.
	Dirs []string
	// Diagnostics holds the problems of every stage of the pass.
	Diagnostics diagnostic.Diagnostics
}

// Analyze loads the packages of cfg, resolves their models and plans them.
// Rejected models are reported in the result; an error is returned only
// when loading fails or the ancestry is cyclic.
func Analyze(ctx context.Context, cfg *config.Config) (*Result, error) {
	logger := cfg.SlogLogger()

	analyzer := analyze.NewAnalyzer(analyze.Config{
		Dir:         cfg.Dir,
		WrapEnabled: cfg.Wrap.Enabled,
		WrapTypes:   cfg.Wrap.Types,
		Logger:      logger,
	})

	graph, err := analyzer.LoadPackages(ctx, cfg.Patterns...)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	result.Diagnostics.Merge(graph.Diagnostics)

	for _, pkg := range graph.Packages {
		if pkg.Dir != "" {
			result.Dirs = append(result.Dirs, pkg.Dir)
		}
	}

	sort.Strings(result.Dirs)

	rctx, err := resolve.NewResolver(graph, resolve.Config{
		Suffix: cfg.ModelSuffix,
		Logger: logger,
	}).Resolve()
	if err != nil {
		result.Diagnostics.Merge(rctx.Diagnostics)
		return result, fmt.Errorf("resolving models: %w", err)
	}

	result.Diagnostics.Merge(rctx.Diagnostics)

	result.Plan = plan.NewPlanner(plan.Config{Logger: logger}).PlanAll(rctx)
	result.Diagnostics.Merge(result.Plan.Diagnostics)

	return result, nil
}

// Run analyzes cfg, renders every planned model and writes the files unless
// cfg.DryRun is set. Models that could not be planned or rendered are
// reported and skipped; the others are still generated.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	result, err := Analyze(ctx, cfg)
	if err != nil {
		return result, err
	}

	logger := cfg.SlogLogger()

	files, diags := NewGenerator(cfg).Generate(result.Plan.Plans)
	result.Diagnostics.Merge(diags)
	result.Files = files

	if cfg.DryRun {
		logger.Info("dry run, nothing written", "files", len(files))
		return result, nil
	}

	written, err := WriteFiles(ctx, files, cfg.Workers)
	result.Written = written

	if err != nil {
		return result, fmt.Errorf("writing files: %w", err)
	}

	logger.Info("wrote files", "files", len(files), "changed", written)

	return result, nil
}
