package gen

import (
	"fmt"
	"go/types"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"extras-generator/internal/common"
	"extras-generator/internal/config"
	"extras-generator/internal/diagnostic"
	"extras-generator/internal/model"
	"extras-generator/internal/plan"
)

// RuntimePath is the import path of the package generated code runs against.
const RuntimePath = "extras-generator/extras"

// generateCode is the diagnostic code of a model whose files cannot be rendered.
const generateCode = "generate"

// Generated file kinds, used in file names.
const (
	builderKind   = "builder"
	binderKind    = "binder"
	navigatorFile = "navigator"
)

// Generator renders stage plans into Go files.
type Generator struct {
	config *config.Config
	logger *slog.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		config: cfg,
		logger: cfg.SlogLogger(),
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory the file belongs in.
	Dir string
	// Filename is the name of the file (e.g., "checkout_model_builder_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
	// Model is the model the file was generated for. Empty for the navigator.
	Model string
}

// Path returns the full path of the file.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders every plan. Plans are expected ancestor first, as
// produced by the planner. A model whose files cannot be rendered is
// reported and skipped together with its descendants; the other models are
// still rendered. The returned files are sorted by path.
func (g *Generator) Generate(plans []*plan.StagePlan) ([]GeneratedFile, diagnostic.Diagnostics) {
	var (
		files    []GeneratedFile
		diags    diagnostic.Diagnostics
		rendered []*plan.StagePlan
	)

	failed := make(map[model.TypeID]bool)

	for _, sp := range plans {
		if failed[sp.Parent] {
			failed[sp.Model] = true
			diags.AddError(model.ViolationAncestorResolution.String(),
				fmt.Sprintf("parent %s does not have a builder; it could not be generated.", sp.Parent),
				sp.Model.String(), "")

			continue
		}

		modelFiles, err := g.generateModel(sp)
		if err != nil {
			failed[sp.Model] = true
			diags.AddError(generateCode, err.Error(), sp.Model.String(), "")
			g.logger.Warn("skipping model", "model", sp.Model.String(), "error", err)

			continue
		}

		files = append(files, modelFiles...)
		rendered = append(rendered, sp)
	}

	if g.config.Navigator.Enabled && len(rendered) > 0 {
		nav, err := g.generateNavigator(rendered)
		if err != nil {
			diags.AddError(generateCode, fmt.Sprintf("generating navigator: %v", err), "", "")
		} else {
			files = append(files, *nav)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path() < files[j].Path()
	})

	g.logger.Debug("rendered files", "files", len(files), "failed", len(failed))

	return files, diags
}

// generateModel renders the builder of sp and, when enabled, its binder.
func (g *Generator) generateModel(sp *plan.StagePlan) ([]GeneratedFile, error) {
	builder, err := g.generateBuilder(sp)
	if err != nil {
		return nil, fmt.Errorf("generating builder: %w", err)
	}

	if !g.config.Binders {
		return []GeneratedFile{*builder}, nil
	}

	binder, err := g.generateBinder(sp)
	if err != nil {
		return nil, fmt.Errorf("generating binder: %w", err)
	}

	return []GeneratedFile{*builder, *binder}, nil
}

// fileName returns the name of a generated file of the given kind for sp.
func (g *Generator) fileName(sp *plan.StagePlan, kind string) string {
	return common.SnakeCase(sp.Model.Name) + "_" + kind + g.config.FileSuffix
}

// outputDir returns the directory the files of sp are written to.
func (g *Generator) outputDir(sp *plan.StagePlan) string {
	if g.config.OutputDir != "" {
		return filepath.Join(g.config.OutputDir, sp.PackageName)
	}

	return sp.Dir
}

// headerLines splits the configured header into comment lines without
// their comment markers.
func (g *Generator) headerLines() []string {
	if strings.TrimSpace(g.config.Header) == "" {
		return nil
	}

	var lines []string

	for _, line := range strings.Split(strings.TrimSpace(g.config.Header), "\n") {
		line = strings.TrimPrefix(strings.TrimSpace(line), "//")
		lines = append(lines, strings.TrimSpace(line))
	}

	return lines
}

// importSet collects the imports of a file and names each one. A package
// whose name is already taken by another path gets a numbered alias.
type importSet struct {
	self string
	// names maps an import path to the name the file refers to it by.
	names map[string]string
	// taken maps a name in use to its import path.
	taken map[string]string
	// pkgNames maps an import path to its declared package name.
	pkgNames map[string]string
}

// importSpec is one import line.
type importSpec struct {
	// Alias is empty when the package is referred to by its own name.
	Alias string
	Path  string
}

func newImportSet(self string) *importSet {
	return &importSet{
		self:     self,
		names:    make(map[string]string),
		taken:    make(map[string]string),
		pkgNames: make(map[string]string),
	}
}

// qualify registers the package path and returns the name the file refers
// to it by. It returns "" for the file's own package.
func (s *importSet) qualify(importPath, pkgName string) string {
	if importPath == "" || importPath == s.self {
		return ""
	}

	if name, ok := s.names[importPath]; ok {
		return name
	}

	name := pkgName
	for i := 2; s.taken[name] != ""; i++ {
		name = fmt.Sprintf("%s%d", pkgName, i)
	}

	s.names[importPath] = name
	s.taken[name] = importPath
	s.pkgNames[importPath] = pkgName

	return name
}

// symbol returns a reference to sym from the file.
func (s *importSet) symbol(sym plan.Symbol) string {
	name := s.qualify(sym.PkgPath, sym.PkgName)
	if name == "" {
		return sym.Name
	}

	return name + "." + sym.Name
}

// typeExpr returns the expression of a value type from the file, naming
// every package it mentions through the set. A hand-built value carries its
// expression ready-made, so its packages must keep the last element of their
// path as name.
func (s *importSet) typeExpr(v model.ValueType) (string, error) {
	if v.Type != nil {
		return types.TypeString(v.Type, func(p *types.Package) string {
			return s.qualify(p.Path(), p.Name())
		}), nil
	}

	for _, p := range v.Imports {
		if p == s.self {
			continue
		}

		name := path.Base(p)
		if got := s.qualify(p, name); got != name {
			return "", fmt.Errorf("type %s: package %s is imported as %s", v.Expr, p, got)
		}
	}

	return v.Expr, nil
}

// specs returns the import lines sorted by path.
func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.names))
	for p, name := range s.names {
		spec := importSpec{Path: p}
		if name != s.pkgNames[p] {
			spec.Alias = name
		}

		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}
