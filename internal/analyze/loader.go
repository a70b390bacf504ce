package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"extras-generator/internal/diagnostic"
	"extras-generator/internal/match"
	"extras-generator/internal/model"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Config controls how declarations are read.
type Config struct {
	// Dir is the directory packages are resolved from. Empty means the current directory.
	Dir string
	// WrapEnabled allows wrapped value types.
	WrapEnabled bool
	// WrapTypes lists additional wrapped types as "import/path.Name".
	WrapTypes []string
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// Analyzer loads Go packages and extracts model declarations.
type Analyzer struct {
	graph  *TypeGraph
	config Config
	logger *slog.Logger
	fset   *token.FileSet

	models    map[model.TypeID]bool
	parcels   map[model.TypeID]bool
	wrapTypes map[string]bool
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(config Config) *Analyzer {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wrapTypes := make(map[string]bool, len(config.WrapTypes))
	for _, t := range config.WrapTypes {
		wrapTypes[t] = true
	}

	return &Analyzer{
		graph:     NewTypeGraph(),
		config:    config,
		logger:    logger,
		fset:      token.NewFileSet(),
		models:    make(map[model.TypeID]bool),
		parcels:   make(map[model.TypeID]bool),
		wrapTypes: wrapTypes,
	}
}

// LoadPackages loads the specified packages and extracts their models.
// Patterns are standard Go package patterns (e.g., "./...", "extras-generator/examples/shop").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     a.config.Dir,
		Fset:    a.fset,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %s", strings.Join(patterns, " "))
	}

	// Type errors are tolerated: stale generated files in a model package
	// must not keep the generator from replacing them.
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError {
				a.graph.Diagnostics.AddWarning("type_check", e.Msg, "", "")
				a.logger.Warn("type error", "package", pkg.PkgPath, "pos", e.Pos, "error", e.Msg)

				continue
			}

			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Directives first: an ancestor may live in a package loaded after its descendant.
	for _, pkg := range pkgs {
		a.scanDirectives(pkg)
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	sort.Slice(a.graph.Models, func(i, j int) bool {
		return a.graph.Models[i].ID.String() < a.graph.Models[j].ID.String()
	})

	a.logger.Info("loaded packages", "packages", len(pkgs), "models", len(a.graph.Models))

	return a.graph, nil
}

// scanDirectives records which top-level types carry the model or parcel directive.
func (a *Analyzer) scanDirectives(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				id := model.TypeID{PkgPath: pkg.PkgPath, Name: ts.Name.Name}
				if _, ok := findDirective(gd, ts, ModelDirective); ok {
					a.models[id] = true
				}

				if args, ok := findDirective(gd, ts, ParcelDirective); ok {
					a.parcels[id] = true
					a.checkDirectiveArgs(id, ParcelDirective, args, nil)
				}

				a.checkUnknownDirectives(id, gd, ts)
			}
		}
	}
}

// processPackage extracts model declarations from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}

				for _, spec := range d.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok {
						a.processTypeSpec(pkg, pkgInfo, d, ts, true)
					}
				}

			case *ast.FuncDecl:
				if d.Body == nil {
					continue
				}

				// Types declared inside functions can carry the directive too;
				// they are recorded so the model can be rejected with a position.
				ast.Inspect(d.Body, func(n ast.Node) bool {
					gd, ok := n.(*ast.GenDecl)
					if !ok || gd.Tok != token.TYPE {
						return true
					}

					for _, spec := range gd.Specs {
						if ts, ok := spec.(*ast.TypeSpec); ok {
							a.processTypeSpec(pkg, pkgInfo, gd, ts, false)
						}
					}

					return false
				})
			}
		}
	}

	a.logger.Debug("analyzed package", "path", pkg.PkgPath, "models", len(pkgInfo.Models))
}

// processTypeSpec records a model declaration if ts carries the model directive.
func (a *Analyzer) processTypeSpec(
	pkg *packages.Package,
	pkgInfo *PackageInfo,
	gd *ast.GenDecl,
	ts *ast.TypeSpec,
	topLevel bool,
) {
	args, ok := findDirective(gd, ts, ModelDirective)
	if !ok {
		return
	}

	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return
	}

	id := model.TypeID{PkgPath: pkg.PkgPath, Name: ts.Name.Name}
	a.checkDirectiveArgs(id, ModelDirective, args, knownModelParams)

	decl := &ModelDecl{
		Declaration: model.Declaration{
			ID:             id,
			PackageName:    pkg.Name,
			Dir:            pkgInfo.Dir,
			TargetOverride: args["target"],
			Pos:            a.fset.Position(ts.Pos()),
			Exported:       ts.Name.IsExported(),
			TopLevel:       topLevel,
			Generic:        ts.TypeParams != nil && len(ts.TypeParams.List) > 0,
		},
	}

	named, isNamed := obj.Type().(*types.Named)
	st, isStruct := obj.Type().Underlying().(*types.Struct)
	decl.Struct = isNamed && isStruct && !ts.Assign.IsValid()

	if decl.Struct {
		decl.Fields = a.modelFields(pkg.Types, id, st)

		if topLevel {
			a.recordStruct(named)
		}
	}

	a.graph.Models = append(a.graph.Models, decl)
	pkgInfo.Models = append(pkgInfo.Models, id)
}

// modelFields returns the candidate bindings of a model struct.
func (a *Analyzer) modelFields(pkg *types.Package, owner model.TypeID, st *types.Struct) []model.FieldDeclaration {
	var fields []model.FieldDeclaration

	for i := range st.NumFields() {
		field := st.Field(i)
		tag := parseExtraTag(reflect.StructTag(st.Tag(i)))

		if tag.Skip {
			continue
		}

		if field.Embedded() {
			if n, _ := embeddedStruct(field.Type()); n != nil {
				continue
			}
		}

		for _, opt := range tag.Unknown {
			a.graph.Diagnostics.AddWarning("unknown_tag_option",
				fmt.Sprintf("ignoring unknown %s tag option %q%s", TagKey, opt, match.Hint(opt, knownTagOptions...)),
				owner.String(), field.Name())
		}

		fields = append(fields, model.FieldDeclaration{
			Name:       field.Name(),
			Exported:   field.Exported(),
			Key:        tag.Key,
			Optional:   tag.Optional,
			Value:      a.valueType(pkg, field.Type()),
			TypeString: types.TypeString(field.Type(), types.RelativeTo(pkg)),
			Pos:        a.fset.Position(field.Pos()),
		})
	}

	return fields
}

// recordStruct records the embedding structure of a named struct and of
// every struct it embeds.
func (a *Analyzer) recordStruct(named *types.Named) *StructInfo {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}

	id := model.TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
	if info, ok := a.graph.Structs[id]; ok {
		return info
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	info := &StructInfo{
		ID:      id,
		IsModel: a.models[id],
		Pos:     a.fset.Position(obj.Pos()),
	}

	// Pre-cache to handle embedding cycles through pointers
	a.graph.Structs[id] = info

	for i := range st.NumFields() {
		field := st.Field(i)
		tag := parseExtraTag(reflect.StructTag(st.Tag(i)))

		if field.Embedded() {
			if n, ptr := embeddedStruct(field.Type()); n != nil {
				info.Embeds = append(info.Embeds, Embed{
					Field:   field.Name(),
					Pointer: ptr,
					Type:    model.TypeID{PkgPath: pkgPath(n.Obj()), Name: n.Obj().Name()},
					Skip:    tag.Skip,
				})

				if !tag.Skip {
					a.recordStruct(n)
				}

				continue
			}
		}

		if field.Exported() && !tag.Skip {
			info.BindableFields++
		}
	}

	return info
}

// embeddedStruct returns the named struct behind an embedded field type.
func embeddedStruct(t types.Type) (*types.Named, bool) {
	pointer := false
	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		t = p.Elem()
		pointer = true
	}

	n, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, false
	}

	if _, ok := n.Underlying().(*types.Struct); !ok {
		return nil, false
	}

	return n, pointer
}

func pkgPath(obj types.Object) string {
	if obj.Pkg() == nil {
		return ""
	}

	return obj.Pkg().Path()
}

// checkDirectiveArgs warns about arguments a directive does not take.
func (a *Analyzer) checkDirectiveArgs(id model.TypeID, directive string, args map[string]string, known []string) {
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}

	sort.Strings(names)

	for _, k := range names {
		if slices.Contains(known, k) {
			continue
		}

		a.graph.Diagnostics.AddWarning("unknown_directive_argument",
			fmt.Sprintf("ignoring unknown %s argument %q%s", strings.TrimPrefix(directive, "//"), k, match.Hint(k, known...)),
			id.String(), "")
	}
}

// checkUnknownDirectives warns about extras: comments on ts that are not a
// known directive, such as a misspelled //extras:model.
func (a *Analyzer) checkUnknownDirectives(id model.TypeID, gd *ast.GenDecl, ts *ast.TypeSpec) {
	for _, g := range directiveGroups(gd, ts) {
		for _, c := range g.List {
			if !strings.HasPrefix(c.Text, DirectivePrefix) {
				continue
			}

			name := strings.Fields(c.Text)[0]
			if slices.Contains(knownDirectives, name) {
				continue
			}

			a.graph.Diagnostics.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticWarning,
				Code:     "unknown_directive",
				Message: fmt.Sprintf("ignoring unknown directive %s%s",
					strings.TrimPrefix(name, "//"), match.Hint(name, knownDirectives...)),
				Model: id.String(),
				Pos:   a.fset.Position(c.Pos()),
			})
		}
	}
}

// directiveGroups returns the comment groups a directive of ts may sit in.
// The doc of a grouped type declaration belongs to no single type.
func directiveGroups(gd *ast.GenDecl, ts *ast.TypeSpec) []*ast.CommentGroup {
	var groups []*ast.CommentGroup

	if ts.Doc != nil {
		groups = append(groups, ts.Doc)
	}

	if gd.Doc != nil && len(gd.Specs) == 1 {
		groups = append(groups, gd.Doc)
	}

	return groups
}

// findDirective looks for a directive in the doc comment of a type spec, or
// of its declaration when the declaration holds a single spec.
func findDirective(gd *ast.GenDecl, ts *ast.TypeSpec, directive string) (map[string]string, bool) {
	for _, g := range directiveGroups(gd, ts) {
		for _, c := range g.List {
			if args, ok := parseDirective(c.Text, directive); ok {
				return args, true
			}
		}
	}

	return nil, false
}
