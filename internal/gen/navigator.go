package gen

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"extras-generator/internal/common"
	"extras-generator/internal/plan"
)

// generateNavigator renders the navigator file over every plan.
func (g *Generator) generateNavigator(plans []*plan.StagePlan) (*GeneratedFile, error) {
	dir := g.navigatorDir()
	pkgPath, pkgName := "", g.config.Navigator.Package

	// The navigator may share a directory with models; it then joins their package.
	for _, sp := range plans {
		if g.outputDir(sp) == dir {
			pkgPath, pkgName = sp.Model.PkgPath, sp.PackageName
			break
		}
	}

	f := genNavigator(plans, pkgPath, pkgName, g.headerLines())

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering navigator: %w", err)
	}

	return &GeneratedFile{
		Dir:      dir,
		Filename: navigatorFile + g.config.FileSuffix,
		Content:  buf.Bytes(),
	}, nil
}

// navigatorDir returns the directory the navigator file is written to.
func (g *Generator) navigatorDir() string {
	if g.config.OutputDir != "" {
		return filepath.Join(g.config.OutputDir, g.config.Navigator.Package)
	}

	if filepath.IsAbs(g.config.Navigator.Dir) {
		return g.config.Navigator.Dir
	}

	return filepath.Join(g.config.Dir, g.config.Navigator.Dir)
}

// genNavigator builds one Goto function per plan returning its fresh entry.
func genNavigator(plans []*plan.StagePlan, pkgPath, pkgName string, header []string) *jen.File {
	var f *jen.File
	if pkgPath != "" {
		f = jen.NewFilePathName(pkgPath, pkgName)
	} else {
		f = jen.NewFile(pkgName)
	}

	for _, line := range header {
		f.HeaderComment(line)
	}

	names := gotoNames(plans)

	for _, sp := range plans {
		name := names[sp.Model.String()]

		f.Commentf("%s starts a %s intent.", name, sp.TargetName)
		f.Func().Id(name).Params().Add(entryType(sp)).Block(
			jen.Return(jen.Qual(sp.Model.PkgPath, sp.Entry.New).Call()),
		)
	}

	return f
}

// entryType is the type returned by the fresh entry of sp.
func entryType(sp *plan.StagePlan) *jen.Statement {
	resolved := jen.Op("*").Qual(sp.Model.PkgPath, sp.AllSet.Resolved)
	if sp.Entry.Kind == plan.EntryAllSet {
		return resolved
	}

	return jen.Qual(sp.Entry.Stage.PkgPath, sp.Entry.Stage.Name).Types(resolved)
}

// gotoNames names the navigator functions. A target name claimed in more
// than one package is prefixed with the package name.
func gotoNames(plans []*plan.StagePlan) map[string]string {
	count := make(map[string]int)
	for _, sp := range plans {
		count[sp.TargetName]++
	}

	names := make(map[string]string, len(plans))

	for _, sp := range plans {
		name := "Goto" + sp.TargetName
		if count[sp.TargetName] > 1 {
			name = "Goto" + common.Capitalize(sp.PackageName) + sp.TargetName
		}

		names[sp.Model.String()] = name
	}

	return names
}
