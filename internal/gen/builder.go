package gen

import (
	"bytes"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"

	"extras-generator/internal/model"
	"extras-generator/internal/plan"
)

// builderData holds all data needed for the builder template.
type builderData struct {
	Header      []string
	PackageName string
	Imports     []importSpec
	Model       string
	Target      string
	Stages      []stageData
	AllSet      allSetData
	Entry       entryData
}

// setterData is one rendered setter.
type setterData struct {
	Name string
	Key  string
	// Param is the parameter type.
	Param string
	// Value is the expression stored in the carrier.
	Value string
}

// stageData is one required stage type.
type stageData struct {
	Type    string
	First   bool
	Setter  setterData
	Returns string
	Return  string
}

type allSetData struct {
	Name     string
	Resolved string
	// Embeds is the embedded type without its type argument.
	Embeds  string
	Setters []setterData
}

type entryData struct {
	Kind   string
	New    string
	Resume string
	// Stage is the generic type New and Resume return, without type arguments.
	Stage string
	// Delegate is the ancestor continuation Resume forwards to.
	Delegate string
}

// formatOptions formats and groups imports without adding or removing any.
// The builder lists exactly the imports it uses, so the output does not
// depend on the packages visible to the process.
var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// generateBuilder renders the builder file of sp.
func (g *Generator) generateBuilder(sp *plan.StagePlan) (*GeneratedFile, error) {
	file := &GeneratedFile{
		Dir:      g.outputDir(sp),
		Filename: g.fileName(sp, builderKind),
		Model:    sp.Model.String(),
	}

	data, err := g.buildBuilderData(sp)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := builderTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := imports.Process(file.Path(), buf.Bytes(), formatOptions)
	if err != nil {
		// Best-effort: keep the unformatted code next to the output for debugging.
		if !g.config.DryRun {
			_ = writeDebugUnformatted(file.Dir, file.Filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting %s: %w", file.Filename, err)
	}

	file.Content = formatted

	return file, nil
}

// buildBuilderData constructs the template data from a stage plan.
func (g *Generator) buildBuilderData(sp *plan.StagePlan) (*builderData, error) {
	deps := newImportSet(sp.Model.PkgPath)
	deps.qualify(RuntimePath, "extras")

	data := &builderData{
		Header:      g.headerLines(),
		PackageName: sp.PackageName,
		Model:       sp.Model.Name,
		Target:      sp.TargetName,
	}

	for i, st := range sp.Stages {
		setter, err := renderSetter(st.Setter, deps)
		if err != nil {
			return nil, err
		}

		sd := stageData{
			Type:   st.Name,
			First:  i == 0,
			Setter: setter,
		}

		switch {
		case st.Next != "":
			sd.Returns = st.Next + "[S]"
			sd.Return = st.Next + "[S]{carrier: s.carrier, allSet: s.allSet}"
		case sp.Tail != nil:
			sd.Returns = deps.symbol(sp.Tail.Stage) + "[S]"
			sd.Return = deps.symbol(sp.Tail.Func) + "(s.carrier, s.allSet)"
		default:
			sd.Returns = "S"
			sd.Return = "s.allSet"
		}

		data.Stages = append(data.Stages, sd)
	}

	data.AllSet = allSetData{
		Name:     sp.AllSet.Name,
		Resolved: sp.AllSet.Resolved,
		Embeds:   "extras.AllSetState",
	}

	if !sp.AllSet.Embeds.IsZero() {
		data.AllSet.Embeds = deps.symbol(sp.AllSet.Embeds)
	}

	for _, s := range sp.AllSet.Setters {
		setter, err := renderSetter(s, deps)
		if err != nil {
			return nil, err
		}

		data.AllSet.Setters = append(data.AllSet.Setters, setter)
	}

	data.Entry = entryData{
		Kind:   sp.Entry.Kind.String(),
		New:    sp.Entry.New,
		Resume: sp.Entry.Resume,
	}

	if sp.Entry.Kind != plan.EntryAllSet {
		data.Entry.Stage = deps.symbol(sp.Entry.Stage)
	}

	if d := sp.Entry.Delegate; d != nil {
		data.Entry.Delegate = deps.symbol(d.Func)
	}

	data.Imports = deps.specs()

	return data, nil
}

// renderSetter renders a setter, naming the packages of its value type
// through deps.
func renderSetter(s plan.Setter, deps *importSet) (setterData, error) {
	param, err := deps.typeExpr(s.Value)
	if err != nil {
		return setterData{}, fmt.Errorf("setter %s: %w", s.Name, err)
	}

	value := "v"
	if s.Value.Kind == model.ValueKindWrapped {
		value = "extras.Wrap(v)"
	}

	return setterData{
		Name:  s.Name,
		Key:   s.Key,
		Param: param,
		Value: value,
	}, nil
}

var builderTemplate = template.Must(template.New("builder").Parse(`{{range .Header}}// {{.}}
{{end}}
package {{.PackageName}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{range .Stages}}
// {{.Type}} is {{if .First}}the first{{else}}a{{end}} required stage of {{$.Target}} intents.
type {{.Type}}[S any] struct {
	carrier extras.Carrier
	allSet  S
}

// {{.Setter.Name}} sets the required extra {{printf "%q" .Setter.Key}}.
func (s {{.Type}}[S]) {{.Setter.Name}}(v {{.Setter.Param}}) {{.Returns}} {
	s.carrier.Put({{printf "%q" .Setter.Key}}, {{.Setter.Value}})

	return {{.Return}}
}
{{end}}
// {{.AllSet.Name}} holds the optional extras of {{.Target}} intents. S is the
// type every setter returns.
type {{.AllSet.Name}}[S any] struct {
	{{.AllSet.Embeds}}[S]
}
{{range .AllSet.Setters}}
// {{.Name}} sets the optional extra {{printf "%q" .Key}}.
func (a *{{$.AllSet.Name}}[S]) {{.Name}}(v {{.Param}}) S {
	a.Carrier().Put({{printf "%q" .Key}}, {{.Value}})

	return a.Self()
}
{{end}}
// {{.AllSet.Resolved}} is reached once every required extra of {{.Target}}
// intents is set.
type {{.AllSet.Resolved}} struct {
	{{.AllSet.Name}}[*{{.AllSet.Resolved}}]
}

func new{{.AllSet.Resolved}}(c extras.Carrier) *{{.AllSet.Resolved}} {
	a := &{{.AllSet.Resolved}}{}
	a.Init(c, {{printf "%q" .Target}}, a)

	return a
}
{{if eq .Entry.Kind "all_set"}}
// {{.Entry.New}} starts a {{.Target}} intent. No extra is required.
func {{.Entry.New}}() *{{.AllSet.Resolved}} {
	return new{{.AllSet.Resolved}}(extras.NewBundle())
}
{{else}}
// {{.Entry.New}} starts a {{.Target}} intent.
func {{.Entry.New}}() {{.Entry.Stage}}[*{{.AllSet.Resolved}}] {
	c := extras.NewBundle()

	return {{.Entry.Resume}}(c, new{{.AllSet.Resolved}}(c))
}

// {{.Entry.Resume}} asks for the required extras of {{.Target}} intents on c
// and returns allSet once they are set.
func {{.Entry.Resume}}[S any](c extras.Carrier, allSet S) {{.Entry.Stage}}[S] {
{{- if eq .Entry.Kind "chain"}}
	return {{.Entry.Stage}}[S]{carrier: c, allSet: allSet}
{{- else}}
	return {{.Entry.Delegate}}(c, allSet)
{{- end}}
}
{{end}}`))
