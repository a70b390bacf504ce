package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"extras-generator/internal/model"
	"extras-generator/internal/plan"
)

// generateBinder renders the binder file of sp.
func (g *Generator) generateBinder(sp *plan.StagePlan) (*GeneratedFile, error) {
	f := genBinder(sp, g.headerLines())

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering binder: %w", err)
	}

	return &GeneratedFile{
		Dir:      g.outputDir(sp),
		Filename: g.fileName(sp, binderKind),
		Content:  buf.Bytes(),
		Model:    sp.Model.String(),
	}, nil
}

// genBinder builds the binder function of sp:
//
//	func BindCheckoutModel(target *CheckoutModel, source extras.Carrier) error
//
// The parent model is bound first, then every key of the model itself.
func genBinder(sp *plan.StagePlan, header []string) *jen.File {
	f := jen.NewFilePathName(sp.Model.PkgPath, sp.PackageName)
	for _, line := range header {
		f.HeaderComment(line)
	}

	f.ImportName(RuntimePath, "extras")

	b := sp.Binder

	var body []jen.Code
	if b.Parent != nil {
		body = append(body, bindParent(b.Parent)...)
	}

	required := false

	for _, grp := range b.Groups {
		body = append(body, bindGroup(grp))
		required = required || grp.Required
	}

	body = append(body, jen.Return(jen.Nil()))

	f.Commentf("%s copies the extras found in source into target.", b.Func)

	if required {
		f.Comment("A missing required extra is reported as *extras.MissingExtraError.")
	}

	f.Func().Id(b.Func).Params(
		jen.Id("target").Op("*").Id(b.Model),
		jen.Id("source").Qual(RuntimePath, "Carrier"),
	).Error().Block(body...)

	return f
}

// bindParent allocates nil pointer embeds on the way to the parent model and
// calls the parent's binder.
func bindParent(p *plan.ParentBinder) []jen.Code {
	if len(p.Path) == 0 {
		return nil
	}

	var code []jen.Code

	for i, step := range p.Path {
		if !step.Pointer {
			continue
		}

		code = append(code, jen.If(embedPath(p.Path[:i+1]).Op("==").Nil()).Block(
			embedPath(p.Path[:i+1]).Op("=").New(jen.Qual(step.Type.PkgPath, step.Type.Name)),
		))
	}

	arg := embedPath(p.Path)
	if !p.Path[len(p.Path)-1].Pointer {
		arg = jen.Op("&").Add(arg)
	}

	code = append(code, jen.If(
		jen.Err().Op(":=").Qual(p.Func.PkgPath, p.Func.Name).Call(arg, jen.Id("source")),
		jen.Err().Op("!=").Nil(),
	).Block(jen.Return(jen.Err())))

	return code
}

// embedPath renders target.A.B for the given steps.
func embedPath(steps []model.EmbedStep) *jen.Statement {
	s := jen.Id("target")
	for _, step := range steps {
		s = s.Dot(step.Field)
	}

	return s
}

// bindGroup assigns one key to every field sharing it.
func bindGroup(grp plan.BinderGroup) jen.Code {
	assigns := make([]jen.Code, 0, len(grp.Fields))

	for _, field := range grp.Fields {
		assigns = append(assigns, jen.If(
			jen.Err().Op(":=").Qual(RuntimePath, "Assign").Call(
				jen.Op("&").Id("target").Dot(field), jen.Id("v"), jen.Lit(grp.Key)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())))
	}

	stmt := jen.If(
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Qual(RuntimePath, "Lookup").Call(jen.Id("source"), jen.Lit(grp.Key)),
		jen.Id("ok"),
	).Block(assigns...)

	if !grp.Required {
		return stmt
	}

	fields := make([]jen.Code, 0, len(grp.RequiredFields))
	for _, field := range grp.RequiredFields {
		fields = append(fields, jen.Lit(field))
	}

	return stmt.Else().Block(
		jen.Return(jen.Op("&").Qual(RuntimePath, "MissingExtraError").Values(jen.Dict{
			jen.Id("Key"):    jen.Lit(grp.Key),
			jen.Id("Fields"): jen.Index().String().Values(fields...),
		})),
	)
}
