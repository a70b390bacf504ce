package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extras-generator/internal/config"
	"extras-generator/internal/model"
	"extras-generator/internal/plan"
)

func TestGenBinder(t *testing.T) {
	m := newModel(t, appPkg, "MModel", nil, false,
		req("A", "a", "int"),
		req("Owner", "a", "int64"),
		opt("Shadow", "a", "int"),
		opt("C", "c", "string"),
	)

	sp := planAll(t, m)[0]
	code := genBinder(sp, nil).GoString()

	assert.Contains(t, code, "package app")
	assert.Contains(t, code, "// BindMModel copies the extras found in source into target.")
	assert.Contains(t, code, "func BindMModel(target *MModel, source extras.Carrier) error {")
	assert.Contains(t, code, `if v, ok := extras.Lookup(source, "a"); ok {`)
	assert.Contains(t, code, `extras.Assign(&target.A, v, "a")`)
	assert.Contains(t, code, `extras.Assign(&target.Owner, v, "a")`)
	assert.Contains(t, code, `extras.Assign(&target.Shadow, v, "a")`)
	assert.Contains(t, code, `extras.Assign(&target.C, v, "c")`)
	assert.Contains(t, code, "&extras.MissingExtraError{")
	assert.Contains(t, code, `[]string{"A", "Owner"}`, "optional fields are not named")
	assert.Equal(t, 1, strings.Count(code, "MissingExtraError{"), "optional keys never fail")
	assert.Contains(t, code, "return nil")
}

func TestGenBinder_Parent(t *testing.T) {
	parent := newModel(t, basePkg, "ParentModel", nil, false, req("ID", "id", "int64"))

	t.Run("value embed", func(t *testing.T) {
		child := newModel(t, appPkg, "ChildModel", parent, false, opt("Note", "note", "string"))
		code := genBinder(planAll(t, parent, child)[1], nil).GoString()

		assert.Contains(t, code, "base.BindParentModel(&target.ParentModel, source)")
		assert.NotContains(t, code, "new(")
		assert.NotContains(t, code, "MissingExtraError")
	})

	t.Run("pointer embed", func(t *testing.T) {
		child := newModel(t, appPkg, "ChildModel", parent, true, opt("Note", "note", "string"))
		code := genBinder(planAll(t, parent, child)[1], nil).GoString()

		assert.Contains(t, code, "if target.ParentModel == nil {")
		assert.Contains(t, code, "target.ParentModel = new(base.ParentModel)")
		assert.Contains(t, code, "base.BindParentModel(target.ParentModel, source)")
	})
}

func TestGenBinder_PathThroughIntermediate(t *testing.T) {
	parent := newModel(t, appPkg, "ParentModel", nil, false, req("ID", "id", "int64"))
	child := newModel(t, appPkg, "ChildModel", parent, false)
	mixin := model.EmbedStep{Field: "Mixin", Pointer: true, Type: model.TypeID{PkgPath: appPkg, Name: "Mixin"}}
	child.ParentPath = append([]model.EmbedStep{mixin}, child.ParentPath...)

	code := genBinder(planAll(t, parent, child)[1], nil).GoString()

	assert.Contains(t, code, "target.Mixin = new(Mixin)")
	assert.Contains(t, code, "BindParentModel(&target.Mixin.ParentModel, source)")
}

func TestGenerate_BinderFiles(t *testing.T) {
	m := newModel(t, appPkg, "MModel", nil, false, req("A", "a", "int"))

	files := generate(t, config.Default(), planAll(t, m)...)
	code := files["m_model_binder_gen.go"]

	assert.Contains(t, code, "// "+config.DefaultHeader+"\n\npackage app")
	assert.Contains(t, code, `"extras-generator/extras"`)
}

func TestGenNavigator(t *testing.T) {
	parent := newModel(t, basePkg, "ParentModel", nil, false, req("ID", "id", "int64"))
	child := newModel(t, appPkg, "ChildModel", parent, false, opt("Note", "note", "string"))
	home := newModel(t, appPkg, "HomeModel", nil, false)

	plans := planAll(t, parent, child, home)
	code := genNavigator(plans, "", "navigator", nil).GoString()

	assert.Contains(t, code, "package navigator")
	assert.Contains(t, code, "// GotoParent starts a Parent intent.")
	assert.Contains(t, code, "func GotoParent() base.ParentRequiredSequence[*base.ParentResolvedAllSet] {")
	assert.Contains(t, code, "return base.NewParentIntentBuilder()")
	assert.Contains(t, code, "func GotoChild() base.ParentRequiredSequence[*app.ChildResolvedAllSet] {")
	assert.Contains(t, code, "func GotoHome() *app.HomeResolvedAllSet {")
}

func TestGenNavigator_InModelPackage(t *testing.T) {
	home := newModel(t, appPkg, "HomeModel", nil, false)

	code := genNavigator(planAll(t, home), appPkg, "app", nil).GoString()

	assert.Contains(t, code, "package app")
	assert.Contains(t, code, "func GotoHome() *HomeResolvedAllSet {")
	assert.Contains(t, code, "return NewHomeIntentBuilder()")
}

func TestGotoNames(t *testing.T) {
	a := newModel(t, appPkg, "ScreenModel", nil, false)
	b := newModel(t, basePkg, "ScreenModel", nil, false)
	c := newModel(t, appPkg, "HomeModel", nil, false)

	p := plan.NewPlanner(plan.Config{})

	var plans []*plan.StagePlan

	for _, target := range []*model.Target{a, b, c} {
		sp, err := p.Plan(target)
		require.NoError(t, err)

		plans = append(plans, sp)
	}

	names := gotoNames(plans)
	assert.Equal(t, "GotoAppScreen", names[appPkg+".ScreenModel"])
	assert.Equal(t, "GotoBaseScreen", names[basePkg+".ScreenModel"])
	assert.Equal(t, "GotoHome", names[appPkg+".HomeModel"])
}

func TestGenerate_Navigator(t *testing.T) {
	home := newModel(t, appPkg, "HomeModel", nil, false)
	sp := planAll(t, home)[0]
	sp.Dir = "/src/app"

	cfg := config.Default()
	cfg.Dir = "/src"
	cfg.Navigator = config.NavigatorConfig{Enabled: true, Dir: "nav", Package: "routes"}

	files, diags := NewGenerator(cfg).Generate([]*plan.StagePlan{sp})
	require.True(t, diags.IsValid())
	require.Len(t, files, 3)

	nav := files[2]
	assert.Equal(t, "/src/nav/navigator_gen.go", nav.Path())
	assert.Empty(t, nav.Model)
	assert.Contains(t, string(nav.Content), "package routes")

	// A navigator placed in a model directory joins that package.
	cfg.Navigator.Dir = "app"

	files, diags = NewGenerator(cfg).Generate([]*plan.StagePlan{sp})
	require.True(t, diags.IsValid())

	var found bool

	for _, f := range files {
		if f.Filename == "navigator_gen.go" {
			found = true

			assert.Equal(t, "/src/app", f.Dir)
			assert.Contains(t, string(f.Content), "package app")
			assert.Contains(t, string(f.Content), "return NewHomeIntentBuilder()")
		}
	}

	assert.True(t, found)
}
