package plan

import (
	"fmt"
	"log/slog"
	"sort"

	"extras-generator/internal/model"
	"extras-generator/internal/resolve"
)

// Generated name parts.
const (
	requiredSequenceSuffix = "RequiredSequence"
	allSetSuffix           = "AllSet"
	resolvedAllSetSuffix   = "ResolvedAllSet"
	newPrefix              = "New"
	resumePrefix           = "Resume"
	builderSuffix          = "IntentBuilder"
	binderPrefix           = "Bind"
)

// Config holds configuration for the planning process.
type Config struct {
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// Planner computes stage plans. Plans are cached, so a model is planned
// once per Planner however many descendants read it.
type Planner struct {
	config Config
	logger *slog.Logger

	plans  map[*model.Target]*StagePlan
	failed map[*model.Target]error
	// names maps a package path and target name to the model claiming it.
	names map[string]model.TypeID
}

// NewPlanner creates a new Planner.
func NewPlanner(config Config) *Planner {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Planner{
		config: config,
		logger: logger,
		plans:  make(map[*model.Target]*StagePlan),
		failed: make(map[*model.Target]error),
		names:  make(map[string]model.TypeID),
	}
}

// PlanAll plans every accepted model of ctx in ancestor-first order. A model
// that cannot be planned is reported and skipped together with its
// descendants; the remaining models are still planned.
func (p *Planner) PlanAll(ctx *resolve.Context) *Result {
	result := &Result{}

	for _, t := range ctx.Models {
		sp, err := p.Plan(t)
		if err != nil {
			model.Report(&result.Diagnostics, err)
			continue
		}

		result.Plans = append(result.Plans, sp)
	}

	p.logger.Info("planned models", "planned", len(result.Plans), "failed", len(p.failed))

	return result
}

// Plan returns the stage plan of t, planning its ancestors first.
func (p *Planner) Plan(t *model.Target) (*StagePlan, error) {
	if sp, ok := p.plans[t]; ok {
		return sp, nil
	}

	if err, ok := p.failed[t]; ok {
		return nil, err
	}

	sp, err := p.plan(t)
	if err != nil {
		p.failed[t] = err
		return nil, err
	}

	p.plans[t] = sp

	p.logger.Debug("planned model",
		"model", t.ID.String(),
		"stages", len(sp.Stages),
		"entry", sp.Entry.Kind.String(),
		"flattened", sp.Flattened || sp.AllSet.Flattened)

	return sp, nil
}

func (p *Planner) plan(t *model.Target) (*StagePlan, error) {
	var parent *StagePlan

	if t.Parent != nil {
		var err error

		parent, err = p.Plan(t.Parent)
		if err != nil {
			return nil, model.NewViolation(model.ViolationAncestorResolution, t.ID.String(), "",
				fmt.Sprintf("parent %s does not have a builder; it could not be planned.", t.Parent.ID), t.Pos)
		}
	}

	if err := p.claimTargetName(t); err != nil {
		return nil, err
	}

	if err := checkSetterNames(t, parent); err != nil {
		return nil, err
	}

	if err := checkEmbeddedNames(t, parent); err != nil {
		return nil, err
	}

	sp := &StagePlan{
		Model:       t.ID,
		PackageName: t.PackageName,
		Dir:         t.Dir,
		TargetName:  t.TargetName,
	}

	if t.Parent != nil {
		sp.Parent = t.Parent.ID
	}

	if t.ClosestRequiredAncestor != nil {
		sp.RequiredAncestor = t.ClosestRequiredAncestor.ID
	}

	planChain(sp, t, parent)
	planAllSet(sp, t, parent)
	planEntry(sp)
	planBinder(sp, t, parent)

	return sp, nil
}

// claimTargetName reserves the generated names of t in its package.
func (p *Planner) claimTargetName(t *model.Target) error {
	key := t.ID.PkgPath + "." + t.TargetName

	if other, ok := p.names[key]; ok && other != t.ID {
		return model.NewViolation(model.ViolationStructural, t.ID.String(), "",
			fmt.Sprintf("target %s of model %s is already built by model %s.", t.TargetName, t.ID, other), t.Pos)
	}

	p.names[key] = t.ID

	return nil
}

// checkSetterNames rejects distinct keys that would produce the same setter
// once the inherited setters are merged in.
func checkSetterNames(t *model.Target, parent *StagePlan) error {
	if parent == nil {
		return nil
	}

	inherited := make(map[string]Setter)

	for _, s := range parent.required {
		inherited[s.Name] = s
	}

	for _, s := range parent.optional {
		inherited[s.Name] = s
	}

	for _, g := range t.Groups() {
		s, ok := inherited[g.SetterName()]
		if !ok || s.Key == g.Key {
			continue
		}

		field := g.Bindings[0].FieldName

		return model.NewViolation(model.ViolationKeySyntax, t.ID.String(), field,
			fmt.Sprintf("keys %q and %q both produce the setter %s (%s.%s).",
				s.Key, g.Key, s.Name, t.ID, field), g.Bindings[0].Pos)
	}

	return nil
}

// checkEmbeddedNames rejects setters named like a field embedded in the
// generated AllSet types: the model's own AllSet, embedded by its resolved
// AllSet, and the AllSet of every ancestor along the embed chain. Such a
// setter either clashes with the field or is shadowed by it.
func checkEmbeddedNames(t *model.Target, parent *StagePlan) error {
	embedded := map[string]string{t.TargetName + allSetSuffix: t.ID.String()}
	for _, a := range t.Ancestors() {
		embedded[a.TargetName+allSetSuffix] = a.ID.String()
	}

	for _, g := range t.Groups() {
		owner, ok := embedded[g.SetterName()]
		if !ok {
			continue
		}

		field := g.Bindings[0].FieldName

		return model.NewViolation(model.ViolationKeySyntax, t.ID.String(), field,
			fmt.Sprintf("key %q collides with the generated type %s of model %s (%s.%s).",
				g.Key, g.SetterName(), owner, t.ID, field), g.Bindings[0].Pos)
	}

	if parent == nil {
		return nil
	}

	own := t.TargetName + allSetSuffix

	for _, setters := range [][]Setter{parent.required, parent.optional} {
		for _, s := range setters {
			if s.Name != own {
				continue
			}

			return model.NewViolation(model.ViolationKeySyntax, t.ID.String(), "",
				fmt.Sprintf("inherited key %q of model %s collides with the generated type %s.",
					s.Key, s.Origin, own), t.Pos)
		}
	}

	return nil
}

// planChain builds the required chain. Without a key shared with the
// inherited chain, the model's own required groups are chained and the last
// stage continues into the nearest ancestor chain. A shared key folds the
// inherited required setters into the model's own chain instead, with the
// model's group winning.
func planChain(sp *StagePlan, t *model.Target, parent *StagePlan) {
	own := make(map[string]bool)
	for _, g := range t.Groups() {
		own[g.Key] = true
	}

	var inherited []Setter
	if parent != nil {
		inherited = parent.required
	}

	var chain []Setter
	for _, g := range t.RequiredGroups() {
		chain = append(chain, newSetter(t, g))
	}

	overlap := false

	for _, s := range inherited {
		if own[s.Key] {
			overlap = true
			break
		}
	}

	if overlap {
		sp.Flattened = true

		for _, s := range inherited {
			if !own[s.Key] {
				chain = append(chain, s)
			}
		}

		sortSetters(chain)
		sp.required = chain
	} else {
		if parent != nil {
			sp.Tail = parent.Continuation()
		}

		sp.required = append(append([]Setter(nil), chain...), inherited...)
		sortSetters(sp.required)
	}

	prefix := t.TargetName
	for i, s := range chain {
		stage := Stage{Setter: s}

		if i == 0 {
			stage.Name = prefix + requiredSequenceSuffix
		} else {
			stage.Name = prefix + model.StageName(chain[i-1].Key)
		}

		if i < len(chain)-1 {
			stage.Next = prefix + model.StageName(s.Key)
		}

		sp.Stages = append(sp.Stages, stage)
	}
}

// planAllSet shapes the terminal type. It embeds the parent's AllSet so
// optional setters accumulate down the hierarchy; an own optional key
// shadows the inherited setter of the same key. When a required key of the
// model masks an inherited optional setter, the inherited setters cannot be
// promoted and are re-emitted on a flattened AllSet instead.
func planAllSet(sp *StagePlan, t *model.Target, parent *StagePlan) {
	prefix := t.TargetName
	sp.AllSet.Name = prefix + allSetSuffix
	sp.AllSet.Resolved = prefix + resolvedAllSetSuffix

	var own []Setter

	ownKeys := make(map[string]bool)

	for _, g := range t.OptionalGroups() {
		own = append(own, newSetter(t, g))
		ownKeys[g.Key] = true
	}

	required := make(map[string]bool)
	for _, s := range sp.required {
		required[s.Key] = true
	}

	var inherited []Setter
	if parent != nil {
		inherited = parent.optional
	}

	var surviving []Setter

	masked := false

	for _, s := range inherited {
		switch {
		case required[s.Key]:
			masked = true
		case !ownKeys[s.Key]:
			surviving = append(surviving, s)
		}
	}

	sp.optional = append(append([]Setter(nil), own...), surviving...)
	sortSetters(sp.optional)

	switch {
	case masked:
		sp.AllSet.Flattened = true
		sp.AllSet.Setters = sp.optional
	case parent != nil:
		sp.AllSet.Embeds = parent.Symbol(parent.AllSet.Name)
		sp.AllSet.Setters = own
	default:
		sp.AllSet.Setters = own
	}
}

// planEntry picks the entry points. A continuation entry exists whenever a
// required chain is reachable from the model.
func planEntry(sp *StagePlan) {
	prefix := sp.TargetName
	sp.Entry.New = newPrefix + prefix + builderSuffix

	switch {
	case len(sp.Stages) > 0:
		sp.Entry.Kind = EntryChain
		sp.Entry.Resume = resumePrefix + prefix + builderSuffix
		sp.Entry.Stage = sp.Symbol(sp.Stages[0].Name)
	case sp.Tail != nil:
		sp.Entry.Kind = EntryDelegate
		sp.Entry.Resume = resumePrefix + prefix + builderSuffix
		sp.Entry.Stage = sp.Tail.Stage
		sp.Entry.Delegate = sp.Tail
	default:
		sp.Entry.Kind = EntryAllSet
	}
}

func planBinder(sp *StagePlan, t *model.Target, parent *StagePlan) {
	sp.Binder = Binder{
		Func:  binderPrefix + t.ID.Name,
		Model: t.ID.Name,
	}

	for _, g := range t.Groups() {
		bg := BinderGroup{Key: g.Key, Required: g.Required()}

		for _, b := range g.Bindings {
			bg.Fields = append(bg.Fields, b.FieldName)
		}

		for _, b := range g.RequiredBindings() {
			bg.RequiredFields = append(bg.RequiredFields, b.FieldName)
		}

		sp.Binder.Groups = append(sp.Binder.Groups, bg)
	}

	if parent != nil {
		sp.Binder.Parent = &ParentBinder{
			Func: parent.Symbol(parent.Binder.Func),
			Path: t.ParentPath,
		}
	}
}

func newSetter(t *model.Target, g *model.ExtraGroup) Setter {
	s := Setter{
		Name:   g.SetterName(),
		Key:    g.Key,
		Value:  g.Value(),
		Origin: t.ID,
	}

	for _, b := range g.Bindings {
		s.Fields = append(s.Fields, b.FieldName)
	}

	return s
}

func sortSetters(setters []Setter) {
	sort.SliceStable(setters, func(i, j int) bool {
		return setters[i].Key < setters[j].Key
	})
}
