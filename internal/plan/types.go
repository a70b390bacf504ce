package plan

import (
	"extras-generator/internal/diagnostic"
	"extras-generator/internal/model"
)

// Symbol names a generated declaration.
type Symbol struct {
	PkgPath string
	PkgName string
	Name    string
}

// In returns the symbol as referenced from the package pkgPath.
func (s Symbol) In(pkgPath string) string {
	if s.PkgPath == pkgPath || s.PkgPath == "" {
		return s.Name
	}

	return s.PkgName + "." + s.Name
}

// IsZero reports whether the symbol is unset.
func (s Symbol) IsZero() bool {
	return s.Name == ""
}

// Setter is one builder method writing one key into the carrier.
type Setter struct {
	// Name is the Go method name.
	Name string
	// Key is the carrier key.
	Key string
	// Value is the parameter type, taken from the first binding of the group.
	Value model.ValueType
	// Fields are the model fields populated from the key.
	Fields []string
	// Origin is the model that declared the group.
	Origin model.TypeID
}

// Stage is one type of the required chain. It exposes exactly one setter.
type Stage struct {
	// Name is the Go type name of the stage.
	Name   string
	Setter Setter
	// Next is the stage type the setter returns. Empty on the last stage.
	Next string
}

// Continuation is the continuation entry of an ancestor chain.
type Continuation struct {
	// Func is the ancestor's Resume function.
	Func Symbol
	// Stage is the stage type Func returns.
	Stage Symbol
	// Model is the ancestor owning the chain.
	Model model.TypeID
}

// AllSet is the terminal type of a plan.
type AllSet struct {
	// Name is the generic AllSet type, parameterized by the self type.
	Name string
	// Resolved is the concrete AllSet instantiated with itself.
	Resolved string
	// Embeds is the parent's AllSet. Zero when the state is embedded directly.
	Embeds Symbol
	// Flattened is set when inherited optional setters are re-emitted on
	// this type instead of being promoted from the parent.
	Flattened bool
	// Setters are the optional setters declared on this type.
	Setters []Setter
}

// EntryKind describes what the entry points of a plan return.
type EntryKind int

const (
	// EntryAllSet returns the resolved AllSet; nothing is required.
	EntryAllSet EntryKind = iota
	// EntryChain returns the first stage of the model's own chain.
	EntryChain
	// EntryDelegate continues straight into an ancestor chain.
	EntryDelegate
)

// String returns the string representation of the EntryKind.
func (k EntryKind) String() string {
	switch k {
	case EntryAllSet:
		return "all_set"
	case EntryChain:
		return "chain"
	case EntryDelegate:
		return "delegate"
	default:
		return "unknown"
	}
}

// Entry describes the entry operations of a plan.
type Entry struct {
	Kind EntryKind
	// New is the fresh construction function.
	New string
	// Resume is the continuation function. Empty when no required chain is
	// reachable from this model.
	Resume string
	// Stage is the generic stage type New and Resume return. It is zero for
	// EntryAllSet, where New returns the resolved AllSet.
	Stage Symbol
	// Delegate is the ancestor continuation used by EntryDelegate.
	Delegate *Continuation
}

// Binder describes the function copying carrier values into a model.
type Binder struct {
	// Func is the binder function name.
	Func string
	// Model is the model type name.
	Model string
	// Groups are the model's own groups in declaration order.
	Groups []BinderGroup
	// Parent is the parent's binder. Nil without a parent model.
	Parent *ParentBinder
}

// BinderGroup binds one key into every field sharing it.
type BinderGroup struct {
	Key      string
	Required bool
	// Fields are every field populated from the key.
	Fields []string
	// RequiredFields are the fields named when the key is missing.
	RequiredFields []string
}

// ParentBinder binds the embedded parent model.
type ParentBinder struct {
	Func Symbol
	// Path leads from the model to the embedded parent.
	Path []model.EmbedStep
}

// StagePlan is everything code generation needs for one model.
type StagePlan struct {
	// Model is the model declaration.
	Model model.TypeID
	// PackageName is the package the generated code is placed in.
	PackageName string
	// Dir is the directory of that package.
	Dir string
	// TargetName is the runtime target built by the intent.
	TargetName string
	// Parent is the parent model. Zero without one.
	Parent model.TypeID
	// RequiredAncestor is the closest ancestor with a required group. The
	// chain reaches it through Tail, which follows the parent plans, so a
	// key redeclared along the way is accounted for.
	RequiredAncestor model.TypeID

	// Stages is the model's own required chain, in call order.
	Stages []Stage
	// Tail is the ancestor chain the last stage continues into. Nil when
	// the last stage returns the AllSet.
	Tail *Continuation
	// Flattened is set when inherited required keys were folded into Stages.
	Flattened bool

	AllSet AllSet
	Entry  Entry
	Binder Binder

	required []Setter
	optional []Setter
}

// RequiredSetters returns every required setter reachable from the entry,
// own and inherited, sorted by key.
func (p *StagePlan) RequiredSetters() []Setter {
	return p.required
}

// OptionalSetters returns every optional setter available on the AllSet,
// own and inherited, sorted by key.
func (p *StagePlan) OptionalSetters() []Setter {
	return p.optional
}

// Symbol returns a symbol for a declaration generated next to the model.
func (p *StagePlan) Symbol(name string) Symbol {
	return Symbol{PkgPath: p.Model.PkgPath, PkgName: p.PackageName, Name: name}
}

// Continuation returns the continuation of this plan's chain, or nil when
// the plan has no continuation entry.
func (p *StagePlan) Continuation() *Continuation {
	if p.Entry.Resume == "" {
		return nil
	}

	switch p.Entry.Kind {
	case EntryChain:
		return &Continuation{
			Func:  p.Symbol(p.Entry.Resume),
			Stage: p.Entry.Stage,
			Model: p.Model,
		}
	case EntryDelegate:
		return p.Entry.Delegate
	default:
		return nil
	}
}

// Result is the output of planning a resolution context.
type Result struct {
	// Plans holds one plan per planned model, ancestors first.
	Plans []*StagePlan
	// Diagnostics holds every model that could not be planned.
	Diagnostics diagnostic.Diagnostics
}

// Lookup returns the plan of the given model.
func (r *Result) Lookup(id model.TypeID) (*StagePlan, bool) {
	for _, p := range r.Plans {
		if p.Model == id {
			return p, true
		}
	}

	return nil, false
}
