package model

import (
	"go/token"
	"go/types"
	"sort"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "extras-generator/examples/shop"
	Name    string // e.g., "CheckoutModel"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

//go:generate go tool stringer -type=ValueKind -trimprefix=ValueKind -output=valuekind_string.go

// ValueKind is the eligibility category of a bound value.
type ValueKind int

const (
	ValueKindInvalid      ValueKind = iota
	ValueKindPrimitive              // bool, numbers, string and named basics
	ValueKindBoxed                  // pointer to a primitive
	ValueKindTransferable           // implements extras.Transferable
	ValueKindSerializable           // binary/text marshaler or container of eligible values
	ValueKindWrapped                // wrapped through extras.Wrap before it reaches the carrier
)

// Eligible reports whether the value may be placed in a carrier.
func (k ValueKind) Eligible() bool {
	return k > ValueKindInvalid && k <= ValueKindWrapped
}

// ValueType describes the Go type of a bound value as seen from the package
// that declares the model.
type ValueType struct {
	Kind ValueKind
	// Expr is the type expression, qualified by package name where needed.
	Expr string
	// Imports are the import paths Expr refers to.
	Imports []string
	// Type is the analyzed type. It is nil for hand-built values.
	Type types.Type
}

// Render returns the type expression as seen from the package pkgPath and
// the import paths it refers to. Without an analyzed type, Expr is returned
// as is.
func (v ValueType) Render(pkgPath string) (string, []string) {
	if v.Type == nil {
		return v.Expr, v.Imports
	}

	seen := make(map[string]struct{})

	var imports []string

	expr := types.TypeString(v.Type, func(p *types.Package) string {
		if p.Path() == pkgPath {
			return ""
		}

		if _, ok := seen[p.Path()]; !ok {
			seen[p.Path()] = struct{}{}
			imports = append(imports, p.Path())
		}

		return p.Name()
	})

	sort.Strings(imports)

	return expr, imports
}

// Binding is one key -> field association.
type Binding struct {
	Key       string
	FieldName string
	Value     ValueType
	Required  bool
	Pos       token.Position
}

// ExtraGroup holds every binding that shares one key within a model.
type ExtraGroup struct {
	Key      string
	Bindings []Binding
}

// Required reports whether any binding in the group is required.
func (g *ExtraGroup) Required() bool {
	for _, b := range g.Bindings {
		if b.Required {
			return true
		}
	}

	return false
}

// Value returns the value type of the first binding. The setter of a group
// takes this type.
func (g *ExtraGroup) Value() ValueType {
	if len(g.Bindings) == 0 {
		return ValueType{}
	}

	return g.Bindings[0].Value
}

// RequiredBindings returns the bindings that are not optional.
func (g *ExtraGroup) RequiredBindings() []Binding {
	var out []Binding

	for _, b := range g.Bindings {
		if b.Required {
			out = append(out, b)
		}
	}

	return out
}

// SetterName returns the builder method name for the group.
func (g *ExtraGroup) SetterName() string {
	return SetterName(g.Key)
}

// EmbedStep is one embedded field on the path from a model to its parent.
type EmbedStep struct {
	Field   string
	Pointer bool
	Type    TypeID
}

// Target is one generatable model.
type Target struct {
	// ID is the model declaration.
	ID TypeID
	// PackageName is the Go package name of the declaring package.
	PackageName string
	// Dir is the directory of the declaring package.
	Dir string
	// TargetName is the runtime target the builder constructs intents for.
	TargetName string
	// Pos is the position of the declaration.
	Pos token.Position

	// Parent is the nearest ancestor that is itself a model.
	Parent *Target
	// ParentPath is the chain of embedded fields leading to Parent.
	ParentPath []EmbedStep
	// ClosestRequiredAncestor is the nearest ancestor with a required group.
	// The planner records it on the stage plan; the chain tail itself is
	// taken from the parent plans, which account for redeclared keys.
	ClosestRequiredAncestor *Target

	groups      []*ExtraGroup
	groupIndex  map[string]int
	hasRequired bool
}

// Groups returns the extra groups in key insertion order.
func (t *Target) Groups() []*ExtraGroup {
	return t.groups
}

// Group returns the group for key, or nil.
func (t *Target) Group(key string) *ExtraGroup {
	i, ok := t.groupIndex[key]
	if !ok {
		return nil
	}

	return t.groups[i]
}

// HasRequiredFields reports whether any binding added so far is required.
func (t *Target) HasRequiredFields() bool {
	return t.hasRequired
}

// RequiredGroups returns the required groups sorted by key.
func (t *Target) RequiredGroups() []*ExtraGroup {
	return t.partition(true)
}

// OptionalGroups returns the optional groups sorted by key.
func (t *Target) OptionalGroups() []*ExtraGroup {
	return t.partition(false)
}

func (t *Target) partition(required bool) []*ExtraGroup {
	var out []*ExtraGroup

	for _, g := range t.groups {
		if g.Required() == required {
			out = append(out, g)
		}
	}

	SortGroups(out)

	return out
}

// Ancestors returns the parent chain, nearest first.
func (t *Target) Ancestors() []*Target {
	var out []*Target
	for p := t.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}

	return out
}

// SortGroups orders groups by key ascending.
func SortGroups(groups []*ExtraGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
}
