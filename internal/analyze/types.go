package analyze

import (
	"go/token"
	"reflect"
	"strings"

	"extras-generator/internal/diagnostic"
	"extras-generator/internal/model"
)

// Directive prefixes recognized in type doc comments.
const (
	ModelDirective  = "//extras:model"
	ParcelDirective = "//extras:parcel"
)

// DirectivePrefix starts every generator directive.
const DirectivePrefix = "//extras:"

// TagKey is the struct tag key read from model fields.
const TagKey = "extra"

// Names the misspelling hints compare against.
var (
	knownDirectives  = []string{ModelDirective, ParcelDirective}
	knownTagOptions  = []string{"optional", "nullable"}
	knownModelParams = []string{"target"}
)

// ModelDecl is a model declaration together with its candidate bindings.
type ModelDecl struct {
	model.Declaration
	// Fields are the non-embedded, non-skipped fields in declaration order.
	Fields []model.FieldDeclaration
}

// Embed is an embedded struct field.
type Embed struct {
	Field   string       // Go field name
	Pointer bool         // Embedded through a pointer
	Type    model.TypeID // Embedded struct type
	Skip    bool         // Tagged extra:"-"
}

// StructInfo describes a named struct type seen while walking models and
// their ancestors.
type StructInfo struct {
	ID model.TypeID
	// Embeds are the embedded named structs in declaration order.
	Embeds []Embed
	// BindableFields counts exported, non-embedded fields not tagged extra:"-".
	BindableFields int
	// IsModel is true when the type carries the model directive.
	IsModel bool
	Pos     token.Position
}

// TypeGraph holds everything extracted from the loaded packages.
type TypeGraph struct {
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	// Models are the model declarations sorted by TypeID.
	Models []*ModelDecl
	// Structs maps every analyzed struct to its embedding information.
	Structs map[model.TypeID]*StructInfo
	// Diagnostics holds warnings raised while scanning declarations.
	Diagnostics diagnostic.Diagnostics
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Packages: make(map[string]*PackageInfo),
		Structs:  make(map[model.TypeID]*StructInfo),
	}
}

// ModelDeclarations returns the discovered model declarations.
func (g *TypeGraph) ModelDeclarations() []*ModelDecl {
	return g.Models
}

// SuperclassOf returns the first embedded named struct of id that is not
// tagged extra:"-".
func (g *TypeGraph) SuperclassOf(id model.TypeID) (Embed, bool) {
	info, ok := g.Structs[id]
	if !ok {
		return Embed{}, false
	}

	for _, e := range info.Embeds {
		if !e.Skip {
			return e, true
		}
	}

	return Embed{}, false
}

// DeclaresFields reports whether id has fields that a builder would have to bind.
func (g *TypeGraph) DeclaresFields(id model.TypeID) bool {
	info, ok := g.Structs[id]
	return ok && info.BindableFields > 0
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path   string         // Import path
	Name   string         // Package name
	Dir    string         // Directory holding the package sources
	Models []model.TypeID // Models declared in this package
}

// extraTag is the parsed form of an extra:"key,options" struct tag.
type extraTag struct {
	Key      string
	Skip     bool
	Optional bool
	Unknown  []string
}

// parseExtraTag parses the extra struct tag of a field.
func parseExtraTag(tag reflect.StructTag) extraTag {
	value, ok := tag.Lookup(TagKey)
	if !ok {
		return extraTag{}
	}

	if value == "-" {
		return extraTag{Skip: true}
	}

	parts := strings.Split(value, ",")
	out := extraTag{Key: strings.TrimSpace(parts[0])}

	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "optional", "nullable":
			out.Optional = true
		case "":
		default:
			out.Unknown = append(out.Unknown, strings.TrimSpace(opt))
		}
	}

	return out
}

// parseDirective reports whether text is the given directive and returns
// its key=value arguments.
func parseDirective(text, directive string) (map[string]string, bool) {
	if !strings.HasPrefix(text, directive) {
		return nil, false
	}

	rest := text[len(directive):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false
	}

	args := make(map[string]string)

	for _, f := range strings.Fields(rest) {
		k, v, _ := strings.Cut(f, "=")
		args[k] = v
	}

	return args, true
}
