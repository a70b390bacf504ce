package model

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"extras-generator/internal/common"
)

// DefaultSuffix is the model name suffix used when none is configured.
const DefaultSuffix = "Model"

// reservedSetters are the methods promoted from extras.AllSetState and the
// name of the embedded state itself. A key whose setter would take one of
// these names cannot be generated.
var reservedSetters = map[string]struct{}{
	"AllSetState": {},
	"Build":       {},
	"Carrier":     {},
	"Init":        {},
	"Self":        {},
	"Target":      {},
}

// SetterName returns the builder method name for a key.
func SetterName(key string) string {
	return common.Capitalize(key)
}

// StageName returns the name suffix of the stage reached after setting key.
func StageName(key string) string {
	return "AfterSetting" + SetterName(key)
}

// IsReservedSetter reports whether name collides with a builder method.
func IsReservedSetter(name string) bool {
	_, ok := reservedSetters[name]
	return ok
}

// Declaration describes a model declaration as found in source.
type Declaration struct {
	ID             TypeID
	PackageName    string
	Dir            string
	TargetOverride string
	Pos            token.Position

	Exported bool
	TopLevel bool
	Struct   bool
	Generic  bool
}

// FieldDeclaration describes one candidate binding as found in source.
type FieldDeclaration struct {
	Name     string
	Exported bool
	// Key is the explicit key, empty when the field name is used.
	Key      string
	Optional bool
	Value    ValueType
	// TypeString is the declared type, used in messages.
	TypeString string
	Pos        token.Position
}

// NewTarget validates a model declaration and creates an empty Target.
// Every violation of the declaration is returned, joined.
func NewTarget(decl Declaration, suffix string) (*Target, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	name := decl.ID.String()

	var errs []error

	violation := func(format string, args ...any) {
		errs = append(errs, NewViolation(ViolationStructural, name, "", fmt.Sprintf(format, args...), decl.Pos))
	}

	if !decl.Exported || !decl.Struct || decl.Generic {
		violation("model %s must not be unexported, generic or an interface.", name)
	}

	if !decl.TopLevel {
		violation("model %s must be a top level type.", name)
	}

	suffixed := strings.HasSuffix(decl.ID.Name, suffix) && decl.ID.Name != suffix
	if !suffixed {
		violation("model %s name must end with '%s'.", name, suffix)
	}

	targetName := decl.TargetOverride
	if targetName == "" && suffixed {
		targetName = strings.TrimSuffix(decl.ID.Name, suffix)
	}

	if (decl.TargetOverride != "" || suffixed) && (!token.IsIdentifier(targetName) || !token.IsExported(targetName)) {
		violation("model %s target %q must be an exported Go identifier.", name, targetName)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Target{
		ID:          decl.ID,
		PackageName: decl.PackageName,
		Dir:         decl.Dir,
		TargetName:  targetName,
		Pos:         decl.Pos,
		groupIndex:  make(map[string]int),
	}, nil
}

// AddBinding validates a field and appends it to the group for its key,
// creating the group when absent. The key defaults to the field name.
func (t *Target) AddBinding(f FieldDeclaration) error {
	name := t.ID.String()
	ref := name + "." + f.Name

	if !f.Exported {
		return NewViolation(ViolationStructural, name, f.Name,
			fmt.Sprintf("fields must be exported. (%s)", ref), f.Pos)
	}

	if !f.Value.Kind.Eligible() {
		return NewViolation(ViolationTypeEligibility, name, f.Name,
			fmt.Sprintf("fields must be a primitive, transferable, serializable or wrapped type (%s: %s).",
				ref, f.TypeString), f.Pos)
	}

	key := f.Key
	if key == "" {
		key = f.Name
	} else if !token.IsIdentifier(key) || !token.IsExported(SetterName(key)) {
		return NewViolation(ViolationKeySyntax, name, f.Name,
			fmt.Sprintf("keys have to be valid Go identifiers (%s: %s).", ref, key), f.Pos)
	}

	setter := SetterName(key)
	if IsReservedSetter(setter) {
		return NewViolation(ViolationKeySyntax, name, f.Name,
			fmt.Sprintf("key %q collides with the builder method %s (%s).", key, setter, ref), f.Pos)
	}

	for _, g := range t.groups {
		if g.Key != key && g.SetterName() == setter {
			return NewViolation(ViolationKeySyntax, name, f.Name,
				fmt.Sprintf("keys %q and %q both produce the setter %s (%s).", g.Key, key, setter, ref), f.Pos)
		}
	}

	i, ok := t.groupIndex[key]
	if !ok {
		t.groups = append(t.groups, &ExtraGroup{Key: key})
		i = len(t.groups) - 1
		t.groupIndex[key] = i
	}

	t.groups[i].Bindings = append(t.groups[i].Bindings, Binding{
		Key:       key,
		FieldName: f.Name,
		Value:     f.Value,
		Required:  !f.Optional,
		Pos:       f.Pos,
	})

	t.hasRequired = t.hasRequired || !f.Optional

	return nil
}
