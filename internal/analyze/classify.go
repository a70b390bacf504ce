package analyze

import (
	"go/types"
	"sort"

	"extras-generator/internal/model"
)

// Method names probed on value types.
const (
	transferableMethod = "MarshalExtra"
	binaryMethod       = "MarshalBinary"
	textMethod         = "MarshalText"
)

// valueType classifies t and renders it relative to pkg.
func (a *Analyzer) valueType(pkg *types.Package, t types.Type) model.ValueType {
	imports := make(map[string]struct{})

	expr := types.TypeString(t, func(p *types.Package) string {
		if p == pkg {
			return ""
		}

		imports[p.Path()] = struct{}{}

		return p.Name()
	})

	vt := model.ValueType{
		Kind: a.Classify(t),
		Expr: expr,
		Type: t,
	}

	for path := range imports {
		vt.Imports = append(vt.Imports, path)
	}

	sort.Strings(vt.Imports)

	return vt
}

// Classify decides the value category of t. Categories are tried in order of
// precedence: primitive, boxed, transferable, serializable, wrapped.
func (a *Analyzer) Classify(t types.Type) model.ValueKind {
	return a.classify(t, make(map[types.Type]bool), true)
}

func (a *Analyzer) classify(t types.Type, visiting map[types.Type]bool, allowWrap bool) model.ValueKind {
	t = types.Unalias(t)

	switch {
	case isPrimitive(t):
		return model.ValueKindPrimitive
	case isBoxed(t):
		return model.ValueKindBoxed
	case hasBytesMethod(t, transferableMethod):
		return model.ValueKindTransferable
	case hasBytesMethod(t, binaryMethod), hasBytesMethod(t, textMethod):
		return model.ValueKindSerializable
	case a.isSerializableContainer(t, visiting):
		return model.ValueKindSerializable
	case allowWrap && a.isWrapped(t):
		return model.ValueKindWrapped
	}

	return model.ValueKindInvalid
}

// isSerializableContainer reports whether t is a slice, array or map whose
// element (and key) types are eligible without wrapping.
func (a *Analyzer) isSerializableContainer(t types.Type, visiting map[types.Type]bool) bool {
	if visiting[t] {
		return false
	}

	visiting[t] = true
	defer delete(visiting, t)

	switch u := t.Underlying().(type) {
	case *types.Slice:
		return a.classify(u.Elem(), visiting, false).Eligible()
	case *types.Array:
		return a.classify(u.Elem(), visiting, false).Eligible()
	case *types.Map:
		return a.classify(u.Key(), visiting, false).Eligible() &&
			a.classify(u.Elem(), visiting, false).Eligible()
	default:
		return false
	}
}

// isWrapped reports whether t (or the struct it points to) is a registered
// wrapped type.
func (a *Analyzer) isWrapped(t types.Type) bool {
	if !a.config.WrapEnabled {
		return false
	}

	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}

	n, ok := t.(*types.Named)
	if !ok || n.Obj().Pkg() == nil {
		return false
	}

	if _, ok := n.Underlying().(*types.Struct); !ok {
		return false
	}

	id := model.TypeID{PkgPath: n.Obj().Pkg().Path(), Name: n.Obj().Name()}

	return a.parcels[id] || a.wrapTypes[id.String()]
}

func isPrimitive(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return false
	}

	info := b.Info()
	if info&types.IsUntyped != 0 {
		return false
	}

	return info&(types.IsBoolean|types.IsNumeric|types.IsString) != 0
}

func isBoxed(t types.Type) bool {
	p, ok := t.Underlying().(*types.Pointer)
	return ok && isPrimitive(p.Elem())
}

// hasBytesMethod reports whether t or *t has a method name() ([]byte, error).
func hasBytesMethod(t types.Type, name string) bool {
	candidates := []types.Type{t}
	if _, isPtr := t.(*types.Pointer); !isPtr {
		if _, isIface := t.Underlying().(*types.Interface); !isIface {
			candidates = append(candidates, types.NewPointer(t))
		}
	}

	for _, typ := range candidates {
		sel := types.NewMethodSet(typ).Lookup(nil, name)
		if sel == nil {
			continue
		}

		sig, ok := sel.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 2 {
			continue
		}

		if isByteSlice(sig.Results().At(0).Type()) && isError(sig.Results().At(1).Type()) {
			return true
		}
	}

	return false
}

func isByteSlice(t types.Type) bool {
	s, ok := t.Underlying().(*types.Slice)
	if !ok {
		return false
	}

	b, ok := s.Elem().Underlying().(*types.Basic)

	return ok && b.Kind() == types.Byte
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
