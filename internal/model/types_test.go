package model

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueType_Render(t *testing.T) {
	shop := types.NewPackage("example/shop", "shop")
	money := types.NewNamed(types.NewTypeName(token.NoPos, shop, "Money", nil), types.Typ[types.Int64], nil)

	tests := []struct {
		name    string
		value   ValueType
		from    string
		expr    string
		imports []string
	}{
		{
			name:  "hand built",
			value: ValueType{Expr: "Money", Imports: []string{"x"}},
			from:  "example/admin",
			expr:  "Money", imports: []string{"x"},
		},
		{
			name:  "same package",
			value: ValueType{Type: money},
			from:  "example/shop",
			expr:  "Money",
		},
		{
			name:    "other package",
			value:   ValueType{Type: types.NewSlice(types.NewPointer(money))},
			from:    "example/admin",
			expr:    "[]*shop.Money",
			imports: []string{"example/shop"},
		},
		{
			name:  "basic",
			value: ValueType{Type: types.Typ[types.String]},
			from:  "example/admin",
			expr:  "string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, imports := tt.value.Render(tt.from)
			assert.Equal(t, tt.expr, expr)
			assert.Equal(t, tt.imports, imports)
		})
	}
}

func TestValueKind_Eligible(t *testing.T) {
	assert.False(t, ValueKindInvalid.Eligible())
	assert.True(t, ValueKindPrimitive.Eligible())
	assert.True(t, ValueKindWrapped.Eligible())
	assert.False(t, ValueKind(42).Eligible())
	assert.Equal(t, "Serializable", ValueKindSerializable.String())
}
