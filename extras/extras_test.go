package extras

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	Street string
	Zip    int
}

type screenAllSet[S any] struct {
	AllSetState[S]
}

func (a *screenAllSet[S]) Locale(v string) S {
	a.Carrier().Put("locale", v)
	return a.Self()
}

type resolvedScreen struct {
	screenAllSet[*resolvedScreen]
}

func TestBundle(t *testing.T) {
	b := NewBundle()
	b.Put("b", 1)
	b.Put("a", "x")
	b.Put("a", "y")

	v, ok := b.Get("a")
	require.True(t, ok)
	assert.Equal(t, "y", v)

	_, ok = b.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"a", "b"}, b.Keys())

	var zero Bundle
	zero.Put("k", true)
	assert.Equal(t, 1, zero.Len())
}

func TestBundle_Binary(t *testing.T) {
	b := NewBundle()
	b.Put("count", 7)
	b.Put("name", "checkout")
	b.Put("shipTo", Wrap(address{Street: "Main", Zip: 1000}))

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	decoded := NewBundle()
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, []string{"count", "name", "shipTo"}, decoded.Keys())

	var count int
	v, _ := decoded.Get("count")
	require.NoError(t, Assign(&count, v, "count"))
	assert.Equal(t, 7, count)

	var name string
	v, _ = decoded.Get("name")
	require.NoError(t, Assign(&name, v, "name"))
	assert.Equal(t, "checkout", name)

	var shipTo address
	v, _ = decoded.Get("shipTo")
	require.NoError(t, Assign(&shipTo, v, "shipTo"))
	assert.Equal(t, address{Street: "Main", Zip: 1000}, shipTo)
}

func TestBundle_BinaryWrapFailure(t *testing.T) {
	b := NewBundle()
	b.Put("events", Wrap(make(chan int)))

	_, err := b.MarshalBinary()

	var wrapErr *WrapError
	require.ErrorAs(t, err, &wrapErr)
	assert.Equal(t, "events", wrapErr.Key)
}

func TestAllSetState(t *testing.T) {
	b := NewBundle()
	a := &resolvedScreen{}
	a.Init(b, "Screen", a)

	assert.Same(t, a, a.Locale("en").Locale("de"))
	assert.Equal(t, "Screen", a.Target())

	intent := a.Build()
	assert.Equal(t, "Screen", intent.Target)
	assert.Same(t, b, intent.Extras)

	v, _ := intent.Extras.Get("locale")
	assert.Equal(t, "de", v)
}

func TestWrap(t *testing.T) {
	w := Wrap(address{Street: "Elm", Zip: 2})
	require.NoError(t, w.Err())
	assert.NotEmpty(t, w.Bytes())

	got, err := Unwrap[address](w)
	require.NoError(t, err)
	assert.Equal(t, address{Street: "Elm", Zip: 2}, got)

	_, err = Unwrap[address]("plain")
	require.ErrorIs(t, err, ErrNotWrapped)

	bad := Wrap(make(chan int))
	require.Error(t, bad.Err())

	var dst address
	assert.Equal(t, bad.Err(), bad.Unwrap(&dst))
}

func TestAssign(t *testing.T) {
	t.Run("same type", func(t *testing.T) {
		var dst int64
		require.NoError(t, Assign(&dst, int64(3), "k"))
		assert.Equal(t, int64(3), dst)
	})

	t.Run("nil clears", func(t *testing.T) {
		s := "set"
		dst := &s
		require.NoError(t, Assign(&dst, nil, "k"))
		assert.Nil(t, dst)
	})

	t.Run("converted width", func(t *testing.T) {
		var dst int
		require.NoError(t, Assign(&dst, int8(5), "k"))
		assert.Equal(t, 5, dst)
	})

	t.Run("wrapped", func(t *testing.T) {
		var dst address
		require.NoError(t, Assign(&dst, Wrap(address{Zip: 9}), "k"))
		assert.Equal(t, 9, dst.Zip)
	})

	t.Run("mismatch", func(t *testing.T) {
		var dst int
		err := Assign(&dst, "text", "count")

		var assignErr *AssignError
		require.ErrorAs(t, err, &assignErr)
		assert.Equal(t, "count", assignErr.Key)
		assert.Contains(t, err.Error(), "cannot assign extra 'count'")
	})

	t.Run("failed wrap", func(t *testing.T) {
		var dst address
		err := Assign(&dst, Wrap(make(chan int)), "shipTo")
		require.Error(t, err)
		assert.NotNil(t, errors.Unwrap(err))
	})
}

func TestLookup(t *testing.T) {
	_, ok := Lookup(nil, "k")
	assert.False(t, ok)

	b := NewBundle()
	b.Put("k", 1)

	v, ok := Lookup(b, "k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestMissingExtraError(t *testing.T) {
	tests := []struct {
		fields []string
		want   string
	}{
		{[]string{"A"}, "field 'A'"},
		{[]string{"A", "B"}, "field 'A' and field 'B'"},
		{[]string{"A", "B", "C"}, "field 'A', field 'B', and field 'C'"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := &MissingExtraError{Key: "userId", Fields: tt.fields}
			assert.Equal(t,
				"Required extra with key 'userId' for "+tt.want+
					" was not found. If this extra is optional add the 'optional' tag option.",
				err.Error())
			assert.ErrorIs(t, err, ErrMissingExtra)
		})
	}
}
