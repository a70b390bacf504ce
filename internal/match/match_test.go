package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"optinal", "optional", 1},
		{"nulable", "nullable", 1},
		{"Hello", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("model", "model"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.875, Similarity("optinal", "optional"), 1e-9)
}

func TestNormalizeIdent(t *testing.T) {
	tests := map[string]string{
		"userId":        "userid",
		"user_id":       "userid",
		"User-ID":       "userid",
		"extras:model":  "extrasmodel",
		"  spaced out ": "spacedout",
		"":              "",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeIdent(in), in)
	}
}

func TestClosest(t *testing.T) {
	options := []string{"optional", "nullable"}

	got, ok := Closest("optinal", options...)
	assert.True(t, ok)
	assert.Equal(t, "optional", got)

	got, ok = Closest("Nullable", options...)
	assert.True(t, ok)
	assert.Equal(t, "nullable", got)

	_, ok = Closest("required", options...)
	assert.False(t, ok)

	_, ok = Closest("", options...)
	assert.False(t, ok)

	_, ok = Closest("optional")
	assert.False(t, ok, "no candidates")

	got, _ = Closest("extras:modle", "extras:model", "extras:parcel")
	assert.Equal(t, "extras:model", got)
}

func TestHint(t *testing.T) {
	assert.Equal(t, " (did you mean target?)", Hint("targt", "target"))
	assert.Empty(t, Hint("target", "target"))
	assert.Empty(t, Hint("colour", "target"))
}
