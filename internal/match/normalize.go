package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for comparison: it is lowercased and
// the separators _, -, : and spaces are dropped, so "user_id", "userId"
// and "UserID" compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ':' || r == ' '
}
