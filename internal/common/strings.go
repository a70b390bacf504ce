package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// Capitalize upper-cases the first letter of s and leaves the rest untouched.
// A Caser is stateful, so a fresh one is built per call.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	return cases.Title(language.Und, cases.NoLower).String(s)
}

// SnakeCase converts a Go identifier to snake_case ("CheckoutModel" -> "checkout_model").
// Runs of upper-case letters are kept together ("URLModel" -> "url_model").
func SnakeCase(s string) string {
	runes := []rune(s)

	var b strings.Builder

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
