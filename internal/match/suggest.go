package match

// MinSimilarity is the similarity a candidate needs to be suggested.
const MinSimilarity = 0.6

// Closest returns the candidate most similar to name after normalization,
// or false when none reaches MinSimilarity. Ties go to the earlier
// candidate. An exact normalized match always wins.
func Closest(name string, candidates ...string) (string, bool) {
	norm := NormalizeIdent(name)
	if norm == "" {
		return "", false
	}

	best, bestScore := "", 0.0

	for _, c := range candidates {
		score := Similarity(norm, NormalizeIdent(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < MinSimilarity {
		return "", false
	}

	return best, true
}

// Hint renders a " (did you mean x?)" suffix for name, or "" when no
// candidate is close enough.
func Hint(name string, candidates ...string) string {
	if c, ok := Closest(name, candidates...); ok && c != name {
		return " (did you mean " + c + "?)"
	}

	return ""
}
