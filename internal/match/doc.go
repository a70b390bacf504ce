// Package match finds the closest known name to a misspelled one.
//
// It backs the "did you mean" hints of the analyzer: unknown tag options,
// unknown directive arguments and misspelled directives are compared to
// the names the generator understands.
//
// Key functions:
//   - NormalizeIdent: folds an identifier for comparison
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the best candidate above a similarity threshold
package match
