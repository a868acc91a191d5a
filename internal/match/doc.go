// Package match ranks known names by similarity to an unknown one, for
// "did you mean" hints in declaration diagnostics.
//
// Key functions:
//   - NormalizeIdent: case-folds and strips separators (given_name == givenName)
//   - Levenshtein: computes edit distance between strings
//   - Suggest: returns the closest candidates above a similarity threshold
package match
