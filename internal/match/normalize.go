package match

import "strings"

// NormalizeIdent lowercases s and drops '_', '-' and spaces, so that
// "given_name", "GivenName" and "given-name" compare equal.
func NormalizeIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if r != '_' && r != '-' && r != ' ' {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
