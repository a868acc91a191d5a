// Package diagnostic collects structured errors, warnings and notes found
// while checking model and map declarations.
//
// Every diagnostic carries a stable code (e.g. "unknown_function"), the
// subject it belongs to (a model name or a "Source->Target" pair), the field
// or rule key involved and optional "did you mean" suggestions.
package diagnostic
