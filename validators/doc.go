// Package validators provides the field-level predicate library used by
// model validation.
//
// A predicate is registered under a kind ("string", "boolean", "array",
// "presence") and receives the field value, its options, the field name and
// the whole record. It returns an empty string on success or a human-readable
// failure message. Absent (nil) values pass every built-in kind except
// presence, unless the options require a value.
package validators
