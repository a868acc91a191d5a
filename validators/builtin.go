package validators

import (
	"fmt"
	"reflect"

	"supermodeler/fieldpath"
)

// String accepts strings. Options: notEmpty.
func String(value any, opts Options, _ string, _ fieldpath.Record) string {
	notEmpty := opts.Bool("notEmpty")

	if isBlank(value) {
		if notEmpty {
			return "is empty"
		}

		return ""
	}

	if _, ok := value.(string); ok {
		return ""
	}

	return "is not a string"
}

// Boolean accepts booleans and nil. Use presence to require a value.
func Boolean(value any, _ Options, _ string, _ fieldpath.Record) string {
	switch value.(type) {
	case nil, bool:
		return ""
	default:
		return "is not boolean"
	}
}

// Array accepts slices and arrays. Options: minLength, maxLength.
// Nil passes unless minLength is set.
func Array(value any, opts Options, _ string, _ fieldpath.Record) string {
	minLen, hasMin := opts.Int("minLength")
	maxLen, hasMax := opts.Int("maxLength")

	if value == nil && !hasMin {
		return ""
	}

	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return "is not an array"
	}

	if hasMin && minLen > 0 && rv.Len() < minLen {
		return fmt.Sprintf("must contain at least %d items", minLen)
	}

	if hasMax && maxLen > 0 && rv.Len() > maxLen {
		return fmt.Sprintf("must not contain more than %d items", maxLen)
	}

	return ""
}

// Presence rejects nil and, unless allowEmpty is set, empty strings.
func Presence(value any, opts Options, _ string, _ fieldpath.Record) string {
	if value == nil {
		return "can't be blank"
	}

	if s, ok := value.(string); ok && s == "" && !opts.Bool("allowEmpty") {
		return "can't be blank"
	}

	return ""
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}

	s, ok := value.(string)

	return ok && s == ""
}
