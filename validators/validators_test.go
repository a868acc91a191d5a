package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermodeler/fieldpath"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		opts  Options
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "empty", value: "", want: ""},
		{name: "string", value: "x", want: ""},
		{name: "not a string", value: 5, want: "is not a string"},
		{name: "nil notEmpty", value: nil, opts: Options{"notEmpty": true}, want: "is empty"},
		{name: "empty notEmpty", value: "", opts: Options{"notEmpty": true}, want: "is empty"},
		{name: "value notEmpty", value: "x", opts: Options{"notEmpty": true}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if opts == nil {
				opts = Options{}
			}

			assert.Equal(t, tt.want, String(tt.value, opts, "f", nil))
		})
	}
}

func TestBoolean(t *testing.T) {
	assert.Empty(t, Boolean(nil, Options{}, "f", nil))
	assert.Empty(t, Boolean(true, Options{}, "f", nil))
	assert.Equal(t, "is not boolean", Boolean("true", Options{}, "f", nil))
}

func TestArray(t *testing.T) {
	tests := []struct {
		name  string
		value any
		opts  Options
		want  string
	}{
		{name: "nil", value: nil, opts: Options{}, want: ""},
		{name: "nil with min", value: nil, opts: Options{"minLength": 1}, want: "is not an array"},
		{name: "not array", value: "abc", opts: Options{}, want: "is not an array"},
		{name: "slice", value: []string{"a"}, opts: Options{}, want: ""},
		{name: "array", value: [2]int{1, 2}, opts: Options{}, want: ""},
		{name: "too short", value: []any{1}, opts: Options{"minLength": 2}, want: "must contain at least 2 items"},
		{name: "too long", value: []any{1, 2, 3}, opts: Options{"maxLength": 2}, want: "must not contain more than 2 items"},
		{name: "float options", value: []any{1, 2}, opts: Options{"minLength": 2.0, "maxLength": 2.0}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Array(tt.value, tt.opts, "f", nil))
		})
	}
}

func TestPresence(t *testing.T) {
	assert.Equal(t, "can't be blank", Presence(nil, Options{}, "f", nil))
	assert.Equal(t, "can't be blank", Presence("", Options{}, "f", nil))
	assert.Empty(t, Presence("", Options{"allowEmpty": true}, "f", nil))
	assert.Empty(t, Presence(0, Options{}, "f", nil))
}

func TestSet(t *testing.T) {
	s := Default()
	assert.Equal(t, []string{"array", "boolean", "presence", "string"}, s.Kinds())
	assert.True(t, s.Has("string"))
	assert.False(t, s.Has("email"))

	msg, err := s.Validate("string", 1, nil, "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "is not a string", msg)

	_, err = s.Validate("email", "x", nil, "name", nil)
	assert.Error(t, err)

	s.Register("email", func(value any, _ Options, field string, _ fieldpath.Record) string {
		if value == "bad" {
			return field + " looks wrong"
		}

		return ""
	})

	msg, err = s.Validate("email", "bad", nil, "contact", nil)
	require.NoError(t, err)
	assert.Equal(t, "contact looks wrong", msg)
}

func TestOptions(t *testing.T) {
	o := Options{"a": 3, "b": 2.5, "c": true, "d": int64(7)}

	n, ok := o.Int("a")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = o.Int("b")
	assert.False(t, ok)

	n, ok = o.Int("d")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	assert.True(t, o.Bool("c"))
	assert.False(t, o.Bool("missing"))
}
