package common

// CloneValue deep-copies the generic containers (map[string]any and []any) so that
// mutable defaults are never shared between instances. Other values are returned as is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = CloneValue(e)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = CloneValue(e)
		}

		return out
	default:
		return v
	}
}
