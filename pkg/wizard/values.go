package wizard

// Values is the shared answer bag for one wizard run. Keys are field names or
// the step-reserved keys defined in pkg/step; entries written by earlier
// steps stay readable by later ones and are never pruned.
type Values = map[string]any

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCopy(value)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
