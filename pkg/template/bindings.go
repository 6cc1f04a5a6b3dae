package template

import (
	"encoding/json"
	"fmt"
)

// Bindings converts v to template bindings. JSON documents given as a
// json.RawMessage, []byte or string are decoded; a nil v yields empty bindings.
func Bindings(v any) (map[string]any, error) {
	var data []byte
	switch x := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return x, nil
	case json.RawMessage:
		data = x
	case []byte:
		data = x
	case string:
		data = []byte(x)
	default:
		return nil, fmt.Errorf("unsupported bindings type %T", v)
	}

	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var m = make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error decoding bindings: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
