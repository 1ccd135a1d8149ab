package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/vignaraja/internal/common"
)

// Normalize converts v into its JSON-shaped equivalent so that typed values
// (structs, ints, typed maps) and decoded values compare and serialize alike.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, float64:
		return v, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return out, nil
}

// lookup walks segs from root. A nil value counts as absent.
func lookup(root any, segs []string) (any, bool) {
	node := root
	for _, s := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[s]
		if !ok {
			return nil, false
		}
	}
	return node, node != nil
}

// setIn returns a copy of node with value stored at segs. Maps along the path
// are copied, everything else is shared, so trees handed out earlier are never
// modified. Storing nil removes the key; removing a missing key is a no-op.
func setIn(node any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}

	m, _ := node.(map[string]any)
	if value == nil {
		if _, ok := m[segs[0]]; !ok {
			return node
		}
	}

	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}

	child := setIn(m[segs[0]], segs[1:], value)
	if child == nil {
		delete(out, segs[0])
	} else {
		out[segs[0]] = child
	}
	return out
}

// clone deep-copies maps and slices so callers may modify what they receive.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = clone(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = clone(child)
		}
		return out
	default:
		return v
	}
}
