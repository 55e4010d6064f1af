package fpl

// Deep scan is a last-resort heuristic for squad payloads whose container
// key is unknown: a bounded breadth-first walk looking for the first array
// whose elements resemble the target rows. It runs only when the feature
// flag enables it.

const deepScanMaxDepth = 4

type rowPredicate func(map[string]any) bool

// looksLikePick accepts maps that carry one of the pick signal keys.
func looksLikePick(m map[string]any) bool {
	for _, key := range []string{"element", "id", "player_id", "code"} {
		if v, ok := m[key]; ok && v != nil {
			if _, numeric := intFromAny(v); numeric {
				return true
			}
		}
	}
	return false
}

// deepScanForRows walks root breadth-first up to deepScanMaxDepth levels
// and returns the first non-empty array whose map elements all satisfy the
// predicate.
func deepScanForRows(root any, pred rowPredicate) []any {
	type node struct {
		value any
		depth int
	}
	queue := []node{{value: root, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth > deepScanMaxDepth {
			continue
		}

		switch v := current.value.(type) {
		case []any:
			if len(v) > 0 && rowsMatch(v, pred) {
				return v
			}
			for _, item := range v {
				queue = append(queue, node{value: item, depth: current.depth + 1})
			}
		case map[string]any:
			for _, item := range v {
				queue = append(queue, node{value: item, depth: current.depth + 1})
			}
		}
	}
	return nil
}

func rowsMatch(rows []any, pred rowPredicate) bool {
	for _, row := range rows {
		m, ok := asMap(row)
		if !ok || !pred(m) {
			return false
		}
	}
	return true
}
