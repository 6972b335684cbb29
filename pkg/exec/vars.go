package exec

import "github.com/wildfunctions/expreval/pkg/registry"

// normalizeVars builds a lowercase-keyed copy of vars for case-insensitive
// lookup. Called once per Eval rather than per Variable node, since a
// single evaluation may reference the same variable many times.
func normalizeVars(vars map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(vars))
	for k, v := range vars {
		out[registry.Normalize(k, false)] = v
	}
	return out
}

func lookupKey(name string, caseSensitive bool) string {
	if caseSensitive {
		return name
	}
	return registry.Normalize(name, false)
}
