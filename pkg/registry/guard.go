package registry

import "github.com/pkg/errors"

// CheckCollisions enforces guarded mode's cross-registry rule: a name
// cannot be both a constant and a function (spec §3). It's a
// post-construction check rather than something Register itself can
// catch, since the two registries don't know about each other.
func CheckCollisions(functions *FunctionRegistry, constants *ConstantRegistry) error {
	for _, name := range functions.Names() {
		if constants.Has(name) {
			return errors.Errorf("registry: %q is registered as both a function and a constant (guarded mode)", name)
		}
	}
	return nil
}

// CheckVariablesDefined verifies, in guarded mode, that every free
// variable referenced by names is present in vars (looked up with
// caseSensitive's casing rule) or resolvable as a constant — spec §3's
// "checks variable map completeness before each evaluation".
func CheckVariablesDefined(names []string, vars map[string]float64, constants *ConstantRegistry, caseSensitive bool) error {
	normalizedVars := vars
	if !caseSensitive {
		normalizedVars = make(map[string]float64, len(vars))
		for k, v := range vars {
			normalizedVars[Normalize(k, false)] = v
		}
	}

	for _, name := range names {
		key := Normalize(name, caseSensitive)
		if _, ok := normalizedVars[key]; ok {
			continue
		}
		if constants.Has(name) {
			continue
		}
		return errors.Errorf("registry: guarded mode: variable %q has no binding", name)
	}
	return nil
}
