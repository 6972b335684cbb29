package exec

import "fmt"

// VariableNotDefinedError is the sole evaluation-time error the engine
// raises (spec §7): a Variable node whose name resolves against neither
// the caller's variable map nor the constant registry.
type VariableNotDefinedError struct {
	Name string
}

func (e *VariableNotDefinedError) Error() string {
	return fmt.Sprintf("exec: variable %q is not defined", e.Name)
}
