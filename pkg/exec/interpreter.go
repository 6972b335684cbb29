// Package exec implements the two execution backends of spec §4.5/§4.6:
// a tree-walking Interpreter and a closure-based Compiled executor. Both
// share applyBinary so they can never disagree on operator semantics
// (spec §8 property 1), and both fail evaluation only with
// VariableNotDefinedError.
package exec

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/expreval/pkg/ast"
	"github.com/wildfunctions/expreval/pkg/registry"
)

// Interpreter re-walks the AST on every call (spec §4.5). It is also what
// pkg/optimizer uses to fold idempotent constant subtrees at build time.
type Interpreter struct {
	Functions     *registry.FunctionRegistry
	Constants     *registry.ConstantRegistry
	CaseSensitive bool
}

// NewInterpreter builds an Interpreter bound to functions and constants.
func NewInterpreter(functions *registry.FunctionRegistry, constants *registry.ConstantRegistry, caseSensitive bool) *Interpreter {
	return &Interpreter{Functions: functions, Constants: constants, CaseSensitive: caseSensitive}
}

// Eval walks node once, resolving Variable nodes against vars and, on
// miss, the constant registry.
func (in *Interpreter) Eval(node ast.Node, vars map[string]float64) (float64, error) {
	lookupVars := vars
	if !in.CaseSensitive {
		lookupVars = normalizeVars(vars)
	}
	return in.eval(node, lookupVars)
}

func (in *Interpreter) eval(node ast.Node, vars map[string]float64) (float64, error) {
	switch n := node.(type) {
	case *ast.IntegerConstant:
		return float64(n.Value), nil

	case *ast.FloatingPointConstant:
		return n.Value, nil

	case *ast.Variable:
		return in.lookupVariable(n.Name, vars)

	case *ast.UnaryMinus:
		v, err := in.eval(n.Arg, vars)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case *ast.Binary:
		// Left to right, both sides always evaluated — no short-circuit
		// even for And/Or (spec §4.5, §5).
		left, err := in.eval(n.Left, vars)
		if err != nil {
			return 0, err
		}
		right, err := in.eval(n.Right, vars)
		if err != nil {
			return 0, err
		}
		return applyBinary(n.Op, left, right), nil

	case *ast.Function:
		info, ok := in.Functions.Lookup(n.Name)
		if !ok {
			return 0, errors.Errorf("exec: unknown function %q", n.Name)
		}
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := in.eval(a, vars)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return info.Fn(args), nil

	default:
		return 0, errors.Errorf("exec: unsupported node type %T", node)
	}
}

func (in *Interpreter) lookupVariable(name string, vars map[string]float64) (float64, error) {
	if v, ok := vars[lookupKey(name, in.CaseSensitive)]; ok {
		return v, nil
	}
	if v, ok := in.Constants.Lookup(name); ok {
		return v, nil
	}
	return 0, &VariableNotDefinedError{Name: name}
}
