package exec

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/expreval/pkg/ast"
	"github.com/wildfunctions/expreval/pkg/registry"
)

// evalFunc is what every AST node reduces to at compile time: a closure
// taking the (already case-normalized, if applicable) variable map.
type evalFunc func(vars map[string]float64) (float64, error)

// Compiled is a callable built once from an AST (spec §4.6) and reused
// across evaluations; the tree is walked exactly once, at Compile time.
type Compiled struct {
	caseSensitive bool
	fn            evalFunc
}

// Compile builds a Compiled executor for node. functions and constants
// are captured by reference, not copied; Function call sites resolve
// their FunctionInfo once here rather than on every Eval.
func Compile(node ast.Node, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry, caseSensitive bool) (*Compiled, error) {
	fn, err := compileNode(node, functions, constants, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &Compiled{caseSensitive: caseSensitive, fn: fn}, nil
}

// Eval runs the compiled callable against vars. No AST traversal happens
// here beyond what the closures captured at Compile time already do.
func (c *Compiled) Eval(vars map[string]float64) (float64, error) {
	lookupVars := vars
	if !c.caseSensitive {
		lookupVars = normalizeVars(vars)
	}
	return c.fn(lookupVars)
}

func compileNode(node ast.Node, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry, caseSensitive bool) (evalFunc, error) {
	switch n := node.(type) {
	case *ast.IntegerConstant:
		v := float64(n.Value)
		return func(map[string]float64) (float64, error) { return v, nil }, nil

	case *ast.FloatingPointConstant:
		v := n.Value
		return func(map[string]float64) (float64, error) { return v, nil }, nil

	case *ast.Variable:
		name := n.Name
		key := lookupKey(name, caseSensitive)
		return func(vars map[string]float64) (float64, error) {
			if v, ok := vars[key]; ok {
				return v, nil
			}
			if v, ok := constants.Lookup(name); ok {
				return v, nil
			}
			return 0, &VariableNotDefinedError{Name: name}
		}, nil

	case *ast.UnaryMinus:
		arg, err := compileNode(n.Arg, functions, constants, caseSensitive)
		if err != nil {
			return nil, err
		}
		return func(vars map[string]float64) (float64, error) {
			v, err := arg(vars)
			if err != nil {
				return 0, err
			}
			return -v, nil
		}, nil

	case *ast.Binary:
		left, err := compileNode(n.Left, functions, constants, caseSensitive)
		if err != nil {
			return nil, err
		}
		right, err := compileNode(n.Right, functions, constants, caseSensitive)
		if err != nil {
			return nil, err
		}
		op := n.Op
		return func(vars map[string]float64) (float64, error) {
			lv, err := left(vars)
			if err != nil {
				return 0, err
			}
			rv, err := right(vars)
			if err != nil {
				return 0, err
			}
			return applyBinary(op, lv, rv), nil
		}, nil

	case *ast.Function:
		info, ok := functions.Lookup(n.Name)
		if !ok {
			return nil, errors.Errorf("exec: unknown function %q", n.Name)
		}
		argFns := make([]evalFunc, len(n.Args))
		for i, a := range n.Args {
			fn, err := compileNode(a, functions, constants, caseSensitive)
			if err != nil {
				return nil, err
			}
			argFns[i] = fn
		}
		callable := info.Fn
		// Dynamic-arity functions are lowered the same way fixed-arity ones
		// are: args always packs into a contiguous []float64 (spec §4.6).
		return func(vars map[string]float64) (float64, error) {
			args := make([]float64, len(argFns))
			for i, fn := range argFns {
				v, err := fn(vars)
				if err != nil {
					return 0, err
				}
				args[i] = v
			}
			return callable(args), nil
		}, nil

	default:
		return nil, errors.Errorf("exec: unsupported node type %T", node)
	}
}
