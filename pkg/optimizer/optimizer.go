// Package optimizer implements the bottom-up AST rewrite of spec §4.4:
// idempotent constant folding plus a fixed set of algebraic identities.
// Grounded on pkg/expr/simplify.go's rewrite-to-fixpoint shape, adapted
// from integer arithmetic over a custom node set to float64 arithmetic
// over pkg/ast, and from string-equality convergence checks to
// ast.Equal structural comparison.
package optimizer

import (
	"github.com/wildfunctions/expreval/pkg/ast"
	"github.com/wildfunctions/expreval/pkg/exec"
	"github.com/wildfunctions/expreval/pkg/registry"
)

// maxIterations caps the fixpoint loop; any well-formed expression
// converges in far fewer passes than this, so hitting the cap points at
// a rewrite rule that isn't reducing the tree.
const maxIterations = 20

// Optimizer applies Optimize using the interpreter to fold idempotent
// constant subtrees.
type Optimizer struct {
	interp *exec.Interpreter
}

// New builds an Optimizer bound to the given registries.
func New(functions *registry.FunctionRegistry, constants *registry.ConstantRegistry, caseSensitive bool) *Optimizer {
	return &Optimizer{interp: exec.NewInterpreter(functions, constants, caseSensitive)}
}

// Optimize rewrites node to a fixpoint (spec §4.4). It never mutates
// node; every call in the chain returns a new subtree.
func (o *Optimizer) Optimize(node ast.Node) ast.Node {
	current := node
	for i := 0; i < maxIterations; i++ {
		next := o.rewriteOnce(current)
		if ast.Equal(next, current) {
			return next
		}
		current = next
	}
	return current
}

func (o *Optimizer) rewriteOnce(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.IntegerConstant, *ast.FloatingPointConstant, *ast.Variable:
		return node

	case *ast.UnaryMinus:
		arg := o.rewriteOnce(n.Arg)
		if v, ok := ast.ConstantValue(arg); ok {
			return &ast.FloatingPointConstant{Value: -v}
		}
		return &ast.UnaryMinus{Arg: arg}

	case *ast.Binary:
		left := o.rewriteOnce(n.Left)
		right := o.rewriteOnce(n.Right)
		return o.rewriteBinary(n.Op, left, right)

	case *ast.Function:
		args := make([]ast.Node, len(n.Args))
		allConst := true
		for i, a := range n.Args {
			args[i] = o.rewriteOnce(a)
			if !ast.IsConstant(args[i]) {
				allConst = false
			}
		}
		folded := &ast.Function{Name: n.Name, Args: args}
		if allConst {
			if info, ok := o.interp.Functions.Lookup(n.Name); ok && info.IsIdempotent {
				if v, err := o.interp.Eval(folded, nil); err == nil {
					return &ast.FloatingPointConstant{Value: v}
				}
			}
		}
		return folded

	default:
		return node
	}
}

func (o *Optimizer) rewriteBinary(op ast.BinaryOp, left, right ast.Node) ast.Node {
	lv, lok := ast.ConstantValue(left)
	rv, rok := ast.ConstantValue(right)

	// 1. Idempotent constant folding: every binary operator built into the
	// language is idempotent by construction, so both-constant always
	// folds, via the interpreter as spec §4.4 prescribes.
	if lok && rok {
		folded := &ast.Binary{Op: op, Left: left, Right: right}
		if v, err := o.interp.Eval(folded, nil); err == nil {
			return &ast.FloatingPointConstant{Value: v}
		}
	}

	// 2. Algebraic identities (spec §4.4), applicable even with a
	// non-constant sibling.
	switch op {
	case ast.Mul:
		if (rok && rv == 0) || (lok && lv == 0) {
			return &ast.FloatingPointConstant{Value: 0}
		}
	case ast.Div:
		if lok && lv == 0 {
			// 0/x -> 0, including the documented x=0 deviation from IEEE
			// (spec §4.4, §9 open question i): ordinarily 0/0 is NaN.
			return &ast.FloatingPointConstant{Value: 0}
		}
	case ast.Pow:
		if rok && rv == 0 {
			return &ast.FloatingPointConstant{Value: 1}
		}
		// 0^x for non-constant x is intentionally left unrewritten: the
		// value depends on x (0 for x>0, +Inf for x<0, 1 for x=0).
	}

	return &ast.Binary{Op: op, Left: left, Right: right}
}
