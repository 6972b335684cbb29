package exec

import (
	"math"

	"github.com/wildfunctions/expreval/pkg/ast"
)

// applyBinary is the single source of truth for binary-operator
// semantics, shared by the interpreter and the compiled backend so the
// two can never drift (spec §8 property 1). IEEE arithmetic exceptions
// propagate as NaN/±Inf rather than erroring (spec §7).
func applyBinary(op ast.BinaryOp, left, right float64) float64 {
	switch op {
	case ast.Add:
		return left + right
	case ast.Sub:
		return left - right
	case ast.Mul:
		return left * right
	case ast.Div:
		return left / right
	case ast.Mod:
		return math.Mod(left, right)
	case ast.Pow:
		return math.Pow(left, right)
	case ast.And:
		return boolToFloat(nonZero(left) && nonZero(right))
	case ast.Or:
		return boolToFloat(nonZero(left) || nonZero(right))
	case ast.Lt:
		return boolToFloat(left < right)
	case ast.Le:
		return boolToFloat(left <= right)
	case ast.Gt:
		return boolToFloat(left > right)
	case ast.Ge:
		return boolToFloat(left >= right)
	case ast.Eq:
		return boolToFloat(left == right)
	case ast.Ne:
		return boolToFloat(left != right)
	default:
		return math.NaN()
	}
}

// nonZero implements the "nonzero ≡ true" convention (spec §3). NaN is
// truthy under this rule since NaN != 0.
func nonZero(v float64) bool { return v != 0 }

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
