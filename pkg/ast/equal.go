package ast

import "math"

// Equal reports whether a and b are structurally identical trees. It backs
// the optimizer-idempotence property (spec §8 property 3: optimize(optimize(E))
// == optimize(E) structurally) and the round-trip law.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *IntegerConstant:
		y, ok := b.(*IntegerConstant)
		return ok && x.Value == y.Value
	case *FloatingPointConstant:
		y, ok := b.(*FloatingPointConstant)
		return ok && (x.Value == y.Value || (math.IsNaN(x.Value) && math.IsNaN(y.Value)))
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *UnaryMinus:
		y, ok := b.(*UnaryMinus)
		return ok && Equal(x.Arg, y.Arg)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Function:
		y, ok := b.(*Function)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsConstant reports whether node is a leaf numeric constant (Integer or
// FloatingPoint), the base case optimizer folding checks for.
func IsConstant(node Node) bool {
	switch node.(type) {
	case *IntegerConstant, *FloatingPointConstant:
		return true
	default:
		return false
	}
}

// ConstantValue extracts the numeric value of a constant leaf. ok is false
// if node is not a constant leaf.
func ConstantValue(node Node) (float64, bool) {
	switch n := node.(type) {
	case *IntegerConstant:
		return float64(n.Value), true
	case *FloatingPointConstant:
		return n.Value, true
	default:
		return 0, false
	}
}

// ContainsVariable reports whether node's subtree references any Variable.
func ContainsVariable(node Node) bool {
	switch n := node.(type) {
	case *Variable:
		return true
	case *UnaryMinus:
		return ContainsVariable(n.Arg)
	case *Binary:
		return ContainsVariable(n.Left) || ContainsVariable(n.Right)
	case *Function:
		for _, a := range n.Args {
			if ContainsVariable(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
