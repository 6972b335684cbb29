package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var binarySymbols = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "^",
	And: "&&", Or: "||",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=", Eq: "==", Ne: "!=",
}

// Render produces a canonical, fully-parenthesized textual form of node.
// It is used for the round-trip law in spec §8 and by tests that compare
// trees by structure rather than by pointer identity.
func Render(node Node) string {
	var sb strings.Builder
	render(&sb, node)
	return sb.String()
}

// formatFloat renders v so that re-tokenizing the result always yields a
// Float token rather than an Integer one (spec §8's round-trip law): a
// whole-number value like 2500.0 formats as "2500" via 'g', which the
// lexer's decimal-separator/exponent check would then misclassify as an
// integer literal. NaN and the infinities have no decimal form to add a
// separator to, so they're left as strconv produces them.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func render(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *IntegerConstant:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case *FloatingPointConstant:
		sb.WriteString(formatFloat(n.Value))
	case *Variable:
		sb.WriteString(n.Name)
	case *UnaryMinus:
		sb.WriteString("(-")
		render(sb, n.Arg)
		sb.WriteByte(')')
	case *Binary:
		sym, ok := binarySymbols[n.Op]
		if !ok {
			sym = "?"
		}
		sb.WriteByte('(')
		render(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(sym)
		sb.WriteByte(' ')
		render(sb, n.Right)
		sb.WriteByte(')')
	case *Function:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			render(sb, arg)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(fmt.Sprintf("<unknown node %T>", node))
	}
}
