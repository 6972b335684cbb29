package ast

// Clone deep-copies node, so a caller can change the copy without touching
// the original. The optimizer does not need it: it builds new nodes as it
// rewrites and never mutates the tree it was handed.
func Clone(node Node) Node {
	switch n := node.(type) {
	case *IntegerConstant:
		c := *n
		return &c
	case *FloatingPointConstant:
		c := *n
		return &c
	case *Variable:
		c := *n
		return &c
	case *UnaryMinus:
		return &UnaryMinus{Arg: Clone(n.Arg)}
	case *Binary:
		return &Binary{Op: n.Op, Left: Clone(n.Left), Right: Clone(n.Right)}
	case *Function:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Clone(a)
		}
		return &Function{Name: n.Name, Args: args}
	default:
		return node
	}
}
