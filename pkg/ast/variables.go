package ast

// FreeVariables returns the distinct Variable names referenced anywhere in
// node's subtree, in first-encounter order. Used by guarded-mode
// evaluation to check variable-map completeness before running an
// executor (spec §5).
func FreeVariables(node Node) []string {
	seen := map[string]bool{}
	var names []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Variable:
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		case *UnaryMinus:
			walk(v.Arg)
		case *Binary:
			walk(v.Left)
			walk(v.Right)
		case *Function:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(node)
	return names
}
