package ast

import "testing"

func TestRenderBinary(t *testing.T) {
	n := &Binary{Op: Add, Left: &IntegerConstant{Value: 2}, Right: &IntegerConstant{Value: 3}}
	if got, want := Render(n), "(2 + 3)"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderFunction(t *testing.T) {
	n := &Function{Name: "max", Args: []Node{&IntegerConstant{Value: 1}, &Variable{Name: "x"}}}
	if got, want := Render(n), "max(1, x)"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &Binary{Op: Mul, Left: &Variable{Name: "x"}, Right: &IntegerConstant{Value: 2}}
	cloned := Clone(orig).(*Binary)

	cloned.Left.(*Variable).Name = "y"
	if orig.Left.(*Variable).Name != "x" {
		t.Fatalf("Clone shared state with original: mutating clone changed orig to %q", orig.Left.(*Variable).Name)
	}
}

func TestEqual(t *testing.T) {
	a := &Binary{Op: Add, Left: &Variable{Name: "x"}, Right: &IntegerConstant{Value: 1}}
	b := &Binary{Op: Add, Left: &Variable{Name: "x"}, Right: &IntegerConstant{Value: 1}}
	c := &Binary{Op: Add, Left: &Variable{Name: "x"}, Right: &IntegerConstant{Value: 2}}

	if !Equal(a, b) {
		t.Errorf("Equal(a, b) = false, want true")
	}
	if Equal(a, c) {
		t.Errorf("Equal(a, c) = true, want false")
	}
}

func TestContainsVariable(t *testing.T) {
	withVar := &Function{Name: "sin", Args: []Node{&Variable{Name: "x"}}}
	withoutVar := &Function{Name: "sin", Args: []Node{&IntegerConstant{Value: 0}}}

	if !ContainsVariable(withVar) {
		t.Errorf("ContainsVariable(withVar) = false, want true")
	}
	if ContainsVariable(withoutVar) {
		t.Errorf("ContainsVariable(withoutVar) = true, want false")
	}
}

func TestConstantValue(t *testing.T) {
	v, ok := ConstantValue(&IntegerConstant{Value: 5})
	if !ok || v != 5 {
		t.Errorf("ConstantValue(int) = (%v, %v), want (5, true)", v, ok)
	}
	if _, ok := ConstantValue(&Variable{Name: "x"}); ok {
		t.Errorf("ConstantValue(variable) ok = true, want false")
	}
}
