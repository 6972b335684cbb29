package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/expreval/pkg/ast"
	"github.com/wildfunctions/expreval/pkg/lexer"
	"github.com/wildfunctions/expreval/pkg/registry"
	"github.com/wildfunctions/expreval/pkg/synerr"
)

func testRegistries(t *testing.T) (*registry.FunctionRegistry, *registry.ConstantRegistry) {
	t.Helper()
	fns := registry.NewFunctionRegistry(true, false)
	require.NoError(t, fns.Register(registry.FunctionInfo{Name: "sin", Kind: registry.FixedArity, NumParams: 1, Fn: func(a []float64) float64 { return a[0] }}))
	require.NoError(t, fns.Register(registry.FunctionInfo{Name: "pow", Kind: registry.FixedArity, NumParams: 2, Fn: func(a []float64) float64 { return a[0] }}))
	require.NoError(t, fns.Register(registry.FunctionInfo{Name: "max", Kind: registry.DynamicArity, Fn: func(a []float64) float64 { return a[0] }}))
	require.NoError(t, fns.Register(registry.FunctionInfo{Name: "random", Kind: registry.FixedArity, NumParams: 0, Fn: func(a []float64) float64 { return 0 }}))

	consts := registry.NewConstantRegistry(true, false)
	require.NoError(t, consts.Register("pi", 3.14159))
	return fns, consts
}

func parseSrc(t *testing.T, src string) (ast.Node, error) {
	t.Helper()
	fns, consts := testRegistries(t)
	tokens, err := lexer.Tokenize(src, '.', ',')
	require.NoError(t, err)
	return Parse(tokens, fns, consts)
}

func syntaxErr(t *testing.T, err error) *synerr.SyntaxError {
	t.Helper()
	var se *synerr.SyntaxError
	require.ErrorAs(t, err, &se)
	return se
}

func TestParseArithmeticPrecedence(t *testing.T) {
	node, err := parseSrc(t, "2+3*4")
	require.NoError(t, err)
	assert.Equal(t, "(2 + (3 * 4))", ast.Render(node))
}

func TestParseLeftAssociativity(t *testing.T) {
	node, err := parseSrc(t, "2-3-4")
	require.NoError(t, err)
	assert.Equal(t, "((2 - 3) - 4)", ast.Render(node))
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	node, err := parseSrc(t, "2^3^2")
	require.NoError(t, err)
	assert.Equal(t, "(2 ^ (3 ^ 2))", ast.Render(node))
}

func TestParseUnaryMinusBindsTighterThanPower(t *testing.T) {
	node, err := parseSrc(t, "-2^3")
	require.NoError(t, err)
	assert.Equal(t, "((-2) ^ 3)", ast.Render(node))
}

func TestParseDoubleUnaryMinus(t *testing.T) {
	node, err := parseSrc(t, "--2")
	require.NoError(t, err)
	assert.Equal(t, "(-(-2))", ast.Render(node))
}

func TestParseGrouping(t *testing.T) {
	node, err := parseSrc(t, "(1+2)*3")
	require.NoError(t, err)
	assert.Equal(t, "((1 + 2) * 3)", ast.Render(node))
}

func TestParseFixedArityFunctionCall(t *testing.T) {
	node, err := parseSrc(t, "sin(0)")
	require.NoError(t, err)
	assert.Equal(t, "sin(0)", ast.Render(node))
}

func TestParseZeroArgumentFunctionCall(t *testing.T) {
	node, err := parseSrc(t, "random()")
	require.NoError(t, err)
	assert.Equal(t, "random()", ast.Render(node))
}

func TestParseDynamicArityFunctionCall(t *testing.T) {
	node, err := parseSrc(t, "max(1,2,3)")
	require.NoError(t, err)
	assert.Equal(t, "max(1, 2, 3)", ast.Render(node))
}

func TestParseNestedFunctionCalls(t *testing.T) {
	node, err := parseSrc(t, "pow(sin(1), 2)")
	require.NoError(t, err)
	assert.Equal(t, "pow(sin(1), 2)", ast.Render(node))
}

func TestParseVariableResolution(t *testing.T) {
	node, err := parseSrc(t, "x+1")
	require.NoError(t, err)
	bin, ok := node.(*ast.Binary)
	require.True(t, ok)
	v, ok := bin.Left.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestParseConstantResolution(t *testing.T) {
	node, err := parseSrc(t, "pi*2")
	require.NoError(t, err)
	bin, ok := node.(*ast.Binary)
	require.True(t, ok)
	c, ok := bin.Left.(*ast.FloatingPointConstant)
	require.True(t, ok)
	assert.InDelta(t, 3.14159, c.Value, 1e-9)
}

func TestParseComparisonAndLogicalPrecedence(t *testing.T) {
	node, err := parseSrc(t, "1<2 && 3>4")
	require.NoError(t, err)
	assert.Equal(t, "((1 < 2) && (3 > 4))", ast.Render(node))
}

func TestParseUnknownFunctionIsUnknownIdentifier(t *testing.T) {
	_, err := parseSrc(t, "foo(1)")
	require.Error(t, err)
	assert.Equal(t, synerr.UnknownIdentifier, syntaxErr(t, err).Kind)
}

func TestParseArityMismatch(t *testing.T) {
	_, err := parseSrc(t, "sin(1,2)")
	require.Error(t, err)
	assert.Equal(t, synerr.ArityMismatch, syntaxErr(t, err).Kind)
}

func TestParseUnclosedBracket(t *testing.T) {
	_, err := parseSrc(t, "(1+2")
	require.Error(t, err)
	assert.Equal(t, synerr.MismatchedBracket, syntaxErr(t, err).Kind)
}

func TestParseUnmatchedClosingBracket(t *testing.T) {
	_, err := parseSrc(t, "1+2)")
	require.Error(t, err)
	assert.Equal(t, synerr.MismatchedBracket, syntaxErr(t, err).Kind)
}

func TestParseTrailingOperatorIsMissingOperand(t *testing.T) {
	_, err := parseSrc(t, "1+")
	require.Error(t, err)
	assert.Equal(t, synerr.MissingOperand, syntaxErr(t, err).Kind)
}

func TestParseAdjacentOperandsIsUnexpectedToken(t *testing.T) {
	_, err := parseSrc(t, "1 2")
	require.Error(t, err)
	assert.Equal(t, synerr.UnexpectedToken, syntaxErr(t, err).Kind)
}

func TestParseEmptyExpression(t *testing.T) {
	fns, consts := testRegistries(t)
	_, err := Parse(nil, fns, consts)
	require.Error(t, err)
	assert.Equal(t, synerr.EmptyExpression, syntaxErr(t, err).Kind)
}

func TestParseTrailingCommaIsMissingOperand(t *testing.T) {
	_, err := parseSrc(t, "max(1,2,)")
	require.Error(t, err)
	assert.Equal(t, synerr.MissingOperand, syntaxErr(t, err).Kind)
}

func TestParseOperatorBeforeClosingBracketIsMissingOperand(t *testing.T) {
	_, err := parseSrc(t, "(1+)")
	require.Error(t, err)
	assert.Equal(t, synerr.MissingOperand, syntaxErr(t, err).Kind)
}
