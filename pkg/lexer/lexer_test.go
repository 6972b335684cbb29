package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(kind Kind, value string) Token {
	return Token{Kind: kind, Value: value}
}

func stripPositions(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = Token{Kind: t.Kind, Value: t.Value}
	}
	return out
}

func TestTokenizeBasicArithmetic(t *testing.T) {
	tokens, err := Tokenize("(2+3)*500", '.', ',')
	require.NoError(t, err)

	want := []Token{
		tok(LeftBracket, "("), tok(Integer, "2"), tok(Operator, "+"), tok(Integer, "3"), tok(RightBracket, ")"),
		tok(Operator, "*"), tok(Integer, "500"),
	}
	assert.Equal(t, want, stripPositions(tokens))
}

func TestTokenizeFunctionCall(t *testing.T) {
	tokens, err := Tokenize("max(1,2,3)", '.', ',')
	require.NoError(t, err)

	want := []Token{
		tok(Symbol, "max"), tok(LeftBracket, "("), tok(Integer, "1"), tok(ArgumentSeparator, ","),
		tok(Integer, "2"), tok(ArgumentSeparator, ","), tok(Integer, "3"), tok(RightBracket, ")"),
	}
	assert.Equal(t, want, stripPositions(tokens))
}

func TestTokenizeFloatWithExponent(t *testing.T) {
	tokens, err := Tokenize("1.5e-3", '.', ',')
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Float, tokens[0].Kind)
	assert.Equal(t, "1.5e-3", tokens[0].Value)
}

func TestTokenizeAlternateLocale(t *testing.T) {
	tokens, err := Tokenize("1,5", ',', ';')
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Float, tokens[0].Kind)
	assert.Equal(t, "1.5", tokens[0].Value)
}

func TestTokenizeLtGtSynonym(t *testing.T) {
	tokens, err := Tokenize("a<>b", '.', ',')
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "!=", tokens[1].Value)
}

func TestTokenizeLongestMatchOperators(t *testing.T) {
	for _, op := range []string{"<=", ">=", "!=", "==", "&&", "||"} {
		tokens, err := Tokenize("a"+op+"b", '.', ',')
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, Operator, tokens[1].Kind)
		assert.Equal(t, op, tokens[1].Value)
	}
}

func TestTokenizeUnknownCharacter(t *testing.T) {
	_, err := Tokenize("a$b", '.', ',')
	require.Error(t, err)
	var synErr interface{ Error() string }
	assert.ErrorAs(t, err, &synErr)
}

func TestTokenizeIntegerOverflowPromotesToFloat(t *testing.T) {
	tokens, err := Tokenize("99999999999999999999999", '.', ',')
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Float, tokens[0].Kind)
}

func TestTokenizeWhitespaceIsDiscarded(t *testing.T) {
	tokens, err := Tokenize("  1   +\t2\n", '.', ',')
	require.NoError(t, err)
	assert.Equal(t, []Token{tok(Integer, "1"), tok(Operator, "+"), tok(Integer, "2")}, stripPositions(tokens))
}
