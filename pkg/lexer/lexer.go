// Package lexer turns expression source text into an ordered token
// stream (spec §4.1). Tokens outlive only the parse step; the tokenizer
// keeps no state between calls.
package lexer

import (
	"strconv"
	"strings"

	"github.com/wildfunctions/expreval/pkg/synerr"
)

// twoCharOperators lists the longest-match multi-character operators, in
// no particular order — Tokenize always tries these before falling back
// to a single-character operator.
var twoCharOperators = []string{"<=", ">=", "!=", "<>", "==", "&&", "||"}

const singleCharOperators = "+-*/%^<>="

// Tokenize scans src into a token stream. decimalSep and argSep are the
// two locale parameters spec §4.1 fixes as scalar tokenizer inputs (e.g.
// '.'/',' or ','/';'); they must differ.
func Tokenize(src string, decimalSep, argSep rune) ([]Token, error) {
	runes := []rune(src)
	var tokens []Token
	i := 0

	for i < len(runes) {
		c := runes[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, Token{Kind: LeftBracket, Value: "(", Pos: i, Len: 1})
			i++

		case c == ')':
			tokens = append(tokens, Token{Kind: RightBracket, Value: ")", Pos: i, Len: 1})
			i++

		case c == argSep:
			tokens = append(tokens, Token{Kind: ArgumentSeparator, Value: string(c), Pos: i, Len: 1})
			i++

		case isDigit(c) || c == decimalSep:
			tok, next, err := scanNumber(runes, i, decimalSep)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next

		case isIdentStart(c):
			tok, next := scanSymbol(runes, i)
			tokens = append(tokens, tok)
			i = next

		default:
			if op, n := matchOperator(runes, i); op != "" {
				if op == "<>" {
					op = "!=" // <> is a synonym for != (spec §4.1)
				}
				tokens = append(tokens, Token{Kind: Operator, Value: op, Pos: i, Len: n})
				i += n
				continue
			}
			return nil, synerr.Newf(synerr.UnknownCharacter, i, "unexpected character %q", string(c))
		}
	}

	return tokens, nil
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

// scanNumber consumes a maximal numeric literal starting at i: digits,
// optionally exactly one decimalSep, optionally an exponent e[+-]?digits.
func scanNumber(runes []rune, i int, decimalSep rune) (Token, int, error) {
	start := i
	sawSep := false
	sawExp := false

	for i < len(runes) {
		c := runes[i]
		switch {
		case isDigit(c):
			i++
		case c == decimalSep && !sawSep && !sawExp:
			sawSep = true
			i++
		case (c == 'e' || c == 'E') && !sawExp && i+1 < len(runes):
			// Only consume the exponent marker if what follows actually
			// looks like an exponent, so "3e" alone (say, followed by a
			// variable named e) can't happen — number+symbol adjacency is
			// still a syntax error but not one this scanner should invent.
			j := i + 1
			if runes[j] == '+' || runes[j] == '-' {
				j++
			}
			if j < len(runes) && isDigit(runes[j]) {
				sawExp = true
				i = j
				continue
			}
			goto done
		default:
			goto done
		}
	}
done:

	raw := string(runes[start:i])
	if raw == "" || raw == string(decimalSep) {
		return Token{}, 0, synerr.New(synerr.MalformedNumber, start, "empty numeric literal")
	}

	if !sawSep && !sawExp {
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Token{Kind: Integer, Value: raw, Pos: start, Len: i - start}, i, nil
		}
		// Overflowed int64: promote to floating point, per spec §4.1.
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return Token{Kind: Float, Value: raw, Pos: start, Len: i - start}, i, nil
		}
		return Token{}, 0, synerr.Newf(synerr.MalformedNumber, start, "invalid numeric literal %q", raw)
	}

	normalized := raw
	if decimalSep != '.' {
		normalized = strings.Replace(raw, string(decimalSep), ".", 1)
	}
	if _, err := strconv.ParseFloat(normalized, 64); err != nil {
		return Token{}, 0, synerr.Newf(synerr.MalformedNumber, start, "invalid numeric literal %q", raw)
	}
	return Token{Kind: Float, Value: normalized, Pos: start, Len: i - start}, i, nil
}

func scanSymbol(runes []rune, i int) (Token, int) {
	start := i
	for i < len(runes) && isIdentPart(runes[i]) {
		i++
	}
	return Token{Kind: Symbol, Value: string(runes[start:i]), Pos: start, Len: i - start}, i
}

func matchOperator(runes []rune, i int) (string, int) {
	if i+1 < len(runes) {
		two := string(runes[i : i+2])
		for _, op := range twoCharOperators {
			if two == op {
				return op, 2
			}
		}
	}
	if strings.ContainsRune(singleCharOperators, runes[i]) {
		return string(runes[i]), 1
	}
	return "", 0
}
