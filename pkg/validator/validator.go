// Package validator implements the cheap structural pre-pass of spec
// §4.3: it looks only at the token stream (never builds a tree) and
// reports bracket balance, adjacency, and function-arity problems.
// Running it is optional — pkg/parser is authoritative on tree shape
// and will catch anything this misses — but it produces more precise,
// batched diagnostics than aborting on the first parse error.
package validator

import (
	"strings"

	"github.com/wildfunctions/expreval/pkg/lexer"
	"github.com/wildfunctions/expreval/pkg/registry"
	"github.com/wildfunctions/expreval/pkg/synerr"
)

// Diagnostics aggregates every problem found in one Validate call.
type Diagnostics struct {
	Errors []*synerr.SyntaxError
}

func (d *Diagnostics) Error() string {
	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

type frame struct {
	isFunc                 bool
	funcName               string
	startPos               int
	argCount               int // separators seen so far at this level
	hasOperandInCurrentArg bool
}

// Validate scans tokens for structural problems, returning nil if none
// were found or *Diagnostics otherwise; an empty token stream is reported
// as a single *synerr.SyntaxError of kind EmptyExpression instead. functions is consulted for two
// things: whether a symbol immediately before "(" names a real function,
// and its arity for the count check.
func Validate(tokens []lexer.Token, functions *registry.FunctionRegistry) error {
	if len(tokens) == 0 {
		return synerr.New(synerr.EmptyExpression, -1, "expression is empty")
	}

	var diags []*synerr.SyntaxError
	report := func(kind synerr.Kind, pos int, format string, args ...interface{}) {
		diags = append(diags, synerr.Newf(kind, pos, format, args...))
	}

	var frames []frame
	expectOperand := true

	markOperandProduced := func() {
		if len(frames) > 0 {
			frames[len(frames)-1].hasOperandInCurrentArg = true
		}
	}

	for i, tok := range tokens {
		switch tok.Kind {
		case lexer.Integer, lexer.Float:
			if !expectOperand {
				report(synerr.UnexpectedToken, tok.Pos, "unexpected numeric literal %q", tok.Value)
			}
			expectOperand = false
			markOperandProduced()

		case lexer.Symbol:
			isFuncName := functions.Has(tok.Value)
			nextIsParen := i+1 < len(tokens) && tokens[i+1].Kind == lexer.LeftBracket

			if !expectOperand {
				report(synerr.UnexpectedToken, tok.Pos, "unexpected identifier %q", tok.Value)
			}
			if isFuncName && !nextIsParen {
				report(synerr.UnexpectedToken, tok.Pos, "function %q must be followed by '('", tok.Value)
			}
			if nextIsParen {
				if !isFuncName {
					report(synerr.UnknownIdentifier, tok.Pos, "unknown function %q", tok.Value)
				}
				// The frame itself is opened when the "(" token is reached.
			} else {
				expectOperand = false
				markOperandProduced()
			}

		case lexer.LeftBracket:
			isFuncCall := i > 0 && tokens[i-1].Kind == lexer.Symbol && functions.Has(tokens[i-1].Value)
			if !expectOperand && !isFuncCall {
				report(synerr.UnexpectedToken, tok.Pos, "operand cannot be followed by '('")
			}
			fr := frame{startPos: tok.Pos}
			if isFuncCall {
				fr.isFunc = true
				fr.funcName = tokens[i-1].Value
			}
			frames = append(frames, fr)
			expectOperand = true

		case lexer.RightBracket:
			// A ")" directly after a function call's "(" closes a zero-argument
			// call; the arity check below decides whether that is legal.
			zeroArgCall := i > 0 && tokens[i-1].Kind == lexer.LeftBracket &&
				len(frames) > 0 && frames[len(frames)-1].isFunc
			missingOperand := expectOperand && !zeroArgCall
			if missingOperand {
				report(synerr.MissingOperand, tok.Pos, "missing operand before ')'")
			}
			if len(frames) == 0 {
				report(synerr.MismatchedBracket, tok.Pos, "unmatched ')'")
			} else {
				top := frames[len(frames)-1]
				frames = frames[:len(frames)-1]
				if top.isFunc && !missingOperand {
					argc := top.argCount
					if top.hasOperandInCurrentArg {
						argc++
					}
					if info, ok := functions.Lookup(top.funcName); ok && !info.Arity(argc) {
						report(synerr.ArityMismatch, top.startPos, "function %q takes %s, got %d",
							top.funcName, arityWord(info), argc)
					}
				}
			}
			expectOperand = false
			markOperandProduced()

		case lexer.ArgumentSeparator:
			if expectOperand {
				report(synerr.MissingOperand, tok.Pos, "missing operand before ','")
			}
			if len(frames) == 0 || !frames[len(frames)-1].isFunc {
				report(synerr.UnexpectedToken, tok.Pos, "',' outside of a function call")
			} else {
				frames[len(frames)-1].argCount++
				frames[len(frames)-1].hasOperandInCurrentArg = false
			}
			expectOperand = true

		case lexer.Operator:
			if tok.Value == "-" && expectOperand {
				break // unary minus, always legal here
			}
			if expectOperand {
				report(synerr.MissingOperand, tok.Pos, "missing operand before %q", tok.Value)
			}
			expectOperand = true
		}
	}

	if expectOperand {
		last := tokens[len(tokens)-1]
		report(synerr.MissingOperand, last.Pos+last.Len, "expression ends with a missing operand")
	}
	for _, fr := range frames {
		report(synerr.MismatchedBracket, fr.startPos, "unclosed bracket")
	}

	if len(diags) == 0 {
		return nil
	}
	return &Diagnostics{Errors: diags}
}

func arityWord(info registry.FunctionInfo) string {
	if info.Kind == registry.DynamicArity {
		return "at least 1 argument"
	}
	if info.NumParams == 1 {
		return "1 argument"
	}
	return strings.TrimSpace(strings.Join([]string{itoa(info.NumParams), "arguments"}, " "))
}
