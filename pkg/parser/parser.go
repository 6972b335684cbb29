// Package parser implements the shunting-yard AST builder of spec §4.2:
// a single left-to-right pass over a token stream that produces an
// ast.Node tree directly, using an operand stack and an operator stack
// driven by the precedence table in spec §4.2.
package parser

import (
	"github.com/wildfunctions/expreval/pkg/ast"
	"github.com/wildfunctions/expreval/pkg/lexer"
	"github.com/wildfunctions/expreval/pkg/registry"
	"github.com/wildfunctions/expreval/pkg/synerr"
)

// precedence table, spec §4.2. Higher binds tighter.
const (
	precOr = 1 + iota
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precPower
	precUnary
)

var binaryOps = map[string]struct {
	op    ast.BinaryOp
	prec  int
	right bool
}{
	"||": {ast.Or, precOr, false},
	"&&": {ast.And, precAnd, false},
	"==": {ast.Eq, precEquality, false},
	"!=": {ast.Ne, precEquality, false},
	"<":  {ast.Lt, precRelational, false},
	"<=": {ast.Le, precRelational, false},
	">":  {ast.Gt, precRelational, false},
	">=": {ast.Ge, precRelational, false},
	"+":  {ast.Add, precAdditive, false},
	"-":  {ast.Sub, precAdditive, false},
	"*":  {ast.Mul, precMultiplicative, false},
	"/":  {ast.Div, precMultiplicative, false},
	"%":  {ast.Mod, precMultiplicative, false},
	"^":  {ast.Pow, precPower, true},
}

// opKind distinguishes the three things that can sit on the operator
// stack: a binary operator, a unary-minus marker, and a "(" marker (which
// doubles as a function-call frame when opened right after a symbol).
type opKind int

const (
	opBinary opKind = iota
	opUnary
	opParen
)

type stackOp struct {
	kind opKind
	bin  ast.BinaryOp

	// opParen only:
	isFunc   bool
	funcName string
	funcInfo registry.FunctionInfo
	startPos int
	base     int // operand-stack length when this frame was opened
	numSeps  int // argument separators seen at this frame's level
}

func (o stackOp) precedence() (int, bool) {
	if o.kind == opUnary {
		return precUnary, true
	}
	return binaryOps[symbolOf(o.bin)].prec, binaryOps[symbolOf(o.bin)].right
}

var binOpSymbols = func() map[ast.BinaryOp]string {
	m := make(map[ast.BinaryOp]string, len(binaryOps))
	for sym, info := range binaryOps {
		m[info.op] = sym
	}
	return m
}()

func symbolOf(op ast.BinaryOp) string { return binOpSymbols[op] }

// Parse builds an ast.Node from tokens, resolving identifiers against
// functions and constants as described in spec §4.2.
func Parse(tokens []lexer.Token, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry) (ast.Node, error) {
	if len(tokens) == 0 {
		return nil, synerr.New(synerr.EmptyExpression, -1, "expression is empty")
	}

	p := &parseState{tokens: tokens, functions: functions, constants: constants}
	return p.run()
}

type parseState struct {
	tokens    []lexer.Token
	pos       int
	functions *registry.FunctionRegistry
	constants *registry.ConstantRegistry

	operands  []ast.Node
	operators []stackOp

	expectOperand bool
}

func (p *parseState) run() (ast.Node, error) {
	p.expectOperand = true

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		var err error
		switch tok.Kind {
		case lexer.Integer:
			err = p.pushIntegerLiteral(tok)
		case lexer.Float:
			err = p.pushFloatLiteral(tok)
		case lexer.Symbol:
			err = p.handleSymbol(tok)
		case lexer.LeftBracket:
			err = p.handleLeftBracket(tok)
		case lexer.RightBracket:
			err = p.handleRightBracket(tok)
		case lexer.ArgumentSeparator:
			err = p.handleArgumentSeparator(tok)
		case lexer.Operator:
			err = p.handleOperator(tok)
		default:
			err = synerr.Newf(synerr.UnexpectedToken, tok.Pos, "unexpected token %q", tok.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if p.expectOperand {
		return nil, synerr.New(synerr.MissingOperand, p.endPos(), "expression ends with a missing operand")
	}

	for len(p.operators) > 0 {
		top := p.popOperator()
		if top.kind == opParen {
			return nil, synerr.New(synerr.MismatchedBracket, top.startPos, "unclosed bracket")
		}
		if err := p.apply(top); err != nil {
			return nil, err
		}
	}

	if len(p.operands) != 1 {
		return nil, synerr.New(synerr.UnexpectedToken, p.endPos(), "malformed expression")
	}
	return p.operands[0], nil
}

func (p *parseState) endPos() int {
	if len(p.tokens) == 0 {
		return -1
	}
	last := p.tokens[len(p.tokens)-1]
	return last.Pos + last.Len
}

func (p *parseState) pushIntegerLiteral(tok lexer.Token) error {
	if !p.expectOperand {
		return synerr.Newf(synerr.UnexpectedToken, tok.Pos, "unexpected numeric literal %q", tok.Value)
	}
	v, err := parseInt(tok.Value)
	if err != nil {
		return synerr.Newf(synerr.MalformedNumber, tok.Pos, "invalid integer literal %q", tok.Value)
	}
	p.operands = append(p.operands, &ast.IntegerConstant{Value: v})
	p.expectOperand = false
	p.pos++
	return nil
}

func (p *parseState) pushFloatLiteral(tok lexer.Token) error {
	if !p.expectOperand {
		return synerr.Newf(synerr.UnexpectedToken, tok.Pos, "unexpected numeric literal %q", tok.Value)
	}
	v, err := parseFloat(tok.Value)
	if err != nil {
		return synerr.Newf(synerr.MalformedNumber, tok.Pos, "invalid floating-point literal %q", tok.Value)
	}
	p.operands = append(p.operands, &ast.FloatingPointConstant{Value: v})
	p.expectOperand = false
	p.pos++
	return nil
}

func (p *parseState) handleSymbol(tok lexer.Token) error {
	if !p.expectOperand {
		return synerr.Newf(synerr.UnexpectedToken, tok.Pos, "unexpected identifier %q", tok.Value)
	}

	// Resolution order follows spec §4.2 literally: a registered constant
	// wins even when it's followed by "(", since a caller may register the
	// same name as both a constant and a function without guarded mode's
	// cross-kind check ever running to forbid it.
	name := tok.Value
	if v, ok := p.constants.Lookup(name); ok {
		p.operands = append(p.operands, &ast.FloatingPointConstant{Value: v})
		p.expectOperand = false
		p.pos++
		return nil
	}

	if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == lexer.LeftBracket {
		info, ok := p.functions.Lookup(name)
		if !ok {
			return synerr.Newf(synerr.UnknownIdentifier, tok.Pos, "unknown function %q", name)
		}
		p.operators = append(p.operators, stackOp{
			kind: opParen, isFunc: true, funcName: name, funcInfo: info,
			startPos: tok.Pos, base: len(p.operands),
		})
		p.pos += 2 // consume symbol and "("
		p.expectOperand = true
		return nil
	}

	p.operands = append(p.operands, &ast.Variable{Name: name})
	p.expectOperand = false
	p.pos++
	return nil
}

func (p *parseState) handleLeftBracket(tok lexer.Token) error {
	if !p.expectOperand {
		return synerr.Newf(synerr.UnexpectedToken, tok.Pos, "unexpected %q", "(")
	}
	p.operators = append(p.operators, stackOp{kind: opParen, startPos: tok.Pos, base: len(p.operands)})
	p.pos++
	p.expectOperand = true
	return nil
}

func (p *parseState) handleRightBracket(tok lexer.Token) error {
	if p.expectOperand && !p.closesZeroArgumentCall() {
		return synerr.New(synerr.MissingOperand, tok.Pos, "missing operand before ')'")
	}

	for len(p.operators) > 0 && p.operators[len(p.operators)-1].kind != opParen {
		top := p.popOperator()
		if err := p.apply(top); err != nil {
			return err
		}
	}
	if len(p.operators) == 0 {
		return synerr.New(synerr.MismatchedBracket, tok.Pos, "unmatched ')'")
	}
	frame := p.popOperator()

	if frame.isFunc {
		argc := len(p.operands) - frame.base
		if !frame.funcInfo.Arity(argc) {
			return synerr.Newf(synerr.ArityMismatch, frame.startPos, "function %q takes %s, got %d",
				frame.funcName, arityDescription(frame.funcInfo), argc)
		}
		args := make([]ast.Node, argc)
		copy(args, p.operands[frame.base:])
		p.operands = p.operands[:frame.base]
		p.operands = append(p.operands, &ast.Function{Name: frame.funcName, Args: args})
	} else if len(p.operands)-frame.base != 1 {
		return synerr.New(synerr.MissingOperand, tok.Pos, "empty parenthesized expression")
	}

	p.expectOperand = false
	p.pos++
	return nil
}

// closesZeroArgumentCall reports whether the operator stack's top frame is
// a function call that has taken no arguments so far — the one case where
// a ")" is legal despite expectOperand still being true, since the call
// never had a first argument to begin with.
func (p *parseState) closesZeroArgumentCall() bool {
	if len(p.operators) == 0 {
		return false
	}
	top := p.operators[len(p.operators)-1]
	return top.kind == opParen && top.isFunc && len(p.operands) == top.base
}

func (p *parseState) handleArgumentSeparator(tok lexer.Token) error {
	if p.expectOperand {
		return synerr.New(synerr.MissingOperand, tok.Pos, "missing operand before ','")
	}

	for len(p.operators) > 0 && p.operators[len(p.operators)-1].kind != opParen {
		top := p.popOperator()
		if err := p.apply(top); err != nil {
			return err
		}
	}
	if len(p.operators) == 0 || !p.operators[len(p.operators)-1].isFunc {
		return synerr.New(synerr.UnexpectedToken, tok.Pos, "',' outside of a function call")
	}
	p.operators[len(p.operators)-1].numSeps++
	p.expectOperand = true
	p.pos++
	return nil
}

func (p *parseState) handleOperator(tok lexer.Token) error {
	if tok.Value == "-" && p.expectOperand {
		p.pushOperator(stackOp{kind: opUnary, startPos: tok.Pos})
		p.pos++
		return nil
	}

	if p.expectOperand {
		return synerr.Newf(synerr.MissingOperand, tok.Pos, "missing operand before %q", tok.Value)
	}

	def, ok := binaryOps[tok.Value]
	if !ok {
		return synerr.Newf(synerr.UnexpectedToken, tok.Pos, "unknown operator %q", tok.Value)
	}
	p.pushOperator(stackOp{kind: opBinary, bin: def.op})
	p.expectOperand = true
	p.pos++
	return nil
}

// pushOperator pops operators of higher precedence (or equal precedence
// with left associativity) before pushing item, per spec §4.2.
func (p *parseState) pushOperator(item stackOp) {
	curPrec, curRight := item.precedence()
	for len(p.operators) > 0 {
		top := p.operators[len(p.operators)-1]
		if top.kind == opParen {
			break
		}
		topPrec, _ := top.precedence()
		if topPrec > curPrec || (topPrec == curPrec && !curRight) {
			p.operators = p.operators[:len(p.operators)-1]
			p.apply(top) //nolint:errcheck // apply only errors on malformed operand stack, impossible here
			continue
		}
		break
	}
	p.operators = append(p.operators, item)
}

func (p *parseState) popOperator() stackOp {
	top := p.operators[len(p.operators)-1]
	p.operators = p.operators[:len(p.operators)-1]
	return top
}

func (p *parseState) apply(item stackOp) error {
	switch item.kind {
	case opUnary:
		if len(p.operands) < 1 {
			return synerr.New(synerr.MissingOperand, item.startPos, "unary '-' has no operand")
		}
		arg := p.operands[len(p.operands)-1]
		p.operands = p.operands[:len(p.operands)-1]
		p.operands = append(p.operands, &ast.UnaryMinus{Arg: arg})
	case opBinary:
		if len(p.operands) < 2 {
			return synerr.New(synerr.MissingOperand, item.startPos, "operator has too few operands")
		}
		right := p.operands[len(p.operands)-1]
		left := p.operands[len(p.operands)-2]
		p.operands = p.operands[:len(p.operands)-2]
		p.operands = append(p.operands, &ast.Binary{Op: item.bin, Left: left, Right: right})
	}
	return nil
}

func arityDescription(info registry.FunctionInfo) string {
	if info.Kind == registry.DynamicArity {
		return "at least 1 argument"
	}
	if info.NumParams == 1 {
		return "1 argument"
	}
	return itoa(info.NumParams) + " arguments"
}
