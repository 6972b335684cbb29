package lexer

// Kind identifies what a Token represents. It mirrors spec §3's Token
// data model exactly, including Text: the expression grammar (spec §6
// BNF) has no string-literal production, so Tokenize never emits a Text
// token, but the kind is declared for fidelity to the documented model.
type Kind int

const (
	Integer Kind = iota
	Float
	Symbol
	Text
	LeftBracket
	RightBracket
	ArgumentSeparator
	Operator
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Symbol:
		return "Symbol"
	case Text:
		return "Text"
	case LeftBracket:
		return "LeftBracket"
	case RightBracket:
		return "RightBracket"
	case ArgumentSeparator:
		return "ArgumentSeparator"
	case Operator:
		return "Operator"
	default:
		return "Unknown"
	}
}

// Token is an immutable lexical unit produced by Tokenize.
type Token struct {
	Kind  Kind
	Value string
	Pos   int // rune offset of the first character
	Len   int // length in runes
}
