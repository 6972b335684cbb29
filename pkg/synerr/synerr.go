// Package synerr defines the syntax-error taxonomy shared by pkg/lexer,
// pkg/parser, and pkg/validator (spec §4.2/§4.3/§7): a single typed error
// carrying a Kind and a source position, so callers can switch on Kind
// instead of matching error strings.
package synerr

import "fmt"

// Kind identifies which member of the ParseException taxonomy an error
// belongs to.
type Kind int

const (
	UnknownCharacter Kind = iota
	MalformedNumber
	MismatchedBracket
	MissingOperand
	UnexpectedToken
	UnknownIdentifier
	ArityMismatch
	EmptyExpression
)

func (k Kind) String() string {
	switch k {
	case UnknownCharacter:
		return "UnknownCharacter"
	case MalformedNumber:
		return "MalformedNumber"
	case MismatchedBracket:
		return "MismatchedBracket"
	case MissingOperand:
		return "MissingOperand"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case ArityMismatch:
		return "ArityMismatch"
	case EmptyExpression:
		return "EmptyExpression"
	default:
		return "Unknown"
	}
}

// SyntaxError is the ParseException of spec §6/§7: every tokenization or
// parse failure surfaces as one of these, carrying the source position
// when one is known (-1 otherwise).
type SyntaxError struct {
	Kind Kind
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos, e.Msg)
}

// New constructs a SyntaxError.
func New(kind Kind, pos int, msg string) *SyntaxError {
	return &SyntaxError{Kind: kind, Pos: pos, Msg: msg}
}

// Newf constructs a SyntaxError with a formatted message.
func Newf(kind Kind, pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
