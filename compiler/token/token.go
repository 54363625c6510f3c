package token

import "fmt"

type (
	// Kind classifies a lexical unit.
	Kind int

	// Token is a classified lexical unit with its 1-based source position.
	Token struct {
		Kind   Kind
		Lexeme string
		Line   int
		Column int
	}
)

const (
	EOF Kind = iota

	Ident
	Int
	String

	// keywords

	Let
	Fn
	Return
	If
	Else
	True
	False

	// operators and punctuation

	Plus
	Minus
	Star
	Slash
	Bang
	Assign
	Eq
	Neq
	Lt
	Gt
	LtEq
	GtEq

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semicolon
)

var kindNames = map[Kind]string{
	EOF:       "eof",
	Ident:     "ident",
	Int:       "int",
	String:    "string",
	Let:       "let",
	Fn:        "fn",
	Return:    "return",
	If:        "if",
	Else:      "else",
	True:      "true",
	False:     "false",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Bang:      "!",
	Assign:    "=",
	Eq:        "==",
	Neq:       "!=",
	Lt:        "<",
	Gt:        ">",
	LtEq:      "<=",
	GtEq:      ">=",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	Comma:     ",",
	Semicolon: ";",
}

var keywords = map[string]Kind{
	"let":    Let,
	"fn":     Fn,
	"return": Return,
	"if":     If,
	"else":   Else,
	"true":   True,
	"false":  False,
}

// Lookup classifies an identifier lexeme, promoting reserved words.
func Lookup(ident string) Kind {
	if kw, ok := keywords[ident]; ok {
		return kw
	}

	return Ident
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Int, String:
		return fmt.Sprintf("%v(%q)", t.Kind, t.Lexeme)
	default:
		return t.Kind.String()
	}
}
