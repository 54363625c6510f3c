package lexer

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/token"
)

type (
	lexer struct {
		b []byte
		i int

		line, col int
	}

	// Error is a lexical diagnostic with a 1-based source position.
	Error struct {
		Line   int
		Column int
		Msg    string
	}
)

// Tokenize scans the whole source in one left-to-right pass.
// The returned stream always ends with exactly one EOF token.
func Tokenize(ctx context.Context, text []byte) (toks []token.Token, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "tokenize", "size", len(text))
	defer tr.Finish("err", &err)

	l := &lexer{
		b:    text,
		line: 1,
		col:  1,
	}

	for {
		tk, err := l.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tk)

		if tk.Kind == token.EOF {
			break
		}
	}

	if tr.If("dump_tokens") {
		for _, tk := range toks {
			tr.Printw("token", "kind", tk.Kind.String(), "lexeme", tk.Lexeme, "line", tk.Line, "col", tk.Column)
		}
	}

	return toks, nil
}

func (l *lexer) next() (tk token.Token, err error) {
	l.skipSpaces()

	line, col := l.line, l.col

	if l.i == len(l.b) {
		return l.tok(token.EOF, "", line, col), nil
	}

	c := l.advance()

	switch c {
	case '(':
		return l.tok(token.LParen, "(", line, col), nil
	case ')':
		return l.tok(token.RParen, ")", line, col), nil
	case '{':
		return l.tok(token.LBrace, "{", line, col), nil
	case '}':
		return l.tok(token.RBrace, "}", line, col), nil
	case ',':
		return l.tok(token.Comma, ",", line, col), nil
	case ';':
		return l.tok(token.Semicolon, ";", line, col), nil
	case '+':
		return l.tok(token.Plus, "+", line, col), nil
	case '-':
		return l.tok(token.Minus, "-", line, col), nil
	case '*':
		return l.tok(token.Star, "*", line, col), nil
	case '/':
		return l.tok(token.Slash, "/", line, col), nil
	case '=':
		if l.match('=') {
			return l.tok(token.Eq, "==", line, col), nil
		}

		return l.tok(token.Assign, "=", line, col), nil
	case '!':
		if l.match('=') {
			return l.tok(token.Neq, "!=", line, col), nil
		}

		return l.tok(token.Bang, "!", line, col), nil
	case '<':
		if l.match('=') {
			return l.tok(token.LtEq, "<=", line, col), nil
		}

		return l.tok(token.Lt, "<", line, col), nil
	case '>':
		if l.match('=') {
			return l.tok(token.GtEq, ">=", line, col), nil
		}

		return l.tok(token.Gt, ">", line, col), nil
	case '"':
		return l.str(line, col)
	}

	switch {
	case c >= '0' && c <= '9':
		st := l.i - 1
		for l.i < len(l.b) && l.b[l.i] >= '0' && l.b[l.i] <= '9' {
			l.advance()
		}

		return l.tok(token.Int, string(l.b[st:l.i]), line, col), nil
	case isIdentStart(c):
		st := l.i - 1
		for l.i < len(l.b) && isIdentPart(l.b[l.i]) {
			l.advance()
		}

		lit := string(l.b[st:l.i])

		return l.tok(token.Lookup(lit), lit, line, col), nil
	}

	return tk, Error{Line: line, Column: col, Msg: fmt.Sprintf("unexpected character: %q", c)}
}

// str scans the remainder of a string literal, the opening quote is consumed.
// Literals do not span lines.
func (l *lexer) str(line, col int) (tk token.Token, err error) {
	st := l.i

	for l.i < len(l.b) && l.b[l.i] != '"' {
		if l.b[l.i] == '\n' {
			return tk, Error{Line: line, Column: col, Msg: "unterminated string"}
		}

		l.advance()
	}

	if l.i == len(l.b) {
		return tk, Error{Line: line, Column: col, Msg: "unterminated string"}
	}

	lit := string(l.b[st:l.i])
	l.advance() // closing quote

	return l.tok(token.String, lit, line, col), nil
}

func (l *lexer) skipSpaces() {
	for l.i < len(l.b) {
		switch c := l.b[l.i]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.i+1 < len(l.b) && l.b[l.i+1] == '/':
			for l.i < len(l.b) && l.b[l.i] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) advance() byte {
	c := l.b[l.i]
	l.i++

	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return c
}

func (l *lexer) match(want byte) bool {
	if l.i == len(l.b) || l.b[l.i] != want {
		return false
	}

	l.advance()

	return true
}

func (l *lexer) tok(kind token.Kind, lit string, line, col int) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: lit,
		Line:   line,
		Column: col,
	}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Msg)
}
