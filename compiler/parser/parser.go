package parser

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/ast"
	"github.com/foolang/foo/compiler/token"
)

type (
	parser struct {
		toks []token.Token
		i    int

		tr tlog.Span
	}

	// UnexpectedTokenError is the single parse diagnostic. Parsing stops at
	// the first token that violates the grammar, there is no recovery.
	UnexpectedTokenError struct {
		Expected string
		Found    token.Token
	}
)

// Parse builds the program from a token stream produced by the lexer.
// The stream must end with an EOF token.
func Parse(ctx context.Context, toks []token.Token) (prog *ast.Program, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse", "tokens", len(toks))
	defer tr.Finish("err", &err)

	p := &parser{
		toks: toks,
		tr:   tr,
	}

	prog = &ast.Program{}

	for !p.at(token.EOF) {
		if p.match(token.Semicolon) {
			continue
		}

		st, err := p.declaration()
		if err != nil {
			return nil, err
		}

		prog.Stmts = append(prog.Stmts, st)
	}

	return prog, nil
}

func (p *parser) declaration() (ast.Stmt, error) {
	switch {
	case p.match(token.Let):
		return p.varDecl()
	case p.match(token.Fn):
		return p.funcDecl()
	default:
		return p.statement()
	}
}

func (p *parser) varDecl() (ast.Stmt, error) {
	pos := p.pos(p.prev())

	name, err := p.expect(token.Ident, "variable name")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.Assign, "'='")
	if err != nil {
		return nil, err
	}

	init, err := p.expression()
	if err != nil {
		return nil, errors.Wrap(err, "init of %v", name.Lexeme)
	}

	return &ast.VarDecl{Pos: pos, Name: name.Lexeme, Init: init}, nil
}

func (p *parser) funcDecl() (ast.Stmt, error) {
	pos := p.pos(p.prev())

	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.LParen, "'('")
	if err != nil {
		return nil, err
	}

	var params []string

	if !p.at(token.RParen) {
		for {
			param, err := p.expect(token.Ident, "parameter name")
			if err != nil {
				return nil, err
			}

			params = append(params, param.Lexeme)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	_, err = p.expect(token.RParen, "')'")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.LBrace, "'{'")
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, errors.Wrap(err, "body of %v", name.Lexeme)
	}

	return &ast.FuncDecl{Pos: pos, Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.LBrace):
		return p.block()
	default:
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		return &ast.ExprStmt{Expr: expr}, nil
	}
}

func (p *parser) returnStmt() (ast.Stmt, error) {
	pos := p.pos(p.prev())

	if p.at(token.RBrace) || p.at(token.Semicolon) || p.at(token.EOF) {
		return &ast.ReturnStmt{Pos: pos}, nil
	}

	val, err := p.expression()
	if err != nil {
		return nil, errors.Wrap(err, "return value")
	}

	return &ast.ReturnStmt{Pos: pos, Value: val}, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	pos := p.pos(p.prev())

	_, err := p.expect(token.LParen, "'(' after 'if'")
	if err != nil {
		return nil, err
	}

	cond, err := p.expression()
	if err != nil {
		return nil, errors.Wrap(err, "condition")
	}

	_, err = p.expect(token.RParen, "')' after condition")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(token.LBrace, "'{'")
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	var alt *ast.Block

	if p.match(token.Else) {
		_, err = p.expect(token.LBrace, "'{' after 'else'")
		if err != nil {
			return nil, err
		}

		alt, err = p.block()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStmt{Pos: pos, Cond: cond, Then: then, Else: alt}, nil
}

// block parses statements up to the matching '}'. The '{' is already
// consumed by the caller.
func (p *parser) block() (*ast.Block, error) {
	b := &ast.Block{Pos: p.pos(p.prev())}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.match(token.Semicolon) {
			continue
		}

		st, err := p.declaration()
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, st)
	}

	_, err := p.expect(token.RBrace, "'}'")
	if err != nil {
		return nil, err
	}

	return b, nil
}

// expression grammar, precedence low to high. All binaries are
// left-associative.

func (p *parser) expression() (ast.Expr, error) {
	return p.equality()
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.Eq, token.Neq)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, token.Lt, token.Gt, token.LtEq, token.GtEq)
}

func (p *parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.Plus, token.Minus)
}

func (p *parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, token.Star, token.Slash)
}

func (p *parser) binary(operand func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		op := p.prev()

		rhs, err := operand()
		if err != nil {
			return nil, errors.Wrap(err, "right of %v", op.Lexeme)
		}

		lhs = &ast.BinaryExpr{Pos: p.pos(op), Op: op.Lexeme, Lhs: lhs, Rhs: rhs}
	}

	return lhs, nil
}

func (p *parser) unary() (ast.Expr, error) {
	if p.match(token.Minus, token.Bang) {
		op := p.prev()

		operand, err := p.unary()
		if err != nil {
			return nil, errors.Wrap(err, "operand of %v", op.Lexeme)
		}

		return &ast.UnaryExpr{Pos: p.pos(op), Op: op.Lexeme, Operand: operand}, nil
	}

	return p.call()
}

func (p *parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.match(token.LParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}

	return expr, nil
}

func (p *parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	call := &ast.CallExpr{Pos: p.pos(p.prev()), Callee: callee}

	if !p.at(token.RParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, errors.Wrap(err, "argument %d", len(call.Args))
			}

			call.Args = append(call.Args, arg)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	_, err := p.expect(token.RParen, "')' after arguments")
	if err != nil {
		return nil, err
	}

	return call, nil
}

func (p *parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.True):
		return &ast.BoolLit{Pos: p.pos(p.prev()), Value: true}, nil
	case p.match(token.False):
		return &ast.BoolLit{Pos: p.pos(p.prev()), Value: false}, nil
	case p.match(token.Int):
		tk := p.prev()

		v, err := strconv.ParseInt(tk.Lexeme, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "int literal at %d:%d", tk.Line, tk.Column)
		}

		return &ast.IntLit{Pos: p.pos(tk), Value: v}, nil
	case p.match(token.String):
		return &ast.StringLit{Pos: p.pos(p.prev()), Value: p.prev().Lexeme}, nil
	case p.match(token.Ident):
		return &ast.Ident{Pos: p.pos(p.prev()), Name: p.prev().Lexeme}, nil
	case p.match(token.LParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(token.RParen, "')' after expression")
		if err != nil {
			return nil, err
		}

		return expr, nil
	default:
		return nil, NewUnexpected("expression", p.peek())
	}
}

func (p *parser) expect(kind token.Kind, what string) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, NewUnexpected(what, p.peek())
	}

	return p.advance(), nil
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.at(k) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *parser) advance() token.Token {
	tk := p.peek()

	if tk.Kind != token.EOF {
		p.i++
	}

	if p.tr.If("next_token") {
		p.tr.Printw("next token", "i", p.i, "tk", tk.String(), "from", loc.Caller(1))
	}

	return tk
}

func (p *parser) peek() token.Token {
	return p.toks[p.i]
}

func (p *parser) prev() token.Token {
	return p.toks[p.i-1]
}

func (p *parser) pos(tk token.Token) ast.Pos {
	return ast.Pos{Line: tk.Line, Column: tk.Column}
}

func NewUnexpected(expected string, found token.Token) error {
	return UnexpectedTokenError{
		Expected: expected,
		Found:    found,
	}
}

func (e UnexpectedTokenError) Error() string {
	return fmt.Sprintf("%d:%d: expected %v, found %v", e.Found.Line, e.Found.Column, e.Expected, e.Found)
}
