package optimizer

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/ast"
)

// Fold replaces compile-time-computable expressions with their literal
// results, bottom-up. An if statement whose folded condition is a boolean
// literal is replaced by the taken branch.
//
// Folding a division by the literal zero is a FoldError: silently keeping
// an always-failing expression would hide a broken program until runtime.
func Fold(ctx context.Context, prog *ast.Program) (_ *ast.Program, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "fold", "stmts", len(prog.Stmts))
	defer tr.Finish("err", &err)

	res := &ast.Program{Stmts: make([]ast.Stmt, 0, len(prog.Stmts))}

	for i, st := range prog.Stmts {
		st, err := foldStmt(st)
		if err != nil {
			return nil, errors.Wrap(err, "statement %d", i)
		}

		res.Stmts = append(res.Stmts, st)
	}

	return res, nil
}

func foldStmt(st ast.Stmt) (ast.Stmt, error) {
	switch st := st.(type) {
	case *ast.VarDecl:
		init, err := foldExpr(st.Init)
		if err != nil {
			return nil, err
		}

		return &ast.VarDecl{Pos: st.Pos, Name: st.Name, Init: init}, nil
	case *ast.FuncDecl:
		body, err := foldBlock(st.Body)
		if err != nil {
			return nil, err
		}

		return &ast.FuncDecl{Pos: st.Pos, Name: st.Name, Params: st.Params, Body: body}, nil
	case *ast.Block:
		return foldBlock(st)
	case *ast.ReturnStmt:
		if st.Value == nil {
			return &ast.ReturnStmt{Pos: st.Pos}, nil
		}

		val, err := foldExpr(st.Value)
		if err != nil {
			return nil, err
		}

		return &ast.ReturnStmt{Pos: st.Pos, Value: val}, nil
	case *ast.IfStmt:
		return foldIf(st)
	case *ast.ExprStmt:
		expr, err := foldExpr(st.Expr)
		if err != nil {
			return nil, err
		}

		return &ast.ExprStmt{Expr: expr}, nil
	default:
		panic(fmt.Sprintf("unhandled statement: %T", st))
	}
}

func foldBlock(b *ast.Block) (*ast.Block, error) {
	res := &ast.Block{Pos: b.Pos, Stmts: make([]ast.Stmt, 0, len(b.Stmts))}

	for _, st := range b.Stmts {
		st, err := foldStmt(st)
		if err != nil {
			return nil, err
		}

		res.Stmts = append(res.Stmts, st)
	}

	return res, nil
}

// foldIf eliminates the branch when the condition folds to a boolean
// literal. A false condition with no else leaves an empty block.
func foldIf(st *ast.IfStmt) (ast.Stmt, error) {
	cond, err := foldExpr(st.Cond)
	if err != nil {
		return nil, err
	}

	then, err := foldBlock(st.Then)
	if err != nil {
		return nil, err
	}

	var alt *ast.Block

	if st.Else != nil {
		alt, err = foldBlock(st.Else)
		if err != nil {
			return nil, err
		}
	}

	if c, ok := cond.(*ast.BoolLit); ok {
		switch {
		case c.Value:
			return then, nil
		case alt != nil:
			return alt, nil
		default:
			return &ast.Block{Pos: st.Pos}, nil
		}
	}

	return &ast.IfStmt{Pos: st.Pos, Cond: cond, Then: then, Else: alt}, nil
}

func foldExpr(e ast.Expr) (ast.Expr, error) {
	switch e := e.(type) {
	case *ast.IntLit, *ast.StringLit, *ast.BoolLit, *ast.Ident:
		return e, nil
	case *ast.UnaryExpr:
		return foldUnary(e)
	case *ast.BinaryExpr:
		return foldBinary(e)
	case *ast.CallExpr:
		callee, err := foldExpr(e.Callee)
		if err != nil {
			return nil, err
		}

		args := make([]ast.Expr, len(e.Args))

		for i, a := range e.Args {
			args[i], err = foldExpr(a)
			if err != nil {
				return nil, err
			}
		}

		return &ast.CallExpr{Pos: e.Pos, Callee: callee, Args: args}, nil
	default:
		panic(fmt.Sprintf("unhandled expression: %T", e))
	}
}

func foldUnary(e *ast.UnaryExpr) (ast.Expr, error) {
	operand, err := foldExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	switch operand := operand.(type) {
	case *ast.IntLit:
		if e.Op == "-" {
			return &ast.IntLit{Pos: e.Pos, Value: -operand.Value}, nil
		}
	case *ast.BoolLit:
		if e.Op == "!" {
			return &ast.BoolLit{Pos: e.Pos, Value: !operand.Value}, nil
		}
	}

	return &ast.UnaryExpr{Pos: e.Pos, Op: e.Op, Operand: operand}, nil
}

func foldBinary(e *ast.BinaryExpr) (ast.Expr, error) {
	lhs, err := foldExpr(e.Lhs)
	if err != nil {
		return nil, err
	}

	rhs, err := foldExpr(e.Rhs)
	if err != nil {
		return nil, err
	}

	if l, ok := lhs.(*ast.IntLit); ok {
		if r, ok := rhs.(*ast.IntLit); ok {
			return foldInts(e, l.Value, r.Value)
		}
	}

	if l, ok := lhs.(*ast.StringLit); ok {
		if r, ok := rhs.(*ast.StringLit); ok && e.Op == "+" {
			return &ast.StringLit{Pos: e.Pos, Value: l.Value + r.Value}, nil
		}
	}

	if l, ok := lhs.(*ast.BoolLit); ok {
		if r, ok := rhs.(*ast.BoolLit); ok {
			switch e.Op {
			case "==":
				return &ast.BoolLit{Pos: e.Pos, Value: l.Value == r.Value}, nil
			case "!=":
				return &ast.BoolLit{Pos: e.Pos, Value: l.Value != r.Value}, nil
			}
		}
	}

	return &ast.BinaryExpr{Pos: e.Pos, Op: e.Op, Lhs: lhs, Rhs: rhs}, nil
}

func foldInts(e *ast.BinaryExpr, l, r int64) (ast.Expr, error) {
	switch e.Op {
	case "+":
		return &ast.IntLit{Pos: e.Pos, Value: l + r}, nil
	case "-":
		return &ast.IntLit{Pos: e.Pos, Value: l - r}, nil
	case "*":
		return &ast.IntLit{Pos: e.Pos, Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, newFoldError(e.Pos, "division by zero")
		}

		return &ast.IntLit{Pos: e.Pos, Value: l / r}, nil
	case "<":
		return &ast.BoolLit{Pos: e.Pos, Value: l < r}, nil
	case ">":
		return &ast.BoolLit{Pos: e.Pos, Value: l > r}, nil
	case "<=":
		return &ast.BoolLit{Pos: e.Pos, Value: l <= r}, nil
	case ">=":
		return &ast.BoolLit{Pos: e.Pos, Value: l >= r}, nil
	case "==":
		return &ast.BoolLit{Pos: e.Pos, Value: l == r}, nil
	case "!=":
		return &ast.BoolLit{Pos: e.Pos, Value: l != r}, nil
	default:
		panic(fmt.Sprintf("unhandled operator: %v", e.Op))
	}
}
