package optimizer

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/ast"
)

// EliminateDead drops top-level declarations whose names are never
// referenced. Two phases: collect every name referenced anywhere in the
// program, then rebuild the top level without the unreferenced
// declarations.
//
// The pass is conservative and non-iterative. References inside a
// declaration that is itself removed still count, so a chain of
// declarations used only by each other survives. Declarations that could
// run an observable effect are never removed: a variable whose initializer
// contains any call, and a function whose body calls the print builtin.
// Unused bindings nested inside blocks are left alone.
func EliminateDead(ctx context.Context, prog *ast.Program) *ast.Program {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "eliminate dead code", "stmts", len(prog.Stmts))
	defer tr.Finish()

	refs := make(map[string]struct{})

	for _, st := range prog.Stmts {
		collectStmt(refs, st)
	}

	res := &ast.Program{Stmts: make([]ast.Stmt, 0, len(prog.Stmts))}

	for _, st := range prog.Stmts {
		if name, ok := dead(refs, st); ok {
			tr.V("dead_code").Printw("drop declaration", "name", name)
			continue
		}

		res.Stmts = append(res.Stmts, st)
	}

	return res
}

func dead(refs map[string]struct{}, st ast.Stmt) (string, bool) {
	switch st := st.(type) {
	case *ast.VarDecl:
		if _, ok := refs[st.Name]; ok {
			return "", false
		}

		// the initializer runs at the declaration, any call in it may
		// reach an observable effect
		if containsCall(st.Init) {
			return "", false
		}

		return st.Name, true
	case *ast.FuncDecl:
		if _, ok := refs[st.Name]; ok {
			return "", false
		}

		if callsPrint(st.Body) {
			return "", false
		}

		return st.Name, true
	default:
		return "", false
	}
}

func collectStmt(refs map[string]struct{}, st ast.Stmt) {
	switch st := st.(type) {
	case *ast.VarDecl:
		collectExpr(refs, st.Init)
	case *ast.FuncDecl:
		collectBlock(refs, st.Body)
	case *ast.Block:
		collectBlock(refs, st)
	case *ast.ReturnStmt:
		if st.Value != nil {
			collectExpr(refs, st.Value)
		}
	case *ast.IfStmt:
		collectExpr(refs, st.Cond)
		collectBlock(refs, st.Then)

		if st.Else != nil {
			collectBlock(refs, st.Else)
		}
	case *ast.ExprStmt:
		collectExpr(refs, st.Expr)
	default:
		panic(fmt.Sprintf("unhandled statement: %T", st))
	}
}

func collectBlock(refs map[string]struct{}, b *ast.Block) {
	for _, st := range b.Stmts {
		collectStmt(refs, st)
	}
}

func collectExpr(refs map[string]struct{}, e ast.Expr) {
	switch e := e.(type) {
	case *ast.IntLit, *ast.StringLit, *ast.BoolLit:
	case *ast.Ident:
		refs[e.Name] = struct{}{}
	case *ast.UnaryExpr:
		collectExpr(refs, e.Operand)
	case *ast.BinaryExpr:
		collectExpr(refs, e.Lhs)
		collectExpr(refs, e.Rhs)
	case *ast.CallExpr:
		collectExpr(refs, e.Callee)

		for _, a := range e.Args {
			collectExpr(refs, a)
		}
	default:
		panic(fmt.Sprintf("unhandled expression: %T", e))
	}
}

func containsCall(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntLit, *ast.StringLit, *ast.BoolLit, *ast.Ident:
		return false
	case *ast.UnaryExpr:
		return containsCall(e.Operand)
	case *ast.BinaryExpr:
		return containsCall(e.Lhs) || containsCall(e.Rhs)
	case *ast.CallExpr:
		return true
	default:
		panic(fmt.Sprintf("unhandled expression: %T", e))
	}
}

func callsPrint(b *ast.Block) bool {
	for _, st := range b.Stmts {
		if stmtCallsPrint(st) {
			return true
		}
	}

	return false
}

func stmtCallsPrint(st ast.Stmt) bool {
	switch st := st.(type) {
	case *ast.VarDecl:
		return exprCallsPrint(st.Init)
	case *ast.FuncDecl:
		return callsPrint(st.Body)
	case *ast.Block:
		return callsPrint(st)
	case *ast.ReturnStmt:
		return st.Value != nil && exprCallsPrint(st.Value)
	case *ast.IfStmt:
		if exprCallsPrint(st.Cond) || callsPrint(st.Then) {
			return true
		}

		return st.Else != nil && callsPrint(st.Else)
	case *ast.ExprStmt:
		return exprCallsPrint(st.Expr)
	default:
		panic(fmt.Sprintf("unhandled statement: %T", st))
	}
}

func exprCallsPrint(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntLit, *ast.StringLit, *ast.BoolLit, *ast.Ident:
		return false
	case *ast.UnaryExpr:
		return exprCallsPrint(e.Operand)
	case *ast.BinaryExpr:
		return exprCallsPrint(e.Lhs) || exprCallsPrint(e.Rhs)
	case *ast.CallExpr:
		if id, ok := e.Callee.(*ast.Ident); ok && id.Name == ast.BuiltinPrint {
			return true
		}

		if exprCallsPrint(e.Callee) {
			return true
		}

		for _, a := range e.Args {
			if exprCallsPrint(a) {
				return true
			}
		}

		return false
	default:
		panic(fmt.Sprintf("unhandled expression: %T", e))
	}
}
