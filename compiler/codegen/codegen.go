// Package codegen renders a program as JavaScript source text.
//
// Rendering is a pure structural walk with no failure path: an AST that
// reached this stage is well-formed by construction, anything else is a
// pipeline bug and panics. Identical trees render byte-identical output.
package codegen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/tlog"

	"github.com/foolang/foo/compiler/ast"
)

const indent = "  "

// the target's console output call
const printTarget = "console.log"

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
)

// Generate renders the program. Output statements terminate with ';',
// blocks nest by two spaces, and every binary and unary sub-expression is
// parenthesized so operator order survives the target syntax verbatim.
func Generate(ctx context.Context, prog *ast.Program) []byte {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "generate", "stmts", len(prog.Stmts))
	defer tr.Finish()

	var b []byte

	for _, st := range prog.Stmts {
		b = genStmt(b, st, 0)
	}

	return b
}

func genStmt(b []byte, st ast.Stmt, depth int) []byte {
	switch st := st.(type) {
	case *ast.VarDecl:
		b = fmt.Appendf(b, "%slet %s = ", pad(depth), st.Name)
		b = genExpr(b, st.Init)
		b = append(b, ";\n"...)
	case *ast.FuncDecl:
		b = fmt.Appendf(b, "%sfunction %s(%s) {\n", pad(depth), st.Name, strings.Join(st.Params, ", "))
		b = genBlock(b, st.Body, depth+1)
		b = fmt.Appendf(b, "%s}\n", pad(depth))
	case *ast.Block:
		// a bare block introduces no construct in the output, its
		// statements render at the current depth
		b = genBlock(b, st, depth)
	case *ast.ReturnStmt:
		b = fmt.Appendf(b, "%sreturn", pad(depth))

		if st.Value != nil {
			b = append(b, ' ')
			b = genExpr(b, st.Value)
		}

		b = append(b, ";\n"...)
	case *ast.IfStmt:
		b = fmt.Appendf(b, "%sif (", pad(depth))
		b = genExpr(b, st.Cond)
		b = append(b, ") {\n"...)
		b = genBlock(b, st.Then, depth+1)
		b = fmt.Appendf(b, "%s}", pad(depth))

		if st.Else != nil {
			b = append(b, " else {\n"...)
			b = genBlock(b, st.Else, depth+1)
			b = fmt.Appendf(b, "%s}", pad(depth))
		}

		b = append(b, '\n')
	case *ast.ExprStmt:
		b = append(b, pad(depth)...)
		b = genExpr(b, st.Expr)
		b = append(b, ";\n"...)
	default:
		panic(fmt.Sprintf("unhandled statement: %T", st))
	}

	return b
}

func genBlock(b []byte, blk *ast.Block, depth int) []byte {
	for _, st := range blk.Stmts {
		b = genStmt(b, st, depth)
	}

	return b
}

func genExpr(b []byte, e ast.Expr) []byte {
	switch e := e.(type) {
	case *ast.IntLit:
		b = strconv.AppendInt(b, e.Value, 10)
	case *ast.StringLit:
		b = append(b, '"')
		b = append(b, stringEscaper.Replace(e.Value)...)
		b = append(b, '"')
	case *ast.BoolLit:
		b = strconv.AppendBool(b, e.Value)
	case *ast.Ident:
		b = append(b, e.Name...)
	case *ast.UnaryExpr:
		b = append(b, '(')
		b = append(b, e.Op...)
		b = genExpr(b, e.Operand)
		b = append(b, ')')
	case *ast.BinaryExpr:
		b = append(b, '(')
		b = genExpr(b, e.Lhs)
		b = fmt.Appendf(b, " %s ", e.Op)
		b = genExpr(b, e.Rhs)
		b = append(b, ')')
	case *ast.CallExpr:
		b = genCallee(b, e.Callee)
		b = append(b, '(')

		for i, a := range e.Args {
			if i > 0 {
				b = append(b, ", "...)
			}

			b = genExpr(b, a)
		}

		b = append(b, ')')
	default:
		panic(fmt.Sprintf("unhandled expression: %T", e))
	}

	return b
}

func genCallee(b []byte, e ast.Expr) []byte {
	if id, ok := e.(*ast.Ident); ok && id.Name == ast.BuiltinPrint {
		return append(b, printTarget...)
	}

	return genExpr(b, e)
}

func pad(depth int) string {
	return strings.Repeat(indent, depth)
}
