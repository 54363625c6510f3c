package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foolang/foo/compiler/ast"
	"github.com/foolang/foo/compiler/lexer"
	"github.com/foolang/foo/compiler/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()

	ctx := context.Background()

	toks, err := lexer.Tokenize(ctx, []byte(src))
	require.NoError(t, err)

	prog, err := parser.Parse(ctx, toks)
	require.NoError(t, err)

	return prog
}

func fold(t *testing.T, src string) *ast.Program {
	t.Helper()

	prog, err := Fold(context.Background(), parse(t, src))
	require.NoError(t, err)

	return prog
}

func expr(t *testing.T, prog *ast.Program) ast.Expr {
	t.Helper()

	require.NotEmpty(t, prog.Stmts)

	st, ok := prog.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)

	return st.Expr
}

func TestFoldArithmetic(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want int64
	}{
		{"1 + 2", 3},
		{"10 - 3", 7},
		{"4 * 5", 20},
		{"15 / 3", 5},
		{"7 / 2", 3},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"-3 + 10", 7},
		{"2 * 3 + 4 * 5", 26},
	} {
		lit, ok := expr(t, fold(t, tc.src)).(*ast.IntLit)
		require.True(t, ok, "%v did not fold to a literal", tc.src)
		assert.Equal(t, tc.want, lit.Value, "folding %v", tc.src)
	}
}

func TestFoldComparisons(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 < 1", false},
		{"2 > 1", true},
		{"1 <= 1", true},
		{"2 <= 1", false},
		{"1 >= 2", false},
		{"3 == 3", true},
		{"3 != 3", false},
		{"1 + 1 == 2", true},
		{"true == false", false},
		{"true != false", true},
	} {
		lit, ok := expr(t, fold(t, tc.src)).(*ast.BoolLit)
		require.True(t, ok, "%v did not fold to a bool", tc.src)
		assert.Equal(t, tc.want, lit.Value, "folding %v", tc.src)
	}
}

func TestFoldUnary(t *testing.T) {
	neg, ok := expr(t, fold(t, `-(2 + 3)`)).(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(-5), neg.Value)

	not, ok := expr(t, fold(t, `!(1 < 2)`)).(*ast.BoolLit)
	require.True(t, ok)
	assert.False(t, not.Value)
}

func TestFoldStringConcat(t *testing.T) {
	lit, ok := expr(t, fold(t, `"hello" + " " + "world"`)).(*ast.StringLit)
	require.True(t, ok)
	assert.Equal(t, "hello world", lit.Value)
}

func TestFoldLeavesNonLiteralsAlone(t *testing.T) {
	// identifiers and calls do not fold, recursion continues into children
	bin, ok := expr(t, fold(t, `x + (1 + 2)`)).(*ast.BinaryExpr)
	require.True(t, ok)

	assert.IsType(t, &ast.Ident{}, bin.Lhs)

	lit, ok := bin.Rhs.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(3), lit.Value)

	call, ok := expr(t, fold(t, `f(1 + 2)`)).(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, int64(3), call.Args[0].(*ast.IntLit).Value)
}

func TestFoldInsideDeclarations(t *testing.T) {
	prog := fold(t, "let x = 1 + 2 * 3\nfn f(a) { return a + (2 - 1) }")

	decl := prog.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, int64(7), decl.Init.(*ast.IntLit).Value)

	ret := prog.Stmts[1].(*ast.FuncDecl).Body.Stmts[0].(*ast.ReturnStmt)
	add := ret.Value.(*ast.BinaryExpr)
	assert.Equal(t, int64(1), add.Rhs.(*ast.IntLit).Value)
}

func TestFoldDivisionByLiteralZero(t *testing.T) {
	_, err := Fold(context.Background(), parse(t, "let z = 10 / 0"))
	require.Error(t, err)

	var fe FoldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Line)
	assert.Equal(t, 12, fe.Column)
	assert.Contains(t, fe.Msg, "division by zero")
}

func TestFoldDivisionByNonLiteralZero(t *testing.T) {
	// only the literal zero is a fold-time error
	prog := fold(t, "10 / x")

	_, ok := expr(t, prog).(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestFoldConstantCondition(t *testing.T) {
	prog := fold(t, `if (1 < 2) { print(1) } else { print(2) }`)

	blk, ok := prog.Stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, blk.Stmts, 1)

	prog = fold(t, `if (false) { print(1) }`)

	blk, ok = prog.Stmts[0].(*ast.Block)
	require.True(t, ok)
	assert.Empty(t, blk.Stmts)
}

func TestFoldIdempotent(t *testing.T) {
	ctx := context.Background()

	once, err := Fold(ctx, parse(t, "let x = 1 + 2 * 3\nprint(x + y)\nif (a < b) { return }"))
	require.NoError(t, err)

	twice, err := Fold(ctx, once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestEliminateUnusedVar(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "let unused = 5\nprint(1)"))

	require.Len(t, prog.Stmts, 1)
	assert.IsType(t, &ast.ExprStmt{}, prog.Stmts[0])
}

func TestKeepReferencedVar(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "let x = 5\nprint(x)"))

	assert.Len(t, prog.Stmts, 2)
}

func TestEliminateUnusedFunc(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "fn unused(a) { return a }\nprint(1)"))

	require.Len(t, prog.Stmts, 1)
	assert.IsType(t, &ast.ExprStmt{}, prog.Stmts[0])
}

func TestKeepCalledFunc(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "fn add(a, b) { return a + b }\nprint(add(1, 2))"))

	assert.Len(t, prog.Stmts, 2)
}

func TestKeepVarWithCallInInit(t *testing.T) {
	// the initializer runs at top level, the call may have effects
	prog := EliminateDead(context.Background(), parse(t, "fn f() { return 1 }\nlet unused = f()\nprint(1)"))

	assert.Len(t, prog.Stmts, 3)
}

func TestKeepFuncThatPrints(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "fn log(x) { print(x) }\nprint(1)"))

	assert.Len(t, prog.Stmts, 2)
}

func TestKeepFuncWithNestedPrint(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "fn log(x) { if (x > 0) { print(x) } }\nprint(1)"))

	assert.Len(t, prog.Stmts, 2)
}

func TestTransitiveDeadChainIsKept(t *testing.T) {
	// non-iterative: g references f, so removing g leaves f referenced
	// and retained
	prog := EliminateDead(context.Background(), parse(t, "fn f() { return 1 }\nfn g() { return f() }\nprint(1)"))

	require.Len(t, prog.Stmts, 2)

	fn, ok := prog.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
}

func TestNestedLetIsNotEliminated(t *testing.T) {
	prog := EliminateDead(context.Background(), parse(t, "fn f() { let local = 1\nreturn 2 }\nprint(f())"))

	fn := prog.Stmts[0].(*ast.FuncDecl)
	assert.Len(t, fn.Body.Stmts, 2)
}

func TestOptimizeRunsFoldingBeforeDeadCode(t *testing.T) {
	// x is referenced only by a foldable dead branch; after folding the
	// branch away the reference survives or not depending on order — here
	// the reference sits in the surviving branch, so x stays
	prog, err := Optimize(context.Background(), parse(t, "let x = 1\nif (true) { print(x) } else { print(0) }"), All())
	require.NoError(t, err)

	require.Len(t, prog.Stmts, 2)
}

func TestOptimizeTogglesPasses(t *testing.T) {
	ctx := context.Background()
	src := "let unused = 5\nprint(1 + 2)"

	prog, err := Optimize(ctx, parse(t, src), Options{Folding: true})
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)
	assert.Equal(t, int64(3), prog.Stmts[1].(*ast.ExprStmt).Expr.(*ast.CallExpr).Args[0].(*ast.IntLit).Value)

	prog, err = Optimize(ctx, parse(t, src), Options{DeadCode: true})
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	assert.IsType(t, &ast.BinaryExpr{}, prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr).Args[0])
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	src := "let x = 1 + 2\nprint(x)"

	before := parse(t, src)

	_, err := Optimize(context.Background(), before, All())
	require.NoError(t, err)

	assert.Equal(t, parse(t, src), before)
}
