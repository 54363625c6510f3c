// Package ast defines the node variants shared by the parser, the
// optimizer and the code generator.
//
// The set is closed: the downstream stages switch exhaustively over it and
// panic on anything else, so adding a variant is a compile-and-test-checked
// obligation everywhere it must be handled.
package ast

// BuiltinPrint is the console output builtin. It is an ordinary identifier
// up to code generation, which maps calls to it onto the target's console
// output call.
const BuiltinPrint = "print"

type (
	Node interface {
		node()
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	// Pos is a 1-based source position, embedded where diagnostics need it.
	Pos struct {
		Line   int
		Column int
	}

	// Program is the unique root. Each node is owned exactly once by its
	// parent; passes rebuild subtrees instead of mutating them.
	Program struct {
		Stmts []Stmt
	}

	VarDecl struct {
		Pos

		Name string
		Init Expr
	}

	FuncDecl struct {
		Pos

		Name   string
		Params []string
		Body   *Block
	}

	Block struct {
		Pos

		Stmts []Stmt
	}

	ReturnStmt struct {
		Pos

		Value Expr // nil for a bare return
	}

	IfStmt struct {
		Pos

		Cond Expr
		Then *Block
		Else *Block // nil when absent
	}

	ExprStmt struct {
		Expr Expr
	}

	IntLit struct {
		Pos

		Value int64
	}

	StringLit struct {
		Pos

		Value string
	}

	BoolLit struct {
		Pos

		Value bool
	}

	Ident struct {
		Pos

		Name string
	}

	UnaryExpr struct {
		Pos

		Op      string
		Operand Expr
	}

	BinaryExpr struct {
		Pos // position of the operator

		Op  string
		Lhs Expr
		Rhs Expr
	}

	CallExpr struct {
		Pos

		Callee Expr
		Args   []Expr
	}
)

func (*Program) node() {}

func (*VarDecl) node()    {}
func (*FuncDecl) node()   {}
func (*Block) node()      {}
func (*ReturnStmt) node() {}
func (*IfStmt) node()     {}
func (*ExprStmt) node()   {}

func (*VarDecl) stmt()    {}
func (*FuncDecl) stmt()   {}
func (*Block) stmt()      {}
func (*ReturnStmt) stmt() {}
func (*IfStmt) stmt()     {}
func (*ExprStmt) stmt()   {}

func (*IntLit) node()     {}
func (*StringLit) node()  {}
func (*BoolLit) node()    {}
func (*Ident) node()      {}
func (*UnaryExpr) node()  {}
func (*BinaryExpr) node() {}
func (*CallExpr) node()   {}

func (*IntLit) expr()     {}
func (*StringLit) expr()  {}
func (*BoolLit) expr()    {}
func (*Ident) expr()      {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}
