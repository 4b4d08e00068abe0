// Package ast defines the Abstract Syntax Tree node types the code
// generator consumes. The tree is produced upstream (a parser is out
// of scope for this module) and is treated as immutable: nothing in
// this module ever mutates a node after construction.
package ast

// Position locates a node in its source file for diagnostics.
type Position struct {
	Line   int
	Column int
}

// Node is the base interface implemented by every AST node.
type Node interface {
	// Pos returns the node's position in the source file, for
	// diagnostics raised by the generator.
	Pos() Position
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action without producing a value.
type Stmt interface {
	Node
	stmtNode()
}

// TypeDecl is any top-level or nested type declaration.
type TypeDecl interface {
	Node
	typeDeclNode()
}

// ClassBodyDecl is any member that may appear in a class or enum body.
type ClassBodyDecl interface {
	Node
	classBodyDeclNode()
}

// InterfaceBodyDecl is any member that may appear in an interface body.
type InterfaceBodyDecl interface {
	Node
	interfaceBodyDeclNode()
}

// basePos is embedded by concrete node structs to supply Pos().
type basePos struct {
	Position Position
}

func (b basePos) Pos() Position { return b.Position }
