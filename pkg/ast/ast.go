// Package ast declares the syntax tree produced by the SQL front end.
//
// Nodes are plain structs owned by their parent. The only non-owning link in
// the tree is WindowSpec.Ref, a window name resolved by consumers. Nodes carry
// no source positions so that two parses of the same text compare equal.
package ast

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// ExprNode is a marker interface for expression nodes.
type ExprNode interface {
	Node
	exprNode()
}

// StmtNode is a marker interface for statement nodes.
type StmtNode interface {
	Node
	stmtNode()
}

// ResultSetNode is implemented by nodes that produce rows: tables, joins,
// selects and set operations.
type ResultSetNode interface {
	Node
	resultSetNode()
}
