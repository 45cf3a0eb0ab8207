// Package astutil provides traversal and dump utilities for ast trees.
package astutil

import (
	"github.com/leapstack-labs/sqlfront/pkg/ast"
)

// Visitor is called for each node by Walk. If Visit returns nil the
// children of node are skipped; otherwise they are visited with the
// returned visitor.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses a tree depth-first, parents before children.
func Walk(v Visitor, node ast.Node) {
	if isNil(node) {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a tree depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
func Inspect(node ast.Node, fn func(ast.Node) bool) {
	Walk(inspector(fn), node)
}

// Children returns the direct children of node in source order. Absent
// optional parts are left out.
func Children(node ast.Node) []ast.Node {
	var out []ast.Node
	add := func(ns ...ast.Node) {
		for _, n := range ns {
			if !isNil(n) {
				out = append(out, n)
			}
		}
	}
	addExprs := func(es []ast.ExprNode) {
		for _, e := range es {
			add(e)
		}
	}
	addItems := func(items []*ast.ByItem) {
		for _, it := range items {
			add(it)
		}
	}

	switch n := node.(type) {
	// ---------- Statements ----------
	case *ast.SelectStmt:
		add(n.With)
		if n.SelectStmtOpts != nil {
			for _, h := range n.TableHints {
				add(h)
			}
		}
		add(n.Fields, n.From, n.Where, n.GroupBy, n.Having)
		for i := range n.WindowSpecs {
			add(&n.WindowSpecs[i])
		}
		add(n.OrderBy, n.Limit)
	case *ast.SetOprStmt:
		add(n.With, n.SelectList, n.OrderBy, n.Limit)
	case *ast.SetOprSelectList:
		add(n.With)
		add(n.Selects...)
		add(n.OrderBy, n.Limit)
	case *ast.WithClause:
		for _, cte := range n.CTEs {
			add(cte)
		}
	case *ast.CommonTableExpression:
		add(n.Query)
	case *ast.FieldList:
		for _, f := range n.Fields {
			add(f)
		}
	case *ast.SelectField:
		add(n.Expr)
	case *ast.ByItem:
		add(n.Expr)
	case *ast.GroupByClause:
		addItems(n.Items)
	case *ast.HavingClause:
		add(n.Expr)
	case *ast.OrderByClause:
		addItems(n.Items)
	case *ast.Limit:
		add(n.Count, n.Offset)

	// ---------- Tables ----------
	case *ast.TableRefsClause:
		add(n.TableRefs)
	case *ast.Join:
		add(n.Left, n.Right, n.On)
		for _, c := range n.Using {
			add(c)
		}
	case *ast.TableSource:
		add(n.Source)
	case *ast.OnCondition:
		add(n.Expr)

	// ---------- Windows ----------
	case *ast.WindowSpec:
		add(n.PartitionBy, n.OrderBy, n.Frame)
	case *ast.PartitionByClause:
		addItems(n.Items)
	case *ast.FrameClause:
		add(n.Extent.Start.Expr, n.Extent.End.Expr)

	// ---------- Expressions ----------
	case *ast.ColumnNameExpr:
		add(n.Name)
	case *ast.VariableExpr:
		add(n.Value)
	case *ast.BinaryOperationExpr:
		add(n.L, n.R)
	case *ast.UnaryOperationExpr:
		add(n.V)
	case *ast.ParenthesesExpr:
		add(n.Expr)
	case *ast.RowExpr:
		addExprs(n.Values)
	case *ast.SetCollationExpr:
		add(n.Expr)
	case *ast.IntervalExpr:
		add(n.Value)
	case *ast.IsNullExpr:
		add(n.Expr)
	case *ast.IsTruthExpr:
		add(n.Expr)
	case *ast.BetweenExpr:
		add(n.Expr, n.Left, n.Right)
	case *ast.PatternInExpr:
		add(n.Expr)
		addExprs(n.List)
		add(n.Sel)
	case *ast.PatternLikeExpr:
		add(n.Expr, n.Pattern, n.Escape)
	case *ast.PatternRegexpExpr:
		add(n.Expr, n.Pattern)
	case *ast.SubqueryExpr:
		add(n.Query)
	case *ast.ExistsSubqueryExpr:
		add(n.Sel)
	case *ast.CompareSubqueryExpr:
		add(n.L, n.R)
	case *ast.FuncCallExpr:
		addExprs(n.Args)
	case *ast.AggregateFuncExpr:
		addExprs(n.Args)
		add(n.Order)
	case *ast.WindowFuncExpr:
		addExprs(n.Args)
		add(&n.Spec)
	case *ast.FuncCastExpr:
		add(n.Expr)
	case *ast.CaseExpr:
		add(n.Value)
		for _, w := range n.WhenClauses {
			add(w)
		}
		add(n.ElseClause)
	case *ast.WhenClause:
		add(n.Expr, n.Result)
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n ast.Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *ast.SelectStmt:
		return v == nil
	case *ast.SetOprStmt:
		return v == nil
	case *ast.SetOprSelectList:
		return v == nil
	case *ast.WithClause:
		return v == nil
	case *ast.CommonTableExpression:
		return v == nil
	case *ast.FieldList:
		return v == nil
	case *ast.SelectField:
		return v == nil
	case *ast.ByItem:
		return v == nil
	case *ast.GroupByClause:
		return v == nil
	case *ast.HavingClause:
		return v == nil
	case *ast.OrderByClause:
		return v == nil
	case *ast.Limit:
		return v == nil
	case *ast.TableOptimizerHint:
		return v == nil
	case *ast.TableRefsClause:
		return v == nil
	case *ast.Join:
		return v == nil
	case *ast.TableSource:
		return v == nil
	case *ast.TableName:
		return v == nil
	case *ast.OnCondition:
		return v == nil
	case *ast.ColumnName:
		return v == nil
	case *ast.WindowSpec:
		return v == nil
	case *ast.PartitionByClause:
		return v == nil
	case *ast.FrameClause:
		return v == nil
	case *ast.SubqueryExpr:
		return v == nil
	case *ast.WhenClause:
		return v == nil
	}
	return false
}

// Tables returns every table name referenced in FROM clauses under node,
// in source order.
func Tables(node ast.Node) []*ast.TableName {
	var out []*ast.TableName
	Inspect(node, func(n ast.Node) bool {
		if t, ok := n.(*ast.TableName); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Columns returns every column reference under node, in source order.
// USING lists are included.
func Columns(node ast.Node) []*ast.ColumnName {
	var out []*ast.ColumnName
	Inspect(node, func(n ast.Node) bool {
		if c, ok := n.(*ast.ColumnName); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}
