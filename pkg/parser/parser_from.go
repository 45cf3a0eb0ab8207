package parser

import (
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// FROM clause.
//
// Grammar:
//
//	table_refs   → table_ref ("," table_ref)*
//	table_ref    → table_factor join*
//	join         → [INNER | CROSS] JOIN table_factor [join_cond]
//	             | STRAIGHT_JOIN table_factor [ON expr]
//	             | (LEFT | RIGHT) [OUTER] JOIN table_factor join_cond
//	             | NATURAL [(LEFT | RIGHT) [OUTER]] JOIN table_factor
//	join_cond    → ON expr | USING "(" ident ("," ident)* ")"
//	table_factor → table_name [[AS] alias]
//	             | "(" query ")" [AS] alias
//	             | "(" table_refs ")"

func tableRefs(in comb.Input) (comb.Input, *ast.TableRefsClause, error) {
	rest, refs, err := comb.CommaList1(tableRef)(in)
	if err != nil {
		return in, nil, err
	}
	var acc ast.ResultSetNode = refs[0]
	for _, r := range refs[1:] {
		acc = &ast.Join{Left: acc, Right: r, Tp: ast.CrossJoin}
	}
	j, ok := acc.(*ast.Join)
	if !ok {
		j = &ast.Join{Left: acc}
	}
	return rest, &ast.TableRefsClause{TableRefs: j}, nil
}

// tableRef parses a table factor and the joins chained onto it, folding
// them to the left.
func tableRef(in comb.Input) (comb.Input, ast.ResultSetNode, error) {
	cur, left, err := tableFactor(in)
	if err != nil {
		return in, nil, err
	}
	for {
		next, j, err := joinTail(cur, left)
		if err != nil {
			if comb.IsFatal(err) {
				return in, nil, err
			}
			if comb.AsError(cur, err).Pos > cur.Pos() {
				return in, nil, err
			}
			return cur, left, nil
		}
		left, cur = j, next
	}
}

func joinTail(in comb.Input, left ast.ResultSetNode) (comb.Input, *ast.Join, error) {
	j := &ast.Join{Left: left, Tp: ast.CrossJoin}
	cur := in
	condRequired := false

	switch in.Peek().Kind {
	case token.JOIN:
		cur = cur.Advance()
	case token.INNER, token.CROSS:
		cur = cur.Advance()
		next, _, err := comb.Token(token.JOIN)(cur)
		if err != nil {
			return in, nil, err
		}
		cur = next
	case token.STRAIGHT_JOIN:
		j.StraightJoin = true
		cur = cur.Advance()
	case token.LEFT, token.RIGHT:
		j.Tp = ast.LeftJoin
		if in.Peek().Kind == token.RIGHT {
			j.Tp = ast.RightJoin
		}
		condRequired = true
		cur = cur.Advance()
		if cur.Peek().Kind == token.OUTER {
			cur = cur.Advance()
		}
		next, _, err := comb.Token(token.JOIN)(cur)
		if err != nil {
			return in, nil, err
		}
		cur = next
	case token.NATURAL:
		j.NaturalJoin = true
		cur = cur.Advance()
		switch cur.Peek().Kind {
		case token.LEFT:
			j.Tp = ast.LeftJoin
			cur = cur.Advance()
		case token.RIGHT:
			j.Tp = ast.RightJoin
			cur = cur.Advance()
		}
		if j.Tp != ast.CrossJoin && cur.Peek().Kind == token.OUTER {
			cur = cur.Advance()
		}
		next, _, err := comb.Token(token.JOIN)(cur)
		if err != nil {
			return in, nil, err
		}
		cur = next
	default:
		return in, nil, comb.Fail(in, "JOIN")
	}

	cur, right, err := tableFactor(cur)
	if err != nil {
		return in, nil, err
	}
	j.Right = right
	if j.NaturalJoin {
		return cur, j, nil
	}

	switch cur.Peek().Kind {
	case token.ON:
		var on ast.ExprNode
		cur, on, err = Expr(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		j.On = &ast.OnCondition{Expr: on}
	case token.USING:
		if j.StraightJoin {
			return in, nil, comb.Fail(cur, token.ON.Describe())
		}
		var cols []string
		cur, cols, err = comb.Parens(comb.CommaList1(ident))(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		for _, c := range cols {
			j.Using = append(j.Using, &ast.ColumnName{Name: c})
		}
	default:
		if condRequired {
			return in, nil, comb.Fail(cur, token.ON.Describe(), token.USING.Describe())
		}
	}
	return cur, j, nil
}

func tableFactor(in comb.Input) (comb.Input, ast.ResultSetNode, error) {
	if in.Peek().Kind == token.LPAREN {
		return parenTableFactor(in)
	}
	cur, name, err := TableName(in)
	if err != nil {
		return in, nil, err
	}
	rest, as, err := comb.Opt(alias)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.TableSource{Source: name, AsName: as}, nil
}

// parenTableFactor parses a derived table or a parenthesised join.
func parenTableFactor(in comb.Input) (comb.Input, ast.ResultSetNode, error) {
	cp := in.Backtrace.Checkpoint()
	if cur, q, err := comb.Parens(Query)(in); err == nil {
		rest, as, err := comb.Opt(alias)(cur)
		if err != nil {
			return in, nil, err
		}
		return rest, &ast.TableSource{Source: q, AsName: as}, nil
	} else if comb.IsFatal(err) {
		return in, nil, err
	} else if in.Peek().Kind == token.LPAREN && in.PeekAt(1).Kind == token.SELECT {
		return in, nil, err
	}
	in.Backtrace.Restore(cp)

	rest, refs, err := comb.Parens(tableRefs)(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.TableSource{Source: refs.TableRefs}, nil
}
