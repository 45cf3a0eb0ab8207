package parser

import (
	"errors"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Queries.
//
// Grammar:
//
//	statements   → statement_body (";" statement_body)* [";"] EOI
//	statement    → statement_body [";"] EOI
//	query        → [with_clause] set_expr
//	with_clause  → WITH [RECURSIVE] cte ("," cte)*
//	cte          → ident ["(" ident ("," ident)* ")"] AS "(" query ")"
//	set_expr     → set_operand (set_op set_operand)* [order_by] [limit]
//	set_op       → (UNION | EXCEPT | INTERSECT) [ALL | DISTINCT]
//	set_operand  → select | "(" query ")"
//	select       → SELECT select_opt* field ("," field)*
//	               [FROM (DUAL | table_refs)] [WHERE expr]
//	               [GROUP BY by_item ("," by_item)* [WITH ROLLUP]] [HAVING expr]
//	               [window_clause] [order_by] [limit]
//	select_opt   → hint | ALL | DISTINCT | DISTINCTROW | HIGH_PRIORITY | LOW_PRIORITY
//	             | DELAYED | STRAIGHT_JOIN | SQL_SMALL_RESULT | SQL_BIG_RESULT
//	             | SQL_BUFFER_RESULT | SQL_CACHE | SQL_NO_CACHE | SQL_CALC_FOUND_ROWS
//	hint         → HINT_PREFIX token* HINT_SUFFIX
//	field        → "*" | ident "." ["ident" "."] "*" | expr [[AS] alias]
//	alias        → ident | string
//	order_by     → ORDER BY by_item ("," by_item)*
//	by_item      → expr [ASC | DESC]
//	limit        → LIMIT limit_val [("," | OFFSET) limit_val]
//	limit_val    → INT_LITERAL | "?"

// Statement parses exactly one statement followed by an optional semicolon
// and the end of input.
func Statement(in comb.Input) (comb.Input, ast.StmtNode, error) {
	cur, stmt, err := statementBody(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Opt(comb.Token(token.SEMICOLON))(cur)
	if err != nil {
		return in, nil, err
	}
	rest, _, err := comb.Peek(comb.EOI())(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, stmt, nil
}

// Statements parses a semicolon-separated script. Empty statements between
// semicolons are skipped.
func Statements(in comb.Input) (comb.Input, []ast.StmtNode, error) {
	cur, first, err := statementBody(in)
	if err != nil {
		return in, nil, err
	}
	stmts := []ast.StmtNode{first}
	for cur.Peek().Kind == token.SEMICOLON {
		for cur.Peek().Kind == token.SEMICOLON {
			cur = cur.Advance()
		}
		if cur.AtEOI() {
			break
		}
		var stmt ast.StmtNode
		cur, stmt, err = statementBody(cur)
		if err != nil {
			return in, nil, err
		}
		stmts = append(stmts, stmt)
	}
	rest, _, err := comb.Peek(comb.EOI())(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, stmts, nil
}

func statementBody(in comb.Input) (comb.Input, ast.StmtNode, error) {
	rest, q, err := Query(in)
	if err != nil {
		return in, nil, err
	}
	return rest, q.(ast.StmtNode), nil
}

// Query parses a SELECT, a set operation or a parenthesised query, each with
// an optional WITH clause. The result is a *ast.SelectStmt or a
// *ast.SetOprStmt.
func Query(in comb.Input) (comb.Input, ast.ResultSetNode, error) {
	cur, with, err := comb.Opt(withClause)(in)
	if err != nil {
		return in, nil, err
	}
	rest, q, err := setExpr(cur)
	if err != nil {
		return in, nil, err
	}
	if with != nil {
		switch q := q.(type) {
		case *ast.SelectStmt:
			if q.With != nil {
				return in, nil, comb.Fail(cur, "SELECT")
			}
			q.With = with
		case *ast.SetOprStmt:
			q.With = with
		}
	}
	return rest, q, nil
}

func withClause(in comb.Input) (comb.Input, *ast.WithClause, error) {
	cur, _, err := comb.Token(token.WITH)(in)
	if err != nil {
		return in, nil, err
	}
	cur, recursive, err := comb.Present(comb.Token(token.RECURSIVE))(cur)
	if err != nil {
		return in, nil, err
	}
	rest, ctes, err := comb.CommaList1(comb.Context[*ast.CommonTableExpression]("common table expression", cte))(cur)
	if err != nil {
		return in, nil, err
	}
	for _, c := range ctes {
		c.IsRecursive = recursive
	}
	return rest, &ast.WithClause{IsRecursive: recursive, CTEs: ctes}, nil
}

func cte(in comb.Input) (comb.Input, *ast.CommonTableExpression, error) {
	cur, name, err := ident(in)
	if err != nil {
		return in, nil, err
	}
	var cols []string
	if cur.Peek().Kind == token.LPAREN {
		cur, cols, err = comb.Parens(comb.CommaList1(ident))(cur)
		if err != nil {
			return in, nil, err
		}
	}
	cur, _, err = comb.Token(token.AS)(cur)
	if err != nil {
		return in, nil, err
	}
	rest, sub, err := subquery(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.CommonTableExpression{Name: name, ColNameList: cols, Query: sub}, nil
}

// ---------- Set operations ----------

var setOperators = map[token.TokenType][2]ast.SetOprType{
	token.UNION:     {ast.Union, ast.UnionAll},
	token.EXCEPT:    {ast.Except, ast.ExceptAll},
	token.INTERSECT: {ast.Intersect, ast.IntersectAll},
}

func setOperator(in comb.Input) (comb.Input, ast.SetOprType, error) {
	cur, tok, err := comb.OneOf(token.UNION, token.EXCEPT, token.INTERSECT)(in)
	if err != nil {
		return in, 0, err
	}
	pair := setOperators[tok.Kind]
	switch cur.Peek().Kind {
	case token.ALL:
		return cur.Advance(), pair[1], nil
	case token.DISTINCT:
		return cur.Advance(), pair[0], nil
	}
	return cur, pair[0], nil
}

// setOperand parses a SELECT block or a parenthesised query.
func setOperand(in comb.Input) (comb.Input, ast.ResultSetNode, error) {
	if in.Peek().Kind == token.LPAREN {
		rest, q, err := comb.Parens(Query)(in)
		if err != nil {
			return in, nil, err
		}
		switch q := q.(type) {
		case *ast.SelectStmt:
			q.IsInBraces = true
		case *ast.SetOprStmt:
			q.IsInBraces = true
		}
		return rest, q, nil
	}
	rest, sel, err := comb.Context[*ast.SelectStmt]("SELECT statement", selectStmt)(in)
	if err != nil {
		return in, nil, err
	}
	return rest, sel, nil
}

// setExpr parses operands joined by set operators. Each operator is stored
// on the operand that follows it; consumers re-associate left to right.
func setExpr(in comb.Input) (comb.Input, ast.ResultSetNode, error) {
	cur, first, err := setOperand(in)
	if err != nil {
		return in, nil, err
	}
	operands := []ast.ResultSetNode{first}
	var ops []ast.SetOprType

	for {
		// ORDER BY and LIMIT on a bare SELECT cannot precede a set operator.
		if sel, ok := operands[len(operands)-1].(*ast.SelectStmt); ok && !sel.IsInBraces {
			msg := ""
			switch {
			case sel.OrderBy != nil:
				msg = ErrUnionOrderBy
			case sel.Limit != nil:
				msg = ErrUnionLimit
			}
			if msg != "" {
				if _, _, err := comb.ErrorHint[ast.SetOprType](setOperator, msg)(cur); err != nil {
					return in, nil, err
				}
			}
		}

		next, op, err := setOperator(cur)
		if err != nil {
			break
		}
		next, operand, err := setOperand(next)
		if err != nil {
			return in, nil, err
		}
		ops = append(ops, op)
		operands = append(operands, operand)
		cur = next
	}

	if len(operands) == 1 {
		return trailingOrderLimit(cur, first)
	}

	list := &ast.SetOprSelectList{}
	for i, operand := range operands {
		var after *ast.SetOprType
		if i > 0 {
			op := ops[i-1]
			after = &op
		}
		list.Selects = append(list.Selects, setElement(operand, after))
	}
	stmt := &ast.SetOprStmt{SelectList: list}

	// A bare last SELECT hands its ORDER BY and LIMIT to the whole statement.
	if last, ok := operands[len(operands)-1].(*ast.SelectStmt); ok && !last.IsInBraces {
		stmt.OrderBy, last.OrderBy = last.OrderBy, nil
		stmt.Limit, last.Limit = last.Limit, nil
	}
	if stmt.OrderBy == nil && stmt.Limit == nil {
		var err error
		cur, stmt.OrderBy, stmt.Limit, err = orderLimit(cur)
		if err != nil {
			return in, nil, err
		}
	}
	return cur, stmt, nil
}

// setElement converts an operand into a select-list element. A
// parenthesised set operation becomes a nested list.
func setElement(operand ast.ResultSetNode, after *ast.SetOprType) ast.Node {
	switch q := operand.(type) {
	case *ast.SetOprStmt:
		return &ast.SetOprSelectList{
			AfterSetOperator: after,
			With:             q.With,
			Selects:          q.SelectList.Selects,
			OrderBy:          q.OrderBy,
			Limit:            q.Limit,
		}
	case *ast.SelectStmt:
		q.AfterSetOperator = after
		return q
	}
	return operand
}

// trailingOrderLimit handles (SELECT ...) ORDER BY ... LIMIT ... with a
// single parenthesised operand.
func trailingOrderLimit(in comb.Input, q ast.ResultSetNode) (comb.Input, ast.ResultSetNode, error) {
	switch q := q.(type) {
	case *ast.SelectStmt:
		if !q.IsInBraces {
			return in, q, nil
		}
		rest, order, limit, err := orderLimit(in)
		if err != nil {
			return in, nil, err
		}
		if order == nil && limit == nil {
			return rest, q, nil
		}
		if q.OrderBy == nil && q.Limit == nil {
			q.OrderBy, q.Limit = order, limit
			return rest, q, nil
		}
		list := &ast.SetOprSelectList{Selects: []ast.Node{q}}
		return rest, &ast.SetOprStmt{SelectList: list, OrderBy: order, Limit: limit}, nil
	case *ast.SetOprStmt:
		rest, order, limit, err := orderLimit(in)
		if err != nil {
			return in, nil, err
		}
		if order == nil && limit == nil {
			return rest, q, nil
		}
		inner := setElement(q, nil)
		return rest, &ast.SetOprStmt{
			SelectList: &ast.SetOprSelectList{Selects: []ast.Node{inner}},
			OrderBy:    order,
			Limit:      limit,
		}, nil
	}
	return in, q, nil
}

func orderLimit(in comb.Input) (comb.Input, *ast.OrderByClause, *ast.Limit, error) {
	cur, order, err := comb.Opt(orderByClause)(in)
	if err != nil {
		return in, nil, nil, err
	}
	rest, limit, err := comb.Opt(limitClause)(cur)
	if err != nil {
		return in, nil, nil, err
	}
	return rest, order, limit, nil
}

// ---------- SELECT ----------

func selectStmt(in comb.Input) (comb.Input, *ast.SelectStmt, error) {
	cur, _, err := comb.Token(token.SELECT)(in)
	if err != nil {
		return in, nil, err
	}
	cur, opts, err := selectOpts(cur)
	if err != nil {
		return in, nil, err
	}
	stmt := &ast.SelectStmt{SelectStmtOpts: opts, Distinct: opts.Distinct}

	cur, fields, err := comb.CommaList1(selectField)(cur)
	if err != nil {
		return in, nil, err
	}
	stmt.Fields = &ast.FieldList{Fields: fields}

	if _, _, err := comb.ErrorHint(comb.Token(token.INTO), ErrIntoUnsupported)(cur); err != nil {
		return in, nil, err
	}

	if cur.Peek().Kind == token.FROM {
		cur = cur.Advance()
		if cur.Peek().Kind == token.DUAL {
			cur = cur.Advance()
		} else {
			cur, stmt.From, err = tableRefs(cur)
			if err != nil {
				return in, nil, err
			}
		}
	}

	if cur.Peek().Kind == token.WHERE {
		cur, stmt.Where, err = Expr(cur.Advance())
		if err != nil {
			return in, nil, err
		}
	}
	cur, stmt.GroupBy, err = comb.Opt(groupByClause)(cur)
	if err != nil {
		return in, nil, err
	}
	if cur.Peek().Kind == token.HAVING {
		var having ast.ExprNode
		cur, having, err = Expr(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		stmt.Having = &ast.HavingClause{Expr: having}
	}
	cur, stmt.WindowSpecs, err = comb.Opt(windowClause)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, stmt.OrderBy, stmt.Limit, err = orderLimit(cur)
	if err != nil {
		return in, nil, err
	}
	if _, _, err := comb.ErrorHint(comb.Token(token.INTO), ErrIntoUnsupported)(cur); err != nil {
		return in, nil, err
	}
	return cur, stmt, nil
}

// optSetter applies one select option.
type optSetter func(*ast.SelectStmtOpts)

var errNotOption = errors.New("not a select option")

func selectOpt(in comb.Input) (comb.Input, optSetter, error) {
	tok := in.Peek()
	rest := in.Advance()
	switch tok.Kind {
	case token.HINT_PREFIX:
		return optimizerHint(in)
	case token.ALL:
		return rest, func(o *ast.SelectStmtOpts) { o.ExplicitAll = true }, nil
	case token.DISTINCT, token.DISTINCTROW:
		return rest, func(o *ast.SelectStmtOpts) { o.Distinct = true }, nil
	case token.HIGH_PRIORITY:
		return rest, func(o *ast.SelectStmtOpts) { o.Priority = ast.HighPriority }, nil
	case token.LOW_PRIORITY:
		return rest, func(o *ast.SelectStmtOpts) { o.Priority = ast.LowPriority }, nil
	case token.DELAYED:
		return rest, func(o *ast.SelectStmtOpts) { o.Priority = ast.DelayedPriority }, nil
	case token.STRAIGHT_JOIN:
		return rest, func(o *ast.SelectStmtOpts) { o.StraightJoin = true }, nil
	case token.SQL_SMALL_RESULT:
		return rest, func(o *ast.SelectStmtOpts) { o.SQLSmallResult = true }, nil
	case token.SQL_BIG_RESULT:
		return rest, func(o *ast.SelectStmtOpts) { o.SQLBigResult = true }, nil
	case token.SQL_BUFFER_RESULT:
		return rest, func(o *ast.SelectStmtOpts) { o.SQLBufferResult = true }, nil
	case token.SQL_CACHE:
		return rest, func(o *ast.SelectStmtOpts) { o.SQLCache = true }, nil
	case token.SQL_NO_CACHE:
		return rest, func(o *ast.SelectStmtOpts) { o.SQLCache = false }, nil
	case token.SQL_CALC_FOUND_ROWS:
		return rest, func(o *ast.SelectStmtOpts) { o.CalcFoundRows = true }, nil
	}
	return in, nil, errNotOption
}

// selectOpts folds the options left to right over the defaults.
func selectOpts(in comb.Input) (comb.Input, *ast.SelectStmtOpts, error) {
	rest, list, err := comb.Many0(selectOpt)(in)
	if err != nil {
		return in, nil, err
	}
	opts := ast.DefaultSelectStmtOpts()
	for _, apply := range list {
		apply(opts)
	}
	if opts.Distinct && opts.ExplicitAll {
		e := comb.Failf(in, in.SpanTo(rest), ErrDistinctAndAll, nil)
		e.Fatal = true
		return in, nil, e
	}
	return rest, opts, nil
}

// optimizerHint delimits a /*+ ... */ region. Its contents are not decoded.
func optimizerHint(in comb.Input) (comb.Input, optSetter, error) {
	cur := in.Advance()
	for cur.Peek().Kind != token.HINT_SUFFIX {
		if cur.AtEOI() {
			return in, nil, comb.Fail(cur, token.HINT_SUFFIX.Describe())
		}
		cur = cur.Advance()
	}
	return cur.Advance(), func(o *ast.SelectStmtOpts) {
		o.TableHints = append(o.TableHints, &ast.TableOptimizerHint{HintName: ast.PlaceholderHintName})
	}, nil
}

func selectField(in comb.Input) (comb.Input, *ast.SelectField, error) {
	cp := in.Backtrace.Checkpoint()
	if rest, wc, err := wildcard(in); err == nil {
		return rest, &ast.SelectField{WildCard: wc}, nil
	}
	in.Backtrace.Restore(cp)
	cur, x, err := Expr(in)
	if err != nil {
		return in, nil, err
	}
	rest, as, err := comb.Opt(alias)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.SelectField{Expr: x, AsName: as}, nil
}

func wildcard(in comb.Input) (comb.Input, *ast.WildCardField, error) {
	if in.Peek().Kind == token.STAR {
		return in.Advance(), &ast.WildCardField{}, nil
	}
	var parts []string
	cur := in
	for len(parts) < 2 {
		next, part, err := ident(cur)
		if len(parts) > 0 {
			next, part, err = identDot(cur)
		}
		if err != nil || next.Peek().Kind != token.DOT {
			return in, nil, comb.Fail(in, "*")
		}
		parts = append(parts, part)
		cur = next.Advance()
		if cur.Peek().Kind == token.STAR {
			wc := &ast.WildCardField{Table: parts[len(parts)-1]}
			if len(parts) == 2 {
				wc.Schema = parts[0]
			}
			return cur.Advance(), wc, nil
		}
	}
	return in, nil, comb.Fail(in, "*")
}

// alias parses [AS] name. After AS a few more reserved words are accepted.
func alias(in comb.Input) (comb.Input, string, error) {
	if in.Peek().Kind == token.AS {
		return comb.Alt[string](identAfter, StringLiteral)(in.Advance())
	}
	return comb.Alt[string](ident, StringLiteral)(in)
}

func groupByClause(in comb.Input) (comb.Input, *ast.GroupByClause, error) {
	cur, _, err := comb.Token(token.GROUP)(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.BY)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, items, err := comb.CommaList1(byItem)(cur)
	if err != nil {
		return in, nil, err
	}
	gb := &ast.GroupByClause{Items: items}
	if cur.Peek().Kind == token.WITH && cur.PeekAt(1).Kind == token.ROLLUP {
		cur = cur.Advance().Advance()
		gb.Rollup = true
	}
	return cur, gb, nil
}

func orderByClause(in comb.Input) (comb.Input, *ast.OrderByClause, error) {
	cur, _, err := comb.Token(token.ORDER)(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.BY)(cur)
	if err != nil {
		return in, nil, err
	}
	rest, items, err := comb.CommaList1(byItem)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.OrderByClause{Items: items}, nil
}

func byItem(in comb.Input) (comb.Input, *ast.ByItem, error) {
	cur, x, err := Expr(in)
	if err != nil {
		return in, nil, err
	}
	item := &ast.ByItem{Expr: x}
	switch cur.Peek().Kind {
	case token.DESC:
		item.Desc = true
		cur = cur.Advance()
	case token.ASC:
		cur = cur.Advance()
	}
	return cur, item, nil
}

func limitValue(in comb.Input) (comb.Input, ast.ExprNode, error) {
	if in.Peek().Kind == token.PARAM {
		return paramMarker(in)
	}
	if in.Peek().Kind != token.INT_LITERAL {
		return in, nil, comb.Fail(in, token.INT_LITERAL.Describe(), token.PARAM.Describe())
	}
	return numberLiteral(in)
}

// limitClause accepts LIMIT n, LIMIT offset, n and LIMIT n OFFSET offset.
func limitClause(in comb.Input) (comb.Input, *ast.Limit, error) {
	cur, _, err := comb.Token(token.LIMIT)(in)
	if err != nil {
		return in, nil, err
	}
	cur, first, err := limitValue(cur)
	if err != nil {
		return in, nil, err
	}
	switch cur.Peek().Kind {
	case token.COMMA:
		rest, count, err := limitValue(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		return rest, &ast.Limit{Count: count, Offset: first}, nil
	case token.OFFSET:
		rest, offset, err := limitValue(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		return rest, &ast.Limit{Count: first, Offset: offset}, nil
	}
	return cur, &ast.Limit{Count: first}, nil
}
