package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Function calls.
//
// Grammar:
//
//	function_call → name "(" [expr ("," expr)*] ")"
//	              | aggregate "(" [DISTINCT | DISTINCTROW | ALL] ("*" | expr ("," expr)*)
//	                    [ORDER BY order_list] [SEPARATOR string] ")" [over_clause]
//	              | window_function "(" [expr ("," expr)*] ")" over_clause
//	              | EXTRACT "(" time_unit FROM expr ")"
//	              | POSITION "(" bit_expr IN expr ")"
//	              | TRIM "(" [[BOTH | LEADING | TRAILING] [expr] FROM] expr ")"
//	              | (SUBSTRING | SUBSTR) "(" expr FROM expr [FOR expr] ")"
//	              | (TIMESTAMPADD | TIMESTAMPDIFF) "(" time_unit "," expr "," expr ")"
//	              | CHAR "(" expr ("," expr)* [USING charset_name] ")"
//	niladic       → CURRENT_DATE | CURRENT_TIME | CURRENT_TIMESTAMP | CURRENT_USER
//	              | LOCALTIME | LOCALTIMESTAMP | UTC_DATE | UTC_TIME | UTC_TIMESTAMP

// Reserved words that still name functions when followed by "(".
var reservedFunctions = map[token.TokenType]bool{
	token.IF: true, token.LEFT: true, token.RIGHT: true, token.REPLACE: true,
	token.INSERT: true, token.MOD: true, token.REPEAT: true, token.CHAR: true,
	token.DATABASE: true, token.SCHEMA: true, token.VALUES: true,
	token.CURRENT_USER: true, token.CURRENT_DATE: true, token.CURRENT_TIME: true,
	token.CURRENT_TIMESTAMP: true, token.LOCALTIME: true, token.LOCALTIMESTAMP: true,
	token.UTC_DATE: true, token.UTC_TIME: true, token.UTC_TIMESTAMP: true,
	token.ROW_NUMBER: true, token.RANK: true, token.DENSE_RANK: true,
	token.PERCENT_RANK: true, token.CUME_DIST: true, token.NTILE: true,
	token.LAG: true, token.LEAD: true, token.FIRST_VALUE: true,
	token.LAST_VALUE: true, token.NTH_VALUE: true,
}

// functionName reports the name of a call starting at the current token.
func functionName(in comb.Input) (string, bool) {
	tok := in.Peek()
	if in.PeekAt(1).Kind != token.LPAREN {
		return "", false
	}
	switch {
	case tok.Kind == token.IDENT:
		return tok.Text(), true
	case tok.Kind == token.QUOTED_IDENT:
		return unquote(tok.Text(), '`'), true
	case tok.Kind.IsKeyword():
		if !tok.Kind.IsReservedIdent(false) || reservedFunctions[tok.Kind] {
			return tok.Text(), true
		}
	}
	return "", false
}

type callForm func(in comb.Input, name string) (comb.Input, ast.ExprNode, error)

// Functions whose argument lists are not plain expression lists. The input
// given to a form is positioned after the opening parenthesis.
var specialForms map[string]callForm

func init() {
	specialForms = map[string]callForm{
		"EXTRACT":       extractCall,
		"POSITION":      positionCall,
		"TRIM":          trimCall,
		"SUBSTRING":     substringCall,
		"SUBSTR":        substringCall,
		"TIMESTAMPADD":  timestampCall,
		"TIMESTAMPDIFF": timestampCall,
		"CHAR":          charCall,
	}
}

func functionCall(in comb.Input) (comb.Input, ast.ExprNode, error) {
	name, ok := functionName(in)
	if !ok {
		return in, nil, comb.Fail(in, "function")
	}
	args := in.Advance().Advance()

	if form, ok := specialForms[strings.ToUpper(name)]; ok {
		return form(args, name)
	}
	switch dialectOf(in).FunctionKind(name) {
	case dialect.FuncAggregate:
		return aggregateCall(args, name)
	case dialect.FuncWindow:
		return windowCall(args, name)
	}

	cur, list, err := comb.CommaList0[ast.ExprNode](Expr)(args)
	if err != nil {
		return in, nil, err
	}
	rest, _, err := comb.Token(token.RPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.FuncCallExpr{FnName: name, Args: list}, nil
}

// niladicCall is a function such as CURRENT_DATE written without parentheses.
func niladicCall(in comb.Input) (comb.Input, ast.ExprNode, error) {
	tok := in.Peek()
	if !tok.Kind.IsKeyword() || !dialectOf(in).IsNiladic(tok.Text()) {
		return in, nil, comb.Fail(in, "function")
	}
	return in.Advance(), &ast.FuncCallExpr{FnName: tok.Text()}, nil
}

func aggregateCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	f := strings.ToLower(name)
	cur := in
	distinct := false
	switch cur.Peek().Kind {
	case token.DISTINCT, token.DISTINCTROW:
		distinct = true
		cur = cur.Advance()
	case token.ALL:
		cur = cur.Advance()
	}

	var (
		args []ast.ExprNode
		err  error
	)
	if f == "count" && !distinct && cur.Peek().Kind == token.STAR {
		args = []ast.ExprNode{&ast.ValueExpr{Kind: ast.KindInt, Value: uint64(1)}}
		cur = cur.Advance()
	} else {
		cur, args, err = comb.CommaList1[ast.ExprNode](Expr)(cur)
		if err != nil {
			return in, nil, err
		}
	}

	var (
		order     *ast.OrderByClause
		separator *string
	)
	if f == "group_concat" {
		cur, order, err = comb.Opt(orderByClause)(cur)
		if err != nil {
			return in, nil, err
		}
		if cur.Peek().Kind == token.SEPARATOR {
			var s string
			cur, s, err = StringLiteral(cur.Advance())
			if err != nil {
				return in, nil, err
			}
			separator = &s
		}
	}

	cur, _, err = comb.Token(token.RPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	if cur.Peek().Kind == token.OVER {
		rest, spec, err := overClause(cur)
		if err != nil {
			return in, nil, err
		}
		return rest, &ast.WindowFuncExpr{Name: f, Args: args, Distinct: distinct, Spec: spec}, nil
	}
	return cur, &ast.AggregateFuncExpr{F: f, Args: args, Distinct: distinct, Order: order, Separator: separator}, nil
}

func windowCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur, args, err := comb.CommaList0[ast.ExprNode](Expr)(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.RPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	rest, spec, err := overClause(cur)
	if err != nil {
		if comb.IsFatal(err) {
			return in, nil, err
		}
		if comb.AsError(cur, err).Pos == cur.Pos() {
			return in, nil, comb.Failf(cur, cur.Peek().Span, fmt.Sprintf(ErrWindowNeedsOver, strings.ToUpper(name)), nil)
		}
		return in, nil, err
	}
	return rest, &ast.WindowFuncExpr{Name: strings.ToLower(name), Args: args, Spec: spec}, nil
}

func closeCall(in comb.Input, name string, args ...ast.ExprNode) (comb.Input, ast.ExprNode, error) {
	rest, _, err := comb.Token(token.RPAREN)(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.FuncCallExpr{FnName: name, Args: args}, nil
}

func unitValue(unit string) ast.ExprNode {
	return &ast.ValueExpr{Kind: ast.KindString, Value: unit}
}

func extractCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur, unit, err := timeUnit(in)
	if err != nil {
		return in, nil, err
	}
	cur, x, err := comb.Preceded(comb.Token(token.FROM), Expr)(cur)
	if err != nil {
		return in, nil, err
	}
	return closeCall(cur, name, unitValue(unit), x)
}

func positionCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur, needle, err := bitExpr(in)
	if err != nil {
		return in, nil, err
	}
	cur, haystack, err := comb.Preceded(comb.Token(token.IN), Expr)(cur)
	if err != nil {
		return in, nil, err
	}
	return closeCall(cur, name, needle, haystack)
}

// trimCall produces TRIM(str), TRIM(str, remstr) or TRIM(str, remstr, direction).
func trimCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur := in
	var direction string
	switch k := cur.Peek().Kind; k {
	case token.BOTH, token.LEADING, token.TRAILING:
		direction = k.String()
		cur = cur.Advance()
	}

	if cur.Peek().Kind == token.FROM {
		cur, str, err := Expr(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		return closeCall(cur, name, str, &ast.ValueExpr{Kind: ast.KindString, Value: " "}, unitValue(direction))
	}

	cur, first, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}
	if cur.Peek().Kind != token.FROM {
		if direction != "" {
			return in, nil, comb.Fail(cur, token.FROM.Describe())
		}
		return closeCall(cur, name, first)
	}
	cur, str, err := Expr(cur.Advance())
	if err != nil {
		return in, nil, err
	}
	if direction == "" {
		return closeCall(cur, name, str, first)
	}
	return closeCall(cur, name, str, first, unitValue(direction))
}

func substringCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur, str, err := Expr(in)
	if err != nil {
		return in, nil, err
	}
	switch cur.Peek().Kind {
	case token.FROM:
		cur, pos, err := Expr(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		if cur.Peek().Kind != token.FOR {
			return closeCall(cur, name, str, pos)
		}
		cur, n, err := Expr(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		return closeCall(cur, name, str, pos, n)
	case token.COMMA:
		cur, rest, err := comb.CommaList1[ast.ExprNode](Expr)(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		return closeCall(cur, name, append([]ast.ExprNode{str}, rest...)...)
	}
	return in, nil, comb.Fail(cur, token.FROM.Describe(), token.COMMA.Describe())
}

func timestampCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur, unit, err := timeUnit(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.COMMA)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, a, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.COMMA)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, b, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}
	return closeCall(cur, name, unitValue(unit), a, b)
}

// charCall is CHAR(n, ... [USING cs]); the charset becomes a trailing
// string argument.
func charCall(in comb.Input, name string) (comb.Input, ast.ExprNode, error) {
	cur, args, err := comb.CommaList1[ast.ExprNode](Expr)(in)
	if err != nil {
		return in, nil, err
	}
	if cur.Peek().Kind == token.USING {
		var cs string
		cur, cs, err = charsetName(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		args = append(args, &ast.ValueExpr{Kind: ast.KindString, Value: cs})
	}
	return closeCall(cur, name, args...)
}
