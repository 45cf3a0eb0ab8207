package parser

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Operands.
//
// Grammar:
//
//	operand     → literal | variable | "?" | "(" query ")" | "(" expr ("," expr)* ")"
//	            | EXISTS "(" query ")" | case | cast | convert
//	            | INTERVAL expr time_unit | ROW "(" expr ("," expr)+ ")"
//	            | function_call | niladic_function | column_name
//	case        → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast        → CAST "(" expr AS cast_type ")"
//	convert     → CONVERT "(" expr "," cast_type ")" | CONVERT "(" expr USING charset_name ")"
//	cast_type   → BINARY [len] | (CHAR | CHARACTER) [len] [charset_clause] | NCHAR [len]
//	            | DATE | DATETIME [len] | TIME [len] | YEAR | JSON
//	            | DECIMAL ["(" INT ["," INT] ")"] | DOUBLE | REAL | FLOAT [len]
//	            | (SIGNED | UNSIGNED) [INTEGER | INT]
//	len         → "(" INT ")"

func primary(in comb.Input) (comb.Input, ast.ExprNode, error) {
	return comb.Alt[ast.ExprNode](
		Literal,
		variableExpr,
		paramMarker,
		parenExpr,
		existsExpr,
		caseExpr,
		castExpr,
		convertExpr,
		intervalExpr,
		rowExpr,
		functionCall,
		niladicCall,
		columnExpr,
	)(in)
}

func dialectOf(in comb.Input) *dialect.Dialect {
	if in.Dialect == nil {
		return dialect.MySQL
	}
	return in.Dialect
}

func variableExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	rest, v, err := Variable(in)
	if err != nil {
		return in, nil, err
	}
	return rest, v, nil
}

// paramMarker numbers each ? by its position among all markers in the
// statement text.
func paramMarker(in comb.Input) (comb.Input, ast.ExprNode, error) {
	tok := in.Peek()
	if tok.Kind != token.PARAM {
		return in, nil, comb.Fail(in, token.PARAM.Describe())
	}
	order := 0
	for _, t := range in.Stream[:tok.Index] {
		if t.Kind == token.PARAM {
			order++
		}
	}
	return in.Advance(), &ast.ParamMarkerExpr{Order: order}, nil
}

func columnExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	rest, name, err := ColumnName(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.ColumnNameExpr{Name: name}, nil
}

// subquery parses a parenthesised query.
func subquery(in comb.Input) (comb.Input, *ast.SubqueryExpr, error) {
	rest, q, err := comb.Parens(Query)(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.SubqueryExpr{Query: q}, nil
}

func parenExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	if rest, sub, err := subquery(in); err == nil {
		return rest, sub, nil
	} else if comb.IsFatal(err) {
		return in, nil, err
	}
	rest, list, err := comb.Parens(comb.CommaList1[ast.ExprNode](Expr))(in)
	if err != nil {
		return in, nil, err
	}
	if len(list) == 1 {
		return rest, &ast.ParenthesesExpr{Expr: list[0]}, nil
	}
	return rest, &ast.RowExpr{Values: list}, nil
}

func existsExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	rest, sub, err := comb.Preceded(comb.Token(token.EXISTS), subquery)(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.ExistsSubqueryExpr{Sel: sub}, nil
}

func rowExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	cur, _, err := comb.Token(token.ROW)(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.LPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, first, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.COMMA)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, more, err := comb.CommaList1[ast.ExprNode](Expr)(cur)
	if err != nil {
		return in, nil, err
	}
	rest, _, err := comb.Token(token.RPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.RowExpr{Values: append([]ast.ExprNode{first}, more...)}, nil
}

// ---------- CASE ----------

func caseExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	cur, _, err := comb.Token(token.CASE)(in)
	if err != nil {
		return in, nil, err
	}
	cur, value, err := comb.Opt(Expr)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, whens, err := comb.Many1(whenClause)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, elseExpr, err := comb.Opt(comb.Preceded(comb.Token(token.ELSE), Expr))(cur)
	if err != nil {
		return in, nil, err
	}
	rest, _, err := comb.Token(token.END)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.CaseExpr{Value: value, WhenClauses: whens, ElseClause: elseExpr}, nil
}

func whenClause(in comb.Input) (comb.Input, *ast.WhenClause, error) {
	cur, cond, err := comb.Preceded(comb.Token(token.WHEN), Expr)(in)
	if err != nil {
		return in, nil, err
	}
	rest, result, err := comb.Preceded(comb.Token(token.THEN), Expr)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.WhenClause{Expr: cond, Result: result}, nil
}

// ---------- CAST and CONVERT ----------

func castExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	cur, _, err := comb.Token(token.CAST)(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.LPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, x, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.AS)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, tp, err := castType(cur)
	if err != nil {
		return in, nil, err
	}
	rest, _, err := comb.Token(token.RPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.FuncCastExpr{Expr: x, Tp: tp, FunctionType: ast.CastFunction}, nil
}

func convertExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	cur, _, err := comb.Token(token.CONVERT)(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.LPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	cur, x, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}

	var out ast.ExprNode
	switch cur.Peek().Kind {
	case token.USING:
		var cs string
		cur, cs, err = charsetName(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		out = &ast.FuncCallExpr{FnName: "convert", Args: []ast.ExprNode{
			x, &ast.ValueExpr{Kind: ast.KindString, Value: cs},
		}}
	default:
		cur, _, err = comb.OneOf(token.COMMA, token.USING)(cur)
		if err != nil {
			return in, nil, err
		}
		var tp *ast.FieldType
		cur, tp, err = castType(cur)
		if err != nil {
			return in, nil, err
		}
		out = &ast.FuncCastExpr{Expr: x, Tp: tp, FunctionType: ast.CastConvertFunction}
	}

	rest, _, err := comb.Token(token.RPAREN)(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, out, nil
}

// charsetName parses a charset written as an identifier, a string or
// BINARY, and checks that it is known.
func charsetName(in comb.Input) (comb.Input, string, error) {
	return comb.MapRes(
		comb.Alt[string](
			ident,
			StringLiteral,
			comb.Value[token.Token](charset.Binary, comb.Token(token.BINARY)),
		),
		func(name string) (string, error) {
			cs, err := charset.Lookup(name)
			if err != nil {
				return "", err
			}
			return cs.Name, nil
		},
	)(in)
}

var intValue = comb.MapRes(comb.Token(token.INT_LITERAL), func(tok token.Token) (int, error) {
	n, err := strconv.Atoi(tok.Text())
	if err != nil {
		return 0, errIntegerRange
	}
	return n, nil
})

// fieldLen parses an optional "(n)".
func fieldLen(in comb.Input) (comb.Input, int, error) {
	if in.Peek().Kind != token.LPAREN {
		return in, ast.UnspecifiedLength, nil
	}
	return comb.Parens(intValue)(in)
}

func castType(in comb.Input) (comb.Input, *ast.FieldType, error) {
	tok := in.Peek()
	tp := &ast.FieldType{Flen: ast.UnspecifiedLength, Decimal: ast.UnspecifiedLength}
	cur := in.Advance()
	var err error

	switch tok.Kind {
	case token.BINARY:
		tp.Tp, tp.Charset = "binary", charset.Binary
		cur, tp.Flen, err = fieldLen(cur)
	case token.CHAR, token.CHARACTER:
		tp.Tp, tp.Charset = "char", in.Charset
		cur, tp.Flen, err = fieldLen(cur)
		if err == nil {
			var cs string
			cur, cs, err = comb.Opt(charsetClause)(cur)
			if cs != "" {
				tp.Charset = cs
			}
		}
	case token.NCHAR:
		tp.Tp, tp.Charset = "char", "utf8mb3"
		cur, tp.Flen, err = fieldLen(cur)
	case token.DATE:
		tp.Tp = "date"
	case token.DATETIME:
		tp.Tp = "datetime"
		cur, tp.Decimal, err = fieldLen(cur)
	case token.TIME:
		tp.Tp = "time"
		cur, tp.Decimal, err = fieldLen(cur)
	case token.YEAR:
		tp.Tp = "year"
	case token.JSON:
		tp.Tp = "json"
	case token.DECIMAL, token.NUMERIC:
		tp.Tp = "decimal"
		if cur.Peek().Kind == token.LPAREN {
			cur, tp.Flen, err = intValue(cur.Advance())
			if err == nil && cur.Peek().Kind == token.COMMA {
				cur, tp.Decimal, err = intValue(cur.Advance())
			}
			if err == nil {
				cur, _, err = comb.Token(token.RPAREN)(cur)
			}
		}
	case token.DOUBLE, token.REAL:
		tp.Tp = "double"
	case token.FLOAT:
		tp.Tp = "float"
		cur, tp.Flen, err = fieldLen(cur)
	case token.SIGNED, token.UNSIGNED:
		tp.Tp = strings.ToLower(tok.Kind.String())
		cur, _, err = comb.Opt(comb.OneOf(token.INTEGER, token.INT))(cur)
	default:
		return in, nil, comb.Fail(in, "cast type")
	}
	if err != nil {
		return in, nil, err
	}
	return cur, tp, nil
}

// charsetClause parses CHARACTER SET name, CHARSET name, ASCII, UNICODE or
// BINARY after a CHAR cast type.
func charsetClause(in comb.Input) (comb.Input, string, error) {
	switch tok := in.Peek(); {
	case tok.Kind == token.CHARACTER:
		return comb.Preceded(comb.Token(token.SET), charsetName)(in.Advance())
	case tok.Kind == token.CHARSET:
		return charsetName(in.Advance())
	case tok.Kind == token.ASCII:
		return in.Advance(), "latin1", nil
	case tok.Kind == token.BINARY:
		return in.Advance(), charset.Binary, nil
	case tok.Kind == token.IDENT && strings.EqualFold(tok.Text(), "unicode"):
		return in.Advance(), "ucs2", nil
	}
	return in, "", comb.Fail(in, "CHARACTER SET")
}

// ---------- INTERVAL ----------

var timeUnits = []token.TokenType{
	token.MICROSECOND, token.SECOND, token.MINUTE, token.HOUR, token.DAY,
	token.WEEK, token.MONTH, token.QUARTER, token.YEAR,
	token.SECOND_MICROSECOND, token.MINUTE_MICROSECOND, token.MINUTE_SECOND,
	token.HOUR_MICROSECOND, token.HOUR_SECOND, token.HOUR_MINUTE,
	token.DAY_MICROSECOND, token.DAY_SECOND, token.DAY_MINUTE, token.DAY_HOUR,
	token.YEAR_MONTH,
}

var timeUnit = comb.Map(comb.OneOf(timeUnits...), func(tok token.Token) string {
	return tok.Kind.String()
})

func intervalExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	cur, _, err := comb.Token(token.INTERVAL)(in)
	if err != nil {
		return in, nil, err
	}
	cur, v, err := Expr(cur)
	if err != nil {
		return in, nil, err
	}
	rest, unit, err := timeUnit(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.IntervalExpr{Value: v, Unit: unit}, nil
}
