package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Helpers ----------

func parseExprMode(t *testing.T, src string, mode dialect.SQLMode) ast.ExprNode {
	t.Helper()
	toks, _, err := parser.Lex(src, mode)
	require.NoError(t, err, src)
	expr, err := parser.Run[ast.ExprNode](toks, parser.Options{Dialect: dialect.MySQL, Mode: mode}, parser.Expr)
	require.NoError(t, err, src)
	return expr
}

func parseExpr(t *testing.T, src string) ast.ExprNode {
	t.Helper()
	return parseExprMode(t, src, 0)
}

// sexpr renders an expression with every operation parenthesised, so that
// tests can state the shape of a tree in one line.
func sexpr(e ast.ExprNode) string {
	switch x := e.(type) {
	case nil:
		return "<nil>"
	case *ast.ValueExpr:
		switch x.Kind {
		case ast.KindNull:
			return "NULL"
		case ast.KindString:
			return fmt.Sprintf("'%s'", x.Value)
		case ast.KindHex, ast.KindBit:
			return fmt.Sprintf("0x%X", x.Value)
		case ast.KindBool:
			if x.Value.(bool) {
				return "TRUE"
			}
			return "FALSE"
		default:
			return fmt.Sprint(x.Value)
		}
	case *ast.ColumnNameExpr:
		parts := []string{x.Name.Schema, x.Name.Table, x.Name.Name}
		for len(parts) > 1 && parts[0] == "" {
			parts = parts[1:]
		}
		return strings.Join(parts, ".")
	case *ast.VariableExpr:
		name := "@" + x.Name
		if x.IsSystem {
			name = "@" + name
		}
		if x.Value != nil {
			return fmt.Sprintf("(%s := %s)", name, sexpr(x.Value))
		}
		return name
	case *ast.ParamMarkerExpr:
		return fmt.Sprintf("?%d", x.Order)
	case *ast.BinaryOperationExpr:
		return fmt.Sprintf("(%s %s %s)", sexpr(x.L), x.Op, sexpr(x.R))
	case *ast.UnaryOperationExpr:
		return fmt.Sprintf("(%s %s)", x.Op, sexpr(x.V))
	case *ast.ParenthesesExpr:
		return fmt.Sprintf("[%s]", sexpr(x.Expr))
	case *ast.RowExpr:
		return "ROW(" + list(x.Values) + ")"
	case *ast.SetCollationExpr:
		return fmt.Sprintf("(%s COLLATE %s)", sexpr(x.Expr), x.Collate)
	case *ast.IntervalExpr:
		return fmt.Sprintf("(INTERVAL %s %s)", sexpr(x.Value), x.Unit)
	case *ast.IsNullExpr:
		return fmt.Sprintf("(%s IS %sNULL)", sexpr(x.Expr), not(x.Not))
	case *ast.IsTruthExpr:
		return fmt.Sprintf("(%s IS %s%t)", sexpr(x.Expr), not(x.Not), x.True)
	case *ast.BetweenExpr:
		return fmt.Sprintf("(%s %sBETWEEN %s %s)", sexpr(x.Expr), not(x.Not), sexpr(x.Left), sexpr(x.Right))
	case *ast.PatternInExpr:
		if x.Sel != nil {
			return fmt.Sprintf("(%s %sIN %s)", sexpr(x.Expr), not(x.Not), sexpr(x.Sel))
		}
		return fmt.Sprintf("(%s %sIN [%s])", sexpr(x.Expr), not(x.Not), list(x.List))
	case *ast.PatternLikeExpr:
		if x.Escape != nil {
			return fmt.Sprintf("(%s %sLIKE %s ESCAPE %s)", sexpr(x.Expr), not(x.Not), sexpr(x.Pattern), sexpr(x.Escape))
		}
		return fmt.Sprintf("(%s %sLIKE %s)", sexpr(x.Expr), not(x.Not), sexpr(x.Pattern))
	case *ast.PatternRegexpExpr:
		return fmt.Sprintf("(%s %sREGEXP %s)", sexpr(x.Expr), not(x.Not), sexpr(x.Pattern))
	case *ast.SubqueryExpr:
		return "(subquery)"
	case *ast.ExistsSubqueryExpr:
		return fmt.Sprintf("(%sEXISTS %s)", not(x.Not), sexpr(x.Sel))
	case *ast.CompareSubqueryExpr:
		quant := "ANY"
		if x.All {
			quant = "ALL"
		}
		return fmt.Sprintf("(%s %s %s %s)", sexpr(x.L), x.Op, quant, sexpr(x.R))
	case *ast.FuncCallExpr:
		return x.FnName + "(" + list(x.Args) + ")"
	case *ast.AggregateFuncExpr:
		if x.Distinct {
			return x.F + "(DISTINCT " + list(x.Args) + ")"
		}
		return x.F + "(" + list(x.Args) + ")"
	case *ast.WindowFuncExpr:
		return x.Name + "(" + list(x.Args) + ") OVER"
	case *ast.FuncCastExpr:
		switch x.FunctionType {
		case ast.CastConvertFunction:
			return fmt.Sprintf("CONVERT(%s, %s)", sexpr(x.Expr), x.Tp.Tp)
		case ast.CastBinaryOperator:
			return fmt.Sprintf("(BINARY %s)", sexpr(x.Expr))
		default:
			return fmt.Sprintf("CAST(%s AS %s)", sexpr(x.Expr), x.Tp.Tp)
		}
	case *ast.CaseExpr:
		var b strings.Builder
		b.WriteString("(CASE")
		if x.Value != nil {
			b.WriteString(" " + sexpr(x.Value))
		}
		for _, w := range x.WhenClauses {
			fmt.Fprintf(&b, " WHEN %s THEN %s", sexpr(w.Expr), sexpr(w.Result))
		}
		if x.ElseClause != nil {
			b.WriteString(" ELSE " + sexpr(x.ElseClause))
		}
		b.WriteString(" END)")
		return b.String()
	}
	return fmt.Sprintf("<%T>", e)
}

func list(es []ast.ExprNode) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = sexpr(e)
	}
	return strings.Join(parts, ", ")
}

func not(b bool) string {
	if b {
		return "NOT "
	}
	return ""
}

// ---------- Precedence ----------

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		mode dialect.SQLMode
		want string
	}{
		{name: "multiplication binds tighter", src: "1 + 2 * 3", want: "(1 + (2 * 3))"},
		{name: "left associative", src: "1 - 2 - 3", want: "((1 - 2) - 3)"},
		{name: "and binds tighter than or", src: "a OR b AND c", want: "(a OR (b AND c))"},
		{name: "xor between and and or", src: "a XOR b OR c AND d", want: "((a XOR b) OR (c AND d))"},
		{name: "symbolic and", src: "a && b", want: "(a AND b)"},
		{name: "not below comparison", src: "NOT a = b", want: "(NOT (a = b))"},
		{name: "high not precedence", src: "NOT a = b", mode: dialect.ModeHighNotPrecedence, want: "((NOT a) = b)"},
		{name: "bang binds tight", src: "!a AND b", want: "((! a) AND b)"},
		{name: "unary minus", src: "-a * b", want: "((- a) * b)"},
		{name: "unary after binary", src: "1 + -2", want: "(1 + (- 2))"},
		{name: "unary plus and tilde", src: "+a - ~b", want: "((+ a) - (~ b))"},
		{name: "pipes are or", src: "a || b AND c", want: "(a OR (b AND c))"},
		{name: "pipes concatenate", src: "a || b AND c", mode: dialect.ModePipesAsConcat, want: "((a || b) AND c)"},
		{name: "shift below additive", src: "1 << 2 + 3", want: "(1 << (2 + 3))"},
		{name: "bit or below bit and", src: "a | b & c", want: "(a | (b & c))"},
		{name: "caret above multiply", src: "2 * 3 ^ 4", want: "(2 * (3 ^ 4))"},
		{name: "comparison below bit ops", src: "a | 1 = b", want: "((a | 1) = b)"},
		{name: "binary operator", src: "BINARY a = b", want: "((BINARY a) = b)"},
		{name: "integer division and mod", src: "7 DIV 2 MOD 3", want: "((7 DIV 2) % 3)"},
		{name: "percent", src: "7 % 2", want: "(7 % 2)"},
		{name: "mod function", src: "MOD(7, 2)", want: "MOD(7, 2)"},
		{name: "assignment is lowest", src: "@x := 1 + 2", want: "(@x := (1 + 2))"},
		{name: "assignment is right associative", src: "@x := @y := 1", want: "(@x := (@y := 1))"},
		{name: "between and", src: "a BETWEEN 1 AND 2 AND b", want: "((a BETWEEN 1 2) AND b)"},
		{name: "between bounds are bit expressions", src: "a BETWEEN b + 1 AND c * 2", want: "(a BETWEEN (b + 1) (c * 2))"},
		{name: "not between", src: "a NOT BETWEEN 1 AND 2", want: "(a NOT BETWEEN 1 2)"},
		{name: "collate binds tightest", src: "a = b COLLATE utf8mb4_bin", want: "(a = (b COLLATE utf8mb4_bin))"},
		{name: "parentheses", src: "(1 + 2) * 3", want: "([(1 + 2)] * 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sexpr(parseExprMode(t, tt.src, tt.mode)))
		})
	}
}

// ---------- Forms ----------

func TestExprForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "in list", src: "a IN (1, 2)", want: "(a IN [1, 2])"},
		{name: "not in subquery", src: "a NOT IN (SELECT b FROM t)", want: "(a NOT IN (subquery))"},
		{name: "like escape", src: "a LIKE 'x%' ESCAPE '!'", want: "(a LIKE 'x%' ESCAPE '!')"},
		{name: "not like", src: "a NOT LIKE 'x'", want: "(a NOT LIKE 'x')"},
		{name: "regexp", src: "a NOT REGEXP '^b'", want: "(a NOT REGEXP '^b')"},
		{name: "rlike", src: "a RLIKE 'c'", want: "(a REGEXP 'c')"},
		{name: "is null", src: "a IS NULL", want: "(a IS NULL)"},
		{name: "is not unknown", src: "a IS NOT UNKNOWN", want: "(a IS NOT NULL)"},
		{name: "is true", src: "a IS TRUE", want: "(a IS true)"},
		{name: "is not false", src: "a IS NOT FALSE", want: "(a IS NOT false)"},
		{name: "exists", src: "EXISTS (SELECT 1)", want: "(EXISTS (subquery))"},
		{name: "not exists", src: "NOT EXISTS (SELECT 1)", want: "(NOT (EXISTS (subquery)))"},
		{name: "any", src: "a = ANY (SELECT b FROM t)", want: "(a = ANY (subquery))"},
		{name: "some", src: "a <> SOME (SELECT b FROM t)", want: "(a != ANY (subquery))"},
		{name: "all", src: "a > ALL (SELECT b FROM t)", want: "(a > ALL (subquery))"},
		{name: "scalar subquery", src: "(SELECT 1) + 1", want: "((subquery) + 1)"},
		{name: "row", src: "(1, 2)", want: "ROW(1, 2)"},
		{name: "row keyword", src: "ROW(1, 2) = (a, b)", want: "(ROW(1, 2) = ROW(a, b))"},
		{name: "json extract", src: "j -> '$.a'", want: "json_extract(j, '$.a')"},
		{name: "json unquote", src: "j ->> '$.a'", want: "json_unquote(json_extract(j, '$.a'))"},
		{name: "collate string", src: "a COLLATE 'latin1_bin'", want: "(a COLLATE latin1_bin)"},
		{name: "simple case", src: "CASE a WHEN 1 THEN 'x' ELSE 'y' END", want: "(CASE a WHEN 1 THEN 'x' ELSE 'y' END)"},
		{name: "searched case", src: "CASE WHEN a > 1 THEN b WHEN c THEN d END", want: "(CASE WHEN (a > 1) THEN b WHEN c THEN d END)"},
		{name: "cast", src: "CAST(a AS DECIMAL(10, 2))", want: "CAST(a AS decimal)"},
		{name: "convert type", src: "CONVERT(a, UNSIGNED)", want: "CONVERT(a, unsigned)"},
		{name: "convert using", src: "CONVERT(a USING latin1)", want: "convert(a, 'latin1')"},
		{name: "extract", src: "EXTRACT(YEAR FROM d)", want: "EXTRACT('YEAR', d)"},
		{name: "position", src: "POSITION('b' IN a)", want: "POSITION('b', a)"},
		{name: "trim", src: "TRIM(a)", want: "TRIM(a)"},
		{name: "trim from", src: "TRIM('x' FROM a)", want: "TRIM(a, 'x')"},
		{name: "trim leading", src: "TRIM(LEADING 'x' FROM a)", want: "TRIM(a, 'x', 'LEADING')"},
		{name: "trim both spaces", src: "TRIM(BOTH FROM a)", want: "TRIM(a, ' ', 'BOTH')"},
		{name: "substring from for", src: "SUBSTRING(a FROM 2 FOR 3)", want: "SUBSTRING(a, 2, 3)"},
		{name: "substring commas", src: "SUBSTR(a, 2)", want: "SUBSTR(a, 2)"},
		{name: "timestampdiff", src: "TIMESTAMPDIFF(DAY, a, b)", want: "TIMESTAMPDIFF('DAY', a, b)"},
		{name: "char using", src: "CHAR(65, 66 USING ascii)", want: "CHAR(65, 66, 'ascii')"},
		{name: "interval", src: "d + INTERVAL 1 DAY", want: "(d + (INTERVAL 1 DAY))"},
		{name: "interval expression", src: "INTERVAL a + 1 HOUR_MINUTE", want: "(INTERVAL (a + 1) HOUR_MINUTE)"},
		{name: "niladic", src: "CURRENT_TIMESTAMP", want: "CURRENT_TIMESTAMP()"},
		{name: "niladic with parentheses", src: "CURRENT_DATE()", want: "CURRENT_DATE()"},
		{name: "scalar function", src: "concat(a, 'b')", want: "concat(a, 'b')"},
		{name: "reserved function name", src: "IF(a, 1, 2)", want: "IF(a, 1, 2)"},
		{name: "no arguments", src: "now()", want: "now()"},
		{name: "count star", src: "COUNT(*)", want: "count(1)"},
		{name: "count distinct", src: "COUNT(DISTINCT a, b)", want: "count(DISTINCT a, b)"},
		{name: "sum all", src: "SUM(ALL a)", want: "sum(a)"},
		{name: "window function", src: "ROW_NUMBER() OVER ()", want: "row_number() OVER"},
		{name: "aggregate over", src: "SUM(a) OVER w", want: "sum(a) OVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sexpr(parseExpr(t, tt.src)))
		})
	}
}

func TestCastTypes(t *testing.T) {
	tests := []struct {
		src  string
		want *ast.FieldType
	}{
		{src: "CAST(a AS DECIMAL(10, 2))", want: &ast.FieldType{Tp: "decimal", Flen: 10, Decimal: 2}},
		{src: "CAST(a AS DECIMAL)", want: &ast.FieldType{Tp: "decimal", Flen: -1, Decimal: -1}},
		{src: "CAST(a AS CHAR)", want: &ast.FieldType{Tp: "char", Flen: -1, Decimal: -1, Charset: charset.UTF8MB4}},
		{src: "CAST(a AS CHAR(10) CHARACTER SET latin1)", want: &ast.FieldType{Tp: "char", Flen: 10, Decimal: -1, Charset: "latin1"}},
		{src: "CAST(a AS BINARY(4))", want: &ast.FieldType{Tp: "binary", Flen: 4, Decimal: -1, Charset: charset.Binary}},
		{src: "CAST(a AS DATETIME(6))", want: &ast.FieldType{Tp: "datetime", Flen: -1, Decimal: 6}},
		{src: "CAST(a AS UNSIGNED INTEGER)", want: &ast.FieldType{Tp: "unsigned", Flen: -1, Decimal: -1}},
		{src: "CONVERT(a, SIGNED)", want: &ast.FieldType{Tp: "signed", Flen: -1, Decimal: -1}},
		{src: "CAST(a AS JSON)", want: &ast.FieldType{Tp: "json", Flen: -1, Decimal: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			cast, ok := parseExpr(t, tt.src).(*ast.FuncCastExpr)
			require.True(t, ok)
			assert.Equal(t, tt.want, cast.Tp)
		})
	}
}

func TestAggregateGroupConcat(t *testing.T) {
	expr := parseExpr(t, "GROUP_CONCAT(DISTINCT a ORDER BY b DESC SEPARATOR ';')")

	sep := ";"
	want := &ast.AggregateFuncExpr{
		F:         "group_concat",
		Args:      []ast.ExprNode{col("a")},
		Distinct:  true,
		Order:     &ast.OrderByClause{Items: []*ast.ByItem{{Expr: col("b"), Desc: true}}},
		Separator: &sep,
	}
	assert.Equal(t, want, expr)
}

func TestWindowFrames(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *ast.FrameClause
	}{
		{
			name: "unbounded to current row",
			src:  "SUM(a) OVER (ORDER BY b ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW)",
			want: &ast.FrameClause{Type: ast.Rows, Extent: ast.FrameExtent{
				Start: ast.FrameBound{Type: ast.Preceding, UnBounded: true},
				End:   ast.FrameBound{Type: ast.CurrentRow},
			}},
		},
		{
			name: "single bound",
			src:  "SUM(a) OVER (ROWS 1 PRECEDING)",
			want: &ast.FrameClause{Type: ast.Rows, Extent: ast.FrameExtent{
				Start: ast.FrameBound{Type: ast.Preceding, Expr: num(1)},
				End:   ast.FrameBound{Type: ast.CurrentRow},
			}},
		},
		{
			name: "range interval",
			src:  "SUM(a) OVER (ORDER BY d RANGE BETWEEN INTERVAL 1 DAY PRECEDING AND UNBOUNDED FOLLOWING)",
			want: &ast.FrameClause{Type: ast.Ranges, Extent: ast.FrameExtent{
				Start: ast.FrameBound{Type: ast.Preceding, Expr: &ast.IntervalExpr{Value: num(1), Unit: "DAY"}},
				End:   ast.FrameBound{Type: ast.Following, UnBounded: true},
			}},
		},
		{
			name: "groups",
			src:  "SUM(a) OVER (GROUPS BETWEEN 1 PRECEDING AND 2 FOLLOWING)",
			want: &ast.FrameClause{Type: ast.Groups, Extent: ast.FrameExtent{
				Start: ast.FrameBound{Type: ast.Preceding, Expr: num(1)},
				End:   ast.FrameBound{Type: ast.Following, Expr: num(2)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := parseExpr(t, tt.src).(*ast.WindowFuncExpr)
			require.True(t, ok)
			assert.Equal(t, tt.want, w.Spec.Frame)
		})
	}
}

func TestWindowSpec(t *testing.T) {
	w, ok := parseExpr(t, "LAG(a, 1) OVER (w PARTITION BY b ORDER BY c)").(*ast.WindowFuncExpr)
	require.True(t, ok)

	assert.Equal(t, "lag", w.Name)
	assert.Equal(t, []ast.ExprNode{col("a"), num(1)}, w.Args)
	assert.Equal(t, ast.WindowSpec{
		Ref:         "w",
		PartitionBy: &ast.PartitionByClause{Items: []*ast.ByItem{{Expr: col("b")}}},
		OrderBy:     &ast.OrderByClause{Items: []*ast.ByItem{{Expr: col("c")}}},
	}, w.Spec)
}

// ---------- Literals ----------

func TestLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.ExprNode
	}{
		{name: "integer", src: "42", want: num(42)},
		{name: "max uint64", src: "18446744073709551615", want: num(18446744073709551615)},
		{name: "decimal keeps text", src: "1.50", want: &ast.ValueExpr{Kind: ast.KindDecimal, Value: "1.50"}},
		{name: "float", src: "1e3", want: &ast.ValueExpr{Kind: ast.KindFloat, Value: float64(1000)}},
		{name: "true", src: "TRUE", want: &ast.ValueExpr{Kind: ast.KindBool, Value: true}},
		{name: "false", src: "false", want: &ast.ValueExpr{Kind: ast.KindBool, Value: false}},
		{name: "null", src: "NULL", want: &ast.ValueExpr{Kind: ast.KindNull}},
		{name: "adjacent strings concatenate", src: "'a' 'b' \"c\"", want: str("abc")},
		{name: "doubled quote", src: "'it''s'", want: str("it's")},
		{name: "backslash escapes", src: `'a\nb\tc\\'`, want: str("a\nb\tc\\")},
		{name: "like escapes kept", src: `'\%\_'`, want: str(`\%\_`)},
		{name: "unknown escape drops backslash", src: `'\q'`, want: str("q")},
		{name: "hex", src: "X'4142'", want: &ast.ValueExpr{Kind: ast.KindHex, Value: []byte("AB"), Charset: charset.Binary, Collation: charset.Binary}},
		{name: "odd hex pads", src: "0x1", want: &ast.ValueExpr{Kind: ast.KindHex, Value: []byte{1}, Charset: charset.Binary, Collation: charset.Binary}},
		{name: "bit", src: "b'101'", want: &ast.ValueExpr{Kind: ast.KindBit, Value: []byte{5}, Charset: charset.Binary, Collation: charset.Binary}},
		{name: "wide bit", src: "0b100000001", want: &ast.ValueExpr{Kind: ast.KindBit, Value: []byte{1, 1}, Charset: charset.Binary, Collation: charset.Binary}},
		{name: "introducer", src: "_latin1'abc'", want: &ast.ValueExpr{Kind: ast.KindString, Value: "abc", Charset: "latin1", Collation: "latin1_swedish_ci"}},
		{name: "introducer on hex", src: "_utf8mb4 X'4142'", want: &ast.ValueExpr{Kind: ast.KindString, Value: "AB", Charset: "utf8mb4", Collation: "utf8mb4_0900_ai_ci"}},
		{name: "national string", src: "N'x'", want: &ast.ValueExpr{Kind: ast.KindString, Value: "x", Charset: "utf8mb3", Collation: "utf8mb3_general_ci"}},
		{name: "date literal", src: "DATE '2024-01-01'", want: &ast.FuncCallExpr{FnName: ast.DateLiteral, Args: []ast.ExprNode{str("2024-01-01")}}},
		{name: "timestamp literal", src: "TIMESTAMP '2024-01-01 00:00:00'", want: &ast.FuncCallExpr{FnName: ast.TimestampLiteral, Args: []ast.ExprNode{str("2024-01-01 00:00:00")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.src))
		})
	}
}

func TestLiteralsWithoutBackslashEscapes(t *testing.T) {
	got := parseExprMode(t, `'a\n'`, dialect.ModeNoBackslashEscapes)
	assert.Equal(t, str(`a\n`), got)
}

// ---------- Names and variables ----------

func TestNamesAndVariables(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.ExprNode
	}{
		{name: "column", src: "a", want: col("a")},
		{name: "qualified", src: "t.a", want: &ast.ColumnNameExpr{Name: &ast.ColumnName{Table: "t", Name: "a"}}},
		{name: "three parts", src: "s.t.a", want: &ast.ColumnNameExpr{Name: &ast.ColumnName{Schema: "s", Table: "t", Name: "a"}}},
		{name: "reserved word after dot", src: "t.select", want: &ast.ColumnNameExpr{Name: &ast.ColumnName{Table: "t", Name: "select"}}},
		{name: "quoted with escaped backtick", src: "`a``b`", want: col("a`b")},
		{name: "non-reserved keyword", src: "status", want: col("status")},
		{name: "user variable is lower-cased", src: "@X", want: &ast.VariableExpr{Name: "x"}},
		{name: "quoted user variable", src: "@'my var'", want: &ast.VariableExpr{Name: "my var"}},
		{name: "system variable", src: "@@sql_mode", want: &ast.VariableExpr{Name: "sql_mode", IsSystem: true}},
		{name: "global variable", src: "@@GLOBAL.max_connections", want: &ast.VariableExpr{Name: "max_connections", IsSystem: true, IsGlobal: true, ExplicitScope: true}},
		{name: "session variable", src: "@@session.x", want: &ast.VariableExpr{Name: "x", IsSystem: true, ExplicitScope: true}},
		{name: "local variable", src: "@@local.x", want: &ast.VariableExpr{Name: "x", IsSystem: true, ExplicitScope: true}},
		{name: "param markers in order", src: "? + ?", want: &ast.BinaryOperationExpr{Op: ast.Plus, L: &ast.ParamMarkerExpr{Order: 0}, R: &ast.ParamMarkerExpr{Order: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.src))
		})
	}
}

// ---------- Errors ----------

func TestExprErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		span *token.Span
	}{
		{name: "assign to system variable", src: "@@x := 1", want: parser.ErrAssignTarget, span: &token.Span{Start: 7, End: 8}},
		{name: "assign to column", src: "a := 1", want: parser.ErrAssignTarget, span: &token.Span{Start: 5, End: 6}},
		{name: "unknown cast type", src: "CAST(a AS bogus)", want: "`cast type`", span: &token.Span{Start: 10, End: 15}},
		{name: "unknown charset in convert", src: "CONVERT(a USING nope)", want: "Unsupported character introducer: 'nope'"},
		{name: "missing operand", src: "1 *", want: "expecting an operand", span: &token.Span{Start: 3, End: 3}},
		{name: "prefix without operand", src: "NOT", want: "expecting an operand", span: &token.Span{Start: 3, End: 3}},
		{name: "infix without lhs", src: "* 1", want: "missing lhs or rhs for the binary operator", span: &token.Span{Start: 0, End: 1}},
		{name: "consecutive infix", src: "1 +* 2", want: "missing lhs or rhs for the binary operator", span: &token.Span{Start: 3, End: 4}},
		{name: "postfix without operand", src: "IS NULL", want: "unable to parse the postfix operator", span: &token.Span{Start: 0, End: 2}},
		{name: "unclosed parenthesis", src: "(1 + 2", want: "`)`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := parser.Tokenize(tt.src)
			require.NoError(t, err)
			_, err = parser.ParseExpr(toks, dialect.MySQL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.span != nil {
				var pe *parser.ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, *tt.span, pe.Span)
			}
		})
	}
}
