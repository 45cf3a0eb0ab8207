// Package parser turns MySQL-dialect SQL text into an ast tree.
//
// # Usage
//
//	stmt, err := parser.ParseSQL("SELECT a, b FROM t", parser.Options{Dialect: dialect.MySQL})
//	if err != nil {
//	    var pe *parser.ParseError
//	    if errors.As(err, &pe) {
//	        fmt.Print(pe.DisplayWithSource(sql))
//	    }
//	}
//
// Lexing and parsing are separate steps: Tokenize produces the token stream
// and Parse, ParseStatements or Run apply a grammar to it. The grammar rules
// are comb parsers and may be run on their own, for example Expr.
//
// # Grammar Overview
//
//	statement   → query [";"] EOI
//	query       → [WITH [RECURSIVE] cte_list] set_expr
//	set_expr    → set_operand ((UNION|EXCEPT|INTERSECT) [ALL|DISTINCT] set_operand)*
//	              [ORDER BY order_list] [LIMIT limit]
//	set_operand → select | "(" query ")"
//	select      → SELECT select_opts field_list [FROM table_refs] [WHERE expr]
//	              [GROUP BY by_list [WITH ROLLUP]] [HAVING expr] [WINDOW window_list]
//	              [ORDER BY order_list] [LIMIT limit]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Options configure a parse run.
type Options struct {
	// Dialect is required.
	Dialect *dialect.Dialect
	// Mode is OR-ed with the dialect's default mode.
	Mode dialect.SQLMode
	// AllowPartial accepts a grammar match that stops before the end of
	// input.
	AllowPartial bool
	// Charset and Collation override the connection defaults used for
	// string literals.
	Charset   string
	Collation string
}

// Run applies grammar to tokens. Failures are returned as *ParseError
// located at the furthest point any alternative reached.
func Run[T any](tokens []token.Token, opts Options, grammar comb.Parser[T]) (T, error) {
	var zero T
	if opts.Dialect == nil {
		return zero, dialect.ErrDialectRequired
	}
	in := comb.NewInput(tokens, opts.Dialect, opts.Mode)
	src := in.Stream[len(in.Stream)-1].Source
	if opts.Charset != "" || opts.Collation != "" {
		cs, collation, err := connectionCharset(opts.Charset, opts.Collation)
		if err != nil {
			pe := newParseError(src, token.Span{}, err.Error())
			pe.Cause = err
			return zero, pe
		}
		in.Charset, in.Collation = cs, collation
	}

	rest, v, err := grammar(in)
	if err != nil {
		return zero, toParseError(src, in, err)
	}
	if !opts.AllowPartial && !rest.AtEOI() {
		// An alternative that got past rest explains the leftover better.
		if best := in.Backtrace.Best(); best != nil && best.Pos > rest.Pos() {
			return zero, newParseError(src, best.Span, best.Describe())
		}
		return zero, newParseError(src, rest.Peek().Span, ErrRestOfInput)
	}
	return v, nil
}

func connectionCharset(cs, collation string) (string, string, error) {
	if cs == "" {
		owner, err := charset.CharsetOfCollation(collation)
		if err != nil {
			return "", "", err
		}
		return owner, collation, nil
	}
	c, err := charset.Lookup(cs)
	if err != nil {
		return "", "", err
	}
	if collation == "" {
		return c.Name, c.DefaultCollation, nil
	}
	if err := charset.ValidatePair(c.Name, collation); err != nil {
		return "", "", err
	}
	return c.Name, collation, nil
}

// toParseError picks the failure to report: a fatal diagnostic as is,
// otherwise whichever of err and the backtrace got further.
func toParseError(src string, in comb.Input, err error) *ParseError {
	e := comb.AsError(in, err)
	if best := in.Backtrace.Best(); best != nil && best.Pos >= e.Pos && !(e.Fatal && e.Message != "") {
		e = best
	}
	return newParseError(src, e.Span, e.Describe())
}

// Parse parses exactly one statement.
func Parse(tokens []token.Token, d *dialect.Dialect) (ast.StmtNode, error) {
	return Run[ast.StmtNode](tokens, Options{Dialect: d}, Statement)
}

// ParseStatements parses a semicolon-separated script.
func ParseStatements(tokens []token.Token, d *dialect.Dialect) ([]ast.StmtNode, error) {
	return Run[[]ast.StmtNode](tokens, Options{Dialect: d}, Statements)
}

// ParseExpr parses a standalone expression.
func ParseExpr(tokens []token.Token, d *dialect.Dialect) (ast.ExprNode, error) {
	return Run[ast.ExprNode](tokens, Options{Dialect: d}, Expr)
}

// ParseSQL lexes src under the options' SQL mode and parses one statement.
func ParseSQL(src string, opts Options) (ast.StmtNode, error) {
	tokens, err := lexFor(src, opts)
	if err != nil {
		return nil, err
	}
	return Run[ast.StmtNode](tokens, opts, Statement)
}

// ParseScript lexes src and parses every statement in it.
func ParseScript(src string, opts Options) ([]ast.StmtNode, error) {
	tokens, err := lexFor(src, opts)
	if err != nil {
		return nil, err
	}
	return Run[[]ast.StmtNode](tokens, opts, Statements)
}

func lexFor(src string, opts Options) ([]token.Token, error) {
	if opts.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	tokens, _, err := Lex(src, opts.Dialect.EffectiveMode(opts.Mode))
	return tokens, err
}
