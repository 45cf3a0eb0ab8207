package parser

import (
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Identifiers, dotted names and variables.
//
// Grammar:
//
//	ident        → IDENT | QUOTED_IDENT | non_reserved_keyword | DQ_STRING (ANSI_QUOTES)
//	table_name   → ident ["." ident]
//	column_name  → ident ["." ident ["." ident]]
//	variable     → AT_AT_IDENT | AT_IDENT

type identPolicy uint8

const (
	plainIdent identPolicy = iota
	afterAsIdent
	afterDotIdent
)

func identWith(policy identPolicy) comb.Parser[string] {
	return func(in comb.Input) (comb.Input, string, error) {
		tok := in.Peek()
		switch {
		case tok.Kind == token.IDENT:
			return in.Advance(), tok.Text(), nil
		case tok.Kind == token.QUOTED_IDENT:
			return in.Advance(), unquote(tok.Text(), '`'), nil
		case tok.Kind == token.DQ_STRING && in.Mode.Has(dialect.ModeANSIQuotes):
			return in.Advance(), unquote(tok.Text(), '"'), nil
		case tok.Kind.IsKeyword():
			// Any keyword may follow a dot: t.select is a column.
			if policy == afterDotIdent || !tok.Kind.IsReservedIdent(policy == afterAsIdent) {
				return in.Advance(), tok.Text(), nil
			}
		}
		return in, "", comb.Fail(in, "identifier")
	}
}

var (
	ident      = identWith(plainIdent)
	identAfter = identWith(afterAsIdent)
	identDot   = identWith(afterDotIdent)
)

// unquote strips the surrounding quote characters and collapses doubled
// quotes inside.
func unquote(s string, q byte) string {
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		s = s[1 : len(s)-1]
	}
	d := string([]byte{q, q})
	return strings.ReplaceAll(s, d, d[:1])
}

// dottedName parses one to maxParts dot-separated identifier parts.
func dottedName(maxParts int) comb.Parser[[]string] {
	return func(in comb.Input) (comb.Input, []string, error) {
		rest, first, err := ident(in)
		if err != nil {
			return in, nil, err
		}
		parts := []string{first}
		for len(parts) < maxParts && rest.Peek().Kind == token.DOT {
			next, part, err := identDot(rest.Advance())
			if err != nil {
				return in, nil, err
			}
			parts = append(parts, part)
			rest = next
		}
		return rest, parts, nil
	}
}

// TableName parses a 1- or 2-part table name.
func TableName(in comb.Input) (comb.Input, *ast.TableName, error) {
	rest, parts, err := dottedName(2)(in)
	if err != nil {
		return in, nil, err
	}
	if len(parts) == 1 {
		return rest, &ast.TableName{Name: parts[0]}, nil
	}
	return rest, &ast.TableName{Schema: parts[0], Name: parts[1]}, nil
}

// ColumnName parses a 1-, 2- or 3-part column name.
func ColumnName(in comb.Input) (comb.Input, *ast.ColumnName, error) {
	rest, parts, err := dottedName(3)(in)
	if err != nil {
		return in, nil, err
	}
	switch len(parts) {
	case 1:
		return rest, &ast.ColumnName{Name: parts[0]}, nil
	case 2:
		return rest, &ast.ColumnName{Table: parts[0], Name: parts[1]}, nil
	default:
		return rest, &ast.ColumnName{Schema: parts[0], Table: parts[1], Name: parts[2]}, nil
	}
}

// Variable parses a user or system variable reference.
//
// System variables are lower-cased. @@global.x is global with an explicit
// scope, @@session.x and @@local.x are session-scoped with an explicit
// scope, and a bare @@x has an implicit scope that defaults to session.
// User variables are never system-scoped.
func Variable(in comb.Input) (comb.Input, *ast.VariableExpr, error) {
	tok := in.Peek()
	switch tok.Kind {
	case token.AT_AT_IDENT:
		return in.Advance(), systemVariable(tok.Text()[2:]), nil
	case token.AT_IDENT:
		name := tok.Text()[1:]
		if name != "" {
			switch name[0] {
			case '\'', '"', '`':
				name = unquote(name, name[0])
			}
		}
		return in.Advance(), &ast.VariableExpr{Name: strings.ToLower(name)}, nil
	}
	return in, nil, comb.Fail(in, token.AT_IDENT.Describe(), token.AT_AT_IDENT.Describe())
}

func systemVariable(name string) *ast.VariableExpr {
	name = strings.ToLower(name)
	v := &ast.VariableExpr{IsSystem: true}
	scope, rest, ok := strings.Cut(name, ".")
	switch {
	case ok && scope == "global":
		v.IsGlobal, v.ExplicitScope, name = true, true, rest
	case ok && (scope == "session" || scope == "local"):
		v.ExplicitScope, name = true, rest
	}
	v.Name = name
	return v
}
