package parser

import (
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Windows.
//
// Grammar:
//
//	over_clause   → OVER (ident | "(" window_spec ")")
//	window_clause → WINDOW ident AS "(" window_spec ")" ("," ident AS "(" window_spec ")")*
//	window_spec   → [ident] [PARTITION BY expr ("," expr)*] [order_by] [frame]
//	frame         → (ROWS | RANGE | GROUPS) (BETWEEN bound AND bound | bound)
//	bound         → UNBOUNDED (PRECEDING | FOLLOWING) | CURRENT ROW
//	              | expr (PRECEDING | FOLLOWING)

func overClause(in comb.Input) (comb.Input, ast.WindowSpec, error) {
	cur, _, err := comb.Token(token.OVER)(in)
	if err != nil {
		return in, ast.WindowSpec{}, err
	}
	if cur.Peek().Kind != token.LPAREN {
		rest, name, err := ident(cur)
		if err != nil {
			return in, ast.WindowSpec{}, comb.Fail(cur, token.LPAREN.Describe(), "identifier")
		}
		return rest, ast.WindowSpec{Name: name, OnlyAlias: true}, nil
	}
	rest, spec, err := comb.Parens(windowSpec)(cur)
	if err != nil {
		return in, ast.WindowSpec{}, err
	}
	return rest, spec, nil
}

func windowSpec(in comb.Input) (comb.Input, ast.WindowSpec, error) {
	var spec ast.WindowSpec
	cur, ref, err := comb.Opt(ident)(in)
	if err != nil {
		return in, spec, err
	}
	spec.Ref = ref

	if cur.Peek().Kind == token.PARTITION {
		var items []*ast.ByItem
		cur, items, err = comb.Preceded(comb.Token(token.BY), comb.CommaList1(plainByItem))(cur.Advance())
		if err != nil {
			return in, spec, err
		}
		spec.PartitionBy = &ast.PartitionByClause{Items: items}
	}
	cur, spec.OrderBy, err = comb.Opt(orderByClause)(cur)
	if err != nil {
		return in, spec, err
	}
	cur, spec.Frame, err = comb.Opt(frameClause)(cur)
	if err != nil {
		return in, spec, err
	}
	return cur, spec, nil
}

func plainByItem(in comb.Input) (comb.Input, *ast.ByItem, error) {
	rest, x, err := Expr(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.ByItem{Expr: x}, nil
}

func frameClause(in comb.Input) (comb.Input, *ast.FrameClause, error) {
	cur, kind, err := comb.OneOf(token.ROWS, token.RANGE, token.GROUPS)(in)
	if err != nil {
		return in, nil, err
	}
	fc := &ast.FrameClause{Type: ast.Rows}
	switch kind.Kind {
	case token.RANGE:
		fc.Type = ast.Ranges
	case token.GROUPS:
		fc.Type = ast.Groups
	}

	if cur.Peek().Kind == token.BETWEEN {
		cur, fc.Extent.Start, err = frameBound(cur.Advance())
		if err != nil {
			return in, nil, err
		}
		cur, _, err = comb.Token(token.AND)(cur)
		if err != nil {
			return in, nil, err
		}
		cur, fc.Extent.End, err = frameBound(cur)
		if err != nil {
			return in, nil, err
		}
		return cur, fc, nil
	}

	cur, fc.Extent.Start, err = frameBound(cur)
	if err != nil {
		return in, nil, err
	}
	fc.Extent.End = ast.FrameBound{Type: ast.CurrentRow}
	return cur, fc, nil
}

func frameBound(in comb.Input) (comb.Input, ast.FrameBound, error) {
	direction := func(cur comb.Input) (comb.Input, ast.BoundType, error) {
		rest, tok, err := comb.OneOf(token.PRECEDING, token.FOLLOWING)(cur)
		if err != nil {
			return cur, 0, err
		}
		if tok.Kind == token.PRECEDING {
			return rest, ast.Preceding, nil
		}
		return rest, ast.Following, nil
	}

	switch in.Peek().Kind {
	case token.UNBOUNDED:
		rest, dir, err := direction(in.Advance())
		if err != nil {
			return in, ast.FrameBound{}, err
		}
		return rest, ast.FrameBound{Type: dir, UnBounded: true}, nil
	case token.CURRENT:
		rest, _, err := comb.Token(token.ROW)(in.Advance())
		if err != nil {
			return in, ast.FrameBound{}, err
		}
		return rest, ast.FrameBound{Type: ast.CurrentRow}, nil
	}

	cur, x, err := Expr(in)
	if err != nil {
		return in, ast.FrameBound{}, err
	}
	rest, dir, err := direction(cur)
	if err != nil {
		return in, ast.FrameBound{}, err
	}
	return rest, ast.FrameBound{Type: dir, Expr: x}, nil
}

// windowClause parses WINDOW w AS (...), ...
func windowClause(in comb.Input) (comb.Input, []ast.WindowSpec, error) {
	return comb.Preceded(comb.Token(token.WINDOW), comb.CommaList1(namedWindow))(in)
}

func namedWindow(in comb.Input) (comb.Input, ast.WindowSpec, error) {
	cur, name, err := ident(in)
	if err != nil {
		return in, ast.WindowSpec{}, err
	}
	cur, _, err = comb.Token(token.AS)(cur)
	if err != nil {
		return in, ast.WindowSpec{}, err
	}
	rest, spec, err := comb.Parens(windowSpec)(cur)
	if err != nil {
		return in, ast.WindowSpec{}, err
	}
	spec.Name = name
	return rest, spec, nil
}
