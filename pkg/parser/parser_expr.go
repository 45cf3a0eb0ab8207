package parser

import (
	"errors"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/pratt"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Expressions.
//
// An expression is first cut into elements: operands, prefix operators,
// infix operators and postfix forms such as IS NULL or BETWEEN .. AND ..;
// the pratt engine then assembles the tree using binding powers from the
// dialect's operator table. Elements are collected greedily, so the engine
// may stop before the last one. Parsing then resumes at the first element it
// did not use.
//
// Grammar:
//
//	expr     → element+
//	element  → operand | prefix | infix | postfix
//	prefix   → NOT | "!" | "-" | "+" | "~" | BINARY
//	infix    → OR | "||" | XOR | AND | "&&" | cmp | "|" | "&" | "<<" | ">>"
//	         | "+" | "-" | "*" | "/" | DIV | "%" | MOD | "^" | ":="
//	postfix  → IS [NOT] (NULL | TRUE | FALSE | UNKNOWN)
//	         | [NOT] BETWEEN bit_expr AND bit_expr
//	         | [NOT] IN "(" (query | expr ("," expr)*) ")"
//	         | [NOT] LIKE bit_expr [ESCAPE bit_expr]
//	         | [NOT] (REGEXP | RLIKE) bit_expr
//	         | COLLATE (ident | string)
//	         | ("->" | "->>") string
//	         | cmp (ANY | SOME | ALL) "(" query ")"
//	cmp      → "=" | "<=>" | "<>" | "<" | "<=" | ">" | ">="
//	bit_expr → expr binding tighter than comparisons

type elemKind uint8

const (
	elemOperand elemKind = iota
	elemPrefix
	elemInfix
	elemPostfix
)

type element struct {
	kind    elemKind
	tok     token.Token // first token of the element
	prec    pratt.Precedence
	assoc   pratt.Associativity
	operand ast.ExprNode
	op      ast.Op
	postfix func(ast.ExprNode) (ast.ExprNode, error)
}

func (e *element) followsOperand() bool {
	return e != nil && (e.kind == elemOperand || e.kind == elemPostfix)
}

// exprBuilder is the pratt.Parser for SQL expressions.
type exprBuilder struct{}

func (exprBuilder) Query(e *element) (pratt.Affix, error) {
	switch e.kind {
	case elemOperand:
		return pratt.Operand(), nil
	case elemPrefix:
		return pratt.PrefixOp(e.prec), nil
	case elemInfix:
		return pratt.InfixOp(e.prec, e.assoc), nil
	default:
		return pratt.PostfixOp(e.prec), nil
	}
}

func (exprBuilder) Primary(e *element) (ast.ExprNode, error) {
	return e.operand, nil
}

func (exprBuilder) Prefix(e *element, rhs ast.ExprNode) (ast.ExprNode, error) {
	if e.tok.Kind == token.BINARY {
		return &ast.FuncCastExpr{
			Expr:         rhs,
			Tp:           &ast.FieldType{Tp: "binary", Flen: ast.UnspecifiedLength, Decimal: ast.UnspecifiedLength},
			FunctionType: ast.CastBinaryOperator,
		}, nil
	}
	return &ast.UnaryOperationExpr{Op: e.op, V: rhs}, nil
}

func (exprBuilder) Infix(lhs ast.ExprNode, e *element, rhs ast.ExprNode) (ast.ExprNode, error) {
	if e.tok.Kind == token.ASSIGN {
		v, ok := lhs.(*ast.VariableExpr)
		if !ok || v.IsSystem || v.Value != nil {
			return nil, errors.New(ErrAssignTarget)
		}
		return &ast.VariableExpr{Name: v.Name, Value: rhs}, nil
	}
	return &ast.BinaryOperationExpr{Op: e.op, L: lhs, R: rhs}, nil
}

func (exprBuilder) Postfix(lhs ast.ExprNode, e *element) (ast.ExprNode, error) {
	return e.postfix(lhs)
}

// Expr parses a complete expression.
func Expr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	return subexpr(0)(in)
}

// bitExpr parses an expression whose operators bind tighter than comparisons.
func bitExpr(in comb.Input) (comb.Input, ast.ExprNode, error) {
	return subexpr(dialect.PrecComparison)(in)
}

// subexpr parses an expression containing only operators that bind tighter
// than floor.
func subexpr(floor pratt.Precedence) comb.Parser[ast.ExprNode] {
	return func(in comb.Input) (comb.Input, ast.ExprNode, error) {
		start := in.Backtrace.Checkpoint()
		rest, elems, tail, err := elements(in, floor)
		if err != nil {
			return in, nil, err
		}

		// A + or - that does not follow an operand is unary.
		ops := in.Operators()
		for i, e := range elems {
			if e.kind != elemInfix || (e.tok.Kind != token.MINUS && e.tok.Kind != token.PLUS) {
				continue
			}
			if i > 0 && elems[i-1].followsOperand() {
				continue
			}
			b, _ := ops.Unary(e.tok.Kind)
			e.kind, e.prec = elemPrefix, b.Precedence
			e.op = ast.UnaryMinus
			if e.tok.Kind == token.PLUS {
				e.op = ast.UnaryPlus
			}
		}

		expr, used, err := pratt.ParseAbove[*element, ast.ExprNode](exprBuilder{}, elems, floor)
		if err != nil {
			if !in.Backtrace.Changed(tail) {
				// Everything recorded came from elements the engine
				// already judged.
				in.Backtrace.Restore(start)
			}
			return in, nil, prattFailure(in, rest, elems, err)
		}
		if used < len(elems) {
			// The unused elements were only candidates. Drop what they
			// recorded and continue from the first one.
			in.Backtrace.Clear()
			return in.Seek(elems[used].tok.Index), expr, nil
		}
		return rest, expr, nil
	}
}

// prattFailure locates an engine failure at the element it blames, or at
// the token after the last element.
func prattFailure(in, rest comb.Input, elems []*element, err error) error {
	var perr *pratt.Error
	if !errors.As(err, &perr) {
		return comb.AsError(in, err)
	}
	at := rest
	if idx, ok := perr.Blame(); ok {
		at = in.Seek(elems[idx].tok.Index)
	}
	return comb.Failf(at, at.Peek().Span, perr.Error(), perr)
}

// errStop ends element collection without recording a failure.
var errStop = errors.New("end of expression")

// elements collects the elements of an expression. The returned checkpoint
// precedes the attempt that ended the collection.
func elements(in comb.Input, floor pratt.Precedence) (comb.Input, []*element, comb.Checkpoint, error) {
	var (
		out  []*element
		prev *element
		cp   comb.Checkpoint
	)
	cur := in
	for {
		cp = cur.Backtrace.Checkpoint()
		next, e, err := parseElement(cur, prev, floor)
		if err == nil {
			// Whatever the element's alternatives recorded inside it is
			// stale now; it must not outrank a failure of the engine.
			cur.Backtrace.Settle(cp, next)
			out = append(out, e)
			prev = e
			cur = next
			continue
		}
		if comb.IsFatal(err) {
			return in, nil, cp, err
		}
		if ce, ok := err.(*comb.Error); err == errStop || (ok && ce.Pos == cur.Pos() && ce.Message == "") {
			// Nothing matched here. The lists of everything that could
			// have are noise.
			cur.Backtrace.Restore(cp)
			if len(out) == 0 {
				return in, nil, cp, comb.Fail(in, "expression")
			}
			break
		}
		if len(out) == 0 {
			return in, nil, cp, err
		}
		break
	}
	return cur, out, cp, nil
}

func parseElement(in comb.Input, prev *element, floor pratt.Precedence) (comb.Input, *element, error) {
	tok := in.Peek()
	ops := in.Operators()
	afterOperand := prev.followsOperand()

	var postfixErr error
	if afterOperand || tok.Kind != token.NOT {
		cp := in.Backtrace.Checkpoint()
		rest, e, err := postfixElement(in)
		if err == nil {
			if e.prec <= floor {
				in.Backtrace.Restore(cp)
				return in, nil, errStop
			}
			return rest, e, nil
		}
		if comb.IsFatal(err) {
			return in, nil, err
		}
		in.Backtrace.Restore(cp)
		postfixErr = err
	}

	// MOD is the function MOD(a, b) unless it follows an operand.
	if b, ok := ops.Binary(tok.Kind); ok && isInfixToken(tok.Kind) && (afterOperand || tok.Kind != token.MOD) {
		prec := b.Precedence
		if !afterOperand && (tok.Kind == token.MINUS || tok.Kind == token.PLUS) {
			prec = dialect.PrecUnary
		}
		if prec <= floor {
			return in, nil, errStop
		}
		return in.Advance(), &element{kind: elemInfix, tok: tok, prec: b.Precedence, assoc: b.Assoc, op: binaryOp(tok.Kind, ops)}, nil
	}

	if b, ok := ops.Unary(tok.Kind); ok {
		op := ast.Not
		switch tok.Kind {
		case token.EXCLAIM:
			op = ast.Not2
		case token.TILDE:
			op = ast.BitNeg
		}
		return in.Advance(), &element{kind: elemPrefix, tok: tok, prec: b.Precedence, op: op}, nil
	}

	rest, expr, err := primary(in)
	if err != nil {
		// A postfix form that got further explains the failure better.
		if pe, ok := postfixErr.(*comb.Error); ok && pe.Pos > comb.AsError(in, err).Pos {
			in.Backtrace.Record(pe)
			return in, nil, pe
		}
		return in, nil, err
	}
	return rest, &element{kind: elemOperand, tok: tok, operand: expr}, nil
}

// isInfixToken excludes the keywords the table lists for postfix forms.
func isInfixToken(k token.TokenType) bool {
	switch k {
	case token.IS, token.LIKE, token.REGEXP, token.RLIKE, token.IN, token.BETWEEN,
		token.COLLATE, token.ARROW, token.LONG_ARROW:
		return false
	}
	return true
}

func binaryOp(k token.TokenType, ops *dialect.OperatorTable) ast.Op {
	switch k {
	case token.OR:
		return ast.LogicOr
	case token.LOGICAL_OR:
		if ops.ConcatPipes() {
			return ast.Concat
		}
		return ast.LogicOr
	case token.XOR:
		return ast.LogicXor
	case token.AND, token.LOGICAL_AND:
		return ast.LogicAnd
	case token.EQ:
		return ast.EQ
	case token.NULL_SAFE_EQ:
		return ast.NullEQ
	case token.NE:
		return ast.NE
	case token.LT:
		return ast.LT
	case token.LE:
		return ast.LE
	case token.GT:
		return ast.GT
	case token.GE:
		return ast.GE
	case token.PIPE:
		return ast.BitOr
	case token.AMP:
		return ast.BitAnd
	case token.CARET:
		return ast.BitXor
	case token.LSHIFT:
		return ast.LeftShift
	case token.RSHIFT:
		return ast.RightShift
	case token.PLUS:
		return ast.Plus
	case token.MINUS:
		return ast.Minus
	case token.STAR:
		return ast.Mul
	case token.SLASH:
		return ast.Div
	case token.DIV:
		return ast.IntDiv
	case token.PERCENT, token.MOD:
		return ast.Mod
	}
	return 0
}

// ---------- Postfix forms ----------

func postfixElement(in comb.Input) (comb.Input, *element, error) {
	return comb.Alt[*element](
		isElement,
		negatable(token.BETWEEN, betweenTail),
		negatable(token.IN, inTail),
		negatable(token.LIKE, likeTail),
		negatable(token.REGEXP, regexpTail),
		negatable(token.RLIKE, regexpTail),
		collateElement,
		jsonElement,
		compareSubqueryElement,
	)(in)
}

type postfixTail func(in comb.Input, not bool) (comb.Input, func(ast.ExprNode) (ast.ExprNode, error), error)

// negatable parses [NOT] kw tail as one postfix element bound like kw.
func negatable(kw token.TokenType, tail postfixTail) comb.Parser[*element] {
	return func(in comb.Input) (comb.Input, *element, error) {
		start := in.Peek()
		cur := in
		not := false
		if start.Kind == token.NOT {
			not = true
			cur = cur.Advance()
		}
		cur, _, err := comb.Token(kw)(cur)
		if err != nil {
			return in, nil, err
		}
		rest, build, err := tail(cur, not)
		if err != nil {
			return in, nil, err
		}
		b, _ := in.Operators().Binary(kw)
		return rest, &element{kind: elemPostfix, tok: start, prec: b.Precedence, postfix: build}, nil
	}
}

func isElement(in comb.Input) (comb.Input, *element, error) {
	start := in.Peek()
	cur, _, err := comb.Token(token.IS)(in)
	if err != nil {
		return in, nil, err
	}
	cur, not, err := comb.Present(comb.Token(token.NOT))(cur)
	if err != nil {
		return in, nil, err
	}
	rest, what, err := comb.OneOf(token.NULL, token.UNKNOWN, token.TRUE, token.FALSE)(cur)
	if err != nil {
		return in, nil, err
	}
	build := func(lhs ast.ExprNode) (ast.ExprNode, error) {
		switch what.Kind {
		case token.NULL, token.UNKNOWN:
			return &ast.IsNullExpr{Expr: lhs, Not: not}, nil
		default:
			return &ast.IsTruthExpr{Expr: lhs, Not: not, True: what.Kind == token.TRUE}, nil
		}
	}
	b, _ := in.Operators().Binary(token.IS)
	return rest, &element{kind: elemPostfix, tok: start, prec: b.Precedence, postfix: build}, nil
}

func betweenTail(in comb.Input, not bool) (comb.Input, func(ast.ExprNode) (ast.ExprNode, error), error) {
	cur, lo, err := bitExpr(in)
	if err != nil {
		return in, nil, err
	}
	cur, _, err = comb.Token(token.AND)(cur)
	if err != nil {
		return in, nil, err
	}
	rest, hi, err := bitExpr(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, func(lhs ast.ExprNode) (ast.ExprNode, error) {
		return &ast.BetweenExpr{Expr: lhs, Left: lo, Right: hi, Not: not}, nil
	}, nil
}

func inTail(in comb.Input, not bool) (comb.Input, func(ast.ExprNode) (ast.ExprNode, error), error) {
	if rest, sub, err := subquery(in); err == nil {
		return rest, func(lhs ast.ExprNode) (ast.ExprNode, error) {
			return &ast.PatternInExpr{Expr: lhs, Sel: sub, Not: not}, nil
		}, nil
	} else if comb.IsFatal(err) {
		return in, nil, err
	}
	rest, list, err := comb.Parens(comb.CommaList1[ast.ExprNode](Expr))(in)
	if err != nil {
		return in, nil, err
	}
	return rest, func(lhs ast.ExprNode) (ast.ExprNode, error) {
		return &ast.PatternInExpr{Expr: lhs, List: list, Not: not}, nil
	}, nil
}

func likeTail(in comb.Input, not bool) (comb.Input, func(ast.ExprNode) (ast.ExprNode, error), error) {
	cur, pattern, err := bitExpr(in)
	if err != nil {
		return in, nil, err
	}
	rest, escape, err := comb.Opt(comb.Preceded[token.Token, ast.ExprNode](comb.Token(token.ESCAPE), bitExpr))(cur)
	if err != nil {
		return in, nil, err
	}
	return rest, func(lhs ast.ExprNode) (ast.ExprNode, error) {
		return &ast.PatternLikeExpr{Expr: lhs, Pattern: pattern, Escape: escape, Not: not}, nil
	}, nil
}

func regexpTail(in comb.Input, not bool) (comb.Input, func(ast.ExprNode) (ast.ExprNode, error), error) {
	rest, pattern, err := bitExpr(in)
	if err != nil {
		return in, nil, err
	}
	return rest, func(lhs ast.ExprNode) (ast.ExprNode, error) {
		return &ast.PatternRegexpExpr{Expr: lhs, Pattern: pattern, Not: not}, nil
	}, nil
}

// collationName parses a collation written as an identifier or a string and
// checks that it exists.
var collationName = comb.MapRes(
	comb.Alt[string](ident, StringLiteral),
	func(name string) (string, error) {
		if _, err := charset.CharsetOfCollation(name); err != nil {
			return "", err
		}
		return name, nil
	},
)

func collateElement(in comb.Input) (comb.Input, *element, error) {
	start := in.Peek()
	rest, name, err := comb.Preceded(comb.Token(token.COLLATE), collationName)(in)
	if err != nil {
		return in, nil, err
	}
	b, _ := in.Operators().Binary(token.COLLATE)
	return rest, &element{kind: elemPostfix, tok: start, prec: b.Precedence, postfix: func(lhs ast.ExprNode) (ast.ExprNode, error) {
		return &ast.SetCollationExpr{Expr: lhs, Collate: name}, nil
	}}, nil
}

// jsonElement turns col->'$.a' into json_extract and col->>'$.a' into
// json_unquote(json_extract(..)).
func jsonElement(in comb.Input) (comb.Input, *element, error) {
	start := in.Peek()
	cur, arrow, err := comb.OneOf(token.ARROW, token.LONG_ARROW)(in)
	if err != nil {
		return in, nil, err
	}
	rest, path, err := stringLiteral(cur)
	if err != nil {
		return in, nil, err
	}
	b, _ := in.Operators().Binary(arrow.Kind)
	return rest, &element{kind: elemPostfix, tok: start, prec: b.Precedence, postfix: func(lhs ast.ExprNode) (ast.ExprNode, error) {
		var out ast.ExprNode = &ast.FuncCallExpr{FnName: "json_extract", Args: []ast.ExprNode{lhs, path}}
		if arrow.Kind == token.LONG_ARROW {
			out = &ast.FuncCallExpr{FnName: "json_unquote", Args: []ast.ExprNode{out}}
		}
		return out, nil
	}}, nil
}

var comparisonOps = []token.TokenType{token.EQ, token.NULL_SAFE_EQ, token.NE, token.LT, token.LE, token.GT, token.GE}

func compareSubqueryElement(in comb.Input) (comb.Input, *element, error) {
	start := in.Peek()
	cur, cmp, err := comb.OneOf(comparisonOps...)(in)
	if err != nil {
		return in, nil, err
	}
	cur, quant, err := comb.OneOf(token.ANY, token.SOME, token.ALL)(cur)
	if err != nil {
		return in, nil, err
	}
	rest, sub, err := subquery(cur)
	if err != nil {
		return in, nil, err
	}
	ops := in.Operators()
	b, _ := ops.Binary(cmp.Kind)
	op := binaryOp(cmp.Kind, ops)
	return rest, &element{kind: elemPostfix, tok: start, prec: b.Precedence, postfix: func(lhs ast.ExprNode) (ast.ExprNode, error) {
		return &ast.CompareSubqueryExpr{L: lhs, Op: op, R: sub, All: quant.Kind == token.ALL}, nil
	}}, nil
}
