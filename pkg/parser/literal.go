package parser

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/comb"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Literals.
//
// Grammar:
//
//	literal      → INT_LITERAL | DECIMAL_LITERAL | FLOAT_LITERAL
//	             | string+ | HEX_LITERAL | BIT_LITERAL
//	             | TRUE | FALSE | NULL
//	             | introducer (string | HEX_LITERAL | BIT_LITERAL)
//	             | N string | (DATE | TIME | TIMESTAMP) string
//	introducer   → IDENT starting with "_", naming a charset

var errIntegerRange = errors.New(ErrIntegerRange)

// Literal parses any literal value.
func Literal(in comb.Input) (comb.Input, ast.ExprNode, error) {
	return comb.Alt[ast.ExprNode](
		introduced,
		numberLiteral,
		stringLiteral,
		binaryLiteral,
		keywordLiteral,
		temporalLiteral,
	)(in)
}

var numberLiteral = comb.MapRes(
	comb.OneOf(token.INT_LITERAL, token.DECIMAL_LITERAL, token.FLOAT_LITERAL),
	func(tok token.Token) (ast.ExprNode, error) {
		text := tok.Text()
		switch tok.Kind {
		case token.INT_LITERAL:
			v, err := strconv.ParseUint(text, 10, 64)
			if err != nil {
				return nil, errIntegerRange
			}
			return &ast.ValueExpr{Kind: ast.KindInt, Value: v}, nil
		case token.DECIMAL_LITERAL:
			return &ast.ValueExpr{Kind: ast.KindDecimal, Value: text}, nil
		default:
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%s is out of range for DOUBLE", text)
			}
			return &ast.ValueExpr{Kind: ast.KindFloat, Value: f}, nil
		}
	},
)

// stringParts matches one or more adjacent string tokens, which MySQL
// concatenates.
func stringParts(in comb.Input) (comb.Input, string, error) {
	isString := func(k token.TokenType) bool {
		return k == token.STRING || (k == token.DQ_STRING && !in.Mode.Has(dialect.ModeANSIQuotes))
	}
	if !isString(in.Peek().Kind) {
		return in, "", comb.Fail(in, token.STRING.Describe())
	}
	var b strings.Builder
	for isString(in.Peek().Kind) {
		b.WriteString(unescape(in.Peek().Text(), in.Mode))
		in = in.Advance()
	}
	return in, b.String(), nil
}

// StringLiteral parses a single string value, without introducer.
func StringLiteral(in comb.Input) (comb.Input, string, error) {
	return stringParts(in)
}

func stringLiteral(in comb.Input) (comb.Input, ast.ExprNode, error) {
	rest, s, err := stringParts(in)
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.ValueExpr{Kind: ast.KindString, Value: s, Charset: in.Charset, Collation: in.Collation}, nil
}

var binaryLiteral = comb.MapRes(
	comb.OneOf(token.HEX_LITERAL, token.BIT_LITERAL),
	func(tok token.Token) (ast.ExprNode, error) {
		b, err := decodeBinary(tok)
		if err != nil {
			return nil, err
		}
		kind := ast.KindHex
		if tok.Kind == token.BIT_LITERAL {
			kind = ast.KindBit
		}
		return &ast.ValueExpr{Kind: kind, Value: b, Charset: charset.Binary, Collation: charset.Binary}, nil
	},
)

func keywordLiteral(in comb.Input) (comb.Input, ast.ExprNode, error) {
	switch in.Peek().Kind {
	case token.TRUE:
		return in.Advance(), &ast.ValueExpr{Kind: ast.KindBool, Value: true}, nil
	case token.FALSE:
		return in.Advance(), &ast.ValueExpr{Kind: ast.KindBool, Value: false}, nil
	case token.NULL:
		return in.Advance(), &ast.ValueExpr{Kind: ast.KindNull}, nil
	}
	return in, nil, comb.Fail(in, "TRUE", "FALSE", "NULL")
}

// temporalLiteral parses DATE 'x', TIME 'x' and TIMESTAMP 'x'.
func temporalLiteral(in comb.Input) (comb.Input, ast.ExprNode, error) {
	var fn string
	switch in.Peek().Kind {
	case token.DATE:
		fn = ast.DateLiteral
	case token.TIME:
		fn = ast.TimeLiteral
	case token.TIMESTAMP:
		fn = ast.TimestampLiteral
	default:
		return in, nil, comb.Fail(in, "DATE", "TIME", "TIMESTAMP")
	}
	rest, v, err := stringLiteral(in.Advance())
	if err != nil {
		return in, nil, err
	}
	return rest, &ast.FuncCallExpr{FnName: fn, Args: []ast.ExprNode{v}}, nil
}

// introduced parses _charset'text', _charset X'..' and N'text'.
func introduced(in comb.Input) (comb.Input, ast.ExprNode, error) {
	tok := in.Peek()
	next := in.PeekAt(1)
	if tok.Kind != token.IDENT {
		return in, nil, comb.Fail(in, "charset introducer")
	}
	name := tok.Text()
	switch next.Kind {
	case token.STRING, token.HEX_LITERAL, token.BIT_LITERAL:
	default:
		return in, nil, comb.Fail(in, "charset introducer")
	}

	var cs string
	switch {
	case strings.EqualFold(name, "N") && next.Kind == token.STRING && tok.Span.End == next.Span.Start:
		cs = "utf8mb3"
	case strings.HasPrefix(name, "_") && len(name) > 1:
		cs = strings.ToLower(name[1:])
		if _, err := charset.Lookup(cs); err != nil {
			// _name 'x' with a space may be a column and an alias.
			if tok.Span.End != next.Span.Start {
				return in, nil, comb.Fail(in, "charset introducer")
			}
			return in, nil, commitFailure(comb.Failf(in, tok.Span.Merge(next.Span), err.Error(), err))
		}
	default:
		return in, nil, comb.Fail(in, "charset introducer")
	}

	return comb.Cut(comb.MapRes(
		comb.Preceded(comb.Token(token.IDENT), comb.OneOf(token.STRING, token.HEX_LITERAL, token.BIT_LITERAL)),
		func(lit token.Token) (ast.ExprNode, error) {
			collation, err := charset.DefaultCollationFor(cs)
			if err != nil {
				return nil, err
			}
			if lit.Kind != token.STRING {
				b, err := decodeBinary(lit)
				if err != nil {
					return nil, err
				}
				return &ast.ValueExpr{Kind: ast.KindString, Value: string(b), Charset: cs, Collation: collation}, nil
			}
			s := unescape(lit.Text(), in.Mode)
			c, _ := charset.Lookup(cs)
			if !c.CanEncode(s) {
				return nil, fmt.Errorf("Invalid %s character string: '%s'", cs, s)
			}
			return &ast.ValueExpr{Kind: ast.KindString, Value: s, Charset: cs, Collation: collation}, nil
		},
	))(in)
}

func commitFailure(e *comb.Error) *comb.Error {
	c := *e
	c.Fatal = true
	return &c
}

// decodeBinary turns 0x.., X'..', 0b.. and B'..' into bytes.
func decodeBinary(tok token.Token) ([]byte, error) {
	text := tok.Text()
	var digits string
	quoted := false
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0b"):
		digits = text[2:]
	default:
		digits = text[2 : len(text)-1]
		quoted = true
	}

	if tok.Kind == token.HEX_LITERAL {
		if len(digits)%2 == 1 {
			if quoted {
				return nil, fmt.Errorf("hex literal %s must have an even number of digits", text)
			}
			digits = "0" + digits
		}
		return hex.DecodeString(digits)
	}

	if digits == "" {
		return []byte{}, nil
	}
	n, ok := new(big.Int).SetString(digits, 2)
	if !ok {
		return nil, fmt.Errorf("invalid bit literal %s", text)
	}
	b := n.Bytes()
	if want := (len(digits) + 7) / 8; len(b) < want {
		b = append(make([]byte, want-len(b)), b...)
	}
	return b, nil
}

// unescape strips the quotes of a string token and resolves escapes.
func unescape(text string, mode dialect.SQLMode) string {
	q := text[0]
	body := text[1 : len(text)-1]
	if mode.Has(dialect.ModeNoBackslashEscapes) || !strings.ContainsRune(body, '\\') {
		return strings.ReplaceAll(body, string([]byte{q, q}), string(q))
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == q && i+1 < len(body) && body[i+1] == q:
			b.WriteByte(q)
			i++
		case c == '\\' && i+1 < len(body):
			i++
			switch e := body[i]; e {
			case '0':
				b.WriteByte(0)
			case 'b':
				b.WriteByte('\b')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'Z':
				b.WriteByte(0x1a)
			case '%', '_':
				// Kept escaped for LIKE patterns.
				b.WriteByte('\\')
				b.WriteByte(e)
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
