package dialect

import (
	"github.com/leapstack-labs/sqlfront/pkg/pratt"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// MySQL operator precedence, lowest first.
const (
	PrecAssign     pratt.Precedence = 5
	PrecOr         pratt.Precedence = 10
	PrecXor        pratt.Precedence = 20
	PrecAnd        pratt.Precedence = 30
	PrecNot        pratt.Precedence = 40
	PrecBetween    pratt.Precedence = 50
	PrecComparison pratt.Precedence = 60
	PrecBitOr      pratt.Precedence = 70
	PrecBitAnd     pratt.Precedence = 80
	PrecShift      pratt.Precedence = 90
	PrecAdditive   pratt.Precedence = 100
	PrecMultiply   pratt.Precedence = 110
	PrecBitXor     pratt.Precedence = 120
	PrecConcat     pratt.Precedence = 125
	PrecUnary      pratt.Precedence = 130
	PrecHighNot    pratt.Precedence = 140
	PrecCollate    pratt.Precedence = 150
)

// Binding is the table entry of one operator.
type Binding struct {
	Precedence pratt.Precedence
	Assoc      pratt.Associativity
}

// OperatorTable maps operator tokens to their binding. Binary holds infix
// operators and the postfix forms keyed by their leading keyword.
type OperatorTable struct {
	binary map[token.TokenType]Binding
	unary  map[token.TokenType]Binding
}

// Binary returns the binding of an infix or postfix operator.
func (t *OperatorTable) Binary(tok token.TokenType) (Binding, bool) {
	b, ok := t.binary[tok]
	return b, ok
}

// Unary returns the binding of a prefix operator.
func (t *OperatorTable) Unary(tok token.TokenType) (Binding, bool) {
	b, ok := t.unary[tok]
	return b, ok
}

// ConcatPipes reports whether || is string concatenation in this table.
func (t *OperatorTable) ConcatPipes() bool {
	return t.binary[token.LOGICAL_OR].Precedence == PrecConcat
}

func buildOperatorTable(mode SQLMode) *OperatorTable {
	left := func(p pratt.Precedence) Binding { return Binding{Precedence: p, Assoc: pratt.Left} }

	t := &OperatorTable{
		binary: map[token.TokenType]Binding{
			token.ASSIGN:       {Precedence: PrecAssign, Assoc: pratt.Right},
			token.OR:           left(PrecOr),
			token.LOGICAL_OR:   left(PrecOr),
			token.XOR:          left(PrecXor),
			token.AND:          left(PrecAnd),
			token.LOGICAL_AND:  left(PrecAnd),
			token.BETWEEN:      left(PrecBetween),
			token.EQ:           left(PrecComparison),
			token.NULL_SAFE_EQ: left(PrecComparison),
			token.NE:           left(PrecComparison),
			token.LT:           left(PrecComparison),
			token.LE:           left(PrecComparison),
			token.GT:           left(PrecComparison),
			token.GE:           left(PrecComparison),
			token.IS:           left(PrecComparison),
			token.LIKE:         left(PrecComparison),
			token.REGEXP:       left(PrecComparison),
			token.RLIKE:        left(PrecComparison),
			token.IN:           left(PrecComparison),
			token.PIPE:         left(PrecBitOr),
			token.AMP:          left(PrecBitAnd),
			token.LSHIFT:       left(PrecShift),
			token.RSHIFT:       left(PrecShift),
			token.PLUS:         left(PrecAdditive),
			token.MINUS:        left(PrecAdditive),
			token.STAR:         left(PrecMultiply),
			token.SLASH:        left(PrecMultiply),
			token.DIV:          left(PrecMultiply),
			token.PERCENT:      left(PrecMultiply),
			token.MOD:          left(PrecMultiply),
			token.CARET:        left(PrecBitXor),
			token.COLLATE:      left(PrecCollate),
			token.ARROW:        left(PrecCollate),
			token.LONG_ARROW:   left(PrecCollate),
		},
		unary: map[token.TokenType]Binding{
			token.NOT:     {Precedence: PrecNot},
			token.MINUS:   {Precedence: PrecUnary},
			token.PLUS:    {Precedence: PrecUnary},
			token.TILDE:   {Precedence: PrecUnary},
			token.EXCLAIM: {Precedence: PrecHighNot},
			token.BINARY:  {Precedence: PrecCollate},
		},
	}
	if mode.Has(ModePipesAsConcat) {
		t.binary[token.LOGICAL_OR] = left(PrecConcat)
	}
	if mode.Has(ModeHighNotPrecedence) {
		t.unary[token.NOT] = Binding{Precedence: PrecHighNot}
	}
	return t
}
