package ast

// Op is the operator of a unary or binary operation expression.
type Op int

// Operators.
const (
	LogicAnd Op = iota + 1
	LogicOr
	LogicXor
	EQ
	NullEQ
	NE
	LT
	LE
	GT
	GE
	Plus
	Minus
	Mul
	Div
	IntDiv
	Mod
	BitAnd
	BitOr
	BitXor
	LeftShift
	RightShift
	Concat
	Not
	Not2 // the ! form of NOT
	BitNeg
	UnaryPlus
	UnaryMinus
)

var opText = map[Op]string{
	LogicAnd:   "AND",
	LogicOr:    "OR",
	LogicXor:   "XOR",
	EQ:         "=",
	NullEQ:     "<=>",
	NE:         "!=",
	LT:         "<",
	LE:         "<=",
	GT:         ">",
	GE:         ">=",
	Plus:       "+",
	Minus:      "-",
	Mul:        "*",
	Div:        "/",
	IntDiv:     "DIV",
	Mod:        "%",
	BitAnd:     "&",
	BitOr:      "|",
	BitXor:     "^",
	LeftShift:  "<<",
	RightShift: ">>",
	Concat:     "||",
	Not:        "NOT",
	Not2:       "!",
	BitNeg:     "~",
	UnaryPlus:  "+",
	UnaryMinus: "-",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsComparison reports whether o is one of the six comparisons or <=>.
func (o Op) IsComparison() bool {
	switch o {
	case EQ, NullEQ, NE, LT, LE, GT, GE:
		return true
	}
	return false
}
