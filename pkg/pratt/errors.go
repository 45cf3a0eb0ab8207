package pratt

// ErrorKind classifies a structural failure of the engine.
type ErrorKind uint8

// Error kinds.
const (
	// EmptyInput: an operand was required but the items ran out.
	EmptyInput ErrorKind = iota
	// UnexpectedNilfix: an operand appeared where an operator was required.
	UnexpectedNilfix
	// UnexpectedPrefix: a prefix operator appeared where an operator was required.
	UnexpectedPrefix
	// UnexpectedInfix: an infix operator has no left-hand operand.
	UnexpectedInfix
	// UnexpectedPostfix: a postfix operator has no operand to apply to.
	UnexpectedPostfix
	// UserError: a callback rejected the item.
	UserError
)

// Error is returned by Parse. Consumed counts the items taken from the input
// when the failure happened; the item to blame is Consumed-1, unless
// Exhausted is set and the failure is EmptyInput, in which case the blame
// lies just past the input.
type Error struct {
	Kind      ErrorKind
	Consumed  int
	Exhausted bool
	Cause     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case EmptyInput:
		return "expecting an operand"
	case UnexpectedNilfix:
		return "unable to parse the element"
	case UnexpectedPrefix:
		return "unable to parse the prefix operator"
	case UnexpectedInfix:
		return "missing lhs or rhs for the binary operator"
	case UnexpectedPostfix:
		return "unable to parse the postfix operator"
	default:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return "invalid expression"
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Blame returns the index of the item responsible for the failure, and false
// when the failure sits at the boundary after the last item.
func (e *Error) Blame() (int, bool) {
	if (e.Kind == EmptyInput && e.Exhausted) || e.Consumed == 0 {
		return 0, false
	}
	return e.Consumed - 1, true
}
