// Package pratt implements a table-driven operator-precedence parser.
//
// The engine knows nothing about SQL. Callers describe every input item
// through Query, which returns the item's fixity, binding power and
// associativity, and supply the callbacks that build output values. The
// engine consumes a maximal valid prefix of the items and reports how many it
// used, so a caller embedding it in a larger grammar can resume after it.
package pratt

import "math"

// Associativity of an infix operator.
type Associativity uint8

// Associativity kinds.
const (
	Left Associativity = iota
	Right
	Neither
)

// Precedence is the user-facing binding power of an operator. Higher binds
// tighter.
type Precedence uint32

// Fixity describes how an item combines with its neighbours.
type Fixity uint8

// Fixities.
const (
	Nilfix Fixity = iota // operand
	Prefix
	Infix
	Postfix
)

func (f Fixity) String() string {
	switch f {
	case Nilfix:
		return "nilfix"
	case Prefix:
		return "prefix"
	case Infix:
		return "infix"
	default:
		return "postfix"
	}
}

// Affix is the table entry for one item.
type Affix struct {
	Fixity     Fixity
	Precedence Precedence
	Assoc      Associativity
}

// Operand returns the affix of an operand.
func Operand() Affix { return Affix{Fixity: Nilfix} }

// PrefixOp returns a prefix affix.
func PrefixOp(p Precedence) Affix { return Affix{Fixity: Prefix, Precedence: p} }

// InfixOp returns an infix affix.
func InfixOp(p Precedence, a Associativity) Affix {
	return Affix{Fixity: Infix, Precedence: p, Assoc: a}
}

// PostfixOp returns a postfix affix.
func PostfixOp(p Precedence) Affix { return Affix{Fixity: Postfix, Precedence: p} }

// Parser supplies the table lookup and the tree-building callbacks.
type Parser[I, O any] interface {
	Query(item I) (Affix, error)
	Primary(item I) (O, error)
	Infix(lhs O, op I, rhs O) (O, error)
	Prefix(op I, rhs O) (O, error)
	Postfix(lhs O, op I) (O, error)
}

// bindingPower is the internal, normalised precedence. Normalising by ten
// leaves room for the +1/-1 nudges that encode associativity.
type bindingPower uint32

const (
	minBP bindingPower = 0
	maxBP bindingPower = math.MaxUint32
)

func normalize(p Precedence) bindingPower { return bindingPower(p) * 10 }

func (bp bindingPower) lower() bindingPower {
	if bp == minBP {
		return bp
	}
	return bp - 1
}

func (bp bindingPower) raise() bindingPower {
	if bp == maxBP {
		return bp
	}
	return bp + 1
}

// stream is a peekable cursor that counts consumed items.
type stream[I any] struct {
	items    []I
	consumed int
}

func (s *stream[I]) next() (I, bool) {
	var zero I
	if s.consumed >= len(s.items) {
		return zero, false
	}
	it := s.items[s.consumed]
	s.consumed++
	return it, true
}

func (s *stream[I]) peek() (I, bool) {
	var zero I
	if s.consumed >= len(s.items) {
		return zero, false
	}
	return s.items[s.consumed], true
}

// Parse runs the engine over items and returns the output together with the
// number of items consumed. On failure the returned *Error records which item
// is to blame.
func Parse[I, O any](p Parser[I, O], items []I) (O, int, error) {
	return ParseAbove(p, items, 0)
}

// ParseAbove is Parse with a minimum precedence: operators binding no tighter
// than floor are left unconsumed.
func ParseAbove[I, O any](p Parser[I, O], items []I, floor Precedence) (O, int, error) {
	e := engine[I, O]{p: p, in: &stream[I]{items: items}}
	rbp := minBP
	if floor > 0 {
		rbp = normalize(floor)
	}
	out, err := e.parseInput(rbp)
	return out, e.in.consumed, err
}

type engine[I, O any] struct {
	p  Parser[I, O]
	in *stream[I]
}

func (e *engine[I, O]) fail(kind ErrorKind, cause error) error {
	return &Error{Kind: kind, Consumed: e.in.consumed, Exhausted: e.in.consumed >= len(e.in.items), Cause: cause}
}

func (e *engine[I, O]) parseInput(rbp bindingPower) (O, error) {
	var zero O
	head, ok := e.in.next()
	if !ok {
		return zero, e.fail(EmptyInput, nil)
	}
	info, err := e.p.Query(head)
	if err != nil {
		return zero, e.fail(UserError, err)
	}
	nbp := e.nbp(info)
	lhs, err := e.nud(head, info)
	if err != nil {
		return zero, err
	}
	for {
		tail, ok := e.in.peek()
		if !ok {
			break
		}
		info, err := e.p.Query(tail)
		if err != nil {
			return zero, e.fail(UserError, err)
		}
		lbp := e.lbp(info)
		if !(rbp < lbp && lbp < nbp) {
			break
		}
		e.in.next()
		nbp = e.nbp(info)
		lhs, err = e.led(tail, info, lhs)
		if err != nil {
			return zero, err
		}
	}
	return lhs, nil
}

// nud handles an item in head position.
func (e *engine[I, O]) nud(head I, info Affix) (O, error) {
	var zero O
	switch info.Fixity {
	case Prefix:
		rhs, err := e.parseInput(normalize(info.Precedence).lower())
		if err != nil {
			return zero, err
		}
		out, err := e.p.Prefix(head, rhs)
		if err != nil {
			return zero, e.fail(UserError, err)
		}
		return out, nil
	case Nilfix:
		out, err := e.p.Primary(head)
		if err != nil {
			return zero, e.fail(UserError, err)
		}
		return out, nil
	case Postfix:
		return zero, e.fail(UnexpectedPostfix, nil)
	default:
		return zero, e.fail(UnexpectedInfix, nil)
	}
}

// led handles an item in operator position after lhs.
func (e *engine[I, O]) led(op I, info Affix, lhs O) (O, error) {
	var zero O
	switch info.Fixity {
	case Infix:
		var rbp bindingPower
		switch info.Assoc {
		case Left:
			rbp = normalize(info.Precedence)
		case Right:
			rbp = normalize(info.Precedence).lower()
		default:
			rbp = normalize(info.Precedence).raise()
		}
		rhs, err := e.parseInput(rbp)
		if err != nil {
			return zero, err
		}
		out, err := e.p.Infix(lhs, op, rhs)
		if err != nil {
			return zero, e.fail(UserError, err)
		}
		return out, nil
	case Postfix:
		out, err := e.p.Postfix(lhs, op)
		if err != nil {
			return zero, e.fail(UserError, err)
		}
		return out, nil
	case Nilfix:
		return zero, e.fail(UnexpectedNilfix, nil)
	default:
		return zero, e.fail(UnexpectedPrefix, nil)
	}
}

// lbp is the power with which an item binds to what precedes it.
func (e *engine[I, O]) lbp(info Affix) bindingPower {
	switch info.Fixity {
	case Nilfix, Prefix:
		return minBP
	default:
		return normalize(info.Precedence)
	}
}

// nbp caps the power of the next operator that may follow an item.
func (e *engine[I, O]) nbp(info Affix) bindingPower {
	if info.Fixity == Infix && info.Assoc == Neither {
		return normalize(info.Precedence)
	}
	return maxBP
}
