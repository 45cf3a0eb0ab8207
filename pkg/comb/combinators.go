package comb

import (
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Parser is the type of every grammar rule.
type Parser[T any] func(Input) (Input, T, error)

// Fail records a recoverable failure at the current token expecting one of
// the given items, and returns it.
func Fail(in Input, expected ...string) *Error {
	tok := in.Peek()
	e := &Error{Pos: tok.Index, Span: tok.Span, Found: tok.Text(), Expected: expected}
	in.Backtrace.Record(e)
	return e
}

// Failf records a recoverable failure with a specific message.
func Failf(in Input, span token.Span, msg string, cause error) *Error {
	tok := in.Peek()
	e := &Error{Pos: tok.Index, Span: span, Found: tok.Text(), Message: msg, Cause: cause}
	in.Backtrace.Record(e)
	return e
}

// IsFatal reports whether err must stop the search for alternatives.
func IsFatal(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Fatal
}

// Token matches one token of the given kind.
func Token(kind token.TokenType) Parser[token.Token] {
	return func(in Input) (Input, token.Token, error) {
		tok := in.Peek()
		if tok.Kind != kind {
			return in, token.Token{}, Fail(in, kind.Describe())
		}
		return in.Advance(), tok, nil
	}
}

// OneOf matches one token of any of the given kinds.
func OneOf(kinds ...token.TokenType) Parser[token.Token] {
	return func(in Input) (Input, token.Token, error) {
		tok := in.Peek()
		for _, k := range kinds {
			if tok.Kind == k {
				return in.Advance(), tok, nil
			}
		}
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.Describe()
		}
		return in, token.Token{}, Fail(in, names...)
	}
}

// Text matches one token whose text equals lit, ignoring ASCII case.
func Text(lit string) Parser[token.Token] {
	return func(in Input) (Input, token.Token, error) {
		tok := in.Peek()
		if tok.Kind == token.EOI || !strings.EqualFold(tok.Text(), lit) {
			return in, token.Token{}, Fail(in, lit)
		}
		return in.Advance(), tok, nil
	}
}

// EOI succeeds without consuming anything when only the sentinel remains.
func EOI() Parser[struct{}] {
	return func(in Input) (Input, struct{}, error) {
		if !in.AtEOI() {
			return in, struct{}{}, Fail(in, token.EOI.Describe())
		}
		return in, struct{}{}, nil
	}
}

// Alt tries each parser against the same input and returns the first
// success. When all fail, the failure that got furthest is returned. A
// fatal failure is returned immediately. Failures of earlier branches that
// the winner consumed past are forgotten.
func Alt[T any](ps ...Parser[T]) Parser[T] {
	return func(in Input) (Input, T, error) {
		var (
			zero T
			best *Error
		)
		cp := in.Backtrace.Checkpoint()
		for _, p := range ps {
			rest, v, err := p(in)
			if err == nil {
				in.Backtrace.Settle(cp, rest)
				return rest, v, nil
			}
			e := AsError(in, err)
			if e.Fatal {
				return in, zero, e
			}
			best = furthest(best, e)
		}
		if best == nil {
			return in, zero, Fail(in)
		}
		return in, zero, best
	}
}

// Opt makes p optional, yielding the zero value when it does not match.
func Opt[T any](p Parser[T]) Parser[T] {
	return func(in Input) (Input, T, error) {
		cp := in.Backtrace.Checkpoint()
		rest, v, err := p(in)
		if err != nil {
			if IsFatal(err) {
				return in, v, err
			}
			var zero T
			return in, zero, nil
		}
		in.Backtrace.Settle(cp, rest)
		return rest, v, nil
	}
}

// Present reports whether p matched, consuming it if so.
func Present[T any](p Parser[T]) Parser[bool] {
	return func(in Input) (Input, bool, error) {
		rest, _, err := p(in)
		if err != nil {
			if IsFatal(err) {
				return in, false, err
			}
			return in, false, nil
		}
		return rest, true, nil
	}
}

// Many0 applies p until it fails and collects the results.
func Many0[T any](p Parser[T]) Parser[[]T] {
	return func(in Input) (Input, []T, error) {
		var out []T
		for {
			rest, v, err := p(in)
			if err != nil {
				if IsFatal(err) {
					return in, nil, err
				}
				return in, out, nil
			}
			if rest.Pos() == in.Pos() {
				return in, nil, fatalAt(in, "repetition did not advance")
			}
			out = append(out, v)
			in = rest
		}
	}
}

// Many1 is Many0 requiring at least one match.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return func(in Input) (Input, []T, error) {
		rest, first, err := p(in)
		if err != nil {
			return in, nil, err
		}
		if rest.Pos() == in.Pos() {
			return in, nil, fatalAt(in, "repetition did not advance")
		}
		rest, more, err := Many0(p)(rest)
		if err != nil {
			return in, nil, err
		}
		return rest, append([]T{first}, more...), nil
	}
}

// SeparatedList0 parses elem (sep elem)*. A missing first element yields an
// empty list. Once a separator has matched, the next element is required and
// its failure is fatal.
func SeparatedList0[T, S any](sep Parser[S], elem Parser[T]) Parser[[]T] {
	return func(in Input) (Input, []T, error) {
		rest, first, err := elem(in)
		if err != nil {
			if IsFatal(err) {
				return in, nil, err
			}
			return in, nil, nil
		}
		return separatedTail(sep, elem, rest, first)
	}
}

// SeparatedList1 parses elem (sep elem)* with a mandatory first element.
func SeparatedList1[T, S any](sep Parser[S], elem Parser[T]) Parser[[]T] {
	return func(in Input) (Input, []T, error) {
		rest, first, err := elem(in)
		if err != nil {
			return in, nil, err
		}
		return separatedTail(sep, elem, rest, first)
	}
}

func separatedTail[T, S any](sep Parser[S], elem Parser[T], in Input, first T) (Input, []T, error) {
	out := []T{first}
	for {
		afterSep, _, err := sep(in)
		if err != nil {
			if IsFatal(err) {
				return in, nil, err
			}
			return in, out, nil
		}
		if afterSep.Pos() == in.Pos() {
			return in, nil, fatalAt(in, "separated list did not advance")
		}
		rest, v, err := elem(afterSep)
		if err != nil {
			return in, nil, commit(afterSep, err)
		}
		out = append(out, v)
		in = rest
	}
}

// CommaList0 is SeparatedList0 with a comma separator.
func CommaList0[T any](elem Parser[T]) Parser[[]T] {
	return SeparatedList0(Token(token.COMMA), elem)
}

// CommaList1 is SeparatedList1 with a comma separator.
func CommaList1[T any](elem Parser[T]) Parser[[]T] {
	return SeparatedList1(Token(token.COMMA), elem)
}

// SemicolonList1 is SeparatedList1 with a semicolon separator.
func SemicolonList1[T any](elem Parser[T]) Parser[[]T] {
	return SeparatedList1(Token(token.SEMICOLON), elem)
}

// Map transforms the result of p.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(in Input) (Input, U, error) {
		rest, v, err := p(in)
		if err != nil {
			var zero U
			return in, zero, err
		}
		return rest, f(v), nil
	}
}

// Value replaces the result of p with v.
func Value[T, U any](v U, p Parser[T]) Parser[U] {
	return Map(p, func(T) U { return v })
}

// MapRes applies a fallible transformation to the result of p. When the
// transformation fails, everything p recorded in the backtrace is rolled
// back and the failure is reported over the tokens p consumed.
func MapRes[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return func(in Input) (Input, U, error) {
		var zero U
		cp := in.Backtrace.Checkpoint()
		rest, v, err := p(in)
		if err != nil {
			return in, zero, err
		}
		u, err := f(v)
		if err != nil {
			in.Backtrace.Restore(cp)
			return in, zero, Failf(in, in.SpanTo(rest), err.Error(), err)
		}
		return rest, u, nil
	}
}

// ErrorHint fails with msg when p would match at the current token, and
// otherwise succeeds without consuming input. Whatever p records while
// probing is discarded.
func ErrorHint[T any](p Parser[T], msg string) Parser[struct{}] {
	return func(in Input) (Input, struct{}, error) {
		cp := in.Backtrace.Checkpoint()
		rest, _, err := p(in)
		in.Backtrace.Restore(cp)
		if err != nil {
			return in, struct{}{}, nil
		}
		return in, struct{}{}, Failf(in, in.SpanTo(rest), msg, nil)
	}
}

// Cut turns a recoverable failure of p into a fatal one.
func Cut[T any](p Parser[T]) Parser[T] {
	return func(in Input) (Input, T, error) {
		rest, v, err := p(in)
		if err != nil {
			return in, v, commit(in, err)
		}
		return rest, v, nil
	}
}

// Peek runs p without consuming input.
func Peek[T any](p Parser[T]) Parser[T] {
	return func(in Input) (Input, T, error) {
		_, v, err := p(in)
		return in, v, err
	}
}

// Preceded runs a then b and keeps b's result.
func Preceded[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return func(in Input) (Input, B, error) {
		var zero B
		rest, _, err := a(in)
		if err != nil {
			return in, zero, err
		}
		rest, v, err := b(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, v, nil
	}
}

// Terminated runs a then b and keeps a's result.
func Terminated[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return func(in Input) (Input, A, error) {
		var zero A
		rest, v, err := a(in)
		if err != nil {
			return in, zero, err
		}
		rest, _, err = b(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, v, nil
	}
}

// Delimited runs open, p and close and keeps p's result.
func Delimited[A, T, C any](open Parser[A], p Parser[T], close Parser[C]) Parser[T] {
	return Preceded(open, Terminated(p, close))
}

// Parens is Delimited by ( and ).
func Parens[T any](p Parser[T]) Parser[T] {
	return Delimited(Token(token.LPAREN), p, Token(token.RPAREN))
}

// Context labels failures of p with "while parsing name".
func Context[T any](name string, p Parser[T]) Parser[T] {
	return func(in Input) (Input, T, error) {
		rest, v, err := p(in)
		if err != nil {
			e := AsError(in, err).clone()
			if n := len(e.Contexts); n == 0 || e.Contexts[n-1] != name {
				e.Contexts = append(e.Contexts, name)
			}
			in.Backtrace.addContext(e.Pos, name)
			return in, v, e
		}
		return rest, v, nil
	}
}

// Lazy defers building a parser until it is first run, for recursive rules.
func Lazy[T any](f func() Parser[T]) Parser[T] {
	return func(in Input) (Input, T, error) {
		return f()(in)
	}
}

func commit(in Input, err error) *Error {
	e := AsError(in, err)
	if e.Fatal {
		return e
	}
	c := e.clone()
	c.Fatal = true
	return c
}

func fatalAt(in Input, msg string) *Error {
	e := Failf(in, in.Peek().Span, msg, nil)
	c := e.clone()
	c.Fatal = true
	return c
}
