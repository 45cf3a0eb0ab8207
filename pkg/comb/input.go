// Package comb is the parser-combinator substrate of the SQL grammar.
//
// A Parser is a function from Input to the remaining Input and a value.
// Input is a small value type: forking it for an alternative is a copy, and
// abandoning the fork is free. The one piece of shared mutable state is the
// Backtrace, which remembers the furthest failure seen so far for
// diagnostics.
package comb

import (
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Input is a cursor over the remaining tokens plus the ambient parse context.
// Tokens always ends with the EOI sentinel.
type Input struct {
	Tokens    []token.Token
	Dialect   *dialect.Dialect
	Mode      dialect.SQLMode
	Charset   string
	Collation string
	Backtrace *Backtrace

	// Stream is the whole token stream, for rules that need absolute
	// positions.
	Stream []token.Token
}

// NewInput builds an Input over tokens. A missing trailing EOI is added.
func NewInput(tokens []token.Token, d *dialect.Dialect, mode dialect.SQLMode) Input {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOI {
		eoi := token.Token{Kind: token.EOI, Index: len(tokens)}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eoi.Source = last.Source
			eoi.Span = token.Span{Start: len(last.Source), End: len(last.Source)}
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eoi)
	}
	in := Input{
		Tokens:    tokens,
		Dialect:   d,
		Mode:      mode,
		Backtrace: NewBacktrace(),
		Stream:    tokens,
	}
	if d != nil {
		in.Mode = d.EffectiveMode(mode)
		in.Charset = d.DefaultCharset
		in.Collation = d.DefaultCollation
	}
	return in
}

// Peek returns the current token.
func (in Input) Peek() token.Token {
	return in.Tokens[0]
}

// PeekAt returns the token n positions ahead, or the EOI sentinel.
func (in Input) PeekAt(n int) token.Token {
	if n < len(in.Tokens) {
		return in.Tokens[n]
	}
	return in.Tokens[len(in.Tokens)-1]
}

// Advance returns the input after the current token. EOI is never consumed.
func (in Input) Advance() Input {
	if in.Tokens[0].Kind == token.EOI {
		return in
	}
	in.Tokens = in.Tokens[1:]
	return in
}

// Pos is the stream index of the current token.
func (in Input) Pos() int {
	return in.Tokens[0].Index
}

// AtEOI reports whether only the sentinel remains.
func (in Input) AtEOI() bool {
	return in.Tokens[0].Kind == token.EOI
}

// Consumed returns the tokens taken between in and rest.
func (in Input) Consumed(rest Input) []token.Token {
	return in.Tokens[:len(in.Tokens)-len(rest.Tokens)]
}

// SpanTo returns the span from the current token to the last token consumed
// before rest. When nothing was consumed it is the current token's span.
func (in Input) SpanTo(rest Input) token.Span {
	used := in.Consumed(rest)
	if len(used) == 0 {
		return in.Peek().Span
	}
	return used[0].Span.Merge(used[len(used)-1].Span)
}

// Seek returns an input positioned at the token with the given stream index.
func (in Input) Seek(index int) Input {
	base := in.Pos()
	off := index - base
	if off < 0 {
		off = 0
	}
	if off >= len(in.Tokens) {
		off = len(in.Tokens) - 1
	}
	in.Tokens = in.Tokens[off:]
	return in
}

// Operators returns the operator table for the active dialect and mode.
func (in Input) Operators() *dialect.OperatorTable {
	d := in.Dialect
	if d == nil {
		d = dialect.MySQL
	}
	return d.Operators(in.Mode)
}
