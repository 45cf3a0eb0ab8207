package comb

import (
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// input splits src on spaces into IDENT, INT_LITERAL and punctuation tokens.
func input(src string) Input {
	var toks []token.Token
	off := 0
	for _, w := range strings.Fields(src) {
		start := strings.Index(src[off:], w) + off
		kind := token.IDENT
		switch {
		case w == ",":
			kind = token.COMMA
		case w == ";":
			kind = token.SEMICOLON
		case w == "(":
			kind = token.LPAREN
		case w == ")":
			kind = token.RPAREN
		case w[0] >= '0' && w[0] <= '9':
			kind = token.INT_LITERAL
		}
		toks = append(toks, token.Token{Source: src, Kind: kind, Span: token.Span{Start: start, End: start + len(w)}, Index: len(toks)})
		off = start + len(w)
	}
	toks = append(toks, token.Token{Source: src, Kind: token.EOI, Span: token.Span{Start: len(src), End: len(src)}, Index: len(toks)})
	return NewInput(toks, dialect.MySQL, 0)
}

func text(p Parser[token.Token]) Parser[string] {
	return Map(p, func(t token.Token) string { return t.Text() })
}

var ident = text(Token(token.IDENT))

func TestNewInputAddsEOI(t *testing.T) {
	in := NewInput(nil, dialect.MySQL, 0)
	assert.True(t, in.AtEOI())
	assert.Equal(t, 0, in.Pos())
	assert.Equal(t, "utf8mb4", in.Charset)

	// Advance never moves past the sentinel.
	assert.Equal(t, in, in.Advance())
}

func TestTokenAndText(t *testing.T) {
	in := input("a 1")

	rest, tok, err := Token(token.IDENT)(in)
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Text())
	assert.Equal(t, 1, rest.Pos())

	_, _, err = Token(token.IDENT)(rest)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Pos)
	assert.Equal(t, "unexpected `1`, expecting `identifier`", e.Error())

	_, _, err = Text("A")(in)
	assert.NoError(t, err)
}

func TestAltPicksFurthestFailure(t *testing.T) {
	short := Preceded(Text("a"), text(Text("x")))
	long := Preceded(Text("a"), Preceded(Text("b"), text(Text("y"))))

	_, _, err := Alt(short, long)(input("a b c"))
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 2, e.Pos, "the branch that got to `c` wins")
	assert.Equal(t, []string{"y"}, e.Expected)

	best := input("a b c")
	_, _, _ = Alt(short, long)(best)
	assert.Equal(t, 2, best.Backtrace.Best().Pos)
}

func TestAltForgetsFailuresInsideTheWinner(t *testing.T) {
	stale := Preceded(Text("a"), text(Text("x")))
	winner := Preceded(Text("a"), Preceded(Text("b"), ident))

	in := input("a b c")
	rest, got, err := Alt(stale, winner)(in)
	require.NoError(t, err)
	assert.Equal(t, "c", got)
	assert.Equal(t, 3, rest.Pos())
	assert.Nil(t, in.Backtrace.Best(), "the failure at `b` lies inside matched input")

	// A failure past the winner's end still explains what comes next.
	further := Preceded(Text("a"), Preceded(Text("b"), text(Text("y"))))
	in = input("a b c")
	rest, _, err = Alt(further, text(Text("a")))(in)
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Pos())
	require.NotNil(t, in.Backtrace.Best())
	assert.Equal(t, 2, in.Backtrace.Best().Pos)
}

func TestAltMergesExpectationsAtSamePosition(t *testing.T) {
	_, _, err := Alt(text(Text("x")), text(Text("y")), text(Text("z")))(input("a"))
	require.Error(t, err)
	assert.Equal(t, "unexpected `a`, expecting `x`, `y`, or `z`", err.Error())
}

func TestAltStopsOnFatal(t *testing.T) {
	calls := 0
	var second Parser[string] = func(in Input) (Input, string, error) {
		calls++
		return in, "", nil
	}
	_, _, err := Alt(Cut(ident), second)(input("1"))
	assert.True(t, IsFatal(err))
	assert.Equal(t, 0, calls)
}

func TestSeparatedListForgiveness(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		list    func(Parser[string]) Parser[[]string]
		want    []string
		rest    int
		wantErr bool
	}{
		{name: "zero: empty input", src: "", list: CommaList0[string], want: nil},
		{name: "zero: first element missing", src: "1", list: CommaList0[string], want: nil, rest: 0},
		{name: "zero: one", src: "a", list: CommaList0[string], want: []string{"a"}, rest: 1},
		{name: "zero: many", src: "a , b , c", list: CommaList0[string], want: []string{"a", "b", "c"}, rest: 5},
		{name: "zero: stops before non separator", src: "a b", list: CommaList0[string], want: []string{"a"}, rest: 1},
		{name: "zero: trailing separator", src: "a ,", list: CommaList0[string], wantErr: true},
		{name: "zero: bad element after separator", src: "a , 1", list: CommaList0[string], wantErr: true},
		{name: "one: empty input", src: "", list: CommaList1[string], wantErr: true},
		{name: "one: many", src: "a , b", list: CommaList1[string], want: []string{"a", "b"}, rest: 3},
		{name: "one: trailing separator", src: "a ,", list: CommaList1[string], wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, got, err := tt.list(ident)(input(tt.src))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rest, rest.Pos())
		})
	}
}

func TestSeparatorFailureIsFatal(t *testing.T) {
	var fallback Parser[string] = func(in Input) (Input, string, error) { return in, "fallback", nil }
	list := Alt(
		Map(CommaList1(ident), func(s []string) string { return strings.Join(s, "") }),
		fallback,
	)
	_, _, err := list(input("a , 1"))
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 2, AsError(input(""), err).Pos)
}

func TestSeparatedListDidNotAdvance(t *testing.T) {
	var empty Parser[struct{}] = func(in Input) (Input, struct{}, error) { return in, struct{}{}, nil }
	_, _, err := SeparatedList0(empty, ident)(input("a b"))
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "separated list did not advance")
}

func TestManyDidNotAdvance(t *testing.T) {
	_, _, err := Many0(EOI())(input(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repetition did not advance")
}

func TestMany(t *testing.T) {
	rest, got, err := Many0(ident)(input("a b 1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, rest.Pos())

	_, _, err = Many1(ident)(input("1"))
	assert.Error(t, err)
}

func TestOptAndPresent(t *testing.T) {
	rest, v, err := Opt(ident)(input("1"))
	require.NoError(t, err)
	assert.Equal(t, "", v)
	assert.Equal(t, 0, rest.Pos())

	rest, ok, err := Present(Text("a"))(input("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rest.AtEOI())
}

func TestMapResRollsBackBacktrace(t *testing.T) {
	in := input("a b")
	pair := Preceded(Text("a"), Terminated(ident, Opt(text(Text("never")))))
	failing := MapRes(pair, func(string) (int, error) {
		return 0, errors.New("value out of range")
	})

	_, _, err := failing(in)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 0, e.Pos)
	assert.Equal(t, token.Span{Start: 0, End: 3}, e.Span)
	assert.Equal(t, "value out of range", e.Error())

	// The attempt at `never` at the end of input was discarded.
	best := in.Backtrace.Best()
	require.NotNil(t, best)
	assert.Equal(t, 0, best.Pos)
	assert.Equal(t, "value out of range", best.Message)
}

func TestErrorHint(t *testing.T) {
	hint := ErrorHint(Text("into"), "INTO is not supported")

	rest, _, err := hint(input("a"))
	require.NoError(t, err)
	assert.Equal(t, 0, rest.Pos())

	in := input("into")
	_, _, err = hint(in)
	require.Error(t, err)
	assert.Equal(t, "INTO is not supported", err.Error())
	assert.Equal(t, "INTO is not supported", in.Backtrace.Best().Message)
}

func TestBacktraceRecord(t *testing.T) {
	b := NewBacktrace()
	b.Record(&Error{Pos: 2, Expected: []string{"a"}})
	cp := b.Checkpoint()

	b.Record(&Error{Pos: 1, Expected: []string{"ignored"}})
	assert.Equal(t, []string{"a"}, b.Best().Expected)

	b.Record(&Error{Pos: 2, Expected: []string{"b", "a"}})
	assert.Equal(t, []string{"a", "b"}, b.Best().Expected)

	b.Record(&Error{Pos: 3, Expected: []string{"c"}})
	assert.Equal(t, 3, b.Best().Pos)

	b.Restore(cp)
	assert.Equal(t, []string{"a"}, b.Best().Expected)

	b.Clear()
	assert.Nil(t, b.Best())
}

func TestBacktraceSettle(t *testing.T) {
	in := input("a b c d")
	b := in.Backtrace
	b.Record(&Error{Pos: 0, Expected: []string{"early"}})
	cp := b.Checkpoint()

	assert.False(t, b.Changed(cp))
	b.Record(&Error{Pos: 1, Expected: []string{"inside"}})
	assert.True(t, b.Changed(cp))
	b.Settle(cp, in.Seek(2))
	assert.False(t, b.Changed(cp))
	assert.Equal(t, []string{"early"}, b.Best().Expected)

	b.Record(&Error{Pos: 2, Expected: []string{"at end"}})
	b.Settle(cp, in.Seek(2))
	assert.Equal(t, []string{"at end"}, b.Best().Expected)
}

func TestContext(t *testing.T) {
	in := input("a 1")
	p := Context("pair", Preceded(Text("a"), ident))
	_, _, err := p(in)
	require.Error(t, err)
	assert.Equal(t, "unexpected `1`, expecting `identifier`\nwhile parsing pair", err.Error())
	assert.Equal(t, []string{"pair"}, in.Backtrace.Best().Contexts)
}

func TestErrorDescribeAtEnd(t *testing.T) {
	_, _, err := Token(token.COMMA)(input("a").Advance())
	require.Error(t, err)
	assert.Equal(t, "unexpected end of input, expecting `,`", err.Error())
}

func TestSeek(t *testing.T) {
	in := input("a b c")
	assert.Equal(t, 2, in.Seek(2).Pos())
	assert.Equal(t, 3, in.Seek(10).Pos())
	assert.Equal(t, "a b", in.Peek().Source[in.SpanTo(in.Seek(2)).Start:in.SpanTo(in.Seek(2)).End])
}
