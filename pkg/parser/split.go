package parser

import (
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Segment is one statement's worth of source in a script.
type Segment struct {
	Span token.Span
	Text string
}

// SplitScript cuts src at top-level semicolons. Semicolons inside strings,
// quoted identifiers and comments do not split. Empty statements are
// dropped; the trailing semicolon is not part of a segment.
func SplitScript(src string, mode dialect.SQLMode) ([]Segment, error) {
	toks, _, err := Lex(src, mode)
	if err != nil {
		return nil, err
	}

	var (
		out   []Segment
		first = -1
		last  = -1
	)
	flush := func() {
		if first >= 0 {
			span := token.Span{Start: toks[first].Span.Start, End: toks[last].Span.End}
			out = append(out, Segment{Span: span, Text: src[span.Start:span.End]})
		}
		first, last = -1, -1
	}
	for i, t := range toks {
		switch t.Kind {
		case token.EOI, token.SEMICOLON:
			flush()
		default:
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return out, nil
}
