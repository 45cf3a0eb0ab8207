package parser

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Lexical analysis.
//
// The scanner is a DFA compiled by lexmachine from one pattern per token
// kind. The longest match wins; between equal-length matches the pattern
// added first wins. Keywords have no patterns of their own: every keyword
// spelling has the IDENT shape, so IDENT lexemes are classified afterwards
// through token.LookupKeyword. Spelling out hundreds of keywords in the DFA
// makes Compile take minutes.
//
// Comments, hint regions and `--` depend on context, so actions only report
// raw lexemes and Lex decides what they become.

type lexKind uint8

const (
	lexToken lexKind = iota
	lexSpace
	lexLineComment
	lexDashDash   // --
	lexBlockOpen  // /*
	lexHintOpen   // /*+
	lexBlockClose // */
)

type lexeme struct {
	kind       lexKind
	tok        token.TokenType
	start, end int
}

type rule struct {
	pattern string
	kind    lexKind
	tok     token.TokenType
}

const (
	escapedBody = `([^'\\]|\\(.|` + "\n" + `)|'')*`
	dqBody      = `([^"\\]|\\(.|` + "\n" + `)|"")*`
	rawBody     = `([^']|'')*`
	rawDQBody   = `([^"]|"")*`
	btBody      = "([^`]|``)*"
)

func rules(noBackslashEscapes bool) []rule {
	sq, dq := escapedBody, dqBody
	if noBackslashEscapes {
		sq, dq = rawBody, rawDQBody
	}

	out := []rule{
		{pattern: "[ \t\r\n\f\v]+", kind: lexSpace},
		{pattern: "#[^\n]*", kind: lexLineComment},
		{pattern: `--`, kind: lexDashDash},
		{pattern: `/\*\+`, kind: lexHintOpen},
		{pattern: `/\*`, kind: lexBlockOpen},
		{pattern: `\*/`, kind: lexBlockClose},
	}

	out = append(out, []rule{
		{pattern: "`" + btBody + "`", tok: token.QUOTED_IDENT},
		{pattern: `'` + sq + `'`, tok: token.STRING},
		{pattern: `"` + dq + `"`, tok: token.DQ_STRING},
		{pattern: `0x[0-9A-Fa-f]+|[Xx]'[0-9A-Fa-f]*'`, tok: token.HEX_LITERAL},
		{pattern: `0b[01]+|[Bb]'[01]*'`, tok: token.BIT_LITERAL},
		{pattern: `([0-9]+|[0-9]+\.[0-9]*|\.[0-9]+)[Ee](\+|-)?[0-9]+`, tok: token.FLOAT_LITERAL},
		{pattern: `[0-9]+\.[0-9]*|\.[0-9]+`, tok: token.DECIMAL_LITERAL},
		{pattern: `[0-9]+`, tok: token.INT_LITERAL},
		{pattern: `@@[A-Za-z0-9_$.]+`, tok: token.AT_AT_IDENT},
		{pattern: `@[A-Za-z0-9_$.]+|@'` + sq + `'|@"` + dq + `"|@` + "`" + btBody + "`", tok: token.AT_IDENT},
		{pattern: `[A-Za-z_][A-Za-z0-9_$]*`, tok: token.IDENT},

		{pattern: `<=>`, tok: token.NULL_SAFE_EQ},
		{pattern: `->>`, tok: token.LONG_ARROW},
		{pattern: `->`, tok: token.ARROW},
		{pattern: `<<`, tok: token.LSHIFT},
		{pattern: `>>`, tok: token.RSHIFT},
		{pattern: `<=`, tok: token.LE},
		{pattern: `>=`, tok: token.GE},
		{pattern: `<>|!=`, tok: token.NE},
		{pattern: `&&`, tok: token.LOGICAL_AND},
		{pattern: `\|\|`, tok: token.LOGICAL_OR},
		{pattern: `:=`, tok: token.ASSIGN},

		{pattern: `\(`, tok: token.LPAREN},
		{pattern: `\)`, tok: token.RPAREN},
		{pattern: `,`, tok: token.COMMA},
		{pattern: `;`, tok: token.SEMICOLON},
		{pattern: `\.`, tok: token.DOT},
		{pattern: `\?`, tok: token.PARAM},
		{pattern: `\+`, tok: token.PLUS},
		{pattern: `-`, tok: token.MINUS},
		{pattern: `\*`, tok: token.STAR},
		{pattern: `/`, tok: token.SLASH},
		{pattern: `%`, tok: token.PERCENT},
		{pattern: `\^`, tok: token.CARET},
		{pattern: `~`, tok: token.TILDE},
		{pattern: `!`, tok: token.EXCLAIM},
		{pattern: `&`, tok: token.AMP},
		{pattern: `\|`, tok: token.PIPE},
		{pattern: `=`, tok: token.EQ},
		{pattern: `<`, tok: token.LT},
		{pattern: `>`, tok: token.GT},
	}...)
	return out
}

// compiledLexer builds its DFA on first use.
type compiledLexer struct {
	once               sync.Once
	noBackslashEscapes bool
	lexer              *lexmachine.Lexer
	err                error
}

var (
	standardLexer = &compiledLexer{}
	rawLexer      = &compiledLexer{noBackslashEscapes: true}
)

func (c *compiledLexer) get() (*lexmachine.Lexer, error) {
	c.once.Do(func() {
		lx := lexmachine.NewLexer()
		for _, r := range rules(c.noBackslashEscapes) {
			lx.Add([]byte(r.pattern), func(_ *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
				return lexeme{kind: r.kind, tok: r.tok, start: m.TC, end: m.TC + len(m.Bytes)}, nil
			})
		}
		if err := lx.Compile(); err != nil {
			c.err = fmt.Errorf("compile lexer: %w", err)
			return
		}
		c.lexer = lx
	})
	return c.lexer, c.err
}

// hintStarters are the keywords after which /*+ opens a hint region.
var hintStarters = map[token.TokenType]bool{
	token.INSERT:  true,
	token.SELECT:  true,
	token.REPLACE: true,
	token.UPDATE:  true,
	token.DELETE:  true,
}

// Tokenize converts SQL text into tokens ending with EOI.
func Tokenize(src string) ([]token.Token, error) {
	toks, _, err := Lex(src, 0)
	return toks, err
}

// Lex tokenizes src under the given SQL mode and also returns the skipped
// comment regions. Only NO_BACKSLASH_ESCAPES affects lexing.
func Lex(src string, mode dialect.SQLMode) ([]token.Token, []token.Comment, error) {
	c := standardLexer
	if mode.Has(dialect.ModeNoBackslashEscapes) {
		c = rawLexer
	}
	lx, err := c.get()
	if err != nil {
		return nil, nil, err
	}
	sc, err := lx.Scanner([]byte(src))
	if err != nil {
		return nil, nil, err
	}

	var (
		toks     []token.Token
		comments []token.Comment
		inHint   bool
	)
	emit := func(kind token.TokenType, start, end int) {
		toks = append(toks, token.Token{Source: src, Kind: kind, Span: token.Span{Start: start, End: end}})
	}
	skip := func(kind token.CommentKind, start, end int) {
		comments = append(comments, token.Comment{Kind: kind, Text: src[start:end], Span: token.Span{Start: start, End: end}})
		sc.TC = end
	}

	for {
		v, err, eos := sc.Next()
		if eos {
			break
		}
		if err != nil {
			return nil, nil, scanFailure(src, sc, err)
		}
		lx := v.(lexeme)

		switch lx.kind {
		case lexSpace:
		case lexLineComment:
			skip(token.LineComment, lx.start, lx.end)
		case lexDashDash:
			// -- starts a comment only when followed by whitespace, a
			// control character or the end of input.
			if lx.end == len(src) || src[lx.end] <= ' ' {
				skip(token.LineComment, lx.start, lineEnd(src, lx.start))
				continue
			}
			emit(token.MINUS, lx.start, lx.start+1)
			sc.TC = lx.start + 1
		case lexBlockOpen:
			end, ok := commentEnd(src, lx.end)
			if !ok {
				return nil, nil, newLexError(src, lx.start, ErrUnterminatedComment)
			}
			skip(token.BlockComment, lx.start, end)
		case lexHintOpen:
			if !inHint && len(toks) > 0 && hintStarters[toks[len(toks)-1].Kind] {
				emit(token.HINT_PREFIX, lx.start, lx.end)
				inHint = true
				continue
			}
			end, ok := commentEnd(src, lx.end)
			if !ok {
				return nil, nil, newLexError(src, lx.start, ErrUnterminatedComment)
			}
			skip(token.DroppedHint, lx.start, end)
		case lexBlockClose:
			if inHint {
				emit(token.HINT_SUFFIX, lx.start, lx.end)
				inHint = false
				continue
			}
			emit(token.STAR, lx.start, lx.start+1)
			sc.TC = lx.start + 1
		default:
			kind := lx.tok
			if kind == token.IDENT {
				if kw, ok := token.LookupKeyword(src[lx.start:lx.end]); ok {
					kind = kw
				}
			}
			emit(kind, lx.start, lx.end)
		}
	}

	emit(token.EOI, len(src), len(src))
	for i := range toks {
		toks[i].Index = i
	}
	return toks, comments, nil
}

func lineEnd(src string, from int) int {
	if i := strings.IndexByte(src[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(src)
}

func commentEnd(src string, from int) (int, bool) {
	i := strings.Index(src[from:], "*/")
	if i < 0 {
		return 0, false
	}
	return from + i + 2, true
}

func scanFailure(src string, sc *lexmachine.Scanner, err error) *LexError {
	start := sc.TC
	var ui *machines.UnconsumedInput
	if errors.As(err, &ui) {
		start = ui.StartTC
	}
	if start >= len(src) {
		return newLexError(src, len(src), err.Error())
	}
	switch src[start] {
	case '\'', '"', '`':
		return newLexError(src, start, ErrUnterminatedString)
	}
	r, _ := utf8.DecodeRuneInString(src[start:])
	return newLexError(src, start, fmt.Sprintf(ErrUnrecognizedInput, r))
}
