// Package token defines the token model for MySQL-dialect SQL.
//
// TokenType is a closed enumeration. Structural symbols and literal categories
// occupy the low range; keywords are declared in keywords.go from 1000 on and
// carry a KeywordClass that is resolved through static tables, so callers never
// need to re-lex to ask whether a token is a keyword, a literal or a reserved
// identifier.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names are intentional for SQL token conventions
const (
	// EOI is the sentinel appended after the last real token.
	EOI TokenType = iota

	// Literals
	IDENT           // plain identifier
	QUOTED_IDENT    // `identifier`
	INT_LITERAL     // 123
	DECIMAL_LITERAL // 1.5, .5, 1.
	FLOAT_LITERAL   // 1e10, 1.5E-3
	STRING          // 'hello'
	DQ_STRING       // "hello"
	HEX_LITERAL     // 0x1F, X'1F'
	BIT_LITERAL     // 0b101, B'101'
	AT_IDENT        // @var
	AT_AT_IDENT     // @@var, @@global.var

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
	PARAM     // ?

	// Operators
	PLUS         // +
	MINUS        // -
	STAR         // *
	SLASH        // /
	PERCENT      // %
	CARET        // ^
	TILDE        // ~
	EXCLAIM      // !
	AMP          // &
	PIPE         // |
	LSHIFT       // <<
	RSHIFT       // >>
	EQ           // =
	NULL_SAFE_EQ // <=>
	NE           // <> or !=
	LT           // <
	LE           // <=
	GT           // >
	GE           // >=
	LOGICAL_AND  // &&
	LOGICAL_OR   // ||
	ASSIGN       // :=
	ARROW        // ->
	LONG_ARROW   // ->>

	// Optimizer hint delimiters
	HINT_PREFIX // /*+
	HINT_SUFFIX // */

	symbolEnd
)

// KeywordClass classifies a keyword by how it may be used as an identifier.
type KeywordClass uint8

// Keyword classes.
const (
	NotKeyword       KeywordClass = iota
	Reserved                      // cannot be an unquoted identifier
	Unreserved                    // usable as an identifier
	FuncNameConflict              // usable as an identifier, but also a builtin function name
	EngineInternal                // vendor-specific, usable as an identifier
)

func (c KeywordClass) String() string {
	switch c {
	case Reserved:
		return "reserved"
	case Unreserved:
		return "unreserved"
	case FuncNameConflict:
		return "function-name"
	case EngineInternal:
		return "engine-internal"
	default:
		return ""
	}
}

var symbolNames = [...]string{
	EOI:             "EOI",
	IDENT:           "IDENT",
	QUOTED_IDENT:    "QUOTED_IDENT",
	INT_LITERAL:     "INT_LITERAL",
	DECIMAL_LITERAL: "DECIMAL_LITERAL",
	FLOAT_LITERAL:   "FLOAT_LITERAL",
	STRING:          "STRING",
	DQ_STRING:       "DQ_STRING",
	HEX_LITERAL:     "HEX_LITERAL",
	BIT_LITERAL:     "BIT_LITERAL",
	AT_IDENT:        "AT_IDENT",
	AT_AT_IDENT:     "AT_AT_IDENT",
	LPAREN:          "(",
	RPAREN:          ")",
	COMMA:           ",",
	SEMICOLON:       ";",
	DOT:             ".",
	PARAM:           "?",
	PLUS:            "+",
	MINUS:           "-",
	STAR:            "*",
	SLASH:           "/",
	PERCENT:         "%",
	CARET:           "^",
	TILDE:           "~",
	EXCLAIM:         "!",
	AMP:             "&",
	PIPE:            "|",
	LSHIFT:          "<<",
	RSHIFT:          ">>",
	EQ:              "=",
	NULL_SAFE_EQ:    "<=>",
	NE:              "<>",
	LT:              "<",
	LE:              "<=",
	GT:              ">",
	GE:              ">=",
	LOGICAL_AND:     "&&",
	LOGICAL_OR:      "||",
	ASSIGN:          ":=",
	ARROW:           "->",
	LONG_ARROW:      "->>",
	HINT_PREFIX:     "/*+",
	HINT_SUFFIX:     "*/",
}

// Static classification tables, filled once from keywordRanges.
var (
	keywordClass [keywordEnd - keywordBeg]KeywordClass
	literalSet   [symbolEnd]bool
	afterAsIdent [keywordEnd - keywordBeg]bool
)

func init() {
	for _, r := range keywordRanges {
		for t := r.first; t <= r.last; t++ {
			keywordClass[t-keywordBeg] = r.class
		}
	}
	for _, t := range []TokenType{
		INT_LITERAL, DECIMAL_LITERAL, FLOAT_LITERAL, STRING, DQ_STRING, HEX_LITERAL, BIT_LITERAL,
	} {
		literalSet[t] = true
	}
	// Reserved words that MySQL accepts as an alias once AS makes the intent explicit.
	for _, t := range []TokenType{
		CUME_DIST, DENSE_RANK, FIRST_VALUE, LAG, LAST_VALUE, LEAD, NTH_VALUE, NTILE,
		PERCENT_RANK, RANK, ROW_NUMBER, GROUPS, LATERAL, RECURSIVE, OVER, WINDOW,
	} {
		afterAsIdent[t-keywordBeg] = true
	}
}

func (t TokenType) String() string {
	switch {
	case t >= 0 && t < symbolEnd:
		return symbolNames[t]
	case t > keywordBeg && t < keywordEnd:
		return keywordText[t-keywordBeg-1]
	default:
		return fmt.Sprintf("TOKEN(%d)", t)
	}
}

var friendlyNames = map[TokenType]string{
	EOI:             "end of input",
	IDENT:           "identifier",
	QUOTED_IDENT:    "quoted identifier",
	INT_LITERAL:     "integer literal",
	DECIMAL_LITERAL: "decimal literal",
	FLOAT_LITERAL:   "float literal",
	STRING:          "string literal",
	DQ_STRING:       "double-quoted string",
	HEX_LITERAL:     "hex literal",
	BIT_LITERAL:     "bit literal",
	AT_IDENT:        "user variable",
	AT_AT_IDENT:     "system variable",
}

// Describe returns the name used for t in diagnostics.
func (t TokenType) Describe() string {
	if s, ok := friendlyNames[t]; ok {
		return s
	}
	return t.String()
}

// Class returns the keyword classification, or NotKeyword.
func (t TokenType) Class() KeywordClass {
	if t > keywordBeg && t < keywordEnd {
		return keywordClass[t-keywordBeg]
	}
	return NotKeyword
}

// IsKeyword reports whether t is any keyword.
func (t TokenType) IsKeyword() bool {
	return t.Class() != NotKeyword
}

// IsLiteral reports whether t is a literal value category.
func (t TokenType) IsLiteral() bool {
	return t >= 0 && t < symbolEnd && literalSet[t]
}

// IsReservedIdent reports whether t cannot stand as an unquoted identifier.
// Some reserved words are tolerated right after AS.
func (t TokenType) IsReservedIdent(afterAs bool) bool {
	if t.Class() != Reserved {
		return false
	}
	return !afterAs || !afterAsIdent[t-keywordBeg]
}

// Keywords returns every keyword type in declaration order.
func Keywords() []TokenType {
	out := make([]TokenType, 0, len(keywordText))
	for t := keywordBeg + 1; t < keywordEnd; t++ {
		out = append(out, t)
	}
	return out
}

// LookupKeyword resolves a case-insensitive word to its keyword type.
func LookupKeyword(word string) (TokenType, bool) {
	t, ok := keywordIndex[upperASCII(word)]
	return t, ok
}

var keywordIndex = func() map[string]TokenType {
	m := make(map[string]TokenType, len(keywordText))
	for i, s := range keywordText {
		m[s] = keywordBeg + 1 + TokenType(i)
	}
	return m
}()

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// Token is an immutable lexical unit. Text is a slice of the shared source.
type Token struct {
	Source string
	Kind   TokenType
	Span   Span
	Index  int // position in the emitted token stream
}

// Text returns the source text covered by the token.
func (t Token) Text() string {
	return t.Source[t.Span.Start:t.Span.End]
}

// Position returns the line/column of the token start.
func (t Token) Position() Position {
	return PositionAt(t.Source, t.Span.Start)
}

func (t Token) String() string {
	if t.Kind == EOI {
		return "EOI"
	}
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text(), t.Span.Start)
}
