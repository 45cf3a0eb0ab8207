package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/mattn/go-runewidth"
)

// ParseError represents a parsing error with position information.
// Cause, when set, is the error the message was taken from.
type ParseError struct {
	Span    token.Span
	Pos     token.Position
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// DisplayWithSource renders the error with the offending source line and a
// caret under the span.
func (e *ParseError) DisplayWithSource(src string) string {
	return render("error", e.Span, e.Message, src)
}

// LexError represents a lexical analysis error. The span runs from the first
// unrecognised byte to the end of the source.
type LexError struct {
	Span    token.Span
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// DisplayWithSource renders the error with the offending source line and a
// caret under the span.
func (e *LexError) DisplayWithSource(src string) string {
	return render("lexer error", e.Span, e.Message, src)
}

func newParseError(src string, span token.Span, msg string) *ParseError {
	return &ParseError{Span: span, Pos: token.PositionAt(src, span.Start), Message: msg}
}

func newLexError(src string, start int, msg string) *LexError {
	return &LexError{
		Span:    token.Span{Start: start, End: len(src)},
		Pos:     token.PositionAt(src, start),
		Message: msg,
	}
}

// Common error messages
const (
	ErrUnterminatedString  = "unterminated quoted string"
	ErrUnterminatedComment = "unterminated comment"
	ErrUnrecognizedInput   = "unrecognized input %q"
	ErrRestOfInput         = "unable to parse rest of input"
	ErrIntegerRange        = "expecting a value in [0, 18446744073709551615]"
	ErrDistinctAndAll      = "DISTINCT and ALL cannot be used together"
	ErrUnionOrderBy        = "Incorrect usage of UNION and ORDER BY"
	ErrUnionLimit          = "Incorrect usage of UNION and LIMIT"
	ErrIntoUnsupported     = "SELECT ... INTO is not supported"
	ErrAssignTarget        = "only user variables can be assigned with :="
	ErrWindowNeedsOver     = "window function %s requires an OVER clause"
)

// render draws:
//
//	error: message
//	 --> 1:8
//	  |
//	1 | SELECT FROM t
//	  |        ^^^^
//	  = while parsing ...
func render(label string, span token.Span, msg, src string) string {
	pos := token.PositionAt(src, span.Start)
	headline, notes, _ := strings.Cut(msg, "\n")

	lineStart := strings.LastIndexByte(src[:pos.Offset], '\n') + 1
	lineEnd := len(src)
	if i := strings.IndexByte(src[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	line := src[lineStart:lineEnd]

	end := min(max(span.End, pos.Offset), lineEnd)
	pad := runewidth.StringWidth(expandTabs(src[lineStart:pos.Offset]))
	width := max(runewidth.StringWidth(expandTabs(src[pos.Offset:end])), 1)

	num := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(num))

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", label, headline)
	fmt.Fprintf(&b, "%s--> %d:%d\n", gutter, pos.Line, pos.Column)
	fmt.Fprintf(&b, "%s |\n", gutter)
	fmt.Fprintf(&b, "%s | %s\n", num, expandTabs(line))
	fmt.Fprintf(&b, "%s | %s%s\n", gutter, strings.Repeat(" ", pad), strings.Repeat("^", width))
	if notes != "" {
		for _, n := range strings.Split(notes, "\n") {
			fmt.Fprintf(&b, "%s = %s\n", gutter, n)
		}
	}
	return b.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
