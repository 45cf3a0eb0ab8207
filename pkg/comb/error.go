package comb

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Error is a parse failure located at a token.
//
// Expected lists what would have been accepted at Pos. Message, when set,
// is a specific diagnostic that takes precedence over the expectation list.
// A Fatal error stops alternatives from being tried.
type Error struct {
	Pos      int
	Span     token.Span
	Found    string
	Expected []string
	Message  string
	Fatal    bool
	Contexts []string
	Cause    error
}

func (e *Error) Error() string {
	return e.Describe()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Describe renders the failure without source context.
func (e *Error) Describe() string {
	var b strings.Builder
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case len(e.Expected) > 0:
		fmt.Fprintf(&b, "unexpected %s, expecting %s", quote(e.Found), joinExpected(e.Expected))
	default:
		fmt.Fprintf(&b, "unexpected %s", quote(e.Found))
	}
	for _, c := range e.Contexts {
		b.WriteString("\nwhile parsing ")
		b.WriteString(c)
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "end of input"
	}
	return "`" + s + "`"
}

func joinExpected(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = "`" + s + "`"
	}
	switch len(q) {
	case 1:
		return q[0]
	case 2:
		return q[0] + " or " + q[1]
	default:
		return strings.Join(q[:len(q)-1], ", ") + ", or " + q[len(q)-1]
	}
}

func (e *Error) clone() *Error {
	c := *e
	c.Expected = append([]string(nil), e.Expected...)
	c.Contexts = append([]string(nil), e.Contexts...)
	return &c
}

// merge folds o, located at the same position, into a copy of e.
func (e *Error) merge(o *Error) *Error {
	c := e.clone()
	for _, x := range o.Expected {
		if !contains(c.Expected, x) {
			c.Expected = append(c.Expected, x)
		}
	}
	if c.Message == "" && o.Message != "" {
		c.Message = o.Message
		c.Cause = o.Cause
		c.Span = o.Span
	}
	c.Fatal = c.Fatal || o.Fatal
	return c
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// furthest picks the error with the greater position, merging on a tie.
func furthest(a, b *Error) *Error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Pos > a.Pos:
		return b
	case b.Pos < a.Pos:
		return a
	default:
		return a.merge(b)
	}
}

// AsError converts any error to *Error, locating foreign errors at in.
func AsError(in Input, err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	tok := in.Peek()
	return &Error{Pos: tok.Index, Span: tok.Span, Found: tok.Text(), Message: err.Error(), Cause: err}
}
