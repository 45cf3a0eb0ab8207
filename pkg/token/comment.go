package token

// CommentKind distinguishes the regions the lexer skips.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment or # comment
	BlockComment                    // /* comment */
	DroppedHint                     // /*+ ... */ outside a hint position
)

// Comment is a skipped source region.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters
	Span Span
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// IsBlockComment returns true for block comments and dropped hints.
func (c *Comment) IsBlockComment() bool {
	return c.Kind == BlockComment || c.Kind == DroppedHint
}
