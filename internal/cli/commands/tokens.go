package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	File     string
	Comments bool
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [SQL]",
		Short: "Show the token stream for SQL text",
		Long: `Tokenize SQL text and print every token with its kind, text,
byte span, line and column, and keyword class.

The SQL mode in effect decides how backslashes inside strings are read.`,
		Example: `  sqlfront tokens "SELECT /*+ BKA(t) */ a FROM t"
  sqlfront tokens -f query.sql --comments
  echo "SELECT 1" | sqlfront tokens -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read SQL from file")
	cmd.Flags().BoolVar(&opts.Comments, "comments", false, "Also list skipped comments")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	cc := NewCommandContext(cmd)
	popts, err := cc.ParserOptions()
	if err != nil {
		return err
	}

	var src string
	switch {
	case len(args) > 0:
		src = strings.Join(args, " ")
	case opts.File != "":
		content, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		src = string(content)
	default:
		sources, err := collectSources(cmd, nil, nil)
		if err != nil {
			return err
		}
		src = sources[0].SQL
	}

	toks, comments, err := parser.Lex(src, popts.Dialect.EffectiveMode(popts.Mode))
	if err != nil {
		cc.Renderer.Diagnostic(displayError(err, src))
		return err
	}
	if !opts.Comments {
		comments = nil
	}
	return renderTokens(cc.Renderer, toks, comments)
}

type tokenRow struct {
	Index  int    `json:"index" yaml:"index"`
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Class  string `json:"class,omitempty" yaml:"class,omitempty"`
}

type commentRow struct {
	Kind  string `json:"kind" yaml:"kind"`
	Text  string `json:"text" yaml:"text"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

var commentKinds = map[token.CommentKind]string{
	token.LineComment:  "line",
	token.BlockComment: "block",
	token.DroppedHint:  "dropped-hint",
}

func renderTokens(r *output.Renderer, toks []token.Token, comments []token.Comment) error {
	rows := make([]tokenRow, 0, len(toks))
	for i, t := range toks {
		if t.Kind == token.EOI {
			continue
		}
		pos := t.Position()
		rows = append(rows, tokenRow{
			Index:  i,
			Kind:   t.Kind.String(),
			Text:   t.Text(),
			Start:  t.Span.Start,
			End:    t.Span.End,
			Line:   pos.Line,
			Column: pos.Column,
			Class:  t.Kind.Class().String(),
		})
	}
	crows := make([]commentRow, 0, len(comments))
	for _, c := range comments {
		crows = append(crows, commentRow{Kind: commentKinds[c.Kind], Text: c.Text, Start: c.Span.Start, End: c.Span.End})
	}

	doc := struct {
		Tokens   []tokenRow   `json:"tokens" yaml:"tokens"`
		Comments []commentRow `json:"comments,omitempty" yaml:"comments,omitempty"`
	}{rows, crows}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doc)
	case output.ModeYAML:
		return r.YAML(doc)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Text", "Span", "Pos", "Class"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Index, row.Kind, row.Text,
			fmt.Sprintf("%d..%d", row.Start, row.End),
			fmt.Sprintf("%d:%d", row.Line, row.Column),
			row.Class,
		})
	}
	t.Render()
	r.Printf("(%d tokens)\n", len(rows))

	if len(crows) > 0 {
		ct := table.NewWriter()
		ct.SetOutputMirror(r.Writer())
		ct.SetStyle(table.StyleLight)
		ct.AppendHeader(table.Row{"Comment", "Text", "Span"})
		for _, c := range crows {
			ct.AppendRow(table.Row{c.Kind, c.Text, fmt.Sprintf("%d..%d", c.Start, c.End)})
		}
		ct.Render()
	}
	return nil
}
