package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/astutil"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Exprs []string
	Watch bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse SQL and print the syntax tree",
		Long: `Parse SQL scripts and print one syntax tree per statement.

Input comes from -e, from files, or from stdin when neither is given.
Files are parsed concurrently (see --jobs). Output follows --output:
a tree on a terminal, JSON when piped, or yaml on request.`,
		Example: `  # Parse an inline statement
  sqlfront parse -e "SELECT a FROM t WHERE b > 1"

  # Parse files as JSON
  sqlfront parse -o json queries/*.sql

  # Re-parse whenever a file changes
  sqlfront parse --watch report.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Exprs, "execute", "e", nil, "SQL text to parse (repeatable)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-parse files when they change")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cc := NewCommandContext(cmd)
	popts, err := cc.ParserOptions()
	if err != nil {
		return err
	}
	if opts.Watch && len(args) == 0 {
		return fmt.Errorf("--watch needs at least one file")
	}

	sources, err := collectSources(cmd, args, opts.Exprs)
	if err != nil {
		return err
	}

	results, err := parseAll(cmd.Context(), sources, popts, cc.Cfg.Jobs)
	if err != nil {
		return err
	}
	failed, err := renderParseResults(cc.Renderer, results)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watchFiles(cmd.Context(), cc, args, popts)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed to parse", failed, len(results))
	}
	return nil
}

// parseResult is the outcome of parsing one source.
type parseResult struct {
	Source source
	Stmts  []ast.StmtNode
	Err    error
}

// parseAll parses sources with at most jobs in flight. Parse failures are
// kept per result; only cancellation aborts the run.
func parseAll(ctx context.Context, sources []source, opts parser.Options, jobs int) ([]parseResult, error) {
	results := make([]parseResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseSource(src, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseSource(src source, opts parser.Options) parseResult {
	stmts, err := parser.ParseScript(src.SQL, opts)
	return parseResult{Source: src, Stmts: stmts, Err: err}
}

// ---------- Rendering ----------

type docError struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

type parseDoc struct {
	Source     string            `json:"source" yaml:"source"`
	Statements []*astutil.Object `json:"statements,omitempty" yaml:"statements,omitempty"`
	Error      *docError         `json:"error,omitempty" yaml:"error,omitempty"`
}

// renderParseResults writes results in the renderer's mode and returns the
// number of failed sources. Diagnostics always go to the error writer.
func renderParseResults(r *output.Renderer, results []parseResult) (int, error) {
	failed := 0
	docs := make([]parseDoc, 0, len(results))
	mode := r.EffectiveMode()

	for _, res := range results {
		doc := parseDoc{Source: res.Source.Name}
		if res.Err != nil {
			failed++
			doc.Error = toDocError(res.Err)
			r.Diagnostic(fmt.Sprintf("%s:\n%s", res.Source.Name, displayError(res.Err, res.Source.SQL)))
		} else {
			for _, stmt := range res.Stmts {
				doc.Statements = append(doc.Statements, astutil.Dump(stmt))
			}
		}
		docs = append(docs, doc)

		if mode == output.ModeTree && res.Err == nil {
			if len(results) > 1 {
				r.Header(res.Source.Name)
			}
			for _, stmt := range res.Stmts {
				r.Println(astutil.Tree(stmt))
			}
		}
	}

	switch mode {
	case output.ModeJSON:
		if err := r.JSON(docs); err != nil {
			return failed, err
		}
	case output.ModeYAML:
		if err := r.YAML(docs); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

// displayError renders err against src, with a caret when it carries a
// location.
func displayError(err error, src string) string {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.DisplayWithSource(src)
	}
	var le *parser.LexError
	if errors.As(err, &le) {
		return le.DisplayWithSource(src)
	}
	return "error: " + err.Error() + "\n"
}

func toDocError(err error) *docError {
	var (
		pe  *parser.ParseError
		le  *parser.LexError
		pos token.Position
		msg = err.Error()
	)
	switch {
	case errors.As(err, &pe):
		pos, msg = pe.Pos, pe.Message
	case errors.As(err, &le):
		pos, msg = le.Pos, le.Message
	}
	return &docError{Message: msg, Line: pos.Line, Column: pos.Column}
}
