package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/adapter"
	"github.com/leapstack-labs/sqlfront/pkg/charset"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	// Register the MySQL adapter.
	_ "github.com/leapstack-labs/sqlfront/pkg/adapters/mysql"
)

// VerifyOptions holds options for the verify command.
type VerifyOptions struct {
	Exprs   []string
	DSN     string
	Adapter string
	Timeout time.Duration
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [file...]",
		Short: "Cross-check parse results against a live server",
		Long: `Parse each statement locally and ask a database server to prepare
it, then report whether both sides agree on its syntax.

The server's sql_mode and connection charset are used for the local
parse. Statements are prepared, never executed. A rejection for a
reason other than syntax (an unknown table, say) counts as the server
accepting the grammar.`,
		Example: `  sqlfront verify --dsn "root:pw@tcp(localhost:3306)/test" queries.sql
  sqlfront verify --dsn "$DSN" -e "SELECT a FROM t ORDER BY 1 LIMIT 2, 3"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Exprs, "execute", "e", nil, "SQL text to verify (repeatable)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "Server DSN, e.g. user:pass@tcp(host:3306)/db")
	cmd.Flags().StringVar(&opts.Adapter, "adapter", "", "Adapter type (default mysql)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Connect timeout, 0 for none (default 10s)")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string, opts *VerifyOptions) error {
	cc := NewCommandContext(cmd)
	vcfg := cc.Cfg.Verify
	if vcfg.DSN == "" {
		return fmt.Errorf("verify needs a server: pass --dsn or set verify.dsn in sqlfront.yaml")
	}
	popts, err := cc.ParserOptions()
	if err != nil {
		return err
	}
	sources, err := collectSources(cmd, args, opts.Exprs)
	if err != nil {
		return err
	}

	connectCtx, cancel := connectContext(cmd.Context(), vcfg.Timeout)
	defer cancel()
	adp, err := adapter.Open(connectCtx, adapter.Config{Type: vcfg.Adapter, DSN: vcfg.DSN}, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	report, err := Verify(cmd.Context(), adp, sources, popts, cc.Logger)
	if err != nil {
		return err
	}
	if err := renderVerifyReport(cc.Renderer, report); err != nil {
		return err
	}
	if n := report.Disagreements(); n > 0 {
		return fmt.Errorf("%d of %d statements disagree with the server", n, len(report.Results))
	}
	return nil
}

// VerifyResult is the comparison for one statement.
type VerifyResult struct {
	Source      string `json:"source" yaml:"source"`
	SQL         string `json:"sql" yaml:"sql"`
	LocalOK     bool   `json:"local_ok" yaml:"local_ok"`
	LocalError  string `json:"local_error,omitempty" yaml:"local_error,omitempty"`
	ServerOK    bool   `json:"server_ok" yaml:"server_ok"`
	ServerCode  int    `json:"server_code,omitempty" yaml:"server_code,omitempty"`
	ServerError string `json:"server_error,omitempty" yaml:"server_error,omitempty"`
	Agree       bool   `json:"agree" yaml:"agree"`
}

// VerifyReport collects the results of a verify run.
type VerifyReport struct {
	Server  adapter.Session `json:"server" yaml:"server"`
	Results []VerifyResult  `json:"results" yaml:"results"`
}

// Disagreements counts results where the parser and the server differ.
func (r *VerifyReport) Disagreements() int {
	n := 0
	for _, res := range r.Results {
		if !res.Agree {
			n++
		}
	}
	return n
}

// Verify parses every statement of sources locally and checks it on the
// connected server. The server's session mode is added to base.Mode and
// its charset fills in an unset connection charset.
func Verify(ctx context.Context, adp adapter.Adapter, sources []source, base parser.Options, logger *slog.Logger) (*VerifyReport, error) {
	sess, err := adp.Session(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("server session", "version", sess.Version, "sql_mode", sess.SQLMode, "charset", sess.Charset)

	opts := base
	opts.Dialect = adp.Dialect()
	if mode, err := sess.Mode(); err != nil {
		logger.Warn("ignoring server sql_mode", "sql_mode", sess.SQLMode, "error", err)
	} else {
		opts.Mode |= mode
	}
	if opts.Charset == "" && opts.Collation == "" && sess.Charset != "" {
		if err := charset.ValidatePair(sess.Charset, sess.Collation); err != nil {
			logger.Warn("ignoring server charset", "charset", sess.Charset, "collation", sess.Collation, "error", err)
		} else {
			opts.Charset, opts.Collation = sess.Charset, sess.Collation
		}
	}

	report := &VerifyReport{Server: *sess}
	for _, src := range sources {
		segs, err := parser.SplitScript(src.SQL, opts.Dialect.EffectiveMode(opts.Mode))
		if err != nil {
			// The whole source goes to the server as one statement.
			segs = []parser.Segment{{Text: strings.TrimSpace(src.SQL)}}
		}
		for _, seg := range segs {
			res := VerifyResult{Source: src.Name, SQL: seg.Text}

			if _, perr := parser.ParseSQL(seg.Text, opts); perr != nil {
				res.LocalError = perr.Error()
			} else {
				res.LocalOK = true
			}

			v, err := adp.Check(ctx, seg.Text)
			if err != nil {
				return nil, err
			}
			res.ServerOK = v.Accepted || !v.Syntax
			if !v.Accepted {
				res.ServerCode, res.ServerError = v.Code, v.Message
			}
			res.Agree = res.LocalOK == res.ServerOK
			report.Results = append(report.Results, res)
		}
	}
	return report, nil
}

const sqlColumnWidth = 48

func renderVerifyReport(r *output.Renderer, report *VerifyReport) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeYAML:
		return r.YAML(report)
	}

	r.Println(output.FormatKeyValue(r.Styles(), "server", report.Server.Version))
	r.Println(output.FormatKeyValue(r.Styles(), "sql_mode", report.Server.SQLMode))

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Source", "Statement", "Local", "Server", "Agree"})
	for i, res := range report.Results {
		stmt := strings.Join(strings.Fields(res.SQL), " ")
		t.AppendRow(table.Row{
			i + 1, res.Source,
			runewidth.Truncate(stmt, sqlColumnWidth, "…"),
			okText(res.LocalOK), serverText(res), agreeText(r, res.Agree),
		})
	}
	t.Render()

	for i, res := range report.Results {
		if res.Agree {
			continue
		}
		r.Printf("#%d %s\n", i+1, r.Muted(res.Source))
		if res.LocalError != "" {
			r.Printf("  local:  %s\n", res.LocalError)
		}
		if res.ServerError != "" {
			r.Printf("  server: %d %s\n", res.ServerCode, res.ServerError)
		}
	}

	if n := report.Disagreements(); n == 0 {
		r.Success(fmt.Sprintf("all %d statements agree", len(report.Results)))
	}
	return nil
}

func okText(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func serverText(res VerifyResult) string {
	switch {
	case res.ServerCode == 0:
		return "ok"
	case res.ServerOK:
		return fmt.Sprintf("ok (%d)", res.ServerCode)
	}
	return fmt.Sprintf("error (%d)", res.ServerCode)
}

func agreeText(r *output.Renderer, agree bool) string {
	if agree {
		return r.Styles().Success.Render("yes")
	}
	return r.Styles().Error.Render("no")
}

// connectContext bounds the connection attempt by timeout when it is set.
func connectContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
