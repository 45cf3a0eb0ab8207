package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlfront/internal/cli/config"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer stored on the
// command context by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat), cfg.Color),
	}
}

// ParserOptions builds parser options from the config.
func (c *CommandContext) ParserOptions() (parser.Options, error) {
	d, err := dialect.Lookup(c.Cfg.Dialect)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{
		Dialect:      d,
		Mode:         c.Cfg.SQLMode,
		AllowPartial: c.Cfg.AllowPartial,
		Charset:      c.Cfg.Charset,
		Collation:    c.Cfg.Collation,
	}, nil
}

// source is one named piece of SQL text.
type source struct {
	Name string
	SQL  string
}

// collectSources gathers SQL from -e values, then files, then stdin when
// neither was given and stdin is not a terminal.
func collectSources(cmd *cobra.Command, files, exprs []string) ([]source, error) {
	var out []source
	for i, e := range exprs {
		out = append(out, source{Name: fmt.Sprintf("-e[%d]", i+1), SQL: e})
	}
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		out = append(out, source{Name: filepath.ToSlash(f), SQL: string(content)})
	}
	if len(out) > 0 {
		return out, nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return nil, fmt.Errorf("no input: pass files, -e SQL or pipe SQL on stdin")
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return nil, fmt.Errorf("no input: stdin was empty")
	}
	return []source{{Name: "<stdin>", SQL: string(content)}}, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
