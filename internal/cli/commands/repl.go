package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/astutil"
	"github.com/leapstack-labs/sqlfront/pkg/dialect"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "sqlfront> "
	replContPrompt = "     ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive parser shell",
		Long: `Start an interactive shell that parses each statement as it is
entered and prints its syntax tree.

Statements may span several lines and end with a semicolon. Lines
starting with a dot are shell commands; type .help to list them.`,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	popts, err := cc.ParserOptions()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Printf("sqlfront REPL (dialect: %s)\n", popts.Dialect.Name)
	cc.Renderer.Println("Type .help for commands, .quit to exit")
	cc.Renderer.Println()

	s := newREPLSession(cc.Renderer, popts)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(s.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if s.feed(line) {
			break
		}
		rl.SetPrompt(s.prompt())
	}
	return nil
}

// historyFile returns the REPL history path under the user cache dir, or
// "" when there is none.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "sqlfront")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

func newDotCompleter() *readline.PrefixCompleter {
	dialects := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".mode",
			readline.PcItem("ANSI"),
			readline.PcItem("ANSI_QUOTES"),
			readline.PcItem("HIGH_NOT_PRECEDENCE"),
			readline.PcItem("NO_BACKSLASH_ESCAPES"),
			readline.PcItem("PIPES_AS_CONCAT"),
			readline.PcItem("none"),
		),
		readline.PcItem(".tokens", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// replSession is the line-level state of the shell, independent of the
// terminal.
type replSession struct {
	r          *output.Renderer
	opts       parser.Options
	showTokens bool
	buf        strings.Builder
}

func newREPLSession(r *output.Renderer, opts parser.Options) *replSession {
	return &replSession{r: r, opts: opts}
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return replContPrompt
	}
	return replPrompt
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// feed handles one input line and reports whether the shell should exit.
func (s *replSession) feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.buf.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dotCommand(trimmed)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}

	src := s.buf.String()
	s.buf.Reset()
	s.run(src)
	return false
}

func (s *replSession) run(src string) {
	if s.showTokens {
		toks, _, err := parser.Lex(src, s.opts.Dialect.EffectiveMode(s.opts.Mode))
		if err == nil {
			_ = renderTokens(s.r, toks, nil)
		}
	}
	stmts, err := parser.ParseScript(src, s.opts)
	if err != nil {
		s.r.Diagnostic(displayError(err, src))
		return
	}
	for _, stmt := range stmts {
		s.r.Println(astutil.Tree(stmt))
	}
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.r.Writer())

	case ".dialect":
		if len(args) == 0 {
			s.r.Printf("dialect: %s\n", s.opts.Dialect.Name)
			return false
		}
		d, err := dialect.Lookup(args[0])
		if err != nil {
			s.r.Warning(err.Error())
			return false
		}
		s.opts.Dialect = d
		s.r.Printf("dialect: %s\n", d.Name)

	case ".mode":
		if len(args) == 0 {
			s.r.Printf("mode: %s\n", modeString(s.opts.Dialect.EffectiveMode(s.opts.Mode)))
			return false
		}
		spec := strings.Join(args, ",")
		if strings.EqualFold(spec, "none") {
			spec = ""
		}
		m, err := dialect.ParseSQLMode(spec)
		if err != nil {
			s.r.Warning(err.Error())
			return false
		}
		s.opts.Mode = m
		s.r.Printf("mode: %s\n", modeString(s.opts.Dialect.EffectiveMode(m)))

	case ".tokens":
		switch {
		case len(args) == 0:
			s.showTokens = !s.showTokens
		case strings.EqualFold(args[0], "on"):
			s.showTokens = true
		case strings.EqualFold(args[0], "off"):
			s.showTokens = false
		default:
			s.r.Warning("usage: .tokens [on|off]")
			return false
		}
		s.r.Printf("tokens: %s\n", onOff(s.showTokens))

	default:
		s.r.Warning(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func modeString(m dialect.SQLMode) string {
	if m == 0 {
		return "(none)"
	}
	return m.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .dialect [name]    Show or switch the dialect
  .mode [modes]      Show or set SQL modes (comma separated, or none)
  .tokens [on|off]   Toggle printing the token stream
  .quit / .exit      Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Ctrl+C discards the statement being typed
`
	_, _ = fmt.Fprintln(w, help)
}
