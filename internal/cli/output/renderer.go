// Package output renders CLI results: AST dumps, token tables and parse
// diagnostics, styled for terminals and plain when piped.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// OutputMode selects how results are written.
//
//nolint:revive // output.OutputMode reads better at call sites than output.Kind
type OutputMode string

// Output modes.
const (
	ModeAuto OutputMode = "auto"
	ModeText OutputMode = "text"
	ModeTree OutputMode = "tree"
	ModeJSON OutputMode = "json"
	ModeYAML OutputMode = "yaml"
)

// Mode converts a config string into an OutputMode. Unknown values map to
// ModeAuto.
func Mode(s string) OutputMode {
	switch m := OutputMode(s); m {
	case ModeText, ModeTree, ModeJSON, ModeYAML:
		return m
	}
	return ModeAuto
}

// Renderer writes command output.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   OutputMode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
// color is one of auto, always or never.
func NewRenderer(w, errW io.Writer, mode OutputMode, color string) *Renderer {
	return NewRendererWithTTY(w, errW, isTerminal(w), mode, color)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode OutputMode, color string) *Renderer {
	return &Renderer{
		w:      w,
		errW:   errW,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(colorProfile(w, isTTY, color)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile resolves the color setting. auto honors NO_COLOR and the
// terminal's capabilities; a non-terminal gets no color.
func colorProfile(w io.Writer, isTTY bool, color string) termenv.Profile {
	switch color {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.ANSI256
	}
	if !isTTY || termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// EffectiveMode resolves ModeAuto: a tree on a terminal, JSON otherwise.
// ModeText is an alias for the tree.
func (r *Renderer) EffectiveMode() OutputMode {
	switch r.mode {
	case ModeAuto:
		if r.isTTY {
			return ModeTree
		}
		return ModeJSON
	case ModeText:
		return ModeTree
	}
	return r.mode
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// ErrWriter returns the diagnostics writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errW }

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(title string) {
	r.Println(r.styles.Header.Render(title))
}

// Success writes a success line to the output.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warning writes a warning line to the diagnostics writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Warning.Render("! "+msg))
}

// Muted renders s in the muted style.
func (r *Renderer) Muted(s string) string {
	return r.styles.Muted.Render(s)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Diagnostic writes a rendered error (see parser.ParseError.DisplayWithSource)
// to the diagnostics writer.
func (r *Renderer) Diagnostic(text string) {
	_, _ = fmt.Fprint(r.errW, FormatDiagnostic(r.styles, text))
}

// Styles groups the lipgloss styles used by the CLI.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Caret   lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds styles for the given color profile.
func NewStyles(profile termenv.Profile) Styles {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(profile)
	return Styles{
		Header:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Caret:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		Key:     lr.NewStyle().Foreground(lipgloss.Color("14")),
	}
}
