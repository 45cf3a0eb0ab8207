package output

import (
	"fmt"
	"strings"
)

// FormatHeader renders a header line followed by a rule of the same width.
func FormatHeader(s Styles, title string) string {
	return s.Header.Render(title) + "\n" + s.Muted.Render(strings.Repeat("─", len([]rune(title))))
}

// FormatKeyValue renders "key: value" with a styled key.
func FormatKeyValue(s Styles, key string, value any) string {
	return fmt.Sprintf("%s %v", s.Key.Render(key+":"), value)
}

// FormatDiagnostic styles a diagnostic produced by DisplayWithSource: the
// headline in the error style, the caret line in the caret style and the
// remaining gutter lines muted.
func FormatDiagnostic(s Styles, text string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case body == "":
		case i == 0:
			body = s.Error.Render(body)
		case isCaretLine(body):
			gutter, carets, _ := strings.Cut(body, "| ")
			body = s.Muted.Render(gutter+"| ") + s.Caret.Render(carets)
		default:
			if gutter, src, ok := strings.Cut(body, "| "); ok && isLineNumber(gutter) {
				body = s.Muted.Render(gutter+"| ") + src
			} else {
				body = s.Muted.Render(body)
			}
		}
		b.WriteString(body)
		b.WriteString(nl)
	}
	return b.String()
}

func isCaretLine(line string) bool {
	_, rest, ok := strings.Cut(line, "| ")
	return ok && strings.TrimSpace(rest) != "" && strings.Trim(strings.TrimSpace(rest), "^") == ""
}

func isLineNumber(gutter string) bool {
	g := strings.TrimSpace(gutter)
	return g != "" && strings.Trim(g, "0123456789") == ""
}
