package pretty

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/markwire/pkg/parser"
)

const defaultTermWidth = 80

// FormatDiagnostic formats a single parse diagnostic for terminal output.
func (s *Styles) FormatDiagnostic(path string, diag parser.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	// Location: path:line:col
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		diag.Line,
		diag.Column,
	)

	code := s.Code.Render("(" + diag.Code + ")")

	// Main line: location  severity  message  (code)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.Warning.Render("warning"),
		s.Message.Render(diag.Message),
		code,
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column))
	}

	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, diagCount int) string {
	header := s.FilePath.Render(path)
	if diagCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d diagnostics)", diagCount))
	}
	return header
}

// FormatViolation formats one escaped-markup validation violation.
func (s *Styles) FormatViolation(path, violation string) string {
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Error.Render("error"),
		s.Message.Render(violation),
	)
}

// TerminalWidth attempts to get the terminal width from the writer,
// falling back to a conventional default.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
