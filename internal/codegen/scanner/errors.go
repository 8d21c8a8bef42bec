package scanner

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed or incomplete shader declaration.
type ParseError struct {
	File      string
	Shader    string // empty when the error is not inside an entry point
	Parameter string
	Attribute string
	Line      int
	Column    int
	Message   string
	Source    string // original source, for context display
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteByte(':')
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d:", e.Line, e.Column)
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	if e.Shader != "" {
		fmt.Fprintf(&sb, "shader %s: ", e.Shader)
	}
	if e.Parameter != "" {
		fmt.Fprintf(&sb, "parameter %s: ", e.Parameter)
	}
	if e.Attribute != "" {
		fmt.Fprintf(&sb, "attribute %s: ", e.Attribute)
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// FormatWithContext returns the error message followed by the offending
// source line and a caret under the error column.
func (e *ParseError) FormatWithContext() string {
	if e.Source == "" || e.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return e.Error()
	}
	line := lines[e.Line-1]
	col := e.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Error())
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", e.Line, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

func errorAt(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}
