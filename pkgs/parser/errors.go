package parser

import (
	"fmt"
	"strings"
)

// ParseError is a fatal parsing error with the offending line's position
// and a Rust/Clang-style source snippet, grounded on the teacher's
// pkgs/parser/errors.go ParseError/createCodeSnippet.
type ParseError struct {
	Message string
	Line    int // 1-based
	Source  string
	Input   string // full source text, for snippet rendering
}

func (e *ParseError) Error() string {
	snippet := e.snippet()
	if snippet == "" {
		return e.Message
	}
	return fmt.Sprintf("%s\n%s", e.Message, snippet)
}

func (e *ParseError) snippet() string {
	if e.Input == "" || e.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.Input, "\n")
	if e.Line > len(lines) {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d\n", e.Line)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Line, lines[e.Line-1])
	b.WriteString("   |")
	return b.String()
}

func newParseError(input string, line int, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Input:   input,
	}
}
