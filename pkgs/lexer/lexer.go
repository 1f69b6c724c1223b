// Package lexer splits a single Smali physical line into whitespace
// separated fields while respecting double-quoted strings, and extracts a
// trailing end-of-line comment. It never fails: semantic errors surface in
// the statement parser, not here.
package lexer

import "strings"

// ASCII classification table, populated once. Smali source is ASCII in
// practice (descriptors, register names, directive keywords); bytes above
// 127 only ever occur inside quoted string literals, which the scanner
// below treats opaquely.
var isSpace [256]bool

func init() {
	for _, c := range []byte{' ', '\t', '\n', '\v', '\f', '\r'} {
		isSpace[c] = true
	}
}

// Line is the result of lexing one physical line.
type Line struct {
	// Clean is the line with leading/trailing whitespace and the trailing
	// EOL comment (if any) removed.
	Clean string
	// EOLComment is everything matched by the trailing `\s*(?:#.*)?$`
	// span, including any whitespace that preceded a `#`, or trailing
	// whitespace alone when there was no comment.
	EOLComment string
	// Fields is Clean split on runs of spaces, treating a double-quoted
	// span (honoring `\x` escapes) as non-splittable.
	Fields []string
}

// Lex tokenizes a single already-left-trimmed, CR/LF-stripped line.
func Lex(raw string) Line {
	clean, comment := splitEOLComment(raw)
	return Line{
		Clean:      clean,
		EOLComment: comment,
		Fields:     splitFields(clean),
	}
}

// splitEOLComment finds the greatest-match trailing span of optional
// whitespace followed by an optional `#...` comment, equivalent to Python's
// `re.search(r'\s*(?:#.*)?$')`. That regex is not quote-aware — re.search
// finds the leftmost '#' regardless of any surrounding quotes, so a '#'
// inside a double-quoted string still starts the comment span and
// truncates the string (verified against the original:
// `.source "a # b"` yields EOLComment = ` # b"`). Note this always matches
// (it can match the empty string), so when there is no comment and no
// trailing whitespace, EOLComment is "".
func splitEOLComment(s string) (clean string, eolComment string) {
	commentStart := strings.IndexByte(s, '#')

	if commentStart >= 0 {
		// Walk back from commentStart over whitespace to include the
		// leading whitespace run in the comment span.
		wsStart := commentStart
		for wsStart > 0 && isSpace[s[wsStart-1]] {
			wsStart--
		}
		return s[:wsStart], s[wsStart:]
	}

	// No comment: trailing whitespace alone forms the (possibly empty)
	// matched span.
	trimEnd := len(s)
	for trimEnd > 0 && isSpace[s[trimEnd-1]] {
		trimEnd--
	}
	return s[:trimEnd], s[trimEnd:]
}

// splitFields splits s on runs of spaces, except spaces inside a balanced
// double-quoted span (respecting `\x` escapes within the quotes).
func splitFields(s string) []string {
	var fields []string
	var cur []byte
	inQuotes := false
	flush := func() {
		if len(cur) > 0 {
			fields = append(fields, string(cur))
			cur = cur[:0]
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuotes && i+1 < len(s):
			cur = append(cur, c, s[i+1])
			i++
		case c == '"':
			inQuotes = !inQuotes
			cur = append(cur, c)
		case c == ' ' && !inQuotes:
			flush()
		default:
			cur = append(cur, c)
		}
	}
	flush()
	return fields
}

// Cursor is a one-item-lookahead reader over a field slice.
type Cursor struct {
	fields []string
	pos    int
}

// NewCursor returns a Cursor positioned before the first field.
func NewCursor(fields []string) *Cursor {
	return &Cursor{fields: fields}
}

// Next returns the next field and advances, or ok=false at end of input.
func (c *Cursor) Next() (string, bool) {
	if c.pos >= len(c.fields) {
		return "", false
	}
	v := c.fields[c.pos]
	c.pos++
	return v, true
}

// Peek returns the next field without advancing.
func (c *Cursor) Peek() (string, bool) {
	if c.pos >= len(c.fields) {
		return "", false
	}
	return c.fields[c.pos], true
}

// Empty reports whether the cursor has been exhausted.
func (c *Cursor) Empty() bool {
	return c.pos >= len(c.fields)
}

// Remaining returns the fields not yet consumed.
func (c *Cursor) Remaining() []string {
	return c.fields[c.pos:]
}
