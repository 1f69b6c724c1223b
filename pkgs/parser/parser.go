// Package parser turns Smali source text into a flat slice of fully
// resolved ast.Statement values (spec.md §4). It owns both passes of the
// block-resolution algorithm described there: per-line classification and
// field parsing (spec.md §4.2), and the MAYBE_BLOCK_START backward-scan
// disambiguation (spec.md §4.3). Nesting the flat list into a Block tree is
// pkgs/smali's job, not this package's — it builds smali.Block, which this
// package has no business knowing about.
//
// Grounded on the teacher's pkgs/parser/parser.go for overall Parser shape
// and dispatch style, and on original_source/smali/statements.py for the
// exact per-variant field grammar this package must reproduce byte-for-byte.
package parser

import (
	"regexp"
	"strings"

	"github.com/aledsdavies/smali/pkgs/ast"
	"github.com/aledsdavies/smali/pkgs/lexer"
	"github.com/aledsdavies/smali/pkgs/token"
	"github.com/aledsdavies/smali/pkgs/validate"
)

// ValidateStatements gates the trailing-fields assertion described in
// spec.md §5 ("Process-wide validation toggles"). It is the process-wide
// validate.Statements toggle itself, not a copy. Off by default, like the
// teacher's own package-level feature toggles; read once per Parse call, not
// rechecked line by line.
var ValidateStatements = &validate.Statements

var methodSignatureRe = regexp.MustCompile(`^(.*?)\((.*)\)(.*)$`)

// Parse lexes and classifies every physical line of source, returning the
// fully resolved flat statement list (both parser passes applied).
func Parse(source string) ([]*ast.Statement, error) {
	validate := ValidateStatements.Load()

	var all []*ast.Statement
	var maybeStack []int

	rawLines := strings.Split(source, "\n")
	// Mirror Python's str.splitlines(): a single trailing line terminator
	// does not produce a spurious final empty line.
	if n := len(rawLines); n > 0 && rawLines[n-1] == "" {
		rawLines = rawLines[:n-1]
	}
	for i, raw := range rawLines {
		lineNo := i + 1
		stmts, err := parseLine(source, lineNo, raw, validate)
		if err != nil {
			return nil, err
		}
		for _, st := range stmts {
			idx := len(all)
			all = append(all, st)

			switch {
			case st.Attributes.Has(ast.MaybeBlockStart):
				maybeStack = append(maybeStack, idx)
			case st.Attributes.Has(ast.BlockEndAttr):
				resolveMaybeBlockStart(all, &maybeStack, st)
			}
		}
	}

	// Anything still pending never found a matching terminator: it was a
	// single-line Field or Param after all (spec.md §4.3).
	for _, idx := range maybeStack {
		st := all[idx]
		st.Attributes &^= ast.MaybeBlockStart
		st.Attributes |= ast.SingleLine
	}

	return all, nil
}

// resolveMaybeBlockStart scans the candidate stack from most to least
// recent looking for one whose block_ends_with tuple matches end. The
// first match promotes that candidate to BLOCK_START and removes just that
// entry from the stack; candidates pushed after it stay on the stack.
func resolveMaybeBlockStart(all []*ast.Statement, stack *[]int, end *ast.Statement) {
	for i := len(*stack) - 1; i >= 0; i-- {
		idx := (*stack)[i]
		candidate := all[idx]
		variant, modifiers, ok := candidate.BlockEndsWith()
		if !ok || variant != end.Variant {
			continue
		}
		if end.Variant == ast.End && modifiers != end.Modifiers {
			continue
		}
		candidate.Attributes &^= ast.MaybeBlockStart
		candidate.Attributes |= ast.BlockStartAttr
		*stack = append((*stack)[:i], (*stack)[i+1:]...)
		return
	}
}

func stripCRLF(s string) string {
	return strings.TrimRight(s, "\r\n")
}

func lstrip(s string) string {
	return strings.TrimLeft(s, " \t\v\f")
}

// base fills in the fields every Statement carries regardless of variant,
// from the raw physical line. lineLex is returned alongside so callers that
// need it (directive dispatch) don't re-lex.
func base(raw string, variant ast.Variant, attrs ast.Attributes) (*ast.Statement, lexer.Line) {
	rawStripped := stripCRLF(raw)
	ls := lstrip(rawStripped)
	ll := lexer.Lex(ls)
	return &ast.Statement{
		Variant:    variant,
		RawLine:    rawStripped,
		Lstripped:  ls,
		CleanLine:  ll.Clean,
		EOLComment: ll.EOLComment,
		Attributes: attrs,
	}, ll
}

// parseLine implements the eight-step dispatch of spec.md §4.2. trimmed is
// classified on a plain whitespace-only strip of raw, matching
// original_source/smali/statements.py's own classification variable, which
// is computed before comment stripping — a bare "}" line carrying a
// trailing comment is therefore classified as Body, not BlockEnd, because
// "} # c" does not end with "}" under a plain strip. This is faithful to
// the original, not an oversight.
func parseLine(source string, lineNo int, raw string, validate bool) ([]*ast.Statement, error) {
	trimmed := strings.TrimSpace(raw)

	// Step 1: blank line.
	if trimmed == "" {
		st, _ := base(raw, ast.Blank, ast.SingleLine|ast.NoIndent)
		return []*ast.Statement{st}, nil
	}

	// Step 2: comment line.
	if trimmed[0] == '#' {
		st, _ := base(raw, ast.Comment, ast.SingleLine)
		return []*ast.Statement{st}, nil
	}

	// Step 3: assignment line (exactly one top-level '=').
	if eqPositions := findTopLevelEquals(trimmed); len(eqPositions) > 0 {
		if len(eqPositions) != 1 {
			return nil, newParseError(source, lineNo, "assignment line has %d top-level '=' signs, want 1", len(eqPositions))
		}
		pos := eqPositions[0]
		lhsStmts, err := parseLine(source, lineNo, trimmed[:pos], validate)
		if err != nil {
			return nil, err
		}
		rhsStmts, err := parseLine(source, lineNo, trimmed[pos+1:], validate)
		if err != nil {
			return nil, err
		}
		if len(lhsStmts) == 0 || len(rhsStmts) == 0 {
			return nil, newParseError(source, lineNo, "assignment line missing a side")
		}
		lhsStmts[0].Attributes |= ast.AssignmentLHS
		rhsStmts[0].Attributes |= ast.AssignmentRHS
		return append(lhsStmts, rhsStmts...), nil
	}

	// Step 4/5/6: brace handling. A lone brace is never ambiguous: unlike
	// Field/Param, it always opens or closes a block outright.
	if trimmed == "}" {
		st, _ := base(raw, ast.BlockEnd, ast.BlockEndAttr)
		return []*ast.Statement{st}, nil
	}
	if trimmed == "{" {
		st, _ := base(raw, ast.BlockStart, ast.BlockStartAttr)
		return []*ast.Statement{st}, nil
	}
	if strings.HasSuffix(trimmed, "}") || strings.HasSuffix(trimmed, "{") || strings.HasPrefix(trimmed, "{") {
		return parseBracketSplit(source, lineNo, trimmed, validate)
	}

	// Step 7: directive dispatch.
	if trimmed[0] == '.' {
		return parseDirective(source, lineNo, raw, trimmed, validate)
	}

	// Step 8: fallback.
	st, _ := base(raw, ast.Body, ast.SingleLine)
	return []*ast.Statement{st}, nil
}

// parseBracketSplit handles lines where '{' and/or '}' appear alongside
// other content on the same physical line: each bracket becomes its own
// statement (recursively classified, which is how a trailing
// `.field ... = { ` ends up tagged MAYBE_BLOCK_START rather than
// BLOCK_START — see spec.md §4.1/§4.3), and every statement after the
// first is tagged NO_BREAK so the printer keeps them on one line.
func parseBracketSplit(source string, lineNo int, trimmed string, validate bool) ([]*ast.Statement, error) {
	parts := splitBrackets(trimmed)
	var out []*ast.Statement
	for _, part := range parts {
		stmts, err := parseLine(source, lineNo, part, validate)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	for i := 1; i < len(out); i++ {
		out[i].Attributes |= ast.NoBreak
	}
	return out, nil
}

// splitBrackets splits s into "{", "}", and plain-text segments, consuming
// a single adjacent space on either side of a brace (so "Foo { " becomes
// ["Foo", "{"], not ["Foo ", "{"]), and drops whitespace-only segments.
func splitBrackets(s string) []string {
	var raw []string
	start := 0
	n := len(s)
	for i := 0; i < n; i++ {
		switch s[i] {
		case '{':
			segEnd := i
			if segEnd > start && s[segEnd-1] == ' ' {
				segEnd--
			}
			if segEnd > start {
				raw = append(raw, s[start:segEnd])
			}
			raw = append(raw, "{")
			i++
			if i < n && s[i] == ' ' {
				i++
			}
			start = i
			i--
		case '}':
			segEnd := i
			if segEnd > start && s[segEnd-1] == ' ' {
				segEnd--
			}
			if segEnd > start {
				raw = append(raw, s[start:segEnd])
			}
			raw = append(raw, "}")
			start = i + 1
			if start < n && s[start] == ' ' {
				start++
			}
		}
	}
	if start < n {
		raw = append(raw, s[start:n])
	}

	out := raw[:0]
	for _, p := range raw {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// findTopLevelEquals returns the byte offsets of every '=' in s that falls
// outside a quoted span.
func findTopLevelEquals(s string) []int {
	var positions []int
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuotes:
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == '=' && !inQuotes:
			positions = append(positions, i)
		}
	}
	return positions
}

type modifierFamily int

const (
	noModifiers modifierFamily = iota
	classFamily
	fieldFamily
	methodFamily
	annotationFamily
	endFamily
	restartFamily
)

var directiveModifierFamily = map[token.Directive]modifierFamily{
	token.Class:      classFamily,
	token.Field:      fieldFamily,
	token.Method:     methodFamily,
	token.Annotation: annotationFamily,
	token.End:        endFamily,
	token.Restart:    restartFamily,
}

// consumeModifiers repeatedly peeks the cursor and OR's in every leading
// field that names a flag in family, stopping at the first field that
// doesn't (spec.md §4.2 step 7's "Modifiers" rule).
func consumeModifiers(cur *lexer.Cursor, family modifierFamily) (bits uint32, has bool) {
	for {
		name, ok := cur.Peek()
		if !ok {
			return bits, has
		}
		var bit uint32
		var found bool
		switch family {
		case classFamily:
			if b, ok := token.ClassModifiers(0).Find(name); ok {
				bit, found = uint32(b), true
			}
		case fieldFamily:
			if b, ok := token.FieldModifiers(0).Find(name); ok {
				bit, found = uint32(b), true
			}
		case methodFamily:
			if b, ok := token.MethodModifiers(0).Find(name); ok {
				bit, found = uint32(b), true
			}
		case annotationFamily:
			if b, ok := token.AnnotationModifiers(0).Find(name); ok {
				bit, found = uint32(b), true
			}
		case endFamily:
			if b, ok := token.EndModifiers(0).Find(name); ok {
				bit, found = uint32(b), true
			}
		case restartFamily:
			if b, ok := token.RestartModifiers(0).Find(name); ok {
				bit, found = uint32(b), true
			}
		}
		if !found {
			return bits, has
		}
		cur.Next()
		bits |= bit
		has = true
	}
}

// parseDirective implements spec.md §4.2 step 7: identify the directive
// keyword, consume any modifiers, then dispatch to the per-variant field
// grammar from original_source/smali/statements.py.
func parseDirective(source string, lineNo int, raw string, trimmed string, validate bool) ([]*ast.Statement, error) {
	firstSpace := strings.IndexByte(trimmed, ' ')
	first := trimmed
	if firstSpace >= 0 {
		first = trimmed[:firstSpace]
	}
	if len(first) <= 1 {
		return nil, newParseError(source, lineNo, "directive token %q is too short", first)
	}
	d, ok := token.Lookup(first[1:])
	if !ok {
		return nil, newParseError(source, lineNo, "unknown directive %q", first)
	}

	variant := directiveVariant(d)
	attrs, ok := variantAttrs(d)
	if !ok {
		return nil, newParseError(source, lineNo, "directive %q has no statement mapping", first)
	}

	st, ll := base(raw, variant, attrs)
	cur := lexer.NewCursor(ll.Fields)
	cur.Next() // the directive token itself, already identified above

	if family, ok := directiveModifierFamily[d]; ok {
		bits, has := consumeModifiers(cur, family)
		st.Modifiers = bits
		st.HasModifiers = has
	}

	if err := parseDirectiveFields(source, lineNo, d, st, cur); err != nil {
		return nil, err
	}

	if validate && !cur.Empty() {
		return nil, newParseError(source, lineNo, "%q has unparsed trailing fields: %v", first, cur.Remaining())
	}

	return []*ast.Statement{st}, nil
}

func directiveVariant(d token.Directive) ast.Variant {
	switch d {
	case token.Annotation:
		return ast.Annotation
	case token.ArrayData:
		return ast.ArrayData
	case token.Catch:
		return ast.Catch
	case token.CatchAll:
		return ast.CatchAll
	case token.Class:
		return ast.Class
	case token.End:
		return ast.End
	case token.Enum:
		return ast.Enum
	case token.Field:
		return ast.Field
	case token.Implements:
		return ast.Implements
	case token.Line:
		return ast.Line
	case token.Local:
		return ast.Local
	case token.Locals:
		return ast.Locals
	case token.Method:
		return ast.Method
	case token.PackedSwitch:
		return ast.PackedSwitch
	case token.Param:
		return ast.Param
	case token.Prologue:
		return ast.Prologue
	case token.Registers:
		return ast.Registers
	case token.Restart:
		return ast.Restart
	case token.Source:
		return ast.Source
	case token.SparseSwitch:
		return ast.SparseSwitch
	case token.Subannotation:
		return ast.Subannotation
	case token.Super:
		return ast.Super
	default:
		return ast.Body
	}
}

// variantAttrs returns the initial Attributes for a freshly classified
// directive statement. Field and Param start out MAYBE_BLOCK_START
// (spec.md §4.1); Annotation/ArrayData/Method/PackedSwitch/SparseSwitch/
// Subannotation always open a block; everything else is single-line.
func variantAttrs(d token.Directive) (ast.Attributes, bool) {
	switch d {
	case token.Field, token.Param:
		return ast.MaybeBlockStart, true
	case token.Annotation, token.ArrayData, token.Method, token.PackedSwitch,
		token.SparseSwitch, token.Subannotation:
		return ast.BlockStartAttr, true
	case token.End:
		return 0, true // fixed up once the kind modifier is known
	case token.Catch, token.CatchAll, token.Class, token.Enum, token.Implements,
		token.Line, token.Local, token.Locals, token.Prologue, token.Registers,
		token.Restart, token.Source, token.Super:
		return ast.SingleLine, true
	default:
		return 0, false
	}
}

// parseDirectiveFields consumes the remaining fields per variant, mirroring
// original_source/smali/statements.py's per-class parse() methods field for
// field.
func parseDirectiveFields(source string, lineNo int, d token.Directive, st *ast.Statement, cur *lexer.Cursor) error {
	next := func() (string, error) {
		v, ok := cur.Next()
		if !ok {
			return "", newParseError(source, lineNo, "%s: expected another field", d)
		}
		return v, nil
	}

	switch d {
	case token.Class, token.Implements, token.Super, token.Subannotation, token.Annotation:
		v, err := next()
		if err != nil {
			return err
		}
		st.ClassDescriptor = v

	case token.Enum:
		v, err := next()
		if err != nil {
			return err
		}
		st.FieldReference = v

	case token.Field:
		v, err := next()
		if err != nil {
			return err
		}
		parts := strings.SplitN(v, ":", 2)
		st.MemberName = parts[0]
		if len(parts) == 2 {
			st.TypeDescriptor = parts[1]
		}

	case token.Method:
		v, err := next()
		if err != nil {
			return err
		}
		m := methodSignatureRe.FindStringSubmatch(v)
		if m == nil {
			return newParseError(source, lineNo, "method line %q does not match name(params)result", v)
		}
		st.MemberName = m[1]
		st.MethodParams = m[2]
		st.MethodResultType = m[3]

	case token.ArrayData:
		v, err := next()
		if err != nil {
			return err
		}
		lit, perr := ast.ParseIntLiteral(v)
		if perr != nil {
			return newParseError(source, lineNo, "array-data width: %v", perr)
		}
		st.ElementWidth = lit

	case token.Catch:
		td, err := next()
		if err != nil {
			return err
		}
		st.TypeDescriptor = td
		if err := parseCatchLabels(source, lineNo, cur, st); err != nil {
			return err
		}

	case token.CatchAll:
		if err := parseCatchLabels(source, lineNo, cur, st); err != nil {
			return err
		}

	case token.Line:
		v, err := next()
		if err != nil {
			return err
		}
		lit, perr := ast.ParseIntLiteral(v)
		if perr != nil {
			return newParseError(source, lineNo, "line number: %v", perr)
		}
		st.LineNo = lit

	case token.Locals:
		v, err := next()
		if err != nil {
			return err
		}
		lit, perr := ast.ParseIntLiteral(v)
		if perr != nil {
			return newParseError(source, lineNo, "locals count: %v", perr)
		}
		st.LocalCount = lit

	case token.Registers:
		v, err := next()
		if err != nil {
			return err
		}
		lit, perr := ast.ParseIntLiteral(v)
		if perr != nil {
			return newParseError(source, lineNo, "registers count: %v", perr)
		}
		st.RegisterCount = lit

	case token.PackedSwitch:
		v, err := next()
		if err != nil {
			return err
		}
		lit, perr := ast.ParseIntLiteral(v)
		if perr != nil {
			return newParseError(source, lineNo, "packed-switch literal: %v", perr)
		}
		st.SwitchLiteral = lit

	case token.SparseSwitch, token.Prologue:
		// no fields

	case token.Local:
		reg, err := next()
		if err != nil {
			return err
		}
		reg = strings.TrimSuffix(reg, ",")
		st.Register = reg
		if cur.Empty() {
			return nil
		}
		nameType, err := next()
		if err != nil {
			return err
		}
		parts := strings.SplitN(nameType, ":", 2)
		st.VariableName = parts[0]
		if len(parts) == 2 {
			typ := parts[1]
			if strings.HasSuffix(typ, ",") {
				typ = strings.TrimSuffix(typ, ",")
				st.VariableType = typ
				lit, err := next()
				if err != nil {
					return err
				}
				st.Literal = lit
			} else {
				st.VariableType = typ
			}
		}

	case token.Param:
		reg, err := next()
		if err != nil {
			return err
		}
		if strings.HasSuffix(reg, ",") {
			reg = strings.TrimSuffix(reg, ",")
			st.Register = reg
			lit, err := next()
			if err != nil {
				return err
			}
			st.RegisterLiteral = lit
			st.HasRegisterLit = true
		} else {
			st.Register = reg
		}

	case token.Restart:
		reg, err := next()
		if err != nil {
			return err
		}
		st.Register = reg

	case token.Source:
		v, err := next()
		if err != nil {
			return err
		}
		st.SourceTarget = strings.TrimSuffix(strings.TrimPrefix(v, `"`), `"`)

	case token.End:
		if token.EndModifiers(st.Modifiers) == token.EndLocal {
			st.Attributes = ast.SingleLine
			reg, err := next()
			if err != nil {
				return err
			}
			st.LocalRegister = reg
		} else {
			st.Attributes = ast.BlockEndAttr
		}
	}

	return nil
}

// parseCatchLabels consumes the shared `{:start .. :end} :catch` tail of
// Catch and CatchAll lines.
func parseCatchLabels(source string, lineNo int, cur *lexer.Cursor, st *ast.Statement) error {
	startTok, ok := cur.Next()
	if !ok {
		return newParseError(source, lineNo, "catch: expected try-start label")
	}
	st.TryStartLabel = strings.TrimPrefix(startTok, "{:")

	if _, ok := cur.Next(); !ok { // the ".." literal
		return newParseError(source, lineNo, "catch: expected '..'")
	}

	endTok, ok := cur.Next()
	if !ok {
		return newParseError(source, lineNo, "catch: expected try-end label")
	}
	endTok = strings.TrimPrefix(endTok, ":")
	endTok = strings.TrimSuffix(endTok, "}")
	st.TryEndLabel = endTok

	catchTok, ok := cur.Next()
	if !ok {
		return newParseError(source, lineNo, "catch: expected catch label")
	}
	st.CatchLabel = strings.TrimPrefix(catchTok, ":")
	return nil
}
