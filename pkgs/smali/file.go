package smali

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/aledsdavies/smali/pkgs/ast"
	"github.com/aledsdavies/smali/pkgs/parser"
	"github.com/aledsdavies/smali/pkgs/printer"
	"github.com/aledsdavies/smali/pkgs/validate"
)

// SmaliFile is one parsed Smali source file: the raw text it came from and
// the Block tree nested from it. Grounded on
// original_source/smali/smali_file.py's SmaliFile class.
type SmaliFile struct {
	RawCode string
	Root    *Block
}

// FromSource parses Smali source text into a SmaliFile. If validate.Files
// is enabled, the file is round-tripped through Format and a
// *validate.ValidationError aborts construction; a ValidationWarning or
// WhitespaceWarning is returned alongside a non-nil SmaliFile, matching the
// original's use of Python warnings (non-fatal) versus a raised exception
// (fatal).
func FromSource(source string) (*SmaliFile, error) {
	statements, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	root, err := buildBlocks(statements)
	if err != nil {
		return nil, err
	}
	f := &SmaliFile{RawCode: source, Root: root}

	if validate.Files.Load() {
		reconstruction, ferr := f.Format()
		if ferr != nil {
			return nil, ferr
		}
		if verr := validate.File(source, reconstruction); verr != nil {
			if _, fatal := verr.(*validate.ValidationError); fatal {
				return nil, verr
			}
			return f, verr
		}
	}

	return f, nil
}

// FromPath reads and parses the Smali file at path.
func FromPath(path string) (*SmaliFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("smali: reading %s: %w", path, err)
	}
	return FromSource(string(data))
}

// Format renders the file back to Smali source text (spec.md §4.5's
// flatten/indent/glue pass), transliterated from smali_file.py's own
// __str__ — there is no separate generator stage in the original, so
// there isn't one here either; pkgs/printer only supplies the per-
// statement text.
func (f *SmaliFile) Format() (string, error) {
	statements := f.Root.Flatten()
	var result []string
	blockLevel := 0

	for idx, st := range statements {
		if st.Attributes.Has(ast.BlockEndAttr) {
			blockLevel--
			if blockLevel < 0 {
				return "", blockErrorf(ErrBlockMismatch, "block level became negative at statement %d", idx)
			}
		}

		indent := ""
		if !st.Attributes.Has(ast.NoIndent) {
			indent = strings.Repeat(IndentChar, blockLevel*IndentSize)
		}

		text, err := printer.Serialize(st)
		if err != nil {
			return "", err
		}

		switch {
		case st.Attributes.Has(ast.AssignmentLHS):
			result = append(result, indent+text+"= ")
		case st.Attributes.Has(ast.AssignmentRHS):
			result[len(result)-1] += text
		case st.Attributes.Has(ast.NoBreak):
			if st.Attributes.Has(ast.BlockEndAttr) && statements[idx-1].Attributes.Has(ast.BlockStartAttr) {
				result[len(result)-1] += text
			} else {
				result[len(result)-1] += " " + text
			}
		default:
			result = append(result, indent+text)
		}

		if st.Attributes.Has(ast.BlockStartAttr) {
			blockLevel++
		}
	}

	return strings.Join(result, "\n"), nil
}

var methodPrototypeRe = regexp.MustCompile(`^\((.*)\)(.*)$`)

// Find returns every Block/Statement in the file matching variant and
// attrs (spec.md §4.4).
func (f *SmaliFile) Find(variant ast.Variant, attrs map[string]interface{}) []interface{} {
	return f.Root.Find(variant, attrs)
}

// FindMethods returns every method block whose name is methodName,
// regardless of prototype.
func (f *SmaliFile) FindMethods(methodName string) []*Block {
	matches := f.Root.Find(ast.Method, map[string]interface{}{"MemberName": methodName})
	var blocks []*Block
	for _, m := range matches {
		if b, ok := m.(*Block); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// FindMethod returns the single method block matching both methodName and
// methodPrototype (a "(params)result" signature), or nil if none matches.
func (f *SmaliFile) FindMethod(methodName, methodPrototype string) (*Block, error) {
	parts := methodPrototypeRe.FindStringSubmatch(methodPrototype)
	if parts == nil {
		return nil, blockErrorf(ErrMethodPrototype, "invalid method prototype %q", methodPrototype)
	}
	matches := f.Root.Find(ast.Method, map[string]interface{}{
		"MemberName":       methodName,
		"MethodParams":     parts[1],
		"MethodResultType": parts[2],
	})
	if len(matches) == 0 {
		return nil, nil
	}
	b, _ := matches[0].(*Block)
	return b, nil
}

// FindField returns the field matching fieldName: a *Block if the field
// carries a body (e.g. an annotation), or a bare *ast.Statement if it
// never resolved to BLOCK_START.
func (f *SmaliFile) FindField(fieldName string) interface{} {
	matches := f.Root.Find(ast.Field, map[string]interface{}{"MemberName": fieldName})
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
