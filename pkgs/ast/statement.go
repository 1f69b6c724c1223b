// Package ast holds the parsed representation of one Smali source file: the
// closed set of Statement variants (spec.md §3) and the bitflag types that
// tag them. Statement is realized as one flat struct carrying every
// variant's payload fields, tagged by Variant, rather than a class
// hierarchy — the Go analogue of how pkgs/lexer.Token in the teacher
// module carries every token kind's fields in a single struct.
package ast

import "github.com/aledsdavies/smali/pkgs/token"

// Variant is the closed set of statement kinds from spec.md §3.
type Variant int

const (
	Blank Variant = iota
	Comment
	BlockStart
	BlockEnd
	Body
	Annotation
	ArrayData
	Catch
	CatchAll
	Class
	End
	Enum
	Field
	Implements
	Line
	Local
	Locals
	Method
	PackedSwitch
	Param
	Prologue
	Registers
	Restart
	Source
	SparseSwitch
	Subannotation
	Super
)

var variantNames = [...]string{
	Blank:         "Blank",
	Comment:       "Comment",
	BlockStart:    "BlockStart",
	BlockEnd:      "BlockEnd",
	Body:          "Body",
	Annotation:    "Annotation",
	ArrayData:     "ArrayData",
	Catch:         "Catch",
	CatchAll:      "CatchAll",
	Class:         "Class",
	End:           "End",
	Enum:          "Enum",
	Field:         "Field",
	Implements:    "Implements",
	Line:          "Line",
	Local:         "Local",
	Locals:        "Locals",
	Method:        "Method",
	PackedSwitch:  "PackedSwitch",
	Param:         "Param",
	Prologue:      "Prologue",
	Registers:     "Registers",
	Restart:       "Restart",
	Source:        "Source",
	SparseSwitch:  "SparseSwitch",
	Subannotation: "Subannotation",
	Super:         "Super",
}

func (v Variant) String() string {
	if int(v) >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "Variant(?)"
}

// variantDirective maps a Variant back to the token.Directive it was parsed
// from, for variants that are directives at all.
var variantDirective = map[Variant]token.Directive{
	Annotation:    token.Annotation,
	ArrayData:     token.ArrayData,
	Catch:         token.Catch,
	CatchAll:      token.CatchAll,
	Class:         token.Class,
	End:           token.End,
	Enum:          token.Enum,
	Field:         token.Field,
	Implements:    token.Implements,
	Line:          token.Line,
	Local:         token.Local,
	Locals:        token.Locals,
	Method:        token.Method,
	PackedSwitch:  token.PackedSwitch,
	Param:         token.Param,
	Prologue:      token.Prologue,
	Registers:     token.Registers,
	Restart:       token.Restart,
	Source:        token.Source,
	SparseSwitch:  token.SparseSwitch,
	Subannotation: token.Subannotation,
	Super:         token.Super,
}

// Statement is one parsed logical line (spec.md §3). Only the fields
// relevant to Variant are meaningful; the rest are zero.
type Statement struct {
	Variant    Variant
	RawLine    string // CRLF-stripped original line, untouched otherwise
	Lstripped  string // RawLine with only leading whitespace removed
	CleanLine  string // comment-stripped, fully trimmed body
	EOLComment string
	Attributes Attributes

	// Modifiers holds the raw bitmask for whichever modifier family
	// Variant implies (see token.ClassModifiers etc.), or 0 if the
	// directive carried none. HasModifiers distinguishes "no modifiers
	// present" from "present but zero", which cannot otherwise occur
	// since parsing only sets HasModifiers when at least one flag matched.
	Modifiers    uint32
	HasModifiers bool

	// Directive-specific payload fields. Exported so pkgs/smali.Block.Find
	// can match on them by name via reflection (spec.md §4.4).
	ClassDescriptor string // Class, Implements, Super, Subannotation, Annotation
	TypeDescriptor  string // Field, Catch
	MemberName      string // Field, Method
	MethodParams    string // Method
	MethodResultType string // Method
	ElementWidth    IntLiteral // ArrayData
	TryStartLabel   string     // Catch, CatchAll
	TryEndLabel     string     // Catch, CatchAll
	CatchLabel      string     // Catch, CatchAll
	LocalRegister   string     // End (kind=local)
	FieldReference  string     // Enum
	LineNo          IntLiteral // Line
	Register        string     // Local, Param, Restart
	VariableName    string     // Local (optional)
	VariableType    string     // Local (optional)
	Literal         string     // Local (optional)
	LocalCount      IntLiteral // Locals
	SwitchLiteral   IntLiteral // PackedSwitch
	RegisterLiteral string     // Param (optional)
	HasRegisterLit  bool       // Param: RegisterLiteral present
	RegisterCount   IntLiteral // Registers
	SourceTarget    string     // Source
}

// Directive returns the token.Directive this statement was parsed from, and
// ok=false for non-directive variants (Blank, Comment, Body, BlockStart,
// BlockEnd).
func (s *Statement) Directive() (token.Directive, bool) {
	d, ok := variantDirective[s.Variant]
	return d, ok
}

// BlockEndsWith returns the (Variant, modifier) tuple the matching
// terminator for this block-opening statement must carry, and ok=false if
// this statement does not open a block. Mirrors
// original_source/smali/statements.py's `block_ends_with` property.
func (s *Statement) BlockEndsWith() (variant Variant, modifiers uint32, ok bool) {
	switch s.Variant {
	case BlockStart:
		return BlockEnd, 0, true
	case Annotation:
		return End, uint32(token.EndAnnotation), true
	case ArrayData:
		return End, uint32(token.EndArrayData), true
	case Method:
		return End, uint32(token.EndMethod), true
	case PackedSwitch:
		return End, uint32(token.EndPackedSwitch), true
	case SparseSwitch:
		return End, uint32(token.EndSparseSwitch), true
	case Subannotation:
		return End, uint32(token.EndSubannotation), true
	case Field:
		return End, uint32(token.EndField), true
	case Param:
		return End, uint32(token.EndParam), true
	default:
		return 0, 0, false
	}
}
