// Package printer renders a single ast.Statement back to its Smali source
// text. It is the per-statement half of spec.md §4.5's pretty-printing
// algorithm; the block-level flatten/indent/glue pass over a whole file is
// pkgs/smali.SmaliFile.Format's job, since that is also where the original
// keeps it (original_source/smali/smali_file.py's own __str__, not a
// separate generator module — there is no equivalent of the teacher's
// pkgs/generator here, because this domain's output is source text, not
// generated Go). Every case below is transliterated directly from the
// matching __str__ method in original_source/smali/statements.py.
package printer

import (
	"fmt"

	"github.com/aledsdavies/smali/pkgs/ast"
	"github.com/aledsdavies/smali/pkgs/token"
)

// FormatError reports that a Statement could not be serialized, grounded
// on the teacher's pkgs/generator/errors.go GeneratorError shape.
type FormatError struct {
	Variant ast.Variant
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("printer: %s: %s", e.Variant, e.Message)
}

// Serialize renders one statement back to Smali source text.
func Serialize(st *ast.Statement) (string, error) {
	switch st.Variant {
	case ast.Blank:
		return "", nil
	case ast.Comment:
		return st.Lstripped, nil
	case ast.BlockStart:
		return st.Lstripped + st.EOLComment, nil
	case ast.BlockEnd:
		return "}" + st.EOLComment, nil
	case ast.Body:
		return st.CleanLine + st.EOLComment, nil

	case ast.Annotation:
		return fmt.Sprintf("%s %s %s%s", descriptor(st), token.AnnotationModifiers(st.Modifiers), st.ClassDescriptor, st.EOLComment), nil
	case ast.ArrayData:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.ElementWidth, st.EOLComment), nil
	case ast.Catch:
		return fmt.Sprintf("%s %s {:%s .. :%s} :%s%s", descriptor(st), st.TypeDescriptor, st.TryStartLabel, st.TryEndLabel, st.CatchLabel, st.EOLComment), nil
	case ast.CatchAll:
		return fmt.Sprintf("%s {:%s .. :%s} :%s%s", descriptor(st), st.TryStartLabel, st.TryEndLabel, st.CatchLabel, st.EOLComment), nil
	case ast.Class:
		if st.HasModifiers {
			return fmt.Sprintf("%s %s %s%s", descriptor(st), token.ClassModifiers(st.Modifiers), st.ClassDescriptor, st.EOLComment), nil
		}
		return fmt.Sprintf("%s %s%s", descriptor(st), st.ClassDescriptor, st.EOLComment), nil
	case ast.End:
		if token.EndModifiers(st.Modifiers) == token.EndLocal {
			return fmt.Sprintf("%s %s %s%s", descriptor(st), token.EndModifiers(st.Modifiers), st.LocalRegister, st.EOLComment), nil
		}
		return fmt.Sprintf("%s %s%s", descriptor(st), token.EndModifiers(st.Modifiers), st.EOLComment), nil
	case ast.Enum:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.FieldReference, st.EOLComment), nil
	case ast.Field:
		if st.HasModifiers {
			return fmt.Sprintf("%s %s %s:%s%s", descriptor(st), token.FieldModifiers(st.Modifiers), st.MemberName, st.TypeDescriptor, st.EOLComment), nil
		}
		return fmt.Sprintf("%s %s:%s%s", descriptor(st), st.MemberName, st.TypeDescriptor, st.EOLComment), nil
	case ast.Implements:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.ClassDescriptor, st.EOLComment), nil
	case ast.Line:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.LineNo, st.EOLComment), nil
	case ast.Local:
		result := fmt.Sprintf("%s %s", descriptor(st), st.Register)
		if st.VariableName != "" {
			result = fmt.Sprintf("%s, %s:%s", result, st.VariableName, st.VariableType)
			if st.Literal != "" {
				result = fmt.Sprintf("%s, %s", result, st.Literal)
			}
		}
		return result + st.EOLComment, nil
	case ast.Locals:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.LocalCount, st.EOLComment), nil
	case ast.Method:
		if st.HasModifiers {
			return fmt.Sprintf("%s %s %s(%s)%s%s", descriptor(st), token.MethodModifiers(st.Modifiers), st.MemberName, st.MethodParams, st.MethodResultType, st.EOLComment), nil
		}
		return fmt.Sprintf("%s %s(%s)%s%s", descriptor(st), st.MemberName, st.MethodParams, st.MethodResultType, st.EOLComment), nil
	case ast.PackedSwitch:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.SwitchLiteral, st.EOLComment), nil
	case ast.Param:
		if st.HasRegisterLit {
			return fmt.Sprintf("%s %s, %s%s", descriptor(st), st.Register, st.RegisterLiteral, st.EOLComment), nil
		}
		return fmt.Sprintf("%s %s%s", descriptor(st), st.Register, st.EOLComment), nil
	case ast.Prologue:
		return descriptor(st) + st.EOLComment, nil
	case ast.Registers:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.RegisterCount, st.EOLComment), nil
	case ast.Restart:
		return fmt.Sprintf("%s %s %s%s", descriptor(st), token.RestartModifiers(st.Modifiers), st.Register, st.EOLComment), nil
	case ast.Source:
		return fmt.Sprintf("%s \"%s\"%s", descriptor(st), st.SourceTarget, st.EOLComment), nil
	case ast.SparseSwitch:
		return descriptor(st) + st.EOLComment, nil
	case ast.Subannotation:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.ClassDescriptor, st.EOLComment), nil
	case ast.Super:
		return fmt.Sprintf("%s %s%s", descriptor(st), st.ClassDescriptor, st.EOLComment), nil
	}

	return "", &FormatError{Variant: st.Variant, Message: "no serialization for this variant"}
}

// descriptor renders the ".keyword" prefix for a directive statement.
func descriptor(st *ast.Statement) string {
	d, ok := st.Directive()
	if !ok {
		return ""
	}
	return "." + d.String()
}
