package token

import "strings"

// ClassModifiers, FieldModifiers, MethodModifiers, AnnotationModifiers,
// EndModifiers and RestartModifiers are per-directive bitflag sets. Each is
// its own type so a statement can only be tagged with modifiers valid for
// its own directive; serialization order is fixed by each family's
// *ModifierOrder table (classModifierOrder etc.), not by
// bit position, matching spec.md's declared per-family order.

type ClassModifiers uint16

const (
	ClassPublic ClassModifiers = 1 << iota
	ClassPrivate
	ClassProtected
	ClassStatic
	ClassFinal
	ClassInterface
	ClassAbstract
	ClassSynthetic
	ClassAnnotation
	ClassEnum
)

var classModifierOrder = []struct {
	bit  ClassModifiers
	name string
}{
	{ClassPublic, "public"},
	{ClassPrivate, "private"},
	{ClassProtected, "protected"},
	{ClassStatic, "static"},
	{ClassFinal, "final"},
	{ClassInterface, "interface"},
	{ClassAbstract, "abstract"},
	{ClassSynthetic, "synthetic"},
	{ClassAnnotation, "annotation"},
	{ClassEnum, "enum"},
}

func (m ClassModifiers) String() string {
	var parts []string
	for _, e := range classModifierOrder {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

// Find returns the flag matching name (lower-case, hyphenated), or false.
func (ClassModifiers) Find(name string) (ClassModifiers, bool) {
	for _, e := range classModifierOrder {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}

type FieldModifiers uint16

const (
	FieldPublic FieldModifiers = 1 << iota
	FieldPrivate
	FieldProtected
	FieldStatic
	FieldFinal
	FieldVolatile
	FieldBridge
	FieldTransient
	FieldSynthetic
	FieldEnum
)

var fieldModifierOrder = []struct {
	bit  FieldModifiers
	name string
}{
	{FieldPublic, "public"},
	{FieldPrivate, "private"},
	{FieldProtected, "protected"},
	{FieldStatic, "static"},
	{FieldFinal, "final"},
	{FieldVolatile, "volatile"},
	{FieldBridge, "bridge"},
	{FieldTransient, "transient"},
	{FieldSynthetic, "synthetic"},
	{FieldEnum, "enum"},
}

func (m FieldModifiers) String() string {
	var parts []string
	for _, e := range fieldModifierOrder {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

func (FieldModifiers) Find(name string) (FieldModifiers, bool) {
	for _, e := range fieldModifierOrder {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}

type MethodModifiers uint16

const (
	MethodPublic MethodModifiers = 1 << iota
	MethodPrivate
	MethodProtected
	MethodStatic
	MethodFinal
	MethodSynchronized
	MethodBridge
	MethodVarargs
	MethodNative
	MethodInterface
	MethodAbstract
	MethodStrictfp
	MethodSynthetic
	MethodConstructor
	MethodDeclaredSynchronized
)

var methodModifierOrder = []struct {
	bit  MethodModifiers
	name string
}{
	{MethodPublic, "public"},
	{MethodPrivate, "private"},
	{MethodProtected, "protected"},
	{MethodStatic, "static"},
	{MethodFinal, "final"},
	{MethodSynchronized, "synchronized"},
	{MethodBridge, "bridge"},
	{MethodVarargs, "varargs"},
	{MethodNative, "native"},
	{MethodInterface, "interface"},
	{MethodAbstract, "abstract"},
	{MethodStrictfp, "strictfp"},
	{MethodSynthetic, "synthetic"},
	{MethodConstructor, "constructor"},
	{MethodDeclaredSynchronized, "declared-synchronized"},
}

func (m MethodModifiers) String() string {
	var parts []string
	for _, e := range methodModifierOrder {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

func (MethodModifiers) Find(name string) (MethodModifiers, bool) {
	for _, e := range methodModifierOrder {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}

type AnnotationModifiers uint8

const (
	AnnotationBuild AnnotationModifiers = 1 << iota
	AnnotationRuntime
	AnnotationSystem
)

var annotationModifierOrder = []struct {
	bit  AnnotationModifiers
	name string
}{
	{AnnotationBuild, "build"},
	{AnnotationRuntime, "runtime"},
	{AnnotationSystem, "system"},
}

func (m AnnotationModifiers) String() string {
	var parts []string
	for _, e := range annotationModifierOrder {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

func (AnnotationModifiers) Find(name string) (AnnotationModifiers, bool) {
	for _, e := range annotationModifierOrder {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}

// EndModifiers also doubles as the "kind" tag identifying which block-start
// directive a `.end <kind>` terminator matches (spec.md §4.3's
// block_ends_with tuple).
type EndModifiers uint16

const (
	EndAnnotation EndModifiers = 1 << iota
	EndArrayData
	EndField
	EndLocal
	EndMethod
	EndPackedSwitch
	EndParam
	EndSparseSwitch
	EndSubannotation
)

var endModifierOrder = []struct {
	bit  EndModifiers
	name string
}{
	{EndAnnotation, "annotation"},
	{EndArrayData, "array-data"},
	{EndField, "field"},
	{EndLocal, "local"},
	{EndMethod, "method"},
	{EndPackedSwitch, "packed-switch"},
	{EndParam, "param"},
	{EndSparseSwitch, "sparse-switch"},
	{EndSubannotation, "subannotation"},
}

func (m EndModifiers) String() string {
	var parts []string
	for _, e := range endModifierOrder {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

func (EndModifiers) Find(name string) (EndModifiers, bool) {
	for _, e := range endModifierOrder {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}

type RestartModifiers uint8

const (
	RestartLocal RestartModifiers = 1 << iota
)

var restartModifierOrder = []struct {
	bit  RestartModifiers
	name string
}{
	{RestartLocal, "local"},
}

func (m RestartModifiers) String() string {
	var parts []string
	for _, e := range restartModifierOrder {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

func (RestartModifiers) Find(name string) (RestartModifiers, bool) {
	for _, e := range restartModifierOrder {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}
