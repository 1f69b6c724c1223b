package parser

import (
	"testing"

	"github.com/aledsdavies/smali/pkgs/ast"
	"github.com/aledsdavies/smali/pkgs/token"
)

func TestParseEmptySource(t *testing.T) {
	stmts, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 0 {
		t.Fatalf("got %+v, want no statements for empty source", stmts)
	}
}

func TestParseBlank(t *testing.T) {
	stmts, err := Parse("\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Variant != ast.Blank {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseComment(t *testing.T) {
	stmts, err := Parse("# a comment\n")
	if err != nil {
		t.Fatal(err)
	}
	if stmts[0].Variant != ast.Comment {
		t.Fatalf("got variant %v", stmts[0].Variant)
	}
	if stmts[0].Lstripped != "# a comment" {
		t.Fatalf("Lstripped = %q", stmts[0].Lstripped)
	}
}

func TestParseClassLine(t *testing.T) {
	stmts, err := Parse(".class public final Lcom/example/Foo;")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.Variant != ast.Class {
		t.Fatalf("variant = %v", st.Variant)
	}
	want := token.ClassPublic | token.ClassFinal
	if token.ClassModifiers(st.Modifiers) != want {
		t.Fatalf("modifiers = %v, want %v", token.ClassModifiers(st.Modifiers), want)
	}
	if st.ClassDescriptor != "Lcom/example/Foo;" {
		t.Fatalf("ClassDescriptor = %q", st.ClassDescriptor)
	}
}

func TestParseFieldSingleLine(t *testing.T) {
	stmts, err := Parse(".field private final foo:I\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.Variant != ast.Field {
		t.Fatalf("variant = %v", st.Variant)
	}
	if !st.Attributes.Has(ast.SingleLine) {
		t.Fatalf("expected Field with no matching .end field to resolve SINGLE_LINE, got %v", st.Attributes)
	}
	if st.MemberName != "foo" || st.TypeDescriptor != "I" {
		t.Fatalf("MemberName=%q TypeDescriptor=%q", st.MemberName, st.TypeDescriptor)
	}
}

func TestParseFieldBlockResolvesToBlockStart(t *testing.T) {
	src := ".field private static final foo:I = 0x1\n.annotation system Ldalvik/annotation/Foo;\n.end field\n"
	stmts, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if stmts[0].Variant != ast.Field {
		t.Fatalf("variant = %v", stmts[0].Variant)
	}
	if !stmts[0].Attributes.Has(ast.BlockStartAttr) {
		t.Fatalf("expected field line to resolve BLOCK_START once its .end field terminator appears, got %v", stmts[0].Attributes)
	}
	if stmts[0].Attributes.Has(ast.MaybeBlockStart) {
		t.Fatal("MAYBE_BLOCK_START should have been cleared")
	}
}

func TestParseMethodSignature(t *testing.T) {
	stmts, err := Parse(".method public static main(Ljava/lang/String;I)V\n.end method\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.MemberName != "main" || st.MethodParams != "Ljava/lang/String;I" || st.MethodResultType != "V" {
		t.Fatalf("got name=%q params=%q result=%q", st.MemberName, st.MethodParams, st.MethodResultType)
	}
}

func TestParseCatch(t *testing.T) {
	stmts, err := Parse(".catch Ljava/lang/Exception; {:try_start .. :try_end} :handler\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.TypeDescriptor != "Ljava/lang/Exception;" {
		t.Fatalf("TypeDescriptor = %q", st.TypeDescriptor)
	}
	if st.TryStartLabel != "try_start" || st.TryEndLabel != "try_end" || st.CatchLabel != "handler" {
		t.Fatalf("got start=%q end=%q catch=%q", st.TryStartLabel, st.TryEndLabel, st.CatchLabel)
	}
}

func TestParseLocalWithLiteral(t *testing.T) {
	stmts, err := Parse(`.local v0, name:Ljava/lang/String;, "hello"` + "\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.Register != "v0" || st.VariableName != "name" || st.VariableType != "Ljava/lang/String;" {
		t.Fatalf("got reg=%q name=%q type=%q", st.Register, st.VariableName, st.VariableType)
	}
	if st.Literal != `"hello"` {
		t.Fatalf("Literal = %q", st.Literal)
	}
}

func TestParseParamWithLiteral(t *testing.T) {
	stmts, err := Parse(`.param p1, "count"` + "\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.Register != "p1" || !st.HasRegisterLit || st.RegisterLiteral != `"count"` {
		t.Fatalf("got reg=%q hasLit=%v lit=%q", st.Register, st.HasRegisterLit, st.RegisterLiteral)
	}
}

func TestParseEndLocal(t *testing.T) {
	stmts, err := Parse(".end local v2\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if st.Variant != ast.End {
		t.Fatalf("variant = %v", st.Variant)
	}
	if token.EndModifiers(st.Modifiers) != token.EndLocal {
		t.Fatalf("modifiers = %v", token.EndModifiers(st.Modifiers))
	}
	if st.LocalRegister != "v2" {
		t.Fatalf("LocalRegister = %q", st.LocalRegister)
	}
	if !st.Attributes.Has(ast.SingleLine) {
		t.Fatalf("attrs = %v, want SINGLE_LINE", st.Attributes)
	}
}

func TestParseEndMethodIsBlockEnd(t *testing.T) {
	stmts, err := Parse(".end method\n")
	if err != nil {
		t.Fatal(err)
	}
	st := stmts[0]
	if !st.Attributes.Has(ast.BlockEndAttr) {
		t.Fatalf("attrs = %v, want BLOCK_END", st.Attributes)
	}
}

func TestParseAssignment(t *testing.T) {
	stmts, err := Parse(".field public static foo:I = 0x5\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	if !stmts[0].Attributes.Has(ast.AssignmentLHS) {
		t.Fatalf("lhs attrs = %v", stmts[0].Attributes)
	}
	if !stmts[1].Attributes.Has(ast.AssignmentRHS) {
		t.Fatalf("rhs attrs = %v", stmts[1].Attributes)
	}
	lit, err2 := ast.ParseIntLiteral("0x5")
	if err2 != nil {
		t.Fatal(err2)
	}
	if stmts[1].Variant != ast.Body || stmts[1].CleanLine != lit.String() {
		t.Fatalf("rhs = %+v", stmts[1])
	}
}

func TestParseAssignmentMultipleEqualsFails(t *testing.T) {
	_, err := Parse("a = b = c\n")
	if err == nil {
		t.Fatal("expected error for multiple top-level '=' signs")
	}
}

func TestParseBraceOpenInline(t *testing.T) {
	stmts, err := Parse(".annotation system Ldalvik/annotation/Foo; {\n.end annotation\n")
	if err != nil {
		t.Fatal(err)
	}
	if stmts[0].Variant != ast.Annotation {
		t.Fatalf("got %+v", stmts[0])
	}
	if stmts[1].Variant != ast.BlockStart || !stmts[1].Attributes.Has(ast.NoBreak) {
		t.Fatalf("got %+v", stmts[1])
	}
}

func TestParseBodyFallback(t *testing.T) {
	// Instruction opcodes are opaque to this parser: embedded braces in the
	// middle of a line (not at either end) never trigger bracket splitting.
	stmts, err := Parse("invoke-direct {p0}, Ljava/lang/Object;-><init>()V\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Variant != ast.Body {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseBodyFallbackBraceAtEnd(t *testing.T) {
	stmts, err := Parse("new-array v0, v1, [I {\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 || stmts[0].Variant != ast.Body || stmts[1].Variant != ast.BlockStart {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseSource(t *testing.T) {
	stmts, err := Parse(`.source "Foo.java"` + "\n")
	if err != nil {
		t.Fatal(err)
	}
	if stmts[0].SourceTarget != "Foo.java" {
		t.Fatalf("SourceTarget = %q", stmts[0].SourceTarget)
	}
}

func TestParseUnknownDirective(t *testing.T) {
	_, err := Parse(".bogus foo\n")
	if err == nil {
		t.Fatal("expected error for unknown directive")
	}
}
