package smali

import (
	"testing"

	"github.com/aledsdavies/smali/pkgs/ast"
	"github.com/aledsdavies/smali/pkgs/token"
)

func stmt(variant ast.Variant, attrs ast.Attributes) *ast.Statement {
	return &ast.Statement{Variant: variant, Attributes: attrs}
}

func TestBlockHeadDescendsNestedBlocks(t *testing.T) {
	inner := &Block{}
	inner.Append(stmt(ast.Method, ast.BlockStartAttr))

	outer := &Block{}
	outer.Append(inner)

	if outer.Head() != inner.Items[0] {
		t.Fatal("Head should descend into a leading nested Block")
	}
}

func TestBlockHeadEmpty(t *testing.T) {
	b := &Block{}
	if b.Head() != nil {
		t.Fatal("Head of an empty block should be nil")
	}
}

func TestBlockFlattenDepthFirst(t *testing.T) {
	a := stmt(ast.Field, ast.SingleLine)
	start := stmt(ast.Annotation, ast.BlockStartAttr)
	body := stmt(ast.Body, ast.SingleLine)
	end := stmt(ast.End, ast.BlockEndAttr)

	inner := &Block{}
	inner.Append(start)
	inner.Append(body)
	inner.Append(end)

	root := &Block{}
	root.Append(a)
	root.Append(inner)

	got := root.Flatten()
	want := []*ast.Statement{a, start, body, end}
	if len(got) != len(want) {
		t.Fatalf("Flatten returned %d statements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Flatten[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBlockFindMatchesAttrsOnHead(t *testing.T) {
	field := &ast.Statement{Variant: ast.Field, Attributes: ast.BlockStartAttr, MemberName: "COLOR"}
	other := &ast.Statement{Variant: ast.Field, Attributes: ast.BlockStartAttr, MemberName: "tag"}

	root := &Block{}
	colorBlock := &Block{}
	colorBlock.Append(field)
	root.Append(colorBlock)
	otherBlock := &Block{}
	otherBlock.Append(other)
	root.Append(otherBlock)

	results := root.Find(ast.Field, map[string]interface{}{"MemberName": "COLOR"})
	if len(results) != 1 {
		t.Fatalf("Find returned %d results, want 1", len(results))
	}
	if results[0].(*Block) != colorBlock {
		t.Fatal("Find should return the block whose head matches, not a copy")
	}
}

func TestBlockFindBareStatement(t *testing.T) {
	tag := &ast.Statement{Variant: ast.Field, Attributes: ast.SingleLine, MemberName: "tag"}
	root := &Block{}
	root.Append(tag)

	results := root.Find(ast.Field, map[string]interface{}{"MemberName": "tag"})
	if len(results) != 1 {
		t.Fatalf("Find returned %d results, want 1", len(results))
	}
	if _, ok := results[0].(*ast.Statement); !ok {
		t.Fatalf("a field never promoted to a block should surface as *ast.Statement, got %T", results[0])
	}
}

func TestBlockFindNoAttrsMatchesAnyOfVariant(t *testing.T) {
	root := &Block{}
	root.Append(&ast.Statement{Variant: ast.Locals, Attributes: ast.SingleLine})

	results := root.Find(ast.Locals, nil)
	if len(results) != 1 {
		t.Fatal("Find with no attrs should match on variant alone")
	}
}

func TestBuildBlocksFlatStatements(t *testing.T) {
	statements := []*ast.Statement{
		stmt(ast.Class, ast.SingleLine),
		stmt(ast.Super, ast.SingleLine),
	}
	root, err := buildBlocks(statements)
	if err != nil {
		t.Fatalf("buildBlocks: %v", err)
	}
	if len(root.Items) != 2 {
		t.Fatalf("root has %d items, want 2", len(root.Items))
	}
}

func TestBuildBlocksNestsMethodBody(t *testing.T) {
	start := &ast.Statement{Variant: ast.Method, Attributes: ast.BlockStartAttr}
	body := &ast.Statement{Variant: ast.Body, Attributes: ast.SingleLine}
	end := &ast.Statement{Variant: ast.End, Attributes: ast.BlockEndAttr, Modifiers: uint32(token.EndMethod)}

	root, err := buildBlocks([]*ast.Statement{start, body, end})
	if err != nil {
		t.Fatalf("buildBlocks: %v", err)
	}
	if len(root.Items) != 1 {
		t.Fatalf("root has %d items, want 1", len(root.Items))
	}
	blk, ok := root.Items[0].(*Block)
	if !ok {
		t.Fatalf("root.Items[0] is %T, want *Block", root.Items[0])
	}
	if len(blk.Items) != 3 {
		t.Fatalf("method block has %d items, want 3", len(blk.Items))
	}
}

func TestBuildBlocksUnmatchedEnd(t *testing.T) {
	end := &ast.Statement{Variant: ast.End, Attributes: ast.BlockEndAttr, Modifiers: uint32(token.EndMethod)}
	_, err := buildBlocks([]*ast.Statement{end})
	if err == nil {
		t.Fatal("expected an error for a block end with nothing open")
	}
	be, ok := err.(*BlockError)
	if !ok || be.Type != ErrUnmatchedBlockEnd {
		t.Fatalf("got %v, want ErrUnmatchedBlockEnd", err)
	}
}

func TestBuildBlocksMismatchedEnd(t *testing.T) {
	start := &ast.Statement{Variant: ast.Method, Attributes: ast.BlockStartAttr}
	end := &ast.Statement{Variant: ast.End, Attributes: ast.BlockEndAttr, Modifiers: uint32(token.EndField)}

	_, err := buildBlocks([]*ast.Statement{start, end})
	if err == nil {
		t.Fatal("expected an error for .end field closing a .method block")
	}
	be, ok := err.(*BlockError)
	if !ok || be.Type != ErrBlockMismatch {
		t.Fatalf("got %v, want ErrBlockMismatch", err)
	}
}

func TestBuildBlocksUnclosed(t *testing.T) {
	start := &ast.Statement{Variant: ast.Method, Attributes: ast.BlockStartAttr}
	_, err := buildBlocks([]*ast.Statement{start})
	if err == nil {
		t.Fatal("expected an error for a block never closed")
	}
	be, ok := err.(*BlockError)
	if !ok || be.Type != ErrUnclosedBlock {
		t.Fatalf("got %v, want ErrUnclosedBlock", err)
	}
}

func TestBuildBlocksBlockStartMatchesBareBrace(t *testing.T) {
	start := &ast.Statement{Variant: ast.BlockStart, Attributes: ast.BlockStartAttr}
	end := &ast.Statement{Variant: ast.BlockEnd, Attributes: ast.BlockEndAttr}

	root, err := buildBlocks([]*ast.Statement{start, end})
	if err != nil {
		t.Fatalf("buildBlocks: %v", err)
	}
	blk, ok := root.Items[0].(*Block)
	if !ok || len(blk.Items) != 2 {
		t.Fatalf("got %+v", root.Items)
	}
}
