// Package smali nests the parser's flat ast.Statement list into a tree of
// Blocks (pass 2 of spec.md §4.3) and exposes the query API over the
// result (spec.md §4.4). Grounded on original_source/smali/block.py's
// single generic Block type (no parent pointers, items is a flat slice
// mixing statements and nested blocks, head/flatten/find all walk that
// slice) and smali_file.py's parse_statements stack machine.
package smali

import (
	"reflect"

	"github.com/aledsdavies/smali/pkgs/ast"
)

// IndentSize and IndentChar set the pretty-printer's indentation unit,
// matching block.py's Block.INDENT_SIZE/INDENT_CHAR class constants.
const (
	IndentSize = 4
	IndentChar = " "
)

// Block is one nested scope: its Items slice holds a mix of *ast.Statement
// (leaves) and *Block (nested scopes), in source order. There is no
// separate "header" field — the opening statement is Items[0], exactly as
// block.py's head property walks into the first item.
type Block struct {
	Items []interface{}
}

// Append adds a single item (an *ast.Statement or *Block) to the block.
func (b *Block) Append(item interface{}) {
	b.Items = append(b.Items, item)
}

// Extend appends every item in items, in order.
func (b *Block) Extend(items []interface{}) {
	b.Items = append(b.Items, items...)
}

// Head returns the statement that opens this block, descending into a
// leading nested block if the first item is one (a block can open with
// another block only transiently mid-construction; by the time parsing
// finishes the first item is always the BLOCK_START statement itself).
func (b *Block) Head() *ast.Statement {
	if len(b.Items) == 0 {
		return nil
	}
	switch v := b.Items[0].(type) {
	case *ast.Statement:
		return v
	case *Block:
		return v.Head()
	default:
		return nil
	}
}

// Flatten returns every ast.Statement contained in this block and its
// descendants, depth-first, in source order.
func (b *Block) Flatten() []*ast.Statement {
	var out []*ast.Statement
	for _, item := range b.Items {
		switch v := item.(type) {
		case *ast.Statement:
			out = append(out, v)
		case *Block:
			out = append(out, v.Flatten()...)
		default:
			panic(blockErrorf(ErrInvalidItem, "invalid block item type %T", item))
		}
	}
	return out
}

// matchAttrs reports whether st has every field named in attrs set to the
// given value, via reflection — the Go stand-in for block.py's
// **kwargs/getattr predicate matching (spec.md §4.4's Open Question
// resolution: Go has no static equivalent of Python's dynamic kwargs, so a
// query like Find(ast.Method, map[string]interface{}{"MemberName": "foo"})
// has to compare struct fields by name at runtime).
func matchAttrs(st *ast.Statement, attrs map[string]interface{}) bool {
	if len(attrs) == 0 {
		return true
	}
	v := reflect.ValueOf(st).Elem()
	for key, want := range attrs {
		f := v.FieldByName(key)
		if !f.IsValid() {
			return false
		}
		if !reflect.DeepEqual(f.Interface(), want) {
			return false
		}
	}
	return true
}

// Find returns every Block whose head statement has the given variant and
// matching attrs, plus every bare matching statement not wrapped in a block
// of its own (spec.md §4.4 — e.g. a Field directive never promoted to
// BLOCK_START surfaces as the *ast.Statement itself, not a *Block). It
// descends into nested blocks whose head does not match; a matched block is
// returned without searching inside it.
func (b *Block) Find(variant ast.Variant, attrs map[string]interface{}) []interface{} {
	var result []interface{}
	for _, item := range b.Items {
		switch v := item.(type) {
		case *Block:
			if head := v.Head(); head != nil && head.Variant == variant && matchAttrs(head, attrs) {
				result = append(result, v)
			} else {
				result = append(result, v.Find(variant, attrs)...)
			}
		case *ast.Statement:
			if v.Variant == variant && matchAttrs(v, attrs) {
				result = append(result, v)
			}
		}
	}
	return result
}

// buildBlocks is pass 2 of block resolution (spec.md §4.3): nest the fully
// resolved flat statement list into a tree using an explicit stack,
// transliterated from smali_file.py's parse_statements.
func buildBlocks(statements []*ast.Statement) (*Block, error) {
	root := &Block{}
	var stack []*Block

	for _, st := range statements {
		switch {
		case st.Attributes.Has(ast.BlockStartAttr):
			blk := &Block{}
			blk.Append(st)
			stack = append(stack, blk)

		case st.Attributes.Has(ast.BlockEndAttr):
			if len(stack) == 0 {
				return nil, blockErrorf(ErrUnmatchedBlockEnd, "%v has no open block", st.Variant)
			}
			finished := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			head := finished.Head()
			wantVariant, wantModifiers, ok := head.BlockEndsWith()
			if !ok || wantVariant != st.Variant || (st.Variant == ast.End && wantModifiers != st.Modifiers) {
				return nil, blockErrorf(ErrBlockMismatch, "block end %v does not match block start %v", st.Variant, head.Variant)
			}
			finished.Append(st)

			if len(stack) > 0 {
				stack[len(stack)-1].Append(finished)
			} else {
				root.Append(finished)
			}

		default:
			if len(stack) > 0 {
				stack[len(stack)-1].Append(st)
			} else {
				root.Append(st)
			}
		}
	}

	if len(stack) > 0 {
		return nil, blockErrorf(ErrUnclosedBlock, "%d block(s) never closed", len(stack))
	}
	return root, nil
}
