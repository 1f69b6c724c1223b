package ast

import "strings"

// Attributes is the StatementAttributes bitflag set from spec.md §3.
// Flags may combine; after block resolution no statement carries
// MaybeBlockStart.
type Attributes uint16

const (
	SingleLine Attributes = 1 << iota
	BlockStartAttr
	MaybeBlockStart
	BlockEndAttr
	AssignmentLHS
	AssignmentRHS
	NoBreak
	NoIndent
)

var attributeOrder = []struct {
	bit  Attributes
	name string
}{
	{SingleLine, "SINGLE_LINE"},
	{BlockStartAttr, "BLOCK_START"},
	{MaybeBlockStart, "MAYBE_BLOCK_START"},
	{BlockEndAttr, "BLOCK_END"},
	{AssignmentLHS, "ASSIGNMENT_LHS"},
	{AssignmentRHS, "ASSIGNMENT_RHS"},
	{NoBreak, "NO_BREAK"},
	{NoIndent, "NO_INDENT"},
}

func (a Attributes) String() string {
	var parts []string
	for _, e := range attributeOrder {
		if a&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

func (a Attributes) Has(f Attributes) bool {
	return a&f != 0
}
