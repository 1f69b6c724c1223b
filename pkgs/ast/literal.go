package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// IntLiteral is an integer value plus the base (10 or 16) used in the
// source, so pretty-printing re-emits the same base the source used.
type IntLiteral struct {
	Value int64
	Base  int
}

// ParseIntLiteral parses a Smali integer literal field. Hex literals start
// with "0x" (optionally preceded by a '-'); everything else is base 10.
func ParseIntLiteral(s string) (IntLiteral, error) {
	base := intLiteralBase(s)
	parseBase := 10
	if base == 16 {
		parseBase = 0 // lets ParseInt accept the 0x prefix and a leading '-'
	}
	v, err := strconv.ParseInt(s, parseBase, 64)
	if err != nil {
		return IntLiteral{}, fmt.Errorf("invalid integer literal %q: %w", s, err)
	}
	return IntLiteral{Value: v, Base: base}, nil
}

func intLiteralBase(literal string) int {
	trimmed := strings.TrimPrefix(strings.ToLower(literal), "-")
	if strings.HasPrefix(trimmed, "0x") {
		return 16
	}
	return 10
}

// String re-emits the literal in its original base.
func (l IntLiteral) String() string {
	if l.Base == 16 {
		return fmt.Sprintf("%#x", l.Value)
	}
	return strconv.FormatInt(l.Value, 10)
}
