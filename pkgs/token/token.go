// Package token defines the closed catalog of Smali directive keywords and
// the per-directive modifier sets recognized by the parser.
package token

import "fmt"

// Directive identifies which `.keyword` a directive line uses. The zero
// value, None, means "not a directive" (used by statement variants that
// never carry a Directive, e.g. Blank, Comment, Body, BlockStart, BlockEnd).
type Directive int

const (
	None Directive = iota
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

// keywords is the closed directive-keyword table, declared in a fixed order
// so String() output and iteration are deterministic.
var keywords = [...]string{
	None:          "",
	Annotation:    "annotation",
	ArrayData:     "array-data",
	Catch:         "catch",
	CatchAll:      "catchall",
	Class:         "class",
	End:           "end",
	Enum:          "enum",
	Field:         "field",
	Implements:    "implements",
	Line:          "line",
	Local:         "local",
	Locals:        "locals",
	Method:        "method",
	PackedSwitch:  "packed-switch",
	Param:         "param",
	Prologue:      "prologue",
	Registers:     "registers",
	Restart:       "restart",
	Source:        "source",
	SparseSwitch:  "sparse-switch",
	Subannotation: "subannotation",
	Super:         "super",
}

// byKeyword is built once from keywords for O(1) lookup of a directive by
// its source-text keyword (without the leading '.').
var byKeyword map[string]Directive

func init() {
	byKeyword = make(map[string]Directive, len(keywords))
	for d, kw := range keywords {
		if kw == "" {
			continue
		}
		byKeyword[kw] = Directive(d)
	}
}

// String returns the bare keyword text (no leading '.').
func (d Directive) String() string {
	if int(d) >= 0 && int(d) < len(keywords) {
		return keywords[d]
	}
	return fmt.Sprintf("Directive(%d)", int(d))
}

// Lookup resolves a keyword (without the leading '.') to its Directive.
// ok is false for unknown keywords.
func Lookup(keyword string) (d Directive, ok bool) {
	d, ok = byKeyword[keyword]
	return d, ok
}
