package validate

import "testing"

func TestFileExactMatch(t *testing.T) {
	if err := File(".locals 2\n", ".locals 2\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileWhitespaceDifference(t *testing.T) {
	err := File("    .locals 2\n", ".locals 2\n")
	if err == nil {
		t.Fatal("expected a whitespace difference to be reported")
	}
	if _, ok := err.(*WhitespaceWarning); !ok {
		t.Fatalf("got %T, want *WhitespaceWarning", err)
	}
}

func TestFileHashMismatchIsFatal(t *testing.T) {
	err := File(".locals 2\n", ".locals 3\n")
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("got %T, want *ValidationError", err)
	}
}

func TestOrderIndependentHashIgnoresWhitespace(t *testing.T) {
	a := orderIndependentHash(".locals 2")
	b := orderIndependentHash(".locals  2") // extra space
	if a != b {
		t.Fatal("hash should ignore whitespace differences entirely")
	}
}

func TestOrderIndependentHashIgnoresOrder(t *testing.T) {
	a := orderIndependentHash("abc")
	b := orderIndependentHash("cba")
	if a != b {
		t.Fatal("hash should be order-independent over non-whitespace runes")
	}
}

func TestNormalizeStripsCommentsAndIndentation(t *testing.T) {
	in := "    .locals 2   # two locals   \n"
	out := normalize(in)
	if out != ".locals 2\n" {
		t.Fatalf("normalize = %q", out)
	}
}
