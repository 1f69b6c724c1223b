// Package validate implements the round-trip comparison cascade from
// spec.md §5, grounded on original_source/smali/lib/smali_compare.py
// (SmaliCompare) and smali_file.py's validate()/Statement.validate(). Two
// atomic toggles gate validation process-wide, read once at construction
// time rather than rechecked per call — the same package-level feature-flag
// idiom the teacher module uses for its own global state.
package validate

import (
	"crypto/md5"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
)

// Files gates whole-file round-trip validation in pkgs/smali.FromSource.
// Statements gates the per-statement trailing-field assertion in
// pkgs/parser (parser.ValidateStatements points at it); the Statement
// function below does not consult it. Both default off, same as the
// teacher's own toggles and
// as original_source/smali's own Statement.VALIDATE/SmaliFile.VALIDATE.
var Files atomic.Bool
var Statements atomic.Bool

var (
	reComment     = regexp.MustCompile(`(?m)#.*$`)
	reIndentation = regexp.MustCompile(`(?m)^[ \t]+|[ \t]+$`)
	reOversized   = regexp.MustCompile(`[\t ]{2,}`)
)

// Error types for validation failures, following the teacher's
// pkgs/errors.DevCmdError string-Type convention.
const (
	ErrReconstructionMismatch = "RECONSTRUCTION_MISMATCH"
)

// ValidationError reports that reconstructed text's order-independent hash
// does not match the source's — a fatal, unrecoverable mismatch (spec.md
// §5). ValidationWarning and WhitespaceWarning are non-fatal: File and
// Statement return them as error values, and pkgs/smali.FromSource returns
// them alongside the parsed file.
type ValidationError struct {
	Type    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Type + ": " + e.Message
}

// ValidationWarning signals the reconstruction has the same non-whitespace
// characters as the source but still differs from it after whitespace
// normalization. WhitespaceWarning signals it matches once whitespace is
// normalized, but still differs (in leading or interior whitespace) after
// only the trailing end of each string is trimmed. Both are advisory: round
// trip is still considered successful.
type ValidationWarning struct {
	Message string
}

func (w *ValidationWarning) Error() string { return "validation warning: " + w.Message }

type WhitespaceWarning struct {
	Message string
}

func (w *WhitespaceWarning) Error() string { return "whitespace warning: " + w.Message }

// orderIndependentHash sorts every non-whitespace rune in data and MD5s the
// result, so two strings that differ only in character order or in any
// whitespace are considered equal. Standard library crypto/md5 is used
// deliberately here rather than importing a hashing dependency: this is a
// non-cryptographic fingerprint over already-in-memory text, exactly the
// role the original fills with Python's stdlib hashlib (lib/smali_compare.py)
// — there is no third-party hashing library anywhere in the example pack to
// reach for instead.
func orderIndependentHash(data string) [16]byte {
	runes := []rune(data)
	filtered := runes[:0]
	for _, r := range runes {
		if !isSpaceRune(r) {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i] < filtered[j] })
	return md5.Sum([]byte(string(filtered)))
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// normalize strips comments and per-line leading/trailing [ \t], then
// collapses runs of two or more spaces/tabs to one. Transliterated
// literally from SmaliCompare.normalize_smali, including its redundant
// final substitution pass (applying the same 2+-run pattern again,
// replacing with a newline instead of a space) — which is a no-op in
// practice since the prior pass already leaves no 2+ run to match, but is
// kept here rather than "fixed" since this package's only job is matching
// the original's comparison semantics.
func normalize(smali string) string {
	smali = reComment.ReplaceAllString(smali, "")
	smali = reIndentation.ReplaceAllString(smali, "")
	smali = reOversized.ReplaceAllString(smali, " ")
	smali = reOversized.ReplaceAllString(smali, "\n")
	return smali
}

func whitespaceNormalizedEquals(a, b string) bool {
	return normalize(a) == normalize(b)
}

// File compares raw source against its reconstruction, following spec.md
// §5's three-step cascade: a hash mismatch is fatal, a whitespace-
// normalized mismatch is a ValidationWarning, and any other difference that
// remains once trailing whitespace is trimmed from both texts is a
// WhitespaceWarning. A nil result means the two texts are equal apart from
// trailing whitespace.
func File(raw, reconstruction string) error {
	if orderIndependentHash(raw) != orderIndependentHash(reconstruction) {
		return &ValidationError{Type: ErrReconstructionMismatch, Message: "file was not reconstructed correctly"}
	}
	if !whitespaceNormalizedEquals(raw, reconstruction) {
		return &ValidationWarning{Message: "file might not be reconstructed correctly"}
	}
	if strings.TrimRight(raw, " \t\r\n") != strings.TrimRight(reconstruction, " \t\r\n") {
		return &WhitespaceWarning{Message: "file has different whitespace"}
	}
	return nil
}

// Statement compares one raw physical line against its reconstruction,
// mirroring Statement.validate() in the original.
func Statement(rawLine, reconstruction string) error {
	if orderIndependentHash(rawLine) != orderIndependentHash(reconstruction) {
		return &ValidationError{Type: ErrReconstructionMismatch, Message: "line was not reconstructed correctly"}
	}
	if !whitespaceNormalizedEquals(rawLine, reconstruction) {
		return &ValidationWarning{Message: "line might not be reconstructed correctly"}
	}
	if strings.TrimLeft(rawLine, " \t") != reconstruction {
		return &WhitespaceWarning{Message: "line has different whitespace"}
	}
	return nil
}
