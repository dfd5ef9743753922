// Package alphabet defines the abstract character domain matched over by
// the rest of the engine. An Alphabet maps characters to a contiguous range
// of integer codes, classifies characters as digit/space/word, and supplies
// case-fold pairs so the rest of the core never special-cases a particular
// representation of "character".
package alphabet

import "fmt"

// Code is the integer representation of a character within an Alphabet's
// contiguous code space.
type Code int32

// Alphabet is the abstract domain the engine matches over. Implementations
// must be stateless and safe for concurrent use; a single Alphabet value is
// shared by every compiled pattern and every engine instance that uses it.
type Alphabet interface {
	// MinCode and MaxCode bound the alphabet's contiguous code space,
	// inclusive.
	MinCode() Code
	MaxCode() Code

	// CodeToChar and CharToCode convert between a code and its rune.
	CodeToChar(c Code) rune
	CharToCode(r rune) Code

	// Before and After return the adjacent code, or ok=false at the bounds.
	Before(c Code) (Code, bool)
	After(c Code) (Code, bool)

	// Digit, Space, and Word classify a character. A class an implementation
	// does not support must be reported via SupportsClass, not silently
	// treated as false — see UnsupportedClassError.
	Digit(r rune) bool
	Space(r rune) bool
	Word(r rune) bool
	SupportsClass(class Class) bool

	// Unpack expands a character for matching, optionally case-folding it.
	// When ignoreCase is false, or the character has no distinct fold pair,
	// it returns (false, r, 0) — the caller matches the single rune r. When
	// ignoreCase is true and a fold pair exists, it returns (true, lo, hi)
	// and the caller must match either.
	Unpack(r rune, ignoreCase bool) (isPair bool, lo, hi rune)

	// Display renders r in a stable form used as the basis of interval
	// equality and hashing; it must be injective over the alphabet's code
	// space.
	Display(r rune) string

	// Name identifies the alphabet for error messages and debugging.
	Name() string
}

// Class identifies one of the character classes an Alphabet may support.
type Class uint8

const (
	ClassDigit Class = iota
	ClassSpace
	ClassWord
)

func (c Class) String() string {
	switch c {
	case ClassDigit:
		return "digit"
	case ClassSpace:
		return "space"
	case ClassWord:
		return "word"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// UnsupportedClassError reports that an alphabet was asked to classify a
// character using a predicate it does not implement (e.g. \d against an
// alphabet with no notion of digits). It is produced by RequireClass; the
// matching engines do not call RequireClass and evaluate the predicate
// directly, so they never return this error.
type UnsupportedClassError struct {
	Alphabet string
	Class    Class
}

func (e *UnsupportedClassError) Error() string {
	return fmt.Sprintf("alphabet: %s does not support the %s class", e.Alphabet, e.Class)
}

// RequireClass returns an *UnsupportedClassError if a does not support
// class, otherwise nil. The backtracking, parallel and DFA engines do not
// call it: they evaluate Digit, Space and Word directly.
func RequireClass(a Alphabet, class Class) error {
	if a.SupportsClass(class) {
		return nil
	}
	return &UnsupportedClassError{Alphabet: a.Name(), Class: class}
}
