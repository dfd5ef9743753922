package alphabet

import "unicode"

// UnicodeAlphabet covers the full Unicode code space. Class predicates are
// derived from the standard library's category tables: digit maps to Nd,
// space to Unicode whitespace, and word to L*, M*, Nd, Nl, No, and Pc (the
// superset stdlib regexp's \w also uses, modulo its ASCII-only default).
type UnicodeAlphabet struct{}

// Unicode is the shared, stateless Unicode alphabet instance.
var Unicode Alphabet = UnicodeAlphabet{}

const maxRune = '\U0010FFFF'

func (UnicodeAlphabet) MinCode() Code { return 0 }
func (UnicodeAlphabet) MaxCode() Code { return Code(maxRune) }

func (UnicodeAlphabet) CodeToChar(c Code) rune { return rune(c) }
func (UnicodeAlphabet) CharToCode(r rune) Code { return Code(r) }

func (a UnicodeAlphabet) Before(c Code) (Code, bool) {
	if c <= a.MinCode() {
		return 0, false
	}
	return c - 1, true
}

func (a UnicodeAlphabet) After(c Code) (Code, bool) {
	if c >= a.MaxCode() {
		return 0, false
	}
	return c + 1, true
}

func (UnicodeAlphabet) Digit(r rune) bool { return unicode.Is(unicode.Nd, r) }

func (UnicodeAlphabet) Space(r rune) bool { return unicode.IsSpace(r) }

var wordRanges = []*unicode.RangeTable{
	unicode.L, unicode.M, unicode.Nd, unicode.Nl, unicode.No, unicode.Pc,
}

func (UnicodeAlphabet) Word(r rune) bool { return unicode.IsOneOf(wordRanges, r) }

func (UnicodeAlphabet) SupportsClass(Class) bool { return true }

func (UnicodeAlphabet) Unpack(r rune, ignoreCase bool) (bool, rune, rune) {
	if !ignoreCase {
		return false, r, 0
	}
	lo, up := unicode.ToLower(r), unicode.ToUpper(r)
	if lo == up {
		return false, r, 0
	}
	return true, lo, up
}

func (UnicodeAlphabet) Display(r rune) string { return string(r) }

func (UnicodeAlphabet) Name() string { return "Unicode" }
