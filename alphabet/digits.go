package alphabet

// DigitsAlphabet is a proof-of-concept alphabet over the ten values 0..9,
// used to exercise the core's token-sequence path independently of text.
// Characters are represented as runes holding the digit's value directly
// (rune(3) for the digit 3, not rune('3')); callers working with this
// alphabet build patterns and input out of those raw values.
//
// DigitsAlphabet declares no class predicates: SupportsClass reports false
// for every class and Digit/Space/Word always return false. The engines
// evaluate those predicates directly, so \d, \s and \w never match against
// this alphabet and no UnsupportedClassError is raised.
type DigitsAlphabet struct{}

// Digits is the shared, stateless digits alphabet instance.
var Digits Alphabet = DigitsAlphabet{}

func (DigitsAlphabet) MinCode() Code { return 0 }
func (DigitsAlphabet) MaxCode() Code { return 9 }

func (DigitsAlphabet) CodeToChar(c Code) rune { return rune(c) }
func (DigitsAlphabet) CharToCode(r rune) Code { return Code(r) }

func (a DigitsAlphabet) Before(c Code) (Code, bool) {
	if c <= a.MinCode() {
		return 0, false
	}
	return c - 1, true
}

func (a DigitsAlphabet) After(c Code) (Code, bool) {
	if c >= a.MaxCode() {
		return 0, false
	}
	return c + 1, true
}

func (DigitsAlphabet) Digit(rune) bool { return false }
func (DigitsAlphabet) Space(rune) bool { return false }
func (DigitsAlphabet) Word(rune) bool  { return false }

func (DigitsAlphabet) SupportsClass(Class) bool { return false }

func (DigitsAlphabet) Unpack(r rune, _ bool) (bool, rune, rune) {
	// Digits has no notion of case folding.
	return false, r, 0
}

func (DigitsAlphabet) Display(r rune) string {
	return string(rune('0' + r))
}

func (DigitsAlphabet) Name() string { return "Digits" }
