package alphabet

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// hasAVX2 reports whether the running CPU advertises AVX2 support. The
// ASCII alphabet uses this only to pick a wider SWAR stride for its
// IsASCIIByteSlice fast path; correctness never depends on it.
var hasAVX2 = cpu.X86.HasAVX2

// ASCIIAlphabet is the 7-bit alphabet: codes 0..127 map 1:1 onto runes
// '\x00'..'\x7f'.
type ASCIIAlphabet struct{}

// ASCII is the shared, stateless ASCII alphabet instance.
var ASCII Alphabet = ASCIIAlphabet{}

func (ASCIIAlphabet) MinCode() Code { return 0 }
func (ASCIIAlphabet) MaxCode() Code { return 127 }

func (ASCIIAlphabet) CodeToChar(c Code) rune { return rune(c) }
func (ASCIIAlphabet) CharToCode(r rune) Code { return Code(r) }

func (a ASCIIAlphabet) Before(c Code) (Code, bool) {
	if c <= a.MinCode() {
		return 0, false
	}
	return c - 1, true
}

func (a ASCIIAlphabet) After(c Code) (Code, bool) {
	if c >= a.MaxCode() {
		return 0, false
	}
	return c + 1, true
}

func (ASCIIAlphabet) Digit(r rune) bool { return r >= '0' && r <= '9' }

func (ASCIIAlphabet) Space(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

func (ASCIIAlphabet) Word(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func (ASCIIAlphabet) SupportsClass(Class) bool { return true }

func (ASCIIAlphabet) Unpack(r rune, ignoreCase bool) (bool, rune, rune) {
	if !ignoreCase {
		return false, r, 0
	}
	switch {
	case r >= 'a' && r <= 'z':
		return true, r, r - ('a' - 'A')
	case r >= 'A' && r <= 'Z':
		return true, r, r + ('a' - 'A')
	default:
		return false, r, 0
	}
}

func (ASCIIAlphabet) Display(r rune) string { return string(r) }

func (ASCIIAlphabet) Name() string { return "ASCII" }

// IsASCIIByteSlice reports whether every byte in b has its high bit clear.
// It is the SIMD-flavoured fast path for the ASCII alphabet's membership
// checks: a wide word-at-a-time scan when AVX2 is available and the slice
// is large enough to amortize it, otherwise a per-byte scan.
func IsASCIIByteSlice(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	if hasAVX2 && len(b) >= 32 {
		return isASCIIWide(b)
	}
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// isASCIIWide checks 8 bytes at a time using the classic SWAR high-bit
// trick (one word load + one AND + one compare per 8 bytes), which
// approximates the throughput benefit of the wide path without requiring
// assembly.
func isASCIIWide(b []byte) bool {
	const mask = 0x8080808080808080
	n := len(b)
	i := 0
	for ; i+8 <= n; i += 8 {
		word := uint64(b[i]) | uint64(b[i+1])<<8 | uint64(b[i+2])<<16 | uint64(b[i+3])<<24 |
			uint64(b[i+4])<<32 | uint64(b[i+5])<<40 | uint64(b[i+6])<<48 | uint64(b[i+7])<<56
		if word&mask != 0 {
			return false
		}
	}
	for ; i < n; i++ {
		if b[i] >= 0x80 {
			return false
		}
	}
	return true
}

// popcountMask exists for tests asserting the SWAR mask extracts
// exactly one bit per byte's sign bit.
func popcountMask(word uint64) int {
	return bits.OnesCount64(word & 0x8080808080808080)
}
