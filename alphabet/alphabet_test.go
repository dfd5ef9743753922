package alphabet

import "testing"

func TestASCII_Bounds(t *testing.T) {
	if ASCII.MinCode() != 0 || ASCII.MaxCode() != 127 {
		t.Fatalf("ASCII bounds = [%d,%d], want [0,127]", ASCII.MinCode(), ASCII.MaxCode())
	}
	if _, ok := ASCII.Before(0); ok {
		t.Error("Before(min) should have no predecessor")
	}
	if _, ok := ASCII.After(127); ok {
		t.Error("After(max) should have no successor")
	}
	if c, ok := ASCII.After(64); !ok || c != 65 {
		t.Errorf("After(64) = (%d,%v), want (65,true)", c, ok)
	}
}

func TestASCII_Classes(t *testing.T) {
	cases := []struct {
		r                    rune
		digit, space, word   bool
	}{
		{'0', true, false, true},
		{'9', true, false, true},
		{' ', false, true, false},
		{'\t', false, true, false},
		{'_', false, false, true},
		{'a', false, false, true},
		{'!', false, false, false},
	}
	for _, c := range cases {
		if got := ASCII.Digit(c.r); got != c.digit {
			t.Errorf("Digit(%q) = %v, want %v", c.r, got, c.digit)
		}
		if got := ASCII.Space(c.r); got != c.space {
			t.Errorf("Space(%q) = %v, want %v", c.r, got, c.space)
		}
		if got := ASCII.Word(c.r); got != c.word {
			t.Errorf("Word(%q) = %v, want %v", c.r, got, c.word)
		}
	}
}

func TestASCII_UnpackFold(t *testing.T) {
	if pair, lo, hi := ASCII.Unpack('a', true); !pair || lo != 'a' || hi != 'A' {
		t.Errorf("Unpack('a', true) = (%v,%q,%q), want (true,'a','A')", pair, lo, hi)
	}
	if pair, _, _ := ASCII.Unpack('a', false); pair {
		t.Error("Unpack with ignoreCase=false should never report a pair")
	}
	if pair, _, _ := ASCII.Unpack('!', true); pair {
		t.Error("Unpack('!', true) should have no fold pair")
	}
}

func TestIsASCIIByteSlice(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"hello world", true},
		{"hello world this is over thirty two bytes long!!", true},
		{"h\xe9llo", false},
		{string(append([]byte("0123456789012345678901234567890"), 0xff)), false},
	}
	for _, c := range cases {
		if got := IsASCIIByteSlice([]byte(c.in)); got != c.want {
			t.Errorf("IsASCIIByteSlice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPopcountMask(t *testing.T) {
	if n := popcountMask(0x8000000000000080); n != 2 {
		t.Errorf("popcountMask = %d, want 2", n)
	}
}

func TestUnicode_Classes(t *testing.T) {
	if !Unicode.Digit('7') {
		t.Error("Unicode.Digit('7') should be true")
	}
	if !Unicode.Space(' ') {
		t.Error("Unicode.Space(nbsp) should be true")
	}
	if !Unicode.Word('é') {
		t.Error("Unicode.Word('é') should be true (letter)")
	}
	if Unicode.Word('!') {
		t.Error("Unicode.Word('!') should be false")
	}
}

func TestUnicode_UnpackFold(t *testing.T) {
	if pair, lo, hi := Unicode.Unpack('s', true); !pair || lo != 's' || hi != 'S' {
		t.Errorf("Unpack('s', true) = (%v,%q,%q)", pair, lo, hi)
	}
}

func TestDigits_NoClasses(t *testing.T) {
	if Digits.SupportsClass(ClassDigit) {
		t.Error("Digits alphabet declares no class support")
	}
	if err := RequireClass(Digits, ClassDigit); err == nil {
		t.Error("RequireClass should fail for Digits alphabet")
	}
	if err := RequireClass(ASCII, ClassDigit); err != nil {
		t.Errorf("RequireClass should succeed for ASCII: %v", err)
	}
}

func TestDigits_RoundTrip(t *testing.T) {
	for v := Code(0); v <= 9; v++ {
		r := Digits.CodeToChar(v)
		if Digits.CharToCode(r) != v {
			t.Errorf("round trip failed for %d", v)
		}
	}
}
