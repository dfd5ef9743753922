package opgraph

import "testing"

func mustCompile(t *testing.T, pattern string, flags Flag) *Pattern {
	t.Helper()
	p, err := Compile(pattern, flags)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return p
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile("(abc", 0)
	if err == nil {
		t.Fatal("expected error for unclosed group")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
}

func TestCompile_FlagConflict(t *testing.T) {
	if _, err := Compile("a", ASCII|Unicode); err == nil {
		t.Fatal("expected error for ASCII|Unicode")
	}
}

func TestMustCompile_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustCompile("(", 0)
}

func TestPattern_MatchGroup(t *testing.T) {
	p := mustCompile(t, "a(.)c", 0)
	m, ok, err := p.Match("abc", 0, -1)
	if err != nil || !ok {
		t.Fatalf("Match() = %v, %v, want a match", ok, err)
	}
	if g, _ := m.Group(1); g != "b" {
		t.Fatalf("group(1) = %q, want %q", g, "b")
	}
	if g, _ := m.Group(0); g != "abc" {
		t.Fatalf("group(0) = %q, want %q", g, "abc")
	}
}

func TestPattern_FindAll_XStar(t *testing.T) {
	p := mustCompile(t, "x*", 0)
	matches := p.FindAll("abxd", 0, -1)
	want := []string{"", "", "x", "", ""}
	if len(matches) != len(want) {
		t.Fatalf("FindAll returned %d matches, want %d: %v", len(matches), len(want), matches)
	}
	for i, m := range matches {
		if g, _ := m.Group(0); g != want[i] {
			t.Errorf("match %d = %q, want %q", i, g, want[i])
		}
	}
}

func TestPattern_Sub_NotAdjacentRule(t *testing.T) {
	p := mustCompile(t, "x*", 0)
	got, err := p.Sub("-", "abxd", -1)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if got != "-a-b-d-" {
		t.Fatalf("Sub(greedy) = %q, want %q", got, "-a-b-d-")
	}

	lazy := mustCompile(t, "x*?", 0)
	got, err = lazy.Sub("-", "abxd", -1)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if got != "-a-b-x-d-" {
		t.Fatalf("Sub(lazy) = %q, want %q", got, "-a-b-x-d-")
	}
}

func TestPattern_FindIter_EndOfLineAnchor(t *testing.T) {
	p := mustCompile(t, "$", 0)
	var spans [][2]int
	for m := range p.FindIter("ab\n", 0, -1) {
		s, e := m.Span(0)
		spans = append(spans, [2]int{s, e})
	}
	want := [][2]int{{2, 2}, {3, 3}}
	if len(spans) != len(want) {
		t.Fatalf("spans = %v, want %v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("spans[%d] = %v, want %v", i, spans[i], want[i])
		}
	}
}

func TestPattern_PrimalityPattern(t *testing.T) {
	p := mustCompile(t, `^1?$|^(11+?)\1+$`, 0)
	if _, ok, _ := p.Match("1111", 0, -1); !ok {
		t.Fatal("1111 (composite, 4) should match the primality pattern")
	}
	if _, ok, _ := p.Match("11111", 0, -1); ok {
		t.Fatal("11111 (prime, 5) should not match the primality pattern")
	}
}

func TestPattern_BacktrackStackDepth_NonCapturingLoop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine = EngineBacktrack
	pattern := "(?:abc)*x"
	p, err := CompileWithConfig(pattern, 0, nil, cfg)
	if err != nil {
		t.Fatalf("CompileWithConfig: %v", err)
	}
	text := ""
	for i := 0; i < 50000; i++ {
		text += "abc"
	}
	text += "x"
	m, ok, err := p.Match(text, 0, -1)
	if err != nil || !ok {
		t.Fatalf("Match() = %v, %v, want a match", ok, err)
	}
	if _, e := m.Span(0); e != len(text) {
		t.Fatalf("match end = %d, want %d", e, len(text))
	}
}

func TestPattern_Split(t *testing.T) {
	p := mustCompile(t, `,`, 0)
	parts := p.Split("a,b,c", 0)
	want := []string{"a", "b", "c"}
	if len(parts) != len(want) {
		t.Fatalf("Split = %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("Split[%d] = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestPattern_NamedGroupReplacement(t *testing.T) {
	p := mustCompile(t, `(?P<word>\w+)`, 0)
	got, err := p.Sub(`[\g<word>]`, "hi there", -1)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if got != "[hi] [there]" {
		t.Fatalf("Sub = %q, want %q", got, "[hi] [there]")
	}
}

func TestPattern_MissingBackreferenceInReplacement(t *testing.T) {
	p := mustCompile(t, `a(b)?c`, 0)
	_, err := p.Sub(`\1`, "ac", -1)
	if err == nil {
		t.Fatal("expected MissingBackreferenceError for an unmatched group")
	}
	if _, ok := err.(*MissingBackreferenceError); !ok {
		t.Fatalf("got %T, want *MissingBackreferenceError", err)
	}
}

func TestScanner_Scan(t *testing.T) {
	var tokens []string
	sc, err := NewScanner([]ScannerPair{
		{Pattern: `\d+`, Action: func(text string) any { tokens = append(tokens, "NUM:"+text); return nil }},
		{Pattern: `\s+`, Action: func(text string) any { return nil }},
		{Pattern: `[a-z]+`, Action: func(text string) any { tokens = append(tokens, "WORD:"+text); return nil }},
	}, 0)
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	_, tail := sc.Scan("12 abc 34")
	if tail != "" {
		t.Fatalf("tail = %q, want empty", tail)
	}
	want := []string{"NUM:12", "WORD:abc", "NUM:34"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}
