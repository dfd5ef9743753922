package dfalazy

import (
	"testing"

	"github.com/coregx/opgraph"
	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/internal/parser"
)

func mustParse(t *testing.T, pattern string) *opgraph.Graph {
	t.Helper()
	g, _, err := parser.Parse(pattern, parser.Options{Alphabet: alphabet.ASCII})
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return g
}

func TestEngine_LiteralMatch(t *testing.T) {
	g := mustParse(t, "abc")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	caps, _, ok, err := eng.Run([]rune("abc"), 0)
	if err != nil || !ok {
		t.Fatalf("expected match, err=%v", err)
	}
	if sp := caps.Span(0); sp.Start != 0 || sp.End != 3 {
		t.Fatalf("span = %+v, want {0 3}", sp)
	}
}

func TestEngine_Capture(t *testing.T) {
	g := mustParse(t, "a(.)c")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	caps, _, ok, err := eng.Run([]rune("abc"), 0)
	if err != nil || !ok {
		t.Fatalf("expected match, err=%v", err)
	}
	if sp := caps.Span(1); sp.Start != 1 || sp.End != 2 {
		t.Fatalf("group 1 span = %+v, want {1 2}", sp)
	}
}

func TestEngine_GreedyStarLongestMatch(t *testing.T) {
	g := mustParse(t, ".*x")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	caps, _, ok, err := eng.Run([]rune("axbxcx"), 0)
	if err != nil || !ok {
		t.Fatalf("expected match, err=%v", err)
	}
	if sp := caps.Span(0); sp.Start != 0 || sp.End != 6 {
		t.Fatalf("span = %+v, want {0 6} (greedy .* should reach the last x)", sp)
	}
}

func TestEngine_Alternation(t *testing.T) {
	g := mustParse(t, "cat|dog")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	if _, _, ok, _ := eng.Run([]rune("dog"), 0); !ok {
		t.Fatal("expected dog to match")
	}
	if _, _, ok, _ := eng.Run([]rune("cow"), 0); ok {
		t.Fatal("expected cow not to match")
	}
}

func TestEngine_CountedRepeat(t *testing.T) {
	g := mustParse(t, "(ab){2,3}")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	if _, _, ok, _ := eng.Run([]rune("ab"), 0); ok {
		t.Fatal("one repetition should fail {2,3}")
	}
	caps, _, ok, err := eng.Run([]rune("ababab"), 0)
	if err != nil || !ok {
		t.Fatalf("three repetitions should match, err=%v", err)
	}
	if caps.Span(0).End != 6 {
		t.Fatalf("end = %d, want 6", caps.Span(0).End)
	}
}

func TestEngine_Lookahead(t *testing.T) {
	g := mustParse(t, "foo(?=bar)")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	caps, _, ok, err := eng.Run([]rune("foobar"), 0)
	if err != nil || !ok {
		t.Fatalf("expected match, err=%v", err)
	}
	if caps.Span(0).End != 3 {
		t.Fatalf("lookahead should not consume input, end = %d, want 3", caps.Span(0).End)
	}
	if _, _, ok, _ := eng.Run([]rune("foobaz"), 0); ok {
		t.Fatal("expected foobaz not to match foo(?=bar)")
	}
}

func TestEngine_BackreferenceUnsupported(t *testing.T) {
	g := mustParse(t, `(ab)\1`)
	eng := New(g, alphabet.ASCII, DefaultConfig())
	if _, _, _, err := eng.Run([]rune("abab"), 0); err == nil {
		t.Fatal("expected ErrUnsupportedBackreference")
	}
}

func TestEngine_StateCacheReusedAcrossRepeatedRunes(t *testing.T) {
	// "b*c" over a long run of 'b's should build only a handful of
	// distinct states (start, looping-on-b, after-c) no matter how long
	// the run is — the whole point of memoizing transitions per state.
	g := mustParse(t, "b*c")
	eng := New(g, alphabet.ASCII, DefaultConfig())

	input := make([]rune, 2000)
	for i := range input[:len(input)-1] {
		input[i] = 'b'
	}
	input[len(input)-1] = 'c'

	caps, stats, ok, err := eng.Run(input, 0)
	if err != nil || !ok {
		t.Fatalf("expected match, err=%v", err)
	}
	if caps.Span(0).End != len(input) {
		t.Fatalf("end = %d, want %d", caps.Span(0).End, len(input))
	}
	if stats.StatesBuilt > 8 {
		t.Fatalf("StatesBuilt = %d, want a small constant regardless of input length", stats.StatesBuilt)
	}
}
