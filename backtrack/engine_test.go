package backtrack

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
	caps, _, ok := eng.Run([]rune("abc"), 0)
	if !ok {
		t.Fatal("expected match")
	}
	sp := caps.Span(0)
	if sp.Start != 0 || sp.End != 3 {
		t.Fatalf("span = %+v, want {0 3}", sp)
	}
}

func TestEngine_Capture(t *testing.T) {
	g := mustParse(t, "a(.)c")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	caps, _, ok := eng.Run([]rune("abc"), 0)
	if !ok {
		t.Fatal("expected match")
	}
	sp := caps.Span(1)
	if sp.Start != 1 || sp.End != 2 {
		t.Fatalf("group 1 span = %+v, want {1 2}", sp)
	}
}

func TestEngine_GreedyStarCompressedStackDepth(t *testing.T) {
	g := mustParse(t, ".*x")
	cfg := DefaultConfig()
	cfg.CollectStats = true
	eng := New(g, alphabet.ASCII, cfg)

	input := make([]rune, 5000)
	for i := range input {
		input[i] = 'a'
	}
	input[len(input)-1] = 'x'

	caps, stats, ok := eng.Run(input, 0)
	if !ok {
		t.Fatal("expected match")
	}
	if caps.Span(0).End != len(input) {
		t.Fatalf("match end = %d, want %d", caps.Span(0).End, len(input))
	}
	if stats.MaxDepth > 4 {
		t.Fatalf("MaxDepth = %d, want O(1) (<=4) for a compressed .*x scan", stats.MaxDepth)
	}
}

func TestEngine_Alternation(t *testing.T) {
	g := mustParse(t, "cat|dog")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	if _, _, ok := eng.Run([]rune("dog"), 0); !ok {
		t.Fatal("expected dog to match")
	}
	if _, _, ok := eng.Run([]rune("cow"), 0); ok {
		t.Fatal("expected cow not to match")
	}
}

func TestEngine_Backreference(t *testing.T) {
	g := mustParse(t, `(ab)\1`)
	eng := New(g, alphabet.ASCII, DefaultConfig())
	if _, _, ok := eng.Run([]rune("abab"), 0); !ok {
		t.Fatal("expected abab to match (ab)\\1")
	}
	if _, _, ok := eng.Run([]rune("abcd"), 0); ok {
		t.Fatal("expected abcd not to match")
	}
}

func TestEngine_Lookahead(t *testing.T) {
	g := mustParse(t, "foo(?=bar)")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	caps, _, ok := eng.Run([]rune("foobar"), 0)
	if !ok {
		t.Fatal("expected match")
	}
	if caps.Span(0).End != 3 {
		t.Fatalf("lookahead should not consume input, end = %d, want 3", caps.Span(0).End)
	}
	if _, _, ok := eng.Run([]rune("foobaz"), 0); ok {
		t.Fatal("expected foobaz not to match foo(?=bar)")
	}
}

func TestEngine_CountedRepeat(t *testing.T) {
	g := mustParse(t, "(ab){2,3}")
	eng := New(g, alphabet.ASCII, DefaultConfig())
	if _, _, ok := eng.Run([]rune("ab"), 0); ok {
		t.Fatal("one repetition should fail {2,3}")
	}
	caps, _, ok := eng.Run([]rune("ababab"), 0)
	if !ok {
		t.Fatal("three repetitions should match")
	}
	if caps.Span(0).End != 6 {
		t.Fatalf("end = %d, want 6", caps.Span(0).End)
	}
}
