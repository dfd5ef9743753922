package parser

import (
	"testing"

	"github.com/coregx/opgraph"
	"github.com/coregx/opgraph/alphabet"
)

func asciiOpts() Options {
	return Options{Alphabet: alphabet.ASCII}
}

func TestParse_LiteralConcat(t *testing.T) {
	g, _, err := Parse("abc", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// A run of plain literals merges into one String node rather than a
	// chain of per-rune Character nodes.
	n := g.Entry
	if n.Kind != opgraph.KindString {
		t.Fatalf("expected a merged String node, got %s", n.Kind)
	}
	if string(n.Text) != "abc" {
		t.Fatalf("expected String text %q, got %q", "abc", string(n.Text))
	}
	if n.Next[0].Kind != opgraph.KindMatch {
		t.Fatalf("expected chain to end in Match, got %s", n.Next[0].Kind)
	}
}

func TestParse_LiteralConcat_DisableStringMerge(t *testing.T) {
	opts := asciiOpts()
	opts.DisableStringMerge = true
	g, _, err := Parse("abc", opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	n := g.Entry
	count := 0
	for n.Kind == opgraph.KindCharacter {
		count++
		n = n.Next[0]
	}
	if count != 3 {
		t.Fatalf("expected 3 Character nodes, got %d", count)
	}
	if n.Kind != opgraph.KindMatch {
		t.Fatalf("expected chain to end in Match, got %s", n.Kind)
	}
}

func TestParse_Alternation(t *testing.T) {
	g, _, err := Parse("a|b", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Entry.Kind != opgraph.KindSplit {
		t.Fatalf("expected Split at entry, got %s", g.Entry.Kind)
	}
	if len(g.Entry.Next) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(g.Entry.Next))
	}
	if err := g.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParse_StarQuantifier(t *testing.T) {
	g, _, err := Parse("a*", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if g.Entry.Kind != opgraph.KindRepeat {
		t.Fatalf("expected Repeat at entry, got %s", g.Entry.Kind)
	}
	if g.Entry.Begin != 0 || g.Entry.End != opgraph.NoUpperBound {
		t.Fatalf("expected {0,inf}, got {%d,%d}", g.Entry.Begin, g.Entry.End)
	}
}

func TestParse_CountedRepeat(t *testing.T) {
	g, _, err := Parse("a{2,4}", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Entry.Begin != 2 || g.Entry.End != 4 {
		t.Fatalf("expected {2,4}, got {%d,%d}", g.Entry.Begin, g.Entry.End)
	}
}

func TestParse_LazyQuantifier(t *testing.T) {
	g, _, err := Parse("a*?", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !g.Entry.Lazy {
		t.Fatal("expected lazy repeat")
	}
}

func TestParse_CapturingGroup(t *testing.T) {
	g, gs, err := Parse("a(b)c", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if gs.Count() != 1 {
		t.Fatalf("expected 1 capturing group, got %d", gs.Count())
	}
}

func TestParse_NamedGroupAndBackreference(t *testing.T) {
	g, gs, err := Parse(`(?P<word>\w+)\1`, asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := gs.IndexForNameOrCount("word"); err != nil {
		t.Fatalf("expected group named 'word': %v", err)
	}
	_ = g
}

func TestParse_CharacterClass(t *testing.T) {
	g, _, err := Parse("[a-z0-9]", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	n := g.Entry
	if n.Kind != opgraph.KindCharacter {
		t.Fatalf("expected Character node, got %s", n.Kind)
	}
	if !n.Intervals.Contains(alphabet.ASCII.CharToCode('m')) {
		t.Error("class should contain 'm'")
	}
	if !n.Intervals.Contains(alphabet.ASCII.CharToCode('5')) {
		t.Error("class should contain '5'")
	}
	if n.Intervals.Contains(alphabet.ASCII.CharToCode('!')) {
		t.Error("class should not contain '!'")
	}
}

func TestParse_NegatedClass(t *testing.T) {
	g, _, err := Parse("[^a]", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !g.Entry.Inverted {
		t.Fatal("expected Inverted class")
	}
}

func TestParse_Lookahead(t *testing.T) {
	g, _, err := Parse("a(?=b)", asciiOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParse_UnterminatedGroupError(t *testing.T) {
	if _, _, err := Parse("(a", asciiOpts()); err == nil {
		t.Fatal("expected a syntax error for unterminated group")
	}
}

func TestParse_RepeatedNameError(t *testing.T) {
	if _, _, err := Parse(`(?P<x>a)(?P<x>b)`, asciiOpts()); err == nil {
		t.Fatal("expected error for repeated group name")
	}
}
