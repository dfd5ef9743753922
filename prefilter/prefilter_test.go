package prefilter

import (
	"testing"

	"github.com/coregx/opgraph/alphabet"
	"github.com/coregx/opgraph/internal/parser"
)

func mustParse(t *testing.T, pattern string) []Literal {
	t.Helper()
	g, _, err := parser.Parse(pattern, parser.Options{Alphabet: alphabet.ASCII})
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return ExtractPrefixes(g)
}

func TestExtractPrefixes_SingleLiteral(t *testing.T) {
	lits := mustParse(t, "hello")
	if len(lits) != 1 || string(lits[0].Text) != "hello" || !lits[0].Complete {
		t.Fatalf("lits = %+v, want one complete literal %q", lits, "hello")
	}
}

func TestExtractPrefixes_LiteralWithTrailer(t *testing.T) {
	lits := mustParse(t, "foo.*")
	if len(lits) != 1 || string(lits[0].Text) != "foo" || lits[0].Complete {
		t.Fatalf("lits = %+v, want one incomplete literal %q", lits, "foo")
	}
}

func TestExtractPrefixes_Alternation(t *testing.T) {
	lits := mustParse(t, "cat|dog")
	if len(lits) != 2 {
		t.Fatalf("lits = %+v, want two alternatives", lits)
	}
	seen := map[string]bool{}
	for _, l := range lits {
		seen[string(l.Text)] = true
	}
	if !seen["cat"] || !seen["dog"] {
		t.Fatalf("lits = %+v, want cat and dog", lits)
	}
}

func TestExtractPrefixes_NoRequiredLiteral(t *testing.T) {
	if lits := mustParse(t, ".*foo"); lits != nil {
		t.Fatalf("lits = %+v, want nil (no required leading literal)", lits)
	}
	if lits := mustParse(t, "a|.b"); lits != nil {
		t.Fatalf("lits = %+v, want nil (one alternative has no literal)", lits)
	}
}

func TestBuild_SingleRune(t *testing.T) {
	pf := NewBuilder([]Literal{{Text: []rune("x"), Complete: true}}).Build()
	if pf == nil {
		t.Fatal("expected a prefilter")
	}
	if pos := pf.Find([]rune("abcxdef"), 0); pos != 3 {
		t.Fatalf("Find = %d, want 3", pos)
	}
	if !pf.IsComplete() || pf.LiteralLen() != 1 {
		t.Fatalf("IsComplete/LiteralLen = %v/%d, want true/1", pf.IsComplete(), pf.LiteralLen())
	}
}

func TestBuild_SingleLiteral(t *testing.T) {
	pf := NewBuilder([]Literal{{Text: []rune("hello"), Complete: false}}).Build()
	if pos := pf.Find([]rune("say hello there"), 0); pos != 4 {
		t.Fatalf("Find = %d, want 4", pos)
	}
	if pf.IsComplete() {
		t.Fatal("expected IsComplete == false")
	}
	if pos := pf.Find([]rune("no match here"), 0); pos != -1 {
		t.Fatalf("Find = %d, want -1", pos)
	}
}

func TestBuild_MultiLiteral(t *testing.T) {
	pf := NewBuilder([]Literal{
		{Text: []rune("cat"), Complete: true},
		{Text: []rune("dog"), Complete: true},
	}).Build()
	if pos := pf.Find([]rune("the dog ran"), 0); pos != 4 {
		t.Fatalf("Find = %d, want 4", pos)
	}
	if pos := pf.Find([]rune("a cat and a dog"), 0); pos != 2 {
		t.Fatalf("Find = %d, want 2 (leftmost across literals)", pos)
	}
	if !pf.IsComplete() || pf.LiteralLen() != 3 {
		t.Fatalf("IsComplete/LiteralLen = %v/%d, want true/3", pf.IsComplete(), pf.LiteralLen())
	}
	if pos := pf.Find([]rune("nothing relevant"), 0); pos != -1 {
		t.Fatalf("Find = %d, want -1", pos)
	}
}

func TestBuild_EmptyYieldsNil(t *testing.T) {
	if pf := NewBuilder(nil).Build(); pf != nil {
		t.Fatalf("expected nil prefilter for no literals, got %T", pf)
	}
}
