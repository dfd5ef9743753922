package intervalset

import (
	"math/rand"
	"testing"

	"github.com/coregx/opgraph/alphabet"
)

func TestInsert_MergeAdjacentAndOverlap(t *testing.T) {
	s := New(alphabet.ASCII)
	s.Insert('a', 'c')
	s.Insert('d', 'f') // adjacent to previous, should merge into a-f
	s.Insert('x', 'z')
	s.Insert('b', 'e') // overlaps a-f entirely

	if got, want := s.String(), "a-fx-z"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestInsert_DisjointKeepsOrder(t *testing.T) {
	s := New(alphabet.ASCII)
	s.Insert('m', 'm')
	s.Insert('a', 'a')
	s.Insert('z', 'z')

	ivs := s.Intervals()
	if len(ivs) != 3 {
		t.Fatalf("expected 3 disjoint intervals, got %d", len(ivs))
	}
	if ivs[0].Lo != 'a' || ivs[1].Lo != 'm' || ivs[2].Lo != 'z' {
		t.Fatalf("intervals not sorted: %+v", ivs)
	}
}

func TestInsert_OrderIndependent(t *testing.T) {
	type rng struct{ lo, hi alphabet.Code }
	ranges := []rng{{'a', 'c'}, {'e', 'g'}, {'b', 'f'}, {'z', 'z'}, {'h', 'h'}}

	baseline := New(alphabet.ASCII)
	for _, r := range ranges {
		baseline.Insert(r.lo, r.hi)
	}
	want := baseline.String()

	for trial := 0; trial < 20; trial++ {
		perm := append([]rng(nil), ranges...)
		rand.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		s := New(alphabet.ASCII)
		for _, r := range perm {
			s.Insert(r.lo, r.hi)
		}
		if got := s.String(); got != want {
			t.Fatalf("order-dependent result: got %q, want %q (perm %v)", got, want, perm)
		}
	}
}

func TestContains(t *testing.T) {
	s := New(alphabet.ASCII)
	s.Insert('0', '9')
	s.Insert('a', 'f')

	for _, c := range []alphabet.Code{'0', '5', '9', 'a', 'c', 'f'} {
		if !s.Contains(c) {
			t.Errorf("Contains(%q) = false, want true", rune(c))
		}
	}
	for _, c := range []alphabet.Code{'/', ':', 'g', 'Z'} {
		if s.Contains(c) {
			t.Errorf("Contains(%q) = true, want false", rune(c))
		}
	}
}

func TestDisplayFormatting(t *testing.T) {
	s := New(alphabet.ASCII)
	s.Insert('a', 'a')
	if got := s.String(); got != "a" {
		t.Errorf("single char = %q, want %q", got, "a")
	}

	s2 := New(alphabet.ASCII)
	s2.Insert('a', 'b')
	if got := s2.String(); got != "ab" {
		t.Errorf("two-char pair = %q, want %q", got, "ab")
	}

	s3 := New(alphabet.ASCII)
	s3.Insert('a', 'z')
	if got := s3.String(); got != "a-z" {
		t.Errorf("range = %q, want %q", got, "a-z")
	}
}

func TestEqual(t *testing.T) {
	a := New(alphabet.ASCII)
	a.Insert('a', 'c')
	b := New(alphabet.ASCII)
	b.Insert('c', 'c')
	b.Insert('a', 'b')
	if !Equal(a, b) {
		t.Errorf("Equal should hold for sets built in different order: %q vs %q", a, b)
	}
}
