package matchresult

import (
	"testing"

	"github.com/coregx/opgraph/groups"
)

func TestGroup_ByIndexAndName(t *testing.T) {
	c := groups.NewCaptures(2)
	c.StartGroup(0, 0)
	c.EndGroup(0, 3)
	c.StartGroup(1, 1)
	c.EndGroup(1, 2)

	m := New("abc", c, map[string]int{"mid": 1})

	if whole, ok := m.Group(0); !ok || whole != "abc" {
		t.Fatalf("Group(0) = (%q,%v), want (\"abc\",true)", whole, ok)
	}
	if mid, ok := m.Group(1); !ok || mid != "b" {
		t.Fatalf("Group(1) = (%q,%v), want (\"b\",true)", mid, ok)
	}
	if mid, ok := m.Group("mid"); !ok || mid != "b" {
		t.Fatalf("Group(\"mid\") = (%q,%v), want (\"b\",true)", mid, ok)
	}
	if _, ok := m.Group("nope"); ok {
		t.Error("unknown name should report ok=false")
	}
}

func TestGroup_Unparticipated(t *testing.T) {
	c := groups.NewCaptures(2)
	c.StartGroup(0, 0)
	c.EndGroup(0, 1)
	m := New("a", c, nil)

	if _, ok := m.Group(1); ok {
		t.Error("group 1 never participated, want ok=false")
	}
	if s, e := m.Span(1); s != -1 || e != -1 {
		t.Fatalf("Span(1) = (%d,%d), want (-1,-1)", s, e)
	}
}

func TestGroups_DefaultSubstitution(t *testing.T) {
	c := groups.NewCaptures(3)
	c.StartGroup(0, 0)
	c.EndGroup(0, 2)
	c.StartGroup(1, 0)
	c.EndGroup(1, 1)
	m := New("ab", c, nil)

	got := m.Groups("?")
	if len(got) != 2 || got[0] != "a" || got[1] != "?" {
		t.Fatalf("Groups(\"?\") = %v, want [a ?]", got)
	}
}

func TestGroupDict(t *testing.T) {
	c := groups.NewCaptures(2)
	c.StartGroup(0, 0)
	c.EndGroup(0, 1)
	m := New("a", c, map[string]int{"x": 1})

	gd := m.GroupDict("?")
	if gd["x"] != "?" {
		t.Fatalf("GroupDict = %v, want x=?", gd)
	}
}

func TestLastIndex(t *testing.T) {
	c := groups.NewCaptures(2)
	c.StartGroup(1, 0)
	c.EndGroup(1, 1)
	m := New("a", c, nil)
	if m.LastIndex() != 1 {
		t.Fatalf("LastIndex() = %d, want 1", m.LastIndex())
	}
}
