package groups

import "testing"

func TestNewIndex_Strict(t *testing.T) {
	g := NewGroupState()
	i1, err := g.NewIndex("", false)
	if err != nil || i1 != 1 {
		t.Fatalf("NewIndex unnamed = (%d,%v), want (1,nil)", i1, err)
	}
	i2, err := g.NewIndex("word", false)
	if err != nil || i2 != 2 {
		t.Fatalf("NewIndex named = (%d,%v), want (2,nil)", i2, err)
	}
	if _, err := g.NewIndex("word", false); err == nil {
		t.Error("repeated strict name should error")
	}
	if _, err := g.NewIndex("3", false); err == nil {
		t.Error("numeric strict name should error")
	}
}

func TestNewIndex_Extended(t *testing.T) {
	g := NewGroupState()
	i1, err := g.NewIndex("", true)
	if err != nil || i1 != 1 {
		t.Fatalf("NewIndex extended unnamed = (%d,%v)", i1, err)
	}
	alias, err := g.NewIndex("1", true)
	if err != nil || alias != 1 {
		t.Fatalf("aliasing existing index should succeed: (%d,%v)", alias, err)
	}
}

func TestIndexForNameOrCount(t *testing.T) {
	g := NewGroupState()
	idx, _ := g.NewIndex("word", false)
	got, err := g.IndexForNameOrCount("word")
	if err != nil || got != idx {
		t.Fatalf("IndexForNameOrCount(name) = (%d,%v), want (%d,nil)", got, err, idx)
	}
	got, err = g.IndexForNameOrCount("1")
	if err != nil || got != idx {
		t.Fatalf("IndexForNameOrCount(index) = (%d,%v), want (%d,nil)", got, err, idx)
	}
	if _, err := g.IndexForNameOrCount("nope"); err == nil {
		t.Error("unknown name should error")
	}
}

func TestCaptures_StartEndSpan(t *testing.T) {
	c := NewCaptures(2)
	if !c.Span(1).Unset() {
		t.Fatal("fresh capture should be unset")
	}
	c.StartGroup(1, 3)
	c.EndGroup(1, 7)
	if sp := c.Span(1); sp.Start != 3 || sp.End != 7 {
		t.Fatalf("Span(1) = %+v, want {3 7}", sp)
	}
	if c.Last() != 1 {
		t.Fatalf("Last() = %d, want 1", c.Last())
	}
}

func TestCaptures_CloneIsIndependent(t *testing.T) {
	c := NewCaptures(2)
	c.StartGroup(1, 0)
	c.EndGroup(1, 1)
	clone := c.Clone()
	clone.EndGroup(1, 99)
	if c.Span(1).End == 99 {
		t.Fatal("mutating clone should not affect original")
	}
}

func TestCaptures_Reset(t *testing.T) {
	c := NewCaptures(2)
	c.StartGroup(1, 0)
	c.EndGroup(1, 1)
	c.Reset()
	if !c.Span(1).Unset() || c.Last() != -1 {
		t.Fatal("Reset should clear all spans and last")
	}
}
