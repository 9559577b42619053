package lira

import "testing"

func TestNewJustificationDedupAndSort(t *testing.T) {
	j := NewJustification(3, 1, 2, 1, 3)
	want := []AtomID{1, 2, 3}
	got := j.Atoms()
	if len(got) != len(want) {
		t.Fatalf("Atoms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Atoms()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestJustificationUnion(t *testing.T) {
	a := NewJustification(1, 3)
	b := NewJustification(2, 3, 4)
	u := a.Union(b)
	for _, atom := range []AtomID{1, 2, 3, 4} {
		if !u.Contains(atom) {
			t.Errorf("union should contain atom %d", atom)
		}
	}
	if u.Len() != 4 {
		t.Errorf("Len() = %d, want 4", u.Len())
	}
}

func TestJustificationUnionWithEmpty(t *testing.T) {
	a := NewJustification(1, 2)
	if got := a.Union(EmptyJustification); got.Len() != a.Len() {
		t.Error("unioning with the empty justification should be a no-op")
	}
	if got := EmptyJustification.Union(a); got.Len() != a.Len() {
		t.Error("unioning the empty justification with a should yield a")
	}
}

func TestJustificationContains(t *testing.T) {
	j := NewJustification(5, 10, 15)
	if !j.Contains(10) {
		t.Error("expected justification to contain 10")
	}
	if j.Contains(11) {
		t.Error("justification should not contain an absent atom")
	}
}
