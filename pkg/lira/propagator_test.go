package lira

import "testing"

func newTestPropagator() (*VarStore, *VarPartition, *Simplex, *Propagator) {
	store := NewVarStore()
	part := NewVarPartition(store)
	simplex := NewSimplex(store, part)
	prop := NewPropagator(store, simplex, part)
	part.OnEqual(func(x, y VarID, j Justification) {
		prop.EnqueueEq(FromVar(store.Get(x)), FromVar(store.Get(y)), j)
	})
	return store, part, simplex, prop
}

func TestPropagatorRunDispatchesEqAndNonneg(t *testing.T) {
	store, _, simplex, prop := newTestPropagator()
	x := store.External("x", SortReal)

	prop.EnqueueNonneg(FromVar(x), NewJustification(1))
	prop.EnqueueEq(FromVar(x), NewPolynomial(FromInt(5)), NewJustification(2))

	if err := prop.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	canon := simplex.canonicalizeFull(FromVar(x))
	if !canon.IsConstant() || !canon.Const().Equal(FromInt(5)) {
		t.Errorf("canonicalize(x) = %v, want 5", canon)
	}
}

func TestPropagatorRunStopsAtInconsistent(t *testing.T) {
	_, _, _, prop := newTestPropagator()

	prop.EnqueueNonneg(NewPolynomial(FromInt(-1)), NewJustification(1))
	prop.EnqueueNonneg(NewPolynomial(FromInt(3)), NewJustification(2))

	err := prop.Run()
	if _, ok := AsInconsistent(err); !ok {
		t.Fatalf("expected Inconsistent, got %v", err)
	}
}

func TestDispatchDiseqVariablePairDismerges(t *testing.T) {
	store, part, _, prop := newTestPropagator()
	x := store.External("x", SortReal)
	y := store.External("y", SortReal)

	prop.EnqueueDiseq(FromVar(x), FromVar(y), NewJustification(1))
	if err := prop.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ans := part.IsDiseq(x.ID, y.ID); !ans.IsYes() {
		t.Error("x != y should have dismerged x and y in the partition")
	}
}

func TestDispatchDiseqEqualVariablesIsInconsistent(t *testing.T) {
	store, _, _, prop := newTestPropagator()
	x := store.External("x", SortReal)

	prop.EnqueueEq(FromVar(x), NewPolynomial(FromInt(1)), NewJustification(1))
	prop.EnqueueDiseq(FromVar(x), NewPolynomial(FromInt(1)), NewJustification(2))

	err := prop.Run()
	if _, ok := AsInconsistent(err); !ok {
		t.Fatalf("x=1 together with x!=1 should be Inconsistent, got %v", err)
	}
}

func TestSplitDiophantineDiseqLearnsOppositeBound(t *testing.T) {
	store, _, simplex, prop := newTestPropagator()
	x := store.External("x", SortInt)

	// 0 <= x <= 1, x != 0: the only remaining integer value is 1, but the
	// segment search only ever rules out one contiguous band at a time, so
	// after a single x != 0 it should learn x >= 1 (the lower branch x <= -1
	// is inconsistent with x >= 0).
	if err := simplex.ProcessNonneg(FromVar(x), NewJustification(1)); err != nil {
		t.Fatalf("x >= 0: %v", err)
	}
	if err := simplex.ProcessNonneg(NewMonomial(FromInt(-1), x).Add(NewPolynomial(FromInt(1))), NewJustification(2)); err != nil {
		t.Fatalf("x <= 1: %v", err)
	}

	prop.EnqueueDiseq(FromVar(x), NewPolynomial(Zero), NewJustification(3))
	if err := prop.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	inf, _, err := simplex.inf(FromVar(x))
	if err != nil {
		t.Fatalf("inf(x): %v", err)
	}
	if !inf.Equal(One) {
		t.Errorf("inf(x) after x != 0 (with 0<=x<=1) = %v, want 1", inf)
	}
}

func TestDispatchDiseqAgainstPinnedValueIsInconsistent(t *testing.T) {
	store, _, simplex, prop := newTestPropagator()
	x := store.External("x", SortInt)

	// x = 0 pinned exactly; x != 0 now reduces to 0 != 0, inconsistent before
	// the contiguous-segment search even starts.
	if err := simplex.MergeEq(FromVar(x), NewPolynomial(Zero), NewJustification(1)); err != nil {
		t.Fatalf("x = 0: %v", err)
	}

	prop.EnqueueDiseq(FromVar(x), NewPolynomial(Zero), NewJustification(2))
	err := prop.Run()
	if _, ok := AsInconsistent(err); !ok {
		t.Fatalf("x=0 together with x!=0 should be Inconsistent, got %v", err)
	}
}

func TestSplitDiophantineDiseqNeitherBranchInconsistentKeepsOnlyDisequality(t *testing.T) {
	store, _, simplex, prop := newTestPropagator()
	x := store.External("x", SortInt)

	// x is unbounded on both sides: x != 5 should learn nothing about its
	// bounds (both x<=4 and x>=6 remain individually consistent), and the
	// speculative trials must leave no trace on the live R/T state.
	prop.EnqueueDiseq(FromVar(x), NewPolynomial(FromInt(5)), NewJustification(1))
	if err := prop.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, _, err := simplex.sup(FromVar(x)); err != ErrUnbounded {
		t.Errorf("sup(x) after only x != 5 should still be unbounded, got %v", err)
	}
	if _, _, err := simplex.inf(FromVar(x)); err != ErrUnbounded {
		// inf(x) = -sup(-x); -x is unbounded above too since x has no lower bound.
		t.Errorf("inf(x) after only x != 5 should still be unbounded, got %v", err)
	}
}

func TestTrialAlwaysRollsBackRegardlessOfOutcome(t *testing.T) {
	store, _, simplex, prop := newTestPropagator()
	x := store.External("x", SortReal)

	ok, err := prop.trial(func() error {
		return simplex.ProcessNonneg(FromVar(x), NewJustification(1))
	})
	if err != nil || !ok {
		t.Fatalf("trial(x >= 0) = (%v, %v), want (true, nil)", ok, err)
	}

	if _, _, err := simplex.sup(FromVar(x)); err != ErrUnbounded {
		t.Errorf("a successful trial must not leave x >= 0 applied; sup(x) = %v", err)
	}
}
