package lira

import "testing"

func TestSolveDiophantineValidAndInconsistent(t *testing.T) {
	res, _ := SolveDiophantine(NewPolynomial(Zero))
	if res != DiophantineValid {
		t.Errorf("0 = 0 should be DiophantineValid, got %v", res)
	}

	res, _ = SolveDiophantine(NewPolynomial(FromInt(3)))
	if res != DiophantineInconsistent {
		t.Errorf("3 = 0 should be DiophantineInconsistent, got %v", res)
	}
}

func TestSolveDiophantineGCDRule(t *testing.T) {
	store := NewVarStore()
	x := store.External("x", SortInt)
	y := store.External("y", SortInt)

	// 2x + 4y + 1 = 0 has no integer solution: gcd(2,4)=2 does not divide 1.
	a := NewMonomial(FromInt(2), x).Add(NewMonomial(FromInt(4), y)).Add(NewPolynomial(FromInt(1)))
	res, _ := SolveDiophantine(a)
	if res != DiophantineInconsistent {
		t.Errorf("2x+4y+1=0 should be DiophantineInconsistent, got %v", res)
	}

	// 2x + 4y - 6 = 0 has integer solutions: gcd(2,4)=2 divides 6.
	b := NewMonomial(FromInt(2), x).Add(NewMonomial(FromInt(4), y)).Add(NewPolynomial(FromInt(-6)))
	res, sol := SolveDiophantine(b)
	if res != DiophantineSolved {
		t.Fatalf("2x+4y-6=0 should be DiophantineSolved, got %v", res)
	}
	if sol.P.Has(sol.X) {
		t.Error("the solved form must not mention the isolated variable")
	}
}

func TestGomoryCutSoundness(t *testing.T) {
	store := NewVarStore()
	x := store.External("x", SortInt)

	// k = 3/2 + (1/2)*x: the fractional parts are def(3/2)=1/2, frac(1/2)=1/2,
	// so the cut is -1/2 + 1/2*x >= 0, i.e. x >= 1 once x is known integral.
	b := NewMonomial(NewRational(1, 2), x).Add(NewPolynomial(NewRational(3, 2)))
	cut := GomoryCut(b)
	if got := cut.Const(); !got.Equal(NewRational(-1, 2)) {
		t.Errorf("cut constant = %v, want -1/2", got)
	}
	if got := cut.Coeff(x.ID); !got.Equal(NewRational(1, 2)) {
		t.Errorf("cut coeff(x) = %v, want 1/2", got)
	}
}

func TestGomoryCutOnIntegralRowIsTrivial(t *testing.T) {
	store := NewVarStore()
	x := store.External("x", SortInt)
	b := NewMonomial(FromInt(2), x).Add(NewPolynomial(FromInt(3)))
	cut := GomoryCut(b)
	if !cut.IsConstant() {
		t.Error("an already-integral row should produce a trivial (constant) cut")
	}
}
