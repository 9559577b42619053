package lira

import "testing"

func TestRationalNormalization(t *testing.T) {
	tests := []struct {
		name       string
		num, den   int64
		wantNum    int64
		wantDen    int64
	}{
		{"already reduced", 1, 2, 1, 2},
		{"reduces gcd", 4, 8, 1, 2},
		{"negative denominator flips sign", 3, -4, -3, 4},
		{"negative over negative", -3, -4, 3, 4},
		{"zero numerator collapses to 0/1", 0, 5, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRational(tt.num, tt.den)
			gotNum, gotDen := r.Int64()
			if gotNum != tt.wantNum || gotDen != tt.wantDen {
				t.Errorf("NewRational(%d, %d) = %d/%d, want %d/%d", tt.num, tt.den, gotNum, gotDen, tt.wantNum, tt.wantDen)
			}
		})
	}
}

func TestRationalArithmetic(t *testing.T) {
	half := NewRational(1, 2)
	third := NewRational(1, 3)

	if got := half.Add(third); !got.Equal(NewRational(5, 6)) {
		t.Errorf("1/2 + 1/3 = %v, want 5/6", got)
	}
	if got := half.Sub(third); !got.Equal(NewRational(1, 6)) {
		t.Errorf("1/2 - 1/3 = %v, want 1/6", got)
	}
	if got := half.Mul(third); !got.Equal(NewRational(1, 6)) {
		t.Errorf("1/2 * 1/3 = %v, want 1/6", got)
	}
	if got := half.Div(third); !got.Equal(NewRational(3, 2)) {
		t.Errorf("1/2 / 1/3 = %v, want 3/2", got)
	}
	if got := half.Neg(); !got.Equal(NewRational(-1, 2)) {
		t.Errorf("-(1/2) = %v, want -1/2", got)
	}
	if got := half.Inv(); !got.Equal(FromInt(2)) {
		t.Errorf("(1/2)^-1 = %v, want 2", got)
	}
}

func TestRationalCmpAndSign(t *testing.T) {
	a, b := NewRational(1, 3), NewRational(2, 3)
	if !a.Less(b) {
		t.Error("1/3 should be less than 2/3")
	}
	if a.Cmp(a) != 0 {
		t.Error("1/3 should compare equal to itself")
	}
	if !Zero.IsZero() || Zero.Sign() != 0 {
		t.Error("Zero should be zero")
	}
	if !One.IsPositive() {
		t.Error("One should be positive")
	}
	if !FromInt(-1).IsNegative() {
		t.Error("-1 should be negative")
	}
}

func TestRationalFloorCeilFracDeficit(t *testing.T) {
	tests := []struct {
		name         string
		r            Rational
		floor, ceil  Rational
		frac, defcit Rational
	}{
		{"positive fraction", NewRational(7, 2), FromInt(3), FromInt(4), NewRational(1, 2), NewRational(1, 2)},
		{"negative fraction", NewRational(-7, 2), FromInt(-4), FromInt(-3), NewRational(1, 2), NewRational(1, 2)},
		{"exact integer", FromInt(5), FromInt(5), FromInt(5), Zero, Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Floor(); !got.Equal(tt.floor) {
				t.Errorf("Floor(%v) = %v, want %v", tt.r, got, tt.floor)
			}
			if got := tt.r.Ceil(); !got.Equal(tt.ceil) {
				t.Errorf("Ceil(%v) = %v, want %v", tt.r, got, tt.ceil)
			}
			if got := tt.r.Frac(); !got.Equal(tt.frac) {
				t.Errorf("Frac(%v) = %v, want %v", tt.r, got, tt.frac)
			}
			if got := tt.r.Deficit(); !got.Equal(tt.defcit) {
				t.Errorf("Deficit(%v) = %v, want %v", tt.r, got, tt.defcit)
			}
		})
	}
}

func TestRationalString(t *testing.T) {
	if got := FromInt(3).String(); got != "3" {
		t.Errorf("String() = %q, want %q", got, "3")
	}
	if got := NewRational(1, 2).String(); got != "1/2" {
		t.Errorf("String() = %q, want %q", got, "1/2")
	}
}

func TestRationalDivisionByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Div by zero should panic")
		}
	}()
	One.Div(Zero)
}
