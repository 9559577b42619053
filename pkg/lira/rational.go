// Package lira implements an online, incremental decision procedure for the
// quantifier-free combination of linear rational arithmetic with
// uninterpreted function symbols, tuples/projections, functional arrays, and
// a propositional layer over those atomic theories.
//
// This file defines Rational, an exact arbitrary-precision rational number.
// Unlike the teacher constraint-solver's fixed-width int/int rational
// (adequate for small puzzle coefficients), the simplex engine accumulates
// coefficients through repeated pivoting and must never lose precision, so
// the numerator and denominator here are math/big.Int.
package lira

import (
	"fmt"
	"math/big"
)

// Rational is an exact rational number, always stored normalized: the
// denominator is positive and GCD(|Num|, Den) = 1.
//
// Rationals are immutable; every operation returns a new value.
type Rational struct {
	num *big.Int
	den *big.Int
}

var bigOne = big.NewInt(1)

// Zero is the rational 0/1.
var Zero = Rational{num: big.NewInt(0), den: big.NewInt(1)}

// One is the rational 1/1.
var One = Rational{num: big.NewInt(1), den: big.NewInt(1)}

// NewRational builds num/den in normalized form. Panics if den is zero,
// mirroring the teacher's Rational constructor.
func NewRational(num, den int64) Rational {
	return NewRationalBig(big.NewInt(num), big.NewInt(den))
}

// NewRationalBig builds num/den from big.Int operands, taking ownership of
// neither argument (both are copied).
func NewRationalBig(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("lira: rational division by zero")
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	if n.Sign() == 0 {
		return Rational{num: big.NewInt(0), den: big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), new(big.Int).Abs(d))
	if g.Sign() != 0 && g.Cmp(bigOne) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	return Rational{num: n, den: d}
}

// FromInt returns the rational n/1.
func FromInt(n int64) Rational {
	return Rational{num: big.NewInt(n), den: big.NewInt(1)}
}

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	num := new(big.Int).Add(new(big.Int).Mul(r.num, other.den), new(big.Int).Mul(other.num, r.den))
	den := new(big.Int).Mul(r.den, other.den)
	return NewRationalBig(num, den)
}

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational {
	return r.Add(other.Neg())
}

// Mul returns r * other.
func (r Rational) Mul(other Rational) Rational {
	num := new(big.Int).Mul(r.num, other.num)
	den := new(big.Int).Mul(r.den, other.den)
	return NewRationalBig(num, den)
}

// Div returns r / other. Panics if other is zero.
func (r Rational) Div(other Rational) Rational {
	if other.num.Sign() == 0 {
		panic("lira: rational division by zero")
	}
	num := new(big.Int).Mul(r.num, other.den)
	den := new(big.Int).Mul(r.den, other.num)
	return NewRationalBig(num, den)
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{num: new(big.Int).Neg(r.num), den: new(big.Int).Set(r.den)}
}

// Inv returns 1/r. Panics if r is zero.
func (r Rational) Inv() Rational {
	if r.num.Sign() == 0 {
		panic("lira: rational inversion of zero")
	}
	return NewRationalBig(r.den, r.num)
}

// Sign returns -1, 0, or 1 according to the sign of r.
func (r Rational) Sign() int {
	return r.num.Sign()
}

// IsZero reports whether r == 0.
func (r Rational) IsZero() bool { return r.num.Sign() == 0 }

// IsPositive reports whether r > 0.
func (r Rational) IsPositive() bool { return r.num.Sign() > 0 }

// IsNegative reports whether r < 0.
func (r Rational) IsNegative() bool { return r.num.Sign() < 0 }

// Cmp returns -1, 0, or 1 according to whether r is less than, equal to, or
// greater than other.
func (r Rational) Cmp(other Rational) int {
	lhs := new(big.Int).Mul(r.num, other.den)
	rhs := new(big.Int).Mul(other.num, r.den)
	return lhs.Cmp(rhs)
}

// Equal reports whether r and other denote the same rational number.
func (r Rational) Equal(other Rational) bool {
	return r.num.Cmp(other.num) == 0 && r.den.Cmp(other.den) == 0
}

// Less reports whether r < other.
func (r Rational) Less(other Rational) bool { return r.Cmp(other) < 0 }

// Abs returns |r|.
func (r Rational) Abs() Rational {
	if r.IsNegative() {
		return r.Neg()
	}
	return r
}

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool {
	return r.den.Cmp(bigOne) == 0
}

// Floor returns the greatest integer <= r, as a Rational with denominator 1.
func (r Rational) Floor() Rational {
	q := new(big.Int)
	m := new(big.Int)
	q.QuoRem(r.num, r.den, m)
	if m.Sign() != 0 && r.num.Sign() < 0 {
		q.Sub(q, bigOne)
	}
	return Rational{num: q, den: big.NewInt(1)}
}

// Ceil returns the least integer >= r, as a Rational with denominator 1.
func (r Rational) Ceil() Rational {
	return r.Neg().Floor().Neg()
}

// Frac returns frac(r) = r - floor(r), always in [0, 1).
func (r Rational) Frac() Rational {
	return r.Sub(r.Floor())
}

// Deficit returns def(r) = ceil(r) - r, always in [0, 1).
func (r Rational) Deficit() Rational {
	return r.Ceil().Sub(r)
}

// Int64 returns r's numerator and denominator as int64 values. It does not
// check range: a part that does not fit an int64 gives big.Int.Int64's
// undefined result. Inside the package only the tests call it.
func (r Rational) Int64() (num, den int64) {
	return r.num.Int64(), r.den.Int64()
}

// BigInt returns the numerator and denominator as big.Int copies.
func (r Rational) BigInt() (num, den *big.Int) {
	return new(big.Int).Set(r.num), new(big.Int).Set(r.den)
}

// String renders "num" for integers, "num/den" otherwise.
func (r Rational) String() string {
	if r.den.Cmp(bigOne) == 0 {
		return r.num.String()
	}
	return fmt.Sprintf("%s/%s", r.num.String(), r.den.String())
}
