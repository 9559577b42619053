package lira

import "math/big"

// DiophantineResult classifies the outcome of solving a linear equation
// over declared-integer variables (spec.md §4.1 "Integer solver").
type DiophantineResult int

const (
	// DiophantineValid means the equation holds unconditionally (0 = 0).
	DiophantineValid DiophantineResult = iota
	// DiophantineInconsistent means no integer assignment satisfies the
	// equation (the gcd of the coefficients does not divide the constant).
	DiophantineInconsistent
	// DiophantineSolved means a parameterised solution was produced.
	DiophantineSolved
)

// DiophantineSolution is the solved form of a linear Diophantine equation
// `c0 + Σ ci·xi = 0`: one variable is isolated as an affine combination of
// the others, exactly as an ordinary isolate would (see isolateAny). The
// coefficients are not reduced by the gcd and no fresh parameters are
// introduced; the remaining free variables play that role.
type DiophantineSolution struct {
	X VarID
	P Polynomial
}

// SolveDiophantine implements spec.md §4.1's integer solver: given a linear
// equation (expressed as the single polynomial `a` meaning `a = 0`) all of
// whose variables are declared Int, decide satisfiability over the
// integers and, if satisfiable and non-trivial, return a solved form.
//
// Only called when every variable of `a` is Int-sorted; callers are
// responsible for that precondition (mirroring spec.md's "used only when
// all variables of the equation are declared integer").
func SolveDiophantine(a Polynomial) (DiophantineResult, DiophantineSolution) {
	if a.IsConstant() {
		if a.Const().IsZero() {
			return DiophantineValid, DiophantineSolution{}
		}
		return DiophantineInconsistent, DiophantineSolution{}
	}
	g := big.NewInt(0)
	for _, x := range a.VarIDs() {
		num, den := a.Coeff(x).BigInt()
		if den.Cmp(big.NewInt(1)) != 0 {
			// Non-integer coefficient on a declared-integer variable: the gcd
			// test does not apply, so fall back to an ordinary isolation.
			// MergeEq passes a − b without normalising its coefficients, so
			// any fractional coefficient reaches this path.
			return DiophantineSolved, isolateAny(a)
		}
		g = g.GCD(nil, nil, g, new(big.Int).Abs(num))
	}
	cnum, cden := a.Const().BigInt()
	if g.Sign() == 0 {
		if cnum.Sign() == 0 {
			return DiophantineValid, DiophantineSolution{}
		}
		return DiophantineInconsistent, DiophantineSolution{}
	}
	if cden.Cmp(big.NewInt(1)) == 0 {
		rem := new(big.Int).Mod(cnum, g)
		if rem.Sign() != 0 {
			return DiophantineInconsistent, DiophantineSolution{}
		}
	}
	return DiophantineSolved, isolateAny(a)
}

// isolateAny isolates a's first variable, in variable order, producing an
// ordinary solved form; used as the parameterised solution's shape since
// the remaining free variables of the solved form play the role of the
// "fresh integer parameters" spec.md describes — no new variables need be
// allocated because the original free variables already range over ℤ.
func isolateAny(a Polynomial) DiophantineSolution {
	vars := a.VarIDs()
	sortVarIDs(vars)
	for _, x := range vars {
		if q, ok := a.isolate(x); ok {
			return DiophantineSolution{X: x, P: q}
		}
	}
	return DiophantineSolution{}
}

// GomoryCut implements spec.md §4.3's "Gomory cut": for the integer
// equality `x = c0 + Σ ci·xi` (here passed as the binding polynomial b,
// i.e. b is x's right-hand side), the nonnegativity
// `−def(c0) + Σ frac(ci)·xi ≥ 0` is entailed whenever x is integer-valued,
// since the right-hand side's fractional part must cancel to make the
// whole expression integral.
func GomoryCut(b Polynomial) Polynomial {
	cut := NewPolynomial(b.Const().Deficit().Neg())
	for _, y := range b.VarIDs() {
		fc := b.Coeff(y).Frac()
		if fc.IsZero() {
			continue
		}
		cut = cut.WithVar(y, fc)
	}
	return cut
}
