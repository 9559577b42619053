package lira

import (
	"fmt"
	"sort"
	"strings"
)

// Polynomial is a canonical linear polynomial c0 + Σ ci·xi, ci ∈ ℚ\{0}, xi
// pairwise distinct variables (spec.md §3 "Terms"). Polynomial is immutable;
// every operation returns a new value. The zero monomial coefficient is
// never stored, so Coeff(x) == Zero for any x not mentioned.
type Polynomial struct {
	constant Rational
	terms    map[VarID]Rational
}

// NewPolynomial builds a constant polynomial c0.
func NewPolynomial(c Rational) Polynomial {
	return Polynomial{constant: c, terms: map[VarID]Rational{}}
}

// NewMonomial builds the polynomial c·x (a single monomial, no constant).
func NewMonomial(c Rational, x Var) Polynomial {
	p := NewPolynomial(Zero)
	if !c.IsZero() {
		p.terms[x.ID] = c
	}
	return p
}

// FromVar returns the polynomial "1·x" (a bare variable viewed as a term).
func FromVar(x Var) Polynomial {
	return NewMonomial(One, x)
}

// Const returns |a| = c0, the constant part (spec.md notation).
func (p Polynomial) Const() Rational { return p.constant }

// Coeff returns the coefficient of x in p, or Zero if x does not occur.
func (p Polynomial) Coeff(x VarID) Rational {
	if c, ok := p.terms[x]; ok {
		return c
	}
	return Zero
}

// IsConstant reports whether p has no variable terms.
func (p Polynomial) IsConstant() bool { return len(p.terms) == 0 }

// IsBareVar reports whether p is exactly "1·x" for some x (no constant, one
// unit-coefficient term); spec.md §4.3 forbids right-hand sides in R/T from
// being a bare variable (invariant I2), so this predicate guards that check.
// It returns the variable and true on a match.
func (p Polynomial) IsBareVar() (VarID, bool) {
	if !p.constant.IsZero() || len(p.terms) != 1 {
		return 0, false
	}
	for x, c := range p.terms {
		if c.Equal(One) {
			return x, true
		}
	}
	return 0, false
}

// VarIDs returns the variables occurring in p, in ascending VarID order.
func (p Polynomial) VarIDs() []VarID {
	ids := make([]VarID, 0, len(p.terms))
	for x := range p.terms {
		ids = append(ids, x)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of variable terms (not counting the constant).
func (p Polynomial) Len() int { return len(p.terms) }

// Has reports whether x occurs in p with a non-zero coefficient.
func (p Polynomial) Has(x VarID) bool {
	_, ok := p.terms[x]
	return ok
}

// clone returns a deep copy of p's term map so mutation-in-place helpers
// (add, scale, substitute) never alias a shared map.
func (p Polynomial) clone() Polynomial {
	terms := make(map[VarID]Rational, len(p.terms))
	for k, v := range p.terms {
		terms[k] = v
	}
	return Polynomial{constant: p.constant, terms: terms}
}

// Add returns p + other.
func (p Polynomial) Add(other Polynomial) Polynomial {
	out := p.clone()
	out.constant = out.constant.Add(other.constant)
	for x, c := range other.terms {
		sum := out.Coeff(x).Add(c)
		if sum.IsZero() {
			delete(out.terms, x)
		} else {
			out.terms[x] = sum
		}
	}
	return out
}

// Sub returns p - other.
func (p Polynomial) Sub(other Polynomial) Polynomial {
	return p.Add(other.Scale(FromInt(-1)))
}

// Scale returns c·p.
func (p Polynomial) Scale(c Rational) Polynomial {
	if c.IsZero() {
		return NewPolynomial(Zero)
	}
	out := p.clone()
	out.constant = out.constant.Mul(c)
	for x, coeff := range out.terms {
		out.terms[x] = coeff.Mul(c)
	}
	return out
}

// WithVar returns a copy of p with x's coefficient set to c (c == Zero
// removes the term). Used internally by Isolate/Substitute/pivot.
func (p Polynomial) WithVar(x VarID, c Rational) Polynomial {
	out := p.clone()
	if c.IsZero() {
		delete(out.terms, x)
	} else {
		out.terms[x] = c
	}
	return out
}

// Substitute replaces every occurrence of x with repl (a linear map: the
// substitution distributes over addition/scaling, so repl may itself
// mention other variables, including ones already in p).
func (p Polynomial) Substitute(x VarID, repl Polynomial) Polynomial {
	c, ok := p.terms[x]
	if !ok {
		return p
	}
	without := p.clone()
	delete(without.terms, x)
	return without.Add(repl.Scale(c))
}

// SubstituteAll applies a batch of substitutions, each a single-variable
// linear replacement, fixpoint-free (each variable substituted at most
// once, in map iteration order is irrelevant since replacements are
// variable-disjoint from p's remaining terms in the engine's usage).
func (p Polynomial) SubstituteAll(subs map[VarID]Polynomial) Polynomial {
	out := p
	for x, repl := range subs {
		if out.Has(x) {
			out = out.Substitute(x, repl)
		}
	}
	return out
}

// Positive calls f for each monomial with a strictly positive coefficient
// (a⁺ in spec.md notation), in ascending variable order (needed by sup/inf
// and the pivot rules, which always pick the *least* such variable).
func (p Polynomial) Positive(f func(x VarID, c Rational)) {
	for _, x := range p.VarIDs() {
		if c := p.terms[x]; c.IsPositive() {
			f(x, c)
		}
	}
}

// Negative calls f for each monomial with a strictly negative coefficient
// (a⁻), in ascending variable order.
func (p Polynomial) Negative(f func(x VarID, c Rational)) {
	for _, x := range p.VarIDs() {
		if c := p.terms[x]; c.IsNegative() {
			f(x, c)
		}
	}
}

// LeastPositive returns the smallest-ordered variable (per order) with a
// positive coefficient, and ok=false if a⁺ is empty.
func (p Polynomial) LeastPositive(order *VarStore) (VarID, Rational, bool) {
	return p.least(order, true)
}

// LeastNegative returns the smallest-ordered variable with a negative
// coefficient, and ok=false if a⁻ is empty.
func (p Polynomial) LeastNegative(order *VarStore) (VarID, Rational, bool) {
	return p.least(order, false)
}

func (p Polynomial) least(order *VarStore, positive bool) (VarID, Rational, bool) {
	var best VarID
	var bestCoeff Rational
	found := false
	for x, c := range p.terms {
		if positive != c.IsPositive() {
			continue
		}
		if !found || order.Get(x).Less(order.Get(best)) {
			best, bestCoeff, found = x, c, true
		}
	}
	return best, bestCoeff, found
}

// SolveResult classifies the outcome of Solve.
type SolveResult int

const (
	// SolveValid means the equation a = b holds unconditionally (e.g. 0 = 0).
	SolveValid SolveResult = iota
	// SolveInconsistent means a = b can never hold (a nonzero constant = 0).
	SolveInconsistent
	// SolveSolved means a = b reduces to a solved form x = p, x ∉ vars(p).
	SolveSolved
)

// Solve reduces the equation a = b to a solved form, per spec.md §4.1.
// On SolveSolved, x and p are populated such that x = p is equivalent to
// a = b and x does not occur in p.
func Solve(a, b Polynomial) (SolveResult, VarID, Polynomial) {
	diff := a.Sub(b)
	if diff.IsConstant() {
		if diff.constant.IsZero() {
			return SolveValid, 0, Polynomial{}
		}
		return SolveInconsistent, 0, Polynomial{}
	}
	// Any variable of diff will do: Solve returns the single solved form for
	// the first one, and the caller (Simplex.MergeEq) may re-isolate it for a
	// non-slack variable via resolve (spec.md §4.3 "Call solve to obtain a
	// list of equivalent solved forms"). VarIDs() returns the
	// variables in ascending order, matching spec.md §5's determinism
	// requirement (see simplex_index.go's Keys()/DependentsOf()).
	x := diff.VarIDs()[0]
	p, ok := diff.isolate(x)
	if !ok {
		return SolveInconsistent, 0, Polynomial{}
	}
	return SolveSolved, x, p
}

// Isolate isolates x from the equation a = b, i.e. finds p with x = p,
// x ∉ vars(p), equivalent to a = b. Requires x ∈ vars(a − b) (spec.md
// §4.1); returns ok=false otherwise.
func Isolate(a, b Polynomial, x VarID) (Polynomial, bool) {
	diff := a.Sub(b)
	return diff.isolate(x)
}

// isolate treats the receiver as "... = 0" and solves for x.
func (p Polynomial) isolate(x VarID) (Polynomial, bool) {
	c, ok := p.terms[x]
	if !ok || c.IsZero() {
		return Polynomial{}, false
	}
	rest := p.clone()
	delete(rest.terms, x)
	return rest.Scale(c.Inv().Neg()), true
}

// Equal reports whether p and other are syntactically identical canonical
// forms (same constant, same non-zero coefficients). Used by Facade.Inv to
// match a queried term against existing R/T right-hand sides once both are
// canonicalised the same way.
func (p Polynomial) Equal(other Polynomial) bool {
	if !p.constant.Equal(other.constant) || len(p.terms) != len(other.terms) {
		return false
	}
	for x, c := range p.terms {
		if !other.Coeff(x).Equal(c) {
			return false
		}
	}
	return true
}

// String renders p as "c0 + c1*x1 + c2*x2 + ...", omitting a zero constant
// when there are terms, and rendering unit coefficients without "*1".
func (p Polynomial) String() string {
	var parts []string
	if !p.constant.IsZero() || len(p.terms) == 0 {
		parts = append(parts, p.constant.String())
	}
	for _, x := range p.VarIDs() {
		c := p.terms[x]
		switch {
		case c.Equal(One):
			parts = append(parts, fmt.Sprintf("x%d", x))
		case c.Equal(FromInt(-1)):
			parts = append(parts, fmt.Sprintf("-x%d", x))
		default:
			parts = append(parts, fmt.Sprintf("%s*x%d", c.String(), x))
		}
	}
	return strings.Join(parts, " + ")
}
