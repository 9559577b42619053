package lira

import (
	"github.com/go-logr/logr"
)

// errUnboundedVar is returned internally by pivot when negdep(y) is empty
// — y is unbounded and cannot be pivoted (spec.md §4.3 "Pivot": "If
// negdep(y) is empty, y is unbounded and pivoting raises an error"). It
// never escapes the package; sup/inf convert it to ErrUnbounded.
var errUnboundedVar = newSentinel("lira: variable is unbounded, cannot pivot")

type sentinelError string

func newSentinel(s string) error { return sentinelError(s) }
func (e sentinelError) Error() string { return string(e) }

// Simplex is the linear arithmetic core of spec.md §4.3: a pair of solution
// sets R (regular, keyed by non-slack variables) and T (tableau, keyed by
// slack variables, every one of whose bindings is feasible: |b| ≥ 0).
type Simplex struct {
	store     *VarStore
	partition *VarPartition
	r         *solutionSet
	t         *solutionSet
	log       logr.Logger

	// newEqualities receives variable equalities discovered by infer() or
	// by the restricted branch collapsing a slack to zero; the Propagator
	// drains this queue to rebroadcast them (spec.md §4.4).
	newEqualities []discoveredEq
	// pendingCuts receives Gomory cut nonnegativities emitted while
	// processing a Diophantine equality; the Propagator enqueues them like
	// any other fact (spec.md §4.3 "Gomory cut").
	pendingCuts []discoveredNonneg
}

type discoveredEq struct {
	x, y VarID
	just Justification
}

type discoveredNonneg struct {
	poly Polynomial
	just Justification
}

// NewSimplex creates an empty, feasible Simplex over store/partition.
func NewSimplex(store *VarStore, partition *VarPartition) *Simplex {
	return &Simplex{
		store:     store,
		partition: partition,
		r:         newSolutionSet(),
		t:         newSolutionSet(),
		log:       logr.Discard(),
	}
}

// WithLogger attaches a structured logger for operational diagnostics.
func (s *Simplex) WithLogger(l logr.Logger) { s.log = l }

// DrainEqualities removes and returns all variable equalities discovered
// since the last drain.
func (s *Simplex) DrainEqualities() []discoveredEq {
	out := s.newEqualities
	s.newEqualities = nil
	return out
}

// DrainCuts removes and returns all Gomory cuts discovered since the last
// drain.
func (s *Simplex) DrainCuts() []discoveredNonneg {
	out := s.pendingCuts
	s.pendingCuts = nil
	return out
}

// canonicalizeFull substitutes p's variables through R then T, to a
// fixpoint. Used for raw client-facing polynomials, which may mention any
// kind of variable.
func (s *Simplex) canonicalizeFull(p Polynomial) Polynomial {
	for {
		changed := false
		for _, x := range p.VarIDs() {
			if repl, ok := s.partitionReplacement(x); ok {
				p = p.Substitute(x, repl)
				changed = true
				continue
			}
			if rhs, ok := s.r.Get(x); ok {
				p = p.Substitute(x, rhs)
				changed = true
				continue
			}
			if rhs, ok := s.t.Get(x); ok {
				p = p.Substitute(x, rhs)
				changed = true
			}
		}
		if !changed {
			return p
		}
	}
}

// canonicalizeSlack substitutes only through T, to a fixpoint. Used for
// polynomials already known to be restricted (all-slack), so as never to
// introduce a non-slack variable into a T right-hand side (invariant I4).
// Consulting the partition first is still safe here: a slack always sorts
// below any non-slack variable (Var.Less), so the canonical representative
// of any class containing a slack is itself always a slack.
func (s *Simplex) canonicalizeSlack(p Polynomial) Polynomial {
	for {
		changed := false
		for _, x := range p.VarIDs() {
			if repl, ok := s.partitionReplacement(x); ok {
				p = p.Substitute(x, repl)
				changed = true
				continue
			}
			if rhs, ok := s.t.Get(x); ok {
				p = p.Substitute(x, rhs)
				changed = true
			}
		}
		if !changed {
			return p
		}
	}
}

// partitionReplacement reports how x should be rewritten per the
// VarPartition, if at all: the zero slack's representative collapses to
// the literal constant 0, any other representative to a bare reference to
// itself. The VarPartition, not R or T, is the source of truth for
// variable-to-variable equality (spec.md §4.2's "V"), so canonicalisation
// consults it before R/T — this is also why neither MergeEq's
// variable-to-variable case nor ProcessNonneg's bare-slack-bound case ever
// writes a bare variable into R (invariant I2): the link lives here
// instead.
func (s *Simplex) partitionReplacement(x VarID) (Polynomial, bool) {
	root, _ := s.partition.Canon(x)
	if root == x {
		return Polynomial{}, false
	}
	if s.store.Get(root).IsZero {
		return NewPolynomial(Zero), true
	}
	return FromVar(s.store.Get(root)), true
}

// substituteAcrossAll replaces every occurrence of x (in the RHS of every
// binding of both R and T) with p, keeping the two solution sets in the
// mutually-substituted normal form spec.md §3's invariants require.
func (s *Simplex) substituteAcrossAll(x VarID, p Polynomial) {
	for _, d := range s.r.DependentsOf(x) {
		old, _ := s.r.Get(d)
		s.r.set(d, old.Substitute(x, p))
	}
	for _, d := range s.t.DependentsOf(x) {
		old, _ := s.t.Get(d)
		s.t.set(d, old.Substitute(x, p))
	}
}

// mergeIntoPartition unifies a and b's classes via the VarPartition (spec.md
// §4.3's "merge into V" bullet, fired whenever an equation reduces to two
// bare variables on either side), then eliminates whichever of the two the
// partition absorbed from every existing R/T binding, exactly as
// composeR/composeT eliminate a variable being bound — but, unlike them,
// never records a bare-variable right-hand side for the pair itself
// (invariant I2): once merged, the VarPartition is the only place that
// link is recorded, and canonicalizeFull/canonicalizeSlack consult it via
// partitionReplacement before ever checking R or T.
func (s *Simplex) mergeIntoPartition(a, b VarID, j Justification) error {
	changed, err := s.partition.Merge(a, b, j)
	if err != nil || !changed {
		return err
	}
	root, _ := s.partition.Canon(a)
	absorbed := a
	if root == a {
		absorbed = b
	}
	s.r.remove(absorbed)
	s.t.remove(absorbed)
	s.substituteAcrossAll(absorbed, FromVar(s.store.Get(root)))
	return nil
}

// composeR installs x ↦ p into R (x non-slack), first eliminating x from
// every other binding.
func (s *Simplex) composeR(x VarID, p Polynomial) {
	if bx, isVar := p.IsBareVar(); isVar && bx == x {
		return // x = x: nothing to record
	}
	s.r.remove(x)
	s.t.remove(x)
	s.substituteAcrossAll(x, p)
	s.r.set(x, p)
}

// composeT installs k ↦ p into T (k slack, p restricted), first eliminating
// k from every other binding.
func (s *Simplex) composeT(k VarID, p Polynomial) {
	if bx, isVar := p.IsBareVar(); isVar && bx == k {
		return
	}
	s.r.remove(k)
	s.t.remove(k)
	s.substituteAcrossAll(k, p)
	s.t.set(k, p)
}

// negDep returns the T left-hand sides k such that k ↦ b ∈ T and y occurs
// in b⁻ (spec.md §3 "neg-dep index").
func (s *Simplex) negDep(y VarID) []VarID {
	var out []VarID
	for _, k := range s.t.DependentsOf(y) {
		b, _ := s.t.Get(k)
		if b.Coeff(y).IsNegative() {
			out = append(out, k)
		}
	}
	return out
}

// pivot pivots on y: finds the binding k ↦ a ∈ T minimizing gain(y, k) =
// |a| / (−coeff(y,a)) over k ∈ negdep(y), tie-broken by variable order on
// k, isolates y in that binding, and composes the result into T (spec.md
// §4.3 "Pivot"). Returns errUnboundedVar if negdep(y) is empty.
func (s *Simplex) pivot(y VarID) error {
	candidates := s.negDep(y)
	if len(candidates) == 0 {
		return errUnboundedVar
	}
	var bestK VarID
	var bestGain Rational
	found := false
	for _, k := range candidates {
		b, _ := s.t.Get(k)
		gain := b.Const().Div(b.Coeff(y).Neg())
		if !found || gain.Less(bestGain) || (gain.Equal(bestGain) && s.store.Get(k).Less(s.store.Get(bestK))) {
			bestK, bestGain, found = k, gain, true
		}
	}
	b, _ := s.t.Get(bestK)
	q, ok := Isolate(FromVar(s.store.Get(bestK)), b, y)
	if !ok {
		invariantViolation("pivot: %v does not occur in binding for %v", y, bestK)
	}
	s.t.remove(bestK)
	s.substituteAcrossAll(y, q)
	s.t.set(y, q)
	s.log.V(2).Info("pivot", "out", s.store.Get(bestK).String(), "in", s.store.Get(y).String())
	return nil
}

// addToT implements spec.md §4.3 "add_to_t(k = a)". Precondition: k is
// slack, a is restricted (all-slack).
func (s *Simplex) addToT(k VarID, a Polynomial, j Justification) error {
	a = s.canonicalizeSlack(a)
	if a.Const().Sign() >= 0 {
		s.composeT(k, a)
		return nil
	}
	positiveEmpty := true
	a.Positive(func(VarID, Rational) { positiveEmpty = false })
	if positiveEmpty {
		return Inconsistent(j)
	}
	if y, q, ok := s.isolateUnboundedPositive(k, a); ok {
		if s.store.Get(k).IsZero {
			q = s.substituteZeroSlack(q, k)
		}
		s.composeT(y, q)
		return nil
	}
	x, _, ok := a.LeastPositive(s.store)
	if !ok {
		return Inconsistent(j)
	}
	// Pivot the least positive variable of a using the generic tableau
	// pivot (it is a T variable, since a is restricted), then retry with a
	// recomputed by substituting the updated R ∪ T back into a, mirroring
	// spec.md's "retry after substituting the new R ∪ T back into a".
	if err := s.pivot(x); err != nil {
		return err
	}
	a2 := s.canonicalizeSlack(a)
	return s.addToT(k, a2, j)
}

// isolateUnboundedPositive looks for y ∈ a⁺ that is unbounded (no negative
// occurrence of y anywhere else in T) so that it can absorb k without
// pivoting, per spec.md §4.3's add_to_t third bullet. The isolation solves
// for y in the equation k = a, not in a alone.
func (s *Simplex) isolateUnboundedPositive(k VarID, a Polynomial) (VarID, Polynomial, bool) {
	var out VarID
	var outPoly Polynomial
	ok := false
	a.Positive(func(y VarID, _ Rational) {
		if ok {
			return
		}
		if len(s.negDep(y)) == 0 {
			q, isolated := Isolate(FromVar(s.store.Get(k)), a, y)
			if isolated {
				out, outPoly, ok = y, q, true
			}
		}
	})
	return out, outPoly, ok
}

// substituteZeroSlack replaces k (known to be the distinguished zero slack)
// with the constant 0 wherever it occurs in q, per spec.md's "substituting
// 0 for k if k is the zero slack".
func (s *Simplex) substituteZeroSlack(q Polynomial, k VarID) Polynomial {
	return q.Substitute(k, NewPolynomial(Zero))
}

// allVarsInt reports whether every variable of p is declared Int, the
// precondition SolveDiophantine documents for itself.
func (s *Simplex) allVarsInt(p Polynomial) bool {
	for _, x := range p.VarIDs() {
		if s.store.Get(x).Sort != SortInt {
			return false
		}
	}
	return true
}

// MergeEq processes an arithmetic equality a = b under justification j,
// spec.md §4.3 "merge(e)".
func (s *Simplex) MergeEq(a, b Polynomial, j Justification) error {
	a = s.canonicalizeFull(a)
	b = s.canonicalizeFull(b)

	// spec.md §4.1's integer solver catches some infeasibilities no rational
	// isolate ever would, e.g. 2x+4y=1 over declared-integer x,y: gcd(2,4)
	// never divides 1, so no integer assignment exists, but an ordinary
	// Solve would happily isolate x = (1-4y)/2 and let it flow into R/T as
	// if satisfiable, leaving the contradiction to surface later (if at
	// all) only through a chain of Gomory cuts.
	if diff := a.Sub(b); s.allVarsInt(diff) {
		if res, _ := SolveDiophantine(diff); res == DiophantineInconsistent {
			return Inconsistent(j)
		}
	}

	res, x, p := Solve(a, b)
	switch res {
	case SolveValid:
		return nil
	case SolveInconsistent:
		return Inconsistent(j)
	}

	origBareVar, origIsBareVar := func() (VarID, bool) {
		// "the right-hand side was a bare non-slack variable" refers to the
		// solved form *before* resolution, i.e. p itself.
		v, ok := p.IsBareVar()
		return v, ok && !s.store.Get(v).IsSlack()
	}()

	rx, rp := s.resolve(x, p)

	switch {
	case origIsBareVar:
		// Both sides are variables (x = y, neither a slack): per spec.md
		// §4.3's "merge into V" bullet, this belongs in the shared
		// VarPartition, not in R — writing a bare variable into R as a
		// right-hand side would violate invariant I2 ("No right-hand side is
		// a variable").
		return s.mergeIntoPartition(VarID(rx), origBareVar, j)
	case !s.store.Get(rx).IsSlack():
		s.composeR(rx, s.canonicalizeFull(rp))
		return nil
	default:
		return s.restrictedBranch(rx, rp, j)
	}
}

// resolve implements spec.md §4.3's "resolve" step: if x is non-slack,
// return it unchanged; otherwise, if p contains a non-slack variable y,
// isolate for y instead.
func (s *Simplex) resolve(x VarID, p Polynomial) (VarID, Polynomial) {
	if !s.store.Get(x).IsSlack() {
		return x, p
	}
	for _, y := range p.VarIDs() {
		if !s.store.Get(y).IsSlack() {
			q, ok := Isolate(FromVar(s.store.Get(x)), p, y)
			if ok {
				return y, q
			}
		}
	}
	return x, p
}

// restrictedBranch implements spec.md §4.3's "Restricted branch": both
// sides of the resolved equation are restricted (slack-only).
func (s *Simplex) restrictedBranch(x VarID, a Polynomial, j Justification) error {
	// d = b - a oriented so |d| <= 0; here "b" is the bare variable x and
	// "a" is its resolved binding.
	d := FromVar(s.store.Get(x)).Sub(a)
	if d.Const().Sign() > 0 {
		d = d.Scale(FromInt(-1))
	}
	slackSort := SortInt
	for _, y := range d.VarIDs() {
		if s.store.Get(y).Sort != SortInt {
			slackSort = SortReal
		}
	}
	k := s.store.Slack(slackSort)
	if err := s.addToT(k.ID, d, j); err != nil {
		return err
	}
	if fixed, err := s.infer(); err != nil {
		return err
	} else {
		s.newEqualities = append(s.newEqualities, fixed...)
	}
	s.maybeEmitGomory(k.ID, j)

	aPrime, ok := s.t.Get(k.ID)
	if !ok {
		aPrime = s.canonicalizeSlack(d)
	}
	switch {
	case aPrime.Const().IsNegative():
		return Inconsistent(j)
	case aPrime.Const().IsZero():
		if v, q, isolated := func() (VarID, Polynomial, bool) {
			for _, y := range aPrime.VarIDs() {
				if q, ok := aPrime.isolate(y); ok {
					return y, q, true
				}
			}
			return 0, Polynomial{}, false
		}(); isolated {
			s.composeT(v, q)
		}
		s.composeT(k.ID, NewPolynomial(Zero))
		return nil
	default:
		empty := true
		aPrime.Negative(func(VarID, Rational) { empty = false })
		if empty {
			return Inconsistent(j)
		}
		// Find y ∈ a′⁻ such that k's row is (tied for) the minimum-gain row
		// among negdep(y); pivoting on such y is guaranteed to eliminate
		// k's row, per spec.md's "whose current gain in T is ≥ the gain of
		// y in k = a′".
		var chosen VarID
		haveChosen := false
		aPrime.Negative(func(y VarID, _ Rational) {
			if haveChosen {
				return
			}
			yGain := s.gainOfIn(y, k.ID, aPrime)
			minOthers, any := Rational{}, false
			for _, other := range s.negDep(y) {
				if other == k.ID {
					continue
				}
				ob, _ := s.t.Get(other)
				g := s.gainOfIn(y, other, ob)
				if !any || g.Less(minOthers) {
					minOthers, any = g, true
				}
			}
			if !any || !minOthers.Less(yGain) {
				chosen, haveChosen = y, true
			}
		})
		if haveChosen {
			if err := s.pivot(chosen); err != nil {
				return err
			}
			s.composeT(k.ID, NewPolynomial(Zero))
			return nil
		}
		least, _, ok := aPrime.LeastNegative(s.store)
		if !ok {
			return Inconsistent(j)
		}
		if err := s.pivot(least); err != nil {
			return err
		}
		next, _ := s.t.Get(k.ID)
		return s.restrictedBranchContinue(k.ID, next, j)
	}
}

// restrictedBranchContinue re-enters the a′ > 0 analysis after a pivot,
// without re-running add_to_t (spec.md's "recurse with the updated
// right-hand side").
func (s *Simplex) restrictedBranchContinue(k VarID, aPrime Polynomial, j Justification) error {
	switch {
	case aPrime.Const().IsNegative():
		return Inconsistent(j)
	case aPrime.Const().IsZero():
		s.composeT(k, NewPolynomial(Zero))
		return nil
	default:
		empty := true
		aPrime.Negative(func(VarID, Rational) { empty = false })
		if empty {
			return Inconsistent(j)
		}
		least, _, ok := aPrime.LeastNegative(s.store)
		if !ok {
			return Inconsistent(j)
		}
		if err := s.pivot(least); err != nil {
			return err
		}
		next, _ := s.t.Get(k)
		return s.restrictedBranchContinue(k, next, j)
	}
}

// gainOfIn computes gain(y, k=b) = |b| / (−coeff(y,b)).
func (s *Simplex) gainOfIn(y, _ VarID, b Polynomial) Rational {
	return b.Const().Div(b.Coeff(y).Neg())
}

// ProcessNonneg implements spec.md §4.3 "process_nonneg(a ≥ 0, ρ)".
func (s *Simplex) ProcessNonneg(a Polynomial, j Justification) error {
	a = s.canonicalizeFull(a)
	if a.IsConstant() {
		if a.Const().Sign() < 0 {
			return Inconsistent(j)
		}
		return nil
	}
	slackSort := SortInt
	hasNonSlack := false
	for _, y := range a.VarIDs() {
		v := s.store.Get(y)
		if !v.IsSlack() {
			hasNonSlack = true
		}
		if v.Sort != SortInt {
			slackSort = SortReal
		}
	}
	k := s.store.Slack(slackSort)
	if hasNonSlack {
		for _, y := range a.VarIDs() {
			if !s.store.Get(y).IsSlack() {
				q, ok := Isolate(FromVar(k), a, y)
				if ok {
					if bv, isVar := q.IsBareVar(); isVar {
						// y = bv: both sides are variables, so this belongs
						// in the shared VarPartition per spec.md §4.3's
						// "merge into V" bullet (the same case MergeEq
						// handles for x = y), not as a bare-variable
						// right-hand side in R (invariant I2).
						return s.mergeIntoPartition(y, bv, j)
					}
					s.composeR(y, q)
					return nil
				}
			}
		}
	}
	if y, q, ok := s.isolateUnboundedPositive(k.ID, s.canonicalizeSlack(a)); ok {
		s.composeT(y, q)
		return nil
	}
	if err := s.addToT(k.ID, a, j); err != nil {
		return err
	}
	fixed, err := s.infer()
	if err != nil {
		return err
	}
	s.newEqualities = append(s.newEqualities, fixed...)
	s.maybeEmitGomory(k.ID, j)
	return nil
}

// infer implements spec.md §4.3's zero-analysis fixpoint. A slack binding
// k ↦ a with a's constant zero and every coefficient in a nonnegative
// forces every variable occurring in a to equal zero too, since a is a sum
// of nonnegative terms that sums to zero; the discovery is iterated to a
// fixpoint because zeroing one variable can expose another row as
// all-nonnegative. Discovered equalities (x = the zero slack) are both
// composed back into R/T immediately, so later canonicalisation sees them,
// and returned for the propagator to rebroadcast to sibling theories.
func (s *Simplex) infer() ([]discoveredEq, error) {
	zero := s.store.ZeroSlack()
	isZero := map[VarID]bool{zero.ID: true}
	var out []discoveredEq
	for {
		changed := false
		for _, k := range s.t.Keys() {
			if isZero[k] {
				continue
			}
			b, ok := s.t.Get(k)
			if !ok || !b.Const().IsZero() {
				continue
			}
			allNonneg := true
			b.Negative(func(VarID, Rational) { allNonneg = false })
			if !allNonneg {
				continue
			}
			allKnownZero := true
			b.Positive(func(y VarID, _ Rational) {
				if !isZero[y] {
					allKnownZero = false
				}
			})
			if allKnownZero {
				isZero[k] = true
				changed = true
				continue
			}
			b.Positive(func(y VarID, _ Rational) {
				if !isZero[y] {
					isZero[y] = true
					changed = true
				}
			})
			isZero[k] = true
		}
		if !changed {
			break
		}
	}
	delete(isZero, zero.ID)
	ids := make([]VarID, 0, len(isZero))
	for y := range isZero {
		ids = append(ids, y)
	}
	sortVarIDs(ids)
	for _, y := range ids {
		j := EmptyJustification
		if ok, err := s.partition.Merge(zero.ID, y, j); err != nil {
			return nil, err
		} else if ok {
			s.composeT(y, NewPolynomial(Zero))
			out = append(out, discoveredEq{x: y, y: zero.ID, just: j})
		}
	}
	return out, nil
}

// maybeEmitGomory implements spec.md §4.3's Gomory cut for integer slacks:
// if k's sort is Int but its current T binding has a fractional constant
// or a fractional coefficient over an Int variable, the fractional cut
// −def(const) + sum(frac(coeff_i) · x_i) ≥ 0 built by GomoryCut is a sound
// nonnegativity consequence that, once asserted, tightens the relaxation
// towards an integral solution. Non-integer-sorted rows, and rows whose
// non-constant part is already all-integer, emit nothing.
func (s *Simplex) maybeEmitGomory(k VarID, j Justification) {
	if s.store.Get(k).Sort != SortInt {
		return
	}
	b, ok := s.t.Get(k)
	if !ok {
		return
	}
	fractional := !b.Const().IsInteger()
	for _, y := range b.VarIDs() {
		if s.store.Get(y).Sort != SortInt {
			return
		}
		if !b.Coeff(y).IsInteger() {
			fractional = true
		}
	}
	if !fractional {
		return
	}
	cut := GomoryCut(b)
	if cut.IsConstant() {
		return
	}
	s.pendingCuts = append(s.pendingCuts, discoveredNonneg{poly: cut, just: j})
}

// sup implements spec.md §4.3's maximization query: drive a's value upward
// by repeatedly pivoting on a's least positive-coefficient variable, until
// no positive-coefficient term remains (a is at its supremum, or
// ErrUnbounded if a non-slack variable is still present) or a pivot target
// is unbounded (ErrUnbounded). a need not be restricted; it is
// canonicalised first.
func (s *Simplex) sup(a Polynomial) (Rational, Justification, error) {
	a = s.canonicalizeFull(a)
	for {
		a = s.canonicalizeFull(a)
		y, _, ok := a.LeastPositive(s.store)
		if !ok {
			// No positive-coefficient term is left to grow a further. If a
			// non-slack (unrestricted) variable still occurs, it can only be
			// here with a negative coefficient (LeastPositive would have
			// caught it otherwise) and, being unrestricted, may shrink
			// without bound — spec.md §4.3's "unrestricted part ... ->
			// Unbounded".
			for _, v := range a.VarIDs() {
				if !s.store.Get(v).IsSlack() {
					return Rational{}, EmptyJustification, ErrUnbounded
				}
			}
			return a.Const(), EmptyJustification, nil
		}
		if err := s.pivot(y); err != nil {
			if err == errUnboundedVar {
				return Rational{}, EmptyJustification, ErrUnbounded
			}
			return Rational{}, EmptyJustification, err
		}
	}
}

// inf implements spec.md §4.3's minimization query as sup(-a) negated.
func (s *Simplex) inf(a Polynomial) (Rational, Justification, error) {
	v, j, err := s.sup(a.Scale(FromInt(-1)))
	if err != nil {
		return Rational{}, EmptyJustification, err
	}
	return v.Neg(), j, nil
}
