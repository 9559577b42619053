package lira

import "github.com/go-logr/logr"

// factKind classifies a queued Propagator fact (spec.md §3 "Facts").
type factKind int

const (
	factEq factKind = iota
	factDiseq
	factNonneg
)

// fact is one item of the Propagator's work queue.
type fact struct {
	kind factKind
	a, b Polynomial
	just Justification
}

// Propagator is the work queue and dispatch loop of spec.md §4.4: it
// drains pending facts, routes arithmetic equalities/nonnegativities to
// the Simplex and plain variable disequalities to the VarPartition, and
// requeues whatever either produces (new variable equalities from
// Simplex.infer, new disequalities from integer contiguous-segment
// splitting) until the queue is empty or an *InconsistentError escapes.
type Propagator struct {
	store     *VarStore
	simplex   *Simplex
	partition *VarPartition
	log       logr.Logger

	queue []fact

	// excluded records, per Int-sorted variable, the integer values
	// currently known excluded by a disequality, for the contiguous-segment
	// search of spec.md §4.4. Keyed by the decimal string of the excluded
	// value so that values are not bounded by machine-word size. Also
	// consulted by checkExcludedViolations after every later equality, so a
	// disequality asserted earlier still rejects a contradicting equality
	// asserted afterward in the same run.
	excluded map[VarID]map[string]Justification

	// pendingDiseqs holds disequalities that reduced to neither a
	// variable-pair nor a Diophantine case — "kept as a non-diophantine
	// fact on the partition" per spec.md §4.4's fallback clause. They are
	// inert here: nothing in this engine re-derives a contradiction from
	// them later, matching the Non-goal "incremental retraction" stance —
	// once kept, a non-diophantine disequality is simply remembered.
	pendingDiseqs []fact

	// disabled counts nested WithDisabledStacks scopes. While > 0, facts
	// produced by dispatch are still processed immediately (so the
	// speculative branch sees its own consequences) but are not left
	// observable to the caller that entered the scope if it rolls back —
	// enforced by the snapshot that protect and trial take around the scope
	// (R/T, the partition, and the lengths of the queue, pendingDiseqs and
	// the Simplex's discovery queues; excluded is not part of it), not by
	// this counter directly. The counter exists
	// so nested calls compose (only the outermost scope's snapshot matters).
	disabled int
}

// NewPropagator creates an empty propagator over the given engine state.
func NewPropagator(store *VarStore, simplex *Simplex, partition *VarPartition) *Propagator {
	return &Propagator{
		store:     store,
		simplex:   simplex,
		partition: partition,
		log:       logr.Discard(),
		excluded:  map[VarID]map[string]Justification{},
	}
}

// WithLogger attaches a structured logger.
func (p *Propagator) WithLogger(l logr.Logger) { p.log = l }

// EnqueueEq queues an arithmetic equality `a = b`.
func (p *Propagator) EnqueueEq(a, b Polynomial, j Justification) {
	p.queue = append(p.queue, fact{kind: factEq, a: a, b: b, just: j})
}

// EnqueueDiseq queues an arithmetic disequality `a ≠ b`.
func (p *Propagator) EnqueueDiseq(a, b Polynomial, j Justification) {
	p.queue = append(p.queue, fact{kind: factDiseq, a: a, b: b, just: j})
}

// EnqueueNonneg queues `a ≥ 0`.
func (p *Propagator) EnqueueNonneg(a Polynomial, j Justification) {
	p.queue = append(p.queue, fact{kind: factNonneg, a: a, just: j})
}

// Run drains the queue to empty (spec.md §4.4 "Run to empty queue or to
// Inconsistent"), requeuing every fact discovered by Simplex along the
// way. Facts are drained in FIFO order, and each dispatch's discoveries
// are appended (not prepended), which together with the deterministic
// iteration orders inside Simplex satisfies spec.md §5's determinism
// requirement.
func (p *Propagator) Run() error {
	for len(p.queue) > 0 {
		f := p.queue[0]
		p.queue = p.queue[1:]
		if err := p.dispatch(f); err != nil {
			return err
		}
		p.drainSimplexDiscoveries()
	}
	return nil
}

func (p *Propagator) dispatch(f fact) error {
	switch f.kind {
	case factEq:
		p.log.V(1).Info("dispatch eq", "a", f.a.String(), "b", f.b.String())
		if err := p.simplex.MergeEq(f.a, f.b, f.just); err != nil {
			return err
		}
		return p.checkExcludedViolations(f.just)
	case factNonneg:
		p.log.V(1).Info("dispatch nonneg", "a", f.a.String())
		return p.simplex.ProcessNonneg(f.a, f.just)
	case factDiseq:
		p.log.V(1).Info("dispatch diseq", "a", f.a.String(), "b", f.b.String())
		return p.dispatchDiseq(f)
	default:
		invariantViolation("propagator: unknown fact kind %d", f.kind)
		return nil
	}
}

// drainSimplexDiscoveries requeues equalities/cuts the Simplex produced as
// a side effect of the fact just dispatched.
func (p *Propagator) drainSimplexDiscoveries() {
	for _, eq := range p.simplex.DrainEqualities() {
		p.EnqueueEq(FromVar(p.store.Get(eq.x)), FromVar(p.store.Get(eq.y)), eq.just)
	}
	for _, cut := range p.simplex.DrainCuts() {
		p.EnqueueNonneg(cut.poly, cut.just)
	}
}

// checkExcludedViolations re-checks every Int variable with a recorded
// excluded value against the just-updated solution: an equality just merged
// may pin one of them to a value a disequality already ruled out, which is
// exactly as Inconsistent as asserting the equality and disequality in the
// other order. excluded only ever records values for this run's lifetime
// (no retraction), so this check only ever tightens, never loosens.
func (p *Propagator) checkExcludedViolations(j Justification) error {
	for x, vals := range p.excluded {
		canon := p.simplex.canonicalizeFull(FromVar(p.store.Get(x)))
		if !canon.IsConstant() {
			continue
		}
		if xj, ok := vals[canon.Const().String()]; ok {
			return Inconsistent(j.Union(xj))
		}
	}
	return nil
}

// dispatchDiseq implements spec.md §4.4's routing for a disequality: reduce
// algebraically exactly as merge(e) would, then decide whether the result
// is a variable pair (partition-level), a Diophantine case (integer
// variable vs. integer constant, triggering the contiguous-segment
// search), or neither (kept inert).
func (p *Propagator) dispatchDiseq(f fact) error {
	a := p.simplex.canonicalizeFull(f.a)
	b := p.simplex.canonicalizeFull(f.b)
	res, x, q := Solve(a, b)
	switch res {
	case SolveValid:
		return Inconsistent(f.just)
	case SolveInconsistent:
		return nil
	}
	rx, rq := p.simplex.resolve(x, q)
	if !p.store.Get(rx).IsSlack() {
		if bv, ok := rq.IsBareVar(); ok {
			canonX, jx := p.partition.Canon(rx)
			canonY, jy := p.partition.Canon(bv)
			return p.partition.Dismerge(canonX, canonY, f.just.Union(jx).Union(jy))
		}
	}
	if rq.IsConstant() && p.store.Get(rx).Sort == SortInt && rq.Const().IsInteger() {
		return p.splitDiophantineDiseq(rx, rq.Const(), f.just)
	}
	p.pendingDiseqs = append(p.pendingDiseqs, fact{kind: factDiseq, a: FromVar(p.store.Get(rx)), b: rq, just: f.just})
	return nil
}

// splitDiophantineDiseq implements spec.md §4.4's "Diophantine
// disequality" contiguous-segment search for `x ≠ n`, x Int-sorted.
func (p *Propagator) splitDiophantineDiseq(x VarID, n Rational, j Justification) error {
	if p.excluded[x] == nil {
		p.excluded[x] = map[string]Justification{}
	}
	key := n.String()
	if _, ok := p.excluded[x][key]; ok {
		return nil // already known excluded, nothing new to learn
	}
	p.excluded[x][key] = j

	lo, hi := n, n
	just := j
	for {
		prev := lo.Sub(FromInt(1))
		pj, ok := p.excluded[x][prev.String()]
		if !ok {
			break
		}
		lo, just = prev, just.Union(pj)
	}
	for {
		next := hi.Add(FromInt(1))
		nj, ok := p.excluded[x][next.String()]
		if !ok {
			break
		}
		hi, just = next, just.Union(nj)
	}

	xPoly := FromVar(p.store.Get(x))
	lowerBoundPoly := NewPolynomial(lo.Sub(FromInt(1))).Sub(xPoly) // (lo−1) − x ≥ 0  ⇔  e ≤ lo−1
	upperBoundPoly := xPoly.Sub(NewPolynomial(hi.Add(FromInt(1)))) // x − (hi+1) ≥ 0  ⇔  e ≥ hi+1

	lowerOK, lowerErr := p.trial(func() error {
		return p.simplex.ProcessNonneg(lowerBoundPoly, just)
	})
	if lowerErr != nil {
		return lowerErr
	}
	upperOK, upperErr := p.trial(func() error {
		return p.simplex.ProcessNonneg(upperBoundPoly, just)
	})
	if upperErr != nil {
		return upperErr
	}

	switch {
	case !lowerOK && !upperOK:
		return Inconsistent(just)
	case !lowerOK:
		// exactly the upper branch is consistent: commit it for real.
		return p.simplex.ProcessNonneg(upperBoundPoly, just)
	case !upperOK:
		// exactly the lower branch is consistent: commit it for real.
		return p.simplex.ProcessNonneg(lowerBoundPoly, just)
	default:
		// Neither branch is inconsistent: keep only the disequality.
		return nil
	}
}

// propagatorSnapshot is a point-in-time capture of every mutable structure a
// speculative branch can touch, so it can be undone without disturbing
// anything committed before the branch started.
type propagatorSnapshot struct {
	r, t       solutionSetSnapshot
	partition  partitionSnapshot
	queueLen   int
	pendingLen int
	eqLen      int
	cutLen     int
}

func (p *Propagator) snapshotState() propagatorSnapshot {
	rSnap, tSnap := p.simplex.captureSnapshot()
	return propagatorSnapshot{
		r:          rSnap,
		t:          tSnap,
		partition:  p.partition.snapshot(),
		queueLen:   len(p.queue),
		pendingLen: len(p.pendingDiseqs),
		eqLen:      len(p.simplex.newEqualities),
		cutLen:     len(p.simplex.pendingCuts),
	}
}

// rollbackTo undoes everything a branch may have done since s was taken.
// fn may have pushed discoveries onto the Simplex's own queues before
// raising Inconsistent; those belong to the rolled-back branch and must not
// leak into the next drainSimplexDiscoveries call.
func (p *Propagator) rollbackTo(s propagatorSnapshot) {
	p.simplex.applySnapshot(s.r, s.t)
	p.partition.restore(s.partition)
	p.queue = p.queue[:s.queueLen]
	p.pendingDiseqs = p.pendingDiseqs[:s.pendingLen]
	p.simplex.newEqualities = p.simplex.newEqualities[:s.eqLen]
	p.simplex.pendingCuts = p.simplex.pendingCuts[:s.cutLen]
}

// protect runs fn against a snapshot of all mutable engine state (spec.md §5
// "the save/restore pair ... must be released on all exit paths including
// the Inconsistent error path"). Returns (true, nil) if fn completed without
// contradiction (state is kept committed), (false, nil) if fn raised
// Inconsistent (state was rolled back), or (_, err) for any other error.
// Used by case-split resolution, which wants to commit the first branch that
// works.
func (p *Propagator) protect(fn func() error) (bool, error) {
	p.disabled++
	snap := p.snapshotState()
	err := fn()
	p.disabled--

	if err == nil {
		return true, nil
	}
	if _, ok := AsInconsistent(err); ok {
		p.rollbackTo(snap)
		return false, nil
	}
	return false, err
}

// trial runs fn against a snapshot and always rolls the state back
// afterward, regardless of outcome — unlike protect, the caller decides
// separately whether to re-apply fn's effect for real. Used by the
// contiguous-segment search, which must try both candidate bounds
// speculatively before committing at most one of them.
func (p *Propagator) trial(fn func() error) (bool, error) {
	p.disabled++
	snap := p.snapshotState()
	err := fn()
	p.disabled--
	p.rollbackTo(snap)

	if err == nil {
		return true, nil
	}
	if _, ok := AsInconsistent(err); ok {
		return false, nil
	}
	return false, err
}
