package lira

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Facade is the stateful public API of spec.md §4.5/§6: a mutable current
// configuration plus a status flag, offering process/resolve/can/sup/inf/
// find/inv/name over a single, single-threaded engine instance (spec.md
// §5 "Single-threaded, strictly sequential"). cmd/lira's `batch` verb runs
// several independent Facade values concurrently via internal/parallel,
// never sharing one across goroutines.
type Facade struct {
	store     *VarStore
	partition *VarPartition
	simplex   *Simplex
	prop      *Propagator
	status    *StatusEngine
	log       logr.Logger

	names     map[string]VarID
	snapshots map[SnapshotHandle]engineSnapshot
	asserted  []Formula

	// pendingSplits holds Or-formulas submitted to Process that could not
	// be dispatched as a plain conjunction of atomic facts; Resolve()
	// exhausts them via case-split.
	pendingSplits []Formula
}

// NewFacade creates an empty, Sat configuration.
func NewFacade() *Facade {
	store := NewVarStore()
	partition := NewVarPartition(store)
	simplex := NewSimplex(store, partition)
	prop := NewPropagator(store, simplex, partition)
	partition.OnEqual(func(x, y VarID, j Justification) {
		prop.EnqueueEq(FromVar(store.Get(x)), FromVar(store.Get(y)), j)
	})
	return &Facade{
		store:     store,
		partition: partition,
		simplex:   simplex,
		prop:      prop,
		status:    NewStatusEngine(),
		log:       logr.Discard(),
		names:     map[string]VarID{},
		snapshots: map[SnapshotHandle]engineSnapshot{},
	}
}

// WithLogger attaches a structured logger to the facade and the components
// it drives.
func (f *Facade) WithLogger(l logr.Logger) {
	f.log = l
	f.simplex.WithLogger(l)
	f.prop.WithLogger(l)
}

// Status returns the current Sat/Unsat/Unknown flag.
func (f *Facade) Status() Status { return f.status.Status() }

// Core returns the unsat core of the last Unsat, or the empty
// justification otherwise.
func (f *Facade) Core() Justification { return f.status.Core() }

// DeclareVar introduces (or returns the existing) external variable named
// name, with the given sort.
func (f *Facade) DeclareVar(name string, sort Sort) Polynomial {
	if id, ok := f.names[name]; ok {
		return FromVar(f.store.Get(id))
	}
	v := f.store.External(name, sort)
	f.names[name] = v.ID
	return FromVar(v)
}

// Can implements spec.md §6's `can(t) → t'`: a canonical term equal to t,
// with no state change. Deliberately does not call name — see the Open
// Question resolution in DESIGN.md: naming (inserting a fresh anchor into
// R for an otherwise-unnamed term) only happens on the inequality path
// inside Process, not on a bare query.
func (f *Facade) Can(t Polynomial) Polynomial {
	canon := f.simplex.canonicalizeFull(t)
	return f.canonicalizeVars(canon)
}

// canonicalizeVars rewrites every variable of p to its partition
// representative, without touching R/T (Simplex.canonicalizeFull already
// handles R/T substitution; this additionally folds in union-find
// equalities that never became an R/T binding, e.g. two external variables
// merged directly).
func (f *Facade) canonicalizeVars(p Polynomial) Polynomial {
	for {
		changed := false
		for _, x := range p.VarIDs() {
			rx, _ := f.partition.Canon(x)
			if rx != x {
				p = p.Substitute(x, FromVar(f.store.Get(rx)))
				changed = true
			}
		}
		if !changed {
			return p
		}
	}
}

// name gives t a variable handle: if t already is a bare variable, that
// variable; otherwise a fresh rename variable r composed as r ↦ can(t)
// into R. Per the Open Question in spec.md §9, this implementation calls
// name only from the inequality path in Process — see DESIGN.md.
func (f *Facade) name(t Polynomial) VarID {
	canon := f.Can(t)
	if v, ok := canon.IsBareVar(); ok {
		return v
	}
	r := f.store.Rename(SortReal)
	f.simplex.composeR(r.ID, canon)
	return r.ID
}

// Find implements spec.md §6's `find(θ, x) → t`. Only TheoryArithmetic is
// backed by this engine; other tags report not-found since no sibling
// theory is wired in.
func (f *Facade) Find(theory TheoryTag, x VarID) (Polynomial, bool) {
	if theory != TheoryArithmetic {
		return Polynomial{}, false
	}
	rx, _ := f.partition.Canon(x)
	if p, ok := f.simplex.r.Get(rx); ok {
		return p, true
	}
	if p, ok := f.simplex.t.Get(rx); ok {
		return p, true
	}
	return Polynomial{}, false
}

// Inv implements spec.md §6's `inv(t) → x`: the left-hand side of the
// canonical equality whose right-hand side equals t.
func (f *Facade) Inv(t Polynomial) (VarID, bool) {
	canon := f.Can(t)
	for _, x := range f.simplex.r.Keys() {
		p, _ := f.simplex.r.Get(x)
		if p.Equal(canon) {
			return x, true
		}
	}
	for _, x := range f.simplex.t.Keys() {
		p, _ := f.simplex.t.Get(x)
		if p.Equal(canon) {
			return x, true
		}
	}
	return 0, false
}

// Sup implements spec.md §6/§4.3's `sup(t) → q | Unbounded`, converting the
// engine's internal ErrUnbounded to ErrNotFound at this boundary per spec.md
// §7 (see ErrUnbounded's doc comment).
func (f *Facade) Sup(t Polynomial) (Rational, error) {
	q, _, err := f.simplex.sup(f.canonicalizeVars(t))
	if errors.Is(err, ErrUnbounded) {
		return q, ErrNotFound
	}
	return q, err
}

// Inf implements `inf(t) → q | Unbounded`, with the same ErrUnbounded to
// ErrNotFound conversion as Sup.
func (f *Facade) Inf(t Polynomial) (Rational, error) {
	q, _, err := f.simplex.inf(f.canonicalizeVars(t))
	if errors.Is(err, ErrUnbounded) {
		return q, ErrNotFound
	}
	return q, err
}

// Process implements spec.md §4.5's `process(φ) → {Sat, Unsat(core),
// Unknown}`. A conjunction of atomic facts (the overwhelmingly common
// case) dispatches immediately through the propagator; anything
// containing an unresolved Or is parked for Resolve.
func (f *Facade) Process(phi Formula) (Status, error) {
	f.asserted = append(f.asserted, phi)
	if atoms, ok := flatten(phi); ok {
		j := NewJustification(AtomID(len(f.asserted) - 1))
		for _, atom := range atoms {
			f.enqueueAtom(atom, j)
		}
		if err := f.prop.Run(); err != nil {
			if ie, isInconsistent := AsInconsistent(err); isInconsistent {
				f.status.MarkUnsat(ie.Just)
				return f.status.Status(), nil
			}
			return f.status.Status(), err
		}
		if len(f.pendingSplits) == 0 {
			f.status.MarkSat()
		} else {
			f.status.MarkUnknown()
		}
		return f.status.Status(), nil
	}
	f.pendingSplits = append(f.pendingSplits, phi)
	f.status.MarkUnknown()
	return f.status.Status(), nil
}

func (f *Facade) enqueueAtom(atom Formula, j Justification) {
	switch atom.Kind {
	case FormulaEq:
		f.prop.EnqueueEq(atom.A, atom.B, j)
	case FormulaDiseq:
		f.prop.EnqueueDiseq(atom.A, atom.B, j)
	case FormulaNonneg:
		f.name(atom.A) // inequality path: anchor the term so later find/inv can see it.
		f.prop.EnqueueNonneg(atom.A, j)
	}
}

// Resolve implements spec.md §4.5's `resolve() → Sat | Unsat`: exhaustively
// case-split the pending Or-formulas, via speculative save/restore on each
// disjunct (spec.md §5's `protect` primitive, reused from Propagator).
func (f *Facade) Resolve() (Status, error) {
	for len(f.pendingSplits) > 0 {
		phi := f.pendingSplits[0]
		f.pendingSplits = f.pendingSplits[1:]
		sat, err := f.resolveOne(phi)
		if err != nil {
			return f.status.Status(), err
		}
		if !sat {
			f.status.MarkUnsat(EmptyJustification)
			return f.status.Status(), nil
		}
	}
	f.status.MarkSat()
	return f.status.Status(), nil
}

// resolveOne tries phi's disjuncts (or, if phi is not an Or, phi itself as
// a single "branch") each under protect, committing the first consistent
// one.
func (f *Facade) resolveOne(phi Formula) (bool, error) {
	branches := phi.Sub
	if phi.Kind != FormulaOr {
		branches = []Formula{phi}
	}
	for _, branch := range branches {
		ok, err := f.prop.protect(func() error {
			atoms, reducible := flatten(branch)
			if !reducible {
				// Only an Or nested inside a branch is guaranteed to make
				// progress (its Sub list is strictly smaller); anything else
				// is outside this minimal case-split layer's supported
				// shape — the full propositional BDD/case-split driver is an
				// external collaborator per spec.md's scope (§1).
				if branch.Kind != FormulaOr {
					invariantViolation("resolve: unsupported formula shape %v", branch.Kind)
				}
				sat, rerr := f.resolveOne(branch)
				if rerr != nil {
					return rerr
				}
				if !sat {
					return Inconsistent(EmptyJustification)
				}
				return nil
			}
			for _, atom := range atoms {
				f.enqueueAtom(atom, EmptyJustification)
			}
			return f.prop.Run()
		})
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Reset discards all state, including variable handles (spec.md §6 CLI
// `reset` verb) — the one operation permitted to invalidate previously
// observed VarIDs, since it is a deliberate fresh start.
func (f *Facade) Reset() {
	*f = *NewFacade()
}

// Save captures a snapshot and returns its handle (spec.md §5, §9).
func (f *Facade) Save() SnapshotHandle {
	h := newSnapshotHandle()
	r, t := f.simplex.captureSnapshot()
	f.snapshots[h] = engineSnapshot{
		r:         r,
		t:         t,
		partition: f.partition.snapshot(),
		status:    f.status.Status(),
		core:      f.status.Core(),
		varCount:  f.store.Len(),
	}
	return h
}

// Restore rolls back to a previously saved snapshot. Variable handles
// created after Save remain allocated but become unreferenced, per
// spec.md §9's "Variable creation" note.
func (f *Facade) Restore(h SnapshotHandle) (bool, error) {
	snap, ok := f.snapshots[h]
	if !ok {
		return false, ErrNotFound
	}
	f.simplex.applySnapshot(snap.r, snap.t)
	f.partition.restore(snap.partition)
	if snap.status == StatusUnsat {
		f.status.MarkUnsat(snap.core)
	} else {
		f.status.Reset()
	}
	return true, nil
}
