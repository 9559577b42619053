package lira

// edge records why two variables were merged, for path compaction to
// rebuild a justification when canon() is asked to explain x's
// representative.
type edge struct {
	to   VarID
	just Justification
}

// VarPartition is a union–find over variables with per-edge justifications
// and a disequality set (spec.md §4.2 "V" and "D", combined here since D is
// only ever consulted in terms of partition-canonical representatives).
//
// Canonicalisation compacts paths only lazily, during query (canon), per
// spec.md §4.2 — merge/dismerge never eagerly flattens chains, keeping the
// edge justifications intact for unsat-core reconstruction.
type VarPartition struct {
	store   *VarStore
	parent  map[VarID]edge // absent entry means the variable is its own root
	diseq   *DiseqSet
	onEqual func(x, y VarID, j Justification) // broadcast hook, set by the Propagator
}

// NewVarPartition creates an empty partition over store's variables.
func NewVarPartition(store *VarStore) *VarPartition {
	return &VarPartition{
		store:  store,
		parent: map[VarID]edge{},
		diseq:  NewDiseqSet(),
	}
}

// OnEqual registers a callback invoked whenever merge() unifies two
// previously-distinct classes, used by the Propagator to rebroadcast newly
// entailed equalities to sibling theories (spec.md §4.4).
func (v *VarPartition) OnEqual(f func(x, y VarID, j Justification)) {
	v.onEqual = f
}

// root finds x's ultimate ancestor without path compaction, accumulating
// the justification along the way.
func (v *VarPartition) root(x VarID) (VarID, Justification) {
	j := EmptyJustification
	for {
		e, ok := v.parent[x]
		if !ok {
			return x, j
		}
		j = j.Union(e.just)
		x = e.to
	}
}

// Canon returns x's canonical representative and the justification for
// x = representative, compacting the path from x to the root so that
// subsequent lookups are O(1) (spec.md §4.2 "canon(x) → (x′, ρ)").
func (v *VarPartition) Canon(x VarID) (VarID, Justification) {
	root, j := v.root(x)
	if root != x {
		v.parent[x] = edge{to: root, just: j}
	}
	return root, j
}

// order returns a and b as (small, large) under Var.Less; Merge makes the
// smaller one the root, as required by spec.md §4.2's "Ordering rule for
// union".
func (v *VarPartition) order(a, b VarID) (small, large VarID) {
	if v.store.Get(a).Less(v.store.Get(b)) {
		return a, b
	}
	return b, a
}

// Merge unifies x and y's classes under justification j. It fails with
// *InconsistentError if x and y are currently known disequal. The smaller
// representative (spec.md's variable order) becomes the new root; the
// merged class's Sort is the intersection of the two Sorts (Real ∩ Int =
// Int), applied to the surviving root via VarStore.SetSort.
//
// Returns true if this merge actually unified two previously distinct
// classes (false if x and y were already equal), which the Propagator uses
// to decide whether to rebroadcast.
func (v *VarPartition) Merge(x, y VarID, j Justification) (bool, error) {
	rx, jx := v.Canon(x)
	ry, jy := v.Canon(y)
	if rx == ry {
		return false, nil
	}
	full := j.Union(jx).Union(jy)
	if ans := v.diseq.IsDiseq(rx, ry); ans.IsYes() {
		return false, Inconsistent(full.Union(ans.Just))
	}
	small, large := v.order(rx, ry)
	mergedSort := v.store.Get(small).Sort.meet(v.store.Get(large).Sort)
	v.parent[large] = edge{to: small, just: full}
	v.store.SetSort(small, mergedSort)
	v.diseq.Reroot(large, small)
	if v.onEqual != nil {
		v.onEqual(small, large, full)
	}
	return true, nil
}

// Dismerge records x ≠ y under justification j, after canonicalising both
// sides. Fails with *InconsistentError if x and y are currently known
// equal (spec.md §4.2).
func (v *VarPartition) Dismerge(x, y VarID, j Justification) error {
	rx, jx := v.Canon(x)
	ry, jy := v.Canon(y)
	full := j.Union(jx).Union(jy)
	if rx == ry {
		return Inconsistent(full)
	}
	v.diseq.Add(rx, ry, full)
	return nil
}

// IsEqual answers whether x and y are in the same class.
func (v *VarPartition) IsEqual(x, y VarID) Answer {
	rx, jx := v.Canon(x)
	ry, jy := v.Canon(y)
	if rx == ry {
		return YesAnswer(jx.Union(jy))
	}
	if ans := v.diseq.IsDiseq(rx, ry); ans.IsYes() {
		return NoAnswer(ans.Just.Union(jx).Union(jy))
	}
	return UnknownAnswer
}

// IsDiseq answers whether x and y are known disequal.
func (v *VarPartition) IsDiseq(x, y VarID) Answer {
	rx, jx := v.Canon(x)
	ry, jy := v.Canon(y)
	if rx == ry {
		return NoAnswer(jx.Union(jy))
	}
	ans := v.diseq.IsDiseq(rx, ry)
	if ans.IsYes() {
		return YesAnswer(ans.Just.Union(jx).Union(jy))
	}
	return UnknownAnswer
}

// snapshot captures enough state to roll back via restore.
type partitionSnapshot struct {
	parent map[VarID]edge
	diseq  diseqSnapshot
}

func (v *VarPartition) snapshot() partitionSnapshot {
	parent := make(map[VarID]edge, len(v.parent))
	for k, val := range v.parent {
		parent[k] = val
	}
	return partitionSnapshot{parent: parent, diseq: v.diseq.snapshot()}
}

func (v *VarPartition) restore(s partitionSnapshot) {
	v.parent = s.parent
	v.diseq.restore(s.diseq)
}
