package lira

import "sort"

// AtomID identifies one asserted formula (an atom of the input stream) by
// its position of assertion. Justifications are sets of AtomIDs; spec.md §3
// calls this the "opaque dependency set of asserted atoms" carried by every
// derived fact, and it doubles as the unsat core when the derived fact is
// false (§7).
type AtomID int

// Justification is an immutable, sorted, de-duplicated set of AtomIDs.
// Combining facts unions their justifications (spec.md §3).
type Justification struct {
	atoms []AtomID
}

// EmptyJustification is the justification of facts that hold unconditionally
// (e.g. 0 = 0 introduced internally, never derived from an assertion).
var EmptyJustification = Justification{}

// NewJustification builds a Justification from a set of AtomIDs, sorting and
// de-duplicating them.
func NewJustification(atoms ...AtomID) Justification {
	if len(atoms) == 0 {
		return EmptyJustification
	}
	cp := append([]AtomID(nil), atoms...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:1]
	for _, a := range cp[1:] {
		if a != out[len(out)-1] {
			out = append(out, a)
		}
	}
	return Justification{atoms: out}
}

// Union returns the justification for a fact derived from both j and other.
func (j Justification) Union(other Justification) Justification {
	if len(j.atoms) == 0 {
		return other
	}
	if len(other.atoms) == 0 {
		return j
	}
	merged := make([]AtomID, 0, len(j.atoms)+len(other.atoms))
	i, k := 0, 0
	for i < len(j.atoms) && k < len(other.atoms) {
		switch {
		case j.atoms[i] < other.atoms[k]:
			merged = append(merged, j.atoms[i])
			i++
		case j.atoms[i] > other.atoms[k]:
			merged = append(merged, other.atoms[k])
			k++
		default:
			merged = append(merged, j.atoms[i])
			i++
			k++
		}
	}
	merged = append(merged, j.atoms[i:]...)
	merged = append(merged, other.atoms[k:]...)
	return Justification{atoms: merged}
}

// Atoms returns the sorted, de-duplicated AtomIDs in j. The returned slice
// must not be mutated by the caller.
func (j Justification) Atoms() []AtomID { return j.atoms }

// Len returns the number of atoms in the justification.
func (j Justification) Len() int { return len(j.atoms) }

// Contains reports whether a is in j.
func (j Justification) Contains(a AtomID) bool {
	i := sort.Search(len(j.atoms), func(i int) bool { return j.atoms[i] >= a })
	return i < len(j.atoms) && j.atoms[i] == a
}
