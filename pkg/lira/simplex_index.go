package lira

// solutionSet is a finite map var ↦ polynomial together with a reverse
// dependency index (spec.md §3 "dep index (per solution set): for each
// variable y, the set of left-hand sides whose right-hand side mentions
// y"). Both R and T (spec.md §4.3) are solutionSets; the difference between
// them is only which variables are allowed as keys/RHS-variables, enforced
// by Simplex, not by solutionSet itself.
type solutionSet struct {
	bindings map[VarID]Polynomial
	dep      map[VarID]map[VarID]struct{} // y -> { x | x ↦ p ∈ bindings, y ∈ vars(p) }
}

func newSolutionSet() *solutionSet {
	return &solutionSet{bindings: map[VarID]Polynomial{}, dep: map[VarID]map[VarID]struct{}{}}
}

// Get returns the binding for x, if any.
func (s *solutionSet) Get(x VarID) (Polynomial, bool) {
	p, ok := s.bindings[x]
	return p, ok
}

// Has reports whether x is bound.
func (s *solutionSet) Has(x VarID) bool {
	_, ok := s.bindings[x]
	return ok
}

// set installs x ↦ p verbatim (no substitution into other entries — callers
// needing the full "compose" semantics of spec.md §4.3 use
// Simplex.composeR/composeT, which call substituteAcrossAll first).
func (s *solutionSet) set(x VarID, p Polynomial) {
	if old, ok := s.bindings[x]; ok {
		s.unindex(x, old)
	}
	s.bindings[x] = p
	s.index(x, p)
}

// remove deletes the binding for x, if any.
func (s *solutionSet) remove(x VarID) {
	if old, ok := s.bindings[x]; ok {
		s.unindex(x, old)
		delete(s.bindings, x)
	}
}

func (s *solutionSet) index(x VarID, p Polynomial) {
	for _, y := range p.VarIDs() {
		if s.dep[y] == nil {
			s.dep[y] = map[VarID]struct{}{}
		}
		s.dep[y][x] = struct{}{}
	}
}

func (s *solutionSet) unindex(x VarID, p Polynomial) {
	for _, y := range p.VarIDs() {
		delete(s.dep[y], x)
		if len(s.dep[y]) == 0 {
			delete(s.dep, y)
		}
	}
}

// DependentsOf returns the left-hand sides whose binding currently mentions
// y, in ascending VarID order for deterministic iteration (spec.md §5
// requires derived-fact order to be deterministic given input order).
func (s *solutionSet) DependentsOf(y VarID) []VarID {
	set := s.dep[y]
	if len(set) == 0 {
		return nil
	}
	out := make([]VarID, 0, len(set))
	for x := range set {
		out = append(out, x)
	}
	sortVarIDs(out)
	return out
}

// Len returns the number of bindings.
func (s *solutionSet) Len() int { return len(s.bindings) }

// Keys returns all bound left-hand sides in ascending order.
func (s *solutionSet) Keys() []VarID {
	out := make([]VarID, 0, len(s.bindings))
	for x := range s.bindings {
		out = append(out, x)
	}
	sortVarIDs(out)
	return out
}

func sortVarIDs(ids []VarID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// snapshot/restore support save()/restore() (spec.md §5).
type solutionSetSnapshot struct {
	bindings map[VarID]Polynomial
}

func (s *solutionSet) snapshot() solutionSetSnapshot {
	b := make(map[VarID]Polynomial, len(s.bindings))
	for k, v := range s.bindings {
		b[k] = v
	}
	return solutionSetSnapshot{bindings: b}
}

func (s *solutionSet) restoreFrom(snap solutionSetSnapshot) {
	s.bindings = snap.bindings
	s.dep = map[VarID]map[VarID]struct{}{}
	for x, p := range s.bindings {
		s.index(x, p)
	}
}
