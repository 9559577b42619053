package lira

import "fmt"

// Sort is the declared interpretation domain of a variable: Real or Int.
// Following spec.md §3, Real ∩ Int = Int and contradictory declarations
// (there are none today — Sort has only two values — but the operation is
// total so future sorts slot in without touching callers) raise
// Inconsistent.
type Sort int

const (
	// SortReal is the default interpretation: the rationals.
	SortReal Sort = iota
	// SortInt restricts a variable to integer values; only Int variables
	// participate in Diophantine reasoning (§4.1, §4.3 Gomory cuts).
	SortInt
)

func (s Sort) String() string {
	if s == SortInt {
		return "int"
	}
	return "real"
}

// meet intersects two sorts per spec.md §4.2's union rule ("its domain is
// the intersection of the two domains"). Real ∩ Int = Int; any other pair is
// consistent (Real∩Real=Real, Int∩Int=Int).
func (s Sort) meet(other Sort) Sort {
	if s == SortInt || other == SortInt {
		return SortInt
	}
	return SortReal
}

// Kind classifies how a variable came to exist (spec.md §3 "Variables").
type Kind int

const (
	// KindExternal variables are user-introduced.
	KindExternal Kind = iota
	// KindRename variables are fresh, generated when flattening impure
	// (non-variable, non-constant) terms into the solved forms R/T expect.
	KindRename
	// KindSlack variables are fresh, interpreted over the nonnegative
	// reals/integers; introduced to turn inequalities into equalities.
	KindSlack
	// KindFreshTheory variables are generated by sibling theory solvers
	// (tuples, arrays, congruence closure) via the Theory interface (§6).
	KindFreshTheory
)

func (k Kind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindRename:
		return "rename"
	case KindSlack:
		return "slack"
	case KindFreshTheory:
		return "fresh-theory"
	default:
		return "unknown"
	}
}

// VarID is a small integer handle for a Variable, allocated monotonically by
// a VarStore (snapshot.go explains why restore never rewinds the counter).
type VarID int

// Var is a single decision variable: a name, a Kind, and a Sort.
//
// Ordering invariant (spec.md §3): every slack variable is smaller than
// every non-slack variable, and the distinguished zero slack is smaller
// than any other nonnegative slack. Canonical representatives of an
// equivalence class are the minimum element under this order (see
// partition.go). The order is realized by VarID allocation order combined
// with Kind, not by VarID alone — see Var.Less.
type Var struct {
	ID     VarID
	Name   string
	Kind   Kind
	Sort   Sort
	IsZero bool // true only for the distinguished zero slack
}

// IsSlack reports whether v is interpreted over the nonnegative reals/ints.
func (v Var) IsSlack() bool { return v.Kind == KindSlack }

// String renders "name" or, for anonymous fresh variables, "_k<id>" etc.
func (v Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	switch v.Kind {
	case KindSlack:
		return fmt.Sprintf("k%d", v.ID)
	case KindRename:
		return fmt.Sprintf("r%d", v.ID)
	case KindFreshTheory:
		return fmt.Sprintf("t%d", v.ID)
	default:
		return fmt.Sprintf("x%d", v.ID)
	}
}

// Less implements the total variable order required by spec.md §3 and used
// throughout §4.3 (pivot tie-breaks, canonical representative selection,
// least positive/negative monomial).
//
// Ordering, most significant first:
//  1. the zero slack is smaller than everything else;
//  2. any other slack is smaller than any non-slack variable;
//  3. within the same slack/non-slack class, smaller VarID is smaller.
func (v Var) Less(other Var) bool {
	if v.IsZero != other.IsZero {
		return v.IsZero
	}
	if v.IsSlack() != other.IsSlack() {
		return v.IsSlack()
	}
	return v.ID < other.ID
}

// VarStore allocates and records Var values. It owns the monotonic counter,
// which save/restore never rewind (spec.md "Variable creation" design note),
// so that rollbacks never invalidate handles a caller already observed.
type VarStore struct {
	vars      []Var
	zeroSlack VarID
	hasZero   bool
}

// NewVarStore creates an empty store and immediately allocates the
// distinguished zero slack, since every Simplex needs exactly one and it
// must sort below all other variables.
func NewVarStore() *VarStore {
	s := &VarStore{}
	zero := s.alloc("0", KindSlack, SortReal)
	s.vars[zero].IsZero = true
	s.zeroSlack = zero
	s.hasZero = true
	return s
}

func (s *VarStore) alloc(name string, kind Kind, sort Sort) VarID {
	id := VarID(len(s.vars))
	s.vars = append(s.vars, Var{ID: id, Name: name, Kind: kind, Sort: sort})
	return id
}

// Fresh allocates a new variable of the given kind/sort with an optional
// name (pass "" for an anonymous fresh variable).
func (s *VarStore) Fresh(name string, kind Kind, sort Sort) Var {
	id := s.alloc(name, kind, sort)
	return s.vars[id]
}

// External allocates a user-introduced variable.
func (s *VarStore) External(name string, sort Sort) Var {
	return s.Fresh(name, KindExternal, sort)
}

// Slack allocates a fresh slack variable, nonnegative by construction.
func (s *VarStore) Slack(sort Sort) Var {
	return s.Fresh("", KindSlack, sort)
}

// Rename allocates a fresh rename variable used to flatten an impure term.
func (s *VarStore) Rename(sort Sort) Var {
	return s.Fresh("", KindRename, sort)
}

// ZeroSlack returns the distinguished zero slack, whose only interpretation
// is {0}.
func (s *VarStore) ZeroSlack() Var {
	return s.vars[s.zeroSlack]
}

// Get returns the Var for id.
func (s *VarStore) Get(id VarID) Var {
	return s.vars[id]
}

// Len returns the number of variables allocated so far; Facade.Save records
// it in the snapshot, and Restore does not read it back.
func (s *VarStore) Len() int { return len(s.vars) }

// truncate rolls the store back to n variables. Facade.Restore does not
// call it; only the package's tests do. Handles beyond n become invalid, so
// callers must not reuse them.
func (s *VarStore) truncate(n int) {
	s.vars = s.vars[:n]
}

// SetSort narrows the declared sort of a variable (used by partition.go
// when two classes with different sorts merge). It mutates the store in
// place since Var values are looked up by VarID, not cached long-term by
// value across mutation points that matter.
func (s *VarStore) SetSort(id VarID, sort Sort) {
	s.vars[id].Sort = sort
}
