package lira

// TheoryTag identifies which component theory produced or owns a term,
// per spec.md §6's `find(θ, x)`/`inv(t)` theory parameter.
type TheoryTag int

const (
	// TheoryArithmetic is the linear arithmetic core (R ∪ T).
	TheoryArithmetic TheoryTag = iota
	// TheoryUninterpreted is the uninterpreted-function congruence closure.
	TheoryUninterpreted
	// TheoryTuple is the tuple/projection theory.
	TheoryTuple
	// TheoryFunctional is the functional-array theory.
	TheoryFunctional
)

func (t TheoryTag) String() string {
	switch t {
	case TheoryArithmetic:
		return "A"
	case TheoryUninterpreted:
		return "U"
	case TheoryTuple:
		return "T"
	case TheoryFunctional:
		return "F"
	default:
		return "?"
	}
}

// Theory is the contract spec.md §6 requires of every sibling solver that
// the core consumes facts from and exposes facts to (tuples/products,
// arrays, uninterpreted congruence closure). The core's own arithmetic
// solver (Simplex) satisfies an analogous shape but is driven directly by
// the Propagator rather than through this interface, since it is the
// component this package implements rather than a collaborator.
type Theory interface {
	// Tag identifies this theory for find/inv routing.
	Tag() TheoryTag
	// Sigma normalises an application of one of this theory's symbols to a
	// list of argument terms, returning a canonical term (possibly a fresh
	// variable standing for the application).
	Sigma(symbol string, args []Term) (Term, error)
	// Solve turns an equality between two of this theory's terms into a
	// list of solved variable bindings, or returns an *InconsistentError.
	Solve(lhs, rhs Term, j Justification) ([]TheoryBinding, error)
	// Map substitutes variables occurring in t according to subs (the
	// partition's canonicalisation), returning the rewritten term.
	Map(t Term, subs map[VarID]VarID) Term
}

// TheoryBinding is one `x ↦ t` produced by Theory.Solve, mirroring the
// shape of a Simplex solved form so the Propagator can treat every
// theory's output uniformly.
type TheoryBinding struct {
	X VarID
	T Term
}

// Term is a theory-tagged application or a bare variable reference, the
// non-arithmetic counterpart of Polynomial (spec.md §3 "Terms"). The core
// only interprets arithmetic terms directly; other theories' terms pass
// through as opaque Args under their own Symbol, addressed by the
// Propagator only via Theory.Sigma/Solve/Map.
type Term struct {
	Var    VarID
	IsVar  bool
	Symbol string
	Args   []Term
	Theory TheoryTag
}

// VarTerm wraps a bare variable reference as a Term.
func VarTerm(id VarID) Term { return Term{Var: id, IsVar: true} }

// AppTerm wraps a theory-tagged application as a Term.
func AppTerm(theory TheoryTag, symbol string, args ...Term) Term {
	return Term{Symbol: symbol, Args: args, Theory: theory}
}
