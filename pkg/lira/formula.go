package lira

// FormulaKind classifies a Formula node (spec.md §6 "Term / formula
// constructors" plus the propositional layer's contract: "only its
// contract with the core is specified"). Eq/Diseq/Nonneg are the three
// Facts of spec.md §3; And/Or/Not/Literal are the minimal propositional
// connectives the core needs to know about in order to honour that
// contract — the actual BDD representation and case-split heuristics live
// outside this package.
type FormulaKind int

const (
	FormulaEq FormulaKind = iota
	FormulaDiseq
	FormulaNonneg
	FormulaNot
	FormulaAnd
	FormulaOr
	FormulaLiteral
)

// Formula is a client-facing assertion. Eq/Diseq carry two polynomials;
// Nonneg carries one (meaning `poly ≥ 0`); Not/And/Or carry sub-formulas;
// Literal carries an opaque propositional atom name with no arithmetic
// content, used for the case-split driver's contract.
type Formula struct {
	Kind    FormulaKind
	A, B    Polynomial
	Sub     []Formula
	Literal string
}

// Eq constructs `a = b`.
func Eq(a, b Polynomial) Formula { return Formula{Kind: FormulaEq, A: a, B: b} }

// Diseq constructs `a ≠ b`.
func Diseq(a, b Polynomial) Formula { return Formula{Kind: FormulaDiseq, A: a, B: b} }

// Nonneg constructs `a ≥ 0`.
func Nonneg(a Polynomial) Formula { return Formula{Kind: FormulaNonneg, A: a} }

// Positive constructs `a > 0`, spec.md §3's "the pair (a ≥ 0, a ≠ 0)".
func Positive(a Polynomial) Formula {
	return And(Nonneg(a), Diseq(a, NewPolynomial(Zero)))
}

// Not constructs the negation of f.
func Not(f Formula) Formula { return Formula{Kind: FormulaNot, Sub: []Formula{f}} }

// And constructs a conjunction.
func And(fs ...Formula) Formula { return Formula{Kind: FormulaAnd, Sub: fs} }

// Or constructs a disjunction.
func Or(fs ...Formula) Formula { return Formula{Kind: FormulaOr, Sub: fs} }

// Lit constructs an opaque propositional literal.
func Lit(name string) Formula { return Formula{Kind: FormulaLiteral, Literal: name} }

// negate pushes a Not one level down, per the classical De Morgan /
// atom-negation rules; And/Or/Literal negation is left structural (wrapped
// in FormulaNot) since only the external case-split driver interprets
// those, per spec.md's "only its contract with the core is specified".
func negate(f Formula) Formula {
	switch f.Kind {
	case FormulaEq:
		return Diseq(f.A, f.B)
	case FormulaDiseq:
		return Eq(f.A, f.B)
	case FormulaNonneg:
		// ¬(a ≥ 0) = (−a) > 0 = (−a ≥ 0) ∧ (−a ≠ 0).
		return Positive(f.A.Scale(FromInt(-1)))
	case FormulaNot:
		return f.Sub[0]
	default:
		return Formula{Kind: FormulaNot, Sub: []Formula{f}}
	}
}

// isAtomic reports whether f is directly dispatchable as a single Fact
// (spec.md §3), with no propositional case-splitting required.
func (f Formula) isAtomic() bool {
	switch f.Kind {
	case FormulaEq, FormulaDiseq, FormulaNonneg:
		return true
	case FormulaNot:
		return negate(f.Sub[0]).isAtomic()
	default:
		return false
	}
}

// flatten reduces f to the list of atomic Facts it is equivalent to when
// f is built only from Eq/Diseq/Nonneg/Not/And — used by process() for the
// common case of a conjunction of atoms, which never needs a case split.
func flatten(f Formula) ([]Formula, bool) {
	switch f.Kind {
	case FormulaEq, FormulaDiseq, FormulaNonneg:
		return []Formula{f}, true
	case FormulaNot:
		inner := negate(f.Sub[0])
		if !inner.isAtomic() {
			return nil, false
		}
		return flatten(inner)
	case FormulaAnd:
		var out []Formula
		for _, sub := range f.Sub {
			parts, ok := flatten(sub)
			if !ok {
				return nil, false
			}
			out = append(out, parts...)
		}
		return out, true
	default:
		return nil, false
	}
}
