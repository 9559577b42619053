package lira

// TriState is an explicit three-valued result with an attached
// justification on the decided outcomes, per spec.md §9 "Three-valued
// results": "Use an explicit sum {Yes(ρ), No(ρ), Unknown}. Never overload
// booleans with a side-channel justification."
type TriState int

const (
	// Unknown means neither Yes nor No could be established.
	Unknown TriState = iota
	// Yes means the queried relation holds; Justification() is meaningful.
	Yes
	// No means the queried relation provably does not hold; Justification()
	// is meaningful.
	No
)

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// Answer pairs a TriState with the justification for Yes/No outcomes.
type Answer struct {
	State TriState
	Just  Justification
}

// UnknownAnswer is the Answer carrying no information.
var UnknownAnswer = Answer{State: Unknown}

// YesAnswer builds a Yes answer with the given justification.
func YesAnswer(j Justification) Answer { return Answer{State: Yes, Just: j} }

// NoAnswer builds a No answer with the given justification.
func NoAnswer(j Justification) Answer { return Answer{State: No, Just: j} }

// IsYes reports whether a is Yes.
func (a Answer) IsYes() bool { return a.State == Yes }

// IsNo reports whether a is No.
func (a Answer) IsNo() bool { return a.State == No }
