package lira

// Status is the three-way outcome of the decision procedure at a point in
// time (spec.md §4.5 "a status ∈ {Sat(witness-formula), Unsat(core),
// Unknown}").
type Status int

const (
	// StatusUnknown means the propagator has pending speculative work (a
	// case-split not yet resolved).
	StatusUnknown Status = iota
	// StatusSat means the propagator reached a fixed point with no pending
	// splits and no contradiction.
	StatusSat
	// StatusUnsat means a contradiction was derived; Core is the unsat core.
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// StatusEngine tracks the facade's current Sat/Unsat/Unknown flag and, on
// Unsat, the unsat core (spec.md §4.5, §7).
type StatusEngine struct {
	status Status
	core   Justification
}

// NewStatusEngine starts in StatusSat (the empty configuration is trivially
// satisfiable).
func NewStatusEngine() *StatusEngine {
	return &StatusEngine{status: StatusSat}
}

// Status returns the current flag.
func (e *StatusEngine) Status() Status { return e.status }

// Core returns the unsat core recorded by the last MarkUnsat, or the empty
// justification if the engine is not Unsat.
func (e *StatusEngine) Core() Justification { return e.core }

// MarkSat records a clean fixed point; it leaves an Unsat flag in place.
func (e *StatusEngine) MarkSat() {
	if e.status != StatusUnsat {
		e.status, e.core = StatusSat, EmptyJustification
	}
}

// MarkUnknown records pending speculative work; it leaves an Unsat flag in
// place.
func (e *StatusEngine) MarkUnknown() {
	if e.status != StatusUnsat {
		e.status = StatusUnknown
	}
}

// MarkUnsat records a contradiction and its unsat core. Once Unsat, the
// engine stays Unsat until Reset (spec.md provides no implicit recovery;
// §4 "Non-goals: incremental retraction of individual assertions").
func (e *StatusEngine) MarkUnsat(core Justification) {
	e.status = StatusUnsat
	e.core = core
}

// Reset restores StatusSat, used by the facade's `reset` verb.
func (e *StatusEngine) Reset() { e.status, e.core = StatusSat, EmptyJustification }
