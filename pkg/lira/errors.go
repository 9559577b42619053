package lira

import (
	"fmt"

	"github.com/pkg/errors"
)

// InconsistentError is raised when an assertion is refuted. Just is the
// unsat core: a subset of the asserted formulas from which the
// contradiction follows (spec.md §7). It propagates unwound through the
// propagator and any save/restore-guarded speculative branch, which may
// catch it to implement case analysis (inside this package, the Diophantine
// disequality segment search in propagator.go and the per-disjunct protect
// in Facade.Resolve are the catchers).
type InconsistentError struct {
	Just Justification
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("lira: inconsistent (unsat core size %d)", e.Just.Len())
}

// Inconsistent constructs an *InconsistentError for justification j.
func Inconsistent(j Justification) error {
	return &InconsistentError{Just: j}
}

// AsInconsistent reports whether err is (or wraps) an *InconsistentError and
// returns it.
func AsInconsistent(err error) (*InconsistentError, bool) {
	var ie *InconsistentError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// ErrUnbounded is raised internally by sup/inf when the objective has no
// finite bound (spec.md §4.3 "sup"). Facade.Sup/Facade.Inf convert this at
// the API boundary to ErrNotFound, per the Open Question resolution in
// DESIGN.md — callers outside this package never see ErrUnbounded itself.
var ErrUnbounded = errors.New("lira: objective is unbounded")

// ErrNotFound indicates the queried variable/term has no binding. Not an
// error condition for callers: Facade.Sup/Facade.Inf return it for an
// unbounded objective and Facade.Restore for an unknown handle, while
// Find/Inv report not-found through their boolean result instead.
var ErrNotFound = errors.New("lira: not found")

// invariantViolation panics after wrapping msg with a stack trace (via
// github.com/pkg/errors), per spec.md §7: "Invariant violation — a bug;
// implementations should assert and abort." Callers never recover from
// this; the wrapping exists only so the panic value carries a stack trace.
func invariantViolation(msg string, args ...interface{}) {
	panic(errors.Wrap(fmt.Errorf(msg, args...), "lira: invariant violation"))
}
