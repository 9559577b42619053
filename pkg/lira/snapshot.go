package lira

import "github.com/google/uuid"

// SnapshotHandle is an opaque token returned by Facade.Save and consumed by
// Facade.Restore (spec.md §5 "A snapshot is a shallow copy of the three
// solution-set maps plus partition maps"). It is a uuid, not a bare
// counter, so that handles taken from distinct Facade instances — e.g. the
// parallel batch runner in cmd/lira, which drives several independent
// engines concurrently — are never confusable with one another.
type SnapshotHandle uuid.UUID

func newSnapshotHandle() SnapshotHandle { return SnapshotHandle(uuid.New()) }

// String renders the handle for CLI display (the `save`/`restore n` verbs
// accept/print this form).
func (h SnapshotHandle) String() string { return uuid.UUID(h).String() }

// engineSnapshot is the captured mutable state of one engine instance.
// varCount is recorded for diagnostics only — spec.md §9 "Variable
// creation" requires that restoring never invalidate a VarID a caller has
// already observed, so restore deliberately never rewinds the VarStore's
// counter; only R, T, and the partition are rolled back. Orphaned
// variables allocated after the snapshot become unreachable garbage, which
// spec.md §3's variable lifecycle explicitly permits ("their names become
// unreachable once they no longer appear in R ∪ T or any partition class").
type engineSnapshot struct {
	r, t      solutionSetSnapshot
	partition partitionSnapshot
	status    Status
	core      Justification
	varCount  int
}

// captureSnapshot takes a shallow copy of R and T.
func (s *Simplex) captureSnapshot() (solutionSetSnapshot, solutionSetSnapshot) {
	return s.r.snapshot(), s.t.snapshot()
}

// applySnapshot installs a previously captured R/T pair.
func (s *Simplex) applySnapshot(r, t solutionSetSnapshot) {
	s.r.restoreFrom(r)
	s.t.restoreFrom(t)
}
