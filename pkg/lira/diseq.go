package lira

// diseqPair is an unordered pair of canonical VarIDs, normalized so the
// smaller ID is first; used as a map key for DiseqSet's edges.
type diseqPair struct {
	a, b VarID
}

func makeDiseqPair(x, y VarID) diseqPair {
	if x > y {
		x, y = y, x
	}
	return diseqPair{a: x, b: y}
}

// DiseqSet records disequalities between canonical variables (spec.md §4.2
// "DiseqSet (D)"). It is consulted and maintained by VarPartition, whose
// Merge/Dismerge keep it consistent with invariant I6 ("the partition V
// never contains both x = y and x ≠ y").
type DiseqSet struct {
	edges map[diseqPair]Justification
	// byVar indexes edges touching a given canonical variable, so Reroot
	// (called when that variable's class merges into another) can find and
	// rewrite them without a full scan.
	byVar map[VarID][]diseqPair
}

// NewDiseqSet creates an empty disequality set.
func NewDiseqSet() *DiseqSet {
	return &DiseqSet{edges: map[diseqPair]Justification{}, byVar: map[VarID][]diseqPair{}}
}

// Add records x ≠ y (x, y must already be canonical).
func (d *DiseqSet) Add(x, y VarID, j Justification) {
	p := makeDiseqPair(x, y)
	if existing, ok := d.edges[p]; ok {
		d.edges[p] = existing.Union(j)
		return
	}
	d.edges[p] = j
	d.byVar[x] = append(d.byVar[x], p)
	d.byVar[y] = append(d.byVar[y], p)
}

// IsDiseq answers whether x ≠ y is recorded (x, y must already be
// canonical).
func (d *DiseqSet) IsDiseq(x, y VarID) Answer {
	if j, ok := d.edges[makeDiseqPair(x, y)]; ok {
		return YesAnswer(j)
	}
	return UnknownAnswer
}

// Reroot rewrites every disequality edge touching `from` to instead touch
// `to`, called by VarPartition.Merge immediately after `from`'s class is
// unified into `to`'s. This keeps D expressed purely over current roots, as
// spec.md §4.2's "after canonicalising both sides" implies D only ever
// needs to answer queries about canonical representatives.
func (d *DiseqSet) Reroot(from, to VarID) {
	pairs := d.byVar[from]
	delete(d.byVar, from)
	for _, p := range pairs {
		j, ok := d.edges[p]
		if !ok {
			continue
		}
		delete(d.edges, p)
		other := p.a
		if other == from {
			other = p.b
		}
		if other == to {
			// x ≠ x would be a contradiction already caught by Merge before
			// Reroot runs; defensively drop rather than create a malformed
			// self-edge.
			continue
		}
		d.Add(to, other, j)
	}
}

type diseqSnapshot struct {
	edges map[diseqPair]Justification
}

func (d *DiseqSet) snapshot() diseqSnapshot {
	edges := make(map[diseqPair]Justification, len(d.edges))
	for k, v := range d.edges {
		edges[k] = v
	}
	return diseqSnapshot{edges: edges}
}

func (d *DiseqSet) restore(s diseqSnapshot) {
	d.edges = s.edges
	d.byVar = map[VarID][]diseqPair{}
	for p := range d.edges {
		d.byVar[p.a] = append(d.byVar[p.a], p)
		d.byVar[p.b] = append(d.byVar[p.b], p)
	}
}
