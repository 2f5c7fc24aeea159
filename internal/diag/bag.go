package diag

// Stage identifies the validation pass a diagnostic originates from. The
// final report is grouped by stage in this fixed order, since later stages
// assume earlier ones were clean for the entities they touch.
type Stage int

const (
	StageSymbols Stage = iota
	StageResolve
	StageFlowGraph
	StageRules

	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageSymbols:
		return "duplicate-identifier"
	case StageResolve:
		return "unresolved-reference"
	case StageFlowGraph:
		return "flow-graph"
	case StageRules:
		return "cross-entity"
	default:
		return "unknown"
	}
}

// Bag accumulates diagnostics per stage during one validation run. It is
// scoped to the run and discarded with it; there is no process-wide state.
type Bag struct {
	byStage [stageCount]List
}

// NewBag returns an empty accumulator.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic under the given stage. Emission order within a
// stage is preserved, which together with the pipeline's deterministic walk
// order makes reports reproducible.
func (b *Bag) Add(stage Stage, d *Diagnostic) {
	b.byStage[stage] = append(b.byStage[stage], d)
}

// Count returns the number of diagnostics accumulated under a stage.
func (b *Bag) Count(stage Stage) int {
	return len(b.byStage[stage])
}

// HasErrors reports whether any stage holds an error-severity diagnostic.
func (b *Bag) HasErrors() bool {
	for _, l := range b.byStage {
		if l.HasErrors() {
			return true
		}
	}
	return false
}

// Report flattens the accumulated diagnostics into one list, grouped by
// stage in the fixed pipeline order.
func (b *Bag) Report() List {
	var out List
	for _, l := range b.byStage {
		out = append(out, l...)
	}
	return out
}
