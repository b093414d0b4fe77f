package sim

// STOState is the full mutable state of one stochastic simulation (§3
// "State of a simulation (STO)"): per-cell species counts, per-cell
// propensities and their sum, the Anderson next-reaction clocks, and the
// per-cell per-delayed-reaction delay queues.
type STOState struct {
	Topo  *Topology
	Rates *Rates

	X  [][NumSpecies]float64  // per-cell species counts
	A  [][NumReactions]float64 // per-cell propensities
	A0 float64

	Tk [][NumReactions]float64 // internal time, Anderson NRM
	Pk [][NumReactions]float64 // next internal firing target

	Queues [][NumDelayedReactions]DelayQueue

	T float64 // simulated time, minutes
}

// cellPosition maps a cell index to the gradient position used by Rates;
// per §4.1 gradients are indexed along a single spatial axis, so a cell's
// position is its column.
func cellPosition(topo *Topology, cell int) int {
	return cell % topo.Width
}

// NewSTOState allocates a zeroed state over the given topology and rates.
func NewSTOState(topo *Topology, rates *Rates) *STOState {
	cells := topo.Cells()
	s := &STOState{
		Topo:   topo,
		Rates:  rates,
		X:      make([][NumSpecies]float64, cells),
		A:      make([][NumReactions]float64, cells),
		Tk:     make([][NumReactions]float64, cells),
		Pk:     make([][NumReactions]float64, cells),
		Queues: make([][NumDelayedReactions]DelayQueue, cells),
	}
	return s
}

// Init sets every cell's initial species counts to the same vector, draws
// the initial Anderson Pk targets, and computes all propensities from
// scratch.
func (s *STOState) Init(initial [NumSpecies]float64, rng *PartitionedRNG) {
	for c := range s.X {
		s.X[c] = initial
	}
	s.recomputeAll()
	for c := range s.Pk {
		for k := 0; k < NumReactions; k++ {
			s.Pk[c][k] = rng.NextPk()
		}
	}
}

// recomputeAll evaluates every propensity from scratch and refreshes A0.
// Used only at initialization; steady-state maintenance goes through the
// incremental update units in propensity.go.
func (s *STOState) recomputeAll() {
	s.A0 = 0
	for c := range s.A {
		pos := cellPosition(s.Topo, c)
		for k := 0; k < NumReactions; k++ {
			s.A[c][k] = s.propensity(c, k, pos)
			s.A0 += s.A[c][k]
		}
	}
}

// neighbourDeltaMean computes the Delta-coupling mean used by reactions
// 26/28/32 (§4.5): the mean of Delta over cell c's neighbours, excluding c
// itself. For two-cell this is exactly the other cell's Delta (invariant 8,
// §8).
func (s *STOState) neighbourDeltaMean(c int) float64 {
	return s.Topo.NeighbourMean(c, func(n int) float64 {
		return s.X[n][SpeciesDelta]
	})
}
