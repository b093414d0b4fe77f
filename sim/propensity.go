package sim

// hillRepressed evaluates the Delta-activated, dimer-repressed Hill form
// shared by her1 and her7 mRNA synthesis (§4.5, §4.3 step 5):
//
//	m * (1+y) / (1 + y + x11^2 + x713^2)
func hillRepressed(x11, x713, y, m float64) float64 {
	return m * (1 + y) / (1 + y + x11*x11 + x713*x713)
}

// hillDimerOnly evaluates delta mRNA synthesis's Hill form, which has no
// Delta-activation term (§4.5):
//
//	m / (1 + x11^2 + x713^2)
func hillDimerOnly(x11, x713, m float64) float64 {
	return m / (1 + x11*x11 + x713*x713)
}

// propensity evaluates reaction k's propensity from scratch in cell c at
// gradient position pos. Grounded on
// original_source/stochastic/source/updates.h's 15 update functions, each
// read here as a pure function of current state rather than an incremental
// delta - recomputeAll uses this directly, and the incremental update units
// below recompute exactly the same formulas but only for affected reactions.
func (s *STOState) propensity(c, k, pos int) float64 {
	return reactionPropensity(s.Rates, pos, s.X[c], s.neighbourDeltaMean(c), k)
}

// reactionPropensity is the state-free core of propensity: the same 34-way
// formula switch, taking a plain species-count vector and a precomputed
// neighbour-Delta mean instead of an *STOState. This lets the DET
// propensity-cap guard (det.go) evaluate the identical formulas against its
// own concentration arrays without constructing a stochastic state.
func reactionPropensity(r *Rates, pos int, x [NumSpecies]float64, neighbourDelta float64, k int) float64 {
	switch k {
	case 0:
		return r.Current(RatePSH1, pos) * x[SpeciesHer1mRNA]
	case 1:
		return r.Current(RatePDH1, pos) * x[SpeciesHer1]
	case 2:
		return r.Current(RateDAH1H1, pos) * x[SpeciesHer1] * (x[SpeciesHer1] - 1) / 2
	case 3:
		return r.Current(RateDDIH1H1, pos) * x[SpeciesHer1Her1]
	case 4:
		return r.Current(RateDAH1H7, pos) * x[SpeciesHer1] * x[SpeciesHer7]
	case 5:
		return r.Current(RateDDIH1H7, pos) * x[SpeciesHer1Her7]
	case 6:
		return r.Current(RateDAH1H13, pos) * x[SpeciesHer1] * x[SpeciesHer13]
	case 7:
		return r.Current(RateDDIH1H13, pos) * x[SpeciesHer1Her13]
	case 8:
		return r.Current(RatePSH7, pos) * x[SpeciesHer7mRNA]
	case 9:
		return r.Current(RatePDH7, pos) * x[SpeciesHer7]
	case 10:
		return r.Current(RateDAH7H7, pos) * x[SpeciesHer7] * (x[SpeciesHer7] - 1) / 2
	case 11:
		return r.Current(RateDDIH7H7, pos) * x[SpeciesHer7Her7]
	case 12:
		return r.Current(RateDAH7H13, pos) * x[SpeciesHer7] * x[SpeciesHer13]
	case 13:
		return r.Current(RateDDIH7H13, pos) * x[SpeciesHer7Her13]
	case 14:
		return r.Current(RatePSH13, pos) * x[SpeciesHer13mRNA]
	case 15:
		return r.Current(RatePDH13, pos) * x[SpeciesHer13]
	case 16:
		return r.Current(RateDAH13H13, pos) * x[SpeciesHer13] * (x[SpeciesHer13] - 1) / 2
	case 17:
		return r.Current(RateDDIH13H13, pos) * x[SpeciesHer13Her13]
	case 18:
		return r.Current(RateDDGH1H1, pos) * x[SpeciesHer1Her1]
	case 19:
		return r.Current(RateDDGH1H7, pos) * x[SpeciesHer1Her7]
	case 20:
		return r.Current(RateDDGH1H13, pos) * x[SpeciesHer1Her13]
	case 21:
		return r.Current(RateDDGH7H7, pos) * x[SpeciesHer7Her7]
	case 22:
		return r.Current(RateDDGH7H13, pos) * x[SpeciesHer7Her13]
	case 23:
		return r.Current(RateDDGH13H13, pos) * x[SpeciesHer13Her13]
	case 24:
		return r.Current(RatePSDelta, pos) * x[SpeciesDeltamRNA]
	case 25:
		return r.Current(RatePDDelta, pos) * x[SpeciesDelta]
	case 26:
		return r.Current(RateMSH1, pos) * hillResult2(r, pos, x, neighbourDelta)
	case 27:
		return r.Current(RateMDH1, pos) * x[SpeciesHer1mRNA]
	case 28:
		return r.Current(RateMSH7, pos) * hillResult2(r, pos, x, neighbourDelta)
	case 29:
		return r.Current(RateMDH7, pos) * x[SpeciesHer7mRNA]
	case 30:
		// her13 transcription is constitutive and undelayed; its propensity
		// has no species dependency and is set once at initialization
		// (§4, "Ambiguities resolved").
		return r.Current(RateMSH13, pos)
	case 31:
		return r.Current(RateMDH13, pos) * x[SpeciesHer13mRNA]
	case 32:
		return r.Current(RateMSDelta, pos) / hillResult1(r, pos, x)
	case 33:
		return r.Current(RateMDDelta, pos) * x[SpeciesDeltamRNA]
	default:
		return 0
	}
}

// hillResult1/hillResult2 factor out the shared x11/x713 terms of §4.5's
// Delta-driven mRNA synthesis formulas:
//
//	result1 = 1 + x11^2 + x713^2
//	result2 = (1+y) / (y + result1)
func hillResult1(r *Rates, pos int, x [NumSpecies]float64) float64 {
	x11 := x[SpeciesHer1Her1] / r.Current(RateCritPH1H1, pos)
	x713 := x[SpeciesHer7Her13] / r.Current(RateCritPH7H13, pos)
	return 1 + x11*x11 + x713*x713
}

func hillResult2(r *Rates, pos int, x [NumSpecies]float64, neighbourDelta float64) float64 {
	y := neighbourDelta / r.Current(RateCritPDelta, pos)
	return (1 + y) / (y + hillResult1(r, pos, x))
}

// speciesReactionDeps lists, for each species index, the reactions whose
// propensity (in the SAME cell) depends on that species' count. Built once
// from the propensity formulas above; this is the Go analog of
// updates.h's 15 hand-written update units, expressed as a dependency table
// instead of one function per disjoint reaction subset (§4.5, §9 "Dynamic
// dispatch for update units"). The table is keyed by species index; each
// entry lists reaction indices.
var speciesReactionDeps = [NumSpecies][]int{
	SpeciesHer1mRNA:     {0, 27},
	SpeciesHer7mRNA:     {8, 29},
	SpeciesHer13mRNA:    {14, 31},
	SpeciesDeltamRNA:    {24, 33},
	SpeciesHer1:         {1, 2, 4, 6},
	SpeciesHer7:         {4, 9, 10, 12},
	SpeciesHer13:        {6, 12, 15, 16},
	SpeciesDelta:        {25}, // neighbour-cell 26/28/32 handled separately
	SpeciesHer1Her1:      {3, 18, 26, 28, 32},
	SpeciesHer1Her7:     {5, 19},
	SpeciesHer1Her13:    {7, 20},
	SpeciesHer7Her7:     {11, 21},
	SpeciesHer7Her13:    {13, 22, 26, 28, 32},
	SpeciesHer13Her13:   {17, 23},
}

// RefreshAfterChange recomputes exactly the propensities that depend on the
// species listed in changed, in cell c, and updates A0 incrementally. When
// Delta (species 7) is among the changed species, it additionally refreshes
// reactions 26/28/32 in every neighbour of c, since the neighbour-averaged
// Delta term feeds those neighbours' propensities too (§4, "reaction 24/25
// ... refresh propensities in neighbouring cells").
func (s *STOState) RefreshAfterChange(c int, changed []int) {
	pos := cellPosition(s.Topo, c)
	seen := make(map[int]bool, 8)
	refresh := func(cell, k, p int) {
		old := s.A[cell][k]
		neu := s.propensity(cell, k, p)
		s.A0 += neu - old
		s.A[cell][k] = neu
	}
	deltaChanged := false
	for _, j := range changed {
		if j == SpeciesDelta {
			deltaChanged = true
		}
		for _, k := range speciesReactionDeps[j] {
			key := k
			if seen[key] {
				continue
			}
			seen[key] = true
			refresh(c, k, pos)
		}
	}
	if deltaChanged {
		for _, n := range s.Topo.Neighbours(c) {
			np := cellPosition(s.Topo, n)
			refresh(n, 26, np)
			refresh(n, 28, np)
			refresh(n, 32, np)
		}
	}
}
