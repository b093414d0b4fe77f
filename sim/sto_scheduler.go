package sim

import "math"

// Hybrid-scheduler constants, grounded on
// original_source/stochastic/source/macros.h.
const (
	tauLeapEpsilon = 0.01 // tau-leap bound epsilon (distinct from DET's Euler step)
	nCrit          = 10
	nStiff         = 100
	tau1Mult       = 10
	betaIDLeap     = 0.05
	deltaFactor    = 0.05
	skipStepsEx    = 100
	skipStepsIm    = 10
)

// STOResult is the outcome of one STO run.
type STOResult struct {
	State *STOState
	Ring  *TraceRing
	OK    bool
}

// sto bundles the mutable scheduling state on top of STOState: whether
// tau-leaping is currently suspended (and for how many more steps), and
// whether the last tau-leap step was explicit or implicit (§4.4, "Switch to
// next-reaction").
type sto struct {
	state *STOState
	cfg   STOConfig
	rng   *PartitionedRNG
	ring  *TraceRing

	skipRemaining  int
	lastStepExplicit bool
}

// RunSTO drives the hybrid next-reaction / adaptive tau-leap scheduler
// (C5). Grounded on original_source/stochastic/source/main.cpp's main loop.
func RunSTO(rates *Rates, topo *Topology, cfg STOConfig, initial [NumSpecies]float64, rng *PartitionedRNG) (*STOResult, error) {
	if cfg.Minutes <= 0 {
		return nil, newErr(KindConfiguration, "minutes must be > 0, got %g", cfg.Minutes)
	}
	state := NewSTOState(topo, rates)
	state.Init(initial, rng)

	granularity := cfg.Granularity
	if granularity <= 0 {
		granularity = 0.1
	}
	s := &sto{
		state:           state,
		cfg:             cfg,
		rng:             rng,
		ring:            NewTraceRing(cfg.Minutes, granularity, topo.Cells()),
		lastStepExplicit: true,
	}

	var step int64
	nextPrint := 0.0
	for state.T < cfg.Minutes {
		if cfg.MaxTimesteps > 0 && step >= cfg.MaxTimesteps {
			return &STOResult{State: state, Ring: s.ring, OK: false}, nil
		}
		if state.T >= nextPrint {
			s.ring.Record(state.T, state.snapshot(cfg.Level))
			nextPrint += granularity
		}
		if !s.iterate() {
			return &STOResult{State: state, Ring: s.ring, OK: false}, nil
		}
		step++
	}
	s.ring.Record(state.T, state.snapshot(cfg.Level))
	return &STOResult{State: state, Ring: s.ring, OK: true}, nil
}

func (s *STOState) snapshot(level int) []float64 {
	out := make([]float64, len(s.X))
	for c := range s.X {
		out[c] = s.X[c][level]
	}
	return out
}

// iterate runs one scheduler decision: either a tau-leap step or a single
// next-reaction step, per the efficiency criterion in §4.4. Always returns
// true: the tau-leap path retries with halved tau until no species goes
// negative, and the NRM path cannot go negative.
func (s *sto) iterate() bool {
	if !s.cfg.Approximate {
		s.nrmStep()
		return true
	}

	critical := s.classifyCritical()

	if s.skipRemaining > 0 {
		s.skipRemaining--
		s.nrmStep()
		return true
	}

	tauEx, tauIm := s.tauCandidates(critical)
	tau1 := tauEx
	implicit := false
	if tauIm > nStiff*tauEx {
		tau1 = tauIm
		implicit = true
	}
	s.lastStepExplicit = !implicit

	if tau1 < tau1Mult/s.state.A0 {
		if s.lastStepExplicit {
			s.skipRemaining = skipStepsEx
		} else {
			s.skipRemaining = skipStepsIm
		}
		s.nrmStep()
		return true
	}

	s.tauLeapStep(tau1, critical)
	return true
}

// classifyCritical implements §4.4's critical-reaction test: a reaction is
// critical iff it has a negative update for some species and the minimum
// x[j]/|u[j,k]| over those species is below nCrit.
func (s *sto) classifyCritical() [][NumReactions]bool {
	state := s.state
	crit := make([][NumReactions]bool, len(state.X))
	for c := range state.X {
		for k := 0; k < NumReactions; k++ {
			if state.A[c][k] == 0 {
				continue
			}
			if _, delayed := IsDelayed(k); delayed {
				continue
			}
			minRatio := math.Inf(1)
			hasNegative := false
			for j := 0; j < NumSpecies; j++ {
				u := SpeciesUpdate[j][k]
				if u >= 0 {
					continue
				}
				hasNegative = true
				ratio := state.X[c][j] / float64(-u)
				if ratio < minRatio {
					minRatio = ratio
				}
			}
			crit[c][k] = hasNegative && minRatio < nCrit
		}
	}
	return crit
}

// hor returns the species' "highest order reaction" bound divisor g from
// §4.4: g=1 for most species, g=2+1/(x+1) for the higher-order protein
// species {Her1,Her7,Her13} (indices 4,5,6), which participate in
// second-order homo-dimerization.
func hor(j int, x float64) float64 {
	switch j {
	case SpeciesHer1, SpeciesHer7, SpeciesHer13:
		return 2 + 1/(x+1)
	default:
		return 1
	}
}

// tauCandidates computes tau_ex and tau_im per §4.4's adaptive-tau formula.
func (s *sto) tauCandidates(critical [][NumReactions]bool) (tauEx, tauIm float64) {
	state := s.state
	tauEx = math.Inf(1)
	tauIm = math.Inf(1)
	for c := range state.X {
		for j := 0; j < NumSpecies; j++ {
			x := state.X[c][j]
			bound := math.Max(tauLeapEpsilon*x/hor(j, x), 1)

			muEx, sigEx := 0.0, 0.0
			muIm, sigIm := 0.0, 0.0
			for k := 0; k < NumReactions; k++ {
				if critical[c][k] {
					continue
				}
				u := float64(SpeciesUpdate[j][k])
				if u == 0 {
					continue
				}
				a := state.A[c][k]
				muEx += u * a
				sigEx += u * u * a
				if !s.inPartialEquilibrium(c, k) {
					muIm += u * a
					sigIm += u * u * a
				}
			}
			if cand := tauCandidate(bound, muEx, sigEx); cand < tauEx {
				tauEx = cand
			}
			if cand := tauCandidate(bound, muIm, sigIm); cand < tauIm {
				tauIm = cand
			}
		}
	}
	return tauEx, tauIm
}

func tauCandidate(bound, mu, sig float64) float64 {
	c1 := math.Inf(1)
	if mu != 0 {
		c1 = bound / math.Abs(mu)
	}
	c2 := math.Inf(1)
	if sig != 0 {
		c2 = bound * bound / sig
	}
	return math.Min(c1, c2)
}

// inPartialEquilibrium tests §4.4's delta-factor criterion for reaction k in
// cell c: |a[k]-a[pair(k)]| <= deltaFactor*min(a[k],a[pair(k)]).
func (s *sto) inPartialEquilibrium(c, k int) bool {
	pair := PartialEquilibriumPair[k]
	if pair < 0 {
		return false
	}
	a := s.state.A[c]
	lo, hi := a[k], a[pair]
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return true
	}
	return hi-lo <= deltaFactor*lo
}

// tauLeapStep executes one explicit/implicit tau-leap iteration (§4.4):
// drain delay queues, pick firings (Poisson for non-critical, a single
// weighted pick for critical when tau2 < tau1), reject-and-halve on
// negativity, apply non-delayed firings, enqueue delayed ones with id-leap
// merging, and advance T.
//
// Delay-queue drains are not rolled back on a retry: each rejected attempt
// has already thinned the queues, and the retry drains the thinned queues
// again at the halved tau.
func (s *sto) tauLeapStep(tau1 float64, critical [][NumReactions]bool) {
	state := s.state
	a0Crit := 0.0
	for c := range state.A {
		for k := 0; k < NumReactions; k++ {
			if critical[c][k] {
				a0Crit += state.A[c][k]
			}
		}
	}
	tau2 := s.rng.Exponential(a0Crit)
	tau := math.Min(tau1, tau2)

	for {
		firings := s.drawFirings(tau1, tau2, tau, critical)
		if s.applyFirings(firings, tau) {
			return
		}
		tau1 /= 2
		tau = math.Min(tau1, tau2)
	}
}

// drawFirings samples the firing counts for every (cell, reaction): Poisson
// for non-critical reactions always; for critical reactions, either zero
// (tau=tau1 path) or a single weighted pick among critical reactions when
// tau=tau2 (§4.4 "Pick firings").
func (s *sto) drawFirings(tau1, tau2, tau float64, critical [][NumReactions]bool) [][NumReactions]float64 {
	state := s.state
	firings := make([][NumReactions]float64, len(state.X))
	for c := range state.A {
		for k := 0; k < NumReactions; k++ {
			if critical[c][k] {
				continue
			}
			firings[c][k] = s.rng.Poisson(state.A[c][k] * tau)
		}
	}
	if tau2 <= tau1 {
		s.pickOneCritical(firings, critical)
	}
	return firings
}

// pickOneCritical selects exactly one critical (cell,reaction) pair to fire
// once, weighted by a[i,k]/a0_crit, via a cumulative-probability draw.
func (s *sto) pickOneCritical(firings [][NumReactions]float64, critical [][NumReactions]bool) {
	state := s.state
	a0Crit := 0.0
	for c := range state.A {
		for k := 0; k < NumReactions; k++ {
			if critical[c][k] {
				a0Crit += state.A[c][k]
			}
		}
	}
	if a0Crit <= 0 {
		return
	}
	target := s.rng.UniformUnit() * a0Crit
	running := 0.0
	for c := range state.A {
		for k := 0; k < NumReactions; k++ {
			if !critical[c][k] {
				continue
			}
			running += state.A[c][k]
			if running >= target {
				firings[c][k]++
				return
			}
		}
	}
}

// applyFirings drains delay queues, tentatively applies non-delayed
// firings, checks for negativity, and on success enqueues delayed firings
// and refreshes propensities. Returns false if any species would go
// negative, signalling the caller to halve tau1 and retry; species counts,
// propensities and T are then unchanged, but the delay queues stay drained.
func (s *sto) applyFirings(firings [][NumReactions]float64, tau float64) bool {
	state := s.state
	target := state.T + tau

	drained := make([]float64, len(state.X)*NumDelayedReactions)
	idx := func(c, d int) int { return c*NumDelayedReactions + d }
	for c := range state.X {
		for d := 0; d < NumDelayedReactions; d++ {
			drained[idx(c, d)] = state.Queues[c][d].Drain(target, s.rng)
		}
	}

	trial := make([][NumSpecies]float64, len(state.X))
	for c := range state.X {
		trial[c] = state.X[c]
	}
	for c := range state.X {
		for d := 0; d < NumDelayedReactions; d++ {
			trial[c][DelayedTargetSpecies[d]] += drained[idx(c, d)]
		}
		for k := 0; k < NumReactions; k++ {
			f := firings[c][k]
			if f == 0 {
				continue
			}
			if _, delayed := IsDelayed(k); delayed {
				continue // applied on completion, not on firing
			}
			for j := 0; j < NumSpecies; j++ {
				if u := SpeciesUpdate[j][k]; u != 0 {
					trial[c][j] += float64(u) * f
				}
			}
		}
		for j := 0; j < NumSpecies; j++ {
			if trial[c][j] < 0 {
				return false
			}
		}
	}

	changedByCell := make([][]int, len(state.X))
	for c := range state.X {
		for j := 0; j < NumSpecies; j++ {
			if trial[c][j] != state.X[c][j] {
				changedByCell[c] = append(changedByCell[c], j)
			}
		}
		state.X[c] = trial[c]
	}

	for c := range state.X {
		for d, k := range DelayedReactions {
			f := firings[c][k]
			if f <= 0 {
				continue
			}
			delay := state.Rates.Current(DelayRateIndex[d], cellPosition(state.Topo, c))
			state.Queues[c][d].Push(f, state.T+delay, tau, betaIDLeap)
		}
	}

	for c, js := range changedByCell {
		if len(js) > 0 {
			state.RefreshAfterChange(c, js)
		}
	}

	state.T += tau
	return true
}

// nrmStep executes one Anderson modified next-reaction step (§4.4): find
// the minimal internal-time-to-fire across every (cell,reaction) candidate
// and every delayed-queue front, advance T, apply the winning event, redraw
// its Pk, and advance every Tk by a*Δ.
func (s *sto) nrmStep() {
	state := s.state
	best := math.Inf(1)
	bestCell, bestReaction, bestDelayPos := -1, -1, -1
	isDelayedCompletion := false

	for c := range state.A {
		for k := 0; k < NumReactions; k++ {
			a := state.A[c][k]
			if a <= 0 {
				continue
			}
			delta := (state.Pk[c][k] - state.Tk[c][k]) / a
			if delta < best {
				best = delta
				bestCell, bestReaction = c, k
				isDelayedCompletion = false
			}
		}
		for d := 0; d < NumDelayedReactions; d++ {
			front, ok := state.Queues[c][d].Front()
			if !ok {
				continue
			}
			delta := front - state.T
			if delta < best {
				best = delta
				bestCell, bestDelayPos = c, d
				isDelayedCompletion = true
			}
		}
	}

	if bestCell < 0 {
		// No reaction can ever fire (all propensities zero and all queues
		// empty); advance time to the horizon so the outer loop terminates.
		state.T = s.cfg.Minutes
		return
	}

	delta := best
	state.T += delta

	if isDelayedCompletion {
		state.Queues[bestCell][bestDelayPos].PopOne()
		sp := DelayedTargetSpecies[bestDelayPos]
		state.X[bestCell][sp]++
		state.RefreshAfterChange(bestCell, []int{sp})
	} else {
		k := bestReaction
		if _, delayed := IsDelayed(k); delayed {
			d, _ := IsDelayed(k)
			delayRate := DelayRateIndex[d]
			pos := cellPosition(state.Topo, bestCell)
			delayMin := state.Rates.Current(delayRate, pos)
			state.Queues[bestCell][d].Push(1, state.T+delayMin, 0, betaIDLeap)
		} else {
			var changed []int
			for j := 0; j < NumSpecies; j++ {
				if u := SpeciesUpdate[j][k]; u != 0 {
					state.X[bestCell][j] += float64(u)
					changed = append(changed, j)
				}
			}
			state.RefreshAfterChange(bestCell, changed)
		}
		state.Pk[bestCell][k] += s.rng.NextPk()
	}

	for c := range state.Tk {
		for k := 0; k < NumReactions; k++ {
			state.Tk[c][k] += state.A[c][k] * delta
		}
	}
}
