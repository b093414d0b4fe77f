package sim

// DETResult is the outcome of one DET integration run.
type DETResult struct {
	Store *ConcStore
	OK    bool // false if the negativity or propensity-cap guard aborted
}

// det bundles the fixed state of one DET integration: rates, topology, the
// concentration history and the precomputed delay-step counts.
type det struct {
	rates *Rates
	topo  *Topology
	cfg   DETConfig
	store *ConcStore

	steps int // N = floor(minutes/epsilon)

	// gradPos is the single shared gradient position used by every cell
	// this step, advanced roughly 50 times across the horizon (§4.1: "C is
	// refreshed... driven by an advancing position index") rather than
	// held fixed per cell - DET models a travelling determination front,
	// not a static per-cell profile (contrast STO's per-cell gradients).
	gradPos int

	// delay-step counts, floor(tau/epsilon), one per delayed reaction slot
	kPH1, kPH7, kPH13, kPD int
	kMH1, kMH7, kMD        int
}

// RunDET integrates the DDE system forward from an initial state (§4.3).
// initial gives every cell the same starting concentrations. Grounded on
// original_source/deterministic/functions.cpp's model().
func RunDET(rates *Rates, topo *Topology, cfg DETConfig, initial [NumSpecies]float64) (*DETResult, error) {
	if cfg.Epsilon <= 0 {
		return nil, newErr(KindConfiguration, "epsilon must be > 0, got %g", cfg.Epsilon)
	}
	if cfg.Minutes <= 0 {
		return nil, newErr(KindConfiguration, "minutes must be > 0, got %g", cfg.Minutes)
	}
	steps := int(cfg.Minutes / cfg.Epsilon)
	d := &det{
		rates: rates,
		topo:  topo,
		cfg:   cfg,
		store: NewConcStore(topo.Cells(), steps+1),
		steps: steps,
		kPH1:  delaySteps(rates, RateDelayPH1, cfg.Epsilon),
		kPH7:  delaySteps(rates, RateDelayPH7, cfg.Epsilon),
		kPH13: delaySteps(rates, RateDelayPH13, cfg.Epsilon),
		kPD:   delaySteps(rates, RateDelayPDelta, cfg.Epsilon),
		kMH1:  delaySteps(rates, RateDelayMH1, cfg.Epsilon),
		kMH7:  delaySteps(rates, RateDelayMH7, cfg.Epsilon),
		kMD:   delaySteps(rates, RateDelayMDelta, cfg.Epsilon),
	}
	for sp := 0; sp < NumSpecies; sp++ {
		for c := 0; c < topo.Cells(); c++ {
			d.store.Set(sp, c, 0, initial[sp])
		}
	}

	stride := GradientRefreshStride(steps, cfg.GradientWindows)

	for n := 1; n <= steps; n++ {
		if (n-1)%stride == 0 && d.gradPos < topo.Width-1 {
			d.gradPos++
		}
		for c := 0; c < topo.Cells(); c++ {
			if ok := d.step(c, n); !ok {
				return &DETResult{Store: d.store, OK: false}, nil
			}
		}
		if cfg.PropensityCap > 0 {
			for c := 0; c < topo.Cells(); c++ {
				if !d.underCap(c, n) {
					return &DETResult{Store: d.store, OK: false}, nil
				}
			}
		}
	}
	return &DETResult{Store: d.store, OK: true}, nil
}

func delaySteps(rates *Rates, rateIdx int, eps float64) int {
	tau := rates.Base[rateIdx]
	if tau <= 0 {
		return 0
	}
	return int(tau / eps)
}

// step advances cell c from timestep n-1 to n, in the exact order prescribed
// by §4.3: monomer proteins, Delta, dimers, then mRNAs via the
// neighbour-averaged Delta inputs, each block followed by a negativity
// guard.
func (d *det) step(c, n int) bool {
	eps := d.cfg.Epsilon
	pos := d.gradPos
	prev := func(sp int) float64 { return d.store.Get(sp, c, n-1) }
	r := d.rates

	her1mDelay := d.store.Delayed(SpeciesHer1mRNA, c, n, d.kPH1)
	her7mDelay := d.store.Delayed(SpeciesHer7mRNA, c, n, d.kPH7)
	her13mDelay := d.store.Delayed(SpeciesHer13mRNA, c, n, d.kPH13)
	deltaMDelay := d.store.Delayed(SpeciesDeltamRNA, c, n, d.kPD)

	her1 := prev(SpeciesHer1)
	her7 := prev(SpeciesHer7)
	her13 := prev(SpeciesHer13)
	h11 := prev(SpeciesHer1Her1)
	h17 := prev(SpeciesHer1Her7)
	h113 := prev(SpeciesHer1Her13)
	h77 := prev(SpeciesHer7Her7)
	h713 := prev(SpeciesHer7Her13)
	h1313 := prev(SpeciesHer13Her13)

	dHer1 := r.Current(RatePSH1, pos)*her1mDelay - r.Current(RatePDH1, pos)*her1 -
		2*r.Current(RateDAH1H1, pos)*her1*her1 + 2*r.Current(RateDDIH1H1, pos)*h11 -
		r.Current(RateDAH1H7, pos)*her1*her7 + r.Current(RateDDIH1H7, pos)*h17 -
		r.Current(RateDAH1H13, pos)*her1*her13 + r.Current(RateDDIH1H13, pos)*h113

	dHer7 := r.Current(RatePSH7, pos)*her7mDelay - r.Current(RatePDH7, pos)*her7 -
		2*r.Current(RateDAH7H7, pos)*her7*her7 + 2*r.Current(RateDDIH7H7, pos)*h77 -
		r.Current(RateDAH1H7, pos)*her1*her7 + r.Current(RateDDIH1H7, pos)*h17 -
		r.Current(RateDAH7H13, pos)*her7*her13 + r.Current(RateDDIH7H13, pos)*h713

	dHer13 := r.Current(RatePSH13, pos)*her13mDelay - r.Current(RatePDH13, pos)*her13 -
		2*r.Current(RateDAH13H13, pos)*her13*her13 + 2*r.Current(RateDDIH13H13, pos)*h1313 -
		r.Current(RateDAH1H13, pos)*her1*her13 + r.Current(RateDDIH1H13, pos)*h113 -
		r.Current(RateDAH7H13, pos)*her7*her13 + r.Current(RateDDIH7H13, pos)*h713

	newHer1 := her1 + eps*dHer1
	newHer7 := her7 + eps*dHer7
	newHer13 := her13 + eps*dHer13
	if newHer1 < 0 || newHer7 < 0 || newHer13 < 0 {
		return false
	}
	d.store.Set(SpeciesHer1, c, n, newHer1)
	d.store.Set(SpeciesHer7, c, n, newHer7)
	d.store.Set(SpeciesHer13, c, n, newHer13)

	// Delta protein: delayed synthesis from own mRNA, degradation.
	delta := prev(SpeciesDelta)
	dDelta := r.Current(RatePSDelta, pos)*deltaMDelay - r.Current(RatePDDelta, pos)*delta
	newDelta := delta + eps*dDelta
	if newDelta < 0 {
		return false
	}
	d.store.Set(SpeciesDelta, c, n, newDelta)

	// Dimers: association gain, dissociation loss, degradation loss.
	dH11 := r.Current(RateDAH1H1, pos)*her1*her1 - r.Current(RateDDIH1H1, pos)*h11 - r.Current(RateDDGH1H1, pos)*h11
	dH17 := r.Current(RateDAH1H7, pos)*her1*her7 - r.Current(RateDDIH1H7, pos)*h17 - r.Current(RateDDGH1H7, pos)*h17
	dH113 := r.Current(RateDAH1H13, pos)*her1*her13 - r.Current(RateDDIH1H13, pos)*h113 - r.Current(RateDDGH1H13, pos)*h113
	dH77 := r.Current(RateDAH7H7, pos)*her7*her7 - r.Current(RateDDIH7H7, pos)*h77 - r.Current(RateDDGH7H7, pos)*h77
	dH713 := r.Current(RateDAH7H13, pos)*her7*her13 - r.Current(RateDDIH7H13, pos)*h713 - r.Current(RateDDGH7H13, pos)*h713
	dH1313 := r.Current(RateDAH13H13, pos)*her13*her13 - r.Current(RateDDIH13H13, pos)*h1313 - r.Current(RateDDGH13H13, pos)*h1313

	newDimers := [6]float64{h11 + eps*dH11, h17 + eps*dH17, h113 + eps*dH113, h77 + eps*dH77, h713 + eps*dH713, h1313 + eps*dH1313}
	for _, v := range newDimers {
		if v < 0 {
			return false
		}
	}
	d.store.Set(SpeciesHer1Her1, c, n, newDimers[0])
	d.store.Set(SpeciesHer1Her7, c, n, newDimers[1])
	d.store.Set(SpeciesHer1Her13, c, n, newDimers[2])
	d.store.Set(SpeciesHer7Her7, c, n, newDimers[3])
	d.store.Set(SpeciesHer7Her13, c, n, newDimers[4])
	d.store.Set(SpeciesHer13Her13, c, n, newDimers[5])

	// Neighbour-averaged Delta inputs at each mRNA's delay (§4.3 step 4):
	// pre-delay steps contribute 0.
	avgDeltaMH1 := d.neighbourDelayedDelta(c, n, d.kMH1)
	avgDeltaMH7 := d.neighbourDelayedDelta(c, n, d.kMH7)
	avgDeltaMD := d.neighbourDelayedDelta(c, n, d.kMD)

	her1mPrev := prev(SpeciesHer1mRNA)
	her7mPrev := prev(SpeciesHer7mRNA)
	her13mPrev := prev(SpeciesHer13mRNA)
	deltaMPrev := prev(SpeciesDeltamRNA)

	h11Delay := d.store.Delayed(SpeciesHer1Her1, c, n, d.kMH1)
	h713DelayMH1 := d.store.Delayed(SpeciesHer7Her13, c, n, d.kMH1)
	h11DelayMH7 := d.store.Delayed(SpeciesHer1Her1, c, n, d.kMH7)
	h713DelayMH7 := d.store.Delayed(SpeciesHer7Her13, c, n, d.kMH7)
	h11DelayMD := d.store.Delayed(SpeciesHer1Her1, c, n, d.kMD)
	h713DelayMD := d.store.Delayed(SpeciesHer7Her13, c, n, d.kMD)

	x11MH1 := h11Delay / r.Current(RateCritPH1H1, pos)
	x713MH1 := h713DelayMH1 / r.Current(RateCritPH7H13, pos)
	yMH1 := avgDeltaMH1 / r.Current(RateCritPDelta, pos)
	synMH1 := hillRepressed(x11MH1, x713MH1, yMH1, r.Current(RateMSH1, pos))

	x11MH7 := h11DelayMH7 / r.Current(RateCritPH1H1, pos)
	x713MH7 := h713DelayMH7 / r.Current(RateCritPH7H13, pos)
	yMH7 := avgDeltaMH7 / r.Current(RateCritPDelta, pos)
	synMH7 := hillRepressed(x11MH7, x713MH7, yMH7, r.Current(RateMSH7, pos))

	x11MD := h11DelayMD / r.Current(RateCritPH1H1, pos)
	x713MD := h713DelayMD / r.Current(RateCritPH7H13, pos)
	synMD := hillDimerOnly(x11MD, x713MD, r.Current(RateMSDelta, pos))
	_ = avgDeltaMD // delta mRNA synthesis has no Delta-activation term (§4.5)

	dHer1m := synMH1 - r.Current(RateMDH1, pos)*her1mPrev
	dHer7m := synMH7 - r.Current(RateMDH7, pos)*her7mPrev
	dDeltaM := synMD - r.Current(RateMDDelta, pos)*deltaMPrev
	// her13 mRNA: constitutive synthesis, own degradation rate (resolves
	// Open Question (b): mdh13, not mdd, degrades her13 mRNA).
	dHer13m := r.Current(RateMSH13, pos) - r.Current(RateMDH13, pos)*her13mPrev

	newHer1m := her1mPrev + eps*dHer1m
	newHer7m := her7mPrev + eps*dHer7m
	newHer13m := her13mPrev + eps*dHer13m
	newDeltaM := deltaMPrev + eps*dDeltaM
	if newHer1m < 0 || newHer7m < 0 || newHer13m < 0 || newDeltaM < 0 {
		return false
	}
	d.store.Set(SpeciesHer1mRNA, c, n, newHer1m)
	d.store.Set(SpeciesHer7mRNA, c, n, newHer7m)
	d.store.Set(SpeciesHer13mRNA, c, n, newHer13m)
	d.store.Set(SpeciesDeltamRNA, c, n, newDeltaM)
	return true
}

// neighbourDelayedDelta averages Delta over c's neighbours at step n-k,
// returning 0 if n<=k (pre-delay quiescent history, §4.3/invariant 11).
func (d *det) neighbourDelayedDelta(c, n, k int) float64 {
	if n <= k {
		return 0
	}
	return d.topo.NeighbourMean(c, func(nb int) float64 {
		return d.store.Get(SpeciesDelta, nb, n-k)
	})
}

// underCap implements the optional propensity-cap guard (§4.3, §9 Open
// Question (c)): every stochastic propensity, evaluated against the current
// DET concentrations at step n, must stay at or below cfg.PropensityCap.
// Open Question (c) is resolved here by using the tissue-neighbour-averaged
// Delta for the Hill-regulated reactions, which coincides with "the other
// cell's Delta" in the two-cell case.
func (d *det) underCap(c, n int) bool {
	pos := d.gradPos
	var x [NumSpecies]float64
	for sp := 0; sp < NumSpecies; sp++ {
		x[sp] = d.store.Get(sp, c, n)
	}
	neighbourDelta := d.topo.NeighbourMean(c, func(nb int) float64 {
		return d.store.Get(SpeciesDelta, nb, n)
	})
	for k := 0; k < NumReactions; k++ {
		if reactionPropensity(d.rates, pos, x, neighbourDelta, k) > d.cfg.PropensityCap {
			return false
		}
	}
	return true
}
