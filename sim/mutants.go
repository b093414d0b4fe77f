package sim

// MutantName identifies one of the five zeroed-rate variants plus wild type.
type MutantName string

const (
	MutantWild       MutantName = "wt"
	MutantDelta      MutantName = "delta"
	MutantHer13      MutantName = "her13"
	MutantHer1       MutantName = "her1"
	MutantHer7       MutantName = "her7"
	MutantHer7Her13  MutantName = "her713"
)

// mutantOrder is the fixed sequence prescribed by §4.7.
var mutantOrder = []MutantName{MutantWild, MutantDelta, MutantHer13, MutantHer1, MutantHer7, MutantHer7Her13}

// zeroedRates lists, per mutant, the rate indices temporarily set to zero.
var zeroedRates = map[MutantName][]int{
	MutantWild:      nil,
	MutantDelta:     {RatePSDelta},
	MutantHer13:     {RatePSH13},
	MutantHer1:      {RatePSH1},
	MutantHer7:      {RatePSH7},
	MutantHer7Her13: {RatePSH7, RatePSH13},
}

// MutantResult records one mutant's simulated features and acceptance.
type MutantResult struct {
	Name     MutantName
	Features Features
	Aborted  bool // true if the simulation itself failed (negativity/cap)
}

// BatteryResult is the outcome of running the full mutant battery on one
// parameter set.
type BatteryResult struct {
	Results  map[MutantName]MutantResult
	Accepted bool
}

// Simulate runs one parameterization (DET or STO, chosen by the caller) and
// returns the her1-mRNA-at-cell-0 trace plus whether the run completed.
// RunBattery is generic over this so the mutant battery works identically
// for both cores (§9 "Polymorphism over DET/STO").
type Simulate func(rates *Rates) (trace []float64, epsilon float64, ok bool)

// RunBattery executes the wild-then-five-mutants sequence of §4.7, applying
// and restoring each mutant's zeroed rates around the call to simulate.
// scanMid should be true only for the wild-type run (§4.6).
func RunBattery(base *Rates, simulate Simulate) (BatteryResult, error) {
	result := BatteryResult{Results: make(map[MutantName]MutantResult, len(mutantOrder))}

	var wildFeatures Features
	for _, name := range mutantOrder {
		restore := applyMutant(base, name)
		trace, epsilon, ok := simulate(base)
		restore()

		if !ok {
			result.Results[name] = MutantResult{Name: name, Aborted: true}
			result.Accepted = false
			return result, nil
		}

		f := ExtractFeatures(trace, epsilon, name == MutantWild)
		result.Results[name] = MutantResult{Name: name, Features: f}

		if name == MutantWild {
			if !WildPredicate(f) {
				result.Accepted = false
				return result, nil
			}
			wildFeatures = f
			continue
		}
		if !mutantPredicate(name, f, wildFeatures) {
			result.Accepted = false
			return result, nil
		}
	}
	result.Accepted = true
	return result, nil
}

// applyMutant zeroes the rates for name and returns a closure that restores
// their original values.
func applyMutant(rates *Rates, name MutantName) func() {
	idxs := zeroedRates[name]
	if len(idxs) == 0 {
		return func() {}
	}
	saved := make([]float64, len(idxs))
	for i, idx := range idxs {
		saved[i] = rates.Base[idx]
		rates.Base[idx] = 0
	}
	return func() {
		for i, idx := range idxs {
			rates.Base[idx] = saved[i]
		}
	}
}

// mutantPredicate implements the glossary's period-ratio bands.
func mutantPredicate(name MutantName, mutant, wild Features) bool {
	if wild.Period == 0 {
		return false
	}
	ratio := mutant.Period / wild.Period
	switch name {
	case MutantHer1, MutantHer7:
		return ratio > 0.97 && ratio < 1.03
	case MutantHer13, MutantHer7Her13:
		return ratio > 1.03 && ratio < 1.09
	case MutantDelta:
		return ratio > 1.04 && ratio < 1.30
	default:
		return false
	}
}
