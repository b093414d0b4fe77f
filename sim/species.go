package sim

// Species indices. Contractual: STO's update tables are keyed by these exact
// positions (§3 of the spec).
const (
	SpeciesHer1mRNA = iota
	SpeciesHer7mRNA
	SpeciesHer13mRNA
	SpeciesDeltamRNA
	SpeciesHer1
	SpeciesHer7
	SpeciesHer13
	SpeciesDelta
	SpeciesHer1Her1
	SpeciesHer1Her7
	SpeciesHer1Her13
	SpeciesHer7Her7
	SpeciesHer7Her13
	SpeciesHer13Her13
	NumSpecies
)

// SpeciesNames gives the canonical name for each species index. The -l flag
// selects the output concentration level by index, not by these names.
var SpeciesNames = [NumSpecies]string{
	"her1", "her7", "her13", "delta",
	"Her1", "Her7", "Her13", "Delta",
	"Her1Her1", "Her1Her7", "Her1Her13", "Her7Her7", "Her7Her13", "Her13Her13",
}

// Rate vector indices (45 named scalars), in the canonical CSV order.
const (
	RateMSH1 = iota
	RateMSH7
	RateMSH13
	RateMSDelta

	RateMDH1
	RateMDH7
	RateMDH13
	RateMDDelta

	RatePSH1
	RatePSH7
	RatePSH13
	RatePSDelta

	RatePDH1
	RatePDH7
	RatePDH13
	RatePDDelta

	RateDAH1H1
	RateDAH1H7
	RateDAH1H13
	RateDAH7H7
	RateDAH7H13
	RateDAH13H13

	RateDDIH1H1
	RateDDIH1H7
	RateDDIH1H13
	RateDDIH7H7
	RateDDIH7H13
	RateDDIH13H13

	RateDDGH1H1
	RateDDGH1H7
	RateDDGH1H13
	RateDDGH7H7
	RateDDGH7H13
	RateDDGH13H13

	RateDelayMH1
	RateDelayMH7
	RateDelayMH13 // sentinel: her13 transcription is not delayed or Hill-regulated
	RateDelayMDelta

	RateDelayPH1
	RateDelayPH7
	RateDelayPH13
	RateDelayPDelta

	RateCritPH1H1
	RateCritPH7H13
	RateCritPDelta

	NumRates
)

// RateNames mirrors the canonical CSV column order (§3, §6).
var RateNames = [NumRates]string{
	"msh1", "msh7", "msh13", "msd",
	"mdh1", "mdh7", "mdh13", "mdd",
	"psh1", "psh7", "psh13", "psd",
	"pdh1", "pdh7", "pdh13", "pdd",
	"dah1h1", "dah1h7", "dah1h13", "dah7h7", "dah7h13", "dah13h13",
	"ddh1h1", "ddh1h7", "ddh1h13", "ddh7h7", "ddh7h13", "ddh13h13",
	"ddgh1h1", "ddgh1h7", "ddgh1h13", "ddgh7h7", "ddgh7h13", "ddgh13h13",
	"delaymh1", "delaymh7", "delaymh13", "delaymd",
	"delayph1", "delayph7", "delayph13", "delaypd",
	"critph1h1", "critph7h13", "critpd",
}

// NumReactions is the number of STO reactions (C5/C6), and NumDelayedReactions
// the subset of those that fire with a delay.
const (
	NumReactions        = 34
	NumDelayedReactions  = 7
)

// DelayedReactions lists, in order, the reaction index of each delayed
// reaction. Grounded on original_source/stochastic/source/main.cpp's
// delayed_reactions array.
var DelayedReactions = [NumDelayedReactions]int{0, 8, 14, 24, 26, 28, 32}

// DelayedTargetSpecies gives, for each entry of DelayedReactions (by
// position, not reaction index), the species incremented when that delayed
// firing completes.
var DelayedTargetSpecies = [NumDelayedReactions]int{
	SpeciesHer1, SpeciesHer7, SpeciesHer13, SpeciesDelta,
	SpeciesHer1mRNA, SpeciesHer7mRNA, SpeciesDeltamRNA,
}

// DelayRateIndex gives, for each entry of DelayedReactions (by position),
// the rate index holding that reaction's delay.
var DelayRateIndex = [NumDelayedReactions]int{
	RateDelayPH1, RateDelayPH7, RateDelayPH13, RateDelayPDelta,
	RateDelayMH1, RateDelayMH7, RateDelayMDelta,
}

// delayedReactionPosition maps a reaction index to its position in
// DelayedReactions, or -1 if the reaction isn't delayed.
var delayedReactionPosition = buildDelayedReactionPosition()

func buildDelayedReactionPosition() [NumReactions]int {
	var m [NumReactions]int
	for i := range m {
		m[i] = -1
	}
	for d, k := range DelayedReactions {
		m[k] = d
	}
	return m
}

// IsDelayed reports whether reaction k is one of the 7 delayed reactions and,
// if so, its position in DelayedReactions.
func IsDelayed(k int) (pos int, delayed bool) {
	pos = delayedReactionPosition[k]
	return pos, pos >= 0
}

// PartialEquilibriumPair maps an association/dissociation reaction index to
// its pair's index, or -1 if the reaction has no pair. Grounded on
// original_source/stochastic/source/main.cpp's par_eq_pairs array.
var PartialEquilibriumPair = [NumReactions]int{
	-1, -1, 3, 2, 5, 4, 7, 6, -1, -1, 11, 10, 13, 12, -1, -1, 17, 16,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
}

// SpeciesUpdate gives the signed per-firing update to species j from
// reaction k, u[j,k] in the spec's notation. Grounded on
// original_source/stochastic/source/main.cpp's species_update_values table.
var SpeciesUpdate = [NumSpecies][NumReactions]int{
	// her1 mRNA
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, 0},
	// her7 mRNA
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0},
	// her13 mRNA
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0},
	// delta mRNA
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1},
	// Her1 protein
	{1, -1, -2, 2, -1, 1, -1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her7 protein
	{0, 0, 0, 0, -1, 1, 0, 0, 1, -1, -2, 2, -1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her13 protein
	{0, 0, 0, 0, 0, 0, -1, 1, 0, 0, 0, 0, -1, 1, 1, -1, -2, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Delta protein
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her1-Her1 dimer
	{0, 0, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her1-Her7 dimer
	{0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her1-Her13 dimer
	{0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her7-Her7 dimer
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her7-Her13 dimer
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	// Her13-Her13 dimer
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// nonDelayedUpdateSpecies lists, for each non-delayed reaction, the species
// indices it touches. nrmStep does not use it; it scans SpeciesUpdate over
// all 14 species. Delayed reactions (which update
// exactly one species, on completion) are handled separately via
// DelayedTargetSpecies and carry an empty list here.
var nonDelayedUpdateSpecies = buildNonDelayedUpdateSpecies()

func buildNonDelayedUpdateSpecies() [NumReactions][]int {
	var out [NumReactions][]int
	for k := 0; k < NumReactions; k++ {
		if _, delayed := IsDelayed(k); delayed {
			continue
		}
		var js []int
		for j := 0; j < NumSpecies; j++ {
			if SpeciesUpdate[j][k] != 0 {
				js = append(js, j)
			}
		}
		out[k] = js
	}
	return out
}
