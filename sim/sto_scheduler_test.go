package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSTO_RejectsNonPositiveHorizon(t *testing.T) {
	topo, err := NewTopology(2, 1)
	require.NoError(t, err)
	rates, err := NewRates(baseRateVector())
	require.NoError(t, err)

	_, err = RunSTO(rates, topo, STOConfig{Minutes: 0}, [NumSpecies]float64{}, NewPartitionedRNG(NewSimulationKey(1)))
	assert.Error(t, err)
}

func TestRunSTO_TwoCell_NonNegativeAndConserved(t *testing.T) {
	// Invariants 1 and 2, smoke-tested over a short horizon on the cheapest
	// topology (S3/S4-style scenario): species counts never go negative, and
	// the propensity sum tracks the per-cell sum throughout.
	topo, err := NewTopology(2, 1)
	require.NoError(t, err)
	rates, err := NewRates(baseRateVector())
	require.NoError(t, err)

	var initial [NumSpecies]float64
	initial[SpeciesHer1mRNA] = 5
	initial[SpeciesDelta] = 5

	cfg := STOConfig{Minutes: 5, Approximate: true, Granularity: 1, Level: SpeciesHer1mRNA}
	result, err := RunSTO(rates, topo, cfg, initial, NewPartitionedRNG(NewSimulationKey(11)))
	require.NoError(t, err)
	require.True(t, result.OK)

	for c := 0; c < result.State.Topo.Cells(); c++ {
		for j := 0; j < NumSpecies; j++ {
			assert.GreaterOrEqual(t, result.State.X[c][j], 0.0, "cell %d species %d went negative", c, j)
		}
	}

	want := 0.0
	for c := range result.State.A {
		for k := 0; k < NumReactions; k++ {
			want += result.State.A[c][k]
		}
	}
	assert.InDelta(t, want, result.State.A0, 1e-6*maxOf(want, 1))
}

func TestRunSTO_MaxTimestepsCapsStepCount(t *testing.T) {
	topo, err := NewTopology(2, 1)
	require.NoError(t, err)
	rates, err := NewRates(baseRateVector())
	require.NoError(t, err)

	var initial [NumSpecies]float64
	initial[SpeciesHer1mRNA] = 5
	cfg := STOConfig{Minutes: 10000, MaxTimesteps: 3, Approximate: false, Granularity: 1}
	result, err := RunSTO(rates, topo, cfg, initial, NewPartitionedRNG(NewSimulationKey(2)))
	require.NoError(t, err)
	assert.False(t, result.OK, "hitting the step cap before the horizon should report !OK")
	assert.Less(t, result.State.T, cfg.Minutes)
}

func TestRunSTO_PureNextReaction_Deterministic(t *testing.T) {
	// Invariant 6: identical seed and configuration reproduce bit-identical
	// results.
	topo, err := NewTopology(2, 1)
	require.NoError(t, err)
	rates, err := NewRates(baseRateVector())
	require.NoError(t, err)

	var initial [NumSpecies]float64
	initial[SpeciesHer1mRNA] = 5
	cfg := STOConfig{Minutes: 3, Approximate: false, Granularity: 0.5, Level: SpeciesHer1mRNA}

	r1, err := RunSTO(rates, topo, cfg, initial, NewPartitionedRNG(NewSimulationKey(99)))
	require.NoError(t, err)
	r2, err := RunSTO(rates, topo, cfg, initial, NewPartitionedRNG(NewSimulationKey(99)))
	require.NoError(t, err)

	assert.Equal(t, r1.State.X, r2.State.X)
	assert.Equal(t, r1.State.T, r2.State.T)
}

func TestHor_HigherOrderSpeciesGetNonUnitBound(t *testing.T) {
	assert.Greater(t, hor(SpeciesHer1, 10), 1.0)
	assert.Equal(t, 1.0, hor(SpeciesHer1mRNA, 10))
}
