package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcStore_SetGet(t *testing.T) {
	cs := NewConcStore(2, 5)
	cs.Set(SpeciesHer1mRNA, 1, 3, 7.5)
	assert.Equal(t, 7.5, cs.Get(SpeciesHer1mRNA, 1, 3))
	assert.Equal(t, 0.0, cs.Get(SpeciesHer1mRNA, 0, 3))
}

func TestConcStore_Delayed_ZeroBeforeHistoryExists(t *testing.T) {
	// Invariant 11: for step n <= k, a delayed read with delay k is 0,
	// as if the pre-start history were quiescent.
	cs := NewConcStore(1, 20)
	for n := 0; n < 20; n++ {
		cs.Set(SpeciesHer1, 0, n, 100)
	}
	k := 5
	assert.Equal(t, 0.0, cs.Delayed(SpeciesHer1, 0, 0, k))
	assert.Equal(t, 0.0, cs.Delayed(SpeciesHer1, 0, k, k))
	assert.Equal(t, 100.0, cs.Delayed(SpeciesHer1, 0, k+1, k))
}

func TestConcStore_Delayed_ReadsExactOffset(t *testing.T) {
	cs := NewConcStore(1, 10)
	for n := 0; n < 10; n++ {
		cs.Set(SpeciesDelta, 0, n, float64(n))
	}
	assert.Equal(t, 4.0, cs.Delayed(SpeciesDelta, 0, 9, 5))
}

func TestConcStore_Trace_ReturnsFullHorizon(t *testing.T) {
	cs := NewConcStore(1, 4)
	cs.Set(SpeciesHer1mRNA, 0, 0, 1)
	cs.Set(SpeciesHer1mRNA, 0, 1, 2)
	cs.Set(SpeciesHer1mRNA, 0, 2, 3)
	cs.Set(SpeciesHer1mRNA, 0, 3, 4)
	assert.Equal(t, []float64{1, 2, 3, 4}, cs.Trace(SpeciesHer1mRNA, 0))
}

func TestConcStore_CellsAndSteps(t *testing.T) {
	cs := NewConcStore(3, 7)
	assert.Equal(t, 3, cs.Cells())
	assert.Equal(t, 7, cs.Steps())
}
