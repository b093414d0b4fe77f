package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopology_TwoCell(t *testing.T) {
	topo, err := NewTopology(2, 1)
	require.NoError(t, err)
	assert.Equal(t, StructureTwoCell, topo.Structure)
	assert.Equal(t, 2, topo.Cells())
	assert.Equal(t, []int{1}, topo.Neighbours(0))
	assert.Equal(t, []int{0}, topo.Neighbours(1))
}

func TestNewTopology_Chain_WrapsAtBoundary(t *testing.T) {
	// Invariant 9: chain at W=3, cell 0 has neighbours {2,1}, wrapping.
	topo, err := NewTopology(3, 1)
	require.NoError(t, err)
	assert.Equal(t, StructureChain, topo.Structure)
	assert.ElementsMatch(t, []int{2, 1}, topo.Neighbours(0))
}

func TestNewTopology_Tissue_SixDistinctNeighboursNoSelf(t *testing.T) {
	// Invariant 10: tissue W=4,H=4, every cell's 6 neighbours are distinct
	// and none equals the cell itself.
	topo, err := NewTopology(4, 4)
	require.NoError(t, err)
	assert.Equal(t, StructureTissue, topo.Structure)
	for c := 0; c < topo.Cells(); c++ {
		ns := topo.Neighbours(c)
		assert.Len(t, ns, 6, "cell %d", c)
		seen := make(map[int]bool, len(ns))
		for _, n := range ns {
			assert.NotEqual(t, c, n, "cell %d lists itself as a neighbour", c)
			assert.False(t, seen[n], "cell %d has duplicate neighbour %d", c, n)
			seen[n] = true
		}
	}
}

func TestNewTopology_NeighbourMapSymmetry(t *testing.T) {
	// Invariant 4: if j in neighbours(i), then i in neighbours(j).
	topo, err := NewTopology(4, 4)
	require.NoError(t, err)
	for i := 0; i < topo.Cells(); i++ {
		for _, j := range topo.Neighbours(i) {
			assert.Contains(t, topo.Neighbours(j), i, "neighbour map not symmetric for (%d,%d)", i, j)
		}
	}
}

func TestNewTopology_InvalidDimensions(t *testing.T) {
	cases := [][2]int{{1, 1}, {3, 2}, {5, 5}, {0, 0}}
	for _, c := range cases {
		_, err := NewTopology(c[0], c[1])
		assert.Error(t, err, "W=%d H=%d should be rejected", c[0], c[1])
	}
}

func TestTopology_NeighbourMean(t *testing.T) {
	topo, err := NewTopology(2, 1)
	require.NoError(t, err)
	values := []float64{10, 20}
	assert.Equal(t, 20.0, topo.NeighbourMean(0, func(c int) float64 { return values[c] }))
	assert.Equal(t, 10.0, topo.NeighbourMean(1, func(c int) float64 { return values[c] }))
}
