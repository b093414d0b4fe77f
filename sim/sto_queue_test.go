package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayQueue_PushAndFront(t *testing.T) {
	q := &DelayQueue{}
	_, ok := q.Front()
	assert.False(t, ok)

	q.Push(3, 10.0, 2.0, 0.1)
	front, ok := q.Front()
	require.True(t, ok)
	assert.Equal(t, 10.0, front)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 3.0, q.TotalFirings())
}

func TestDelayQueue_Push_MergesSimilarRateIntoTail(t *testing.T) {
	q := &DelayQueue{}
	q.Push(10, 5.0, 1.0, 0.5) // rate 10
	q.Push(10, 5.0, 1.0, 0.5) // same rate -> merges
	assert.Equal(t, 1, q.Len(), "batches with near-identical firing rates should merge")
	assert.Equal(t, 20.0, q.TotalFirings(), "merging must preserve total firings")
}

func TestDelayQueue_Push_SplitsDissimilarRate(t *testing.T) {
	q := &DelayQueue{}
	q.Push(100, 5.0, 1.0, 0.01) // rate 100
	q.Push(1, 5.0, 1.0, 0.01)   // rate 1, far outside beta tolerance
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 101.0, q.TotalFirings())
}

func TestDelayQueue_Push_IgnoresNonPositiveFirings(t *testing.T) {
	q := &DelayQueue{}
	q.Push(0, 5.0, 1.0, 0.1)
	q.Push(-1, 5.0, 1.0, 0.1)
	assert.Equal(t, 0, q.Len())
}

func TestDelayQueue_PopOne_DrainsNodeAndAdvances(t *testing.T) {
	q := &DelayQueue{}
	q.Push(2, 1.0, 1.0, 0.1)
	q.Push(100, 5.0, 1.0, 0.0001) // distinct rate, separate node
	require.Equal(t, 2, q.Len())

	assert.True(t, q.PopOne())
	assert.Equal(t, 2, q.Len(), "one firing remains in the front node")
	assert.True(t, q.PopOne())
	assert.Equal(t, 1, q.Len(), "front node exhausted and removed")
}

func TestDelayQueue_PopOne_EmptyIsFalse(t *testing.T) {
	q := &DelayQueue{}
	assert.False(t, q.PopOne())
}

func TestDelayQueue_TotalFirings_PreservedAcrossDrain(t *testing.T) {
	// Invariant 3: draining only redistributes firings between "completed
	// now" and "remaining in queue" - it never creates or destroys them.
	q := &DelayQueue{}
	q.Push(50, 0.0, 10.0, 0.1)
	before := q.TotalFirings()

	prng := NewPartitionedRNG(NewSimulationKey(7))
	kd := q.Drain(5.0, prng)

	after := q.TotalFirings()
	assert.InDelta(t, before, after+kd, 1e-9)
}

func TestDelayQueue_Drain_LeavesFutureNodesUntouched(t *testing.T) {
	q := &DelayQueue{}
	q.Push(10, 100.0, 1.0, 0.1) // window starts well after target
	prng := NewPartitionedRNG(NewSimulationKey(1))
	kd := q.Drain(1.0, prng)
	assert.Equal(t, 0.0, kd)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 10.0, q.TotalFirings())
}

func TestDelayQueue_Drain_FullyConsumedNodeIsRemoved(t *testing.T) {
	q := &DelayQueue{}
	q.Push(10, 0.0, 1.0, 0.1)
	prng := NewPartitionedRNG(NewSimulationKey(1))
	// target far beyond the node's span -> prob clamps to 1, all firings drawn.
	kd := q.Drain(1000.0, prng)
	assert.Equal(t, 10.0, kd)
	assert.Equal(t, 0, q.Len())
}
