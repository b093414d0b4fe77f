package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraceRing_SizesChunkFromHorizon(t *testing.T) {
	r := NewTraceRing(10, 2, 3)
	assert.Equal(t, 6, r.chunk) // int(10/2)+1
	times, values := r.Rows()
	assert.Len(t, times, 0)
	assert.Len(t, values, 0)
}

func TestTraceRing_RecordAppendsInOrder(t *testing.T) {
	r := NewTraceRing(10, 2, 1)
	r.Record(0, []float64{1})
	r.Record(2, []float64{2})
	times, values := r.Rows()
	assert.Equal(t, []float64{0, 2}, times)
	assert.Equal(t, [][]float64{{1}, {2}}, values)
}

func TestTraceRing_WrapsToIndexOneWhenFull(t *testing.T) {
	// chunk = int(4/2)+1 = 3.
	r := NewTraceRing(4, 2, 1)
	r.Record(0, []float64{10})
	r.Record(2, []float64{20})
	r.Record(4, []float64{30}) // fills the chunk
	assert.Equal(t, 0, r.Flushes)

	r.Record(6, []float64{40}) // triggers a wrap
	assert.Equal(t, 1, r.Flushes)

	times, values := r.Rows()
	// Index 0 now holds the just-written last snapshot (t=4), and the new
	// record landed at index 1.
	assert.Equal(t, []float64{4, 6}, times)
	assert.Equal(t, [][]float64{{30}, {40}}, values)
}

func TestNewTraceRing_DegenerateGranularityStillAllocatesOneSlot(t *testing.T) {
	r := NewTraceRing(0, 1, 1)
	r.Record(0, []float64{1})
	times, _ := r.Rows()
	assert.Len(t, times, 1)
}
