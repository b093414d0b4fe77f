package sim

// TraceRing is the chunked output ring buffer described in §5/§6: sized to
// `minutes/granularity + 1` snapshots, flushed by the caller and, per the
// original's cadence, copying its last snapshot to index 0 as the new
// "previous" state once full and resuming writes at index 1. Grounded on
// original_source/stochastic/source/main.cpp's `chunk` bookkeeping.
type TraceRing struct {
	granularity float64
	chunk       int
	times       []float64
	values      [][]float64 // one []float64 (per-cell) row per recorded time
	next        int
	Flushes     int
}

// NewTraceRing sizes a ring for the given horizon and granularity.
func NewTraceRing(minutes, granularity float64, cells int) *TraceRing {
	chunk := int(minutes/granularity) + 1
	if chunk < 1 {
		chunk = 1
	}
	return &TraceRing{
		granularity: granularity,
		chunk:       chunk,
		times:       make([]float64, chunk),
		values:      make([][]float64, chunk),
	}
}

// Record appends one snapshot (time + per-cell level), wrapping to index 1
// (not 0) once the ring fills, so the just-written last snapshot becomes the
// new "previous" state at index 0 for continuity across flush boundaries.
func (r *TraceRing) Record(t float64, perCell []float64) {
	if r.next >= r.chunk {
		r.Flushes++
		r.times[0] = r.times[r.chunk-1]
		r.values[0] = r.values[r.chunk-1]
		r.next = 1
	}
	r.times[r.next] = t
	r.values[r.next] = perCell
	r.next++
}

// Rows returns the recorded (time, per-cell values) pairs written so far in
// the current chunk, in order.
func (r *TraceRing) Rows() ([]float64, [][]float64) {
	return r.times[:r.next], r.values[:r.next]
}
