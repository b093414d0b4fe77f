package sim

// queueNode is an id-leaped delay-queue entry: `firings` discrete
// completions due to land within `span` minutes starting at `earliest`.
// Grounded on original_source/stochastic/source/rq-node.h's rq_node, widened
// with an explicit `earliest` field (the original tracks front-of-queue time
// implicitly via a separate deque of absolute times; folding it into the
// node keeps the merge/drain logic self-contained).
type queueNode struct {
	earliest float64
	firings  float64
	span     float64
}

// DelayQueue is the per-(cell, delayed-reaction) FIFO of firing-ready
// windows, merged via id-leaping when consecutive windows share a similar
// firing rate (§4.4, §9 "Cyclic delay dependencies").
type DelayQueue struct {
	nodes []queueNode
}

// Len reports the number of distinct (possibly merged) queue nodes.
func (q *DelayQueue) Len() int { return len(q.nodes) }

// TotalFirings sums firings across every node, invariant-checked by
// "merging preserves Σ firings" (invariant 3, §8).
func (q *DelayQueue) TotalFirings() float64 {
	total := 0.0
	for _, n := range q.nodes {
		total += n.firings
	}
	return total
}

// Front returns the earliest pending firing time and whether the queue is
// non-empty, used by the Anderson next-reaction Δ computation (§4.4).
func (q *DelayQueue) Front() (float64, bool) {
	if len(q.nodes) == 0 {
		return 0, false
	}
	return q.nodes[0].earliest, true
}

// PopOne removes a single completion from the queue's front node (used by
// pure next-reaction stepping, where delayed reactions complete one firing
// at a time). Returns false if the queue was empty.
func (q *DelayQueue) PopOne() bool {
	if len(q.nodes) == 0 {
		return false
	}
	q.nodes[0].firings--
	if q.nodes[0].firings <= 0 {
		q.nodes = q.nodes[1:]
		return true
	}
	// Single discrete completion consumed; the node's span no longer
	// matters for a single-firing pop, only firings count.
	return true
}

// Push enqueues newly-completed-at-delay firings, merging into the current
// tail node when its firing rate is within beta of the new batch's rate
// (id-leaping, §4.4/§9 glossary). readyAt is the firing-ready time for this
// batch (T + delay); span is the window over which the firings are spread
// (0 for a pure next-reaction single completion, tau for a tau-leap batch).
func (q *DelayQueue) Push(firings, readyAt, span, beta float64) {
	if firings <= 0 {
		return
	}
	if span <= 0 {
		// A next-reaction single completion lands at exactly readyAt, so it
		// gets its own node (near-zero span avoids division by zero later)
		// instead of joining the tail's window.
		q.nodes = append(q.nodes, queueNode{earliest: readyAt, firings: firings, span: 1e-12})
		return
	}
	if n := len(q.nodes); n > 0 {
		tail := &q.nodes[n-1]
		newRatio := firings / span
		tailRatio := tail.firings / tail.span
		if tailRatio == 0 {
			tailRatio = newRatio
		}
		if abs(newRatio-tailRatio) < beta*tailRatio {
			tail.firings += firings
			tail.span += span
			return
		}
	}
	q.nodes = append(q.nodes, queueNode{earliest: readyAt, firings: firings, span: span})
}

// Drain applies binomial thinning to every node whose window starts before
// target (T+tau): draw kd ~ Binomial(firings, min(target-earliest,span)/span)
// via rng, shrink the node accordingly, and report the total kd across all
// drained nodes (the caller applies that many completions to the delayed
// reaction's target species). Grounded on main.cpp's delay-queue drain loop.
func (q *DelayQueue) Drain(target float64, rng *PartitionedRNG) float64 {
	total := 0.0
	kept := q.nodes[:0]
	for _, n := range q.nodes {
		if n.earliest >= target {
			kept = append(kept, n)
			continue
		}
		window := target - n.earliest
		if window > n.span {
			window = n.span
		}
		prob := window / n.span
		kd := rng.Binomial(n.firings, prob)
		total += kd
		n.firings -= kd
		n.span -= window
		n.earliest = target
		if n.firings > 0 {
			kept = append(kept, n)
		}
	}
	q.nodes = kept
	return total
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
