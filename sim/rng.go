package sim

import (
	"hash/fnv"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results (invariant 6, §8).
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem constants ===

// Each subsystem gets its own deterministically-seeded *rand.Rand so that,
// e.g., the number of Poisson draws a tau-leap makes never shifts the
// sequence of NRM Pk targets.
const (
	subsystemNRM      = "nrm"      // Anderson next-reaction Pk draws
	subsystemTauLeap  = "tauleap"  // Poisson firing counts
	subsystemQueue    = "queue"    // delay-queue binomial thinning
	subsystemCritical = "critical" // critical-reaction exponential clock + pick
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. A simulation owns exactly one
// PartitionedRNG and runs on a single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === Domain distributions (STO hybrid scheduler, §4.4) ===

// NextPk draws a new Anderson next-reaction internal firing target,
// `log(1/U)` with U uniform on (0,1). Kept as a bare transform on
// math/rand rather than a gonum distribution: it's the standard NRM
// reparametrization of Exp(1), not a named distribution in its own right.
func (p *PartitionedRNG) NextPk() float64 {
	rng := p.ForSubsystem(subsystemNRM)
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return math.Log(1 / u)
}

// Poisson draws a tau-leap firing count for a non-critical reaction,
// mean = a[i,k]*tau.
func (p *PartitionedRNG) Poisson(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	d := distuv.Poisson{Lambda: mean, Src: p.ForSubsystem(subsystemTauLeap)}
	return d.Rand()
}

// Binomial draws the delay-queue thinning count kd ~ Binomial(n, prob).
func (p *PartitionedRNG) Binomial(n, prob float64) float64 {
	if n <= 0 || prob <= 0 {
		return 0
	}
	if prob >= 1 {
		return n
	}
	d := distuv.Binomial{N: n, P: prob, Src: p.ForSubsystem(subsystemQueue)}
	return d.Rand()
}

// Exponential draws the tau2 candidate, Exp(rate) (rate = a0_crit), or +Inf
// if rate is 0 (no critical reactions pending).
func (p *PartitionedRNG) Exponential(rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	d := distuv.Exponential{Rate: rate, Src: p.ForSubsystem(subsystemCritical)}
	return d.Rand()
}

// UniformUnit draws U uniform on [0,1), used for the cumulative-probability
// critical-reaction pick (§4.4, "tau=tau2" firing selection).
func (p *PartitionedRNG) UniformUnit() float64 {
	return p.ForSubsystem(subsystemCritical).Float64()
}
