// Package sim implements the deterministic (DET) and stochastic (STO) cores
// of the zebrafish segmentation clock model: a small reaction network of
// mRNAs, proteins, dimers and intercellular Delta signalling on a 1- or
// 2-dimensional lattice of cells.
//
// # Reading Guide
//
// Start with these files to understand the model:
//   - species.go: the 14-species, 45-rate data model shared by both cores
//   - rates.go: rate vectors and per-position gradients (C1)
//   - topology.go: cell neighbour maps for two-cell, chain and tissue layouts (C2)
//   - concstore.go: the DET concentration history (C3)
//   - det.go: the fixed-step Euler DDE integrator (C4)
//   - sto_state.go, sto_queue.go, sto_scheduler.go: the Anderson next-reaction
//     / Cao tau-leap hybrid (C5)
//   - propensity.go: the 34 analytic propensity formulas and their
//     dependency-keyed incremental updates (C6)
//   - features.go: oscillation feature extraction (C7)
//   - mutants.go: the mutant acceptance battery (C8)
//
// # Architecture
//
// Both cores share the rate/gradient store, the topology, and the
// propensity formulas; they differ only in how they advance time (fixed
// Euler step vs. adaptive next-reaction/tau-leap) and in their state
// representation (ConcStore's dense history vs. STOState's live counts).
// RunContext (config.go) carries the PRNG and run identity through the core
// without otherwise polluting its scientific inputs.
package sim
