// Package domain defines the core entities of the crp-aide pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Hyperparams: CRP concentration and Normal-Gamma prior parameters
//   - WeightedSample: one particle's cluster count and log-importance-weight
//   - ReferencePosterior: ground-truth distribution over cluster counts
//   - RunResult: output of a single generative run
//   - Experiment: a persisted experiment definition
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
