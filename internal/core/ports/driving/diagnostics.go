package driving

import "github.com/orolle/crp-aide/internal/core/domain"

// Diagnostics exposes the estimation and convergence operations
// consumed by the CLI and report tooling.
type Diagnostics interface {
	// Estimate reduces weighted samples to a normalized probability mass
	// function over the observed cluster counts.
	Estimate(samples []domain.WeightedSample) (map[int]float64, error)

	// Curve computes the KL divergence of growing sample prefixes against
	// a reference posterior.
	Curve(samples []domain.WeightedSample, ref domain.ReferencePosterior,
		prefixSizes []int) ([]domain.DivergencePoint, error)
}
