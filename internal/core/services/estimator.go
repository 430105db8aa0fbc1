package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// Estimate reduces weighted samples to a normalized probability mass
// function over the observed cluster counts, keyed by cluster count.
//
// Importance weights from sequential Monte Carlo span many orders of
// magnitude, so normalization happens in log space: each sample
// contributes exp(logWeight - logsumexp(all logWeights)), and weights of
// repeated values accumulate. The map carries no key order; callers
// aligning against an ordinal reference support must sort or index keys
// themselves.
func Estimate(samples []domain.WeightedSample) (map[int]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: estimator needs at least one weighted sample",
			domain.ErrEmptyInput)
	}

	logWeights := make([]float64, len(samples))
	for i, s := range samples {
		logWeights[i] = s.LogWeight
	}
	logZ := floats.LogSumExp(logWeights)

	pmf := make(map[int]float64)
	for i, s := range samples {
		pmf[s.NumClusters] += math.Exp(logWeights[i] - logZ)
	}
	return pmf, nil
}
