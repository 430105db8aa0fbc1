package services

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// GenerativeModel simulates the CRP Gaussian-mixture prior over an
// observation sequence. One Run is one particle: it owns a fresh partition
// and component cache, realizes a label per observation and accumulates
// the unnormalized log-likelihood the inference engine turns into a
// particle weight.
type GenerativeModel struct{}

// NewGenerativeModel creates a generative model service.
func NewGenerativeModel() *GenerativeModel {
	return &GenerativeModel{}
}

// Run executes one generative pass over observations with the given
// hyperparameters. For each observation in order it samples a cluster
// label from the CRP conditional, scores the observation under that
// label's (lazily drawn) Normal component, and seats the observation.
//
// Run performs no resampling or reweighting; errors from sub-components
// propagate immediately and invalidate the whole run.
func (g *GenerativeModel) Run(
	observations []float64, hp domain.Hyperparams, src rand.Source,
) (*domain.RunResult, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: observation sequence is empty", domain.ErrInvalidParameter)
	}
	if err := hp.Validate(); err != nil {
		return nil, err
	}

	partition, err := NewPartition(hp.Alpha, src)
	if err != nil {
		return nil, err
	}
	cache := newComponentCache(hp, src)

	labels := make([]int, 0, len(observations))
	logLik := 0.0

	for i, obs := range observations {
		label := partition.Propose()

		comp, err := cache.getOrCreate(label)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		logLik += score(comp, obs)

		if err := partition.Absorb(label); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		labels = append(labels, label)
	}

	return &domain.RunResult{
		Labels:        labels,
		NumClusters:   partition.NumLabels(),
		LogLikelihood: logLik,
	}, nil
}
