package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/orolle/crp-aide/internal/core/domain"
	"github.com/orolle/crp-aide/internal/core/ports/driven"
	"github.com/orolle/crp-aide/internal/core/ports/driving"
	"github.com/orolle/crp-aide/internal/logger"
)

// Ensure SamplerService implements the interface.
var _ driving.Sampler = (*SamplerService)(nil)

// SamplerService is the reference inference engine: plain importance
// sampling from the CRP prior. Each particle is one independent
// GenerativeModel run whose log-importance-weight is the run's total
// log-likelihood. A full SMC engine with resampling can replace this
// behind the driving.Sampler port.
type SamplerService struct {
	model *GenerativeModel
	store driven.SampleStore
}

// NewSamplerService creates a sampler service.
// The store parameter is optional (can be nil); without it samples are
// returned but not persisted.
func NewSamplerService(model *GenerativeModel, store driven.SampleStore) *SamplerService {
	return &SamplerService{model: model, store: store}
}

// Sample runs exp.Particles independent particles and returns their
// weighted samples ordered by particle index.
//
// Runs share no mutable state and each gets its own source seeded from
// exp.Seed and its particle index, so particles execute in parallel
// (bounded by GOMAXPROCS) while the output stays deterministic for a
// fixed seed.
func (s *SamplerService) Sample(ctx context.Context, exp domain.Experiment) ([]domain.WeightedSample, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Particle Sampling")
	logger.Debug("Experiment %s: %d particles, %d observations, seed %d",
		exp.ID, exp.Particles, len(exp.Observations), exp.Seed)
	defer logger.Timing("particle sampling", time.Now())

	samples := make([]domain.WeightedSample, exp.Particles)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < exp.Particles; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src := rand.NewSource(exp.Seed + uint64(i))
			result, err := s.model.Run(exp.Observations, exp.Hyperparams, src)
			if err != nil {
				return fmt.Errorf("particle %d: %w", i, err)
			}

			samples[i] = domain.WeightedSample{
				NumClusters: result.NumClusters,
				LogWeight:   result.LogLikelihood,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("Sampled %d particles", len(samples))

	if s.store != nil {
		if err := s.store.AppendSamples(ctx, exp.ID, samples); err != nil {
			return nil, fmt.Errorf("persisting samples: %w", err)
		}
		logger.Debug("Persisted %d samples for experiment %s", len(samples), exp.ID)
	}

	return samples, nil
}
