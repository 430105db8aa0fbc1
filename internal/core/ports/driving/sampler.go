package driving

import (
	"context"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// Sampler produces weighted posterior samples for an experiment.
//
// This is the inference-engine boundary: the core ships a reference
// importance sampler, but any engine that repeatedly executes the
// generative model and attaches log-importance-weights (e.g. a full SMC
// particle filter with resampling) can stand behind this interface.
type Sampler interface {
	// Sample runs exp.Particles independent particles and returns their
	// weighted samples in arrival order.
	Sample(ctx context.Context, exp domain.Experiment) ([]domain.WeightedSample, error)
}
