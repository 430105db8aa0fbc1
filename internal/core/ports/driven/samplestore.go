package driven

import (
	"context"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// SampleStore persists experiments, their weighted samples and the
// divergence curves computed from them.
//
// Samples for an experiment form an append-only, ordered sequence: the
// order in which ListSamples returns them must match the order in which
// they were appended, since the convergence diagnostic reads
// order-preserving prefixes.
type SampleStore interface {
	// SaveExperiment stores an experiment definition.
	// Returns domain.ErrAlreadyExists if the ID is taken.
	SaveExperiment(ctx context.Context, exp domain.Experiment) error

	// GetExperiment retrieves an experiment by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetExperiment(ctx context.Context, id string) (*domain.Experiment, error)

	// ListExperiments returns all stored experiments, oldest first.
	ListExperiments(ctx context.Context) ([]domain.Experiment, error)

	// AppendSamples appends weighted samples to an experiment's sequence,
	// preserving arrival order.
	AppendSamples(ctx context.Context, experimentID string, samples []domain.WeightedSample) error

	// ListSamples returns an experiment's samples in append order.
	ListSamples(ctx context.Context, experimentID string) ([]domain.WeightedSample, error)

	// SaveCurve stores the divergence curve for an experiment,
	// replacing any previous curve.
	SaveCurve(ctx context.Context, experimentID string, points []domain.DivergencePoint) error

	// GetCurve retrieves the stored divergence curve for an experiment.
	// Returns domain.ErrNotFound if no curve has been saved.
	GetCurve(ctx context.Context, experimentID string) ([]domain.DivergencePoint, error)

	// Close releases any underlying resources.
	Close() error
}
