package domain

import (
	"fmt"
	"time"
)

// Experiment is a persisted experiment definition: the observation
// sequence, model hyperparameters, particle budget and the ground truth
// the resulting samples are diagnosed against.
type Experiment struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Observations []float64          `json:"observations"`
	Hyperparams  Hyperparams        `json:"hyperparams"`
	Particles    int                `json:"particles"`
	Seed         uint64             `json:"seed"`
	Reference    ReferencePosterior `json:"reference"`
	PrefixSizes  []int              `json:"prefix_sizes"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Validate checks the experiment is runnable: observations present,
// hyperparameters inside their support, a positive particle budget, and a
// reference posterior whose support covers every possible cluster count.
func (e Experiment) Validate() error {
	if len(e.Observations) == 0 {
		return fmt.Errorf("%w: experiment has no observations", ErrInvalidParameter)
	}
	if err := e.Hyperparams.Validate(); err != nil {
		return err
	}
	if e.Particles <= 0 {
		return fmt.Errorf("%w: particles must be > 0, got %d", ErrInvalidParameter, e.Particles)
	}
	if err := e.Reference.Validate(); err != nil {
		return err
	}
	if e.Reference.Support() < len(e.Observations) {
		return fmt.Errorf("%w: reference support %d smaller than observation count %d",
			ErrInvalidParameter, e.Reference.Support(), len(e.Observations))
	}
	return nil
}
