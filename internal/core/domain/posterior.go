package domain

import (
	"fmt"
	"math"
)

// sumTolerance is the floating tolerance for a posterior summing to one.
const sumTolerance = 1e-9

// ReferencePosterior is a ground-truth distribution over cluster counts.
// Entry i is the probability of the model using i+1 clusters, so the
// support is the ordinal range 1..len.
type ReferencePosterior []float64

// Support returns the largest cluster count in the posterior's support.
func (r ReferencePosterior) Support() int {
	return len(r)
}

// Validate checks that the posterior is a probability vector:
// non-empty, no negative entries, and summing to one within tolerance.
func (r ReferencePosterior) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: reference posterior is empty", ErrInvalidParameter)
	}
	sum := 0.0
	for i, p := range r {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("%w: reference posterior entry %d is %v", ErrInvalidParameter, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("%w: reference posterior sums to %v, want 1", ErrInvalidParameter, sum)
	}
	return nil
}
