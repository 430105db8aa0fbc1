package services

import (
	"fmt"
	"math"
	"time"

	"github.com/orolle/crp-aide/internal/core/domain"
	"github.com/orolle/crp-aide/internal/core/ports/driving"
	"github.com/orolle/crp-aide/internal/logger"
)

// Ensure DiagnosticService implements the interface.
var _ driving.Diagnostics = (*DiagnosticService)(nil)

// DiagnosticService exposes the estimator and convergence curve to
// driving adapters. Both operations are pure reducers over an
// already-materialized sample sequence.
type DiagnosticService struct{}

// NewDiagnosticService creates a diagnostic service.
func NewDiagnosticService() *DiagnosticService {
	return &DiagnosticService{}
}

// Estimate reduces weighted samples to a normalized pmf over the observed
// cluster counts.
func (s *DiagnosticService) Estimate(samples []domain.WeightedSample) (map[int]float64, error) {
	return Estimate(samples)
}

// Curve computes the KL divergence of growing sample prefixes against a
// reference posterior.
func (s *DiagnosticService) Curve(
	samples []domain.WeightedSample,
	ref domain.ReferencePosterior,
	prefixSizes []int,
) ([]domain.DivergencePoint, error) {
	return Curve(samples, ref, prefixSizes)
}

// Curve computes the convergence diagnostic: for each prefix size n it
// estimates the weighted empirical pmf from the first n samples, aligns it
// to the reference posterior's ordinal support (absent cluster counts get
// probability 0), renormalizes, and records the KL divergence against the
// reference.
//
// Prefixes are index-bounded views of the sample sequence, never
// subsamples: point n answers "how good is the estimate after n arrivals".
// prefixSizes must be ascending, positive and bounded by len(samples).
func Curve(
	samples []domain.WeightedSample,
	ref domain.ReferencePosterior,
	prefixSizes []int,
) ([]domain.DivergencePoint, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if err := validatePrefixSizes(prefixSizes, len(samples)); err != nil {
		return nil, err
	}

	logger.Section("Convergence Diagnostic")
	logger.Debug("Samples: %d, support: 1..%d, prefixes: %d",
		len(samples), ref.Support(), len(prefixSizes))
	defer logger.Timing("convergence diagnostic", time.Now())

	points := make([]domain.DivergencePoint, 0, len(prefixSizes))
	for _, n := range prefixSizes {
		pmf, err := Estimate(samples[:n])
		if err != nil {
			return nil, fmt.Errorf("prefix %d: %w", n, err)
		}

		p, err := alignToSupport(pmf, ref.Support())
		if err != nil {
			return nil, fmt.Errorf("prefix %d: %w", n, err)
		}
		kl, err := klDivergence(p, ref)
		if err != nil {
			return nil, fmt.Errorf("prefix %d: %w", n, err)
		}

		logger.Debug("Prefix %d: KL = %g", n, kl)
		points = append(points, domain.DivergencePoint{SampleCount: n, Divergence: kl})
	}

	logger.Info("Curve complete: %d points", len(points))
	return points, nil
}

// validatePrefixSizes checks the prefix schedule is ascending, positive
// and within the materialized sample count.
func validatePrefixSizes(prefixSizes []int, total int) error {
	if len(prefixSizes) == 0 {
		return fmt.Errorf("%w: no prefix sizes given", domain.ErrInvalidParameter)
	}
	prev := 0
	for _, n := range prefixSizes {
		if n <= prev {
			return fmt.Errorf("%w: prefix sizes must be positive and strictly ascending, got %v",
				domain.ErrInvalidParameter, prefixSizes)
		}
		if n > total {
			return fmt.Errorf("%w: prefix size %d exceeds sample count %d",
				domain.ErrInvalidParameter, n, total)
		}
		prev = n
	}
	return nil
}

// alignToSupport lays a pmf keyed by cluster count onto the ordinal
// support 1..support and renormalizes. Cluster counts never observed get
// an explicit 0 entry; map iteration order can therefore never leak into
// the aligned vector. Mass on a count outside the support sits where the
// reference implicitly assigns probability 0, so the divergence is
// undefined rather than silently truncated.
func alignToSupport(pmf map[int]float64, support int) ([]float64, error) {
	p := make([]float64, support)
	sum := 0.0
	for k, mass := range pmf {
		if k < 1 || k > support {
			if mass > 0 {
				return nil, fmt.Errorf("%w: empirical mass %g on cluster count %d outside reference support 1..%d",
					domain.ErrDivergenceUndefined, mass, k, support)
			}
			continue
		}
		p[k-1] = mass
		sum += mass
	}
	if sum > 0 {
		for i := range p {
			p[i] /= sum
		}
	}
	return p, nil
}

// klDivergence computes KL(p || q) = sum_i p_i * log(p_i / q_i) over a
// shared support, with the convention 0*log(0/q) = 0. A term with p_i > 0
// and q_i == 0 makes the divergence undefined.
//
// gonum's stat.KullbackLeibler returns +Inf/NaN on empty reference
// support; this variant surfaces that case as a domain error instead.
func klDivergence(p []float64, q []float64) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("%w: support mismatch: %d vs %d",
			domain.ErrInvalidParameter, len(p), len(q))
	}
	kl := 0.0
	for i := range p {
		if p[i] == 0 {
			continue
		}
		if q[i] == 0 {
			return 0, fmt.Errorf("%w: empirical mass %g on cluster count %d where reference is 0",
				domain.ErrDivergenceUndefined, p[i], i+1)
		}
		kl += p[i] * math.Log(p[i]/q[i])
	}
	return kl, nil
}
