package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// equalWeightSamples builds samples whose empirical frequencies follow the
// given counts per cluster value, all with the same log-weight.
func equalWeightSamples(counts map[int]int) []domain.WeightedSample {
	var samples []domain.WeightedSample
	for value, n := range counts {
		for i := 0; i < n; i++ {
			samples = append(samples, domain.WeightedSample{NumClusters: value, LogWeight: -1})
		}
	}
	return samples
}

func TestCurve_ZeroDivergenceWhenEstimateMatchesReference(t *testing.T) {
	// 6/3/1 split over values 1..3 against reference [0.6 0.3 0.1].
	samples := equalWeightSamples(map[int]int{1: 6, 2: 3, 3: 1})
	ref := domain.ReferencePosterior{0.6, 0.3, 0.1}

	points, err := Curve(samples, ref, []int{10})
	require.NoError(t, err)

	require.Len(t, points, 1)
	assert.Equal(t, 10, points[0].SampleCount)
	assert.InDelta(t, 0.0, points[0].Divergence, 1e-12)
}

func TestCurve_HandComputedDivergence(t *testing.T) {
	// Empirical mass concentrated on one cluster: p = [1 0 0] against
	// q = [0.6 0.3 0.1] gives KL = 1*log(1/0.6).
	samples := equalWeightSamples(map[int]int{1: 4})
	ref := domain.ReferencePosterior{0.6, 0.3, 0.1}

	points, err := Curve(samples, ref, []int{4})
	require.NoError(t, err)

	assert.InDelta(t, math.Log(1/0.6), points[0].Divergence, 1e-12)
}

func TestCurve_DivergenceUndefinedOnZeroReference(t *testing.T) {
	samples := equalWeightSamples(map[int]int{1: 2, 3: 2})
	ref := domain.ReferencePosterior{0.5, 0.5, 0.0}

	_, err := Curve(samples, ref, []int{4})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDivergenceUndefined)
}

func TestCurve_ZeroEmpiricalOnZeroReferenceIsFine(t *testing.T) {
	// 0*log(0/0) terms contribute nothing; only p>0, q=0 is undefined.
	samples := equalWeightSamples(map[int]int{1: 3, 2: 1})
	ref := domain.ReferencePosterior{0.75, 0.25, 0.0}

	points, err := Curve(samples, ref, []int{4})

	require.NoError(t, err)
	assert.InDelta(t, 0.0, points[0].Divergence, 1e-12)
}

func TestCurve_PrefixesUseOnlyFirstN(t *testing.T) {
	// First two samples say "1", the rest say "2": the n=2 prefix must
	// ignore the later arrivals entirely.
	samples := []domain.WeightedSample{
		{NumClusters: 1, LogWeight: -1},
		{NumClusters: 1, LogWeight: -1},
		{NumClusters: 2, LogWeight: -1},
		{NumClusters: 2, LogWeight: -1},
	}
	ref := domain.ReferencePosterior{0.5, 0.5}

	points, err := Curve(samples, ref, []int{2, 4})
	require.NoError(t, err)

	require.Len(t, points, 2)
	// Prefix 2: p = [1 0], KL = log(1/0.5) = log 2.
	assert.InDelta(t, math.Log(2), points[0].Divergence, 1e-12)
	// Prefix 4: p = [0.5 0.5] = q.
	assert.InDelta(t, 0.0, points[1].Divergence, 1e-12)
}

func TestCurve_MissingSupportValuesAreZeroFilled(t *testing.T) {
	// Only cluster count 2 is ever observed out of support 1..4; the
	// aligned vector must renormalize to [0 1 0 0], not panic or skew.
	samples := equalWeightSamples(map[int]int{2: 5})
	ref := domain.ReferencePosterior{0.1, 0.4, 0.4, 0.1}

	points, err := Curve(samples, ref, []int{5})
	require.NoError(t, err)

	assert.InDelta(t, math.Log(1/0.4), points[0].Divergence, 1e-12)
}

func TestCurve_MassOutsideSupportIsUndefined(t *testing.T) {
	// A cluster count beyond the reference support carries implicit
	// reference probability 0; truncating it would return a finite KL
	// that masks the mismatch.
	samples := equalWeightSamples(map[int]int{1: 3, 4: 1})
	ref := domain.ReferencePosterior{0.6, 0.3, 0.1}

	_, err := Curve(samples, ref, []int{4})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDivergenceUndefined)
}

func TestCurve_InvalidPrefixSchedules(t *testing.T) {
	samples := equalWeightSamples(map[int]int{1: 4})
	ref := domain.ReferencePosterior{1.0}

	tests := []struct {
		name     string
		prefixes []int
	}{
		{"empty", nil},
		{"zero size", []int{0, 2}},
		{"descending", []int{3, 2}},
		{"duplicate", []int{2, 2}},
		{"beyond sample count", []int{2, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Curve(samples, ref, tt.prefixes)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
		})
	}
}

func TestCurve_InvalidReference(t *testing.T) {
	samples := equalWeightSamples(map[int]int{1: 4})

	_, err := Curve(samples, domain.ReferencePosterior{0.5, 0.4}, []int{4})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestKLDivergence_NonNegativeOnRandomVectors(t *testing.T) {
	// Gibbs' inequality: KL(p||q) >= 0 for any probability vectors on a
	// shared support with q strictly positive.
	rng := rand.New(rand.NewSource(2024))

	for trial := 0; trial < 500; trial++ {
		dim := 2 + rng.Intn(9)
		p := randomSimplexPoint(rng, dim)
		q := randomSimplexPoint(rng, dim)

		kl, err := klDivergence(p, q)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, kl, -1e-12)
	}
}

func TestKLDivergence_SupportMismatch(t *testing.T) {
	_, err := klDivergence([]float64{1}, []float64{0.5, 0.5})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

// randomSimplexPoint draws a strictly positive probability vector.
func randomSimplexPoint(rng *rand.Rand, dim int) []float64 {
	p := make([]float64, dim)
	sum := 0.0
	for i := range p {
		p[i] = rng.Float64() + 1e-3
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

func TestDiagnosticService_ImplementsPortOperations(t *testing.T) {
	svc := NewDiagnosticService()
	samples := equalWeightSamples(map[int]int{1: 1, 2: 1})

	pmf, err := svc.Estimate(samples)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pmf[1], 1e-12)

	points, err := svc.Curve(samples, domain.ReferencePosterior{0.5, 0.5}, []int{2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, points[0].Divergence, 1e-12)
}
