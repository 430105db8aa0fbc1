package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/orolle/crp-aide/internal/core/domain"
)

func TestGenerativeModel_Run_LabelInvariants(t *testing.T) {
	// Scenario from the three-observation setup: labels must be drawn
	// from {1,2,3} in order of first appearance, label 1 always first.
	model := NewGenerativeModel()
	obs := []float64{10, 11, 12}

	for seed := uint64(0); seed < 200; seed++ {
		result, err := model.Run(obs, testHyperparams(), rand.NewSource(seed))
		require.NoError(t, err)

		require.Len(t, result.Labels, 3)
		assert.Equal(t, 1, result.Labels[0])

		maxSeen := 0
		for _, label := range result.Labels {
			// A label is either already seen or the next new one.
			require.GreaterOrEqual(t, label, 1)
			require.LessOrEqual(t, label, maxSeen+1)
			if label > maxSeen {
				maxSeen = label
			}
		}
		assert.Equal(t, maxSeen, result.NumClusters)
		assert.False(t, math.IsNaN(result.LogLikelihood))
		assert.False(t, math.IsInf(result.LogLikelihood, 0))
	}
}

func TestGenerativeModel_Run_NumClustersWithinSupport(t *testing.T) {
	model := NewGenerativeModel()
	obs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	for seed := uint64(0); seed < 50; seed++ {
		result, err := model.Run(obs, testHyperparams(), rand.NewSource(seed))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.NumClusters, 1)
		assert.LessOrEqual(t, result.NumClusters, len(obs))
	}
}

func TestGenerativeModel_Run_EmptyObservations(t *testing.T) {
	model := NewGenerativeModel()

	_, err := model.Run(nil, testHyperparams(), rand.NewSource(1))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestGenerativeModel_Run_InvalidHyperparams(t *testing.T) {
	model := NewGenerativeModel()
	hp := testHyperparams()
	hp.B = 0

	_, err := model.Run([]float64{1, 2}, hp, rand.NewSource(1))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestGenerativeModel_Run_DeterministicForFixedSeed(t *testing.T) {
	model := NewGenerativeModel()
	obs := []float64{10, 11, 12}

	first, err := model.Run(obs, testHyperparams(), rand.NewSource(99))
	require.NoError(t, err)
	second, err := model.Run(obs, testHyperparams(), rand.NewSource(99))
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.LogLikelihood, second.LogLikelihood)
}
