// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and as a fallback when no data directory is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/orolle/crp-aide/internal/core/domain"
	"github.com/orolle/crp-aide/internal/core/ports/driven"
)

// Ensure SampleStore implements the interface.
var _ driven.SampleStore = (*SampleStore)(nil)

// SampleStore is an in-memory implementation of driven.SampleStore.
type SampleStore struct {
	mu          sync.RWMutex
	experiments map[string]domain.Experiment
	samples     map[string][]domain.WeightedSample
	curves      map[string][]domain.DivergencePoint
}

// NewSampleStore creates a new in-memory sample store.
func NewSampleStore() *SampleStore {
	return &SampleStore{
		experiments: make(map[string]domain.Experiment),
		samples:     make(map[string][]domain.WeightedSample),
		curves:      make(map[string][]domain.DivergencePoint),
	}
}

// SaveExperiment stores an experiment definition.
func (s *SampleStore) SaveExperiment(_ context.Context, exp domain.Experiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.experiments[exp.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.experiments[exp.ID] = exp
	return nil
}

// GetExperiment retrieves an experiment by ID.
func (s *SampleStore) GetExperiment(_ context.Context, id string) (*domain.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.experiments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &exp, nil
}

// ListExperiments returns all stored experiments, oldest first.
func (s *SampleStore) ListExperiments(_ context.Context) ([]domain.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Experiment, 0, len(s.experiments))
	for _, exp := range s.experiments {
		result = append(result, exp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// AppendSamples appends weighted samples in arrival order.
func (s *SampleStore) AppendSamples(_ context.Context, experimentID string, samples []domain.WeightedSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.experiments[experimentID]; !ok {
		return domain.ErrNotFound
	}
	s.samples[experimentID] = append(s.samples[experimentID], samples...)
	return nil
}

// ListSamples returns an experiment's samples in append order.
func (s *SampleStore) ListSamples(_ context.Context, experimentID string) ([]domain.WeightedSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.experiments[experimentID]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := s.samples[experimentID]
	out := make([]domain.WeightedSample, len(stored))
	copy(out, stored)
	return out, nil
}

// SaveCurve stores the divergence curve, replacing any previous curve.
func (s *SampleStore) SaveCurve(_ context.Context, experimentID string, points []domain.DivergencePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.experiments[experimentID]; !ok {
		return domain.ErrNotFound
	}
	stored := make([]domain.DivergencePoint, len(points))
	copy(stored, points)
	s.curves[experimentID] = stored
	return nil
}

// GetCurve retrieves the stored divergence curve.
func (s *SampleStore) GetCurve(_ context.Context, experimentID string) ([]domain.DivergencePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points, ok := s.curves[experimentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.DivergencePoint, len(points))
	copy(out, points)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *SampleStore) Close() error {
	return nil
}
