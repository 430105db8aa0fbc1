package services

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// Partition is the state of a Chinese Restaurant Process over one
// generative run: the occupancy count of each cluster label plus the
// concentration parameter alpha.
//
// Labels are positive integers issued in order of first appearance, so
// label i has its count at counts[i-1]. Invariant: the counts sum to the
// number of observations absorbed so far.
type Partition struct {
	counts []float64
	total  float64
	alpha  float64
	src    rand.Source
}

// NewPartition creates an empty partition with concentration alpha.
// The source drives proposal sampling and may be shared with the
// component cache of the same run.
func NewPartition(alpha float64, src rand.Source) (*Partition, error) {
	if !(alpha > 0) {
		return nil, fmt.Errorf("%w: partition concentration alpha must be > 0, got %v",
			domain.ErrInvalidParameter, alpha)
	}
	return &Partition{alpha: alpha, src: src}, nil
}

// Proposal returns the CRP conditional over the next label as a
// categorical distribution: category i (0-based) corresponds to existing
// label i+1 with weight c_i, and the final category to a brand-new label
// with weight alpha. On an empty partition the distribution degenerates to
// certainty on label 1.
func (p *Partition) Proposal() distuv.Categorical {
	weights := make([]float64, len(p.counts)+1)
	copy(weights, p.counts)
	weights[len(p.counts)] = p.alpha
	return distuv.NewCategorical(weights, p.src)
}

// Propose samples the next label from the CRP conditional without
// mutating the partition.
func (p *Partition) Propose() int {
	dist := p.Proposal()
	return int(dist.Rand()) + 1
}

// Absorb seats an observation at label, incrementing its occupancy count.
// Valid labels are the existing ones and the single next new label; a new
// label is created with count 1.
func (p *Partition) Absorb(label int) error {
	switch {
	case label < 1 || label > len(p.counts)+1:
		return fmt.Errorf("%w: label %d outside {1..%d}",
			domain.ErrInvalidParameter, label, len(p.counts)+1)
	case label == len(p.counts)+1:
		p.counts = append(p.counts, 1)
	default:
		p.counts[label-1]++
	}
	p.total++
	return nil
}

// NumLabels returns the number of distinct labels created so far.
func (p *Partition) NumLabels() int {
	return len(p.counts)
}

// Total returns the number of observations absorbed so far.
func (p *Partition) Total() float64 {
	return p.total
}

// Count returns the occupancy of label, or 0 for labels not yet created.
func (p *Partition) Count(label int) float64 {
	if label < 1 || label > len(p.counts) {
		return 0
	}
	return p.counts[label-1]
}
