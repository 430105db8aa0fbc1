package services

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orolle/crp-aide/internal/core/domain"
)

// componentCache lazily instantiates the Normal likelihood of each cluster
// label within one generative run. A component is drawn once on first use
// of its label and reused for every later observation sharing that label;
// redrawing would invalidate the clustering likelihood.
//
// The cache is owned by a single run and discarded with it. It is not safe
// for concurrent use.
type componentCache struct {
	hp         domain.Hyperparams
	src        rand.Source
	components map[int]distuv.Normal
}

func newComponentCache(hp domain.Hyperparams, src rand.Source) *componentCache {
	return &componentCache{
		hp:         hp,
		src:        src,
		components: make(map[int]distuv.Normal),
	}
}

// getOrCreate returns the cached component for label, drawing it from the
// Normal-Gamma prior on first use: precision l ~ Gamma(a, rate b), mean
// m ~ Normal(mu, sqrt(beta/l)), component = Normal(m, sqrt(1/l)).
func (c *componentCache) getOrCreate(label int) (distuv.Normal, error) {
	if comp, ok := c.components[label]; ok {
		return comp, nil
	}

	precision := distuv.Gamma{Alpha: c.hp.A, Beta: c.hp.B, Src: c.src}.Rand()
	if !(precision > 0) || math.IsInf(precision, 0) {
		return distuv.Normal{}, fmt.Errorf("%w: component precision for label %d degenerated to %v",
			domain.ErrNumericDegeneracy, label, precision)
	}

	mean := distuv.Normal{
		Mu:    c.hp.Mu,
		Sigma: math.Sqrt(c.hp.Beta / precision),
		Src:   c.src,
	}.Rand()

	comp := distuv.Normal{Mu: mean, Sigma: math.Sqrt(1 / precision), Src: c.src}
	c.components[label] = comp
	return comp, nil
}

// score returns the log-density of an observation under a component.
func score(comp distuv.Normal, observation float64) float64 {
	return comp.LogProb(observation)
}
