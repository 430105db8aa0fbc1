// Package file provides file-based implementations of configuration ports.
package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/orolle/crp-aide/internal/core/domain"
	"github.com/orolle/crp-aide/internal/core/ports/driven"
)

// Ensure ExperimentLoader implements the interface.
var _ driven.ExperimentLoader = (*ExperimentLoader)(nil)

// defaultParticles is the particle budget used when the file omits one.
const defaultParticles = 1000

// ExperimentLoader reads experiment definitions from TOML files.
//
// A minimal definition names the observations, hyperparameters and the
// reference posterior; particle budget, seed and prefix schedule have
// defaults. Example:
//
//	name = "ten point scenario"
//	observations = [10.0, 11.0, 12.0, -100.0, -150.0, -200.0, 0.001, 0.01, 0.005, 0.0]
//	particles = 10000
//	seed = 1
//	reference = [0.0, 0.0112, 0.2455, 0.4459, 0.2355, 0.0533, 0.0078, 0.0008, 0.0, 0.0]
//	prefix_sizes = [10, 100, 1000, 10000]
//
//	[hyperparams]
//	alpha = 1.72
//	mu = 0.0
//	beta = 100.0
//	a = 1.0
//	b = 10.0
type ExperimentLoader struct{}

// NewExperimentLoader creates a TOML-based experiment loader.
func NewExperimentLoader() *ExperimentLoader {
	return &ExperimentLoader{}
}

// experimentConfig is the TOML document shape.
type experimentConfig struct {
	Name         string             `toml:"name"`
	Observations []float64          `toml:"observations"`
	Hyperparams  domain.Hyperparams `toml:"hyperparams"`
	Particles    int                `toml:"particles"`
	Seed         uint64             `toml:"seed"`
	Reference    []float64          `toml:"reference"`
	PrefixSizes  []int              `toml:"prefix_sizes"`
}

// Load reads the experiment definition at path. The result carries no ID
// and is not yet validated; the caller assigns identity and validates.
func (l *ExperimentLoader) Load(path string) (*domain.Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment config: %w", err)
	}

	var cfg experimentConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing experiment config: %w", err)
	}

	if cfg.Particles == 0 {
		cfg.Particles = defaultParticles
	}
	if len(cfg.PrefixSizes) == 0 {
		cfg.PrefixSizes = defaultPrefixSizes(cfg.Particles)
	}

	return &domain.Experiment{
		Name:         cfg.Name,
		Observations: cfg.Observations,
		Hyperparams:  cfg.Hyperparams,
		Particles:    cfg.Particles,
		Seed:         cfg.Seed,
		Reference:    domain.ReferencePosterior(cfg.Reference),
		PrefixSizes:  cfg.PrefixSizes,
	}, nil
}

// defaultPrefixSizes builds a decade schedule 10, 100, ... capped by the
// particle budget, always ending at the budget itself.
func defaultPrefixSizes(particles int) []int {
	var sizes []int
	for n := 10; n < particles; n *= 10 {
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 || sizes[len(sizes)-1] != particles {
		sizes = append(sizes, particles)
	}
	return sizes
}
