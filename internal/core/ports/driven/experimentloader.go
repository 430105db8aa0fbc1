package driven

import "github.com/orolle/crp-aide/internal/core/domain"

// ExperimentLoader reads an experiment definition from configuration.
// Implementations handle the file format (e.g. TOML) and defaulting;
// loaded experiments are not yet validated or assigned an ID.
type ExperimentLoader interface {
	// Load reads the experiment definition at path.
	Load(path string) (*domain.Experiment, error)
}
