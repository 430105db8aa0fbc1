package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orolle/crp-aide/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestExperimentLoader_Load_FullConfig(t *testing.T) {
	path := writeConfig(t, `
name = "three point scenario"
observations = [10.0, 11.0, 12.0]
particles = 500
seed = 42
reference = [0.6, 0.3, 0.1]
prefix_sizes = [10, 100, 500]

[hyperparams]
alpha = 1.72
mu = 0.0
beta = 100.0
a = 1.0
b = 10.0
`)

	exp, err := NewExperimentLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "three point scenario", exp.Name)
	assert.Equal(t, []float64{10, 11, 12}, exp.Observations)
	assert.Equal(t, domain.Hyperparams{Alpha: 1.72, Mu: 0, Beta: 100, A: 1, B: 10}, exp.Hyperparams)
	assert.Equal(t, 500, exp.Particles)
	assert.Equal(t, uint64(42), exp.Seed)
	assert.Equal(t, domain.ReferencePosterior{0.6, 0.3, 0.1}, exp.Reference)
	assert.Equal(t, []int{10, 100, 500}, exp.PrefixSizes)
	assert.NoError(t, exp.Validate())
}

func TestExperimentLoader_Load_Defaults(t *testing.T) {
	path := writeConfig(t, `
observations = [1.0, 2.0]
reference = [0.7, 0.3]

[hyperparams]
alpha = 1.0
beta = 1.0
a = 1.0
b = 1.0
`)

	exp, err := NewExperimentLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1000, exp.Particles)
	assert.Equal(t, []int{10, 100, 1000}, exp.PrefixSizes)
	assert.Equal(t, uint64(0), exp.Seed)
}

func TestExperimentLoader_Load_PrefixScheduleEndsAtBudget(t *testing.T) {
	path := writeConfig(t, `
observations = [1.0]
particles = 250
reference = [1.0]

[hyperparams]
alpha = 1.0
beta = 1.0
a = 1.0
b = 1.0
`)

	exp, err := NewExperimentLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 100, 250}, exp.PrefixSizes)
}

func TestExperimentLoader_Load_MissingFile(t *testing.T) {
	_, err := NewExperimentLoader().Load(filepath.Join(t.TempDir(), "absent.toml"))

	require.Error(t, err)
}

func TestExperimentLoader_Load_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `observations = [1.0`)

	_, err := NewExperimentLoader().Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing experiment config")
}
