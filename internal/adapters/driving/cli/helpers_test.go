package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orolle/crp-aide/internal/adapters/driven/storage/memory"
)

// setupTestServices wires the CLI against a fresh in-memory store and
// returns a cleanup restoring the previous wiring.
func setupTestServices() func() {
	prevStore := sampleStore
	prevLoader := experimentLoader
	prevSampler := samplerService
	prevDiagnostics := diagnosticService

	sampleStore = memory.NewSampleStore()
	experimentLoader = nil
	samplerService = nil
	diagnosticService = nil

	return func() {
		sampleStore = prevStore
		experimentLoader = prevLoader
		samplerService = prevSampler
		diagnosticService = prevDiagnostics
	}
}

// writeExperimentConfig writes a small valid experiment definition and
// returns its path.
func writeExperimentConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.toml")
	content := `
name = "cli test scenario"
observations = [10.0, 11.0, 12.0]
particles = 50
seed = 7
reference = [0.6, 0.3, 0.1]
prefix_sizes = [10, 50]

[hyperparams]
alpha = 1.72
mu = 0.0
beta = 100.0
a = 1.0
b = 10.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
