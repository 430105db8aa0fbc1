// Package cli implements the cobra command-line adapter. It wires the
// sampler and diagnostic services to a sample store and exposes the
// experiment pipeline as subcommands.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/orolle/crp-aide/internal/adapters/driven/config/file"
	"github.com/orolle/crp-aide/internal/adapters/driven/storage/memory"
	"github.com/orolle/crp-aide/internal/adapters/driven/storage/sqlite"
	"github.com/orolle/crp-aide/internal/core/ports/driven"
	"github.com/orolle/crp-aide/internal/core/ports/driving"
	"github.com/orolle/crp-aide/internal/core/services"
	"github.com/orolle/crp-aide/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	dataDirFlag string
	memoryFlag  bool
)

// Wired services. Tests may inject fakes before calling Execute.
var (
	sampleStore       driven.SampleStore
	experimentLoader  driven.ExperimentLoader
	samplerService    driving.Sampler
	diagnosticService driving.Diagnostics
)

// Output styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

var rootCmd = &cobra.Command{
	Use:   "crp-aide",
	Short: "Convergence diagnostics for CRP mixture inference",
	Long: `crp-aide samples a Chinese-Restaurant-Process Gaussian mixture and
measures how fast the importance-weighted estimate of the posterior over
the number of clusters converges to a known ground truth (KL divergence
as a function of sample count).`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.crp-aide/data)")
	rootCmd.PersistentFlags().BoolVar(&memoryFlag, "memory", false, "keep samples in memory instead of SQLite")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Close releases the sample store, if one was opened.
func Close() error {
	if sampleStore == nil {
		return nil
	}
	return sampleStore.Close()
}

// initServices wires adapters and services once per process. Already-set
// services (e.g. injected by tests) are left alone.
func initServices() error {
	if sampleStore == nil {
		if memoryFlag {
			sampleStore = memory.NewSampleStore()
		} else {
			store, err := sqlite.NewStore(dataDirFlag)
			if err != nil {
				return fmt.Errorf("opening sample store: %w", err)
			}
			sampleStore = store
			logger.Debug("Sample store: %s", store.Path())
		}
	}
	if experimentLoader == nil {
		experimentLoader = file.NewExperimentLoader()
	}
	if samplerService == nil {
		samplerService = services.NewSamplerService(services.NewGenerativeModel(), sampleStore)
	}
	if diagnosticService == nil {
		diagnosticService = services.NewDiagnosticService()
	}
	return nil
}
