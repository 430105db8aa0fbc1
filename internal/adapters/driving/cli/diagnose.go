package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orolle/crp-aide/internal/core/domain"
)

var diagnoseJSON bool

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [experiment-id]",
	Short: "Compute the convergence curve for a sampled experiment",
	Long: `Reduces growing prefixes of an experiment's weighted samples to
empirical posteriors over the number of clusters and reports their KL
divergence against the experiment's reference posterior. The resulting
(sample count, divergence) pairs are stored and printed; plot them in
log-log coordinates to read off the convergence rate.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().BoolVar(&diagnoseJSON, "json", false, "output the curve as JSON")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	exp, err := sampleStore.GetExperiment(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading experiment %s: %w", args[0], err)
	}

	samples, err := sampleStore.ListSamples(ctx, exp.ID)
	if err != nil {
		return fmt.Errorf("loading samples: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("experiment %s has no samples; run 'crp-aide sample' first", exp.ID)
	}

	points, err := diagnosticService.Curve(samples, exp.Reference, exp.PrefixSizes)
	if err != nil {
		return fmt.Errorf("diagnostic failed: %w", err)
	}

	if err := sampleStore.SaveCurve(ctx, exp.ID, points); err != nil {
		return fmt.Errorf("saving curve: %w", err)
	}

	if diagnoseJSON {
		return outputCurveJSON(cmd, points)
	}
	return outputCurveTable(cmd, exp, points)
}

func outputCurveJSON(cmd *cobra.Command, points []domain.DivergencePoint) error {
	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal curve: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCurveTable(cmd *cobra.Command, exp *domain.Experiment, points []domain.DivergencePoint) error {
	title := exp.Name
	if title == "" {
		title = exp.ID
	}
	cmd.Println(headerStyle.Render(fmt.Sprintf("Convergence: %s", title)))
	cmd.Println()
	cmd.Printf("  %10s  %12s\n", "samples", "KL")
	for _, p := range points {
		cmd.Printf("  %10d  %12.6g\n", p.SampleCount, p.Divergence)
	}
	cmd.Println()
	cmd.Println(mutedStyle.Render("  divergence against the reference posterior over cluster counts"))
	return nil
}
