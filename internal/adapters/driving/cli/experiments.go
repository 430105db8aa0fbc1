package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var experimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "List stored experiments",
	Args:  cobra.NoArgs,
	RunE:  runExperiments,
}

func init() {
	rootCmd.AddCommand(experimentsCmd)
}

func runExperiments(cmd *cobra.Command, _ []string) error {
	exps, err := sampleStore.ListExperiments(context.Background())
	if err != nil {
		return fmt.Errorf("listing experiments: %w", err)
	}

	if len(exps) == 0 {
		cmd.Println("No experiments stored.")
		return nil
	}

	cmd.Println(headerStyle.Render("Experiments"))
	for _, exp := range exps {
		name := exp.Name
		if name == "" {
			name = "(unnamed)"
		}
		cmd.Printf("  %s  %s\n", exp.ID, name)
		cmd.Println(mutedStyle.Render(fmt.Sprintf("      %d observations, %d particles, created %s",
			len(exp.Observations), exp.Particles, exp.CreatedAt.Format("2006-01-02 15:04"))))
	}
	return nil
}
