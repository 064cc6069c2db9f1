package main

import (
	"github.com/spf13/cobra"

	"github.com/buildwise/costplan/internal/scenario"
)

var (
	scenariosInputs inputFlags
	scenariosIn     string
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Compare economy, standard and premium quality tiers",
	Long:  "Derives the three quality scenarios from a single anchor estimate using category-specific ratios. With --in the saved estimate anchors the derivation offline; otherwise a fresh anchor estimate is requested from the model.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := scenariosInputs.inputs()
		if err := inputs.Validate(); err != nil {
			return err
		}

		if scenariosIn != "" {
			anchor, err := loadResult(scenariosIn)
			if err != nil {
				return err
			}
			return printJSON(scenario.Comparison(anchor, inputs.Quality))
		}

		if err := cfg.Validate("estimate"); err != nil {
			return err
		}

		comparison, err := newEstimator().Comparison(cmd.Context(), inputs, nil)
		if err != nil {
			return err
		}
		return printJSON(comparison)
	},
}

func init() {
	scenariosInputs.register(scenariosCmd)
	scenariosCmd.Flags().StringVar(&scenariosIn, "in", "", "path to anchor estimate JSON (derive offline)")
	rootCmd.AddCommand(scenariosCmd)
}
