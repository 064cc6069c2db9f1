package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buildwise/costplan/internal/cost"
	"github.com/buildwise/costplan/internal/estimator"
	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/rates"
	"github.com/buildwise/costplan/internal/resilience"
	"github.com/buildwise/costplan/pkg/anthropic"
)

// inputFlags collects the project parameters shared by the estimate,
// scenarios and export subcommands.
type inputFlags struct {
	projectType string
	quality     string
	location    string
	sizeSqFt    float64
	floors      int
	budget      float64
	timeline    int
	manpower    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.projectType, "type", "Residential", "project type (Residential|Commercial|Industrial|Renovation)")
	cmd.Flags().StringVar(&f.quality, "quality", "Standard", "quality tier (Economy|Standard|Premium)")
	cmd.Flags().StringVar(&f.location, "location", "", "project location, e.g. \"Austin, TX\" (required)")
	cmd.Flags().Float64Var(&f.sizeSqFt, "sqft", 0, "built-up area in square feet (required)")
	cmd.Flags().IntVar(&f.floors, "floors", 1, "number of floors")
	cmd.Flags().Float64Var(&f.budget, "budget", 0, "budget limit")
	cmd.Flags().IntVar(&f.timeline, "timeline", 12, "timeline in months (1-60)")
	cmd.Flags().IntVar(&f.manpower, "manpower", 0, "available workforce")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("sqft")
}

func (f *inputFlags) inputs() model.ProjectInputs {
	return model.ProjectInputs{
		Type:           model.ProjectType(f.projectType),
		Quality:        model.Quality(f.quality),
		Location:       f.location,
		SizeSqFt:       f.sizeSqFt,
		Floors:         f.floors,
		BudgetLimit:    f.budget,
		TimelineMonths: f.timeline,
		Manpower:       f.manpower,
	}
}

// newEstimator builds the model-backed service from config.
func newEstimator() *estimator.Service {
	return estimator.New(anthropic.NewClient(cfg.Anthropic.Key), estimator.Options{
		Model:              cfg.Anthropic.Model,
		MaxTokens:          cfg.Anthropic.MaxTokens,
		MinRequestInterval: time.Duration(cfg.Anthropic.MinRequestIntervalMS) * time.Millisecond,
		Retry:              resilience.DefaultRetryConfig(),
		Calculator:         cost.NewCalculator(cfg.Pricing),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	estimateInputs  inputFlags
	estimateOffline bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Generate a cost estimate for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := estimateInputs.inputs()
		if err := inputs.Validate(); err != nil {
			return err
		}

		if estimateOffline {
			zap.L().Info("offline mode, using rate-table baseline")
			return printJSON(rates.Baseline(inputs))
		}

		if err := cfg.Validate("estimate"); err != nil {
			return err
		}

		result, err := newEstimator().Estimate(cmd.Context(), inputs)
		if err != nil {
			return eris.Wrap(err, "estimate")
		}
		return printJSON(result)
	},
}

func init() {
	estimateInputs.register(estimateCmd)
	estimateCmd.Flags().BoolVar(&estimateOffline, "offline", false, "skip the model and use the regional rate-table baseline")
	rootCmd.AddCommand(estimateCmd)
}
