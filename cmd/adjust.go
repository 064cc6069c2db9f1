package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/scenario"
)

// loadResult reads an estimate JSON file produced by the estimate command.
func loadResult(path string) (*model.EstimationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read estimate %s", path)
	}
	var result model.EstimationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrapf(err, "parse estimate %s", path)
	}
	return &result, nil
}

var (
	adjustIn          string
	adjustMaterial    float64
	adjustLabor       float64
	adjustEquipment   float64
	adjustContingency float64
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Reapply cost assumptions to a saved estimate",
	Long:  "Multiplies material, labor and equipment line items by the given factors, recomputes contingency as a percentage of the adjusted subtotal, and rescales the cashflow. Runs entirely offline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := loadResult(adjustIn)
		if err != nil {
			return err
		}

		assumptions := model.EditableAssumptions{
			MaterialCostMultiplier:  adjustMaterial,
			LaborRateMultiplier:     adjustLabor,
			EquipmentCostMultiplier: adjustEquipment,
			ContingencyPercentage:   adjustContingency,
		}
		if err := assumptions.Validate(); err != nil {
			return err
		}

		return printJSON(scenario.ApplyAssumptions(base, assumptions))
	},
}

func init() {
	defaults := model.DefaultAssumptions()
	adjustCmd.Flags().StringVar(&adjustIn, "in", "", "path to estimate JSON (required)")
	adjustCmd.Flags().Float64Var(&adjustMaterial, "material", defaults.MaterialCostMultiplier, "material cost multiplier")
	adjustCmd.Flags().Float64Var(&adjustLabor, "labor", defaults.LaborRateMultiplier, "labor rate multiplier")
	adjustCmd.Flags().Float64Var(&adjustEquipment, "equipment", defaults.EquipmentCostMultiplier, "equipment cost multiplier")
	adjustCmd.Flags().Float64Var(&adjustContingency, "contingency", defaults.ContingencyPercentage, "contingency percentage of adjusted subtotal")
	_ = adjustCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(adjustCmd)
}
