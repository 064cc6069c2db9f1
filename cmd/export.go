package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/report"
	"github.com/buildwise/costplan/internal/scenario"
)

var (
	exportInputs    inputFlags
	exportIn        string
	exportOut       string
	exportScenarios bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved estimate as an xlsx budget report",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := exportInputs.inputs()
		if err := inputs.Validate(); err != nil {
			return err
		}

		result, err := loadResult(exportIn)
		if err != nil {
			return err
		}

		var comparison *model.ScenarioComparison
		if exportScenarios {
			comparison = scenario.Comparison(result, inputs.Quality)
		}

		record := report.Assemble(inputs, result, model.DefaultAssumptions(), comparison)

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", exportOut)
		}
		defer f.Close()

		if err := report.WriteXLSX(record, cfg.Report.Locale, f); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("path", exportOut),
			zap.String("report_id", record.ID),
			zap.Bool("over_budget", record.OverBudget),
		)
		return nil
	},
}

func init() {
	exportInputs.register(exportCmd)
	exportCmd.Flags().StringVar(&exportIn, "in", "", "path to estimate JSON (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "report.xlsx", "output workbook path")
	exportCmd.Flags().BoolVar(&exportScenarios, "scenarios", false, "include the derived three-tier comparison sheet")
	_ = exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}
