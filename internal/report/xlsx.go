package report

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/buildwise/costplan/internal/model"
)

// WriteXLSX renders a Record as a formatted workbook: a summary sheet, the
// itemized breakdown, the monthly cashflow, and (when present) the
// three-tier scenario comparison.
func WriteXLSX(record *Record, locale string, w io.Writer) error {
	f := xlsx.NewFile()
	fmtr := NewFormatter(locale, record.Result.CurrencySymbol)

	if err := writeSummarySheet(f, record, fmtr); err != nil {
		return err
	}
	if err := writeBreakdownSheet(f, record.Result, fmtr); err != nil {
		return err
	}
	if err := writeCashflowSheet(f, record.Result, fmtr); err != nil {
		return err
	}
	if record.Comparison != nil {
		if err := writeComparisonSheet(f, record.Comparison, fmtr); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write workbook")
	}
	return nil
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

func writeSummarySheet(f *xlsx.File, record *Record, fmtr *Formatter) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addKV(sheet, "Report ID", record.ID)
	addKV(sheet, "Generated", record.GeneratedAt.Format("2006-01-02 15:04 MST"))
	addKV(sheet, "Project type", string(record.Inputs.Type))
	addKV(sheet, "Quality tier", string(record.Inputs.Quality))
	addKV(sheet, "Location", record.Inputs.Location)
	addKV(sheet, "Area (sq ft)", fmt.Sprintf("%.0f", record.Inputs.SizeSqFt))
	addKV(sheet, "Floors", fmt.Sprintf("%d", record.Inputs.Floors))
	addKV(sheet, "Timeline (months)", fmt.Sprintf("%d", record.Inputs.TimelineMonths))
	addKV(sheet, "Workforce", fmt.Sprintf("%d", record.Inputs.Manpower))
	addKV(sheet, "Budget limit", fmtr.Money(record.Inputs.BudgetLimit))
	addKV(sheet, "Estimated cost", fmtr.Money(record.Result.TotalEstimatedCost))
	if record.OverBudget {
		addKV(sheet, "Budget status", "OVER budget by "+fmtr.Money(-record.BudgetDelta))
	} else {
		addKV(sheet, "Budget status", "Within budget, headroom "+fmtr.Money(record.BudgetDelta))
	}
	addKV(sheet, "Confidence", fmt.Sprintf("%.0f / 100", record.Result.ConfidenceScore))
	addKV(sheet, "Confidence basis", record.Result.ConfidenceReason)
	addKV(sheet, "Summary", record.Result.Summary)

	addKV(sheet, "", "")
	addKV(sheet, "Material multiplier", fmt.Sprintf("%.2f", record.Assumptions.MaterialCostMultiplier))
	addKV(sheet, "Labor multiplier", fmt.Sprintf("%.2f", record.Assumptions.LaborRateMultiplier))
	addKV(sheet, "Equipment multiplier", fmt.Sprintf("%.2f", record.Assumptions.EquipmentCostMultiplier))
	addKV(sheet, "Contingency", fmt.Sprintf("%.1f%%", record.Assumptions.ContingencyPercentage))

	if len(record.Result.Risks) > 0 {
		addKV(sheet, "", "")
		addKV(sheet, "Risks", "")
		for _, r := range record.Result.Risks {
			addKV(sheet, fmt.Sprintf("[%s] %s", r.Impact, r.Risk), r.Mitigation)
		}
	}
	if len(record.Result.EfficiencyTips) > 0 {
		addKV(sheet, "", "")
		addKV(sheet, "Efficiency tips", "")
		for i, tip := range record.Result.EfficiencyTips {
			addKV(sheet, fmt.Sprintf("Tip %d", i+1), tip)
		}
	}
	return nil
}

func writeBreakdownSheet(f *xlsx.File, result *model.EstimationResult, fmtr *Formatter) error {
	sheet, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "report: add breakdown sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Category", "Cost", "Share", "Description"} {
		header.AddCell().Value = h
	}

	total := result.TotalEstimatedCost
	for _, item := range result.Breakdown {
		row := sheet.AddRow()
		row.AddCell().Value = item.Category
		row.AddCell().Value = fmtr.Money(item.Cost)
		if total > 0 {
			row.AddCell().Value = fmtr.Percent(item.Cost / total)
		} else {
			row.AddCell().Value = ""
		}
		row.AddCell().Value = item.Description
	}

	totalRow := sheet.AddRow()
	totalRow.AddCell().Value = "Total"
	totalRow.AddCell().Value = fmtr.Money(total)
	return nil
}

func writeCashflowSheet(f *xlsx.File, result *model.EstimationResult, fmtr *Formatter) error {
	sheet, err := f.AddSheet("Cashflow")
	if err != nil {
		return eris.Wrap(err, "report: add cashflow sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Month", "Phase", "Amount", "Cumulative"} {
		header.AddCell().Value = h
	}

	var cumulative float64
	for _, m := range result.Cashflow {
		cumulative += m.Amount
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprintf("%d", m.Month)
		row.AddCell().Value = m.Phase
		row.AddCell().Value = fmtr.Money(m.Amount)
		row.AddCell().Value = fmtr.Money(cumulative)
	}
	return nil
}

func writeComparisonSheet(f *xlsx.File, comparison *model.ScenarioComparison, fmtr *Formatter) error {
	sheet, err := f.AddSheet("Scenarios")
	if err != nil {
		return eris.Wrap(err, "report: add scenarios sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Tier", "Total", "Confidence", "Summary"} {
		header.AddCell().Value = h
	}

	for _, q := range model.Qualities() {
		result := comparison.ByQuality(q)
		if result == nil {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().Value = string(q)
		row.AddCell().Value = fmtr.Money(result.TotalEstimatedCost)
		row.AddCell().Value = fmt.Sprintf("%.0f", result.ConfidenceScore)
		row.AddCell().Value = result.Summary
	}
	return nil
}
