package rates

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/scenario"
)

// baselineConfidence is the fixed confidence of a rate-table estimate.
// It is deliberately lower than typical model confidence: the table knows
// nothing about the specific site.
const baselineConfidence = 60

// Baseline computes a deterministic estimate from the static rate table.
// It is the fallback when the estimation collaborator fails, so downstream
// consumers always receive a structurally valid result. All money math runs
// on decimals and rounds to whole currency units.
func Baseline(inputs model.ProjectInputs) *model.EstimationResult {
	t := Default()

	rate := decimal.NewFromFloat(t.BaseRates[inputs.Type])
	if rate.IsZero() {
		rate = decimal.NewFromInt(150)
	}

	subtotal := rate.
		Mul(decimal.NewFromFloat(inputs.SizeSqFt)).
		Mul(decimal.NewFromFloat(t.CityFactor(inputs.Location))).
		Mul(decimal.NewFromFloat(qualityFactor(t, inputs.Quality))).
		Mul(floorFactor(t, inputs.Floors))

	breakdown := make([]model.CostItem, 0, 5)
	var allocated decimal.Decimal
	for _, split := range []struct {
		key      string
		category string
		desc     string
	}{
		{"material", "Materials", "%s grade construction materials"},
		{"labor", "Labor", "Crew wages for a %s specification build"},
		{"equipment", "Equipment", "Machinery and tool rental"},
		{"permits", "Permits & Approvals", "Municipal permits and inspection fees"},
	} {
		cost := subtotal.Mul(decimal.NewFromFloat(t.Splits[split.key])).Round(0)
		allocated = allocated.Add(cost)
		desc := split.desc
		if split.key == "material" || split.key == "labor" {
			desc = fmt.Sprintf(split.desc, inputs.Quality)
		}
		breakdown = append(breakdown, model.CostItem{
			Category:    split.category,
			Cost:        cost.InexactFloat64(),
			Description: desc,
		})
	}

	contingency := allocated.
		Mul(decimal.NewFromFloat(t.ContingencyPercent)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	breakdown = append(breakdown, model.CostItem{
		Category:    "Contingency",
		Cost:        contingency.InexactFloat64(),
		Description: fmt.Sprintf("%.0f%% reserve on all other costs", t.ContingencyPercent),
	})

	total := allocated.Add(contingency)

	result := &model.EstimationResult{
		CurrencySymbol:     t.CurrencySymbol,
		TotalEstimatedCost: total.InexactFloat64(),
		Breakdown:          breakdown,
		Risks:              t.RisksFor(inputs.Type),
		EfficiencyTips:     t.TipsFor(inputs.Type),
		ConfidenceScore:    baselineConfidence,
		ConfidenceReason:   "Computed from the regional rate table; no project-specific data was considered.",
		Summary: fmt.Sprintf("%s quality %s project of %.0f sq ft over %d months, estimated from regional baseline rates.",
			inputs.Quality, inputs.Type, inputs.SizeSqFt, inputs.TimelineMonths),
	}
	return scenario.NormalizeCashflow(result, inputs.TimelineMonths)
}

func qualityFactor(t *Table, q model.Quality) float64 {
	if f, ok := t.QualityMultipliers[q]; ok && f > 0 {
		return f
	}
	return 1.0
}

// floorFactor adds FloorComplexity per floor above the first.
func floorFactor(t *Table, floors int) decimal.Decimal {
	if floors <= 1 {
		return decimal.NewFromInt(1)
	}
	extra := decimal.NewFromFloat(t.FloorComplexity).
		Mul(decimal.NewFromInt(int64(floors - 1)))
	return decimal.NewFromInt(1).Add(extra)
}
