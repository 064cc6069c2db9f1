package scenario

import "github.com/buildwise/costplan/internal/model"

// ApplyAssumptions applies user-controlled cost multipliers to a base
// estimate and returns a new internally consistent estimate.
//
// Material, labor and equipment items are multiplied by their respective
// multipliers; unclassified and permit items keep their cost. Contingency
// items are not multiplier targets: each is recomputed as
// ContingencyPercentage percent of the sum of all non-contingency adjusted
// items, discarding its previous value. The total is the sum of adjusted
// items and the cashflow is rescaled proportionally so both invariants
// survive the adjustment.
func ApplyAssumptions(base *model.EstimationResult, assumptions model.EditableAssumptions) *model.EstimationResult {
	out := base.Clone()

	// First pass: multiply non-contingency items and accumulate their sum.
	var nonContingency float64
	contingencyIdx := make([]int, 0, 1)
	for i := range out.Breakdown {
		item := &out.Breakdown[i]
		cat := Classify(item.Category)
		if cat == CategoryContingency {
			contingencyIdx = append(contingencyIdx, i)
			continue
		}
		item.Cost *= multiplierFor(cat, assumptions)
		nonContingency += item.Cost
	}

	// Second pass: contingency tracks the adjusted non-contingency sum.
	for _, i := range contingencyIdx {
		out.Breakdown[i].Cost = nonContingency * assumptions.ContingencyPercentage / 100
	}

	oldTotal := base.TotalEstimatedCost
	out.TotalEstimatedCost = out.BreakdownTotal()
	rescaleCashflow(out, oldTotal)

	if out.Summary != "" {
		out.Summary += " (adjusted for custom cost assumptions)"
	}
	return out
}

// multiplierFor returns the assumption multiplier for a classification.
// Categories outside the multiplier vocabulary are left untouched.
func multiplierFor(cat Category, a model.EditableAssumptions) float64 {
	switch cat {
	case CategoryMaterial:
		return a.MaterialCostMultiplier
	case CategoryLabor:
		return a.LaborRateMultiplier
	case CategoryEquipment:
		return a.EquipmentCostMultiplier
	default:
		return 1.0
	}
}

// rescaleCashflow multiplies every month's amount by
// newTotal / oldTotal. A zero old total leaves the cashflow unscaled
// rather than dividing by zero.
func rescaleCashflow(r *model.EstimationResult, oldTotal float64) {
	if oldTotal == 0 {
		return
	}
	ratio := r.TotalEstimatedCost / oldTotal
	for i := range r.Cashflow {
		r.Cashflow[i].Amount *= ratio
	}
}
