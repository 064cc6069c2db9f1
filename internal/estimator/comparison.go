package estimator

import (
	"context"

	"go.uber.org/zap"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/scenario"
)

// Comparison builds the three-tier scenario comparison. When an anchor
// estimate is supplied it is trusted as ground truth for inputs.Quality and
// the two siblings are derived locally; the anchor's own entry is returned
// unchanged, never re-derived from itself. Without an anchor, a Standard
// tier estimate is requested from the model; if that also fails, a fixed
// placeholder comparison is returned so the dashboard never renders empty.
func (s *Service) Comparison(ctx context.Context, inputs model.ProjectInputs, anchor *model.EstimationResult) (*model.ScenarioComparison, error) {
	anchorQuality := inputs.Quality

	if anchor == nil {
		anchorQuality = model.QualityStandard
		standardInputs := inputs
		standardInputs.Quality = model.QualityStandard

		est, err := s.Estimate(ctx, standardInputs)
		if err != nil {
			zap.L().Warn("comparison anchor estimate failed, using placeholder tiers",
				zap.Error(err),
			)
			return placeholderComparison(inputs), nil
		}
		anchor = est
	}

	return scenario.Comparison(anchor, anchorQuality), nil
}

// Placeholder totals per tier, used only when no estimate of any kind is
// available.
const (
	placeholderEconomyTotal  = 750_000
	placeholderStandardTotal = 1_000_000
	placeholderPremiumTotal  = 1_350_000
)

// placeholderComparison returns the hardcoded three-tier stub: fixed
// totals, empty breakdowns, fixed confidence scores.
func placeholderComparison(inputs model.ProjectInputs) *model.ScenarioComparison {
	entry := func(q model.Quality, total, confidence float64) *model.EstimationResult {
		result := &model.EstimationResult{
			CurrencySymbol:     "$",
			TotalEstimatedCost: total,
			ConfidenceScore:    confidence,
			ConfidenceReason:   "Placeholder figures; the estimation service was unavailable.",
			Summary:            string(q) + " tier placeholder estimate.",
		}
		return scenario.NormalizeCashflow(result, inputs.TimelineMonths)
	}
	return &model.ScenarioComparison{
		Economy:  entry(model.QualityEconomy, placeholderEconomyTotal, 70),
		Standard: entry(model.QualityStandard, placeholderStandardTotal, 85),
		Premium:  entry(model.QualityPremium, placeholderPremiumTotal, 80),
	}
}
