package scenario

import "github.com/buildwise/costplan/internal/model"

// Comparison derives the full three-tier comparison from one anchor
// estimate tagged with its true quality. The anchor's own tier keeps the
// anchor unchanged; the siblings are derived from it.
func Comparison(anchor *model.EstimationResult, anchorQuality model.Quality) *model.ScenarioComparison {
	return &model.ScenarioComparison{
		Economy:  Derive(anchor, anchorQuality, model.QualityEconomy),
		Standard: Derive(anchor, anchorQuality, model.QualityStandard),
		Premium:  Derive(anchor, anchorQuality, model.QualityPremium),
	}
}
