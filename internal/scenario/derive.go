package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/buildwise/costplan/internal/model"
)

// Derive produces the targetQuality sibling of a base estimate tagged
// baseQuality. Each breakdown item is scaled by its category's tier ratio
// and rounded to whole currency units; the new total is the sum of the
// adjusted items (the category-weighted sum is authoritative, not the
// coarse overall tier anchor). The cashflow is rescaled proportionally.
//
// Deriving a tier from itself returns the base unchanged, an identity
// rather than a no-op ratio pass that could introduce rounding drift.
func Derive(base *model.EstimationResult, baseQuality, targetQuality model.Quality) *model.EstimationResult {
	if baseQuality == targetQuality {
		return base
	}

	out := base.Clone()
	for i := range out.Breakdown {
		item := &out.Breakdown[i]
		ratio := TierRatio(Classify(item.Category), baseQuality, targetQuality)
		item.Cost = math.Round(item.Cost * ratio)
		item.Description = replaceQuality(item.Description, baseQuality, targetQuality)
	}

	oldTotal := base.TotalEstimatedCost
	out.TotalEstimatedCost = out.BreakdownTotal()
	rescaleCashflow(out, oldTotal)

	out.Summary = replaceQuality(out.Summary, baseQuality, targetQuality)
	out.ConfidenceReason = fmt.Sprintf(
		"Derived from the %s tier estimate (confidence %.0f) using category-specific quality ratios.",
		baseQuality, base.ConfidenceScore,
	)
	return out
}

// replaceQuality substitutes literal occurrences of the base tier name
// (canonical case and lower case) with the target tier name. This is a
// plain string substitution, not a semantic rewrite; text that happens to
// contain the tier name as a substring of an unrelated word is corrupted.
// A structured template placeholder would avoid that; the substitution is
// kept for output compatibility.
func replaceQuality(s string, base, target model.Quality) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, string(base), string(target))
	s = strings.ReplaceAll(s, strings.ToLower(string(base)), strings.ToLower(string(target)))
	return s
}
