// Package scenario implements the deterministic derivation core: assumption
// adjustment, quality-tier scenario derivation, and cashflow normalization.
// All functions are pure, allocate fresh outputs, and never fail; malformed
// input degrades to neutral (1.0 ratio) behavior.
package scenario

import (
	"strings"

	"github.com/buildwise/costplan/internal/model"
)

// Category is the internal classification of a breakdown line, decided by
// case-insensitive substring matching on its free-text category label.
type Category string

const (
	CategoryMaterial    Category = "material"
	CategoryLabor       Category = "labor"
	CategoryEquipment   Category = "equipment"
	CategoryPermit      Category = "permit"
	CategoryContingency Category = "contingency"
	CategoryDefault     Category = "default"
)

// categoryKeywords maps each classification to the substrings that select
// it. Order matters: the first classification whose keyword matches wins.
var categoryKeywords = []struct {
	cat      Category
	keywords []string
}{
	{CategoryMaterial, []string{"material"}},
	{CategoryLabor, []string{"labor", "labour", "wage", "manpower"}},
	{CategoryEquipment, []string{"equipment", "tool"}},
	{CategoryPermit, []string{"permit", "approval"}},
	{CategoryContingency, []string{"contingency"}},
}

// Classify maps a free-text category label to its internal classification.
// Unrecognized labels fall through to CategoryDefault.
func Classify(label string) Category {
	lower := strings.ToLower(label)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.cat
			}
		}
	}
	return CategoryDefault
}

// TierRatios holds the relative cost ratio of each quality tier within one
// category, anchored at Standard = 1.0.
type TierRatios struct {
	Economy  float64
	Standard float64
	Premium  float64
}

// At returns the ratio for the given tier.
func (t TierRatios) At(q model.Quality) float64 {
	switch q {
	case model.QualityEconomy:
		return t.Economy
	case model.QualityPremium:
		return t.Premium
	default:
		return t.Standard
	}
}

// ratioTable is the single authoritative quality-tier cost model. Permits
// and contingency are tier-invariant: permit fees do not depend on finish
// quality, and contingency tracks the rest of the budget rather than
// scaling independently.
var ratioTable = map[Category]TierRatios{
	CategoryMaterial:    {Economy: 0.7, Standard: 1.0, Premium: 1.5},
	CategoryLabor:       {Economy: 0.8, Standard: 1.0, Premium: 1.3},
	CategoryEquipment:   {Economy: 0.9, Standard: 1.0, Premium: 1.1},
	CategoryPermit:      {Economy: 1.0, Standard: 1.0, Premium: 1.0},
	CategoryContingency: {Economy: 1.0, Standard: 1.0, Premium: 1.0},
	CategoryDefault:     {Economy: 0.75, Standard: 1.0, Premium: 1.35},
}

// Ratios returns the tier ratio row for a classification. Unknown
// classifications get the default row.
func Ratios(cat Category) TierRatios {
	if r, ok := ratioTable[cat]; ok {
		return r
	}
	return ratioTable[CategoryDefault]
}

// TierRatio returns the per-category scaling factor for deriving target
// from base: table[cat][target] / table[cat][base].
func TierRatio(cat Category, base, target model.Quality) float64 {
	row := Ratios(cat)
	b := row.At(base)
	if b == 0 {
		return 1
	}
	return row.At(target) / b
}
