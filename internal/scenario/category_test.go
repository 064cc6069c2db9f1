package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buildwise/costplan/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label    string
		expected Category
	}{
		{"Materials", CategoryMaterial},
		{"Raw Material Procurement", CategoryMaterial},
		{"Labor", CategoryLabor},
		{"Labour & Wages", CategoryLabor},
		{"Skilled Manpower", CategoryLabor},
		{"Equipment Rental", CategoryEquipment},
		{"Tools & Machinery", CategoryEquipment},
		{"Permits", CategoryPermit},
		{"Government Approvals", CategoryPermit},
		{"Contingency Buffer", CategoryContingency},
		{"Miscellaneous", CategoryDefault},
		{"", CategoryDefault},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.label))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A label matching several keywords takes the first classification in
	// priority order: material wins over labor.
	assert.Equal(t, CategoryMaterial, Classify("Material handling labor"))
	// Labor wins over equipment.
	assert.Equal(t, CategoryLabor, Classify("Labor for equipment setup"))
}

func TestTierRatio_Identity(t *testing.T) {
	for cat := range ratioTable {
		for _, q := range model.Qualities() {
			assert.Equal(t, 1.0, TierRatio(cat, q, q), "cat=%s q=%s", cat, q)
		}
	}
}

func TestTierRatio_Composition(t *testing.T) {
	// Economy→Premium must equal Economy→Standard times Standard→Premium
	// for every category, so multi-hop derivations stay consistent.
	for cat := range ratioTable {
		direct := TierRatio(cat, model.QualityEconomy, model.QualityPremium)
		viaStandard := TierRatio(cat, model.QualityEconomy, model.QualityStandard) *
			TierRatio(cat, model.QualityStandard, model.QualityPremium)
		assert.InDelta(t, direct, viaStandard, 1e-12, "cat=%s", cat)
	}
}

func TestTierRatio_TierInvariantCategories(t *testing.T) {
	for _, cat := range []Category{CategoryPermit, CategoryContingency} {
		assert.Equal(t, 1.0, TierRatio(cat, model.QualityEconomy, model.QualityPremium))
		assert.Equal(t, 1.0, TierRatio(cat, model.QualityStandard, model.QualityEconomy))
	}
}

func TestRatios_UnknownCategoryFallsBack(t *testing.T) {
	assert.Equal(t, Ratios(CategoryDefault), Ratios(Category("bogus")))
}
