package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildwise/costplan/internal/model"
)

func baseEstimate() *model.EstimationResult {
	return &model.EstimationResult{
		CurrencySymbol:     "$",
		TotalEstimatedCost: 1_000_000,
		Breakdown: []model.CostItem{
			{Category: "Materials", Cost: 450_000, Description: "Standard grade materials"},
			{Category: "Labor", Cost: 300_000},
			{Category: "Equipment", Cost: 100_000},
			{Category: "Permits", Cost: 50_000},
			{Category: "Contingency Buffer", Cost: 100_000},
		},
		Cashflow: []model.CashFlowMonth{
			{Month: 1, Amount: 150_000, Phase: "Site preparation"},
			{Month: 2, Amount: 250_000, Phase: "Foundation work"},
			{Month: 3, Amount: 300_000, Phase: "Structural envelope"},
			{Month: 4, Amount: 150_000, Phase: "Interior work"},
			{Month: 5, Amount: 100_000, Phase: "Interior work"},
			{Month: 6, Amount: 50_000, Phase: "Finishing & handover"},
		},
		ConfidenceScore: 85,
		Summary:         "Standard quality residential build",
	}
}

func TestApplyAssumptions_Neutral(t *testing.T) {
	base := baseEstimate()
	got := ApplyAssumptions(base, model.DefaultAssumptions())

	// All multipliers 1.0; contingency recomputed at 10% of the other
	// 900_000 = 90_000, so the total drops by 10_000.
	assert.Equal(t, 90_000.0, got.Breakdown[4].Cost)
	assert.Equal(t, 990_000.0, got.TotalEstimatedCost)
	assert.True(t, got.Consistent())
}

func TestApplyAssumptions_Multipliers(t *testing.T) {
	base := baseEstimate()
	got := ApplyAssumptions(base, model.EditableAssumptions{
		MaterialCostMultiplier:  1.2,
		LaborRateMultiplier:     0.9,
		EquipmentCostMultiplier: 1.5,
		ContingencyPercentage:   10,
	})

	// material 450_000*1.2 = 540_000; labor 300_000*0.9 = 270_000;
	// equipment 100_000*1.5 = 150_000; permits unchanged 50_000.
	assert.Equal(t, 540_000.0, got.Breakdown[0].Cost)
	assert.Equal(t, 270_000.0, got.Breakdown[1].Cost)
	assert.Equal(t, 150_000.0, got.Breakdown[2].Cost)
	assert.Equal(t, 50_000.0, got.Breakdown[3].Cost)

	// contingency = 10% of (540 + 270 + 150 + 50)k = 101_000.
	assert.Equal(t, 101_000.0, got.Breakdown[4].Cost)

	// total = sum of adjusted items = 1_111_000.
	assert.Equal(t, 1_111_000.0, got.TotalEstimatedCost)
	assert.InDelta(t, got.TotalEstimatedCost, got.BreakdownTotal(), 1)
	assert.InDelta(t, got.TotalEstimatedCost, got.CashflowTotal(), 1)
}

func TestApplyAssumptions_ContingencyRecompute(t *testing.T) {
	// The contingency item's previous value is discarded entirely: it is a
	// recomputed percentage of everything else, not a multiplier target.
	base := &model.EstimationResult{
		TotalEstimatedCost: 1_100,
		Breakdown: []model.CostItem{
			{Category: "Materials", Cost: 1_000},
			{Category: "Contingency", Cost: 100},
		},
	}
	got := ApplyAssumptions(base, model.EditableAssumptions{
		MaterialCostMultiplier:  1.0,
		LaborRateMultiplier:     1.0,
		EquipmentCostMultiplier: 1.0,
		ContingencyPercentage:   25,
	})
	assert.Equal(t, 250.0, got.Breakdown[1].Cost)
	assert.Equal(t, 1_250.0, got.TotalEstimatedCost)
}

func TestApplyAssumptions_UnclassifiedCategory(t *testing.T) {
	base := &model.EstimationResult{
		TotalEstimatedCost: 500,
		Breakdown: []model.CostItem{
			{Category: "Landscaping extras", Cost: 500},
		},
	}
	got := ApplyAssumptions(base, model.EditableAssumptions{
		MaterialCostMultiplier:  2.0,
		LaborRateMultiplier:     2.0,
		EquipmentCostMultiplier: 2.0,
		ContingencyPercentage:   0,
	})
	// Unclassifiable labels fall into the default bucket: no multiplier.
	assert.Equal(t, 500.0, got.Breakdown[0].Cost)
	assert.Equal(t, 500.0, got.TotalEstimatedCost)
}

func TestApplyAssumptions_EmptyBreakdown(t *testing.T) {
	base := &model.EstimationResult{TotalEstimatedCost: 0}
	got := ApplyAssumptions(base, model.DefaultAssumptions())
	require.NotNil(t, got)
	assert.Zero(t, got.TotalEstimatedCost)
	assert.Empty(t, got.Breakdown)
}

func TestApplyAssumptions_ZeroOldTotalLeavesCashflow(t *testing.T) {
	base := &model.EstimationResult{
		TotalEstimatedCost: 0,
		Breakdown:          []model.CostItem{{Category: "Materials", Cost: 100}},
		Cashflow:           []model.CashFlowMonth{{Month: 1, Amount: 42, Phase: "Setup & major work"}},
	}
	got := ApplyAssumptions(base, model.DefaultAssumptions())
	// Division-by-zero guard: cashflow left unscaled.
	assert.Equal(t, 42.0, got.Cashflow[0].Amount)
	assert.Equal(t, 100.0, got.TotalEstimatedCost)
}

func TestApplyAssumptions_DoesNotMutateBase(t *testing.T) {
	base := baseEstimate()
	_ = ApplyAssumptions(base, model.EditableAssumptions{
		MaterialCostMultiplier:  2.0,
		LaborRateMultiplier:     2.0,
		EquipmentCostMultiplier: 2.0,
		ContingencyPercentage:   50,
	})
	assert.Equal(t, 450_000.0, base.Breakdown[0].Cost)
	assert.Equal(t, 1_000_000.0, base.TotalEstimatedCost)
	assert.Equal(t, 150_000.0, base.Cashflow[0].Amount)
}

func TestApplyAssumptions_SumInvariantProperty(t *testing.T) {
	// Property 1: for any consistent base and valid assumptions, the
	// adjusted breakdown sums to the adjusted total within one unit.
	base := baseEstimate()
	for _, a := range []model.EditableAssumptions{
		{MaterialCostMultiplier: 0.5, LaborRateMultiplier: 0.5, EquipmentCostMultiplier: 0.5, ContingencyPercentage: 0},
		{MaterialCostMultiplier: 2.0, LaborRateMultiplier: 1.7, EquipmentCostMultiplier: 0.6, ContingencyPercentage: 100},
		{MaterialCostMultiplier: 1.33, LaborRateMultiplier: 0.81, EquipmentCostMultiplier: 1.05, ContingencyPercentage: 7.5},
	} {
		got := ApplyAssumptions(base, a)
		assert.LessOrEqual(t, math.Abs(got.BreakdownTotal()-got.TotalEstimatedCost), 1.0)
		assert.LessOrEqual(t, math.Abs(got.CashflowTotal()-got.TotalEstimatedCost), 1.0)
	}
}
