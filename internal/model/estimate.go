// Package model defines the data types exchanged between the estimation
// collaborator, the derivation core, and the report layer.
package model

import "math"

// ProjectType classifies the kind of construction project.
type ProjectType string

const (
	ProjectResidential ProjectType = "Residential"
	ProjectCommercial  ProjectType = "Commercial"
	ProjectIndustrial  ProjectType = "Industrial"
	ProjectRenovation  ProjectType = "Renovation"
)

// Quality is one of the three discrete quality tiers supported by the
// scenario deriver.
type Quality string

const (
	QualityEconomy  Quality = "Economy"
	QualityStandard Quality = "Standard"
	QualityPremium  Quality = "Premium"
)

// Qualities lists the tiers in ascending cost order.
func Qualities() []Quality {
	return []Quality{QualityEconomy, QualityStandard, QualityPremium}
}

// Impact grades the severity of a project risk.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// ProjectInputs holds the user-supplied project parameters submitted to
// the estimation collaborator.
type ProjectInputs struct {
	Type           ProjectType `json:"type"`
	Quality        Quality     `json:"quality"`
	Location       string      `json:"location"` // "City, Region"
	SizeSqFt       float64     `json:"size_sqft"`
	Floors         int         `json:"floors"`
	BudgetLimit    float64     `json:"budget_limit"`
	TimelineMonths int         `json:"timeline_months"`
	Manpower       int         `json:"manpower"`
}

// CostItem is one line of an itemized cost breakdown. Category is free
// text from the estimator; the derivation core matches it case-insensitively
// against a fixed vocabulary to decide how it responds to multipliers.
type CostItem struct {
	Category    string   `json:"category"`
	Cost        float64  `json:"cost"`
	Description string   `json:"description"`
	Details     []string `json:"details,omitempty"`
}

// CashFlowMonth is one entry of the month-by-month disbursement schedule.
type CashFlowMonth struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
	Phase  string  `json:"phase"`
}

// RiskItem describes one project risk and its mitigation.
type RiskItem struct {
	Risk       string `json:"risk"`
	Impact     Impact `json:"impact"`
	Mitigation string `json:"mitigation"`
}

// EstimationResult is the canonical shape of one cost estimate. Every
// derivation produces a fresh value; results are never mutated in place.
type EstimationResult struct {
	CurrencySymbol     string          `json:"currency_symbol"`
	TotalEstimatedCost float64         `json:"total_estimated_cost"`
	Breakdown          []CostItem      `json:"breakdown"`
	Cashflow           []CashFlowMonth `json:"cashflow"`
	Risks              []RiskItem      `json:"risks"`
	ConfidenceScore    float64         `json:"confidence_score"`
	ConfidenceReason   string          `json:"confidence_reason"`
	EfficiencyTips     []string        `json:"efficiency_tips"`
	Summary            string          `json:"summary"`
}

// BreakdownTotal sums the itemized breakdown costs.
func (r *EstimationResult) BreakdownTotal() float64 {
	var sum float64
	for _, it := range r.Breakdown {
		sum += it.Cost
	}
	return sum
}

// CashflowTotal sums the monthly cashflow amounts.
func (r *EstimationResult) CashflowTotal() float64 {
	var sum float64
	for _, m := range r.Cashflow {
		sum += m.Amount
	}
	return sum
}

// Consistent reports whether breakdown and cashflow both reconcile with the
// total within one unit of the smallest currency denomination.
func (r *EstimationResult) Consistent() bool {
	return math.Abs(r.BreakdownTotal()-r.TotalEstimatedCost) <= 1 &&
		math.Abs(r.CashflowTotal()-r.TotalEstimatedCost) <= 1
}

// Clone returns a deep copy. Derivations operate on copies so the anchor
// estimate is never fed back into.
func (r *EstimationResult) Clone() *EstimationResult {
	out := *r
	out.Breakdown = make([]CostItem, len(r.Breakdown))
	for i, it := range r.Breakdown {
		out.Breakdown[i] = it
		if it.Details != nil {
			out.Breakdown[i].Details = append([]string(nil), it.Details...)
		}
	}
	out.Cashflow = append([]CashFlowMonth(nil), r.Cashflow...)
	out.Risks = append([]RiskItem(nil), r.Risks...)
	out.EfficiencyTips = append([]string(nil), r.EfficiencyTips...)
	return &out
}

// EditableAssumptions are the user-controlled cost multipliers applied by
// the assumption adjuster. Multipliers are positive ratios; the UI exposes
// a 0.5–2.0 range. ContingencyPercentage is a percentage of all other
// adjusted costs, not a multiplier target.
type EditableAssumptions struct {
	MaterialCostMultiplier  float64 `json:"material_cost_multiplier"`
	LaborRateMultiplier     float64 `json:"labor_rate_multiplier"`
	EquipmentCostMultiplier float64 `json:"equipment_cost_multiplier"`
	ContingencyPercentage   float64 `json:"contingency_percentage"`
}

// DefaultAssumptions returns the neutral assumption set (all multipliers
// 1.0, contingency at 10%).
func DefaultAssumptions() EditableAssumptions {
	return EditableAssumptions{
		MaterialCostMultiplier:  1.0,
		LaborRateMultiplier:     1.0,
		EquipmentCostMultiplier: 1.0,
		ContingencyPercentage:   10,
	}
}

// ScenarioComparison holds one estimate per quality tier, mutually derived
// from a single anchor.
type ScenarioComparison struct {
	Economy  *EstimationResult `json:"economy"`
	Standard *EstimationResult `json:"standard"`
	Premium  *EstimationResult `json:"premium"`
}

// ByQuality returns the entry for the given tier, or nil for an unknown tier.
func (c *ScenarioComparison) ByQuality(q Quality) *EstimationResult {
	switch q {
	case QualityEconomy:
		return c.Economy
	case QualityStandard:
		return c.Standard
	case QualityPremium:
		return c.Premium
	}
	return nil
}
