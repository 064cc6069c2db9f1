package model

import "github.com/rotisserie/eris"

// Validate checks that all numeric inputs are positive and the timeline is
// within the supported 1–60 month range before submission to estimation.
func (p ProjectInputs) Validate() error {
	switch p.Type {
	case ProjectResidential, ProjectCommercial, ProjectIndustrial, ProjectRenovation:
	default:
		return eris.Errorf("inputs: unknown project type %q", p.Type)
	}
	switch p.Quality {
	case QualityEconomy, QualityStandard, QualityPremium:
	default:
		return eris.Errorf("inputs: unknown quality tier %q", p.Quality)
	}
	if p.SizeSqFt <= 0 {
		return eris.New("inputs: size must be positive")
	}
	if p.Floors <= 0 {
		return eris.New("inputs: floor count must be positive")
	}
	if p.BudgetLimit <= 0 {
		return eris.New("inputs: budget limit must be positive")
	}
	if p.TimelineMonths < 1 || p.TimelineMonths > 60 {
		return eris.New("inputs: timeline must be between 1 and 60 months")
	}
	if p.Manpower <= 0 {
		return eris.New("inputs: manpower must be positive")
	}
	return nil
}

// Validate checks that multipliers are positive finite ratios and the
// contingency percentage is within [0,100].
func (a EditableAssumptions) Validate() error {
	for _, m := range []struct {
		name string
		val  float64
	}{
		{"material", a.MaterialCostMultiplier},
		{"labor", a.LaborRateMultiplier},
		{"equipment", a.EquipmentCostMultiplier},
	} {
		if m.val <= 0 || m.val != m.val || m.val > 1e6 {
			return eris.Errorf("assumptions: %s multiplier must be a positive finite ratio", m.name)
		}
	}
	if a.ContingencyPercentage < 0 || a.ContingencyPercentage > 100 {
		return eris.New("assumptions: contingency percentage must be within 0-100")
	}
	return nil
}
