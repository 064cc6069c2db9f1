// Package report flattens estimation output into an exportable record.
// It does layout-free assembly only: the numbers arrive already reconciled
// from the derivation core, and pagination belongs to whatever renders the
// record.
package report

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/buildwise/costplan/internal/model"
)

// Record is the flattened report consumed by exporters.
type Record struct {
	ID          string                    `json:"id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Inputs      model.ProjectInputs       `json:"inputs"`
	Assumptions model.EditableAssumptions `json:"assumptions"`
	Result      *model.EstimationResult   `json:"result"`
	Comparison  *model.ScenarioComparison `json:"comparison,omitempty"`
	BudgetDelta float64                   `json:"budget_delta"`
	OverBudget  bool                      `json:"over_budget"`
}

// Assemble builds a Record from the estimation output. comparison may be
// nil when the user never opened the scenario view.
func Assemble(inputs model.ProjectInputs, result *model.EstimationResult,
	assumptions model.EditableAssumptions, comparison *model.ScenarioComparison) *Record {

	delta := inputs.BudgetLimit - result.TotalEstimatedCost
	return &Record{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Inputs:      inputs,
		Assumptions: assumptions,
		Result:      result,
		Comparison:  comparison,
		BudgetDelta: delta,
		OverBudget:  delta < 0,
	}
}

// Formatter renders currency amounts with locale-aware digit grouping.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a Formatter for a BCP 47 locale tag. Unparseable
// tags fall back to en-US.
func NewFormatter(locale, currencySymbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	if currencySymbol == "" {
		currencySymbol = "$"
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  currencySymbol,
	}
}

// Money renders an amount with the currency symbol and grouped digits.
func (f *Formatter) Money(amount float64) string {
	return f.symbol + f.printer.Sprintf("%.0f", amount)
}

// Percent renders a ratio as a percentage string.
func (f *Formatter) Percent(ratio float64) string {
	return f.printer.Sprintf("%.1f%%", ratio*100)
}
