package estimator

import (
	"encoding/json"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/scenario"
)

// cleanJSON strips markdown code fences and surrounding prose from a model
// response, keeping the outermost JSON value.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)

	// Keep from the first brace/bracket: models sometimes prepend a sentence.
	objIdx := strings.IndexAny(text, "{[")
	if objIdx > 0 {
		text = text[objIdx:]
	}
	return text
}

// repairJSON runs the cleaned text through json-repair so truncated or
// lightly malformed model output still parses.
func repairJSON(text string) (string, error) {
	cleaned := cleanJSON(text)
	repaired, err := jsonrepair.RepairJSON(cleaned)
	if err != nil {
		return "", eris.Wrap(err, "estimator: repair json")
	}
	return repaired, nil
}

// parseEstimation decodes a model response into an EstimationResult and
// reconciles it with the requested timeline. The collaborator is not
// trusted: totals are recomputed from the breakdown when they disagree, and
// the cashflow is regenerated when it does not match the timeline.
func parseEstimation(text string, timelineMonths int) (*model.EstimationResult, error) {
	repaired, err := repairJSON(text)
	if err != nil {
		return nil, err
	}

	var result model.EstimationResult
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return nil, eris.Wrap(err, "estimator: decode estimation")
	}

	sanitizeEstimation(&result)
	return scenario.NormalizeCashflow(&result, timelineMonths), nil
}

// sanitizeEstimation enforces the structural invariants the model is asked
// for but does not reliably uphold.
func sanitizeEstimation(r *model.EstimationResult) {
	if r.CurrencySymbol == "" {
		r.CurrencySymbol = "$"
	}
	if r.ConfidenceScore < 0 {
		r.ConfidenceScore = 0
	}
	if r.ConfidenceScore > 100 {
		r.ConfidenceScore = 100
	}
	for i := range r.Breakdown {
		if r.Breakdown[i].Cost < 0 {
			r.Breakdown[i].Cost = 0
		}
	}

	// The itemized breakdown is authoritative over the model's own total.
	if len(r.Breakdown) > 0 {
		sum := r.BreakdownTotal()
		if diff := sum - r.TotalEstimatedCost; diff > 1 || diff < -1 {
			zap.L().Debug("estimator: breakdown disagrees with total, recomputing",
				zap.Float64("reported_total", r.TotalEstimatedCost),
				zap.Float64("breakdown_sum", sum),
			)
			r.TotalEstimatedCost = sum
		}
	}
}

// parseTips decodes a tips response into a string list.
func parseTips(text string) ([]string, error) {
	repaired, err := repairJSON(text)
	if err != nil {
		return nil, err
	}
	var tips []string
	if err := json.Unmarshal([]byte(repaired), &tips); err != nil {
		return nil, eris.Wrap(err, "estimator: decode tips")
	}
	return tips, nil
}

// parseRisks decodes a risks response into a RiskItem list.
func parseRisks(text string) ([]model.RiskItem, error) {
	repaired, err := repairJSON(text)
	if err != nil {
		return nil, err
	}
	var risks []model.RiskItem
	if err := json.Unmarshal([]byte(repaired), &risks); err != nil {
		return nil, eris.Wrap(err, "estimator: decode risks")
	}
	return risks, nil
}
