package estimator

import (
	"fmt"
	"strings"

	"github.com/buildwise/costplan/internal/model"
)

// estimationSystem is the system prompt for estimation calls.
const estimationSystem = "You are a senior construction cost estimator. " +
	"Return only a valid JSON object matching the requested schema, with no prose around it. " +
	"All costs are whole numbers in the local currency of the project location."

const estimationPrompt = `Estimate the construction cost for this project:

Project type: %s
Quality tier: %s
Location: %s
Built-up area: %.0f sq ft
Floors: %d
Timeline: %d months
Workforce: %d workers
Budget limit: %.0f

Return a JSON object with this exact shape:
{
  "currency_symbol": "<symbol for the location's currency>",
  "total_estimated_cost": <number>,
  "breakdown": [
    {"category": "<Materials|Labor|Equipment|Permits & Approvals|Contingency|...>",
     "cost": <number>, "description": "<one line>", "details": ["<optional line items>"]}
  ],
  "cashflow": [{"month": <1..%d>, "amount": <number>, "phase": "<phase label>"}],
  "risks": [{"risk": "<text>", "impact": "<Low|Medium|High>", "mitigation": "<text>"}],
  "confidence_score": <0-100>,
  "confidence_reason": "<one line>",
  "efficiency_tips": ["<tip>"],
  "summary": "<two sentences>"
}

The breakdown costs must sum to total_estimated_cost. The cashflow must have
exactly %d months and sum to total_estimated_cost.`

// buildEstimationPrompt renders the estimation request for a project.
func buildEstimationPrompt(inputs model.ProjectInputs) string {
	return fmt.Sprintf(estimationPrompt,
		inputs.Type, inputs.Quality, inputs.Location,
		inputs.SizeSqFt, inputs.Floors, inputs.TimelineMonths,
		inputs.Manpower, inputs.BudgetLimit,
		inputs.TimelineMonths, inputs.TimelineMonths,
	)
}

// chatSystem is the system prompt for the dashboard chat assistant.
const chatSystem = "You are a construction planning assistant embedded in a cost-estimation dashboard. " +
	"Answer questions about budgeting, scheduling, materials and permits concisely and practically. " +
	"Keep answers under 150 words."

const insightsSystem = "You are a construction advisor. Return only a valid JSON array, no prose."

const tipsPrompt = `List 5 cost-efficiency tips for a %s construction project in %s.
Return a JSON array of strings.`

const risksPrompt = `List the top 5 risks for a %s construction project in %s.
Return a JSON array of objects: [{"risk": "<text>", "impact": "<Low|Medium|High>", "mitigation": "<text>"}]`

// buildInsightsPrompt renders the tips or risks request.
func buildInsightsPrompt(location string, projectType model.ProjectType, kind InsightKind) string {
	if kind == InsightRisks {
		return fmt.Sprintf(risksPrompt, projectType, location)
	}
	return fmt.Sprintf(tipsPrompt, projectType, location)
}

// historyToTranscript flattens prior chat turns for logging.
func historyToTranscript(history []ChatMessage) string {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}
