package estimator

import (
	"context"

	"go.uber.org/zap"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/rates"
	"github.com/buildwise/costplan/pkg/anthropic"
)

// Insights holds the location-specific advice lists.
type Insights struct {
	Tips  []string         `json:"tips,omitempty"`
	Risks []model.RiskItem `json:"risks,omitempty"`
}

// Insight fetches tips or risks for a location and project type. Model
// failures degrade to the static per-type lists so the dashboard always
// has content to show.
func (s *Service) Insight(ctx context.Context, location string, projectType model.ProjectType, kind InsightKind) (*Insights, error) {
	prompt := buildInsightsPrompt(location, projectType, kind)

	resp, err := s.callModel(ctx, "insights", insightsSystem, []anthropic.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return s.staticInsights(projectType, kind, err), nil
	}

	switch kind {
	case InsightRisks:
		risks, perr := parseRisks(resp.Text)
		if perr != nil || len(risks) == 0 {
			return s.staticInsights(projectType, kind, perr), nil
		}
		return &Insights{Risks: risks}, nil
	default:
		tips, perr := parseTips(resp.Text)
		if perr != nil || len(tips) == 0 {
			return s.staticInsights(projectType, kind, perr), nil
		}
		return &Insights{Tips: tips}, nil
	}
}

// staticInsights returns the rate-table lists when the model is unavailable.
func (s *Service) staticInsights(projectType model.ProjectType, kind InsightKind, cause error) *Insights {
	zap.L().Warn("insights degraded to static list",
		zap.String("project_type", string(projectType)),
		zap.String("kind", string(kind)),
		zap.Error(cause),
	)
	if kind == InsightRisks {
		return &Insights{Risks: rates.Default().RisksFor(projectType)}
	}
	return &Insights{Tips: rates.Default().TipsFor(projectType)}
}
