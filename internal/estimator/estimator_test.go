package estimator

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/resilience"
	"github.com/buildwise/costplan/pkg/anthropic"
)

// fakeClient scripts CreateMessage responses for tests.
type fakeClient struct {
	responses []string
	err       error
	calls     int
	requests  []anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.requests = append(f.requests, req)
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return &anthropic.MessageResponse{
		ID:    "msg_test",
		Model: req.Model,
		Text:  f.responses[idx],
		Usage: anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}, nil
}

func testService(client anthropic.Client) *Service {
	return New(client, Options{
		MinRequestInterval: time.Millisecond,
		Retry:              resilience.RetryConfig{MaxAttempts: 1, InitialBackoff: time.Millisecond},
	})
}

func validInputs() model.ProjectInputs {
	return model.ProjectInputs{
		Type:           model.ProjectResidential,
		Quality:        model.QualityStandard,
		Location:       "Austin, TX",
		SizeSqFt:       2_000,
		Floors:         2,
		BudgetLimit:    800_000,
		TimelineMonths: 6,
		Manpower:       10,
	}
}

const estimateJSON = `{
	"currency_symbol": "$",
	"total_estimated_cost": 600000,
	"breakdown": [
		{"category": "Materials", "cost": 300000, "description": "Standard grade materials"},
		{"category": "Labor", "cost": 200000, "description": "Crew wages"},
		{"category": "Contingency", "cost": 100000, "description": "Reserve"}
	],
	"cashflow": [
		{"month": 1, "amount": 300000, "phase": "start"},
		{"month": 2, "amount": 300000, "phase": "end"}
	],
	"confidence_score": 80,
	"confidence_reason": "comparable local projects",
	"summary": "Standard quality build."
}`

func TestEstimate_HappyPath(t *testing.T) {
	client := &fakeClient{responses: []string{estimateJSON}}
	s := testService(client)

	got, err := s.Estimate(context.Background(), validInputs())
	require.NoError(t, err)

	assert.Equal(t, 600_000.0, got.TotalEstimatedCost)
	// The 2-month cashflow disagrees with the 6-month timeline and is
	// regenerated to match it exactly.
	require.Len(t, got.Cashflow, 6)
	assert.Equal(t, 600_000.0, got.CashflowTotal())
	assert.Equal(t, 1, client.calls)
}

func TestEstimate_InvalidInputs(t *testing.T) {
	client := &fakeClient{responses: []string{estimateJSON}}
	s := testService(client)

	inputs := validInputs()
	inputs.SizeSqFt = 0
	_, err := s.Estimate(context.Background(), inputs)
	require.Error(t, err)
	assert.Zero(t, client.calls, "invalid inputs must not reach the model")
}

func TestEstimate_ModelError(t *testing.T) {
	client := &fakeClient{err: eris.New("api unavailable")}
	s := testService(client)

	_, err := s.Estimate(context.Background(), validInputs())
	assert.Error(t, err)
}

func TestEstimateOrBaseline_FallsBack(t *testing.T) {
	client := &fakeClient{err: eris.New("api unavailable")}
	s := testService(client)

	got := s.EstimateOrBaseline(context.Background(), validInputs())
	require.NotNil(t, got)
	assert.True(t, got.Consistent())
	assert.Len(t, got.Cashflow, 6)
	// Baseline confidence is deliberately modest.
	assert.Equal(t, 60.0, got.ConfidenceScore)
}

func TestChat_EmptyMessage(t *testing.T) {
	s := testService(&fakeClient{responses: []string{"hello"}})
	_, err := s.Chat(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestChat_SendsHistory(t *testing.T) {
	client := &fakeClient{responses: []string{"Concrete cures in about 28 days."}}
	s := testService(client)

	history := []ChatMessage{
		{Role: "user", Content: "How long does concrete take?"},
		{Role: "assistant", Content: "Depends on the mix."},
	}
	reply, err := s.Chat(context.Background(), history, "Be specific.")
	require.NoError(t, err)
	assert.Equal(t, "Concrete cures in about 28 days.", reply)

	require.Len(t, client.requests, 1)
	assert.Len(t, client.requests[0].Messages, 3)
	assert.Equal(t, "assistant", client.requests[0].Messages[1].Role)
}

func TestInsight_TipsHappyPath(t *testing.T) {
	client := &fakeClient{responses: []string{`["tip one", "tip two"]`}}
	s := testService(client)

	got, err := s.Insight(context.Background(), "Austin, TX", model.ProjectResidential, InsightTips)
	require.NoError(t, err)
	assert.Equal(t, []string{"tip one", "tip two"}, got.Tips)
	assert.Empty(t, got.Risks)
}

func TestInsight_RisksHappyPath(t *testing.T) {
	client := &fakeClient{responses: []string{`[{"risk": "weather", "impact": "High", "mitigation": "float"}]`}}
	s := testService(client)

	got, err := s.Insight(context.Background(), "Austin, TX", model.ProjectResidential, InsightRisks)
	require.NoError(t, err)
	require.Len(t, got.Risks, 1)
	assert.Equal(t, model.ImpactHigh, got.Risks[0].Impact)
}

func TestInsight_FallsBackToStaticLists(t *testing.T) {
	client := &fakeClient{err: eris.New("quota exhausted")}
	s := testService(client)

	tips, err := s.Insight(context.Background(), "Austin, TX", model.ProjectCommercial, InsightTips)
	require.NoError(t, err)
	assert.NotEmpty(t, tips.Tips)

	risks, err := s.Insight(context.Background(), "Austin, TX", model.ProjectCommercial, InsightRisks)
	require.NoError(t, err)
	assert.NotEmpty(t, risks.Risks)
}

func TestComparison_WithAnchorMakesNoModelCalls(t *testing.T) {
	client := &fakeClient{responses: []string{estimateJSON}}
	s := testService(client)

	anchor := &model.EstimationResult{
		TotalEstimatedCost: 1_000,
		Breakdown:          []model.CostItem{{Category: "Materials", Cost: 1_000}},
	}
	got, err := s.Comparison(context.Background(), validInputs(), anchor)
	require.NoError(t, err)

	assert.Zero(t, client.calls)
	assert.Same(t, anchor, got.Standard)
	assert.Equal(t, 700.0, got.Economy.TotalEstimatedCost)
	assert.Equal(t, 1_500.0, got.Premium.TotalEstimatedCost)
}

func TestComparison_NoAnchorEstimatesStandard(t *testing.T) {
	client := &fakeClient{responses: []string{estimateJSON}}
	s := testService(client)

	inputs := validInputs()
	inputs.Quality = model.QualityPremium // anchor tier is forced to Standard

	got, err := s.Comparison(context.Background(), inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 600_000.0, got.Standard.TotalEstimatedCost)
	assert.Less(t, got.Economy.TotalEstimatedCost, got.Premium.TotalEstimatedCost)
}

func TestComparison_PlaceholderWhenEstimationFails(t *testing.T) {
	client := &fakeClient{err: eris.New("api unavailable")}
	s := testService(client)

	got, err := s.Comparison(context.Background(), validInputs(), nil)
	require.NoError(t, err)

	assert.Equal(t, 70.0, got.Economy.ConfidenceScore)
	assert.Equal(t, 85.0, got.Standard.ConfidenceScore)
	assert.Equal(t, 80.0, got.Premium.ConfidenceScore)
	assert.Empty(t, got.Standard.Breakdown)
	assert.Len(t, got.Standard.Cashflow, validInputs().TimelineMonths)
}
