// Package estimator orchestrates the model-backed collaborators: cost
// estimation, scenario comparison anchoring, the chat assistant, and
// location insights. Everything deterministic lives in internal/scenario;
// this package owns the network edge.
package estimator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/buildwise/costplan/internal/cost"
	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/rates"
	"github.com/buildwise/costplan/internal/resilience"
	"github.com/buildwise/costplan/pkg/anthropic"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// InsightKind selects which insight list to fetch.
type InsightKind string

const (
	InsightTips  InsightKind = "tips"
	InsightRisks InsightKind = "risks"
)

// Options configures a Service.
type Options struct {
	Model              string
	MaxTokens          int64
	MinRequestInterval time.Duration
	Retry              resilience.RetryConfig
	Calculator         *cost.Calculator
}

// Service implements the estimation, chat and insight collaborators on top
// of a Claude model.
type Service struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
	calc      *cost.Calculator

	// Model calls are serialized through mu and spaced by limiter: a
	// single-slot scheduler owned here rather than shared mutable state.
	mu      sync.Mutex
	limiter *rate.Limiter
}

// New creates a Service around an Anthropic client.
func New(client anthropic.Client, opts Options) *Service {
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-5-20250929"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	if opts.MinRequestInterval <= 0 {
		opts.MinRequestInterval = 1500 * time.Millisecond
	}
	if opts.Calculator == nil {
		opts.Calculator = cost.NewCalculator(nil)
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
	}
	return &Service{
		client:    client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		retry:     opts.Retry,
		calc:      opts.Calculator,
		limiter:   rate.NewLimiter(rate.Every(opts.MinRequestInterval), 1),
	}
}

// callModel performs one serialized, rate-spaced, retried model call.
func (s *Service) callModel(ctx context.Context, operation, system string, messages []anthropic.Message) (*anthropic.MessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "estimator: rate gate")
	}

	cfg := s.retry
	cfg.OnRetry = resilience.RetryLogger(operation)

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     s.model,
			MaxTokens: s.maxTokens,
			System:    system,
			Messages:  messages,
		})
	})
	if err != nil {
		return nil, err
	}

	s.calc.Log(s.model, operation, resp.Usage)
	return resp, nil
}

// Estimate requests a cost estimate for the project from the model and
// returns it reconciled against the requested timeline.
func (s *Service) Estimate(ctx context.Context, inputs model.ProjectInputs) (*model.EstimationResult, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	started := time.Now()

	resp, err := s.callModel(ctx, "estimate", estimationSystem, []anthropic.Message{
		{Role: "user", Content: buildEstimationPrompt(inputs)},
	})
	if err != nil {
		return nil, eris.Wrap(err, "estimator: estimate")
	}

	result, err := parseEstimation(resp.Text, inputs.TimelineMonths)
	if err != nil {
		return nil, err
	}

	zap.L().Info("estimate complete",
		zap.String("request_id", requestID),
		zap.String("project_type", string(inputs.Type)),
		zap.String("quality", string(inputs.Quality)),
		zap.String("location", inputs.Location),
		zap.Float64("total", result.TotalEstimatedCost),
		zap.Float64("confidence", result.ConfidenceScore),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// EstimateOrBaseline returns a model estimate, degrading to the regional
// rate-table baseline when the collaborator fails so callers always get a
// structurally valid result.
func (s *Service) EstimateOrBaseline(ctx context.Context, inputs model.ProjectInputs) *model.EstimationResult {
	result, err := s.Estimate(ctx, inputs)
	if err == nil {
		return result
	}
	zap.L().Warn("estimation failed, using rate-table baseline",
		zap.String("location", inputs.Location),
		zap.Error(err),
	)
	return rates.Baseline(inputs)
}

// Chat answers one turn of the dashboard assistant conversation.
func (s *Service) Chat(ctx context.Context, history []ChatMessage, message string) (string, error) {
	if message == "" {
		return "", eris.New("estimator: chat message is required")
	}

	msgs := make([]anthropic.Message, 0, len(history)+1)
	for _, h := range history {
		msgs = append(msgs, anthropic.Message{Role: h.Role, Content: h.Content})
	}
	msgs = append(msgs, anthropic.Message{Role: "user", Content: message})

	resp, err := s.callModel(ctx, "chat", chatSystem, msgs)
	if err != nil {
		return "", eris.Wrap(err, "estimator: chat")
	}

	zap.L().Debug("chat turn complete",
		zap.Int("history_turns", len(history)),
		zap.Int("transcript_bytes", len(historyToTranscript(history))),
	)
	return resp.Text, nil
}
