// internal/workers/conversation/classify-query/analyzer.go
package classifyquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"

	httpclient "poi-workers/internal/common/http"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/models"
)

var (
	ErrAnalyzerUnavailable = errors.New("SEMANTIC_ANALYZER_UNAVAILABLE")
	ErrAnalyzerFailed      = errors.New("SEMANTIC_ANALYSIS_FAILED")
)

// Analyzer is the optional semantic follow-up capability. Implementations
// may fail; the classifier treats every error as "no semantic signal".
type Analyzer interface {
	AnalyzeFollowUp(ctx context.Context, utterance string, previous []models.POI) (*FollowUpAnalysis, error)
}

// HTTPAnalyzer calls the GenAI service. Calls go through a circuit breaker
// and are never retried.
type HTTPAnalyzer struct {
	client  *httpclient.Client
	breaker *gobreaker.CircuitBreaker[*FollowUpAnalysis]
	logger  logger.Logger
}

func NewHTTPAnalyzer(cfg *Config, log logger.Logger) *HTTPAnalyzer {
	a := &HTTPAnalyzer{
		client:  httpclient.NewClient(cfg.GenAIBaseURL, cfg.SemanticTimeout).WithBearerToken(cfg.GenAIAPIKey),
		logger:  log,
	}

	settings := gobreaker.Settings{
		Name:        "semantic-analyzer",
		MaxRequests: cfg.Breaker.HalfOpenMaxCalls,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.Breaker.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.Breaker.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not evidence against the analyzer.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}
	a.breaker = gobreaker.NewCircuitBreaker[*FollowUpAnalysis](settings)
	return a
}

func (a *HTTPAnalyzer) AnalyzeFollowUp(ctx context.Context, utterance string, previous []models.POI) (*FollowUpAnalysis, error) {
	result, err := a.breaker.Execute(func() (*FollowUpAnalysis, error) {
		return a.call(ctx, utterance, previous)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrAnalyzerUnavailable, err)
	}
	return result, err
}

func (a *HTTPAnalyzer) call(ctx context.Context, utterance string, previous []models.POI) (*FollowUpAnalysis, error) {
	var analysis FollowUpAnalysis
	err := a.client.PostJSON(ctx, "/api/ai/analyze-follow-up", analyzeRequest{
		Utterance:       utterance,
		PreviousResults: toPreviousRefs(previous),
	}, &analysis)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrAnalyzerFailed, err)
	}
	return &analysis, nil
}
