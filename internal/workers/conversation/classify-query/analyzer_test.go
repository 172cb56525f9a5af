package classifyquery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi-workers/internal/common/logger"
)

func TestHTTPAnalyzer_AnalyzeFollowUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/analyze-follow-up", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what about the second one", req.Utterance)
		require.Len(t, req.PreviousResults, 3)
		assert.Equal(t, "poi-b", req.PreviousResults[1].ID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isFollowUp": true, "confidence": 0.92, "intent": "details", "targetPOI": "second"}`))
	}))
	defer server.Close()

	cfg := createTestConfig()
	cfg.GenAIBaseURL = server.URL
	cfg.GenAIAPIKey = "secret"

	analysis, err := NewHTTPAnalyzer(cfg, logger.NewTestLogger(t)).AnalyzeFollowUp(context.Background(), "what about the second one", previousTurn())
	require.NoError(t, err)
	assert.True(t, analysis.IsFollowUp)
	assert.Equal(t, 0.92, analysis.Confidence)
	assert.Equal(t, "second", analysis.TargetPOI)
}

func TestHTTPAnalyzer_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := createTestConfig()
	cfg.GenAIBaseURL = server.URL

	_, err := NewHTTPAnalyzer(cfg, logger.NewTestLogger(t)).AnalyzeFollowUp(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrAnalyzerFailed)
}

func TestHTTPAnalyzer_BreakerOpensAndStopsCalls(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := createTestConfig()
	cfg.GenAIBaseURL = server.URL
	cfg.Breaker = BreakerSettings{MinRequests: 3, FailureRatio: 0.5, OpenTimeout: time.Minute, HalfOpenMaxCalls: 1}
	analyzer := NewHTTPAnalyzer(cfg, logger.NewTestLogger(t))

	for i := 0; i < 3; i++ {
		_, err := analyzer.AnalyzeFollowUp(context.Background(), "x", nil)
		assert.ErrorIs(t, err, ErrAnalyzerFailed)
	}

	_, err := analyzer.AnalyzeFollowUp(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrAnalyzerUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPAnalyzer_TimeoutSurfacesDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	cfg := createTestConfig()
	cfg.GenAIBaseURL = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := NewHTTPAnalyzer(cfg, logger.NewTestLogger(t)).AnalyzeFollowUp(ctx, "x", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
