package searchpois

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "poi-workers/internal/common/errors"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/models"
)

const searchResponse = `{
	"took": 3,
	"hits": {
		"total": {"value": 2},
		"max_score": 8.0,
		"hits": [
			{"_id": "poi-a", "_score": 8.0, "_source": {"title": "Casa Pepe", "category": "restaurant",
				"metadata": {"rating": 4.4, "openingHours": {"monday": "9 am to 5 pm"}}}},
			{"_id": "poi-b", "_score": 2.0, "_source": {"title": "El Pescador", "category": "seafood restaurant",
				"metadata": {"openingHours": "Mon: 12-23"}}}
		]
	}
}`

func createTestConfig() *Config {
	return &Config{Timeout: 2 * time.Second, Index: "pois", DefaultSize: 20}
}

// newTestClient points an Elasticsearch client at handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  []string{srv.URL},
		MaxRetries: 0,
	})
	require.NoError(t, err)
	return client
}

func TestHandler_Execute(t *testing.T) {
	var captured string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/pois/_search"))
		_, _ = w.Write([]byte(searchResponse))
	})

	h := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		Query:    "tapas",
		Location: &models.Coordinates{Lat: 36.75, Lng: -3.87},
		RadiusKm: 3,
	})
	require.NoError(t, err)

	require.Len(t, out.Candidates, 2)
	assert.Equal(t, int64(2), out.TotalHits)
	assert.Equal(t, "poi-a", out.Candidates[0].ID)
	assert.InDelta(t, 1.0, out.Candidates[0].Score, 1e-9)
	assert.InDelta(t, 0.25, out.Candidates[1].Score, 1e-9)
	require.NotNil(t, out.Candidates[0].Metadata.Rating)
	assert.Equal(t, "9 am to 5 pm", out.Candidates[0].Metadata.OpeningHours.Days["monday"])
	assert.Equal(t, "Mon: 12-23", out.Candidates[1].Metadata.OpeningHours.Text)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(captured), &body))
	assert.Contains(t, captured, "geo_distance")
	assert.Contains(t, captured, `"tapas"`)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   commonerrors.ErrorCode
	}{
		{name: "missing index", status: http.StatusNotFound, code: commonerrors.ErrCodeIndexNotFound},
		{name: "bad query", status: http.StatusBadRequest, code: commonerrors.ErrCodeSearchQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"type": "failure"}}`))
			})

			h := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), &Input{Query: "tapas"})
			require.Error(t, err)

			stdErr, ok := commonerrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		_, _ = w.Write([]byte(searchResponse))
	})

	h := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Query: "tapas"})
	stdErr, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSearchTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_OddOpeningHoursDoNotFailTheSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"took": 1,
			"hits": {
				"total": {"value": 3},
				"max_score": 4.0,
				"hits": [
					{"_id": "poi-a", "_score": 4.0, "_source": {"title": "Casa Pepe",
						"metadata": {"openingHours": ["Monday: 9 am to 5 pm", "Sunday: Closed"]}}},
					{"_id": "poi-b", "_score": 2.0, "_source": {"title": "El Pescador", "metadata": {"openingHours": 42}}},
					{"_id": "poi-c", "_score": 1.0, "_source": {"title": "Bar Sol", "metadata": {"openingHours": false}}}
				]
			}
		}`))
	})

	h := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Query: "tapas"})
	require.NoError(t, err)

	require.Len(t, out.Candidates, 3)
	assert.Equal(t, "Monday: 9 am to 5 pm\nSunday: Closed", out.Candidates[0].Metadata.OpeningHours.Text)
	assert.Equal(t, "42", out.Candidates[1].Metadata.OpeningHours.Invalid)
	assert.Equal(t, "false", out.Candidates[2].Metadata.OpeningHours.Invalid)
}
