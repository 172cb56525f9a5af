// internal/workers/data-access/search-pois/queries/execute.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"poi-workers/internal/models"
)

type QueryResult struct {
	POIs      []models.POI
	TotalHits int64
	Took      int64
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string      `json:"_id"`
			Score  *float64    `json:"_score"`
			Source poiDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// poiDocument is the indexed shape of a POI; _id is its stable id.
type poiDocument struct {
	Title    string             `json:"title"`
	Category string             `json:"category"`
	Metadata models.POIMetadata `json:"metadata"`
}

// Execute runs the search and maps hits to POIs. Hit scores are divided by
// the response max_score so every Score lands in [0,1].
func Execute(ctx context.Context, client *elasticsearch.Client, q SearchQuery) (*QueryResult, error) {
	req, err := BuildRequest(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, q.Index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	maxScore := 0.0
	if r.Hits.MaxScore != nil {
		maxScore = *r.Hits.MaxScore
	}

	pois := make([]models.POI, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		score := 0.0
		if hit.Score != nil && maxScore > 0 {
			score = *hit.Score / maxScore
		}
		pois = append(pois, models.POI{
			ID:       hit.ID,
			Title:    hit.Source.Title,
			Category: hit.Source.Category,
			Score:    score,
			Metadata: hit.Source.Metadata,
		})
	}

	return &QueryResult{
		POIs:      pois,
		TotalHits: r.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
