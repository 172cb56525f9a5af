// internal/workers/data-access/search-pois/queries/builder.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"poi-workers/internal/models"
)

const maxSize = 100

var (
	ErrMissingIndex  = errors.New("index name is required")
	ErrIndexNotFound = errors.New("index not found")
)

// SearchQuery describes one fresh POI search.
type SearchQuery struct {
	Index    string
	Text     string
	Category string
	Location *models.Coordinates
	RadiusKm float64
	Size     int
}

// BuildBody returns the search body: a multi_match over the descriptive
// fields, or match_all when there is no text, with optional category and
// geo_distance filters.
func BuildBody(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": []string{"title^3", "category^2", "description", "amenities"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if q.Category != "" {
		filter = append(filter, map[string]interface{}{
			"match": map[string]interface{}{"category": q.Category},
		})
	}

	if q.Location != nil && q.RadiusKm > 0 {
		filter = append(filter, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%gkm", q.RadiusKm),
				"geo": map[string]interface{}{
					"lat": q.Location.Lat,
					"lon": q.Location.Lng,
				},
			},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

func BuildRequest(q SearchQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}

	body, err := json.Marshal(BuildBody(q))
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	size := q.Size
	if size < 1 {
		size = 20
	}
	if size > maxSize {
		size = maxSize
	}

	return &esapi.SearchRequest{
		Index: []string{q.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}, nil
}
