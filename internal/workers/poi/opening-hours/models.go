// internal/workers/poi/opening-hours/models.go
package openinghours

import (
	"time"

	"poi-workers/internal/models"
)

type Input struct {
	POIs []models.ScoredPOI `json:"pois"`
	// Now is the caller's local time; the worker clock is used when absent.
	Now        *time.Time `json:"now,omitempty"`
	FilterOpen bool       `json:"filterOpen"`
}

type Output struct {
	POIs        []models.ScoredPOI `json:"pois"`
	Excluded    []models.ScoredPOI `json:"excludedPois,omitempty"`
	Truncated   int                `json:"truncated"`
	EvaluatedAt time.Time          `json:"evaluatedAt"`
}

// FilterResult partitions an annotated, ranked list for an open-now answer.
type FilterResult struct {
	Included  []models.ScoredPOI
	Excluded  []models.ScoredPOI
	Truncated int
}
