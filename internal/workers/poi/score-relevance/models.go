// internal/workers/poi/score-relevance/models.go
package scorerelevance

import (
	"time"

	"poi-workers/internal/models"
)

type Input struct {
	POIs        []models.POI       `json:"pois"`
	UserContext models.UserContext `json:"userContext"`
	// Utterance is used to detect a dietary intent when the context has none.
	Utterance  string            `json:"utterance,omitempty"`
	SearchType models.SearchType `json:"searchType,omitempty"`
	Now        *time.Time        `json:"now,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

type Output struct {
	Ranked        []models.ScoredPOI    `json:"rankedPois"`
	DietaryIntent *models.DietaryIntent `json:"dietaryIntent,omitempty"`
	TotalScored   int                   `json:"totalScored"`
}
