// internal/workers/data-access/search-pois/models.go
package searchpois

import "poi-workers/internal/models"

type Input struct {
	Query    string              `json:"query"`
	Category string              `json:"category,omitempty"`
	Location *models.Coordinates `json:"location,omitempty"`
	RadiusKm float64             `json:"radiusKm,omitempty"`
	Size     int                 `json:"size,omitempty"`
}

type Output struct {
	Candidates []models.POI `json:"candidates"`
	TotalHits  int64        `json:"totalHits"`
	Took       int64        `json:"took"` // milliseconds
}
