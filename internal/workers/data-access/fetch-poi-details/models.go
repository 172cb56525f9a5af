// internal/workers/data-access/fetch-poi-details/models.go
package fetchpoidetails

import "poi-workers/internal/models"

type Input struct {
	POIIDs []string `json:"previousPoiIds"`
}

type Output struct {
	PreviousResults []models.POI `json:"previousResults"`
	Missing         []string     `json:"missingPoiIds,omitempty"`
}
