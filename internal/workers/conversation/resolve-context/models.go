// internal/workers/conversation/resolve-context/models.go
package resolvecontext

import (
	"time"

	"poi-workers/internal/models"
)

type Input struct {
	Detection       models.DetectionOutcome `json:"detection"`
	PreviousResults []models.POI            `json:"previousResults"`
	UserContext     models.UserContext      `json:"userContext"`
	Now             *time.Time              `json:"now,omitempty"`
}

type Output struct {
	POIs       []models.ScoredPOI `json:"resolvedPois"`
	Provenance models.Provenance  `json:"resolution"`
}

// Resolution is the subset of the previous list a follow-up refers to.
type Resolution struct {
	POIs       []models.POI
	Provenance models.Provenance
}
