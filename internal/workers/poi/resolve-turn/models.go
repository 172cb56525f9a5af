// internal/workers/poi/resolve-turn/models.go
package resolveturn

import (
	"time"

	"poi-workers/internal/models"
	followuppolicy "poi-workers/internal/workers/conversation/follow-up-policy"
)

type Input struct {
	Utterance       string             `json:"utterance"`
	SessionID       string             `json:"sessionId,omitempty"`
	Now             *time.Time         `json:"now,omitempty"`
	PreviousResults []models.POI       `json:"previousResults,omitempty"`
	PreviousPoiIDs  []string           `json:"previousPoiIds,omitempty"`
	Candidates      []models.POI       `json:"candidates,omitempty"`
	UserContext     models.UserContext `json:"userContext"`
}

// Path says whether a turn reused the previous list or searched again.
type Path string

const (
	PathReuse Path = "reuse"
	PathFresh Path = "fresh"
)

type Output struct {
	TurnID        string                  `json:"turnId"`
	SessionID     string                  `json:"sessionId,omitempty"`
	Detection     models.DetectionOutcome `json:"detection"`
	FollowUp      followuppolicy.Decision `json:"followUp"`
	Path          Path                    `json:"path"`
	Resolution    models.Provenance       `json:"resolution,omitempty"`
	DietaryIntent *models.DietaryIntent   `json:"dietaryIntent,omitempty"`
	Results       []models.ScoredPOI      `json:"results"`
	Excluded      []models.ScoredPOI      `json:"excludedPois,omitempty"`
	Filtered      bool                    `json:"openingHoursFiltered"`
	EvaluatedAt   time.Time               `json:"evaluatedAt"`
}
