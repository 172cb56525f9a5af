// internal/workers/conversation/classify-query/models.go
package classifyquery

import "poi-workers/internal/models"

type Input struct {
	Utterance       string       `json:"utterance"`
	PreviousResults []models.POI `json:"previousResults"`
}

type Output struct {
	Detection models.DetectionOutcome `json:"detection"`
}

// FollowUpAnalysis is the semantic analyzer's verdict on one utterance.
type FollowUpAnalysis struct {
	IsFollowUp          bool    `json:"isFollowUp"`
	Confidence          float64 `json:"confidence"`
	Intent              string  `json:"intent,omitempty"`
	TargetPOI           string  `json:"targetPOI,omitempty"`
	TimeRelated         bool    `json:"timeRelated"`
	OpeningHoursRelated bool    `json:"openingHoursRelated"`
	Reasoning           string  `json:"reasoning,omitempty"`
}

type analyzeRequest struct {
	Utterance       string        `json:"utterance"`
	PreviousResults []previousRef `json:"previousResults"`
}

type previousRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

func toPreviousRefs(pois []models.POI) []previousRef {
	refs := make([]previousRef, len(pois))
	for i, p := range pois {
		refs[i] = previousRef{ID: p.ID, Title: p.Title, Category: p.Category}
	}
	return refs
}
