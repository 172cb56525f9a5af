// internal/workers/conversation/follow-up-policy/models.go
package followuppolicy

import "poi-workers/internal/models"

type Input struct {
	Utterance       string                  `json:"utterance"`
	Detection       models.DetectionOutcome `json:"detection"`
	PreviousResults []models.POI            `json:"previousResults,omitempty"`
	PreviousPoiIDs  []string                `json:"previousPoiIds,omitempty"`
}

type Output struct {
	Decision Decision `json:"followUp"`
}

// Signals are the lexical cues read from the utterance.
type Signals struct {
	HasPositionalWord       bool `json:"hasPositionalWord"`
	HasReferenceWord        bool `json:"hasReferenceWord"`
	HasOpeningKeywords      bool `json:"hasOpeningKeywords"`
	HasContactOrAddressWord bool `json:"hasContactOrAddressWord"`
	HasNewSearchWord        bool `json:"hasNewSearchWord"`
}

type Reason string

const (
	ReasonNoPrevious          Reason = "no-previous-results"
	ReasonClassifierSpecific  Reason = "classifier-specific"
	ReasonClassifierTarget    Reason = "classifier-target"
	ReasonNewSearchRequested  Reason = "new-search-requested"
	ReasonPositionalReference Reason = "positional-reference"
	ReasonOpeningHours        Reason = "opening-hours-question"
	ReasonReferenceDetail     Reason = "reference-with-detail"
	ReasonFreshSearch         Reason = "fresh-search"
)

type Decision struct {
	Reuse   bool    `json:"reuse"`
	Reason  Reason  `json:"reason"`
	Signals Signals `json:"signals"`
}
