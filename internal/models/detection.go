package models

type SearchType string

const (
	SearchTypeGeneral    SearchType = "general"
	SearchTypeSpecific   SearchType = "specific"
	SearchTypeContextual SearchType = "contextual"
	SearchTypeFollowUp   SearchType = "follow-up"
)

// DetectionMethod names the classifier tier that produced an outcome.
type DetectionMethod string

const (
	MethodSemantic   DetectionMethod = "semantic"
	MethodPositional DetectionMethod = "positional"
	MethodMention    DetectionMethod = "mention"
	MethodKeyword    DetectionMethod = "keyword"
	MethodDefault    DetectionMethod = "default"
)

type IntentRecognition struct {
	Intent              string `json:"intent,omitempty"`
	TimeRelated         bool   `json:"timeRelated"`
	OpeningHoursRelated bool   `json:"openingHoursRelated"`
}

type DetectionOutcome struct {
	SearchType  SearchType         `json:"searchType"`
	TargetPOI   string             `json:"targetPOI,omitempty"`
	TargetIndex *int               `json:"targetIndex,omitempty"`
	TargetID    string             `json:"targetId,omitempty"`
	IsSpecific  bool               `json:"isSpecific"`
	Confidence  float64            `json:"confidence"`
	Method      DetectionMethod    `json:"method"`
	Reasoning   string             `json:"reasoning,omitempty"`
	Intent      *IntentRecognition `json:"intent,omitempty"`
}

// HasTarget reports whether the outcome points at a single previous POI.
func (d DetectionOutcome) HasTarget() bool {
	return d.TargetID != "" || d.TargetIndex != nil || d.TargetPOI != ""
}

func (d DetectionOutcome) IsTimeSensitive() bool {
	return d.Intent != nil && (d.Intent.TimeRelated || d.Intent.OpeningHoursRelated)
}
