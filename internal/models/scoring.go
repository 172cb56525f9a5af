package models

// ScoringWeights are the per-factor multipliers of the relevance score.
type ScoringWeights struct {
	Semantic          float64 `json:"semantic"`
	Rating            float64 `json:"rating"`
	Distance          float64 `json:"distance"`
	Freshness         float64 `json:"freshness"`
	Popularity        float64 `json:"popularity"`
	DietaryIntent     float64 `json:"dietaryIntent"`
	CategoryRelevance float64 `json:"categoryRelevance"`
	GeneralIntent     float64 `json:"generalIntent"`
}

type ScoringBreakdown struct {
	Semantic          float64 `json:"semantic"`
	Rating            float64 `json:"rating"`
	Distance          float64 `json:"distance"`
	Freshness         float64 `json:"freshness"`
	Popularity        float64 `json:"popularity"`
	DietaryIntent     float64 `json:"dietaryIntent"`
	CategoryRelevance float64 `json:"categoryRelevance"`
	GeneralIntent     float64 `json:"generalIntent"`
	TotalScore        float64 `json:"totalScore"`
}

type Provenance string

const (
	ProvenanceFreshSearch        Provenance = "fresh-search"
	ProvenanceReused             Provenance = "reused"
	ProvenanceNoPrevious         Provenance = "no-previous-results"
	ProvenancePositionalFallback Provenance = "positional-fallback"
	ProvenanceNameFallback       Provenance = "name-fallback"
	ProvenanceAllPrevious        Provenance = "all-previous"
)

// ScoredPOI is a POI annotated for one turn.
type ScoredPOI struct {
	POI
	Scoring       ScoringBreakdown `json:"scoring"`
	SearchType    SearchType       `json:"searchType,omitempty"`
	Provenance    Provenance       `json:"provenance,omitempty"`
	OpeningStatus *OpeningStatus   `json:"openingStatus,omitempty"`
}
