// internal/workers/conversation/resolve-context/resolver.go
package resolvecontext

import (
	"time"

	"poi-workers/internal/models"
	scorerelevance "poi-workers/internal/workers/poi/score-relevance"
)

// Select picks the previous POIs a detection points at. Stable ids are
// tried before positions, positions before titles.
func Select(detection models.DetectionOutcome, previous []models.POI) Resolution {
	if len(previous) == 0 {
		return Resolution{POIs: []models.POI{}, Provenance: models.ProvenanceNoPrevious}
	}

	if detection.TargetID != "" {
		for _, poi := range previous {
			if poi.ID == detection.TargetID {
				return single(poi, models.ProvenanceReused)
			}
		}
	}

	if detection.TargetIndex != nil {
		idx := *detection.TargetIndex
		if idx < 0 || idx >= len(previous) {
			return single(previous[0], models.ProvenancePositionalFallback)
		}
		return single(previous[idx], models.ProvenanceReused)
	}

	if detection.TargetPOI != "" {
		for _, poi := range previous {
			if models.TitlesMatch(poi.Title, detection.TargetPOI) {
				return single(poi, models.ProvenanceReused)
			}
		}
		return single(previous[0], models.ProvenanceNameFallback)
	}

	if detection.TargetID != "" {
		// An id that is no longer in the list behaves like an unresolved title.
		return single(previous[0], models.ProvenanceNameFallback)
	}

	all := make([]models.POI, len(previous))
	copy(all, previous)
	return Resolution{POIs: all, Provenance: models.ProvenanceAllPrevious}
}

func single(poi models.POI, provenance models.Provenance) Resolution {
	return Resolution{POIs: []models.POI{poi}, Provenance: provenance}
}

// Resolver re-scores the selected POIs for the current turn.
type Resolver struct {
	scorer *scorerelevance.Scorer
}

func NewResolver(scorer *scorerelevance.Scorer) *Resolver {
	return &Resolver{scorer: scorer}
}

// Resolve keeps the order of the previous list; every returned POI is
// marked as a reused follow-up result.
func (r *Resolver) Resolve(detection models.DetectionOutcome, previous []models.POI, uc models.UserContext, now time.Time) *Output {
	res := Select(detection, previous)
	return &Output{
		POIs:       r.scorer.Annotate(res.POIs, uc, now, models.SearchTypeFollowUp, models.ProvenanceReused),
		Provenance: res.Provenance,
	}
}
