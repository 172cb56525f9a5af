package resolvecontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi-workers/internal/common/logger"
	"poi-workers/internal/models"
	scorerelevance "poi-workers/internal/workers/poi/score-relevance"
)

func previousTurn() []models.POI {
	return []models.POI{
		{ID: "poi-a", Title: "Casa Pepe", Category: "restaurant"},
		{ID: "poi-b", Title: "El Pescador", Category: "seafood restaurant"},
		{ID: "poi-c", Title: "Aquasports Nerja", Category: "water sports"},
	}
}

func index(i int) *int { return &i }

func ids(pois []models.POI) []string {
	out := make([]string, len(pois))
	for i, p := range pois {
		out[i] = p.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		detection  models.DetectionOutcome
		want       []string
		provenance models.Provenance
	}{
		{
			name:       "by id",
			detection:  models.DetectionOutcome{TargetID: "poi-b", TargetPOI: "Casa Pepe"},
			want:       []string{"poi-b"},
			provenance: models.ProvenanceReused,
		},
		{
			name:       "by index",
			detection:  models.DetectionOutcome{TargetIndex: index(2)},
			want:       []string{"poi-c"},
			provenance: models.ProvenanceReused,
		},
		{
			name:       "index out of range falls back to the first",
			detection:  models.DetectionOutcome{TargetIndex: index(7)},
			want:       []string{"poi-a"},
			provenance: models.ProvenancePositionalFallback,
		},
		{
			name:       "title contained in the name",
			detection:  models.DetectionOutcome{TargetPOI: "aquasports"},
			want:       []string{"poi-c"},
			provenance: models.ProvenanceReused,
		},
		{
			name:       "name containing the title",
			detection:  models.DetectionOutcome{TargetPOI: "the El Pescador restaurant"},
			want:       []string{"poi-b"},
			provenance: models.ProvenanceReused,
		},
		{
			name:       "unknown title",
			detection:  models.DetectionOutcome{TargetPOI: "La Sirena"},
			want:       []string{"poi-a"},
			provenance: models.ProvenanceNameFallback,
		},
		{
			name:       "stale id",
			detection:  models.DetectionOutcome{TargetID: "poi-z"},
			want:       []string{"poi-a"},
			provenance: models.ProvenanceNameFallback,
		},
		{
			name:       "no target keeps everything",
			detection:  models.DetectionOutcome{SearchType: models.SearchTypeContextual},
			want:       []string{"poi-a", "poi-b", "poi-c"},
			provenance: models.ProvenanceAllPrevious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Select(tt.detection, previousTurn())
			assert.Equal(t, tt.want, ids(res.POIs))
			assert.Equal(t, tt.provenance, res.Provenance)
		})
	}
}

func TestSelect_EmptyPrevious(t *testing.T) {
	res := Select(models.DetectionOutcome{TargetIndex: index(0)}, nil)

	assert.Empty(t, res.POIs)
	assert.NotNil(t, res.POIs)
	assert.Equal(t, models.ProvenanceNoPrevious, res.Provenance)
}

func TestSelect_TitleCollisionPrefersID(t *testing.T) {
	previous := []models.POI{
		{ID: "cafe-1", Title: "Café Central"},
		{ID: "cafe-2", Title: "Café Central"},
	}

	byTitle := Select(models.DetectionOutcome{TargetPOI: "cafe central"}, previous)
	byID := Select(models.DetectionOutcome{TargetPOI: "cafe central", TargetID: "cafe-2"}, previous)

	assert.Equal(t, []string{"cafe-1"}, ids(byTitle.POIs), "title ties resolve to the earlier entry")
	assert.Equal(t, []string{"cafe-2"}, ids(byID.POIs))
}

func TestResolve_RescoresAsReusedFollowUp(t *testing.T) {
	rating := 4.5
	previous := previousTurn()
	previous[1].Metadata.Rating = &rating

	r := NewResolver(scorerelevance.NewScorerFromConfig(scorerelevance.LoadConfig()))
	out := r.Resolve(models.DetectionOutcome{}, previous, models.UserContext{}, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	require.Len(t, out.POIs, 3)
	assert.Equal(t, models.ProvenanceAllPrevious, out.Provenance)
	for i, poi := range out.POIs {
		assert.Equal(t, previous[i].ID, poi.ID, "previous order is kept")
		assert.Equal(t, models.SearchTypeFollowUp, poi.SearchType)
		assert.Equal(t, models.ProvenanceReused, poi.Provenance)
		assert.Greater(t, poi.Scoring.TotalScore, 0.0)
	}
	assert.InDelta(t, 0.9, out.POIs[1].Scoring.Rating, 1e-9)
}

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	out, err := h.Execute(context.Background(), &Input{
		Detection:       models.DetectionOutcome{SearchType: models.SearchTypeSpecific, TargetIndex: index(1), IsSpecific: true},
		PreviousResults: previousTurn(),
	})
	require.NoError(t, err)
	require.Len(t, out.POIs, 1)
	assert.Equal(t, "poi-b", out.POIs[0].ID)
	assert.Same(t, h.resolver, h.Resolver())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Execute(ctx, &Input{})
	assert.ErrorIs(t, err, context.Canceled)
}
