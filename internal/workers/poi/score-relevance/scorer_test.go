package scorerelevance

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi-workers/internal/common/config"
	"poi-workers/internal/models"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func createTestScorer() *Scorer {
	return NewScorer(WeightsFromConfig(config.DefaultWeights()), 10, 4)
}

func ptr[T any](v T) *T { return &v }

func TestScore_Defaults(t *testing.T) {
	b := createTestScorer().Score(models.POI{ID: "a", Title: "Plain", Score: 0.6}, models.UserContext{}, testNow)

	assert.Equal(t, 0.6, b.Semantic)
	assert.Equal(t, 0.5, b.Rating)
	assert.Equal(t, 0.5, b.Distance)
	assert.Equal(t, 0.3, b.Freshness)
	assert.Equal(t, 0.1, b.Popularity)
	assert.Equal(t, 0.5, b.DietaryIntent)
	assert.Equal(t, 0.5, b.CategoryRelevance)
	assert.Equal(t, 0.5, b.GeneralIntent)
	assert.InDelta(t, total(b, createTestScorer().Weights()), b.TotalScore, 1e-9)
}

func TestScore_SubScores(t *testing.T) {
	s := createTestScorer()

	t.Run("rating", func(t *testing.T) {
		b := s.Score(models.POI{Metadata: models.POIMetadata{Rating: ptr(4.0)}}, models.UserContext{}, testNow)
		assert.InDelta(t, 0.8, b.Rating, 1e-9)
	})

	t.Run("distance decays with range", func(t *testing.T) {
		uc := models.UserContext{Location: &models.Coordinates{Lat: 36.51, Lng: -4.88}}
		near := s.Score(models.POI{Metadata: models.POIMetadata{Coordinates: &models.Coordinates{Lat: 36.51, Lng: -4.88}}}, uc, testNow)
		far := s.Score(models.POI{Metadata: models.POIMetadata{Coordinates: &models.Coordinates{Lat: 36.60, Lng: -4.88}}}, uc, testNow)

		assert.InDelta(t, 1.0, near.Distance, 1e-9)
		assert.Less(t, far.Distance, near.Distance)

		d := haversineKm(*uc.Location, models.Coordinates{Lat: 36.60, Lng: -4.88})
		assert.InDelta(t, math.Exp(-d/(10.0/3)), far.Distance, 1e-9)
	})

	t.Run("user max distance overrides default", func(t *testing.T) {
		uc := models.UserContext{
			Location:    &models.Coordinates{Lat: 36.51, Lng: -4.88},
			Preferences: models.Preferences{MaxDistanceKm: 30},
		}
		poi := models.POI{Metadata: models.POIMetadata{Coordinates: &models.Coordinates{Lat: 36.60, Lng: -4.88}}}
		assert.Greater(t, s.Score(poi, uc, testNow).Distance, s.Score(poi, models.UserContext{Location: uc.Location}, testNow).Distance)
	})

	t.Run("freshness steps", func(t *testing.T) {
		tests := []struct {
			age      time.Duration
			expected float64
		}{
			{10 * 24 * time.Hour, 1.0},
			{60 * 24 * time.Hour, 0.8},
			{200 * 24 * time.Hour, 0.6},
			{400 * 24 * time.Hour, 0.4},
		}
		for _, tt := range tests {
			reviewed := testNow.Add(-tt.age)
			b := s.Score(models.POI{Metadata: models.POIMetadata{LastReviewedAt: &reviewed}}, models.UserContext{}, testNow)
			assert.Equal(t, tt.expected, b.Freshness, tt.age.String())
		}
	})

	t.Run("popularity caps at one", func(t *testing.T) {
		qa := make([]models.QAItem, 8)
		amenities := make([]string, 6)
		b := s.Score(models.POI{Metadata: models.POIMetadata{QuestionsAndAnswers: qa, Amenities: amenities}}, models.UserContext{}, testNow)
		assert.Equal(t, 1.0, b.Popularity)
	})

	t.Run("general intent boosts", func(t *testing.T) {
		uc := models.UserContext{GeneralIntentBoosts: []models.IntentBoost{
			{Keywords: []string{"Terrace"}, BoostFactor: 0.9, Confidence: 1},
			{Keywords: []string{"live music"}, BoostFactor: 0.8, Confidence: 0.5},
		}}
		poi := models.POI{Title: "Sunset Bar", Metadata: models.POIMetadata{Amenities: []string{"terrace"}}}
		b := s.Score(poi, uc, testNow)
		assert.InDelta(t, (0.9*1+0.1*0.5)/2, b.GeneralIntent, 1e-9)
	})
}

func TestScore_DietaryIntent(t *testing.T) {
	s := createTestScorer()
	vegetarian := models.UserContext{DietaryIntent: &models.DietaryIntent{Type: models.DietVegetarian, Confidence: 0.9}}

	tests := []struct {
		name        string
		poi         models.POI
		dietary     float64
		categoryRel float64
	}{
		{
			name:        "plant based restaurant",
			poi:         models.POI{Title: "Green Leaf", Category: "Vegetarian restaurant", Metadata: models.POIMetadata{Description: "veggie burgers, meat-free salad"}},
			dietary:     4.0/6 + 0.27,
			categoryRel: 1.0,
		},
		{
			name:        "cafe bonus without keywords",
			poi:         models.POI{Title: "Morning Beans", Category: "Coffee shop"},
			dietary:     0.27 + 0.4,
			categoryRel: 0.8,
		},
		{
			name:        "confidence boost without keyword hits",
			poi:         models.POI{Title: "El Asador", Category: "Steakhouse"},
			dietary:     0.27,
			categoryRel: 0.1,
		},
		{
			name:        "unlisted kind is neutral",
			poi:         models.POI{Title: "Hotel Sol", Category: "Hotel"},
			dietary:     0.27,
			categoryRel: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := s.Score(tt.poi, vegetarian, testNow)
			assert.InDelta(t, tt.dietary, b.DietaryIntent, 1e-9)
			assert.InDelta(t, tt.categoryRel, b.CategoryRelevance, 1e-9)
		})
	}

	unsure := models.UserContext{DietaryIntent: &models.DietaryIntent{Type: models.DietVegetarian}}
	b := s.Score(models.POI{Title: "El Asador", Category: "Steakhouse"}, unsure, testNow)
	assert.Equal(t, 0.1, b.DietaryIntent, "floored without hits or confidence")
}

func TestTotal_MonotoneInEachSubScore(t *testing.T) {
	w := WeightsFromConfig(config.DefaultWeights())
	base := models.ScoringBreakdown{
		Semantic: 0.5, Rating: 0.5, Distance: 0.5, Freshness: 0.5,
		Popularity: 0.5, DietaryIntent: 0.5, CategoryRelevance: 0.5, GeneralIntent: 0.5,
	}
	fields := []func(*models.ScoringBreakdown) *float64{
		func(b *models.ScoringBreakdown) *float64 { return &b.Semantic },
		func(b *models.ScoringBreakdown) *float64 { return &b.Rating },
		func(b *models.ScoringBreakdown) *float64 { return &b.Distance },
		func(b *models.ScoringBreakdown) *float64 { return &b.Freshness },
		func(b *models.ScoringBreakdown) *float64 { return &b.Popularity },
		func(b *models.ScoringBreakdown) *float64 { return &b.DietaryIntent },
		func(b *models.ScoringBreakdown) *float64 { return &b.CategoryRelevance },
		func(b *models.ScoringBreakdown) *float64 { return &b.GeneralIntent },
	}

	for i, field := range fields {
		lower, higher := base, base
		*field(&lower) = 0.2
		*field(&higher) = 0.9
		assert.Greater(t, total(higher, w), total(lower, w), "factor %d", i)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	s := createTestScorer()
	pois := []models.POI{
		{ID: "tie-1", Score: 0.5},
		{ID: "best", Score: 0.9},
		{ID: "tie-2", Score: 0.5},
		{ID: "tie-3", Score: 0.5},
	}

	ranked := s.Rank(pois, models.UserContext{}, testNow, models.SearchTypeGeneral, models.ProvenanceFreshSearch)

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
		assert.Equal(t, models.SearchTypeGeneral, r.SearchType)
		assert.Equal(t, models.ProvenanceFreshSearch, r.Provenance)
	}
	assert.Equal(t, []string{"best", "tie-1", "tie-2", "tie-3"}, ids)
}

func TestRank_ParallelMatchesSequential(t *testing.T) {
	pois := make([]models.POI, 64)
	for i := range pois {
		pois[i] = models.POI{
			ID:       fmt.Sprintf("poi-%02d", i),
			Score:    float64(i%7) / 7,
			Metadata: models.POIMetadata{Rating: ptr(float64(i%5) + 0.5)},
		}
	}

	parallel := NewScorer(WeightsFromConfig(config.DefaultWeights()), 10, 8)
	sequential := NewScorer(WeightsFromConfig(config.DefaultWeights()), 10, 1)

	assert.Equal(t,
		sequential.Rank(pois, models.UserContext{}, testNow, models.SearchTypeGeneral, models.ProvenanceFreshSearch),
		parallel.Rank(pois, models.UserContext{}, testNow, models.SearchTypeGeneral, models.ProvenanceFreshSearch),
	)
}

func TestAnnotate_KeepsOrderAndInput(t *testing.T) {
	pois := []models.POI{{ID: "low", Score: 0.1}, {ID: "high", Score: 0.9}}

	out := createTestScorer().Annotate(pois, models.UserContext{}, testNow, models.SearchTypeFollowUp, models.ProvenanceReused)

	require.Len(t, out, 2)
	assert.Equal(t, "low", out[0].ID)
	assert.Equal(t, models.SearchTypeFollowUp, out[0].SearchType)
	assert.Equal(t, 0.1, pois[0].Score)
}

func TestDetectDietaryIntent(t *testing.T) {
	tests := []struct {
		utterance  string
		diet       models.DietType
		confidence float64
	}{
		{"show me vegetarian restaurants", models.DietVegetarian, 0.9},
		{"any VEGAN brunch nearby?", models.DietVegan, 0.95},
		{"I'm celiac, where can I eat", models.DietGlutenFree, 0.85},
		{"low carb dinner", models.DietKeto, 0.7},
		{"halal kebab", models.DietHalal, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			intent := DetectDietaryIntent(tt.utterance)
			require.NotNil(t, intent)
			assert.Equal(t, tt.diet, intent.Type)
			assert.Equal(t, tt.confidence, intent.Confidence)
		})
	}

	assert.Nil(t, DetectDietaryIntent("beaches near Marbella"))
	assert.Nil(t, DetectDietaryIntent("vegetables market"), "cues match whole words only")
}
