// internal/workers/poi/score-relevance/scorer.go
package scorerelevance

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"poi-workers/internal/models"
)

const (
	earthRadiusKm = 6371.0
	// Batches below this size are scored on the calling goroutine.
	parallelThreshold = 16
)

// Scorer computes relevance breakdowns with fixed weights. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	weights       models.ScoringWeights
	maxDistanceKm float64
	parallelism   int
}

func NewScorer(weights models.ScoringWeights, maxDistanceKm float64, parallelism int) *Scorer {
	if maxDistanceKm <= 0 {
		maxDistanceKm = 10
	}
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Scorer{
		weights:       weights,
		maxDistanceKm: maxDistanceKm,
		parallelism:   parallelism,
	}
}

func NewScorerFromConfig(cfg *Config) *Scorer {
	return NewScorer(cfg.Weights, cfg.MaxDistanceKm, cfg.Parallelism)
}

func (s *Scorer) Weights() models.ScoringWeights {
	return s.weights
}

// Score computes every sub-score of poi for the user context at now.
func (s *Scorer) Score(poi models.POI, uc models.UserContext, now time.Time) models.ScoringBreakdown {
	text := searchableText(poi)

	b := models.ScoringBreakdown{
		Semantic:          clamp(poi.Score),
		Rating:            ratingScore(poi.Metadata.Rating),
		Distance:          s.distanceScore(uc, poi.Metadata.Coordinates),
		Freshness:         freshnessScore(poi.Metadata.LastReviewedAt, now),
		Popularity:        popularityScore(poi.Metadata),
		DietaryIntent:     dietaryScore(uc.DietaryIntent, poi.Category, text),
		CategoryRelevance: categoryScore(uc.DietaryIntent, poi.Category),
		GeneralIntent:     generalIntentScore(uc.GeneralIntentBoosts, text),
	}
	b.TotalScore = total(b, s.weights)
	return b
}

// Annotate scores pois and keeps their order.
func (s *Scorer) Annotate(pois []models.POI, uc models.UserContext, now time.Time, searchType models.SearchType, provenance models.Provenance) []models.ScoredPOI {
	breakdowns := s.scoreAll(pois, uc, now)

	out := make([]models.ScoredPOI, len(pois))
	for i, poi := range pois {
		out[i] = models.ScoredPOI{
			POI:        poi,
			Scoring:    breakdowns[i],
			SearchType: searchType,
			Provenance: provenance,
		}
	}
	return out
}

// Rank scores pois and sorts them by total score, highest first. The sort
// is stable: equal totals keep their input order.
func (s *Scorer) Rank(pois []models.POI, uc models.UserContext, now time.Time, searchType models.SearchType, provenance models.Provenance) []models.ScoredPOI {
	ranked := s.Annotate(pois, uc, now, searchType, provenance)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Scoring.TotalScore > ranked[j].Scoring.TotalScore
	})
	return ranked
}

// scoreAll writes each breakdown to its input index, so results do not
// depend on goroutine scheduling.
func (s *Scorer) scoreAll(pois []models.POI, uc models.UserContext, now time.Time) []models.ScoringBreakdown {
	out := make([]models.ScoringBreakdown, len(pois))
	if len(pois) < parallelThreshold || s.parallelism == 1 {
		for i, poi := range pois {
			out[i] = s.Score(poi, uc, now)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i := range pois {
		i := i
		g.Go(func() error {
			out[i] = s.Score(pois[i], uc, now)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func total(b models.ScoringBreakdown, w models.ScoringWeights) float64 {
	return b.Semantic*w.Semantic +
		b.Rating*w.Rating +
		b.Distance*w.Distance +
		b.Freshness*w.Freshness +
		b.Popularity*w.Popularity +
		b.DietaryIntent*w.DietaryIntent +
		b.CategoryRelevance*w.CategoryRelevance +
		b.GeneralIntent*w.GeneralIntent
}

func ratingScore(rating *float64) float64 {
	if rating == nil {
		return 0.5
	}
	return clamp(*rating / 5)
}

func (s *Scorer) distanceScore(uc models.UserContext, poi *models.Coordinates) float64 {
	if uc.Location == nil || poi == nil {
		return 0.5
	}
	maxDistance := s.maxDistanceKm
	if uc.Preferences.MaxDistanceKm > 0 {
		maxDistance = uc.Preferences.MaxDistanceKm
	}
	d := haversineKm(*uc.Location, *poi)
	return clamp(math.Exp(-d / (maxDistance / 3)))
}

func haversineKm(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func freshnessScore(reviewed *time.Time, now time.Time) float64 {
	if reviewed == nil {
		return 0.3
	}
	days := now.Sub(*reviewed).Hours() / 24
	switch {
	case days < 30:
		return 1.0
	case days < 90:
		return 0.8
	case days < 365:
		return 0.6
	default:
		return 0.4
	}
}

func popularityScore(meta models.POIMetadata) float64 {
	score := 0.1*float64(len(meta.QuestionsAndAnswers)) + 0.05*float64(len(meta.Amenities))
	return math.Max(0.1, clamp(score))
}

// dietaryScore is the share of the diet's keywords found in the POI text
// plus a boost from the intent confidence.
func dietaryScore(intent *models.DietaryIntent, category, text string) float64 {
	if intent == nil {
		return 0.5
	}
	keywords := dietKeywords[intent.Type]
	if len(keywords) == 0 {
		return 0.5
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}

	score := float64(matched)/float64(len(keywords)) + 0.3*intent.Confidence
	if (intent.Type == models.DietVegetarian || intent.Type == models.DietVegan) && categoryKind(category) == KindCafe {
		score += 0.4
	}
	return math.Max(0.1, clamp(score))
}

func categoryScore(intent *models.DietaryIntent, category string) float64 {
	if intent == nil {
		return 0.5
	}
	if v, ok := categoryRelevance[intent.Type][categoryKind(category)]; ok {
		return v
	}
	return 0.5
}

func generalIntentScore(boosts []models.IntentBoost, text string) float64 {
	if len(boosts) == 0 {
		return 0.5
	}

	sum := 0.0
	for _, boost := range boosts {
		factor := 0.1
		for _, kw := range boost.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				factor = boost.BoostFactor
				break
			}
		}
		sum += factor * boost.Confidence
	}
	return clamp(sum / float64(len(boosts)))
}

func searchableText(poi models.POI) string {
	var sb strings.Builder
	sb.WriteString(poi.Title)
	sb.WriteByte(' ')
	sb.WriteString(poi.Category)
	sb.WriteByte(' ')
	sb.WriteString(poi.Metadata.Description)
	for _, a := range poi.Metadata.Amenities {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	for _, qa := range poi.Metadata.QuestionsAndAnswers {
		sb.WriteByte(' ')
		sb.WriteString(qa.Question)
		sb.WriteByte(' ')
		sb.WriteString(qa.Answer)
	}
	return strings.ToLower(sb.String())
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
