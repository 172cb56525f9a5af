// internal/workers/poi/score-relevance/config.go
package scorerelevance

import (
	"time"

	"poi-workers/internal/common/config"
	"poi-workers/internal/models"
)

type Config struct {
	Timeout       time.Duration
	Weights       models.ScoringWeights
	MaxDistanceKm float64
	// Parallelism bounds the goroutines scoring one batch.
	Parallelism int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		Weights:       WeightsFromConfig(config.DefaultWeights()),
		MaxDistanceKm: 10,
		Parallelism:   8,
	}
}

func WeightsFromConfig(w config.WeightsConfig) models.ScoringWeights {
	return models.ScoringWeights{
		Semantic:          w.Semantic,
		Rating:            w.Rating,
		Distance:          w.Distance,
		Freshness:         w.Freshness,
		Popularity:        w.Popularity,
		DietaryIntent:     w.DietaryIntent,
		CategoryRelevance: w.CategoryRelevance,
		GeneralIntent:     w.GeneralIntent,
	}
}
