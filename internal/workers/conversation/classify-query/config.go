// internal/workers/conversation/classify-query/config.go
package classifyquery

import (
	"time"

	"poi-workers/internal/common/config"
)

// Confidences are the calibration constants reported by each heuristic tier.
type Confidences struct {
	Positional float64
	Mention    float64
	Keyword    float64
	General    float64
}

type BreakerSettings struct {
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

type Config struct {
	Timeout               time.Duration
	SemanticEnabled       bool
	SemanticTimeout       time.Duration
	SemanticMinConfidence float64
	CacheTTL              time.Duration
	GenAIBaseURL          string
	GenAIAPIKey           string
	Confidence            Confidences
	Breaker               BreakerSettings
}

func LoadConfig() *Config {
	return &Config{
		Timeout:               5 * time.Second,
		SemanticEnabled:       false,
		SemanticTimeout:       1500 * time.Millisecond,
		SemanticMinConfidence: 0.6,
		CacheTTL:              5 * time.Minute,
		Confidence: Confidences{
			Positional: 0.9,
			Mention:    0.8,
			Keyword:    0.7,
			General:    0.5,
		},
		Breaker: BreakerSettings{
			MinRequests:      5,
			FailureRatio:     0.5,
			OpenTimeout:      30 * time.Second,
			HalfOpenMaxCalls: 1,
		},
	}
}

// ConfigFromApp builds the classifier settings from the application config.
func ConfigFromApp(cfg *config.Config) *Config {
	r := cfg.Resolver
	c := LoadConfig()
	c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)
	c.SemanticEnabled = r.SemanticEnabled && cfg.APIs.GenAI.BaseURL != ""
	c.SemanticTimeout = config.GetDuration(r.SemanticTimeout)
	c.SemanticMinConfidence = r.SemanticMinConfidence
	c.CacheTTL = time.Duration(r.SemanticCacheTTL) * time.Second
	c.GenAIBaseURL = cfg.APIs.GenAI.BaseURL
	c.GenAIAPIKey = cfg.APIs.GenAI.APIKey
	c.Confidence = Confidences{
		Positional: r.Confidence.Positional,
		Mention:    r.Confidence.Mention,
		Keyword:    r.Confidence.Keyword,
		General:    r.Confidence.General,
	}
	c.Breaker = BreakerSettings{
		MinRequests:      r.Breaker.MinRequests,
		FailureRatio:     r.Breaker.FailureRatio,
		OpenTimeout:      config.GetDuration(r.Breaker.OpenTimeout),
		HalfOpenMaxCalls: r.Breaker.HalfOpenMaxCall,
	}
	return c
}
