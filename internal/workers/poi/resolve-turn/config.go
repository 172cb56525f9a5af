// internal/workers/poi/resolve-turn/config.go
package resolveturn

import (
	"time"

	"poi-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	MaxResults      int
	OpeningHoursCap int
	// SearchRadiusKm bounds fresh searches when the user has no preference.
	SearchRadiusKm float64
	SearchSize     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		MaxResults:      10,
		OpeningHoursCap: 20,
		SearchRadiusKm:  10,
		SearchSize:      50,
	}
}

func ConfigFromApp(cfg *config.Config) *Config {
	c := LoadConfig()
	c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)
	if cfg.Resolver.MaxResults > 0 {
		c.MaxResults = cfg.Resolver.MaxResults
	}
	if cfg.Resolver.OpeningHoursCap > 0 {
		c.OpeningHoursCap = cfg.Resolver.OpeningHoursCap
	}
	if cfg.Resolver.MaxDistanceKm > 0 {
		c.SearchRadiusKm = cfg.Resolver.MaxDistanceKm
	}
	return c
}
