// internal/workers/conversation/resolve-context/config.go
package resolvecontext

import (
	"time"

	scorerelevance "poi-workers/internal/workers/poi/score-relevance"
)

type Config struct {
	Timeout time.Duration
	Scoring *scorerelevance.Config
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Scoring: scorerelevance.LoadConfig(),
	}
}
