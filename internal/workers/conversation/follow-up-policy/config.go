// internal/workers/conversation/follow-up-policy/config.go
package followuppolicy

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
