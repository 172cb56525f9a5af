// internal/workers/data-access/search-pois/config.go
package searchpois

import "time"

type Config struct {
	Timeout     time.Duration
	Index       string
	DefaultSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		Index:       "pois",
		DefaultSize: 20,
	}
}
