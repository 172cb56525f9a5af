// internal/workers/data-access/fetch-poi-details/config.go
package fetchpoidetails

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
