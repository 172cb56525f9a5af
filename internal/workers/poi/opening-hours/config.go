// internal/workers/poi/opening-hours/config.go
package openinghours

import "time"

type Config struct {
	Timeout time.Duration
	// Cap bounds the number of POIs kept by the open-now filter.
	Cap int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Cap:     20,
	}
}
