package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Resolver      ResolverConfig          `mapstructure:"resolver"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPAddress string `mapstructure:"http_address"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
	POIIndex  string   `mapstructure:"poi_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// ResolverConfig carries every tunable of the conversational POI resolver.
type ResolverConfig struct {
	Weights               WeightsConfig    `mapstructure:"weights"`
	Confidence            ConfidenceConfig `mapstructure:"confidence"`
	Breaker               BreakerConfig    `mapstructure:"breaker"`
	SemanticEnabled       bool             `mapstructure:"semantic_enabled"`
	SemanticTimeout       int              `mapstructure:"semantic_timeout"` // milliseconds
	SemanticMinConfidence float64          `mapstructure:"semantic_min_confidence"`
	SemanticCacheTTL      int              `mapstructure:"semantic_cache_ttl"` // seconds
	MaxDistanceKm         float64          `mapstructure:"max_distance_km"`
	OpeningHoursCap       int              `mapstructure:"opening_hours_cap"`
	MaxResults            int              `mapstructure:"max_results"`
}

// WeightsConfig mirrors the eight scoring factors.
type WeightsConfig struct {
	Semantic          float64 `mapstructure:"semantic"`
	Rating            float64 `mapstructure:"rating"`
	Distance          float64 `mapstructure:"distance"`
	Freshness         float64 `mapstructure:"freshness"`
	Popularity        float64 `mapstructure:"popularity"`
	DietaryIntent     float64 `mapstructure:"dietary_intent"`
	CategoryRelevance float64 `mapstructure:"category_relevance"`
	GeneralIntent     float64 `mapstructure:"general_intent"`
}

// ConfidenceConfig holds the calibration constants of the heuristic classifier tiers.
type ConfidenceConfig struct {
	Positional float64 `mapstructure:"positional"`
	Mention    float64 `mapstructure:"mention"`
	Keyword    float64 `mapstructure:"keyword"`
	General    float64 `mapstructure:"general"`
}

type BreakerConfig struct {
	MinRequests     uint32  `mapstructure:"min_requests"`
	FailureRatio    float64 `mapstructure:"failure_ratio"`
	OpenTimeout     int     `mapstructure:"open_timeout"` // milliseconds
	HalfOpenMaxCall uint32  `mapstructure:"half_open_max_calls"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
