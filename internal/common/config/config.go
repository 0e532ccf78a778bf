// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Inference InferenceConfig `mapstructure:"inference"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// CatalogConfig points at the precomputed catalog artifact produced by the
// offline embedding job.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// InferenceConfig holds settings for the external inference server exposing
// the classify and embed endpoints.
type InferenceConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	ClassifyTimeout int    `mapstructure:"classify_timeout"` // milliseconds
	EmbedTimeout    int    `mapstructure:"embed_timeout"`    // milliseconds
	MaxRetries      int    `mapstructure:"max_retries"`
	// Serialize forces a single in-flight inference call at a time, for
	// backends that cannot run concurrent inference.
	Serialize bool `mapstructure:"serialize"`
}

// RankingConfig exposes the empirically tuned scoring constants.
type RankingConfig struct {
	ScoreThreshold float64 `mapstructure:"score_threshold"`
	MaxResults     int     `mapstructure:"max_results"`
}

type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
