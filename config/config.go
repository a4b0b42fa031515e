package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Features FeaturesConfig `mapstructure:"features"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int             `mapstructure:"port"`
	ReadTimeout     int             `mapstructure:"read_timeout_ms"`
	WriteTimeout    int             `mapstructure:"write_timeout_ms"`
	IdleTimeout     int             `mapstructure:"idle_timeout_ms"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout_ms"`
	MaxBodyBytes    int64           `mapstructure:"max_body_bytes"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Requests int  `mapstructure:"requests"`
	Window   int  `mapstructure:"window_ms"`
}

// ModelConfig locates the artifacts and selects the response contract.
type ModelConfig struct {
	Path       string `mapstructure:"path"`
	ScalerPath string `mapstructure:"scaler_path"`
	// Output is "probability" (raw score) or "label" (thresholded 0/1).
	Output    string  `mapstructure:"output"`
	Threshold float64 `mapstructure:"threshold"`
}

type FeaturesConfig struct {
	// UnknownCategory is "reject" or "zero".
	UnknownCategory string `mapstructure:"unknown_category"`
}

type CacheConfig struct {
	// Backend is one of none, memory, redis, tiered.
	Backend string            `mapstructure:"backend"`
	TTL     int               `mapstructure:"ttl_ms"`
	Memory  MemoryCacheConfig `mapstructure:"memory"`
	Redis   RedisConfig       `mapstructure:"redis"`
}

type MemoryCacheConfig struct {
	Size int `mapstructure:"size"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

const (
	OutputProbability = "probability"
	OutputLabel       = "label"

	UnknownCategoryReject = "reject"
	UnknownCategoryZero   = "zero"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheTiered = "tiered"
)

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
