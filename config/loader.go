package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads config.yaml (plus config.<env>.yaml) from ./configs or the
// working directory, then applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// MODEL_PATH, SERVER_PORT, CACHE_REDIS_ADDRESS...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "loan-risk")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout_ms", 15000)
	v.SetDefault("server.write_timeout_ms", 15000)
	v.SetDefault("server.idle_timeout_ms", 60000)
	v.SetDefault("server.shutdown_timeout_ms", 10000)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.requests", 60)
	v.SetDefault("server.rate_limit.window_ms", 60000)

	v.SetDefault("model.path", "")
	v.SetDefault("model.scaler_path", "")
	v.SetDefault("model.output", OutputProbability)
	v.SetDefault("model.threshold", 0.5)

	v.SetDefault("features.unknown_category", UnknownCategoryReject)

	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.ttl_ms", 600000)
	v.SetDefault("cache.memory.size", 4096)
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "loan-risk:prediction:")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// loadEnvFile loads .env from the working directory or the project root.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		// unset variables expand to "" so required-field checks still fire
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

func normalize(cfg *Config) {
	cfg.Model.Output = strings.ToLower(strings.TrimSpace(cfg.Model.Output))
	cfg.Features.UnknownCategory = strings.ToLower(strings.TrimSpace(cfg.Features.UnknownCategory))
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheNone
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Model.Path == "" {
		return fmt.Errorf("model.path is required")
	}

	switch cfg.Model.Output {
	case OutputProbability, OutputLabel:
	default:
		return fmt.Errorf("model.output must be %q or %q, got %q", OutputProbability, OutputLabel, cfg.Model.Output)
	}
	if cfg.Model.Threshold <= 0 || cfg.Model.Threshold >= 1 {
		return fmt.Errorf("model.threshold must be in (0, 1), got %v", cfg.Model.Threshold)
	}

	switch cfg.Features.UnknownCategory {
	case UnknownCategoryReject, UnknownCategoryZero:
	default:
		return fmt.Errorf("features.unknown_category must be %q or %q, got %q",
			UnknownCategoryReject, UnknownCategoryZero, cfg.Features.UnknownCategory)
	}

	switch cfg.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis, CacheTiered:
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required for backend %q", cfg.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend != CacheNone && cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl_ms must be positive")
	}

	if cfg.Server.RateLimit.Enabled && (cfg.Server.RateLimit.Requests <= 0 || cfg.Server.RateLimit.Window <= 0) {
		return fmt.Errorf("server.rate_limit requires positive requests and window_ms")
	}
	return nil
}
