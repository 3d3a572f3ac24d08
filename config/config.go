package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName     = "menu-translator"
	Version     = "0.1.0"
	EnvFileName = "config.env"
)

// Defaults for values not set in the environment.
const (
	DefaultPort            = 5011
	DefaultMaxUploadSizeMB = 10
	DefaultTargetCurrency  = "EUR"
	DefaultModel           = "gpt-5-mini"
	DefaultCacheDBPath     = ".cache/cache.db"
	DefaultImageSearchRPS  = 1 / 0.7
	DefaultLogLevel        = "info"
)

type Config struct {
	Port                  int
	MaxUploadSizeMB       int
	DefaultTargetCurrency string
	DefaultModel          string
	CacheDBPath           string
	ForexCacheTTL         time.Duration
	ImageSearchRPS        float64
	LogLevel              string

	OpenAIAPIKey string
	GeminiAPIKey string
	BraveAPIKey  string
	BotToken     string
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory and from .env in the working directory. Errors are
// ignored since the files may not exist. Variables already set win.
func LoadEnvFile() {
	if configBase, err := os.UserConfigDir(); err == nil {
		_ = godotenv.Load(filepath.Join(configBase, AppName, EnvFileName))
	}
	_ = godotenv.Load()
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DefaultTargetCurrency: stringOr(getenv("DEFAULT_TARGET_CURRENCY"), DefaultTargetCurrency),
		DefaultModel:          stringOr(getenv("DEFAULT_MODEL"), DefaultModel),
		CacheDBPath:           stringOr(getenv("CACHE_DB_PATH"), DefaultCacheDBPath),
		LogLevel:              stringOr(getenv("LOG_LEVEL"), DefaultLogLevel),
		OpenAIAPIKey:          getenv("OPENAI_API_KEY"),
		GeminiAPIKey:          getenv("GEMINI_API_KEY"),
		BraveAPIKey:           getenv("BRAVE_API_KEY"),
		BotToken:              getenv("BOT_TOKEN"),
	}
	cfg.DefaultTargetCurrency = strings.ToUpper(cfg.DefaultTargetCurrency)

	var err error
	if cfg.Port, err = intOr(getenv("PORT"), DefaultPort); err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if cfg.MaxUploadSizeMB, err = intOr(getenv("MAX_UPLOAD_SIZE_MB"), DefaultMaxUploadSizeMB); err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB: %w", err)
	}
	if cfg.MaxUploadSizeMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive, got %d", cfg.MaxUploadSizeMB)
	}

	cfg.ImageSearchRPS = DefaultImageSearchRPS
	if v := getenv("IMAGE_SEARCH_RPS"); v != "" {
		if cfg.ImageSearchRPS, err = strconv.ParseFloat(v, 64); err != nil || cfg.ImageSearchRPS <= 0 {
			return nil, fmt.Errorf("IMAGE_SEARCH_RPS must be a positive number, got %q", v)
		}
	}

	if v := getenv("FOREX_CACHE_TTL"); v != "" && v != "0" {
		if cfg.ForexCacheTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("FOREX_CACHE_TTL: %w", err)
		}
	}

	return cfg, nil
}

// MaxUploadBytes is the upload ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

// Missing returns the names of required variables that are not set. At
// least one vision provider key is required.
func (c *Config) Missing() []string {
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		return []string{"OPENAI_API_KEY or GEMINI_API_KEY"}
	}
	return nil
}

func (c *Config) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Value is one named, non-secret configuration value.
type Value struct {
	Key   string
	Value string
}

// Values returns the non-secret configuration in a stable order.
func (c *Config) Values() []Value {
	return []Value{
		{"project_name", AppName},
		{"project_version", Version},
		{"port", strconv.Itoa(c.Port)},
		{"max_upload_size_mb", strconv.Itoa(c.MaxUploadSizeMB)},
		{"default_target_currency", c.DefaultTargetCurrency},
		{"default_model", c.DefaultModel},
		{"cache_db_path", c.CacheDBPath},
	}
}

// Lookup returns the non-secret value named key.
func (c *Config) Lookup(key string) (string, bool) {
	key = strings.ReplaceAll(key, "-", "_")
	for _, v := range c.Values() {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
