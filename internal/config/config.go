package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	VisionCacheTTL time.Duration
	CORSOrigins    []string
	AdminSecret    string
	CatalogPath    string
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads .env (if present) and the process environment. Environment
// variables always win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8081")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("VISION_CACHE_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ADMIN_SECRET", "")
	v.SetDefault("CATALOG_PATH", "")

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Env:            v.GetString("ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		VisionCacheTTL: v.GetDuration("VISION_CACHE_TTL"),
		CORSOrigins:    splitCSV(v.GetString("CORS_ORIGINS")),
		AdminSecret:    v.GetString("ADMIN_SECRET"),
		CatalogPath:    v.GetString("CATALOG_PATH"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.VisionCacheTTL <= 0 {
		return fmt.Errorf("VISION_CACHE_TTL must be a positive duration")
	}
	if cfg.IsProduction() && cfg.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is required in production")
	}
	return nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
