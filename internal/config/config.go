package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port               string
	DBUrl              string
	JWTSecret          string
	SupabaseURL        string
	SupabaseBucket     string
	SupabaseServiceKey string
	AppEnv             string
	EnableDocs         bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.S().Info("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBUrl:              getEnv("DB_URL", ""),
		JWTSecret:          jwtSecret,
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		AppEnv:             normalizeEnv(getEnv("APP_ENV", "production")),
		EnableDocs:         getEnvBool("ENABLE_API_DOCS", false),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}
