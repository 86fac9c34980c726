package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// DataDir is the directory for the file-backed store. Used when
	// DatabaseURL is empty.
	DataDir string

	// DatabaseURL switches persistence to the PostgreSQL-backed store when
	// set.
	DatabaseURL string

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M" for 100
	// requests per minute per client IP.
	RateLimit string

	// CORSAllowOrigins lists the origins allowed to call the API.
	CORSAllowOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"})

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DataDir = viper.GetString("DATA_DIR")
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowOrigins = viper.GetStringSlice("CORS_ALLOW_ORIGINS")

	if cfg.DatabaseURL == "" {
		log.Printf("PGSQL_URL not set, using file-backed persistence under %s\n", cfg.DataDir)
	}

	return cfg, nil
}
