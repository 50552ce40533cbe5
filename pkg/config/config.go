package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// PIS/COFINS non-cumulative regime rates, as decimal fractions.
	PISRate    decimal.Decimal
	COFINSRate decimal.Decimal

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("PIS_RATE", "0.0165")
	v.SetDefault("COFINS_RATE", "0.076")
	v.SetDefault("RATE_LIMIT", "100-M")

	dbURL := v.GetString("PGSQL_URL")
	if dbURL == "" {
		slog.Warn("PGSQL_URL environment variable not set")
	}

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	pisRate, err := decimal.NewFromString(v.GetString("PIS_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid PIS_RATE %q: %w", v.GetString("PIS_RATE"), err)
	}
	cofinsRate, err := decimal.NewFromString(v.GetString("COFINS_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid COFINS_RATE %q: %w", v.GetString("COFINS_RATE"), err)
	}

	return &Config{
		DatabaseURL:   dbURL,
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:     jwtSecret,
		PISRate:       pisRate,
		COFINSRate:    cofinsRate,
		RateLimit:     v.GetString("RATE_LIMIT"),
	}, nil
}
