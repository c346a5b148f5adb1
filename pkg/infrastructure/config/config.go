package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vsinha/slitter/pkg/domain/services"
)

// Config is the process configuration, read from the environment
type Config struct {
	LogLevel  string
	LogFormat string
	HTTPAddr  string
	MySQLDSN  string
	Constants services.Constants

	// CORSOrigins empty allows every origin
	CORSOrigins []string
}

// Load reads a .env file when present, then SLITTER_* variables.
// Missing variables keep their defaults.
func Load(envFiles ...string) (Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		LogLevel:  getEnv("SLITTER_LOG_LEVEL", "info"),
		LogFormat: getEnv("SLITTER_LOG_FORMAT", "json"),
		HTTPAddr:  getEnv("SLITTER_HTTP_ADDR", ":8080"),
		MySQLDSN:  os.Getenv("SLITTER_MYSQL_DSN"),
		Constants: services.DefaultConstants(),
	}
	cfg.CORSOrigins = splitAndTrim(os.Getenv("SLITTER_CORS_ORIGINS"))

	floats := []struct {
		key    string
		target *float64
	}{
		{"SLITTER_K1", &cfg.Constants.PrintingDensity},
		{"SLITTER_K2", &cfg.Constants.TubeDensity},
		{"SLITTER_PRINTING_EXTRA_M", &cfg.Constants.PrintingExtraLengthM},
		{"SLITTER_SEAL_ALLOWANCE_MM", &cfg.Constants.SealedEdgeAllowanceMm},
		{"SLITTER_ROUND_ALLOWANCE_MM", &cfg.Constants.RoundedEdgeAllowanceMm},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(os.Getenv(f.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", f.key, raw, err)
		}
		if v < 0 {
			return Config{}, fmt.Errorf("%s cannot be negative, got %v", f.key, v)
		}
		*f.target = v
	}

	if cfg.Constants.PrintingDensity <= 0 || cfg.Constants.TubeDensity <= 0 {
		return Config{}, fmt.Errorf("density constants must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
