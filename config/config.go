package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"nqDrawdown/internal/adapters/logger" // Import the logger package for LogLevel
	"nqDrawdown/internal/marketdata"
	"nqDrawdown/internal/matcher"
)

// Config holds all application configuration.
type Config struct {
	// Instrument
	ContractSymbol     string  // Instrument label used in logs and file names
	ContractMultiplier float64 // Currency value of one price point per contract

	// Data handling
	DateOrder      marketdata.DateOrder   // Bar timestamp day/month order (auto resolves from data)
	UnpairedPolicy matcher.UnpairedPolicy // What to do with same-side adjacent orders

	// Output
	ReportsDir string
	DBPath     string

	// Logging
	LogLevel logger.LogLevel

	// Binance (bar fetch tool only)
	APIKey        string
	SecretKey     string
	IsTestnet     bool
	FetchSymbol   string
	FetchInterval string
	FetchDays     int
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Instrument
	cfg.ContractSymbol = getEnv("CONTRACT_SYMBOL", "NQ")
	cfg.ContractMultiplier, err = getEnvAsFloatRequired("CONTRACT_MULTIPLIER", 20.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CONTRACT_MULTIPLIER: %v", err))
	} else if cfg.ContractMultiplier <= 0 {
		errs = append(errs, "CONTRACT_MULTIPLIER must be positive")
	}

	// Data handling
	cfg.DateOrder, err = marketdata.ParseDateOrder(getEnv("DATE_ORDER", "auto"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DATE_ORDER: %v", err))
	}

	policy := matcher.UnpairedPolicy(strings.ToLower(getEnv("UNPAIRED_POLICY", string(matcher.SkipUnpaired))))
	if policy != matcher.SkipUnpaired && policy != matcher.RejectUnpaired {
		errs = append(errs, fmt.Sprintf("invalid UNPAIRED_POLICY %q (want skip or reject)", policy))
	}
	cfg.UnpairedPolicy = policy

	// Output
	cfg.ReportsDir = getEnv("REPORTS_DIR", "./reports")
	if cfg.ReportsDir == "" {
		errs = append(errs, "REPORTS_DIR must be set")
	}
	cfg.DBPath = getEnv("DB_PATH", "./data/drawdown.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Binance fetch tool. Keys stay optional: kline history is a public endpoint.
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)
	cfg.FetchSymbol = getEnv("FETCH_SYMBOL", "BTCUSDT")
	cfg.FetchInterval = getEnv("FETCH_INTERVAL", "1m")
	cfg.FetchDays = getEnvAsInt("FETCH_DAYS", 7)
	if cfg.FetchDays <= 0 {
		errs = append(errs, "FETCH_DAYS must be positive")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
