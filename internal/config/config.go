package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Energy strategy names; selects which daily-energy derivation the gateway
// serves. The two paths intentionally keep their divergent precision and
// zero-value semantics.
const (
	EnergyStrategyStatistics = "statistics"
	EnergyStrategyLogs       = "logs"
)

type Config struct {
	Tuya           TuyaConfig
	RESTPort       string
	LogLevel       string
	EnergyStrategy string
	AllowedOrigins []string
}

// TuyaConfig holds the cloud API credentials. Loaded once at startup and
// never mutated afterwards.
type TuyaConfig struct {
	BaseURL      string
	AccessID     string
	AccessSecret string
	UID          string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Tuya: TuyaConfig{
			BaseURL:      getEnv("TUYA_API_BASE_URL", "https://openapi.tuyaus.com"),
			AccessID:     getEnv("TUYA_ACCESS_ID", ""),
			AccessSecret: getEnv("TUYA_ACCESS_SECRET", ""),
			UID:          getEnv("TUYA_UID", ""),
			Timeout:      time.Duration(getEnvAsInt("TUYA_TIMEOUT", 30)) * time.Second,
		},
		RESTPort:       getEnv("PORT", ":3001"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		EnergyStrategy: getEnv("ENERGY_STRATEGY", EnergyStrategyLogs),
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
