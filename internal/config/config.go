package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64
	MaxImageBytes      int64
	OptimizeTargetKB   int

	OllamaURL   string
	VisionModel string

	DevMode            bool
	EnableQualityCheck bool
	EnableOptimization bool
	EnableAlternatives bool
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// ModelConfigured reports whether the external vision capability is wired up.
func (c *Config) ModelConfigured() bool {
	return strings.TrimSpace(c.OllamaURL) != "" && strings.TrimSpace(c.VisionModel) != ""
}

func LoadFromEnv() (*Config, error) {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 90*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 8*1024*1024),
		MaxImageBytes:      parseIntOrDefault("MAX_IMAGE_BYTES", 5*1024*1024),
		OptimizeTargetKB:   int(parseIntOrDefault("OPTIMIZE_TARGET_KB", 4000)),
		OllamaURL:          getEnvOrDefault("OLLAMA_URL", "http://localhost:11434"),
		VisionModel:        getEnvOrDefault("VISION_MODEL", ""),
		DevMode:            parseBoolOrDefault("DEV_MODE", false),
		EnableQualityCheck: parseBoolOrDefault("ENABLE_QUALITY_CHECK", true),
		EnableOptimization: parseBoolOrDefault("ENABLE_OPTIMIZATION", true),
		EnableAlternatives: parseBoolOrDefault("ENABLE_ALTERNATIVES", true),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 || cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("size limits must be > 0 (got body=%d, image=%d)",
			cfg.MaxRequestBodySize, cfg.MaxImageBytes)
	}
	if cfg.OptimizeTargetKB <= 0 {
		return nil, fmt.Errorf("OPTIMIZE_TARGET_KB must be > 0 (got %d)", cfg.OptimizeTargetKB)
	}
	if cfg.RequestTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.AnalysisTimeout)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
